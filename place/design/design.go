// Package design loads placement inputs from disk: a YAML design file
// describing the fabric (slots and pins) and the netlist (cells and
// top-level ports), optionally pulling the netlist from a Yosys JSON dump.
package design

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/sasic-place/sasic-place/place"
)

// File is the on-disk design schema.
type File struct {
	Name    string      `yaml:"name"`
	Fabric  FabricFile  `yaml:"fabric"`
	Netlist NetlistFile `yaml:"netlist"`
}

// FabricFile lists every slot and pin of the fabric.
type FabricFile struct {
	Slots []SlotEntry `yaml:"slots"`
	Pins  []PinEntry  `yaml:"pins"`
}

// SlotEntry is one physical slot.
type SlotEntry struct {
	Name string  `yaml:"name"`
	Type string  `yaml:"type"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// PinEntry is one top-level I/O pin.
type PinEntry struct {
	Name  string  `yaml:"name"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Layer string  `yaml:"layer"`
}

// NetlistFile holds the logical netlist, either inline or as a path to a
// Yosys JSON netlist (relative to the design file).
type NetlistFile struct {
	Yosys string      `yaml:"yosys"`
	Top   string      `yaml:"top"` // Yosys module name; empty = auto-detect
	Ports []PortEntry `yaml:"ports"`
	Cells []CellEntry `yaml:"cells"`
}

// PortEntry is one top-level port. Clock is a pointer so an explicit false
// can override name-based clock detection.
type PortEntry struct {
	Name  string `yaml:"name"`
	Net   int    `yaml:"net"`
	Pin   string `yaml:"pin"`
	Clock *bool  `yaml:"clock"`
}

// CellEntry is one logical cell.
type CellEntry struct {
	Name  string      `yaml:"name"`
	Type  string      `yaml:"type"`
	Conns Connections `yaml:"conns"`
}

// Design is a loaded, validated design.
type Design struct {
	Name    string
	Fabric  *place.Fabric
	Netlist *place.Netlist
}

var clockName = regexp.MustCompile(`(?i)^(clk|clock)$`)

// Load reads and builds the design at path. Ports without a pin are bound
// to fabric pins with BindPorts.
func Load(path string) (*Design, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading design")
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "parsing design %s", path)
	}
	if f.Name == "" {
		base := filepath.Base(path)
		f.Name = base[:len(base)-len(filepath.Ext(base))]
	}
	d, err := Build(&f, filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrapf(err, "design %s", f.Name)
	}
	return d, nil
}

// Build turns a parsed design file into fabric and netlist. dir resolves a
// relative Yosys netlist path.
func Build(f *File, dir string) (*Design, error) {
	reg := place.NewTypeRegistry()
	slots := make([]place.SlotSpec, len(f.Fabric.Slots))
	for i, s := range f.Fabric.Slots {
		slots[i] = place.SlotSpec{Name: s.Name, Type: s.Type, X: s.X, Y: s.Y}
	}
	pins := make([]place.PinSpec, len(f.Fabric.Pins))
	for i, p := range f.Fabric.Pins {
		pins[i] = place.PinSpec{Name: p.Name, X: p.X, Y: p.Y, Layer: p.Layer}
	}
	fab, err := place.NewFabric(reg, slots, pins)
	if err != nil {
		return nil, err
	}

	cells, ports, err := netlistSpecs(&f.Netlist, dir)
	if err != nil {
		return nil, err
	}
	ports = BindPorts(fab, ports)
	nl, err := place.NewNetlist(fab, cells, ports)
	if err != nil {
		return nil, err
	}
	logrus.Infof("design %s: %d slots, %d pins, %d cells, %d nets, %d ports",
		f.Name, fab.NumSlots(), fab.NumPins(), nl.NumCells(), nl.NumNets(), len(nl.Ports()))
	return &Design{Name: f.Name, Fabric: fab, Netlist: nl}, nil
}

func netlistSpecs(n *NetlistFile, dir string) ([]place.CellSpec, []place.PortSpec, error) {
	if n.Yosys != "" {
		if len(n.Cells) > 0 {
			return nil, nil, &place.MalformedInputError{What: "netlist", Reason: "inline cells and a yosys netlist are mutually exclusive"}
		}
		path := n.Yosys
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		cells, ports, err := LoadYosys(path, n.Top)
		if err != nil {
			return nil, nil, err
		}
		// Inline ports override the pin binding and clock flag of same-named
		// Yosys ports.
		return cells, mergePorts(ports, n.Ports), nil
	}

	cells := make([]place.CellSpec, len(n.Cells))
	for i, c := range n.Cells {
		cells[i] = place.CellSpec{Name: c.Name, Type: c.Type, Conns: c.Conns}
	}
	ports := make([]place.PortSpec, len(n.Ports))
	for i, p := range n.Ports {
		ports[i] = portSpec(p)
	}
	return cells, ports, nil
}

func portSpec(p PortEntry) place.PortSpec {
	clock := clockName.MatchString(p.Name)
	if p.Clock != nil {
		clock = *p.Clock
	}
	return place.PortSpec{Name: p.Name, Net: place.NetID(p.Net), Pin: p.Pin, Clock: clock}
}

func mergePorts(base []place.PortSpec, overrides []PortEntry) []place.PortSpec {
	idx := make(map[string]int, len(base))
	for i, p := range base {
		idx[p.Name] = i
	}
	for _, o := range overrides {
		i, ok := idx[o.Name]
		if !ok {
			base = append(base, portSpec(o))
			continue
		}
		if o.Pin != "" {
			base[i].Pin = o.Pin
		}
		if o.Clock != nil {
			base[i].Clock = *o.Clock
		}
	}
	return base
}
