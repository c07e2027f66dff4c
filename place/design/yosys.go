package design

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"github.com/sasic-place/sasic-place/place"
)

// yosysTop is the value Yosys writes for the "top" module attribute.
const yosysTop = "00000000000000000000000000000001"

type yosysFile struct {
	Modules map[string]yosysModule `json:"modules"`
}

type yosysModule struct {
	Attributes map[string]any       `json:"attributes"`
	Ports      map[string]yosysPort `json:"ports"`
	Cells      map[string]yosysCell `json:"cells"`
}

type yosysPort struct {
	Direction string            `json:"direction"`
	Bits      []json.RawMessage `json:"bits"`
}

type yosysCell struct {
	Type        string                       `json:"type"`
	Connections map[string][]json.RawMessage `json:"connections"`
}

// LoadYosys reads the flattened top module of a Yosys JSON netlist. Cells,
// ports and cell pins are emitted in name order; multi-bit ports become
// name[i] per bit. Constant bits ("0", "1", "x", "z") are dropped.
func LoadYosys(path, top string) ([]place.CellSpec, []place.PortSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading yosys netlist")
	}
	var f yosysFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, nil, errors.Wrapf(err, "parsing yosys netlist %s", path)
	}
	if top == "" {
		top = findTop(f.Modules)
	}
	mod, ok := f.Modules[top]
	if !ok {
		return nil, nil, &place.MalformedInputError{What: "netlist", Reason: fmt.Sprintf("yosys module %q not found in %s", top, path)}
	}

	var ports []place.PortSpec
	for _, name := range sortedKeys(mod.Ports) {
		bits := mod.Ports[name].Bits
		for i, raw := range bits {
			net, ok := netBit(raw)
			if !ok {
				continue
			}
			ports = append(ports, portSpec(PortEntry{Name: bitName(name, i, len(bits)), Net: net}))
		}
	}

	cells := make([]place.CellSpec, 0, len(mod.Cells))
	for _, name := range sortedKeys(mod.Cells) {
		c := mod.Cells[name]
		spec := place.CellSpec{Name: name, Type: c.Type}
		for _, port := range sortedKeys(c.Connections) {
			bits := c.Connections[port]
			for i, raw := range bits {
				if net, ok := netBit(raw); ok {
					spec.Conns = append(spec.Conns, place.Conn{Port: bitName(port, i, len(bits)), Net: place.NetID(net)})
				}
			}
		}
		cells = append(cells, spec)
	}
	return cells, ports, nil
}

// findTop picks the module flagged top, then a conventional name, then the
// first module by name.
func findTop(mods map[string]yosysModule) string {
	names := sortedKeys(mods)
	for _, n := range names {
		if v, ok := mods[n].Attributes["top"]; ok && (v == yosysTop || v == "1" || v == 1.0) {
			return n
		}
	}
	for _, n := range []string{"sasic_top", "top", "TOP"} {
		if _, ok := mods[n]; ok {
			return n
		}
	}
	if len(names) > 0 {
		return names[0]
	}
	return ""
}

func netBit(raw json.RawMessage) (int, bool) {
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

func bitName(name string, i, width int) string {
	if width == 1 {
		return name
	}
	return fmt.Sprintf("%s[%d]", name, i)
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
