package design

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/sasic-place/sasic-place/place"
)

// WriteMap writes one "cell slot" line per placed cell, the format
// downstream netlist and DEF writers consume.
func WriteMap(w io.Writer, rows []place.Row) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		if _, err := fmt.Fprintf(bw, "%s %s\n", r.Cell, r.Slot); err != nil {
			return errors.Wrap(err, "writing placement map")
		}
	}
	return errors.Wrap(bw.Flush(), "writing placement map")
}

// ReadMap parses a placement map into cell → slot name pairs. Blank lines
// and lines starting with '#' are ignored.
func ReadMap(r io.Reader) (map[string]string, error) {
	out := make(map[string]string)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, errors.Errorf("placement map line %d: want \"cell slot\", got %q", line, text)
		}
		if _, dup := out[fields[0]]; dup {
			return nil, errors.Errorf("placement map line %d: cell %s listed twice", line, fields[0])
		}
		out[fields[0]] = fields[1]
	}
	return out, errors.Wrap(sc.Err(), "reading placement map")
}

// ApplyMap rebuilds a placement state from a map read with ReadMap. Cells
// missing from the design are an error; cells absent from the map stay
// unplaced. Map entries naming cells outside the netlist (CTS buffers) are
// claimed onto their slots.
func ApplyMap(d *Design, m map[string]string) (*place.State, error) {
	s := place.NewState(d.Fabric, d.Netlist)
	slotIdx := make(map[string]place.SlotID, d.Fabric.NumSlots())
	for _, sl := range d.Fabric.Slots() {
		slotIdx[sl.Name] = sl.ID
	}
	var extra []string
	for _, cell := range sortedKeys(m) {
		slot, ok := slotIdx[m[cell]]
		if !ok {
			return nil, errors.Errorf("placement map: cell %s on unknown slot %s", cell, m[cell])
		}
		c, ok := d.Netlist.CellByName(cell)
		if !ok {
			extra = append(extra, cell)
			continue
		}
		if err := s.Assign.Assign(c, slot); err != nil {
			return nil, errors.Wrap(err, "placement map")
		}
		s.Index.Remove(slot)
	}
	for _, cell := range extra {
		slot := slotIdx[m[cell]]
		if _, err := s.Assign.Claim(cell, slot); err != nil {
			return nil, errors.Wrap(err, "placement map")
		}
		s.Index.Remove(slot)
	}
	return s, nil
}
