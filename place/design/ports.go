package design

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sasic-place/sasic-place/place"
)

var (
	resetName = regexp.MustCompile(`(?i)^(rst|reset)(_?n)?$`)
	busIndex  = regexp.MustCompile(`^(.+)\[(\d+)\]$`)
)

// BindPorts returns a copy of ports with every unbound port tied to a fabric
// pin, if one is left. A pin with the port's name (case-insensitive) wins;
// the remaining ports, clock and reset first and then by bus name and bit,
// take the remaining pins in fabric order. Ports that find no pin stay
// unbound and do not pull any cell toward the die edge.
func BindPorts(fab *place.Fabric, ports []place.PortSpec) []place.PortSpec {
	out := append([]place.PortSpec(nil), ports...)
	used := make(map[string]bool, len(out))
	for _, p := range out {
		if p.Pin != "" {
			used[p.Pin] = true
		}
	}
	byLower := make(map[string]string, fab.NumPins())
	for _, pin := range fab.Pins() {
		k := strings.ToLower(pin.Name)
		if _, dup := byLower[k]; !dup {
			byLower[k] = pin.Name
		}
	}

	var pending []int
	for i := range out {
		if out[i].Pin != "" {
			continue
		}
		if name, ok := byLower[strings.ToLower(out[i].Name)]; ok && !used[name] {
			out[i].Pin = name
			used[name] = true
			continue
		}
		pending = append(pending, i)
	}
	if len(pending) == 0 {
		return out
	}

	sort.SliceStable(pending, func(a, b int) bool {
		pa, pb := out[pending[a]], out[pending[b]]
		ra, rb := bindRank(pa), bindRank(pb)
		if ra != rb {
			return ra < rb
		}
		ba, ia := busKey(pa.Name)
		bb, ib := busKey(pb.Name)
		if ba != bb {
			return ba < bb
		}
		return ia < ib
	})

	next := 0
	pins := fab.Pins()
	for _, i := range pending {
		for next < len(pins) && used[pins[next].Name] {
			next++
		}
		if next == len(pins) {
			logrus.Warnf("ports: no pin left for port %s", out[i].Name)
			continue
		}
		out[i].Pin = pins[next].Name
		used[pins[next].Name] = true
		logrus.Debugf("ports: bound %s to pin %s", out[i].Name, pins[next].Name)
	}
	return out
}

func bindRank(p place.PortSpec) int {
	switch {
	case p.Clock:
		return 0
	case resetName.MatchString(p.Name):
		return 1
	default:
		return 2
	}
}

// busKey splits "data[7]" into ("data", 7). Scalar ports get bit -1.
func busKey(name string) (string, int) {
	m := busIndex.FindStringSubmatch(name)
	if m == nil {
		return name, -1
	}
	bit, err := strconv.Atoi(m[2])
	if err != nil {
		return name, -1
	}
	return m[1], bit
}
