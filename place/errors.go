package place

import "fmt"

// MalformedInputError reports structurally invalid fabric or netlist data
// (duplicate identifiers, bad net or pin references). Not recoverable.
type MalformedInputError struct {
	What   string // "fabric", "netlist", ...
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed %s: %s", e.What, e.Reason)
}

func malformed(what, format string, args ...any) error {
	return &MalformedInputError{What: what, Reason: fmt.Sprintf(format, args...)}
}

// NoAvailableSlotError is returned by the port assigner when no free slot of
// an I/O cell's type remains.
type NoAvailableSlotError struct {
	Cell string
	Type string
}

func (e *NoAvailableSlotError) Error() string {
	return fmt.Sprintf("no available %s slot for I/O cell %s", e.Type, e.Cell)
}

// PlacementExhaustedError reports that a cell cannot be seated because every
// slot of its type is taken: the design does not fit the fabric.
type PlacementExhaustedError struct {
	Cell   string // empty when raised by the feasibility check
	Type   string
	Demand int
	Supply int
}

func (e *PlacementExhaustedError) Error() string {
	if e.Cell == "" {
		return fmt.Sprintf("placement exhausted for type %s: %d cells, %d slots", e.Type, e.Demand, e.Supply)
	}
	return fmt.Sprintf("placement exhausted for type %s: no slot left for cell %s (%d cells, %d slots)",
		e.Type, e.Cell, e.Demand, e.Supply)
}

// ConfigError reports an invalid configuration value. Values are never clamped.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
