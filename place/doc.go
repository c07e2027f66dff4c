// Package place provides the fixed-slot placement engine for structured-fabric chips.
//
// # Reading Guide
//
// Start with these files to understand the placement kernel:
//   - fabric.go / netlist.go: the immutable inputs (slots, pins, cells, nets)
//   - assignment.go: the single mutable entity, a bijection cell → slot
//   - greedy.go: seed & grow initial placement over the levelized order
//   - anneal.go: batched simulated annealing over same-type swaps
//
// # Pipeline
//
// Data flows one way into a mutable State:
//
//	Fabric + Netlist → Levelize → seed (port assigner) → grow → Annealer
//
// after which the clock tree builder in place/cts claims further unused
// buffer slots. Orchestration of the whole run lives in place/flow.
//
// Cell and slot types are interned into a closed CellType enumeration by a
// TypeRegistry at load time; every per-type structure is a slice indexed by
// CellType.
//
// Nothing in this package performs I/O. Loading and writing design files
// belongs to place/design and the CLI.
package place
