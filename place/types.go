package place

import "sort"

// CellType identifies a cell/slot type in a TypeRegistry. Types are dense
// small integers so per-type pools can be plain slices.
type CellType int

// NoType marks an unknown type.
const NoType CellType = -1

// TypeRegistry interns type names into CellType values. It is populated while
// the fabric and netlist are loaded and is read-only afterwards.
//
// Thread-safety: NOT thread-safe during loading.
type TypeRegistry struct {
	names []string
	ids   map[string]CellType
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{ids: make(map[string]CellType)}
}

// Intern returns the CellType for name, registering it if unseen.
func (r *TypeRegistry) Intern(name string) CellType {
	if t, ok := r.ids[name]; ok {
		return t
	}
	t := CellType(len(r.names))
	r.names = append(r.names, name)
	r.ids[name] = t
	return t
}

// Lookup returns the CellType registered for name.
func (r *TypeRegistry) Lookup(name string) (CellType, bool) {
	t, ok := r.ids[name]
	return t, ok
}

// Name returns the name of t, or "" for an unknown type.
func (r *TypeRegistry) Name(t CellType) string {
	if t < 0 || int(t) >= len(r.names) {
		return ""
	}
	return r.names[t]
}

// Len returns the number of registered types.
func (r *TypeRegistry) Len() int {
	return len(r.names)
}

// Names returns all registered type names sorted alphabetically.
func (r *TypeRegistry) Names() []string {
	out := append([]string(nil), r.names...)
	sort.Strings(out)
	return out
}
