// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

// Registry interns types by structural identity so that each unique type
// is declared exactly once per stage.
type Registry struct {
	types  []Type
	byID   map[string]int
	byName map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:  make([]Type, 0, 16),
		byID:   make(map[string]int, 16),
		byName: make(map[string]int, 16),
	}
}

// GetOrCreate returns the registered type structurally equal to t,
// registering t when it is new. The boolean reports whether t was added.
func (r *Registry) GetOrCreate(t Type) (Type, bool) {
	key := t.TypeID()
	if idx, ok := r.byID[key]; ok {
		return r.types[idx], false
	}
	r.byID[key] = len(r.types)
	if st, ok := t.(*StructType); ok {
		r.byName[st.Name] = len(r.types)
	}
	r.types = append(r.types, t)
	return t, true
}

// RegisterStruct registers st, failing when a different struct already
// uses the same name.
func (r *Registry) RegisterStruct(st *StructType) (*StructType, bool, error) {
	if idx, ok := r.byName[st.Name]; ok {
		existing := r.types[idx].(*StructType)
		if !Equal(existing, st) {
			return nil, false, Errorf(ErrStructural, "struct %s redefined with a different definition", st.Name)
		}
		return existing, false, nil
	}
	t, created := r.GetOrCreate(st)
	return t.(*StructType), created, nil
}

// LookupStruct finds a struct by name.
func (r *Registry) LookupStruct(name string) (*StructType, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.types[idx].(*StructType), true
}

// Lookup finds a type by identity key.
func (r *Registry) Lookup(id string) (Type, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return r.types[idx], true
}

// Types returns registered types in registration order.
func (r *Registry) Types() []Type {
	return r.types
}

// Structs returns registered structs in registration order.
func (r *Registry) Structs() []*StructType {
	var out []*StructType
	for _, t := range r.types {
		if st, ok := t.(*StructType); ok {
			out = append(out, st)
		}
	}
	return out
}

// Count returns the number of unique types registered.
func (r *Registry) Count() int {
	return len(r.types)
}
