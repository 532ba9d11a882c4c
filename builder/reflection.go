// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"sort"

	"github.com/gogpu/shaderdsl/types"
)

// Reflection is a per-stage registry of tagged variables. Code generating
// a stage looks up values by tag instead of passing them around.
type Reflection struct {
	pb *ProgramBuilder
}

// Tag registers v under name in the active stage. A name can be tagged
// once per stage.
func (r *Reflection) Tag(name string, v *Var) {
	st := r.pb.active()
	checkIdent(name)
	if v == nil || v.v == nil {
		bail(types.ErrStructural, "tag %s must name a declared variable", name)
	}
	if _, dup := st.tags[name]; dup {
		bail(types.ErrStructural, "tag %s is already used", name)
	}
	st.tags[name] = v
}

// HasTag reports whether name is tagged in the active stage.
func (r *Reflection) HasTag(name string) bool {
	_, ok := r.pb.active().tags[name]
	return ok
}

// Lookup returns the variable tagged name in the active stage.
func (r *Reflection) Lookup(name string) (*Var, bool) {
	v, ok := r.pb.active().tags[name]
	return v, ok
}

// Get returns the variable tagged name, aborting the build when there is
// none.
func (r *Reflection) Get(name string) *Var {
	v, ok := r.Lookup(name)
	if !ok {
		bail(types.ErrStructural, "no variable is tagged %s", name)
	}
	return v
}

// Tags returns the tag names of the active stage in sorted order.
func (r *Reflection) Tags() []string {
	tags := r.pb.active().tags
	names := make([]string, 0, len(tags))
	for n := range tags {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Attribute returns the vertex input bound to semantic.
func (r *Reflection) Attribute(semantic string) (*Var, bool) {
	st := r.pb.active()
	for _, in := range st.ctx.Inputs {
		if in.Attribute == semantic {
			return &Var{v: in}, true
		}
	}
	return nil, false
}
