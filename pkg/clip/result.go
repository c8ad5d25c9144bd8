// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clip

import (
	"slices"

	"github.com/yeetrun/clip/pkg/shape"
	"tailscale.com/util/mak"
)

// Value is one parsed entry of a member.
type Value struct {
	Member string
	Raw    string // Raw text the value was coerced from; empty for presence flags and defaults
	Pos    int    // Stream position of the token that produced the value, or -1 for defaults
	V      any
	// Default is set when V came from the member's declared default.
	Default bool
}

// Result is the accumulator filled by a parse: every member that received
// a value maps to its entries in input order.
type Result struct {
	shape        *shape.Shape
	discriminant string
	entries      map[string][]Value
	order        []string
}

func newResult(s *shape.Shape, discriminant string) *Result {
	return &Result{shape: s, discriminant: discriminant}
}

func (r *Result) add(v Value) {
	if _, seen := r.entries[v.Member]; !seen {
		r.order = append(r.order, v.Member)
	}
	mak.Set(&r.entries, v.Member, append(r.entries[v.Member], v))
}

// Shape returns the shape the result was parsed against.
func (r *Result) Shape() *shape.Shape {
	return r.shape
}

// Discriminant returns the variant name that selected this result's shape,
// or "" for a top-level result.
func (r *Result) Discriminant() string {
	return r.discriminant
}

// Has reports whether the member has any entry, including a default.
func (r *Result) Has(id string) bool {
	return len(r.entries[id]) > 0
}

// Provided reports whether the member received a value from the input.
func (r *Result) Provided(id string) bool {
	for _, e := range r.entries[id] {
		if !e.Default {
			return true
		}
	}
	return false
}

// Count returns the number of entries for the member.
func (r *Result) Count(id string) int {
	return len(r.entries[id])
}

// Entries returns the member's entries in input order.
func (r *Result) Entries(id string) []Value {
	return slices.Clone(r.entries[id])
}

// Get returns the last value recorded for the member.
func (r *Result) Get(id string) (any, bool) {
	e := r.entries[id]
	if len(e) == 0 {
		return nil, false
	}
	return e[len(e)-1].V, true
}

// Values returns every value recorded for the member.
func (r *Result) Values(id string) []any {
	e := r.entries[id]
	out := make([]any, len(e))
	for i, v := range e {
		out[i] = v.V
	}
	return out
}

// Sub returns the nested result recorded under a command member.
func (r *Result) Sub(id string) (*Result, bool) {
	v, ok := r.Get(id)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*Result)
	return sub, ok
}

// Subcommand returns the selected variant and its result, if the shape has
// a command member that was matched.
func (r *Result) Subcommand() (string, *Result, bool) {
	cmd, ok := r.shape.Command()
	if !ok {
		return "", nil, false
	}
	sub, ok := r.Sub(cmd.ID)
	if !ok {
		return "", nil, false
	}
	return sub.discriminant, sub, true
}

// Touched returns the IDs of members with entries, in the order they were
// first recorded.
func (r *Result) Touched() []string {
	return slices.Clone(r.order)
}

// Map returns the result as plain data: member ID to a single value, a
// list for repeating members, or a nested map for subcommands. The nested
// map records its discriminant under the key "@variant".
func (r *Result) Map() map[string]any {
	out := make(map[string]any, len(r.order)+1)
	if r.discriminant != "" {
		out[VariantKey] = r.discriminant
	}
	for _, id := range r.order {
		m, _ := r.shape.Member(id)
		if sub, ok := r.Sub(id); ok {
			out[id] = sub.Map()
			continue
		}
		if m != nil && (m.Arity.IsMany() || m.Split != "") {
			out[id] = r.Values(id)
			continue
		}
		v, _ := r.Get(id)
		out[id] = v
	}
	return out
}

// VariantKey is the Map key holding a subcommand's discriminant.
const VariantKey = "@variant"
