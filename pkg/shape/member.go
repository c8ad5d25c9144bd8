// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"strings"

	"github.com/yeetrun/clip/pkg/coerce"
)

// Kind says how a member is matched.
type Kind int

const (
	// Named members are matched by a long or short key.
	Named Kind = iota
	// Positional members are matched by rank.
	Positional
	// Command members take the discriminant token selecting a Variant and
	// hand the rest of the input to that variant's shape.
	Command
)

func (k Kind) String() string {
	switch k {
	case Named:
		return "named"
	case Positional:
		return "positional"
	case Command:
		return "command"
	}
	return "unknown"
}

// Member describes one field of a shape. Members are copied by New and
// must not be modified afterwards.
type Member struct {
	ID    string
	Kind  Kind
	Long  []string // Long keys without the leading "--"
	Short []rune
	Arity Arity
	// Required members must receive at least one value.
	Required bool
	// Default is recorded for members that received no value.
	Default    any
	HasDefault bool
	// Implicit is recorded when an OptionalValue flag appears without a value.
	Implicit any
	Coercer  coerce.Coercer
	// Rank orders positional and command members. A negative Rank is
	// assigned by New in declaration order.
	Rank int
	// Split, if set, splits each raw value into several entries.
	Split    string
	Help     string
	Variants []*Variant

	defaultText *string
	field       []int
	variants    map[string]*Variant
}

// Variant is one choice of a command member.
type Variant struct {
	Name    string
	Aliases []string
	Shape   *Shape
	Help    string

	field []int
}

// Option configures a Member.
type Option func(*Member)

// Flag returns a named member taking one value per occurrence. Without a
// Long option its long key is id.
func Flag(id string, c coerce.Coercer, opts ...Option) *Member {
	return apply(&Member{ID: id, Kind: Named, Arity: One, Coercer: c, Rank: -1}, opts)
}

// Switch returns a presence-only named member.
func Switch(id string, opts ...Option) *Member {
	return apply(&Member{ID: id, Kind: Named, Arity: Presence, Rank: -1}, opts)
}

// Arg returns a required positional member taking one value.
func Arg(id string, c coerce.Coercer, opts ...Option) *Member {
	return apply(&Member{ID: id, Kind: Positional, Arity: One, Required: true, Coercer: c, Rank: -1}, opts)
}

// Cmd returns a required command member choosing between variants.
func Cmd(id string, variants ...*Variant) *Member {
	return &Member{ID: id, Kind: Command, Arity: One, Required: true, Rank: -1, Variants: variants}
}

// Sub returns a variant named name whose arguments are parsed by s.
func Sub(name string, s *Shape, aliases ...string) *Variant {
	return &Variant{Name: name, Shape: s, Aliases: aliases}
}

func apply(m *Member, opts []Option) *Member {
	for _, opt := range opts {
		opt(m)
	}
	if m.Kind == Named && len(m.Long) == 0 {
		m.Long = []string{m.ID}
	}
	return m
}

// Long adds long keys.
func Long(names ...string) Option {
	return func(m *Member) { m.Long = append(m.Long, names...) }
}

// Short adds short keys.
func Short(keys ...rune) Option {
	return func(m *Member) { m.Short = append(m.Short, keys...) }
}

// Required marks the member as required.
func Required() Option {
	return func(m *Member) { m.Required = true }
}

// NotRequired clears the required mark. A positional member taking exactly
// one value becomes Optional.
func NotRequired() Option {
	return func(m *Member) {
		m.Required = false
		if m.Kind == Positional && m.Arity == One {
			m.Arity = Optional
		}
	}
}

// OptionalValue lets a flag appear without a value, in which case implicit
// is recorded. A value can then only be attached (--flag=value, -fvalue).
func OptionalValue(implicit any) Option {
	return func(m *Member) {
		m.Arity = Optional
		m.Implicit = implicit
	}
}

// WithArity sets the arity. Positional members with a zero minimum are no
// longer required.
func WithArity(a Arity) Option {
	return func(m *Member) {
		m.Arity = a
		if m.Kind == Positional && a.Min == 0 {
			m.Required = false
		}
	}
}

// Rank sets the positional rank.
func Rank(n int) Option {
	return func(m *Member) { m.Rank = n }
}

// Default records v for a member that receives no value.
func Default(v any) Option {
	return func(m *Member) {
		m.Default = v
		m.HasDefault = true
	}
}

// DefaultText records a default given as raw text; New coerces it with the
// member's coercer.
func DefaultText(raw string) Option {
	return func(m *Member) { m.defaultText = &raw }
}

// Split splits every raw value on sep.
func Split(sep string) Option {
	return func(m *Member) { m.Split = sep }
}

// Help sets the description.
func Help(text string) Option {
	return func(m *Member) { m.Help = text }
}

// IsPositional reports whether the member is matched by rank.
func (m *Member) IsPositional() bool {
	return m.Kind == Positional || m.Kind == Command
}

// Keys returns the member's keys in flag form ("--name", "-n").
func (m *Member) Keys() []string {
	keys := make([]string, 0, len(m.Long)+len(m.Short))
	for _, l := range m.Long {
		keys = append(keys, "--"+l)
	}
	for _, s := range m.Short {
		keys = append(keys, "-"+string(s))
	}
	return keys
}

// Display names the member in messages: its first key, or its ID.
func (m *Member) Display() string {
	if keys := m.Keys(); len(keys) > 0 {
		return keys[0]
	}
	return m.ID
}

// Variant returns the variant selected by token, compared without regard to
// case against names and aliases.
func (m *Member) Variant(token string) (*Variant, bool) {
	v, ok := m.variants[strings.ToLower(token)]
	return v, ok
}

// VariantNames returns the names of all variants in declaration order.
func (m *Member) VariantNames() []string {
	names := make([]string, 0, len(m.Variants))
	for _, v := range m.Variants {
		names = append(names, v.Name)
	}
	return names
}

// FieldIndex returns the struct field index path of a member derived by Of.
func (m *Member) FieldIndex() []int {
	return m.field
}

// FieldIndex returns the struct field index path of a variant derived by Of.
func (v *Variant) FieldIndex() []int {
	return v.field
}
