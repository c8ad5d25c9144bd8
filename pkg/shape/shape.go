// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shape describes the members of a target aggregate: which keys
// select which member, how many values each consumes, what is required and
// which subcommands exist.
//
// Shapes are built once, validated by New, and then shared read-only by any
// number of concurrent parses.
//
//	add := shape.Must(shape.New("add",
//	    shape.Flag("count", coerce.Int, shape.Short('c')),
//	))
//	app := shape.Must(shape.New("app",
//	    shape.Switch("verbose", shape.Short('v')),
//	    shape.Cmd("command", shape.Sub("add", add)),
//	))
package shape

import (
	"slices"
	"strings"
	"unicode"

	"github.com/yeetrun/clip/pkg/argerr"
	"github.com/yeetrun/clip/pkg/coerce"
	"tailscale.com/util/set"
)

// Shape is a validated, immutable set of members.
type Shape struct {
	name        string
	members     []*Member
	byID        map[string]*Member
	long        map[string]*Member
	short       map[rune]*Member
	positionals []*Member
	command     *Member
}

// Must panics if err is non-nil. It is intended for package-level shapes.
func Must(s *Shape, err error) *Shape {
	if err != nil {
		panic(err)
	}
	return s
}

// New validates members and returns the shape. Any violation is reported
// as an argerr.DescriptorConflict error before input is ever parsed.
func New(name string, members ...*Member) (*Shape, error) {
	s := &Shape{
		name:  name,
		byID:  make(map[string]*Member, len(members)),
		long:  make(map[string]*Member),
		short: make(map[rune]*Member),
	}
	for _, in := range members {
		if in == nil {
			return nil, argerr.Conflict(name, "", "nil member")
		}
		m := *in
		m.Long = slices.Clone(in.Long)
		m.Short = slices.Clone(in.Short)
		m.Variants = slices.Clone(in.Variants)
		if err := s.add(&m); err != nil {
			return nil, err
		}
	}
	if err := s.rankPositionals(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Shape) add(m *Member) error {
	if m.ID == "" {
		return argerr.Conflict(s.name, "", "member with empty ID")
	}
	// Result maps use "@"-prefixed keys for discriminants.
	if strings.HasPrefix(m.ID, "@") {
		return argerr.Conflict(s.name, m.ID, "member ID %q is reserved", m.ID)
	}
	if _, dup := s.byID[m.ID]; dup {
		return argerr.Conflict(s.name, m.ID, "duplicate member ID %q", m.ID)
	}
	if err := m.Arity.validate(); err != nil {
		return argerr.Conflict(s.name, m.ID, "member %q: %v", m.ID, err)
	}

	switch m.Kind {
	case Named:
		if err := s.addKeys(m); err != nil {
			return err
		}
		if !m.Arity.IsPresence() && m.Coercer == nil {
			return argerr.Conflict(s.name, m.ID, "flag %q takes a value but has no coercer", m.ID)
		}
	case Positional:
		if len(m.Long) > 0 || len(m.Short) > 0 {
			return argerr.Conflict(s.name, m.ID, "positional %q cannot have keys", m.ID)
		}
		if m.Arity.IsPresence() || m.Arity.Max == 0 {
			return argerr.Conflict(s.name, m.ID, "positional %q must take at least one value", m.ID)
		}
		if m.Coercer == nil {
			return argerr.Conflict(s.name, m.ID, "positional %q has no coercer", m.ID)
		}
	case Command:
		if s.command != nil {
			return argerr.Conflict(s.name, m.ID, "second command member %q (already have %q)", m.ID, s.command.ID)
		}
		if err := s.indexVariants(m); err != nil {
			return err
		}
		if m.HasDefault || m.defaultText != nil {
			return argerr.Conflict(s.name, m.ID, "command %q cannot have a default", m.ID)
		}
		m.Arity = One
		s.command = m
	default:
		return argerr.Conflict(s.name, m.ID, "member %q has unknown kind %d", m.ID, int(m.Kind))
	}

	if m.Split != "" && m.Arity.IsPresence() {
		return argerr.Conflict(s.name, m.ID, "presence flag %q cannot split values", m.ID)
	}
	if err := s.resolveDefault(m); err != nil {
		return err
	}

	s.byID[m.ID] = m
	s.members = append(s.members, m)
	if m.IsPositional() {
		s.positionals = append(s.positionals, m)
	}
	return nil
}

func (s *Shape) addKeys(m *Member) error {
	if len(m.Long) == 0 && len(m.Short) == 0 {
		return argerr.Conflict(s.name, m.ID, "flag %q has no keys", m.ID)
	}
	for _, l := range m.Long {
		if l == "" || strings.HasPrefix(l, "-") || strings.ContainsAny(l, "= \t") {
			return argerr.Conflict(s.name, m.ID, "flag %q has malformed long key %q", m.ID, l)
		}
		if other, dup := s.long[l]; dup {
			return argerr.Conflict(s.name, m.ID, "long key --%s used by %s and %s", l, other.ID, m.ID)
		}
		s.long[l] = m
	}
	for _, r := range m.Short {
		if r == '-' || r == '=' || unicode.IsDigit(r) || unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return argerr.Conflict(s.name, m.ID, "flag %q has malformed short key %q", m.ID, r)
		}
		if other, dup := s.short[r]; dup {
			return argerr.Conflict(s.name, m.ID, "short key -%c used by %s and %s", r, other.ID, m.ID)
		}
		s.short[r] = m
	}
	return nil
}

func (s *Shape) indexVariants(m *Member) error {
	if len(m.Variants) == 0 {
		return argerr.Conflict(s.name, m.ID, "command %q has no variants", m.ID)
	}
	m.variants = make(map[string]*Variant)
	for _, v := range m.Variants {
		if v == nil || v.Shape == nil {
			return argerr.Conflict(s.name, m.ID, "command %q has a variant without a shape", m.ID)
		}
		for _, name := range append([]string{v.Name}, v.Aliases...) {
			key := strings.ToLower(name)
			if key == "" || strings.HasPrefix(key, "-") {
				return argerr.Conflict(s.name, m.ID, "command %q has malformed variant name %q", m.ID, name)
			}
			if other, dup := m.variants[key]; dup {
				return argerr.Conflict(s.name, m.ID, "variant name %q used by %s and %s", name, other.Name, v.Name)
			}
			m.variants[key] = v
		}
	}
	return nil
}

func (s *Shape) resolveDefault(m *Member) error {
	if m.defaultText != nil {
		c := m.Coercer
		if m.Arity.IsPresence() {
			c = coerce.Bool
		}
		v, err := c.Coerce(*m.defaultText)
		if err != nil {
			return argerr.Conflict(s.name, m.ID, "default for %q: %v", m.ID, err)
		}
		m.Default = v
		m.HasDefault = true
	}
	if m.HasDefault && m.Required {
		return argerr.Conflict(s.name, m.ID, "required member %q cannot have a default", m.ID)
	}
	return nil
}

// rankPositionals assigns automatic ranks and checks that ranks are
// contiguous from zero, that only the last positional is variadic or a
// command, and that no required positional follows an optional one.
func (s *Shape) rankPositionals() error {
	taken := make(set.Set[int])
	for _, m := range s.positionals {
		if m.Rank < 0 {
			continue
		}
		if taken.Contains(m.Rank) {
			return argerr.Conflict(s.name, m.ID, "positional rank %d used twice", m.Rank)
		}
		taken.Add(m.Rank)
	}
	next := 0
	for _, m := range s.positionals {
		if m.Rank >= 0 {
			continue
		}
		for taken.Contains(next) {
			next++
		}
		m.Rank = next
		taken.Add(next)
	}
	slices.SortStableFunc(s.positionals, func(a, b *Member) int { return a.Rank - b.Rank })

	optionalSeen := ""
	for i, m := range s.positionals {
		if m.Rank != i {
			return argerr.Conflict(s.name, m.ID, "positional ranks are not contiguous: %q has rank %d, want %d", m.ID, m.Rank, i)
		}
		last := i == len(s.positionals)-1
		if m.Kind == Positional && m.Arity.Variadic() && !last {
			return argerr.Conflict(s.name, m.ID, "variadic positional %q must be last", m.ID)
		}
		if m.Kind == Command && !last {
			return argerr.Conflict(s.name, m.ID, "command %q must be the last positional", m.ID)
		}
		if m.Required && optionalSeen != "" {
			return argerr.Conflict(s.name, m.ID, "required positional %q follows optional %q", m.ID, optionalSeen)
		}
		if !m.Required && optionalSeen == "" {
			optionalSeen = m.ID
		}
	}
	return nil
}

// Name returns the shape's name.
func (s *Shape) Name() string {
	return s.name
}

// Members returns all members in declaration order.
func (s *Shape) Members() []*Member {
	return slices.Clone(s.members)
}

// Named returns the flag and switch members in declaration order.
func (s *Shape) Named() []*Member {
	var out []*Member
	for _, m := range s.members {
		if m.Kind == Named {
			out = append(out, m)
		}
	}
	return out
}

// Member returns the member with the given ID.
func (s *Shape) Member(id string) (*Member, bool) {
	m, ok := s.byID[id]
	return m, ok
}

// ByLong returns the named member owning the long key name (without "--").
func (s *Shape) ByLong(name string) (*Member, bool) {
	m, ok := s.long[name]
	return m, ok
}

// ByShort returns the named member owning the short key r.
func (s *Shape) ByShort(r rune) (*Member, bool) {
	m, ok := s.short[r]
	return m, ok
}

// Positionals returns positional and command members in rank order.
func (s *Shape) Positionals() []*Member {
	return slices.Clone(s.positionals)
}

// Positional returns the positional member at rank.
func (s *Shape) Positional(rank int) (*Member, bool) {
	if rank < 0 || rank >= len(s.positionals) {
		return nil, false
	}
	return s.positionals[rank], true
}

// NumPositional returns the number of positional and command members.
func (s *Shape) NumPositional() int {
	return len(s.positionals)
}

// Command returns the command member, if the shape has one.
func (s *Shape) Command() (*Member, bool) {
	return s.command, s.command != nil
}

// Keys returns every named key in flag form, sorted.
func (s *Shape) Keys() []string {
	keys := make([]string, 0, len(s.long)+len(s.short))
	for l := range s.long {
		keys = append(keys, "--"+l)
	}
	for r := range s.short {
		keys = append(keys, "-"+string(r))
	}
	slices.Sort(keys)
	return keys
}
