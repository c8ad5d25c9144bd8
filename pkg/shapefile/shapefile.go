// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shapefile loads shapes declared in TOML or YAML files.
//
// A TOML shape file looks like:
//
//	name = "app"
//
//	[[members]]
//	id = "verbose"
//	kind = "switch"
//	short = "v"
//
//	[[members]]
//	id = "command"
//	kind = "cmd"
//
//	[[members.variants]]
//	name = "add"
//	aliases = ["a"]
//
//	[[members.variants.members]]
//	id = "count"
//	type = "int"
//	default = "1"
package shapefile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/yeetrun/clip/pkg/coerce"
	"github.com/yeetrun/clip/pkg/shape"
	"gopkg.in/yaml.v3"
)

// Format is a shape file encoding.
type Format int

const (
	TOML Format = iota
	YAML
)

func (f Format) String() string {
	switch f {
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	}
	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// ErrUnknownFormat is returned for paths whose extension names no format.
var ErrUnknownFormat = errors.New("unknown shape file format")

// FormatOf returns the format named by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// File is the decoded form of a shape file.
type File struct {
	Name    string `toml:"name" yaml:"name"`
	Members []Decl `toml:"members" yaml:"members"`
}

// Decl declares one member.
type Decl struct {
	ID string `toml:"id" yaml:"id"`
	// Kind is "flag" (the default), "switch", "arg" or "cmd".
	Kind  string   `toml:"kind,omitempty" yaml:"kind,omitempty"`
	Long  []string `toml:"long,omitempty" yaml:"long,omitempty"`
	Short string   `toml:"short,omitempty" yaml:"short,omitempty"`
	// Type names a coercer in coerce.Default; empty means "string".
	Type    string   `toml:"type,omitempty" yaml:"type,omitempty"`
	Choices []string `toml:"choices,omitempty" yaml:"choices,omitempty"`
	// Ports restricts a "port" member, as in "1024-65535".
	Ports string `toml:"ports,omitempty" yaml:"ports,omitempty"`
	// Arity is "one", "optional", "many", "N.." or "N..M".
	Arity    string  `toml:"arity,omitempty" yaml:"arity,omitempty"`
	Rank     *int    `toml:"rank,omitempty" yaml:"rank,omitempty"`
	Required *bool   `toml:"required,omitempty" yaml:"required,omitempty"`
	Default  *string `toml:"default,omitempty" yaml:"default,omitempty"`
	// Implicit is recorded when an optional-value flag appears bare.
	Implicit *string       `toml:"implicit,omitempty" yaml:"implicit,omitempty"`
	Split    string        `toml:"split,omitempty" yaml:"split,omitempty"`
	Help     string        `toml:"help,omitempty" yaml:"help,omitempty"`
	Variants []VariantDecl `toml:"variants,omitempty" yaml:"variants,omitempty"`
}

// VariantDecl declares a subcommand and its members.
type VariantDecl struct {
	Name    string   `toml:"name" yaml:"name"`
	Aliases []string `toml:"aliases,omitempty" yaml:"aliases,omitempty"`
	Help    string   `toml:"help,omitempty" yaml:"help,omitempty"`
	Members []Decl   `toml:"members,omitempty" yaml:"members,omitempty"`
}

// Load reads and builds the shape file at path.
func Load(path string) (*shape.Shape, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return s, nil
}

// Decode builds a shape from data. Unknown keys are rejected.
func Decode(data []byte, format Format) (*shape.Shape, error) {
	var f File
	switch format {
	case TOML:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	return f.Shape()
}

// Shape builds the declared shape.
func (f *File) Shape() (*shape.Shape, error) {
	return build(f.Name, f.Members)
}

func build(name string, decls []Decl) (*shape.Shape, error) {
	members := make([]*shape.Member, 0, len(decls))
	for _, d := range decls {
		m, err := d.member()
		if err != nil {
			return nil, fmt.Errorf("%s: member %q: %w", name, d.ID, err)
		}
		members = append(members, m)
	}
	return shape.New(name, members...)
}

func (d Decl) member() (*shape.Member, error) {
	kind := d.Kind
	if kind == "" {
		kind = "flag"
	}
	if kind == "cmd" {
		return d.command()
	}

	var opts []shape.Option
	if len(d.Long) > 0 {
		opts = append(opts, shape.Long(d.Long...))
	}
	if d.Short != "" {
		runes := []rune(d.Short)
		if len(runes) != 1 {
			return nil, fmt.Errorf("short key %q must be one character", d.Short)
		}
		opts = append(opts, shape.Short(runes[0]))
	}
	if d.Help != "" {
		opts = append(opts, shape.Help(d.Help))
	}
	if d.Split != "" {
		opts = append(opts, shape.Split(d.Split))
	}
	if d.Rank != nil {
		opts = append(opts, shape.Rank(*d.Rank))
	}
	if d.Arity != "" {
		a, err := parseArity(d.Arity)
		if err != nil {
			return nil, err
		}
		opts = append(opts, shape.WithArity(a))
	}
	if d.Required != nil {
		if *d.Required {
			opts = append(opts, shape.Required())
		} else {
			opts = append(opts, shape.NotRequired())
		}
	}
	if d.Default != nil {
		opts = append(opts, shape.DefaultText(*d.Default))
	}

	if kind == "switch" {
		return shape.Switch(d.ID, opts...), nil
	}

	c, err := d.coercer()
	if err != nil {
		return nil, err
	}
	if d.Implicit != nil {
		v, err := c.Coerce(*d.Implicit)
		if err != nil {
			return nil, fmt.Errorf("implicit value: %w", err)
		}
		opts = append(opts, shape.OptionalValue(v))
	}
	switch kind {
	case "flag":
		return shape.Flag(d.ID, c, opts...), nil
	case "arg":
		return shape.Arg(d.ID, c, opts...), nil
	}
	return nil, fmt.Errorf("unknown kind %q", d.Kind)
}

func (d Decl) command() (*shape.Member, error) {
	variants := make([]*shape.Variant, 0, len(d.Variants))
	for _, vd := range d.Variants {
		sub, err := build(vd.Name, vd.Members)
		if err != nil {
			return nil, err
		}
		v := shape.Sub(vd.Name, sub, vd.Aliases...)
		v.Help = vd.Help
		variants = append(variants, v)
	}
	m := shape.Cmd(d.ID, variants...)
	m.Help = d.Help
	return m, nil
}

func (d Decl) coercer() (coerce.Coercer, error) {
	if len(d.Choices) > 0 {
		return coerce.Choice(d.Choices...), nil
	}
	typ := d.Type
	if typ == "" {
		typ = "string"
	}
	if typ == "port" && d.Ports != "" {
		min, max, err := coerce.ParsePortRange(d.Ports)
		if err != nil {
			return nil, err
		}
		return coerce.PortRange(min, max), nil
	}
	c, ok := coerce.Default.Lookup(typ)
	if !ok {
		return nil, fmt.Errorf("unknown type %q", typ)
	}
	return c, nil
}

func parseArity(s string) (shape.Arity, error) {
	switch s {
	case "one":
		return shape.One, nil
	case "optional":
		return shape.Optional, nil
	case "many":
		return shape.Many(0, shape.Unbounded), nil
	}
	lo, hi, ok := strings.Cut(s, "..")
	if !ok {
		return shape.Arity{}, fmt.Errorf("invalid arity %q", s)
	}
	min, err := strconv.Atoi(lo)
	if err != nil {
		return shape.Arity{}, fmt.Errorf("invalid arity %q", s)
	}
	max := shape.Unbounded
	if hi != "" {
		if max, err = strconv.Atoi(hi); err != nil {
			return shape.Arity{}, fmt.Errorf("invalid arity %q", s)
		}
	}
	return shape.Many(min, max), nil
}
