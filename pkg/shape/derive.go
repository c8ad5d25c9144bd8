// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/yeetrun/clip/pkg/argerr"
	"github.com/yeetrun/clip/pkg/coerce"
)

// CommandID is the ID of the command member derived from `cmd` fields.
const CommandID = "command"

type derived struct {
	shape *Shape
	err   error
}

var derivedShapes sync.Map // reflect.Type -> derived

// Of derives a shape from the struct type of v (a struct or a pointer to
// one) using field tags:
//
//	flag:"name"      long key (defaults to the lower-cased field name; "-" skips the field)
//	short:"n"        short key
//	pos:"0"          required positional at rank 0; "0?" optional, "0*" zero or more, "0+" one or more
//	cmd:"name"       pointer-to-struct field selected by the subcommand "name"
//	aliases:"a,b"    extra names for a cmd field
//	default:"text"   default, coerced like a provided value
//	required:"true"  flag must be present
//	sep:","          split each value on the separator
//	port:"min-max"   accepted range for Port fields
//	help:"text"      description
//
// Bool fields are presence switches and slice fields accept repeated
// values. Results are cached per type.
func Of(v any) (*Shape, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, argerr.Conflict("", "", "cannot derive a shape from nil")
	}
	return OfType(t)
}

// OfType is Of for a reflect.Type.
func OfType(t reflect.Type) (*Shape, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if d, ok := derivedShapes.Load(t); ok {
		d := d.(derived)
		return d.shape, d.err
	}
	s, err := derive(t)
	d, _ := derivedShapes.LoadOrStore(t, derived{shape: s, err: err})
	return d.(derived).shape, d.(derived).err
}

func derive(t reflect.Type) (*Shape, error) {
	name := strings.ToLower(t.Name())
	if t.Kind() != reflect.Struct {
		return nil, argerr.Conflict(name, "", "%s is not a struct", t)
	}

	var members []*Member
	var variants []*Variant
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Tag.Get("flag") == "-" {
			continue
		}

		if cmd, ok := field.Tag.Lookup("cmd"); ok {
			v, err := deriveVariant(name, field, cmd)
			if err != nil {
				return nil, err
			}
			variants = append(variants, v)
			continue
		}

		m, err := deriveMember(name, field)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if len(variants) > 0 {
		cmd := Cmd(CommandID, variants...)
		members = append(members, cmd)
	}
	return New(name, members...)
}

func deriveVariant(parent string, field reflect.StructField, name string) (*Variant, error) {
	if field.Type.Kind() != reflect.Pointer || field.Type.Elem().Kind() != reflect.Struct {
		return nil, argerr.Conflict(parent, field.Name, "cmd field %s must be a pointer to a struct", field.Name)
	}
	if name == "" {
		name = strings.ToLower(field.Name)
	}
	sub, err := OfType(field.Type.Elem())
	if err != nil {
		return nil, err
	}
	v := Sub(name, sub)
	if aliases := field.Tag.Get("aliases"); aliases != "" {
		v.Aliases = strings.Split(aliases, ",")
	}
	v.Help = field.Tag.Get("help")
	v.field = field.Index
	return v, nil
}

func deriveMember(parent string, field reflect.StructField) (*Member, error) {
	ft := field.Type
	isSlice := ft.Kind() == reflect.Slice
	if isSlice {
		ft = ft.Elem()
	}
	for ft.Kind() == reflect.Pointer {
		if _, err := coerce.Default.ForType(ft); err == nil {
			break
		}
		ft = ft.Elem()
	}

	var c coerce.Coercer
	if ft.Kind() != reflect.Bool || isSlice {
		var err error
		c, err = fieldCoercer(ft, field.Tag.Get("port"))
		if err != nil {
			return nil, argerr.Conflict(parent, field.Name, "field %s: %v", field.Name, err)
		}
	}

	opts := []Option{Help(field.Tag.Get("help"))}
	if sep := field.Tag.Get("sep"); sep != "" {
		opts = append(opts, Split(sep))
	}
	if def, ok := field.Tag.Lookup("default"); ok {
		opts = append(opts, DefaultText(def))
	}

	var m *Member
	if pos, ok := field.Tag.Lookup("pos"); ok {
		rank, arity, required, err := parsePos(pos)
		if err != nil {
			return nil, argerr.Conflict(parent, field.Name, "field %s: %v", field.Name, err)
		}
		if arity.Variadic() && !isSlice {
			return nil, argerr.Conflict(parent, field.Name, "field %s: variadic positional needs a slice", field.Name)
		}
		opts = append(opts, Rank(rank), WithArity(arity))
		if !required {
			opts = append(opts, NotRequired())
		}
		m = Arg(strings.ToLower(field.Name), c, opts...)
	} else {
		id := field.Tag.Get("flag")
		if id == "" {
			id = strings.ToLower(field.Name)
		}
		if short := field.Tag.Get("short"); short != "" {
			runes := []rune(short)
			if len(runes) != 1 {
				return nil, argerr.Conflict(parent, id, "field %s: short key %q must be one character", field.Name, short)
			}
			opts = append(opts, Short(runes[0]))
		}
		if req, _ := strconv.ParseBool(field.Tag.Get("required")); req {
			opts = append(opts, Required())
		}
		switch {
		case c == nil:
			m = Switch(id, opts...)
		case isSlice:
			m = Flag(id, c, append(opts, WithArity(Many(0, Unbounded)))...)
		default:
			m = Flag(id, c, opts...)
		}
	}
	m.field = field.Index
	return m, nil
}

func fieldCoercer(t reflect.Type, portRange string) (coerce.Coercer, error) {
	if t == reflect.TypeFor[coerce.Port]() && portRange != "" {
		min, max, err := coerce.ParsePortRange(portRange)
		if err != nil {
			return nil, err
		}
		return coerce.PortRange(min, max), nil
	}
	return coerce.Default.ForType(t)
}

// parsePos parses "N", "N?", "N*" and "N+".
func parsePos(tag string) (rank int, arity Arity, required bool, err error) {
	num := tag
	arity, required = One, true
	switch {
	case strings.HasSuffix(tag, "?"):
		num, arity, required = strings.TrimSuffix(tag, "?"), Optional, false
	case strings.HasSuffix(tag, "*"):
		num, arity, required = strings.TrimSuffix(tag, "*"), Many(0, Unbounded), false
	case strings.HasSuffix(tag, "+"):
		num, arity = strings.TrimSuffix(tag, "+"), Many(1, Unbounded)
	}
	rank, err = strconv.Atoi(num)
	if err != nil || rank < 0 {
		return 0, Arity{}, false, fmt.Errorf("invalid pos tag %q", tag)
	}
	return rank, arity, required, nil
}
