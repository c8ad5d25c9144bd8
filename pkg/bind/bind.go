// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bind copies a parse result into the struct its shape was derived
// from.
//
// Structs are described with the tags documented on shape.Of:
//
//	type Flags struct {
//	    Verbose bool     `flag:"verbose" short:"v"`
//	    Tags    []string `flag:"tag" sep:","`
//	    Src     string   `pos:"0"`
//	    Add     *AddCmd  `cmd:"add"`
//	}
//
//	flags, err := bind.Parse[Flags](os.Args[1:])
package bind

import (
	"fmt"
	"reflect"

	"github.com/yeetrun/clip/pkg/clip"
	"github.com/yeetrun/clip/pkg/shape"
)

// Parse derives the shape of T, parses args against it and returns the
// populated struct.
func Parse[T any](args []string) (T, error) {
	return ParseOptions[T](clip.Options{}, args)
}

// ParseOptions is Parse with explicit parse options.
func ParseOptions[T any](opts clip.Options, args []string) (T, error) {
	var out T
	s, err := shape.Of(&out)
	if err != nil {
		return out, err
	}
	res, err := opts.Parse(s, args)
	if err != nil {
		return out, err
	}
	if err := Into(res, &out); err != nil {
		return out, err
	}
	return out, nil
}

// Into stores the entries of res in dst, which must be a non-nil pointer
// to the struct type res's shape was derived from. Members without entries
// leave their field untouched. The field of the selected subcommand is
// set to a newly allocated struct.
func Into(res *clip.Result, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind: destination must be a non-nil pointer to a struct, got %T", dst)
	}
	return into(res, rv.Elem())
}

func into(res *clip.Result, v reflect.Value) error {
	for _, m := range res.Shape().Members() {
		if m.Kind == shape.Command {
			if err := bindCommand(res, m, v); err != nil {
				return err
			}
			continue
		}
		if !res.Has(m.ID) {
			continue
		}
		idx := m.FieldIndex()
		if idx == nil {
			return fmt.Errorf("bind: member %q of shape %q has no struct field", m.ID, res.Shape().Name())
		}
		f := v.FieldByIndex(idx)
		if f.Kind() == reflect.Slice && !sliceValued(f.Type(), res.Values(m.ID)) {
			f.Set(reflect.Zero(f.Type()))
			for _, val := range res.Values(m.ID) {
				elem := reflect.New(f.Type().Elem()).Elem()
				if err := set(elem, val); err != nil {
					return fmt.Errorf("bind: field for %q: %w", m.ID, err)
				}
				f.Set(reflect.Append(f, elem))
			}
			continue
		}
		val, _ := res.Get(m.ID)
		if err := set(f, val); err != nil {
			return fmt.Errorf("bind: field for %q: %w", m.ID, err)
		}
	}
	return nil
}

func bindCommand(res *clip.Result, m *shape.Member, v reflect.Value) error {
	name, sub, ok := res.Subcommand()
	if !ok {
		return nil
	}
	variant, ok := m.Variant(name)
	if !ok || variant.FieldIndex() == nil {
		return fmt.Errorf("bind: subcommand %q of shape %q has no struct field", name, res.Shape().Name())
	}
	f := v.FieldByIndex(variant.FieldIndex())
	if f.Kind() != reflect.Pointer || f.Type().Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind: field for subcommand %q must be a pointer to a struct", name)
	}
	ptr := reflect.New(f.Type().Elem())
	if err := into(sub, ptr.Elem()); err != nil {
		return err
	}
	f.Set(ptr)
	return nil
}

// sliceValued reports whether the coerced values are themselves slices of
// type t, as produced by a coercer registered for the slice type.
func sliceValued(t reflect.Type, vals []any) bool {
	return len(vals) > 0 && vals[0] != nil && reflect.TypeOf(vals[0]).AssignableTo(t)
}

// set stores val in f, allocating pointers and converting between types
// with the same underlying kind.
func set(f reflect.Value, val any) error {
	if val == nil {
		f.Set(reflect.Zero(f.Type()))
		return nil
	}
	rv := reflect.ValueOf(val)
	switch {
	case rv.Type().AssignableTo(f.Type()):
		f.Set(rv)
		return nil
	case f.Kind() == reflect.Pointer:
		ptr := reflect.New(f.Type().Elem())
		if err := set(ptr.Elem(), val); err != nil {
			return err
		}
		f.Set(ptr)
		return nil
	case rv.Type().ConvertibleTo(f.Type()) && rv.Kind() == f.Kind():
		f.Set(rv.Convert(f.Type()))
		return nil
	}
	return fmt.Errorf("cannot store %T in %s", val, f.Type())
}
