// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coerce

import (
	"encoding"
	"fmt"
	"net/url"
	"reflect"
	"sync"
	"time"
)

// Registry maps type names and Go types to coercers. It is safe for
// concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Coercer
	byType map[reflect.Type]Coercer
}

// NewRegistry returns a registry holding the built-in coercers.
func NewRegistry() *Registry {
	r := &Registry{
		byName: make(map[string]Coercer),
		byType: make(map[reflect.Type]Coercer),
	}
	builtins := []struct {
		t reflect.Type
		c Coercer
	}{
		{reflect.TypeFor[string](), String},
		{reflect.TypeFor[bool](), Bool},
		{reflect.TypeFor[int](), Int},
		{reflect.TypeFor[int8](), Int8},
		{reflect.TypeFor[int16](), Int16},
		{reflect.TypeFor[int32](), Int32},
		{reflect.TypeFor[int64](), Int64},
		{reflect.TypeFor[uint](), Uint},
		{reflect.TypeFor[uint8](), Uint8},
		{reflect.TypeFor[uint16](), Uint16},
		{reflect.TypeFor[uint32](), Uint32},
		{reflect.TypeFor[uint64](), Uint64},
		{reflect.TypeFor[float32](), Float32},
		{reflect.TypeFor[float64](), Float64},
		{reflect.TypeFor[time.Duration](), Duration},
		{reflect.TypeFor[*url.URL](), URL},
		{reflect.TypeFor[Port](), AnyPort},
	}
	for _, b := range builtins {
		r.byType[b.t] = b.c
		r.byName[b.c.Type()] = b.c
	}
	r.byName["float"] = Float64
	return r
}

// Default is the registry consulted by shape derivation and shape files.
var Default = NewRegistry()

// Register associates c with the Go type t and with c.Type().
func (r *Registry) Register(t reflect.Type, c Coercer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t != nil {
		r.byType[t] = c
	}
	r.byName[c.Type()] = c
}

// Register adds a typed conversion function to the Default registry.
func Register[T any](typ string, fn func(string) (T, error)) Coercer {
	c := Func(typ, fn)
	Default.Register(reflect.TypeFor[T](), c)
	return c
}

// Lookup returns the coercer registered under name.
func (r *Registry) Lookup(name string) (Coercer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[name]
	return c, ok
}

var textUnmarshaler = reflect.TypeFor[encoding.TextUnmarshaler]()

// ForType returns a coercer producing values of type t. Registered types
// win; otherwise any type whose pointer implements encoding.TextUnmarshaler
// is supported. Named types whose underlying kind has a built-in coercer
// are converted after coercion.
func (r *Registry) ForType(t reflect.Type) (Coercer, error) {
	r.mu.RLock()
	c, ok := r.byType[t]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	if reflect.PointerTo(t).Implements(textUnmarshaler) {
		return textCoercer(t), nil
	}

	if base, ok := kindTypes[t.Kind()]; ok && t != base {
		c, err := r.ForType(base)
		if err != nil {
			return nil, err
		}
		return converted(t, c), nil
	}
	return nil, fmt.Errorf("no coercer for type %s", t)
}

var kindTypes = map[reflect.Kind]reflect.Type{
	reflect.String:  reflect.TypeFor[string](),
	reflect.Bool:    reflect.TypeFor[bool](),
	reflect.Int:     reflect.TypeFor[int](),
	reflect.Int8:    reflect.TypeFor[int8](),
	reflect.Int16:   reflect.TypeFor[int16](),
	reflect.Int32:   reflect.TypeFor[int32](),
	reflect.Int64:   reflect.TypeFor[int64](),
	reflect.Uint:    reflect.TypeFor[uint](),
	reflect.Uint8:   reflect.TypeFor[uint8](),
	reflect.Uint16:  reflect.TypeFor[uint16](),
	reflect.Uint32:  reflect.TypeFor[uint32](),
	reflect.Uint64:  reflect.TypeFor[uint64](),
	reflect.Float32: reflect.TypeFor[float32](),
	reflect.Float64: reflect.TypeFor[float64](),
}

type reflectCoercer struct {
	t  reflect.Type
	fn func(string) (any, error)
}

func (c reflectCoercer) Type() string                   { return c.t.String() }
func (c reflectCoercer) Coerce(raw string) (any, error) { return c.fn(raw) }

func textCoercer(t reflect.Type) Coercer {
	return reflectCoercer{t: t, fn: func(raw string) (any, error) {
		v := reflect.New(t)
		if err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw)); err != nil {
			return nil, fail(t.String(), raw, err.Error(), err)
		}
		return v.Elem().Interface(), nil
	}}
}

func converted(t reflect.Type, base Coercer) Coercer {
	return reflectCoercer{t: t, fn: func(raw string) (any, error) {
		v, err := base.Coerce(raw)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(v).Convert(t).Interface(), nil
	}}
}
