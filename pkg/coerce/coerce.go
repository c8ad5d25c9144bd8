// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coerce converts raw argument text into typed values.
package coerce

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Coercer converts a raw token into a typed value.
type Coercer interface {
	Coerce(raw string) (any, error)
	// Type names the produced type for error messages and shape files.
	Type() string
}

// Error is returned when a raw value cannot be coerced.
type Error struct {
	Raw    string // The text that was provided
	Type   string // The target type name
	Reason string // User-facing reason
	Err    error  // Underlying error, if any
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s value %q: %s", e.Type, e.Raw, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fail(typ, raw, reason string, err error) *Error {
	return &Error{Raw: raw, Type: typ, Reason: reason, Err: err}
}

// funcCoercer adapts a typed conversion function.
type funcCoercer[T any] struct {
	typ string
	fn  func(string) (T, error)
}

func (f funcCoercer[T]) Type() string { return f.typ }

func (f funcCoercer[T]) Coerce(raw string) (any, error) {
	v, err := f.fn(raw)
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			return nil, ce
		}
		return nil, fail(f.typ, raw, err.Error(), err)
	}
	return v, nil
}

// Func returns a Coercer for any type that supplies a conversion from text.
// Errors returned by fn that are not already *Error are wrapped so that the
// raw text is always preserved.
func Func[T any](typ string, fn func(string) (T, error)) Coercer {
	return funcCoercer[T]{typ: typ, fn: fn}
}

// Built-in coercers.
var (
	String   = Func("string", func(s string) (string, error) { return s, nil })
	Bool     = Func("bool", parseBool)
	Int      = Func("int", func(s string) (int, error) { v, err := parseInt(s, "int", strconv.IntSize); return int(v), err })
	Int8     = Func("int8", func(s string) (int8, error) { v, err := parseInt(s, "int8", 8); return int8(v), err })
	Int16    = Func("int16", func(s string) (int16, error) { v, err := parseInt(s, "int16", 16); return int16(v), err })
	Int32    = Func("int32", func(s string) (int32, error) { v, err := parseInt(s, "int32", 32); return int32(v), err })
	Int64    = Func("int64", func(s string) (int64, error) { return parseInt(s, "int64", 64) })
	Uint     = Func("uint", func(s string) (uint, error) { v, err := parseUint(s, "uint", strconv.IntSize); return uint(v), err })
	Uint8    = Func("uint8", func(s string) (uint8, error) { v, err := parseUint(s, "uint8", 8); return uint8(v), err })
	Uint16   = Func("uint16", func(s string) (uint16, error) { v, err := parseUint(s, "uint16", 16); return uint16(v), err })
	Uint32   = Func("uint32", func(s string) (uint32, error) { v, err := parseUint(s, "uint32", 32); return uint32(v), err })
	Uint64   = Func("uint64", func(s string) (uint64, error) { return parseUint(s, "uint64", 64) })
	Float32  = Func("float32", func(s string) (float32, error) { v, err := parseFloat(s, "float32", 32); return float32(v), err })
	Float64  = Func("float64", func(s string) (float64, error) { return parseFloat(s, "float64", 64) })
	Duration = Func("duration", parseDuration)
	URL      = Func("url", parseURL)
	AnyPort  = PortRange(0, math.MaxUint16)
)

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fail("bool", s, "expected true or false", err)
	}
	return b, nil
}

func parseInt(s, typ string, bits int) (int64, error) {
	v, err := strconv.ParseInt(s, 10, bits)
	if err != nil {
		return 0, numError(s, typ, err)
	}
	return v, nil
}

func parseUint(s, typ string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return 0, numError(s, typ, err)
	}
	return v, nil
}

func parseFloat(s, typ string, bits int) (float64, error) {
	v, err := strconv.ParseFloat(s, bits)
	if err != nil {
		return 0, numError(s, typ, err)
	}
	return v, nil
}

func numError(s, typ string, err error) *Error {
	if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
		return fail(typ, s, "out of range for "+typ, err)
	}
	return fail(typ, s, "not a valid "+typ, err)
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fail("duration", s, "expected a duration such as 1m30s", err)
	}
	return d, nil
}

func parseURL(s string) (*url.URL, error) {
	if s == "" {
		return nil, fail("url", s, "empty URL", nil)
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, fail("url", s, "malformed URL", err)
	}
	return u, nil
}
