// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argerr defines the structured errors reported while building
// shapes and parsing arguments against them.
//
// Every parse failure is an *Error carrying its Kind, the offending token
// text and position, and the implicated member. Callers match kinds with
// errors.Is:
//
//	if errors.Is(err, argerr.MissingValue) { ... }
package argerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an Error. The set is closed.
type Kind int

const (
	UnknownFlag Kind = iota + 1
	UnknownSubcommand
	MissingValue
	MissingRequired
	UnexpectedPositional
	CoercionFailure
	TooManyValues
	// DescriptorConflict marks an invalid shape declaration, a programmer
	// error rather than bad user input.
	DescriptorConflict
)

var kindNames = map[Kind]string{
	UnknownFlag:          "unknown flag",
	UnknownSubcommand:    "unknown subcommand",
	MissingValue:         "missing value",
	MissingRequired:      "missing required",
	UnexpectedPositional: "unexpected positional",
	CoercionFailure:      "coercion failure",
	TooManyValues:        "too many values",
	DescriptorConflict:   "descriptor conflict",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error lets a Kind be used as an errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

// NoPosition is the Pos of errors not tied to a token.
const NoPosition = -1

// Error is a classified parse or construction failure.
type Error struct {
	Kind  Kind
	Token string // Offending raw text, if any
	Pos   int    // Stream position of Token, or the stream length when input ran out
	// Member is the ID of the implicated member, if any.
	Member string
	// Path lists the subcommand discriminants leading to the failing shape,
	// outermost first.
	Path []string
	// Suggestions holds close matches for unknown flags and subcommands.
	Suggestions []string
	Detail      string
	Err         error
}

func (e *Error) message() string {
	switch e.Kind {
	case UnknownFlag:
		return "unknown flag: " + e.Token
	case UnknownSubcommand:
		return fmt.Sprintf("unknown subcommand %q", e.Token)
	case MissingValue:
		return fmt.Sprintf("flag %s requires a value", e.Token)
	case MissingRequired:
		if e.Detail != "" {
			return fmt.Sprintf("missing required %s: %s", e.Member, e.Detail)
		}
		return "missing required " + e.Member
	case UnexpectedPositional:
		return fmt.Sprintf("unexpected argument %q", e.Token)
	case CoercionFailure:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Member, e.Err)
		}
		return fmt.Sprintf("%s: invalid value %q", e.Member, e.Token)
	case TooManyValues:
		if e.Detail != "" {
			return fmt.Sprintf("too many values for %s: %s", e.Member, e.Detail)
		}
		return "too many values for " + e.Member
	case DescriptorConflict:
		return "invalid shape: " + e.Detail
	}
	return e.Kind.String()
}

func (e *Error) Error() string {
	var b strings.Builder
	if len(e.Path) > 0 {
		b.WriteString(strings.Join(e.Path, " "))
		b.WriteString(": ")
	}
	b.WriteString(e.message())
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is e's Kind. An unknown subcommand is also an
// UnknownFlag, so callers checking for unrecognized input catch both.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	if !ok {
		return false
	}
	return k == e.Kind || (k == UnknownFlag && e.Kind == UnknownSubcommand)
}

// Wrap prefixes the subcommand path with discriminant and returns e.
func (e *Error) Wrap(discriminant string) *Error {
	e.Path = append([]string{discriminant}, e.Path...)
	return e
}

// As returns err as an *Error if it is one.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Unknown reports a flag token that matches no member.
func Unknown(tok string, pos int, suggestions []string) *Error {
	return &Error{Kind: UnknownFlag, Token: tok, Pos: pos, Suggestions: suggestions}
}

// UnknownVariant reports a discriminant token that matches no variant.
func UnknownVariant(member, tok string, pos int, suggestions []string) *Error {
	return &Error{Kind: UnknownSubcommand, Token: tok, Pos: pos, Member: member, Suggestions: suggestions}
}

// NoValue reports a valued flag with nothing to consume.
func NoValue(member, tok string, pos int) *Error {
	return &Error{Kind: MissingValue, Token: tok, Pos: pos, Member: member}
}

// Required reports a required member without enough entries.
func Required(member string, pos int, detail string) *Error {
	return &Error{Kind: MissingRequired, Pos: pos, Member: member, Detail: detail}
}

// Positional reports a positional token with no member to receive it.
func Positional(tok string, pos int) *Error {
	return &Error{Kind: UnexpectedPositional, Token: tok, Pos: pos}
}

// Coercion wraps a value coercion failure.
func Coercion(member, tok string, pos int, err error) *Error {
	return &Error{Kind: CoercionFailure, Token: tok, Pos: pos, Member: member, Err: err}
}

// TooMany reports a member given more values than its arity allows.
func TooMany(member, tok string, pos int, detail string) *Error {
	return &Error{Kind: TooManyValues, Token: tok, Pos: pos, Member: member, Detail: detail}
}

// Conflict reports an invalid shape declaration.
func Conflict(shape, member, format string, args ...any) *Error {
	detail := fmt.Sprintf(format, args...)
	if shape != "" {
		detail = shape + ": " + detail
	}
	return &Error{Kind: DescriptorConflict, Pos: NoPosition, Member: member, Detail: detail}
}
