// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import (
	"errors"
	"strings"
)

// Separator is the literal token that switches a parse into positional-only mode.
const Separator = "--"

// ErrExhausted is returned by Advance when no tokens remain.
var ErrExhausted = errors.New("argument stream exhausted")

// Token is one raw argument and its index in the input.
type Token struct {
	Text  string
	Index int
}

// Tokens converts args into tokens carrying their origin index.
func Tokens(args []string) []Token {
	out := make([]Token, len(args))
	for i, arg := range args {
		out[i] = Token{Text: arg, Index: i}
	}
	return out
}

// Stream is a forward-only cursor over tokens.
type Stream struct {
	tokens []Token
	pos    int
}

// New returns a Stream positioned at the first of args.
// The slice is borrowed, not copied.
func New(args []string) *Stream {
	return &Stream{tokens: Tokens(args)}
}

// Peek returns the next token without consuming it.
func (s *Stream) Peek() (Token, bool) {
	if s.pos >= len(s.tokens) {
		return Token{}, false
	}
	return s.tokens[s.pos], true
}

// Advance consumes and returns the next token.
func (s *Stream) Advance() (Token, error) {
	if s.pos >= len(s.tokens) {
		return Token{}, ErrExhausted
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, nil
}

// Position returns the index of the next token to be consumed. Once the
// stream is exhausted it equals Len.
func (s *Stream) Position() int {
	return s.pos
}

// Len returns the total number of tokens, consumed or not.
func (s *Stream) Len() int {
	return len(s.tokens)
}

// Done reports whether every token has been consumed.
func (s *Stream) Done() bool {
	return s.pos >= len(s.tokens)
}

// Remaining returns the unconsumed tokens.
func (s *Stream) Remaining() []Token {
	return s.tokens[s.pos:]
}

// IsSeparator reports whether text is the "--" separator.
func IsSeparator(text string) bool {
	return text == Separator
}

// LooksLikeFlag reports whether text has the shape of a flag: a leading dash
// that is not a lone "-" (the conventional stdin placeholder), not the
// separator and not a negative number.
func LooksLikeFlag(text string) bool {
	if len(text) < 2 || text[0] != '-' {
		return false
	}
	if text == Separator {
		return false
	}
	return !IsNumeric(text)
}

// IsLong reports whether text starts with "--" and has a name after it.
func IsLong(text string) bool {
	return len(text) > 2 && strings.HasPrefix(text, "--")
}

// IsNumeric reports whether s is a decimal number such as "10", "-10",
// "3.14" or "+3.14".
func IsNumeric(s string) bool {
	if len(s) == 0 {
		return false
	}

	start := 0
	if s[0] == '-' || s[0] == '+' {
		if len(s) == 1 {
			return false
		}
		start = 1
	}

	hasDigit := false
	hasDot := false
	for i := start; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			hasDigit = true
		case s[i] == '.':
			if hasDot {
				return false
			}
			hasDot = true
		default:
			return false
		}
	}
	return hasDigit
}
