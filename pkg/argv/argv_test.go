// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import (
	"errors"
	"reflect"
	"testing"
)

func TestStreamPeekAdvance(t *testing.T) {
	s := New([]string{"--name", "Ada"})

	tok, ok := s.Peek()
	if !ok || tok.Text != "--name" || tok.Index != 0 {
		t.Fatalf("Peek() = %+v, %v; want --name at 0", tok, ok)
	}
	if s.Position() != 0 {
		t.Fatalf("Position() after Peek = %d, want 0", s.Position())
	}

	tok, err := s.Advance()
	if err != nil || tok.Text != "--name" {
		t.Fatalf("Advance() = %+v, %v", tok, err)
	}
	tok, err = s.Advance()
	if err != nil || tok.Text != "Ada" || tok.Index != 1 {
		t.Fatalf("Advance() = %+v, %v", tok, err)
	}
	if !s.Done() || s.Position() != 2 {
		t.Fatalf("Done() = %v, Position() = %d; want true, 2", s.Done(), s.Position())
	}
	if _, ok := s.Peek(); ok {
		t.Fatal("Peek() on exhausted stream returned a token")
	}
	if _, err := s.Advance(); !errors.Is(err, ErrExhausted) {
		t.Fatalf("Advance() on exhausted stream error = %v, want ErrExhausted", err)
	}
}

func TestStreamRemaining(t *testing.T) {
	s := New([]string{"a", "b", "c"})
	if _, err := s.Advance(); err != nil {
		t.Fatal(err)
	}
	want := []Token{{Text: "b", Index: 1}, {Text: "c", Index: 2}}
	if got := s.Remaining(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Remaining() = %v, want %v", got, want)
	}
}

func TestStreamDoesNotInterpretSeparator(t *testing.T) {
	s := New([]string{"--", "-x"})
	tok, _ := s.Advance()
	if tok.Text != "--" {
		t.Fatalf("Advance() = %q, want --", tok.Text)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
}

func TestLooksLikeFlag(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"--name", true},
		{"-v", true},
		{"-abc", true},
		{"-", false},
		{"--", false},
		{"value", false},
		{"-10", false},
		{"-3.14", false},
		{"-1x", true},
		{"", false},
	}
	for _, tt := range tests {
		if got := LooksLikeFlag(tt.in); got != tt.want {
			t.Errorf("LooksLikeFlag(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"10", true},
		{"-10", true},
		{"+3.14", true},
		{".5", true},
		{"1.2.3", false},
		{"-", false},
		{"+", false},
		{"12a", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsNumeric(tt.in); got != tt.want {
			t.Errorf("IsNumeric(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsLong(t *testing.T) {
	for in, want := range map[string]bool{"--name": true, "--": false, "-n": false, "--x": true} {
		if got := IsLong(in); got != want {
			t.Errorf("IsLong(%q) = %v, want %v", in, got, want)
		}
	}
}
