// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/yeetrun/clip/pkg/argerr"
	"github.com/yeetrun/clip/pkg/shape"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

type outputFormat int

const (
	formatJSON outputFormat = iota
	formatYAML
)

func parseOutputFormat(name string) (outputFormat, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return formatJSON, nil
	case "yaml", "yml":
		return formatYAML, nil
	}
	return 0, fmt.Errorf("unknown output format %q (expected json or yaml)", name)
}

func (f outputFormat) write(w io.Writer, v any) error {
	if f == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// report is the output of check and line.
type report struct {
	Shape  string         `json:"shape" yaml:"shape"`
	Args   []string       `json:"args" yaml:"args"`
	Values map[string]any `json:"values" yaml:"values"`
}

// memberInfo is the output of lint for one member.
type memberInfo struct {
	ID       string        `json:"id" yaml:"id"`
	Kind     string        `json:"kind" yaml:"kind"`
	Keys     []string      `json:"keys,omitempty" yaml:"keys,omitempty"`
	Type     string        `json:"type,omitempty" yaml:"type,omitempty"`
	Arity    string        `json:"arity" yaml:"arity"`
	Rank     *int          `json:"rank,omitempty" yaml:"rank,omitempty"`
	Required bool          `json:"required,omitempty" yaml:"required,omitempty"`
	Default  any           `json:"default,omitempty" yaml:"default,omitempty"`
	Help     string        `json:"help,omitempty" yaml:"help,omitempty"`
	Variants []variantInfo `json:"variants,omitempty" yaml:"variants,omitempty"`
}

type variantInfo struct {
	Name    string       `json:"name" yaml:"name"`
	Aliases []string     `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Members []memberInfo `json:"members" yaml:"members"`
}

type shapeInfo struct {
	Name    string       `json:"name" yaml:"name"`
	Members []memberInfo `json:"members" yaml:"members"`
}

func describe(s *shape.Shape) shapeInfo {
	return shapeInfo{Name: s.Name(), Members: describeMembers(s)}
}

func describeMembers(s *shape.Shape) []memberInfo {
	out := make([]memberInfo, 0, len(s.Members()))
	for _, m := range s.Members() {
		info := memberInfo{
			ID:       m.ID,
			Kind:     m.Kind.String(),
			Keys:     m.Keys(),
			Arity:    m.Arity.String(),
			Required: m.Required,
			Help:     m.Help,
		}
		if m.Coercer != nil {
			info.Type = m.Coercer.Type()
		}
		if m.IsPositional() {
			rank := m.Rank
			info.Rank = &rank
		}
		if m.HasDefault {
			info.Default = m.Default
		}
		for _, v := range m.Variants {
			info.Variants = append(info.Variants, variantInfo{
				Name:    v.Name,
				Aliases: v.Aliases,
				Members: describeMembers(v.Shape),
			})
		}
		out = append(out, info)
	}
	return out
}

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	tokenColor = color.New(color.FgYellow)
)

func init() {
	color.NoColor = !colorEnabled(os.Stderr)
}

// colorEnabled reports whether f is a terminal that accepts escape codes.
func colorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if t := os.Getenv("TERM"); t == "" || t == "dumb" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func printCLIError(w io.Writer, err error) {
	if err == nil {
		return
	}
	e, ok := argerr.As(err)
	if !ok {
		fmt.Fprintf(w, "%s %v\n", errorLabel.Sprint("Error:"), err)
		return
	}
	fmt.Fprintf(w, "%s %v\n", errorLabel.Sprintf("Error (%s):", e.Kind), err)
	if e.Token != "" && e.Pos != argerr.NoPosition {
		fmt.Fprintf(w, "  at argument %d: %s\n", e.Pos, tokenColor.Sprint(e.Token))
	}
}

// exitCode is 2 for argument errors and 1 for everything else.
func exitCode(err error) int {
	var e *argerr.Error
	if errors.As(err, &e) && e.Kind != argerr.DescriptorConflict {
		return 2
	}
	return 1
}
