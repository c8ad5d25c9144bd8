// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command clip checks argument lists against shapes declared in TOML or YAML
// files.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"slices"

	"github.com/google/shlex"
	"github.com/shayne/yargs"
	"github.com/yeetrun/clip/pkg/clip"
	"github.com/yeetrun/clip/pkg/shapefile"
)

type globalFlagsParsed struct {
	Format  string `flag:"format" help:"Output format (json|yaml), default from CLIP_FORMAT"`
	Verbose bool   `flag:"verbose" help:"Log how each token is classified"`
}

type lintFlagsParsed struct{}

type checkFlagsParsed struct {
	NoSuggest bool `flag:"no-suggest" help:"Omit did-you-mean suggestions from errors"`
}

func parseGlobalFlags(args []string) (globalFlagsParsed, []string, error) {
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return globalFlagsParsed{}, nil, err
	}
	return result.Flags, result.RemainingArgs, nil
}

// splitPassthrough separates the arguments after the first "--", which
// belong to the checked shape rather than to clip.
func splitPassthrough(args []string) (head, tail []string) {
	i := slices.Index(args, "--")
	if i < 0 {
		return args, nil
	}
	return args[:i], slices.Clone(args[i+1:])
}

type app struct {
	stdout      io.Writer
	stderr      io.Writer
	format      outputFormat
	verbose     bool
	passthrough []string
}

func newApp(args []string, stdout, stderr io.Writer) (*app, []string, error) {
	head, tail := splitPassthrough(args)
	flags, remaining, err := parseGlobalFlags(head)
	if err != nil {
		return nil, nil, err
	}
	name := flags.Format
	if name == "" {
		name = os.Getenv("CLIP_FORMAT")
	}
	format, err := parseOutputFormat(name)
	if err != nil {
		return nil, nil, err
	}
	return &app{
		stdout:      stdout,
		stderr:      stderr,
		format:      format,
		verbose:     flags.Verbose,
		passthrough: tail,
	}, remaining, nil
}

func buildHelpConfig() yargs.HelpConfig {
	return yargs.HelpConfig{
		Command: yargs.CommandInfo{
			Name:        "clip",
			Description: "Check argument lists against declared shapes",
			Examples: []string{
				"clip lint app.toml",
				"clip check app.toml -- add --count 3",
				`clip --format yaml line app.yaml "remove a b"`,
			},
		},
		SubCommands: map[string]yargs.SubCommandInfo{
			"lint": {
				Name:        "lint",
				Description: "Validate a shape file and print its members",
				Usage:       "SHAPE",
			},
			"check": {
				Name:        "check",
				Description: "Parse the arguments after -- and print the result",
				Usage:       "SHAPE [-- ARGS...]",
				Examples:    []string{"clip check app.toml -- -v add item"},
			},
			"line": {
				Name:        "line",
				Description: "Split a shell-quoted line and parse it",
				Usage:       `SHAPE "LINE"`,
				Examples:    []string{`clip line app.toml "add 'two words'"`},
			},
		},
	}
}

func (a *app) handlers() map[string]yargs.SubcommandHandler {
	return map[string]yargs.SubcommandHandler{
		"lint":  a.handleLint,
		"check": a.handleCheck,
		"line":  a.handleLine,
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	return yargs.RunSubcommandsWithGroups(ctx, args, buildHelpConfig(), globalFlagsParsed{}, a.handlers(), nil)
}

func (a *app) parseOptions(noSuggest bool) clip.Options {
	opts := clip.Options{NoSuggest: noSuggest}
	if a.verbose {
		opts.Tracef = log.Printf
	}
	return opts
}

func (a *app) handleLint(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "lint" {
		args = args[1:]
	}
	result, err := yargs.ParseFlags[lintFlagsParsed](args)
	if err != nil {
		return err
	}
	if len(result.Args) != 1 {
		return errors.New("lint takes exactly one SHAPE argument")
	}
	s, err := shapefile.Load(result.Args[0])
	if err != nil {
		return err
	}
	return a.format.write(a.stdout, describe(s))
}

func (a *app) handleCheck(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "check" {
		args = args[1:]
	}
	result, err := yargs.ParseFlags[checkFlagsParsed](args)
	if err != nil {
		return err
	}
	if len(result.Args) != 1 {
		return errors.New("check takes exactly one SHAPE argument")
	}
	return a.check(result.Args[0], a.passthrough, result.Flags.NoSuggest)
}

func (a *app) handleLine(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "line" {
		args = args[1:]
	}
	result, err := yargs.ParseFlags[checkFlagsParsed](args)
	if err != nil {
		return err
	}
	pos := slices.Concat(result.Args, a.passthrough)
	if len(pos) != 2 {
		return errors.New(`line takes a SHAPE and one quoted LINE argument`)
	}
	words, err := shlex.Split(pos[1])
	if err != nil {
		return fmt.Errorf("failed to split line: %w", err)
	}
	return a.check(pos[0], words, result.Flags.NoSuggest)
}

func (a *app) check(path string, args []string, noSuggest bool) error {
	s, err := shapefile.Load(path)
	if err != nil {
		return err
	}
	if a.verbose {
		log.Printf("parsing %q against %s", args, s.Name())
	}
	res, err := a.parseOptions(noSuggest).Parse(s, args)
	if err != nil {
		return err
	}
	return a.format.write(a.stdout, report{Shape: s.Name(), Args: args, Values: res.Map()})
}

func main() {
	a, args, err := newApp(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		printCLIError(os.Stderr, err)
		os.Exit(2)
	}
	if err := a.run(context.Background(), args); err != nil {
		printCLIError(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
