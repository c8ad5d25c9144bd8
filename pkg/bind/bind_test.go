// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bind

import (
	"errors"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/yeetrun/clip/pkg/argerr"
	"github.com/yeetrun/clip/pkg/clip"
	"github.com/yeetrun/clip/pkg/coerce"
	"github.com/yeetrun/clip/pkg/shape"
)

type level int

type serveCmd struct {
	Port    coerce.Port `flag:"port" short:"p" port:"1024-65535" default:"8080"`
	Root    string      `pos:"0?" default:"."`
	Verbose int         `flag:"-"`
}

type pushCmd struct {
	Force bool     `flag:"force" short:"f"`
	Refs  []string `pos:"0+"`
}

type cliFlags struct {
	Verbose  bool          `flag:"verbose" short:"v"`
	Name     string        `flag:"name" short:"n"`
	Timeout  time.Duration `flag:"timeout" default:"5s"`
	Tags     []string      `flag:"tag" sep:","`
	Retries  *int          `flag:"retries"`
	Endpoint *url.URL      `flag:"endpoint"`
	Level    level         `flag:"level"`

	Serve *serveCmd `cmd:"serve"`
	Push  *pushCmd  `cmd:"push" aliases:"p"`
}

func TestParseBindsFlags(t *testing.T) {
	got, err := Parse[cliFlags]([]string{
		"-v", "--name", "ada", "--tag", "a,b", "--tag=c",
		"--retries", "3", "--endpoint", "https://example.com/x", "--level", "2",
		"serve", "-p", "9000",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !got.Verbose || got.Name != "ada" || got.Timeout != 5*time.Second {
		t.Errorf("got %+v", got)
	}
	if !reflect.DeepEqual(got.Tags, []string{"a", "b", "c"}) {
		t.Errorf("Tags = %v", got.Tags)
	}
	if got.Retries == nil || *got.Retries != 3 {
		t.Errorf("Retries = %v", got.Retries)
	}
	if got.Endpoint == nil || got.Endpoint.Host != "example.com" {
		t.Errorf("Endpoint = %v", got.Endpoint)
	}
	if got.Level != 2 {
		t.Errorf("Level = %d", got.Level)
	}
	if got.Push != nil {
		t.Error("Push should stay nil")
	}
	if got.Serve == nil {
		t.Fatal("Serve not set")
	}
	if got.Serve.Port != 9000 || got.Serve.Root != "." {
		t.Errorf("Serve = %+v", got.Serve)
	}
}

func TestParseBindsVariadicPositional(t *testing.T) {
	got, err := Parse[cliFlags]([]string{"P", "-f", "main", "dev"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.Push == nil || !got.Push.Force {
		t.Fatalf("Push = %+v", got.Push)
	}
	if !reflect.DeepEqual(got.Push.Refs, []string{"main", "dev"}) {
		t.Errorf("Refs = %v", got.Push.Refs)
	}
	if got.Retries != nil {
		t.Errorf("Retries = %v, want nil", *got.Retries)
	}
}

func TestParseReturnsParseErrors(t *testing.T) {
	tests := []struct {
		args []string
		kind argerr.Kind
	}{
		{[]string{"serve", "--port", "80"}, argerr.CoercionFailure},
		{[]string{"deploy"}, argerr.UnknownSubcommand},
		{[]string{"push"}, argerr.MissingRequired},
		{[]string{"--name"}, argerr.MissingValue},
		{[]string{"--nope", "serve"}, argerr.UnknownFlag},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			_, err := Parse[cliFlags](tt.args)
			if !errors.Is(err, tt.kind) {
				t.Errorf("Parse() error = %v, want %v", err, tt.kind)
			}
		})
	}
}

func TestParseDerivationError(t *testing.T) {
	type bad struct {
		A string `flag:"x"`
		B string `flag:"x"`
	}
	_, err := Parse[bad](nil)
	if !errors.Is(err, argerr.DescriptorConflict) {
		t.Errorf("Parse() error = %v, want DescriptorConflict", err)
	}
}

func TestIntoRejectsNonPointer(t *testing.T) {
	s := shape.Must(shape.Of(cliFlags{}))
	res, err := clip.Parse(s, []string{"serve"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if err := Into(res, cliFlags{}); err == nil {
		t.Error("Into(struct) error = nil")
	}
	var nilPtr *cliFlags
	if err := Into(res, nilPtr); err == nil {
		t.Error("Into(nil) error = nil")
	}
}

func TestIntoRequiresDerivedShape(t *testing.T) {
	s := shape.Must(shape.New("manual", shape.Flag("name", coerce.String)))
	res, err := clip.Parse(s, []string{"--name", "x"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	var dst struct{ Name string }
	if err := Into(res, &dst); err == nil {
		t.Error("Into() error = nil for a shape without fields")
	}
}

func TestIntoKeepsUntouchedFields(t *testing.T) {
	s := shape.Must(shape.Of(cliFlags{}))
	res, err := clip.Parse(s, []string{"serve"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	dst := cliFlags{Name: "preset", Tags: []string{"keep"}}
	if err := Into(res, &dst); err != nil {
		t.Fatalf("Into() error = %v", err)
	}
	if dst.Name != "preset" || !reflect.DeepEqual(dst.Tags, []string{"keep"}) {
		t.Errorf("dst = %+v", dst)
	}
}

func TestSet(t *testing.T) {
	var n int
	if err := set(reflect.ValueOf(&n).Elem(), "x"); err == nil {
		t.Error("set(int, string) error = nil")
	}
	var p *level
	if err := set(reflect.ValueOf(&p).Elem(), 4); err != nil || p == nil || *p != 4 {
		t.Errorf("set(*level, 4) = %v, %v", p, err)
	}
}
