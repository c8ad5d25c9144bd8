// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package suggest

import (
	"reflect"
	"testing"
)

func TestClosest(t *testing.T) {
	keys := []string{"--name", "--verbose", "--version", "-n", "-v"}
	tests := []struct {
		token string
		want  []string
	}{
		{"--nmae", []string{"--name"}},
		{"--verbos", []string{"--verbose"}},
		{"--zzzzzzzz", []string{}},
		{"", nil},
	}
	for _, tt := range tests {
		got := Closest(tt.token, keys)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Closest(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestClosestLimitsResults(t *testing.T) {
	got := Closest("ad", []string{"add", "adc", "adb", "ada", "remove"})
	if len(got) != Max {
		t.Fatalf("Closest() returned %d results, want %d: %v", len(got), Max, got)
	}
	if got[0] != "ada" {
		t.Errorf("Closest()[0] = %q, want ada (ties break alphabetically)", got[0])
	}
}

func TestClosestIgnoresExactMatch(t *testing.T) {
	if got := Closest("add", []string{"add"}); len(got) != 0 {
		t.Errorf("Closest() = %v, want none", got)
	}
}
