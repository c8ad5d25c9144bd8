// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package suggest finds known names close to a mistyped one.
package suggest

import (
	"cmp"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Max is the number of suggestions Closest returns at most.
const Max = 3

// Closest returns up to Max candidates resembling token, closest first.
// A candidate qualifies when token's characters appear in it in order
// (case-insensitively) or when it is within a small edit distance.
func Closest(token string, candidates []string) []string {
	if token == "" || len(candidates) == 0 {
		return nil
	}
	limit := max(2, len(token)/3)

	best := make(map[string]int)
	for _, r := range fuzzy.RankFindFold(token, candidates) {
		best[r.Target] = r.Distance
	}
	lower := strings.ToLower(token)
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(lower, strings.ToLower(c))
		if d > limit {
			continue
		}
		if prev, ok := best[c]; !ok || d < prev {
			best[c] = d
		}
	}

	out := make([]string, 0, len(best))
	for c := range best {
		if c != token {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b string) int {
		return cmp.Or(cmp.Compare(best[a], best[b]), cmp.Compare(a, b))
	})
	if len(out) > Max {
		out = out[:Max]
	}
	return out
}
