// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"fmt"
	"strconv"
)

// Unbounded is the Max of an arity with no upper limit.
const Unbounded = -1

// Arity is how many raw values a member consumes.
type Arity struct {
	Min int
	Max int // Unbounded for no limit
	// repeat marks arities built with Many, which enforce Min at validation.
	repeat bool
}

var (
	// Presence members consume no value; appearing sets them to true.
	Presence = Arity{}
	// One is the arity of a member taking exactly one value.
	One = Arity{Min: 1, Max: 1}
	// Optional members take zero or one value.
	Optional = Arity{Min: 0, Max: 1}
)

// Many returns an arity accepting between min and max values. Pass
// Unbounded as max for no limit.
func Many(min, max int) Arity {
	return Arity{Min: min, Max: max, repeat: true}
}

// IsPresence reports whether the arity consumes no value.
func (a Arity) IsPresence() bool {
	return a.Max == 0 && !a.repeat
}

// IsMany reports whether the arity was built with Many.
func (a Arity) IsMany() bool {
	return a.repeat
}

// Variadic reports whether a positional with this arity absorbs more than
// one token.
func (a Arity) Variadic() bool {
	return a.Max == Unbounded || a.Max > 1
}

// Allows reports whether n values fit under the maximum.
func (a Arity) Allows(n int) bool {
	return a.Max == Unbounded || n <= a.Max
}

func (a Arity) String() string {
	switch {
	case a.IsPresence():
		return "presence"
	case !a.repeat && a == One:
		return "one"
	case !a.repeat && a == Optional:
		return "optional"
	case a.Max == Unbounded:
		return fmt.Sprintf("many(%d..)", a.Min)
	}
	return "many(" + strconv.Itoa(a.Min) + ".." + strconv.Itoa(a.Max) + ")"
}

func (a Arity) validate() error {
	if a.Min < 0 {
		return fmt.Errorf("negative minimum %d", a.Min)
	}
	if a.Max != Unbounded && a.Max < a.Min {
		return fmt.Errorf("maximum %d below minimum %d", a.Max, a.Min)
	}
	if a.repeat && a.Max == 0 {
		return fmt.Errorf("many arity needs a maximum above zero")
	}
	return nil
}
