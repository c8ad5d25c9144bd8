// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coerce

import (
	"strings"
)

// Choice returns a Coercer accepting one of values, compared without regard
// to case. The coerced value is the canonical spelling from values.
func Choice(values ...string) Coercer {
	canon := make(map[string]string, len(values))
	for _, v := range values {
		canon[strings.ToLower(v)] = v
	}
	return choice{values: values, canon: canon}
}

type choice struct {
	values []string
	canon  map[string]string
}

func (c choice) Type() string { return "choice" }

func (c choice) Coerce(raw string) (any, error) {
	if v, ok := c.canon[strings.ToLower(raw)]; ok {
		return v, nil
	}
	return nil, fail("choice", raw, "must be one of "+strings.Join(c.values, ", "), nil)
}

