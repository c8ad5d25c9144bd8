// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coerce

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Port is an IP port number. Struct fields of this type may restrict the
// accepted range with a `port:"min-max"` tag.
type Port uint16

// PortRange returns a Coercer accepting ports in [min, max].
func PortRange(min, max uint16) Coercer {
	return Func("port", func(s string) (Port, error) {
		v, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
				return 0, fail("port", s, fmt.Sprintf("port must be between %d and %d", min, max), err)
			}
			return 0, fail("port", s, "not a port number", err)
		}
		if uint16(v) < min || uint16(v) > max {
			return 0, fail("port", s, fmt.Sprintf("port must be between %d and %d", min, max), nil)
		}
		return Port(v), nil
	})
}

// ParsePortRange parses a range such as "1-65535" or "8000-9000".
// An empty string yields the full range.
func ParsePortRange(rangeStr string) (min, max uint16, err error) {
	if rangeStr == "" {
		return 0, math.MaxUint16, nil
	}

	lo, hi, ok := strings.Cut(rangeStr, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid port range format %q (expected \"min-max\")", rangeStr)
	}
	minVal, err := strconv.ParseUint(lo, 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid min port in range %q: %w", rangeStr, err)
	}
	maxVal, err := strconv.ParseUint(hi, 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid max port in range %q: %w", rangeStr, err)
	}
	if minVal > maxVal {
		return 0, 0, fmt.Errorf("invalid port range %q: min (%d) > max (%d)", rangeStr, minVal, maxVal)
	}
	return uint16(minVal), uint16(maxVal), nil
}
