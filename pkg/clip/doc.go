// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clip matches argument tokens against a shape and validates the
// outcome.
//
// Parse walks the tokens once. Each token is classified in this order:
//   - after "--", every token is positional
//   - "--" itself switches to positional-only mode
//   - a flag-shaped token is resolved against the shape's long or short
//     keys; unknown keys fail with argerr.UnknownFlag
//   - anything else fills the next positional member by rank, or selects a
//     subcommand variant and hands the remaining tokens to its shape
//
// When the tokens run out, required members and minimum counts are
// checked and defaults are applied. Every failure aborts the parse and is
// returned as an *argerr.Error.
//
// # Flag Syntax
//
//   - Presence flags: -v, --verbose, --verbose=false
//   - Valued flags: --name Ada, --name=Ada, -n Ada, -nAda, -n=Ada
//   - Clustered short flags: -abc is -a -b -c; the first clustered flag that
//     takes a value consumes the rest of the cluster (-vofile is -v -o file)
//
// A valued flag never consumes a following token that is itself flag-shaped
// or the separator; negative numbers are values, not flags.
package clip
