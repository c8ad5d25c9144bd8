// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argv wraps a raw argument sequence in a cursor with one-token
// lookahead.
//
// A Stream is a pure cursor: it knows nothing about flags, separators or
// subcommands. Classification of tokens belongs to package clip, which owns
// the "--" mode bit and decides how each token is interpreted.
package argv
