// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package scandeps

// builtinLibraries maps well-known system headers to the library to link.
var builtinLibraries = map[string]string{
	"math.h":    "m",
	"pthread.h": "pthread",
	"ncurses.h": "ncurses",
}

// Libraries is a read-only table of system header to library name to link.
type Libraries struct {
	m map[string]string
}

// NewLibraries returns Libraries of the builtin headers and extra.
// extra overrides the builtin entries.
func NewLibraries(extra map[string]string) Libraries {
	m := make(map[string]string, len(builtinLibraries)+len(extra))
	for k, v := range builtinLibraries {
		m[k] = v
	}
	for k, v := range extra {
		m[k] = v
	}
	return Libraries{m: m}
}

// Lookup returns library name to link for the system header.
func (l Libraries) Lookup(header string) (string, bool) {
	lib, ok := l.m[header]
	return lib, ok
}
