// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package build

import (
	"path"
	"strings"
)

// headerExt is an extension of the header paired with a source file.
const headerExt = "h"

// Stem returns p without its final extension.
// A dot in a directory name is kept, e.g. "v1.2/foo.c" -> "v1.2/foo".
func Stem(p string) string {
	return strings.TrimSuffix(p, path.Ext(p))
}

// HasExt reports whether p has extension ext (without leading dot).
func HasExt(p, ext string) bool {
	return path.Ext(p) == "."+ext
}

// Complement returns the file paired with p:
// "foo.h" for source "foo.<ext>", "foo.<ext>" for any other "foo.*".
func Complement(p, ext string) string {
	if HasExt(p, ext) {
		return Stem(p) + "." + headerExt
	}
	return Stem(p) + "." + ext
}

// Escape escapes a stem to be used in a flat name, e.g. target name
// or object file name in the object directory.
func Escape(stem string) string {
	return strings.ReplaceAll(stem, "/", "_")
}

// VarName returns make variable name for the stem with the suffix,
// e.g. VarName("tests/foo", "SOURCE_DEPS") -> "TESTS_FOO_SOURCE_DEPS".
func VarName(stem, suffix string) string {
	return strings.ToUpper(Escape(stem)) + "_" + suffix
}
