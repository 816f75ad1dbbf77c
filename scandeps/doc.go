// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package scandeps provides forged C/C++ dependency scanner.
// It doesn't run C preprocessor. It reconstructs the textual include
// graph of a project from lines of the form
//
//	#include "foo.h"
//	#include <foo.h>
//
// `#include "..."` is resolved relative to the directory of the including
// file, and must stay in the project root. `#include <...>` is never
// resolved; it is only used to detect libraries to link (e.g. <math.h>
// needs -lm).
//
// It doesn't process macros, `#if` nor `#ifdef`, so a header included
// in a disabled branch is still a dependency. Using extra dependencies
// only costs extra recompilation, never a broken build.
//
// Delimiters are detected by a line-oriented heuristic:
// if a line has both '<' and '>' anywhere, it is treated as <...>,
// otherwise as "...". A line such as `#include "a<b>.h"` is misread
// as <b>; such lines are not supported.
//
// A file defines an entry point if its text contains `main(`.
// It may be a false positive when `main(` appears in a comment or
// a string literal.
package scandeps
