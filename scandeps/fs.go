// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package scandeps

import (
	"context"
	"iter"
)

// FileSystem provides filesystem access for scandeps.
// *osfs.OSFS implements it.
type FileSystem interface {
	// Walk returns regular files under root, as root relative
	// slash separated paths. Hidden entries are skipped.
	Walk(ctx context.Context, root string) iter.Seq2[string, error]

	// ReadFile reads the contents of the named file.
	ReadFile(ctx context.Context, name string) ([]byte, error)

	// EvalSymlinks returns the path name after the evaluation of
	// any symbolic links, or error if the file doesn't exist.
	EvalSymlinks(name string) (string, error)
}
