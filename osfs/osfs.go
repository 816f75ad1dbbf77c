// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package osfs provides OS Filesystem access.
package osfs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.chromium.org/infra/build/makegen/o11y/clog"
	"go.chromium.org/infra/build/makegen/o11y/iometrics"
)

// OSFS provides OS Filesystem access.
// It counts metrics by iometrics.
type OSFS struct {
	*iometrics.IOMetrics
}

// New creates new OSFS.
func New(name string) *OSFS {
	return &OSFS{IOMetrics: iometrics.New(name)}
}

func logSlow(ctx context.Context, name string, dur time.Duration, err error) {
	buf := make([]byte, 4*1024)
	n := runtime.Stack(buf, false)
	clog.Warningf(ctx, "slow op %s: %s %v\n%s", name, dur, err, buf[:n])
}

var errStopWalk = errors.New("stop walk")

// IsHidden reports whether the base name is a hidden entry.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Walk returns a sequence of regular files under root, in lexical order.
// Names are relative to root and slash-separated.
// Hidden files and directories are skipped, as are symlinks.
// The sequence yields a non-nil error at most once, and stops after it.
func (fsys *OSFS) Walk(ctx context.Context, root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := filepath.WalkDir(root, func(pathname string, d fs.DirEntry, err error) error {
			fsys.WalkDone(err)
			if err != nil {
				return err
			}
			if pathname != root && IsHidden(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			rel, err := filepath.Rel(root, pathname)
			if err != nil {
				return err
			}
			if !yield(filepath.ToSlash(rel), nil) {
				return errStopWalk
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopWalk) {
			yield("", err)
		}
	}
}

// ReadFile reads the named file.
func (fsys *OSFS) ReadFile(ctx context.Context, name string) ([]byte, error) {
	started := time.Now()
	buf, err := os.ReadFile(name)
	fsys.ReadDone(len(buf), err)
	if dur := time.Since(started); dur > 1*time.Minute {
		logSlow(ctx, name, dur, err)
	}
	return buf, err
}

// EvalSymlinks returns the path name after the evaluation of any
// symbolic links. The named file must exist.
func (fsys *OSFS) EvalSymlinks(name string) (string, error) {
	return filepath.EvalSymlinks(name)
}

// WriteFile writes data to the named file atomically.
// The data is written to a temporary file in the same directory, and
// renamed to name only when fully written, so a failure never leaves a
// partial file behind.
// It keeps the file untouched and returns false if it already has
// the same contents.
func (fsys *OSFS) WriteFile(ctx context.Context, name string, data []byte, perm fs.FileMode) (bool, error) {
	old, err := os.ReadFile(name)
	fsys.ReadDone(len(old), err)
	if err == nil && bytes.Equal(old, data) {
		clog.Infof(ctx, "%s is up-to-date", name)
		return false, nil
	}
	started := time.Now()
	err = writeFileAtomic(name, data, perm)
	fsys.WriteDone(len(data), err)
	if dur := time.Since(started); dur > 1*time.Minute {
		logSlow(ctx, name, dur, err)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func writeFileAtomic(name string, data []byte, perm fs.FileMode) (err error) {
	f, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*.tmp")
	if err != nil {
		return err
	}
	tmpname := f.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpname)
		}
	}()
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", tmpname, err)
	}
	err = os.Chmod(tmpname, perm)
	if err != nil {
		return err
	}
	return os.Rename(tmpname, name)
}
