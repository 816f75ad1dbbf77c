// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package scandeps

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	log "github.com/golang/glog"

	"go.chromium.org/infra/build/makegen/o11y/clog"
)

// ErrOutsideRoot is an error for an include that resolves outside of
// the project root.
var ErrOutsideRoot = errors.New("outside of project root")

// ResolveError is an error to resolve `#include "..."`.
type ResolveError struct {
	File    string
	Include string
	Err     error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s: #include %q: %v", e.File, e.Include, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// ScanDeps is a simple C/C++ dependency scanner.
type ScanDeps struct {
	fs   FileSystem
	libs Libraries
}

// New creates new ScanDeps.
func New(fsys FileSystem, libs Libraries) *ScanDeps {
	return &ScanDeps{
		fs:   fsys,
		libs: libs,
	}
}

// Scan scans all files with ext (without leading dot) under root and
// files included by them, and returns the include graph of the project.
// It fails on the first file that can't be read, parsed or resolved.
func (s *ScanDeps) Scan(ctx context.Context, root, ext string) (*Graph, error) {
	started := time.Now()
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = s.fs.EvalSymlinks(absRoot)
	if err != nil {
		return nil, fmt.Errorf("project root %s: %w", root, err)
	}
	sc := &scanner{
		fs:      s.fs,
		libs:    s.libs,
		root:    absRoot,
		graph:   NewGraph(),
		libSeen: make(map[string]bool),
	}
	suffix := "." + ext
	nwalk := 0
	for fname, err := range s.fs.Walk(ctx, absRoot) {
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", absRoot, err)
		}
		nwalk++
		if path.Ext(fname) != suffix {
			continue
		}
		if err := sc.visit(ctx, fname); err != nil {
			return nil, err
		}
	}
	clog.Infof(ctx, "scan %s: walk=%d files=%d libraries=%q in %s", absRoot, nwalk, sc.graph.Len(), sc.graph.Libraries, time.Since(started))
	return sc.graph, nil
}

// scanner holds state during a Scan.
type scanner struct {
	fs   FileSystem
	libs Libraries
	root string

	graph   *Graph
	libSeen map[string]bool
}

// visit reads fname and all files reachable from it that are not
// in the graph yet, in depth first pre-order.
func (sc *scanner) visit(ctx context.Context, fname string) error {
	stack := []string{fname}
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := sc.graph.Lookup(name); ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		u, err := sc.parse(ctx, name)
		if err != nil {
			return err
		}
		sc.graph.Add(u)
		for i := len(u.Includes) - 1; i >= 0; i-- {
			inc := u.Includes[i]
			if _, ok := sc.graph.Lookup(inc); ok {
				continue
			}
			stack = append(stack, inc)
		}
	}
	return nil
}

func (sc *scanner) parse(ctx context.Context, fname string) (*SourceUnit, error) {
	buf, err := sc.fs.ReadFile(ctx, filepath.Join(sc.root, filepath.FromSlash(fname)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fname, err)
	}
	includes, err := CPPScan(ctx, fname, buf)
	if err != nil {
		return nil, err
	}
	u := &SourceUnit{
		Path:          fname,
		HasEntryPoint: HasEntryPoint(buf),
	}
	for _, inc := range includes {
		switch inc.Kind {
		case System:
			lib, ok := sc.libs.Lookup(inc.Name)
			if !ok {
				continue
			}
			if sc.libSeen[lib] {
				continue
			}
			if log.V(1) {
				clog.Infof(ctx, "%s: %s needs library %s", fname, inc, lib)
			}
			sc.libSeen[lib] = true
			sc.graph.Libraries = append(sc.graph.Libraries, lib)
		case User:
			incpath, err := sc.resolve(fname, inc.Name)
			if err != nil {
				return nil, err
			}
			if log.V(2) {
				clog.Infof(ctx, "%s: %s -> %s", fname, inc, incpath)
			}
			u.Includes = append(u.Includes, incpath)
		}
	}
	return u, nil
}

// resolve resolves incname relative to the directory of fname, and
// returns project relative path of the include file.
// ".." is evaluated after symlinks, as the OS does.
func (sc *scanner) resolve(fname, incname string) (string, error) {
	var full string
	if filepath.IsAbs(incname) {
		full = incname
	} else {
		sep := string(filepath.Separator)
		full = strings.Join([]string{sc.root, filepath.FromSlash(path.Dir(fname)), filepath.FromSlash(incname)}, sep)
	}
	real, err := sc.fs.EvalSymlinks(full)
	if err != nil {
		return "", &ResolveError{File: fname, Include: incname, Err: err}
	}
	rel, err := filepath.Rel(sc.root, real)
	if err != nil || !filepath.IsLocal(rel) {
		return "", &ResolveError{File: fname, Include: incname, Err: ErrOutsideRoot}
	}
	return filepath.ToSlash(rel), nil
}
