// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package build

import (
	"errors"
	"fmt"

	"go.chromium.org/infra/build/makegen/scandeps"
)

// ErrInconsistentGraph is an error when a path referred in the graph
// is not in the graph.
var ErrInconsistentGraph = errors.New("inconsistent dependency graph")

// Resolver resolves transitive dependencies of files in the graph.
// It doesn't modify the graph, and may be used concurrently.
type Resolver struct {
	graph *scandeps.Graph
	ext   string
}

// NewResolver creates a resolver for the graph, where ext is the extension
// of compilable files.
func NewResolver(graph *scandeps.Graph, ext string) *Resolver {
	return &Resolver{
		graph: graph,
		ext:   ext,
	}
}

// Closure returns all files needed to build file: file itself, and each
// dependency followed by its complementary file (e.g. foo.c for foo.h)
// if it exists, recursively. The result is in depth first pre-order,
// without duplicates.
func (r *Resolver) Closure(file string) ([]string, error) {
	return r.walk(file, true)
}

// SourceDeps returns file itself and files it includes transitively,
// in depth first pre-order, without duplicates.
// Object of file needs to be rebuilt when any of them is modified.
func (r *Resolver) SourceDeps(file string) ([]string, error) {
	return r.walk(file, false)
}

// ObjectDeps returns compilable files in Closure, i.e. objects to link
// for the entry point file.
func (r *Resolver) ObjectDeps(file string) ([]string, error) {
	closure, err := r.Closure(file)
	if err != nil {
		return nil, err
	}
	var deps []string
	for _, f := range closure {
		if HasExt(f, r.ext) {
			deps = append(deps, f)
		}
	}
	return deps, nil
}

// walkItem is an item in walk's stack.
// If complement is true, it visits complementary file of path if exists.
type walkItem struct {
	path       string
	complement bool
}

func (r *Resolver) walk(file string, withComplement bool) ([]string, error) {
	var result []string
	seen := make(map[string]bool)
	stack := []walkItem{{path: file}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		p := item.path
		if item.complement {
			p = Complement(item.path, r.ext)
			if _, ok := r.graph.Lookup(p); !ok {
				continue
			}
		}
		if seen[p] {
			continue
		}
		u, ok := r.graph.Lookup(p)
		if !ok {
			return nil, fmt.Errorf("%w: %s not found", ErrInconsistentGraph, p)
		}
		seen[p] = true
		result = append(result, p)
		for i := len(u.Includes) - 1; i >= 0; i-- {
			dep := u.Includes[i]
			if withComplement {
				stack = append(stack, walkItem{path: dep, complement: true})
			}
			stack = append(stack, walkItem{path: dep})
		}
	}
	return result, nil
}
