// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package scandeps

import (
	"path"
	"slices"
	"strings"
)

// SourceUnit is a parsed file in the project.
type SourceUnit struct {
	// Path is project relative, slash separated path.
	Path string

	// HasEntryPoint reports whether the file defines `main(`.
	HasEntryPoint bool

	// Includes are resolved `#include "..."` paths in order of appearance.
	Includes []string
}

// Ext returns extension of the file without leading dot.
func (u *SourceUnit) Ext() string {
	return strings.TrimPrefix(path.Ext(u.Path), ".")
}

// Graph is an include dependency graph of the project.
// Every path in any SourceUnit.Includes is also in the graph.
type Graph struct {
	units map[string]*SourceUnit

	// Libraries are libraries to link, in first seen order.
	Libraries []string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{units: make(map[string]*SourceUnit)}
}

// Add adds u to the graph.
// It returns false if the path is already in the graph, and keeps
// the existing one.
func (g *Graph) Add(u *SourceUnit) bool {
	if _, ok := g.units[u.Path]; ok {
		return false
	}
	g.units[u.Path] = u
	return true
}

// Lookup returns a SourceUnit for the path.
func (g *Graph) Lookup(p string) (*SourceUnit, bool) {
	u, ok := g.units[p]
	return u, ok
}

// Len returns number of files in the graph.
func (g *Graph) Len() int {
	return len(g.units)
}

// Paths returns all paths in the graph, sorted.
func (g *Graph) Paths() []string {
	paths := make([]string, 0, len(g.units))
	for p := range g.units {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}
