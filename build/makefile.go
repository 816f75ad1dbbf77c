// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package build

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"go.chromium.org/infra/build/makegen/scandeps"
	"go.chromium.org/infra/build/makegen/toolsupport/makeutil"
)

// ErrNameCollision is an error when two files or binaries map to the same
// name in Makefile.
var ErrNameCollision = errors.New("name collision")

const (
	groupBinaries = "binaries"

	sourceDepsSuffix = "SOURCE_DEPS"
	objectDepsSuffix = "OBJECT_DEPS"

	// standalonePrefix is a prefix of standalone binaries other than
	// main binary.
	standalonePrefix = "bin_"
)

// reservedTargets are targets defined in Makefile other than binaries.
var reservedTargets = []string{"all", groupBinaries, CategoryTests, CategoryBenchmarks, CategoryExamples, "clean"}

// names detects collision of names.
type names struct {
	kind string
	m    map[string]string
}

func newNames(kind string) *names {
	return &names{kind: kind, m: make(map[string]string)}
}

func (n *names) add(name, owner string) error {
	if prev, ok := n.m[name]; ok {
		return &ConfigError{
			Name: n.kind,
			Err:  fmt.Errorf("%w: %s and %s both map to %q", ErrNameCollision, prev, owner, name),
		}
	}
	n.m[name] = owner
	return nil
}

// NewMakefile returns Makefile to build entry points in p.
func NewMakefile(graph *scandeps.Graph, p Partition, opts Options) (*makeutil.Makefile, error) {
	r := NewResolver(graph, opts.Extension)
	m := &makeutil.Makefile{
		Compiler:  opts.Compiler,
		Standard:  opts.Standard,
		OptLevel:  opts.OptLevel,
		Libraries: graph.Libraries,
		ObjDir:    makeutil.DefaultObjDir,
	}

	objects := newNames("object")
	vars := newNames("variable")
	for _, fname := range graph.Paths() {
		if !HasExt(fname, opts.Extension) {
			continue
		}
		stem := Stem(fname)
		obj := Escape(stem) + ".o"
		if err := objects.add(obj, fname); err != nil {
			return nil, err
		}
		v := VarName(stem, sourceDepsSuffix)
		if err := vars.add(v, fname); err != nil {
			return nil, err
		}
		deps, err := r.SourceDeps(fname)
		if err != nil {
			return nil, err
		}
		m.Sources = append(m.Sources, makeutil.Source{
			Var:    v,
			File:   fname,
			Object: obj,
			Deps:   deps,
		})
	}

	targets := newNames("target")
	for _, t := range reservedTargets {
		targets.m[t] = "reserved target"
	}
	mainStem := Stem(path.Clean(filepath.ToSlash(opts.MainFile)))
	standaloneName := func(stem string) string {
		if stem == mainStem {
			return opts.Binary
		}
		return standalonePrefix + Escape(stem)
	}
	for _, g := range []struct {
		name   string
		stems  []string
		naming func(string) string
	}{
		{name: groupBinaries, stems: p.Standalone, naming: standaloneName},
		{name: CategoryTests, stems: p.Tests, naming: Escape},
		{name: CategoryBenchmarks, stems: p.Benchmarks, naming: Escape},
		{name: CategoryExamples, stems: p.Examples, naming: Escape},
	} {
		group := makeutil.Group{
			Name:   g.name,
			Always: g.name == groupBinaries,
		}
		for _, stem := range g.stems {
			fname := stem + "." + opts.Extension
			target := g.naming(stem)
			if err := targets.add(target, fname); err != nil {
				return nil, err
			}
			deps, err := r.ObjectDeps(fname)
			if err != nil {
				return nil, err
			}
			link := makeutil.Link{
				Var:    VarName(stem, objectDepsSuffix),
				Target: target,
			}
			for _, dep := range deps {
				link.Objects = append(link.Objects, Escape(Stem(dep))+".o")
			}
			group.Links = append(group.Links, link)
		}
		m.Groups = append(m.Groups, group)
	}
	return m, nil
}
