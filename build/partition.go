// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package build

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.chromium.org/infra/build/makegen/scandeps"
)

// Partition is entry points partitioned by category.
// Each is a sorted list of stems, i.e. path without extension.
type Partition struct {
	Standalone []string
	Tests      []string
	Benchmarks []string
	Examples   []string
}

// Category names.
const (
	CategoryTests      = "tests"
	CategoryBenchmarks = "benchmarks"
	CategoryExamples   = "examples"
)

// AmbiguousCategoryError is an error when an entry point belongs to
// more than one category.
type AmbiguousCategoryError struct {
	File       string
	Categories []string
}

func (e *AmbiguousCategoryError) Error() string {
	return fmt.Sprintf("%s matches multiple categories: %s", e.File, strings.Join(e.Categories, ", "))
}

// cleanPattern cleans a category pattern, e.g. "./tests/" -> "tests",
// "tests/foo.c" -> "tests/foo".
func cleanPattern(pattern, ext string) string {
	pattern = path.Clean(filepath.ToSlash(pattern))
	if HasExt(pattern, ext) {
		pattern = Stem(pattern)
	}
	return pattern
}

// matchPatterns reports whether stem is one of patterns, or in a directory
// of patterns.
func matchPatterns(stem string, patterns []string) bool {
	for _, pattern := range patterns {
		if stem == pattern || strings.HasPrefix(stem, pattern+"/") {
			return true
		}
	}
	return false
}

// PartitionFiles partitions compilable entry points in the graph by
// opts' categories.
func PartitionFiles(graph *scandeps.Graph, opts Options) (Partition, error) {
	type category struct {
		name     string
		patterns []string
		files    *[]string
	}
	var p Partition
	categories := []category{
		{name: CategoryTests, files: &p.Tests},
		{name: CategoryBenchmarks, files: &p.Benchmarks},
		{name: CategoryExamples, files: &p.Examples},
	}
	for i, patterns := range [][]string{opts.Tests, opts.Benchmarks, opts.Examples} {
		for _, s := range patterns {
			s = cleanPattern(s, opts.Extension)
			if s == "." || s == "" {
				continue
			}
			categories[i].patterns = append(categories[i].patterns, s)
		}
	}
	for _, fname := range graph.Paths() {
		if !HasExt(fname, opts.Extension) {
			continue
		}
		u, _ := graph.Lookup(fname)
		if !u.HasEntryPoint {
			continue
		}
		stem := Stem(fname)
		var matched []*category
		for i := range categories {
			if matchPatterns(stem, categories[i].patterns) {
				matched = append(matched, &categories[i])
			}
		}
		switch len(matched) {
		case 0:
			p.Standalone = append(p.Standalone, stem)
		case 1:
			*matched[0].files = append(*matched[0].files, stem)
		default:
			err := &AmbiguousCategoryError{File: fname}
			for _, c := range matched {
				err.Categories = append(err.Categories, c.name)
			}
			return Partition{}, err
		}
	}
	for _, files := range [][]string{p.Standalone, p.Tests, p.Benchmarks, p.Examples} {
		slices.Sort(files)
	}
	return p, nil
}
