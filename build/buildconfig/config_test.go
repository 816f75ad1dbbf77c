// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package buildconfig

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/makegen/build"
)

func writeConfig(t *testing.T, dir, fname, content string) string {
	t.Helper()
	fname = filepath.Join(dir, fname)
	err := os.WriteFile(fname, []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}
	return fname
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeConfig(t, dir, "common.star", `
TEST_DIRS = ["tests", "unittests"]
`)
	fname := writeConfig(t, dir, "makegen.star", `
load("common.star", "TEST_DIRS")

extension = "cpp"
binary = "prog"
std = "c++17"
main_file = path.join("src", "main.cpp")
tests = TEST_DIRS
benchmarks = ("bench",)
examples = []
libraries = {
    "zlib.h": "z",
    "curl/curl.h": "curl",
}
print("binary=%s" % binary)
`)
	got, err := Load(ctx, fname)
	if err != nil {
		t.Fatalf("Load(ctx, %q)=_, %v; want nil err", fname, err)
	}
	want := &Config{
		Extension:  "cpp",
		Binary:     "prog",
		Std:        "c++17",
		MainFile:   "src/main.cpp",
		Tests:      []string{"tests", "unittests"},
		Benchmarks: []string{"bench"},
		Examples:   []string{},
		Libraries: map[string]string{
			"zlib.h":      "z",
			"curl/curl.h": "curl",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load(ctx, %q) diff -want +got:\n%s", fname, diff)
	}
}

func TestLoad_NotExist(t *testing.T) {
	ctx := context.Background()
	fname := filepath.Join(t.TempDir(), "makegen.star")
	got, err := Load(ctx, fname)
	if err != nil {
		t.Fatalf("Load(ctx, %q)=_, %v; want nil err", fname, err)
	}
	if diff := cmp.Diff(&Config{}, got); diff != "" {
		t.Errorf("Load(ctx, %q) diff -want +got:\n%s", fname, diff)
	}
}

func TestLoad_Error(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		name     string
		content  string
		wantName string
	}{
		{
			name:     "string_type",
			content:  `binary = 1`,
			wantName: "binary",
		},
		{
			name:     "list_type",
			content:  `tests = {"a": "b"}`,
			wantName: "tests",
		},
		{
			name:     "list_element",
			content:  `examples = ["ok", 2]`,
			wantName: "examples",
		},
		{
			name:     "dict_type",
			content:  `libraries = ["m"]`,
			wantName: "libraries",
		},
		{
			name:     "dict_value",
			content:  `libraries = {"math.h": None}`,
			wantName: "libraries",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			fname := writeConfig(t, t.TempDir(), "makegen.star", tc.content)
			_, err := Load(ctx, fname)
			var cerr *build.ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("Load(ctx, %q)=_, %v; want *build.ConfigError", fname, err)
			}
			if cerr.Name != tc.wantName {
				t.Errorf("Load(ctx, %q)=_, %v; want error for %q", fname, err, tc.wantName)
			}
		})
	}
}

func TestLoad_SyntaxError(t *testing.T) {
	ctx := context.Background()
	fname := writeConfig(t, t.TempDir(), "makegen.star", "binary = \n")
	_, err := Load(ctx, fname)
	var cerr *build.ConfigError
	if !errors.As(err, &cerr) {
		t.Errorf("Load(ctx, %q)=_, %v; want *build.ConfigError", fname, err)
	}
}

func TestConfig_Apply(t *testing.T) {
	cfg := &Config{
		Extension:  "cpp",
		Compiler:   "clang++",
		Binary:     "fromconfig",
		Opt:        "O2",
		Tests:      []string{"unittests"},
		Benchmarks: []string{},
	}
	opts := build.Options{
		Binary:   "fromflag",
		Examples: []string{"demos"},
	}
	cfg.Apply(&opts)
	opts.SetDefaults()
	want := build.Options{
		Extension:  "cpp",
		Compiler:   "clang++",
		Binary:     "fromflag",
		Standard:   "c++11",
		OptLevel:   "O2",
		MainFile:   "main.cpp",
		Tests:      []string{"unittests"},
		Benchmarks: []string{},
		Examples:   []string{"demos"},
	}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Errorf("Apply diff -want +got:\n%s", diff)
	}
}

func TestVariables(t *testing.T) {
	ctx := context.Background()
	for _, v := range Variables {
		t.Run(v.Name, func(t *testing.T) {
			fname := writeConfig(t, t.TempDir(), "makegen.star", v.Name+" = 1\n")
			_, err := Load(ctx, fname)
			var cerr *build.ConfigError
			if !errors.As(err, &cerr) || cerr.Name != v.Name {
				t.Errorf("Load(ctx, %q)=_, %v; want *build.ConfigError for %q", fname, err, v.Name)
			}
		})
	}
}
