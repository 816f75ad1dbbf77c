// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package project loads a project from command line flags and its
// config file, for makegen subcommands.
package project

import (
	"context"
	"errors"
	"flag"
	"path/filepath"
	"strings"

	"go.chromium.org/infra/build/makegen/build"
	"go.chromium.org/infra/build/makegen/build/buildconfig"
	"go.chromium.org/infra/build/makegen/o11y/clog"
	"go.chromium.org/infra/build/makegen/osfs"
	"go.chromium.org/infra/build/makegen/scandeps"
)

// DefaultConfigFile is the config filename relative to the project root.
const DefaultConfigFile = "makegen.star"

// listFlag is a repeatable, comma separated list flag.
// It stays nil unless set, so config or defaults apply.
type listFlag struct {
	v *[]string
}

func (f listFlag) String() string {
	if f.v == nil {
		return ""
	}
	return strings.Join(*f.v, ",")
}

func (f listFlag) Set(v string) error {
	if *f.v == nil {
		*f.v = []string{}
	}
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		*f.v = append(*f.v, s)
	}
	return nil
}

// Flags are flags to specify a project.
type Flags struct {
	Dir        string
	ConfigFile string
	Options    build.Options
}

// Register registers flags in fs.
// If withTargets is false, flags only needed to generate a Makefile
// (binary, categories) are not registered.
func (f *Flags) Register(fs *flag.FlagSet, withTargets bool) {
	fs.StringVar(&f.Dir, "C", ".", "project root directory")
	fs.StringVar(&f.ConfigFile, "config", DefaultConfigFile, "project config file (relative to -C). ignored if not exist")
	fs.StringVar(&f.Options.Extension, "e", "", "extension of compilable files: c or cpp")
	fs.StringVar(&f.Options.Extension, "extension", "", "alias of -e")
	fs.StringVar(&f.Options.Compiler, "c", "", "compiler. default: gcc for c, g++ for cpp")
	fs.StringVar(&f.Options.Compiler, "compiler", "", "alias of -c")
	fs.StringVar(&f.Options.Standard, "std", "", "language standard. default: c99 for c, c++11 for cpp")
	if !withTargets {
		return
	}
	fs.StringVar(&f.Options.Binary, "b", "", "name of the main binary")
	fs.StringVar(&f.Options.Binary, "binary", "", "alias of -b")
	fs.StringVar(&f.Options.OptLevel, "opt", "", "optimization level. default: O0")
	fs.StringVar(&f.Options.MainFile, "main_file", "", "file linked to the main binary. default: main.<extension>")
	fs.Var(listFlag{&f.Options.Tests}, "tests", "comma separated files or directories of tests. default: tests")
	fs.Var(listFlag{&f.Options.Benchmarks}, "benchmarks", "comma separated files or directories of benchmarks. default: benchmarks")
	fs.Var(listFlag{&f.Options.Examples}, "examples", "comma separated files or directories of examples. default: examples")
}

// Project is a loaded project.
type Project struct {
	// Root is the project root directory.
	Root string

	// Options are flags merged with config file and defaults.
	Options build.Options

	// Libraries maps system headers to link names.
	Libraries scandeps.Libraries

	// FS is used to access files in the project.
	FS *osfs.OSFS
}

// Load loads the project config and merges it with the flags.
// Flags take precedence over the config file, which takes precedence
// over defaults. It checks the extension, but not the other options.
func (f *Flags) Load(ctx context.Context) (*Project, error) {
	if f.Dir == "" {
		return nil, &build.ConfigError{Name: "C", Err: errors.New("must not be empty")}
	}
	fname := f.ConfigFile
	if fname != "" && !filepath.IsAbs(fname) {
		fname = filepath.Join(f.Dir, fname)
	}
	cfg := &buildconfig.Config{}
	if fname != "" {
		var err error
		cfg, err = buildconfig.Load(ctx, fname)
		if err != nil {
			return nil, err
		}
	}
	opts := f.Options
	cfg.Apply(&opts)
	opts.SetDefaults()
	if err := opts.CheckExtension(); err != nil {
		return nil, err
	}
	clog.Infof(ctx, "project %s: options=%+v", f.Dir, opts)
	return &Project{
		Root:      f.Dir,
		Options:   opts,
		Libraries: scandeps.NewLibraries(cfg.Libraries),
		FS:        osfs.New("project"),
	}, nil
}

// Scan scans the project and returns its include graph.
func (p *Project) Scan(ctx context.Context) (*scandeps.Graph, error) {
	s := scandeps.New(p.FS, p.Libraries)
	return s.Scan(ctx, p.Root, p.Options.Extension)
}

// Path returns a path of name in the project root, unless name is
// absolute.
func (p *Project) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.Root, name)
}

// IsUsageError reports whether err is caused by the user's flags or
// config, rather than the project files or environment.
func IsUsageError(err error) bool {
	if errors.Is(err, flag.ErrHelp) {
		return true
	}
	var cerr *build.ConfigError
	if errors.As(err, &cerr) {
		return true
	}
	var aerr *build.AmbiguousCategoryError
	return errors.As(err, &aerr)
}
