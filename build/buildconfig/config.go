// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package buildconfig provides project config for `makegen gen`.
//
// The config is a Starlark file (makegen.star by default) in the project
// root, which sets global variables:
//
//	extension = "cpp"
//	compiler = "clang++"
//	binary = "prog"
//	std = "c++17"
//	opt = "O2"
//	main_file = "src/main.cpp"
//	tests = ["tests", "unittests"]
//	benchmarks = ["bench"]
//	examples = []
//	libraries = {"zlib.h": "z"}
//
// All variables are optional. Values given by command line flags take
// precedence over the config.
package buildconfig

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"go.starlark.net/starlark"

	"go.chromium.org/infra/build/makegen/build"
)

// Global variable names read from the config.
const (
	varExtension  = "extension"
	varCompiler   = "compiler"
	varBinary     = "binary"
	varStd        = "std"
	varOpt        = "opt"
	varMainFile   = "main_file"
	varTests      = "tests"
	varBenchmarks = "benchmarks"
	varExamples   = "examples"
	varLibraries  = "libraries"
)

// Variable describes a global variable read from the config.
type Variable struct {
	Name string
	Type string
	Desc string
}

// Variables are the global variables read from the config.
var Variables = []Variable{
	{varExtension, "string", "extension of compilable files: c or cpp"},
	{varCompiler, "string", "compiler command"},
	{varBinary, "string", "name of the main binary"},
	{varStd, "string", "language standard"},
	{varOpt, "string", "optimization level"},
	{varMainFile, "string", "file linked to the main binary"},
	{varTests, "list of string", "files or directories of tests"},
	{varBenchmarks, "list of string", "files or directories of benchmarks"},
	{varExamples, "list of string", "files or directories of examples"},
	{varLibraries, "dict of string", "system header to library name to link"},
}

// Config is a project config.
// Zero value (or nil) means not set.
type Config struct {
	Extension string
	Compiler  string
	Binary    string
	Std       string
	Opt       string
	MainFile  string

	Tests      []string
	Benchmarks []string
	Examples   []string

	// Libraries maps system header to library name to link,
	// in addition to builtin ones.
	Libraries map[string]string
}

// Load loads config from fname.
// It returns empty config if fname doesn't exist.
func Load(ctx context.Context, fname string) (*Config, error) {
	buf, err := os.ReadFile(fname)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debugf("no config %s", fname)
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	loader := &fileLoader{
		dir:         filepath.Dir(fname),
		predeclared: builtinModule(),
		loading:     make(map[string]bool),
	}
	thread := &starlark.Thread{
		Name: "load",
		Print: func(thread *starlark.Thread, msg string) {
			log.Infof("thread:%s %s", thread.Name, msg)
		},
		Load: loader.Load,
	}
	globals, err := starlark.ExecFile(thread, fname, buf, loader.predeclared)
	if err != nil {
		log.Warnf("thread:%s failed to exec file %s: %v", thread.Name, fname, err)
		var eerr *starlark.EvalError
		if errors.As(err, &eerr) {
			log.Warnf("stacktrace:\n%s", eerr.Backtrace())
		}
		return nil, &build.ConfigError{Name: fname, Err: err}
	}
	log.Debugf("config: %s", globals)
	return fromGlobals(globals)
}

func fromGlobals(globals starlark.StringDict) (*Config, error) {
	cfg := &Config{}
	var err error
	for _, v := range []struct {
		name string
		p    *string
	}{
		{varExtension, &cfg.Extension},
		{varCompiler, &cfg.Compiler},
		{varBinary, &cfg.Binary},
		{varStd, &cfg.Std},
		{varOpt, &cfg.Opt},
		{varMainFile, &cfg.MainFile},
	} {
		*v.p, err = stringValue(globals, v.name)
		if err != nil {
			return nil, err
		}
	}
	for _, v := range []struct {
		name string
		p    *[]string
	}{
		{varTests, &cfg.Tests},
		{varBenchmarks, &cfg.Benchmarks},
		{varExamples, &cfg.Examples},
	} {
		*v.p, err = stringListValue(globals, v.name)
		if err != nil {
			return nil, err
		}
	}
	cfg.Libraries, err = stringDictValue(globals, varLibraries)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func stringValue(globals starlark.StringDict, name string) (string, error) {
	v, ok := globals[name]
	if !ok || v == starlark.None {
		return "", nil
	}
	s, ok := starlark.AsString(v)
	if !ok {
		return "", &build.ConfigError{Name: name, Err: fmt.Errorf("got %s, want string", v.Type())}
	}
	return s, nil
}

// stringListValue returns a list of strings.
// It returns non-nil empty slice for empty list, to distinguish it
// from unset.
func stringListValue(globals starlark.StringDict, name string) ([]string, error) {
	v, ok := globals[name]
	if !ok || v == starlark.None {
		return nil, nil
	}
	if s, ok := starlark.AsString(v); ok {
		return []string{s}, nil
	}
	var seq starlark.Indexable
	switch v := v.(type) {
	case *starlark.List:
		seq = v
	case starlark.Tuple:
		seq = v
	default:
		return nil, &build.ConfigError{Name: name, Err: fmt.Errorf("got %s, want list of string", v.Type())}
	}
	list := make([]string, 0, seq.Len())
	for i := range seq.Len() {
		e := seq.Index(i)
		s, ok := starlark.AsString(e)
		if !ok {
			return nil, &build.ConfigError{Name: name, Err: fmt.Errorf("element %d: got %s, want string", i, e.Type())}
		}
		list = append(list, s)
	}
	return list, nil
}

func stringDictValue(globals starlark.StringDict, name string) (map[string]string, error) {
	v, ok := globals[name]
	if !ok || v == starlark.None {
		return nil, nil
	}
	d, ok := v.(*starlark.Dict)
	if !ok {
		return nil, &build.ConfigError{Name: name, Err: fmt.Errorf("got %s, want dict", v.Type())}
	}
	m := make(map[string]string, d.Len())
	for _, item := range d.Items() {
		k, ok := starlark.AsString(item[0])
		if !ok {
			return nil, &build.ConfigError{Name: name, Err: fmt.Errorf("key %s: got %s, want string", item[0], item[0].Type())}
		}
		val, ok := starlark.AsString(item[1])
		if !ok {
			return nil, &build.ConfigError{Name: name, Err: fmt.Errorf("value for %q: got %s, want string", k, item[1].Type())}
		}
		m[k] = val
	}
	return m, nil
}

// Apply sets config values to unset fields of opts.
func (cfg *Config) Apply(opts *build.Options) {
	for _, v := range []struct {
		dst *string
		src string
	}{
		{&opts.Extension, cfg.Extension},
		{&opts.Compiler, cfg.Compiler},
		{&opts.Binary, cfg.Binary},
		{&opts.Standard, cfg.Std},
		{&opts.OptLevel, cfg.Opt},
		{&opts.MainFile, cfg.MainFile},
	} {
		if *v.dst == "" {
			*v.dst = v.src
		}
	}
	for _, v := range []struct {
		dst *[]string
		src []string
	}{
		{&opts.Tests, cfg.Tests},
		{&opts.Benchmarks, cfg.Benchmarks},
		{&opts.Examples, cfg.Examples},
	} {
		if *v.dst == nil {
			*v.dst = v.src
		}
	}
}
