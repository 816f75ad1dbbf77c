// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package build

import (
	"errors"
	"fmt"
	"strings"
)

// Options are options to generate build description.
type Options struct {
	// Extension is extension of compilable files: "c" or "cpp".
	Extension string

	// Compiler is the compiler command, e.g. "gcc".
	Compiler string

	// Binary is the name of the main binary.
	Binary string

	// Standard is the language standard, e.g. "c99".
	Standard string

	// OptLevel is optimization level without leading dash, e.g. "O2".
	OptLevel string

	// MainFile is the file linked to Binary, e.g. "main.c".
	MainFile string

	// Tests, Benchmarks and Examples are files or directories, whose
	// entry points are built in each category.
	Tests      []string
	Benchmarks []string
	Examples   []string
}

type extensionDefault struct {
	compiler string
	standard string
}

var extensionDefaults = map[string]extensionDefault{
	"c": {
		compiler: "gcc",
		standard: "c99",
	},
	"cpp": {
		compiler: "g++",
		standard: "c++11",
	},
}

const defaultOptLevel = "O0"

// Default category directories.
const (
	DefaultTests      = "tests"
	DefaultBenchmarks = "benchmarks"
	DefaultExamples   = "examples"
)

// ConfigError is an error in user configuration, i.e. flags or
// config file.
type ConfigError struct {
	Name string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// SetDefaults sets default values to unset options.
// Compiler and Standard depend on Extension.
func (o *Options) SetDefaults() {
	d := extensionDefaults[o.Extension]
	if o.Compiler == "" {
		o.Compiler = d.compiler
	}
	if o.Standard == "" {
		o.Standard = d.standard
	}
	if o.OptLevel == "" {
		o.OptLevel = defaultOptLevel
	}
	o.OptLevel = strings.TrimPrefix(o.OptLevel, "-")
	if o.MainFile == "" && o.Extension != "" {
		o.MainFile = "main." + o.Extension
	}
	if o.Tests == nil {
		o.Tests = []string{DefaultTests}
	}
	if o.Benchmarks == nil {
		o.Benchmarks = []string{DefaultBenchmarks}
	}
	if o.Examples == nil {
		o.Examples = []string{DefaultExamples}
	}
}

// CheckExtension checks the extension is supported.
// It is enough for commands that only scan the project.
func (o *Options) CheckExtension() error {
	if o.Extension == "" {
		return &ConfigError{Name: "extension", Err: errors.New("must be set (c or cpp)")}
	}
	if _, ok := extensionDefaults[o.Extension]; !ok {
		return &ConfigError{Name: "extension", Err: fmt.Errorf("unsupported %q; want c or cpp", o.Extension)}
	}
	return nil
}

// Check checks the options are valid to generate build description.
func (o *Options) Check() error {
	if err := o.CheckExtension(); err != nil {
		return err
	}
	if o.Binary == "" {
		return &ConfigError{Name: "binary", Err: errors.New("must be set")}
	}
	for _, v := range []struct {
		name, value string
	}{
		{"binary", o.Binary},
		{"compiler", o.Compiler},
		{"std", o.Standard},
		{"opt", o.OptLevel},
		{"main_file", o.MainFile},
	} {
		if v.value == "" {
			return &ConfigError{Name: v.name, Err: errors.New("must not be empty")}
		}
		if strings.ContainsAny(v.value, " \t\n") {
			return &ConfigError{Name: v.name, Err: fmt.Errorf("must not contain spaces: %q", v.value)}
		}
	}
	if strings.Contains(o.Binary, "/") {
		return &ConfigError{Name: "binary", Err: fmt.Errorf("must be a file name: %q", o.Binary)}
	}
	return nil
}
