// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package makeutil

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMakefile(t *testing.T) {
	m := &Makefile{
		Compiler:  "g++",
		Standard:  "c++11",
		OptLevel:  "O2",
		Libraries: []string{"m", "pthread"},
		Sources: []Source{
			{
				Var:    "MAIN_SOURCE_DEPS",
				File:   "main.cpp",
				Object: "main.o",
				Deps:   []string{"main.cpp", "util.h"},
			},
			{
				Var:    "TESTS_T1_SOURCE_DEPS",
				File:   "tests/t1.cpp",
				Object: "tests_t1.o",
				Deps:   []string{"tests/t1.cpp"},
			},
		},
		Groups: []Group{
			{
				Name:   "binaries",
				Always: true,
				Links: []Link{
					{
						Var:     "MAIN_OBJECT_DEPS",
						Target:  "prog",
						Objects: []string{"main.o", "util.o"},
					},
				},
			},
			{
				Name: "tests",
				Links: []Link{
					{
						Var:     "TESTS_T1_OBJECT_DEPS",
						Target:  "tests_t1",
						Objects: []string{"tests_t1.o"},
					},
				},
			},
			{
				Name: "benchmarks",
			},
		},
	}
	want := `CC := g++
CFLAGS := -Wall
CFLAGS += -std=c++11
CFLAGS += -O2
LFLAGS := -lm -lpthread

ODIR := .OBJ

MAIN_SOURCE_DEPS := main.cpp util.h
TESTS_T1_SOURCE_DEPS := tests/t1.cpp

all: binaries
.PHONY: all binaries tests

$(ODIR):
	@mkdir -p $(ODIR)

binaries: prog

MAIN_OBJECT_DEPS := $(ODIR)/main.o $(ODIR)/util.o
prog: $(ODIR) $(MAIN_OBJECT_DEPS)
	$(CC) $(CFLAGS) $(MAIN_OBJECT_DEPS) -o prog $(LFLAGS)

tests: tests_t1

TESTS_T1_OBJECT_DEPS := $(ODIR)/tests_t1.o
tests_t1: $(ODIR) $(TESTS_T1_OBJECT_DEPS)
	$(CC) $(CFLAGS) $(TESTS_T1_OBJECT_DEPS) -o tests_t1 $(LFLAGS)

$(ODIR)/main.o: $(ODIR) $(MAIN_SOURCE_DEPS)
	$(CC) -c $(CFLAGS) main.cpp -o $(ODIR)/main.o

$(ODIR)/tests_t1.o: $(ODIR) $(TESTS_T1_SOURCE_DEPS)
	$(CC) -c $(CFLAGS) tests/t1.cpp -o $(ODIR)/tests_t1.o

.PHONY: clean
clean:
	rm -rf .OBJ prog tests_t1
`
	var sb strings.Builder
	n, err := m.WriteTo(&sb)
	if err != nil {
		t.Fatalf("WriteTo=%d, %v; want nil err", n, err)
	}
	if n != int64(sb.Len()) {
		t.Errorf("WriteTo=%d; want %d", n, sb.Len())
	}
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Errorf("WriteTo diff -want +got:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"prog", "tests_t1"}, m.Targets()); diff != "" {
		t.Errorf("Targets diff -want +got:\n%s", diff)
	}
}

func TestMakefile_Empty(t *testing.T) {
	m := &Makefile{
		Compiler: "gcc",
		Standard: "c99",
		OptLevel: "O0",
		Groups: []Group{
			{Name: "binaries", Always: true},
			{Name: "tests"},
		},
	}
	want := `CC := gcc
CFLAGS := -Wall
CFLAGS += -std=c99
CFLAGS += -O0
LFLAGS :=

ODIR := .OBJ

all: binaries
.PHONY: all binaries

$(ODIR):
	@mkdir -p $(ODIR)

binaries:

.PHONY: clean
clean:
	rm -rf .OBJ
`
	got := m.String()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("String diff -want +got:\n%s", diff)
	}
	for i, line := range strings.Split(got, "\n") {
		if strings.TrimRight(line, " \t") != line {
			t.Errorf("line %d has trailing whitespace: %q", i+1, line)
		}
	}
}
