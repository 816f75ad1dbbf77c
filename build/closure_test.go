// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package build

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/makegen/scandeps"
)

func newGraph(t *testing.T, units ...*scandeps.SourceUnit) *scandeps.Graph {
	t.Helper()
	g := scandeps.NewGraph()
	for _, u := range units {
		if !g.Add(u) {
			t.Fatalf("duplicate unit %q", u.Path)
		}
	}
	return g
}

func TestResolver(t *testing.T) {
	g := newGraph(t,
		&scandeps.SourceUnit{Path: "main.c", HasEntryPoint: true, Includes: []string{"foo.h", "bar.h"}},
		&scandeps.SourceUnit{Path: "foo.h", Includes: []string{"types.h"}},
		&scandeps.SourceUnit{Path: "foo.c", Includes: []string{"foo.h", "util.h"}},
		&scandeps.SourceUnit{Path: "bar.h"},
		&scandeps.SourceUnit{Path: "types.h"},
		&scandeps.SourceUnit{Path: "util.h"},
		&scandeps.SourceUnit{Path: "util.c", Includes: []string{"util.h"}},
	)
	r := NewResolver(g, "c")

	for _, tc := range []struct {
		name string
		f    func(string) ([]string, error)
		want []string
	}{
		{
			name: "Closure",
			f:    r.Closure,
			want: []string{"main.c", "foo.h", "types.h", "foo.c", "util.h", "util.c", "bar.h"},
		},
		{
			name: "SourceDeps",
			f:    r.SourceDeps,
			want: []string{"main.c", "foo.h", "types.h", "bar.h"},
		},
		{
			name: "ObjectDeps",
			f:    r.ObjectDeps,
			want: []string{"main.c", "foo.c", "util.c"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.f("main.c")
			if err != nil {
				t.Fatalf("%s(%q)=_, %v; want nil err", tc.name, "main.c", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("%s(%q) diff -want +got:\n%s", tc.name, "main.c", diff)
			}
			again, err := tc.f("main.c")
			if err != nil {
				t.Fatalf("%s(%q)=_, %v; want nil err", tc.name, "main.c", err)
			}
			if diff := cmp.Diff(got, again); diff != "" {
				t.Errorf("%s(%q) is not idempotent -first +second:\n%s", tc.name, "main.c", diff)
			}
		})
	}
}

func TestResolver_Complementary(t *testing.T) {
	// main.c includes only foo.h, but foo.c needs to be linked.
	g := newGraph(t,
		&scandeps.SourceUnit{Path: "main.c", HasEntryPoint: true, Includes: []string{"foo.h"}},
		&scandeps.SourceUnit{Path: "foo.h"},
		&scandeps.SourceUnit{Path: "foo.c", Includes: []string{"foo.h"}},
		&scandeps.SourceUnit{Path: "main.h"},
	)
	r := NewResolver(g, "c")
	got, err := r.ObjectDeps("main.c")
	if err != nil {
		t.Fatalf("ObjectDeps(%q)=_, %v; want nil err", "main.c", err)
	}
	if diff := cmp.Diff([]string{"main.c", "foo.c"}, got); diff != "" {
		t.Errorf("ObjectDeps(%q) diff -want +got:\n%s", "main.c", diff)
	}
	// complementary file of the root file itself is not added.
	got, err = r.Closure("main.c")
	if err != nil {
		t.Fatalf("Closure(%q)=_, %v; want nil err", "main.c", err)
	}
	if diff := cmp.Diff([]string{"main.c", "foo.h", "foo.c"}, got); diff != "" {
		t.Errorf("Closure(%q) diff -want +got:\n%s", "main.c", diff)
	}
}

func TestResolver_SourceInclude(t *testing.T) {
	// foo.c is included directly; its complementary foo.h follows.
	g := newGraph(t,
		&scandeps.SourceUnit{Path: "main.cpp", HasEntryPoint: true, Includes: []string{"foo.cpp"}},
		&scandeps.SourceUnit{Path: "foo.cpp"},
		&scandeps.SourceUnit{Path: "foo.h", Includes: []string{"bar.h"}},
		&scandeps.SourceUnit{Path: "bar.h"},
		&scandeps.SourceUnit{Path: "bar.cpp"},
	)
	r := NewResolver(g, "cpp")
	got, err := r.Closure("main.cpp")
	if err != nil {
		t.Fatalf("Closure(%q)=_, %v; want nil err", "main.cpp", err)
	}
	want := []string{"main.cpp", "foo.cpp", "foo.h", "bar.h", "bar.cpp"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Closure(%q) diff -want +got:\n%s", "main.cpp", diff)
	}
}

func TestResolver_Cycle(t *testing.T) {
	g := newGraph(t,
		&scandeps.SourceUnit{Path: "main.c", HasEntryPoint: true, Includes: []string{"a.h"}},
		&scandeps.SourceUnit{Path: "a.h", Includes: []string{"b.h"}},
		&scandeps.SourceUnit{Path: "b.h", Includes: []string{"a.h", "b.h"}},
		&scandeps.SourceUnit{Path: "a.c", Includes: []string{"a.h", "main.c"}},
		&scandeps.SourceUnit{Path: "b.c", Includes: []string{"b.h"}},
	)
	r := NewResolver(g, "c")
	got, err := r.Closure("main.c")
	if err != nil {
		t.Fatalf("Closure(%q)=_, %v; want nil err", "main.c", err)
	}
	want := []string{"main.c", "a.h", "b.h", "a.c", "b.c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Closure(%q) diff -want +got:\n%s", "main.c", diff)
	}
}

func TestResolver_Inconsistent(t *testing.T) {
	g := newGraph(t,
		&scandeps.SourceUnit{Path: "main.c", Includes: []string{"missing.h"}},
	)
	r := NewResolver(g, "c")
	for _, fname := range []string{"main.c", "nothing.c"} {
		_, err := r.Closure(fname)
		if !errors.Is(err, ErrInconsistentGraph) {
			t.Errorf("Closure(%q)=_, %v; want %v", fname, err, ErrInconsistentGraph)
		}
	}
}
