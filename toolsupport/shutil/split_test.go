// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplit(t *testing.T) {
	for _, tc := range []struct {
		cmdline string
		want    []string
	}{
		{
			cmdline: "-Iinclude -DNDEBUG -Wextra",
			want:    []string{"-Iinclude", "-DNDEBUG", "-Wextra"},
		},
		{
			cmdline: "  -I include\t-DX=1  ",
			want:    []string{"-I", "include", "-DX=1"},
		},
		{
			cmdline: `-DVERSION=\"1.0\" -DNAME="a b" -DPATH='c:\dir'`,
			want:    []string{`-DVERSION="1.0"`, "-DNAME=a b", `-DPATH=c:\dir`},
		},
		{
			cmdline: `-I"my dir"/include ''`,
			want:    []string{"-Imy dir/include", ""},
		},
		{
			cmdline: `-DQ="say \"hi\""`,
			want:    []string{`-DQ=say "hi"`},
		},
		{
			cmdline: "-DX=a#b",
			want:    []string{"-DX=a#b"},
		},
		{
			cmdline: "",
			want:    nil,
		},
	} {
		got, err := Split(tc.cmdline)
		if err != nil {
			t.Errorf("Split(%q)=_, %v; want nil err", tc.cmdline, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Split(%q) diff -want +got:\n%s", tc.cmdline, diff)
		}
	}
}

func TestSplit_Error(t *testing.T) {
	for _, cmdline := range []string{
		"-DX=1; rm -rf /",
		"-I$(HOME)/include",
		"-DX=1 | cat",
		"-DX=1 > out",
		`-DNAME="unterminated`,
		`-DX=\`,
		"# comment",
		"`pkg-config --cflags zlib`",
	} {
		got, err := Split(cmdline)
		if err == nil {
			t.Errorf("Split(%q)=%q, nil; want err", cmdline, got)
		}
	}
}

func TestJoin(t *testing.T) {
	for _, args := range [][]string{
		{"gcc", "-MM", "main.c"},
		{"gcc", "-DNAME=a b", "-DQ='x'", ""},
		{"g++", `-DVERSION="1.0"`, "dir with space/main.cpp"},
	} {
		cmdline := Join(args)
		got, err := Split(cmdline)
		if err != nil {
			t.Errorf("Split(Join(%q)=%q)=_, %v; want nil err", args, cmdline, err)
			continue
		}
		if diff := cmp.Diff(args, got); diff != "" {
			t.Errorf("Split(Join(%q)=%q) diff -want +got:\n%s", args, cmdline, diff)
		}
	}
	if got, want := Join([]string{"gcc", "-c", "a.c"}), "gcc -c a.c"; got != want {
		t.Errorf("Join=%q; want %q", got, want)
	}
}
