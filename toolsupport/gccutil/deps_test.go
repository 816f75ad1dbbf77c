// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package gccutil_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/makegen/toolsupport/gccutil"
)

func TestDepsArgs(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "separateFlag",
			args: []string{
				"gcc",
				"-std=c99",
				"-MMD",
				"-MF",
				".OBJ/main.o.d",
				"-c",
				"main.c",
				"-o",
				".OBJ/main.o",
			},
			want: []string{
				"gcc",
				"-std=c99",
				"main.c",
				"-MM",
			},
		},
		{
			name: "joinedFlag",
			args: []string{
				"g++",
				"-MMD",
				"-MF.OBJ/main.o.d",
				"-MT.OBJ/main.o",
				"-Iinclude",
				"-c",
				"src/main.cpp",
				"-o.OBJ/src_main.o",
			},
			want: []string{
				"g++",
				"-Iinclude",
				"src/main.cpp",
				"-MM",
			},
		},
		{
			name: "alreadyDeps",
			args: []string{
				"gcc",
				"-M",
				"-MP",
				"main.c",
			},
			want: []string{
				"gcc",
				"main.c",
				"-MM",
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := gccutil.DepsArgs(tc.args)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("gccutil.DepsArgs(%q): diff (-want +got):\n%s", tc.args, diff)
			}
		})
	}
}

func TestDeps(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs /bin/sh")
	}
	ctx := context.Background()
	dir := t.TempDir()
	// fake compiler prints depfile for the source.
	script := filepath.Join(dir, "fakecc")
	err := os.WriteFile(script, []byte("#!/bin/sh\nprintf 'main.o: main.c util.h \\\\\\n config.h\\n\\nutil.h:\\n'\n"), 0755)
	if err != nil {
		t.Fatal(err)
	}
	got, err := gccutil.Deps(ctx, []string{"/bin/sh", script, "main.c", "-MM"}, nil, dir)
	if err != nil {
		t.Fatalf("gccutil.Deps(ctx, ...)=_, %v; want nil err", err)
	}
	want := []string{"main.c", "util.h", "config.h"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("gccutil.Deps(ctx, ...): diff (-want +got):\n%s", diff)
	}
}
