// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package version

import (
	"bytes"
	"runtime/debug"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPrint(t *testing.T) {
	buildInfo := &debug.BuildInfo{
		GoVersion: "go1.24.2",
		Deps: []*debug.Module{
			{Path: "go.starlark.net", Version: "v0.0.0-20250417143717-f57e51f710eb"},
		},
		Settings: []debug.BuildSetting{
			{Key: "GOOS", Value: "linux"},
			{Key: "vcs.revision", Value: "0123abc"},
			{Key: "vcs.modified", Value: "false"},
		},
	}
	for _, tc := range []struct {
		name string
		deps bool
		want string
	}{
		{
			name: "default",
			want: "makegen v1.0\ngo\tgo1.24.2\nbuild\tvcs.revision=0123abc\nbuild\tvcs.modified=false\n",
		},
		{
			name: "deps",
			deps: true,
			want: "makegen v1.0\ngo\tgo1.24.2\nbuild\tvcs.revision=0123abc\nbuild\tvcs.modified=false\ndep\tgo.starlark.net\tv0.0.0-20250417143717-f57e51f710eb\n",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := &versionRun{version: "makegen v1.0", deps: tc.deps, w: &buf}
			c.print(buildInfo)
			if diff := cmp.Diff(tc.want, buf.String()); diff != "" {
				t.Errorf("print diff -want +got:\n%s", diff)
			}
		})
	}
}
