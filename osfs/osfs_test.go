// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package osfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func setupFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for fname, content := range files {
		fname := filepath.Join(dir, fname)
		err := os.MkdirAll(filepath.Dir(fname), 0755)
		if err != nil {
			t.Fatal(err)
		}
		err = os.WriteFile(fname, []byte(content), 0644)
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestWalk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	setupFiles(t, dir, map[string]string{
		"main.c":            "",
		"util.h":            "",
		"src/util.c":        "",
		".hidden.c":         "",
		".git/objects/x.c":  "",
		"src/.cache/tmp.c":  "",
		"tests/test_util.c": "",
	})

	fsys := New("test")
	var got []string
	for name, err := range fsys.Walk(ctx, dir) {
		if err != nil {
			t.Fatalf("Walk(%q)=%v", dir, err)
		}
		got = append(got, name)
	}
	want := []string{
		"main.c",
		"src/util.c",
		"tests/test_util.c",
		"util.h",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Walk(%q) diff -want +got:\n%s", dir, diff)
	}
}

func TestWalk_Break(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	setupFiles(t, dir, map[string]string{
		"a.c": "",
		"b.c": "",
	})
	fsys := New("test")
	n := 0
	for _, err := range fsys.Walk(ctx, dir) {
		if err != nil {
			t.Fatal(err)
		}
		n++
		break
	}
	if n != 1 {
		t.Errorf("Walk visited %d entries after break; want 1", n)
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	ctx := context.Background()
	fsys := New("test")
	var gotErr error
	for _, err := range fsys.Walk(ctx, filepath.Join(t.TempDir(), "nonexistent")) {
		gotErr = err
	}
	if !os.IsNotExist(gotErr) {
		t.Errorf("Walk(nonexistent) err=%v; want not exist", gotErr)
	}
}

func TestWriteFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fname := filepath.Join(dir, "Makefile")
	fsys := New("test")

	written, err := fsys.WriteFile(ctx, fname, []byte("all:\n"), 0644)
	if err != nil || !written {
		t.Fatalf("WriteFile(%q)=%t, %v; want true, nil", fname, written, err)
	}
	written, err = fsys.WriteFile(ctx, fname, []byte("all:\n"), 0644)
	if err != nil || written {
		t.Errorf("WriteFile(%q) same content=%t, %v; want false, nil", fname, written, err)
	}
	written, err = fsys.WriteFile(ctx, fname, []byte("all: binaries\n"), 0644)
	if err != nil || !written {
		t.Errorf("WriteFile(%q) new content=%t, %v; want true, nil", fname, written, err)
	}
	buf, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(buf), "all: binaries\n"; got != want {
		t.Errorf("content=%q; want %q", got, want)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(ents) != 1 {
		t.Errorf("dir has %d entries; want only Makefile (no temp files left)", len(ents))
	}
	if got := fsys.Stats().WOps; got != 2 {
		t.Errorf("WOps=%d; want 2", got)
	}
}

func TestWriteFile_MissingDir(t *testing.T) {
	ctx := context.Background()
	fname := filepath.Join(t.TempDir(), "nodir", "Makefile")
	fsys := New("test")
	_, err := fsys.WriteFile(ctx, fname, []byte("all:\n"), 0644)
	if err == nil {
		t.Errorf("WriteFile(%q)=nil error; want error", fname)
	}
}
