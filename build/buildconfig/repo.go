// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package buildconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"go.starlark.net/starlark"
)

// fileLoader is a Starlark module loader.
// A module is a path relative to the directory of the config.
type fileLoader struct {
	dir         string
	predeclared starlark.StringDict

	// loading tracks modules being loaded to detect load cycle.
	loading map[string]bool
}

// Load loads a Starlark module.
func (l *fileLoader) Load(thread *starlark.Thread, module string) (starlark.StringDict, error) {
	log.Debugf("load %s from %s", module, thread.Name)
	if filepath.IsAbs(module) || !filepath.IsLocal(filepath.FromSlash(module)) {
		return nil, fmt.Errorf("module must be relative to %s: %q", l.dir, module)
	}
	if l.loading[module] {
		return nil, fmt.Errorf("cycle in load graph: %q", module)
	}
	l.loading[module] = true
	defer delete(l.loading, module)

	fullname := filepath.Join(l.dir, filepath.FromSlash(module))
	buf, err := os.ReadFile(fullname)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", module, err)
	}
	t := &starlark.Thread{
		Name: "module " + module,
		Print: func(thread *starlark.Thread, msg string) {
			log.Infof("thread:%s %s", thread.Name, msg)
		},
		Load: l.Load,
	}
	return starlark.ExecFile(t, fullname, buf, l.predeclared)
}
