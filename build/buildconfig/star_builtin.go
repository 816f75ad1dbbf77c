// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package buildconfig

import (
	"fmt"
	"path"
	"runtime"
	"strings"

	starjson "go.starlark.net/lib/json"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// builtinModule returns predeclared values for the config.
//
//	runtime.os, runtime.arch, runtime.num_cpu
//	path.base(fname), path.dir(fname), path.join(...), path.stem(fname)
//	json.encode(x), json.decode(s)
func builtinModule() starlark.StringDict {
	runtimeModule := &starlarkstruct.Module{
		Name: "runtime",
		Members: map[string]starlark.Value{
			"num_cpu": starlark.MakeInt(runtime.NumCPU()),
			"os":      starlark.String(runtime.GOOS),
			"arch":    starlark.String(runtime.GOARCH),
		},
	}
	runtimeModule.Freeze()

	pathModule := &starlarkstruct.Module{
		Name: "path",
		Members: map[string]starlark.Value{
			"base": starlark.NewBuiltin("base", starPathFunc("base", path.Base)),
			"dir":  starlark.NewBuiltin("dir", starPathFunc("dir", path.Dir)),
			"stem": starlark.NewBuiltin("stem", starPathFunc("stem", func(fname string) string {
				return strings.TrimSuffix(fname, path.Ext(fname))
			})),
			"join": starlark.NewBuiltin("join", starPathJoin),
		},
	}
	pathModule.Freeze()

	return starlark.StringDict{
		"runtime": runtimeModule,
		"path":    pathModule,
		"json":    starjson.Module,
		"struct":  starlark.NewBuiltin("struct", starlarkstruct.Make),
	}
}

// starPathFunc returns Starlark function `path.<name>(fname)` that
// returns f(fname). Paths are slash separated.
func starPathFunc(name string, f func(string) string) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var fname string
		err := starlark.UnpackArgs(name, args, kwargs, "fname", &fname)
		if err != nil {
			return starlark.None, err
		}
		return starlark.String(f(fname)), nil
	}
}

// Starlark function `path.join(...)` to return joined path name.
func starPathJoin(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var elems []string
	for _, v := range args {
		s, ok := starlark.AsString(v)
		if !ok {
			return starlark.None, fmt.Errorf("join: for parameter elems: got %s, want string", v.Type())
		}
		elems = append(elems, s)
	}
	return starlark.String(path.Join(elems...)), nil
}
