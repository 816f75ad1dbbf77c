// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package gccutil provides utilities of gcc.
package gccutil

import (
	"context"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	"go.chromium.org/infra/build/makegen/execute"
	"go.chromium.org/infra/build/makegen/execute/localexec"
	"go.chromium.org/infra/build/makegen/o11y/clog"
	"go.chromium.org/infra/build/makegen/sync/semaphore"
	"go.chromium.org/infra/build/makegen/toolsupport/makeutil"
)

// Semaphore limits number of concurrent deps commands.
var Semaphore = semaphore.New("deps-gcc", runtime.NumCPU()*2)

// DepsArgs returns command line args to get deps for compile args.
// It drops flags to compile and to write depfile, and adds -MM, so
// the deps command prints user header deps to stdout.
func DepsArgs(args []string) []string {
	var dargs []string
	skip := false
	for _, arg := range args {
		if skip {
			skip = false
			continue
		}
		switch arg {
		case "-M", "-MM", "-MD", "-MMD", "-MP", "-c":
			continue
		case "-MF", "-MT", "-MQ", "-o":
			skip = true
			continue
		}
		if strings.HasPrefix(arg, "-MF") || strings.HasPrefix(arg, "-MT") || strings.HasPrefix(arg, "-MQ") {
			continue
		}
		if strings.HasPrefix(arg, "-o") {
			continue
		}
		dargs = append(dargs, arg)
	}
	dargs = append(dargs, "-MM")
	return dargs
}

// source returns the last non-flag arg in args, i.e. source file.
func source(args []string) string {
	for i := len(args) - 1; i > 0; i-- {
		if !strings.HasPrefix(args[i], "-") {
			return args[i]
		}
	}
	return ""
}

// Deps runs command specified by args, env, cwd and returns deps.
func Deps(ctx context.Context, args []string, env []string, cwd string) ([]string, error) {
	s := time.Now()
	cmd := &execute.Cmd{
		ID:       uuid.New().String(),
		Desc:     "DEPS " + source(args),
		Args:     args,
		Env:      env,
		ExecRoot: cwd,
	}
	ctx = clog.NewSpan(ctx, map[string]string{"cmd": cmd.ID})
	var wait time.Duration
	err := Semaphore.Do(ctx, func(ctx context.Context) error {
		wait = time.Since(s)
		return localexec.Run(ctx, cmd)
	})
	if err != nil {
		clog.Warningf(ctx, "failed to run %s: %v\n%s\n%s", cmd.Command(), err, cmd.Stdout(), cmd.Stderr())
		return nil, err
	}
	stdout := cmd.Stdout()
	if len(stdout) == 0 {
		clog.Warningf(ctx, "failed to run gcc deps? stdout:0 args:%q\nstderr:%s", cmd.Args, cmd.Stderr())
	}
	deps := makeutil.ParseDeps(stdout)
	clog.Infof(ctx, "gcc deps stdout:%d -> deps:%d: %s (wait:%s)", len(stdout), len(deps), time.Since(s), wait)
	return deps, nil
}
