// Copyright 2023 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	log "github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/maruel/subcommands"
	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/system/signals"

	"go.chromium.org/infra/build/makegen/o11y/clog"
	"go.chromium.org/infra/build/makegen/subcmd/checkdeps"
	"go.chromium.org/infra/build/makegen/subcmd/gen"
	"go.chromium.org/infra/build/makegen/subcmd/graph"
	"go.chromium.org/infra/build/makegen/subcmd/help"
	"go.chromium.org/infra/build/makegen/subcmd/version"
	"go.chromium.org/infra/build/makegen/ui"
)

// makegen generates Makefile for C/C++ projects.

const makegenVersion = "makegen v1.0.0"

func main() {
	os.Exit(makegenMain())
}

func getApplication() *cli.Application {
	return &cli.Application{
		Name:  "makegen",
		Title: "Makefile generator for C/C++ projects",
		Context: func(ctx context.Context) context.Context {
			return ctx
		},
		Commands: []*subcommands.Command{
			gen.Cmd(),
			graph.Cmd(),
			checkdeps.Cmd(),

			help.Cmd(),
			version.Cmd(makegenVersion),
		},
	}
}

func makegenMain() int {
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(out, "global flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(out, "\nRun `%s help` for commands.\n", os.Args[0])
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		return 2
	}

	ui.Init()
	defer ui.Restore()

	ctx, cancel := context.WithCancel(context.Background())
	defer signals.HandleInterrupt(cancel)()

	// Flush the log on exit to not lose any messages.
	defer log.Flush()

	// Print a stack trace when a panic occurs.
	defer func() {
		if r := recover(); r != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			log.Fatalf("panic: %v\n%s", r, buf)
		}
	}()

	runID := uuid.New().String()
	ctx = clog.NewContext(ctx, clog.New(ctx, map[string]string{"run": runID}))

	// Print build information to the log.
	buildinfo, ok := debug.ReadBuildInfo()
	clog.Infof(ctx, "buildinfo: path=%q ok=%t", buildinfo.Path, ok)
	if ok {
		clog.Infof(ctx, "main module: %s %s", moduleInfo(&buildinfo.Main), vcsInfo(buildinfo))
		if log.V(1) {
			for _, m := range buildinfo.Deps {
				clog.Infof(ctx, "deps module: %s", moduleInfo(m))
			}
			for _, bs := range buildinfo.Settings {
				clog.Infof(ctx, "build %s=%s", bs.Key, bs.Value)
			}
		}
	}

	app := getApplication()
	app.Context = func(context.Context) context.Context {
		return ctx
	}
	return subcommands.Run(app, flag.Args())
}

func moduleInfo(m *debug.Module) string {
	if m == nil {
		return "<nil>"
	}
	return fmt.Sprintf("path:%s version:%s sum:%s replace:%s", m.Path, m.Version, m.Sum, moduleInfo(m.Replace))
}

func vcsInfo(buildinfo *debug.BuildInfo) string {
	m := make(map[string]string)
	for _, bs := range buildinfo.Settings {
		if strings.HasPrefix(bs.Key, "vcs.") {
			m[bs.Key] = bs.Value
		}
	}
	return fmt.Sprintf("vcs[revision=%s time=%s modified=%s]", m["vcs.revision"], m["vcs.time"], m["vcs.modified"])
}
