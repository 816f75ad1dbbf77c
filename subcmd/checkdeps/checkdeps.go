// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package checkdeps is checkdeps subcommand to check scanned deps
// against the compiler's deps.
package checkdeps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sync"

	"github.com/maruel/subcommands"
	"golang.org/x/sync/errgroup"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/makegen/build"
	"go.chromium.org/infra/build/makegen/build/project"
	"go.chromium.org/infra/build/makegen/o11y/clog"
	"go.chromium.org/infra/build/makegen/toolsupport/gccutil"
	"go.chromium.org/infra/build/makegen/toolsupport/shutil"
	"go.chromium.org/infra/build/makegen/ui"
)

const usage = `check deps

 $ makegen checkdeps -C <dir> -e <c|cpp> [-cflags '<flags>']

runs <compiler> <cflags> -std=<std> <file> -MM for each compilable
file in <dir>, and compares the compiler's deps with the deps
makegen writes in Makefile.

It reports files missed by makegen and extra files per source,
and fails if any source has a mismatch.
`

var errMismatch = errors.New("deps mismatch")

// Cmd returns the Command for the `checkdeps` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "checkdeps -C <dir> -e <c|cpp> [-cflags '<flags>']",
		ShortDesc: "check deps against the compiler",
		LongDesc:  usage,
		Advanced:  true,
		CommandRun: func() subcommands.CommandRun {
			c := &run{w: os.Stdout}
			c.init()
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase

	project project.Flags
	cflags  string
	w       io.Writer
}

func (c *run) init() {
	c.project.Register(&c.Flags, false)
	c.Flags.StringVar(&c.cflags, "cflags", "", "additional compiler flags, in shell syntax")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	err := c.run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if project.IsUsageError(err) {
			fmt.Fprintf(os.Stderr, "\n%s\n", usage)
			return 2
		}
		return 1
	}
	return 0
}

// result is a result of checking a source.
type result struct {
	source  string
	missing []string
	extra   []string
}

func (c *run) run(ctx context.Context) error {
	p, err := c.project.Load(ctx)
	if err != nil {
		return err
	}
	cflags, err := shutil.Split(c.cflags)
	if err != nil {
		return &build.ConfigError{Name: "cflags", Err: err}
	}
	graph, err := p.Scan(ctx)
	if err != nil {
		return err
	}
	execRoot, err := filepath.Abs(p.Root)
	if err != nil {
		return err
	}
	var sources []string
	for _, f := range graph.Paths() {
		if build.HasExt(f, p.Options.Extension) {
			sources = append(sources, f)
		}
	}
	resolver := build.NewResolver(graph, p.Options.Extension)
	results := make([]result, len(sources))
	env := os.Environ()

	var mu sync.Mutex
	ndone := 0
	eg, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		eg.Go(func() error {
			want, err := resolver.SourceDeps(src)
			if err != nil {
				return err
			}
			args := compileArgs(p.Options, cflags, src)
			got, err := gccutil.Deps(ctx, gccutil.DepsArgs(args), env, execRoot)
			if err != nil {
				return fmt.Errorf("deps %s: %w", src, err)
			}
			missing, extra := diffDeps(want, got)
			results[i] = result{source: src, missing: missing, extra: extra}

			mu.Lock()
			ndone++
			ui.Default.PrintLines(fmt.Sprintf("checkdeps %d/%d %s", ndone, len(sources), src))
			mu.Unlock()
			return nil
		})
	}
	err = eg.Wait()
	if err != nil {
		return err
	}
	ui.Default.PrintLines("")
	nbad := 0
	for _, r := range results {
		if len(r.missing) == 0 && len(r.extra) == 0 {
			continue
		}
		nbad++
		for _, f := range r.missing {
			fmt.Fprintf(c.w, "%s: %s %s\n", ui.SGR(ui.Bold, r.source), ui.SGR(ui.Red, "missing"), f)
		}
		for _, f := range r.extra {
			fmt.Fprintf(c.w, "%s: %s %s\n", ui.SGR(ui.Bold, r.source), ui.SGR(ui.Yellow, "extra"), f)
		}
	}
	clog.Infof(ctx, "checkdeps %d sources, %d mismatches. %s", len(sources), nbad, gccutil.Semaphore)
	if nbad > 0 {
		return fmt.Errorf("%d of %d sources: %w", nbad, len(sources), errMismatch)
	}
	ui.Default.Infof("checkdeps %d sources: %s", len(sources), ui.SGR(ui.Green, "ok"))
	return nil
}

// compileArgs returns compile args for src.
func compileArgs(opts build.Options, cflags []string, src string) []string {
	args := []string{opts.Compiler}
	args = append(args, cflags...)
	args = append(args, "-std="+opts.Standard, src)
	return args
}

// diffDeps returns files in got but not in want, and files in want
// but not in got. Paths in got are cleaned, as the compiler reports
// them as they are written in #include.
func diffDeps(want, got []string) (missing, extra []string) {
	wantSet := make(map[string]bool, len(want))
	for _, f := range want {
		wantSet[f] = true
	}
	gotSet := make(map[string]bool, len(got))
	for _, f := range got {
		f = path.Clean(filepath.ToSlash(f))
		if gotSet[f] {
			continue
		}
		gotSet[f] = true
		if !wantSet[f] {
			missing = append(missing, f)
		}
	}
	for _, f := range want {
		if !gotSet[f] {
			extra = append(extra, f)
		}
	}
	slices.Sort(missing)
	slices.Sort(extra)
	return missing, extra
}
