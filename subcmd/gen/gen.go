// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package gen is gen subcommand to generate a Makefile.
package gen

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/makegen/build"
	"go.chromium.org/infra/build/makegen/build/project"
	"go.chromium.org/infra/build/makegen/o11y/clog"
	"go.chromium.org/infra/build/makegen/ui"
)

const usage = `generate Makefile

 $ makegen gen -C <dir> -e <c|cpp> -b <binary> [flags]

scans all files with the extension under <dir> and the files they
include, and writes Makefile in <dir>.

Files that define main( are built as binaries: <main_file> as
<binary>, files under -tests, -benchmarks, -examples in each
category, and the others as standalone binaries.

Flags not given are read from <dir>/makegen.star if exists.
`

// Cmd returns the Command for the `gen` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "gen -C <dir> -e <c|cpp> -b <binary> [flags]",
		ShortDesc: "generate Makefile",
		LongDesc:  usage,
		CommandRun: func() subcommands.CommandRun {
			c := &run{}
			c.init()
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase

	project project.Flags
	output  string
	dryRun  bool

	w io.Writer
}

func (c *run) init() {
	c.project.Register(&c.Flags, true)
	c.Flags.StringVar(&c.output, "o", "Makefile", "output filename (relative to -C)")
	c.Flags.BoolVar(&c.dryRun, "n", false, "dry run. print Makefile to stdout instead of writing it")
	c.w = os.Stdout
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	if len(args) != 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments %q\n%s\n", args, usage)
		return 2
	}
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

func (c *run) run(ctx context.Context) error {
	p, err := c.project.Load(ctx)
	if err != nil {
		return err
	}
	opts := p.Options
	err = opts.Check()
	if err != nil {
		return err
	}
	spin := ui.Default.NewSpinner()
	spin.Start("scanning %s", p.Root)
	graph, err := p.Scan(ctx)
	if err != nil {
		spin.Stop(err)
		return err
	}
	spin.Done("%d files", graph.Len())

	part, err := build.PartitionFiles(graph, opts)
	if err != nil {
		return err
	}
	mf, err := build.NewMakefile(graph, part, opts)
	if err != nil {
		return err
	}
	if c.dryRun {
		_, err = mf.WriteTo(c.w)
		return err
	}
	fname := p.Path(c.output)
	changed, err := p.FS.WriteFile(ctx, fname, []byte(mf.String()), 0644)
	clog.Infof(ctx, "io %s", p.FS.Stats())
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", fname, err)
	}
	if !changed {
		ui.Default.Infof("%s is up-to-date", fname)
		return nil
	}
	ui.Default.Infof("wrote %s: %d standalone, %d tests, %d benchmarks, %d examples",
		fname, len(part.Standalone), len(part.Tests), len(part.Benchmarks), len(part.Examples))
	return nil
}
