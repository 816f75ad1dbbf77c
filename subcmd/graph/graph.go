// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package graph is graph subcommand to show the include graph of a project
// for https://pkg.go.dev/golang.org/x/tools/cmd/digraph
package graph

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/makegen/build/project"
	"go.chromium.org/infra/build/makegen/scandeps"
)

const usage = `show include graph

 $ makegen graph -C <dir> -e <c|cpp>

prints include graph of the project.
Each line contains one or more files, and the first file includes
the rest of the files on the same line.

This output can be passed to digraph command, installed by
 $ go install golang.org/x/tools/cmd/digraph@latest

See https://pkg.go.dev/golang.org/x/tools/cmd/digraph
for digraph command.
`

// Cmd returns the Command for the `graph` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "graph -C <dir> -e <c|cpp>",
		ShortDesc: "show include graph",
		LongDesc:  usage,
		Advanced:  true,
		CommandRun: func() subcommands.CommandRun {
			c := &run{w: os.Stdout}
			c.project.Register(&c.Flags, false)
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase

	project project.Flags
	w       io.Writer
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

func (c *run) run(ctx context.Context) error {
	p, err := c.project.Load(ctx)
	if err != nil {
		return err
	}
	graph, err := p.Scan(ctx)
	if err != nil {
		return err
	}
	return write(c.w, graph)
}

// write writes graph in digraph format, sorted by file.
func write(w io.Writer, graph *scandeps.Graph) error {
	for _, p := range graph.Paths() {
		u, _ := graph.Lookup(p)
		line := p
		if len(u.Includes) > 0 {
			line += " " + strings.Join(u.Includes, " ")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
