// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package help provides help subcommand.
package help

import (
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/maruel/subcommands"

	"go.chromium.org/infra/build/makegen/build/buildconfig"
	"go.chromium.org/infra/build/makegen/build/project"
)

// Cmd returns the Command for the `help` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "help [<command>|-advanced|-config]",
		ShortDesc: "prints help about a command",
		LongDesc: `Prints commands and globally-available flags or help about a specific command.
Use -advanced to display all commands.
Use -config to display variables of the project config file.`,
		CommandRun: func() subcommands.CommandRun {
			ret := &helpCmdRun{}
			ret.Flags.BoolVar(&ret.advanced, "advanced", false, "show advanced commands")
			ret.Flags.BoolVar(&ret.config, "config", false, "show project config variables")
			return ret
		},
	}
}

type helpCmdRun struct {
	subcommands.CommandRunBase
	advanced bool
	config   bool
}

func (h *helpCmdRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	if h.config {
		writeConfigHelp(a.GetOut())
		return 0
	}
	if len(args) == 0 {
		subcommands.Usage(a.GetOut(), a, h.advanced)
		fmt.Fprintln(a.GetOut(), "Common flags accepted by all commands:")
		flag.CommandLine.SetOutput(a.GetOut())
		flag.PrintDefaults()
		return 0
	}
	return subcommands.CmdHelp.CommandRun().Run(a, args, env)
}

// writeConfigHelp writes variables of the project config file.
func writeConfigHelp(w io.Writer) {
	fmt.Fprintf(w, "Project config is a Starlark file %s in the project root (-C),\n", project.DefaultConfigFile)
	fmt.Fprintln(w, "or the file given by -config. It sets these global variables:")
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, v := range buildconfig.Variables {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", v.Name, v.Type, v.Desc)
	}
	tw.Flush()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "All variables are optional. Command line flags take precedence.")
}
