// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the fig2json command tree. The root command
// converts files itself, so "fig2json design.fig" and
// "fig2json convert design.fig" are equivalent.
package commands

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/fig2json/cmd/fig2json/cli"
	"github.com/bureau-foundation/fig2json/lib/version"
)

// Root builds and returns the complete fig2json command tree.
func Root() *cli.Command {
	root := convertCommand("fig2json")
	root.Description = `fig2json: decode Figma and FigJam .fig files.

Without a subcommand, fig2json converts its arguments exactly as
'fig2json convert' does. Run 'fig2json convert --help' for the
conversion flags.`
	root.Usage = "fig2json [command] [flags] <file>..."
	root.Subcommands = []*cli.Command{
		convertCommand("convert"),
		inspectCommand(),
		imagesCommand(),
		blobCommand(),
		versionCommand(),
	}
	return root
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			fmt.Fprintf(os.Stdout, "fig2json %s\n", version.Full())
			return nil
		},
	}
}
