// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/fig2json/cmd/fig2json/cli"
	"github.com/bureau-foundation/fig2json/lib/blob"
	"github.com/bureau-foundation/fig2json/lib/codec"
	"github.com/bureau-foundation/fig2json/lib/geometry"
)

type blobParams struct {
	role    string
	base64  bool
	svg     bool
	compact bool
}

func blobCommand() *cli.Command {
	var params blobParams

	return &cli.Command{
		Name:    "blob",
		Summary: "Decode a single geometry blob",
		Description: `Decode one blob payload as the named role and print the result as
JSON. The payload is read from the file argument, or stdin when it is
absent or "-". With --base64 the input is the base64 text found in a
converted document's blobs list rather than raw bytes.

Roles:
  commands        path commands, printed as ["M", x, y, "L", ...]
  vectorNetwork   vertices, segments and regions

With --svg, a commands blob is printed as SVG path data instead.`,
		Usage: "fig2json blob --role <role> [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Decode the first blob of a converted document",
				Command:     "jq -r '.blobs[0].bytes' design.json | fig2json blob --role commands --base64",
			},
			{
				Description: "Render a path blob as SVG path data",
				Command:     "fig2json blob --role commands --svg path.bin",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("blob", pflag.ContinueOnError)
			flagSet.StringVar(&params.role, "role", blob.RoleCommands, "blob role: commands or vectorNetwork")
			flagSet.BoolVar(&params.base64, "base64", false, "input is base64 text")
			flagSet.BoolVar(&params.svg, "svg", false, "print a commands blob as SVG path data")
			flagSet.BoolVarP(&params.compact, "compact", "c", false, "compact JSON output")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("blob takes at most one file, got %d", len(args))
			}
			path := stdoutName
			if len(args) == 1 {
				path = args[0]
			}
			data, err := readInput(path, os.Stdin)
			if err != nil {
				return err
			}
			return decodeBlob(os.Stdout, data, params)
		},
	}
}

// decodeBlob decodes data as params.role and writes the result to w.
func decodeBlob(w io.Writer, data []byte, params blobParams) error {
	if params.base64 {
		decoded, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(data)))
		if err != nil {
			return fmt.Errorf("decoding base64 input: %w", err)
		}
		data = decoded
	}

	if params.svg {
		if params.role != blob.RoleCommands {
			return fmt.Errorf("--svg applies only to the %s role", blob.RoleCommands)
		}
		path, ok := geometry.DecodeCommands(data)
		if !ok {
			return fmt.Errorf("payload is not a valid %s blob", params.role)
		}
		_, err := fmt.Fprintln(w, path.SVG())
		return err
	}

	registry := blob.DefaultRegistry()
	if roles := registry.Roles(); !slices.Contains(roles, params.role) {
		return fmt.Errorf("unknown blob role %q (want one of %v)", params.role, roles)
	}
	value, ok := registry.Decode(params.role, data)
	if !ok {
		return fmt.Errorf("payload is not a valid %s blob", params.role)
	}

	indent := "  "
	if params.compact {
		indent = ""
	}
	return codec.WriteJSON(w, value, indent)
}
