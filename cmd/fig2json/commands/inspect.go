// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/fig2json/cmd/fig2json/cli"
	"github.com/bureau-foundation/fig2json/lib/codec"
	"github.com/bureau-foundation/fig2json/lib/config"
	"github.com/bureau-foundation/fig2json/lib/figfile"
)

// Display widths of the inspect table.
const (
	digestColumnWidth = 16
	errorColumnWidth  = 48
)

type inspectParams struct {
	configPath string
	json       bool
	color      string
}

func inspectCommand() *cli.Command {
	var params inspectParams

	return &cli.Command{
		Name:    "inspect",
		Summary: "Describe the container layers of .fig files",
		Description: `Unwrap, frame and decompress every chunk of each file without decoding
the document, and report what was found: ZIP wrapping, file type,
version, and per chunk its role, codec, stored and decompressed sizes
and BLAKE3 digest. The file digest covers the decompressed chunks in
order, so two files with the same content but different compression
share it.

Trailing chunks that neither codec decodes are shown as undecoded;
they are opaque payloads and do not make the file invalid.`,
		Usage: "fig2json inspect [flags] <file>...",
		Examples: []cli.Example{
			{
				Description: "Show a file's chunks",
				Command:     "fig2json inspect design.fig",
			},
			{
				Description: "Machine-readable report",
				Command:     "fig2json inspect --json design.fig board.jam",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
			flagSet.StringVar(&params.configPath, "config", "", "profile file supplying size limits")
			flagSet.BoolVar(&params.json, "json", false, "output as JSON")
			flagSet.StringVar(&params.color, "color", cli.ColorAuto, "style the report: auto, always or never")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("no input files")
			}
			profile, err := config.Resolve(params.configPath)
			if err != nil {
				return err
			}
			return inspectFiles(os.Stdout, args, profile.FigLimits(), params)
		},
	}
}

// inspectFiles reports on each path. With --json the reports form one
// array in input order.
func inspectFiles(w io.Writer, paths []string, limits figfile.Limits, params inspectParams) error {
	reports := make([]namedReport, 0, len(paths))
	for _, path := range paths {
		data, err := readInput(path, os.Stdin)
		if err != nil {
			return err
		}
		report, err := figfile.Inspect(data, limits)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		reports = append(reports, namedReport{File: path, Report: report})
	}

	if params.json {
		return codec.WriteJSON(w, reports, "  ")
	}

	color, err := cli.UseColor(params.color, w)
	if err != nil {
		return err
	}
	renderer := cli.NewRenderer(w, color)
	for i, report := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if _, err := io.WriteString(w, renderReport(renderer, report)); err != nil {
			return err
		}
	}
	return nil
}

// namedReport is a report with the file it describes.
type namedReport struct {
	File string `json:"file"`
	*figfile.Report
}

// renderReport formats one report as a header and a chunk table.
func renderReport(renderer *lipgloss.Renderer, report namedReport) string {
	title := renderer.NewStyle().Bold(true)
	faint := renderer.NewStyle().Faint(true)
	label := renderer.NewStyle().Foreground(lipgloss.Color("6"))
	failure := renderer.NewStyle().Foreground(lipgloss.Color("1"))

	container := "raw"
	if report.Zip {
		container = "zip"
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "%s  %s v%d, %s, %s\n",
		title.Render(report.File), report.FileType, report.Version, container, formatSize(report.Size))
	fmt.Fprintf(&builder, "%s %s\n\n", label.Render("digest"), report.Digest)

	columns := []lipgloss.Style{
		renderer.NewStyle().Width(4).Align(lipgloss.Right),
		renderer.NewStyle().Width(8).PaddingLeft(2),
		renderer.NewStyle().Width(11),
		renderer.NewStyle().Width(11).Align(lipgloss.Right),
		renderer.NewStyle().Width(11).Align(lipgloss.Right),
		renderer.NewStyle().PaddingLeft(2),
	}
	row := func(style lipgloss.Style, cells ...string) {
		rendered := make([]string, len(cells))
		for i, cell := range cells {
			rendered[i] = columns[i].Render(cell)
		}
		builder.WriteString(style.Render(lipgloss.JoinHorizontal(lipgloss.Top, rendered...)))
		builder.WriteByte('\n')
	}

	row(faint, "#", "role", "codec", "stored", "size", "digest")
	for _, chunk := range report.Chunks {
		if chunk.Error != "" {
			row(failure, strconv.Itoa(chunk.Index), chunk.Role, chunk.Codec,
				formatSize(chunk.StoredSize), "-", ansi.Truncate(chunk.Error, errorColumnWidth, "…"))
			continue
		}
		row(renderer.NewStyle(), strconv.Itoa(chunk.Index), chunk.Role, chunk.Codec,
			formatSize(chunk.StoredSize), formatSize(chunk.DecompressedSize),
			ansi.Truncate(chunk.Digest, digestColumnWidth, "…"))
	}
	return builder.String()
}

// formatSize renders a byte count with a binary unit.
func formatSize(size int) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	value := float64(size)
	suffixes := []string{"KiB", "MiB", "GiB", "TiB"}
	for _, suffix := range suffixes {
		value /= unit
		if value < unit || suffix == suffixes[len(suffixes)-1] {
			return fmt.Sprintf("%.1f %s", value, suffix)
		}
	}
	return strconv.Itoa(size)
}
