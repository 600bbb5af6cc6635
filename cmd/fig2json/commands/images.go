// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/fig2json/cmd/fig2json/cli"
	"github.com/bureau-foundation/fig2json/lib/config"
	"github.com/bureau-foundation/fig2json/lib/figfile"
)

type imagesParams struct {
	configPath string
	output     string
	verbose    bool
}

func imagesCommand() *cli.Command {
	var params imagesParams

	return &cli.Command{
		Name:    "images",
		Summary: "Extract the images of ZIP-wrapped .fig files",
		Description: `Write every images/<hash> entry of each ZIP-wrapped file into
<directory>/images/<hash>. Converted documents refer to these files
by the same relative path ("images/<hash>") once the image-hashes
pass has run, so extracting next to the JSON keeps the references
valid.

The directory is --output, else paths.images from the profile, else
the current directory. Raw (non-ZIP) files carry no image entries and
are skipped with a warning.`,
		Usage: "fig2json images [flags] <file>...",
		Examples: []cli.Example{
			{
				Description: "Extract images beside the converted document",
				Command:     "fig2json -o out/design.json design.fig && fig2json images -o out design.fig",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("images", pflag.ContinueOnError)
			flagSet.StringVar(&params.configPath, "config", "", "profile file supplying limits and the images directory")
			flagSet.StringVarP(&params.output, "output", "o", "", "directory to extract into")
			flagSet.BoolVarP(&params.verbose, "verbose", "v", false, "log each file")
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
			directory := params.output
			if directory == "" {
				directory = profile.Paths.Images
			}
			if directory == "" {
				directory = "."
			}
			logger := cli.NewCommandLogger(params.verbose).With("command", "images")
			return extractImages(os.Stdout, logger, args, directory, profile.Limits.MaxEntrySize)
		},
	}
}

// extractImages extracts from each path into directory and prints a
// one-line summary per file.
func extractImages(w io.Writer, logger *slog.Logger, paths []string, directory string, limit int64) error {
	total := 0
	for _, path := range paths {
		data, err := readInput(path, os.Stdin)
		if err != nil {
			return err
		}
		if !figfile.IsZipContainer(data) {
			logger.Warn("not a ZIP archive, no images to extract", "file", path)
			continue
		}

		count, err := figfile.ExtractImages(data, directory, limit)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		logger.Debug("images extracted", "file", path, "count", count)
		total += count
	}

	_, err := fmt.Fprintf(w, "%d images written to %s\n", total, filepath.Join(directory, "images"))
	return err
}
