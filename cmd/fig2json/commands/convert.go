// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/fig2json/cmd/fig2json/cli"
	"github.com/bureau-foundation/fig2json/lib/codec"
	"github.com/bureau-foundation/fig2json/lib/config"
	"github.com/bureau-foundation/fig2json/lib/document"
	"github.com/bureau-foundation/fig2json/lib/transform"
)

// convertParams holds the convert flags. Flags the user did not set
// leave the profile's value in place.
type convertParams struct {
	configPath  string
	output      string
	format      string
	indent      string
	compact     bool
	compression string
	color       string
	passes      []string
	raw         bool
	jobs        int
	fromTree    bool
	verbose     bool
}

// convertJob is the resolved form of one invocation.
type convertJob struct {
	profile  *config.Config
	inputs   []string
	output   string
	fromTree bool
	logger   *slog.Logger
	stdin    io.Reader
	stdout   io.Writer
}

// convertCommand returns the convert command. fig2json itself runs it
// when no subcommand is named.
func convertCommand(name string) *cli.Command {
	var params convertParams
	var flagSet *pflag.FlagSet

	return &cli.Command{
		Name:    name,
		Summary: "Convert .fig files to JSON or CBOR",
		Description: `Decode Figma and FigJam files (raw or ZIP-wrapped) into a document
tree and write it as JSON or CBOR.

With one input, output goes to stdout unless --output names a file.
With several inputs, each is written to its own file: inside the
--output directory if given, otherwise next to the input, named after
it with the output extension (.json, .cbor, plus .zst or .lz4 when
compressed). Inputs are converted concurrently with --jobs workers; a
failed input is reported and the others are still written.

Clean-up passes are applied in a fixed order. The default is every
pass; --passes selects some, --raw applies none. Run
'fig2json convert --list-passes' to see them.

With --from-tree, inputs are previously converted documents (JSON or
CBOR, optionally compressed). Their blob references are resolved and
the selected passes applied, so raw output can be cleaned later.

A profile file (--config, or FIG2JSON_CONFIG) supplies defaults for
every flag here.`,
		Usage: "fig2json [convert] [flags] <file>...",
		Examples: []cli.Example{
			{
				Description: "Convert a file to indented JSON on stdout",
				Command:     "fig2json design.fig",
			},
			{
				Description: "Write compact JSON to a file",
				Command:     "fig2json convert --compact -o design.json design.fig",
			},
			{
				Description: "Convert a directory of files with four workers",
				Command:     "fig2json convert -j 4 -o out/ designs/*.fig",
			},
			{
				Description: "Keep the decoder's raw output, then clean it later",
				Command:     "fig2json --raw -o raw.json design.fig && fig2json --from-tree raw.json",
			},
			{
				Description: "Deterministic CBOR, zstd-compressed",
				Command:     "fig2json --format cbor --compress zstd -o design.cbor.zst design.fig",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet = params.flagSet(name)
			return flagSet
		},
		Run: func(args []string) error {
			if listPasses, _ := flagSet.GetBool("list-passes"); listPasses {
				return printPasses(os.Stdout)
			}

			profile, err := params.resolve(flagSet)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return errors.New("no input files (use - for stdin)")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			job := &convertJob{
				profile:  profile,
				inputs:   args,
				output:   params.output,
				fromTree: params.fromTree,
				logger:   cli.NewCommandLogger(params.verbose).With("command", "convert"),
				stdin:    os.Stdin,
				stdout:   os.Stdout,
			}
			return job.run(ctx)
		},
	}
}

// flagSet registers the convert flags, bound to p.
func (p *convertParams) flagSet(name string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVar(&p.configPath, "config", "", "profile file (YAML or JSONC); default $"+config.EnvironmentVariable)
	flagSet.StringVarP(&p.output, "output", "o", "", "output file, or directory with several inputs")
	flagSet.StringVar(&p.format, "format", config.FormatJSON, "output format: json or cbor")
	flagSet.StringVar(&p.indent, "indent", "  ", "JSON indentation unit")
	flagSet.BoolVar(&p.compact, "compact", false, "write compact JSON (same as --indent '')")
	flagSet.StringVar(&p.compression, "compress", config.CompressionNone, "compress output: none, zstd or lz4")
	flagSet.StringVar(&p.color, "color", cli.ColorAuto, "highlight JSON on a terminal: auto, always or never")
	flagSet.StringSliceVar(&p.passes, "passes", []string{transform.All}, "clean-up passes to apply, comma separated, or all")
	flagSet.BoolVar(&p.raw, "raw", false, "apply no clean-up passes")
	flagSet.IntVarP(&p.jobs, "jobs", "j", 1, "files converted concurrently")
	flagSet.BoolVar(&p.fromTree, "from-tree", false, "inputs are converted documents, not .fig files")
	flagSet.BoolVarP(&p.verbose, "verbose", "v", false, "log decoding progress")
	flagSet.Bool("list-passes", false, "list the clean-up passes and exit")
	return flagSet
}

// resolve loads the profile and applies the flags that were set.
func (p *convertParams) resolve(flagSet *pflag.FlagSet) (*config.Config, error) {
	profile, err := config.Resolve(p.configPath)
	if err != nil {
		return nil, err
	}

	changed := flagSet.Changed
	if changed("format") {
		profile.Output.Format = p.format
	}
	if changed("indent") {
		profile.Output.Indent = p.indent
	}
	if p.compact {
		profile.Output.Indent = ""
	}
	if changed("compress") {
		profile.Output.Compression = p.compression
	}
	if changed("color") {
		profile.Output.Color = p.color
	}
	if changed("passes") {
		profile.Passes = p.passes
	}
	if p.raw {
		if changed("passes") {
			return nil, errors.New("--raw and --passes are mutually exclusive")
		}
		profile.Passes = nil
	}
	if changed("jobs") {
		profile.Jobs = p.jobs
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

// convertOutcome is one input's encoded output, or why there is none.
type convertOutcome struct {
	data []byte
	err  error
}

// run converts every input with a bounded pool of workers and writes
// the results in input order.
func (job *convertJob) run(ctx context.Context) error {
	single := len(job.inputs) == 1
	if !single {
		for _, input := range job.inputs {
			if input == stdoutName {
				return errors.New("stdin can only be converted on its own")
			}
		}
	}

	results := make([]chan convertOutcome, len(job.inputs))
	for i := range results {
		results[i] = make(chan convertOutcome, 1)
	}

	indexes := make(chan int)
	go func() {
		defer close(indexes)
		for i := range job.inputs {
			select {
			case indexes <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	var workers sync.WaitGroup
	for range min(job.profile.Jobs, len(job.inputs)) {
		workers.Go(func() {
			for i := range indexes {
				data, err := job.convert(job.inputs[i])
				results[i] <- convertOutcome{data: data, err: err}
			}
		})
	}
	defer workers.Wait()

	failed := 0
	for i, input := range job.inputs {
		var outcome convertOutcome
		select {
		case outcome = <-results[i]:
		case <-ctx.Done():
			return fmt.Errorf("interrupted after %d of %d files", i, len(job.inputs))
		}

		if outcome.err == nil {
			outcome.err = job.write(input, outcome.data)
		}
		if outcome.err != nil {
			if single {
				return outcome.err
			}
			job.logger.Error("conversion failed", "file", input, "error", outcome.err)
			failed++
		}
	}

	if failed > 0 {
		job.logger.Error("some files failed", "failed", failed, "total", len(job.inputs))
		return &cli.ExitError{Code: 1}
	}
	return nil
}

// convert decodes and encodes one input.
func (job *convertJob) convert(input string) ([]byte, error) {
	logger := job.logger.With("file", input)

	data, err := readInput(input, job.stdin)
	if err != nil {
		return nil, err
	}

	options := job.profile.ConvertOptions()
	options.Logger = logger

	var value map[string]any
	if job.fromTree {
		value, err = convertTree(data, options, job.profile.Limits.MaxDecompressedSize)
	} else {
		var result *document.Result
		result, err = document.Convert(data, options)
		if result != nil {
			value = result.Value()
		}
	}
	if err != nil {
		return nil, err
	}

	encoded, err := encodeTree(value, job.profile.Output)
	if err != nil {
		return nil, err
	}
	logger.Debug("file encoded",
		"input_size", len(data),
		"output_size", len(encoded),
		"format", job.profile.Output.Format,
	)
	return encoded, nil
}

// convertTree applies the blob and pass stage to a converted document.
func convertTree(data []byte, options document.Options, limit int64) (map[string]any, error) {
	tree, err := codec.DecodeTree(data, limit)
	if err != nil {
		return nil, err
	}
	root, ok := tree.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("converted document must be an object, found %T", tree)
	}
	if err := document.ConvertTree(root, options); err != nil {
		return nil, err
	}
	return root, nil
}

// write sends one input's output where the flags direct it.
func (job *convertJob) write(input string, data []byte) error {
	if len(job.inputs) == 1 {
		if job.output == "" || job.output == stdoutName {
			return writeStdout(job.stdout, data, job.profile.Output)
		}
		return writeFile(job.output, data)
	}

	path := outputPath(input, job.output, job.profile.Output)
	if err := writeFile(path, data); err != nil {
		return err
	}
	job.logger.Info("file converted", "file", input, "output", path)
	return nil
}

// printPasses lists the clean-up passes in the order they run.
func printPasses(w io.Writer) error {
	for _, pass := range transform.Passes() {
		if _, err := fmt.Fprintf(w, "%-20s %s\n", pass.Name, pass.Summary); err != nil {
			return err
		}
	}
	return nil
}
