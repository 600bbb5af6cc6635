// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/bureau-foundation/fig2json/cmd/fig2json/cli"
	"github.com/bureau-foundation/fig2json/lib/codec"
	"github.com/bureau-foundation/fig2json/lib/config"
	"github.com/bureau-foundation/fig2json/lib/document"
	"github.com/bureau-foundation/fig2json/lib/testutil"
	"github.com/bureau-foundation/fig2json/lib/transform"
)

// writeSample writes a raw .fig file holding the sample document.
func writeSample(t *testing.T, directory, name string) string {
	t.Helper()
	data := testutil.FigFile(t, testutil.MagicFigma, 48, testutil.SampleNodes(), testutil.SampleBlobs())
	path := filepath.Join(directory, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func newJob(t *testing.T, inputs []string, output string) (*convertJob, *bytes.Buffer) {
	t.Helper()
	var stdout bytes.Buffer
	profile := config.Default()
	profile.Output.Color = cli.ColorNever
	return &convertJob{
		profile: profile,
		inputs:  inputs,
		output:  output,
		logger:  slog.New(slog.DiscardHandler),
		stdin:   strings.NewReader(""),
		stdout:  &stdout,
	}, &stdout
}

// frameOf digs the sample frame out of a converted output object.
func frameOf(t *testing.T, value any) map[string]any {
	t.Helper()
	root, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("output is %T, want an object", value)
	}
	doc, ok := root[document.DocumentKey].(map[string]any)
	if !ok {
		t.Fatalf("output has no document: %v", root)
	}
	page := doc["children"].([]any)[0].(map[string]any)
	for _, child := range page["children"].([]any) {
		node := child.(map[string]any)
		if node["name"] == "Frame" {
			return node
		}
	}
	t.Fatalf("page has no frame: %v", page["children"])
	return nil
}

func TestRunSingleInputToStdout(t *testing.T) {
	input := writeSample(t, t.TempDir(), "design.fig")
	job, stdout := newJob(t, []string{input}, "")

	if err := job.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasSuffix(stdout.String(), "}\n") {
		t.Errorf("output does not end with a newline-terminated object: %q", stdout.String())
	}

	value, err := codec.ParseJSON(stdout.Bytes())
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	frame := frameOf(t, value)
	if frame["type"] != "FRAME" {
		t.Errorf("frame type = %v, want FRAME", frame["type"])
	}
	if _, ok := frame["guid"]; ok {
		t.Error("default passes kept the guid")
	}
	if value.(map[string]any)[document.FileTypeKey] != "figma" {
		t.Errorf("fileType = %v", value.(map[string]any)[document.FileTypeKey])
	}
}

func TestRunStdinInput(t *testing.T) {
	data := testutil.FigFile(t, testutil.MagicFigma, 48, testutil.SampleNodes(), testutil.SampleBlobs())
	job, stdout := newJob(t, []string{"-"}, "")
	job.stdin = bytes.NewReader(data)
	job.profile.Output.Indent = ""

	if err := job.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Count(stdout.String(), "\n") != 1 {
		t.Errorf("compact output spans several lines: %q", stdout.String())
	}
}

func TestRunSingleInputToFileAsCBOR(t *testing.T) {
	directory := t.TempDir()
	input := writeSample(t, directory, "design.fig")
	output := filepath.Join(directory, "out", "design.cbor.zst")
	job, stdout := newJob(t, []string{input}, output)
	job.profile.Output.Format = config.FormatCBOR
	job.profile.Output.Compression = config.CompressionZstd

	if err := job.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing", stdout.String())
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	value, err := codec.DecodeTree(data, 1<<20)
	if err != nil {
		t.Fatalf("DecodeTree: %v", err)
	}
	if frame := frameOf(t, value); frame["type"] != "FRAME" {
		t.Errorf("frame type = %v, want FRAME", frame["type"])
	}
}

func TestRunBatchWritesEachFile(t *testing.T) {
	directory := t.TempDir()
	inputs := []string{
		writeSample(t, directory, "first.fig"),
		writeSample(t, directory, "second.fig"),
		writeSample(t, directory, "third.fig"),
	}
	output := filepath.Join(directory, "out")
	job, _ := newJob(t, inputs, output)
	job.profile.Jobs = 2

	if err := job.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, name := range []string{"first.json", "second.json", "third.json"} {
		data, err := os.ReadFile(filepath.Join(output, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if _, err := codec.ParseJSON(data); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestRunBatchNextToInputs(t *testing.T) {
	directory := t.TempDir()
	inputs := []string{
		writeSample(t, directory, "first.fig"),
		writeSample(t, directory, "second.fig"),
	}
	job, _ := newJob(t, inputs, "")
	job.profile.Output.Compression = config.CompressionLZ4

	if err := job.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, name := range []string{"first.json.lz4", "second.json.lz4"} {
		if _, err := os.Stat(filepath.Join(directory, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestRunBatchReportsFailures(t *testing.T) {
	directory := t.TempDir()
	broken := filepath.Join(directory, "broken.fig")
	if err := os.WriteFile(broken, []byte("not a fig file"), 0644); err != nil {
		t.Fatal(err)
	}
	inputs := []string{broken, writeSample(t, directory, "good.fig")}
	output := filepath.Join(directory, "out")
	job, _ := newJob(t, inputs, output)

	err := job.run(context.Background())
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("run error = %v, want exit code 1", err)
	}
	if _, err := os.Stat(filepath.Join(output, "good.json")); err != nil {
		t.Errorf("good input was not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(output, "broken.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("broken input produced output: %v", err)
	}
}

func TestRunSingleFailureReturnsCause(t *testing.T) {
	directory := t.TempDir()
	broken := filepath.Join(directory, "broken.fig")
	if err := os.WriteFile(broken, []byte("not a fig file"), 0644); err != nil {
		t.Fatal(err)
	}
	job, _ := newJob(t, []string{broken}, "")

	err := job.run(context.Background())
	if err == nil {
		t.Fatal("run succeeded on a broken input")
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		t.Errorf("single input returned %v, want the conversion error", err)
	}
}

func TestRunRejectsStdinInBatch(t *testing.T) {
	job, _ := newJob(t, []string{"-", "other.fig"}, "")
	if err := job.run(context.Background()); err == nil {
		t.Fatal("run accepted stdin among several inputs")
	}
}

func TestRunFromTree(t *testing.T) {
	directory := t.TempDir()
	input := writeSample(t, directory, "design.fig")
	raw := filepath.Join(directory, "raw.json")

	first, _ := newJob(t, []string{input}, raw)
	first.profile.Passes = nil
	if err := first.run(context.Background()); err != nil {
		t.Fatalf("raw run: %v", err)
	}

	second, stdout := newJob(t, []string{raw}, "")
	second.fromTree = true
	if err := second.run(context.Background()); err != nil {
		t.Fatalf("from-tree run: %v", err)
	}
	value, err := codec.ParseJSON(stdout.Bytes())
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	frame := frameOf(t, value)
	if frame["type"] != "FRAME" {
		t.Errorf("frame type = %v, want FRAME", frame["type"])
	}
	image := frame["fillPaints"].([]any)[1].(map[string]any)["image"].(map[string]any)
	if image["filename"] != "images/6049a17a" {
		t.Errorf("image = %v, want filename images/6049a17a", image)
	}
}

func TestConvertTreeRejectsNonObject(t *testing.T) {
	_, err := convertTree([]byte("[1, 2]"), document.Options{}, 1<<20)
	if err == nil {
		t.Fatal("convertTree accepted a list")
	}
}

func TestResolveLayering(t *testing.T) {
	t.Setenv(config.EnvironmentVariable, "")
	profilePath := filepath.Join(t.TempDir(), "profile.yaml")
	profile := "output:\n  format: cbor\n  indent: \"\\t\"\npasses: [enums, guids]\njobs: 3\n"
	if err := os.WriteFile(profilePath, []byte(profile), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		args        []string
		wantFormat  string
		wantIndent  string
		wantPasses  []string
		wantJobs    int
		wantFailure bool
	}{
		{
			name:       "defaults",
			args:       nil,
			wantFormat: config.FormatJSON,
			wantIndent: "  ",
			wantPasses: []string{transform.All},
			wantJobs:   1,
		},
		{
			name:       "profile",
			args:       []string{"--config", profilePath},
			wantFormat: config.FormatCBOR,
			wantIndent: "\t",
			wantPasses: []string{"enums", "guids"},
			wantJobs:   3,
		},
		{
			name:       "flags override profile",
			args:       []string{"--config", profilePath, "--format", "json", "--passes", "colors", "-j", "2"},
			wantFormat: config.FormatJSON,
			wantIndent: "\t",
			wantPasses: []string{"colors"},
			wantJobs:   2,
		},
		{
			name:       "compact and raw",
			args:       []string{"--compact", "--raw"},
			wantFormat: config.FormatJSON,
			wantIndent: "",
			wantPasses: nil,
			wantJobs:   1,
		},
		{
			name:        "raw with passes",
			args:        []string{"--raw", "--passes", "enums"},
			wantFailure: true,
		},
		{
			name:        "unknown pass",
			args:        []string{"--passes", "sharpen"},
			wantFailure: true,
		},
		{
			name:        "bad format",
			args:        []string{"--format", "xml"},
			wantFailure: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var params convertParams
			flagSet := params.flagSet("convert")
			if err := flagSet.Parse(test.args); err != nil {
				t.Fatalf("Parse: %v", err)
			}

			resolved, err := params.resolve(flagSet)
			if test.wantFailure {
				if err == nil {
					t.Fatal("resolve succeeded, want an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if resolved.Output.Format != test.wantFormat {
				t.Errorf("format = %q, want %q", resolved.Output.Format, test.wantFormat)
			}
			if resolved.Output.Indent != test.wantIndent {
				t.Errorf("indent = %q, want %q", resolved.Output.Indent, test.wantIndent)
			}
			if !slices.Equal(resolved.Passes, test.wantPasses) {
				t.Errorf("passes = %v, want %v", resolved.Passes, test.wantPasses)
			}
			if resolved.Jobs != test.wantJobs {
				t.Errorf("jobs = %d, want %d", resolved.Jobs, test.wantJobs)
			}
		})
	}
}

func TestPrintPasses(t *testing.T) {
	var buffer bytes.Buffer
	if err := printPasses(&buffer); err != nil {
		t.Fatalf("printPasses: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	passes := transform.Passes()
	if len(lines) != len(passes) {
		t.Fatalf("printed %d lines, want %d", len(lines), len(passes))
	}
	for i, pass := range passes {
		if !strings.HasPrefix(lines[i], pass.Name+" ") {
			t.Errorf("line %d = %q, want pass %s", i, lines[i], pass.Name)
		}
	}
}
