// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package geometry

import (
	"strconv"
	"strings"

	"github.com/bureau-foundation/fig2json/lib/wire"
)

// Verb is a path command opcode.
type Verb byte

const (
	Close       Verb = 0
	MoveTo      Verb = 1
	LineTo      Verb = 2
	QuadraticTo Verb = 3
	CubicTo     Verb = 4
)

// verbInfo maps each opcode to its letter and coordinate count.
var verbInfo = [...]struct {
	letter string
	arity  int
}{
	Close:       {"Z", 0},
	MoveTo:      {"M", 2},
	LineTo:      {"L", 2},
	QuadraticTo: {"Q", 4},
	CubicTo:     {"C", 6},
}

// Letter returns the SVG command letter for v, or "" for an unknown
// opcode.
func (v Verb) Letter() string {
	if int(v) >= len(verbInfo) {
		return ""
	}
	return verbInfo[v].letter
}

// Arity returns the number of float32 coordinates following v, or -1
// for an unknown opcode.
func (v Verb) Arity() int {
	if int(v) >= len(verbInfo) {
		return -1
	}
	return verbInfo[v].arity
}

// Command is one decoded path command. len(Coordinates) always equals
// Verb.Arity().
type Command struct {
	Verb        Verb
	Coordinates []float32
}

// Path is a decoded command stream.
type Path []Command

// DecodeCommands decodes a path command blob. It fails on an unknown
// opcode or on a command whose coordinates run past the end of data;
// a failure never yields the commands decoded before it. Empty input
// is an empty path.
func DecodeCommands(data []byte) (Path, bool) {
	reader := wire.NewReader(data)
	path := Path{}

	for !reader.Done() {
		opcode, _ := reader.Byte()
		verb := Verb(opcode)
		arity := verb.Arity()
		if arity < 0 {
			return nil, false
		}

		coordinates := make([]float32, arity)
		if !reader.Float32s(coordinates) {
			return nil, false
		}
		path = append(path, Command{Verb: verb, Coordinates: coordinates})
	}

	return path, true
}

// Flatten returns the path as a flat sequence of command letters
// followed by their coordinates: ["M", x, y, "L", x, y, "Z"].
// Non-finite coordinates are nil.
func (p Path) Flatten() []any {
	size := 0
	for _, command := range p {
		size += 1 + len(command.Coordinates)
	}

	flat := make([]any, 0, size)
	for _, command := range p {
		flat = append(flat, command.Verb.Letter())
		for _, coordinate := range command.Coordinates {
			flat = append(flat, Number(coordinate))
		}
	}
	return flat
}

// SVG renders the path as SVG path data, for example "M10 20L30 40Z".
// Coordinates use the shortest decimal form that round-trips through
// float32.
func (p Path) SVG() string {
	var builder strings.Builder
	for _, command := range p {
		builder.WriteString(command.Verb.Letter())
		for i, coordinate := range command.Coordinates {
			if i > 0 {
				builder.WriteByte(' ')
			}
			builder.WriteString(strconv.FormatFloat(float64(coordinate), 'g', -1, 32))
		}
	}
	return builder.String()
}
