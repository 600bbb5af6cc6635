// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package geometry

import "github.com/bureau-foundation/fig2json/lib/wire"

// Record sizes of the vector network layout, in bytes.
const (
	networkHeaderSize = 12
	vertexSize        = 12
	segmentSize       = 28
	regionHeaderSize  = 8
	loopHeaderSize    = 4
	loopIndexSize     = 4
)

// WindingRule selects how a region's fill is computed where its loops
// overlap.
type WindingRule uint8

const (
	WindingOdd WindingRule = iota
	WindingNonZero
)

// String returns the document spelling of the rule.
func (rule WindingRule) String() string {
	if rule == WindingNonZero {
		return "NONZERO"
	}
	return "ODD"
}

// Vertex is a point of a vector network.
type Vertex struct {
	StyleID uint32
	X, Y    float32
}

// Endpoint is one end of a segment: a vertex index and the tangent
// handle offset from that vertex.
type Endpoint struct {
	Vertex uint32
	DX, DY float32
}

// Segment is a (possibly curved) edge between two vertices.
type Segment struct {
	StyleID    uint32
	Start, End Endpoint
}

// Loop is a closed sequence of segment indices.
type Loop struct {
	Segments []uint32
}

// Region is a filled area bounded by one or more loops.
type Region struct {
	StyleID     uint32
	WindingRule WindingRule
	Loops       []Loop
}

// VectorNetwork is a decoded vector network blob. Every segment
// endpoint indexes Vertices and every loop entry indexes Segments.
type VectorNetwork struct {
	Vertices []Vertex
	Segments []Segment
	Regions  []Region
}

// DecodeVectorNetwork decodes a vector network blob. Counts read from
// the payload are checked against the remaining bytes before any
// slice is sized from them, and dangling vertex or segment references
// fail the decode. Trailing bytes after the last region are ignored.
func DecodeVectorNetwork(data []byte) (*VectorNetwork, bool) {
	reader := wire.NewReader(data)
	if reader.Len() < networkHeaderSize {
		return nil, false
	}
	vertexCount, _ := reader.Uint32()
	segmentCount, _ := reader.Uint32()
	regionCount, _ := reader.Uint32()

	network := &VectorNetwork{}

	if !reader.Fits(uint64(vertexCount), vertexSize) {
		return nil, false
	}
	network.Vertices = make([]Vertex, vertexCount)
	for i := range network.Vertices {
		vertex := &network.Vertices[i]
		vertex.StyleID, _ = reader.Uint32()
		vertex.X, _ = reader.Float32()
		vertex.Y, _ = reader.Float32()
	}

	if !reader.Fits(uint64(segmentCount), segmentSize) {
		return nil, false
	}
	network.Segments = make([]Segment, segmentCount)
	for i := range network.Segments {
		segment := &network.Segments[i]
		segment.StyleID, _ = reader.Uint32()
		segment.Start = readEndpoint(reader)
		segment.End = readEndpoint(reader)
		if segment.Start.Vertex >= vertexCount || segment.End.Vertex >= vertexCount {
			return nil, false
		}
	}

	if !reader.Fits(uint64(regionCount), regionHeaderSize) {
		return nil, false
	}
	network.Regions = make([]Region, 0, regionCount)
	for range regionCount {
		region, ok := readRegion(reader, segmentCount)
		if !ok {
			return nil, false
		}
		network.Regions = append(network.Regions, region)
	}

	return network, true
}

// readEndpoint reads a vertex index and handle. The caller has
// already checked that a whole segment record remains.
func readEndpoint(reader *wire.Reader) Endpoint {
	var endpoint Endpoint
	endpoint.Vertex, _ = reader.Uint32()
	endpoint.DX, _ = reader.Float32()
	endpoint.DY, _ = reader.Float32()
	return endpoint
}

func readRegion(reader *wire.Reader, segmentCount uint32) (Region, bool) {
	packed, ok := reader.Uint32()
	if !ok {
		return Region{}, false
	}
	loopCount, ok := reader.Uint32()
	if !ok {
		return Region{}, false
	}

	region := Region{StyleID: packed >> 1, WindingRule: WindingOdd}
	if packed&1 != 0 {
		region.WindingRule = WindingNonZero
	}

	if !reader.Fits(uint64(loopCount), loopHeaderSize) {
		return Region{}, false
	}
	region.Loops = make([]Loop, loopCount)
	for i := range region.Loops {
		indexCount, ok := reader.Uint32()
		if !ok || !reader.Fits(uint64(indexCount), loopIndexSize) {
			return Region{}, false
		}
		segments := make([]uint32, indexCount)
		for j := range segments {
			segments[j], _ = reader.Uint32()
			if segments[j] >= segmentCount {
				return Region{}, false
			}
		}
		region.Loops[i].Segments = segments
	}

	return region, true
}

// Value returns the network in document form:
//
//	{"vertices": [{"styleID", "x", "y"}],
//	 "segments": [{"styleID", "start": {"vertex", "dx", "dy"}, "end": {...}}],
//	 "regions":  [{"styleID", "windingRule", "loops": [{"segments": [...]}]}]}
func (network *VectorNetwork) Value() map[string]any {
	vertices := make([]any, len(network.Vertices))
	for i, vertex := range network.Vertices {
		vertices[i] = map[string]any{
			"styleID": vertex.StyleID,
			"x":       Number(vertex.X),
			"y":       Number(vertex.Y),
		}
	}

	segments := make([]any, len(network.Segments))
	for i, segment := range network.Segments {
		segments[i] = map[string]any{
			"styleID": segment.StyleID,
			"start":   segment.Start.value(),
			"end":     segment.End.value(),
		}
	}

	regions := make([]any, len(network.Regions))
	for i, region := range network.Regions {
		loops := make([]any, len(region.Loops))
		for j, loop := range region.Loops {
			indices := make([]any, len(loop.Segments))
			for k, index := range loop.Segments {
				indices[k] = index
			}
			loops[j] = map[string]any{"segments": indices}
		}
		regions[i] = map[string]any{
			"styleID":     region.StyleID,
			"windingRule": region.WindingRule.String(),
			"loops":       loops,
		}
	}

	return map[string]any{
		"vertices": vertices,
		"segments": segments,
		"regions":  regions,
	}
}

func (endpoint Endpoint) value() map[string]any {
	return map[string]any{
		"vertex": endpoint.Vertex,
		"dx":     Number(endpoint.DX),
		"dy":     Number(endpoint.DY),
	}
}
