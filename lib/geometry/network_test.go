// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package geometry

import (
	"math"
	"reflect"
	"testing"

	"github.com/bureau-foundation/fig2json/lib/testutil"
)

// twoVertexNetwork builds a network of two vertices joined by one
// segment whose end points at endVertex.
func twoVertexNetwork(endVertex uint32) []byte {
	return testutil.Concat(
		testutil.Uint32LE(2, 1, 0),
		testutil.Uint32LE(0), testutil.Float32LE(0, 0),
		testutil.Uint32LE(0), testutil.Float32LE(100, 50),
		testutil.Uint32LE(0, 0), testutil.Float32LE(0, 0),
		testutil.Uint32LE(endVertex), testutil.Float32LE(0, 0),
	)
}

func TestDecodeVectorNetworkSimple(t *testing.T) {
	network, ok := DecodeVectorNetwork(twoVertexNetwork(1))
	if !ok {
		t.Fatal("DecodeVectorNetwork failed on a valid network")
	}
	if len(network.Vertices) != 2 || len(network.Segments) != 1 || len(network.Regions) != 0 {
		t.Fatalf("counts = %d/%d/%d, want 2/1/0",
			len(network.Vertices), len(network.Segments), len(network.Regions))
	}
	if network.Vertices[1].X != 100 || network.Vertices[1].Y != 50 {
		t.Errorf("vertex 1 = %+v", network.Vertices[1])
	}
	if network.Segments[0].End.Vertex != 1 {
		t.Errorf("segment end = %+v", network.Segments[0].End)
	}
}

func TestDecodeVectorNetworkDanglingVertex(t *testing.T) {
	if network, ok := DecodeVectorNetwork(twoVertexNetwork(2)); ok || network != nil {
		t.Fatalf("dangling end vertex accepted: %+v", network)
	}
}

func TestDecodeVectorNetworkRegions(t *testing.T) {
	data := testutil.Concat(
		twoVertexNetwork(1)[:12-4], testutil.Uint32LE(2),
		twoVertexNetwork(1)[12:],
		// Region: styleID 3, NONZERO, one loop over segment 0.
		testutil.Uint32LE(3<<1|1, 1, 1, 0),
		// Region: styleID 4, ODD, no loops.
		testutil.Uint32LE(4<<1, 0),
	)

	network, ok := DecodeVectorNetwork(data)
	if !ok {
		t.Fatal("DecodeVectorNetwork failed")
	}
	if len(network.Regions) != 2 {
		t.Fatalf("regions = %d, want 2", len(network.Regions))
	}
	first := network.Regions[0]
	if first.StyleID != 3 || first.WindingRule != WindingNonZero {
		t.Errorf("region 0 = %+v", first)
	}
	if len(first.Loops) != 1 || !reflect.DeepEqual(first.Loops[0].Segments, []uint32{0}) {
		t.Errorf("region 0 loops = %+v", first.Loops)
	}
	second := network.Regions[1]
	if second.StyleID != 4 || second.WindingRule != WindingOdd || len(second.Loops) != 0 {
		t.Errorf("region 1 = %+v", second)
	}

	value := network.Value()
	regions := value["regions"].([]any)
	if rule := regions[0].(map[string]any)["windingRule"]; rule != "NONZERO" {
		t.Errorf("windingRule = %v", rule)
	}
	loops := regions[0].(map[string]any)["loops"].([]any)
	if got := loops[0].(map[string]any)["segments"]; !reflect.DeepEqual(got, []any{uint32(0)}) {
		t.Errorf("loop segments = %#v", got)
	}
}

func TestDecodeVectorNetworkRejectsMalformedInput(t *testing.T) {
	valid := twoVertexNetwork(1)
	header := func(vertices, segments, regions uint32) []byte {
		return testutil.Uint32LE(vertices, segments, regions)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{1, 0, 0, 0, 0, 0}},
		{"truncated vertices", valid[:20]},
		{"truncated segment", valid[:len(valid)-1]},
		{"huge vertex count", header(0xFFFFFFFF, 0, 0)},
		{"huge segment count", header(0, 0xFFFFFFFF, 0)},
		{"huge region count", header(0, 0, 0xFFFFFFFF)},
		{"huge loop count", testutil.Concat(header(0, 0, 1), testutil.Uint32LE(0, 0xFFFFFFFF))},
		{"huge index count", testutil.Concat(header(0, 0, 1), testutil.Uint32LE(0, 1, 0x40000000))},
		{"dangling segment index", testutil.Concat(header(0, 0, 1), testutil.Uint32LE(0, 1, 1, 0))},
		{"missing loop header", testutil.Concat(header(0, 0, 1), testutil.Uint32LE(0, 2, 0))},
	}
	for _, test := range tests {
		if network, ok := DecodeVectorNetwork(test.data); ok || network != nil {
			t.Errorf("%s: decoded %+v, want failure", test.name, network)
		}
	}
}

func TestDecodeVectorNetworkEmpty(t *testing.T) {
	network, ok := DecodeVectorNetwork(testutil.Uint32LE(0, 0, 0))
	if !ok {
		t.Fatal("empty network should decode")
	}
	value := network.Value()
	for _, key := range []string{"vertices", "segments", "regions"} {
		list, isList := value[key].([]any)
		if !isList || len(list) != 0 {
			t.Errorf("%s = %#v, want empty list", key, value[key])
		}
	}
}

func TestVectorNetworkValue(t *testing.T) {
	network := &VectorNetwork{
		Vertices: []Vertex{{StyleID: 1, X: 1.5, Y: float32(math.Inf(-1))}},
		Segments: []Segment{{
			StyleID: 2,
			Start:   Endpoint{Vertex: 0, DX: 0.5, DY: 0},
			End:     Endpoint{Vertex: 0, DX: float32(math.NaN()), DY: 1},
		}},
	}

	want := map[string]any{
		"vertices": []any{
			map[string]any{"styleID": uint32(1), "x": 1.5, "y": nil},
		},
		"segments": []any{
			map[string]any{
				"styleID": uint32(2),
				"start":   map[string]any{"vertex": uint32(0), "dx": 0.5, "dy": 0.0},
				"end":     map[string]any{"vertex": uint32(0), "dx": nil, "dy": 1.0},
			},
		},
		"regions": []any{},
	}
	if got := network.Value(); !reflect.DeepEqual(got, want) {
		t.Errorf("Value =\n%#v\nwant\n%#v", got, want)
	}
}
