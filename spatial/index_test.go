// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bruteForce(points []Point, center Point, radius float64) []int {
	var ret []int

	lat, lng := center.Radians()

	for i, p := range points {
		plat, plng := p.Radians()
		if HaversineRadians(lat, lng, plat, plng) <= radius {
			ret = append(ret, i)
		}
	}

	return ret
}

// continental US scatter, deterministic.
func randomPoints(n int) []Point {
	r := rand.New(rand.NewPCG(42, 1))
	points := make([]Point, n)

	for i := range points {
		points[i] = Point{
			Lat: 25 + r.Float64()*24,
			Lng: -124 + r.Float64()*57,
		}
	}

	return points
}

func engines() []Engine {
	return []Engine{EngineRTree, EngineH3}
}

func TestIndexMatchesBruteForce(t *testing.T) {
	points := randomPoints(2000)
	centers := []Point{
		{Lat: 39.9612, Lng: -82.9988},
		{Lat: 34.0522, Lng: -118.2437},
		{Lat: 47.6062, Lng: -122.3321},
		{Lat: 25.7617, Lng: -80.1918},
	}
	radii := []float64{0, 1, 5, 10, 25, 100, 500, 3000}

	for _, engine := range engines() {
		idx, err := NewIndex(engine, points)
		require.NoError(t, err)
		assert.Equal(t, len(points), idx.Len())

		for _, center := range centers {
			for _, miles := range radii {
				radius := MilesToRadians(miles)
				want := bruteForce(points, center, radius)
				got := idx.WithinRadius(center, radius)

				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("%s: center %v radius %v mismatch (-want +got):\n%s", engine, center, miles, diff)
				}
			}
		}
	}
}

func TestIndexEdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		center Point
		miles  float64
		want   []int
	}{
		{
			name:   "zero radius only matches coincident points",
			points: []Point{{Lat: 40, Lng: -83}, {Lat: 40.0001, Lng: -83}, {Lat: 40, Lng: -83}},
			center: Point{Lat: 40, Lng: -83},
			miles:  0,
			want:   []int{0, 2},
		},
		{
			name:   "crossing the antimeridian",
			points: []Point{{Lat: 0, Lng: 179.95}, {Lat: 0, Lng: -179.95}, {Lat: 0, Lng: 170}},
			center: Point{Lat: 0, Lng: 179.99},
			miles:  20,
			want:   []int{0, 1},
		},
		{
			name:   "cap including the north pole",
			points: []Point{{Lat: 89.9, Lng: 0}, {Lat: 89.9, Lng: 180}, {Lat: 80, Lng: 0}},
			center: Point{Lat: 89.9, Lng: 0},
			miles:  20,
			want:   []int{0, 1},
		},
		{
			name:   "infinite radius returns everything",
			points: []Point{{Lat: -45, Lng: 170}, {Lat: 45, Lng: -170}},
			center: Point{Lat: 0, Lng: 0},
			miles:  math.Inf(1),
			want:   []int{0, 1},
		},
		{
			name:   "no points",
			points: nil,
			center: Point{Lat: 0, Lng: 0},
			miles:  100,
			want:   nil,
		},
	}

	for _, tt := range tests {
		for _, engine := range engines() {
			t.Run(string(engine)+"/"+tt.name, func(t *testing.T) {
				idx, err := NewIndex(engine, tt.points)
				require.NoError(t, err)

				got := idx.WithinRadius(tt.center, MilesToRadians(tt.miles))
				assert.Equal(t, tt.want, got)
			})
		}
	}
}

func TestParseEngine(t *testing.T) {
	e, err := ParseEngine(" H3 ")
	require.NoError(t, err)
	assert.Equal(t, EngineH3, e)

	e, err = ParseEngine("")
	require.NoError(t, err)
	assert.Equal(t, EngineRTree, e)

	_, err = ParseEngine("balltree")
	assert.Error(t, err)
}

func TestDiskResolution(t *testing.T) {
	prev := h3MaxRes
	for _, km := range []float64{0, 1, 10, 50, 200, 1000} {
		res, k := diskResolution(km)
		require.GreaterOrEqual(t, res, 0, "radius %v km", km)
		assert.LessOrEqual(t, k, h3MaxDiskK)
		assert.LessOrEqual(t, res, prev, "coarser cells for larger radii")

		prev = res
	}
}
