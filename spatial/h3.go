// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"log/slog"
	"math"
	"slices"

	"github.com/uber/h3-go/v4"
)

const (
	h3MinRes = 0
	h3MaxRes = 8

	// grid disks larger than this are slower than scanning every point
	h3MaxDiskK = 16

	// beyond this radius the cap covers so many coarse cells, pentagons
	// included, that a full scan is both simpler and exact
	h3MaxRadiusKm = 1000.0
)

// average hexagon edge length, in km, per resolution.
var h3AvgEdgeKm = [...]float64{
	1281.256011, 483.0568391, 182.5129565, 68.97922179, 26.07175968,
	9.854090990, 3.724532667, 1.406475763, 0.531414010,
}

// H3Index buckets points by the H3 cell containing them. A radius query picks
// the finest resolution whose grid disk stays small, gathers the points of
// every cell in the disk, and refines them with the haversine distance.
//
// Buckets are computed lazily per resolution; an H3Index is not safe for
// concurrent use.
type H3Index struct {
	points  []Point
	coords  radianCoords
	buckets map[int]map[h3.Cell][]int
}

// NewH3Index creates an index over points.
func NewH3Index(points []Point) *H3Index {
	return &H3Index{
		points:  points,
		coords:  newRadianCoords(points),
		buckets: make(map[int]map[h3.Cell][]int),
	}
}

// Len returns the number of indexed points.
func (idx *H3Index) Len() int {
	return len(idx.points)
}

// WithinRadius implements Index.
func (idx *H3Index) WithinRadius(center Point, radius float64) []int {
	if idx.Len() == 0 || math.IsNaN(radius) || radius < 0 {
		return nil
	}

	candidates, ok := idx.candidates(center, radius)
	if !ok {
		return idx.coords.scan(center, radius)
	}

	lat, lng := center.Radians()

	var ret []int

	for _, i := range candidates {
		if idx.coords.within(i, lat, lng, radius) {
			ret = append(ret, i)
		}
	}

	slices.Sort(ret)

	return ret
}

// candidates returns the positions of the points sharing a cell with the
// grid disk around center. The boolean is false when the caller must fall
// back to a full scan.
func (idx *H3Index) candidates(center Point, radius float64) ([]int, bool) {
	radiusKm := radius * earthRadiusKm
	if radiusKm > h3MaxRadiusKm {
		return nil, false
	}

	res, k := diskResolution(radiusKm)
	if res < 0 {
		return nil, false
	}

	buckets, err := idx.bucketsAt(res)
	if err != nil {
		slog.Warn("h3 bucketing failed, scanning", "res", res, "err", err)

		return nil, false
	}

	origin, err := h3.LatLngToCell(h3.NewLatLng(center.Lat, center.Lng), res)
	if err != nil {
		return nil, false
	}

	disk, err := h3.GridDisk(origin, k)
	if err != nil {
		return nil, false
	}

	var ret []int
	for _, cell := range disk {
		ret = append(ret, buckets[cell]...)
	}

	return ret, true
}

// diskResolution chooses the finest resolution whose covering disk has at
// most h3MaxDiskK rings. Cell sizes vary across the globe, so the edge
// length is bounded between half and twice the average: a point within
// radiusKm lies in a cell whose center is at most radiusKm + 2 edges away,
// and neighbouring centers are at least 1.5 minimum edges apart.
func diskResolution(radiusKm float64) (int, int) {
	for res := h3MaxRes; res >= h3MinRes; res-- {
		edge := h3AvgEdgeKm[res]
		maxEdge, minEdge := 2*edge, edge/2

		k := int(math.Ceil((radiusKm + 2*maxEdge) / (1.5 * minEdge)))
		if k <= h3MaxDiskK {
			return res, k
		}
	}

	return -1, 0
}

func (idx *H3Index) bucketsAt(res int) (map[h3.Cell][]int, error) {
	if b, ok := idx.buckets[res]; ok {
		return b, nil
	}

	b := make(map[h3.Cell][]int)

	for i, p := range idx.points {
		cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), res)
		if err != nil {
			return nil, err
		}

		b[cell] = append(b[cell], i)
	}

	idx.buckets[res] = b

	return b, nil
}
