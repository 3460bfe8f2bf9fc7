// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"fmt"
	"strings"
)

// Index answers radius queries over a fixed set of points.
type Index interface {
	// WithinRadius returns, in ascending order, the positions of the indexed
	// points whose great-circle distance from center is at most radius,
	// expressed in radians over the unit sphere.
	WithinRadius(center Point, radius float64) []int

	// Len returns the number of indexed points.
	Len() int
}

// Engine selects an Index implementation.
type Engine string

const (
	// EngineRTree indexes points in an R-tree over latitude/longitude.
	EngineRTree Engine = "rtree"
	// EngineH3 buckets points by H3 cell.
	EngineH3 Engine = "h3"
)

// ParseEngine validates an engine name.
func ParseEngine(s string) (Engine, error) {
	switch e := Engine(strings.ToLower(strings.TrimSpace(s))); e {
	case EngineRTree, EngineH3:
		return e, nil
	case "":
		return EngineRTree, nil
	default:
		return "", fmt.Errorf("unknown spatial engine %q (expected %q or %q)", s, EngineRTree, EngineH3)
	}
}

// NewIndex builds an Index of the requested kind over points.
func NewIndex(engine Engine, points []Point) (Index, error) {
	switch engine {
	case EngineRTree, "":
		return NewRTreeIndex(points), nil
	case EngineH3:
		return NewH3Index(points), nil
	default:
		return nil, fmt.Errorf("unknown spatial engine %q", engine)
	}
}

// radianCoords keeps the coordinates of the indexed points in radians so the
// haversine refinement does not convert them on every query.
type radianCoords struct {
	lats []float64
	lngs []float64
}

func newRadianCoords(points []Point) radianCoords {
	rc := radianCoords{
		lats: make([]float64, len(points)),
		lngs: make([]float64, len(points)),
	}

	for i, p := range points {
		rc.lats[i], rc.lngs[i] = p.Radians()
	}

	return rc
}

func (rc radianCoords) within(i int, lat, lng, radius float64) bool {
	return HaversineRadians(lat, lng, rc.lats[i], rc.lngs[i]) <= radius
}

// scan is the brute force fallback.
func (rc radianCoords) scan(center Point, radius float64) []int {
	lat, lng := center.Radians()

	var ret []int

	for i := range rc.lats {
		if rc.within(i, lat, lng, radius) {
			ret = append(ret, i)
		}
	}

	return ret
}
