// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"math"
	"slices"

	"github.com/dhconnelly/rtreego"
)

const (
	rtreeMinChildren = 25
	rtreeMaxChildren = 50

	// half width, in degrees, of the rectangle stored for each point
	pointTolerance = 1e-9
)

type rtreeItem struct {
	rect rtreego.Rect
	pos  int
}

func (it *rtreeItem) Bounds() rtreego.Rect {
	return it.rect
}

// RTreeIndex stores points in an R-tree keyed by (lat, lng) in degrees. A
// radius query searches the bounding box of the spherical cap and refines the
// candidates with the haversine distance.
type RTreeIndex struct {
	tree   *rtreego.Rtree
	coords radianCoords
}

// NewRTreeIndex bulk loads points into a new R-tree.
func NewRTreeIndex(points []Point) *RTreeIndex {
	objs := make([]rtreego.Spatial, 0, len(points))
	for i, p := range points {
		objs = append(objs, &rtreeItem{
			rect: rtreego.Point{p.Lat, p.Lng}.ToRect(pointTolerance),
			pos:  i,
		})
	}

	return &RTreeIndex{
		tree:   rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren, objs...),
		coords: newRadianCoords(points),
	}
}

// Len returns the number of indexed points.
func (idx *RTreeIndex) Len() int {
	return len(idx.coords.lats)
}

// WithinRadius implements Index.
func (idx *RTreeIndex) WithinRadius(center Point, radius float64) []int {
	if idx.Len() == 0 || math.IsNaN(radius) || radius < 0 {
		return nil
	}

	lat, lng := center.Radians()
	seen := make(map[int]bool)

	var ret []int

	for _, box := range capBoundingBoxes(center, radius) {
		for _, obj := range idx.tree.SearchIntersect(box) {
			item, ok := obj.(*rtreeItem)
			if !ok || seen[item.pos] {
				continue
			}

			seen[item.pos] = true

			if idx.coords.within(item.pos, lat, lng, radius) {
				ret = append(ret, item.pos)
			}
		}
	}

	slices.Sort(ret)

	return ret
}

// capBoundingBoxes returns the rectangles, in degrees, covering every point
// within radius (radians) of center. Caps crossing the antimeridian are split
// in two, and caps including a pole span every longitude.
func capBoundingBoxes(center Point, radius float64) []rtreego.Rect {
	if radius >= math.Pi {
		return []rtreego.Rect{mustRect(-90, -180, 90, 180)}
	}

	dLat := toDegrees(radius)
	minLat, maxLat := center.Lat-dLat, center.Lat+dLat

	if minLat <= -90 || maxLat >= 90 {
		return []rtreego.Rect{mustRect(math.Max(minLat, -90), -180, math.Min(maxLat, 90), 180)}
	}

	s := math.Sin(radius) / math.Cos(toRadians(center.Lat))
	if s >= 1 {
		return []rtreego.Rect{mustRect(minLat, -180, maxLat, 180)}
	}

	dLng := toDegrees(math.Asin(s))
	minLng, maxLng := center.Lng-dLng, center.Lng+dLng

	switch {
	case minLng < -180:
		return []rtreego.Rect{
			mustRect(minLat, minLng+360, maxLat, 180),
			mustRect(minLat, -180, maxLat, maxLng),
		}
	case maxLng > 180:
		return []rtreego.Rect{
			mustRect(minLat, minLng, maxLat, 180),
			mustRect(minLat, -180, maxLat, maxLng-360),
		}
	default:
		return []rtreego.Rect{mustRect(minLat, minLng, maxLat, maxLng)}
	}
}

// mustRect builds a 2D rectangle; both points always have two dimensions so
// the constructor can't fail.
func mustRect(minLat, minLng, maxLat, maxLng float64) rtreego.Rect {
	r, err := rtreego.NewRectFromPoints(
		rtreego.Point{minLat - pointTolerance, minLng - pointTolerance},
		rtreego.Point{maxLat + pointTolerance, maxLng + pointTolerance},
	)
	if err != nil {
		panic(err)
	}

	return r
}
