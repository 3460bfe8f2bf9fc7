// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package finder

import (
	"fmt"
	"math"

	"github.com/jcodagnone/hospitalfinder/refdata"
	"github.com/jcodagnone/hospitalfinder/spatial"
)

// FindWithinRadius returns, in table order, every hospital whose great-circle
// distance from center is at most radiusMiles. A fresh index of the requested
// engine is built for each call. A radius of zero only matches hospitals at
// exactly the center; negative or NaN radii match nothing.
func FindWithinRadius(
	center spatial.Point,
	radiusMiles float64,
	hospitals []refdata.Hospital,
	engine spatial.Engine,
) ([]refdata.Hospital, error) {
	if len(hospitals) == 0 || radiusMiles < 0 || math.IsNaN(radiusMiles) {
		return nil, nil
	}

	points := make([]spatial.Point, len(hospitals))
	for i, h := range hospitals {
		points[i] = h.Point()
	}

	idx, err := spatial.NewIndex(engine, points)
	if err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}

	positions := idx.WithinRadius(center, spatial.MilesToRadians(radiusMiles))

	out := make([]refdata.Hospital, len(positions))
	for i, pos := range positions {
		out[i] = hospitals[pos]
	}

	return out, nil
}
