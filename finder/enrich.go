// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package finder

import (
	"cmp"
	"slices"

	"github.com/jcodagnone/hospitalfinder/refdata"
	"github.com/jcodagnone/hospitalfinder/spatial"
	"github.com/jcodagnone/hospitalfinder/utils/textutil"
)

// Match is a hospital within the search radius, decorated for display.
type Match struct {
	Hospital      refdata.Hospital `json:"hospital"`
	DistanceMiles float64          `json:"distance_miles"`
	RouteURL      string           `json:"route_url"`
	MapURL        string           `json:"map_url"`
}

// EnrichAndSort measures each hospital's distance from center, attaches the
// map links and orders the result by ascending distance. Hospitals at the
// same distance keep their input order.
func EnrichAndSort(center spatial.Point, hospitals []refdata.Hospital) []Match {
	matches := make([]Match, len(hospitals))

	for i, h := range hospitals {
		p := h.Point()
		matches[i] = Match{
			Hospital:      h,
			DistanceMiles: p.HaversineMiles(center),
			RouteURL:      RouteURL(center, p),
			MapURL:        MapURL(p),
		}
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		return cmp.Compare(a.DistanceMiles, b.DistanceMiles)
	})

	return matches
}

// RouteURL returns a Google Maps driving directions link.
func RouteURL(origin, destination spatial.Point) string {
	return "https://www.google.com/maps/dir/?api=1" +
		"&origin=" + coords(origin) +
		"&destination=" + coords(destination) +
		"&travelmode=driving"
}

// MapURL returns a Google Maps link pinning p.
func MapURL(p spatial.Point) string {
	return "https://www.google.com/maps/search/?api=1&query=" + coords(p)
}

func coords(p spatial.Point) string {
	return textutil.FormatFloat(p.Lat) + "," + textutil.FormatFloat(p.Lng)
}
