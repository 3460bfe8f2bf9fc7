// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package finder

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/jcodagnone/hospitalfinder/refdata"
	"github.com/jcodagnone/hospitalfinder/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columbus = spatial.Point{Lat: 39.9862, Lng: -82.9855}

// hospitals due north of Columbus at 1.0, 3.2 and 8.0 miles.
var columbusHospitals = []refdata.Hospital{
	{Name: "Northside Hospital", Latitude: 40.10198413562308, Longitude: -82.9855},
	{Name: "Downtown General", Latitude: 40.00067301695288, Longitude: -82.9855},
	{Name: "Mercy Health", Latitude: 40.03251365424923, Longitude: -82.9855},
	{Name: "Memorial Medical", Latitude: 39.79, Longitude: -89.6538},
}

var engines = []spatial.Engine{spatial.EngineRTree, spatial.EngineH3}

func names(hospitals []refdata.Hospital) []string {
	out := make([]string, len(hospitals))
	for i, h := range hospitals {
		out[i] = h.Name
	}

	return out
}

func TestFindWithinRadius(t *testing.T) {
	tests := []struct {
		radius float64
		want   []string
	}{
		{0, []string{}},
		{0.5, []string{}},
		{1.1, []string{"Downtown General"}},
		{5, []string{"Downtown General", "Mercy Health"}},
		{10, []string{"Northside Hospital", "Downtown General", "Mercy Health"}},
		{1000, []string{"Northside Hospital", "Downtown General", "Mercy Health", "Memorial Medical"}},
		{math.Inf(1), []string{"Northside Hospital", "Downtown General", "Mercy Health", "Memorial Medical"}},
		{-1, []string{}},
		{math.NaN(), []string{}},
	}

	for _, engine := range engines {
		for _, tc := range tests {
			t.Run(string(engine), func(t *testing.T) {
				got, err := FindWithinRadius(columbus, tc.radius, columbusHospitals, engine)
				require.NoError(t, err)
				assert.Equal(t, tc.want, names(got), "radius %v", tc.radius)
			})
		}
	}
}

func TestFindWithinRadius_ZeroRadiusCoincident(t *testing.T) {
	hospitals := append([]refdata.Hospital{{Name: "On Site", Latitude: columbus.Lat, Longitude: columbus.Lng}}, columbusHospitals...)

	for _, engine := range engines {
		got, err := FindWithinRadius(columbus, 0, hospitals, engine)
		require.NoError(t, err)
		assert.Equal(t, []string{"On Site"}, names(got), engine)
	}
}

func TestFindWithinRadius_UnknownEngine(t *testing.T) {
	_, err := FindWithinRadius(columbus, 5, columbusHospitals, spatial.Engine("kdtree"))
	require.Error(t, err)
}

func TestFindWithinRadius_NoHospitals(t *testing.T) {
	got, err := FindWithinRadius(columbus, 5, nil, spatial.EngineRTree)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindWithinRadius_DistancesWithinRadius(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	hospitals := make([]refdata.Hospital, 1500)
	for i := range hospitals {
		hospitals[i] = refdata.Hospital{
			Latitude:  25 + rng.Float64()*24,
			Longitude: -124 + rng.Float64()*57,
		}
	}

	for _, engine := range engines {
		for _, radius := range []float64{0, 10, 50, 250} {
			got, err := FindWithinRadius(columbus, radius, hospitals, engine)
			require.NoError(t, err)

			count := 0

			for _, h := range hospitals {
				if h.Point().HaversineMiles(columbus) <= radius*(1-1e-9) {
					count++
				}
			}

			assert.GreaterOrEqual(t, len(got), count, "%s radius %v", engine, radius)

			for _, m := range EnrichAndSort(columbus, got) {
				assert.LessOrEqual(t, m.DistanceMiles, radius*(1+1e-6), "%s radius %v", engine, radius)
			}
		}
	}
}
