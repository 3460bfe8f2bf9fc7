// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package finder

import (
	"testing"

	"github.com/jcodagnone/hospitalfinder/refdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCities = []refdata.City{
	{Name: "Columbus", State: "Ohio", County: "Franklin", Population: 1556848, Latitude: 39.9862, Longitude: -82.9855},
	{Name: "Springfield", State: "Illinois", County: "Sangamon", Population: 113394, Latitude: 39.771, Longitude: -89.6538},
	{Name: "Columbus", State: "Georgia", County: "Muscogee", Population: 367209, Latitude: 32.51, Longitude: -84.8771},
	{Name: "Montréal", State: "Quebec", County: "Montréal", Population: 1762949, Latitude: 45.5089, Longitude: -73.5617},
}

func TestResolveCity(t *testing.T) {
	tests := []struct {
		input     string
		wantState string
	}{
		{"Columbus", "Ohio"},
		{"columbus", "Ohio"},
		{"  COLUMBUS\t", "Ohio"},
		{"springfield", "Illinois"},
		{"MONTRÉAL", "Quebec"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			c, err := ResolveCity(tc.input, testCities)
			require.NoError(t, err)
			assert.Equal(t, tc.wantState, c.State)
		})
	}
}

func TestResolveCity_NotFound(t *testing.T) {
	for _, input := range []string{"Nowhereville", "", "Colum", "Montreal"} {
		t.Run(input, func(t *testing.T) {
			_, err := ResolveCity(input, testCities)
			require.ErrorIs(t, err, ErrCityNotFound)
		})
	}
}

func TestResolveCity_NoCaseExpansion(t *testing.T) {
	cities := []refdata.City{{Name: "Straße", State: "Bavaria"}}

	_, err := ResolveCity("STRASSE", cities)
	require.ErrorIs(t, err, ErrCityNotFound)

	c, err := ResolveCity("STRASSE", []refdata.City{{Name: "Strasse", State: "Bavaria"}})
	require.NoError(t, err)
	assert.Equal(t, "Strasse", c.Name)

	c, err = ResolveCity("straße", cities)
	require.NoError(t, err)
	assert.Equal(t, "Bavaria", c.State)
}

func TestResolveCityInState(t *testing.T) {
	c, err := ResolveCityInState("columbus", "georgia", testCities)
	require.NoError(t, err)
	assert.Equal(t, "Muscogee", c.County)

	c, err = ResolveCityInState("columbus", "", testCities)
	require.NoError(t, err)
	assert.Equal(t, "Ohio", c.State)

	_, err = ResolveCityInState("springfield", "Ohio", testCities)
	require.ErrorIs(t, err, ErrCityNotFound)
	assert.Contains(t, err.Error(), `"Ohio"`)
}

func TestCandidates(t *testing.T) {
	got := Candidates(" columbus ", testCities)
	require.Len(t, got, 2)
	assert.Equal(t, "Ohio", got[0].State)
	assert.Equal(t, "Georgia", got[1].State)

	assert.Len(t, Candidates("Springfield", testCities), 1)
	assert.Empty(t, Candidates("Nowhereville", testCities))
}

func TestSuggestions(t *testing.T) {
	got := Suggestions("montreal", testCities)
	require.Len(t, got, 1)
	assert.Equal(t, "Montréal", got[0].Name)

	assert.Empty(t, Suggestions("", testCities))
	assert.Empty(t, Suggestions("Nowhereville", testCities))
}
