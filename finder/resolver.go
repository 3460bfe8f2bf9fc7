// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package finder answers "which hospitals are within this many miles of this
// city" over the reference tables.
package finder

import (
	"errors"
	"fmt"

	"github.com/jcodagnone/hospitalfinder/refdata"
	"github.com/jcodagnone/hospitalfinder/utils/textutil"
)

// ErrCityNotFound is returned when no city matches the requested name.
var ErrCityNotFound = errors.New("city not found")

// ResolveCity returns the first city, in table order, whose name equals name
// ignoring case and surrounding whitespace.
func ResolveCity(name string, cities []refdata.City) (refdata.City, error) {
	return ResolveCityInState(name, "", cities)
}

// ResolveCityInState is ResolveCity restricted to cities of the given state
// name. An empty state matches every state.
func ResolveCityInState(name, state string, cities []refdata.City) (refdata.City, error) {
	key, stateKey := textutil.Fold(name), textutil.Fold(state)

	for _, c := range cities {
		if textutil.Fold(c.Name) != key {
			continue
		}

		if stateKey != "" && textutil.Fold(c.State) != stateKey {
			continue
		}

		return c, nil
	}

	if stateKey != "" {
		return refdata.City{}, fmt.Errorf("%w: %q in %q", ErrCityNotFound, name, state)
	}

	return refdata.City{}, fmt.Errorf("%w: %q", ErrCityNotFound, name)
}

// Candidates returns every city sharing the resolved name, in table order.
func Candidates(name string, cities []refdata.City) []refdata.City {
	key := textutil.Fold(name)

	var out []refdata.City

	for _, c := range cities {
		if textutil.Fold(c.Name) == key {
			out = append(out, c)
		}
	}

	return out
}

// Suggestions returns the cities whose names match name once accents are
// dropped ("montreal" for "Montréal"). It is only consulted after an exact
// lookup failed.
func Suggestions(name string, cities []refdata.City) []refdata.City {
	key := textutil.LowerASCIIFolding(name)
	if key == "" {
		return nil
	}

	var out []refdata.City

	for _, c := range cities {
		if textutil.LowerASCIIFolding(c.Name) == key {
			out = append(out, c)
		}
	}

	return out
}
