// Copyright 2025 The HospitalFinder Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"fmt"
	"math"
)

// EarthRadiusMiles is the mean Earth radius used for every distance in this module.
const EarthRadiusMiles = 3958.8

const earthRadiusKm = 6371.0088

// Point represents a geographical point with latitude and longitude in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("(%f, %f)", p.Lat, p.Lng)
}

// Radians returns the latitude and longitude of the point in radians.
func (p Point) Radians() (float64, float64) {
	return toRadians(p.Lat), toRadians(p.Lng)
}

// Validate verifies that the coordinates are inside the valid ranges.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90 (got %f)", p.Lat)
	}

	if math.IsNaN(p.Lng) || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180 (got %f)", p.Lng)
	}

	return nil
}

// HaversineMiles calculates the great-circle distance between two points in miles.
func (p Point) HaversineMiles(other Point) float64 {
	lat1, lng1 := p.Radians()
	lat2, lng2 := other.Radians()

	return HaversineRadians(lat1, lng1, lat2, lng2) * EarthRadiusMiles
}

// HaversineRadians returns the central angle between two points given in
// radians, that is, the great-circle distance on the unit sphere.
func HaversineRadians(lat1, lng1, lat2, lng2 float64) float64 {
	sinLat := math.Sin((lat2 - lat1) / 2)
	sinLng := math.Sin((lng2 - lng1) / 2)

	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng

	// rounding may push a slightly above 1 for antipodal points
	return 2 * math.Asin(math.Sqrt(math.Min(a, 1)))
}

// MilesToRadians converts a distance over the Earth surface into the
// corresponding central angle.
func MilesToRadians(miles float64) float64 {
	return miles / EarthRadiusMiles
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
