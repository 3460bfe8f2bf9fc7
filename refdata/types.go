// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package refdata loads the read-only reference tables, cities and
// hospitals, from CSV files or from a DuckDB database.
package refdata

import (
	"context"

	"github.com/jcodagnone/hospitalfinder/spatial"
)

const (
	// DefaultCitiesFile is the conventional name of the cities table.
	DefaultCitiesFile = "uscities.csv"
	// DefaultHospitalsFile is the conventional name of the hospitals table.
	DefaultHospitalsFile = "us_hospital_locations.csv"
)

// City is a row of the cities table. Its identity is (Name, State), but
// lookups use the name only.
type City struct {
	Name       string  `json:"name"`
	State      string  `json:"state"`
	County     string  `json:"county"`
	Population int64   `json:"population"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// Point returns the location of the city.
func (c City) Point() spatial.Point {
	return spatial.Point{Lat: c.Latitude, Lng: c.Longitude}
}

// Hospital is a row of the hospitals table.
type Hospital struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	ZIP       string  `json:"zip"`
	Type      string  `json:"type"`
	Status    string  `json:"status"`
	Beds      *int64  `json:"beds"` // nil when unknown
	Phone     string  `json:"phone"`
	Website   string  `json:"website"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Point returns the location of the hospital.
func (h Hospital) Point() spatial.Point {
	return spatial.Point{Lat: h.Latitude, Lng: h.Longitude}
}

// Store gives access to the reference tables. Implementations return rows in
// table order with exact duplicates removed, and must not retain or mutate
// the returned slices.
type Store interface {
	LoadCities(ctx context.Context) ([]City, error)
	LoadHospitals(ctx context.Context) ([]Hospital, error)
}

// MemoryStore serves fixed tables, mostly for tests and tools.
type MemoryStore struct {
	Cities    []City
	Hospitals []Hospital
}

// LoadCities implements Store.
func (s *MemoryStore) LoadCities(ctx context.Context) ([]City, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return s.Cities, nil
}

// LoadHospitals implements Store.
func (s *MemoryStore) LoadHospitals(ctx context.Context) ([]Hospital, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return s.Hospitals, nil
}
