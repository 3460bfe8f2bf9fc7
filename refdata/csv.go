// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package refdata

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/jcodagnone/hospitalfinder/spatial"
)

// HIFLD exports use -999 for unknown bed counts.
const unknownBeds = -999

var (
	cityColumns = []string{"city", "state_name", "county_name", "population", "lat", "lng"}

	hospitalColumns = []string{
		"NAME", "ADDRESS", "CITY", "STATE", "ZIP", "TYPE", "STATUS",
		"BEDS", "TELEPHONE", "WEBSITE", "LATITUDE", "LONGITUDE",
	}
)

// FileStore reads both tables from CSV files on every call.
type FileStore struct {
	CitiesPath    string
	HospitalsPath string
}

// NewFileStore creates a FileStore.
func NewFileStore(citiesPath, hospitalsPath string) *FileStore {
	return &FileStore{CitiesPath: citiesPath, HospitalsPath: hospitalsPath}
}

// LoadCities implements Store.
func (s *FileStore) LoadCities(ctx context.Context) ([]City, error) {
	var cities []City

	err := readTable(ctx, "cities", s.CitiesPath, cityColumns, func(r row) error {
		point, err := r.point("lat", "lng")
		if err != nil {
			return err
		}

		population, err := r.count("population")
		if err != nil {
			return err
		}

		cities = append(cities, City{
			Name:       r.get("city"),
			State:      r.get("state_name"),
			County:     r.get("county_name"),
			Population: population,
			Latitude:   point.Lat,
			Longitude:  point.Lng,
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return cities, nil
}

// LoadHospitals implements Store.
func (s *FileStore) LoadHospitals(ctx context.Context) ([]Hospital, error) {
	var hospitals []Hospital

	err := readTable(ctx, "hospitals", s.HospitalsPath, hospitalColumns, func(r row) error {
		point, err := r.point("LATITUDE", "LONGITUDE")
		if err != nil {
			return err
		}

		beds, err := r.optionalCount("BEDS")
		if err != nil {
			return err
		}

		hospitals = append(hospitals, Hospital{
			Name:      r.get("NAME"),
			Address:   r.get("ADDRESS"),
			City:      r.get("CITY"),
			State:     r.get("STATE"),
			ZIP:       r.get("ZIP"),
			Type:      r.get("TYPE"),
			Status:    r.get("STATUS"),
			Beds:      beds,
			Phone:     r.get("TELEPHONE"),
			Website:   r.get("WEBSITE"),
			Latitude:  point.Lat,
			Longitude: point.Lng,
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return hospitals, nil
}

type row struct {
	header map[string]int
	record []string
	line   int
}

func (r row) get(column string) string {
	return strings.TrimSpace(r.record[r.header[column]])
}

func (r row) float(column string) (float64, error) {
	v, err := strconv.ParseFloat(r.get(column), 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: column %s: %w", r.line, column, err)
	}

	return v, nil
}

func (r row) point(latColumn, lngColumn string) (spatial.Point, error) {
	lat, err := r.float(latColumn)
	if err != nil {
		return spatial.Point{}, err
	}

	lng, err := r.float(lngColumn)
	if err != nil {
		return spatial.Point{}, err
	}

	p := spatial.Point{Lat: lat, Lng: lng}
	if err := p.Validate(); err != nil {
		return spatial.Point{}, fmt.Errorf("line %d: %w", r.line, err)
	}

	return p, nil
}

// count parses integers that may have been exported as floats ("1234.0").
// Empty cells count as zero.
func (r row) count(column string) (int64, error) {
	v, err := r.optionalCount(column)
	if err != nil || v == nil {
		return 0, err
	}

	return *v, nil
}

func (r row) optionalCount(column string) (*int64, error) {
	if r.get(column) == "" {
		return nil, nil
	}

	f, err := r.float(column)
	if err != nil {
		return nil, err
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("line %d: column %s: %q is not a whole number", r.line, column, r.get(column))
	}

	n := int64(f)
	if n == unknownBeds {
		return nil, nil
	}

	return &n, nil
}

// readTable validates the header against the required columns and calls fn
// once per distinct row, in file order.
func readTable(ctx context.Context, table, path string, columns []string, fn func(row) error) error {
	wrap := func(err error) error {
		return &DataLoadError{Table: table, Path: path, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return wrap(err)
	}

	f, err := os.Open(path) // #nosec G304 - path comes from configuration
	if err != nil {
		return wrap(err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	names, err := r.Read()
	if errors.Is(err, io.EOF) {
		return wrap(errors.New("empty file"))
	}

	if err != nil {
		return wrap(fmt.Errorf("reading header: %w", err))
	}

	header := make(map[string]int, len(names))
	for i, name := range names {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}

		if _, dup := header[name]; !dup {
			header[name] = i
		}
	}

	for _, column := range columns {
		if _, ok := header[column]; !ok {
			return wrap(fmt.Errorf("%w %q", ErrMissingColumn, column))
		}
	}

	seen := make(map[string]bool)

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return wrap(err)
		}

		key := rowKey(record)
		if seen[key] {
			continue
		}

		seen[key] = true
		line, _ := r.FieldPos(0)

		if err := fn(row{header: header, record: record, line: line}); err != nil {
			return wrap(err)
		}
	}
}

// rowKey identifies a record for duplicate detection. Numeric cells compare
// by value, so "120" and "120.0" are the same cell.
func rowKey(record []string) string {
	cells := make([]string, len(record))

	for i, cell := range record {
		cell = strings.TrimSpace(cell)
		if f, err := strconv.ParseFloat(cell, 64); err == nil {
			cell = strconv.FormatFloat(f, 'g', -1, 64)
		}

		cells[i] = cell
	}

	return strings.Join(cells, "\x1f")
}
