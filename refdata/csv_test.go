// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package refdata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore() *FileStore {
	return NewFileStore(
		filepath.Join("testdata", DefaultCitiesFile),
		filepath.Join("testdata", DefaultHospitalsFile),
	)
}

func ptr(n int64) *int64 {
	return &n
}

func TestFileStore_LoadCities(t *testing.T) {
	cities, err := testStore().LoadCities(context.Background())
	require.NoError(t, err)

	want := []City{
		{Name: "Columbus", State: "Ohio", County: "Franklin", Population: 1556848, Latitude: 39.9862, Longitude: -82.9855},
		{Name: "Springfield", State: "Illinois", County: "Sangamon", Population: 113394, Latitude: 39.771, Longitude: -89.6538},
		{Name: "Columbus", State: "Georgia", County: "Muscogee", Population: 367209, Latitude: 32.51, Longitude: -84.8771},
		{Name: "Springfield", State: "Missouri", County: "Greene", Population: 247520, Latitude: 37.1943, Longitude: -93.2915},
		{Name: "Montréal", State: "Quebec", County: "Montréal", Population: 1762949, Latitude: 45.5089, Longitude: -73.5617},
		{Name: "Empty Town", State: "Nevada", County: "Nye", Population: 0, Latitude: 38.0, Longitude: -116.5},
	}

	if diff := cmp.Diff(want, cities); diff != "" {
		t.Errorf("LoadCities() mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStore_LoadHospitals(t *testing.T) {
	hospitals, err := testStore().LoadHospitals(context.Background())
	require.NoError(t, err)
	require.Len(t, hospitals, 5, "exact duplicate rows are dropped")

	names := make([]string, 0, len(hospitals))
	for _, h := range hospitals {
		names = append(names, h.Name)
	}

	assert.Equal(t, []string{
		"Downtown General", "Mercy Health", "Northside Hospital", "Columbus Regional", "Memorial Medical",
	}, names)

	mercy := hospitals[1]
	assert.Equal(t, Hospital{
		Name:      "Mercy Health",
		Address:   "200 High St",
		City:      "COLUMBUS",
		State:     "OH",
		ZIP:       "43202",
		Type:      "GENERAL ACUTE CARE",
		Status:    "OPEN",
		Beds:      ptr(120),
		Phone:     "(614) 555-0200",
		Website:   "https://mercy.example.org",
		Latitude:  40.03251365424923,
		Longitude: -82.9855,
	}, mercy)

	assert.Nil(t, hospitals[2].Beds, "-999 means unknown")
	assert.Nil(t, hospitals[3].Beds, "empty means unknown")
	assert.Equal(t, ptr(500), hospitals[4].Beds)
}

func TestFileStore_Errors(t *testing.T) {
	tests := []struct {
		name    string
		store   *FileStore
		load    func(*FileStore) error
		wantErr error
	}{
		{
			name:  "missing cities file",
			store: NewFileStore(filepath.Join("testdata", "nope.csv"), ""),
			load: func(s *FileStore) error {
				_, err := s.LoadCities(context.Background())

				return err
			},
			wantErr: os.ErrNotExist,
		},
		{
			name:  "missing column",
			store: NewFileStore(filepath.Join("testdata", "missing_column.csv"), ""),
			load: func(s *FileStore) error {
				_, err := s.LoadCities(context.Background())

				return err
			},
			wantErr: ErrMissingColumn,
		},
		{
			name:  "cities file used as hospitals",
			store: NewFileStore("", filepath.Join("testdata", DefaultCitiesFile)),
			load: func(s *FileStore) error {
				_, err := s.LoadHospitals(context.Background())

				return err
			},
			wantErr: ErrMissingColumn,
		},
		{
			name:  "latitude out of range",
			store: NewFileStore(filepath.Join("testdata", "bad_latitude.csv"), ""),
			load: func(s *FileStore) error {
				_, err := s.LoadCities(context.Background())

				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.load(tt.store)
			require.Error(t, err)
			assert.True(t, IsDataLoadError(err), "got %T", err)

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
		})
	}
}

func TestFileStore_MissingColumnNamesIt(t *testing.T) {
	_, err := NewFileStore(filepath.Join("testdata", "missing_column.csv"), "").LoadCities(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"lng"`)
	assert.Contains(t, err.Error(), "cities")
}

func TestFileStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := NewFileStore(path, "").LoadCities(context.Background())
	require.Error(t, err)
	assert.True(t, IsDataLoadError(err))
}

func TestFileStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testStore().LoadHospitals(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileStore_DuplicatesCompareNumbersByValue(t *testing.T) {
	header := "NAME,ADDRESS,CITY,STATE,ZIP,TYPE,STATUS,BEDS,TELEPHONE,WEBSITE,LATITUDE,LONGITUDE\n"
	rows := []string{
		"Mercy Health,200 High St,COLUMBUS,OH,43202,GENERAL ACUTE CARE,OPEN,120,(614) 555-0200,NOT AVAILABLE,40.0325,-82.9855\n",
		"Mercy Health,200 High St,COLUMBUS,OH,43202,GENERAL ACUTE CARE,OPEN,120.0,(614) 555-0200,NOT AVAILABLE,40.03250,-82.9855\n",
		"Mercy Health,200 High St,COLUMBUS,OH,43202,GENERAL ACUTE CARE,OPEN,121,(614) 555-0200,NOT AVAILABLE,40.0325,-82.9855\n",
	}

	path := filepath.Join(t.TempDir(), "hospitals.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+rows[0]+rows[1]+rows[2]), 0o600))

	hospitals, err := NewFileStore("", path).LoadHospitals(context.Background())
	require.NoError(t, err)
	require.Len(t, hospitals, 2)
	assert.Equal(t, ptr(120), hospitals[0].Beds)
	assert.Equal(t, ptr(121), hospitals[1].Beds)
}
