// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package refdata

import (
	"context"
	"database/sql"
	"fmt"
)

// DuckDBStore keeps the reference tables in a DuckDB database. The tables
// are filled by ReplaceCities and ReplaceHospitals, usually from a FileStore.
type DuckDBStore struct {
	db *sql.DB
}

// NewDuckDBStore creates a store over an open "duckdb" database handle.
func NewDuckDBStore(db *sql.DB) *DuckDBStore {
	return &DuckDBStore{db: db}
}

// DB returns the underlying database connection.
func (s *DuckDBStore) DB() *sql.DB {
	return s.db
}

// CreateSchema creates the cities and hospitals tables if needed.
func (s *DuckDBStore) CreateSchema() error {
	_, err := s.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS cities_seq START 1;

		CREATE TABLE IF NOT EXISTS cities (
			id INTEGER PRIMARY KEY DEFAULT nextval('cities_seq'),
			name VARCHAR NOT NULL,
			state VARCHAR NOT NULL,
			county VARCHAR NOT NULL,
			population BIGINT NOT NULL,
			lat DOUBLE NOT NULL,
			lng DOUBLE NOT NULL
		);

		CREATE SEQUENCE IF NOT EXISTS hospitals_seq START 1;

		CREATE TABLE IF NOT EXISTS hospitals (
			id INTEGER PRIMARY KEY DEFAULT nextval('hospitals_seq'),
			name VARCHAR NOT NULL,
			address VARCHAR NOT NULL,
			city VARCHAR NOT NULL,
			state VARCHAR NOT NULL,
			zip VARCHAR NOT NULL,
			type VARCHAR NOT NULL,
			status VARCHAR NOT NULL,
			beds BIGINT,
			phone VARCHAR NOT NULL,
			website VARCHAR NOT NULL,
			lat DOUBLE NOT NULL,
			lng DOUBLE NOT NULL
		);
	`)

	return err
}

// ReplaceCities swaps the contents of the cities table. progress, when not
// nil, is called after each inserted row.
func (s *DuckDBStore) ReplaceCities(ctx context.Context, cities []City, progress func()) error {
	return s.replace(ctx, "cities",
		`INSERT INTO cities (name, state, county, population, lat, lng) VALUES (?, ?, ?, ?, ?, ?)`,
		len(cities),
		func(stmt *sql.Stmt, i int) error {
			c := cities[i]
			_, err := stmt.ExecContext(ctx, c.Name, c.State, c.County, c.Population, c.Latitude, c.Longitude)

			return err
		},
		progress,
	)
}

// ReplaceHospitals swaps the contents of the hospitals table. progress, when
// not nil, is called after each inserted row.
func (s *DuckDBStore) ReplaceHospitals(ctx context.Context, hospitals []Hospital, progress func()) error {
	return s.replace(ctx, "hospitals",
		`INSERT INTO hospitals (name, address, city, state, zip, type, status, beds, phone, website, lat, lng)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(hospitals),
		func(stmt *sql.Stmt, i int) error {
			h := hospitals[i]

			var beds any
			if h.Beds != nil {
				beds = *h.Beds
			}

			_, err := stmt.ExecContext(ctx,
				h.Name, h.Address, h.City, h.State, h.ZIP, h.Type, h.Status,
				beds, h.Phone, h.Website, h.Latitude, h.Longitude,
			)

			return err
		},
		progress,
	)
}

func (s *DuckDBStore) replace(
	ctx context.Context,
	table, insert string,
	n int,
	exec func(*sql.Stmt, int) error,
	progress func(),
) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clearing %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("preparing %s insert: %w", table, err)
	}
	defer stmt.Close()

	for i := range n {
		if err = exec(stmt, i); err != nil {
			return fmt.Errorf("inserting into %s: %w", table, err)
		}

		if progress != nil {
			progress()
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing %s: %w", table, err)
	}

	return nil
}

// Counts returns the number of rows of each table.
func (s *DuckDBStore) Counts(ctx context.Context) (int, int, error) {
	var cities, hospitals int

	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT count(*) FROM cities),
			(SELECT count(*) FROM hospitals)
	`).Scan(&cities, &hospitals)
	if err != nil {
		return 0, 0, fmt.Errorf("counting rows: %w", err)
	}

	return cities, hospitals, nil
}

// LoadCities implements Store.
func (s *DuckDBStore) LoadCities(ctx context.Context) ([]City, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, state, county, population, lat, lng
		FROM cities
		QUALIFY row_number() OVER (
			PARTITION BY name, state, county, population, lat, lng ORDER BY id
		) = 1
		ORDER BY id
	`)
	if err != nil {
		return nil, &DataLoadError{Table: "cities", Err: err}
	}
	defer rows.Close()

	var cities []City

	for rows.Next() {
		var c City
		if err := rows.Scan(&c.Name, &c.State, &c.County, &c.Population, &c.Latitude, &c.Longitude); err != nil {
			return nil, &DataLoadError{Table: "cities", Err: err}
		}

		cities = append(cities, c)
	}

	if err := rows.Err(); err != nil {
		return nil, &DataLoadError{Table: "cities", Err: err}
	}

	return cities, nil
}

// LoadHospitals implements Store.
func (s *DuckDBStore) LoadHospitals(ctx context.Context) ([]Hospital, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, address, city, state, zip, type, status, beds, phone, website, lat, lng
		FROM hospitals
		QUALIFY row_number() OVER (
			PARTITION BY name, address, city, state, zip, type, status, beds, phone, website, lat, lng
			ORDER BY id
		) = 1
		ORDER BY id
	`)
	if err != nil {
		return nil, &DataLoadError{Table: "hospitals", Err: err}
	}
	defer rows.Close()

	var hospitals []Hospital

	for rows.Next() {
		var (
			h    Hospital
			beds sql.NullInt64
		)

		if err := rows.Scan(
			&h.Name, &h.Address, &h.City, &h.State, &h.ZIP, &h.Type, &h.Status,
			&beds, &h.Phone, &h.Website, &h.Latitude, &h.Longitude,
		); err != nil {
			return nil, &DataLoadError{Table: "hospitals", Err: err}
		}

		if beds.Valid {
			h.Beds = &beds.Int64
		}

		hospitals = append(hospitals, h)
	}

	if err := rows.Err(); err != nil {
		return nil, &DataLoadError{Table: "hospitals", Err: err}
	}

	return hospitals, nil
}
