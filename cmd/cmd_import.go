// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jcodagnone/hospitalfinder/refdata"
	"github.com/jcodagnone/hospitalfinder/utils/textutil"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Loads the CSV reference tables into the DuckDB database",
	Long: `Reads the cities and hospitals CSV files, drops exact duplicate rows and
replaces the contents of the DuckDB database at --db-path. Afterwards the
tables can be served with --store duckdb.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return importTables(cmd.Context(), refdata.NewFileStore(cfg.Data.Cities, cfg.Data.Hospitals), cfg.DBPath)
	},
}

func importTables(ctx context.Context, files *refdata.FileStore, dbPath string) error {
	cities, err := files.LoadCities(ctx)
	if err != nil {
		return err
	}

	hospitals, err := files.LoadHospitals(ctx)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	store := refdata.NewDuckDBStore(db)
	if err := store.CreateSchema(); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	if err := store.ReplaceCities(ctx, cities, progress("Importing cities", len(cities))); err != nil {
		return err
	}

	if err := store.ReplaceHospitals(ctx, hospitals, progress("Importing hospitals", len(hospitals))); err != nil {
		return err
	}

	nCities, nHospitals, err := store.Counts(ctx)
	if err != nil {
		return err
	}

	slog.Info("import finished",
		slog.String("db_path", dbPath),
		slog.String("cities", textutil.FormatInt(int64(nCities))),
		slog.String("hospitals", textutil.FormatInt(int64(nHospitals))),
	)

	return nil
}

// progress returns a per-row callback drawing a progress bar on stderr, or
// nil when stderr is not a terminal.
func progress(description string, n int) func() {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}

	bar := progressbar.NewOptions(n,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	return func() {
		_ = bar.Add(1)
	}
}

func init() {
	rootCmd.AddCommand(importCmd)
}
