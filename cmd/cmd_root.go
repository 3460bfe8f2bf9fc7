// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/jcodagnone/hospitalfinder/config"
	"github.com/jcodagnone/hospitalfinder/refdata"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const logTimeFormat = "2006-01-02 15:04:05"

var (
	settings   = config.New()
	configFile string
	cfg        *config.Config
)

func newLogger(w io.Writer, level slog.Level, color bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: logTimeFormat,
		NoColor:    !color,
	}))
}

var rootCmd = &cobra.Command{
	Use:   "hospitals",
	Short: "find hospitals near a US city",
	Long: `
hospitals looks up the hospitals within a radius of a city, sorted by distance,
with driving directions and map links. It serves a search form, answers single
queries from the command line, and can load the reference tables into DuckDB.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := config.LoadDotenv(); err != nil {
			return err
		}

		loaded, err := config.Load(settings, configFile)
		if err != nil {
			return err
		}

		level, _ := loaded.LogLevel()
		slog.SetDefault(newLogger(os.Stderr, level, isatty.IsTerminal(os.Stderr.Fd())))

		cfg = loaded

		return nil
	},
}

var Version = "dev"

func Execute(version string) {
	Version = version
	rootCmd.Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// openStore returns the configured reference data store and a function
// releasing it.
func openStore(c *config.Config, cached bool) (refdata.Store, func() error, error) {
	switch c.Store {
	case config.StoreDuckDB:
		db, err := sql.Open("duckdb", c.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}

		return refdata.NewDuckDBStore(db), db.Close, nil
	default:
		files := refdata.NewFileStore(c.Data.Cities, c.Data.Hospitals)
		if cached {
			return refdata.NewCachedStore(files, c.Cache.TTL), func() error { return nil }, nil
		}

		return files, func() error { return nil }, nil
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "configuration file (default ./hospitals.yaml when present)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("cities", refdata.DefaultCitiesFile, "cities CSV file")
	flags.String("hospitals", refdata.DefaultHospitalsFile, "hospitals CSV file")
	flags.String("store", config.StoreCSV, "reference data store: csv or duckdb")
	flags.String("db-path", "hospitals.duckdb", "DuckDB database file")
	flags.String("engine", "rtree", "spatial index: rtree or h3")

	for key, flag := range map[string]string{
		"log.level":      "log-level",
		"data.cities":    "cities",
		"data.hospitals": "hospitals",
		"store":          "store",
		"db_path":        "db-path",
		"engine":         "engine",
	} {
		cobra.CheckErr(settings.BindPFlag(key, flags.Lookup(flag)))
	}
}
