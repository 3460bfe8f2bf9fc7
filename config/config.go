// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package config reads the settings shared by every command from flags,
// HOSPITALS_* environment variables, an optional hospitals.yaml file and a
// .env file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/jcodagnone/hospitalfinder/refdata"
	"github.com/jcodagnone/hospitalfinder/spatial"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "HOSPITALS"

	StoreCSV    = "csv"
	StoreDuckDB = "duckdb"
)

type Config struct {
	Data struct {
		Cities    string `mapstructure:"cities"`
		Hospitals string `mapstructure:"hospitals"`
	} `mapstructure:"data"`
	Store  string `mapstructure:"store"`
	DBPath string `mapstructure:"db_path"`
	Engine string `mapstructure:"engine"`
	Cache  struct {
		Enabled bool          `mapstructure:"enabled"`
		TTL     time.Duration `mapstructure:"ttl"`
	} `mapstructure:"cache"`
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// New returns a viper instance with the defaults and the environment
// bindings in place. Flags are bound by the caller.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("data.cities", refdata.DefaultCitiesFile)
	v.SetDefault("data.hospitals", refdata.DefaultHospitalsFile)
	v.SetDefault("store", StoreCSV)
	v.SetDefault("db_path", "hospitals.duckdb")
	v.SetDefault("engine", string(spatial.EngineRTree))
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("server.addr", "0.0.0.0:5000")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// LoadDotenv loads variables from the given .env files (".env" when none is
// given) without overriding the ones already set. Missing files are ignored.
func LoadDotenv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}

	return nil
}

// Load reads file, or hospitals.yaml from the working directory when file is
// empty and such a file exists, and decodes the merged settings.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		v.SetConfigName("hospitals")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings no component understands.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreCSV, StoreDuckDB:
	default:
		return fmt.Errorf("invalid store %q (expected %q or %q)", c.Store, StoreCSV, StoreDuckDB)
	}

	if _, err := spatial.ParseEngine(c.Engine); err != nil {
		return err
	}

	if c.Store == StoreDuckDB && c.DBPath == "" {
		return errors.New("db_path is required for the duckdb store")
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("invalid cache.ttl %s", c.Cache.TTL)
	}

	return nil
}

// SpatialEngine returns the configured index engine.
func (c *Config) SpatialEngine() spatial.Engine {
	engine, _ := spatial.ParseEngine(c.Engine)

	return engine
}

// LogLevel parses log.level ("debug", "info", "warn", "error").
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}

	return level, nil
}
