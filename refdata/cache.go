// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package refdata

import (
	"context"
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	citiesKey    = "cities"
	hospitalsKey = "hospitals"
)

// CachedStore keeps the parsed tables of a FileStore in memory. Every call
// stats the backing file and reloads it when its modification time or size
// changed, so callers always see the latest file contents. Entries also
// expire after the configured TTL; a TTL <= 0 keeps them until the file
// changes.
type CachedStore struct {
	files *FileStore
	cache *gocache.Cache
}

type cachedTable[T any] struct {
	modTime time.Time
	size    int64
	rows    []T
}

// NewCachedStore wraps files with a table cache.
func NewCachedStore(files *FileStore, ttl time.Duration) *CachedStore {
	expiration, cleanup := ttl, 2*ttl
	if ttl <= 0 {
		expiration, cleanup = gocache.NoExpiration, 0
	}

	return &CachedStore{
		files: files,
		cache: gocache.New(expiration, cleanup),
	}
}

// LoadCities implements Store.
func (s *CachedStore) LoadCities(ctx context.Context) ([]City, error) {
	return loadCached(ctx, s.cache, citiesKey, s.files.CitiesPath, s.files.LoadCities)
}

// LoadHospitals implements Store.
func (s *CachedStore) LoadHospitals(ctx context.Context) ([]Hospital, error) {
	return loadCached(ctx, s.cache, hospitalsKey, s.files.HospitalsPath, s.files.LoadHospitals)
}

// Flush drops every cached table.
func (s *CachedStore) Flush() {
	s.cache.Flush()
}

func loadCached[T any](
	ctx context.Context,
	cache *gocache.Cache,
	key, path string,
	load func(context.Context) ([]T, error),
) ([]T, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &DataLoadError{Table: key, Path: path, Err: err}
	}

	if v, ok := cache.Get(key); ok {
		if t, ok := v.(*cachedTable[T]); ok && t.modTime.Equal(info.ModTime()) && t.size == info.Size() {
			return t.rows, nil
		}
	}

	rows, err := load(ctx)
	if err != nil {
		return nil, err
	}

	cache.Set(key, &cachedTable[T]{
		modTime: info.ModTime(),
		size:    info.Size(),
		rows:    rows,
	}, gocache.DefaultExpiration)

	return rows, nil
}
