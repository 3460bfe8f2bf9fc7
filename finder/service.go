// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package finder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jcodagnone/hospitalfinder/refdata"
	"github.com/jcodagnone/hospitalfinder/spatial"
	"github.com/jcodagnone/hospitalfinder/utils/textutil"
)

const (
	// DefaultRadiusMiles is used when the request carries no radius at all.
	DefaultRadiusMiles = 0
	// FallbackRadiusMiles replaces a radius that could not be understood.
	FallbackRadiusMiles = 10

	// InvalidRadiusWarning is reported when FallbackRadiusMiles was used.
	InvalidRadiusWarning = "Invalid radius value. Using default of 10 miles."
)

// DefaultCenter is the map center shown before any city was found.
var DefaultCenter = spatial.Point{Lat: 39.0, Lng: -98.0}

// Query is one search request.
type Query struct {
	CityName string
	// State optionally narrows the city lookup to a state name.
	State       string
	RadiusMiles float64
	// RadiusRecovered is set when the submitted radius was replaced by
	// FallbackRadiusMiles.
	RadiusRecovered bool
}

// ParseRadius interprets the submitted radius. A missing value yields
// DefaultRadiusMiles. A present value that is not a non-negative number
// yields FallbackRadiusMiles and recovered == true.
func ParseRadius(value string, present bool) (radius float64, recovered bool) {
	if !present {
		return DefaultRadiusMiles, false
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || f < 0 {
		return FallbackRadiusMiles, true
	}

	return f, false
}

// NewQuery builds a Query from raw request values.
func NewQuery(city, state, radius string, radiusPresent bool) Query {
	r, recovered := ParseRadius(radius, radiusPresent)

	return Query{
		CityName:        city,
		State:           state,
		RadiusMiles:     r,
		RadiusRecovered: recovered,
	}
}

// FormatRadius renders the radius the way messages show it: the fallback
// reads "10", a submitted radius of 5 reads "5.0".
func (q Query) FormatRadius() string {
	if q.RadiusRecovered {
		return strconv.Itoa(FallbackRadiusMiles)
	}

	return textutil.FormatFloat(q.RadiusMiles)
}

// Outcome classifies a finished search.
type Outcome string

const (
	OutcomeFound    Outcome = "found"
	OutcomeEmpty    Outcome = "empty"
	OutcomeNotFound Outcome = "not_found"
	OutcomeError    Outcome = "error"
)

// Result is the answer to a Query.
type Result struct {
	Query Query
	// Location is nil when the city was not found.
	Location *refdata.City
	// Center is the resolved city, or DefaultCenter.
	Center    spatial.Point
	Hospitals []Match
	// Candidates lists every city with the requested name when there is more
	// than one, or accent-insensitive suggestions when there is none.
	Candidates []refdata.City
	// Message explains a missing city or an empty result.
	Message string
	Warning string
	Outcome Outcome
}

// Observer is notified once per search.
type Observer interface {
	ObserveSearch(outcome Outcome, elapsed time.Duration, results int)
}

// Service runs searches against a Store.
type Service struct {
	store    refdata.Store
	engine   spatial.Engine
	observer Observer
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithEngine selects the spatial index used by searches.
func WithEngine(engine spatial.Engine) Option {
	return func(s *Service) {
		s.engine = engine
	}
}

// WithObserver registers o to be notified of every search.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		s.observer = o
	}
}

// WithLogger replaces slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a Service.
func NewService(store refdata.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		engine: spatial.EngineRTree,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Search resolves the city and returns the hospitals within the radius. A
// missing city or an empty result is reported through Result.Message; the
// returned error is reserved for failures such as unreadable tables.
func (s *Service) Search(ctx context.Context, q Query) (*Result, error) {
	start := time.Now()

	res, err := s.search(ctx, q)

	outcome, n := OutcomeError, 0
	if err == nil {
		outcome, n = res.Outcome, len(res.Hospitals)
	}

	if s.observer != nil {
		s.observer.ObserveSearch(outcome, time.Since(start), n)
	}

	attrs := []any{
		slog.String("city", q.CityName),
		slog.String("radius_miles", q.FormatRadius()),
		slog.String("outcome", string(outcome)),
		slog.Int("results", n),
		slog.Duration("elapsed", time.Since(start)),
	}
	if q.State != "" {
		attrs = append(attrs, slog.String("state", q.State))
	}

	if err != nil {
		s.logger.ErrorContext(ctx, "search failed", append(attrs, slog.Any("error", err))...)

		return nil, err
	}

	s.logger.InfoContext(ctx, "search", attrs...)

	return res, nil
}

func (s *Service) search(ctx context.Context, q Query) (*Result, error) {
	res := &Result{Query: q, Center: DefaultCenter}
	if q.RadiusRecovered {
		res.Warning = InvalidRadiusWarning
	}

	cities, err := s.store.LoadCities(ctx)
	if err != nil {
		return nil, err
	}

	city, err := ResolveCityInState(q.CityName, q.State, cities)
	if errors.Is(err, ErrCityNotFound) {
		name := strings.ToLower(strings.TrimSpace(q.CityName))

		res.Outcome = OutcomeNotFound
		res.Message = fmt.Sprintf("City '%s' not found in database.", name)

		res.Candidates = Candidates(q.CityName, cities)
		if len(res.Candidates) > 0 {
			// only the state qualifier ruled them out
			res.Message = fmt.Sprintf("City '%s' not found in %s.", name, strings.TrimSpace(q.State))
		} else {
			res.Candidates = Suggestions(q.CityName, cities)
		}

		return res, nil
	}

	if err != nil {
		return nil, err
	}

	res.Location = &city
	res.Center = city.Point()

	if candidates := Candidates(q.CityName, cities); len(candidates) > 1 {
		res.Candidates = candidates
	}

	hospitals, err := s.store.LoadHospitals(ctx)
	if err != nil {
		return nil, err
	}

	nearby, err := FindWithinRadius(res.Center, q.RadiusMiles, hospitals, s.engine)
	if err != nil {
		return nil, err
	}

	res.Hospitals = EnrichAndSort(res.Center, nearby)
	if len(res.Hospitals) == 0 {
		res.Outcome = OutcomeEmpty
		res.Message = fmt.Sprintf("No hospitals found within %s miles of %s, %s.", q.FormatRadius(), city.Name, city.State)
	} else {
		res.Outcome = OutcomeFound
	}

	return res, nil
}

// Cities returns the distinct city names, sorted.
func (s *Service) Cities(ctx context.Context) ([]string, error) {
	cities, err := s.store.LoadCities(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(cities))
	for i, c := range cities {
		names[i] = c.Name
	}

	slices.Sort(names)

	return slices.Compact(names), nil
}
