// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"encoding/json"
	"math"

	"github.com/jcodagnone/hospitalfinder/finder"
	"github.com/jcodagnone/hospitalfinder/refdata"
	"github.com/jcodagnone/hospitalfinder/utils/textutil"
)

// Location is the searched city as shown on the page.
type Location struct {
	City       string  `json:"City"`
	State      string  `json:"State"`
	County     string  `json:"County"`
	Population int64   `json:"Population"`
	Latitude   float64 `json:"Latitude"`
	Longitude  float64 `json:"Longitude"`
}

// HospitalRecord is one row of the results table.
type HospitalRecord struct {
	Name          string  `json:"Name"`
	Address       string  `json:"Address"`
	City          string  `json:"City"`
	State         string  `json:"State"`
	ZIP           string  `json:"ZIP"`
	Type          string  `json:"Type"`
	Status        string  `json:"Status"`
	Beds          *int64  `json:"Beds"`
	Phone         string  `json:"Phone"`
	Website       string  `json:"Website"`
	Latitude      float64 `json:"Latitude"`
	Longitude     float64 `json:"Longitude"`
	DistanceMiles float64 `json:"Distance_miles"`
	RouteURL      string  `json:"Route_URL"`
	GoogleMapsURL string  `json:"Google_Maps_URL"`
}

// Radius is a radius in miles. Infinite radii are legal queries but have no
// JSON number form, so they encode as the string "inf".
type Radius float64

// MarshalJSON implements json.Marshaler.
func (r Radius) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(r), 0) {
		return json.Marshal(textutil.FormatFloat(float64(r)))
	}

	return json.Marshal(float64(r))
}

// String renders the radius for the form.
func (r Radius) String() string {
	return textutil.FormatFloat(float64(r))
}

// Page is the model behind the search page and /api/search.
type Page struct {
	Location         string           `json:"location"`
	State            string           `json:"state"`
	SearchedLocation *Location        `json:"searched_location"`
	NearbyHospitals  []HospitalRecord `json:"nearby_hospitals"`
	// Candidates holds the other cities sharing the searched name, or
	// suggestions when no city was found.
	Candidates       []Location       `json:"candidates"`
	Error            string           `json:"error,omitempty"`
	Warning          string           `json:"warning,omitempty"`
	CenterLat        float64          `json:"center_lat"`
	CenterLon        float64          `json:"center_lon"`
	AllCities        []string         `json:"all_cities"`
	RadiusMiles      Radius           `json:"radius_miles"`
	DefaultRadius    Radius           `json:"default_radius"`
}

func newPage(cities []string) *Page {
	return &Page{
		NearbyHospitals: []HospitalRecord{},
		Candidates:      []Location{},
		CenterLat:       finder.DefaultCenter.Lat,
		CenterLon:       finder.DefaultCenter.Lng,
		AllCities:       cities,
		RadiusMiles:     finder.DefaultRadiusMiles,
		DefaultRadius:   finder.DefaultRadiusMiles,
	}
}

func newLocation(c refdata.City) Location {
	return Location{
		City:       c.Name,
		State:      c.State,
		County:     c.County,
		Population: c.Population,
		Latitude:   c.Latitude,
		Longitude:  c.Longitude,
	}
}

// fill copies a search result into the page.
func (p *Page) fill(res *finder.Result) {
	p.Location = res.Query.CityName
	p.State = res.Query.State
	p.RadiusMiles = Radius(res.Query.RadiusMiles)
	p.CenterLat, p.CenterLon = res.Center.Lat, res.Center.Lng
	p.Error = res.Message
	p.Warning = res.Warning

	if res.Location != nil {
		loc := newLocation(*res.Location)
		p.SearchedLocation = &loc
	}

	for _, c := range res.Candidates {
		if res.Location != nil && c == *res.Location {
			continue
		}

		p.Candidates = append(p.Candidates, newLocation(c))
	}

	for _, m := range res.Hospitals {
		h := m.Hospital
		p.NearbyHospitals = append(p.NearbyHospitals, HospitalRecord{
			Name:          h.Name,
			Address:       h.Address,
			City:          h.City,
			State:         h.State,
			ZIP:           h.ZIP,
			Type:          h.Type,
			Status:        h.Status,
			Beds:          h.Beds,
			Phone:         h.Phone,
			Website:       h.Website,
			Latitude:      h.Latitude,
			Longitude:     h.Longitude,
			DistanceMiles: m.DistanceMiles,
			RouteURL:      m.RouteURL,
			GoogleMapsURL: m.MapURL,
		})
	}
}
