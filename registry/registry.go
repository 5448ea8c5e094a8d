// Package registry loads and indexes the airport reference table.
//
// The table is loaded exactly once at process start and never mutated
// afterwards, so a Registry is safe for concurrent lookups without locking.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gilby125/flight-emissions-api/pkg/geo"
)

// Airport is one row of the reference table.
type Airport struct {
	Code      string  `json:"code"`
	Name      string  `json:"name,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
}

// Coordinates returns the airport position as a geo point.
func (a Airport) Coordinates() geo.Coordinates {
	return geo.Coordinates{Lat: a.Latitude, Lon: a.Longitude}
}

// Registry is an immutable airport code index.
type Registry struct {
	airports map[string]Airport
}

// NormalizeCode trims surrounding whitespace and uppercases an airport code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup returns the airport for a code. Matching is case-insensitive and
// ignores surrounding whitespace. Returns an UnknownAirportError when the
// code is not in the registry.
func (r *Registry) Lookup(code string) (Airport, error) {
	normalized := NormalizeCode(code)
	airport, ok := r.airports[normalized]
	if !ok {
		return Airport{}, &UnknownAirportError{Code: normalized}
	}
	return airport, nil
}

// Len returns the number of airports in the registry.
func (r *Registry) Len() int {
	return len(r.airports)
}

// Airports returns all airports ordered by code. When country is non-empty
// only airports in that country are returned.
func (r *Registry) Airports(country string) []Airport {
	country = strings.ToUpper(strings.TrimSpace(country))
	out := make([]Airport, 0, len(r.airports))
	for _, airport := range r.airports {
		if country != "" && airport.Country != country {
			continue
		}
		out = append(out, airport)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// DataLoadError reports a missing or malformed reference table. It is fatal:
// nothing can be computed without the registry.
type DataLoadError struct {
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load airport registry from %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// UnknownAirportError reports a code that is not in the registry.
type UnknownAirportError struct {
	Code string
}

func (e *UnknownAirportError) Error() string {
	return fmt.Sprintf("unknown airport code %q", e.Code)
}
