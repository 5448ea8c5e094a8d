// Package emissions computes flight distances and CO2e emissions for
// single trips and bulk itineraries.
package emissions

import (
	"time"

	"github.com/gilby125/flight-emissions-api/registry"
)

// Classification of a leg under the home-country rule.
type Classification string

const (
	Domestic      Classification = "domestic"
	International Classification = "international"
)

// Leg is one resolved point-to-point segment.
type Leg struct {
	Origin      registry.Airport
	Destination registry.Airport
	Trips       int
}

// Route is one resolved input itinerary: a single leg or a chain of legs
// sharing one trip count.
type Route struct {
	Spec  string // canonical dash-separated code chain, e.g. "TRV-BLR-JFK"
	Trips int
	Legs  []Leg
}

// LegResult is the computed output for one leg. DistanceKm is the one-way
// great-circle distance; EmissionsKg already includes the trip count.
type LegResult struct {
	Origin         string         `json:"origin"`
	Destination    string         `json:"destination"`
	DistanceKm     float64        `json:"distance_km"`
	Classification Classification `json:"classification"`
	Factor         float64        `json:"factor"`
	EmissionsKg    float64        `json:"emissions_kg"`
}

// RouteResult aggregates the legs of one input row.
type RouteResult struct {
	Row                      int         `json:"row"`
	Route                    string      `json:"route"`
	Trips                    int         `json:"trips"`
	Legs                     []LegResult `json:"legs"`
	TotalDistanceKm          float64     `json:"total_distance_km"`
	TotalEmissionsKg         float64     `json:"total_emissions_kg"`
	DomesticDistanceKm       float64     `json:"domestic_distance_km"`
	DomesticEmissionsKg      float64     `json:"domestic_emissions_kg"`
	InternationalDistanceKm  float64     `json:"international_distance_km"`
	InternationalEmissionsKg float64     `json:"international_emissions_kg"`
}

// RowError records one input row that could not be processed. Row is the
// 1-based position of the row in the uploaded data, header excluded.
type RowError struct {
	Row    int    `json:"row"`
	Route  string `json:"route,omitempty"`
	Reason string `json:"reason"`
}

// RankedRoute is one entry of the emissions leaderboard.
type RankedRoute struct {
	Rank             int     `json:"rank"`
	Row              int     `json:"row"`
	Route            string  `json:"route"`
	Trips            int     `json:"trips"`
	TotalDistanceKm  float64 `json:"total_distance_km"`
	TotalEmissionsKg float64 `json:"total_emissions_kg"`
}

// BatchSummary aggregates a whole uploaded batch.
type BatchSummary struct {
	Rows                     int           `json:"rows"`
	Failed                   int           `json:"failed"`
	TotalTrips               int           `json:"total_trips"`
	TotalDistanceKm          float64       `json:"total_distance_km"`
	TotalEmissionsKg         float64       `json:"total_emissions_kg"`
	DomesticDistanceKm       float64       `json:"domestic_distance_km"`
	DomesticEmissionsKg      float64       `json:"domestic_emissions_kg"`
	InternationalDistanceKm  float64       `json:"international_distance_km"`
	InternationalEmissionsKg float64       `json:"international_emissions_kg"`
	TopRoutes                []RankedRoute `json:"top_routes"`

	// Highest-emissions route and what its emissions would be after a
	// hypothetical 10% reduction.
	HighestRoute       string  `json:"highest_route,omitempty"`
	HighestEmissionsKg float64 `json:"highest_emissions_kg"`
	ReducedEmissionsKg float64 `json:"reduced_emissions_kg"`
}

// BatchOutcome is the full result of processing one uploaded batch.
type BatchOutcome struct {
	Results []RouteResult `json:"results"`
	Errors  []RowError    `json:"errors"`
	Summary BatchSummary  `json:"summary"`
}

// BatchReport is a stored batch outcome, addressable by id.
type BatchReport struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	BatchOutcome
}
