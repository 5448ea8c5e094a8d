package emissions

import (
	"strings"

	"github.com/gilby125/flight-emissions-api/config"
	"github.com/gilby125/flight-emissions-api/pkg/geo"
	"github.com/gilby125/flight-emissions-api/registry"
)

// Classifier applies the domestic/international rule and the configured
// emission factors. It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	cfg config.EmissionsConfig
}

// NewClassifier creates a classifier from configuration. Zero factors fall
// back to the stock values so a partially filled config stays usable.
func NewClassifier(cfg config.EmissionsConfig) *Classifier {
	defaults := config.DefaultEmissionsConfig()
	if cfg.HomeCountry == "" {
		cfg.HomeCountry = defaults.HomeCountry
	}
	cfg.HomeCountry = strings.ToUpper(cfg.HomeCountry)
	if cfg.DomesticFactor <= 0 {
		cfg.DomesticFactor = defaults.DomesticFactor
	}
	if cfg.InternationalFactor <= 0 {
		cfg.InternationalFactor = defaults.InternationalFactor
	}
	return &Classifier{cfg: cfg}
}

// Classify decides the class of a leg: domestic when both endpoints are in
// the configured home country, international otherwise. Country codes are
// compared case-insensitively; registry sources uppercase them, but ad-hoc
// airports built by callers may not.
func (c *Classifier) Classify(origin, destination registry.Airport) Classification {
	if strings.EqualFold(origin.Country, c.cfg.HomeCountry) &&
		strings.EqualFold(destination.Country, c.cfg.HomeCountry) {
		return Domestic
	}
	return International
}

// Factor returns the emission factor in kg CO2e per km for a classification.
func (c *Classifier) Factor(class Classification) float64 {
	if class == Domestic {
		return c.cfg.DomesticFactor
	}
	return c.cfg.InternationalFactor
}

// EmissionsFor computes kg CO2e for a leg distance flown trips times.
// Inputs are assumed already validated non-negative.
func (c *Classifier) EmissionsFor(distanceKm float64, class Classification, trips int) float64 {
	return distanceKm * c.Factor(class) * float64(trips)
}

// Compute produces the full result for one leg.
func (c *Classifier) Compute(leg Leg) LegResult {
	distance := geo.DistanceBetween(leg.Origin.Coordinates(), leg.Destination.Coordinates())
	class := c.Classify(leg.Origin, leg.Destination)
	return LegResult{
		Origin:         leg.Origin.Code,
		Destination:    leg.Destination.Code,
		DistanceKm:     distance,
		Classification: class,
		Factor:         c.Factor(class),
		EmissionsKg:    c.EmissionsFor(distance, class, leg.Trips),
	}
}
