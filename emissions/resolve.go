package emissions

import (
	"strings"

	"github.com/gilby125/flight-emissions-api/registry"
)

// Separator between airport codes in a multi-leg route specification.
const Separator = "-"

// Resolver turns raw route specifications into ordered legs with endpoints
// resolved against the airport registry.
type Resolver struct {
	registry *registry.Registry
}

// NewResolver creates a resolver backed by reg.
func NewResolver(reg *registry.Registry) *Resolver {
	return &Resolver{registry: reg}
}

// SplitRoute splits a dash-separated route specification into normalized
// airport codes. A chain of N codes describes N-1 legs.
func SplitRoute(input string) ([]string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, &InvalidRouteError{Input: input, Reason: "route is empty"}
	}

	parts := strings.Split(trimmed, Separator)
	codes := make([]string, 0, len(parts))
	for _, part := range parts {
		code := registry.NormalizeCode(part)
		if code == "" {
			return nil, &InvalidRouteError{Input: input, Reason: "empty segment"}
		}
		codes = append(codes, code)
	}

	if len(codes) < 2 {
		return nil, &InvalidRouteError{Input: input, Reason: "route needs at least two codes"}
	}
	return codes, nil
}

// Resolve parses a route specification and resolves every endpoint.
// Resolution is atomic: one unknown code fails the whole route and no legs
// are returned.
func (r *Resolver) Resolve(input string, trips int) (Route, error) {
	codes, err := SplitRoute(input)
	if err != nil {
		return Route{}, err
	}
	return r.resolveCodes(codes, trips)
}

// ResolvePair resolves a single origin/destination pair.
func (r *Resolver) ResolvePair(from, to string, trips int) (Route, error) {
	origin := registry.NormalizeCode(from)
	destination := registry.NormalizeCode(to)
	if origin == "" || destination == "" {
		return Route{}, &InvalidRouteError{
			Input:  origin + Separator + destination,
			Reason: "origin and destination are required",
		}
	}
	return r.resolveCodes([]string{origin, destination}, trips)
}

func (r *Resolver) resolveCodes(codes []string, trips int) (Route, error) {
	spec := strings.Join(codes, Separator)
	if trips < 1 {
		return Route{}, &InvalidRouteError{Input: spec, Reason: "trips must be a positive integer"}
	}

	airports := make([]registry.Airport, len(codes))
	for i, code := range codes {
		airport, err := r.registry.Lookup(code)
		if err != nil {
			legIndex := i - 1
			if legIndex < 0 {
				legIndex = 0
			}
			return Route{}, &LegError{Leg: legIndex, Code: code, Err: err}
		}
		airports[i] = airport
	}

	legs := make([]Leg, len(codes)-1)
	for i := range legs {
		legs[i] = Leg{Origin: airports[i], Destination: airports[i+1], Trips: trips}
	}

	return Route{Spec: spec, Trips: trips, Legs: legs}, nil
}
