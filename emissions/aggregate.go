package emissions

import "sort"

// ComputeRoute computes and aggregates every leg of a resolved route.
// row is the 1-based input row the route came from (0 for single lookups).
func (c *Classifier) ComputeRoute(row int, route Route) RouteResult {
	legs := make([]LegResult, len(route.Legs))
	for i, leg := range route.Legs {
		legs[i] = c.Compute(leg)
	}
	return AggregateRoute(row, route.Spec, route.Trips, legs)
}

// AggregateRoute sums leg results into a RouteResult. Distances are one-way
// sums; emissions already carry the trip count. Trips is the row's trip
// count, not multiplied by the number of legs.
func AggregateRoute(row int, route string, trips int, legs []LegResult) RouteResult {
	result := RouteResult{
		Row:   row,
		Route: route,
		Trips: trips,
		Legs:  legs,
	}
	for _, leg := range legs {
		result.TotalDistanceKm += leg.DistanceKm
		result.TotalEmissionsKg += leg.EmissionsKg
		if leg.Classification == Domestic {
			result.DomesticDistanceKm += leg.DistanceKm
			result.DomesticEmissionsKg += leg.EmissionsKg
		} else {
			result.InternationalDistanceKm += leg.DistanceKm
			result.InternationalEmissionsKg += leg.EmissionsKg
		}
	}
	return result
}

// RankRoutes orders routes by total emissions descending, ties broken by
// total distance descending, then by input row order. The sort is stable so
// identical inputs always produce identical rankings. At most topN entries
// are returned; topN < 1 means no limit.
func RankRoutes(results []RouteResult, topN int) []RankedRoute {
	ordered := make([]RouteResult, len(results))
	copy(ordered, results)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].TotalEmissionsKg != ordered[j].TotalEmissionsKg {
			return ordered[i].TotalEmissionsKg > ordered[j].TotalEmissionsKg
		}
		if ordered[i].TotalDistanceKm != ordered[j].TotalDistanceKm {
			return ordered[i].TotalDistanceKm > ordered[j].TotalDistanceKm
		}
		return ordered[i].Row < ordered[j].Row
	})

	if topN > 0 && len(ordered) > topN {
		ordered = ordered[:topN]
	}

	ranked := make([]RankedRoute, len(ordered))
	for i, r := range ordered {
		ranked[i] = RankedRoute{
			Rank:             i + 1,
			Row:              r.Row,
			Route:            r.Route,
			Trips:            r.Trips,
			TotalDistanceKm:  r.TotalDistanceKm,
			TotalEmissionsKg: r.TotalEmissionsKg,
		}
	}
	return ranked
}

// AggregateBatch sums successful rows into a batch summary. Failed rows are
// counted but contribute nothing to the totals.
func AggregateBatch(results []RouteResult, rowErrors []RowError, topN int) BatchSummary {
	summary := BatchSummary{
		Rows:   len(results) + len(rowErrors),
		Failed: len(rowErrors),
	}

	for _, r := range results {
		summary.TotalTrips += r.Trips
		summary.TotalDistanceKm += r.TotalDistanceKm
		summary.TotalEmissionsKg += r.TotalEmissionsKg
		summary.DomesticDistanceKm += r.DomesticDistanceKm
		summary.DomesticEmissionsKg += r.DomesticEmissionsKg
		summary.InternationalDistanceKm += r.InternationalDistanceKm
		summary.InternationalEmissionsKg += r.InternationalEmissionsKg
	}

	summary.TopRoutes = RankRoutes(results, topN)
	if len(summary.TopRoutes) > 0 {
		top := summary.TopRoutes[0]
		summary.HighestRoute = top.Route
		summary.HighestEmissionsKg = top.TotalEmissionsKg
		summary.ReducedEmissionsKg = top.TotalEmissionsKg * 0.9
	}

	return summary
}
