// Package export renders computed results as a flat table for download and
// reads the table back.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gilby125/flight-emissions-api/emissions"
)

var tableHeader = []string{
	"row", "route", "trips", "leg",
	"origin", "destination",
	"distance_km", "classification", "factor", "emissions_kg",
}

// WriteRoutes writes one line per leg. Re-reading the table with ReadRoutes
// reproduces every route's totals exactly, so floats are written in their
// shortest lossless form.
func WriteRoutes(w io.Writer, results []emissions.RouteResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tableHeader); err != nil {
		return err
	}

	for _, result := range results {
		for i, leg := range result.Legs {
			record := []string{
				strconv.Itoa(result.Row),
				result.Route,
				strconv.Itoa(result.Trips),
				strconv.Itoa(i),
				leg.Origin,
				leg.Destination,
				formatFloat(leg.DistanceKm),
				string(leg.Classification),
				formatFloat(leg.Factor),
				formatFloat(leg.EmissionsKg),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadRoutes parses a table written by WriteRoutes and rebuilds the route
// results, totals included.
func ReadRoutes(r io.Reader) ([]emissions.RouteResult, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read export header: %w", err)
	}
	if len(header) != len(tableHeader) {
		return nil, fmt.Errorf("unexpected export header %v", header)
	}

	type routeRows struct {
		route string
		trips int
		legs  []emissions.LegResult
	}
	byRow := map[int]*routeRows{}
	var order []int

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		row, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("bad row number %q", record[0])
		}
		trips, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad trips %q", row, record[2])
		}
		leg, err := parseLeg(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		group, ok := byRow[row]
		if !ok {
			group = &routeRows{route: record[1], trips: trips}
			byRow[row] = group
			order = append(order, row)
		}
		group.legs = append(group.legs, leg)
	}

	results := make([]emissions.RouteResult, 0, len(order))
	for _, row := range order {
		group := byRow[row]
		results = append(results, emissions.AggregateRoute(row, group.route, group.trips, group.legs))
	}
	return results, nil
}

func parseLeg(record []string) (emissions.LegResult, error) {
	distance, err := strconv.ParseFloat(record[6], 64)
	if err != nil {
		return emissions.LegResult{}, fmt.Errorf("bad distance %q", record[6])
	}
	factor, err := strconv.ParseFloat(record[8], 64)
	if err != nil {
		return emissions.LegResult{}, fmt.Errorf("bad factor %q", record[8])
	}
	emitted, err := strconv.ParseFloat(record[9], 64)
	if err != nil {
		return emissions.LegResult{}, fmt.Errorf("bad emissions %q", record[9])
	}

	class := emissions.Classification(record[7])
	if class != emissions.Domestic && class != emissions.International {
		return emissions.LegResult{}, fmt.Errorf("bad classification %q", record[7])
	}

	return emissions.LegResult{
		Origin:         record[4],
		Destination:    record[5],
		DistanceKm:     distance,
		Classification: class,
		Factor:         factor,
		EmissionsKg:    emitted,
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
