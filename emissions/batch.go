package emissions

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/gilby125/flight-emissions-api/config"
	"github.com/gilby125/flight-emissions-api/registry"
)

// ErrBadTemplate is returned when an uploaded table matches neither batch
// template: it must carry either a "route" column or "from" and "to" columns.
var ErrBadTemplate = errors.New("input must contain a 'route' column or 'from' and 'to' columns")

// ErrNoRows is returned when an uploaded table has a header but no data rows.
var ErrNoRows = errors.New("input has no data rows")

// Row is one parsed input row, before resolution. Pair marks rows from a
// from/to template; otherwise Route holds a dash-separated chain. Trips of 0
// means the cell was absent and defaults to 1.
type Row struct {
	Index int
	From  string
	To    string
	Route string
	Trips int
	Pair  bool
}

// Processor runs the full pipeline: leg resolution, classification,
// per-route and batch aggregation. It is immutable after construction and
// safe for concurrent requests.
type Processor struct {
	resolver   *Resolver
	classifier *Classifier
	topN       int
}

// NewProcessor wires a processor from the registry and emissions config.
func NewProcessor(reg *registry.Registry, cfg config.EmissionsConfig) *Processor {
	topN := cfg.TopRoutes
	if topN < 1 {
		topN = config.DefaultEmissionsConfig().TopRoutes
	}
	return &Processor{
		resolver:   NewResolver(reg),
		classifier: NewClassifier(cfg),
		topN:       topN,
	}
}

// Pair computes the result for a single origin/destination lookup.
func (p *Processor) Pair(from, to string, trips int) (RouteResult, error) {
	route, err := p.resolver.ResolvePair(from, to, trips)
	if err != nil {
		return RouteResult{}, err
	}
	return p.classifier.ComputeRoute(0, route), nil
}

// RouteString computes the result for a dash-separated route specification.
func (p *Processor) RouteString(spec string, trips int) (RouteResult, error) {
	route, err := p.resolver.Resolve(spec, trips)
	if err != nil {
		return RouteResult{}, err
	}
	return p.classifier.ComputeRoute(0, route), nil
}

// Batch processes parsed rows one by one. A failed row is recorded and
// skipped; it never aborts the rest of the batch.
func (p *Processor) Batch(rows []Row) BatchOutcome {
	results := make([]RouteResult, 0, len(rows))
	rowErrors := []RowError{}

	for _, row := range rows {
		trips := row.Trips
		if trips == 0 {
			trips = 1
		}

		var (
			route Route
			err   error
			spec  string
		)
		if row.Pair {
			spec = strings.TrimSpace(row.From) + Separator + strings.TrimSpace(row.To)
			route, err = p.resolver.ResolvePair(row.From, row.To, trips)
		} else {
			spec = row.Route
			route, err = p.resolver.Resolve(row.Route, trips)
		}
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: row.Index, Route: spec, Reason: err.Error()})
			continue
		}

		results = append(results, p.classifier.ComputeRoute(row.Index, route))
	}

	return BatchOutcome{
		Results: results,
		Errors:  rowErrors,
		Summary: AggregateBatch(results, rowErrors, p.topN),
	}
}

// ProcessRecords parses raw table records (header first) and processes them.
// The header decides the template for the whole file: a "route" column means
// dash-separated chains, "from"/"to" columns mean single pairs. A "trips"
// column is optional in both.
func (p *Processor) ProcessRecords(records [][]string) (*BatchOutcome, error) {
	if len(records) == 0 {
		return nil, ErrNoRows
	}

	header := records[0]
	routeCol := findColumn(header, "route")
	fromCol := findColumn(header, "from")
	toCol := findColumn(header, "to")
	tripsCol := findColumn(header, "trips")

	chain := routeCol >= 0
	if !chain && (fromCol < 0 || toCol < 0) {
		return nil, ErrBadTemplate
	}
	if len(records) == 1 {
		return nil, ErrNoRows
	}

	rows := make([]Row, 0, len(records)-1)
	rowErrors := []RowError{}
	for i, record := range records[1:] {
		row := Row{Index: i + 1}

		trips, err := parseTrips(cell(record, tripsCol))
		if err != nil {
			spec := cell(record, routeCol)
			if !chain {
				spec = cell(record, fromCol) + Separator + cell(record, toCol)
			}
			rowErrors = append(rowErrors, RowError{Row: row.Index, Route: spec, Reason: err.Error()})
			continue
		}
		row.Trips = trips

		if chain {
			row.Route = cell(record, routeCol)
		} else {
			row.Pair = true
			row.From = cell(record, fromCol)
			row.To = cell(record, toCol)
		}
		rows = append(rows, row)
	}

	outcome := p.Batch(rows)
	if len(rowErrors) > 0 {
		outcome.Errors = append(rowErrors, outcome.Errors...)
		sort.SliceStable(outcome.Errors, func(i, j int) bool {
			return outcome.Errors[i].Row < outcome.Errors[j].Row
		})
		outcome.Summary = AggregateBatch(outcome.Results, outcome.Errors, p.topN)
	}
	return &outcome, nil
}

func findColumn(header []string, name string) int {
	for i, h := range header {
		if strings.ToLower(strings.TrimSpace(h)) == name {
			return i
		}
	}
	return -1
}

func cell(record []string, col int) string {
	if col < 0 || col >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[col])
}

// parseTrips interprets a trips cell: absent defaults to 1, anything else
// must be a positive integer.
func parseTrips(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	trips, err := strconv.Atoi(raw)
	if err != nil || trips < 1 {
		return 0, errors.New("trips must be a positive integer, got " + strconv.Quote(raw))
	}
	return trips, nil
}
