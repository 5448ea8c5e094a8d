package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilby125/flight-emissions-api/config"
	"github.com/gilby125/flight-emissions-api/emissions"
	"github.com/gilby125/flight-emissions-api/registry"
)

const fixtureCSV = `code,latitude,longitude,country
TRV,8.4821,76.9200,IN
BLR,13.1986,77.7066,IN
JFK,40.6413,-73.7781,US
LHR,51.4700,-0.4543,GB
`

func fixtureResults(t *testing.T) []emissions.RouteResult {
	t.Helper()
	reg, err := registry.Parse(strings.NewReader(fixtureCSV), "fixture")
	require.NoError(t, err)

	proc := emissions.NewProcessor(reg, config.DefaultEmissionsConfig())
	outcome, err := proc.ProcessRecords([][]string{
		{"route", "trips"},
		{"TRV-BLR-JFK", "2"},
		{"BLR-LHR", "1"},
		{"TRV-JFK", "3"},
	})
	require.NoError(t, err)
	require.Len(t, outcome.Results, 3)
	return outcome.Results
}

func TestRoutes_RoundTrip(t *testing.T) {
	results := fixtureResults(t)

	var buf bytes.Buffer
	require.NoError(t, WriteRoutes(&buf, results))

	back, err := ReadRoutes(&buf)
	require.NoError(t, err)

	// Totals must survive the trip through the table exactly.
	if diff := deep.Equal(results, back); diff != nil {
		t.Fatalf("round trip changed results: %v", diff)
	}
}

func TestRoutes_RoundTripSummary(t *testing.T) {
	results := fixtureResults(t)
	before := emissions.AggregateBatch(results, nil, 10)

	var buf bytes.Buffer
	require.NoError(t, WriteRoutes(&buf, results))
	back, err := ReadRoutes(&buf)
	require.NoError(t, err)

	after := emissions.AggregateBatch(back, nil, 10)
	if diff := deep.Equal(before, after); diff != nil {
		t.Fatalf("summary changed after round trip: %v", diff)
	}
}

func TestWriteRoutes_Table(t *testing.T) {
	results := fixtureResults(t)

	var buf bytes.Buffer
	require.NoError(t, WriteRoutes(&buf, results))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// header + 2 legs + 1 leg + 1 leg
	require.Len(t, lines, 5)
	assert.Equal(t, strings.Join(tableHeader, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,TRV-BLR-JFK,2,0,TRV,BLR,"))
	assert.True(t, strings.HasPrefix(lines[2], "1,TRV-BLR-JFK,2,1,BLR,JFK,"))
	assert.Contains(t, lines[1], ",domestic,")
	assert.Contains(t, lines[2], ",international,")
}

func TestReadRoutes_BadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong header", "a,b,c\n1,2,3\n"},
		{"bad distance", strings.Join(tableHeader, ",") + "\n1,TRV-BLR,1,0,TRV,BLR,oops,domestic,0.3,1.0\n"},
		{"bad classification", strings.Join(tableHeader, ",") + "\n1,TRV-BLR,1,0,TRV,BLR,10,unknown,0.3,1.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRoutes(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestSummaryLines(t *testing.T) {
	results := fixtureResults(t)
	summary := emissions.AggregateBatch(results, []emissions.RowError{{Row: 4, Reason: "unknown airport"}}, 10)

	lines := SummaryLines(summary)
	require.Len(t, lines, 5)
	assert.Equal(t, "4 rows processed, 1 failed", lines[0])
	assert.Contains(t, lines[1], "kg CO2e")
	assert.Contains(t, lines[4], summary.HighestRoute)
}

func TestSummaryLines_EmptyBatch(t *testing.T) {
	lines := SummaryLines(emissions.BatchSummary{})
	require.Len(t, lines, 4)
	assert.Equal(t, "0 rows processed, 0 failed", lines[0])
}
