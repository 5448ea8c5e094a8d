package emissions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilby125/flight-emissions-api/config"
	"github.com/gilby125/flight-emissions-api/emissions"
)

func newProcessor(t *testing.T) *emissions.Processor {
	t.Helper()
	return emissions.NewProcessor(fixtureRegistry(t), config.DefaultEmissionsConfig())
}

func TestProcessor_Pair(t *testing.T) {
	proc := newProcessor(t)

	result, err := proc.Pair("TRV", "BLR", 1)
	require.NoError(t, err)

	assert.Equal(t, "TRV-BLR", result.Route)
	require.Len(t, result.Legs, 1)
	assert.Equal(t, emissions.Domestic, result.Legs[0].Classification)
	assert.InDelta(t, 525, result.TotalDistanceKm, 15)
	assert.Zero(t, result.InternationalEmissionsKg)
}

func TestProcessor_RouteString(t *testing.T) {
	proc := newProcessor(t)

	result, err := proc.RouteString("TRV-BLR-JFK", 2)
	require.NoError(t, err)

	require.Len(t, result.Legs, 2)
	assert.Equal(t, emissions.Domestic, result.Legs[0].Classification)
	assert.Equal(t, emissions.International, result.Legs[1].Classification)
	assert.Equal(t, 2, result.Trips)
	assert.InDelta(t, result.Legs[0].DistanceKm+result.Legs[1].DistanceKm, result.TotalDistanceKm, 1e-9)
}

func TestProcessRecords_TemplateA(t *testing.T) {
	proc := newProcessor(t)
	records := [][]string{
		{"From", "To", "Trips"},
		{"TRV", "BLR", "2"},
		{"blr", "jfk", ""},
	}

	outcome, err := proc.ProcessRecords(records)
	require.NoError(t, err)
	require.Len(t, outcome.Results, 2)
	assert.Empty(t, outcome.Errors)

	assert.Equal(t, 1, outcome.Results[0].Row)
	assert.Equal(t, "TRV-BLR", outcome.Results[0].Route)
	assert.Equal(t, 2, outcome.Results[0].Trips)

	assert.Equal(t, 2, outcome.Results[1].Row)
	assert.Equal(t, "BLR-JFK", outcome.Results[1].Route)
	assert.Equal(t, 1, outcome.Results[1].Trips, "absent trips defaults to 1")
}

func TestProcessRecords_TemplateB(t *testing.T) {
	proc := newProcessor(t)
	records := [][]string{
		{"route", "trips"},
		{"TRV-BLR-JFK", "2"},
		{"DEL-LHR", ""},
	}

	outcome, err := proc.ProcessRecords(records)
	require.NoError(t, err)
	require.Len(t, outcome.Results, 2)

	require.Len(t, outcome.Results[0].Legs, 2)
	assert.Equal(t, "TRV-BLR-JFK", outcome.Results[0].Route)
	require.Len(t, outcome.Results[1].Legs, 1)
}

func TestProcessRecords_TripsColumnOptional(t *testing.T) {
	proc := newProcessor(t)
	records := [][]string{
		{"from", "to"},
		{"TRV", "BLR"},
	}

	outcome, err := proc.ProcessRecords(records)
	require.NoError(t, err)
	require.Len(t, outcome.Results, 1)
	assert.Equal(t, 1, outcome.Results[0].Trips)
}

func TestProcessRecords_BadRowRecordedNotFatal(t *testing.T) {
	proc := newProcessor(t)
	records := [][]string{
		{"from", "to", "trips"},
		{"TRV", "BLR", "1"},
		{"ZZZ", "BLR", "1"},
		{"BLR", "JFK", "1"},
	}

	outcome, err := proc.ProcessRecords(records)
	require.NoError(t, err)

	require.Len(t, outcome.Results, 2)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, 2, outcome.Errors[0].Row, "error carries the original row index")
	assert.Equal(t, "ZZZ-BLR", outcome.Errors[0].Route)
	assert.Contains(t, outcome.Errors[0].Reason, "ZZZ")

	assert.Equal(t, 3, outcome.Summary.Rows)
	assert.Equal(t, 1, outcome.Summary.Failed)
	// The failed row contributes nothing to the totals.
	assert.InDelta(t,
		outcome.Results[0].TotalEmissionsKg+outcome.Results[1].TotalEmissionsKg,
		outcome.Summary.TotalEmissionsKg, 1e-9)
}

func TestProcessRecords_EmptyRouteCell(t *testing.T) {
	proc := newProcessor(t)
	records := [][]string{
		{"route", "trips"},
		{"", "2"},
		{"TRV-BLR", "1"},
	}

	outcome, err := proc.ProcessRecords(records)
	require.NoError(t, err)

	require.Len(t, outcome.Results, 1)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, 1, outcome.Errors[0].Row)
	assert.Contains(t, outcome.Errors[0].Reason, "route is empty")
}

func TestProcessRecords_BadTripsRecorded(t *testing.T) {
	proc := newProcessor(t)
	records := [][]string{
		{"route", "trips"},
		{"TRV-BLR", "two"},
		{"TRV-BLR", "0"},
		{"TRV-BLR", "-3"},
		{"BLR-JFK", "1"},
	}

	outcome, err := proc.ProcessRecords(records)
	require.NoError(t, err)

	require.Len(t, outcome.Results, 1)
	require.Len(t, outcome.Errors, 3)
	assert.Equal(t, 1, outcome.Errors[0].Row)
	assert.Equal(t, 2, outcome.Errors[1].Row)
	assert.Equal(t, 3, outcome.Errors[2].Row)
	for _, rowErr := range outcome.Errors {
		assert.Contains(t, rowErr.Reason, "trips")
	}
}

func TestProcessRecords_ErrorsSortedByRow(t *testing.T) {
	proc := newProcessor(t)
	records := [][]string{
		{"route", "trips"},
		{"TRV-ZZZ", "1"}, // resolution failure
		{"TRV-BLR", "x"}, // parse failure
		{"QQQ-BLR", "1"}, // resolution failure
	}

	outcome, err := proc.ProcessRecords(records)
	require.NoError(t, err)
	require.Len(t, outcome.Errors, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{outcome.Errors[0].Row, outcome.Errors[1].Row, outcome.Errors[2].Row})
	assert.Equal(t, 3, outcome.Summary.Failed)
	assert.Empty(t, outcome.Results)
}

func TestProcessRecords_BadTemplate(t *testing.T) {
	proc := newProcessor(t)

	_, err := proc.ProcessRecords([][]string{{"origin", "dest"}, {"TRV", "BLR"}})
	assert.ErrorIs(t, err, emissions.ErrBadTemplate)
}

func TestProcessRecords_NoRows(t *testing.T) {
	proc := newProcessor(t)

	_, err := proc.ProcessRecords(nil)
	assert.ErrorIs(t, err, emissions.ErrNoRows)

	_, err = proc.ProcessRecords([][]string{{"from", "to"}})
	assert.ErrorIs(t, err, emissions.ErrNoRows)
}

func TestProcessRecords_Top10Ranking(t *testing.T) {
	proc := newProcessor(t)
	records := [][]string{{"route", "trips"}}
	routes := []string{
		"TRV-BLR", "TRV-DEL", "TRV-JFK", "TRV-LHR", "TRV-DXB",
		"BLR-DEL", "BLR-JFK", "BLR-LHR", "BLR-DXB", "DEL-JFK",
		"DEL-LHR", "DEL-DXB",
	}
	for _, r := range routes {
		records = append(records, []string{r, "1"})
	}

	outcome, err := proc.ProcessRecords(records)
	require.NoError(t, err)
	require.Len(t, outcome.Results, 12)
	assert.Len(t, outcome.Summary.TopRoutes, 10, "leaderboard is capped at 10")

	for i := 1; i < len(outcome.Summary.TopRoutes); i++ {
		assert.GreaterOrEqual(t,
			outcome.Summary.TopRoutes[i-1].TotalEmissionsKg,
			outcome.Summary.TopRoutes[i].TotalEmissionsKg)
	}
	assert.Equal(t, outcome.Summary.TopRoutes[0].Route, outcome.Summary.HighestRoute)
	assert.InDelta(t, outcome.Summary.HighestEmissionsKg*0.9, outcome.Summary.ReducedEmissionsKg, 1e-9)
}
