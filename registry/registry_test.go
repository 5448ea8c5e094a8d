package registry

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `code,name,latitude,longitude,country
TRV,Thiruvananthapuram International,8.4821,76.9200,IN
BLR,Kempegowda International,13.1986,77.7066,IN
JFK,John F. Kennedy International,40.6413,-73.7781,US
`

func mustParse(t *testing.T, csv string) *Registry {
	t.Helper()
	reg, err := Parse(strings.NewReader(csv), "test")
	require.NoError(t, err)
	return reg
}

func TestParse_Basic(t *testing.T) {
	reg := mustParse(t, sampleCSV)
	assert.Equal(t, 3, reg.Len())

	airport, err := reg.Lookup("TRV")
	require.NoError(t, err)
	assert.Equal(t, "TRV", airport.Code)
	assert.Equal(t, "IN", airport.Country)
	assert.InDelta(t, 8.4821, airport.Latitude, 1e-9)
	assert.InDelta(t, 76.92, airport.Longitude, 1e-9)
}

func TestLookup_CaseInsensitiveAndTrimmed(t *testing.T) {
	reg := mustParse(t, sampleCSV)

	for _, code := range []string{"trv", "Trv", " TRV ", "\ttrv\n"} {
		airport, err := reg.Lookup(code)
		require.NoError(t, err, "lookup %q", code)
		assert.Equal(t, "TRV", airport.Code)
	}
}

func TestLookup_Unknown(t *testing.T) {
	reg := mustParse(t, sampleCSV)

	_, err := reg.Lookup("zzz")
	require.Error(t, err)

	var unknown *UnknownAirportError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "ZZZ", unknown.Code)
}

func TestParse_HeaderAliases(t *testing.T) {
	// Upstream dataset naming must be accepted as-is.
	csv := `iata_code,latitude_deg,longitude_deg,iso_country
TRV,8.4821,76.9200,in
`
	reg := mustParse(t, csv)
	airport, err := reg.Lookup("TRV")
	require.NoError(t, err)
	assert.Equal(t, "IN", airport.Country)
}

func TestParse_MissingColumn(t *testing.T) {
	csv := `code,latitude,longitude
TRV,8.4821,76.9200
`
	_, err := Parse(strings.NewReader(csv), "test")
	require.Error(t, err)

	var loadErr *DataLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, loadErr.Error(), "country")
}

func TestParse_BlankCodeSkipped(t *testing.T) {
	csv := sampleCSV + ",no code here,1.0,2.0,XX\n"
	reg := mustParse(t, csv)
	assert.Equal(t, 3, reg.Len())
}

func TestParse_DuplicateCodeLastWins(t *testing.T) {
	csv := sampleCSV + "TRV,Trivandrum,8.5,76.9,IN\n"
	reg := mustParse(t, csv)
	assert.Equal(t, 3, reg.Len())

	airport, err := reg.Lookup("TRV")
	require.NoError(t, err)
	assert.InDelta(t, 8.5, airport.Latitude, 1e-9)
}

func TestParse_MissingCountryFails(t *testing.T) {
	csv := `code,latitude,longitude,country
TRV,8.4821,76.9200,
`
	_, err := Parse(strings.NewReader(csv), "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing country")
}

func TestParse_BadCoordinates(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"non-numeric latitude", "TRV,abc,76.92,IN"},
		{"latitude out of range", "TRV,95.0,76.92,IN"},
		{"longitude out of range", "TRV,8.48,181.0,IN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csv := "code,latitude,longitude,country\n" + tt.row + "\n"
			_, err := Parse(strings.NewReader(csv), "test")
			assert.Error(t, err)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(strings.NewReader(""), "test")
	require.Error(t, err)

	_, err = Parse(strings.NewReader("code,latitude,longitude,country\n"), "test")
	require.Error(t, err)
}

func TestParse_NameTransliterated(t *testing.T) {
	csv := `code,name,latitude,longitude,country
CDG,Aéroport de Paris-Charles-de-Gaulle,49.0097,2.5479,FR
`
	reg := mustParse(t, csv)
	airport, err := reg.Lookup("CDG")
	require.NoError(t, err)
	assert.Equal(t, "Aeroport de Paris-Charles-de-Gaulle", airport.Name)
}

func TestNormalizeAirport(t *testing.T) {
	// Every source feeds rows through normalizeAirport; classification
	// depends on country codes arriving uppercased.
	airport, err := normalizeAirport(Airport{
		Code:      "TRV",
		Name:      " Thiruvananthapuram Intl ",
		Latitude:  8.4821,
		Longitude: 76.9200,
		Country:   " in ",
	})
	require.NoError(t, err)
	assert.Equal(t, "IN", airport.Country)
	assert.Equal(t, "Thiruvananthapuram Intl", airport.Name)

	airport, err = normalizeAirport(Airport{
		Code:      "CDG",
		Name:      "Aéroport de Paris-Charles-de-Gaulle",
		Latitude:  49.0097,
		Longitude: 2.5479,
		Country:   "fr",
	})
	require.NoError(t, err)
	assert.Equal(t, "FR", airport.Country)
	assert.Equal(t, "Aeroport de Paris-Charles-de-Gaulle", airport.Name)

	_, err = normalizeAirport(Airport{Code: "XXX", Latitude: 1, Longitude: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing country")

	_, err = normalizeAirport(Airport{Code: "XXX", Latitude: 95, Longitude: 1, Country: "IN"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestAirports_SortedAndFiltered(t *testing.T) {
	reg := mustParse(t, sampleCSV)

	all := reg.Airports("")
	require.Len(t, all, 3)
	assert.Equal(t, "BLR", all[0].Code)
	assert.Equal(t, "JFK", all[1].Code)
	assert.Equal(t, "TRV", all[2].Code)

	indian := reg.Airports("in")
	require.Len(t, indian, 2)
	assert.Equal(t, "BLR", indian[0].Code)
	assert.Equal(t, "TRV", indian[1].Code)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("testdata/nope.csv")
	var loadErr *DataLoadError
	require.True(t, errors.As(err, &loadErr))
}

func TestLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	reg, err := LoadHTTP(srv.URL, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())
}

func TestLoadHTTP_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := LoadHTTP(srv.URL, 0)
	var loadErr *DataLoadError
	require.True(t, errors.As(err, &loadErr))
}
