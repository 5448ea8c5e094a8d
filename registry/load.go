package registry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	anyascii "github.com/anyascii/go"
	"github.com/gilby125/flight-emissions-api/config"
)

// Load builds the registry from the source named in cfg. Any failure is
// returned as a DataLoadError.
func Load(cfg config.RegistryConfig) (*Registry, error) {
	switch cfg.Source {
	case config.RegistrySourceFile, "":
		return LoadFile(cfg.Path)
	case config.RegistrySourceHTTP:
		return LoadHTTP(cfg.URL, cfg.HTTPRetryMax)
	case config.RegistrySourcePostgres:
		return LoadPostgres(cfg.Postgres)
	default:
		return nil, &DataLoadError{Source: cfg.Source, Err: fmt.Errorf("unsupported registry source %q", cfg.Source)}
	}
}

// LoadFile builds the registry from a CSV file on disk.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Source: path, Err: err}
	}
	defer f.Close()

	return Parse(f, path)
}

// Column header aliases, matched case-insensitively. The second set follows
// the upstream airports dataset naming.
var (
	codeHeaders      = []string{"code", "iata_code", "iata"}
	latitudeHeaders  = []string{"latitude", "latitude_deg", "lat"}
	longitudeHeaders = []string{"longitude", "longitude_deg", "lon", "lng"}
	countryHeaders   = []string{"country", "country_code", "iso_country"}
	nameHeaders      = []string{"name", "airport_name"}
)

type columnIndex struct {
	code      int
	latitude  int
	longitude int
	country   int
	name      int // -1 when absent
}

func findColumn(header []string, aliases []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, alias := range aliases {
			if h == alias {
				return i
			}
		}
	}
	return -1
}

func mapColumns(header []string) (columnIndex, error) {
	cols := columnIndex{
		code:      findColumn(header, codeHeaders),
		latitude:  findColumn(header, latitudeHeaders),
		longitude: findColumn(header, longitudeHeaders),
		country:   findColumn(header, countryHeaders),
		name:      findColumn(header, nameHeaders),
	}

	var missing []string
	if cols.code < 0 {
		missing = append(missing, "code")
	}
	if cols.latitude < 0 {
		missing = append(missing, "latitude")
	}
	if cols.longitude < 0 {
		missing = append(missing, "longitude")
	}
	if cols.country < 0 {
		missing = append(missing, "country")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// Parse reads the reference table from CSV. The source string is used only
// for error reporting.
//
// Rows with a blank code are skipped, matching the upstream dataset which
// carries non-IATA airfields. A duplicate code overwrites the earlier row.
// A blank country is an error: the domestic/international rule cannot
// classify a leg whose endpoint country is unknown.
func Parse(r io.Reader, source string) (*Registry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DataLoadError{Source: source, Err: errors.New("empty reference table")}
		}
		return nil, &DataLoadError{Source: source, Err: err}
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, &DataLoadError{Source: source, Err: err}
	}

	airports := make(map[string]Airport)
	row := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, &DataLoadError{Source: source, Err: fmt.Errorf("row %d: %w", row, err)}
		}

		code := NormalizeCode(record[cols.code])
		if code == "" {
			continue
		}

		airport, err := buildAirport(code, record, cols)
		if err != nil {
			return nil, &DataLoadError{Source: source, Err: fmt.Errorf("row %d: %w", row, err)}
		}
		airports[code] = airport
	}

	if len(airports) == 0 {
		return nil, &DataLoadError{Source: source, Err: errors.New("reference table has no airports")}
	}

	return &Registry{airports: airports}, nil
}

func buildAirport(code string, record []string, cols columnIndex) (Airport, error) {
	latitude, err := strconv.ParseFloat(strings.TrimSpace(record[cols.latitude]), 64)
	if err != nil {
		return Airport{}, fmt.Errorf("airport %s: bad latitude %q", code, record[cols.latitude])
	}
	longitude, err := strconv.ParseFloat(strings.TrimSpace(record[cols.longitude]), 64)
	if err != nil {
		return Airport{}, fmt.Errorf("airport %s: bad longitude %q", code, record[cols.longitude])
	}

	airport := Airport{
		Code:      code,
		Latitude:  latitude,
		Longitude: longitude,
		Country:   record[cols.country],
	}
	if cols.name >= 0 && cols.name < len(record) {
		airport.Name = record[cols.name]
	}

	return normalizeAirport(airport)
}

// normalizeAirport applies the field normalization every registry source must
// share: country codes uppercased so classification stays case-insensitive,
// and names transliterated because the upstream dataset is not always ASCII.
func normalizeAirport(airport Airport) (Airport, error) {
	airport.Country = strings.ToUpper(strings.TrimSpace(airport.Country))
	airport.Name = anyascii.Transliterate(strings.TrimSpace(airport.Name))

	if !airport.Coordinates().IsValid() {
		return Airport{}, fmt.Errorf("airport %s: coordinates (%v, %v) out of range", airport.Code, airport.Latitude, airport.Longitude)
	}
	if airport.Country == "" {
		return Airport{}, fmt.Errorf("airport %s: missing country", airport.Code)
	}

	return airport, nil
}
