package registry

import (
	"database/sql"
	"fmt"

	"github.com/gilby125/flight-emissions-api/config"
	_ "github.com/lib/pq"
)

const airportsQuery = `SELECT code, COALESCE(name, ''), latitude, longitude, country FROM airports`

// LoadPostgres builds the registry from an airports table in PostgreSQL.
// The table must carry the same columns as the CSV form.
func LoadPostgres(cfg config.PostgresConfig) (*Registry, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
	source := fmt.Sprintf("postgres://%s/%s", cfg.Host, cfg.DBName)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, &DataLoadError{Source: source, Err: err}
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return nil, &DataLoadError{Source: source, Err: fmt.Errorf("ping: %w", err)}
	}

	rows, err := db.Query(airportsQuery)
	if err != nil {
		return nil, &DataLoadError{Source: source, Err: err}
	}
	defer rows.Close()

	airports := make(map[string]Airport)
	for rows.Next() {
		var airport Airport
		if err := rows.Scan(&airport.Code, &airport.Name, &airport.Latitude, &airport.Longitude, &airport.Country); err != nil {
			return nil, &DataLoadError{Source: source, Err: fmt.Errorf("scan airport row: %w", err)}
		}

		airport.Code = NormalizeCode(airport.Code)
		if airport.Code == "" {
			continue
		}
		airport, err := normalizeAirport(airport)
		if err != nil {
			return nil, &DataLoadError{Source: source, Err: err}
		}
		airports[airport.Code] = airport
	}
	if err := rows.Err(); err != nil {
		return nil, &DataLoadError{Source: source, Err: err}
	}
	if len(airports) == 0 {
		return nil, &DataLoadError{Source: source, Err: fmt.Errorf("airports table is empty")}
	}

	return &Registry{airports: airports}, nil
}
