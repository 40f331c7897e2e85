package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"darksky-forecast/models"

	"code.cloudfoundry.org/clock"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

// Store persists the history of fetched forecasts.
type Store interface {
	SaveForecast(data models.ForecastData) (string, error)
	LatestForecast(location, provider string) (models.ForecastData, bool, error)
	ListForecasts(location string, limit int) ([]Record, error)
	Prune(maxAge time.Duration) (int64, error)
	Close() error
}

// Record is one stored forecast.
type Record struct {
	ID        string              `json:"id"`
	Location  string              `json:"location"`
	Provider  string              `json:"provider"`
	FetchedAt time.Time           `json:"fetchedAt"`
	Data      models.ForecastData `json:"data"`
}

// SQLiteStore implements Store using sqlite (pure Go driver modernc.org/sqlite).
type SQLiteStore struct {
	db     *sql.DB
	clock  clock.Clock
	logger *zap.Logger
}

const schema = `CREATE TABLE IF NOT EXISTS forecasts (
    id TEXT PRIMARY KEY,
    location TEXT NOT NULL,
    provider TEXT NOT NULL,
    fetched_at INTEGER NOT NULL,
    payload TEXT NOT NULL
);`

const index = `CREATE INDEX IF NOT EXISTS forecasts_location_fetched ON forecasts(location, fetched_at);`

// NewSQLite opens (or creates) the database at path and applies the schema.
// A nil clock uses the wall clock.
func NewSQLite(path string, clk clock.Clock, logger *zap.Logger) (*SQLiteStore, error) {
	if clk == nil {
		clk = clock.NewClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL lets the API read while the collector writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		logger.Warn("could not set WAL mode", zap.Error(err))
	}

	for _, stmt := range []string{schema, index} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	return &SQLiteStore{db: db, clock: clk, logger: logger}, nil
}

// SaveForecast stores a fetched forecast and returns its generated id.
func (s *SQLiteStore) SaveForecast(data models.ForecastData) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode forecast: %w", err)
	}

	fetchedAt := data.Updated
	if fetchedAt.IsZero() {
		fetchedAt = s.clock.Now()
	}

	id := uuid.Must(uuid.NewV4()).String()
	_, err = s.db.Exec(`INSERT INTO forecasts(id, location, provider, fetched_at, payload) VALUES(?,?,?,?,?)`,
		id, data.Location, data.Provider, fetchedAt.UTC().UnixNano(), string(payload))
	if err != nil {
		return "", fmt.Errorf("failed to save forecast for %s: %w", data.Location, err)
	}
	return id, nil
}

// LatestForecast returns the most recent forecast for a location from a
// provider. An empty provider matches any provider.
func (s *SQLiteStore) LatestForecast(location, provider string) (models.ForecastData, bool, error) {
	row := s.db.QueryRow(`SELECT id, location, provider, fetched_at, payload FROM forecasts
        WHERE location = ? AND (? = '' OR provider = ?)
        ORDER BY fetched_at DESC LIMIT 1`, location, provider, provider)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ForecastData{}, false, nil
	}
	if err != nil {
		return models.ForecastData{}, false, err
	}
	return rec.Data, true, nil
}

// ListForecasts returns up to limit forecasts for a location, newest first.
func (s *SQLiteStore) ListForecasts(location string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(`SELECT id, location, provider, fetched_at, payload FROM forecasts
        WHERE location = ? ORDER BY fetched_at DESC LIMIT ?`, location, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Prune deletes forecasts fetched more than maxAge ago.
func (s *SQLiteStore) Prune(maxAge time.Duration) (int64, error) {
	cutoff := s.clock.Now().Add(-maxAge).UTC().UnixNano()
	res, err := s.db.Exec(`DELETE FROM forecasts WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("pruned forecast history", zap.Int64("rows", n), zap.Duration("maxAge", maxAge))
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec       Record
		fetchedAt int64
		payload   string
	)
	if err := row.Scan(&rec.ID, &rec.Location, &rec.Provider, &fetchedAt, &payload); err != nil {
		return Record{}, err
	}
	rec.FetchedAt = time.Unix(0, fetchedAt).UTC()
	if err := json.Unmarshal([]byte(payload), &rec.Data); err != nil {
		return Record{}, fmt.Errorf("failed to decode stored forecast %s: %w", rec.ID, err)
	}
	return rec, nil
}

// Ensure SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)
