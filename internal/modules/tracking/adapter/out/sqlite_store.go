package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"deskcoach/internal/modules/tracking/domain"
	"deskcoach/internal/platform/apperrors"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists measurements, session events and daily aggregates.
// It implements the tracking module's MeasurementStore, SessionEventStore
// and AggregateStore ports. Every call is a single statement, which is all
// the atomicity the callers assume.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS measurements (
  ts INTEGER NOT NULL,
  height_mm INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_measurements_ts ON measurements(ts);

CREATE TABLE IF NOT EXISTS session_events (
  ts INTEGER NOT NULL,
  event TEXT NOT NULL CHECK (event IN ('LOCK','UNLOCK'))
);
CREATE INDEX IF NOT EXISTS idx_session_events_ts ON session_events(ts);

CREATE TABLE IF NOT EXISTS daily_aggregates (
  date TEXT PRIMARY KEY,
  seated_sec INTEGER NOT NULL,
  standing_sec INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) InsertMeasurement(ctx context.Context, m domain.Measurement) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO measurements(ts, height_mm) VALUES (?, ?)`, m.TS, m.HeightMM)
	if err != nil {
		return fmt.Errorf("insert measurement: %w", err)
	}
	return nil
}

func (s *SQLiteStore) MeasurementsBetween(ctx context.Context, start, end int64) ([]domain.Measurement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ts, height_mm FROM measurements WHERE ts >= ? AND ts <= ? ORDER BY ts ASC`, start, end)
	if err != nil {
		return nil, fmt.Errorf("query measurements: %w", err)
	}
	defer rows.Close()
	return scanMeasurements(rows)
}

func (s *SQLiteStore) RecentMeasurements(ctx context.Context, limit int) ([]domain.Measurement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ts, height_mm FROM measurements ORDER BY ts DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent measurements: %w", err)
	}
	defer rows.Close()
	return scanMeasurements(rows)
}

func (s *SQLiteStore) EarliestMeasurement(ctx context.Context) (domain.Measurement, error) {
	var m domain.Measurement
	err := s.db.QueryRowContext(ctx,
		`SELECT ts, height_mm FROM measurements ORDER BY ts ASC LIMIT 1`).Scan(&m.TS, &m.HeightMM)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Measurement{}, apperrors.ErrNoData
	}
	if err != nil {
		return domain.Measurement{}, fmt.Errorf("query earliest measurement: %w", err)
	}
	return m, nil
}

func scanMeasurements(rows *sql.Rows) ([]domain.Measurement, error) {
	var out []domain.Measurement
	for rows.Next() {
		var m domain.Measurement
		if err := rows.Scan(&m.TS, &m.HeightMM); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) InsertSessionEvent(ctx context.Context, ev domain.SessionEvent) error {
	if err := ev.Kind.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO session_events(ts, event) VALUES (?, ?)`, ev.TS, string(ev.Kind))
	if err != nil {
		return fmt.Errorf("insert session event: %w", err)
	}
	return nil
}

func (s *SQLiteStore) EventsBetween(ctx context.Context, start, end int64) ([]domain.SessionEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ts, event FROM session_events WHERE ts > ? AND ts <= ? ORDER BY ts ASC`, start, end)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()
	var out []domain.SessionEvent
	for rows.Next() {
		var ev domain.SessionEvent
		var kind string
		if err := rows.Scan(&ev.TS, &kind); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		ev.Kind = domain.EventKind(kind)
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) LatestEventAtOrBefore(ctx context.Context, at int64) (domain.SessionEvent, error) {
	return s.latestEvent(ctx, `SELECT ts, event FROM session_events WHERE ts <= ? ORDER BY ts DESC LIMIT 1`, at)
}

func (s *SQLiteStore) LatestEventOfKind(ctx context.Context, kind domain.EventKind, at int64) (domain.SessionEvent, error) {
	return s.latestEvent(ctx,
		`SELECT ts, event FROM session_events WHERE event = ? AND ts <= ? ORDER BY ts DESC LIMIT 1`, string(kind), at)
}

func (s *SQLiteStore) latestEvent(ctx context.Context, query string, args ...any) (domain.SessionEvent, error) {
	var ev domain.SessionEvent
	var kind string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&ev.TS, &kind)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SessionEvent{}, apperrors.ErrNotFound
	}
	if err != nil {
		return domain.SessionEvent{}, fmt.Errorf("query latest session event: %w", err)
	}
	ev.Kind = domain.EventKind(kind)
	return ev, nil
}

func (s *SQLiteStore) UpsertDailyAggregate(ctx context.Context, agg domain.DailyAggregate) error {
	const stmt = `
INSERT INTO daily_aggregates (date, seated_sec, standing_sec, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(date) DO UPDATE SET
  seated_sec=excluded.seated_sec,
  standing_sec=excluded.standing_sec,
  updated_at=excluded.updated_at;
`
	_, err := s.db.ExecContext(ctx, stmt, agg.Date, agg.SeatedSec, agg.StandingSec, agg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert daily aggregate: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetDailyAggregate(ctx context.Context, date string) (domain.DailyAggregate, error) {
	var agg domain.DailyAggregate
	err := s.db.QueryRowContext(ctx,
		`SELECT date, seated_sec, standing_sec, updated_at FROM daily_aggregates WHERE date = ?`, date).
		Scan(&agg.Date, &agg.SeatedSec, &agg.StandingSec, &agg.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DailyAggregate{}, apperrors.ErrNotFound
	}
	if err != nil {
		return domain.DailyAggregate{}, fmt.Errorf("query daily aggregate: %w", err)
	}
	return agg, nil
}

func (s *SQLiteStore) DeleteAllDailyAggregates(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM daily_aggregates`); err != nil {
		return fmt.Errorf("delete daily aggregates: %w", err)
	}
	return nil
}
