package history

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/internal/logger"
	"github.com/ymmah/quality-report/schema"
)

// DefaultSize is the number of recent values returned by RecentHistory.
const DefaultSize = contract.DefaultHistorySize

// Store is the SQL-backed history of report runs. With the none backend it
// records nothing and reads nothing.
type Store struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	size    int
	log     logger.Logger
}

var _ contract.HistoryStore = &Store{} // Compile-time check

// NewStore opens the history store for backend and migrates its schema.
// size bounds RecentHistory; values below 1 mean DefaultSize.
func NewStore(backend schema.DatabaseBackend, connStr string, size int) (*Store, error) {
	if size < 1 {
		size = DefaultSize
	}
	s := &Store{backend: backend, size: size, log: logger.Named("history")}
	if backend == schema.NoneBackend {
		return s, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(db, backend, connStr); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}
	s.db = db
	return s, nil
}

func (s *Store) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}

// ph returns the n-th (1-based) bind placeholder for the backend.
func (s *Store) ph(n int) string {
	if s.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// timeArg converts t to the representation stored by the backend.
func (s *Store) timeArg(t time.Time) any {
	if s.backend == schema.SQLiteBackend {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t.UTC()
}

// BeginRun implements contract.HistoryStore.
func (s *Store) BeginRun(runUUID, project string, startTime time.Time) (int64, error) {
	if s.disabled() {
		return 0, nil
	}

	var runID int64
	switch s.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, project, start_time) VALUES ($1, $2, $3) RETURNING run_id`, runsTable)
		if err := s.db.QueryRow(query, runUUID, project, s.timeArg(startTime)).Scan(&runID); err != nil {
			return 0, fmt.Errorf("failed to insert history run: %w", err)
		}
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, project, start_time) VALUES (?, ?, ?)`, runsTable)
		result, err := s.db.Exec(query, runUUID, project, s.timeArg(startTime))
		if err != nil {
			return 0, fmt.Errorf("failed to insert history run: %w", err)
		}
		if runID, err = result.LastInsertId(); err != nil {
			return 0, fmt.Errorf("failed to read history run id: %w", err)
		}
	}
	return runID, nil
}

// RecordMeasurements implements contract.HistoryStore. All measurements are
// written in one transaction.
func (s *Store) RecordMeasurements(runID int64, measurements []schema.Measurement) error {
	if s.disabled() || len(measurements) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`INSERT INTO %s (run_id, stable_id, value, status, measured_at) VALUES (%s, %s, %s, %s, %s)`,
		measurementsTable, s.ph(1), s.ph(2), s.ph(3), s.ph(4), s.ph(5))
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare measurement insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, m := range measurements {
		if _, err := stmt.Exec(runID, m.StableID, m.Value, string(m.Status), s.timeArg(m.MeasuredAt)); err != nil {
			return fmt.Errorf("failed to insert measurement %s: %w", m.StableID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit measurements: %w", err)
	}
	return nil
}

// EndRun implements contract.HistoryStore.
func (s *Store) EndRun(runID int64, endTime time.Time, totalMetrics int) error {
	if s.disabled() {
		return nil
	}

	var start dbTime
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, runsTable, s.ph(1))
	if err := s.db.QueryRow(query, runID).Scan(&start); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	durationMs := endTime.Sub(start.Time).Milliseconds()

	update := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_metrics = %s WHERE run_id = %s`,
		runsTable, s.ph(1), s.ph(2), s.ph(3), s.ph(4))
	if _, err := s.db.Exec(update, s.timeArg(endTime), durationMs, totalMetrics, runID); err != nil {
		return fmt.Errorf("failed to update history run: %w", err)
	}
	return nil
}

// RecentHistory implements contract.History. It returns up to the configured
// number of most recent values, oldest first.
func (s *Store) RecentHistory(stableID string) []float64 {
	if s.disabled() {
		return nil
	}

	query := fmt.Sprintf(`SELECT value FROM %s WHERE stable_id = %s ORDER BY run_id DESC LIMIT %d`,
		measurementsTable, s.ph(1), s.size)
	rows, err := s.db.Query(query, stableID)
	if err != nil {
		s.warn("failed to query recent history", stableID, err)
		return nil
	}
	defer func() { _ = rows.Close() }()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			s.warn("failed to scan recent history", stableID, err)
			return nil
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		s.warn("failed to iterate recent history", stableID, err)
		return nil
	}
	slices.Reverse(values)
	return values
}

// StatusStartDate implements contract.History. It returns the first
// measurement time of the trailing run of measurements with status, or the
// zero time when the latest measurement has another status.
func (s *Store) StatusStartDate(stableID string, status schema.Status) time.Time {
	if s.disabled() {
		return time.Time{}
	}

	query := fmt.Sprintf(`SELECT status, measured_at FROM %s WHERE stable_id = %s ORDER BY run_id DESC`,
		measurementsTable, s.ph(1))
	rows, err := s.db.Query(query, stableID)
	if err != nil {
		s.warn("failed to query status history", stableID, err)
		return time.Time{}
	}
	defer func() { _ = rows.Close() }()

	var since time.Time
	for rows.Next() {
		var (
			st string
			at dbTime
		)
		if err := rows.Scan(&st, &at); err != nil {
			s.warn("failed to scan status history", stableID, err)
			return time.Time{}
		}
		if schema.Status(st) != status {
			break
		}
		since = at.Time
	}
	return since
}

func (s *Store) warn(msg, stableID string, err error) {
	s.log.Warn(context.Background(), msg, logger.String("metric", stableID), logger.Error(err))
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (s *Store) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.disabled() {
		return status, nil
	}

	if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}
	if status.TotalRuns > 0 {
		var last, oldest dbTime
		lastQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable)
		if err := s.db.QueryRow(lastQuery).Scan(&status.LastRunID, &last); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		oldestQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable)
		if err := s.db.QueryRow(oldestQuery).Scan(&oldest); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.LastRunTime = last.Time
		status.OldestRunTime = oldest.Time
	}

	for _, table := range []string{runsTable, measurementsTable} {
		var count int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalMeasurements = int(status.TableSizes[measurementsTable])
	return status, nil
}

// GetAllRuns retrieves all runs, oldest first.
func (s *Store) GetAllRuns() ([]schema.RunRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_uuid, project, start_time, end_time, run_duration_ms, total_metrics
		FROM %s ORDER BY run_id`, runsTable)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query history runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var (
			record     schema.RunRecord
			start, end dbTime
			duration   sql.NullInt32
		)
		if err := rows.Scan(&record.RunID, &record.RunUUID, &record.Project, &start, &end, &duration, &record.TotalMetrics); err != nil {
			return nil, fmt.Errorf("failed to scan history run: %w", err)
		}
		record.StartTime = start.Time
		if end.Valid {
			t := end.Time
			record.EndTime = &t
		}
		if duration.Valid {
			d := duration.Int32
			record.RunDurationMs = &d
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history runs: %w", err)
	}
	return results, nil
}

// GetAllMeasurements retrieves all measurements ordered by run and metric.
func (s *Store) GetAllMeasurements() ([]schema.MeasurementRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, stable_id, value, status, measured_at FROM %s ORDER BY run_id, stable_id`, measurementsTable)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query measurements: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.MeasurementRecord
	for rows.Next() {
		var (
			record schema.MeasurementRecord
			at     dbTime
		)
		if err := rows.Scan(&record.RunID, &record.StableID, &record.Value, &record.Status, &at); err != nil {
			return nil, fmt.Errorf("failed to scan measurement: %w", err)
		}
		record.MeasuredAt = at.Time
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating measurements: %w", err)
	}
	return results, nil
}
