package history

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymmah/quality-report/schema"
)

func newMemoryStore(t *testing.T, size int) *Store {
	t.Helper()
	store, err := NewStore(schema.SQLiteBackend, ":memory:", size)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// recordRun stores one run holding a single measurement.
func recordRun(t *testing.T, store *Store, at time.Time, stableID string, value float64, status schema.Status) int64 {
	t.Helper()
	runID, err := store.BeginRun("uuid-"+at.Format(time.RFC3339), "P", at)
	require.NoError(t, err)
	require.NoError(t, store.RecordMeasurements(runID, []schema.Measurement{
		{StableID: stableID, Value: value, Status: status, MeasuredAt: at},
	}))
	require.NoError(t, store.EndRun(runID, at.Add(1500*time.Millisecond), 1))
	return runID
}

func TestStore_RunLifecycle(t *testing.T) {
	store := newMemoryStore(t, 0)
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	runID, err := store.BeginRun("run-1", "Quality Report", start)
	require.NoError(t, err)
	assert.Positive(t, runID)

	require.NoError(t, store.RecordMeasurements(runID, []schema.Measurement{
		{StableID: "OpenBugsApp", Value: 12, Status: schema.YellowStatus, MeasuredAt: start},
		{StableID: "UnittestCoverageApp", Value: 91.5, Status: schema.GreenStatus, MeasuredAt: start},
	}))
	require.NoError(t, store.EndRun(runID, start.Add(2*time.Second), 2))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].RunUUID)
	assert.Equal(t, "Quality Report", runs[0].Project)
	assert.True(t, start.Equal(runs[0].StartTime))
	require.NotNil(t, runs[0].EndTime)
	require.NotNil(t, runs[0].RunDurationMs)
	assert.Equal(t, int32(2000), *runs[0].RunDurationMs)
	assert.Equal(t, int32(2), runs[0].TotalMetrics)

	measurements, err := store.GetAllMeasurements()
	require.NoError(t, err)
	require.Len(t, measurements, 2)
	assert.Equal(t, "OpenBugsApp", measurements[0].StableID)
	assert.Equal(t, "yellow", measurements[0].Status)
	assert.InDelta(t, 91.5, measurements[1].Value, 1e-9)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Equal(t, 1, status.TotalRuns)
	assert.Equal(t, runID, status.LastRunID)
	assert.Equal(t, 2, status.TotalMeasurements)
	assert.Equal(t, int64(1), status.TableSizes[runsTable])
}

func TestStore_RecentHistory(t *testing.T) {
	store := newMemoryStore(t, 3)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range []float64{10, 20, 30, 40} {
		recordRun(t, store, base.Add(time.Duration(i)*time.Hour), "OpenBugsApp", v, schema.GreenStatus)
	}
	recordRun(t, store, base.Add(10*time.Hour), "OtherMetric", 99, schema.RedStatus)

	assert.Equal(t, []float64{20, 30, 40}, store.RecentHistory("OpenBugsApp"))
	assert.Equal(t, []float64{99}, store.RecentHistory("OtherMetric"))
	assert.Empty(t, store.RecentHistory("Unknown"))
}

func TestStore_StatusStartDate(t *testing.T) {
	store := newMemoryStore(t, 0)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day := func(n int) time.Time { return base.AddDate(0, 0, n) }

	recordRun(t, store, day(0), "M", 5, schema.RedStatus)
	recordRun(t, store, day(1), "M", 1, schema.GreenStatus)
	recordRun(t, store, day(2), "M", 1, schema.GreenStatus)
	recordRun(t, store, day(3), "M", 0, schema.GreenStatus)

	assert.True(t, day(1).Equal(store.StatusStartDate("M", schema.GreenStatus)))
	assert.True(t, store.StatusStartDate("M", schema.RedStatus).IsZero())
	assert.True(t, store.StatusStartDate("none", schema.GreenStatus).IsZero())

	recordRun(t, store, day(4), "M", 7, schema.RedStatus)
	assert.True(t, day(4).Equal(store.StatusStartDate("M", schema.RedStatus)))
	assert.True(t, store.StatusStartDate("M", schema.GreenStatus).IsZero())
}

func TestStore_NoneBackend(t *testing.T) {
	store, err := NewStore(schema.NoneBackend, "", 5)
	require.NoError(t, err)

	runID, err := store.BeginRun("x", "P", time.Now())
	require.NoError(t, err)
	assert.Zero(t, runID)
	require.NoError(t, store.RecordMeasurements(runID, []schema.Measurement{{StableID: "M"}}))
	require.NoError(t, store.EndRun(runID, time.Now(), 1))
	assert.Nil(t, store.RecentHistory("M"))
	assert.True(t, store.StatusStartDate("M", schema.GreenStatus).IsZero())

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	assert.Nil(t, runs)
	require.NoError(t, store.Close())
}

func TestNewStore_Errors(t *testing.T) {
	_, err := NewStore(schema.DatabaseBackend("oracle"), "", 5)
	require.Error(t, err)

	_, err = NewStore(schema.MySQLBackend, "not a dsn", 5)
	require.Error(t, err)
}

func TestStore_FileBackedAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := NewStore(schema.SQLiteBackend, path, 5)
	require.NoError(t, err)
	recordRun(t, store, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "M", 1, schema.GreenStatus)
	require.NoError(t, store.Close())

	reopened, err := NewStore(schema.SQLiteBackend, path, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, reopened.RecentHistory("M"))
	require.NoError(t, reopened.Close())

	require.NoError(t, ClearHistory(schema.SQLiteBackend, path, ""))
	assert.NoFileExists(t, path)
	require.NoError(t, ClearHistory(schema.SQLiteBackend, path, ""), "clearing twice is fine")
	require.Error(t, ClearHistory(schema.SQLiteBackend, "", ""))
	require.NoError(t, ClearHistory(schema.NoneBackend, "", ""))
	require.Error(t, ClearHistory(schema.DatabaseBackend("oracle"), "", ""))
}

func TestMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrate.db")

	result, err := Migrate(schema.SQLiteBackend, path, -1)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, uint(2), result.ToVersion)

	result, err = Migrate(schema.SQLiteBackend, path, -1)
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Contains(t, result.String(), "already at version 2")

	result, err = Migrate(schema.SQLiteBackend, path, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), result.ToVersion)

	result, err = Migrate(schema.SQLiteBackend, path, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(0), result.ToVersion)

	_, err = Migrate(schema.NoneBackend, "", -1)
	require.Error(t, err)
}

func TestExport(t *testing.T) {
	store := newMemoryStore(t, 5)
	out := filepath.Join(t.TempDir(), "history")
	var buf bytes.Buffer

	require.ErrorIs(t, Export(store, out, &buf), ErrNoHistory)
	require.Error(t, Export(store, "", &buf))

	recordRun(t, store, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "M", 1, schema.GreenStatus)
	require.NoError(t, Export(store, out, &buf))
	assert.FileExists(t, out+".runs.parquet")
	assert.FileExists(t, out+".measurements.parquet")
	assert.Contains(t, buf.String(), "Exported 1 runs")
}

func TestExport_StoreErrors(t *testing.T) {
	store := &MockHistoryStore{}
	store.On("GetStatus").Return(schema.HistoryStatus{Backend: "mysql", TotalRuns: 3}, nil)
	store.On("GetAllRuns").Return(nil, assert.AnError)

	err := Export(store, filepath.Join(t.TempDir(), "x"), &bytes.Buffer{})
	require.ErrorIs(t, err, assert.AnError)
	store.AssertExpectations(t)
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintStatus(&buf, schema.HistoryStatus{Backend: "none"})
	assert.Equal(t, "History Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	PrintStatus(&buf, schema.HistoryStatus{
		Backend:           "sqlite",
		Connected:         true,
		TotalRuns:         2,
		LastRunID:         2,
		TotalMeasurements: 10,
		TableSizes:        map[string]int64{measurementsTable: 10, runsTable: 2},
	})
	out := buf.String()
	assert.Contains(t, out, "Total Runs: 2")
	assert.Contains(t, out, "Total Measurements: 10")
	assert.Contains(t, out, "Table Sizes:\n  qr_history_runs: 2 rows\n  qr_measurements: 10 rows\n")
	assert.Less(t, strings.Index(out, runsTable), strings.Index(out, measurementsTable))
}

func TestStoreManager(t *testing.T) {
	mgr := &StoreManager{}
	assert.Nil(t, mgr.GetHistoryStore())

	store := &MockHistoryStore{}
	mgr.store = store
	assert.Same(t, store, mgr.GetHistoryStore())

	mockMgr := &MockHistoryManager{}
	mockMgr.On("GetHistoryStore").Return(store)
	assert.Same(t, store, mockMgr.GetHistoryStore())
	mockMgr.AssertExpectations(t)

}

func TestDBTime_Scan(t *testing.T) {
	tests := []struct {
		name  string
		src   any
		want  time.Time
		valid bool
		err   bool
	}{
		{"nil", nil, time.Time{}, false, false},
		{"native", time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600)), time.Date(2024, 1, 2, 2, 4, 5, 0, time.UTC), true, false},
		{"rfc3339", "2024-01-02T03:04:05.123Z", time.Date(2024, 1, 2, 3, 4, 5, 123000000, time.UTC), true, false},
		{"mysql text", []byte("2024-01-02 03:04:05"), time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), true, false},
		{"garbage", "yesterday", time.Time{}, false, true},
		{"number", 42, time.Time{}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got dbTime
			err := got.Scan(tt.src)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.valid, got.Valid)
			assert.True(t, tt.want.Equal(got.Time))
		})
	}
}
