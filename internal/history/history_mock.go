package history

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/schema"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetHistoryStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// RecentHistory implements the History interface.
func (m *MockHistoryStore) RecentHistory(stableID string) []float64 {
	args := m.Called(stableID)
	values, _ := args.Get(0).([]float64)
	return values
}

// StatusStartDate implements the History interface.
func (m *MockHistoryStore) StatusStartDate(stableID string, status schema.Status) time.Time {
	args := m.Called(stableID, status)
	return args.Get(0).(time.Time)
}

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(runUUID, project string, startTime time.Time) (int64, error) {
	args := m.Called(runUUID, project, startTime)
	return args.Get(0).(int64), args.Error(1)
}

// RecordMeasurements implements the HistoryStore interface.
func (m *MockHistoryStore) RecordMeasurements(runID int64, measurements []schema.Measurement) error {
	args := m.Called(runID, measurements)
	return args.Error(0)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID int64, endTime time.Time, totalMetrics int) error {
	args := m.Called(runID, endTime, totalMetrics)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllMeasurements implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllMeasurements() ([]schema.MeasurementRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.MeasurementRecord)
	return records, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
