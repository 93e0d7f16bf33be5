package schema

import "time"

// Measurement is a single (metric, status, timestamp) point appended to history.
type Measurement struct {
	StableID   string
	Value      float64
	Status     Status
	MeasuredAt time.Time
}

// RunRecord represents a row from the qr_history_runs table.
type RunRecord struct {
	RunID         int64
	RunUUID       string
	Project       string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalMetrics  int32
}

// MeasurementRecord represents a row from the qr_measurements table.
type MeasurementRecord struct {
	RunID      int64
	StableID   string
	Value      float64
	Status     string
	MeasuredAt time.Time
}
