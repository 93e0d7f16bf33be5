// Package schema has models and typed constants shared by all parts of quality-report.
package schema

import "time"

// MetricResult is the rendered outcome of evaluating one metric for one subject.
type MetricResult struct {
	ID            string            `json:"id"`
	StableID      string            `json:"stable_id"`
	Kind          string            `json:"kind"`
	Name          string            `json:"name"`
	Subject       string            `json:"subject"`
	Status        Status            `json:"status"`
	Value         float64           `json:"value"`
	Target        float64           `json:"target"`
	LowTarget     float64           `json:"low_target"`
	Report        string            `json:"report"`
	Norm          string            `json:"norm"`
	Comment       string            `json:"comment,omitempty"`
	URLs          map[string]string `json:"urls,omitempty"`
	StatusSince   *time.Time        `json:"status_since,omitempty"`
	RecentHistory []int             `json:"recent_history,omitempty"`
	YAxisMin      int               `json:"y_axis_min"`
	YAxisMax      int               `json:"y_axis_max"`
}

// ReportResult is the outcome of one report generation pass.
type ReportResult struct {
	RunID        string         `json:"run_id"`
	Project      string         `json:"project"`
	Organization string         `json:"organization"`
	Generated    time.Time      `json:"generated"`
	Metrics      []MetricResult `json:"metrics"`
	StatusCounts map[Status]int `json:"status_counts"`
}

// MetricKindInfo describes a metric kind from the catalog, without a subject.
type MetricKindInfo struct {
	Kind        string       `json:"kind"`
	Name        string       `json:"name"`
	Unit        string       `json:"unit"`
	Polarity    string       `json:"polarity"`
	Target      float64      `json:"target"`
	LowTarget   float64      `json:"low_target"`
	Norm        string       `json:"norm"`
	SourceKinds []SourceKind `json:"source_kinds,omitempty"`
}

// CheckResult is the outcome of a gating check over a report pass.
type CheckResult struct {
	Passed   bool           `json:"passed"`
	FailOn   []Status       `json:"fail_on"`
	Failed   []MetricResult `json:"failed"`
	Total    int            `json:"total"`
	Counts   map[Status]int `json:"counts"`
	Project  string         `json:"project"`
	Duration time.Duration  `json:"duration"`
}
