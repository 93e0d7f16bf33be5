package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// Status represents the traffic-light status of a metric.
	Status string

	// DatabaseBackend represents the database backend for the history store.
	DatabaseBackend string

	// SourceKind names a role a metric source plays for a project, e.g. BugTracker.
	SourceKind string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All metric statuses, in cascade order.
const (
	MissingSourceStatus Status = "missing_source"
	MissingStatus       Status = "missing"
	GreyStatus          Status = "grey"
	RedStatus           Status = "red"
	YellowStatus        Status = "yellow"
	PerfectStatus       Status = "perfect"
	GreenStatus         Status = "green" // default
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Source kinds known to the metric catalog.
const (
	BugTrackerSource               SourceKind = "BugTracker"
	SecurityBugTrackerSource       SourceKind = "SecurityBugTracker"
	StaticSecurityBugTrackerSource SourceKind = "StaticSecurityBugTracker"
	FindingTrackerSource           SourceKind = "FindingTracker"
	TechnicalDebtTrackerSource     SourceKind = "TechnicalDebtTracker"
	SonarSource                    SourceKind = "Sonar"
	JaCoCoSource                   SourceKind = "JaCoCo"
	SystemTestReportSource         SourceKind = "SystemTestReport"
	ZAPScanReportSource            SourceKind = "ZAPScanReport"
	TestDesignSource               SourceKind = "TestDesign"
)

// AllStatuses lists every status in cascade order, ending with the default.
var AllStatuses = []Status{
	MissingSourceStatus,
	MissingStatus,
	GreyStatus,
	RedStatus,
	YellowStatus,
	PerfectStatus,
	GreenStatus,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidStatuses lists all valid statuses.
var ValidStatuses = map[Status]struct{}{
	MissingSourceStatus: {},
	MissingStatus:       {},
	GreyStatus:          {},
	RedStatus:           {},
	YellowStatus:        {},
	PerfectStatus:       {},
	GreenStatus:         {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSourceKinds lists all source kinds a project definition may bind.
var ValidSourceKinds = map[SourceKind]struct{}{
	BugTrackerSource:               {},
	SecurityBugTrackerSource:       {},
	StaticSecurityBugTrackerSource: {},
	FindingTrackerSource:           {},
	TechnicalDebtTrackerSource:     {},
	SonarSource:                    {},
	JaCoCoSource:                   {},
	SystemTestReportSource:         {},
	ZAPScanReportSource:            {},
	TestDesignSource:               {},
}
