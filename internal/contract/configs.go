package contract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/ymmah/quality-report/schema"
)

// Default values for configuration.
const (
	DefaultMaxSubjectLength = 200
	DefaultHistorySize      = 20
	DefaultFailOn           = "red,missing_source"
	DefaultLogLevel         = "warning"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// validLogLevels lists the accepted --log values.
var validLogLevels = []string{"debug", "info", "warning", "error"}

// Config holds the runtime configuration for a report pass.
// This struct is the "final, validated" config.
type Config struct {
	ProjectFile      string
	Output           schema.OutputMode
	OutputFile       string
	MaxSubjectLength int
	Workers          int
	Width            int // Terminal width override (0 = auto-detect)
	UseColors        bool
	LogLevel         string

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext
	HistorySize      int

	MetricsFile string

	FailOn        []schema.Status
	StatusFilter  []schema.Status
	SubjectFilter string
	Watch         bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Project          string `mapstructure:"project"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	MaxSubjectLength int    `mapstructure:"max-subject-length"`
	Workers          int    `mapstructure:"workers"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	Log              string `mapstructure:"log"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	HistorySize      int    `mapstructure:"history-size"`
	MetricsFile      string `mapstructure:"metrics-file"`

	// --- Fields from reportCmd.Flags() ---
	Status  string `mapstructure:"status"`
	Subject string `mapstructure:"subject"`
	Watch   bool   `mapstructure:"watch"`

	// --- Fields from checkCmd.Flags() ---
	FailOn string `mapstructure:"fail-on"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.FailOn = slices.Clone(c.FailOn)
	clone.StatusFilter = slices.Clone(c.StatusFilter)
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := validateHistoryConfig(cfg, input); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := processStatusLists(cfg, input); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// RequireProjectFile checks that a project definition file was configured and exists.
// Only the commands that evaluate a project call this.
func RequireProjectFile(cfg *Config) error {
	if cfg.ProjectFile == "" {
		return fmt.Errorf("%w: --project is required", ErrInvalidConfig)
	}
	info, err := os.Stat(cfg.ProjectFile)
	if err != nil {
		return fmt.Errorf("%w: project definition %q: %w", ErrInvalidConfig, cfg.ProjectFile, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: project definition %q is a directory", ErrInvalidConfig, cfg.ProjectFile)
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
			return nil
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output and runtime fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Project != "" {
		cfg.ProjectFile = filepath.Clean(input.Project)
	}
	cfg.OutputFile = input.OutputFile
	cfg.MetricsFile = input.MetricsFile
	cfg.SubjectFilter = strings.TrimSpace(input.Subject)
	cfg.Watch = input.Watch

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	cfg.MaxSubjectLength = input.MaxSubjectLength
	if cfg.MaxSubjectLength == 0 {
		cfg.MaxSubjectLength = DefaultMaxSubjectLength
	}
	if cfg.MaxSubjectLength < 4 {
		return fmt.Errorf("max-subject-length must be at least 4")
	}

	cfg.Workers = input.Workers
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be greater than 0")
	}

	if input.Width < 0 {
		return fmt.Errorf("width must not be negative")
	}
	cfg.Width = input.Width

	if input.Color == "" {
		cfg.UseColors = true
	} else {
		colors, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
		cfg.UseColors = colors
	}

	cfg.LogLevel = strings.ToLower(input.Log)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if !slices.Contains(validLogLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level '%s'. must be one of %s", input.Log, strings.Join(validLogLevels, ", "))
	}
	return nil
}

// validateHistoryConfig validates the history backend configuration.
func validateHistoryConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	cfg.HistorySize = input.HistorySize
	if cfg.HistorySize == 0 {
		cfg.HistorySize = DefaultHistorySize
	}
	if cfg.HistorySize < 1 {
		return fmt.Errorf("history-size must be greater than 0")
	}
	return nil
}

// processStatusLists parses --fail-on and --status.
func processStatusLists(cfg *Config, input *ConfigRawInput) error {
	failOn := input.FailOn
	if failOn == "" {
		failOn = DefaultFailOn
	}
	statuses, err := schema.ParseStatusList(failOn)
	if err != nil {
		return fmt.Errorf("invalid --fail-on value: %w", err)
	}
	cfg.FailOn = statuses

	filter, err := schema.ParseStatusList(input.Status)
	if err != nil {
		return fmt.Errorf("invalid --status value: %w", err)
	}
	cfg.StatusFilter = filter
	return nil
}
