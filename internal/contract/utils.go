package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/ymmah/quality-report/schema"
)

// Color variables for console output.
var (
	RedColor           = color.New(color.FgRed, color.Bold)
	YellowColor        = color.New(color.FgYellow)
	GreenColor         = color.New(color.FgGreen)
	PerfectColor       = color.New(color.FgGreen, color.Bold)
	GreyColor          = color.New(color.FgHiBlack)
	MissingColor       = color.New(color.FgMagenta)
	MissingSourceColor = color.New(color.FgMagenta, color.Bold)
)

// GetPlainLabel returns the plain text label for a status. This is the core
// logic used for CSV, JSON, and table printing.
func GetPlainLabel(status schema.Status) string {
	switch status {
	case schema.MissingSourceStatus:
		return "Missing source"
	case schema.MissingStatus:
		return "Missing"
	case schema.GreyStatus:
		return "Accepted debt"
	case schema.RedStatus:
		return "Red"
	case schema.YellowStatus:
		return "Yellow"
	case schema.PerfectStatus:
		return "Perfect"
	default:
		return "Green"
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(status schema.Status) string {
	text := GetPlainLabel(status)

	switch status {
	case schema.MissingSourceStatus:
		return MissingSourceColor.Sprint(text)
	case schema.MissingStatus:
		return MissingColor.Sprint(text)
	case schema.GreyStatus:
		return GreyColor.Sprint(text)
	case schema.RedStatus:
		return RedColor.Sprint(text)
	case schema.YellowStatus:
		return YellowColor.Sprint(text)
	case schema.PerfectStatus:
		return PerfectColor.Sprint(text)
	default:
		return GreenColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".quality_report_history.db"
	}
	return filepath.Join(homeDir, ".quality_report_history.db")
}

// TruncateText shortens text to at most maxLength runes, ending with "...".
// Requires maxLength > 3 so that at least one character of content remains.
func TruncateText(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) > maxLength && maxLength > 3 {
		return string(runes[:maxLength-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
