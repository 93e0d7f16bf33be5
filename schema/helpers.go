package schema

import (
	"fmt"
	"strings"
)

// CountStatuses tallies the statuses of the given results. Every known status
// is present in the returned map, with zero when no metric has it.
func CountStatuses(results []MetricResult) map[Status]int {
	counts := make(map[Status]int, len(AllStatuses))
	for _, s := range AllStatuses {
		counts[s] = 0
	}
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

// ParseStatusList parses a comma-separated list like "red,missing_source".
// Blank entries are skipped and duplicates collapsed, preserving first occurrence.
func ParseStatusList(s string) ([]Status, error) {
	var out []Status
	seen := make(map[Status]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		status := Status(part)
		if _, ok := ValidStatuses[status]; !ok {
			return nil, fmt.Errorf("invalid status %q", part)
		}
		if seen[status] {
			continue
		}
		seen[status] = true
		out = append(out, status)
	}
	return out, nil
}

// FilterByStatus returns the results whose status is in the given set.
// An empty set returns the input unchanged.
func FilterByStatus(results []MetricResult, statuses []Status) []MetricResult {
	if len(statuses) == 0 {
		return results
	}
	keep := make(map[Status]bool, len(statuses))
	for _, s := range statuses {
		keep[s] = true
	}
	filtered := make([]MetricResult, 0, len(results))
	for _, r := range results {
		if keep[r.Status] {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
