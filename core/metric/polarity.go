package metric

import (
	"fmt"
	"strings"
)

// Polarity decides in which direction a metric value improves.
type Polarity int

// Supported polarities.
const (
	LowerIsBetter Polarity = iota + 1
	HigherIsBetter
	LowerPercentageIsBetter
	HigherPercentageIsBetter
)

var polarityNames = map[Polarity]string{
	LowerIsBetter:            "LowerIsBetter",
	HigherIsBetter:           "HigherIsBetter",
	LowerPercentageIsBetter:  "LowerPercentageIsBetter",
	HigherPercentageIsBetter: "HigherPercentageIsBetter",
}

// String returns the polarity name.
func (p Polarity) String() string {
	if name, ok := polarityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Polarity(%d)", int(p))
}

// Valid reports whether p is one of the supported polarities.
func (p Polarity) Valid() bool {
	_, ok := polarityNames[p]
	return ok
}

// ParsePolarity parses a polarity name, case-insensitively.
func ParsePolarity(s string) (Polarity, error) {
	for p, name := range polarityNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown polarity %q", s)
}

// IsBetter reports whether value is at least as good as target.
func (p Polarity) IsBetter(value, target float64) bool {
	switch p {
	case HigherIsBetter, HigherPercentageIsBetter:
		return value >= target
	default:
		return value <= target
	}
}

// DefaultPerfect returns the perfect value implied by the polarity, if any.
func (p Polarity) DefaultPerfect() (float64, bool) {
	switch p {
	case LowerIsBetter, LowerPercentageIsBetter:
		return 0, true
	case HigherPercentageIsBetter:
		return 100, true
	default:
		return 0, false
	}
}

// Percentage computes 100 * numerator / denominator. Either operand being -1
// yields -1. A zero denominator yields the polarity's best value for an empty
// population: 0 for lower-is-better, 100 for higher-is-better.
func (p Polarity) Percentage(numerator, denominator float64) float64 {
	if numerator == -1 || denominator == -1 {
		return -1
	}
	if denominator == 0 {
		if p == HigherPercentageIsBetter || p == HigherIsBetter {
			return 100
		}
		return 0
	}
	return 100 * numerator / denominator
}
