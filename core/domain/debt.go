package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TechnicalDebtTarget is a fixed accepted debt level.
type TechnicalDebtTarget struct {
	value       float64
	explanation string
}

// NewTechnicalDebtTarget creates a fixed debt target.
func NewTechnicalDebtTarget(value float64, explanation string) TechnicalDebtTarget {
	return TechnicalDebtTarget{value: value, explanation: explanation}
}

// TargetValue implements contract.DebtTarget.
func (t TechnicalDebtTarget) TargetValue(time.Time) float64 { return t.value }

// Explanation implements contract.DebtTarget.
func (t TechnicalDebtTarget) Explanation(_ time.Time, unit string) string {
	return explain(t.value, unit, t.explanation)
}

// DynamicTechnicalDebtTarget moves linearly from a start value to an end value
// between two dates and stays flat outside that period.
type DynamicTechnicalDebtTarget struct {
	startValue  float64
	startDate   time.Time
	endValue    float64
	endDate     time.Time
	explanation string
}

// NewDynamicTechnicalDebtTarget creates a date-interpolated debt target.
func NewDynamicTechnicalDebtTarget(startValue float64, startDate time.Time, endValue float64, endDate time.Time, explanation string) (*DynamicTechnicalDebtTarget, error) {
	if !endDate.After(startDate) {
		return nil, fmt.Errorf("debt target end date %s must be after start date %s",
			endDate.Format(time.DateOnly), startDate.Format(time.DateOnly))
	}
	return &DynamicTechnicalDebtTarget{
		startValue:  startValue,
		startDate:   startDate,
		endValue:    endValue,
		endDate:     endDate,
		explanation: explanation,
	}, nil
}

// TargetValue implements contract.DebtTarget.
func (t *DynamicTechnicalDebtTarget) TargetValue(now time.Time) float64 {
	switch {
	case !now.After(t.startDate):
		return t.startValue
	case !now.Before(t.endDate):
		return t.endValue
	}
	fraction := float64(now.Sub(t.startDate)) / float64(t.endDate.Sub(t.startDate))
	return t.startValue + fraction*(t.endValue-t.startValue)
}

// Explanation implements contract.DebtTarget with the value accepted at now.
func (t *DynamicTechnicalDebtTarget) Explanation(now time.Time, unit string) string {
	return explain(t.TargetValue(now), unit, t.explanation)
}

func explain(value float64, unit, explanation string) string {
	number := strconv.FormatFloat(math.Round(value*100)/100, 'f', -1, 64)
	switch {
	case unit == "":
	case strings.HasPrefix(unit, "%"):
		number += unit
	default:
		number += " " + unit
	}
	text := fmt.Sprintf("The currently accepted technical debt is %s.", number)
	if explanation != "" {
		text += " " + explanation
	}
	return text
}
