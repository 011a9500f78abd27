// Package usage implements the time-period filtering, aggregation, and
// chart-shaping logic behind the console's usage analytics. All operations
// are pure over the raw series: input data is never mutated, only read and
// transformed into derived views, recomputed on every period change.
package usage

import "fmt"

// Period selects how much recent history the usage views display.
type Period string

const (
	// PeriodOneDay shows the last 24 hours at hourly granularity.
	PeriodOneDay Period = "oneDay"
	// PeriodOneWeek shows the last 7 days at daily granularity.
	PeriodOneWeek Period = "oneWeek"
	// PeriodThirtyDays shows the last 30 days at daily granularity.
	PeriodThirtyDays Period = "thirtyDays"
)

// DefaultPeriod is what the dashboard opens with.
const DefaultPeriod = PeriodThirtyDays

type periodInfo struct {
	days        int
	label       string
	description string
}

var periods = map[Period]periodInfo{
	PeriodOneDay:     {days: 1, label: "1D", description: "Last 24 Hours"},
	PeriodOneWeek:    {days: 7, label: "1W", description: "Last 7 Days"},
	PeriodThirtyDays: {days: 30, label: "30D", description: "Last 30 Days"},
}

// Periods returns the selectable periods in display order.
func Periods() []Period {
	return []Period{PeriodOneDay, PeriodOneWeek, PeriodThirtyDays}
}

// ParsePeriod converts a query-string value into a Period. The empty string
// maps to the default; anything else unknown is an error.
func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return DefaultPeriod, nil
	}

	p := Period(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown period %q", s)
	}
	return p, nil
}

// Valid reports whether the period is one of the known values.
func (p Period) Valid() bool {
	_, ok := periods[p]
	return ok
}

// Days is the window size of the period in days.
func (p Period) Days() int {
	return periods[p].days
}

// Label is the short tab label ("1D", "1W", "30D").
func (p Period) Label() string {
	return periods[p].label
}

// Description is the human window description ("Last 7 Days").
func (p Period) Description() string {
	return periods[p].description
}
