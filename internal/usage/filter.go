package usage

import (
	"sort"
	"strings"
	"time"

	"github.com/JavierSanzSaez/zama-technical-test/internal/models"
)

// Date layouts used by the raw series. Daily samples carry ISO dates,
// response-time samples may instead carry abbreviated "Oct 25" dates with no
// year, and hourly samples carry pre-formatted "15:04" labels.
const (
	isoDateLayout    = "2006-01-02"
	abbrevDateLayout = "Jan 2"
	hourMinuteLayout = "15:04"
	weekdayLayout    = "Mon, Jan 2"
)

// FilterByPeriod slices the series down to the period's window: samples are
// ordered descending by parsed calendar time, the most recent windowSize
// entries are kept, and the result is reversed back to chronological order.
// Ties sort arbitrarily; source timestamps are expected unique per sample.
//
// Callers wanting the one-day window should supply the hourly series via
// RequestSeries instead; this function never switches granularity.
func FilterByPeriod(series []models.UsagePoint, period Period) []models.UsagePoint {
	sorted := make([]models.UsagePoint, len(series))
	copy(sorted, series)

	sort.Slice(sorted, func(i, j int) bool {
		return parseSampleDate(sorted[i]).After(parseSampleDate(sorted[j]))
	})

	n := period.Days()
	if n > len(sorted) {
		n = len(sorted)
	}
	sorted = sorted[:n]

	// Back to chronological order for display.
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}

	return sorted
}

// RequestSeries produces the chart-ready request series for a period. The
// one-day period uses the hourly series as-is (its labels are already
// "15:04" strings); every other period filters the daily series and
// reformats its date labels for the window.
func RequestSeries(daily, hourly []models.UsagePoint, period Period) []models.ChartPoint {
	if period == PeriodOneDay {
		points := make([]models.ChartPoint, len(hourly))
		for i, p := range hourly {
			points[i] = models.ChartPoint{
				Date:      p.Date,
				Value:     float64(p.Requests),
				Timestamp: p.Timestamp,
			}
		}
		return points
	}

	filtered := FilterByPeriod(daily, period)
	points := make([]models.ChartPoint, len(filtered))
	for i, p := range filtered {
		points[i] = models.ChartPoint{
			Date:      formatDateLabel(p.Date, period),
			Value:     float64(p.Requests),
			Timestamp: p.Timestamp,
		}
	}
	return points
}

// ResponseTimeSeries produces the chart-ready latency series for a period,
// with the same granularity switch as RequestSeries: the one-day period
// sources the hourly samples' average latency, other periods filter the
// response-time trend series by timestamp.
func ResponseTimeSeries(hourly []models.UsagePoint, responseTimes []models.ResponseTimePoint, period Period) []models.ChartPoint {
	if period == PeriodOneDay {
		points := make([]models.ChartPoint, len(hourly))
		for i, p := range hourly {
			points[i] = models.ChartPoint{
				Date:      p.Date,
				Value:     p.AvgLatency,
				Timestamp: p.Timestamp,
			}
		}
		return points
	}

	sorted := make([]models.ResponseTimePoint, len(responseTimes))
	copy(sorted, responseTimes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp > sorted[j].Timestamp
	})

	n := period.Days()
	if n > len(sorted) {
		n = len(sorted)
	}
	sorted = sorted[:n]

	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}

	points := make([]models.ChartPoint, len(sorted))
	for i, p := range sorted {
		points[i] = models.ChartPoint{
			Date:      formatDateLabel(normalizeResponseTimeDate(p.Date), period),
			Value:     p.AvgResponseTime,
			Timestamp: p.Timestamp,
		}
	}
	return points
}

// parseSampleDate resolves a sample's calendar time for sorting. ISO dates
// parse directly; anything else falls back to the sample's timestamp so a
// pre-formatted label never breaks the ordering.
func parseSampleDate(p models.UsagePoint) time.Time {
	if t, err := time.Parse(isoDateLayout, p.Date); err == nil {
		return t
	}
	return time.UnixMilli(p.Timestamp)
}

// normalizeResponseTimeDate turns an abbreviated "Oct 25" date into an ISO
// date assuming the current year. ISO dates and pre-formatted labels pass
// through unchanged.
func normalizeResponseTimeDate(date string) string {
	if strings.Contains(date, "-") {
		return date
	}

	t, err := time.Parse(abbrevDateLayout, date)
	if err != nil {
		return date
	}

	return time.Date(time.Now().Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Format(isoDateLayout)
}

// formatDateLabel reformats an ISO date for the period's display convention:
// hour:minute for the one-day window, weekday plus month and day for a
// one-week window, month and day otherwise. Strings without the ISO
// separator are already display labels and pass through unmodified.
func formatDateLabel(date string, period Period) string {
	if !strings.Contains(date, "-") {
		return date
	}

	t, err := time.Parse(isoDateLayout, date)
	if err != nil {
		return date
	}

	switch period {
	case PeriodOneDay:
		return t.Format(hourMinuteLayout)
	case PeriodOneWeek:
		return t.Format(weekdayLayout)
	default:
		return t.Format(abbrevDateLayout)
	}
}
