package usage

import (
	"fmt"
	"math"

	"github.com/JavierSanzSaez/zama-technical-test/internal/models"
)

// ChartKind names the metric a chart displays.
type ChartKind string

const (
	// ChartKindRequests is the request-count chart.
	ChartKindRequests ChartKind = "requests"
	// ChartKindResponseTime is the latency trend chart.
	ChartKindResponseTime ChartKind = "responseTime"
)

// Aggregate computes the summary statistics for a filtered series. An empty
// series yields all-zero fields with an error rate of "0.00"; the error rate
// is likewise "0.00" whenever the series has no requests, so the percentage
// never divides by zero.
func Aggregate(series []models.UsagePoint) models.UsageStats {
	if len(series) == 0 {
		return models.UsageStats{ErrorRate: "0.00"}
	}

	totalRequests := 0
	totalErrors := 0
	totalLatency := 0.0
	for _, p := range series {
		totalRequests += p.Requests
		totalErrors += p.Errors
		totalLatency += p.AvgLatency
	}

	errorRate := "0.00"
	if totalRequests > 0 {
		errorRate = fmt.Sprintf("%.2f", float64(totalErrors)/float64(totalRequests)*100)
	}

	return models.UsageStats{
		TotalRequests:   totalRequests,
		AverageRequests: int(math.Round(float64(totalRequests) / float64(len(series)))),
		TotalErrors:     totalErrors,
		AverageLatency:  int(math.Round(totalLatency / float64(len(series)))),
		ErrorRate:       errorRate,
	}
}

// ChartTitle produces the heading for a chart, naming the metric and the
// active window. The one-day period gets distinct hourly wording.
func ChartTitle(kind ChartKind, period Period) string {
	if period == PeriodOneDay {
		if kind == ChartKindRequests {
			return "Hourly Requests (Last 24 Hours)"
		}
		return "Response Time Trend (Last 24 Hours)"
	}

	if kind == ChartKindRequests {
		return fmt.Sprintf("Daily Requests (%s)", period.Description())
	}
	return fmt.Sprintf("Response Time Trend (%s)", period.Description())
}
