package usage

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/JavierSanzSaez/zama-technical-test/internal/models"
)

const (
	dailySampleCount        = 30
	hourlySampleCount       = 24
	responseTimeSampleCount = 30
)

var generatedEndpoints = []struct {
	endpoint string
	share    float64
}{
	{"/api/v1/encrypt", 0.35},
	{"/api/v1/decrypt", 0.28},
	{"/api/v1/compute", 0.19},
	{"/api/v1/keys", 0.11},
	{"/api/v1/status", 0.07},
}

// Generate produces a randomized dataset anchored at now, in the same shape
// as the bundled one. The daily series ends yesterday, the hourly series
// covers the 24 hours before now, and the latency series deliberately uses
// abbreviated month-day labels so the label normalization paths stay
// exercised end to end.
func Generate(now time.Time, rng *rand.Rand) *models.UsageDataset {
	data := &models.UsageDataset{
		DailyRequests:  make([]models.UsagePoint, 0, dailySampleCount),
		HourlyRequests: make([]models.UsagePoint, 0, hourlySampleCount),
		ResponseTimes:  make([]models.ResponseTimePoint, 0, responseTimeSampleCount),
		GeneratedAt:    now.UTC().Format(time.RFC3339),
	}

	day := now.AddDate(0, 0, -dailySampleCount)
	for i := 0; i < dailySampleCount; i++ {
		day = day.AddDate(0, 0, 1)
		requests := 8000 + rng.Intn(6000)
		errors := int(float64(requests) * (0.004 + rng.Float64()*0.015))
		data.DailyRequests = append(data.DailyRequests, models.UsagePoint{
			Date:       day.Format(isoDateLayout),
			Requests:   requests,
			Errors:     errors,
			AvgLatency: roundTenth(70 + rng.Float64()*80),
			Timestamp:  day.UnixMilli(),
		})
	}

	hour := now.Truncate(time.Hour).Add(-hourlySampleCount * time.Hour)
	for i := 0; i < hourlySampleCount; i++ {
		hour = hour.Add(time.Hour)
		requests := 250 + rng.Intn(450)
		data.HourlyRequests = append(data.HourlyRequests, models.UsagePoint{
			Date:       hour.Format(hourMinuteLayout),
			Requests:   requests,
			Errors:     rng.Intn(requests/40 + 1),
			AvgLatency: roundTenth(65 + rng.Float64()*90),
			Timestamp:  hour.UnixMilli(),
		})
	}

	day = now.AddDate(0, 0, -responseTimeSampleCount)
	for i := 0; i < responseTimeSampleCount; i++ {
		day = day.AddDate(0, 0, 1)
		data.ResponseTimes = append(data.ResponseTimes, models.ResponseTimePoint{
			Date:            day.Format(abbrevDateLayout),
			AvgResponseTime: roundTenth(70 + rng.Float64()*85),
			Timestamp:       day.UnixMilli(),
		})
	}

	var totalRequests, totalErrors int
	var latencySum float64
	for _, point := range data.DailyRequests {
		totalRequests += point.Requests
		totalErrors += point.Errors
		latencySum += point.AvgLatency
	}

	for _, spec := range generatedEndpoints {
		data.EndpointUsage = append(data.EndpointUsage, models.EndpointUsage{
			Endpoint:   spec.endpoint,
			Requests:   int(float64(totalRequests) * spec.share),
			AvgLatency: roundTenth(60 + rng.Float64()*100),
		})
	}

	var requestsToday int
	for _, point := range data.HourlyRequests {
		requestsToday += point.Requests
	}

	errorRate := "0.00"
	if totalRequests > 0 {
		errorRate = fmt.Sprintf("%.2f", float64(totalErrors)/float64(totalRequests)*100)
	}

	data.Summary = models.SummaryStats{
		RequestsToday:     requestsToday,
		RequestsThisMonth: totalRequests,
		TotalRequests:     int64(totalRequests) * 6,
		AvgResponseTime:   int(math.Round(latencySum / float64(len(data.DailyRequests)))),
		ErrorRate:         errorRate,
		ActiveAPIKeys:     0,
	}

	return data
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
