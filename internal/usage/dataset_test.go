package usage_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JavierSanzSaez/zama-technical-test/internal/usage"
)

func TestLoadDataset(t *testing.T) {
	data, err := usage.LoadDataset()
	require.NoError(t, err)

	assert.Len(t, data.DailyRequests, 30)
	assert.Len(t, data.HourlyRequests, 24)
	assert.Len(t, data.ResponseTimes, 30)
	assert.NotEmpty(t, data.EndpointUsage)
	assert.NotEmpty(t, data.GeneratedAt)
	assert.Positive(t, data.Summary.TotalRequests)
}

func TestServiceQueries(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	svc, err := usage.NewService(logger)
	require.NoError(t, err)

	t.Run("requests_per_period", func(t *testing.T) {
		oneDay := svc.Requests(usage.PeriodOneDay)
		assert.Equal(t, "Hourly Requests (Last 24 Hours)", oneDay.Title)
		assert.Len(t, oneDay.Points, 24)

		week := svc.Requests(usage.PeriodOneWeek)
		assert.Equal(t, "Daily Requests (Last 7 Days)", week.Title)
		assert.Len(t, week.Points, 7)

		month := svc.Requests(usage.PeriodThirtyDays)
		assert.Len(t, month.Points, 30)
	})

	t.Run("response_times_per_period", func(t *testing.T) {
		oneDay := svc.ResponseTimes(usage.PeriodOneDay)
		assert.Len(t, oneDay.Points, 24)

		week := svc.ResponseTimes(usage.PeriodOneWeek)
		assert.Len(t, week.Points, 7)
	})

	t.Run("stats_switch_granularity", func(t *testing.T) {
		hourly := svc.Stats(usage.PeriodOneDay)
		daily := svc.Stats(usage.PeriodThirtyDays)

		assert.Positive(t, hourly.TotalRequests)
		assert.Positive(t, daily.TotalRequests)
		// The 24-hour window is a fraction of a month of traffic
		assert.Less(t, hourly.TotalRequests, daily.TotalRequests)
	})

	t.Run("summary_overrides_key_count", func(t *testing.T) {
		summary := svc.Summary(4)
		assert.Equal(t, 4, summary.ActiveAPIKeys)
		assert.Positive(t, summary.TotalRequests)
	})
}

func TestGenerate(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	data := usage.Generate(now, rand.New(rand.NewSource(1)))

	require.Len(t, data.DailyRequests, 30)
	require.Len(t, data.HourlyRequests, 24)
	require.Len(t, data.ResponseTimes, 30)
	require.Len(t, data.EndpointUsage, 5)

	for i := 1; i < len(data.DailyRequests); i++ {
		assert.Less(t, data.DailyRequests[i-1].Timestamp, data.DailyRequests[i].Timestamp)
	}

	for _, p := range data.DailyRequests {
		_, err := time.Parse("2006-01-02", p.Date)
		assert.NoError(t, err)
		assert.Positive(t, p.Requests)
		assert.LessOrEqual(t, p.Errors, p.Requests)
	}

	for _, p := range data.HourlyRequests {
		_, err := time.Parse("15:04", p.Date)
		assert.NoError(t, err)
	}

	// Trend dates deliberately omit the year
	for _, p := range data.ResponseTimes {
		_, err := time.Parse("Jan 2", p.Date)
		assert.NoError(t, err)
	}

	assert.Positive(t, data.Summary.RequestsToday)
	assert.NotEmpty(t, data.Summary.ErrorRate)
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	a := usage.Generate(now, rand.New(rand.NewSource(7)))
	b := usage.Generate(now, rand.New(rand.NewSource(7)))

	assert.Equal(t, a.DailyRequests, b.DailyRequests)
	assert.Equal(t, a.Summary, b.Summary)
}
