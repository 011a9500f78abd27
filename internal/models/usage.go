package models

// UsagePoint is one dated sample of simulated API traffic. Two granularities
// exist in parallel: daily samples spanning the last month and hourly samples
// spanning the last day. Dates are "2006-01-02" for daily samples and "15:04"
// for hourly ones.
type UsagePoint struct {
	Date       string  `json:"date"`
	Requests   int     `json:"requests"`
	Errors     int     `json:"errors"`
	AvgLatency float64 `json:"avgLatency"`
	Timestamp  int64   `json:"timestamp"`
}

// ResponseTimePoint is one sample of the response-time trend series. Dates
// may arrive either as ISO dates ("2025-10-25") or abbreviated without a year
// ("Oct 25").
type ResponseTimePoint struct {
	Date            string  `json:"date"`
	AvgResponseTime float64 `json:"avgResponseTime"`
	Timestamp       int64   `json:"timestamp"`
}

// ChartPoint is a chart-ready labeled sample derived from the raw series.
type ChartPoint struct {
	Date      string  `json:"date"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
}

// EndpointUsage is the per-endpoint request breakdown shown on the dashboard.
type EndpointUsage struct {
	Endpoint   string  `json:"endpoint"`
	Requests   int     `json:"requests"`
	AvgLatency float64 `json:"avgLatency"`
}

// UsageStats is the derived aggregate for a filtered series. ErrorRate is a
// percentage rendered with exactly two decimals, "0.00" when the series has
// no requests.
type UsageStats struct {
	TotalRequests   int    `json:"totalRequests"`
	AverageRequests int    `json:"averageRequests"`
	TotalErrors     int    `json:"totalErrors"`
	AverageLatency  int    `json:"averageLatency"`
	ErrorRate       string `json:"errorRate"`
}

// SummaryStats is the headline card data of the dashboard.
type SummaryStats struct {
	RequestsToday     int    `json:"requestsToday"`
	RequestsThisMonth int    `json:"requestsThisMonth"`
	TotalRequests     int64  `json:"totalRequests"`
	AvgResponseTime   int    `json:"avgResponseTime"`
	ErrorRate         string `json:"errorRate"`
	ActiveAPIKeys     int    `json:"activeApiKeys"`
}

// UsageDataset is the bundled mock dataset feeding the usage endpoints.
type UsageDataset struct {
	DailyRequests  []UsagePoint        `json:"dailyRequests"`
	HourlyRequests []UsagePoint        `json:"hourlyRequests"`
	ResponseTimes  []ResponseTimePoint `json:"responseTimeData"`
	EndpointUsage  []EndpointUsage     `json:"endpointUsage"`
	Summary        SummaryStats        `json:"summaryStats"`
	GeneratedAt    string              `json:"generatedAt"`
}

// ChartSeriesResponse is the payload of the chart endpoints: labeled points
// plus the title matching the active period.
type ChartSeriesResponse struct {
	Title  string       `json:"title"`
	Period string       `json:"period"`
	Points []ChartPoint `json:"points"`
}
