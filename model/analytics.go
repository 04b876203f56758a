package model

import "time"

// CheckEvent records a single text check for analytics
type CheckEvent struct {
	Sentences    int            `json:"sentences"`
	Tokens       int            `json:"tokens"`
	RuleHits     map[string]int `json:"rule_hits"`
	ResponseTime time.Duration  `json:"response_time"`
	Timestamp    time.Time      `json:"timestamp"`
}

// RuleHitStats aggregates matches reported by one rule
type RuleHitStats struct {
	RuleID  string  `json:"rule_id"`
	Hits    int     `json:"hits"`
	Percent float64 `json:"percent"`
}

// ResponseTimeDistribution represents response time distribution buckets
type ResponseTimeDistribution struct {
	Bucket0To5ms      int     `json:"bucket_0_5ms"`
	Bucket5To25ms     int     `json:"bucket_5_25ms"`
	Bucket25To100ms   int     `json:"bucket_25_100ms"`
	Bucket100msPlus   int     `json:"bucket_100ms_plus"`
	Percentage0To5    float64 `json:"percentage_0_5"`
	Percentage5To25   float64 `json:"percentage_5_25"`
	Percentage25To100 float64 `json:"percentage_25_100"`
	Percentage100Plus float64 `json:"percentage_100_plus"`
}

// CheckPerformanceHourly represents hourly check volume and latency
type CheckPerformanceHourly struct {
	Hour            int   `json:"hour"`
	CheckCount      int   `json:"check_count"`
	AvgResponseTime int64 `json:"avg_response_time"` // in milliseconds
}

// AnalyticsDashboard represents the complete analytics dashboard data
type AnalyticsDashboard struct {
	TotalChecks         int     `json:"total_checks"`
	ChecksChangePercent float64 `json:"checks_change_percent"`
	TotalMatches        int     `json:"total_matches"`
	MatchesPerSentence  float64 `json:"matches_per_sentence"`
	AvgResponseTime     int64   `json:"avg_response_time"` // in milliseconds

	CheckPerformance24h      []CheckPerformanceHourly `json:"check_performance_24h"`
	TopRules                 []RuleHitStats           `json:"top_rules"`
	ResponseTimeDistribution ResponseTimeDistribution `json:"response_time_distribution"`
}
