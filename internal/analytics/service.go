// Package analytics aggregates check statistics for the dashboard.
package analytics

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gcbaptista/go-grammar-checker/internal/persistence"
	"github.com/gcbaptista/go-grammar-checker/model"
)

const (
	analyticsDataFile = "analytics.gob"
	maxEventsToKeep   = 10000 // Keep last 10k events for performance
	topRulesLimit     = 5
)

// Service implements the services.Analytics interface
type Service struct {
	mutex        sync.RWMutex
	events       []model.CheckEvent
	dataFilePath string
	now          func() time.Time
}

// NewService creates a new analytics service. Events are persisted to
// dataDir by Flush; an empty dataDir keeps them in memory only.
func NewService(dataDir string) *Service {
	service := &Service{
		events: make([]model.CheckEvent, 0),
		now:    time.Now,
	}
	if dataDir != "" {
		service.dataFilePath = filepath.Join(dataDir, analyticsDataFile)
	}

	if err := service.loadData(); err != nil {
		slog.Warn("failed to load analytics data", slog.String("error", err.Error()))
	}

	return service
}

// TrackCheck records a new check event. A zero timestamp is set to now.
func (s *Service) TrackCheck(event model.CheckEvent) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > maxEventsToKeep {
		s.events = s.events[len(s.events)-maxEventsToKeep:]
	}
}

// GetDashboard returns the dashboard for the last 24 hours; rule rankings
// cover the last week.
func (s *Service) GetDashboard() *model.AnalyticsDashboard {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	now := s.now()
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	last24hEvents := filterEventsByTimeRange(s.events, yesterday, now)
	prev24hEvents := filterEventsByTimeRange(s.events, yesterday.Add(-24*time.Hour), yesterday)
	lastWeekEvents := filterEventsByTimeRange(s.events, lastWeek, now)

	matches, sentences := 0, 0
	for _, event := range last24hEvents {
		matches += countHits(event)
		sentences += event.Sentences
	}

	dashboard := &model.AnalyticsDashboard{
		TotalChecks:              len(last24hEvents),
		ChecksChangePercent:      calculateChangePercent(len(last24hEvents), len(prev24hEvents)),
		TotalMatches:             matches,
		AvgResponseTime:          calculateAvgResponseTime(last24hEvents),
		CheckPerformance24h:      getHourlyPerformance(last24hEvents),
		TopRules:                 getTopRules(lastWeekEvents),
		ResponseTimeDistribution: getResponseTimeDistribution(last24hEvents),
	}
	if sentences > 0 {
		dashboard.MatchesPerSentence = float64(matches) / float64(sentences)
	}
	return dashboard
}

// filterEventsByTimeRange returns events within (start, end]
func filterEventsByTimeRange(events []model.CheckEvent, start, end time.Time) []model.CheckEvent {
	var filtered []model.CheckEvent
	for _, event := range events {
		if event.Timestamp.After(start) && !event.Timestamp.After(end) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

func countHits(event model.CheckEvent) int {
	total := 0
	for _, hits := range event.RuleHits {
		total += hits
	}
	return total
}

// calculateChangePercent calculates percentage change between current and previous values
func calculateChangePercent(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100.0
		}
		return 0.0
	}
	return float64(current-previous) / float64(previous) * 100.0
}

// calculateAvgResponseTime calculates average response time for events in milliseconds
func calculateAvgResponseTime(events []model.CheckEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	return (total / time.Duration(len(events))).Milliseconds()
}

// getHourlyPerformance returns check volume per hour of day
func getHourlyPerformance(events []model.CheckEvent) []model.CheckPerformanceHourly {
	hourlyData := make(map[int][]model.CheckEvent)
	for _, event := range events {
		hour := event.Timestamp.Hour()
		hourlyData[hour] = append(hourlyData[hour], event)
	}

	performance := make([]model.CheckPerformanceHourly, 0, 24)
	for hour := 0; hour < 24; hour++ {
		performance = append(performance, model.CheckPerformanceHourly{
			Hour:            hour,
			CheckCount:      len(hourlyData[hour]),
			AvgResponseTime: calculateAvgResponseTime(hourlyData[hour]),
		})
	}
	return performance
}

// getTopRules returns the rules reporting the most matches, ties by ID
func getTopRules(events []model.CheckEvent) []model.RuleHitStats {
	ruleCounts := make(map[string]int)
	total := 0
	for _, event := range events {
		for ruleID, hits := range event.RuleHits {
			ruleCounts[ruleID] += hits
			total += hits
		}
	}

	rules := make([]model.RuleHitStats, 0, len(ruleCounts))
	for ruleID, hits := range ruleCounts {
		if hits == 0 {
			continue
		}
		rules = append(rules, model.RuleHitStats{
			RuleID:  ruleID,
			Hits:    hits,
			Percent: float64(hits) / float64(total) * 100,
		})
	}

	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Hits != rules[j].Hits {
			return rules[i].Hits > rules[j].Hits
		}
		return rules[i].RuleID < rules[j].RuleID
	})

	if len(rules) > topRulesLimit {
		rules = rules[:topRulesLimit]
	}
	return rules
}

// getResponseTimeDistribution returns response time distribution
func getResponseTimeDistribution(events []model.CheckEvent) model.ResponseTimeDistribution {
	dist := model.ResponseTimeDistribution{}
	total := len(events)
	if total == 0 {
		return dist
	}

	for _, event := range events {
		ms := event.ResponseTime.Milliseconds()
		switch {
		case ms <= 5:
			dist.Bucket0To5ms++
		case ms <= 25:
			dist.Bucket5To25ms++
		case ms <= 100:
			dist.Bucket25To100ms++
		default:
			dist.Bucket100msPlus++
		}
	}

	dist.Percentage0To5 = float64(dist.Bucket0To5ms) / float64(total) * 100
	dist.Percentage5To25 = float64(dist.Bucket5To25ms) / float64(total) * 100
	dist.Percentage25To100 = float64(dist.Bucket25To100ms) / float64(total) * 100
	dist.Percentage100Plus = float64(dist.Bucket100msPlus) / float64(total) * 100

	return dist
}

// Flush writes the recorded events to disk. It is a no-op without a data directory.
func (s *Service) Flush() error {
	if s.dataFilePath == "" {
		return nil
	}

	s.mutex.RLock()
	events := make([]model.CheckEvent, len(s.events))
	copy(events, s.events)
	s.mutex.RUnlock()

	if err := persistence.SaveGob(s.dataFilePath, events); err != nil {
		return fmt.Errorf("failed to save analytics data: %w", err)
	}
	return nil
}

// loadData loads analytics data from file
func (s *Service) loadData() error {
	if s.dataFilePath == "" {
		return nil
	}

	var events []model.CheckEvent
	if err := persistence.LoadGob(s.dataFilePath, &events); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	s.events = events
	return nil
}
