package jobs

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gcbaptista/go-grammar-checker/model"
)

var (
	jobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grammar_checker_jobs_total",
		Help: "Background jobs by type and final outcome",
	}, []string{"type", "outcome"})

	jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "grammar_checker_job_duration_seconds",
		Help:    "Execution time of successful background jobs",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	}, []string{"type"})

	jobsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "grammar_checker_jobs_active",
		Help: "Jobs pending or running",
	})
)

// JobMetricsData is a point-in-time copy of the job counters
type JobMetricsData struct {
	JobsCreated          int64                     `json:"jobs_created"`
	JobsCompleted        int64                     `json:"jobs_completed"`
	JobsFailed           int64                     `json:"jobs_failed"`
	ActiveJobs           int64                     `json:"active_jobs"`
	SuccessRate          float64                   `json:"success_rate"`
	TotalExecutionTime   time.Duration             `json:"total_execution_time_ns"`
	AverageExecutionTime time.Duration             `json:"average_execution_time_ns"`
	JobsByType           map[model.JobType]int64   `json:"jobs_by_type"`
	JobsByStatus         map[model.JobStatus]int64 `json:"jobs_by_status"`
	LastUpdated          time.Time                 `json:"last_updated"`
}

// JobMetrics tracks job counters for the API and mirrors them to Prometheus
type JobMetrics struct {
	mu                 sync.RWMutex
	jobsCreated        int64
	jobsCompleted      int64
	jobsFailed         int64
	totalExecutionTime time.Duration
	jobsByType         map[model.JobType]int64
	jobsByStatus       map[model.JobStatus]int64
	lastUpdated        time.Time
}

// NewJobMetrics creates a new metrics collector
func NewJobMetrics() *JobMetrics {
	return &JobMetrics{
		jobsByType:   make(map[model.JobType]int64),
		jobsByStatus: make(map[model.JobStatus]int64),
		lastUpdated:  time.Now(),
	}
}

// RecordJobCreated increments job creation counter
func (m *JobMetrics) RecordJobCreated(jobType model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobsCreated++
	m.jobsByType[jobType]++
	m.jobsByStatus[model.JobStatusPending]++
	m.lastUpdated = time.Now()
	jobsActive.Inc()
}

// RecordJobStatusChange updates status counters
func (m *JobMetrics) RecordJobStatusChange(oldStatus, newStatus model.JobStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if oldStatus != "" {
		m.jobsByStatus[oldStatus]--
		if m.jobsByStatus[oldStatus] < 0 {
			m.jobsByStatus[oldStatus] = 0
		}
	}
	m.jobsByStatus[newStatus]++
	m.lastUpdated = time.Now()

	if isTerminal(newStatus) && !isTerminal(oldStatus) {
		jobsActive.Dec()
	}
}

func isTerminal(status model.JobStatus) bool {
	return status == model.JobStatusCompleted || status == model.JobStatusFailed || status == model.JobStatusCancelled
}

// RecordJobCompleted records successful job completion
func (m *JobMetrics) RecordJobCompleted(jobType model.JobType, executionTime time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobsCompleted++
	m.totalExecutionTime += executionTime
	m.lastUpdated = time.Now()

	jobsTotal.WithLabelValues(string(jobType), string(model.JobStatusCompleted)).Inc()
	jobDuration.WithLabelValues(string(jobType)).Observe(executionTime.Seconds())
}

// RecordJobFailed records job failure
func (m *JobMetrics) RecordJobFailed(jobType model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobsFailed++
	m.lastUpdated = time.Now()

	jobsTotal.WithLabelValues(string(jobType), string(model.JobStatusFailed)).Inc()
}

// GetMetrics returns a copy of the current counters
func (m *JobMetrics) GetMetrics() JobMetricsData {
	m.mu.RLock()
	defer m.mu.RUnlock()

	jobsByType := make(map[model.JobType]int64, len(m.jobsByType))
	for k, v := range m.jobsByType {
		jobsByType[k] = v
	}

	jobsByStatus := make(map[model.JobStatus]int64, len(m.jobsByStatus))
	for k, v := range m.jobsByStatus {
		jobsByStatus[k] = v
	}

	var average time.Duration
	if m.jobsCompleted > 0 {
		average = m.totalExecutionTime / time.Duration(m.jobsCompleted)
	}

	// No finished jobs counts as full success
	successRate := 1.0
	if finished := m.jobsCompleted + m.jobsFailed; finished > 0 {
		successRate = float64(m.jobsCompleted) / float64(finished)
	}

	return JobMetricsData{
		JobsCreated:          m.jobsCreated,
		JobsCompleted:        m.jobsCompleted,
		JobsFailed:           m.jobsFailed,
		ActiveJobs:           m.jobsByStatus[model.JobStatusPending] + m.jobsByStatus[model.JobStatusRunning],
		SuccessRate:          successRate,
		TotalExecutionTime:   m.totalExecutionTime,
		AverageExecutionTime: average,
		JobsByType:           jobsByType,
		JobsByStatus:         jobsByStatus,
		LastUpdated:          m.lastUpdated,
	}
}
