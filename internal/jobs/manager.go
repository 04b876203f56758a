package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-grammar-checker/internal/errors"
	"github.com/gcbaptista/go-grammar-checker/model"
)

// Manager handles background job execution and tracking
type Manager struct {
	mu       sync.RWMutex
	jobs     map[string]*model.Job
	workers  chan struct{} // Limits concurrent jobs
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	metrics  *JobMetrics
}

// NewManager creates a new job manager with specified worker count
func NewManager(maxWorkers int) *Manager {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &Manager{
		jobs:     make(map[string]*model.Job),
		workers:  make(chan struct{}, maxWorkers),
		stopChan: make(chan struct{}),
		metrics:  NewJobMetrics(),
	}
}

// Start begins the job manager and starts background cleanup
func (m *Manager) Start() {
	slog.Info("job manager started", slog.Int("max_workers", cap(m.workers)))
	go m.cleanupRoutine()
}

// Stop gracefully shuts down the job manager. It is safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
		m.wg.Wait()
		slog.Info("job manager stopped")
	})
}

// CreateJob creates a new job and returns its ID
func (m *Manager) CreateJob(jobType model.JobType, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &model.Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    model.JobStatusPending,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}

	m.jobs[job.ID] = job
	m.metrics.RecordJobCreated(jobType)
	slog.Info("job created", slog.String("job_id", job.ID), slog.String("type", string(job.Type)))
	return job.ID
}

// GetJob retrieves a job by ID
func (m *Manager) GetJob(jobID string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, errors.NewJobNotFoundError(jobID)
	}
	return copyJob(job), nil
}

// ListJobs returns all jobs, newest first, optionally filtered by status
func (m *Manager) ListJobs(status *model.JobStatus) []*model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		if status == nil || job.Status == *status {
			result = append(result, copyJob(job))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// copyJob returns a copy that shares nothing mutable with the stored job
func copyJob(job *model.Job) *model.Job {
	jobCopy := *job
	if job.Progress != nil {
		progressCopy := *job.Progress
		jobCopy.Progress = &progressCopy
	}
	if job.Results != nil {
		jobCopy.Results = make([]model.CheckResult, len(job.Results))
		copy(jobCopy.Results, job.Results)
	}
	return &jobCopy
}

// ExecuteJob runs a job function in a goroutine with proper tracking
func (m *Manager) ExecuteJob(jobID string, jobFunc func(ctx context.Context, job *model.Job) error) error {
	m.mu.Lock()
	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return errors.NewJobNotFoundError(jobID)
	}

	if job.Status != model.JobStatusPending {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is not in pending status (current: %s)", jobID, job.Status)
	}

	oldStatus := job.Status
	job.Status = model.JobStatusRunning
	now := time.Now()
	job.StartedAt = &now
	jobType := job.Type
	snapshot := copyJob(job)
	m.metrics.RecordJobStatusChange(oldStatus, job.Status)
	m.mu.Unlock()

	// Acquire worker slot
	select {
	case m.workers <- struct{}{}:
	case <-m.stopChan:
		m.updateJobStatus(jobID, model.JobStatusCancelled, "Job manager shutting down")
		return fmt.Errorf("job manager is shutting down")
	}

	m.wg.Add(1)
	go func() {
		defer func() {
			<-m.workers
			m.wg.Done()
		}()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			select {
			case <-m.stopChan:
				cancel()
			case <-ctx.Done():
			}
		}()

		startTime := time.Now()
		err := jobFunc(ctx, snapshot)
		executionTime := time.Since(startTime)

		// Counters first so that a finished status implies updated metrics
		if err != nil {
			m.metrics.RecordJobFailed(jobType)
			m.updateJobStatus(jobID, model.JobStatusFailed, err.Error())
			slog.Warn("job failed",
				slog.String("job_id", jobID),
				slog.Duration("duration", executionTime),
				slog.String("error", err.Error()))
		} else {
			m.metrics.RecordJobCompleted(jobType, executionTime)
			m.updateJobStatus(jobID, model.JobStatusCompleted, "")
			slog.Info("job completed", slog.String("job_id", jobID), slog.Duration("duration", executionTime))
		}
	}()

	return nil
}

// UpdateJobProgress updates the progress of a running job
func (m *Manager) UpdateJobProgress(jobID string, current, total int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}

	if job.Progress == nil {
		job.Progress = &model.JobProgress{}
	}

	job.Progress.Current = current
	job.Progress.Total = total
	job.Progress.Message = message
}

// SetJobResults stores the check results of a job
func (m *Manager) SetJobResults(jobID string, results []model.CheckResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return errors.NewJobNotFoundError(jobID)
	}
	job.Results = results
	return nil
}

// updateJobStatus updates the status of a job (internal method)
func (m *Manager) updateJobStatus(jobID string, status model.JobStatus, errorMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}

	oldStatus := job.Status
	job.Status = status
	if errorMsg != "" {
		job.Error = errorMsg
	}

	if status == model.JobStatusCompleted || status == model.JobStatusFailed || status == model.JobStatusCancelled {
		now := time.Now()
		job.CompletedAt = &now
	}

	m.metrics.RecordJobStatusChange(oldStatus, status)
}

// cleanupRoutine runs periodic job cleanup
func (m *Manager) cleanupRoutine() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupOldJobs(24 * time.Hour)
		case <-m.stopChan:
			return
		}
	}
}

// CleanupOldJobs removes completed jobs older than the specified duration
func (m *Manager) CleanupOldJobs(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	cleaned := 0

	for jobID, job := range m.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, jobID)
			cleaned++
		}
	}

	if cleaned > 0 {
		slog.Info("cleaned up old jobs", slog.Int("count", cleaned))
	}
}

// GetMetrics returns current job performance metrics
func (m *Manager) GetMetrics() JobMetricsData {
	return m.metrics.GetMetrics()
}
