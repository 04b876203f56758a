package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gcbaptista/go-grammar-checker/internal/errors"
	"github.com/gcbaptista/go-grammar-checker/internal/jobs"
	"github.com/gcbaptista/go-grammar-checker/model"
)

// CheckBatchAsync checks texts in a background job and returns the job ID.
// Results are stored on the job in input order.
func (e *Engine) CheckBatchAsync(texts []string, ruleIDs []string) (string, error) {
	if len(texts) == 0 {
		return "", errors.NewValidationError("texts", "at least one text is required")
	}
	if len(texts) > e.maxBatchTexts {
		return "", errors.NewValidationError("texts", fmt.Sprintf("at most %d texts are allowed per batch", e.maxBatchTexts))
	}
	// Unknown rules fail now instead of inside the job
	if _, err := e.registry.Active(ruleIDs); err != nil {
		return "", err
	}

	metadata := map[string]string{
		"operation": "batch_check",
		"texts":     strconv.Itoa(len(texts)),
	}
	if len(ruleIDs) > 0 {
		metadata["rules"] = strings.Join(ruleIDs, ",")
	}
	jobID := e.jobManager.CreateJob(model.JobTypeBatchCheck, metadata)

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.executeBatchCheckJob(ctx, jobID, texts, ruleIDs)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start batch check job: %w", err)
	}

	return jobID, nil
}

// executeBatchCheckJob checks the texts one by one, reporting progress
func (e *Engine) executeBatchCheckJob(ctx context.Context, jobID string, texts []string, ruleIDs []string) error {
	results := make([]model.CheckResult, 0, len(texts))
	e.jobManager.UpdateJobProgress(jobID, 0, len(texts), "Checking texts")

	for i, text := range texts {
		result, err := e.Check(ctx, text, ruleIDs)
		if err != nil {
			return fmt.Errorf("failed to check text %d: %w", i, err)
		}
		results = append(results, *result)
		e.jobManager.UpdateJobProgress(jobID, i+1, len(texts), fmt.Sprintf("Checked %d of %d texts", i+1, len(texts)))
	}

	return e.jobManager.SetJobResults(jobID, results)
}

// GetJob retrieves a background job
func (e *Engine) GetJob(jobID string) (*model.Job, error) {
	return e.jobManager.GetJob(jobID)
}

// ListJobs lists background jobs, optionally filtered by status
func (e *Engine) ListJobs(status *model.JobStatus) []*model.Job {
	return e.jobManager.ListJobs(status)
}

// GetJobMetrics returns the job counters
func (e *Engine) GetJobMetrics() jobs.JobMetricsData {
	return e.jobManager.GetMetrics()
}
