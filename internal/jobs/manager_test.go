package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-grammar-checker/internal/errors"
	testutil "github.com/gcbaptista/go-grammar-checker/internal/testing"
	"github.com/gcbaptista/go-grammar-checker/model"
)

func TestJobManager_CreateJob(t *testing.T) {
	manager := NewManager(2)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeBatchCheck, map[string]string{"texts": "3"})
	require.NotEmpty(t, jobID)

	job, err := manager.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobTypeBatchCheck, job.Type)
	assert.Equal(t, model.JobStatusPending, job.Status)
	assert.Equal(t, "3", job.Metadata["texts"])

	_, err = manager.GetJob("missing")
	assert.ErrorIs(t, err, errors.ErrJobNotFound)
}

func TestJobManager_ExecuteJob(t *testing.T) {
	manager := NewManager(2)
	manager.Start()
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeBatchCheck, nil)

	err := manager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		manager.UpdateJobProgress(job.ID, 1, 2, "checking")
		manager.UpdateJobProgress(job.ID, 2, 2, "done")
		return manager.SetJobResults(job.ID, []model.CheckResult{{RequestID: "a"}, {RequestID: "b"}})
	})
	require.NoError(t, err)

	job := testutil.WaitForJobCompletion(t, manager, jobID, testutil.DefaultJobPollingOptions())
	testutil.AssertJobCompleted(t, job, 2)
	require.NotNil(t, job.Progress)
	assert.Equal(t, 2, job.Progress.Current)
	assert.Equal(t, float64(100), job.Progress.GetProgressPercentage())

	err = manager.ExecuteJob(jobID, func(context.Context, *model.Job) error { return nil })
	assert.Error(t, err, "a finished job cannot run again")
}

func TestJobManager_FailedJob(t *testing.T) {
	manager := NewManager(1)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeBatchCheck, nil)
	require.NoError(t, manager.ExecuteJob(jobID, func(context.Context, *model.Job) error {
		return fmt.Errorf("lexicon closed")
	}))

	require.Eventually(t, func() bool {
		job, err := manager.GetJob(jobID)
		return err == nil && job.Status == model.JobStatusFailed
	}, time.Second, 5*time.Millisecond)

	job, err := manager.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, "lexicon closed", job.Error)
	assert.NotNil(t, job.CompletedAt)

	metrics := manager.GetMetrics()
	assert.Equal(t, int64(1), metrics.JobsFailed)
	assert.Equal(t, float64(0), metrics.SuccessRate)
	assert.Equal(t, int64(0), metrics.ActiveJobs)
}

func TestJobManager_ListJobs(t *testing.T) {
	manager := NewManager(1)
	defer manager.Stop()

	first := manager.CreateJob(model.JobTypeBatchCheck, nil)
	time.Sleep(time.Millisecond)
	second := manager.CreateJob(model.JobTypeBatchCheck, nil)

	require.NoError(t, manager.ExecuteJob(first, func(context.Context, *model.Job) error { return nil }))
	require.Eventually(t, func() bool {
		job, _ := manager.GetJob(first)
		return job.Status == model.JobStatusCompleted
	}, time.Second, 5*time.Millisecond)

	completed := model.JobStatusCompleted
	pending := model.JobStatusPending

	tests := []struct {
		name     string
		status   *model.JobStatus
		expected []string
	}{
		{name: "all jobs newest first", status: nil, expected: []string{second, first}},
		{name: "completed", status: &completed, expected: []string{first}},
		{name: "pending", status: &pending, expected: []string{second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := manager.ListJobs(tt.status)
			ids := make([]string, 0, len(jobs))
			for _, job := range jobs {
				ids = append(ids, job.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestJobManager_GetJobReturnsCopy(t *testing.T) {
	manager := NewManager(1)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeBatchCheck, nil)
	require.NoError(t, manager.SetJobResults(jobID, []model.CheckResult{{RequestID: "a"}}))
	manager.UpdateJobProgress(jobID, 0, 1, "queued")

	job, err := manager.GetJob(jobID)
	require.NoError(t, err)
	job.Results[0].RequestID = "changed"
	job.Progress.Message = "changed"

	again, err := manager.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, "a", again.Results[0].RequestID)
	assert.Equal(t, "queued", again.Progress.Message)

	assert.ErrorIs(t, manager.SetJobResults("missing", nil), errors.ErrJobNotFound)
}

func TestJobManager_CleanupOldJobs(t *testing.T) {
	manager := NewManager(1)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeBatchCheck, nil)
	require.NoError(t, manager.ExecuteJob(jobID, func(context.Context, *model.Job) error { return nil }))
	require.Eventually(t, func() bool {
		job, _ := manager.GetJob(jobID)
		return job.Status == model.JobStatusCompleted
	}, time.Second, 5*time.Millisecond)

	manager.CleanupOldJobs(time.Hour)
	_, err := manager.GetJob(jobID)
	assert.NoError(t, err, "recent jobs are kept")

	manager.CleanupOldJobs(0)
	_, err = manager.GetJob(jobID)
	assert.ErrorIs(t, err, errors.ErrJobNotFound)
}

func TestJobManager_StopIsIdempotent(t *testing.T) {
	manager := NewManager(1)
	manager.Start()
	manager.Stop()
	manager.Stop()

	jobID := manager.CreateJob(model.JobTypeBatchCheck, nil)
	// the only worker slot is free, so the job may still start; either way no panic
	_ = manager.ExecuteJob(jobID, func(context.Context, *model.Job) error { return nil })
	assert.Equal(t, int64(1), manager.GetMetrics().JobsCreated)
}
