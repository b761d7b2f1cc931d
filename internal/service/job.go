// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/careerhub/careerhub/internal/metrics"
	"github.com/careerhub/careerhub/internal/model"
	"github.com/careerhub/careerhub/internal/repository"
)

// ErrJobNotFound is returned when no job has the requested ID.
var ErrJobNotFound = errors.New("job not found")

// JobStore is the persistent side of job reads.
type JobStore interface {
	GetJobByID(ctx context.Context, id string) (*model.Job, error)
	ListJobs(ctx context.Context, filter repository.JobFilter) ([]*model.Job, error)
}

// JobCache holds job details and negative entries for missing IDs.
type JobCache interface {
	GetJob(ctx context.Context, id string) (*model.Job, error)
	SetJob(ctx context.Context, job *model.Job) error
	IsNegativelyCached(ctx context.Context, id string) (bool, error)
	SetNegativeCache(ctx context.Context, id string) error
}

// JobService handles job reads.
type JobService struct {
	store   JobStore
	cache   JobCache
	metrics metrics.Recorder
}

// NewJobService creates a new JobService. cache may be nil, in which case
// every lookup goes to the store.
func NewJobService(store JobStore, cache JobCache, recorder metrics.Recorder) *JobService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &JobService{
		store:   store,
		cache:   cache,
		metrics: recorder,
	}
}

// ListJobs returns every job, optionally only those posted by hrEmail.
func (s *JobService) ListJobs(ctx context.Context, hrEmail string) ([]*model.Job, error) {
	jobs, err := s.store.ListJobs(ctx, repository.JobFilter{HREmail: hrEmail})
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// GetJob looks a job up through the cache. Cache failures fall through to
// the store; only store failures are returned.
func (s *JobService) GetJob(ctx context.Context, id string) (*model.Job, error) {
	if id == "" {
		return nil, ErrJobNotFound
	}

	if s.cache != nil {
		if missing, err := s.cache.IsNegativelyCached(ctx, id); err == nil && missing {
			s.metrics.IncJobNotFound()
			return nil, ErrJobNotFound
		}

		if job, err := s.cache.GetJob(ctx, id); err == nil {
			s.metrics.IncJobCacheHit()
			return job, nil
		}
		s.metrics.IncJobCacheMiss()
	}

	job, err := s.store.GetJobByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			s.metrics.IncJobNotFound()
			if s.cache != nil {
				_ = s.cache.SetNegativeCache(ctx, id)
			}
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetJob(ctx, job)
	}

	return job, nil
}
