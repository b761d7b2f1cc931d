package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/careerhub/careerhub/internal/auth"
	"github.com/careerhub/careerhub/internal/model"
	"github.com/careerhub/careerhub/internal/repository"
)

// fakeVerifier accepts tokens of the form "valid:<email>".
type fakeVerifier struct{}

func (fakeVerifier) Verify(token string) (*auth.Claims, error) {
	const prefix = "valid:"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{Email: token[len(prefix):]}, nil
}

type fakeApplicationStore struct {
	mu       sync.Mutex
	apps     []*model.Application
	listErr  error
	listHits atomic.Int32
}

func (s *fakeApplicationStore) CreateApplication(ctx context.Context, app *model.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps = append(s.apps, app)
	return nil
}

func (s *fakeApplicationStore) ListApplicationsByEmail(ctx context.Context, email string) ([]*model.Application, error) {
	s.listHits.Add(1)
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Application
	for _, app := range s.apps {
		if app.UserEmail == email {
			out = append(out, app)
		}
	}
	return out, nil
}

// fakeJobStore serves jobs from a map and counts reads.
type fakeJobStore struct {
	mu     sync.Mutex
	jobs   map[string]*model.Job
	errs   map[string]error
	gets   atomic.Int32
	block  chan struct{}
	active atomic.Int32
	peak   atomic.Int32
}

func (s *fakeJobStore) GetJobByID(ctx context.Context, id string) (*model.Job, error) {
	s.gets.Add(1)
	n := s.active.Add(1)
	defer s.active.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}

	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.errs[id]; ok {
		return nil, err
	}
	job, ok := s.jobs[id]
	if !ok {
		return nil, repository.ErrJobNotFound
	}
	return job, nil
}

func (s *fakeJobStore) ListJobs(ctx context.Context, filter repository.JobFilter) ([]*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Job
	for _, job := range s.jobs {
		if filter.HREmail == "" || job.HREmail == filter.HREmail {
			out = append(out, job)
		}
	}
	return out, nil
}

var errCacheMiss = errors.New("miss")

type fakeJobCache struct {
	mu       sync.Mutex
	jobs     map[string]*model.Job
	negative map[string]bool
	fail     bool
}

func newFakeJobCache() *fakeJobCache {
	return &fakeJobCache{jobs: map[string]*model.Job{}, negative: map[string]bool{}}
}

func (c *fakeJobCache) GetJob(ctx context.Context, id string) (*model.Job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return nil, errors.New("redis down")
	}
	job, ok := c.jobs[id]
	if !ok {
		return nil, errCacheMiss
	}
	return job, nil
}

func (c *fakeJobCache) SetJob(ctx context.Context, job *model.Job) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("redis down")
	}
	c.jobs[job.ID] = job
	delete(c.negative, job.ID)
	return nil
}

func (c *fakeJobCache) IsNegativelyCached(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return false, errors.New("redis down")
	}
	return c.negative[id], nil
}

func (c *fakeJobCache) SetNegativeCache(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("redis down")
	}
	c.negative[id] = true
	return nil
}
