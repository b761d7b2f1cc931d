package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/careerhub/careerhub/internal/auth"
	"github.com/careerhub/careerhub/internal/metrics"
	"github.com/careerhub/careerhub/internal/model"
	"github.com/careerhub/careerhub/internal/repository"
)

// Access errors for the applications listing.
var (
	// ErrUnauthenticated means the credential is missing or did not verify.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the credential is valid but names another identity.
	ErrForbidden = errors.New("forbidden")
)

// DefaultJoinConcurrency caps in-flight job lookups per request.
const DefaultJoinConcurrency = 8

// TokenVerifier verifies a session token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// ApplicationStore persists applications.
type ApplicationStore interface {
	CreateApplication(ctx context.Context, app *model.Application) error
	ListApplicationsByEmail(ctx context.Context, email string) ([]*model.Application, error)
}

// JobLookup reads a job from the system of record, returning
// repository.ErrJobNotFound when it is gone. The join never goes through the
// job cache, so a deleted job stops joining as soon as its row is gone.
type JobLookup interface {
	GetJobByID(ctx context.Context, id string) (*model.Job, error)
}

// ApplicationConfig tunes the application/job join.
type ApplicationConfig struct {
	// JoinConcurrency caps concurrent job lookups; <= 0 uses DefaultJoinConcurrency.
	JoinConcurrency int
	// LookupTimeout bounds each job lookup; 0 disables the bound.
	LookupTimeout time.Duration
}

// ApplicationService handles application submission and the owner-scoped
// applications listing.
type ApplicationService struct {
	store    ApplicationStore
	jobs     JobLookup
	verifier TokenVerifier
	cfg      ApplicationConfig
	metrics  metrics.Recorder
	now      func() time.Time
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(store ApplicationStore, jobs JobLookup, verifier TokenVerifier, cfg ApplicationConfig, recorder metrics.Recorder) *ApplicationService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if cfg.JoinConcurrency <= 0 {
		cfg.JoinConcurrency = DefaultJoinConcurrency
	}
	return &ApplicationService{
		store:    store,
		jobs:     jobs,
		verifier: verifier,
		cfg:      cfg,
		metrics:  recorder,
		now:      time.Now,
	}
}

// SubmitApplicationInput defines input for submitting an application.
type SubmitApplicationInput struct {
	JobID     string
	UserEmail string
	LinkedIn  string
	GitHub    string
	Resume    string
}

// Submit stores a new application. The job reference is not checked.
func (s *ApplicationService) Submit(ctx context.Context, input SubmitApplicationInput) (*model.Application, error) {
	app := &model.Application{
		ID:        ulid.Make().String(),
		JobID:     strings.TrimSpace(input.JobID),
		UserEmail: strings.TrimSpace(input.UserEmail),
		LinkedIn:  input.LinkedIn,
		GitHub:    input.GitHub,
		Resume:    input.Resume,
		CreatedAt: s.now().UTC(),
	}

	if err := app.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.CreateApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("submit application: %w", err)
	}

	s.metrics.IncApplicationSubmitted()

	return app, nil
}

// ListForUser returns the applications of requestedEmail, each merged with
// the job it references. The credential must verify and name requestedEmail.
// The result keeps the store's order; a job that no longer exists leaves
// the Job field nil.
func (s *ApplicationService) ListForUser(ctx context.Context, requestedEmail, credential string) ([]*model.ApplicationWithJob, error) {
	if _, err := s.authorize(requestedEmail, credential); err != nil {
		return nil, err
	}

	start := time.Now()

	apps, err := s.store.ListApplicationsByEmail(ctx, requestedEmail)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	merged, err := s.joinJobs(ctx, apps)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveApplicationsJoin(len(merged), time.Since(start))

	return merged, nil
}

// authorize runs the credential and ownership checks. Nothing past it may
// run unless it returns nil.
func (s *ApplicationService) authorize(requestedEmail, credential string) (*auth.Claims, error) {
	if credential == "" {
		s.metrics.IncAuthFailure("unauthenticated")
		return nil, ErrUnauthenticated
	}

	claims, err := s.verifier.Verify(credential)
	if err != nil {
		s.metrics.IncAuthFailure("unauthenticated")
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	if claims.Email != requestedEmail {
		s.metrics.IncAuthFailure("forbidden")
		return nil, ErrForbidden
	}

	return claims, nil
}

// joinJobs looks up every referenced job concurrently and returns once all
// lookups are done. Output index i always holds apps[i].
func (s *ApplicationService) joinJobs(ctx context.Context, apps []*model.Application) ([]*model.ApplicationWithJob, error) {
	merged := make([]*model.ApplicationWithJob, len(apps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.JoinConcurrency)

	for i, app := range apps {
		g.Go(func() error {
			job, err := s.lookupJob(gctx, app.JobID)
			if err != nil {
				return fmt.Errorf("lookup job %s for application %s: %w", app.JobID, app.ID, err)
			}
			merged[i] = &model.ApplicationWithJob{Application: *app, Job: job}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return merged, nil
}

// lookupJob returns (nil, nil) for a job that does not exist.
func (s *ApplicationService) lookupJob(ctx context.Context, id string) (*model.Job, error) {
	if id == "" {
		return nil, nil
	}
	if s.cfg.LookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.LookupTimeout)
		defer cancel()
	}

	job, err := s.jobs.GetJobByID(ctx, id)
	if errors.Is(err, repository.ErrJobNotFound) {
		s.metrics.IncJobNotFound()
		return nil, nil
	}
	return job, err
}
