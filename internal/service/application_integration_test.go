//go:build integration

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/careerhub/careerhub/internal/auth"
	"github.com/careerhub/careerhub/internal/cache"
	"github.com/careerhub/careerhub/internal/metrics"
	"github.com/careerhub/careerhub/internal/repository"
	"github.com/careerhub/careerhub/internal/testutil"
)

// TestIntegrationListForUser runs the aggregation against postgres and redis,
// including a job deleted after the application was filed.
func TestIntegrationListForUser(t *testing.T) {
	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	repo, err := repository.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() { _ = unlock() })

	if err := testutil.ResetSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	c, err := cache.New(ctx, redisURL, time.Minute)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	job := testutil.NewTestJob(t, "Backend Engineer")
	if err := repo.CreateJob(ctx, job); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	const alice = "alice@example.com"
	withJob := testutil.NewTestApplication(t, alice, job.ID)
	dangling := testutil.NewTestApplication(t, alice, "01HDELETEDJOB0000000000000")
	if err := repo.CreateApplication(ctx, withJob); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}
	if err := repo.CreateApplication(ctx, dangling); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}

	tokens, err := auth.NewTokenManager("integration-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	token, _, err := tokens.Issue(alice)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	rec := metrics.NewInMemory()
	jobs := NewJobService(repo, c, rec)
	svc := NewApplicationService(repo, repo, tokens, ApplicationConfig{LookupTimeout: 2 * time.Second}, rec)

	// Warm the job cache the way GET /jobs/{id} does.
	if _, err := jobs.GetJob(ctx, job.ID); err != nil {
		t.Fatalf("GetJob: %v", err)
	}

	assertJoined := func(round string, wantJob bool) {
		t.Helper()
		got, err := svc.ListForUser(ctx, alice, token)
		if err != nil {
			t.Fatalf("%s: ListForUser: %v", round, err)
		}
		if len(got) != 2 {
			t.Fatalf("%s: expected 2 applications, got %d", round, len(got))
		}
		for _, m := range got {
			switch m.ID {
			case withJob.ID:
				if wantJob && (m.Job == nil || m.Job.Title != "Backend Engineer") {
					t.Errorf("%s: expected joined job, got %+v", round, m.Job)
				}
				if !wantJob && m.Job != nil {
					t.Errorf("%s: deleted job still joined: %+v", round, m.Job)
				}
			case dangling.ID:
				if m.Job != nil {
					t.Errorf("%s: dangling application got a job", round)
				}
			default:
				t.Errorf("%s: unexpected application %s", round, m.ID)
			}
		}
	}

	assertJoined("before delete", true)

	if _, err := repo.Pool().Exec(ctx, "DELETE FROM jobs WHERE id = $1", job.ID); err != nil {
		t.Fatalf("delete job: %v", err)
	}
	if _, err := c.GetJob(ctx, job.ID); err != nil {
		t.Fatalf("expected job to remain cached, got %v", err)
	}

	assertJoined("after delete", false)

	snap := rec.Snapshot()
	if snap.JobCacheHits != 0 {
		t.Errorf("cache hits = %d, want 0", snap.JobCacheHits)
	}
	if snap.JobNotFound != 3 {
		t.Errorf("not found = %d, want 3", snap.JobNotFound)
	}

	if _, err := svc.ListForUser(ctx, "bob@example.com", token); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}
