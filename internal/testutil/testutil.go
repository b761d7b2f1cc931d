// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/careerhub/careerhub/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops and recreates the jobs and applications tables.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, name := range []string{"000001_jobs", "000002_applications"} {
		if err := applyMigration(ctx, pool, name+".down.sql"); err != nil {
			return err
		}
		if err := applyMigration(ctx, pool, name+".up.sql"); err != nil {
			return err
		}
	}
	return nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, file string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	sql, err := os.ReadFile(filepath.Join(root, "migrations", file))
	if err != nil {
		return fmt.Errorf("read migration %s: %w", file, err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply migration %s: %w", file, err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// NewTestJob creates a test job with sensible defaults.
func NewTestJob(t testing.TB, title string) *model.Job {
	t.Helper()
	return &model.Job{
		ID:          ulid.Make().String(),
		Title:       title,
		Location:    "Remote",
		JobType:     "Full-time",
		Category:    "Engineering",
		SalaryRange: model.SalaryRange{Min: 60000, Max: 90000, Currency: "usd"},
		Description: "Build things.",
		Company:     "Acme",
		Requirements: []string{
			"Go",
			"PostgreSQL",
		},
		Responsibilities: []string{"Ship features"},
		Status:           model.JobStatusActive,
		HREmail:          "hr@acme.test",
		HRName:           "Pat",
		CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
	}
}

// NewTestApplication creates a test application for the given user and job.
func NewTestApplication(t testing.TB, email, jobID string) *model.Application {
	t.Helper()
	return &model.Application{
		ID:        ulid.Make().String(),
		JobID:     jobID,
		UserEmail: email,
		LinkedIn:  "https://linkedin.com/in/test",
		GitHub:    "https://github.com/test",
		Resume:    "https://example.com/resume.pdf",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}
