package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/careerhub/careerhub/internal/model"
)

// Common errors for application repository operations.
var (
	ErrApplicationExists = errors.New("application already exists")
)

// CreateApplication inserts a new application. The referenced job is not checked.
func (r *Repository) CreateApplication(ctx context.Context, app *model.Application) error {
	query := `
		INSERT INTO applications (id, job_id, user_email, linkedin, github, resume, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		app.ID,
		app.JobID,
		app.UserEmail,
		app.LinkedIn,
		app.GitHub,
		app.Resume,
		app.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrApplicationExists
		}
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

// ListApplicationsByEmail retrieves every application owned by the given
// user. No ordering is guaranteed.
func (r *Repository) ListApplicationsByEmail(ctx context.Context, email string) ([]*model.Application, error) {
	query := `
		SELECT id, job_id, user_email, linkedin, github, resume, created_at
		FROM applications
		WHERE user_email = $1
	`

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := make([]*model.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applications: %w", err)
	}

	return apps, nil
}

func scanApplication(row pgx.Row) (*model.Application, error) {
	var app model.Application
	err := row.Scan(
		&app.ID,
		&app.JobID,
		&app.UserEmail,
		&app.LinkedIn,
		&app.GitHub,
		&app.Resume,
		&app.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}
