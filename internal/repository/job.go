package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/careerhub/careerhub/internal/model"
)

// Common errors for job repository operations.
var (
	ErrJobNotFound = errors.New("job not found")
	ErrJobExists   = errors.New("job already exists")
)

const jobColumns = `
	id, title, location, job_type, category, application_deadline,
	salary_min, salary_max, salary_currency, description, company,
	requirements, responsibilities, status, hr_email, hr_name, company_logo, created_at
`

// JobFilter defines filters for listing jobs.
type JobFilter struct {
	// HREmail restricts the listing to jobs posted by one recruiter.
	HREmail string
}

// CreateJob inserts a new job. Jobs are only created by the seeder.
func (r *Repository) CreateJob(ctx context.Context, job *model.Job) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.Title,
		job.Location,
		job.JobType,
		job.Category,
		job.ApplicationDeadline,
		job.SalaryRange.Min,
		job.SalaryRange.Max,
		job.SalaryRange.Currency,
		job.Description,
		job.Company,
		pq.Array(job.Requirements),
		pq.Array(job.Responsibilities),
		job.Status,
		job.HREmail,
		job.HRName,
		job.CompanyLogo,
		job.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrJobExists
		}
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// GetJobByID retrieves a job by its ID.
func (r *Repository) GetJobByID(ctx context.Context, id string) (*model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	job, err := scanJob(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job by ID: %w", err)
	}

	return job, nil
}

// ListJobs retrieves all jobs matching the filter, newest first.
func (r *Repository) ListJobs(ctx context.Context, filter JobFilter) ([]*model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	var args []any

	if filter.HREmail != "" {
		query += ` WHERE hr_email = $1`
		args = append(args, filter.HREmail)
	}

	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*model.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}

	return jobs, nil
}

// scanJob scans a single row into a Job model.
func scanJob(row pgx.Row) (*model.Job, error) {
	var (
		job              model.Job
		requirements     []string
		responsibilities []string
		status           string
	)
	err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Location,
		&job.JobType,
		&job.Category,
		&job.ApplicationDeadline,
		&job.SalaryRange.Min,
		&job.SalaryRange.Max,
		&job.SalaryRange.Currency,
		&job.Description,
		&job.Company,
		&requirements,
		&responsibilities,
		&status,
		&job.HREmail,
		&job.HRName,
		&job.CompanyLogo,
		&job.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Requirements = nonNil(requirements)
	job.Responsibilities = nonNil(responsibilities)
	job.Status = model.JobStatus(status)

	return &job, nil
}

// nonNil keeps empty arrays serialising as [] instead of null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
