// Command seed loads job postings from a JSON file into PostgreSQL so the
// API has something to serve locally.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/careerhub/careerhub/internal/cache"
	"github.com/careerhub/careerhub/internal/config"
	"github.com/careerhub/careerhub/internal/model"
	"github.com/careerhub/careerhub/internal/repository"
)

// seedJob is one entry of the seed file. Deadlines are plain dates.
type seedJob struct {
	ID                  string            `json:"_id"`
	Title               string            `json:"title"`
	Location            string            `json:"location"`
	JobType             string            `json:"jobType"`
	Category            string            `json:"category"`
	ApplicationDeadline string            `json:"applicationDeadline"`
	SalaryRange         model.SalaryRange `json:"salaryRange"`
	Description         string            `json:"description"`
	Company             string            `json:"company"`
	Requirements        []string          `json:"requirements"`
	Responsibilities    []string          `json:"responsibilities"`
	Status              string            `json:"status"`
	HREmail             string            `json:"hr_email"`
	HRName              string            `json:"hr_name"`
	CompanyLogo         string            `json:"company_logo"`
}

type summary struct {
	Inserted []string `json:"inserted"`
	Skipped  []string `json:"skipped"`
}

func main() {
	_ = config.LoadDotEnv()

	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		databaseURL = fs.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		redisURL    = fs.String("redis-url", os.Getenv("REDIS_URL"), "Redis connection string; empty skips cache invalidation")
		file        = fs.String("file", "cmd/seed/jobs.example.json", "JSON file with an array of jobs")
		format      = fs.String("format", "plain", "Output format: plain or json")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *databaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	outputFormat := strings.ToLower(*format)
	if outputFormat != "plain" && outputFormat != "json" {
		return fmt.Errorf("invalid format %q; use plain or json", *format)
	}

	f, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	jobs, err := parseJobs(f, time.Now().UTC())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer repo.Close()

	var out summary
	for _, job := range jobs {
		err := repo.CreateJob(ctx, job)
		switch {
		case err == nil:
			out.Inserted = append(out.Inserted, job.ID)
		case errors.Is(err, repository.ErrJobExists):
			out.Skipped = append(out.Skipped, job.ID)
		default:
			return fmt.Errorf("create job %q: %w", job.Title, err)
		}
	}

	// A seeded _id may have been looked up before it existed and be
	// negatively cached by a running API.
	if *redisURL != "" && len(out.Inserted) > 0 {
		if err := invalidate(ctx, *redisURL, out.Inserted); err != nil {
			fmt.Fprintln(stderr, "warning: cache invalidation failed:", err)
		}
	}

	return writeSummary(stdout, outputFormat, out)
}

func writeSummary(w io.Writer, format string, out summary) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	_, err := fmt.Fprintf(w, "inserted %d jobs, skipped %d existing\n", len(out.Inserted), len(out.Skipped))
	return err
}

func invalidate(ctx context.Context, redisURL string, ids []string) error {
	c, err := cache.New(ctx, redisURL, cache.DefaultJobTTL)
	if err != nil {
		return err
	}
	defer c.Close()

	for _, id := range ids {
		if err := c.DeleteJob(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// parseJobs decodes the seed file. Entries without an _id get a ULID.
func parseJobs(r io.Reader, now time.Time) ([]*model.Job, error) {
	var entries []seedJob
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	jobs := make([]*model.Job, 0, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.Title) == "" {
			return nil, fmt.Errorf("job %d: title is required", i)
		}

		status := model.JobStatus(e.Status)
		switch status {
		case "":
			status = model.JobStatusActive
		case model.JobStatusActive, model.JobStatusClosed:
		default:
			return nil, fmt.Errorf("job %d: invalid status %q", i, e.Status)
		}

		job := &model.Job{
			ID:               e.ID,
			Title:            e.Title,
			Location:         e.Location,
			JobType:          e.JobType,
			Category:         e.Category,
			SalaryRange:      e.SalaryRange,
			Description:      e.Description,
			Company:          e.Company,
			Requirements:     e.Requirements,
			Responsibilities: e.Responsibilities,
			Status:           status,
			HREmail:          e.HREmail,
			HRName:           e.HRName,
			CompanyLogo:      e.CompanyLogo,
			CreatedAt:        now,
		}
		if job.ID == "" {
			job.ID = ulid.Make().String()
		}

		if e.ApplicationDeadline != "" {
			deadline, err := time.Parse(time.DateOnly, e.ApplicationDeadline)
			if err != nil {
				return nil, fmt.Errorf("job %d: applicationDeadline: %w", i, err)
			}
			job.ApplicationDeadline = &deadline
		}

		jobs = append(jobs, job)
	}

	return jobs, nil
}
