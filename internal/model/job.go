// Package model defines domain entities for the application.
package model

import "time"

// JobStatus is the recruiter-controlled lifecycle flag of a job posting.
type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
)

// SalaryRange is the advertised pay band of a job.
type SalaryRange struct {
	Min      int64  `json:"min"`
	Max      int64  `json:"max"`
	Currency string `json:"currency"`
}

// Job represents a job posting. Jobs are read-only through the API.
type Job struct {
	ID                  string      `json:"_id"`
	Title               string      `json:"title"`
	Location            string      `json:"location"`
	JobType             string      `json:"jobType"`
	Category            string      `json:"category"`
	ApplicationDeadline *time.Time  `json:"applicationDeadline,omitempty"`
	SalaryRange         SalaryRange `json:"salaryRange"`
	Description         string      `json:"description"`
	Company             string      `json:"company"`
	Requirements        []string    `json:"requirements"`
	Responsibilities    []string    `json:"responsibilities"`
	Status              JobStatus   `json:"status"`
	HREmail             string      `json:"hr_email"`
	HRName              string      `json:"hr_name"`
	CompanyLogo         string      `json:"company_logo"`
	CreatedAt           time.Time   `json:"created_at"`
}
