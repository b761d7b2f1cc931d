package model

import (
	"errors"
	"strings"
	"time"
)

// Validation errors for applications.
var (
	ErrMissingJobID     = errors.New("jobId is required")
	ErrMissingUserEmail = errors.New("user_email is required")
)

// Application is a user's application to a job. JobID is not checked
// against the jobs table and may dangle.
type Application struct {
	ID        string    `json:"_id"`
	JobID     string    `json:"jobId"`
	UserEmail string    `json:"user_email"`
	LinkedIn  string    `json:"linkedIn,omitempty"`
	GitHub    string    `json:"github,omitempty"`
	Resume    string    `json:"resume,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the fields every application must carry.
func (a *Application) Validate() error {
	if strings.TrimSpace(a.JobID) == "" {
		return ErrMissingJobID
	}
	if strings.TrimSpace(a.UserEmail) == "" {
		return ErrMissingUserEmail
	}
	return nil
}

// ApplicationWithJob is an application merged with the job it references.
// Job is nil when the referenced job no longer exists.
type ApplicationWithJob struct {
	Application
	Job *Job `json:"job,omitempty"`
}
