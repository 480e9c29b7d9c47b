package models

import (
	"time"
)

type ApplicationStatus string

const (
	StatusIdle             ApplicationStatus = "IDLE"
	StatusNavigated        ApplicationStatus = "NAVIGATED"
	StatusProviderDetected ApplicationStatus = "PROVIDER_DETECTED"
	StatusFieldsInProgress ApplicationStatus = "FIELDS_IN_PROGRESS"
	StatusAwaitingReview   ApplicationStatus = "AWAITING_HUMAN_REVIEW"
	StatusCompleted        ApplicationStatus = "COMPLETED"
	StatusAborted          ApplicationStatus = "ABORTED"
)

// Terminal reports whether no further transition can happen.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusAborted
}

type Job struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	ExternalID string    `json:"external_id"`
	URL        string    `json:"url"`
	CreatedAt  time.Time `json:"created_at"`
}

type Application struct {
	ID              string            `json:"id"`
	JobID           string            `json:"job_id"`
	Provider        string            `json:"provider"`
	Status          ApplicationStatus `json:"status"`
	HandlersDone    int               `json:"handlers_done"`
	HandlersSkipped int               `json:"handlers_skipped"`
	Error           *string           `json:"error,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
