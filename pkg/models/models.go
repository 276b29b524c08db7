// Package models defines the entities shared between the HTTP layer and the
// store: waitlist entries, subscribers, and quote traces.
package models

import "time"

// WaitlistEntry is a launch-waitlist submission.
type WaitlistEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Make      string    `json:"make,omitempty"`
	Model     string    `json:"model,omitempty"`
	ZIP       string    `json:"zip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Subscriber is a mailing-list signup. Email is unique.
type Subscriber struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Quote trace statuses.
const (
	TraceStatusCompleted = "completed"
	TraceStatusFailed    = "failed"
)

// QuoteTrace records the outcome of one estimate request for the operator
// dashboard. Traces never carry raw model replies; those stay in logs.
type QuoteTrace struct {
	ID         string    `json:"id"`
	Mode       string    `json:"mode"`
	Anchored   bool      `json:"anchored"`
	Make       string    `json:"make"`
	Model      string    `json:"model"`
	Year       string    `json:"year"`
	Status     string    `json:"status"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
