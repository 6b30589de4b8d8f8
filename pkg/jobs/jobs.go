// Package jobs tracks atlas builds submitted to the HTTP server.
//
// A [Job] is the externally visible record of a build: its status, its
// progress percentage and, once finished, either the grid and output path
// or a coded error. Jobs are ephemeral and expire after a TTL.
//
// Two [Store] backends are provided:
//   - [MemoryStore]: in-process map, for a single server
//   - [RedisStore]: shared by several server instances
package jobs

import (
	"context"
	"time"
)

// Status is the lifecycle state of a job.
type Status string

// Job states. A job moves queued → running → succeeded or failed.
const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Finished reports whether s is a terminal state.
func (s Status) Finished() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// DefaultTTL is how long a job record is kept after its last update.
const DefaultTTL = time.Hour

// Job is the record of one atlas build.
type Job struct {
	ID       string `json:"id"`
	Status   Status `json:"status"`
	Progress int    `json:"progress"`

	Input  string `json:"input"`
	Output string `json:"output"`
	Frames int    `json:"frames"`

	// Set on success.
	Columns  int    `json:"columns,omitempty"`
	Rows     int    `json:"rows,omitempty"`
	Manifest string `json:"manifest,omitempty"`
	CacheHit bool   `json:"cache_hit,omitempty"`

	// Set on failure.
	Error *Error `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Error is a coded job failure.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Frame   *int   `json:"frame,omitempty"` // index of the frame that failed
}

// New returns a queued job created at now.
func New(id, input, output string, frames int, now time.Time) *Job {
	return &Job{
		ID:        id,
		Status:    StatusQueued,
		Input:     input,
		Output:    output,
		Frames:    frames,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkRunning records progress of a running job.
func (j *Job) MarkRunning(progress int) {
	j.Status = StatusRunning
	j.Progress = progress
}

// MarkSucceeded records the finished grid.
func (j *Job) MarkSucceeded(columns, rows int, manifest string, cacheHit bool) {
	j.Status = StatusSucceeded
	j.Progress = 100
	j.Columns = columns
	j.Rows = rows
	j.Manifest = manifest
	j.CacheHit = cacheHit
}

// MarkFailed records a failure. Progress keeps the last reported value.
func (j *Job) MarkFailed(e *Error) {
	j.Status = StatusFailed
	j.Error = e
}

// IsExpired reports whether the job has passed its expiry time.
func (j *Job) IsExpired(now time.Time) bool {
	return !j.ExpiresAt.IsZero() && now.After(j.ExpiresAt)
}

// Touch sets UpdatedAt to now and pushes ExpiresAt out by ttl.
func (j *Job) Touch(now time.Time, ttl time.Duration) {
	j.UpdatedAt = now
	j.ExpiresAt = now.Add(ttl)
}

// Store persists jobs.
type Store interface {
	// Get returns the job with the given ID, or nil, nil if it does not
	// exist or has expired.
	Get(ctx context.Context, id string) (*Job, error)

	// Set creates or replaces a job. The store keeps its own copy.
	Set(ctx context.Context, job *Job) error

	// Delete removes a job.
	Delete(ctx context.Context, id string) error

	// List returns all unexpired jobs, newest first.
	List(ctx context.Context) ([]*Job, error)

	// Cleanup removes expired jobs (may be a no-op for stores with native expiry).
	Cleanup(ctx context.Context) error
}
