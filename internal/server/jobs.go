package server

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/framecap/internal/model"
)

// JobStatus is the state of a capture job.
type JobStatus string

const (
	// StatusQueued means the job is accepted but not yet running.
	StatusQueued JobStatus = "queued"

	// StatusRunning means the capture is in progress.
	StatusRunning JobStatus = "running"

	// StatusDone means the capture finished and its document is available.
	StatusDone JobStatus = "done"

	// StatusFailed means the capture errored. The error text is on the job.
	StatusFailed JobStatus = "failed"
)

// Job tracks one capture request through its lifecycle. All state changes
// go through the setters, so concurrent status polls never see a torn
// update.
type Job struct {
	mu sync.Mutex

	id        string
	url       string
	status    JobStatus
	errText   string
	captureID string
	document  *model.CaptureDocument
	createdAt time.Time
	updatedAt time.Time
}

// NewJob creates a queued job for the given URL.
func NewJob(url string) *Job {
	now := time.Now()
	return &Job{
		id:        uuid.NewString(),
		url:       url,
		status:    StatusQueued,
		createdAt: now,
		updatedAt: now,
	}
}

// ID returns the job's identifier.
func (j *Job) ID() string {
	return j.id
}

// SetRunning marks the capture as started.
func (j *Job) SetRunning() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = StatusRunning
	j.updatedAt = time.Now()
}

// Complete marks the capture as finished and attaches its document. The
// captureID is the store identifier when the document was persisted, empty
// otherwise.
func (j *Job) Complete(doc *model.CaptureDocument, captureID string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = StatusDone
	j.document = doc
	j.captureID = captureID
	j.updatedAt = time.Now()
}

// Fail marks the capture as failed.
func (j *Job) Fail(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = StatusFailed
	if err != nil {
		j.errText = err.Error()
	}
	j.updatedAt = time.Now()
}

// Document returns the finished capture document, or nil before completion.
func (j *Job) Document() *model.CaptureDocument {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.document
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"jobId"`
	URL       string    `json:"url"`
	Status    JobStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	CaptureID string    `json:"captureId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobSnapshot{
		ID:        j.id,
		URL:       j.url,
		Status:    j.status,
		Error:     j.errText,
		CaptureID: j.captureID,
		CreatedAt: j.createdAt,
		UpdatedAt: j.updatedAt,
	}
}

// JobStore is a thread-safe in-memory job registry. Jobs idle longer than
// the TTL are evicted on insert, so a long-lived server does not accumulate
// finished documents forever.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

// NewJobStore creates a job registry. A non-positive TTL disables eviction.
func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

// Put registers a job and evicts expired ones.
func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()
	s.jobs[job.ID()] = job
}

// Get returns the job with the given ID, or nil.
func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// List returns snapshots of all registered jobs, newest first.
func (s *JobStore) List() []JobSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshots := make([]JobSnapshot, 0, len(s.jobs))
	for _, job := range s.jobs {
		snapshots = append(snapshots, job.Snapshot())
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
	})
	return snapshots
}

// evictLocked removes jobs idle longer than the TTL. Callers hold the
// mutex. updatedAt refreshes on every state change, so only settled jobs
// age out.
func (s *JobStore) evictLocked() {
	if s.ttl <= 0 {
		return
	}
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.Snapshot().UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
