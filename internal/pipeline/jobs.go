package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of a structure build job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusDecoding   JobStatus = "decoding"
	StatusBuilding   JobStatus = "building"
	StatusRendering  JobStatus = "rendering"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusDupSkipped JobStatus = "duplicate_skipped"
)

// Done reports whether s is a final status.
func (s JobStatus) Done() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusDupSkipped:
		return true
	}
	return false
}

// Job tracks the state of a single document build.
type Job struct {
	mu sync.Mutex

	ID        string    `json:"job_id"`
	Filename  string    `json:"filename"`
	Structure string    `json:"structure"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	OutputPath  string    `json:"output_path,omitempty"`
	DuplicateOf string    `json:"duplicate_of,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	target   string
	errors   []string
	done     chan struct{}
}

// Progress tracks processing progress.
type Progress struct {
	Lines  int      `json:"lines" yaml:"lines"`
	Tables int      `json:"tables" yaml:"tables"`
	Nodes  int      `json:"nodes" yaml:"nodes"`
	Errors []string `json:"errors" yaml:"errors"`
}

// NewJob creates a queued job for filename. An empty structure selects
// the dispatcher's default.
func NewJob(filename, structure string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Filename:  filename,
		Structure: structure,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
		done:      make(chan struct{}),
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction. It
// also remembers which job first claimed each content hash.
type JobStore struct {
	mu     sync.Mutex
	jobs   map[string]*Job
	hashes map[string]string
	ttl    time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs:   make(map[string]*Job),
		hashes: make(map[string]string),
		ttl:    ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// List returns every job ordered by creation time.
func (s *JobStore) List() []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].Filename < out[b].Filename
		}
		return out[a].CreatedAt.Before(out[b].CreatedAt)
	})
	return out
}

// Claim records jobID as the owner of hash. If another job already owns
// it, Claim returns that job's id and false.
func (s *JobStore) Claim(hash, jobID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if owner, ok := s.hashes[hash]; ok && owner != jobID {
		return owner, false
	}
	s.hashes[hash] = jobID
	return jobID, true
}

// Cleanup removes expired jobs and their hash claims.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
		}
	}
	for hash, id := range s.hashes {
		if _, ok := s.jobs[id]; !ok {
			delete(s.hashes, hash)
		}
	}
}

// SetStatus updates job status atomically. A final status releases Wait.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
	if status.Done() && j.done != nil {
		select {
		case <-j.done:
		default:
			close(j.done)
		}
	}
}

// Wait blocks until the job reaches a final status.
func (j *Job) Wait() {
	j.mu.Lock()
	done := j.done
	j.mu.Unlock()
	if done != nil {
		<-done
	}
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetInput records decoded line and table counts.
func (j *Job) SetInput(lines, tables int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Lines = lines
	j.Progress.Tables = tables
	j.UpdatedAt = time.Now()
}

// SetNodes records the built tree's node count.
func (j *Job) SetNodes(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Nodes = n
	j.UpdatedAt = time.Now()
}

func (j *Job) SetContentHash(hash string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ContentHash = hash
}

func (j *Job) SetOutputPath(path string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.OutputPath = path
	j.UpdatedAt = time.Now()
}

// setTarget fixes where the rendered tree will be written.
func (j *Job) setTarget(path string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.target = path
}

func (j *Job) outputTarget() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.target
}

func (j *Job) SetDuplicateOf(id string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.DuplicateOf = id
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// releaseData drops the input once it is no longer needed.
func (j *Job) releaseData() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = nil
}

// JobSnapshot is a read-only, serializable copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id" yaml:"job_id"`
	Filename    string    `json:"filename" yaml:"filename"`
	Structure   string    `json:"structure" yaml:"structure"`
	Status      JobStatus `json:"status" yaml:"status"`
	Phase       string    `json:"phase" yaml:"phase"`
	Progress    Progress  `json:"progress" yaml:"progress"`
	ContentHash string    `json:"content_hash,omitempty" yaml:"content_hash,omitempty"`
	OutputPath  string    `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	DuplicateOf string    `json:"duplicate_of,omitempty" yaml:"duplicate_of,omitempty"`
}

// Snapshot returns a serializable copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	return JobSnapshot{
		ID:          j.ID,
		Filename:    j.Filename,
		Structure:   j.Structure,
		Status:      j.Status,
		Phase:       j.Phase,
		ContentHash: j.ContentHash,
		OutputPath:  j.OutputPath,
		DuplicateOf: j.DuplicateOf,
		Progress: Progress{
			Lines:  j.Progress.Lines,
			Tables: j.Progress.Tables,
			Nodes:  j.Progress.Nodes,
			Errors: errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
