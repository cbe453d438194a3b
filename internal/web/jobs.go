package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mimircode/mimircode/internal/docgen"
	"github.com/mimircode/mimircode/pkg/types"
)

// JobState tracks a job through its lifecycle.
type JobState string

const (
	JobPending JobState = "pending"
	JobRunning JobState = "running"
	JobDone    JobState = "done"
	JobFailed  JobState = "failed"
)

// Job is one upload-and-generate request. Its directories live under the
// configured temp dir until the job is deleted.
type Job struct {
	ID          string             `json:"id"`
	Task        types.Task         `json:"task"`
	State       JobState           `json:"state"`
	Error       string             `json:"error,omitempty"`
	Stats       *docgen.Statistics `json:"stats,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	CompletedAt time.Time          `json:"completed_at,omitzero"`

	jobDir    string
	sourceDir string
	outputDir string
}

// jobManager is the in-memory registry of jobs. Persistence of finished
// runs is the store's concern; the manager only tracks live state.
type jobManager struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func newJobManager() *jobManager {
	return &jobManager{jobs: make(map[string]*Job)}
}

// create registers a new job and returns a detached snapshot. The live
// record stays inside the manager; callers never hold a pointer that the
// background goroutine mutates.
func (m *jobManager) create(task types.Task, jobDir, sourceDir, outputDir string) Job {
	job := &Job{
		ID:        uuid.NewString(),
		Task:      task,
		State:     JobPending,
		CreatedAt: time.Now(),
		jobDir:    jobDir,
		sourceDir: sourceDir,
		outputDir: outputDir,
	}
	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()
	return *job
}

// get returns a snapshot of the job, safe to serialize without holding
// the manager lock.
func (m *jobManager) get(id string) (Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

func (m *jobManager) list() []Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		out = append(out, *job)
	}
	return out
}

// remove drops the job from the registry, returning its final snapshot.
func (m *jobManager) remove(id string) (Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return Job{}, false
	}
	delete(m.jobs, id)
	return *job, true
}

func (m *jobManager) setRunning(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.jobs[id]; ok {
		job.State = JobRunning
	}
}

func (m *jobManager) setDone(id string, stats *docgen.Statistics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.jobs[id]; ok {
		job.State = JobDone
		job.Stats = stats
		job.CompletedAt = time.Now()
	}
}

func (m *jobManager) setFailed(id string, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.jobs[id]; ok {
		job.State = JobFailed
		job.Error = errMsg
		job.CompletedAt = time.Now()
	}
}
