// Package manager owns the registry of solve jobs: it accepts problems,
// drives the optimization engine, and serves the best-known snapshot per job.
package manager

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/me/rosterd/internal/engine"
	"github.com/me/rosterd/internal/solver"
	"github.com/me/rosterd/internal/store"
	"github.com/me/rosterd/pkg/model"
)

const archiveTimeout = 5 * time.Second

// Job is one immutable registry snapshot. Updates replace the whole value
// (insert-or-replace per key), so readers never observe a partially written
// record.
type Job struct {
	ID        string
	Algorithm solver.Algorithm
	Schedule  *model.Schedule
	Err       error
	CreatedAt time.Time
}

// Manager is safe for concurrent use from request handlers and the engine's
// callback goroutines.
type Manager struct {
	engine  engine.Engine
	logger  *slog.Logger
	archive store.Store // optional, write-behind
	jobs    jobMap
}

// Option configures optional Manager dependencies.
type Option func(*Manager)

// WithArchive persists every job update to the given store.
func WithArchive(st store.Store) Option {
	return func(m *Manager) {
		m.archive = st
	}
}

// New creates a Manager driving the given engine.
func New(eng engine.Engine, logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		engine: eng,
		logger: logger.With("component", "manager"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Submit registers the problem under a fresh job id and starts the engine
// asynchronously. It returns as soon as the job is registered.
func (m *Manager) Submit(problem *model.Schedule, alg solver.Algorithm) (string, error) {
	if problem == nil {
		return "", &InvalidInputError{Reason: "missing schedule"}
	}
	if err := problem.Normalize(); err != nil {
		return "", &InvalidInputError{Reason: err.Error()}
	}

	jobID := uuid.New().String()
	job := &Job{
		ID:        jobID,
		Algorithm: alg,
		Schedule:  problem,
		CreatedAt: time.Now().UTC(),
	}
	m.jobs.put(jobID, job)
	m.persist(job)
	m.logger.Info("job submitted", "job_id", jobID, "algorithm", string(alg),
		"employees", len(problem.Employees), "shifts", len(problem.Shifts))

	m.engine.StartSolving(jobID, alg,
		m.findProblem,
		func(solution *model.Schedule) { m.recordBest(jobID, solution) },
		m.recordFailure,
	)
	return jobID, nil
}

// Schedule returns the job's best-known snapshot, annotated with the live
// solver status. Reads never block on the engine beyond the status query.
func (m *Manager) Schedule(jobID string) (*model.Schedule, error) {
	job, ok := m.jobs.get(jobID)
	if !ok {
		return nil, &NotFoundError{JobID: jobID}
	}
	if job.Err != nil {
		return nil, &SolverFailedError{JobID: jobID, Err: job.Err}
	}
	snapshot := job.Schedule.Clone()
	snapshot.SolverStatus = m.engine.Status(jobID)
	return snapshot, nil
}

// Terminate requests early termination and returns the snapshot as Schedule
// would. The signal is fire-and-forget: the engine decides when to stop and
// delivers its final solution through the usual best-solution path.
func (m *Manager) Terminate(jobID string) (*model.Schedule, error) {
	if _, ok := m.jobs.get(jobID); !ok {
		return nil, &NotFoundError{JobID: jobID}
	}
	m.engine.RequestTerminate(jobID)
	return m.Schedule(jobID)
}

// Analyze scores the schedule rule by rule, without touching the registry.
func (m *Manager) Analyze(schedule *model.Schedule, policy solver.FetchPolicy) (*model.ScoreAnalysis, error) {
	if schedule == nil {
		return nil, &InvalidInputError{Reason: "missing schedule"}
	}
	if err := schedule.Normalize(); err != nil {
		return nil, &InvalidInputError{Reason: err.Error()}
	}
	analysis := solver.Analyze(schedule, policy)
	return &analysis, nil
}

// findProblem is the engine's problem supplier.
func (m *Manager) findProblem(jobID string) *model.Schedule {
	job, ok := m.jobs.get(jobID)
	if !ok {
		return nil
	}
	return job.Schedule
}

// recordBest replaces the job's snapshot with an improved solution,
// last-write-wins.
func (m *Manager) recordBest(jobID string, solution *model.Schedule) {
	prev, ok := m.jobs.get(jobID)
	if !ok {
		m.logger.Warn("best solution for unknown job dropped", "job_id", jobID)
		return
	}
	job := &Job{
		ID:        jobID,
		Algorithm: prev.Algorithm,
		Schedule:  solution,
		CreatedAt: prev.CreatedAt,
	}
	m.jobs.put(jobID, job)
	m.persist(job)
	m.logger.Debug("best solution updated", "job_id", jobID, "score", solution.Score)
}

// recordFailure captures an engine failure into the job record. The job stays
// queryable; the failure surfaces when that job is read.
func (m *Manager) recordFailure(jobID string, err error) {
	prev, ok := m.jobs.get(jobID)
	if !ok {
		m.logger.Error("failure for unknown job dropped", "job_id", jobID, "error", err)
		return
	}
	job := &Job{
		ID:        jobID,
		Algorithm: prev.Algorithm,
		Err:       err,
		CreatedAt: prev.CreatedAt,
	}
	m.jobs.put(jobID, job)
	m.persist(job)
	m.logger.Error("solving failed", "job_id", jobID, "error", err)
}

// persist archives the job snapshot. Called from the job's own callback
// goroutine, so writes per job stay ordered.
func (m *Manager) persist(job *Job) {
	if m.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	rec := &store.JobRecord{
		ID:        job.ID,
		Algorithm: string(job.Algorithm),
		Status:    m.engine.Status(job.ID),
		CreatedAt: job.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}
	if job.Err != nil {
		rec.Error = job.Err.Error()
	} else if job.Schedule != nil {
		if job.Schedule.Score != nil {
			rec.Score = job.Schedule.Score
			rec.Solution = job.Schedule
		} else {
			rec.Problem = job.Schedule
		}
	}
	if err := m.archive.SaveJob(ctx, rec); err != nil {
		m.logger.Warn("archive write failed", "job_id", job.ID, "error", err)
	}
}
