// Package engine runs solve jobs on background goroutines behind a capacity
// gate and reports their live status.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/me/rosterd/internal/solver"
	"github.com/me/rosterd/pkg/model"
)

// Engine is the optimization-engine boundary the job manager drives. A real
// implementation runs the search; tests substitute fakes.
type Engine interface {
	// StartSolving begins an asynchronous run for the job. The engine pulls
	// the problem through find, streams improving solutions to onBest, and
	// reports a failed run through onErr. It never blocks the caller.
	StartSolving(jobID string, alg solver.Algorithm, find func(jobID string) *model.Schedule, onBest func(*model.Schedule), onErr func(jobID string, err error))

	// RequestTerminate asks a running job to stop early. Fire-and-forget:
	// the run delivers its final solution through the onBest path.
	RequestTerminate(jobID string)

	// Status returns the live solver status for the job. Unknown ids report
	// NOT_SOLVING.
	Status(jobID string) model.SolverStatus
}

// Runner is the in-process Engine. At most parallel jobs solve concurrently;
// the rest wait on the capacity gate as SOLVING_SCHEDULED.
type Runner struct {
	solver *solver.Solver
	logger *slog.Logger
	gate   chan struct{}

	mu   sync.Mutex
	runs map[string]*run
}

type run struct {
	status model.SolverStatus
	cancel context.CancelFunc
}

// NewRunner creates a Runner with the given solve capacity.
func NewRunner(s *solver.Solver, parallel int, logger *slog.Logger) *Runner {
	if parallel < 1 {
		parallel = 1
	}
	return &Runner{
		solver: s,
		logger: logger.With("component", "engine"),
		gate:   make(chan struct{}, parallel),
		runs:   make(map[string]*run),
	}
}

func (r *Runner) StartSolving(jobID string, alg solver.Algorithm, find func(string) *model.Schedule, onBest func(*model.Schedule), onErr func(string, error)) {
	ctx, cancel := context.WithCancel(context.Background())
	rn := &run{status: model.StatusSolvingScheduled, cancel: cancel}

	r.mu.Lock()
	if existing, ok := r.runs[jobID]; ok && !existing.status.IsTerminal() {
		r.logger.Warn("job already solving, restarting", "job_id", jobID)
		existing.cancel()
	}
	r.runs[jobID] = rn
	r.mu.Unlock()

	go r.solve(ctx, rn, jobID, alg, find, onBest, onErr)
}

func (r *Runner) solve(ctx context.Context, rn *run, jobID string, alg solver.Algorithm, find func(string) *model.Schedule, onBest func(*model.Schedule), onErr func(string, error)) {
	defer r.setStatus(rn, model.StatusTerminated)
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("solver panicked", "job_id", jobID, "panic", p)
			onErr(jobID, fmt.Errorf("solver panic: %v", p))
		}
	}()

	// Wait for capacity; a terminate while queued ends the job unstarted.
	select {
	case r.gate <- struct{}{}:
	case <-ctx.Done():
		r.logger.Info("job terminated while queued", "job_id", jobID)
		return
	}
	defer func() { <-r.gate }()

	r.setStatus(rn, model.StatusSolvingActive)
	r.logger.Info("solving", "job_id", jobID, "algorithm", string(alg))

	problem := find(jobID)
	if problem == nil {
		onErr(jobID, fmt.Errorf("no problem registered for job %s", jobID))
		return
	}

	final, err := r.solver.Solve(ctx, problem, alg, onBest)
	if err != nil {
		onErr(jobID, err)
		return
	}
	// The final solution travels the same path as intermediate ones, so a
	// cancelled run still delivers its best-known assignment.
	onBest(final)
	r.logger.Info("solved", "job_id", jobID, "score", final.Score)
}

func (r *Runner) RequestTerminate(jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rn, ok := r.runs[jobID]; ok && !rn.status.IsTerminal() {
		r.logger.Info("terminate requested", "job_id", jobID)
		rn.cancel()
	}
}

func (r *Runner) Status(jobID string) model.SolverStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rn, ok := r.runs[jobID]; ok {
		return rn.status
	}
	return model.StatusNotSolving
}

// setStatus updates the given run only, so a superseded goroutine can never
// stamp the status of the run that replaced it under the same job id.
func (r *Runner) setStatus(rn *run, status model.SolverStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rn.status = status
}
