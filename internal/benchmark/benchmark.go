// Package benchmark races the search algorithms against each other on a
// generated data set and reports the score each one reached.
package benchmark

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/me/rosterd/internal/demodata"
	"github.com/me/rosterd/internal/solver"
	"github.com/me/rosterd/pkg/model"
)

// Request selects the data set and limits for one benchmark run.
type Request struct {
	Size       demodata.Size      `json:"size"`
	Algorithms []solver.Algorithm `json:"algorithms,omitempty"`
	StepLimit  int                `json:"stepLimit,omitempty"`
	TimeLimit  time.Duration      `json:"-"`
}

// Result is the outcome for a single algorithm.
type Result struct {
	Algorithm solver.Algorithm `json:"algorithm"`
	Score     model.Score      `json:"score"`
	Feasible  bool             `json:"feasible"`
	Elapsed   time.Duration    `json:"-"`
	ElapsedMS int64            `json:"elapsedMillis"`
}

// Report is the full benchmark outcome, best algorithm first.
type Report struct {
	Size      demodata.Size `json:"size"`
	Employees int           `json:"employees"`
	Shifts    int           `json:"shifts"`
	Results   []Result      `json:"results"`
}

// Runner executes benchmark requests with a shared solver configuration.
type Runner struct {
	cfg    solver.Config
	logger *slog.Logger
}

func NewRunner(cfg solver.Config, logger *slog.Logger) *Runner {
	return &Runner{cfg: cfg, logger: logger}
}

// Run solves the same problem once per algorithm and ranks the outcomes.
// Every algorithm starts from its own clone, so runs do not interfere.
func (r *Runner) Run(ctx context.Context, req Request) (*Report, error) {
	algorithms := req.Algorithms
	if len(algorithms) == 0 {
		algorithms = []solver.Algorithm{
			solver.AlgorithmHillClimbing,
			solver.AlgorithmTabuSearch,
			solver.AlgorithmLateAcceptance,
		}
	}

	cfg := r.cfg
	if req.StepLimit > 0 {
		cfg.StepLimit = req.StepLimit
	}
	if req.TimeLimit > 0 {
		cfg.TimeLimit = req.TimeLimit
	}

	problem := demodata.Generate(req.Size)
	s := solver.New(cfg, r.logger)

	report := &Report{
		Size:      req.Size,
		Employees: len(problem.Employees),
		Shifts:    len(problem.Shifts),
	}
	for _, alg := range algorithms {
		started := time.Now()
		best, err := s.Solve(ctx, problem, alg, nil)
		if err != nil {
			return nil, err
		}
		elapsed := time.Since(started)
		r.logger.Info("benchmark run finished",
			"algorithm", string(alg), "score", best.Score.String(), "elapsed", elapsed)
		report.Results = append(report.Results, Result{
			Algorithm: alg,
			Score:     *best.Score,
			Feasible:  best.Score.Feasible(),
			Elapsed:   elapsed,
			ElapsedMS: elapsed.Milliseconds(),
		})
	}

	// Best score first, submission order breaking ties.
	sort.SliceStable(report.Results, func(i, j int) bool {
		return report.Results[i].Score.Cmp(report.Results[j].Score) > 0
	})
	return report, nil
}
