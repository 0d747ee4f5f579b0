package solver

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/me/rosterd/pkg/model"
)

// Algorithm selects the local-search acceptor.
type Algorithm string

const (
	AlgorithmHillClimbing   Algorithm = "HILL_CLIMBING"
	AlgorithmTabuSearch     Algorithm = "TABU_SEARCH"
	AlgorithmLateAcceptance Algorithm = "LATE_ACCEPTANCE"
)

// ParseAlgorithm maps a query-string value onto an Algorithm. Unknown or
// empty values default to hill climbing so existing clients keep working.
func ParseAlgorithm(s string) Algorithm {
	switch Algorithm(s) {
	case AlgorithmTabuSearch:
		return AlgorithmTabuSearch
	case AlgorithmLateAcceptance:
		return AlgorithmLateAcceptance
	default:
		return AlgorithmHillClimbing
	}
}

// Config bounds a solve run.
type Config struct {
	StepLimit           int           // total steps, 0 means unlimited
	UnimprovedStepLimit int           // steps without a new best before stopping
	TimeLimit           time.Duration // wall clock, 0 means unlimited
	MoveSample          int           // moves evaluated per step
	TabuSize            int           // entity tabu tenure
	LateAcceptanceSize  int           // score history length
	Seed                int64         // 0 seeds from the clock
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UnimprovedStepLimit: 200,
		TimeLimit:           30 * time.Second,
		MoveSample:          32,
		TabuSize:            7,
		LateAcceptanceSize:  64,
	}
}

// Solver runs first-fit construction followed by local search over shift
// assignments. The only field a run mutates is Shift.Employee, and only on
// its own working clone of the problem.
type Solver struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Solver.
func New(cfg Config, logger *slog.Logger) *Solver {
	if cfg.MoveSample <= 0 {
		cfg.MoveSample = DefaultConfig().MoveSample
	}
	if cfg.TabuSize <= 0 {
		cfg.TabuSize = DefaultConfig().TabuSize
	}
	if cfg.LateAcceptanceSize <= 0 {
		cfg.LateAcceptanceSize = DefaultConfig().LateAcceptanceSize
	}
	return &Solver{cfg: cfg, logger: logger.With("component", "solver")}
}

// Solve searches for a better assignment of the problem. Every improving
// solution is delivered through onBest as a scored deep copy; the final best
// is also returned. Cancelling ctx requests cooperative termination: the run
// stops at the next step boundary and returns its best so far.
func (s *Solver) Solve(ctx context.Context, problem *model.Schedule, alg Algorithm, onBest func(*model.Schedule)) (*model.Schedule, error) {
	if problem == nil {
		return nil, fmt.Errorf("nil problem")
	}

	seed := s.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	working := problem.Clone()
	s.construct(working)

	current := Score(working)
	best := snapshot(working, current)
	bestScore := current
	if onBest != nil {
		onBest(best)
	}

	if len(working.Employees) == 0 || len(working.Shifts) == 0 {
		return best, nil
	}

	acceptor := s.newAcceptor(alg, current)
	deadline := time.Time{}
	if s.cfg.TimeLimit > 0 {
		deadline = time.Now().Add(s.cfg.TimeLimit)
	}

	steps, unimproved := 0, 0
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("solve terminated early", "steps", steps, "score", bestScore)
			return best, nil
		default:
		}
		if s.cfg.StepLimit > 0 && steps >= s.cfg.StepLimit {
			break
		}
		if s.cfg.UnimprovedStepLimit > 0 && unimproved >= s.cfg.UnimprovedStepLimit {
			break
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}

		mv, score, ok := s.pickMove(rng, working, acceptor, bestScore)
		steps++
		if !ok {
			unimproved++
			continue
		}

		mv.apply(working)
		current = score
		acceptor.stepTaken(mv, current)

		if current.Cmp(bestScore) > 0 {
			bestScore = current
			best = snapshot(working, current)
			unimproved = 0
			if onBest != nil {
				onBest(best)
			}
		} else {
			unimproved++
		}
	}

	s.logger.Debug("solve finished", "algorithm", string(alg), "steps", steps, "score", bestScore)
	return best, nil
}

// move reassigns one shift to a different employee.
type move struct {
	shiftIdx int
	employee *model.Employee
	previous *model.Employee
}

func (m move) apply(s *model.Schedule) {
	s.Shifts[m.shiftIdx].Employee = m.employee
}

func (m move) undo(s *model.Schedule) {
	s.Shifts[m.shiftIdx].Employee = m.previous
}

// pickMove samples random moves and returns the best one the acceptor allows.
func (s *Solver) pickMove(rng *rand.Rand, working *model.Schedule, acc acceptor, bestScore model.Score) (move, model.Score, bool) {
	var (
		bestMove move
		bestCand model.Score
		havePick bool
	)
	for i := 0; i < s.cfg.MoveSample; i++ {
		idx := rng.Intn(len(working.Shifts))
		candidate := working.Employees[rng.Intn(len(working.Employees))]
		if working.Shifts[idx].Employee == candidate {
			continue
		}
		mv := move{shiftIdx: idx, employee: candidate, previous: working.Shifts[idx].Employee}

		mv.apply(working)
		score := Score(working)
		mv.undo(working)

		if !acc.accept(mv, score, bestScore) {
			continue
		}
		if !havePick || score.Cmp(bestCand) > 0 {
			bestMove, bestCand, havePick = mv, score, true
		}
	}
	return bestMove, bestCand, havePick
}

// snapshot deep-copies the working schedule with its score attached.
func snapshot(working *model.Schedule, score model.Score) *model.Schedule {
	out := working.Clone()
	sc := score
	out.Score = &sc
	return out
}
