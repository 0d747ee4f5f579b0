package solver

import (
	"context"
	"testing"
	"time"

	"github.com/me/rosterd/internal/logging"
	"github.com/me/rosterd/pkg/model"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 1
	cfg.StepLimit = 300
	cfg.UnimprovedStepLimit = 50
	cfg.TimeLimit = 5 * time.Second
	return cfg
}

// testProblem builds a small instance with a known-feasible assignment:
// one Specialist and two Assistants, two slots a day over three days.
func testProblem() *model.Schedule {
	employees := []*model.Employee{
		specialist("Alice"),
		assistant("Bob"),
		assistant("Carol"),
	}
	var shifts []*model.Shift
	id := 0
	for day := 0; day < 3; day++ {
		for _, hour := range []int{10, 14} {
			id++
			shifts = append(shifts, &model.Shift{
				ID:           string(rune('a' + id)),
				Start:        model.NewDateTime(day1.AddDays(day), hour, 0),
				End:          model.NewDateTime(day1.AddDays(day), hour+8, 0),
				RequiredRole: model.RoleSpecialist,
			})
		}
	}
	return &model.Schedule{Employees: employees, Shifts: shifts}
}

func TestConstructAssignsEveryShift(t *testing.T) {
	s := New(testConfig(), logging.Discard())
	working := testProblem().Clone()
	s.construct(working)

	for _, sh := range working.Shifts {
		if !sh.Assigned() {
			t.Errorf("shift %s left unassigned", sh.ID)
		}
	}
}

func TestConstructKeepsPresetAssignments(t *testing.T) {
	problem := testProblem()
	bob := problem.Employees[1]
	problem.Shifts[0].Employee = bob

	s := New(testConfig(), logging.Discard())
	working := problem.Clone()
	s.construct(working)

	if working.Shifts[0].Employee != bob {
		t.Error("construction must not touch pre-set assignments")
	}
}

func TestSolveImprovesOrMatchesConstruction(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmHillClimbing, AlgorithmTabuSearch, AlgorithmLateAcceptance} {
		t.Run(string(alg), func(t *testing.T) {
			s := New(testConfig(), logging.Discard())

			var first *model.Schedule
			best, err := s.Solve(context.Background(), testProblem(), alg, func(sol *model.Schedule) {
				if first == nil {
					first = sol
				}
			})
			if err != nil {
				t.Fatalf("Solve: %v", err)
			}
			if best.Score == nil {
				t.Fatal("best solution has no score")
			}
			if first == nil {
				t.Fatal("onBest never called")
			}
			if best.Score.Cmp(*first.Score) < 0 {
				t.Errorf("final %v worse than construction %v", best.Score, first.Score)
			}
			for _, sh := range best.Shifts {
				if !sh.Assigned() {
					t.Errorf("shift %s unassigned in final solution", sh.ID)
				}
			}
		})
	}
}

func TestSolveFindsFeasibleSolution(t *testing.T) {
	s := New(testConfig(), logging.Discard())
	best, err := s.Solve(context.Background(), testProblem(), AlgorithmHillClimbing, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	// One Specialist can cover every slot of this instance without tripping
	// any hard rule.
	if !best.Score.Feasible() {
		t.Errorf("expected feasible solution, got %v", best.Score)
	}
}

func TestSolveDoesNotMutateProblem(t *testing.T) {
	problem := testProblem()
	s := New(testConfig(), logging.Discard())
	if _, err := s.Solve(context.Background(), problem, AlgorithmHillClimbing, nil); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	for _, sh := range problem.Shifts {
		if sh.Assigned() {
			t.Fatal("Solve mutated the caller's problem")
		}
	}
}

func TestSolveSnapshotScoreMatchesAssignment(t *testing.T) {
	s := New(testConfig(), logging.Discard())
	var snapshots []*model.Schedule
	_, err := s.Solve(context.Background(), testProblem(), AlgorithmLateAcceptance, func(sol *model.Schedule) {
		snapshots = append(snapshots, sol)
	})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	for i, sol := range snapshots {
		if got := Score(sol); got != *sol.Score {
			t.Errorf("snapshot %d: stored %v, recomputed %v", i, sol.Score, got)
		}
	}
}

func TestSolveCancelledContextStops(t *testing.T) {
	cfg := testConfig()
	cfg.StepLimit = 0
	cfg.UnimprovedStepLimit = 0
	cfg.TimeLimit = 0 // only the context can stop this run

	s := New(cfg, logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan *model.Schedule, 1)
	go func() {
		best, _ := s.Solve(ctx, testProblem(), AlgorithmHillClimbing, nil)
		done <- best
	}()

	cancel()
	select {
	case best := <-done:
		if best == nil || best.Score == nil {
			t.Error("terminated run should still return its best so far")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Solve did not stop after cancellation")
	}
}

func TestSolveNilProblem(t *testing.T) {
	s := New(testConfig(), logging.Discard())
	if _, err := s.Solve(context.Background(), nil, AlgorithmHillClimbing, nil); err == nil {
		t.Error("expected error for nil problem")
	}
}

func TestSolveEmptyProblem(t *testing.T) {
	s := New(testConfig(), logging.Discard())
	best, err := s.Solve(context.Background(), &model.Schedule{}, AlgorithmHillClimbing, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if *best.Score != (model.Score{}) {
		t.Errorf("empty problem score = %v, want 0hard/0soft", best.Score)
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in   string
		want Algorithm
	}{
		{"TABU_SEARCH", AlgorithmTabuSearch},
		{"LATE_ACCEPTANCE", AlgorithmLateAcceptance},
		{"HILL_CLIMBING", AlgorithmHillClimbing},
		{"", AlgorithmHillClimbing},
		{"SIMULATED_ANNEALING", AlgorithmHillClimbing},
	}
	for _, tt := range tests {
		if got := ParseAlgorithm(tt.in); got != tt.want {
			t.Errorf("ParseAlgorithm(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
