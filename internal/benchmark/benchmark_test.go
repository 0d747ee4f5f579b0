package benchmark

import (
	"context"
	"testing"

	"github.com/me/rosterd/internal/demodata"
	"github.com/me/rosterd/internal/logging"
	"github.com/me/rosterd/internal/solver"
)

func testConfig() solver.Config {
	cfg := solver.DefaultConfig()
	cfg.Seed = 1
	cfg.StepLimit = 50
	cfg.UnimprovedStepLimit = 25
	return cfg
}

func TestRunAllAlgorithms(t *testing.T) {
	r := NewRunner(testConfig(), logging.Discard())

	report, err := r.Run(context.Background(), Request{Size: demodata.SizeSmall})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(report.Results))
	}
	if report.Employees != 5 || report.Shifts != 28 {
		t.Errorf("problem shape = %d employees / %d shifts", report.Employees, report.Shifts)
	}
	// Report is ranked best first.
	for i := 1; i < len(report.Results); i++ {
		if report.Results[i].Score.Cmp(report.Results[i-1].Score) > 0 {
			t.Errorf("results not ranked: %v before %v",
				report.Results[i-1].Score, report.Results[i].Score)
		}
	}
	seen := make(map[solver.Algorithm]bool)
	for _, res := range report.Results {
		if seen[res.Algorithm] {
			t.Errorf("algorithm %s reported twice", res.Algorithm)
		}
		seen[res.Algorithm] = true
		if res.ElapsedMS < 0 {
			t.Errorf("negative elapsed for %s", res.Algorithm)
		}
	}
}

func TestRunSubsetAndOverrides(t *testing.T) {
	r := NewRunner(testConfig(), logging.Discard())

	report, err := r.Run(context.Background(), Request{
		Size:       demodata.SizeSmall,
		Algorithms: []solver.Algorithm{solver.AlgorithmTabuSearch},
		StepLimit:  10,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Results) != 1 || report.Results[0].Algorithm != solver.AlgorithmTabuSearch {
		t.Fatalf("results = %+v", report.Results)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	cfg := testConfig()
	cfg.StepLimit = 0
	cfg.UnimprovedStepLimit = 0
	cfg.TimeLimit = 0
	r := NewRunner(cfg, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context still yields a result per algorithm: the solver
	// returns its best-so-far instead of an error.
	report, err := r.Run(ctx, Request{
		Size:       demodata.SizeSmall,
		Algorithms: []solver.Algorithm{solver.AlgorithmHillClimbing},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(report.Results))
	}
}
