package solver

import "github.com/me/rosterd/pkg/model"

// construct fills every unassigned shift with the employee that yields the
// best score at that point, taking shifts in input order (first fit). Shifts
// that already carry an assignment are left alone: pre-set assignments are
// part of the problem.
func (s *Solver) construct(working *model.Schedule) {
	if len(working.Employees) == 0 {
		return
	}
	for _, sh := range working.Shifts {
		if sh.Assigned() {
			continue
		}
		var (
			bestEmployee *model.Employee
			bestScore    model.Score
		)
		for _, e := range working.Employees {
			sh.Employee = e
			score := Score(working)
			if bestEmployee == nil || score.Cmp(bestScore) > 0 {
				bestEmployee, bestScore = e, score
			}
		}
		sh.Employee = bestEmployee
	}
}
