package model

import "fmt"

// SolverStatus is the live state of a solve job.
type SolverStatus string

const (
	// StatusNotSolving is the initial state, before the engine picks the job up.
	StatusNotSolving SolverStatus = "NOT_SOLVING"
	// StatusSolvingScheduled means the job is queued behind engine capacity.
	StatusSolvingScheduled SolverStatus = "SOLVING_SCHEDULED"
	// StatusSolvingActive means the engine is searching.
	StatusSolvingActive SolverStatus = "SOLVING_ACTIVE"
	// StatusTerminated is terminal: finished, cancelled or errored.
	StatusTerminated SolverStatus = "TERMINATED"
)

func (s SolverStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the job will make no further progress.
func (s SolverStatus) IsTerminal() bool {
	return s == StatusTerminated
}

// Schedule is the aggregate exchanged with the solver: the fixed employee
// pool, the shifts to assign, and, once scored, the hard/soft score and the
// live solver status.
type Schedule struct {
	Employees    []*Employee  `json:"employees"`
	Shifts       []*Shift     `json:"shifts"`
	Score        *Score       `json:"score,omitempty"`
	SolverStatus SolverStatus `json:"solverStatus,omitempty"`
}

// Normalize re-links every assigned shift to the canonical employee record
// from the pool, matching by name. Decoded JSON carries duplicated employee
// objects; the scorer and solver rely on pool identity.
func (s *Schedule) Normalize() error {
	byName := make(map[string]*Employee, len(s.Employees))
	for _, e := range s.Employees {
		if e.Name == "" {
			return fmt.Errorf("employee with empty name")
		}
		if _, dup := byName[e.Name]; dup {
			return fmt.Errorf("duplicate employee %q", e.Name)
		}
		byName[e.Name] = e
	}
	for _, sh := range s.Shifts {
		if sh.Employee == nil {
			continue
		}
		canonical, ok := byName[sh.Employee.Name]
		if !ok {
			return fmt.Errorf("shift %s assigned to unknown employee %q", sh.ID, sh.Employee.Name)
		}
		sh.Employee = canonical
	}
	return nil
}

// Clone returns a deep copy of the shift list with shared employee records.
// Employees are immutable during solving, so sharing them is safe; shifts are
// the decision variables and must not alias.
func (s *Schedule) Clone() *Schedule {
	clone := &Schedule{
		Employees:    s.Employees,
		Shifts:       make([]*Shift, len(s.Shifts)),
		SolverStatus: s.SolverStatus,
	}
	if s.Score != nil {
		sc := *s.Score
		clone.Score = &sc
	}
	for i, sh := range s.Shifts {
		copied := *sh
		clone.Shifts[i] = &copied
	}
	return clone
}

// AssignedShifts returns the shifts that have an employee.
func (s *Schedule) AssignedShifts() []*Shift {
	out := make([]*Shift, 0, len(s.Shifts))
	for _, sh := range s.Shifts {
		if sh.Assigned() {
			out = append(out, sh)
		}
	}
	return out
}
