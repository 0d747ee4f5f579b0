package manager

import "fmt"

// NotFoundError reports an unknown job id.
type NotFoundError struct {
	JobID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no schedule found for job %s", e.JobID)
}

// SolverFailedError reports that the engine failed while solving the job.
// The original failure stays wrapped so callers can inspect it.
type SolverFailedError struct {
	JobID string
	Err   error
}

func (e *SolverFailedError) Error() string {
	return fmt.Sprintf("solving failed for job %s: %v", e.JobID, e.Err)
}

func (e *SolverFailedError) Unwrap() error {
	return e.Err
}

// InvalidInputError reports a malformed submitted schedule.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid schedule: " + e.Reason
}
