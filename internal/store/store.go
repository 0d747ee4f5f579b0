package store

import (
	"context"
	"time"

	"github.com/me/rosterd/pkg/model"
)

// JobRecord is the archived form of a solve job: the submitted problem, the
// best-known solution, and where the run ended up. The live registry stays in
// memory; the archive is a durable, write-behind record for operators.
type JobRecord struct {
	ID        string             `json:"id"`
	Algorithm string             `json:"algorithm"`
	Status    model.SolverStatus `json:"status"`
	Score     *model.Score       `json:"score,omitempty"`
	Problem   *model.Schedule    `json:"problem,omitempty"`
	Solution  *model.Schedule    `json:"solution,omitempty"`
	Error     string             `json:"error,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Store defines the persistence layer for the job archive.
type Store interface {
	// SaveJob inserts or replaces the record for its id.
	SaveJob(ctx context.Context, rec *JobRecord) error

	// GetJob returns the record for id, or nil when absent.
	GetJob(ctx context.Context, id string) (*JobRecord, error)

	// ListJobs returns all records, newest first, without the problem and
	// solution payloads.
	ListJobs(ctx context.Context) ([]*JobRecord, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
