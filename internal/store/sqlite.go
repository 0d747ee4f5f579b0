package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/rosterd/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a
// Store. Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// WAL keeps archive writes from blocking the history endpoints.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

func (s *SQLiteStore) SaveJob(ctx context.Context, rec *JobRecord) error {
	s.logger.Debug("sql", "op", "upsert", "table", "jobs", "id", rec.ID)

	problemJSON, err := marshalSchedule(rec.Problem)
	if err != nil {
		return fmt.Errorf("marshal problem: %w", err)
	}
	solutionJSON, err := marshalSchedule(rec.Solution)
	if err != nil {
		return fmt.Errorf("marshal solution: %w", err)
	}

	score := ""
	if rec.Score != nil {
		score = rec.Score.String()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, algorithm, status, score, problem, solution, error, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status = excluded.status,
		   score = excluded.score,
		   solution = excluded.solution,
		   error = excluded.error,
		   updated_at = excluded.updated_at`,
		rec.ID, rec.Algorithm, string(rec.Status), score, problemJSON, solutionJSON, rec.Error,
		rec.CreatedAt.Format(time.RFC3339Nano), rec.UpdatedAt.Format(time.RFC3339Nano),
	)
	return err
}

func (s *SQLiteStore) GetJob(ctx context.Context, id string) (*JobRecord, error) {
	s.logger.Debug("sql", "op", "select", "table", "jobs", "id", id)

	var (
		rec                  JobRecord
		status, score        string
		problemJSON          string
		solutionJSON         string
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, algorithm, status, score, problem, solution, error, created_at, updated_at
		 FROM jobs WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Algorithm, &status, &score, &problemJSON, &solutionJSON, &rec.Error,
		&createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.Status = model.SolverStatus(status)
	if score != "" {
		parsed, err := model.ParseScore(score)
		if err != nil {
			return nil, fmt.Errorf("parse score: %w", err)
		}
		rec.Score = &parsed
	}
	if rec.Problem, err = unmarshalSchedule(problemJSON); err != nil {
		return nil, fmt.Errorf("unmarshal problem: %w", err)
	}
	if rec.Solution, err = unmarshalSchedule(solutionJSON); err != nil {
		return nil, fmt.Errorf("unmarshal solution: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)

	return &rec, nil
}

func (s *SQLiteStore) ListJobs(ctx context.Context) ([]*JobRecord, error) {
	s.logger.Debug("sql", "op", "select_all", "table", "jobs")

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, algorithm, status, score, error, created_at, updated_at
		 FROM jobs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*JobRecord
	for rows.Next() {
		var (
			rec                  JobRecord
			status, score        string
			createdAt, updatedAt string
		)
		if err := rows.Scan(&rec.ID, &rec.Algorithm, &status, &score, &rec.Error,
			&createdAt, &updatedAt); err != nil {
			return nil, err
		}
		rec.Status = model.SolverStatus(status)
		if score != "" {
			parsed, err := model.ParseScore(score)
			if err != nil {
				return nil, fmt.Errorf("parse score: %w", err)
			}
			rec.Score = &parsed
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func marshalSchedule(s *model.Schedule) (string, error) {
	if s == nil {
		return "", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalSchedule(data string) (*model.Schedule, error) {
	if data == "" {
		return nil, nil
	}
	var s model.Schedule
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, err
	}
	return &s, nil
}
