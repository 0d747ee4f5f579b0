package store

import (
	"context"
	"testing"
	"time"

	"github.com/me/rosterd/internal/logging"
	"github.com/me/rosterd/pkg/model"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:", logging.Discard())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func sampleRecord(id string) *JobRecord {
	d := model.Date{Year: 2021, Month: 2, Day: 1}
	problem := &model.Schedule{
		Employees: []*model.Employee{
			{Name: "Amy Cole", Role: model.RoleSpecialist, MaxWorkingHoursPerWeek: 40},
		},
		Shifts: []*model.Shift{
			{ID: "1", Start: model.NewDateTime(d, 10, 0), End: model.NewDateTime(d, 18, 0), RequiredRole: model.RoleSpecialist},
		},
	}
	now := time.Now().UTC()
	return &JobRecord{
		ID:        id,
		Algorithm: "HILL_CLIMBING",
		Status:    model.StatusSolvingActive,
		Problem:   problem,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSaveAndGetJob(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	rec := sampleRecord("job-1")
	if err := s.SaveJob(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("record not found")
	}
	if got.Algorithm != "HILL_CLIMBING" || got.Status != model.StatusSolvingActive {
		t.Errorf("record = %+v", got)
	}
	if got.Problem == nil || len(got.Problem.Shifts) != 1 {
		t.Errorf("problem payload lost: %+v", got.Problem)
	}
	if got.Score != nil || got.Solution != nil {
		t.Error("unset fields should round-trip as nil")
	}
}

func TestSaveJobUpsert(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	rec := sampleRecord("job-1")
	if err := s.SaveJob(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	score := model.Score{Hard: 0, Soft: -1}
	rec.Status = model.StatusTerminated
	rec.Score = &score
	rec.Solution = rec.Problem
	rec.UpdatedAt = rec.UpdatedAt.Add(time.Second)
	if err := s.SaveJob(ctx, rec); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.StatusTerminated {
		t.Errorf("status = %s, want TERMINATED", got.Status)
	}
	if got.Score == nil || *got.Score != score {
		t.Errorf("score = %v, want %v", got.Score, score)
	}
	if got.Solution == nil {
		t.Error("solution payload missing after update")
	}
}

func TestGetJobAbsent(t *testing.T) {
	s := testStore(t)
	got, err := s.GetJob(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for absent id, got %+v", got)
	}
}

func TestListJobsNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	older := sampleRecord("older")
	older.CreatedAt = time.Date(2021, 2, 1, 9, 0, 0, 0, time.UTC)
	newer := sampleRecord("newer")
	newer.CreatedAt = time.Date(2021, 2, 1, 10, 0, 0, 0, time.UTC)

	for _, rec := range []*JobRecord{older, newer} {
		if err := s.SaveJob(ctx, rec); err != nil {
			t.Fatalf("save %s: %v", rec.ID, err)
		}
	}

	jobs, err := s.ListJobs(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("len = %d, want 2", len(jobs))
	}
	if jobs[0].ID != "newer" || jobs[1].ID != "older" {
		t.Errorf("order = %s, %s", jobs[0].ID, jobs[1].ID)
	}
	// The list omits the heavy payloads.
	if jobs[0].Problem != nil || jobs[0].Solution != nil {
		t.Error("list should not include problem/solution payloads")
	}
}

func TestMigrateIdempotent(t *testing.T) {
	s := testStore(t)
	if err := s.Migrate(context.Background()); err != nil {
		t.Errorf("second migrate: %v", err)
	}
}
