package job

import (
	"context"
	"testing"
	"time"
)

func TestMemoryRepository_Save(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	job := New("go")

	if err := repo.Save(ctx, job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saved, err := repo.FindByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ID != job.ID {
		t.Errorf("expected ID %s, got %s", job.ID, saved.ID)
	}
}

func TestMemoryRepository_Save_Update(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	job := New("go")

	_ = repo.Save(ctx, job)

	_ = job.Start()
	_ = job.Complete(12)
	_ = repo.Save(ctx, job)

	saved, _ := repo.FindByID(ctx, job.ID)
	if saved.Status != StatusCompleted {
		t.Errorf("expected status %s, got %s", StatusCompleted, saved.Status)
	}
	if saved.Records != 12 {
		t.Errorf("expected 12 records, got %d", saved.Records)
	}
}

func TestMemoryRepository_FindByID_NotFound(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.FindByID(context.Background(), "nonexistent")
	if err != ErrJobNotFound {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
}

func TestMemoryRepository_FindByID_ReturnsClone(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	job := New("go")
	_ = repo.Save(ctx, job)

	found, _ := repo.FindByID(ctx, job.ID)
	found.Records = 99
	_ = found.Start()

	original, _ := repo.FindByID(ctx, job.ID)
	if original.Records != 0 {
		t.Error("modifying returned job should not affect repository")
	}
	if original.Status != StatusInQueue {
		t.Error("modifying returned job status should not affect repository")
	}
}

func TestMemoryRepository_List(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	jobs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("expected empty list, got %d", len(jobs))
	}

	base := time.Now()
	for i, keyword := range []string{"go", "rust", "python"} {
		job := NewWithID(keyword+"-job", keyword)
		job.CreatedAt = base.Add(time.Duration(i) * time.Second)
		_ = repo.Save(ctx, job)
	}

	jobs, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}
	for i, want := range []string{"go", "rust", "python"} {
		if jobs[i].Keyword != want {
			t.Errorf("jobs[%d].Keyword = %s, want %s", i, jobs[i].Keyword, want)
		}
	}
}
