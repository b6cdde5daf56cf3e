package publisher

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/jfmyers9/lrcup/pkg/lrclib"
)

// createTestQueue creates an in-memory SQLite queue for testing
func createTestQueue(t *testing.T) *Queue {
	t.Helper()

	queue, err := NewQueue(":memory:")
	if err != nil {
		t.Fatalf("failed to create test queue: %v", err)
	}

	t.Cleanup(func() {
		_ = queue.Close()
	})

	return queue
}

func TestNewQueue(t *testing.T) {
	t.Run("in-memory database", func(t *testing.T) {
		queue, err := NewQueue(":memory:")
		if err != nil {
			t.Fatalf("failed to create in-memory queue: %v", err)
		}
		defer func() { _ = queue.Close() }()

		if queue.db == nil {
			t.Error("queue database is nil")
		}
	})

	t.Run("file-based database survives reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pending.db")
		ctx := context.Background()

		queue, err := NewQueue(path)
		if err != nil {
			t.Fatalf("failed to create file-based queue: %v", err)
		}
		if _, err := queue.Add(ctx, validSubmission(), "a.lrc"); err != nil {
			t.Fatalf("failed to add submission: %v", err)
		}
		_ = queue.Close()

		queue, err = NewQueue(path)
		if err != nil {
			t.Fatalf("failed to reopen queue: %v", err)
		}
		defer func() { _ = queue.Close() }()

		count, err := queue.Count(ctx, true)
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 submission after reopen, got %d", count)
		}
	})
}

func TestQueueAddAndGetPending(t *testing.T) {
	queue := createTestQueue(t)
	ctx := context.Background()

	sub := validSubmission()
	sub.PlainLyrics = "One\nTwo"

	id, err := queue.Add(ctx, sub, "/music/song.lrc")
	if err != nil {
		t.Fatalf("failed to add submission: %v", err)
	}
	if id <= 0 {
		t.Errorf("expected positive id, got %d", id)
	}

	pending, err := queue.GetPending(ctx, 0)
	if err != nil {
		t.Fatalf("failed to get pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending submission, got %d", len(pending))
	}

	want := Pending{ID: id, Submission: sub, Source: "/music/song.lrc"}
	if diff := cmp.Diff(want, pending[0], cmpopts.IgnoreFields(Pending{}, "CreatedAt")); diff != "" {
		t.Errorf("pending mismatch (-want +got):\n%s", diff)
	}
	if time.Since(pending[0].CreatedAt) > time.Minute {
		t.Errorf("unexpected created_at %v", pending[0].CreatedAt)
	}
}

func TestQueueMarkPublished(t *testing.T) {
	queue := createTestQueue(t)
	ctx := context.Background()

	id, err := queue.Add(ctx, validSubmission(), "")
	if err != nil {
		t.Fatalf("failed to add submission: %v", err)
	}

	if err := queue.MarkPublished(ctx, id); err != nil {
		t.Fatalf("failed to mark published: %v", err)
	}

	count, err := queue.Count(ctx, false)
	if err != nil {
		t.Fatalf("failed to count pending: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 pending submissions, got %d", count)
	}

	total, err := queue.Count(ctx, true)
	if err != nil {
		t.Fatalf("failed to count total: %v", err)
	}
	if total != 1 {
		t.Errorf("expected 1 total submission, got %d", total)
	}

	all, err := queue.GetAll(ctx)
	if err != nil {
		t.Fatalf("failed to get all: %v", err)
	}
	if !all[0].Published || all[0].Attempts != 1 {
		t.Errorf("expected published with 1 attempt, got %+v", all[0])
	}
}

func TestQueueMarkError(t *testing.T) {
	queue := createTestQueue(t)
	ctx := context.Background()

	id, err := queue.Add(ctx, validSubmission(), "")
	if err != nil {
		t.Fatalf("failed to add submission: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := queue.MarkError(ctx, id, "connection refused"); err != nil {
			t.Fatalf("failed to mark error: %v", err)
		}
	}

	pending, err := queue.GetPending(ctx, 0)
	if err != nil {
		t.Fatalf("failed to get pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending submission, got %d", len(pending))
	}
	if pending[0].Error != "connection refused" {
		t.Errorf("expected error message, got %q", pending[0].Error)
	}
	if pending[0].Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", pending[0].Attempts)
	}
}

func TestQueueGetPendingWithLimit(t *testing.T) {
	queue := createTestQueue(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 5; i++ {
		id, err := queue.Add(ctx, validSubmission(), "")
		if err != nil {
			t.Fatalf("failed to add submission: %v", err)
		}
		ids = append(ids, id)
	}

	pending, err := queue.GetPending(ctx, 3)
	if err != nil {
		t.Fatalf("failed to get pending: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending submissions, got %d", len(pending))
	}
	for i, p := range pending {
		if p.ID != ids[i] {
			t.Errorf("expected oldest first: position %d has id %d, want %d", i, p.ID, ids[i])
		}
	}
}

func TestQueueCleanup(t *testing.T) {
	queue := createTestQueue(t)
	ctx := context.Background()

	published, _ := queue.Add(ctx, validSubmission(), "")
	pending, _ := queue.Add(ctx, validSubmission(), "")
	if err := queue.MarkPublished(ctx, published); err != nil {
		t.Fatalf("failed to mark published: %v", err)
	}

	// Nothing is old enough yet.
	deleted, err := queue.Cleanup(ctx, time.Hour)
	if err != nil {
		t.Fatalf("failed to cleanup: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 deleted, got %d", deleted)
	}

	// A negative age puts the cutoff in the future.
	deleted, err = queue.Cleanup(ctx, -time.Hour)
	if err != nil {
		t.Fatalf("failed to cleanup: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted, got %d", deleted)
	}

	all, _ := queue.GetAll(ctx)
	if len(all) != 1 || all[0].ID != pending {
		t.Errorf("expected only the pending submission to remain, got %+v", all)
	}
}

func TestQueueRemove(t *testing.T) {
	queue := createTestQueue(t)
	ctx := context.Background()

	id, _ := queue.Add(ctx, validSubmission(), "")
	if err := queue.Remove(ctx, id); err != nil {
		t.Fatalf("failed to remove: %v", err)
	}
	if err := queue.Remove(ctx, id); err == nil {
		t.Error("expected error removing a missing submission")
	}
}

func TestQueueEdgeCases(t *testing.T) {
	queue := createTestQueue(t)
	ctx := context.Background()

	t.Run("mark missing id", func(t *testing.T) {
		if err := queue.MarkPublished(ctx, 9999); err == nil {
			t.Error("expected error for missing id")
		}
		if err := queue.MarkError(ctx, 9999, "x"); err == nil {
			t.Error("expected error for missing id")
		}
	})

	t.Run("empty queue", func(t *testing.T) {
		pending, err := queue.GetPending(ctx, 0)
		if err != nil {
			t.Fatalf("failed to get pending: %v", err)
		}
		if len(pending) != 0 {
			t.Errorf("expected empty queue, got %d", len(pending))
		}
	})

	t.Run("unicode round trip", func(t *testing.T) {
		sub := lrclib.Submission{
			TrackName:    "夜に駆ける",
			ArtistName:   "YOASOBI",
			AlbumName:    "THE BOOK",
			Duration:     261.5,
			SyncedLyrics: "[00:01.00] 沈むように",
		}
		id, err := queue.Add(ctx, sub, "")
		if err != nil {
			t.Fatalf("failed to add: %v", err)
		}
		all, _ := queue.GetAll(ctx)
		for _, p := range all {
			if p.ID == id {
				if diff := cmp.Diff(sub, p.Submission); diff != "" {
					t.Errorf("submission mismatch (-want +got):\n%s", diff)
				}
				return
			}
		}
		t.Errorf("submission %d not found", id)
	})
}

func TestQueueConcurrentAccess(t *testing.T) {
	queue := createTestQueue(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := queue.Add(ctx, validSubmission(), ""); err != nil {
				t.Errorf("concurrent add failed: %v", err)
			}
		}()
	}
	wg.Wait()

	count, err := queue.Count(ctx, false)
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 10 {
		t.Errorf("expected 10 pending submissions, got %d", count)
	}
}
