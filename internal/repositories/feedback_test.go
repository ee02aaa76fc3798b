package repositories

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func mustCreate(t *testing.T, repo *FeedbackRepository, rating int, comments string) *models.Feedback {
	t.Helper()
	f := models.NewFeedback(rating, comments)
	if err := repo.Create(f); err != nil {
		t.Fatalf("failed to create feedback: %v", err)
	}
	return f
}

func TestFeedbackRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewFeedbackRepository(setupTestDB(t))

		first := mustCreate(t, repo, 5, "great picks")
		second := mustCreate(t, repo, 3, "")

		if first.ID() == "" || first.ID() == second.ID() {
			t.Errorf("expected distinct generated IDs, got %q and %q", first.ID(), second.ID())
		}
		if first.Sequence() != 1 || second.Sequence() != 2 {
			t.Errorf("expected sequences 1 and 2, got %d and %d", first.Sequence(), second.Sequence())
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewFeedbackRepository(setupTestDB(t))
		created := mustCreate(t, repo, 4, "more jazz please")

		got, err := repo.Get(created.ID())
		if err != nil {
			t.Fatalf("failed to get feedback: %v", err)
		}
		if got.Rating() != 4 || got.Comments() != "more jazz please" {
			t.Errorf("unexpected feedback %d %q", got.Rating(), got.Comments())
		}
		if got.SubmittedAt() != nil {
			t.Error("new feedback should not be submitted")
		}
		if got.Sequence() != created.Sequence() {
			t.Errorf("expected sequence %d, got %d", created.Sequence(), got.Sequence())
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewFeedbackRepository(setupTestDB(t))
		f := mustCreate(t, repo, 2, "meh")

		f.SetRating(3)
		f.SetComments("better after a second listen")
		if err := repo.Update(f); err != nil {
			t.Fatalf("failed to update feedback: %v", err)
		}

		got, err := repo.Get(f.ID())
		if err != nil {
			t.Fatalf("failed to get feedback: %v", err)
		}
		if got.Rating() != 3 || got.Comments() != "better after a second listen" {
			t.Errorf("update not persisted: %d %q", got.Rating(), got.Comments())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewFeedbackRepository(setupTestDB(t))
		f := mustCreate(t, repo, 1, "")

		if err := repo.Delete(f.ID()); err != nil {
			t.Fatalf("failed to delete feedback: %v", err)
		}
		if _, err := repo.Get(f.ID()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}

		list, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list feedback: %v", err)
		}
		if len(list) != 0 {
			t.Errorf("deleted feedback should not be listed, got %d", len(list))
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewFeedbackRepository(setupTestDB(t))
		low := mustCreate(t, repo, 1, "")
		mid := mustCreate(t, repo, 3, "")
		high := mustCreate(t, repo, 5, "")

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list feedback: %v", err)
		}
		if len(all) != 3 || all[0].ID() != high.ID() || all[2].ID() != low.ID() {
			t.Errorf("expected newest first, got %d rows", len(all))
		}

		rated, err := repo.List(map[string]any{"min_rating": 3})
		if err != nil {
			t.Fatalf("failed to list feedback: %v", err)
		}
		if len(rated) != 2 {
			t.Errorf("expected 2 rows with rating >= 3, got %d", len(rated))
		}

		limited, err := repo.List(map[string]any{"limit": 1})
		if err != nil {
			t.Fatalf("failed to list feedback: %v", err)
		}
		if len(limited) != 1 || limited[0].ID() != high.ID() {
			t.Errorf("expected only the newest row, got %d", len(limited))
		}

		if err := repo.MarkSubmitted(mid.ID(), time.Now()); err != nil {
			t.Fatalf("failed to mark submitted: %v", err)
		}
		pending, err := repo.List(map[string]any{"pending": true})
		if err != nil {
			t.Fatalf("failed to list feedback: %v", err)
		}
		if len(pending) != 2 {
			t.Errorf("expected 2 pending rows, got %d", len(pending))
		}
		for _, f := range pending {
			if f.ID() == mid.ID() {
				t.Error("submitted feedback should not be pending")
			}
		}
	})

	t.Run("MarkSubmitted", func(t *testing.T) {
		repo := NewFeedbackRepository(setupTestDB(t))
		f := mustCreate(t, repo, 4, "")

		at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		if err := repo.MarkSubmitted(f.ID(), at); err != nil {
			t.Fatalf("failed to mark submitted: %v", err)
		}

		got, err := repo.Get(f.ID())
		if err != nil {
			t.Fatalf("failed to get feedback: %v", err)
		}
		if got.SubmittedAt() == nil || !got.SubmittedAt().Equal(at) {
			t.Errorf("expected submitted_at %v, got %v", at, got.SubmittedAt())
		}
	})
}

func TestFeedbackRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			repo := NewFeedbackRepository(setupTestDB(t))

			for _, f := range []*models.Feedback{
				models.NewFeedback(0, ""),
				models.NewFeedback(6, ""),
				models.NewFeedback(3, strings.Repeat("x", models.MaxCommentsLength+1)),
			} {
				if err := repo.Create(f); !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				if f.ID() != "" {
					t.Error("rejected feedback should not receive an ID")
				}
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			repo := NewFeedbackRepository(setupTestDB(t))
			if _, err := repo.Get("missing"); !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			repo := NewFeedbackRepository(setupTestDB(t))
			f := models.RestoreFeedback("missing", 1, 3, "", nil, time.Now(), time.Now(), nil)
			if err := repo.Update(f); !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("AlreadyDeleted", func(t *testing.T) {
			repo := NewFeedbackRepository(setupTestDB(t))
			f := mustCreate(t, repo, 3, "")

			if err := repo.Delete(f.ID()); err != nil {
				t.Fatalf("first delete failed: %v", err)
			}
			if err := repo.Delete(f.ID()); !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound on second delete, got %v", err)
			}
		})
	})

	t.Run("MarkSubmitted", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			repo := NewFeedbackRepository(setupTestDB(t))
			if err := repo.MarkSubmitted("missing", time.Now()); !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	})
}
