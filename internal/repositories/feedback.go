package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/shared"
)

const feedbackColumns = "id, sequence, rating, comments, submitted_at, created_at, updated_at, deleted_at"

var _ models.Repository[*models.Feedback] = (*FeedbackRepository)(nil)

// FeedbackRepository implements models.Repository[*models.Feedback] for the local feedback outbox.
//
// Deletes are soft; deleted rows are invisible to Get and List.
type FeedbackRepository struct {
	db *sql.DB
}

// NewFeedbackRepository creates a new FeedbackRepository with the given database connection
func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create inserts feedback with a generated ID and sequence
func (r *FeedbackRepository) Create(feedback *models.Feedback) error {
	if err := feedback.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	sequence, err := NextSequence(r.db, "feedback")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO feedback (id, sequence, rating, comments, submitted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		feedback.Rating(),
		feedback.Comments(),
		nullTime(feedback.SubmittedAt()),
		feedback.CreatedAt(),
		feedback.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}

	feedback.SetID(id)
	feedback.SetSequence(sequence)
	return nil
}

// Get retrieves feedback by ID, excluding soft-deleted rows
func (r *FeedbackRepository) Get(id string) (*models.Feedback, error) {
	query := "SELECT " + feedbackColumns + " FROM feedback WHERE id = ? AND deleted_at IS NULL"

	feedback, err := scanFeedback(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: feedback %s", shared.ErrNotFound, id)
	}
	return feedback, err
}

// Update writes the rating, comments and submission time of existing feedback
func (r *FeedbackRepository) Update(feedback *models.Feedback) error {
	if err := feedback.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	query := `
		UPDATE feedback
		SET rating = ?, comments = ?, submitted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		feedback.Rating(),
		feedback.Comments(),
		nullTime(feedback.SubmittedAt()),
		time.Now(),
		feedback.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}

	return expectRow(result, feedback.ID())
}

// Delete soft-deletes feedback by ID
func (r *FeedbackRepository) Delete(id string) error {
	query := `
		UPDATE feedback
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}

	return expectRow(result, id)
}

// List retrieves feedback matching criteria, newest first.
//
// Supported criteria: "pending" (bool, only rows not yet submitted), "min_rating" (int) and "limit" (int).
func (r *FeedbackRepository) List(criteria map[string]any) ([]*models.Feedback, error) {
	query := "SELECT " + feedbackColumns + " FROM feedback WHERE deleted_at IS NULL"
	args := []any{}

	if pending, ok := criteria["pending"].(bool); ok && pending {
		query += " AND submitted_at IS NULL"
	}

	if minRating, ok := criteria["min_rating"].(int); ok && minRating > 0 {
		query += " AND rating >= ?"
		args = append(args, minRating)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var feedback []*models.Feedback
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		feedback = append(feedback, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return feedback, nil
}

// MarkSubmitted records that feedback has been forwarded.
func (r *FeedbackRepository) MarkSubmitted(id string, at time.Time) error {
	result, err := r.db.Exec("UPDATE feedback SET submitted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL", at, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark feedback submitted: %w", err)
	}
	return expectRow(result, id)
}

// scanner is satisfied by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

func scanFeedback(s scanner) (*models.Feedback, error) {
	var (
		id          string
		sequence    int
		rating      int
		comments    string
		submittedAt sql.NullTime
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := s.Scan(&id, &sequence, &rating, &comments, &submittedAt, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan feedback: %w", err)
	}

	return models.RestoreFeedback(id, sequence, rating, comments, timePtr(submittedAt), createdAt, updatedAt, timePtr(deletedAt)), nil
}

func expectRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: feedback %s not found or already deleted", shared.ErrNotFound, id)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
