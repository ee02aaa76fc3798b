package models

import (
	"errors"
	"time"
	"unicode/utf8"
)

const (
	MinRating         = 1
	MaxRating         = 5
	MaxCommentsLength = 1000
)

// Feedback is a rating with optional comments, kept in the local outbox until forwarded.
type Feedback struct {
	id          string
	sequence    int
	rating      int
	comments    string
	submittedAt *time.Time
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewFeedback creates a new Feedback with timestamps set to now.
func NewFeedback(rating int, comments string) *Feedback {
	now := time.Now()
	return &Feedback{rating: rating, comments: comments, createdAt: now, updatedAt: now}
}

// RestoreFeedback rebuilds a Feedback from stored column values.
func RestoreFeedback(id string, sequence, rating int, comments string, submittedAt *time.Time, createdAt, updatedAt time.Time, deletedAt *time.Time) *Feedback {
	return &Feedback{
		id:          id,
		sequence:    sequence,
		rating:      rating,
		comments:    comments,
		submittedAt: submittedAt,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		deletedAt:   deletedAt,
	}
}

func (f *Feedback) ID() string              { return f.id }
func (f *Feedback) Sequence() int           { return f.sequence }
func (f *Feedback) Rating() int             { return f.rating }
func (f *Feedback) Comments() string        { return f.comments }
func (f *Feedback) SubmittedAt() *time.Time { return f.submittedAt }
func (f *Feedback) CreatedAt() time.Time    { return f.createdAt }
func (f *Feedback) UpdatedAt() time.Time    { return f.updatedAt }
func (f *Feedback) DeletedAt() *time.Time   { return f.deletedAt }

func (f *Feedback) SetID(id string)     { f.id = id }
func (f *Feedback) SetSequence(seq int) { f.sequence = seq }

// SetComments replaces the comments and bumps updatedAt.
func (f *Feedback) SetComments(c string) {
	f.comments = c
	f.touch()
}

// SetRating replaces the rating and bumps updatedAt.
func (f *Feedback) SetRating(rating int) {
	f.rating = rating
	f.touch()
}

// MarkSubmitted records when the feedback left the outbox.
func (f *Feedback) MarkSubmitted(t time.Time) {
	f.submittedAt = &t
	f.touch()
}

func (f *Feedback) touch() { f.updatedAt = time.Now() }

// Validate checks the rating range and comment length.
func (f *Feedback) Validate() error {
	if f.rating < MinRating || f.rating > MaxRating {
		return errors.New("rating must be between 1 and 5")
	}
	if utf8.RuneCountInString(f.comments) > MaxCommentsLength {
		return errors.New("comments must not exceed 1000 characters")
	}
	return nil
}
