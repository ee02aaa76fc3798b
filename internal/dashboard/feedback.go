package dashboard

import (
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/desertthunder/crate/internal/models"
)

const (
	InvalidRatingMessage   = "Please select a valid rating."
	CommentsTooLongMessage = "Comments should not exceed 1000 characters."
	FeedbackThanksMessage  = "Thanks for your feedback!"
	FeedbackFailedMessage  = "Failed to save feedback. Please try again."
)

// FeedbackForm holds the raw feedback inputs.
type FeedbackForm struct {
	Rating   string
	Comments string
}

// Validate checks the rating and comment length and builds an unsaved [models.Feedback].
func (f FeedbackForm) Validate() (*models.Feedback, error) {
	rating, err := strconv.Atoi(strings.TrimSpace(f.Rating))
	if err != nil {
		return nil, &ValidationError{Field: "rating", Min: models.MinRating, Max: models.MaxRating, Message: InvalidRatingMessage}
	}
	if err := validation.Validate(rating, validation.Required, validation.Min(models.MinRating), validation.Max(models.MaxRating)); err != nil {
		return nil, &ValidationError{Field: "rating", Min: models.MinRating, Max: models.MaxRating, Message: InvalidRatingMessage}
	}

	comments := strings.TrimSpace(f.Comments)
	if err := validation.Validate(comments, validation.RuneLength(0, models.MaxCommentsLength)); err != nil {
		return nil, &ValidationError{Field: "comments", Max: models.MaxCommentsLength, Message: CommentsTooLongMessage}
	}

	return models.NewFeedback(rating, comments), nil
}
