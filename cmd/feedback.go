package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/crate/internal/dashboard"
	"github.com/desertthunder/crate/internal/formatter"
	"github.com/urfave/cli/v3"
)

// FeedbackSubmit validates a rating and stores it in the local feedback outbox.
func (r *Runner) FeedbackSubmit(ctx context.Context, cmd *cli.Command) error {
	store, err := r.feedbackRepository()
	if err != nil {
		return err
	}

	c := r.newController(store, false, nil)
	c.SetFeedback(dashboard.FeedbackForm{Rating: cmd.String("rating"), Comments: cmd.String("comments")})

	if err := c.SubmitFeedback(ctx); err != nil {
		return notified(c, err)
	}
	if note, ok := c.Notifier().Latest(); ok {
		return r.writePlain("%s\n", note.Message)
	}
	return nil
}

// FeedbackList prints stored feedback, newest first.
func (r *Runner) FeedbackList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.feedbackRepository()
	if err != nil {
		return err
	}

	criteria := map[string]any{}
	if cmd.Bool("pending") {
		criteria["pending"] = true
	}
	if n := cmd.Int("min-rating"); n > 0 {
		criteria["min_rating"] = n
	}
	if n := cmd.Int("limit"); n > 0 {
		criteria["limit"] = n
	}

	entries, err := store.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list feedback: %w", err)
	}
	if len(entries) == 0 {
		return r.writePlain("No feedback stored.\n")
	}
	return r.writeBytes(formatter.FeedbackToText(entries, time.Now()))
}
