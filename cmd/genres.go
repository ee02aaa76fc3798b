package main

import (
	"context"
	"strings"

	"github.com/desertthunder/crate/internal/dashboard"
	"github.com/urfave/cli/v3"
)

// GenresList prints the genre vocabulary. A backend failure falls back to the built-in list.
func (r *Runner) GenresList(ctx context.Context, cmd *cli.Command) error {
	c := r.newController(nil, true, nil)
	if err := c.LoadGenres(ctx); err != nil {
		r.logger.Warn(dashboard.GenresFailedMessage, "error", err)
	}

	genres := c.Genres().Vocabulary()
	if cmd.Bool("json") {
		return r.writeJSON(genres, false)
	}
	return r.writePlain("%s\n", strings.Join(genres, "\n"))
}

// GenresSuggest prints up to five vocabulary entries that start with the partial word.
func (r *Runner) GenresSuggest(ctx context.Context, cmd *cli.Command) error {
	c := r.newController(nil, true, nil)
	if err := c.LoadGenres(ctx); err != nil {
		r.logger.Warn(dashboard.GenresFailedMessage, "error", err)
	}

	partial := dashboard.PartialWord(cmd.StringArg("partial"), true)
	matches := dashboard.SuggestGenres(c.Genres().Vocabulary(), partial, cmd.StringSlice("selected"), dashboard.MaxSuggestions)
	if len(matches) == 0 {
		r.logger.Info("no suggestions", "partial", partial)
		return nil
	}
	return r.writePlain("%s\n", strings.Join(matches, "\n"))
}
