package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// Suggestions prints the backend's filter presets with their sample tracks.
func (r *Runner) Suggestions(ctx context.Context, cmd *cli.Command) error {
	c := r.newController(nil, false, nil)
	if err := c.LoadSuggestions(ctx); err != nil {
		return err
	}

	suggestions := c.Suggestions()
	if cmd.Bool("json") {
		return r.writeJSON(suggestions, false)
	}

	for i, s := range suggestions {
		if err := r.writePlain("%d. %s: %s\n", i+1, s.Filter, s.Extreme); err != nil {
			return err
		}
		for _, t := range s.Tracks {
			if err := r.writePlain("     %s - %s\n", t.Artist, t.Title); err != nil {
				return err
			}
		}
	}
	if len(suggestions) == 0 {
		r.logger.Info("backend returned no suggestions", "backend", r.client.BaseURL())
	}
	return nil
}
