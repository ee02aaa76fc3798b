package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/crate/internal/dashboard"
	"github.com/desertthunder/crate/internal/formatter"
	"github.com/desertthunder/crate/internal/shared"
	"github.com/urfave/cli/v3"
)

// formFromFlags overlays the filter flags that were set onto the configured defaults.
func formFromFlags(cmd *cli.Command, form dashboard.FilterForm) dashboard.FilterForm {
	set := func(name string, dst *string) {
		if cmd.IsSet(name) {
			*dst = cmd.String(name)
		}
	}

	set("count", &form.Count)
	set("discovery", &form.DiscoveryLevel)
	set("min-year", &form.MinYear)
	set("max-popularity", &form.MaxPopularity)
	set("target-tempo", &form.TargetTempo)
	set("tempo", &form.Tempo)
	set("target-energy", &form.TargetEnergy)
	set("energy", &form.Energy)
	set("genres", &form.Genres)
	set("moods", &form.Moods)
	return form
}

// Recommend validates the filters, fetches recommendations and writes them out.
//
// With --save-as or --append-to every returned track is selected and saved.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	saveAs := cmd.String("save-as")
	appendTo := cmd.String("append-to")
	if saveAs != "" && appendTo != "" {
		return fmt.Errorf("%w: cannot specify both --save-as and --append-to", shared.ErrInvalidArgument)
	}

	var openURL func(string) error
	if cmd.Bool("open") {
		openURL = shared.OpenBrowser
	}

	tags := cmd.StringSlice("genre")
	c := r.newController(nil, len(tags) > 0, openURL)
	c.SetForm(formFromFlags(cmd, c.Form()))
	for _, tag := range tags {
		c.Genres().Accept(tag)
	}

	req, err := c.BeginGenerate()
	if err != nil {
		return err
	}
	tracks, err := c.Backend().Recommend(ctx, *req)
	c.FinishGenerate(tracks, err)
	if err != nil {
		return notified(c, err)
	}

	recs := c.Recommendations()
	if recs.ShowEmpty() {
		r.logger.Warn(dashboard.EmptyResultsMessage)
	}

	export := &formatter.Export{Title: cmd.String("title"), Request: req, Tracks: recs.Tracks()}
	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteFile(ctx, export, format, path)
		if err != nil {
			return err
		}
		for _, f := range written {
			r.logger.Info("wrote export", "path", f)
		}
	} else if err := formatter.Write(r.output, export, format); err != nil {
		return err
	}

	if saveAs == "" && appendTo == "" {
		return nil
	}
	if recs.ShowEmpty() {
		return fmt.Errorf("%w: nothing to save", shared.ErrEmptySelection)
	}

	c.ToggleAll()
	if err := c.OpenSave(); err != nil {
		return err
	}

	if appendTo != "" {
		if err := r.selectExisting(ctx, c, appendTo); err != nil {
			return err
		}
	} else {
		c.SaveWorkflow().SetName(saveAs)
	}

	return r.reportSave(ctx, c)
}

// selectExisting switches the save workflow to an existing playlist, loading the list first.
func (r *Runner) selectExisting(ctx context.Context, c *dashboard.Controller, id string) error {
	needsFetch, err := c.SwitchSaveMode(dashboard.ModeExisting)
	if err != nil {
		return err
	}
	if needsFetch {
		if err := c.LoadPlaylists(ctx); err != nil {
			return fmt.Errorf("%s: %w", dashboard.PlaylistsFailedLabel, err)
		}
	}
	if !c.SaveWorkflow().SelectPlaylist(id) {
		return fmt.Errorf("%w: no playlist with ID %q", shared.ErrInvalidArgument, id)
	}
	return nil
}

// reportSave submits the open save workflow and prints the resulting notification.
func (r *Runner) reportSave(ctx context.Context, c *dashboard.Controller) error {
	if _, err := c.Save(ctx); err != nil {
		return notified(c, err)
	}
	if note, ok := c.Notifier().Latest(); ok {
		return r.writePlain("%s\n", note.Message)
	}
	return nil
}
