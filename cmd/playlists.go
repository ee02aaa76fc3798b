package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/crate/internal/dashboard"
	"github.com/desertthunder/crate/internal/formatter"
	"github.com/desertthunder/crate/internal/shared"
	"github.com/urfave/cli/v3"
)

// trackURIs collects --uri values followed by the entries of --uris, without duplicates.
func trackURIs(cmd *cli.Command) []string {
	uris := append([]string{}, cmd.StringSlice("uri")...)
	uris = append(uris, dashboard.SplitList(cmd.String("uris"), ",")...)

	var sel dashboard.Selection
	sel.Reset(uris)
	sel.SelectAll()
	return sel.URIs()
}

// PlaylistsList prints the user's playlists.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	playlists, err := r.client.UserPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", dashboard.PlaylistsFailedLabel, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, false)
	}
	return r.writeBytes(formatter.PlaylistsToText(playlists))
}

// PlaylistsCreate creates a playlist from the given track URIs.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	var openURL func(string) error
	if cmd.Bool("open") {
		openURL = shared.OpenBrowser
	}

	c := r.newController(nil, false, openURL)
	if err := r.openSaveFor(c, trackURIs(cmd)); err != nil {
		return err
	}
	c.SaveWorkflow().SetName(name)
	return r.reportSave(ctx, c)
}

// PlaylistsAdd appends the given track URIs to an existing playlist.
func (r *Runner) PlaylistsAdd(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist ID is required", shared.ErrMissingArgument)
	}

	c := r.newController(nil, false, nil)
	if err := r.openSaveFor(c, trackURIs(cmd)); err != nil {
		return err
	}
	if err := r.selectExisting(ctx, c, id); err != nil {
		return err
	}
	return r.reportSave(ctx, c)
}

// openSaveFor opens the save workflow directly over uris, bypassing a recommendation result.
func (r *Runner) openSaveFor(c *dashboard.Controller, uris []string) error {
	if err := c.SaveWorkflow().Open(uris); err != nil {
		return fmt.Errorf("%w: pass at least one --uri or --uris", err)
	}
	return nil
}
