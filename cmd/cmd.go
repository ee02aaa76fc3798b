// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// filterFlags are the recommendation filters shared by recommend. Values are raw strings so the
// dashboard validation sees exactly what was typed.
func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "count", Aliases: []string{"n"}, Usage: "Number of tracks (1-50)"},
		&cli.StringFlag{Name: "discovery", Usage: "Discovery level (0-100)"},
		&cli.StringFlag{Name: "min-year", Usage: "Earliest release year (1900-2025)"},
		&cli.StringFlag{Name: "max-popularity", Usage: "Maximum popularity (0-100)"},
		&cli.StringFlag{Name: "target-tempo", Usage: "Target tempo in BPM (40-200); overrides --tempo"},
		&cli.StringFlag{Name: "tempo", Usage: "Tempo category (low, medium, high)"},
		&cli.StringFlag{Name: "target-energy", Usage: "Target energy (0-100); overrides --energy"},
		&cli.StringFlag{Name: "energy", Usage: "Energy category (low, medium, high)"},
		&cli.StringFlag{Name: "genres", Aliases: []string{"g"}, Usage: "Comma-separated genres"},
		&cli.StringSliceFlag{Name: "genre", Usage: "Genre tag (repeatable); replaces --genres"},
		&cli.StringFlag{Name: "moods", Aliases: []string{"m"}, Usage: "Comma-separated moods"},
	}
}

// recommendCommand generates recommendations and optionally saves them
func recommendCommand(r *Runner) *cli.Command {
	flags := append(filterFlags(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, csv, markdown, json",
			Value:   "text",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write to a file (a directory for markdown) instead of stdout",
		},
		&cli.StringFlag{
			Name:  "title",
			Usage: "Title used in text and markdown output",
			Value: "Recommendations",
		},
		&cli.StringFlag{
			Name:  "save-as",
			Usage: "Create a playlist with this name from every recommended track",
		},
		&cli.StringFlag{
			Name:  "append-to",
			Usage: "Add every recommended track to the playlist with this ID",
		},
		&cli.BoolFlag{
			Name:  "open",
			Usage: "Open a created playlist in the browser",
		},
	)

	return &cli.Command{
		Name:    "recommend",
		Aliases: []string{"rec"},
		Usage:   "Generate recommendations from filters",
		Flags:   flags,
		Action:  r.Recommend,
	}
}

// genresCommand handles the genre vocabulary
func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "genres",
		Usage: "Genre vocabulary operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the genre vocabulary (falls back to the built-in list)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.GenresList,
			},
			{
				Name:  "suggest",
				Usage: "Suggest genres for a partial word",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "partial"},
				},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "selected", Usage: "Already selected genre (repeatable)"},
				},
				Action: r.GenresSuggest,
			},
		},
	}
}

// suggestionsCommand lists filter suggestions
func suggestionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "suggestions",
		Usage: "Show filter suggestions from the backend",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Suggestions,
	}
}

// playlistsCommand handles playlist operations
func playlistsCommand(r *Runner) *cli.Command {
	uriFlags := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringSliceFlag{Name: "uri", Aliases: []string{"u"}, Usage: "Track URI (repeatable)"},
			&cli.StringFlag{Name: "uris", Usage: "Comma-separated track URIs"},
		}
	}

	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List your playlists",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.PlaylistsList,
			},
			{
				Name:  "create",
				Usage: "Create a playlist from track URIs",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: append(uriFlags(), &cli.BoolFlag{Name: "open", Usage: "Open the created playlist in the browser"}),
				Action: r.PlaylistsCreate,
			},
			{
				Name:  "add",
				Usage: "Add track URIs to an existing playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  uriFlags(),
				Action: r.PlaylistsAdd,
			},
		},
	}
}

// feedbackCommand handles the local feedback outbox
func feedbackCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "feedback",
		Usage: "Rate recommendations",
		Commands: []*cli.Command{
			{
				Name:  "submit",
				Usage: "Store a rating (1-5) with optional comments",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "rating", Aliases: []string{"r"}, Usage: "Rating from 1 to 5", Required: true},
					&cli.StringFlag{Name: "comments", Aliases: []string{"c"}, Usage: "Comments (up to 1000 characters)"},
				},
				Action: r.FeedbackSubmit,
			},
			{
				Name:  "list",
				Usage: "List stored feedback, newest first",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "pending", Usage: "Only feedback not yet submitted"},
					&cli.IntFlag{Name: "min-rating", Usage: "Minimum rating"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of entries", Value: 20},
				},
				Action: r.FeedbackList,
			},
		},
	}
}

// apiCommand handles direct backend calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the recommendation backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the backend, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output compact JSON"},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// setupCommand creates the config file and database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml if missing, import browser credentials, initialize the database and run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "rollback",
				Usage: "Roll back the most recent migration instead",
			},
			&cli.StringFlag{
				Name:  "curl",
				Usage: "cURL command copied from a logged-in browser; its origin, token and cookie are saved to the config",
			},
			&cli.StringFlag{
				Name:  "curl-file",
				Usage: "File containing the cURL command",
			},
		},
		Action: r.Setup,
	}
}

// tuiCommand launches the interactive dashboard
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Interactive recommendation dashboard",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "tags",
				Usage: "Enter genres as tags instead of a comma-separated list",
				Value: true,
			},
		},
		Action: r.TUI,
	}
}
