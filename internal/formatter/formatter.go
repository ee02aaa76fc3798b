// package formatter renders recommendation results, playlists and feedback as text, CSV, Markdown or JSON
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/crate/internal/dashboard"
	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/go-resty/resty/v2"
)

// Format selects an output encoding for track lists.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat resolves a user supplied format name. "md" is accepted for Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Export is a recommendation result together with the request that produced it.
type Export struct {
	Title   string                `json:"title"`
	Request *models.FilterRequest `json:"request,omitempty"`
	Tracks  []models.Track        `json:"tracks"`
}

// Render encodes the export in the given format.
func Render(export *Export, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return TracksToText(export), nil
	case FormatCSV:
		return TracksToCSV(export.Tracks)
	case FormatMarkdown:
		return TracksToMarkdown(export, ""), nil
	case FormatJSON:
		return json.MarshalIndent(export, "", "  ")
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// Write renders the export and writes it to w.
func Write(w io.Writer, export *Export, format Format) error {
	data, err := Render(export, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// TracksToCSV converts tracks to CSV with columns: URI, Title, Artist, Preview URL, Image URL
func TracksToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"URI", "Title", "Artist", "Preview URL", "Image URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{track.URI, track.Title, track.Artist, track.PreviewURL, track.ImageURL}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// TracksToMarkdown converts an export to Markdown with an optional cover image
func TracksToMarkdown(export *Export, imageFilename string) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", export.Title)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	if export.Request != nil {
		fmt.Fprintf(&buf, "**Filters**: `%s`\n\n", dashboard.Describe(export.Request))
	}

	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(export.Tracks))

	buf.WriteString("## Tracks\n\n")
	for i, track := range export.Tracks {
		preview := ""
		if track.PreviewURL != "" {
			preview = fmt.Sprintf(" ([preview](%s))", track.PreviewURL)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s\n", i+1, track.Artist, track.Title, preview)
	}

	return buf.Bytes()
}

// TracksToText converts an export to a numbered plain text list
func TracksToText(export *Export) []byte {
	var buf bytes.Buffer

	if export.Title != "" {
		fmt.Fprintf(&buf, "%s\n", export.Title)
	}
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(export.Tracks))

	for i, track := range export.Tracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, track.Artist, track.Title)
	}

	return buf.Bytes()
}

// PlaylistsToText lists playlists one per line as "ID  Name (N tracks)"
func PlaylistsToText(playlists []models.Playlist) []byte {
	var buf bytes.Buffer
	for _, p := range playlists {
		fmt.Fprintf(&buf, "%s  %s\n", p.ID, p.Label())
	}
	return buf.Bytes()
}

// FeedbackToText lists stored feedback with ratings as stars and times relative to now.
func FeedbackToText(feedback []*models.Feedback, now time.Time) []byte {
	var buf bytes.Buffer
	for _, f := range feedback {
		status := "pending"
		if at := f.SubmittedAt(); at != nil {
			status = "submitted " + humanize.RelTime(*at, now, "ago", "from now")
		}

		fmt.Fprintf(&buf, "#%d %s  %s  (%s)\n",
			f.Sequence(),
			stars(f.Rating()),
			humanize.RelTime(f.CreatedAt(), now, "ago", "from now"),
			status,
		)
		if f.Comments() != "" {
			fmt.Fprintf(&buf, "    %s\n", f.Comments())
		}
	}
	return buf.Bytes()
}

func stars(rating int) string {
	if rating < models.MinRating || rating > models.MaxRating {
		return fmt.Sprintf("%d/%d", rating, models.MaxRating)
	}
	return strings.Repeat("*", rating) + strings.Repeat(".", models.MaxRating-rating)
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrInvalidArgument)
	}

	client := resty.New().SetTimeout(30 * time.Second)

	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode())
	}

	return resp.Body(), nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport writes an export to {dir}/README.md.
//
// When the first track carries an image URL it is downloaded to {dir}/cover.jpg; a failed download is logged
// and the README is written without a cover.
func WriteMarkdownExport(ctx context.Context, export *Export, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("%w: output directory", shared.ErrMissingArgument)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}

	var coverImageFilename string
	if len(export.Tracks) > 0 && export.Tracks[0].ImageURL != "" {
		imageData, err := DownloadImage(ctx, export.Tracks[0].ImageURL)
		if err != nil {
			log.Warn("failed to download cover image", "error", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := filepath.Join(outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				log.Warn("failed to save cover image", "error", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, TracksToMarkdown(export, coverImageFilename), 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)
	return result, nil
}

// WriteFile renders the export to path. Markdown exports go through [WriteMarkdownExport] with path as the directory.
func WriteFile(ctx context.Context, export *Export, format Format, path string) ([]string, error) {
	if format == FormatMarkdown {
		result, err := WriteMarkdownExport(ctx, export, path)
		if err != nil {
			return nil, err
		}
		return result.Files, nil
	}

	data, err := Render(export, format)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return []string{path}, nil
}
