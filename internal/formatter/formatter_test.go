package formatter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/shared"
	th "github.com/desertthunder/crate/internal/testing"
)

func testExport() *Export {
	return &Export{
		Title:   "Late Night",
		Request: &models.FilterRequest{Count: 2, DiscoveryLevel: 40, MinYear: 1990, MaxPopularity: 70, Genres: []string{"jazz"}, Moods: []string{}},
		Tracks: []models.Track{
			{URI: "spotify:track:1", Title: "Song One", Artist: "Artist One", PreviewURL: "https://p.example/1.mp3"},
			{URI: "spotify:track:2", Title: "Song, Two", Artist: "Artist Two"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		in   string
		want Format
	}{
		{"", FormatText},
		{"TXT", FormatText},
		{"csv", FormatCSV},
		{"md", FormatMarkdown},
		{" markdown ", FormatMarkdown},
		{"json", FormatJSON},
	}

	for _, tt := range tc {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}

	if _, err := ParseFormat("yaml"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestExporters(t *testing.T) {
	t.Run("TracksToCSV", func(t *testing.T) {
		data, err := TracksToCSV(testExport().Tracks)
		if err != nil {
			t.Fatalf("TracksToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "URI,Title,Artist,Preview URL,Image URL\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "spotify:track:1,Song One,Artist One,https://p.example/1.mp3,") {
			t.Errorf("CSV missing first track, got: %s", output)
		}
		if !strings.Contains(output, `"Song, Two"`) {
			t.Errorf("CSV should quote titles with commas, got: %s", output)
		}
	})

	t.Run("TracksToMarkdown", func(t *testing.T) {
		t.Run("without cover image", func(t *testing.T) {
			output := string(TracksToMarkdown(testExport(), ""))

			for _, want := range []string{
				"# Late Night",
				"**Filters**: `count=2 discovery=40 year>=1990 popularity<=70 genres=jazz`",
				"**Tracks**: 2",
				"1. Artist One - Song One ([preview](https://p.example/1.mp3))",
				"2. Artist Two - Song, Two\n",
			} {
				if !strings.Contains(output, want) {
					t.Errorf("Markdown missing %q, got:\n%s", want, output)
				}
			}
			if strings.Contains(output, "![Cover]") {
				t.Error("Markdown should not reference a cover image")
			}
		})

		t.Run("with cover image", func(t *testing.T) {
			output := string(TracksToMarkdown(testExport(), "cover.jpg"))
			if !strings.Contains(output, "![Cover](cover.jpg)") {
				t.Errorf("Markdown missing cover image, got:\n%s", output)
			}
		})
	})

	t.Run("TracksToText", func(t *testing.T) {
		output := string(TracksToText(testExport()))
		want := "Late Night\nTracks: 2\n\n1. Artist One - Song One\n2. Artist Two - Song, Two\n"
		if output != want {
			t.Errorf("got %q, want %q", output, want)
		}
	})

	t.Run("PlaylistsToText", func(t *testing.T) {
		output := string(PlaylistsToText([]models.Playlist{{ID: "p1", Name: "Focus", TrackCount: 12}}))
		if output != "p1  Focus (12 tracks)\n" {
			t.Errorf("unexpected output %q", output)
		}
	})

	t.Run("FeedbackToText", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		submitted := now.Add(-time.Hour)

		pending := models.RestoreFeedback("a", 1, 4, "more jazz", nil, now.Add(-2*time.Hour), now, nil)
		sent := models.RestoreFeedback("b", 2, 2, "", &submitted, now.Add(-3*24*time.Hour), now, nil)

		output := string(FeedbackToText([]*models.Feedback{pending, sent}, now))
		for _, want := range []string{
			"#1 ****.  2 hours ago  (pending)\n    more jazz\n",
			"#2 **...  3 days ago  (submitted 1 hour ago)\n",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("Render JSON", func(t *testing.T) {
		data, err := Render(testExport(), FormatJSON)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}

		var decoded Export
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Title != "Late Night" || len(decoded.Tracks) != 2 || decoded.Request.Count != 2 {
			t.Errorf("unexpected decoded export %+v", decoded)
		}
	})

	t.Run("Render Unknown", func(t *testing.T) {
		if _, err := Render(testExport(), Format("yaml")); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestWrite(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var buf strings.Builder
		if err := Write(&buf, testExport(), FormatText); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if !strings.Contains(buf.String(), "Artist One - Song One") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("WriterError", func(t *testing.T) {
		if err := Write(&th.FWriter{}, testExport(), FormatCSV); err == nil {
			t.Error("expected write error")
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(context.Background(), ""); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write([]byte("jpegdata"))
		}))
		defer server.Close()

		data, err := DownloadImage(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("DownloadImage failed: %v", err)
		}
		if string(data) != "jpegdata" {
			t.Errorf("unexpected body %q", data)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		if _, err := DownloadImage(context.Background(), server.URL); err == nil {
			t.Error("expected error for 404 response")
		}
	})
}

func TestWriteFile(t *testing.T) {
	t.Run("CSV", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out", "tracks.csv")

		files, err := WriteFile(context.Background(), testExport(), FormatCSV, path)
		if err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if len(files) != 1 || files[0] != path {
			t.Errorf("unexpected files %v", files)
		}
		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.Contains(content, "spotify:track:2") {
			t.Errorf("unexpected CSV content %q", content)
		}
	})

	t.Run("Markdown With Cover", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpegdata"))
		}))
		defer server.Close()

		export := testExport()
		export.Tracks[0].ImageURL = server.URL + "/cover.jpg"
		dir := filepath.Join(t.TempDir(), "late-night")

		files, err := WriteFile(context.Background(), export, FormatMarkdown, dir)
		if err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if len(files) != 2 {
			t.Fatalf("expected cover and README, got %v", files)
		}

		th.AssertFileExists(t, filepath.Join(dir, "cover.jpg"))
		readme := th.MustReadFile(t, filepath.Join(dir, "README.md"))
		if !strings.Contains(readme, "![Cover](cover.jpg)") {
			t.Errorf("README should reference the cover, got:\n%s", readme)
		}
	})

	t.Run("Markdown Without Cover On Download Failure", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		export := testExport()
		export.Tracks[0].ImageURL = server.URL
		dir := t.TempDir()

		result, err := WriteMarkdownExport(context.Background(), export, dir)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}
		if result.CoverImage != "" || len(result.Files) != 1 {
			t.Errorf("expected README only, got %+v", result)
		}
	})

	t.Run("Markdown Requires Directory", func(t *testing.T) {
		if _, err := WriteMarkdownExport(context.Background(), testExport(), ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}
