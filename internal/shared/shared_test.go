package shared

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLogger(t *testing.T) {
	t.Run("NewLogger writes to writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello", "key", "value")

		if !strings.Contains(buf.String(), "hello") || !strings.Contains(buf.String(), "key=value") {
			t.Errorf("expected structured log line, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger creates directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "crate.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}
		logger.Info("written")
	})

	t.Run("ParseLevel", func(t *testing.T) {
		tc := []struct {
			in      string
			want    log.Level
			wantErr bool
		}{
			{"", log.InfoLevel, false},
			{"debug", log.DebugLevel, false},
			{"WARN", log.WarnLevel, false},
			{"error", log.ErrorLevel, false},
			{"shout", log.InfoLevel, true},
		}

		for _, tt := range tc {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
				continue
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		}
	})

	t.Run("GenerateID", func(t *testing.T) {
		a, b := GenerateID(), GenerateID()
		if a == b || len(a) != 36 {
			t.Errorf("expected distinct uuids, got %q and %q", a, b)
		}
	})
}

func TestOpenBrowser(t *testing.T) {
	t.Run("rejects non-http URLs", func(t *testing.T) {
		for _, u := range []string{"", "file:///etc/passwd", "javascript:alert(1)", "https://"} {
			if err := OpenBrowser(u); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("OpenBrowser(%q) expected ErrInvalidArgument, got %v", u, err)
			}
		}
	})

	t.Run("unsupported platform", func(t *testing.T) {
		original := getRuntime
		getRuntime = func() string { return "plan9" }
		defer func() { getRuntime = original }()

		err := OpenBrowser("https://open.example.com/playlist/1")
		if err == nil || !strings.Contains(err.Error(), "unsupported platform") {
			t.Errorf("expected unsupported platform error, got %v", err)
		}
	})

	t.Run("browserCommand", func(t *testing.T) {
		cmd, err := browserCommand("linux", "https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filepath.Base(cmd.Path) != "xdg-open" && cmd.Args[0] != "xdg-open" {
			t.Errorf("expected xdg-open, got %v", cmd.Args)
		}
	})
}
