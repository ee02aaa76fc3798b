package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./crate.db" {
			t.Errorf("expected database path ./crate.db, got %s", config.Database.Path)
		}

		if config.Backend.URL != "http://127.0.0.1:5000" {
			t.Errorf("expected backend URL http://127.0.0.1:5000, got %s", config.Backend.URL)
		}

		if config.Dashboard.Count != 20 {
			t.Errorf("expected default count 20, got %d", config.Dashboard.Count)
		}

		if config.Dashboard.DefaultPlaylistName != "AI Generated Playlist" {
			t.Errorf("expected default playlist name, got %q", config.Dashboard.DefaultPlaylistName)
		}

		if config.Dashboard.CloseSaveOnSubmit {
			t.Error("expected close_save_on_submit to default to false")
		}

		if err := config.Validate(); err != nil {
			t.Errorf("expected default config to be valid, got %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "nested", "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[backend]
url = "http://localhost:9999"
token = "secret-token"
requests_per_second = 2.5

[database]
path = "/custom/path.db"

[dashboard]
count = 30
close_save_on_submit = true
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Backend.URL != "http://localhost:9999" {
			t.Errorf("expected backend URL http://localhost:9999, got %s", config.Backend.URL)
		}
		if config.Backend.RequestsPerSecond != 2.5 {
			t.Errorf("expected 2.5 requests per second, got %v", config.Backend.RequestsPerSecond)
		}
		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Dashboard.Count != 30 {
			t.Errorf("expected count 30, got %d", config.Dashboard.Count)
		}
		if !config.Dashboard.CloseSaveOnSubmit {
			t.Error("expected close_save_on_submit to be true")
		}
		if config.Dashboard.DiscoveryLevel != 50 {
			t.Errorf("expected missing keys to keep defaults, got discovery level %d", config.Dashboard.DiscoveryLevel)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[backend\nurl = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("SaveConfig Round Trip", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		config.Backend.Token = "abc"
		config.Dashboard.MinYear = 1985

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if loaded.Backend.Token != "abc" {
			t.Errorf("expected token abc, got %q", loaded.Backend.Token)
		}
		if loaded.Dashboard.MinYear != 1985 {
			t.Errorf("expected min year 1985, got %d", loaded.Dashboard.MinYear)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		env := map[string]string{
			EnvBackendURL:    "http://override:1234",
			EnvBackendToken:  "tok",
			EnvSessionCookie: "session=xyz",
			EnvDatabasePath:  "/tmp/override.db",
			EnvLogLevel:      "debug",
		}
		lookup := func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		}

		config := DefaultConfig()
		config.ApplyEnv(lookup)

		if config.Backend.URL != "http://override:1234" {
			t.Errorf("expected URL override, got %s", config.Backend.URL)
		}
		if config.Backend.Token != "tok" {
			t.Errorf("expected token override, got %s", config.Backend.Token)
		}
		if config.Backend.SessionCookie != "session=xyz" {
			t.Errorf("expected cookie override, got %s", config.Backend.SessionCookie)
		}
		if config.Database.Path != "/tmp/override.db" {
			t.Errorf("expected database override, got %s", config.Database.Path)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected log level override, got %s", config.Log.Level)
		}
	})

	t.Run("LoadEnvFile", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte("CRATE_TEST_ONLY_VAR=from-dotenv\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv("CRATE_TEST_ONLY_VAR") })

		if err := LoadEnvFile(envPath); err != nil {
			t.Fatalf("failed to load env file: %v", err)
		}
		if got := os.Getenv("CRATE_TEST_ONLY_VAR"); got != "from-dotenv" {
			t.Errorf("expected from-dotenv, got %q", got)
		}

		if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
			t.Errorf("missing env file should be ignored, got %v", err)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := DefaultConfig()
		config.Backend.URL = ""
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for empty URL, got %v", err)
		}

		config = DefaultConfig()
		config.Log.Level = "loud"
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for bad level, got %v", err)
		}
	})

	t.Run("Durations", func(t *testing.T) {
		config := DefaultConfig()
		if got := config.Dashboard.NotificationTTL(); got != 5*time.Second {
			t.Errorf("expected 5s notification TTL, got %v", got)
		}
		config.Dashboard.NotificationTTLSeconds = 0
		if got := config.Dashboard.NotificationTTL(); got != 5*time.Second {
			t.Errorf("expected zero TTL to fall back to 5s, got %v", got)
		}
		if got := config.Backend.Timeout(); got != 30*time.Second {
			t.Errorf("expected 30s timeout, got %v", got)
		}
	})
}
