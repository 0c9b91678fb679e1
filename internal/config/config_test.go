package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
)

// isolate points config discovery at an empty directory so a developer's
// own config file can't leak into the tests.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage != "markdown" {
		t.Errorf("expected storage 'markdown', got %q", cfg.Storage)
	}
	if cfg.DaysBeforeToday != 90 || cfg.DaysAfterToday != 360 {
		t.Errorf("window = (%d, %d), want (90, 360)", cfg.DaysBeforeToday, cfg.DaysAfterToday)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log_level 'info', got %q", cfg.LogLevel)
	}
	if cfg.MaxWidth != 100 {
		t.Errorf("expected max_width 100, got %d", cfg.MaxWidth)
	}
	if cfg.Theme.Preset != "default-dark" {
		t.Errorf("expected preset 'default-dark', got %q", cfg.Theme.Preset)
	}
	if cfg.Theme.MarkdownStyle != "" {
		t.Errorf("expected empty markdown_style (uses preset default), got %q", cfg.Theme.MarkdownStyle)
	}
	if cfg.Weather.Enabled {
		t.Error("weather should be disabled by default")
	}
	if !cfg.Weather.Cache {
		t.Error("weather cache should be enabled by default")
	}
	if cfg.Weather.TimeoutDuration() != 10*time.Second {
		t.Errorf("timeout = %v, want 10s", cfg.Weather.TimeoutDuration())
	}
	if cfg.Shell.CacheTTL != "5m" || !cfg.Shell.ShowNext {
		t.Errorf("shell = %+v", cfg.Shell)
	}
	if cfg.Editor != "" {
		t.Errorf("expected empty editor (resolved from env), got %q", cfg.Editor)
	}
}

func TestLoadFromFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
storage = "sqlite"
days_before_today = 14
days_after_today = 30
log_level = "debug"

[theme]
preset = "default-light"
primary = "#FF0000"
markdown_style = "light"

[weather]
enabled = true
api_key = "secret"
timeout = "3s"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage != "sqlite" {
		t.Errorf("expected storage 'sqlite', got %q", cfg.Storage)
	}
	if cfg.DaysBeforeToday != 14 || cfg.DaysAfterToday != 30 {
		t.Errorf("window = (%d, %d), want (14, 30)", cfg.DaysBeforeToday, cfg.DaysAfterToday)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log_level 'debug', got %q", cfg.LogLevel)
	}
	if cfg.Theme.Preset != "default-light" || cfg.Theme.Primary != "#FF0000" || cfg.Theme.MarkdownStyle != "light" {
		t.Errorf("theme = %+v", cfg.Theme)
	}
	if !cfg.Weather.Enabled || cfg.Weather.APIKey != "secret" {
		t.Errorf("weather = %+v", cfg.Weather)
	}
	if cfg.Weather.BaseURL != "https://api.darksky.net/forecast" {
		t.Errorf("base_url default lost: %q", cfg.Weather.BaseURL)
	}
	if cfg.Weather.TimeoutDuration() != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", cfg.Weather.TimeoutDuration())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("AGENDACTL_STORAGE", "sqlite")
	t.Setenv("AGENDACTL_WEATHER_API_KEY", "from-env")

	cfg, err := Load(writeConfig(t, `storage = "markdown"`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage != "sqlite" {
		t.Errorf("expected env to override storage, got %q", cfg.Storage)
	}
	if cfg.Weather.APIKey != "from-env" {
		t.Errorf("expected env api key, got %q", cfg.Weather.APIKey)
	}
}

func TestLoadXDGConfig(t *testing.T) {
	dir := isolate(t)
	if err := os.MkdirAll(filepath.Join(dir, "agendactl"), 0755); err != nil {
		t.Fatal(err)
	}
	content := "max_width = 72\n"
	if err := os.WriteFile(filepath.Join(dir, "agendactl", "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxWidth != 72 {
		t.Errorf("expected max_width 72 from XDG config, got %d", cfg.MaxWidth)
	}
	if got := DefaultPath(); got != filepath.Join(dir, "agendactl", "config.toml") {
		t.Errorf("DefaultPath() = %q", got)
	}
}

func TestLoadExpandsDataDir(t *testing.T) {
	isolate(t)
	home, err := homedir.Dir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	cfg, err := Load(writeConfig(t, `data_dir = "~/agenda-data"`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(home, "agenda-data"); cfg.DataDir != want {
		t.Errorf("data_dir = %q, want %q", cfg.DataDir, want)
	}
}

func TestLoadInvalid(t *testing.T) {
	isolate(t)
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown storage", `storage = "postgres"`, "invalid storage"},
		{"negative window", `days_before_today = -1`, "must not be negative"},
		{"bad toml", `storage = `, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestWriteDefault(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	def := Default()
	if cfg.Storage != def.Storage || cfg.DaysAfterToday != def.DaysAfterToday || cfg.Theme.Preset != def.Theme.Preset {
		t.Errorf("round trip = %+v, want defaults", cfg)
	}

	if err := WriteDefault(path, false); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second WriteDefault error = %v, want already exists", err)
	}
	if err := WriteDefault(path, true); err != nil {
		t.Errorf("WriteDefault with force: %v", err)
	}
}
