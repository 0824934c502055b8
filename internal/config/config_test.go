package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSettings(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".catdiffuse-setup.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()

	s, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if s.File != "" {
		t.Errorf("File = %q, want empty when no settings file exists", s.File)
	}
	if s.Python.Interpreter != "python3" {
		t.Errorf("Python.Interpreter = %q, want %q", s.Python.Interpreter, "python3")
	}
	if s.Dependency.Module != "pywikibot" {
		t.Errorf("Dependency.Module = %q, want %q", s.Dependency.Module, "pywikibot")
	}
	if s.Credentials.Template != ".env.example" || s.Credentials.Target != ".env" {
		t.Errorf("Credentials = %+v", s.Credentials)
	}
	if s.FrameworkConfig.Template != "user-config-template.py" || s.FrameworkConfig.Target != "user-config.py" {
		t.Errorf("FrameworkConfig = %+v", s.FrameworkConfig)
	}
	if s.Tests.Path != "tests/test_template_replacement.py" {
		t.Errorf("Tests.Path = %q", s.Tests.Path)
	}
	if s.Bot.Entry != "replace_catdiffuse.py" || s.Bot.DryRunLimit != 3 {
		t.Errorf("Bot = %+v", s.Bot)
	}
	if !strings.Contains(s.Credentials.HelpURL, "Special:BotPasswords") {
		t.Errorf("Credentials.HelpURL = %q", s.Credentials.HelpURL)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeSettings(t, dir, `python:
  interpreter: python3.12
bot:
  dry_run_limit: 5
`)

	s, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.File != path {
		t.Errorf("File = %q, want %q", s.File, path)
	}
	if s.Python.Interpreter != "python3.12" {
		t.Errorf("Python.Interpreter = %q, want %q", s.Python.Interpreter, "python3.12")
	}
	if s.Bot.DryRunLimit != 5 {
		t.Errorf("Bot.DryRunLimit = %d, want 5", s.Bot.DryRunLimit)
	}
	// Untouched keys keep their defaults.
	if s.Python.MinVersion != "3.8" {
		t.Errorf("Python.MinVersion = %q, want %q", s.Python.MinVersion, "3.8")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "python:\n  interpreter: python3.12\n")
	t.Setenv("CATDIFFUSE_PYTHON_INTERPRETER", "/opt/python/bin/python3")
	t.Setenv("CATDIFFUSE_BOT_DRY_RUN_LIMIT", "7")

	s, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.Python.Interpreter != "/opt/python/bin/python3" {
		t.Errorf("Python.Interpreter = %q", s.Python.Interpreter)
	}
	if s.Bot.DryRunLimit != 7 {
		t.Errorf("Bot.DryRunLimit = %d, want 7", s.Bot.DryRunLimit)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `bot:
  dry_run_limit: zero
unknown_section: true
`)

	_, err := Load(dir, "")
	if err == nil {
		t.Fatal("expected error for invalid settings file")
	}
	var invalid *InvalidFileError
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want *InvalidFileError", err)
	}
	if len(invalid.Issues) < 2 {
		t.Errorf("expected at least 2 issues, got %d: %v", len(invalid.Issues), invalid.Issues)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir, filepath.Join(dir, "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit settings file")
	}
}

func TestLoad_BadMinVersionFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CATDIFFUSE_PYTHON_MIN_VERSION", "three")

	if _, err := Load(dir, ""); err == nil {
		t.Fatal("expected error for unparseable min_version")
	}
}

func TestSettingsPath(t *testing.T) {
	s := &Settings{Dir: "/work/bot"}
	if got := s.Path(".env"); got != filepath.Join("/work/bot", ".env") {
		t.Errorf("Path(.env) = %q", got)
	}
	if got := s.Path("/etc/bot/.env"); got != "/etc/bot/.env" {
		t.Errorf("Path(abs) = %q", got)
	}
}

func TestSet_WritesFileAndRoundTrips(t *testing.T) {
	dir := t.TempDir()

	file, err := Set(dir, "", "bot.dry_run_limit", "10")
	if err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if _, err := Set(dir, "", "python.interpreter", "python3.11"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "pywikibot") {
		t.Errorf("defaults should not be written to the settings file:\n%s", data)
	}

	s, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load() after Set error: %v", err)
	}
	if s.Bot.DryRunLimit != 10 {
		t.Errorf("Bot.DryRunLimit = %d, want 10", s.Bot.DryRunLimit)
	}
	if s.Python.Interpreter != "python3.11" {
		t.Errorf("Python.Interpreter = %q, want %q", s.Python.Interpreter, "python3.11")
	}
}

func TestSet_RejectsUnknownKeyAndBadInt(t *testing.T) {
	dir := t.TempDir()

	if _, err := Set(dir, "", "bot.colour", "red"); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := Set(dir, "", "bot.dry_run_limit", "many"); err == nil {
		t.Error("expected error for non-integer value")
	}
	if _, err := os.Stat(FilePath(dir, "")); !os.IsNotExist(err) {
		t.Error("rejected Set must not create the settings file")
	}
}

func TestSet_RejectsValuesLoadWouldRefuse(t *testing.T) {
	tests := []struct {
		name       string
		key, value string
	}{
		{"dry-run limit below one", "bot.dry_run_limit", "0"},
		{"min version not a version", "python.min_version", "banana"},
		{"help URL not http", "credentials.help_url", "commons.wikimedia.org"},
		{"empty interpreter", "python.interpreter", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeSettings(t, dir, "bot:\n  dry_run_limit: 5\n")

			_, err := Set(dir, "", tt.key, tt.value)
			if err == nil {
				t.Fatalf("Set(%s, %q) succeeded, want error", tt.key, tt.value)
			}
			var invalid *InvalidFileError
			if !errors.As(err, &invalid) {
				t.Errorf("error = %v, want *InvalidFileError", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != "bot:\n  dry_run_limit: 5\n" {
				t.Errorf("rejected Set changed the file:\n%s", data)
			}
			if _, err := Load(dir, ""); err != nil {
				t.Errorf("Load() after rejected Set: %v", err)
			}
		})
	}
}

func TestLoad_MinVersionLeadingVFromEnv(t *testing.T) {
	t.Setenv("CATDIFFUSE_PYTHON_MIN_VERSION", "v3.9")
	if _, err := Load(t.TempDir(), ""); err != nil {
		t.Errorf("Load() error: %v", err)
	}
}

func TestSet_MinVersionLeadingV(t *testing.T) {
	dir := t.TempDir()
	if _, err := Set(dir, "", "python.min_version", "v3.9"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	s, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.Python.MinVersion != "v3.9" {
		t.Errorf("MinVersion = %q", s.Python.MinVersion)
	}
}
