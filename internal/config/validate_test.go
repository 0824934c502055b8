package config

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantValid bool
	}{
		{"empty file", "", true},
		{"full file", `python:
  interpreter: python3
  min_version: "3.10"
dependency:
  module: pywikibot
  manifest: requirements.txt
credentials:
  template: .env.example
  target: .env
  help_url: https://commons.wikimedia.org/wiki/Special:BotPasswords
tests:
  path: tests/test_template_replacement.py
bot:
  entry: replace_catdiffuse.py
  dry_run_limit: 3
log:
  file: setup.log
  level: debug
`, true},
		{"unknown top-level key", "verbose: true\n", false},
		{"negative limit", "bot:\n  dry_run_limit: -1\n", false},
		{"bad module name", "dependency:\n  module: \"py wiki\"\n", false},
		{"bad help url", "credentials:\n  help_url: commons.wikimedia.org\n", false},
		{"bad log level", "log:\n  level: loud\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Validate([]byte(tt.data))
			if err != nil {
				t.Fatalf("Validate() error: %v", err)
			}
			if result.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v (issues: %v)", result.Valid, tt.wantValid, result.Issues)
			}
			if !result.Valid && len(result.Issues) == 0 {
				t.Error("invalid result must carry at least one issue")
			}
		})
	}
}

func TestValidate_MalformedYAML(t *testing.T) {
	if _, err := Validate([]byte("python: [unclosed")); err == nil {
		t.Error("expected parse error for malformed YAML")
	}
}
