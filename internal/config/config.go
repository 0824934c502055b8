package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/catdiffuse/catdiffuse-setup/internal/branding"
	"github.com/catdiffuse/catdiffuse-setup/internal/runtime"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

const fileType = "yaml"

// Settings holds every path, command and literal the setup run needs.
// Relative paths are resolved against Dir.
type Settings struct {
	Dir  string `mapstructure:"-" yaml:"-"`
	File string `mapstructure:"-" yaml:"-"`

	Python          PythonSettings     `mapstructure:"python" yaml:"python"`
	Dependency      DependencySettings `mapstructure:"dependency" yaml:"dependency"`
	Credentials     ScaffoldSettings   `mapstructure:"credentials" yaml:"credentials"`
	FrameworkConfig ScaffoldSettings   `mapstructure:"framework_config" yaml:"framework_config"`
	Tests           TestSettings       `mapstructure:"tests" yaml:"tests"`
	Bot             BotSettings        `mapstructure:"bot" yaml:"bot"`
	Log             LogSettings        `mapstructure:"log" yaml:"log"`
}

type PythonSettings struct {
	Interpreter string `mapstructure:"interpreter" yaml:"interpreter"`
	MinVersion  string `mapstructure:"min_version" yaml:"min_version"`
}

type DependencySettings struct {
	Module   string `mapstructure:"module" yaml:"module"`
	Manifest string `mapstructure:"manifest" yaml:"manifest"`
}

// ScaffoldSettings names a template/target pair and the page an operator
// should visit while filling the target in.
type ScaffoldSettings struct {
	Template string `mapstructure:"template" yaml:"template"`
	Target   string `mapstructure:"target" yaml:"target"`
	HelpURL  string `mapstructure:"help_url" yaml:"help_url"`
}

type TestSettings struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type BotSettings struct {
	Entry       string `mapstructure:"entry" yaml:"entry"`
	DryRunLimit int    `mapstructure:"dry_run_limit" yaml:"dry_run_limit"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
}

type LogSettings struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

// defaultValues lists every known key. Keys absent here cannot be set.
var defaultValues = map[string]interface{}{
	"python.interpreter":        "python3",
	"python.min_version":        "3.8",
	"dependency.module":         "pywikibot",
	"dependency.manifest":       "requirements.txt",
	"credentials.template":      ".env.example",
	"credentials.target":        ".env",
	"credentials.help_url":      "https://commons.wikimedia.org/wiki/Special:BotPasswords",
	"framework_config.template": "user-config-template.py",
	"framework_config.target":   "user-config.py",
	"framework_config.help_url": "https://www.mediawiki.org/wiki/Manual:Pywikibot/user-config.py",
	"tests.path":                "tests/test_template_replacement.py",
	"bot.entry":                 branding.BotName(),
	"bot.dry_run_limit":         3,
	"bot.log_file":              "replace_catdiffuse.log",
	"log.file":                  "",
	"log.level":                 "info",
}

// Keys returns all known setting keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaultValues))
	for k := range defaultValues {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FilePath returns the settings file used for dir: explicit when non-empty,
// otherwise the branded file name inside dir.
func FilePath(dir, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(dir, branding.ConfigFile())
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaultValues {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load resolves settings for the project in dir. Defaults are overlaid by the
// settings file (when present) and then by CATDIFFUSE_* environment variables.
// An explicit file that does not exist is an error; the default file is optional.
func Load(dir, explicit string) (*Settings, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory %s: %w", dir, err)
	}

	v := newViper()
	file := FilePath(absDir, explicit)

	_, statErr := os.Stat(file)
	switch {
	case statErr == nil:
		result, err := ValidateFile(file)
		if err != nil {
			return nil, fmt.Errorf("validating %s: %w", file, err)
		}
		if !result.Valid {
			return nil, &InvalidFileError{File: file, Issues: result.Issues}
		}
		v.SetConfigFile(file)
		v.SetConfigType(fileType)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
	case errors.Is(statErr, os.ErrNotExist) && explicit == "":
		file = ""
	default:
		return nil, fmt.Errorf("settings file %s: %w", file, statErr)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	s.Dir = absDir
	s.File = file

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks values that the schema cannot express, including
// values that arrived through the environment.
func (s *Settings) Validate() error {
	if s.Python.Interpreter == "" {
		return fmt.Errorf("python.interpreter must not be empty")
	}
	if _, err := runtime.ParseSemver(s.Python.MinVersion); err != nil {
		return fmt.Errorf("python.min_version %q is not a version: %w", s.Python.MinVersion, err)
	}
	if s.Bot.DryRunLimit < 1 {
		return fmt.Errorf("bot.dry_run_limit must be at least 1, got %d", s.Bot.DryRunLimit)
	}
	return nil
}

// Path resolves a settings path against the project directory.
func (s *Settings) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Dir, p)
}

// Set writes a single key to the settings file for dir, creating it if needed.
// Only keys present in the file are written back; defaults stay implicit.
// The file is left untouched when the result would not load.
func Set(dir, explicit, key, value string) (string, error) {
	def, ok := defaultValues[key]
	if !ok {
		return "", fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(Keys(), ", "))
	}

	var typed interface{} = value
	if _, isInt := def.(int); isInt {
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", fmt.Errorf("setting %q expects an integer: %w", key, err)
		}
		typed = n
	}

	file := FilePath(dir, explicit)
	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType(fileType)
	if _, err := os.Stat(file); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
	}

	v.Set(key, typed)
	if err := checkFileSettings(file, v.AllSettings()); err != nil {
		return "", err
	}

	if err := v.WriteConfigAs(file); err != nil {
		return "", fmt.Errorf("writing settings file: %w", err)
	}
	return file, nil
}

// checkFileSettings applies the same checks Load does to the contents of a
// settings file, without environment overrides.
func checkFileSettings(file string, values map[string]interface{}) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	result, err := Validate(data)
	if err != nil {
		return err
	}
	if !result.Valid {
		return &InvalidFileError{File: file, Issues: result.Issues}
	}

	v := viper.New()
	for k, val := range defaultValues {
		v.SetDefault(k, val)
	}
	if err := v.MergeConfigMap(values); err != nil {
		return fmt.Errorf("merging settings: %w", err)
	}
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return fmt.Errorf("decoding settings: %w", err)
	}
	return s.Validate()
}
