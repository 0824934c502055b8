// Package branding provides compile-time identity values for the setup tool.
//
// branding.yaml is embedded with //go:embed; edit it to rename the binary,
// the environment prefix, or the project config file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	EnvPrefix   string `yaml:"env_prefix"`
	ConfigFile  string `yaml:"config_file"`
	BotName     string `yaml:"bot_name"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:     "catdiffuse-setup",
			DisplayName: "CatDiffuse Setup",
			Description: "Prepare a checkout of the CatDiffuse Commons bot for first use",
			EnvPrefix:   "CATDIFFUSE",
			ConfigFile:  ".catdiffuse-setup.yaml",
			BotName:     "replace_catdiffuse.py",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "catdiffuse-setup").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// EnvPrefix returns the environment variable prefix (e.g., "CATDIFFUSE").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// ConfigFile returns the name of the optional per-project settings file.
func ConfigFile() string { load(); return defaults.ConfigFile }

// BotName returns the bot entry point script name.
func BotName() string { load(); return defaults.BotName }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("log_file") → "CATDIFFUSE_LOG_FILE".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
