// Package config loads onepm user settings.
package config

// DefaultIndexURL is the package index queried when none is configured.
const DefaultIndexURL = "https://pypi.org/pypi"

// DefaultMaxVersions is the number of installations kept per tool.
const DefaultMaxVersions = 5

// Environment variables that override config.toml.
const (
	EnvHome         = "ONEPM_HOME"
	EnvIndexURL     = "ONEPM_INDEX_URL"
	EnvMaxVersions  = "ONEPM_MAX_VERSIONS"
	EnvPython       = "ONEPM_PYTHON"
	EnvPipWheel     = "ONEPM_PIP_WHEEL"
	EnvDisableShims = "ONEPM_DISABLE_SHIMS"
	EnvLogLevel     = "ONEPM_LOG_LEVEL"
)

// Settings is the resolved user configuration.
type Settings struct {
	IndexURL     string `toml:"index_url"`
	MaxVersions  int    `toml:"max_versions"`
	Python       string `toml:"python"`
	PipWheel     string `toml:"pip_wheel"`
	DisableShims bool   `toml:"disable_shims"`
	LogLevel     string `toml:"log_level"`

	// Paths is derived from the home directory and never read from TOML.
	Paths Paths `toml:"-"`
}

// Defaults returns settings with built-in values for home.
func Defaults(home string) Settings {
	return Settings{
		IndexURL:    DefaultIndexURL,
		MaxVersions: DefaultMaxVersions,
		LogLevel:    "warn",
		Paths:       DefaultPaths(home),
	}
}
