package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/onepm-dev/onepm/internal/messages"
)

// ErrConfigValidation is a sentinel that wraps config validation failures
// (as opposed to TOML syntax or filesystem errors).
var ErrConfigValidation = errors.New(messages.ConfigValidationFailed)

var osReadFile = os.ReadFile

// Load resolves the home directory, reads <home>/config.toml when present and
// applies environment overrides. getenv is usually os.Getenv.
func Load(getenv func(string) string) (*Settings, error) {
	home, err := ResolveHome(getenv)
	if err != nil {
		return nil, err
	}
	settings := Defaults(home)

	data, err := osReadFile(settings.Paths.ConfigPath)
	switch {
	case err == nil:
		if err := parseInto(&settings, data, settings.Paths.ConfigPath); err != nil {
			return nil, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf(messages.ConfigReadFailedFmt, settings.Paths.ConfigPath, err)
	}

	if err := applyEnv(&settings, getenv); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	return &settings, nil
}

// ParseSettings parses config TOML data on top of the defaults for home.
// source is used in error messages.
func ParseSettings(data []byte, home string, source string) (*Settings, error) {
	settings := Defaults(home)
	if err := parseInto(&settings, data, source); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	return &settings, nil
}

func parseInto(settings *Settings, data []byte, source string) error {
	if err := toml.Unmarshal(data, settings); err != nil {
		return fmt.Errorf(messages.ConfigInvalidFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return fmt.Errorf("%w: "+messages.ConfigUnknownKeysFmt, ErrConfigValidation, source, err)
	}
	return nil
}

// decodeStrict re-decodes the TOML data with strict unknown-field rejection.
func decodeStrict(data []byte) error {
	var settings Settings
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&settings)
}

func applyEnv(settings *Settings, getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvIndexURL)); v != "" {
		settings.IndexURL = v
	}
	if v := strings.TrimSpace(getenv(EnvMaxVersions)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf(messages.ConfigInvalidEnvIntFmt, EnvMaxVersions, v, err)
		}
		settings.MaxVersions = n
	}
	if v := strings.TrimSpace(getenv(EnvPython)); v != "" {
		settings.Python = v
	}
	if v := strings.TrimSpace(getenv(EnvPipWheel)); v != "" {
		settings.PipWheel = v
	}
	if v := strings.TrimSpace(getenv(EnvDisableShims)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf(messages.ConfigInvalidEnvBoolFmt, EnvDisableShims, v, err)
		}
		settings.DisableShims = b
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		settings.LogLevel = v
	}
	return nil
}
