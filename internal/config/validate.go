package config

import (
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/onepm-dev/onepm/internal/messages"
)

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	if s.MaxVersions < 1 {
		return fmt.Errorf(messages.ConfigInvalidMaxVersionsFmt, s.MaxVersions)
	}
	u, err := url.Parse(s.IndexURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf(messages.ConfigInvalidIndexURLFmt, s.IndexURL)
	}
	if s.LogLevel != "" {
		if _, err := zerolog.ParseLevel(s.LogLevel); err != nil {
			return fmt.Errorf(messages.ConfigInvalidLogLevelFmt, s.LogLevel)
		}
	}
	return nil
}
