package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/onepm-dev/onepm/internal/messages"
	"github.com/onepm-dev/onepm/internal/pep440"
)

// Cleanup removes cached installations. With no tool it removes every
// installation and the shared bootstrap files; with a tool, all of that
// tool's installations; with a version as well, exactly the installations of
// that version, failing with NotFoundError when there are none.
func (m *Manager) Cleanup(ctx context.Context, tool string, version string) error {
	logger := zerolog.Ctx(ctx).With().Str("component", "cache").Logger()
	if tool == "" {
		if version != "" {
			return errors.New(messages.CacheToolRequired)
		}
		for _, dir := range []string{m.paths.VenvsDir, m.paths.SharedDir} {
			logger.Debug().Str("path", dir).Msg("removing")
			if err := m.sys.RemoveAll(dir); err != nil {
				return fmt.Errorf(messages.CacheRemoveFailedFmt, dir, err)
			}
		}
		return nil
	}
	if version == "" {
		dir := m.ToolDir(tool)
		logger.Debug().Str("path", dir).Msg("removing")
		if err := m.sys.RemoveAll(dir); err != nil {
			return fmt.Errorf(messages.CacheRemoveFailedFmt, dir, err)
		}
		return nil
	}

	want, err := pep440.ParseVersion(version)
	if err != nil {
		return fmt.Errorf(messages.CacheInvalidCleanupVersion, version, err)
	}
	installs, err := m.ListInstallations(ctx, tool)
	if err != nil {
		return err
	}
	removed := 0
	for _, inst := range installs {
		if !inst.Version.Equal(want) {
			continue
		}
		logger.Debug().Str("path", inst.Path).Msg("removing")
		if err := m.sys.RemoveAll(inst.Path); err != nil {
			return fmt.Errorf(messages.CacheRemoveFailedFmt, inst.Path, err)
		}
		removed++
	}
	if removed == 0 {
		return &NotFoundError{Tool: tool, Version: want.String()}
	}
	return nil
}
