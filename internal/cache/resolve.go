package cache

import (
	"context"
	"errors"
	"io/fs"

	"github.com/rs/zerolog"

	"github.com/onepm-dev/onepm/internal/pep440"
)

// Resolve returns the executable of an installation of tool satisfying req,
// installing one when none is cached. With shims disabled it only searches PATH.
func (m *Manager) Resolve(ctx context.Context, tool string, req pep440.Requirement) (string, error) {
	logger := zerolog.Ctx(ctx).With().Str("component", "cache").Str("tool", tool).Logger()
	if !m.caps.Shims {
		logger.Debug().Str("reason", m.caps.Reason).Msg("shims disabled, searching PATH")
		return m.lookPath(tool, "")
	}

	installs, err := m.ListInstallations(ctx, tool)
	if err != nil {
		return "", err
	}
	for _, inst := range installs {
		if !req.Contains(inst.Version) {
			continue
		}
		exe := inst.Executable()
		if _, err := m.sys.Stat(exe); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", &NotFoundError{Tool: tool, Version: inst.Version.String()}
			}
			return "", err
		}
		m.touch(ctx, inst.Path)
		logger.Debug().Str("version", inst.Version.String()).Str("path", inst.Path).Msg("using cached installation")
		return exe, nil
	}

	inst, err := m.InstallTool(ctx, tool, req)
	if err != nil {
		return "", err
	}
	return inst.Executable(), nil
}
