package cache

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/onepm-dev/onepm/internal/messages"
	"github.com/onepm-dev/onepm/internal/pep440"
)

// PipWheelName is the unpacked pip wheel directory name, both next to the
// binary and under the shared directory.
const PipWheelName = "pip.whl"

// LocatePip returns the pip package directory that runs as "python <dir>".
// It checks the configured wheel, a wheel shipped next to the binary and the
// shared copy, fetching the latest pip wheel into the shared directory on a miss.
func (m *Manager) LocatePip(ctx context.Context) (string, error) {
	logger := zerolog.Ctx(ctx).With().Str("component", "cache").Logger()
	if m.pipWheel != "" {
		entry, ok := m.pipEntry(m.pipWheel)
		if !ok {
			return "", fmt.Errorf(messages.CachePipWheelNotDirFmt, m.pipWheel)
		}
		return entry, nil
	}
	if exe, err := m.sys.Executable(); err == nil {
		if entry, ok := m.pipEntry(filepath.Join(filepath.Dir(exe), PipWheelName)); ok {
			return entry, nil
		}
	}

	shared := filepath.Join(m.paths.SharedDir, PipWheelName)
	if entry, ok := m.pipEntry(shared); ok {
		return entry, nil
	}
	if err := m.sys.MkdirAll(m.paths.SharedDir, 0o755); err != nil {
		return "", fmt.Errorf(messages.CacheCreateDirFmt, err)
	}
	err := withFileLock(ctx, shared+".lock", func() error {
		if _, ok := m.pipEntry(shared); ok {
			return nil
		}
		logger.Debug().Str("path", shared).Msg("fetching bootstrap pip")
		return m.fetchPip(ctx, shared)
	})
	if err != nil {
		return "", err
	}
	entry, ok := m.pipEntry(shared)
	if !ok {
		return "", fmt.Errorf(messages.CachePipWheelNotDirFmt, shared)
	}
	return entry, nil
}

func (m *Manager) fetchPip(ctx context.Context, dest string) error {
	release, err := m.finder.FindBest(ctx, pep440.NewRequirement("pip"))
	if err != nil {
		return err
	}
	wheel, ok := release.Wheel()
	if !ok {
		return fmt.Errorf(messages.IndexNoWheelFmt, release.Name, release.Version)
	}
	tmp, err := m.sys.MkdirTemp(filepath.Dir(dest), ".pip-*")
	if err != nil {
		return fmt.Errorf(messages.CacheCreateDirFmt, err)
	}
	defer func() {
		_ = m.sys.RemoveAll(tmp)
	}()
	if err := m.finder.DownloadWheel(ctx, wheel, tmp); err != nil {
		return err
	}
	if err := m.sys.RemoveAll(dest); err != nil {
		return fmt.Errorf(messages.CacheMovePipFmt, err)
	}
	if err := m.sys.Rename(tmp, dest); err != nil {
		return fmt.Errorf(messages.CacheMovePipFmt, err)
	}
	return nil
}

// pipEntry returns dir/pip when dir is an unpacked pip wheel.
func (m *Manager) pipEntry(dir string) (string, bool) {
	entry := filepath.Join(dir, "pip")
	info, err := m.sys.Stat(filepath.Join(entry, "__main__.py"))
	if err != nil || info.IsDir() {
		return "", false
	}
	return entry, true
}
