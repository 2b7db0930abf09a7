package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/onepm-dev/onepm/internal/distinfo"
	"github.com/onepm-dev/onepm/internal/messages"
	"github.com/onepm-dev/onepm/internal/pep440"
	"github.com/onepm-dev/onepm/internal/venv"
)

// LastUsedFile is touched inside an environment every time it is used.
const LastUsedFile = ".onepm-last-used"

// Installation is one isolated environment holding a single tool version.
type Installation struct {
	Tool     string
	Version  *pep440.Version
	Path     string
	LastUsed time.Time
}

// Executable returns the tool's entry point inside the environment.
func (i Installation) Executable() string {
	return venv.Executable(i.Path, i.Tool)
}

// ListInstallations returns the valid installations of tool, newest version
// first. A missing tool directory yields an empty list.
func (m *Manager) ListInstallations(ctx context.Context, tool string) ([]Installation, error) {
	installs, _, err := m.scan(ctx, tool)
	return installs, err
}

// scan reads the tool directory and splits it into valid installations and
// orphan directories that carry no dist-info for tool.
func (m *Manager) scan(ctx context.Context, tool string) ([]Installation, []string, error) {
	if tool == "" {
		return nil, nil, errors.New(messages.CacheToolRequired)
	}
	dir := m.ToolDir(tool)
	entries, err := m.sys.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Installation{}, nil, nil
		}
		return nil, nil, fmt.Errorf(messages.CacheListFailedFmt, tool, err)
	}

	logger := zerolog.Ctx(ctx)
	installs := make([]Installation, 0, len(entries))
	var orphans []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		envDir := filepath.Join(dir, entry.Name())
		dist, err := distinfo.Find(envDir, tool)
		if err != nil {
			logger.Debug().Str("component", "cache").Str("path", envDir).Err(err).Msg("skipping environment without marker")
			orphans = append(orphans, envDir)
			continue
		}
		installs = append(installs, Installation{
			Tool:     tool,
			Version:  dist.Version,
			Path:     envDir,
			LastUsed: m.lastUsed(envDir),
		})
	}
	sort.SliceStable(installs, func(i, j int) bool {
		if c := installs[i].Version.Compare(installs[j].Version); c != 0 {
			return c > 0
		}
		return installs[i].LastUsed.After(installs[j].LastUsed)
	})
	return installs, orphans, nil
}

// lastUsed prefers the sidecar mtime, then the directory access time, then
// the directory mtime.
func (m *Manager) lastUsed(envDir string) time.Time {
	if info, err := m.sys.Stat(filepath.Join(envDir, LastUsedFile)); err == nil {
		return info.ModTime()
	}
	if atime, ok := accessTime(envDir); ok {
		return atime
	}
	if info, err := m.sys.Stat(envDir); err == nil {
		return info.ModTime()
	}
	return time.Time{}
}

// touch records that envDir was just used. Failures only cost eviction accuracy.
func (m *Manager) touch(ctx context.Context, envDir string) {
	sidecar := filepath.Join(envDir, LastUsedFile)
	now := m.now()
	err := m.sys.WriteFile(sidecar, nil, 0o644)
	if err == nil {
		err = m.sys.Chtimes(sidecar, now, now)
	}
	if err != nil {
		zerolog.Ctx(ctx).Debug().Str("component", "cache").Str("path", sidecar).Err(err).Msg("cannot record last use")
	}
}
