package cache

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/onepm-dev/onepm/internal/messages"
)

// orphanGracePeriod keeps unmarked directories that a concurrent install may
// still be populating.
const orphanGracePeriod = time.Hour

// evict makes room for one more installation of tool: it drops the least
// recently used installations beyond the cap and stale orphan directories.
func (m *Manager) evict(ctx context.Context, tool string, installs []Installation, orphans []string) error {
	logger := zerolog.Ctx(ctx).With().Str("component", "cache").Str("tool", tool).Logger()

	cutoff := m.now().Add(-orphanGracePeriod)
	for _, dir := range orphans {
		info, err := m.sys.Stat(dir)
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		logger.Debug().Str("path", dir).Msg("removing orphan environment")
		if err := m.sys.RemoveAll(dir); err != nil {
			return fmt.Errorf(messages.CacheEvictFailedFmt, dir, err)
		}
	}

	if len(installs) < m.maxVersions {
		return nil
	}
	byAge := make([]Installation, len(installs))
	copy(byAge, installs)
	sort.SliceStable(byAge, func(i, j int) bool {
		return byAge[i].LastUsed.Before(byAge[j].LastUsed)
	})
	for _, inst := range byAge[:len(byAge)-m.maxVersions+1] {
		logger.Debug().Str("version", inst.Version.String()).Str("path", inst.Path).Msg("evicting installation")
		if err := m.sys.RemoveAll(inst.Path); err != nil {
			return fmt.Errorf(messages.CacheEvictFailedFmt, inst.Path, err)
		}
	}
	return nil
}
