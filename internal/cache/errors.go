package cache

import (
	"fmt"

	"github.com/onepm-dev/onepm/internal/messages"
)

// NotFoundError reports that no installation of Tool matches Version.
type NotFoundError struct {
	Tool    string
	Version string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf(messages.CacheInstallationNotFoundFmt, e.Tool, e.Version)
}

// InstallError reports a failed installation of Tool at Version.
// The partially built environment, if any, is left on disk and removed by a
// later eviction pass.
type InstallError struct {
	Tool    string
	Version string
	Err     error
}

func (e *InstallError) Error() string {
	return fmt.Errorf(messages.CacheInstallFailedFmt, e.Tool, e.Version, e.Err).Error()
}

func (e *InstallError) Unwrap() error {
	return e.Err
}
