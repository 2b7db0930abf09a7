package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/onepm-dev/onepm/internal/messages"
)

var homedirDir = homedir.Dir

// Paths holds the per-user onepm directories.
type Paths struct {
	Home       string
	ConfigPath string
	VenvsDir   string
	SharedDir  string
}

// DefaultPaths returns the layout under home.
func DefaultPaths(home string) Paths {
	return Paths{
		Home:       home,
		ConfigPath: filepath.Join(home, "config.toml"),
		VenvsDir:   filepath.Join(home, "venvs"),
		SharedDir:  filepath.Join(home, "shared"),
	}
}

// ResolveHome returns $ONEPM_HOME, or ~/.onepm when unset.
func ResolveHome(getenv func(string) string) (string, error) {
	if home := strings.TrimSpace(getenv(EnvHome)); home != "" {
		expanded, err := homedir.Expand(home)
		if err != nil {
			return "", fmt.Errorf(messages.ConfigResolveHomeFmt, err)
		}
		return filepath.Abs(expanded)
	}
	dir, err := homedirDir()
	if err != nil {
		return "", fmt.Errorf(messages.ConfigResolveHomeFmt, err)
	}
	return filepath.Join(dir, ".onepm"), nil
}
