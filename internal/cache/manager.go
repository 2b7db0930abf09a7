// Package cache keeps isolated, per-version installations of package managers
// under the onepm home directory and resolves requirements against them.
package cache

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/onepm-dev/onepm/internal/config"
	"github.com/onepm-dev/onepm/internal/index"
	"github.com/onepm-dev/onepm/internal/locate"
	"github.com/onepm-dev/onepm/internal/pep440"
	"github.com/onepm-dev/onepm/internal/venv"
)

// Finder looks up releases on a package index and fetches their wheels.
type Finder interface {
	FindBest(ctx context.Context, req pep440.Requirement) (index.Release, error)
	DownloadWheel(ctx context.Context, file index.File, destDir string) error
}

// EnvBuilder creates isolated environments.
type EnvBuilder interface {
	Ensure(ctx context.Context, path string, withPip bool) (string, error)
}

// Options configures a Manager.
type Options struct {
	Paths        config.Paths
	MaxVersions  int
	IndexURL     string
	PipWheel     string
	Capabilities config.Capabilities

	Finder  Finder
	Builder EnvBuilder
	System  System
	// Progress receives short human-readable notices, normally stderr.
	Progress io.Writer
}

// Manager owns the venvs/ and shared/ trees of the onepm home directory.
type Manager struct {
	paths       config.Paths
	maxVersions int
	indexURL    string
	pipWheel    string
	caps        config.Capabilities

	finder   Finder
	builder  EnvBuilder
	sys      System
	progress io.Writer

	now      func() time.Time
	newID    func() string
	lookPath func(name string, searchPath string) (string, error)
}

// New returns a Manager for opts, filling unset collaborators with real ones.
func New(opts Options) *Manager {
	m := &Manager{
		paths:       opts.Paths,
		maxVersions: opts.MaxVersions,
		indexURL:    opts.IndexURL,
		pipWheel:    opts.PipWheel,
		caps:        opts.Capabilities,
		finder:      opts.Finder,
		builder:     opts.Builder,
		sys:         opts.System,
		progress:    opts.Progress,
		now:         time.Now,
		newID:       newInstallationID,
		lookPath:    locate.Find,
	}
	if m.maxVersions < 1 {
		m.maxVersions = config.DefaultMaxVersions
	}
	if m.indexURL == "" {
		m.indexURL = config.DefaultIndexURL
	}
	if m.finder == nil {
		m.finder = index.NewClient(m.indexURL)
	}
	if m.builder == nil {
		m.builder = venv.NewBuilder("")
	}
	if m.sys == nil {
		m.sys = RealSystem{}
	}
	if m.progress == nil {
		m.progress = io.Discard
	}
	return m
}

// NewFromSettings returns a Manager configured from user settings.
func NewFromSettings(settings *config.Settings, caps config.Capabilities, progress io.Writer) *Manager {
	builder := venv.NewBuilder(settings.Python)
	client := index.NewClient(settings.IndexURL)
	client.InterpreterVersion = builder.PythonVersion
	return New(Options{
		Paths:        settings.Paths,
		MaxVersions:  settings.MaxVersions,
		IndexURL:     settings.IndexURL,
		PipWheel:     settings.PipWheel,
		Capabilities: caps,
		Finder:       client,
		Builder:      builder,
		Progress:     progress,
	})
}

// Capabilities returns the capabilities the manager was built with.
func (m *Manager) Capabilities() config.Capabilities {
	return m.caps
}

// ToolDir returns the directory holding every installation of tool.
func (m *Manager) ToolDir(tool string) string {
	return filepath.Join(m.paths.VenvsDir, tool)
}

func newInstallationID() string {
	return strings.ToLower(ulid.Make().String())
}
