package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/onepm-dev/onepm/internal/config"
	"github.com/onepm-dev/onepm/internal/index"
	"github.com/onepm-dev/onepm/internal/pep440"
	"github.com/onepm-dev/onepm/internal/testutil"
)

type fakeFinder struct {
	releases  map[string][]string
	err       error
	findCalls int
	downloads int
}

func (f *fakeFinder) FindBest(_ context.Context, req pep440.Requirement) (index.Release, error) {
	f.findCalls++
	if f.err != nil {
		return index.Release{}, f.err
	}
	var best *pep440.Version
	for _, raw := range f.releases[req.Name] {
		v := pep440.MustParseVersion(raw)
		if req.Contains(v) && (best == nil || v.Compare(best) > 0) {
			best = v
		}
	}
	if best == nil {
		return index.Release{}, &index.ResolutionError{Requirement: req.String()}
	}
	file := index.File{
		Filename:    req.Name + "-" + best.String() + "-py3-none-any.whl",
		PackageType: "bdist_wheel",
	}
	return index.Release{Name: req.Name, Version: best, Files: []index.File{file}}, nil
}

func (f *fakeFinder) DownloadWheel(_ context.Context, _ index.File, destDir string) error {
	f.downloads++
	return writePipWheel(destDir)
}

type fakeBuilder struct {
	t     *testing.T
	calls []string
	err   error
}

func (b *fakeBuilder) Ensure(_ context.Context, path string, withPip bool) (string, error) {
	b.calls = append(b.calls, path)
	if b.err != nil {
		return "", b.err
	}
	if withPip {
		b.t.Fatalf("environments must be built without pip")
	}
	testutil.WriteVenv(b.t, path)
	return path, nil
}

// fakeClock advances one minute on every reading.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

type harness struct {
	m        *Manager
	sys      *testSystem
	finder   *fakeFinder
	builder  *fakeBuilder
	clock    *fakeClock
	home     string
	pipWheel string
	pipCalls [][]string
}

func writePipWheel(dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, "pip"), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "pip", "__main__.py"), []byte("import sys\n"), 0o644)
}

// newHarness builds a Manager whose pip installs by writing dist-info and an
// entry point for the pinned requirement it was given.
func newHarness(t *testing.T, maxVersions int) *harness {
	t.Helper()
	h := &harness{
		home:     t.TempDir(),
		pipWheel: filepath.Join(t.TempDir(), PipWheelName),
		finder: &fakeFinder{releases: map[string][]string{
			"pdm": {"2.2.0", "2.3.1", "2.4.0a1"},
			"pip": {"24.0"},
		}},
		clock: &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, writePipWheel(h.pipWheel))
	h.builder = &fakeBuilder{t: t}
	h.sys = &testSystem{}
	h.sys.CombinedOutputFunc = func(_ context.Context, name string, args []string) ([]byte, error) {
		h.pipCalls = append(h.pipCalls, append([]string{name}, args...))
		envDir := filepath.Dir(filepath.Dir(name))
		tool, version, ok := strings.Cut(args[len(args)-1], "==")
		if !ok {
			return nil, nil
		}
		testutil.WriteDistInfo(t, envDir, tool, version)
		testutil.WriteStub(t, testutil.BinDir(envDir), tool)
		return []byte("Successfully installed"), nil
	}
	h.m = New(Options{
		Paths:        config.DefaultPaths(h.home),
		MaxVersions:  maxVersions,
		IndexURL:     "https://pypi.org/pypi",
		PipWheel:     h.pipWheel,
		Capabilities: config.Capabilities{Shims: true},
		Finder:       h.finder,
		Builder:      h.builder,
		System:       h.sys,
	})
	h.m.now = h.clock.Now
	return h
}

// seed lays out a complete installation of tool at version, last used at lastUsed.
func (h *harness) seed(t *testing.T, tool string, version string, lastUsed time.Time) string {
	t.Helper()
	envDir := filepath.Join(h.m.ToolDir(tool), newInstallationID())
	testutil.WriteVenv(t, envDir)
	testutil.WriteDistInfo(t, envDir, tool, version)
	testutil.WriteStub(t, testutil.BinDir(envDir), tool)
	sidecar := filepath.Join(envDir, LastUsedFile)
	require.NoError(t, os.WriteFile(sidecar, nil, 0o644))
	require.NoError(t, os.Chtimes(sidecar, lastUsed, lastUsed))
	return envDir
}

func mustRequirement(t *testing.T, raw string) pep440.Requirement {
	t.Helper()
	req, err := pep440.ParseRequirement(raw)
	require.NoError(t, err)
	return req
}

func versionsOf(installs []Installation) []string {
	out := make([]string, 0, len(installs))
	for _, inst := range installs {
		out = append(out, inst.Version.String())
	}
	return out
}
