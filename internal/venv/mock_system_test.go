package venv

import (
	"context"
	"errors"
	"fmt"
	"os"
)

var errNotMocked = errors.New("testSystem: method not mocked")

// testSystem provides a mock System for unit tests.
// Filesystem methods fall back to RealSystem so fixtures can live in t.TempDir;
// LookPath and CombinedOutput fail fast unless mocked.
type testSystem struct {
	RealSystem

	LookPathFunc       func(name string) (string, error)
	CombinedOutputFunc func(ctx context.Context, name string, args []string) ([]byte, error)
}

func (s *testSystem) Stat(name string) (os.FileInfo, error) {
	return s.RealSystem.Stat(name)
}

func (s *testSystem) ReadFile(name string) ([]byte, error) {
	return s.RealSystem.ReadFile(name)
}

func (s *testSystem) MkdirAll(path string, perm os.FileMode) error {
	return s.RealSystem.MkdirAll(path, perm)
}

func (s *testSystem) LookPath(name string) (string, error) {
	if s.LookPathFunc != nil {
		return s.LookPathFunc(name)
	}
	return "", fmt.Errorf("%w: LookPath", errNotMocked)
}

func (s *testSystem) CombinedOutput(ctx context.Context, name string, args []string) ([]byte, error) {
	if s.CombinedOutputFunc != nil {
		return s.CombinedOutputFunc(ctx, name, args)
	}
	return nil, fmt.Errorf("%w: CombinedOutput", errNotMocked)
}
