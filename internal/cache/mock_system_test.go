package cache

import (
	"context"
	"errors"
	"fmt"
)

var errNotMocked = errors.New("testSystem: method not mocked")

// testSystem provides a mock System for unit tests.
// Filesystem methods fall back to RealSystem so fixtures can live in t.TempDir;
// Executable and CombinedOutput fail fast unless mocked.
type testSystem struct {
	RealSystem

	RemoveAllFunc      func(path string) error
	ExecutableFunc     func() (string, error)
	CombinedOutputFunc func(ctx context.Context, name string, args []string) ([]byte, error)
}

func (s *testSystem) RemoveAll(path string) error {
	if s.RemoveAllFunc != nil {
		return s.RemoveAllFunc(path)
	}
	return s.RealSystem.RemoveAll(path)
}

func (s *testSystem) Executable() (string, error) {
	if s.ExecutableFunc != nil {
		return s.ExecutableFunc()
	}
	return "", fmt.Errorf("%w: Executable", errNotMocked)
}

func (s *testSystem) CombinedOutput(ctx context.Context, name string, args []string) ([]byte, error) {
	if s.CombinedOutputFunc != nil {
		return s.CombinedOutputFunc(ctx, name, args)
	}
	return nil, fmt.Errorf("%w: CombinedOutput", errNotMocked)
}

var _ System = (*testSystem)(nil)
