package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// errNotMocked is returned when a testSystem method is called without a mock function set.
var errNotMocked = errors.New("testSystem: method not mocked")

// testSystem provides a mock System for unit tests.
//
// Fallback behavior:
//   - Run, CombinedOutput, ExecBinary: return errNotMocked (fail-fast). These
//     spawn or replace processes and must never reach the real OS in tests.
//   - Getenv, Environ, Getwd, LookPath: fall back to RealSystem so tests can use
//     t.Setenv and t.TempDir fixtures.
type testSystem struct {
	RealSystem

	GetenvFunc         func(key string) string
	EnvironFunc        func() []string
	LookPathFunc       func(name string, searchPath string) (string, error)
	RunFunc            func(ctx context.Context, argv []string, env []string) error
	CombinedOutputFunc func(ctx context.Context, name string, args []string) ([]byte, error)
	ExecBinaryFunc     func(path string, args []string, env []string, exit func(int)) error
}

func (s *testSystem) Getenv(key string) string {
	if s.GetenvFunc != nil {
		return s.GetenvFunc(key)
	}
	return s.RealSystem.Getenv(key)
}

func (s *testSystem) Environ() []string {
	if s.EnvironFunc != nil {
		return s.EnvironFunc()
	}
	return s.RealSystem.Environ()
}

func (s *testSystem) LookPath(name string, searchPath string) (string, error) {
	if s.LookPathFunc != nil {
		return s.LookPathFunc(name, searchPath)
	}
	return s.RealSystem.LookPath(name, searchPath)
}

func (s *testSystem) Run(ctx context.Context, argv []string, env []string) error {
	if s.RunFunc != nil {
		return s.RunFunc(ctx, argv, env)
	}
	return fmt.Errorf("%w: Run", errNotMocked)
}

func (s *testSystem) CombinedOutput(ctx context.Context, name string, args []string) ([]byte, error) {
	if s.CombinedOutputFunc != nil {
		return s.CombinedOutputFunc(ctx, name, args)
	}
	return nil, fmt.Errorf("%w: CombinedOutput", errNotMocked)
}

func (s *testSystem) ExecBinary(path string, args []string, env []string, exit func(int)) error {
	if s.ExecBinaryFunc != nil {
		return s.ExecBinaryFunc(path, args, env, exit)
	}
	return fmt.Errorf("%w: ExecBinary", errNotMocked)
}

func (s *testSystem) Stderr() io.Writer {
	return io.Discard
}
