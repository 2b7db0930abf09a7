package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"testing"

	"github.com/onepm-dev/onepm/internal/dispatch"
)

func noExit(t *testing.T) func(int) {
	return func(code int) {
		t.Helper()
		t.Fatalf("unexpected exit %d", code)
	}
}

func TestMainVersion(t *testing.T) {
	var out bytes.Buffer
	if err := execute([]string{"onepm", "--version"}, &out, &out, noExit(t)); err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.Contains(out.String(), Version) {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestMainUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	err := execute([]string{"onepm", "unknown"}, &out, &out, noExit(t))
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunMainSuccess(t *testing.T) {
	var out bytes.Buffer
	runMain([]string{"onepm", "--version"}, &out, &out, noExit(t))
}

func TestRunMainError(t *testing.T) {
	var out bytes.Buffer
	code := 0
	runMain([]string{"onepm", "unknown"}, &out, &out, func(exitCode int) {
		code = exitCode
	})
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(out.String(), "unknown command") {
		t.Fatalf("expected error output, got %q", out.String())
	}
}

func stubExecute(t *testing.T, err error) {
	t.Helper()
	orig := executeFunc
	executeFunc = func([]string, io.Writer, io.Writer, func(int)) error { return err }
	t.Cleanup(func() { executeFunc = orig })
}

func TestRunMainDispatchedIsSuccess(t *testing.T) {
	stubExecute(t, dispatch.ErrDispatched)
	var out bytes.Buffer
	runMain([]string{"onepm", "pi"}, &out, &out, noExit(t))
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestRunMainSilentExit(t *testing.T) {
	stubExecute(t, &SilentExitError{Code: 4})
	var out bytes.Buffer
	code := 0
	runMain([]string{"onepm"}, &out, &out, func(c int) { code = c })
	if code != 4 {
		t.Fatalf("expected exit 4, got %d", code)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestRunMainMirrorsToolExitStatus(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	runErr := exec.Command("sh", "-c", "exit 3").Run()
	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		t.Fatalf("expected exit error, got %v", runErr)
	}
	stubExecute(t, runErr)

	var out bytes.Buffer
	code := 0
	runMain([]string{"onepm"}, &out, &out, func(c int) { code = c })
	if code != 3 {
		t.Fatalf("expected exit 3, got %d", code)
	}
}

func TestMainCallsExecute(t *testing.T) {
	originalArgs := os.Args
	defer func() { os.Args = originalArgs }()

	os.Args = []string{"onepm", "--version"}
	main()
}

func TestCommandArgs(t *testing.T) {
	cases := []struct {
		args []string
		want []string
	}{
		{nil, []string{}},
		{[]string{"onepm"}, []string{}},
		{[]string{"/usr/local/bin/onepm", "list", "pdm"}, []string{"list", "pdm"}},
		{[]string{"/usr/local/bin/pi", "requests"}, []string{"pi", "requests"}},
		{[]string{"pdm.exe", "--version"}, []string{"pdm", "--version"}},
		{[]string{"uv", "pip", "list"}, []string{"uv", "pip", "list"}},
		{[]string{"pip", "install"}, []string{"install"}},
	}
	for _, tc := range cases {
		got := commandArgs(tc.args)
		if strings.Join(got, " ") != strings.Join(tc.want, " ") || len(got) != len(tc.want) {
			t.Fatalf("commandArgs(%q) = %q, want %q", tc.args, got, tc.want)
		}
	}
}

func TestVersionString(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = origVersion, origCommit, origDate })

	Version, Commit, BuildDate = "1.2.0", "unknown", "unknown"
	if got := versionString(); got != "1.2.0" {
		t.Fatalf("unexpected version %q", got)
	}
	Commit, BuildDate = "abc123", "2026-01-02"
	if got := versionString(); got != "1.2.0 (commit abc123, built 2026-01-02)" {
		t.Fatalf("unexpected version %q", got)
	}
}
