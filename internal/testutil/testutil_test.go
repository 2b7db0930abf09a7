package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteStubCreatesExecutableThatSucceeds(t *testing.T) {
	dir := t.TempDir()
	stubPath := WriteStub(t, dir, "ok-stub")

	info, err := os.Stat(stubPath)
	if err != nil {
		t.Fatalf("stat stub: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Fatalf("expected mode 0755, got %#o", info.Mode().Perm())
	}

	cmd := exec.Command(stubPath)
	if err := cmd.Run(); err != nil {
		t.Fatalf("expected success exit, got %v", err)
	}
}

func TestWriteStubWithExitCreatesExecutableWithRequestedExitCode(t *testing.T) {
	dir := t.TempDir()
	stubPath := WriteStubWithExit(t, dir, "exit-stub", 7)

	cmd := exec.Command(stubPath)
	err := cmd.Run()
	if err == nil {
		t.Fatal("expected non-zero exit status")
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected *exec.ExitError, got %T", err)
	}
	if exitErr.ExitCode() != 7 {
		t.Fatalf("expected exit code 7, got %d", exitErr.ExitCode())
	}
}

func TestWriteRecordingStubAppendsArguments(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "calls.log")
	stubPath := WriteRecordingStub(t, dir, "rec", logPath, 0)

	if err := exec.Command(stubPath, "install", "-r", "requirements.txt").Run(); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if err := exec.Command(stubPath, "sync").Run(); err != nil {
		t.Fatalf("second call: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || lines[0] != "install -r requirements.txt" || lines[1] != "sync" {
		t.Fatalf("unexpected calls: %q", lines)
	}
}

func TestWriteVenvAndDistInfoLayout(t *testing.T) {
	envDir := filepath.Join(t.TempDir(), "env")
	python := WriteVenv(t, envDir)
	if _, err := os.Stat(filepath.Join(envDir, "pyvenv.cfg")); err != nil {
		t.Fatalf("expected pyvenv.cfg: %v", err)
	}
	if filepath.Dir(python) != BinDir(envDir) {
		t.Fatalf("expected python in %s, got %s", BinDir(envDir), python)
	}

	distDir := WriteDistInfo(t, envDir, "poetry-core", "1.9.0")
	if filepath.Base(distDir) != "poetry_core-1.9.0.dist-info" {
		t.Fatalf("unexpected dist-info dir %s", distDir)
	}
	data, err := os.ReadFile(filepath.Join(distDir, "METADATA"))
	if err != nil {
		t.Fatalf("read METADATA: %v", err)
	}
	if !strings.Contains(string(data), "Version: 1.9.0\n") {
		t.Fatalf("METADATA missing version: %s", data)
	}
}

func TestWriteFileCreatesParents(t *testing.T) {
	dir := t.TempDir()
	path := WriteFile(t, dir, filepath.Join("a", "b", "pyproject.toml"), "[project]\n")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "[project]\n" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestWithWorkingDirRunsInTargetDirectoryAndRestoresOriginal(t *testing.T) {
	targetDir := t.TempDir()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd before test: %v", err)
	}

	var observedDir string
	WithWorkingDir(t, targetDir, func() {
		wd, innerErr := os.Getwd()
		if innerErr != nil {
			t.Fatalf("getwd inside callback: %v", innerErr)
		}
		observedDir = wd
	})

	targetReal, err := filepath.EvalSymlinks(targetDir)
	if err != nil {
		targetReal = targetDir
	}
	observedReal, err := filepath.EvalSymlinks(observedDir)
	if err != nil {
		observedReal = observedDir
	}
	if observedReal != targetReal {
		t.Fatalf("expected callback cwd %q (real %q), got %q (real %q)", targetDir, targetReal, observedDir, observedReal)
	}

	finalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd after callback: %v", err)
	}
	origReal, err := filepath.EvalSymlinks(origDir)
	if err != nil {
		origReal = origDir
	}
	finalReal, err := filepath.EvalSymlinks(finalDir)
	if err != nil {
		finalReal = finalDir
	}
	if finalReal != origReal {
		t.Fatalf("expected cwd restored to %q (real %q), got %q (real %q)", origDir, origReal, finalDir, finalReal)
	}
}
