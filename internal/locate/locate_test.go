package locate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onepm-dev/onepm/internal/testutil"
)

func TestFindSearchesInOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	testutil.WriteStub(t, second, "pdm")
	want := testutil.WriteStub(t, first, "pdm")

	got, err := Find("pdm", strings.Join([]string{first, second}, string(os.PathListSeparator)))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindUsesPATHWhenEmpty(t *testing.T) {
	dir := t.TempDir()
	want := testutil.WriteStub(t, dir, "poetry")
	t.Setenv("PATH", dir)

	got, err := Find("poetry", "")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindSkipsNonExecutablesAndDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uv"), []byte("data"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "pipenv"), 0o755))

	_, err := Find("uv", dir)
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "uv", notFound.Name)
	assert.Contains(t, err.Error(), "uv is not found in PATH")

	_, err = Find("pipenv", dir)
	assert.True(t, errors.As(err, &notFound))
}

func TestFindSkipsRunningBinary(t *testing.T) {
	selfDir := t.TempDir()
	otherDir := t.TempDir()
	self := testutil.WriteStub(t, selfDir, "pdm")
	want := testutil.WriteStub(t, otherDir, "pdm")

	orig := osExecutable
	osExecutable = func() (string, error) { return self, nil }
	t.Cleanup(func() { osExecutable = orig })

	got, err := Find("pdm", JoinPath(otherDir, selfDir))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = Find("pdm", selfDir)
	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestFindSkipsHardlinkToRunningBinary(t *testing.T) {
	dir := t.TempDir()
	self := testutil.WriteStub(t, dir, "onepm")
	link := filepath.Join(dir, "poetry")
	if err := os.Link(self, link); err != nil {
		t.Skipf("hardlinks unsupported: %v", err)
	}

	orig := osExecutable
	osExecutable = func() (string, error) { return self, nil }
	t.Cleanup(func() { osExecutable = orig })

	_, err := Find("poetry", dir)
	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestFindExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteStub(t, dir, "python3")

	got, err := Find(path, "")
	require.NoError(t, err)
	assert.Equal(t, path, got)

	_, err = Find(filepath.Join(dir, "missing"), "")
	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestFindRequiresName(t *testing.T) {
	_, err := Find(" ", "/usr/bin")
	require.Error(t, err)
}

func TestCandidatesWindowsExtensions(t *testing.T) {
	orig := goos
	goos = "windows"
	t.Cleanup(func() { goos = orig })
	t.Setenv("PATHEXT", ".EXE;.BAT")

	assert.Equal(t, []string{"uv.exe", "uv.bat"}, candidates("uv"))
	assert.Equal(t, []string{"uv.cmd"}, candidates("uv.cmd"))

	t.Setenv("PATHEXT", "")
	assert.Equal(t, []string{"uv.com", "uv.exe", "uv.bat", "uv.cmd"}, candidates("uv"))
}

func TestJoinPath(t *testing.T) {
	sep := string(os.PathListSeparator)
	assert.Equal(t, "a"+sep+"b"+sep+"c", JoinPath("c", "a", "b"))
	assert.Equal(t, "a", JoinPath("", "a"))
}
