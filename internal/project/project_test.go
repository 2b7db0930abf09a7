package project

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

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	p, err := Load(dir)
	require.NoError(t, err)
	assert.False(t, p.Found)
	assert.Equal(t, filepath.Join(dir, FileName), p.Path)
	assert.Empty(t, p.PackageManager())
	assert.False(t, p.HasProjectTable())
	assert.False(t, p.HasTool("pdm"))
}

func TestLoadReadsDetectionKeys(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, FileName, `[project]
name = "demo"

[build-system]
requires = ["pdm-backend"]
build-backend = "pdm.backend"

[tool.pdm.dev-dependencies]
test = ["pytest"]

[tool.onepm]
package-manager = " pdm>=2.0 "
`)
	testutil.WriteFile(t, dir, "pdm.lock", "")

	p, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, p.Found)
	assert.Equal(t, "pdm>=2.0", p.PackageManager())
	assert.Equal(t, "pdm.backend", p.BuildBackend())
	assert.True(t, p.HasTool("pdm"))
	assert.False(t, p.HasTool("poetry"))
	assert.True(t, p.HasProjectTable())
	assert.True(t, p.HasFile("pdm.lock"))
	assert.False(t, p.HasFile("poetry.lock"))
}

func TestLoadInvalidToml(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, FileName, "[project\nname=")
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}

func TestLoadReadError(t *testing.T) {
	orig := osReadFile
	osReadFile = func(string) ([]byte, error) { return nil, errors.New("permission denied") }
	t.Cleanup(func() { osReadFile = orig })

	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestLookupIgnoresNonTables(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, FileName, "tool = \"flat\"\n")
	p, err := Load(dir)
	require.NoError(t, err)
	assert.False(t, p.HasTool("onepm"))
	assert.Empty(t, p.PackageManager())
}

func TestSetPackageManager(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "empty file",
			content: "",
			want:    "[tool.onepm]\npackage-manager = \"pdm>=2\"\n",
		},
		{
			name:    "appends table",
			content: "[project]\nname = \"demo\"\n",
			want:    "[project]\nname = \"demo\"\n\n[tool.onepm]\npackage-manager = \"pdm>=2\"\n",
		},
		{
			name:    "replaces existing key and keeps comments",
			content: "# top\n[tool.onepm] # managed\n  package-manager = \"poetry\" # old\nother = 1\n\n[project]\nname = \"demo\"\n",
			want:    "# top\n[tool.onepm] # managed\n  package-manager = \"pdm>=2\"\nother = 1\n\n[project]\nname = \"demo\"\n",
		},
		{
			name:    "inserts into existing table",
			content: "[tool.onepm]\nother = 1\n[project]\nname = \"demo\"\n",
			want:    "[tool.onepm]\npackage-manager = \"pdm>=2\"\nother = 1\n[project]\nname = \"demo\"\n",
		},
		{
			name:    "ignores key in another table",
			content: "[tool.other]\npackage-manager = \"x\"\n\n[tool.onepm]\npackage-manager = \"uv\"\n",
			want:    "[tool.other]\npackage-manager = \"x\"\n\n[tool.onepm]\npackage-manager = \"pdm>=2\"\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			if tc.content != "" {
				testutil.WriteFile(t, dir, FileName, tc.content)
			}
			p, err := Load(dir)
			require.NoError(t, err)

			edit, err := p.SetPackageManager("pdm>=2")
			require.NoError(t, err)
			assert.Equal(t, tc.want, edit.After)
			assert.True(t, edit.Changed())
			require.NoError(t, edit.Apply())

			reloaded, err := Load(dir)
			require.NoError(t, err)
			assert.Equal(t, "pdm>=2", reloaded.PackageManager())
		})
	}
}

func TestSetPackageManagerFallsBackToTree(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, FileName, "tool = { onepm = { package-manager = \"poetry\" } }\n\n[project]\nname = \"demo\"\n")
	p, err := Load(dir)
	require.NoError(t, err)

	edit, err := p.SetPackageManager("uv==0.4.0")
	require.NoError(t, err)
	require.NoError(t, edit.Apply())

	reloaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "uv==0.4.0", reloaded.PackageManager())
	assert.True(t, reloaded.HasProjectTable())
}

func TestEditDiffAndNoop(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, FileName, "[tool.onepm]\npackage-manager = \"pdm\"\n")
	p, err := Load(dir)
	require.NoError(t, err)

	edit, err := p.SetPackageManager("poetry")
	require.NoError(t, err)
	diff := edit.Diff()
	assert.Contains(t, diff, "-package-manager = \"pdm\"")
	assert.Contains(t, diff, "+package-manager = \"poetry\"")

	same, err := p.SetPackageManager("pdm")
	require.NoError(t, err)
	assert.False(t, same.Changed())
	assert.Empty(t, same.Diff())

	orig := osWriteFile
	osWriteFile = func(string, []byte, os.FileMode) error { t.Fatal("no write expected"); return nil }
	t.Cleanup(func() { osWriteFile = orig })
	require.NoError(t, same.Apply())
}

func TestEditApplyWriteError(t *testing.T) {
	orig := osWriteFile
	osWriteFile = func(string, []byte, os.FileMode) error { return errors.New("read-only") }
	t.Cleanup(func() { osWriteFile = orig })

	edit := Edit{Path: "/x/pyproject.toml", Before: "", After: "a"}
	err := edit.Apply()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "read-only"))
}
