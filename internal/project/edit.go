package project

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	// tomlv1 provides a mutable tree for edits the line editor cannot place.
	tomlv1 "github.com/pelletier/go-toml"

	"github.com/onepm-dev/onepm/internal/messages"
)

var osWriteFile = os.WriteFile

var (
	onepmHeaderPattern = regexp.MustCompile(`^\s*\[\s*tool\s*\.\s*(?:onepm|"onepm")\s*\]\s*(?:#.*)?$`)
	tableHeaderPattern = regexp.MustCompile(`^\s*\[`)
	pmKeyPattern       = regexp.MustCompile(`^(\s*)(?:package-manager|"package-manager")\s*=`)
)

var packageManagerPath = []string{"tool", "onepm", "package-manager"}

// Edit is a pending change to pyproject.toml.
type Edit struct {
	Path   string
	Before string
	After  string
}

// Changed reports whether the edit alters the file.
func (e Edit) Changed() bool {
	return e.Before != e.After
}

// Diff renders the edit as a unified diff.
func (e Edit) Diff() string {
	return udiff.Unified(e.Path, e.Path, e.Before, e.After)
}

// Apply writes the edited content.
func (e Edit) Apply() error {
	if !e.Changed() {
		return nil
	}
	if err := osWriteFile(e.Path, []byte(e.After), 0o644); err != nil {
		return fmt.Errorf(messages.ProjectWriteFailedFmt, e.Path, err)
	}
	return nil
}

// SetPackageManager prepares an edit storing spec as tool.onepm.package-manager.
// Formatting and comments are kept; files that define the key in a form the
// line editor does not recognize are re-encoded instead.
func (p *Project) SetPackageManager(spec string) (Edit, error) {
	before := string(p.raw)
	if after, ok := p.setPackageManagerLines(before, spec); ok && verifyPackageManager(after, spec) == nil {
		return Edit{Path: p.Path, Before: before, After: after}, nil
	}

	tree, err := tomlv1.LoadBytes(p.raw)
	if err != nil {
		return Edit{}, fmt.Errorf(messages.ProjectInvalidTomlFmt, p.Path, err)
	}
	tree.SetPath(packageManagerPath, spec)
	after, err := tree.ToTomlString()
	if err != nil {
		return Edit{}, fmt.Errorf(messages.ProjectInvalidTomlFmt, p.Path, err)
	}
	if err := verifyPackageManager(after, spec); err != nil {
		return Edit{}, err
	}
	return Edit{Path: p.Path, Before: before, After: after}, nil
}

// setPackageManagerLines edits the [tool.onepm] table in place. It reports
// false when the table is defined some other way, such as an inline table.
func (p *Project) setPackageManagerLines(content string, spec string) (string, bool) {
	line := "package-manager = " + strconv.Quote(spec)
	if strings.TrimSpace(content) == "" {
		return "[tool.onepm]\n" + line + "\n", true
	}
	lines := strings.Split(content, "\n")
	header := -1
	for i, l := range lines {
		if onepmHeaderPattern.MatchString(l) {
			header = i
			break
		}
	}
	if header < 0 {
		if p.HasTool("onepm") {
			return "", false
		}
		out := strings.TrimRight(content, "\n")
		return out + "\n\n[tool.onepm]\n" + line + "\n", true
	}

	end := len(lines)
	for i := header + 1; i < len(lines); i++ {
		if tableHeaderPattern.MatchString(lines[i]) {
			end = i
			break
		}
	}
	for i := header + 1; i < end; i++ {
		if m := pmKeyPattern.FindStringSubmatch(lines[i]); m != nil {
			lines[i] = m[1] + line
			return strings.Join(lines, "\n"), true
		}
	}
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:header+1]...)
	out = append(out, line)
	out = append(out, lines[header+1:]...)
	return strings.Join(out, "\n"), true
}

func verifyPackageManager(content string, spec string) error {
	tree, err := tomlv1.Load(content)
	if err != nil {
		return err
	}
	if value, _ := tree.GetPath(packageManagerPath).(string); value != spec {
		return errors.New(messages.ProjectPatchVerifyFailed)
	}
	return nil
}
