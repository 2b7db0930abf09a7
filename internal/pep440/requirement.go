package pep440

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/onepm-dev/onepm/internal/messages"
)

var (
	requirementPattern = regexp.MustCompile(`^\s*([A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?)\s*(?:\[([^\]]*)\])?\s*(.*?)\s*$`)
	separatorRun       = regexp.MustCompile(`[-_.]+`)
)

// Requirement is a package name with an optional version specifier.
// Extras and environment markers are kept for display but never evaluated.
type Requirement struct {
	Name      string
	Extras    []string
	Specifier *Specifier
	Marker    string
}

// CanonicalName normalizes a project name per PEP 503.
func CanonicalName(name string) string {
	return separatorRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// ParseRequirement parses strings such as "pdm>=2.0,<3", "poetry[plugin]==1.8"
// or "uv; python_version >= '3.8'".
func ParseRequirement(raw string) (Requirement, error) {
	text := raw
	marker := ""
	if idx := strings.Index(text, ";"); idx >= 0 {
		marker = strings.TrimSpace(text[idx+1:])
		text = text[:idx]
	}
	if strings.TrimSpace(text) == "" {
		return Requirement{}, fmt.Errorf(messages.Pep440EmptyRequirement)
	}
	m := requirementPattern.FindStringSubmatch(text)
	if m == nil {
		return Requirement{}, fmt.Errorf(messages.Pep440InvalidRequirementFmt, raw, "invalid project name")
	}

	req := Requirement{Name: CanonicalName(m[1]), Marker: marker}
	if m[2] != "" {
		for _, extra := range strings.Split(m[2], ",") {
			if extra = strings.TrimSpace(extra); extra != "" {
				req.Extras = append(req.Extras, CanonicalName(extra))
			}
		}
	}

	specText := strings.TrimSpace(m[3])
	if strings.HasPrefix(specText, "(") && strings.HasSuffix(specText, ")") {
		specText = strings.TrimSpace(specText[1 : len(specText)-1])
	}
	if strings.HasPrefix(specText, "@") {
		return Requirement{}, fmt.Errorf(messages.Pep440InvalidRequirementFmt, raw, "direct references are not supported")
	}
	spec, err := ParseSpecifier(specText)
	if err != nil {
		return Requirement{}, fmt.Errorf(messages.Pep440InvalidRequirementFmt, raw, err.Error())
	}
	req.Specifier = spec
	return req, nil
}

// NewRequirement builds an unconstrained requirement for name.
func NewRequirement(name string) Requirement {
	return Requirement{Name: CanonicalName(name), Specifier: &Specifier{}}
}

// Pinned returns a requirement for exactly version v.
func Pinned(name string, v *Version) Requirement {
	spec, err := ParseSpecifier("==" + v.String())
	if err != nil {
		spec = &Specifier{}
	}
	return Requirement{Name: CanonicalName(name), Specifier: spec}
}

// Contains reports whether v satisfies the requirement's specifier.
func (r Requirement) Contains(v *Version) bool {
	return r.Specifier.Check(v)
}

// Constrained reports whether the requirement carries any version clause.
func (r Requirement) Constrained() bool {
	return !r.Specifier.Empty()
}

func (r Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if len(r.Extras) > 0 {
		b.WriteString("[" + strings.Join(r.Extras, ",") + "]")
	}
	b.WriteString(r.Specifier.String())
	if r.Marker != "" {
		b.WriteString("; " + r.Marker)
	}
	return b.String()
}
