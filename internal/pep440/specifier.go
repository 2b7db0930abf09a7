package pep440

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/onepm-dev/onepm/internal/messages"
)

var clausePattern = regexp.MustCompile(`^\s*(~=|===|==|!=|<=|>=|<|>)\s*([^\s,;]+)\s*$`)

// Clause is a single comparison such as ">=2.0" or "==1.4.*".
type Clause struct {
	Op       string
	Version  string
	Wildcard bool

	parsed *Version
	// prefix holds the release segments matched by "==X.*", "!=X.*" and
	// the upper half of "~=".
	prefix []uint64
}

// Specifier is a comma separated set of clauses that must all hold.
type Specifier struct {
	clauses  []Clause
	allowPre bool
}

// ParseSpecifier parses a PEP 440 specifier set such as ">=1.0,<2".
// An empty string yields a specifier that accepts every final release.
func ParseSpecifier(raw string) (*Specifier, error) {
	spec := &Specifier{}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return spec, nil
	}

	for _, part := range strings.Split(trimmed, ",") {
		clause, err := parseClause(part)
		if err != nil {
			return nil, fmt.Errorf(messages.Pep440InvalidSpecifierFmt, raw, err.Error())
		}
		if clause.Op != "!=" && clause.parsed != nil && clause.parsed.IsPrerelease() {
			spec.allowPre = true
		}
		spec.clauses = append(spec.clauses, clause)
	}
	return spec, nil
}

func parseClause(raw string) (Clause, error) {
	m := clausePattern.FindStringSubmatch(raw)
	if m == nil {
		return Clause{}, fmt.Errorf(messages.Pep440MalformedClauseFmt, strings.TrimSpace(raw))
	}
	clause := Clause{Op: m[1], Version: m[2]}

	if clause.Op == "===" {
		return clause, nil
	}

	text := clause.Version
	if strings.HasSuffix(text, ".*") {
		if clause.Op != "==" && clause.Op != "!=" {
			return Clause{}, fmt.Errorf(messages.Pep440WildcardOperatorFmt, clause.Op)
		}
		clause.Wildcard = true
		text = strings.TrimSuffix(text, ".*")
	}

	v, err := ParseVersion(text)
	if err != nil {
		return Clause{}, err
	}
	clause.parsed = v

	switch {
	case clause.Wildcard:
		if v.pre != "" || v.post >= 0 || v.dev >= 0 || v.local != "" {
			return Clause{}, fmt.Errorf(messages.Pep440WildcardPrefixFmt, text)
		}
		clause.prefix = v.Release()
	case clause.Op == "~=":
		if len(v.release) < 2 {
			return Clause{}, fmt.Errorf(messages.Pep440CompatibleSegmentsFmt, clause.Version)
		}
		clause.prefix = v.Release()[:len(v.release)-1]
	}
	return clause, nil
}

// Empty reports whether the specifier has no clauses.
func (s *Specifier) Empty() bool {
	return s == nil || len(s.clauses) == 0
}

// Clauses returns a copy of the parsed clauses.
func (s *Specifier) Clauses() []Clause {
	if s == nil {
		return nil
	}
	return append([]Clause(nil), s.clauses...)
}

// Check reports whether v satisfies every clause. Pre-releases are accepted
// only when a clause other than "!=" names a pre-release itself.
func (s *Specifier) Check(v *Version) bool {
	if v == nil {
		return false
	}
	if s.Empty() {
		return !v.IsPrerelease()
	}
	if v.IsPrerelease() && !s.allowPre {
		return false
	}
	return s.Matches(v)
}

// Matches reports whether v satisfies every clause without the pre-release
// admission rule of Check. Interpreter versions are matched this way.
func (s *Specifier) Matches(v *Version) bool {
	if v == nil {
		return false
	}
	for _, c := range s.Clauses() {
		if !c.contains(v) {
			return false
		}
	}
	return true
}

func (c Clause) contains(v *Version) bool {
	spec := c.parsed
	switch c.Op {
	case "===":
		return strings.EqualFold(strings.TrimSpace(c.Version), v.String())
	case "==":
		return c.matches(v)
	case "!=":
		return !c.matches(v)
	case "<=":
		return v.Compare(spec) <= 0
	case ">=":
		return v.Compare(spec) >= 0
	case "~=":
		return v.Compare(spec) >= 0 && v.hasPrefix(spec.epoch, c.prefix)
	case "<":
		if v.Compare(spec) >= 0 {
			return false
		}
		// <V never admits a pre-release of V itself unless V is one.
		return spec.IsPrerelease() || !v.IsPrerelease() || !v.sameBase(spec)
	case ">":
		if v.Compare(spec) <= 0 {
			return false
		}
		// >V never admits a post release of V itself unless V is one.
		return spec.IsPostrelease() || !v.IsPostrelease() || !v.sameBase(spec)
	}
	return false
}

// matches implements "==": a release prefix for wildcards, otherwise public
// version equality plus the local label when the clause names one.
func (c Clause) matches(v *Version) bool {
	if c.Wildcard {
		return v.hasPrefix(c.parsed.epoch, c.prefix)
	}
	if v.Compare(c.parsed) != 0 {
		return false
	}
	return c.parsed.local == "" || c.parsed.local == v.local
}

// String renders the clauses joined by commas.
func (s *Specifier) String() string {
	if s.Empty() {
		return ""
	}
	parts := make([]string, 0, len(s.clauses))
	for _, c := range s.clauses {
		parts = append(parts, c.Op+c.Version)
	}
	return strings.Join(parts, ",")
}
