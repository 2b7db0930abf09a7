package pep440

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/onepm-dev/onepm/internal/messages"
)

var versionPattern = regexp.MustCompile(`(?i)^\s*v?` +
	`(?:(?P<epoch>[0-9]+)!)?` +
	`(?P<release>[0-9]+(?:\.[0-9]+)*)` +
	`(?:[-_.]?(?P<pre_l>alpha|a|beta|b|preview|pre|c|rc)[-_.]?(?P<pre_n>[0-9]+)?)?` +
	`(?:-(?P<post_n1>[0-9]+)|[-_.]?(?P<post_l>post|rev|r)[-_.]?(?P<post_n2>[0-9]+)?)?` +
	`(?:[-_.]?(?P<dev_l>dev)[-_.]?(?P<dev_n>[0-9]+)?)?` +
	`(?:\+(?P<local>[a-z0-9]+(?:[-_.][a-z0-9]+)*))?\s*$`)

// Version is a parsed PEP 440 version.
type Version struct {
	epoch   uint64
	release []uint64
	pre     string
	preN    uint64
	post    int64
	dev     int64
	local   string

	canonical string
	sv        *semver.Version
}

// ParseVersion parses and normalizes a PEP 440 version string.
func ParseVersion(raw string) (*Version, error) {
	m := versionPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf(messages.Pep440InvalidVersionFmt, raw)
	}
	group := func(name string) string {
		return m[versionPattern.SubexpIndex(name)]
	}

	v := &Version{post: -1, dev: -1}
	if epoch := group("epoch"); epoch != "" {
		n, err := strconv.ParseUint(epoch, 10, 64)
		if err != nil {
			return nil, fmt.Errorf(messages.Pep440InvalidVersionFmt, raw)
		}
		v.epoch = n
	}
	for _, part := range strings.Split(group("release"), ".") {
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf(messages.Pep440InvalidVersionFmt, raw)
		}
		v.release = append(v.release, n)
	}

	if label := group("pre_l"); label != "" {
		v.pre = normalizePreLabel(label)
		v.preN = parseOptionalUint(group("pre_n"))
	}
	if n := group("post_n1"); n != "" {
		v.post = int64(parseOptionalUint(n))
	} else if group("post_l") != "" {
		v.post = int64(parseOptionalUint(group("post_n2")))
	}
	if group("dev_l") != "" {
		v.dev = int64(parseOptionalUint(group("dev_n")))
	}
	if local := group("local"); local != "" {
		v.local = strings.ToLower(strings.NewReplacer("-", ".", "_", ".").Replace(local))
	}

	v.sv = v.toSemver()
	v.canonical = v.format()
	return v, nil
}

// MustParseVersion is like ParseVersion but panics on error.
func MustParseVersion(raw string) *Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func normalizePreLabel(label string) string {
	switch strings.ToLower(label) {
	case "a", "alpha":
		return "a"
	case "b", "beta":
		return "b"
	default:
		return "rc"
	}
}

func parseOptionalUint(s string) uint64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// String returns the canonical form of the version.
func (v *Version) String() string {
	return v.canonical
}

// Epoch returns the version epoch, 0 when none was given.
func (v *Version) Epoch() uint64 {
	return v.epoch
}

// Release returns a copy of the release segments.
func (v *Version) Release() []uint64 {
	return append([]uint64(nil), v.release...)
}

// IsPrerelease reports whether v is a pre-release or development release.
func (v *Version) IsPrerelease() bool {
	return v.pre != "" || v.dev >= 0
}

// IsPostrelease reports whether v carries a post-release segment.
func (v *Version) IsPostrelease() bool {
	return v.post >= 0
}

// Local returns the normalized local label, empty when absent.
func (v *Version) Local() string {
	return v.local
}

// Semver returns the equivalent semantic version, or nil when v has no
// exact semver counterpart (epochs, four or more release segments, post,
// dev and local parts).
func (v *Version) Semver() *semver.Version {
	return v.sv
}

// Equal reports whether both versions have the same canonical form.
func (v *Version) Equal(o *Version) bool {
	return v.Compare(o) == 0 && v.local == o.local
}

// Compare orders versions the way PEP 440 does, ignoring local labels.
// It returns -1, 0 or 1.
func (v *Version) Compare(o *Version) int {
	if v.sv != nil && o.sv != nil {
		return v.sv.Compare(o.sv)
	}
	return v.comparePublic(o)
}

func (v *Version) comparePublic(o *Version) int {
	if c := cmpUint(v.epoch, o.epoch); c != 0 {
		return c
	}
	if c := v.compareRelease(o); c != 0 {
		return c
	}
	if c := cmpUint(v.preRank(), o.preRank()); c != 0 {
		return c
	}
	if v.pre != "" && o.pre != "" {
		if c := cmpUint(v.preN, o.preN); c != 0 {
			return c
		}
	}
	if c := cmpInt(v.post, o.post); c != 0 {
		return c
	}
	return cmpInt(devKey(v.dev), devKey(o.dev))
}

func (v *Version) compareRelease(o *Version) int {
	n := len(v.release)
	if len(o.release) > n {
		n = len(o.release)
	}
	for i := 0; i < n; i++ {
		if c := cmpUint(segment(v.release, i), segment(o.release, i)); c != 0 {
			return c
		}
	}
	return 0
}

// sameBase reports whether both versions share epoch and release segments.
func (v *Version) sameBase(o *Version) bool {
	return v.epoch == o.epoch && v.compareRelease(o) == 0
}

// hasPrefix reports whether the release segments of v start with prefix,
// padding v with zeros.
func (v *Version) hasPrefix(epoch uint64, prefix []uint64) bool {
	if v.epoch != epoch {
		return false
	}
	for i, n := range prefix {
		if segment(v.release, i) != n {
			return false
		}
	}
	return true
}

// preRank places a bare dev release below every pre-release and final
// releases above them.
func (v *Version) preRank() uint64 {
	switch {
	case v.pre == "" && v.post < 0 && v.dev >= 0:
		return 0
	case v.pre == "a":
		return 1
	case v.pre == "b":
		return 2
	case v.pre == "rc":
		return 3
	default:
		return 4
	}
}

func devKey(dev int64) int64 {
	if dev < 0 {
		return int64(^uint64(0) >> 1)
	}
	return dev
}

func segment(release []uint64, i int) uint64 {
	if i < len(release) {
		return release[i]
	}
	return 0
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (v *Version) format() string {
	var b strings.Builder
	if v.epoch != 0 {
		b.WriteString(strconv.FormatUint(v.epoch, 10))
		b.WriteByte('!')
	}
	for i, n := range v.release {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.FormatUint(n, 10))
	}
	if v.pre != "" {
		b.WriteString(v.pre)
		b.WriteString(strconv.FormatUint(v.preN, 10))
	}
	if v.post >= 0 {
		b.WriteString(".post")
		b.WriteString(strconv.FormatInt(v.post, 10))
	}
	if v.dev >= 0 {
		b.WriteString(".dev")
		b.WriteString(strconv.FormatInt(v.dev, 10))
	}
	if v.local != "" {
		b.WriteByte('+')
		b.WriteString(v.local)
	}
	return b.String()
}

// toSemver maps final releases and a/b/rc pre-releases onto semver, where
// "a.N" < "b.N" < "rc.N" < final holds as well. Anything semver cannot
// order the same way yields nil.
func (v *Version) toSemver() *semver.Version {
	if v.epoch != 0 || v.post >= 0 || v.dev >= 0 || v.local != "" {
		return nil
	}
	release := v.release
	for len(release) > 3 && release[len(release)-1] == 0 {
		release = release[:len(release)-1]
	}
	if len(release) > 3 {
		return nil
	}
	pre := ""
	if v.pre != "" {
		pre = v.pre + "." + strconv.FormatUint(v.preN, 10)
	}
	return semver.New(segment(release, 0), segment(release, 1), segment(release, 2), pre, "")
}
