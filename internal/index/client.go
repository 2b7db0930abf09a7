// Package index talks to a Python package index through the PyPI JSON API or
// the JSON form of the simple repository API.
package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/onepm-dev/onepm/internal/messages"
	"github.com/onepm-dev/onepm/internal/pep440"
)

// DefaultURL is the PyPI JSON API root.
const DefaultURL = "https://pypi.org/pypi"

const (
	acceptJSON       = "application/json"
	acceptSimpleJSON = "application/vnd.pypi.simple.v1+json"
	acceptAny        = "*/*"
)

const (
	defaultMaxDownloadBytes = int64(100 * 1024 * 1024) // 100 MiB
	requestRetryCount       = 1
	requestRetryBackoff     = 250 * time.Millisecond
)

// SimpleURL returns the simple-repository root that pip expects for a JSON
// API root such as https://pypi.org/pypi. Other URLs, simple roots included,
// are returned unchanged.
func SimpleURL(jsonURL string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(jsonURL), "/")
	if strings.HasSuffix(trimmed, "/pypi") {
		return strings.TrimSuffix(trimmed, "/pypi") + "/simple"
	}
	return trimmed
}

// ResolutionError reports that no release satisfies a requirement.
type ResolutionError struct {
	Requirement string
	Err         error
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf(messages.IndexNoMatchFmt, e.Requirement)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// File is one distribution file of a release.
type File struct {
	Filename       string            `json:"filename"`
	URL            string            `json:"url"`
	PackageType    string            `json:"packagetype"`
	Digests        map[string]string `json:"digests"`
	Yanked         bool              `json:"yanked"`
	RequiresPython string            `json:"requires_python"`
}

// SHA256 returns the hex sha256 digest published for the file.
func (f File) SHA256() string {
	return f.Digests["sha256"]
}

// Release is a published version of a project.
type Release struct {
	Name    string
	Version *pep440.Version
	Files   []File
}

// Wheel returns the pure-Python wheel of the release, if any.
func (r Release) Wheel() (File, bool) {
	var fallback *File
	for i, f := range r.Files {
		if f.PackageType != "bdist_wheel" || !strings.HasSuffix(f.Filename, ".whl") {
			continue
		}
		if strings.HasSuffix(f.Filename, "-none-any.whl") {
			return f, true
		}
		if fallback == nil {
			fallback = &r.Files[i]
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return File{}, false
}

type projectResponse struct {
	Info struct {
		Name string `json:"name"`
	} `json:"info"`
	Releases map[string][]File `json:"releases"`
}

// IsSimpleURL reports whether baseURL points at a simple repository root
// such as https://mirror.example.com/simple rather than a JSON API root.
func IsSimpleURL(baseURL string) bool {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return false
	}
	return path.Base(strings.TrimRight(u.Path, "/")) == "simple"
}

// Client queries a package index.
type Client struct {
	BaseURL          string
	HTTPClient       *http.Client
	MaxDownloadBytes int64
	// InterpreterVersion reports the Python version releases must support.
	// When nil, requires_python metadata is not consulted.
	InterpreterVersion func(ctx context.Context) (*pep440.Version, error)

	sleep func(time.Duration)
}

// NewClient returns a Client for baseURL, or DefaultURL when empty.
func NewClient(baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultURL
	}
	return &Client{
		BaseURL:          strings.TrimRight(baseURL, "/"),
		HTTPClient:       &http.Client{Timeout: 30 * time.Second},
		MaxDownloadBytes: defaultMaxDownloadBytes,
		sleep:            time.Sleep,
	}
}

// Releases returns every parseable, non-yanked release of name, newest first.
// Versions that cannot be parsed are skipped.
func (c *Client) Releases(ctx context.Context, name string) ([]Release, error) {
	canonical := pep440.CanonicalName(name)
	logger := zerolog.Ctx(ctx).With().Str("component", "index").Str("project", canonical).Logger()

	var (
		byVersion map[string][]File
		err       error
	)
	if IsSimpleURL(c.BaseURL) {
		byVersion, err = c.simpleReleases(ctx, &logger, canonical)
	} else {
		byVersion, err = c.jsonReleases(ctx, &logger, canonical)
	}
	if errors.Is(err, errNotFound) {
		return nil, &ProjectNotFoundError{Name: canonical, Index: c.BaseURL}
	}
	if err != nil {
		return nil, err
	}

	releases := make([]Release, 0, len(byVersion))
	for raw, files := range byVersion {
		version, err := pep440.ParseVersion(raw)
		if err != nil {
			logger.Debug().Str("version", raw).Err(err).Msg("skipping release")
			continue
		}
		if len(files) == 0 || allYanked(files) {
			continue
		}
		releases = append(releases, Release{Name: canonical, Version: version, Files: files})
	}
	sort.SliceStable(releases, func(i, j int) bool {
		return releases[i].Version.Compare(releases[j].Version) > 0
	})
	return releases, nil
}

func (c *Client) jsonReleases(ctx context.Context, logger *zerolog.Logger, canonical string) (map[string][]File, error) {
	endpoint := c.BaseURL + "/" + url.PathEscape(canonical) + "/json"
	logger.Debug().Str("url", endpoint).Msg("fetching project releases")

	var project projectResponse
	err := c.get(ctx, endpoint, acceptJSON, func(body io.Reader) error {
		if err := json.NewDecoder(body).Decode(&project); err != nil {
			return fmt.Errorf(messages.IndexDecodeFailedFmt, endpoint, err)
		}
		return nil
	})
	return project.Releases, err
}

func allYanked(files []File) bool {
	for _, f := range files {
		if !f.Yanked {
			return false
		}
	}
	return true
}

// FindBest returns the newest release satisfying req whose wheel supports
// the interpreter reported by InterpreterVersion.
func (c *Client) FindBest(ctx context.Context, req pep440.Requirement) (Release, error) {
	releases, err := c.Releases(ctx, req.Name)
	if err != nil {
		var notFound *ProjectNotFoundError
		if errors.As(err, &notFound) {
			return Release{}, &ResolutionError{Requirement: req.String(), Err: err}
		}
		return Release{}, err
	}
	var python *pep440.Version
	if c.InterpreterVersion != nil {
		if python, err = c.InterpreterVersion(ctx); err != nil {
			return Release{}, err
		}
	}
	logger := zerolog.Ctx(ctx).With().Str("component", "index").Logger()
	for _, r := range releases {
		if !req.Contains(r.Version) {
			continue
		}
		if !r.SupportsPython(python) {
			logger.Debug().Str("version", r.Version.String()).Str("python", python.String()).Msg("skipping release for interpreter")
			continue
		}
		return r, nil
	}
	return Release{}, &ResolutionError{Requirement: req.String()}
}

// SupportsPython reports whether the release's wheel accepts python. A nil
// version, a missing wheel and unparsable metadata all count as supported.
func (r Release) SupportsPython(python *pep440.Version) bool {
	if python == nil {
		return true
	}
	wheel, ok := r.Wheel()
	if !ok || strings.TrimSpace(wheel.RequiresPython) == "" {
		return true
	}
	spec, err := pep440.ParseSpecifier(wheel.RequiresPython)
	if err != nil {
		return true
	}
	return spec.Matches(python)
}

var errNotFound = errors.New(messages.IndexNotFound)

// ProjectNotFoundError reports that the index has no project called Name.
type ProjectNotFoundError struct {
	Name  string
	Index string
}

func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf(messages.IndexProjectNotFoundFmt, e.Name, e.Index)
}

// get fetches endpoint and hands the body to consume, retrying once on
// transport errors and 5xx responses.
func (c *Client) get(ctx context.Context, endpoint string, accept string, consume func(io.Reader) error) error {
	for attempt := 0; attempt <= requestRetryCount; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf(messages.IndexCreateRequestFmt, err)
		}
		req.Header.Set("Accept", accept)
		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			if shouldRetry(attempt, err, 0) {
				c.backoff()
				continue
			}
			if isTimeoutError(err) {
				return fmt.Errorf(messages.IndexDownloadTimeoutFmt, endpoint)
			}
			return fmt.Errorf(messages.IndexFetchFailedFmt, endpoint, err)
		}

		if resp.StatusCode == http.StatusNotFound {
			_ = resp.Body.Close()
			return fmt.Errorf(messages.IndexFetchFailedFmt, endpoint, errNotFound)
		}
		if resp.StatusCode != http.StatusOK {
			status := resp.StatusCode
			statusText := resp.Status
			_ = resp.Body.Close()
			if shouldRetry(attempt, nil, status) {
				c.backoff()
				continue
			}
			return fmt.Errorf(messages.IndexUnexpectedStatusFmt, endpoint, statusText)
		}

		err = consume(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			if shouldRetry(attempt, err, 0) {
				c.backoff()
				continue
			}
			return err
		}
		return nil
	}
	return fmt.Errorf(messages.IndexFetchFailedFmt, endpoint, errors.New(messages.IndexRetryBudgetExhausted))
}

func (c *Client) backoff() {
	if c.sleep != nil {
		c.sleep(requestRetryBackoff)
	}
}

// isTimeoutError reports whether err is a network timeout.
func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func shouldRetry(attempt int, err error, statusCode int) bool {
	if attempt >= requestRetryCount {
		return false
	}
	if err != nil {
		var netErr net.Error
		return errors.As(err, &netErr)
	}
	return statusCode >= 500 && statusCode <= 599
}
