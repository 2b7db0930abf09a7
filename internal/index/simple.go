package index

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/onepm-dev/onepm/internal/messages"
	"github.com/onepm-dev/onepm/internal/pep440"
)

// simpleProject is the PEP 691 JSON project page.
type simpleProject struct {
	Name  string       `json:"name"`
	Files []simpleFile `json:"files"`
}

type simpleFile struct {
	Filename       string            `json:"filename"`
	URL            string            `json:"url"`
	Hashes         map[string]string `json:"hashes"`
	RequiresPython string            `json:"requires-python"`
	Yanked         yankedFlag        `json:"yanked"`
}

// yankedFlag decodes the "yanked" key, which is either a bool or a reason.
type yankedFlag bool

func (y *yankedFlag) UnmarshalJSON(data []byte) error {
	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		*y = yankedFlag(flag)
		return nil
	}
	var reason string
	if err := json.Unmarshal(data, &reason); err != nil {
		return err
	}
	*y = true
	return nil
}

// simpleReleases reads the project page of a simple repository and groups
// its files by the version encoded in each filename.
func (c *Client) simpleReleases(ctx context.Context, logger *zerolog.Logger, canonical string) (map[string][]File, error) {
	endpoint := c.BaseURL + "/" + url.PathEscape(canonical) + "/"
	logger.Debug().Str("url", endpoint).Msg("fetching simple project page")

	var project simpleProject
	err := c.get(ctx, endpoint, acceptSimpleJSON, func(body io.Reader) error {
		if err := json.NewDecoder(body).Decode(&project); err != nil {
			return fmt.Errorf(messages.IndexDecodeFailedFmt, endpoint, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf(messages.IndexFetchFailedFmt, endpoint, err)
	}
	byVersion := make(map[string][]File)
	for _, f := range project.Files {
		version, packageType, ok := splitFilename(canonical, f.Filename)
		if !ok {
			logger.Debug().Str("file", f.Filename).Msg("skipping unrecognized file")
			continue
		}
		href, err := base.Parse(f.URL)
		if err != nil {
			logger.Debug().Str("file", f.Filename).Err(err).Msg("skipping file with invalid url")
			continue
		}
		byVersion[version] = append(byVersion[version], File{
			Filename:       f.Filename,
			URL:            href.String(),
			PackageType:    packageType,
			Digests:        f.Hashes,
			Yanked:         bool(f.Yanked),
			RequiresPython: f.RequiresPython,
		})
	}
	return byVersion, nil
}

var sdistSuffixes = []string{".tar.gz", ".zip", ".tar.bz2", ".tgz"}

// splitFilename extracts the version and package type from a distribution
// filename: "name-ver(-build)?-py-abi-plat.whl" or "name-ver.tar.gz".
func splitFilename(canonical string, filename string) (string, string, bool) {
	if stem, ok := strings.CutSuffix(filename, ".whl"); ok {
		parts := strings.Split(stem, "-")
		if len(parts) < 5 || pep440.CanonicalName(parts[0]) != canonical {
			return "", "", false
		}
		return parts[1], "bdist_wheel", true
	}
	for _, suffix := range sdistSuffixes {
		stem, ok := strings.CutSuffix(strings.ToLower(filename), suffix)
		if !ok {
			continue
		}
		i := strings.LastIndex(stem, "-")
		if i <= 0 || pep440.CanonicalName(stem[:i]) != canonical {
			return "", "", false
		}
		return stem[i+1:], "sdist", true
	}
	return "", "", false
}
