package index

import (
	"context"
	_ "crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/opencontainers/go-digest"
	"github.com/rs/zerolog"

	"github.com/onepm-dev/onepm/internal/messages"
)

var osCreateTemp = os.CreateTemp

// DownloadWheel fetches file, verifies its published sha256 digest and unpacks
// it into destDir. destDir must not exist yet or be empty.
func (c *Client) DownloadWheel(ctx context.Context, file File, destDir string) error {
	logger := zerolog.Ctx(ctx).With().Str("component", "index").Str("file", file.Filename).Logger()

	expected := digest.NewDigestFromEncoded(digest.SHA256, strings.ToLower(file.SHA256()))
	if err := expected.Validate(); err != nil {
		return fmt.Errorf(messages.IndexDigestInvalidFmt, file.SHA256(), file.Filename, err)
	}

	if err := os.MkdirAll(filepath.Dir(destDir), 0o755); err != nil {
		return fmt.Errorf(messages.IndexExtractFileFmt, destDir, err)
	}
	tmp, err := osCreateTemp(filepath.Dir(destDir), ".download-*.whl")
	if err != nil {
		return fmt.Errorf(messages.IndexCreateTempFileFmt, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	logger.Debug().Str("url", file.URL).Msg("downloading wheel")
	if err := c.downloadTo(ctx, file.URL, tmp); err != nil {
		return err
	}
	if err := verifyDigest(tmp, expected); err != nil {
		return fmt.Errorf("%s: %w", file.Filename, err)
	}
	return unpackWheel(tmpName, destDir)
}

func (c *Client) downloadTo(ctx context.Context, rawURL string, dest *os.File) error {
	maxBytes := c.MaxDownloadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxDownloadBytes
	}
	return c.get(ctx, rawURL, acceptAny, func(body io.Reader) error {
		if err := dest.Truncate(0); err != nil {
			return fmt.Errorf(messages.IndexCreateTempFileFmt, err)
		}
		if _, err := dest.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf(messages.IndexCreateTempFileFmt, err)
		}
		n, err := io.Copy(dest, io.LimitReader(body, maxBytes+1))
		if err != nil {
			return err
		}
		if n > maxBytes {
			return fmt.Errorf(messages.IndexDownloadTooLargeFmt, rawURL, n, maxBytes)
		}
		return nil
	})
}

func verifyDigest(file *os.File, expected digest.Digest) error {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	verifier := expected.Verifier()
	if _, err := io.Copy(verifier, file); err != nil {
		return err
	}
	if !verifier.Verified() {
		return fmt.Errorf(messages.IndexDigestMismatchFmt, file.Name(), expected)
	}
	return nil
}

// unpackWheel extracts the wheel archive at path into destDir. Entries escaping
// destDir are rejected.
func unpackWheel(path string, destDir string) error {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf(messages.IndexOpenWheelFmt, path, err)
	}
	defer func() { _ = reader.Close() }()

	root, err := filepath.Abs(destDir)
	if err != nil {
		return fmt.Errorf(messages.IndexExtractFileFmt, destDir, err)
	}
	for _, entry := range reader.File {
		target := filepath.Join(root, filepath.FromSlash(entry.Name))
		if target != root && !strings.HasPrefix(target, root+string(filepath.Separator)) {
			return fmt.Errorf(messages.IndexUnsafeWheelPathFmt, filepath.Base(path), entry.Name)
		}
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf(messages.IndexExtractFileFmt, entry.Name, err)
			}
			continue
		}
		if err := extractFile(entry, target); err != nil {
			return fmt.Errorf(messages.IndexExtractFileFmt, entry.Name, err)
		}
	}
	return nil
}

func extractFile(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	mode := entry.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}
