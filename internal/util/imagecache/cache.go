// Package imagecache keeps downloaded images on disk so repeated runs
// against the same URL analyse the same bytes without refetching.
package imagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cyberofficial/pyaint/internal/compression"
	httputil "github.com/cyberofficial/pyaint/internal/util/http"
)

// Options configures a cached download.
type Options struct {
	// Dir holds cached images. Empty means DefaultDir.
	Dir string

	// Refresh refetches the URL even when a cached copy exists.
	Refresh bool

	// Fetch overrides the HTTP fetch options.
	Fetch httputil.FetchOptions
}

// DefaultDir returns the per-user cache directory for pyaint images.
func DefaultDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "pyaint", "images"), nil
	}
	return filepath.Join(cacheDir, "pyaint", "images"), nil
}

// cacheName derives a stable file name from rawURL, keeping the image and
// compression extensions so the cached file decodes like the original.
func cacheName(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	name := hex.EncodeToString(sum[:16])

	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}

	ext := ""
	base := path.Base(p)
	if f := compression.DetectFormat(base); f != compression.FormatNone {
		ext = path.Ext(base)
		base = compression.StripExtension(base)
	}
	imgExt := strings.ToLower(path.Ext(base))
	if imgExt == "" || len(imgExt) > 5 {
		return name + ext
	}
	return name + imgExt + ext
}

// Path returns where rawURL is cached under opts, without fetching.
func Path(rawURL string, opts Options) (string, error) {
	dir := opts.Dir
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, cacheName(rawURL)), nil
}

// Download returns the local path of rawURL's cached copy, fetching it first
// when missing or when opts.Refresh is set.
func Download(ctx context.Context, rawURL string, opts Options) (string, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "", fmt.Errorf("invalid URL: must start with http:// or https://")
	}

	cachedPath, err := Path(rawURL, opts)
	if err != nil {
		return "", err
	}

	if !opts.Refresh {
		if _, err := os.Stat(cachedPath); err == nil {
			return cachedPath, nil
		}
	}

	data, err := httputil.Fetch(ctx, rawURL, opts.Fetch)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}

	dir := filepath.Dir(cachedPath)
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Write then rename so a concurrent reader never sees a partial image.
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := os.Rename(tmp.Name(), cachedPath); err != nil {
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}

	return cachedPath, nil
}
