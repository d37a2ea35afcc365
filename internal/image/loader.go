// Package image provides utilities for loading images to analyse.
package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/cyberofficial/pyaint/internal/compression"
	"github.com/cyberofficial/pyaint/internal/util/imagecache"
	httputil "github.com/cyberofficial/pyaint/internal/util/http"
)

// Loader handles loading images from various sources.
type Loader interface {
	// Load loads an image from the given path.
	Load(path string) (image.Image, error)
}

// FileLoader loads images from the local filesystem.
// Images wrapped in .xz, .gz or .bz2 are decompressed transparently.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load loads an image from a file path.
func (l *FileLoader) Load(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	return decode(file, path)
}

// decode decodes an image from r, unwrapping a compression layer implied
// by name first.
func decode(r io.Reader, name string) (image.Image, error) {
	r, err := compression.NewReader(r, compression.DetectFormat(name))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress image: %w", err)
	}

	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}
	return img, nil
}

// ValidateImagePath checks that path is an existing file in a supported
// format, or an HTTP(S) URL. Only the image header is decoded.
func ValidateImagePath(path string) error {
	if path == "" {
		return fmt.Errorf("image path cannot be empty")
	}

	if isURL(path) {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("image file not found: %s", path)
		}
		return fmt.Errorf("failed to access image path: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	r, err := compression.NewReader(file, compression.DetectFormat(path))
	if err != nil {
		return fmt.Errorf("failed to decompress image: %w", err)
	}
	if _, _, err := image.DecodeConfig(r); err != nil {
		return fmt.Errorf("unsupported or invalid image format: %w", err)
	}

	return nil
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff"}
}

// IsImageFile checks if a file has a supported image extension, looking
// through a compression extension.
func IsImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(compression.StripExtension(path)))
	return slices.Contains(SupportedImageExtensions(), ext)
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// SmartLoader loads images from both local files and HTTP(S) URLs.
type SmartLoader struct {
	fileLoader *FileLoader
	ctx        context.Context
	cache      *imagecache.Options
}

// NewSmartLoader creates a new SmartLoader. ctx bounds remote fetches.
func NewSmartLoader(ctx context.Context) *SmartLoader {
	if ctx == nil {
		ctx = context.Background()
	}
	return &SmartLoader{
		fileLoader: NewFileLoader(),
		ctx:        ctx,
	}
}

// WithCache keeps downloaded images on disk and reuses them on later loads.
func (l *SmartLoader) WithCache(opts imagecache.Options) *SmartLoader {
	l.cache = &opts
	return l
}

// Load loads an image from either a local file path or HTTP(S) URL.
func (l *SmartLoader) Load(path string) (image.Image, error) {
	if isURL(path) {
		return l.loadFromURL(path)
	}
	return l.fileLoader.Load(path)
}

// loadFromURL fetches and decodes an image from an HTTP(S) URL.
func (l *SmartLoader) loadFromURL(url string) (image.Image, error) {
	if l.cache != nil {
		path, err := imagecache.Download(l.ctx, url, *l.cache)
		if err != nil {
			return nil, err
		}
		return l.fileLoader.Load(path)
	}

	data, err := httputil.Fetch(l.ctx, url, httputil.FetchOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}

	name := url
	if idx := strings.IndexAny(name, "?#"); idx != -1 {
		name = name[:idx]
	}
	return decode(bytes.NewReader(data), name)
}
