// Package compression unwraps single-file compressed images (.xz, .gz, .bz2)
// so they can be decoded like plain image files.
package compression

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/cyberofficial/pyaint/internal/security"
)

// MaxDecompressedSize bounds how many bytes a compressed image may expand to.
const MaxDecompressedSize = 256 * 1024 * 1024

// Format identifies a supported compression wrapper.
type Format string

const (
	FormatNone  Format = ""
	FormatXz    Format = "xz"
	FormatGzip  Format = "gzip"
	FormatBzip2 Format = "bzip2"
)

// DetectFormat returns the compression format implied by name's extension.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xz":
		return FormatXz
	case ".gz":
		return FormatGzip
	case ".bz2":
		return FormatBzip2
	default:
		return FormatNone
	}
}

// StripExtension removes a compression extension from name, so that
// "photo.png.xz" becomes "photo.png". Other names are returned unchanged.
func StripExtension(name string) string {
	if DetectFormat(name) == FormatNone {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// NewReader wraps r with a decompressor for format. The returned reader
// fails once more than MaxDecompressedSize bytes have been produced.
// FormatNone returns r unchanged.
func NewReader(r io.Reader, format Format) (io.Reader, error) {
	var dr io.Reader
	switch format {
	case FormatNone:
		return r, nil
	case FormatXz:
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		dr = xzr
	case FormatGzip:
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		dr = gzr
	case FormatBzip2:
		dr = bzip2.NewReader(r)
	default:
		return nil, fmt.Errorf("unsupported compression format: %s", format)
	}

	return security.NewLimitedReader(dr, MaxDecompressedSize), nil
}
