package palette

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/cyberofficial/pyaint/internal/colour"
)

// CSSHeader is the comment written at the top of every exported palette.
const CSSHeader = "/* Generated with Pyaint Palette Export */"

var cssRule = regexp.MustCompile(`rgb\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*\)`)

// WriteCSS writes colours as one ".{index} { color: rgb(r, g, b); }" rule
// per line after CSSHeader.
func WriteCSS(w io.Writer, colours []colour.RGB) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, CSSHeader); err != nil {
		return err
	}
	for i, c := range colours {
		if _, err := fmt.Fprintf(bw, ".%d { color: %s; }\n", i, c.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ExportCSS writes colours to path in the WriteCSS format. Failures are
// returned as *ExportError and are not retried.
func ExportCSS(path string, colours []colour.RGB) error {
	f, err := os.Create(path) // #nosec G304 - User-specified export path
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}

	writeErr := WriteCSS(f, colours)
	closeErr := f.Close()
	if writeErr != nil {
		return &ExportError{Path: path, Err: writeErr}
	}
	if closeErr != nil {
		return &ExportError{Path: path, Err: closeErr}
	}
	return nil
}

// ParseCSS reads back the colours of a palette written by WriteCSS, in file
// order. Lines without an rgb() value are skipped.
func ParseCSS(r io.Reader) ([]colour.RGB, error) {
	var colours []colour.RGB

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		m := cssRule.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}

		var ch [3]uint8
		for i := range ch {
			v, err := strconv.ParseUint(m[i+1], 10, 8)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid channel %q: %w", line, m[i+1], err)
			}
			ch[i] = uint8(v)
		}
		colours = append(colours, colour.RGB{R: ch[0], G: ch[1], B: ch[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read palette: %w", err)
	}

	return colours, nil
}
