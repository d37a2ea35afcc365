package palette

import (
	"errors"
	"fmt"
)

// ErrSizeTooLarge is returned when a palette size above MaxSize is requested
// under OversizeReject.
var ErrSizeTooLarge = errors.New("palette size too large")

// AnalysisError reports that an image could not be read, decoded or
// converted for analysis. It is fatal for the generator: no palette can be
// produced until a valid image is supplied.
type AnalysisError struct {
	Path string
	Err  error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("failed to analyze image %s: %v", e.Path, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// ExportError reports a failed palette export. The caller may retry with a
// different path.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to export palette to %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
