// Package export turns rendered resume markup into downloadable artifacts.
// Two dispatchers exist: a Word exporter that wraps the preview markup in
// an MS Office HTML envelope, and a PDF exporter that drives a headless
// browser print.
package export

import "fmt"

// ExportError represents a failure while producing an export artifact.
type ExportError struct {
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("export error: %s", e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// Artifact is a produced export document ready to serve as a download.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}
