// Package rendering turns model-written Markdown into sanitized HTML and printable PDFs.
package rendering

import "fmt"

// Stage names the step of the Markdown to PDF chain that failed.
type Stage string

const (
	StageMarkdown Stage = "markdown" // goldmark conversion
	StageSanitize Stage = "sanitize" // goquery parse, cleanup and serialization
	StageDocument Stage = "document" // page shell template
	StagePDF      Stage = "pdf"      // headless Chrome printing
)

// RenderError reports a failure while producing HTML or a PDF. Cause is the underlying
// library error.
type RenderError struct {
	Stage  Stage
	Detail string
	Cause  error
}

func (e *RenderError) Error() string {
	msg := fmt.Sprintf("%s rendering failed", e.Stage)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

func renderError(stage Stage, detail string, cause error) error {
	return &RenderError{Stage: stage, Detail: detail, Cause: cause}
}
