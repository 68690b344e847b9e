package export

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/resume-builder/internal/render"
)

// WordContentType is the MIME type Word associates with .doc downloads.
const WordContentType = "application/vnd.ms-word"

// Office HTML envelope. Word opens a plain HTML file carrying the Office
// XML namespaces as an editable document, which is how the .doc export
// works without a real OOXML writer.
const (
	wordHeader = "<html xmlns:o='urn:schemas-microsoft-com:office:office' " +
		"xmlns:w='urn:schemas-microsoft-com:office:word' " +
		"xmlns='http://www.w3.org/TR/REC-html40'>" +
		"<head><meta charset='utf-8'><title>Resume</title></head><body>"
	wordFooter = "</body></html>"
)

// Word extracts the preview element from the rendered page and wraps its
// contents in the Office envelope.
func Word(renderedHTML, fullName string) (*Artifact, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(renderedHTML))
	if err != nil {
		return nil, &ExportError{Message: "failed to parse rendered markup", Cause: err}
	}

	preview := doc.Find("#" + render.RootID)
	if preview.Length() == 0 {
		return nil, &ExportError{Message: "rendered markup has no preview element"}
	}

	inner, err := preview.Html()
	if err != nil {
		return nil, &ExportError{Message: "failed to serialize preview element", Cause: err}
	}

	return &Artifact{
		Filename:    DocumentFilename(fullName, ".doc"),
		ContentType: WordContentType,
		Data:        []byte(wordHeader + inner + wordFooter),
	}, nil
}

// DocumentFilename derives a download filename from the resume owner's
// name: whitespace runs become underscores, and an empty name falls back
// to "CV".
func DocumentFilename(fullName, ext string) string {
	base := strings.Join(strings.Fields(fullName), "_")
	if base == "" {
		base = "CV"
	}
	return base + ext
}
