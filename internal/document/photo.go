package document

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// ErrUnsupportedMedia reports that an uploaded file is not image data.
type ErrUnsupportedMedia struct {
	ContentType string
}

func (e *ErrUnsupportedMedia) Error() string {
	return fmt.Sprintf("unsupported media type: %s", e.ContentType)
}

// SetPhotoFromUpload encodes uploaded image bytes as a data URI and sets the
// document photo. Non-image input fails with ErrUnsupportedMedia and leaves
// the document unchanged.
func SetPhotoFromUpload(doc types.ResumeDocument, imageBytes []byte) (types.ResumeDocument, error) {
	contentType := http.DetectContentType(imageBytes)
	if !strings.HasPrefix(contentType, "image/") {
		return doc, &ErrUnsupportedMedia{ContentType: contentType}
	}

	out := doc.Clone()
	out.PhotoURL = fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(imageBytes))
	return out, nil
}

// ClearPhoto removes the document photo.
func ClearPhoto(doc types.ResumeDocument) types.ResumeDocument {
	out := doc.Clone()
	out.PhotoURL = ""
	return out
}
