package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/render"
	"github.com/jonathan/resume-builder/internal/types"
)

func renderedPage(t *testing.T, doc types.ResumeDocument) string {
	t.Helper()
	body, err := render.Render(doc, types.TemplateModern)
	require.NoError(t, err)
	return render.Page(body)
}

func TestWord_WrapsPreviewInOfficeEnvelope(t *testing.T) {
	doc := types.DefaultDocument()
	doc.FullName = "Jean Dupont"
	doc.Summary = "Développeur passionné"

	artifact, err := Word(renderedPage(t, doc), doc.FullName)
	require.NoError(t, err)

	content := string(artifact.Data)
	assert.True(t, strings.HasPrefix(content, "<html xmlns:o='urn:schemas-microsoft-com:office:office'"))
	assert.True(t, strings.HasSuffix(content, "</body></html>"))
	assert.Contains(t, content, "urn:schemas-microsoft-com:office:word")
	assert.Contains(t, content, "Développeur passionné")
	assert.Equal(t, WordContentType, artifact.ContentType)
}

func TestWord_FailsWithoutPreviewElement(t *testing.T) {
	_, err := Word("<html><body><p>nothing here</p></body></html>", "Jean")
	require.Error(t, err)

	var exportErr *ExportError
	assert.ErrorAs(t, err, &exportErr)
}

func TestDocumentFilename(t *testing.T) {
	assert.Equal(t, "Jean_Dupont.doc", DocumentFilename("Jean Dupont", ".doc"))
	assert.Equal(t, "Jean_Marc_Dupont.pdf", DocumentFilename("  Jean  Marc\tDupont ", ".pdf"))
	assert.Equal(t, "CV.doc", DocumentFilename("", ".doc"))
	assert.Equal(t, "CV.doc", DocumentFilename("   ", ".doc"))
}
