package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/types"
)

func sampleDocument() types.ResumeDocument {
	doc := types.DefaultDocument()
	doc.FullName = "Jean Dupont"
	doc.Email = "jean@example.com"
	doc.Summary = "Ingénieur logiciel"
	doc.Experience = []types.ExperienceEntry{
		{ID: "exp-1", Company: "Acme", Role: "Développeur", StartDate: "2020", EndDate: "2023", Description: "Backend Go"},
	}
	doc.Education = []types.EducationEntry{
		{ID: "edu-1", School: "Université de Brazzaville", Degree: "Licence Informatique", Year: "2019"},
	}
	doc.Skills = []string{"Go", "PostgreSQL"}
	return doc
}

func TestRender_EveryTemplateKeepsStableRoot(t *testing.T) {
	doc := sampleDocument()

	for _, tmpl := range []types.Template{
		types.TemplateModern,
		types.TemplateClassic,
		types.TemplateCreative,
		types.TemplateMinimal,
		types.TemplateElegant,
	} {
		html, err := Render(doc, tmpl)
		require.NoError(t, err, "template %s", tmpl)
		assert.Contains(t, html, `id="resume-preview"`, "template %s", tmpl)
	}
}

func TestRender_AppliesThemeAndContent(t *testing.T) {
	doc := sampleDocument()
	doc.ThemeColor = "#0d9488"
	doc.FontFamily = "Georgia, serif"

	html, err := Render(doc, types.TemplateModern)
	require.NoError(t, err)

	assert.Contains(t, html, "#0d9488")
	assert.Contains(t, html, "Georgia, serif")
	assert.Contains(t, html, "Jean Dupont")
	assert.Contains(t, html, "Développeur")
	assert.Contains(t, html, "Licence Informatique")
	assert.Contains(t, html, "<li>Go</li>")
}

func TestRender_EscapesUserContent(t *testing.T) {
	doc := sampleDocument()
	doc.Summary = "<script>alert(1)</script>"

	html, err := Render(doc, types.TemplateClassic)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestRender_FontStackSurvivesEscaping(t *testing.T) {
	doc := sampleDocument()
	doc.FontFamily = "Inter, sans-serif"

	html, err := Render(doc, types.TemplateModern)
	require.NoError(t, err)
	assert.Contains(t, html, "font-family: Inter, sans-serif")
	assert.NotContains(t, html, "ZgotmplZ")
}

func TestRender_PhotoDataURI(t *testing.T) {
	doc := sampleDocument()
	doc.PhotoURL = "data:image/png;base64,iVBORw0KGgo="

	html, err := Render(doc, types.TemplateModern)
	require.NoError(t, err)
	assert.Contains(t, html, `src="data:image/png;base64,iVBORw0KGgo="`)

	// Anything that is not an uploaded image data URI is dropped.
	doc.PhotoURL = "javascript:alert(1)"
	html, err = Render(doc, types.TemplateModern)
	require.NoError(t, err)
	assert.NotContains(t, html, "javascript")
}

func TestRender_UnknownTemplateFallsBack(t *testing.T) {
	html, err := Render(sampleDocument(), types.Template("sparkle"))
	require.NoError(t, err)
	assert.Contains(t, html, `data-template="modern"`)
}

func TestPage_WrapsBody(t *testing.T) {
	page := Page("<div>x</div>")
	assert.Contains(t, page, "<!DOCTYPE html>")
	assert.Contains(t, page, "<div>x</div>")
}
