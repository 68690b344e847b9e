// Package render turns a resume document into the HTML representation the
// export dispatcher reads. Every template shares the stable root element
// id "resume-preview"; visual fidelity beyond structure is out of scope.
package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// RootID is the stable id of the rendered document's root element.
const RootID = "resume-preview"

// RenderError represents a template execution failure.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// templateData is the structure passed to every layout template.
type templateData struct {
	Doc    types.ResumeDocument
	RootID string
	// FontFamily is pre-sanitized: the CSS value filter would reject the
	// comma in font stacks like "Inter, sans-serif".
	FontFamily template.CSS
	// PhotoURL is only ever a data:image URI built by the photo mutator;
	// the URL filter would reject the data: scheme.
	PhotoURL template.URL
}

// photoURL admits only the data:image URIs the upload path produces.
func photoURL(raw string) template.URL {
	if strings.HasPrefix(raw, "data:image/") {
		return template.URL(raw)
	}
	return ""
}

// fontFamilyCSS strips everything but font-stack characters before the
// value is marked safe for the style attribute.
func fontFamilyCSS(fontFamily string) template.CSS {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == ',', r == '-', r == '\'':
			return r
		default:
			return -1
		}
	}, fontFamily)
	return template.CSS(cleaned)
}

const modernLayout = `<div id="{{.RootID}}" data-template="modern" style="font-family: {{.FontFamily}}">
<header style="border-bottom: 4px solid {{.Doc.ThemeColor}}">
{{if .PhotoURL}}<img src="{{.PhotoURL}}" alt="photo" class="photo">{{end}}
<h1 style="color: {{.Doc.ThemeColor}}">{{.Doc.FullName}}</h1>
<p class="contact">{{.Doc.Email}}{{if .Doc.Phone}} · {{.Doc.Phone}}{{end}}{{if .Doc.Location}} · {{.Doc.Location}}{{end}}{{if .Doc.Website}} · {{.Doc.Website}}{{end}}</p>
</header>
{{if .Doc.Summary}}<section class="summary"><h2>Profil</h2><p>{{.Doc.Summary}}</p></section>{{end}}
{{if .Doc.Experience}}<section class="experience"><h2 style="color: {{.Doc.ThemeColor}}">Expérience Professionnelle</h2>
{{range .Doc.Experience}}<article data-entry="{{.ID}}">
<h3>{{.Role}}</h3>
<p class="meta">{{.Company}}{{if .StartDate}} · {{.StartDate}} – {{if .EndDate}}{{.EndDate}}{{else}}Présent{{end}}{{end}}</p>
{{if .Description}}<p>{{.Description}}</p>{{end}}
</article>
{{end}}</section>{{end}}
{{if .Doc.Education}}<section class="education"><h2 style="color: {{.Doc.ThemeColor}}">Formation</h2>
{{range .Doc.Education}}<article data-entry="{{.ID}}">
<h3>{{.Degree}}</h3>
<p class="meta">{{.School}}{{if .Year}} · {{.Year}}{{end}}</p>
</article>
{{end}}</section>{{end}}
{{if .Doc.Skills}}<section class="skills"><h2 style="color: {{.Doc.ThemeColor}}">Compétences</h2>
<ul>{{range .Doc.Skills}}<li>{{.}}</li>{{end}}</ul>
</section>{{end}}
</div>`

const classicLayout = `<div id="{{.RootID}}" data-template="classic" style="font-family: {{.FontFamily}}">
<header style="text-align: center">
<h1>{{.Doc.FullName}}</h1>
<p class="contact">{{.Doc.Email}}{{if .Doc.Phone}} | {{.Doc.Phone}}{{end}}{{if .Doc.Location}} | {{.Doc.Location}}{{end}}</p>
<hr style="border-color: {{.Doc.ThemeColor}}">
</header>
{{if .Doc.Summary}}<section class="summary"><p>{{.Doc.Summary}}</p></section>{{end}}
{{if .Doc.Experience}}<section class="experience"><h2>Expérience</h2>
{{range .Doc.Experience}}<article data-entry="{{.ID}}">
<h3>{{.Role}} — {{.Company}}</h3>
{{if .StartDate}}<p class="meta">{{.StartDate}} – {{if .EndDate}}{{.EndDate}}{{else}}Présent{{end}}</p>{{end}}
{{if .Description}}<p>{{.Description}}</p>{{end}}
</article>
{{end}}</section>{{end}}
{{if .Doc.Education}}<section class="education"><h2>Formation</h2>
{{range .Doc.Education}}<article data-entry="{{.ID}}"><p>{{.Degree}}, {{.School}}{{if .Year}} ({{.Year}}){{end}}</p></article>
{{end}}</section>{{end}}
{{if .Doc.Skills}}<section class="skills"><h2>Compétences</h2><p>{{joinSkills .Doc.Skills}}</p></section>{{end}}
</div>`

var layouts = func() map[types.Template]*template.Template {
	funcs := template.FuncMap{
		"joinSkills": func(skills []string) string { return strings.Join(skills, ", ") },
	}
	parse := func(name, text string) *template.Template {
		return template.Must(template.New(name).Funcs(funcs).Parse(text))
	}
	modern := parse("modern", modernLayout)
	classic := parse("classic", classicLayout)
	return map[types.Template]*template.Template{
		types.TemplateModern:  modern,
		types.TemplateClassic: classic,
		// The remaining layouts reuse the closest base structure; they
		// differ only in styling, which is out of scope here.
		types.TemplateCreative: modern,
		types.TemplateMinimal:  classic,
		types.TemplateElegant:  classic,
	}
}()

// Render produces the HTML view of the document for the selected template.
// Unknown templates fall back to the modern layout.
func Render(doc types.ResumeDocument, tmpl types.Template) (string, error) {
	layout, ok := layouts[tmpl]
	if !ok {
		layout = layouts[types.TemplateModern]
	}

	var out strings.Builder
	data := templateData{
		Doc:        doc,
		RootID:     RootID,
		FontFamily: fontFamilyCSS(doc.FontFamily),
		PhotoURL:   photoURL(doc.PhotoURL),
	}
	if err := layout.Execute(&out, data); err != nil {
		return "", &RenderError{Message: "failed to execute layout", Cause: err}
	}
	return out.String(), nil
}

// Page wraps rendered markup in a complete printable HTML document, used
// when handing the view to the print pipeline.
func Page(body string) string {
	return "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>CV</title></head><body>" + body + "</body></html>"
}
