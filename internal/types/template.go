package types

// Template selects one of the visual resume layouts.
type Template string

// Supported templates. The renderer falls back to TemplateModern for
// unknown values.
const (
	TemplateModern   Template = "modern"
	TemplateClassic  Template = "classic"
	TemplateCreative Template = "creative"
	TemplateMinimal  Template = "minimal"
	TemplateElegant  Template = "elegant"
)

// Valid reports whether t names a known template.
func (t Template) Valid() bool {
	switch t {
	case TemplateModern, TemplateClassic, TemplateCreative, TemplateMinimal, TemplateElegant:
		return true
	}
	return false
}
