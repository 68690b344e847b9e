// Package document provides the pure mutation operations over a resume
// document. Every function returns a new document value; the input is never
// modified, and unknown entry ids make the operation a no-op.
package document

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/types"
)

// Field names a scalar document field addressable by SetField.
type Field string

// Scalar fields of the document.
const (
	FieldFullName   Field = "fullName"
	FieldEmail      Field = "email"
	FieldPhone      Field = "phone"
	FieldLocation   Field = "location"
	FieldWebsite    Field = "website"
	FieldSummary    Field = "summary"
	FieldThemeColor Field = "themeColor"
	FieldFontFamily Field = "fontFamily"
)

// Placeholder text used for freshly added entries.
const (
	placeholderCompany = "Nom de l'entreprise"
	placeholderRole    = "Intitulé du poste"
	placeholderSchool  = "Nom de l'établissement"
	placeholderDegree  = "Diplôme"
	placeholderYear    = "2024"
)

// SetField replaces one scalar field. Unknown field names leave the
// document unchanged and report false.
func SetField(doc types.ResumeDocument, field Field, value string) (types.ResumeDocument, bool) {
	out := doc.Clone()
	switch field {
	case FieldFullName:
		out.FullName = value
	case FieldEmail:
		out.Email = value
	case FieldPhone:
		out.Phone = value
	case FieldLocation:
		out.Location = value
	case FieldWebsite:
		out.Website = value
	case FieldSummary:
		out.Summary = value
	case FieldThemeColor:
		out.ThemeColor = value
	case FieldFontFamily:
		out.FontFamily = value
	default:
		return doc, false
	}
	return out, true
}

// AddExperience appends a new experience entry with a fresh unique id and
// placeholder company/role text.
func AddExperience(doc types.ResumeDocument) types.ResumeDocument {
	out := doc.Clone()
	out.Experience = append(out.Experience, types.ExperienceEntry{
		ID:      uuid.NewString(),
		Company: placeholderCompany,
		Role:    placeholderRole,
	})
	return out
}

// UpdateExperience replaces one field of the entry matching id. The document
// is returned unchanged when id is not present.
func UpdateExperience(doc types.ResumeDocument, id string, field string, value string) types.ResumeDocument {
	out := doc.Clone()
	for i := range out.Experience {
		if out.Experience[i].ID != id {
			continue
		}
		switch field {
		case "company":
			out.Experience[i].Company = value
		case "role":
			out.Experience[i].Role = value
		case "startDate":
			out.Experience[i].StartDate = value
		case "endDate":
			out.Experience[i].EndDate = value
		case "description":
			out.Experience[i].Description = value
		default:
			return doc
		}
		return out
	}
	return doc
}

// RemoveExperience filters out the entry with matching id; no-op if absent.
func RemoveExperience(doc types.ResumeDocument, id string) types.ResumeDocument {
	out := doc.Clone()
	filtered := out.Experience[:0]
	for _, e := range out.Experience {
		if e.ID != id {
			filtered = append(filtered, e)
		}
	}
	out.Experience = filtered
	return out
}

// AddEducation appends a new education entry with a fresh unique id and
// placeholder school/degree text.
func AddEducation(doc types.ResumeDocument) types.ResumeDocument {
	out := doc.Clone()
	out.Education = append(out.Education, types.EducationEntry{
		ID:     uuid.NewString(),
		School: placeholderSchool,
		Degree: placeholderDegree,
		Year:   placeholderYear,
	})
	return out
}

// UpdateEducation replaces one field of the entry matching id; no-op when
// id or the field name is unknown.
func UpdateEducation(doc types.ResumeDocument, id string, field string, value string) types.ResumeDocument {
	out := doc.Clone()
	for i := range out.Education {
		if out.Education[i].ID != id {
			continue
		}
		switch field {
		case "school":
			out.Education[i].School = value
		case "degree":
			out.Education[i].Degree = value
		case "year":
			out.Education[i].Year = value
		default:
			return doc
		}
		return out
	}
	return doc
}

// RemoveEducation filters out the entry with matching id; no-op if absent.
func RemoveEducation(doc types.ResumeDocument, id string) types.ResumeDocument {
	out := doc.Clone()
	filtered := out.Education[:0]
	for _, e := range out.Education {
		if e.ID != id {
			filtered = append(filtered, e)
		}
	}
	out.Education = filtered
	return out
}

// SetSkillsFromText replaces the skills list from a comma-separated input.
// Pieces are trimmed and empty pieces are discarded, so the skills list
// never contains an empty string.
func SetSkillsFromText(doc types.ResumeDocument, rawText string) types.ResumeDocument {
	out := doc.Clone()
	out.Skills = SplitSkills(rawText)
	return out
}

// SplitSkills splits a comma-separated skill list, trimming each piece and
// dropping empty ones. Order is preserved.
func SplitSkills(rawText string) []string {
	parts := strings.Split(rawText, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}
