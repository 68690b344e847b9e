package store

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/types"
)

// snapshotSchema validates the persisted shape before the field merge. No
// field is required — absent fields are filled from defaults — but a field
// that is present with the wrong type marks the snapshot as corrupt.
const snapshotSchema = `{
  "type": "object",
  "properties": {
    "fullName":   {"type": "string"},
    "email":      {"type": "string"},
    "phone":      {"type": "string"},
    "location":   {"type": "string"},
    "website":    {"type": "string"},
    "summary":    {"type": "string"},
    "photoUrl":   {"type": "string"},
    "themeColor": {"type": "string"},
    "fontFamily": {"type": "string"},
    "skills":     {"type": "array", "items": {"type": "string"}},
    "experience": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id":          {"type": "string"},
          "company":     {"type": "string"},
          "role":        {"type": "string"},
          "startDate":   {"type": "string"},
          "endDate":     {"type": "string"},
          "description": {"type": "string"}
        }
      }
    },
    "education": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id":     {"type": "string"},
          "school": {"type": "string"},
          "degree": {"type": "string"},
          "year":   {"type": "string"}
        }
      }
    }
  }
}`

// snapshot mirrors ResumeDocument with pointer fields so the merge can
// distinguish absent fields from zero values across schema versions.
type snapshot struct {
	FullName   *string                 `json:"fullName"`
	Email      *string                 `json:"email"`
	Phone      *string                 `json:"phone"`
	Location   *string                 `json:"location"`
	Website    *string                 `json:"website"`
	Summary    *string                 `json:"summary"`
	PhotoURL   *string                 `json:"photoUrl"`
	Experience []types.ExperienceEntry `json:"experience"`
	Education  []types.EducationEntry  `json:"education"`
	Skills     []string                `json:"skills"`
	ThemeColor *string                 `json:"themeColor"`
	FontFamily *string                 `json:"fontFamily"`
}

// Restore turns raw snapshot bytes into a fully defined document. Corrupt
// or unparseable snapshots are logged and replaced by defaults; restore
// never fails to the caller.
func Restore(data []byte, log *zap.Logger) types.ResumeDocument {
	doc := types.DefaultDocument()

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(snapshotSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		log.Warn("snapshot is not valid JSON, falling back to defaults", zap.Error(err))
		return doc
	}
	if !result.Valid() {
		log.Warn("snapshot failed shape validation, falling back to defaults",
			zap.Int("violations", len(result.Errors())))
		return doc
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Warn("snapshot failed to parse, falling back to defaults", zap.Error(err))
		return doc
	}

	mergeScalar(&doc.FullName, snap.FullName)
	mergeScalar(&doc.Email, snap.Email)
	mergeScalar(&doc.Phone, snap.Phone)
	mergeScalar(&doc.Location, snap.Location)
	mergeScalar(&doc.Website, snap.Website)
	mergeScalar(&doc.Summary, snap.Summary)
	mergeScalar(&doc.PhotoURL, snap.PhotoURL)
	if snap.ThemeColor != nil && *snap.ThemeColor != "" {
		doc.ThemeColor = *snap.ThemeColor
	}
	if snap.FontFamily != nil && *snap.FontFamily != "" {
		doc.FontFamily = *snap.FontFamily
	}

	if snap.Experience != nil {
		doc.Experience = snap.Experience
	}
	if snap.Education != nil {
		doc.Education = snap.Education
	}
	if snap.Skills != nil {
		doc.Skills = filterEmpty(snap.Skills)
	}

	ensureUniqueExperienceIDs(doc.Experience)
	ensureUniqueEducationIDs(doc.Education)

	return doc
}

func mergeScalar(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func filterEmpty(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Restored entries may carry empty or duplicated ids (hand-edited or drifted
// snapshots); fresh ids keep the uniqueness invariant intact.
func ensureUniqueExperienceIDs(entries []types.ExperienceEntry) {
	seen := make(map[string]bool, len(entries))
	for i := range entries {
		if entries[i].ID == "" || seen[entries[i].ID] {
			entries[i].ID = uuid.NewString()
		}
		seen[entries[i].ID] = true
	}
}

func ensureUniqueEducationIDs(entries []types.EducationEntry) {
	seen := make(map[string]bool, len(entries))
	for i := range entries {
		if entries[i].ID == "" || seen[entries[i].ID] {
			entries[i].ID = uuid.NewString()
		}
		seen[entries[i].ID] = true
	}
}
