// Package types defines the resume document model shared across the application.
package types

// ExperienceEntry is one position within the experience section.
// Insertion order is display order.
type ExperienceEntry struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// EducationEntry is one diploma within the education section.
type EducationEntry struct {
	ID     string `json:"id"`
	School string `json:"school"`
	Degree string `json:"degree"`
	Year   string `json:"year"`
}

// ResumeDocument is the complete resume aggregate edited by one session.
// All fields are always defined; restored snapshots are merged against
// DefaultDocument so no field is ever absent.
type ResumeDocument struct {
	FullName   string            `json:"fullName"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	Location   string            `json:"location"`
	Website    string            `json:"website"`
	Summary    string            `json:"summary"`
	PhotoURL   string            `json:"photoUrl"`
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education"`
	Skills     []string          `json:"skills"`
	ThemeColor string            `json:"themeColor"`
	FontFamily string            `json:"fontFamily"`
}

// Default appearance values for a fresh document.
const (
	DefaultThemeColor = "#ea580c"
	DefaultFontFamily = "Inter, sans-serif"
)

// ThemeColors is the preset accent palette offered by the editor.
// Any 6-hex-digit value is accepted; these are only the suggestions.
var ThemeColors = []string{
	"#ea580c", // orange (default)
	"#f59e0b", // amber
	"#4f46e5", // indigo
	"#2563eb", // blue
	"#0891b2", // cyan
	"#059669", // emerald
	"#db2777", // pink
	"#e11d48", // rose
	"#1e293b", // slate
}

// FontChoice pairs a display label with a CSS font-family value.
type FontChoice struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FontChoices is the fixed font menu. FontFamily may also hold a custom value.
var FontChoices = []FontChoice{
	{Name: "Moderne (Inter)", Value: "Inter, sans-serif"},
	{Name: "Sérif (Merriweather)", Value: "Merriweather, serif"},
	{Name: "Humaniste (Lato)", Value: "Lato, sans-serif"},
	{Name: "Classique (Playfair)", Value: `"Playfair Display", serif`},
	{Name: "Neutre (Roboto)", Value: "Roboto, sans-serif"},
	{Name: "Ouvert (Open Sans)", Value: `"Open Sans", sans-serif`},
	{Name: "Pro (Montserrat)", Value: "Montserrat, sans-serif"},
	{Name: "Manuscrit (Dancing Script)", Value: `"Dancing Script", cursive`},
}

// DefaultDocument returns the document a brand-new session starts from.
// Slices are non-nil so the serialized form always carries every field.
func DefaultDocument() ResumeDocument {
	return ResumeDocument{
		Experience: []ExperienceEntry{},
		Education:  []EducationEntry{},
		Skills:     []string{},
		ThemeColor: DefaultThemeColor,
		FontFamily: DefaultFontFamily,
	}
}

// Clone returns a deep copy of the document. Mutators operate on copies so
// callers never share slice backing arrays across document versions.
func (d ResumeDocument) Clone() ResumeDocument {
	out := d
	out.Experience = make([]ExperienceEntry, len(d.Experience))
	copy(out.Experience, d.Experience)
	out.Education = make([]EducationEntry, len(d.Education))
	copy(out.Education, d.Education)
	out.Skills = make([]string, len(d.Skills))
	copy(out.Skills, d.Skills)
	return out
}
