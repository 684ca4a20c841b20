package model

import "strings"

// TemplateStyle selects the visual layout used when rendering a resume.
type TemplateStyle string

const (
	TemplateClassic TemplateStyle = "classic"
	TemplateMinimal TemplateStyle = "minimal"
	TemplateModern  TemplateStyle = "modern"
)

// DefaultTemplateStyle is used whenever a stored or submitted style is unknown.
const DefaultTemplateStyle = TemplateClassic

// TemplateStyles lists every supported style in display order.
var TemplateStyles = []TemplateStyle{TemplateClassic, TemplateMinimal, TemplateModern}

// Field limits, counted in characters (code points).
const (
	TitleMinLen        = 3
	TitleMaxLen        = 160
	PersonalInfoMaxLen = 8000
	EducationMaxLen    = 16000
	ExperienceMaxLen   = 20000
	SkillsMaxLen       = 4000
)

// ParseTemplateStyle returns the style for an exact match, otherwise the default.
func ParseTemplateStyle(raw string) TemplateStyle {
	style := TemplateStyle(raw)
	if style.Valid() {
		return style
	}
	return DefaultTemplateStyle
}

// Valid reports whether s names a supported template.
func (s TemplateStyle) Valid() bool {
	switch s {
	case TemplateClassic, TemplateMinimal, TemplateModern:
		return true
	default:
		return false
	}
}

func (s TemplateStyle) String() string {
	return string(s)
}

// ResumeContent is the text of a resume as consumed by the suggestion engine
// and the renderer. Values are treated as immutable for the duration of a call.
type ResumeContent struct {
	Title         string        `json:"title"`
	PersonalInfo  string        `json:"personalInfo"`
	Education     string        `json:"education"`
	Experience    string        `json:"experience"`
	Skills        string        `json:"skills"`
	TemplateStyle TemplateStyle `json:"templateStyle"`
}

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
