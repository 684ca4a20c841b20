package render

import (
	"resume-builder/resume/model"
)

// Field identifies one body section of a resume.
type Field string

const (
	FieldPersonalInfo Field = "personalInfo"
	FieldEducation    Field = "education"
	FieldExperience   Field = "experience"
	FieldSkills       Field = "skills"
)

func (f Field) text(c model.ResumeContent) string {
	switch f {
	case FieldPersonalInfo:
		return c.PersonalInfo
	case FieldEducation:
		return c.Education
	case FieldExperience:
		return c.Experience
	case FieldSkills:
		return c.Skills
	default:
		return ""
	}
}

// Margins are page margins in points.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// Template is the full visual configuration of one style. Columns lists the
// fields drawn in each column, left to right.
type Template struct {
	Style         model.TemplateStyle
	Margins       Margins
	Palette       Palette
	Fonts         Fonts
	TitleSize     float64
	HeaderSize    float64
	BodySize      float64
	TitleRule     bool
	SummaryHeader string
	Columns       [][]Field
	// ColumnWidths are fractions of the content width, one per column.
	ColumnWidths []float64
	ColumnGutter float64
	// FillFirstColumn paints Palette.Background behind the first column.
	FillFirstColumn bool
}

// Header returns the section heading this template uses for field.
func (t Template) Header(field Field) string {
	switch field {
	case FieldPersonalInfo:
		return t.SummaryHeader
	case FieldEducation:
		return "Education"
	case FieldExperience:
		return "Experience"
	case FieldSkills:
		return "Skills"
	default:
		return string(field)
	}
}

var singleColumn = [][]Field{{FieldPersonalInfo, FieldEducation, FieldExperience, FieldSkills}}

var templates = map[model.TemplateStyle]Template{
	model.TemplateClassic: {
		Style:   model.TemplateClassic,
		Margins: Margins{Top: 50, Right: 50, Bottom: 50, Left: 50},
		Palette: Palette{
			Primary:    mustHex("#0F172A"),
			Secondary:  mustHex("#334155"),
			Background: mustHex("#FFFFFF"),
		},
		Fonts:         Fonts{Title: fontTimes, Header: fontTimes, Body: fontTimes},
		TitleSize:     18,
		HeaderSize:    16,
		BodySize:      11,
		SummaryHeader: "Personal Information",
		Columns:       singleColumn,
		ColumnWidths:  []float64{1},
	},
	model.TemplateMinimal: {
		Style:   model.TemplateMinimal,
		Margins: Margins{Top: 50, Right: 50, Bottom: 50, Left: 50},
		Palette: Palette{
			Primary:    mustHex("#1E88E5"),
			Secondary:  mustHex("#424242"),
			Background: mustHex("#FFFFFF"),
		},
		Fonts:         Fonts{Title: fontHelvetica, Header: fontHelvetica, Body: fontHelvetica},
		TitleSize:     18,
		HeaderSize:    18,
		BodySize:      11,
		SummaryHeader: "About",
		Columns:       singleColumn,
		ColumnWidths:  []float64{1},
	},
	model.TemplateModern: {
		Style:   model.TemplateModern,
		Margins: Margins{Top: 36, Right: 60, Bottom: 36, Left: 60},
		Palette: Palette{
			Primary:    mustHex("#0D47A1"),
			Secondary:  mustHex("#263238"),
			Background: mustHex("#E3F2FD"),
		},
		Fonts:         Fonts{Title: fontHelvetica, Header: fontHelvetica, Body: fontTimes},
		TitleSize:     20,
		HeaderSize:    14,
		BodySize:      10,
		TitleRule:     true,
		SummaryHeader: "About",
		Columns: [][]Field{
			{FieldPersonalInfo, FieldSkills},
			{FieldExperience, FieldEducation},
		},
		ColumnWidths:    []float64{0.34, 0.66},
		ColumnGutter:    18,
		FillFirstColumn: true,
	},
}

// TemplateFor returns the template for style, falling back to classic.
func TemplateFor(style model.TemplateStyle) Template {
	if tpl, ok := templates[style]; ok {
		return tpl
	}
	return templates[model.DefaultTemplateStyle]
}
