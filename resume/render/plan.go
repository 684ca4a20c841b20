package render

import (
	"strings"

	"resume-builder/resume/model"
)

// Section is one heading plus its trimmed body text.
type Section struct {
	Field  Field
	Header string
	Body   string
}

// Column holds the sections drawn top to bottom in one column.
type Column struct {
	Sections []Section
}

// Layout is everything the renderer decided before drawing.
type Layout struct {
	Template Template
	Title    string
	Columns  []Column
}

// Headers returns every section heading in drawing order.
func (l Layout) Headers() []string {
	var out []string
	for _, col := range l.Columns {
		for _, sec := range col.Sections {
			out = append(out, sec.Header)
		}
	}
	return out
}

// Has reports whether the layout draws field anywhere.
func (l Layout) Has(field Field) bool {
	for _, col := range l.Columns {
		for _, sec := range col.Sections {
			if sec.Field == field {
				return true
			}
		}
	}
	return false
}

// Plan chooses the template for style and places each non-blank section.
func Plan(content model.ResumeContent, style model.TemplateStyle) Layout {
	tpl := TemplateFor(style)
	layout := Layout{
		Template: tpl,
		Title:    strings.TrimSpace(content.Title),
		Columns:  make([]Column, 0, len(tpl.Columns)),
	}
	for _, fields := range tpl.Columns {
		var col Column
		for _, field := range fields {
			body := strings.TrimSpace(field.text(content))
			if body == "" {
				continue
			}
			col.Sections = append(col.Sections, Section{
				Field:  field,
				Header: tpl.Header(field),
				Body:   body,
			})
		}
		layout.Columns = append(layout.Columns, col)
	}
	return layout
}
