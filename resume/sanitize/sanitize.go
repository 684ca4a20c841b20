// Package sanitize cleans user-submitted resume text before it is stored or
// rendered.
package sanitize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"resume-builder/resume/model"
)

// MaxCombinedLength caps title plus the four body fields, in code points.
const MaxCombinedLength = 40000

const (
	ReasonProhibitedContent = "prohibited_content"
	ReasonTooLong           = "too_long"
)

var denylist = []string{
	"<script",
	"</script>",
	"<iframe",
	"</iframe>",
	"javascript:",
	"vbscript:",
	"onload=",
	"onerror=",
	"onclick=",
	"onmouseover=",
	"eval(",
	"document.cookie",
}

var printer = message.NewPrinter(language.English)

// ValidationError describes why submitted content was rejected.
type ValidationError struct {
	Reason string
	Length int
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonTooLong:
		return printer.Sprintf(
			"The combined length of text fields (%d) exceeds the maximum limit of %d characters.",
			e.Length, MaxCombinedLength,
		)
	default:
		return "Input contains prohibited content or tags."
	}
}

// Sanitize cleans every text field of raw and normalises its template style.
// On error the returned content is the zero value.
func Sanitize(raw model.ResumeContent) (model.ResumeContent, error) {
	out := model.ResumeContent{
		Title:         Clean(raw.Title),
		PersonalInfo:  Clean(raw.PersonalInfo),
		Education:     Clean(raw.Education),
		Experience:    Clean(raw.Experience),
		Skills:        Clean(raw.Skills),
		TemplateStyle: model.ParseTemplateStyle(string(raw.TemplateStyle)),
	}

	fields := []string{out.Title, out.PersonalInfo, out.Education, out.Experience, out.Skills}
	total := 0
	for _, f := range fields {
		if ContainsDangerous(f) {
			return model.ResumeContent{}, &ValidationError{Reason: ReasonProhibitedContent}
		}
		total += utf8.RuneCountInString(f)
	}
	if total > MaxCombinedLength {
		return model.ResumeContent{}, &ValidationError{Reason: ReasonTooLong, Length: total}
	}
	return out, nil
}

// Clean normalises line endings, drops control characters other than newline
// and tab, and trims surrounding whitespace.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// ContainsDangerous reports whether s contains a denylisted pattern, ignoring case.
func ContainsDangerous(s string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	for _, pattern := range denylist {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
