package suggest

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"resume-builder/resume/model"
)

const (
	summaryBriefLen     = 100
	summaryExpandLen    = 200
	skillsMin           = 6
	skillsMax           = 25
	skillsGroupMin      = 8
	educationDetailLen  = 50
	buzzwordLimit       = 2
	bulletExperienceLen = 100
)

var (
	digitPattern  = regexp.MustCompile(`\d+`)
	dollarPattern = regexp.MustCompile(`\$[\d,]+`)
)

// Generate evaluates every analyzer against content and returns the triggered
// suggestions in analyzer order. An empty result means nothing was flagged.
func Generate(content model.ResumeContent) []Suggestion {
	rules := Rules(content)
	out := make([]Suggestion, 0, len(rules))
	for _, rule := range rules {
		out = append(out, Lookup(rule))
	}
	return out
}

// Rules returns the IDs of the triggered rules in evaluation order.
func Rules(content model.ResumeContent) []Rule {
	analyzers := []func(model.ResumeContent) []Rule{
		analyzePersonalInfo,
		analyzeExperience,
		analyzeSkills,
		analyzeEducation,
		analyzeContentQuality,
	}
	var out []Rule
	for _, analyze := range analyzers {
		out = append(out, analyze(content)...)
	}
	return out
}

func analyzePersonalInfo(content model.ResumeContent) []Rule {
	var rules []Rule
	trimmed := strings.TrimSpace(content.PersonalInfo)
	length := utf8.RuneCountInString(trimmed)

	switch {
	case length < summaryBriefLen:
		rules = append(rules, RulePersonalInfoTooBrief)
	case length < summaryExpandLen:
		rules = append(rules, RulePersonalInfoExpand)
	}

	// An empty summary is already covered by the brief rule.
	if trimmed != "" && !containsAny(strings.ToLower(trimmed), impactWords) {
		rules = append(rules, RulePersonalInfoActionWords)
	}
	return rules
}

func analyzeExperience(content model.ResumeContent) []Rule {
	trimmed := strings.TrimSpace(content.Experience)
	if trimmed == "" {
		return []Rule{RuleExperienceEmpty}
	}

	var rules []Rule
	hasNumbers := digitPattern.MatchString(trimmed)
	hasPercent := strings.Contains(trimmed, "%")
	hasDollars := dollarPattern.MatchString(trimmed)
	if !hasNumbers && !hasPercent && !hasDollars {
		rules = append(rules, RuleExperienceQuantify)
	}
	if !containsAny(strings.ToLower(trimmed), actionVerbs) {
		rules = append(rules, RuleExperienceActionVerbs)
	}
	return rules
}

func analyzeSkills(content model.ResumeContent) []Rule {
	tokens := SplitSkills(content.Skills)
	if len(tokens) == 0 {
		return []Rule{RuleSkillsEmpty}
	}

	var rules []Rule
	switch {
	case len(tokens) < skillsMin:
		rules = append(rules, RuleSkillsTooFew)
	case len(tokens) > skillsMax:
		rules = append(rules, RuleSkillsTooMany)
	}
	if !strings.Contains(content.Skills, ":") && len(tokens) > skillsGroupMin {
		rules = append(rules, RuleSkillsGroup)
	}
	return rules
}

func analyzeEducation(content model.ResumeContent) []Rule {
	trimmed := strings.TrimSpace(content.Education)
	switch {
	case trimmed == "":
		return []Rule{RuleEducationEmpty}
	case utf8.RuneCountInString(trimmed) < educationDetailLen:
		return []Rule{RuleEducationMoreDetail}
	default:
		return nil
	}
}

func analyzeContentQuality(content model.ResumeContent) []Rule {
	var rules []Rule
	all := strings.ToLower(strings.Join([]string{
		content.PersonalInfo,
		content.Education,
		content.Experience,
		content.Skills,
	}, " "))

	found := 0
	for _, word := range buzzwords {
		if strings.Contains(all, word) {
			found++
		}
	}
	if found > buzzwordLimit {
		rules = append(rules, RuleContentBuzzwords)
	}

	hasBullets := strings.Contains(all, "•") || strings.Contains(all, "-")
	if !hasBullets && utf8.RuneCountInString(content.Experience) > bulletExperienceLen {
		rules = append(rules, RuleFormattingBullets)
	}
	return rules
}

// SplitSkills tokenizes a skills field on commas, semicolons and line breaks,
// dropping blank tokens.
func SplitSkills(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case ',', ';', '\n', '\r':
			return true
		default:
			return false
		}
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
