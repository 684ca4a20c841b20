package suggest

// Section names the part of a resume a suggestion applies to.
type Section string

const (
	SectionPersonalInfo Section = "PersonalInfo"
	SectionExperience   Section = "Experience"
	SectionSkills       Section = "Skills"
	SectionEducation    Section = "Education"
	SectionContent      Section = "Content"
	SectionFormatting   Section = "Formatting"
)

// Priority ranks how much a suggestion matters.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Suggestion is a single actionable improvement for a resume.
type Suggestion struct {
	Section       Section  `json:"section"`
	Priority      Priority `json:"priority"`
	Message       string   `json:"message"`
	ApplyTemplate string   `json:"applyTemplate"`
}

// Rule identifies one heuristic in the catalog.
type Rule string

const (
	RulePersonalInfoTooBrief    Rule = "personal_info.too_brief"
	RulePersonalInfoExpand      Rule = "personal_info.expand"
	RulePersonalInfoActionWords Rule = "personal_info.action_words"
	RuleExperienceEmpty         Rule = "experience.empty"
	RuleExperienceQuantify      Rule = "experience.quantify"
	RuleExperienceActionVerbs   Rule = "experience.action_verbs"
	RuleSkillsEmpty             Rule = "skills.empty"
	RuleSkillsTooFew            Rule = "skills.too_few"
	RuleSkillsTooMany           Rule = "skills.too_many"
	RuleSkillsGroup             Rule = "skills.group"
	RuleEducationEmpty          Rule = "education.empty"
	RuleEducationMoreDetail     Rule = "education.more_detail"
	RuleContentBuzzwords        Rule = "content.buzzwords"
	RuleFormattingBullets       Rule = "formatting.bullets"
)
