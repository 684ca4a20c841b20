package suggest

// Catalog holds the fixed text of every rule. Entries are copied out by value,
// so callers can never mutate the table.
var Catalog = map[Rule]Suggestion{
	RulePersonalInfoTooBrief: {
		Section:       SectionPersonalInfo,
		Priority:      PriorityHigh,
		Message:       "Your personal summary is too brief. Write a compelling 2-3 sentence professional summary that highlights your key strengths and career objectives.",
		ApplyTemplate: "Experienced full-stack developer with 5+ years building scalable web applications using modern technologies. Passionate about clean code, user experience, and continuous learning. Seeking opportunities to lead development teams and architect innovative solutions.",
	},
	RulePersonalInfoExpand: {
		Section:       SectionPersonalInfo,
		Priority:      PriorityMedium,
		Message:       "Consider expanding your personal summary to better showcase your unique value proposition.",
		ApplyTemplate: "Add specific achievements, certifications, or career goals to make your summary more compelling.",
	},
	RulePersonalInfoActionWords: {
		Section:       SectionPersonalInfo,
		Priority:      PriorityMedium,
		Message:       "Use action-oriented words to make your summary more impactful.",
		ApplyTemplate: "Replace passive language with strong action verbs like 'achieved', 'improved', 'developed', or 'led'.",
	},
	RuleExperienceEmpty: {
		Section:       SectionExperience,
		Priority:      PriorityHigh,
		Message:       "Experience section is empty. Add your work history with specific achievements and responsibilities.",
		ApplyTemplate: "Software Developer | Company Name | 2020-2023\n• Developed and maintained web applications using React and Go\n• Collaborated with cross-functional teams to deliver features\n• Improved application performance by 30% through optimization",
	},
	RuleExperienceQuantify: {
		Section:       SectionExperience,
		Priority:      PriorityHigh,
		Message:       "Add specific numbers and metrics to quantify your achievements. This makes your experience more compelling.",
		ApplyTemplate: "• Increased user engagement by 25% through UI/UX improvements\n• Reduced application load time by 40% (from 3s to 1.8s)\n• Managed team of 5 developers and delivered 12 features on schedule",
	},
	RuleExperienceActionVerbs: {
		Section:       SectionExperience,
		Priority:      PriorityMedium,
		Message:       "Start each bullet point with strong action verbs to demonstrate your proactive approach.",
		ApplyTemplate: "• Developed new features using React and TypeScript\n• Implemented CI/CD pipeline reducing deployment time by 60%\n• Led code reviews and mentored junior developers",
	},
	RuleSkillsEmpty: {
		Section:       SectionSkills,
		Priority:      PriorityHigh,
		Message:       "Skills section is empty. Add relevant technical and soft skills.",
		ApplyTemplate: "Technical: JavaScript, React, Go, SQL, Git\nSoft Skills: Leadership, Communication, Problem Solving, Team Collaboration",
	},
	RuleSkillsTooFew: {
		Section:       SectionSkills,
		Priority:      PriorityMedium,
		Message:       "Consider adding more relevant skills to demonstrate your breadth of knowledge.",
		ApplyTemplate: "Add skills like: Docker, AWS, REST APIs, Unit Testing, Agile/Scrum, Database Design",
	},
	RuleSkillsTooMany: {
		Section:       SectionSkills,
		Priority:      PriorityLow,
		Message:       "Too many skills can dilute your expertise. Focus on your core competencies and most relevant skills.",
		ApplyTemplate: "Group related skills: 'Frontend: React, Angular, Vue | Backend: Go, Node.js | DevOps: Docker, AWS, Azure'",
	},
	RuleSkillsGroup: {
		Section:       SectionSkills,
		Priority:      PriorityLow,
		Message:       "Consider grouping your skills by category for better organization.",
		ApplyTemplate: "Programming Languages: Go, JavaScript, Python\nFrameworks: Gin, React, Angular\nTools: Git, Docker, Terraform",
	},
	RuleEducationEmpty: {
		Section:       SectionEducation,
		Priority:      PriorityMedium,
		Message:       "Add your educational background including degree, institution, and graduation year.",
		ApplyTemplate: "Bachelor of Science in Computer Science\nUniversity Name | Graduated: 2023\nRelevant Coursework: Data Structures, Algorithms, Database Systems",
	},
	RuleEducationMoreDetail: {
		Section:       SectionEducation,
		Priority:      PriorityLow,
		Message:       "Consider adding more details about your education, including relevant coursework or achievements.",
		ApplyTemplate: "Add: GPA (if 3.5+), relevant coursework, honors, certifications, or academic projects.",
	},
	RuleContentBuzzwords: {
		Section:       SectionContent,
		Priority:      PriorityLow,
		Message:       "Reduce corporate buzzwords. Use clear, specific language that directly describes your achievements.",
		ApplyTemplate: "Replace buzzwords with specific actions: 'led a team' instead of 'facilitated team synergy'",
	},
	RuleFormattingBullets: {
		Section:       SectionFormatting,
		Priority:      PriorityMedium,
		Message:       "Use bullet points to make your experience section more scannable and professional.",
		ApplyTemplate: "Convert paragraphs to bullet points:\n• [Specific achievement or responsibility]\n• [Another achievement or responsibility]",
	},
}

var (
	impactWords = []string{"achieved", "improved", "increased", "developed", "led", "managed", "delivered"}
	actionVerbs = []string{"developed", "implemented", "designed", "managed", "led", "created", "optimized", "deployed"}
	buzzwords   = []string{"synergy", "leverage", "paradigm", "streamline", "optimize", "facilitate"}
)

// Lookup returns the catalog entry for rule.
func Lookup(rule Rule) Suggestion {
	return Catalog[rule]
}
