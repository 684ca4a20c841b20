package resumes

// resumeRequest bounds are counted in characters. templateStyle is not
// validated here: unknown values fall back to classic.
type resumeRequest struct {
	Title         string `json:"title" binding:"required,min=3,max=160"`
	PersonalInfo  string `json:"personalInfo" binding:"max=8000"`
	Education     string `json:"education" binding:"max=16000"`
	Experience    string `json:"experience" binding:"max=20000"`
	Skills        string `json:"skills" binding:"max=4000"`
	TemplateStyle string `json:"templateStyle" binding:"max=32"`
}

func (r resumeRequest) input() Input {
	return Input{
		Title:         r.Title,
		PersonalInfo:  r.PersonalInfo,
		Education:     r.Education,
		Experience:    r.Experience,
		Skills:        r.Skills,
		TemplateStyle: r.TemplateStyle,
	}
}
