package resumes

import (
	"time"

	"resume-builder/resume/model"
)

// Resume is a stored resume owned by a single user.
type Resume struct {
	ID                int64     `json:"resumeId"`
	UserID            string    `json:"userId"`
	Title             string    `json:"title"`
	PersonalInfo      string    `json:"personalInfo"`
	Education         string    `json:"education"`
	Experience        string    `json:"experience"`
	Skills            string    `json:"skills"`
	TemplateStyle     string    `json:"templateStyle"`
	AISuggestionsJSON *string   `json:"aiSuggestionsJson"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Content returns the text consumed by the suggestion engine and renderer.
func (r Resume) Content() model.ResumeContent {
	return model.ResumeContent{
		Title:         r.Title,
		PersonalInfo:  r.PersonalInfo,
		Education:     r.Education,
		Experience:    r.Experience,
		Skills:        r.Skills,
		TemplateStyle: model.ParseTemplateStyle(r.TemplateStyle),
	}
}

func (r *Resume) apply(c model.ResumeContent) {
	r.Title = c.Title
	r.PersonalInfo = c.PersonalInfo
	r.Education = c.Education
	r.Experience = c.Experience
	r.Skills = c.Skills
	r.TemplateStyle = c.TemplateStyle.String()
}

// Principal is the caller on whose behalf a service method runs.
type Principal struct {
	UserID  string
	IsAdmin bool
}

func (p Principal) canAccess(r Resume) bool {
	return p.IsAdmin || (p.UserID != "" && r.UserID == p.UserID)
}
