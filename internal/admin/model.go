package admin

import (
	"strings"
	"time"
)

// UserSummary is a user as listed on the admin dashboard.
type UserSummary struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	FullName   string     `json:"fullName"`
	Roles      []string   `json:"roles"`
	LockoutEnd *time.Time `json:"lockoutEnd"`
	IsLocked   bool       `json:"isLocked"`
}

type Metrics struct {
	TotalUsers     int `json:"totalUsers"`
	TotalResumes   int `json:"totalResumes"`
	Last24hResumes int `json:"last24hResumes"`
}

type Owner struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// ResumeItem is one row of the admin resume search.
type ResumeItem struct {
	ResumeID      int64     `json:"resumeId"`
	Title         string    `json:"title"`
	TemplateStyle string    `json:"templateStyle"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	PersonalInfo  string    `json:"personalInfo"`
	Education     string    `json:"education"`
	Experience    string    `json:"experience"`
	Skills        string    `json:"skills"`
	Owner         Owner     `json:"owner"`
}

type ResumeDetail struct {
	ResumeID          int64     `json:"resumeId"`
	Title             string    `json:"title"`
	PersonalInfo      string    `json:"personalInfo"`
	Education         string    `json:"education"`
	Experience        string    `json:"experience"`
	Skills            string    `json:"skills"`
	TemplateStyle     string    `json:"templateStyle"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
	AISuggestionsJSON *string   `json:"aiSuggestionsJson"`
	Owner             Owner     `json:"owner"`
}

type ResumePage struct {
	Total           int          `json:"total"`
	Page            int          `json:"page"`
	PageSize        int          `json:"pageSize"`
	TotalPages      int          `json:"totalPages"`
	HasNextPage     bool         `json:"hasNextPage"`
	HasPreviousPage bool         `json:"hasPreviousPage"`
	Items           []ResumeItem `json:"items"`
}

type UserResumeCount struct {
	UserID      string `json:"userId"`
	ResumeCount int    `json:"resumeCount"`
}

type ResumeStats struct {
	TotalResumes         int               `json:"totalResumes"`
	ResumesLast24h       int               `json:"resumesLast24h"`
	ResumesLast7Days     int               `json:"resumesLast7Days"`
	ResumesLast30Days    int               `json:"resumesLast30Days"`
	AverageResumesPerDay float64           `json:"averageResumesPerDay"`
	MostActiveUsers      []UserResumeCount `json:"mostActiveUsers"`
}

type TemplateUsage struct {
	TemplateStyle string    `json:"templateStyle"`
	Count         int       `json:"count"`
	LastUsed      time.Time `json:"lastUsed"`
}

type UserActivity struct {
	UserID       string    `json:"userId"`
	ResumeCount  int       `json:"resumeCount"`
	LastActivity time.Time `json:"lastActivity"`
	FirstResume  time.Time `json:"firstResume"`
	UserEmail    string    `json:"userEmail"`
	UserName     string    `json:"userName"`
}

// Sort keys accepted by the resume search.
const (
	SortCreatedAt = "createdat"
	SortUpdatedAt = "updatedat"
	SortTitle     = "title"
	SortOwner     = "owner"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ResumeQuery filters, sorts and pages the admin resume search.
type ResumeQuery struct {
	Page          int
	PageSize      int
	Q             string
	OwnerEmail    string
	TemplateStyle string
	SortBy        string
	SortDir       string
}

// Normalize clamps paging and canonicalises the sort. Unknown sort keys sort
// by updatedAt; any direction other than asc is descending.
func (q ResumeQuery) Normalize() ResumeQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > maxPageSize {
		q.PageSize = defaultPageSize
	}
	q.Q = strings.TrimSpace(q.Q)
	q.OwnerEmail = strings.TrimSpace(q.OwnerEmail)
	q.TemplateStyle = strings.TrimSpace(q.TemplateStyle)
	switch strings.ToLower(q.SortBy) {
	case SortCreatedAt, SortTitle, SortOwner:
		q.SortBy = strings.ToLower(q.SortBy)
	default:
		q.SortBy = SortUpdatedAt
	}
	if strings.EqualFold(q.SortDir, "asc") {
		q.SortDir = "asc"
	} else {
		q.SortDir = "desc"
	}
	return q
}

func (q ResumeQuery) offset() int {
	return (q.Page - 1) * q.PageSize
}

func newResumePage(q ResumeQuery, total int, items []ResumeItem) ResumePage {
	if items == nil {
		items = []ResumeItem{}
	}
	totalPages := (total + q.PageSize - 1) / q.PageSize
	return ResumePage{
		Total:           total,
		Page:            q.Page,
		PageSize:        q.PageSize,
		TotalPages:      totalPages,
		HasNextPage:     q.Page < totalPages,
		HasPreviousPage: q.Page > 1,
		Items:           items,
	}
}
