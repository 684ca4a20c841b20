package resumes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
	"resume-builder/resume/sanitize"
	"resume-builder/resume/suggest"
)

// Input is the editable content of a resume as submitted by a client.
type Input struct {
	Title         string
	PersonalInfo  string
	Education     string
	Experience    string
	Skills        string
	TemplateStyle string
}

func (in Input) content() model.ResumeContent {
	return model.ResumeContent{
		Title:         in.Title,
		PersonalInfo:  in.PersonalInfo,
		Education:     in.Education,
		Experience:    in.Experience,
		Skills:        in.Skills,
		TemplateStyle: model.TemplateStyle(in.TemplateStyle),
	}
}

// Download is a rendered resume ready to be sent to a client.
type Download struct {
	render.Document
	FileName string
}

// Service contains business logic for resumes.
type Service struct {
	Repo  Repo
	Cache RenderCache
	Now   func() time.Time
}

func NewService(repo Repo, cache RenderCache) *Service {
	return &Service{Repo: repo, Cache: cache, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// List returns the caller's resumes. Admins passing all=true get every resume.
func (s *Service) List(ctx context.Context, p Principal, all bool) ([]Resume, error) {
	if all && p.IsAdmin {
		return s.Repo.ListAll(ctx)
	}
	if p.UserID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, p.UserID)
}

func (s *Service) Get(ctx context.Context, p Principal, id int64) (Resume, error) {
	resume, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Resume{}, err
	}
	if !p.canAccess(resume) {
		return Resume{}, ErrForbidden
	}
	return resume, nil
}

// Create sanitizes in and stores it as a new resume owned by the caller.
// Sanitizer rejections are returned as *sanitize.ValidationError.
func (s *Service) Create(ctx context.Context, p Principal, in Input) (Resume, error) {
	if p.UserID == "" {
		return Resume{}, ErrInvalidInput
	}
	content, err := s.sanitize(in)
	if err != nil {
		return Resume{}, err
	}

	now := s.now()
	resume := Resume{UserID: p.UserID, CreatedAt: now, UpdatedAt: now}
	resume.apply(content)
	created, err := s.Repo.Create(ctx, resume)
	if err != nil {
		return Resume{}, fmt.Errorf("create resume: %w", err)
	}
	telemetry.Info("resume.created", map[string]any{"resume_id": created.ID, "user_id": p.UserID})
	return created, nil
}

func (s *Service) Update(ctx context.Context, p Principal, id int64, in Input) (Resume, error) {
	resume, err := s.Get(ctx, p, id)
	if err != nil {
		return Resume{}, err
	}
	content, err := s.sanitize(in)
	if err != nil {
		return Resume{}, err
	}

	stale := renderKey(resume)
	resume.apply(content)
	resume.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, resume); err != nil {
		return Resume{}, fmt.Errorf("update resume: %w", err)
	}
	s.evict(ctx, resume.ID, stale)
	return resume, nil
}

func (s *Service) Delete(ctx context.Context, p Principal, id int64) error {
	resume, err := s.Get(ctx, p, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, id, renderKey(resume))
	telemetry.Info("resume.deleted", map[string]any{"resume_id": id, "user_id": p.UserID})
	return nil
}

// Download renders the stored resume with its stored template style. When a
// cache is configured, an unchanged resume is served from it.
func (s *Service) Download(ctx context.Context, p Principal, id int64) (Download, error) {
	resume, err := s.Get(ctx, p, id)
	if err != nil {
		return Download{}, err
	}
	out := Download{FileName: fmt.Sprintf("resume-%d.pdf", resume.ID)}

	key := renderKey(resume)
	if s.Cache != nil {
		data, ok, err := s.Cache.Get(ctx, key)
		if err != nil {
			telemetry.Warn("resume.render_cache.get_failed", map[string]any{"resume_id": id, "error": err.Error()})
		}
		if ok {
			metrics.IncRenderCacheHit()
			out.Document = render.Document{Data: data, ContentType: render.ContentTypePDF}
			return out, nil
		}
	}

	start := time.Now()
	content := resume.Content()
	doc, err := render.Render(content, content.TemplateStyle)
	metrics.ObserveRenderDurationMs(metrics.SinceMillis(start))
	if err != nil {
		metrics.IncRenderFailed()
		return Download{}, fmt.Errorf("render resume %d: %w", id, err)
	}
	metrics.IncRender()

	if s.Cache != nil {
		if err := s.Cache.Put(ctx, key, doc.Data); err != nil {
			telemetry.Warn("resume.render_cache.put_failed", map[string]any{"resume_id": id, "error": err.Error()})
		}
	}
	out.Document = doc
	return out, nil
}

// GenerateSuggestions runs the suggestion engine over the stored resume and
// records the result on it.
func (s *Service) GenerateSuggestions(ctx context.Context, p Principal, id int64) ([]suggest.Suggestion, error) {
	resume, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	suggestions := suggest.Generate(resume.Content())
	if suggestions == nil {
		suggestions = []suggest.Suggestion{}
	}
	metrics.AddSuggestions(len(suggestions))

	payload, err := json.MarshalIndent(suggestions, "", "  ")
	if err != nil {
		return nil, err
	}
	stored := string(payload)
	stale := renderKey(resume)
	resume.AISuggestionsJSON = &stored
	resume.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, resume); err != nil {
		return nil, fmt.Errorf("store suggestions: %w", err)
	}
	s.evict(ctx, resume.ID, stale)
	return suggestions, nil
}

// evict drops the render cached under key. Failures only leave an
// unreachable object behind, since keys embed updated_at.
func (s *Service) evict(ctx context.Context, id int64, key string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, key); err != nil {
		telemetry.Warn("resume.render_cache.delete_failed", map[string]any{"resume_id": id, "error": err.Error()})
	}
}

func (s *Service) sanitize(in Input) (model.ResumeContent, error) {
	content, err := sanitize.Sanitize(in.content())
	if err != nil {
		var verr *sanitize.ValidationError
		if errors.As(err, &verr) {
			metrics.IncSanitizerRejection(verr.Reason)
		}
		return model.ResumeContent{}, err
	}
	if strings.TrimSpace(content.Title) == "" {
		return model.ResumeContent{}, ErrInvalidInput
	}
	return content, nil
}
