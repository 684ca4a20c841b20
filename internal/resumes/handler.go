package resumes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/validation"
	"resume-builder/internal/users"
	"resume-builder/resume/sanitize"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to an authenticated router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/download/:id", h.download)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.POST("/:id/ai-suggestions", h.suggestions)
}

func principal(c *gin.Context) Principal {
	return Principal{
		UserID:  middleware.UserIDFromContext(c),
		IsAdmin: middleware.HasRole(c, users.RoleAdmin),
	}
}

func resumeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid resume id", nil)
		return 0, false
	}
	c.Set(middleware.ResumeIDKey, id)
	return id, true
}

func (h *Handler) list(c *gin.Context) {
	all := c.Query("all") == "1" || c.Query("all") == "true"
	items, err := h.Svc.List(c.Request.Context(), principal(c), all)
	if err != nil {
		writeError(c, err, "failed to list resumes")
		return
	}
	respond.JSON(c, http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := resumeID(c)
	if !ok {
		return
	}
	resume, err := h.Svc.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		writeError(c, err, "failed to load resume")
		return
	}
	respond.JSON(c, http.StatusOK, resume)
}

func (h *Handler) create(c *gin.Context) {
	var req resumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid resume payload", validation.FieldErrors(err))
		return
	}
	resume, err := h.Svc.Create(c.Request.Context(), principal(c), req.input())
	if err != nil {
		writeError(c, err, "failed to create resume")
		return
	}
	c.Set(middleware.ResumeIDKey, resume.ID)
	respond.Created(c, resume)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := resumeID(c)
	if !ok {
		return
	}
	var req resumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid resume payload", validation.FieldErrors(err))
		return
	}
	resume, err := h.Svc.Update(c.Request.Context(), principal(c), id, req.input())
	if err != nil {
		writeError(c, err, "failed to update resume")
		return
	}
	respond.JSON(c, http.StatusOK, resume)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := resumeID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), principal(c), id); err != nil {
		writeError(c, err, "failed to delete resume")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) download(c *gin.Context) {
	id, ok := resumeID(c)
	if !ok {
		return
	}
	doc, err := h.Svc.Download(c.Request.Context(), principal(c), id)
	if err != nil {
		writeError(c, err, "failed to render resume")
		return
	}
	respond.Attachment(c, doc.FileName, doc.ContentType, doc.Data)
}

func (h *Handler) suggestions(c *gin.Context) {
	id, ok := resumeID(c)
	if !ok {
		return
	}
	items, err := h.Svc.GenerateSuggestions(c.Request.Context(), principal(c), id)
	if err != nil {
		writeError(c, err, "failed to generate suggestions")
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"suggestions": items})
}

func writeError(c *gin.Context, err error, fallback string) {
	var verr *sanitize.ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Message(c, http.StatusBadRequest, verr.Reason, verr.Error())
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "you do not have access to this resume", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid input", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
