package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// Handler serves /api/admin. Routes must be mounted behind Auth and RequireRole(Admin).
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", h.listUsers)
	rg.GET("/users/activity", h.userActivity)
	rg.GET("/metrics", h.metrics)
	rg.POST("/users/:id/roles", h.setRole)
	rg.POST("/users/:id/add-role", h.addRole)
	rg.DELETE("/users/:id/roles/:role", h.removeRole)
	rg.POST("/users/:id/lock", h.lock)
	rg.GET("/resumes", h.searchResumes)
	rg.GET("/resumes/stats", h.resumeStats)
	rg.GET("/resumes/templates", h.templateUsage)
	rg.GET("/resumes/:id", h.getResume)
}

type roleRequest struct {
	Role string `json:"role"`
}

type lockRequest struct {
	Locked bool `json:"locked"`
}

func (h *Handler) listUsers(c *gin.Context) {
	list, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to list users")
		return
	}
	respond.OK(c, list)
}

func (h *Handler) metrics(c *gin.Context) {
	m, err := h.Svc.Metrics(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to load metrics")
		return
	}
	respond.OK(c, m)
}

func (h *Handler) setRole(c *gin.Context) {
	var req roleRequest
	_ = c.ShouldBindJSON(&req)
	if err := h.Svc.SetRole(c.Request.Context(), c.Param("id"), req.Role); err != nil {
		writeError(c, err, "failed to update role")
		return
	}
	respond.OK(c, respond.MessageResponse{Message: "Role updated"})
}

func (h *Handler) addRole(c *gin.Context) {
	var req roleRequest
	_ = c.ShouldBindJSON(&req)
	if err := h.Svc.AddRole(c.Request.Context(), c.Param("id"), req.Role); err != nil {
		writeError(c, err, "failed to add role")
		return
	}
	respond.OK(c, respond.MessageResponse{Message: "Role added"})
}

func (h *Handler) removeRole(c *gin.Context) {
	actor := middleware.UserIDFromContext(c)
	if err := h.Svc.RemoveRole(c.Request.Context(), actor, c.Param("id"), c.Param("role")); err != nil {
		writeError(c, err, "failed to remove role")
		return
	}
	respond.OK(c, respond.MessageResponse{Message: "Role removed"})
}

func (h *Handler) lock(c *gin.Context) {
	var req lockRequest
	_ = c.ShouldBindJSON(&req)
	if err := h.Svc.SetLocked(c.Request.Context(), c.Param("id"), req.Locked); err != nil {
		writeError(c, err, "failed to change lock")
		return
	}
	msg := "User unlocked"
	if req.Locked {
		msg = "User locked"
	}
	respond.OK(c, respond.MessageResponse{Message: msg})
}

func (h *Handler) searchResumes(c *gin.Context) {
	q := ResumeQuery{
		Page:          queryInt(c, "page", 1),
		PageSize:      queryInt(c, "pageSize", defaultPageSize),
		Q:             c.Query("q"),
		OwnerEmail:    c.Query("ownerEmail"),
		TemplateStyle: c.Query("templateStyle"),
		SortBy:        c.DefaultQuery("sortBy", "updatedAt"),
		SortDir:       c.DefaultQuery("sortDir", "desc"),
	}
	page, err := h.Svc.SearchResumes(c.Request.Context(), q)
	if err != nil {
		writeError(c, err, "failed to search resumes")
		return
	}
	respond.OK(c, page)
}

func (h *Handler) getResume(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid resume id", nil)
		return
	}
	c.Set(middleware.ResumeIDKey, id)
	detail, err := h.Svc.GetResume(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to load resume")
		return
	}
	respond.OK(c, detail)
}

func (h *Handler) resumeStats(c *gin.Context) {
	st, err := h.Svc.ResumeStats(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to load resume stats")
		return
	}
	respond.OK(c, st)
}

func (h *Handler) templateUsage(c *gin.Context) {
	list, err := h.Svc.TemplateUsage(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to load template usage")
		return
	}
	respond.OK(c, list)
}

func (h *Handler) userActivity(c *gin.Context) {
	list, err := h.Svc.UserActivity(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to load user activity")
		return
	}
	respond.OK(c, list)
}

// queryInt parses an integer query parameter; malformed values use def.
func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrRoleRequired):
		respond.Message(c, http.StatusBadRequest, "role_required", "Role is required.")
	case errors.Is(err, ErrSelfAdminRemoval):
		respond.Message(c, http.StatusBadRequest, "self_admin_removal", "You cannot remove your own Admin role.")
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
