package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/validation"
)

// TokenSigner issues bearer tokens for authenticated users.
type TokenSigner interface {
	Sign(claims auth.Claims) (string, error)
}

type Handler struct {
	Svc    *Service
	Tokens TokenSigner
}

func NewHandler(svc *Service, tokens TokenSigner) *Handler {
	return &Handler{Svc: svc, Tokens: tokens}
}

// RegisterAuthRoutes mounts the public register and login endpoints.
func (h *Handler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
}

// RegisterRoutes mounts the authenticated profile endpoint.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

func (h *Handler) register(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid registration payload", validation.FieldErrors(err))
		return
	}

	if _, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password, req.FullName); err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			respond.Message(c, http.StatusBadRequest, "email_taken", "Email is already registered.")
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "invalid_request", "email and password are required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to register user", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, respond.MessageResponse{Message: "Registration successful"})
}

func (h *Handler) login(c *gin.Context) {
	if h.Svc == nil || h.Tokens == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid login payload", validation.FieldErrors(err))
		return
	}

	user, err := h.Svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			respond.Message(c, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password.")
		case errors.Is(err, ErrLocked):
			respond.Message(c, http.StatusForbidden, "account_locked", "Account is locked.")
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to authenticate", nil)
		}
		return
	}

	token, err := h.Tokens.Sign(Claims(user))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}
	respond.JSON(c, http.StatusOK, loginResponse{
		Token: token,
		Role:  user.PrimaryRole(),
		Email: user.Email,
		Name:  user.FullName,
	})
}

func (h *Handler) me(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	roles := user.Roles
	if roles == nil {
		roles = []string{}
	}
	respond.JSON(c, http.StatusOK, meResponse{
		ID:         user.ID,
		Email:      user.Email,
		FullName:   user.FullName,
		PictureURL: user.PictureURL,
		Roles:      roles,
	})
}
