package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server/middleware"
)

type stubRoutes struct{}

func (stubRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") })
	rg.GET("/download/:id", func(c *gin.Context) { c.String(http.StatusOK, "pdf") })
}

type stubUsers struct{}

func (stubUsers) RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", func(c *gin.Context) { c.String(http.StatusOK, "token") })
}

func (stubUsers) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, middleware.UserIDFromContext(c)) })
}

func newTestRouter(t *testing.T, limits map[string]middleware.RateLimitRule) (*gin.Engine, *auth.Tokens) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens, err := auth.NewTokens(auth.TokenConfig{Secret: "test-secret", TTL: time.Hour})
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	r := NewRouter(RouterDeps{
		Config:      config.Config{CORSAllowOrigin: []string{"http://localhost:5173"}},
		Tokens:      tokens,
		Health:      health.NewService(nil),
		Users:       stubUsers{},
		Resumes:     stubRoutes{},
		Admin:       stubRoutes{},
		AdminRole:   "Admin",
		RateLimits:  limits,
		RateLimiter: middleware.NewRateLimiter(nil),
	})
	return r, tokens
}

func get(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sign(t *testing.T, tokens *auth.Tokens, sub string, roles ...string) string {
	t.Helper()
	tok, err := tokens.Sign(auth.Claims{Sub: sub, Roles: roles})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestHealthzAndMetrics(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := get(r, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var report health.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !report.OK || report.Storage != health.StorageMemory {
		t.Fatalf("unexpected report %+v", report)
	}

	w = get(r, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "resume_render_total") {
		t.Fatalf("unexpected metrics response %d: %s", w.Code, w.Body.String())
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, tokens := newTestRouter(t, nil)

	if w := get(r, http.MethodGet, "/api/resumes", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
	if w := get(r, http.MethodPost, "/api/auth/login", ""); w.Code != http.StatusOK {
		t.Fatalf("expected public login route, got %d", w.Code)
	}

	w := get(r, http.MethodGet, "/api/me", sign(t, tokens, "u-1"))
	if w.Code != http.StatusOK || w.Body.String() != "u-1" {
		t.Fatalf("unexpected /me response %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminRoutesRequireRole(t *testing.T) {
	r, tokens := newTestRouter(t, nil)

	if w := get(r, http.MethodGet, "/api/admin", sign(t, tokens, "u-1", "RegisteredUser")); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}
	if w := get(r, http.MethodGet, "/api/admin", sign(t, tokens, "u-2", "Admin")); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", w.Code)
	}
}

func TestRateLimitGroups(t *testing.T) {
	limits := map[string]middleware.RateLimitRule{
		GroupDefault: {Rate: 0.001, Burst: 5},
		GroupAuth:    {Rate: 0.001, Burst: 1},
		GroupRender:  {Rate: 0.001, Burst: 1},
	}
	r, tokens := newTestRouter(t, limits)
	tok := sign(t, tokens, "u-1")

	if w := get(r, http.MethodPost, "/api/auth/login", ""); w.Code != http.StatusOK {
		t.Fatalf("expected first login allowed, got %d", w.Code)
	}
	if w := get(r, http.MethodPost, "/api/auth/login", ""); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second login limited, got %d", w.Code)
	}

	if w := get(r, http.MethodGet, "/api/resumes/download/1", tok); w.Code != http.StatusOK {
		t.Fatalf("expected first download allowed, got %d", w.Code)
	}
	if w := get(r, http.MethodGet, "/api/resumes/download/1", tok); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second download limited, got %d", w.Code)
	}

	// Listing draws from the default bucket, untouched by the render budget.
	if w := get(r, http.MethodGet, "/api/resumes", tok); w.Code != http.StatusOK {
		t.Fatalf("expected list allowed, got %d", w.Code)
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
