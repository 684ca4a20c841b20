package admin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/users"
)

type httpEnv struct {
	fixture
	router *gin.Engine
	tokens *auth.Tokens
}

func setupRouter(t *testing.T) httpEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := seeded(t)
	tokens, err := auth.NewTokens(auth.TokenConfig{Secret: "test-secret", TTL: time.Hour})
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	r := gin.New()
	g := r.Group("/api/admin")
	g.Use(middleware.Auth(tokens), middleware.RequireRole(users.RoleAdmin))
	NewHandler(f.svc).RegisterRoutes(g)
	return httpEnv{fixture: f, router: r, tokens: tokens}
}

func (e httpEnv) request(t *testing.T, method, path, userID string, roles []string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	tok, err := e.tokens.Sign(auth.Claims{Sub: userID, Roles: roles})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e httpEnv) asAdmin(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	return e.request(t, method, path, "u-ada", []string{users.RoleAdmin}, body)
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	msg, _ := body["message"].(string)
	return msg
}

func TestAdminRequiresRole(t *testing.T) {
	env := setupRouter(t)
	w := env.request(t, http.MethodGet, "/api/admin/users", "u-bob", []string{users.RoleRegisteredUser}, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestAdminUsersAndMetrics(t *testing.T) {
	env := setupRouter(t)

	w := env.asAdmin(t, http.MethodGet, "/api/admin/users", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var list []UserSummary
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 || list[0].Email != "ada@example.com" {
		t.Fatalf("unexpected users: %+v", list)
	}

	w = env.asAdmin(t, http.MethodGet, "/api/admin/metrics", nil)
	var m Metrics
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m.TotalUsers != 2 || m.TotalResumes != 4 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
}

func TestAdminRoleEndpoints(t *testing.T) {
	env := setupRouter(t)

	w := env.asAdmin(t, http.MethodPost, "/api/admin/users/u-bob/roles", map[string]string{"role": ""})
	if w.Code != http.StatusBadRequest || decodeMessage(t, w) != "Role is required." {
		t.Fatalf("expected role required, got %d %s", w.Code, w.Body.String())
	}

	w = env.asAdmin(t, http.MethodPost, "/api/admin/users/nobody/roles", map[string]string{"role": "Editor"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w = env.asAdmin(t, http.MethodPost, "/api/admin/users/u-bob/roles", map[string]string{"role": "Editor"})
	if w.Code != http.StatusOK || decodeMessage(t, w) != "Role updated" {
		t.Fatalf("unexpected set role response: %d %s", w.Code, w.Body.String())
	}

	w = env.asAdmin(t, http.MethodPost, "/api/admin/users/u-bob/add-role", map[string]string{"role": "Admin"})
	if w.Code != http.StatusOK || decodeMessage(t, w) != "Role added" {
		t.Fatalf("unexpected add role response: %d %s", w.Code, w.Body.String())
	}

	w = env.asAdmin(t, http.MethodDelete, "/api/admin/users/u-bob/roles/Editor", nil)
	if w.Code != http.StatusOK || decodeMessage(t, w) != "Role removed" {
		t.Fatalf("unexpected remove role response: %d %s", w.Code, w.Body.String())
	}

	w = env.asAdmin(t, http.MethodDelete, "/api/admin/users/u-ada/roles/Admin", nil)
	if w.Code != http.StatusBadRequest || decodeMessage(t, w) != "You cannot remove your own Admin role." {
		t.Fatalf("expected self removal rejection, got %d %s", w.Code, w.Body.String())
	}
}

func TestAdminLockEndpoint(t *testing.T) {
	env := setupRouter(t)

	w := env.asAdmin(t, http.MethodPost, "/api/admin/users/u-bob/lock", map[string]bool{"locked": true})
	if w.Code != http.StatusOK || decodeMessage(t, w) != "User locked" {
		t.Fatalf("unexpected lock response: %d %s", w.Code, w.Body.String())
	}
	w = env.asAdmin(t, http.MethodPost, "/api/admin/users/u-bob/lock", map[string]bool{"locked": false})
	if w.Code != http.StatusOK || decodeMessage(t, w) != "User unlocked" {
		t.Fatalf("unexpected unlock response: %d %s", w.Code, w.Body.String())
	}
	w = env.asAdmin(t, http.MethodPost, "/api/admin/users/nobody/lock", map[string]bool{"locked": true})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAdminResumeEndpoints(t *testing.T) {
	env := setupRouter(t)

	w := env.asAdmin(t, http.MethodGet, "/api/admin/resumes?page=1&pageSize=2&sortBy=title&sortDir=asc", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var page ResumePage
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 3 || page.TotalPages != 2 || !page.HasNextPage || len(page.Items) != 2 || page.Items[0].Title != "Analyst" {
		t.Fatalf("unexpected page: %+v", page)
	}

	w = env.asAdmin(t, http.MethodGet, "/api/admin/resumes?pageSize=abc", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &page)
	if page.PageSize != 20 {
		t.Fatalf("expected default page size, got %d", page.PageSize)
	}

	w = env.asAdmin(t, http.MethodGet, "/api/admin/resumes/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var detail map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &detail)
	if _, ok := detail["aiSuggestionsJson"]; !ok {
		t.Fatalf("expected aiSuggestionsJson key in %v", detail)
	}

	if w := env.asAdmin(t, http.MethodGet, "/api/admin/resumes/404", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w = env.asAdmin(t, http.MethodGet, "/api/admin/resumes/stats", nil)
	var st ResumeStats
	_ = json.Unmarshal(w.Body.Bytes(), &st)
	if w.Code != http.StatusOK || st.TotalResumes != 4 {
		t.Fatalf("unexpected stats: %d %+v", w.Code, st)
	}

	w = env.asAdmin(t, http.MethodGet, "/api/admin/resumes/templates", nil)
	var usage []TemplateUsage
	_ = json.Unmarshal(w.Body.Bytes(), &usage)
	if w.Code != http.StatusOK || len(usage) != 3 {
		t.Fatalf("unexpected template usage: %d %+v", w.Code, usage)
	}

	w = env.asAdmin(t, http.MethodGet, "/api/admin/users/activity", nil)
	var activity []UserActivity
	_ = json.Unmarshal(w.Body.Bytes(), &activity)
	if w.Code != http.StatusOK || len(activity) != 2 {
		t.Fatalf("unexpected activity: %d %+v", w.Code, activity)
	}
}
