package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// Rate limit groups.
const (
	GroupDefault = "DEFAULT"
	GroupAuth    = "AUTH"
	GroupRender  = "RENDER"
)

// DefaultRateLimits are the per-principal budgets for each group.
var DefaultRateLimits = map[string]middleware.RateLimitRule{
	GroupDefault: {Rate: 10, Burst: 60},
	GroupAuth:    {Rate: 0.2, Burst: 10},
	GroupRender:  {Rate: 0.5, Burst: 10},
}

// RouteRegistrar mounts a feature's routes on a group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// AuthRouteRegistrar mounts the public sign-in routes.
type AuthRouteRegistrar interface {
	RegisterAuthRoutes(rg *gin.RouterGroup)
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries everything NewRouter wires.
type RouterDeps struct {
	Config      config.Config
	Tokens      middleware.TokenVerifier
	Health      *health.Service
	Users       AuthRouteRegistrar
	Resumes     RouteRegistrar
	Admin       RouteRegistrar
	GoogleAuth  RouteRegistrar
	AdminRole   string
	RateLimits  map[string]middleware.RateLimitRule
	RateLimiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	limits := deps.RateLimits
	if limits == nil {
		limits = DefaultRateLimits
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/healthz", func(c *gin.Context) {
		report := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})
	r.GET("/metrics", metrics.Handler())

	limit := middleware.RateLimit(middleware.RateLimitConfig{
		Rules:        limits,
		DefaultGroup: GroupDefault,
		GroupFor:     rateLimitGroup,
		Limiter:      deps.RateLimiter,
	})

	public := r.Group("/api", limit)
	if deps.Users != nil {
		deps.Users.RegisterAuthRoutes(public.Group("/auth"))
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(public)
	}

	// Auth runs before the limiter so authenticated callers are keyed by user.
	authed := r.Group("/api", middleware.Auth(deps.Tokens), limit)
	if deps.Users != nil {
		deps.Users.RegisterRoutes(authed)
	}
	if deps.Resumes != nil {
		deps.Resumes.RegisterRoutes(authed.Group("/resumes"))
	}
	if deps.Admin != nil {
		role := deps.AdminRole
		if role == "" {
			role = "Admin"
		}
		deps.Admin.RegisterRoutes(authed.Group("/admin", middleware.RequireRole(role)))
	}

	return r
}

func rateLimitGroup(c *gin.Context) string {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	switch {
	case strings.HasPrefix(path, "/api/auth/"):
		return GroupAuth
	case strings.HasPrefix(path, "/api/resumes/download/"),
		strings.HasSuffix(path, "/ai-suggestions"):
		return GroupRender
	default:
		return GroupDefault
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
