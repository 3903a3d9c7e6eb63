package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hrygo/mailmind/internal/profile"
	"github.com/hrygo/mailmind/plugin/ai/assistant"
	"github.com/hrygo/mailmind/plugin/ai/metrics"
	mw "github.com/hrygo/mailmind/server/middleware"
)

// APIV1Service serves the email assistant under /api/v1.
type APIV1Service struct {
	Profile *profile.Profile
	Stack   *assistant.Stack
	Metrics metrics.MetricsService

	rateLimiter *mw.RateLimiter
}

func NewAPIV1Service(profile *profile.Profile, stack *assistant.Stack, metricsService metrics.MetricsService) *APIV1Service {
	return &APIV1Service{
		Profile:     profile,
		Stack:       stack,
		Metrics:     metricsService,
		rateLimiter: mw.NewRateLimiter(profile.RateLimit, profile.RateBurst),
	}
}

// RegisterRoutes registers every /api/v1 route with the given Echo instance.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	g := echoServer.Group("/api/v1")
	g.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"*"},
	}))

	g.GET("/health", s.Health)
	g.GET("/models", s.ListModels)
	g.GET("/stats", s.GetMetricsOverview)

	// Task endpoints spend provider tokens and are rate limited per client.
	tasks := g.Group("", mw.RateLimit(s.rateLimiter))
	tasks.POST("/analyze-email", s.AnalyzeEmail)
	tasks.POST("/generate-email", s.GenerateEmail)
	tasks.POST("/bulk-generate", s.BulkGenerate)
	tasks.POST("/summarize", s.Summarize)
	tasks.POST("/suggest-improvements", s.SuggestImprovements)
	tasks.POST("/generate-template", s.GenerateTemplate)
}
