package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/mailmind/plugin/ai"
	"github.com/hrygo/mailmind/plugin/ai/registry"
	"github.com/hrygo/mailmind/plugin/ai/router"
)

// ModelsResponse lists the model catalog.
type ModelsResponse struct {
	AvailableModels []string                            `json:"available_models"`
	DefaultModel    string                              `json:"default_model"`
	Priority        []string                            `json:"priority"`
	ModelDetails    map[string]registry.ModelDescriptor `json:"model_details"`
}

// HealthResponse reports which providers are configured. Providers are not
// probed, since a probe spends tokens.
type HealthResponse struct {
	Status          string          `json:"status"`
	Version         string          `json:"version"`
	Providers       map[string]bool `json:"providers"`
	AvailableModels int             `json:"available_models"`
	// Mode is "model" when at least one model is available, "fallback" otherwise.
	Mode string `json:"mode"`
}

// ListModels returns every catalog model with its availability.
// GET /api/v1/models
func (s *APIV1Service) ListModels(c echo.Context) error {
	return c.JSON(http.StatusOK, s.models())
}

func (s *APIV1Service) models() ModelsResponse {
	resp := ModelsResponse{
		AvailableModels: []string{},
		DefaultModel:    string(ai.MethodFallback),
		Priority:        s.Stack.Router.Priority(),
		ModelDetails:    make(map[string]registry.ModelDescriptor),
	}
	for _, m := range s.Stack.Registry.List() {
		resp.ModelDetails[m.ID] = m
		if m.Available {
			resp.AvailableModels = append(resp.AvailableModels, m.ID)
		}
	}
	if m, err := s.Stack.Router.Select(ai.TaskGenerateReply, router.PreferenceAuto, router.Hints{}); err == nil {
		resp.DefaultModel = m.ID
	}
	return resp
}

// Health reports service status.
// GET /api/v1/health
func (s *APIV1Service) Health(c echo.Context) error {
	providers := make(map[string]bool, len(ai.KnownProviders))
	for _, p := range ai.KnownProviders {
		providers[p] = false
	}
	available := s.Stack.Registry.ListAvailable()
	for _, m := range available {
		providers[m.Provider] = true
	}

	mode := "model"
	if len(available) == 0 {
		mode = string(ai.MethodFallback)
	}
	return c.JSON(http.StatusOK, HealthResponse{
		Status:          "healthy",
		Version:         s.Profile.Version,
		Providers:       providers,
		AvailableModels: len(available),
		Mode:            mode,
	})
}
