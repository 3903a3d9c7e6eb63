package v1

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/mailmind/internal/aierr"
	"github.com/hrygo/mailmind/plugin/ai"
	"github.com/hrygo/mailmind/plugin/ai/assistant"
	mw "github.com/hrygo/mailmind/server/middleware"
)

// MaxBulkEmails bounds one bulk-generate request.
const MaxBulkEmails = 50

// EmailContentRequest is the body of analyze, summarize and suggest requests.
type EmailContentRequest struct {
	Content string `json:"content"`
	Model   string `json:"model"`
}

func (r *EmailContentRequest) toTask() *ai.TaskRequest {
	return &ai.TaskRequest{Content: r.Content, ModelPreference: r.Model}
}

// EmailGenerationRequest is the body of a reply request.
type EmailGenerationRequest struct {
	OriginalEmail      string `json:"original_email"`
	Context            string `json:"context"`
	Tone               string `json:"tone"`
	Model              string `json:"model"`
	CustomInstructions string `json:"custom_instructions"`
}

func (r *EmailGenerationRequest) toTask() *ai.TaskRequest {
	return &ai.TaskRequest{
		Content:            r.OriginalEmail,
		Context:            r.Context,
		Tone:               r.Tone,
		CustomInstructions: r.CustomInstructions,
		ModelPreference:    r.Model,
	}
}

// BulkGenerationRequest is the body of a bulk reply request. Parallel
// defaults to true.
type BulkGenerationRequest struct {
	Emails   []EmailGenerationRequest `json:"emails"`
	Parallel *bool                    `json:"parallel"`
}

// BulkGenerationResponse lists one item per email, in request order.
type BulkGenerationResponse struct {
	Results        []assistant.BulkItem `json:"results"`
	TotalProcessed int                  `json:"total_processed"`
}

// TemplateRequest is the body of a template request.
type TemplateRequest struct {
	TemplateType       string `json:"template_type"`
	Purpose            string `json:"purpose"`
	Tone               string `json:"tone"`
	Industry           string `json:"industry"`
	CustomInstructions string `json:"custom_instructions"`
	Model              string `json:"model"`
}

func (r *TemplateRequest) toTask() *ai.TaskRequest {
	return &ai.TaskRequest{
		TemplateType:       r.TemplateType,
		Purpose:            r.Purpose,
		Tone:               r.Tone,
		Industry:           r.Industry,
		CustomInstructions: r.CustomInstructions,
		ModelPreference:    r.Model,
	}
}

// AnalyzeEmail analyzes sentiment, urgency and tone of an email.
// POST /api/v1/analyze-email
func (s *APIV1Service) AnalyzeEmail(c echo.Context) error {
	var req EmailContentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	res, err := s.Stack.Service.Analyze(c.Request().Context(), req.toTask())
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// GenerateEmail drafts a reply to an email.
// POST /api/v1/generate-email
func (s *APIV1Service) GenerateEmail(c echo.Context) error {
	var req EmailGenerationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	res, err := s.Stack.Service.GenerateReply(c.Request().Context(), req.toTask())
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// BulkGenerate drafts replies for several emails.
// POST /api/v1/bulk-generate
func (s *APIV1Service) BulkGenerate(c echo.Context) error {
	var req BulkGenerationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(req.Emails) == 0 {
		return badRequest(c, "emails must not be empty")
	}
	if len(req.Emails) > MaxBulkEmails {
		return badRequest(c, "too many emails in one request")
	}

	tasks := make([]*ai.TaskRequest, len(req.Emails))
	for i := range req.Emails {
		tasks[i] = req.Emails[i].toTask()
	}
	parallel := req.Parallel == nil || *req.Parallel

	items := s.Stack.Service.GenerateReplies(c.Request().Context(), tasks, assistant.BulkOptions{Parallel: parallel})
	return c.JSON(http.StatusOK, BulkGenerationResponse{
		Results:        items,
		TotalProcessed: len(items),
	})
}

// Summarize condenses an email.
// POST /api/v1/summarize
func (s *APIV1Service) Summarize(c echo.Context) error {
	var req EmailContentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	res, err := s.Stack.Service.Summarize(c.Request().Context(), req.toTask())
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// SuggestImprovements reviews a draft.
// POST /api/v1/suggest-improvements
func (s *APIV1Service) SuggestImprovements(c echo.Context) error {
	var req EmailContentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	res, err := s.Stack.Service.SuggestImprovements(c.Request().Context(), req.toTask())
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// GenerateTemplate builds a reusable email template.
// POST /api/v1/generate-template
func (s *APIV1Service) GenerateTemplate(c echo.Context) error {
	var req TemplateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	res, err := s.Stack.Service.GenerateTemplate(c.Request().Context(), req.toTask())
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}

// taskError maps an orchestrator error to a response. Orchestrators only
// return validation errors; anything else is unexpected.
func taskError(c echo.Context, err error) error {
	if aierr.IsKind(err, aierr.KindValidation) {
		var e *aierr.Error
		if errors.As(err, &e) {
			return badRequest(c, e.Message)
		}
		return badRequest(c, err.Error())
	}
	slog.Error("task failed", "path", c.Path(), "request_id", mw.RequestIDFrom(c), "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
