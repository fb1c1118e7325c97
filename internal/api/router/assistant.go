package router

import (
	"net/http"
	"strings"

	"github.com/DjordjeVuckovic/news-board/internal/apperr"
	"github.com/DjordjeVuckovic/news-board/internal/assistant"
	"github.com/DjordjeVuckovic/news-board/internal/workspace"
	"github.com/labstack/echo/v4"
)

type AssistantRouter struct {
	g         *echo.Group
	completer assistant.Completer
	pipeline  *assistant.Pipeline
	registry  *workspace.Registry
}

func NewAssistantRouter(g *echo.Group, completer assistant.Completer, pipeline *assistant.Pipeline, registry *workspace.Registry) *AssistantRouter {
	return &AssistantRouter{g: g, completer: completer, pipeline: pipeline, registry: registry}
}

func (r *AssistantRouter) Bind() {
	r.g.POST("/grok", r.complete)
	r.g.POST("/assistant", r.submit)
}

type PromptRequest struct {
	Prompt string `json:"prompt"`
}

// complete godoc
// @Summary Raw chat completion
// @Description Forwards one prompt to the chat-completion model and returns its unmodified reply
// @Tags assistant
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body assistant.Request true "Prompt"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/grok [post]
func (r *AssistantRouter) complete(c echo.Context) error {
	var req assistant.Request
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return apperr.NewValidation("prompt is required")
	}

	reply, err := r.completer.Complete(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, reply.Raw)
}

// submit godoc
// @Summary Ask the assistant
// @Description Sends a prompt through the assistant pipeline; may add a card to the board
// @Tags assistant
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body PromptRequest true "Prompt"
// @Success 200 {object} assistant.Outcome
// @Failure 400 {object} map[string]string
// @Router /api/assistant [post]
func (r *AssistantRouter) submit(c echo.Context) error {
	var req PromptRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	ws, err := currentWorkspace(c, r.registry)
	if err != nil {
		return err
	}

	out, err := r.pipeline.Submit(c.Request().Context(), ws, req.Prompt)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
