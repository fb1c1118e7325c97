package router

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/DjordjeVuckovic/news-board/internal/apperr"
	"github.com/DjordjeVuckovic/news-board/internal/workspace"
	"github.com/labstack/echo/v4"
)

// WorkspaceRouter serves the chat transcript and user preferences.
type WorkspaceRouter struct {
	g        *echo.Group
	registry *workspace.Registry
}

func NewWorkspaceRouter(g *echo.Group, registry *workspace.Registry) *WorkspaceRouter {
	return &WorkspaceRouter{g: g, registry: registry}
}

func (r *WorkspaceRouter) Bind() {
	r.g.GET("/chat/history", r.history)
	r.g.DELETE("/chat/history", r.clearHistory)
	r.g.GET("/prefs/:key", r.getPref)
	r.g.PUT("/prefs/:key", r.putPref)
}

// history godoc
// @Summary Chat transcript
// @Tags chat
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} domain.ChatMessage
// @Router /api/chat/history [get]
func (r *WorkspaceRouter) history(c echo.Context) error {
	ws, err := currentWorkspace(c, r.registry)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ws.Chat().List())
}

// clearHistory godoc
// @Summary Clear the chat transcript
// @Tags chat
// @Security ApiKeyAuth
// @Success 204
// @Router /api/chat/history [delete]
func (r *WorkspaceRouter) clearHistory(c echo.Context) error {
	ws, err := currentWorkspace(c, r.registry)
	if err != nil {
		return err
	}
	ws.Chat().Clear()
	return c.NoContent(http.StatusNoContent)
}

// getPref godoc
// @Summary Read a preference
// @Tags prefs
// @Produce json
// @Security ApiKeyAuth
// @Param key path string true "debug, newsViewMode, gridLayouts or preferredLayout"
// @Success 200 {object} any
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /api/prefs/{key} [get]
func (r *WorkspaceRouter) getPref(c echo.Context) error {
	ws, err := currentWorkspace(c, r.registry)
	if err != nil {
		return err
	}

	v, err := ws.Pref(c.Request().Context(), c.Param("key"))
	if err != nil {
		return err
	}
	if v == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSONBlob(http.StatusOK, v)
}

// putPref godoc
// @Summary Store a preference
// @Tags prefs
// @Accept json
// @Security ApiKeyAuth
// @Param key path string true "debug, newsViewMode, gridLayouts or preferredLayout"
// @Param value body any true "JSON value"
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /api/prefs/{key} [put]
func (r *WorkspaceRouter) putPref(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 1<<20))
	if err != nil {
		return apperr.NewValidationWrap("invalid body", err)
	}

	ws, err := currentWorkspace(c, r.registry)
	if err != nil {
		return err
	}

	if err := ws.SetPref(c.Request().Context(), c.Param("key"), json.RawMessage(body)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
