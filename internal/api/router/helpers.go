package router

import (
	"github.com/DjordjeVuckovic/news-board/internal/apperr"
	"github.com/DjordjeVuckovic/news-board/internal/middleware"
	"github.com/DjordjeVuckovic/news-board/internal/workspace"
	"github.com/labstack/echo/v4"
)

// currentWorkspace resolves the workspace of the authenticated user.
func currentWorkspace(c echo.Context, registry *workspace.Registry) (*workspace.Workspace, error) {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return nil, apperr.ErrUnauthorized
	}
	return registry.Get(c.Request().Context(), s.Username)
}
