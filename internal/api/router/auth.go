package router

import (
	"errors"
	"net/http"

	"github.com/DjordjeVuckovic/news-board/internal/apperr"
	"github.com/DjordjeVuckovic/news-board/internal/domain"
	"github.com/DjordjeVuckovic/news-board/internal/middleware"
	"github.com/DjordjeVuckovic/news-board/internal/session"
	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	e        *echo.Echo
	sessions *session.Manager
}

func NewAuthRouter(e *echo.Echo, sessions *session.Manager) *AuthRouter {
	return &AuthRouter{e: e, sessions: sessions}
}

func (r *AuthRouter) Bind() {
	r.e.POST("/login", r.login)

	auth := middleware.RequireSession(r.sessions)
	r.e.POST("/me", r.me, auth)
	r.e.POST("/logout", r.logout, auth)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string         `json:"token"`
	User  domain.Session `json:"user"`
}

// login godoc
// @Summary Log in
// @Description Exchanges a username and password for a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /login [post]
func (r *AuthRouter) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	token, s, err := r.sessions.Login(req.Username, req.Password)
	if err != nil {
		var ve *apperr.ValidationError
		if errors.As(err, &ve) {
			return err
		}
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token, User: s})
}

// me godoc
// @Summary Current session
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} domain.Session
// @Failure 401 {object} map[string]string
// @Router /me [post]
func (r *AuthRouter) me(c echo.Context) error {
	s, _ := middleware.SessionFrom(c)
	return c.JSON(http.StatusOK, s)
}

// logout godoc
// @Summary Log out
// @Tags auth
// @Security ApiKeyAuth
// @Success 204
// @Router /logout [post]
func (r *AuthRouter) logout(c echo.Context) error {
	r.sessions.Logout(middleware.TokenFrom(c))
	return c.NoContent(http.StatusNoContent)
}
