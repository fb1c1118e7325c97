package middleware

import (
	"strings"

	"github.com/DjordjeVuckovic/news-board/internal/apperr"
	"github.com/DjordjeVuckovic/news-board/internal/domain"
	"github.com/labstack/echo/v4"
)

const (
	sessionKey = "session"
	tokenKey   = "session_token"
)

type SessionValidator interface {
	Validate(token string) (domain.Session, bool)
}

// TokenFromHeader accepts "Bearer <token>" as well as a bare token.
func TokenFromHeader(h string) string {
	h = strings.TrimSpace(h)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return h
}

// RequireSession rejects requests without a live session and stores the session
// in the echo context.
func RequireSession(v SessionValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := TokenFromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			s, ok := v.Validate(token)
			if !ok {
				return apperr.ErrUnauthorized
			}
			c.Set(sessionKey, s)
			c.Set(tokenKey, token)
			return next(c)
		}
	}
}

func SessionFrom(c echo.Context) (domain.Session, bool) {
	s, ok := c.Get(sessionKey).(domain.Session)
	return s, ok
}

func TokenFrom(c echo.Context) string {
	t, _ := c.Get(tokenKey).(string)
	return t
}
