package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DjordjeVuckovic/news-board/internal/apperr"
	"github.com/DjordjeVuckovic/news-board/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapValidator map[string]domain.Session

func (m mapValidator) Validate(token string) (domain.Session, bool) {
	s, ok := m[token]
	return s, ok
}

func TestTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", TokenFromHeader("Bearer abc"))
	assert.Equal(t, "abc", TokenFromHeader("bearer  abc "))
	assert.Equal(t, "abc", TokenFromHeader("abc"))
	assert.Empty(t, TokenFromHeader(""))
}

func TestRequireSession(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	v := mapValidator{"good": {Username: "alice", Role: domain.RoleTestUser}}

	e.GET("/me", func(c echo.Context) error {
		s, ok := SessionFrom(c)
		require.True(t, ok)
		assert.Equal(t, "good", TokenFrom(c))
		return c.String(http.StatusOK, s.Username)
	}, RequireSession(v))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "bearer", header: "Bearer good", want: http.StatusOK},
		{name: "raw token", header: "good", want: http.StatusOK},
		{name: "unknown", header: "Bearer bad", want: http.StatusUnauthorized},
		{name: "missing", header: "", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
