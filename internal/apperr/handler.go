package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := Render(err)
		if status >= http.StatusInternalServerError {
			slog.Error("Request failed", "path", c.Path(), "status", status, "error", err)
		}
		_ = c.JSON(status, body)
	}
}

// Render maps an error to its HTTP status and JSON body.
func Render(err error) (int, map[string]string) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, map[string]string{"error": ve.Message, "title": "validation error"}
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, map[string]string{"error": err.Error()}
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict, map[string]string{"error": "There was a problem creating the card. Please try again!"}
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, map[string]string{"error": "Not authenticated"}
	}

	var ue *UpstreamError
	if errors.As(err, &ue) {
		if ue.RateLimited() {
			return http.StatusTooManyRequests, map[string]string{"error": fmt.Sprintf("%s rate limit reached", ue.Service)}
		}
		return http.StatusBadGateway, map[string]string{"error": fmt.Sprintf("failed to fetch from %s", ue.Service)}
	}

	var ne *NetworkError
	if errors.As(err, &ne) {
		if ne.Timeout {
			return http.StatusGatewayTimeout, map[string]string{"error": fmt.Sprintf("%s request timed out", ne.Service)}
		}
		return http.StatusBadGateway, map[string]string{"error": fmt.Sprintf("%s is unavailable", ne.Service)}
	}

	var pe *ParseError
	if errors.As(err, &pe) {
		return http.StatusBadGateway, map[string]string{"error": fmt.Sprintf("unexpected response from %s", pe.Source)}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		return he.Code, map[string]string{"error": msg}
	}

	return http.StatusInternalServerError, map[string]string{"error": "internal server error"}
}
