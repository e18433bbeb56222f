package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"

	"github.com/vbonduro/assettracker/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

const (
	msgNotFound      = "Not found"
	msgAssetNotFound = "asset not found"
)

// handleError renders every failure as {"error": "..."}. Unexpected errors
// become a 500 carrying the backend's message.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := err.Error()

	var he *echo.HTTPError
	switch {
	case errors.Is(err, store.ErrNotFound):
		code = http.StatusNotFound
		msg = msgAssetNotFound
	case errors.As(err, &he):
		code = he.Code
		msg = fmt.Sprint(he.Message)
		if code == http.StatusNotFound && he.Message == http.StatusText(http.StatusNotFound) {
			msg = msgNotFound
		}
	}

	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"error", err,
		)
		if hub := sentryecho.GetHubFromContext(c); hub != nil {
			hub.WithScope(func(scope *sentry.Scope) {
				scope.SetExtra("path", c.Request().URL.Path)
				hub.CaptureException(err)
			})
		}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errorResponse{Error: msg})
	}
	if err != nil {
		s.logger.Error("failed to write error response", "error", err)
	}
}
