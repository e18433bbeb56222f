package web

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleIndex(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", map[string]any{
		"Title": "Asset Tracker",
	})
}
