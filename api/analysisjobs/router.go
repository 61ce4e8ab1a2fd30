package analysisjobs

import (
	"github.com/gomantics/repolens/api/web"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Configure sets up the job polling routes
func Configure(e *echo.Echo, l *zap.Logger, h *Handler) {
	e.GET("/v1/jobs/:id", web.Wrap(h.Get, l))
}
