package ingestion

import (
	"github.com/gomantics/repolens/api/web"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Configure sets up the ingestion routes
func Configure(e *echo.Echo, l *zap.Logger, h *Handler) {
	e.POST("/v1/ingest", web.Wrap(h.Create, l))
}
