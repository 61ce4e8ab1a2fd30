package health

import (
	"github.com/gomantics/repolens/api/web"
	"github.com/gomantics/repolens/domains/jobs"
)

// GetResponse is the health check response
type GetResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// Handler serves health checks against the injected job store.
type Handler struct {
	Store jobs.Store
}

// Get handles GET /v1/health
func (h *Handler) Get(c web.Context) error {
	ctx := c.Request().Context()

	storeStatus := "ok"
	if err := h.Store.Ping(ctx); err != nil {
		storeStatus = "error: " + err.Error()
	}

	return c.OK(GetResponse{
		Status: "ok",
		Store:  storeStatus,
	})
}
