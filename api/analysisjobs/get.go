package analysisjobs

import (
	"errors"

	"github.com/gomantics/repolens/api/web"
	"github.com/gomantics/repolens/domains/insights"
	"github.com/gomantics/repolens/domains/jobs"
	"go.uber.org/zap"
)

// Summary aggregates insight counts by severity and category.
type Summary struct {
	Total      int            `json:"total"`
	BySeverity map[string]int `json:"by_severity"`
	ByCategory map[string]int `json:"by_category"`
}

// GetResponse is the polling response for an analysis job.
type GetResponse struct {
	ID        string             `json:"id"`
	Owner     string             `json:"owner"`
	Name      string             `json:"name"`
	URL       string             `json:"url"`
	Status    string             `json:"status"`
	Error     string             `json:"error,omitempty"`
	Insights  []insights.Insight `json:"insights,omitempty"`
	Summary   *Summary           `json:"summary,omitempty"`
	Created   int64              `json:"created"`
	Started   int64              `json:"started,omitempty"`
	Completed int64              `json:"completed,omitempty"`
}

// Handler serves job polling requests.
type Handler struct {
	Store jobs.Store
}

// Get handles GET /v1/jobs/:id
func (h *Handler) Get(c web.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")
	if id == "" {
		return c.BadRequest("invalid job id")
	}

	job, err := h.Store.Get(ctx, id)
	if errors.Is(err, jobs.ErrNotFound) {
		return c.NotFound("job not found")
	}
	if err != nil {
		c.L.Error("failed to get job", zap.String("job_id", id), zap.Error(err))
		return c.InternalError("failed to get job")
	}

	resp := GetResponse{
		ID:        job.ID,
		Owner:     job.Ref.Owner,
		Name:      job.Ref.Name,
		URL:       job.Ref.URL,
		Status:    job.Status.String(),
		Error:     job.Error,
		Created:   job.Created,
		Started:   job.Started,
		Completed: job.Completed,
	}

	if job.Status == jobs.StatusCompleted {
		resp.Insights = job.Insights
		resp.Summary = summarize(job.Insights)
	}

	return c.OK(resp)
}

func summarize(found []insights.Insight) *Summary {
	s := &Summary{
		Total:      len(found),
		BySeverity: make(map[string]int),
		ByCategory: make(map[string]int),
	}
	for _, ins := range found {
		s.BySeverity[string(ins.Severity)]++
		s.ByCategory[string(ins.Category)]++
	}
	return s
}
