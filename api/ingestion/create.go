package ingestion

import (
	"context"
	"errors"
	"time"

	"github.com/gomantics/repolens/api/web"
	"github.com/gomantics/repolens/config"
	"github.com/gomantics/repolens/domains/ingest"
	"github.com/gomantics/repolens/domains/jobs"
	"github.com/gomantics/repolens/libs/githost"
	"go.uber.org/zap"
)

// CreateRequest is the request body for ingesting a repository.
// include_all_files disables the default exclude patterns; an explicit
// exclude list always applies.
type CreateRequest struct {
	URL             string   `json:"url"`
	Token           string   `json:"token,omitempty"`
	IncludePatterns []string `json:"include_patterns,omitempty"`
	ExcludePatterns []string `json:"exclude_patterns,omitempty"`
	IncludeAllFiles bool     `json:"include_all_files"`
}

// RepositorySummary describes the ingested repository in API responses.
type RepositorySummary struct {
	Owner            string `json:"owner"`
	Name             string `json:"name"`
	URL              string `json:"url"`
	DefaultBranch    string `json:"default_branch"`
	FileCount        int    `json:"file_count"`
	TotalSizeBytes   int64  `json:"total_size_bytes"`
	AllFilesIncluded bool   `json:"all_files_included"`
	Tree             string `json:"tree"`
}

// CreateResponse is the response for a successful ingestion.
type CreateResponse struct {
	Repository RepositorySummary `json:"repository"`
	JobID      string            `json:"job_id"`
}

// Handler serves ingestion requests.
type Handler struct {
	Fetcher githost.Fetcher
	Store   jobs.Store
}

// Create handles POST /v1/ingest: it fetches and assembles the repository
// synchronously, creates a pending analysis job, and returns immediately.
// The analysis itself runs on the background workers.
func (h *Handler) Create(c web.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return c.BadRequest("invalid request body")
	}

	if req.URL == "" {
		return c.BadRequest("url is required")
	}
	if err := githost.ValidateRepoURL(req.URL); err != nil {
		return c.BadRequest(err.Error())
	}

	token := req.Token
	if token == "" {
		token = config.Github.Token()
	}

	excludes := req.ExcludePatterns
	if !req.IncludeAllFiles {
		excludes = append(excludes, githost.DefaultExcludePatterns...)
	}

	ctx, cancel := context.WithTimeout(
		c.Request().Context(),
		time.Duration(config.Ingestion.FetchTimeoutMs())*time.Millisecond,
	)
	defer cancel()

	repo, err := ingest.Ingest(ctx, c.L, h.Fetcher, ingest.Params{
		URL:              req.URL,
		Token:            token,
		IncludePatterns:  req.IncludePatterns,
		ExcludePatterns:  excludes,
		MaxFileSizeBytes: config.Ingestion.MaxFileSizeBytes(),
		MaxFileCount:     config.Ingestion.MaxFileCount(),
		BatchSize:        config.Ingestion.FetchBatchSize(),
	})
	switch {
	case errors.Is(err, githost.ErrNotFound):
		return c.NotFound("repository not found")
	case errors.Is(err, githost.ErrAccessDenied):
		return c.Forbidden("repository access denied; provide a token for private repositories")
	case errors.Is(err, githost.ErrUpstream):
		c.L.Error("upstream fetch failed", zap.String("url", req.URL), zap.Error(err))
		return c.BadGateway("source host is unavailable")
	case err != nil:
		c.L.Error("ingestion failed", zap.String("url", req.URL), zap.Error(err))
		return c.InternalError("failed to ingest repository")
	}

	job := jobs.New(repo)
	if err := h.Store.Create(ctx, job); err != nil {
		c.L.Error("failed to create job", zap.Error(err))
		return c.InternalError("failed to create analysis job")
	}

	c.L.Info("analysis job created",
		zap.String("job_id", job.ID),
		zap.String("url", req.URL),
		zap.Int("files", repo.FileCount),
	)

	return c.Created(CreateResponse{
		Repository: RepositorySummary{
			Owner:            repo.Ref.Owner,
			Name:             repo.Ref.Name,
			URL:              repo.Ref.URL,
			DefaultBranch:    repo.Ref.DefaultBranch,
			FileCount:        repo.FileCount,
			TotalSizeBytes:   repo.TotalSizeBytes,
			AllFilesIncluded: repo.AllFilesIncluded,
			Tree:             repo.TreeText,
		},
		JobID: job.ID,
	})
}
