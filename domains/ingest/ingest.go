// Package ingest turns a fetched repository listing into the read-only
// artifact the analysis pipeline consumes.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/gomantics/repolens/libs/githost"
	"github.com/gomantics/repolens/libs/treeview"
	"go.uber.org/zap"
)

// Params controls a single ingestion.
type Params struct {
	URL              string
	Token            string
	IncludePatterns  []string
	ExcludePatterns  []string
	MaxFileSizeBytes int64
	MaxFileCount     int
	BatchSize        int
}

// Ingest fetches the repository and assembles the ingestion artifact.
// Repository-level fetch failures surface to the caller; per-file failures
// have already been degraded to placeholders by the fetcher.
func Ingest(ctx context.Context, l *zap.Logger, fetcher githost.Fetcher, params Params) (*Repository, error) {
	listing, err := fetcher.Fetch(ctx, githost.FetchParams{
		URL:              params.URL,
		Token:            params.Token,
		IncludePatterns:  params.IncludePatterns,
		ExcludePatterns:  params.ExcludePatterns,
		MaxFileSizeBytes: params.MaxFileSizeBytes,
		MaxFileCount:     params.MaxFileCount,
		BatchSize:        params.BatchSize,
	})
	if err != nil {
		return nil, err
	}

	repo := Assemble(listing)

	l.Info("repository ingested",
		zap.String("owner", repo.Ref.Owner),
		zap.String("repo", repo.Ref.Name),
		zap.Int("files", repo.FileCount),
		zap.Int64("total_bytes", repo.TotalSizeBytes),
		zap.Int("too_large", len(listing.TooLarge)),
		zap.Bool("all_files_included", repo.AllFilesIncluded),
	)

	return repo, nil
}

// Assemble builds the artifact from a listing: tree text over included
// paths, and the concatenation of file bodies with per-file headers.
func Assemble(listing *githost.Listing) *Repository {
	paths := make([]string, len(listing.Files))
	files := make([]githost.FileEntry, len(listing.Files))

	var b strings.Builder
	var totalBytes int64

	for i, f := range listing.Files {
		paths[i] = f.Entry.Path
		files[i] = f.Entry

		fmt.Fprintf(&b, "===== %s =====\n", f.Entry.Path)
		b.WriteString(f.Content)
		if !strings.HasSuffix(f.Content, "\n") {
			b.WriteByte('\n')
		}
		b.WriteByte('\n')

		totalBytes += int64(len(f.Content))
	}

	return &Repository{
		Ref:              listing.Ref,
		Files:            files,
		TreeText:         treeview.Render(paths),
		Content:          b.String(),
		FileCount:        len(files),
		TotalSizeBytes:   totalBytes,
		AllFilesIncluded: listing.AllFilesIncluded,
	}
}
