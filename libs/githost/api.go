package githost

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/go-github/v68/github"
	"go.uber.org/zap"
)

// APIFetcher retrieves repository content through the GitHub REST API:
// one call for repository metadata, one recursive tree listing, then one
// blob download per included file.
type APIFetcher struct {
	l       *zap.Logger
	baseURL string
}

// NewAPIFetcher creates an API-backed fetcher. baseURL overrides the GitHub
// endpoint when non-empty (GitHub Enterprise, tests).
func NewAPIFetcher(l *zap.Logger, baseURL string) *APIFetcher {
	return &APIFetcher{l: l, baseURL: baseURL}
}

type apiTreeEntry struct {
	FileEntry
	sha string
}

// Fetch implements Fetcher.
func (f *APIFetcher) Fetch(ctx context.Context, params FetchParams) (*Listing, error) {
	provider := DefaultRegistry.Detect(params.URL)
	if provider == nil {
		return nil, errUnsupportedProvider(params.URL)
	}
	if err := provider.ValidateURL(params.URL); err != nil {
		return nil, err
	}
	owner, name := provider.ParseURL(params.URL)

	client := github.NewClient(nil)
	if params.Token != "" {
		client = client.WithAuthToken(params.Token)
	}
	if f.baseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(f.baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid github base URL: %w", err)
		}
		client.BaseURL = base
	}

	repo, _, err := client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, classifyGitHubError(err)
	}
	branch := repo.GetDefaultBranch()
	if branch == "" {
		branch = "main"
	}

	ref := Ref{
		Owner:         owner,
		Name:          name,
		URL:           params.URL,
		DefaultBranch: branch,
	}

	tree, _, err := client.Git.GetTree(ctx, owner, name, branch, true)
	if err != nil {
		return nil, classifyGitHubError(err)
	}
	if tree.GetTruncated() {
		f.l.Warn("tree listing truncated by upstream",
			zap.String("owner", owner),
			zap.String("repo", name),
		)
	}

	var entries []apiTreeEntry
	for _, te := range tree.Entries {
		entries = append(entries, apiTreeEntry{
			FileEntry: FileEntry{
				Path:      te.GetPath(),
				SizeBytes: int64(te.GetSize()),
				IsBlob:    te.GetType() == "blob",
			},
			sha: te.GetSHA(),
		})
	}

	listing := &Listing{Ref: ref, AllFilesIncluded: true}

	var selected []apiTreeEntry
	for _, e := range entries {
		if !e.IsBlob {
			continue
		}
		if !MatchesFilters(e.Path, params.IncludePatterns, params.ExcludePatterns) {
			continue
		}
		if params.MaxFileSizeBytes > 0 && e.SizeBytes > params.MaxFileSizeBytes {
			listing.TooLarge = append(listing.TooLarge, e.FileEntry)
			continue
		}
		selected = append(selected, e)
	}

	if params.MaxFileCount > 0 && len(selected) > params.MaxFileCount {
		selected = selected[:params.MaxFileCount]
		listing.AllFilesIncluded = false
	}

	listing.Files, err = f.fetchBodies(ctx, client, owner, name, selected, params.BatchSize)
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// fetchBodies downloads blob contents in batches of batchSize to respect
// upstream rate limits. A failed download degrades to a placeholder, but a
// cancelled context aborts the whole fetch: a partially filled listing must
// never reach the caller as a success.
func (f *APIFetcher) fetchBodies(ctx context.Context, client *github.Client, owner, name string, entries []apiTreeEntry, batchSize int) ([]FetchedFile, error) {
	if batchSize <= 0 {
		batchSize = 10
	}

	files := make([]FetchedFile, len(entries))

	for start := 0; start < len(entries); start += batchSize {
		end := min(start+batchSize, len(entries))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				files[i] = f.fetchBody(ctx, client, owner, name, entries[i])
			}(i)
		}
		wg.Wait()

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: fetch aborted: %v", ErrUpstream, err)
		}
	}

	return files, nil
}

func (f *APIFetcher) fetchBody(ctx context.Context, client *github.Client, owner, name string, entry apiTreeEntry) FetchedFile {
	raw, _, err := client.Git.GetBlobRaw(ctx, owner, name, entry.sha)
	if err != nil {
		f.l.Warn("failed to fetch file content",
			zap.String("path", entry.Path),
			zap.Error(err),
		)
		return FetchedFile{
			Entry:       entry.FileEntry,
			Content:     fmt.Sprintf("// content unavailable for %s: fetch failed", entry.Path),
			Placeholder: true,
		}
	}

	if !utf8.Valid(raw) {
		return FetchedFile{
			Entry:       entry.FileEntry,
			Content:     fmt.Sprintf("// binary content omitted for %s", entry.Path),
			Placeholder: true,
		}
	}

	return FetchedFile{Entry: entry.FileEntry, Content: string(raw)}
}

// classifyGitHubError maps go-github errors onto the fetch error taxonomy.
func classifyGitHubError(err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: rate limited until %s", ErrUpstream, rateErr.Rate.Reset)
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case 404:
			return fmt.Errorf("%w: %s", ErrNotFound, respErr.Message)
		case 401, 403:
			return fmt.Errorf("%w: %s", ErrAccessDenied, respErr.Message)
		}
		return fmt.Errorf("%w: status %d: %s", ErrUpstream, respErr.Response.StatusCode, respErr.Message)
	}

	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
