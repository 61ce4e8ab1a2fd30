// Package githost acquires repository content from git hosting services,
// either through the host's REST API or by shallow-cloning the repository.
package githost

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means the repository does not exist on the host.
	ErrNotFound = errors.New("repository not found")

	// ErrAccessDenied means the repository is private and the request was
	// unauthenticated or unauthorized.
	ErrAccessDenied = errors.New("repository access denied")

	// ErrUpstream covers transport failures and host-side 5xx responses.
	ErrUpstream = errors.New("upstream error")
)

// Ref identifies a remote repository once its URL has been resolved.
type Ref struct {
	Owner         string
	Name          string
	URL           string
	DefaultBranch string
}

// FileEntry is one node of the remote tree listing.
type FileEntry struct {
	Path      string
	SizeBytes int64
	IsBlob    bool
}

// FetchedFile pairs a tree entry with its downloaded content. Placeholder is
// set when the body could not be retrieved and Content holds a comment
// explaining why.
type FetchedFile struct {
	Entry       FileEntry
	Content     string
	Placeholder bool
}

// Listing is the result of fetching a repository: files in tree order after
// filtering, plus entries that were rejected for size.
type Listing struct {
	Ref              Ref
	Files            []FetchedFile
	TooLarge         []FileEntry
	AllFilesIncluded bool
}

// FetchParams controls filtering and resource bounds for a fetch.
type FetchParams struct {
	URL              string
	Token            string
	IncludePatterns  []string
	ExcludePatterns  []string
	MaxFileSizeBytes int64
	MaxFileCount     int
	BatchSize        int
}

// Fetcher retrieves a repository's tree and blob contents.
type Fetcher interface {
	Fetch(ctx context.Context, params FetchParams) (*Listing, error)
}
