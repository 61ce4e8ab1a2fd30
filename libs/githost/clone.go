package githost

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CloneFetcher retrieves repository content by shallow-cloning the
// repository and walking the working tree. It avoids per-file API calls at
// the cost of transferring the whole repository once.
type CloneFetcher struct {
	l        *zap.Logger
	cloneDir string
}

// NewCloneFetcher creates a clone-backed fetcher rooted at cloneDir.
func NewCloneFetcher(l *zap.Logger, cloneDir string) *CloneFetcher {
	return &CloneFetcher{l: l, cloneDir: cloneDir}
}

// Fetch implements Fetcher.
func (f *CloneFetcher) Fetch(ctx context.Context, params FetchParams) (*Listing, error) {
	provider := GetProviderForURL(params.URL, params.Token)
	if provider == nil {
		return nil, errUnsupportedProvider(params.URL)
	}
	if err := provider.ValidateURL(params.URL); err != nil {
		return nil, err
	}
	owner, name := provider.ParseURL(params.URL)

	destPath := filepath.Join(f.cloneDir, uuid.NewString())
	defer os.RemoveAll(destPath)

	f.l.Info("cloning repository",
		zap.String("provider", provider.Name()),
		zap.String("url", params.URL),
		zap.String("dest", destPath),
	)

	opts := &git.CloneOptions{
		URL:   provider.NormalizeURL(params.URL),
		Depth: 1, // Shallow clone for efficiency
	}
	if auth := provider.Auth(); auth != nil {
		opts.Auth = auth
	}

	repo, err := git.PlainCloneContext(ctx, destPath, false, opts)
	if err != nil {
		return nil, classifyCloneError(err)
	}

	branch := "main"
	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		branch = head.Name().Short()
	}

	ref := Ref{
		Owner:         owner,
		Name:          name,
		URL:           params.URL,
		DefaultBranch: branch,
	}

	entries, err := walkWorkingTree(destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	listing := &Listing{Ref: ref, AllFilesIncluded: true}

	var selected []FileEntry
	for _, e := range entries {
		if !MatchesFilters(e.Path, params.IncludePatterns, params.ExcludePatterns) {
			continue
		}
		if params.MaxFileSizeBytes > 0 && e.SizeBytes > params.MaxFileSizeBytes {
			listing.TooLarge = append(listing.TooLarge, e)
			continue
		}
		selected = append(selected, e)
	}

	if params.MaxFileCount > 0 && len(selected) > params.MaxFileCount {
		selected = selected[:params.MaxFileCount]
		listing.AllFilesIncluded = false
	}

	for _, e := range selected {
		listing.Files = append(listing.Files, f.readFile(destPath, e))
	}

	return listing, nil
}

func (f *CloneFetcher) readFile(repoPath string, entry FileEntry) FetchedFile {
	raw, err := os.ReadFile(filepath.Join(repoPath, entry.Path))
	if err != nil {
		f.l.Warn("failed to read file", zap.String("path", entry.Path), zap.Error(err))
		return FetchedFile{
			Entry:       entry,
			Content:     fmt.Sprintf("// content unavailable for %s: read failed", entry.Path),
			Placeholder: true,
		}
	}
	if !utf8.Valid(raw) {
		return FetchedFile{
			Entry:       entry,
			Content:     fmt.Sprintf("// binary content omitted for %s", entry.Path),
			Placeholder: true,
		}
	}
	return FetchedFile{Entry: entry, Content: string(raw)}
}

// walkWorkingTree lists regular files under repoPath in lexical walk order,
// skipping hidden files and common non-source directories.
func walkWorkingTree(repoPath string) ([]FileEntry, error) {
	var entries []FileEntry

	err := filepath.Walk(repoPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			name := info.Name()
			if path != repoPath && (strings.HasPrefix(name, ".") || isSkippedDir(name)) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(info.Name(), ".") {
			return nil
		}

		relPath, err := filepath.Rel(repoPath, path)
		if err != nil {
			return err
		}

		entries = append(entries, FileEntry{
			Path:      filepath.ToSlash(relPath),
			SizeBytes: info.Size(),
			IsBlob:    true,
		})
		return nil
	})

	return entries, err
}

func classifyCloneError(err error) error {
	switch {
	case err == nil:
		return nil
	case err == plumbing.ErrReferenceNotFound,
		strings.Contains(err.Error(), "repository not found"):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case strings.Contains(err.Error(), "authentication required"),
		strings.Contains(err.Error(), "authorization failed"):
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	default:
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
}
