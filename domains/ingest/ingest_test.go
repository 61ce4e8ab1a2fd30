package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gomantics/repolens/libs/githost"
)

func file(path, content string) githost.FetchedFile {
	return githost.FetchedFile{
		Entry: githost.FileEntry{
			Path:      path,
			SizeBytes: int64(len(content)),
			IsBlob:    true,
		},
		Content: content,
	}
}

func testListing(files ...githost.FetchedFile) *githost.Listing {
	return &githost.Listing{
		Ref: githost.Ref{
			Owner:         "octocat",
			Name:          "hello",
			URL:           "https://github.com/octocat/hello",
			DefaultBranch: "main",
		},
		Files:            files,
		AllFilesIncluded: true,
	}
}

func TestAssembleContent(t *testing.T) {
	repo := Assemble(testListing(
		file("README.md", "# hello\n"),
		file("main.go", "package main"),
	))

	want := "===== README.md =====\n# hello\n\n" +
		"===== main.go =====\npackage main\n\n"
	assert.Equal(t, want, repo.Content)
}

func TestAssembleStats(t *testing.T) {
	a := "# hello\n"
	b := "package main\n\nfunc main() {}\n"
	repo := Assemble(testListing(
		file("README.md", a),
		file("main.go", b),
	))

	assert.Equal(t, 2, repo.FileCount)
	// stats count file bytes, not headers or separators
	assert.Equal(t, int64(len(a)+len(b)), repo.TotalSizeBytes)
	assert.True(t, repo.AllFilesIncluded)
	assert.Equal(t, "octocat", repo.Ref.Owner)
}

func TestAssembleTreeText(t *testing.T) {
	repo := Assemble(testListing(
		file("cmd/api/main.go", "package main\n"),
		file("README.md", "# hello\n"),
	))

	assert.Contains(t, repo.TreeText, "cmd/")
	assert.Contains(t, repo.TreeText, "main.go")
	assert.Contains(t, repo.TreeText, "README.md")
	assert.Len(t, repo.Files, 2)
}

func TestAssembleEmptyListing(t *testing.T) {
	repo := Assemble(testListing())

	assert.Empty(t, repo.Content)
	assert.Zero(t, repo.FileCount)
	assert.Zero(t, repo.TotalSizeBytes)
}

func TestAssemblePreservesListingOrder(t *testing.T) {
	repo := Assemble(testListing(
		file("zz.go", "z\n"),
		file("aa.go", "a\n"),
	))

	// content follows tree order from the fetcher, not lexical order
	assert.Less(t,
		strings.Index(repo.Content, "===== zz.go ====="),
		strings.Index(repo.Content, "===== aa.go ====="),
	)
	assert.Equal(t, "zz.go", repo.Files[0].Path)
}

type fakeFetcher struct {
	listing *githost.Listing
	err     error
	params  githost.FetchParams
}

func (f *fakeFetcher) Fetch(ctx context.Context, params githost.FetchParams) (*githost.Listing, error) {
	f.params = params
	return f.listing, f.err
}

func TestIngestPassesParamsThrough(t *testing.T) {
	fetcher := &fakeFetcher{listing: testListing(file("main.go", "package main\n"))}

	repo, err := Ingest(context.Background(), zap.NewNop(), fetcher, Params{
		URL:              "https://github.com/octocat/hello",
		Token:            "tok",
		IncludePatterns:  []string{"**/*.go"},
		MaxFileSizeBytes: 1024,
		MaxFileCount:     10,
		BatchSize:        2,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.FileCount)

	assert.Equal(t, "https://github.com/octocat/hello", fetcher.params.URL)
	assert.Equal(t, "tok", fetcher.params.Token)
	assert.Equal(t, []string{"**/*.go"}, fetcher.params.IncludePatterns)
	assert.Equal(t, int64(1024), fetcher.params.MaxFileSizeBytes)
	assert.Equal(t, 10, fetcher.params.MaxFileCount)
}

func TestIngestSurfacesFetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: githost.ErrNotFound}

	_, err := Ingest(context.Background(), zap.NewNop(), fetcher, Params{
		URL: "https://github.com/octocat/missing",
	})
	assert.ErrorIs(t, err, githost.ErrNotFound)
}
