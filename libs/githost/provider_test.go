package githost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitHubProviderParseURL(t *testing.T) {
	p := NewGitHubProvider("")

	tests := []struct {
		url       string
		wantOwner string
		wantName  string
	}{
		{"https://github.com/octocat/Hello-World", "octocat", "Hello-World"},
		{"https://github.com/octocat/Hello-World.git", "octocat", "Hello-World"},
		{"https://github.com/octocat/Hello-World/", "octocat", "Hello-World"},
		{"github.com/octocat/Hello-World", "octocat", "Hello-World"},
		{"git@github.com:octocat/Hello-World.git", "octocat", "Hello-World"},
		{"octocat/Hello-World", "octocat", "Hello-World"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			owner, name := p.ParseURL(tt.url)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestGitHubProviderNormalizeURL(t *testing.T) {
	p := NewGitHubProvider("")

	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/octocat/Hello-World", "https://github.com/octocat/Hello-World.git"},
		{"git@github.com:octocat/Hello-World", "https://github.com/octocat/Hello-World.git"},
		{"github.com/octocat/Hello-World", "https://github.com/octocat/Hello-World.git"},
		{"octocat/Hello-World", "https://github.com/octocat/Hello-World.git"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, p.NormalizeURL(tt.url))
		})
	}
}

func TestValidateRepoURL(t *testing.T) {
	require.NoError(t, ValidateRepoURL("https://github.com/octocat/Hello-World"))
	require.Error(t, ValidateRepoURL("https://github.com/justowner"))
	require.Error(t, ValidateRepoURL("https://example.com/foo/bar"))
}

func TestGetProviderForURL(t *testing.T) {
	t.Run("detects github", func(t *testing.T) {
		p := GetProviderForURL("https://github.com/a/b", "")
		require.NotNil(t, p)
		assert.Equal(t, "github", p.Name())
		assert.Nil(t, p.Auth())
	})

	t.Run("token enables auth", func(t *testing.T) {
		p := GetProviderForURL("https://github.com/a/b", "tok")
		require.NotNil(t, p)
		assert.NotNil(t, p.Auth())
	})

	t.Run("unknown host", func(t *testing.T) {
		assert.Nil(t, GetProviderForURL("https://example.com/a/b", ""))
	})
}
