package githost

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludePatterns are applied unless the caller asks for all files.
// They drop generated and vendored content that adds bulk without signal.
var DefaultExcludePatterns = []string{
	"**/node_modules/**",
	"**/vendor/**",
	"**/dist/**",
	"**/build/**",
	"**/target/**",
	"**/__pycache__/**",
	"**/*.min.js",
	"**/*.min.css",
	"**/*.lock",
	"**/package-lock.json",
	"**/yarn.lock",
	"**/*.png",
	"**/*.jpg",
	"**/*.jpeg",
	"**/*.gif",
	"**/*.ico",
	"**/*.pdf",
	"**/*.woff",
	"**/*.woff2",
	"**/*.ttf",
	"**/*.eot",
	"**/*.zip",
	"**/*.tar",
	"**/*.gz",
	"**/*.exe",
	"**/*.dll",
	"**/*.so",
	"**/*.dylib",
	"**/*.wasm",
}

// MatchesFilters reports whether path passes the include/exclude rules.
// Includes are OR-matched (empty means everything matches), excludes are
// AND-NOT-matched afterwards. `*` matches within a path segment, `**`
// across segments.
func MatchesFilters(path string, includes, excludes []string) bool {
	path = strings.TrimPrefix(path, "/")

	if len(includes) > 0 {
		matched := false
		for _, pattern := range includes {
			if ok, err := doublestar.Match(pattern, path); err == nil && ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, pattern := range excludes {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return false
		}
	}

	return true
}

// FilterEntries applies the include/exclude rules to a tree listing,
// keeping blobs only and preserving tree order.
func FilterEntries(entries []FileEntry, includes, excludes []string) []FileEntry {
	var out []FileEntry
	for _, e := range entries {
		if !e.IsBlob {
			continue
		}
		if MatchesFilters(e.Path, includes, excludes) {
			out = append(out, e)
		}
	}
	return out
}

// isSkippedDir returns true if the directory should be skipped during a
// filesystem walk of a cloned repository.
func isSkippedDir(name string) bool {
	skipDirs := map[string]bool{
		"node_modules":  true,
		"vendor":        true,
		"dist":          true,
		"build":         true,
		"target":        true,
		"__pycache__":   true,
		".git":          true,
		".svn":          true,
		".hg":           true,
		"coverage":      true,
		".idea":         true,
		".vscode":       true,
		".cache":        true,
		".pytest_cache": true,
		".mypy_cache":   true,
		"venv":          true,
		".venv":         true,
		".terraform":    true,
		".next":         true,
		".turbo":        true,
	}
	return skipDirs[name]
}
