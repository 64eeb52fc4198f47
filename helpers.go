package wanderpress

import (
	"net/url"
	"path/filepath"
	"strings"
)

// safeReturnPath keeps redirects on this site: only absolute local paths
// are allowed, anything else falls back to "/".
func safeReturnPath(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	if u, err := url.Parse(p); err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	return p
}

// validSlugPath reports whether slug can be used as a single path segment
// of the generated site.
func validSlugPath(slug string) bool {
	if slug == "" || slug == "." || slug == ".." {
		return false
	}
	return !strings.ContainsAny(slug, "/\\\x00")
}

// withinDir reports whether path is dir or lies below it. Both paths must be
// absolute and clean; a sibling sharing dir's name as a prefix is outside.
func withinDir(path, dir string) bool {
	if path == dir {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(dir, string(filepath.Separator))+string(filepath.Separator))
}
