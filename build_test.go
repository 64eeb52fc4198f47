package wanderpress

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/wanderpress/content"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestBuildWritesEveryPage(t *testing.T) {
	f := newFakeSanity()
	f.add("lisbon", lisbonDoc)
	f.add("porto", portoDoc)
	app := newTestApp(t, f)

	m, err := app.Build(context.Background())
	require.NoError(t, err)
	out := app.Config.OutputDir

	assert.NotEmpty(t, m.BuildID)
	assert.Contains(t, m.Pages, "/post/lisbon/")
	assert.Contains(t, m.Pages, "/post/porto/")
	assert.Contains(t, m.Pages, "/index.html")

	home := readFile(t, filepath.Join(out, "index.html"))
	assert.Less(t, strings.Index(home, `href="/post/lisbon"`), strings.Index(home, `href="/post/porto"`))

	post := readFile(t, filepath.Join(out, "post", "lisbon", "index.html"))
	assert.Contains(t, post, "<h1")
	assert.Contains(t, post, "Friday, December 25, 2020")
	assert.Contains(t, post, "Hello Lisbon")
	assert.Contains(t, post, "https://cdn.sanity.io/images/proj/production/def456-800x600.png?w=400")
	assert.Contains(t, post, "data-location-card")
	assert.NotContains(t, post, `action="/menu/"`, "static pages toggle client-side")

	porto := readFile(t, filepath.Join(out, "post", "porto", "index.html"))
	assert.NotContains(t, porto, "data-location-card")

	assert.Contains(t, readFile(t, filepath.Join(out, "sitemap.xml")), "https://example.com/post/porto/")
	assert.Contains(t, readFile(t, filepath.Join(out, "feed.xml")), "<title>Lisbon</title>")
	assert.FileExists(t, filepath.Join(out, "404.html"))
	assert.FileExists(t, filepath.Join(out, "public", "navbar.js"))
	assert.FileExists(t, filepath.Join(out, "public", "site.css"))

	var got Manifest
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(out, "build.json"))), &got))
	assert.Equal(t, m.BuildID, got.BuildID)
}

func TestBuildCopiesStaticDirOverEmbedded(t *testing.T) {
	f := newFakeSanity()
	f.add("porto", portoDoc)
	app := newTestApp(t, f)

	require.NoError(t, os.MkdirAll(filepath.Join(app.Config.StaticDir, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(app.Config.StaticDir, "site.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(app.Config.StaticDir, "img", "logo.svg"), []byte("<svg/>"), 0o644))

	_, err := app.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "body{}", readFile(t, filepath.Join(app.Config.OutputDir, "public", "site.css")))
	assert.FileExists(t, filepath.Join(app.Config.OutputDir, "public", "img", "logo.svg"))
}

func TestBuildEnumeratedButMissingSlugIsFatal(t *testing.T) {
	f := newFakeSanity()
	f.add("lisbon", lisbonDoc)
	f.ghosts = []string{"deleted-meanwhile"}
	app := newTestApp(t, f)

	_, err := app.Build(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, content.ErrNotFound), "got %v", err)
	assert.NoDirExists(t, app.Config.OutputDir)

	parent := filepath.Dir(app.Config.OutputDir)
	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp-"), "left temp dir %s", e.Name())
	}
}

func TestBuildFailureKeepsPreviousOutput(t *testing.T) {
	f := newFakeSanity()
	f.add("lisbon", lisbonDoc)
	app := newTestApp(t, f)

	_, err := app.Build(context.Background())
	require.NoError(t, err)

	f.mu.Lock()
	f.failAll = true
	f.mu.Unlock()

	_, err = app.Build(context.Background())
	var fe *content.FetchError
	require.True(t, errors.As(err, &fe), "got %v", err)
	assert.FileExists(t, filepath.Join(app.Config.OutputDir, "post", "lisbon", "index.html"))
}

func TestBuildRejectsSlugThatIsNotAPathSegment(t *testing.T) {
	f := newFakeSanity()
	f.add("../escape", `{"slug":"../escape","title":"Escape"}`)
	app := newTestApp(t, f)

	_, err := app.Build(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be used as a path")
}

func TestBuildSkipsDuplicateSlug(t *testing.T) {
	f := newFakeSanity()
	f.add("porto", portoDoc)
	f.ghosts = []string{"porto"}
	app := newTestApp(t, f)

	m, err := app.Build(context.Background())
	require.NoError(t, err)
	n := 0
	for _, p := range m.Pages {
		if p == "/post/porto/" {
			n++
		}
	}
	assert.Equal(t, 1, n)
}

func TestBuildRejectsOverlappingOutputDir(t *testing.T) {
	tests := []struct {
		name   string
		layout func(root string, cfg *SiteConfig)
	}{
		{"output is static", func(root string, cfg *SiteConfig) {
			cfg.OutputDir = filepath.Join(root, "site")
			cfg.StaticDir = cfg.OutputDir
		}},
		{"output contains static", func(root string, cfg *SiteConfig) {
			cfg.OutputDir = filepath.Join(root, "site")
			cfg.StaticDir = filepath.Join(root, "site", "static")
		}},
		{"output inside static", func(root string, cfg *SiteConfig) {
			cfg.StaticDir = filepath.Join(root, "site")
			cfg.OutputDir = filepath.Join(root, "site", "dist")
		}},
		{"output is config dir", func(root string, cfg *SiteConfig) {
			cfg.OutputDir = filepath.Join(root, "site")
			cfg.ConfigFile = filepath.Join(root, "site", "wanderpress.yaml")
		}},
		{"output contains config dir", func(root string, cfg *SiteConfig) {
			cfg.OutputDir = root
			cfg.StaticDir = t.TempDir()
			cfg.ConfigFile = filepath.Join(root, "site", "wanderpress.yaml")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeSanity()
			f.add("porto", portoDoc)
			app := newTestApp(t, f)
			root := t.TempDir()
			app.Config.StaticDir = filepath.Join(t.TempDir(), "static")
			tt.layout(root, &app.Config)

			keep := filepath.Join(root, "site", "keep.txt")
			require.NoError(t, os.MkdirAll(filepath.Dir(keep), 0o755))
			require.NoError(t, os.WriteFile(keep, []byte("x"), 0o644))

			_, err := app.Build(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrOutputOverlap), "err = %v", err)
			assert.FileExists(t, keep)
		})
	}
}

func TestBuildAllowsOutputBesideSources(t *testing.T) {
	f := newFakeSanity()
	f.add("porto", portoDoc)
	app := newTestApp(t, f)
	root := filepath.Dir(app.Config.OutputDir)
	app.Config.StaticDir = filepath.Join(root, "distribution")
	app.Config.ConfigFile = filepath.Join(root, "wanderpress.yaml")
	require.NoError(t, os.MkdirAll(app.Config.StaticDir, 0o755))

	_, err := app.Build(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(app.Config.OutputDir, "index.html"))
}
