package wanderpress

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/eringen/wanderpress/content"
	"github.com/eringen/wanderpress/views"
)

// Manifest describes one static build. It is written to build.json at the
// root of the output directory.
type Manifest struct {
	BuildID   string    `json:"build_id"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
	Pages     []string  `json:"pages"`
}

// Build renders the whole site into Config.OutputDir. Pages are written to
// a sibling temporary directory that replaces the output only when every
// page rendered; any fetch error, including a slug that no longer resolves,
// aborts the build and leaves the previous output untouched.
func (a *App) Build(ctx context.Context) (*Manifest, error) {
	m := &Manifest{
		BuildID:   uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	out := filepath.Clean(a.Config.OutputDir)
	if err := a.checkOutputDir(); err != nil {
		return nil, err
	}
	tmp := fmt.Sprintf("%s.tmp-%s", out, m.BuildID)
	a.Logger.Infof("build %s: rendering into %s", m.BuildID, out)

	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return nil, fmt.Errorf("create build dir: %w", err)
	}
	ok := false
	defer func() {
		if !ok {
			os.RemoveAll(tmp)
		}
	}()

	posts, err := a.renderPosts(ctx, tmp, m)
	if err != nil {
		return nil, err
	}

	cfg := a.siteConfig()
	slugs := make([]string, 0, len(posts))
	for _, p := range posts {
		slugs = append(slugs, p.Slug)
	}
	pages := []struct {
		path string
		fn   func(io.Writer) error
	}{
		{"index.html", componentWriter(ctx, a.Views.Home(cfg, views.NavState{}, views.HomePage{Slugs: slugs}))},
		{"404.html", componentWriter(ctx, a.Views.NotFound(cfg, views.NavState{}))},
		{"sitemap.xml", func(w io.Writer) error { return WriteSitemap(w, a.Config.URL, posts) }},
		{"feed.xml", func(w io.Writer) error { return WriteFeed(w, a.Config, posts) }},
		{"robots.txt", func(w io.Writer) error { _, err := io.WriteString(w, robotsTxt(a.Config.URL)); return err }},
	}
	for _, pg := range pages {
		if err := writeFile(filepath.Join(tmp, pg.path), pg.fn); err != nil {
			return nil, fmt.Errorf("write %s: %w", pg.path, err)
		}
		m.Pages = append(m.Pages, "/"+pg.path)
	}

	if err := a.copyAssets(filepath.Join(tmp, "public")); err != nil {
		return nil, err
	}

	m.Duration = time.Since(m.StartedAt).Round(time.Millisecond).String()
	if err := writeFile(filepath.Join(tmp, "build.json"), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	if err := os.RemoveAll(out); err != nil {
		return nil, fmt.Errorf("remove previous output: %w", err)
	}
	if err := os.Rename(tmp, out); err != nil {
		return nil, fmt.Errorf("move build into place: %w", err)
	}
	ok = true
	a.Logger.Infof("build %s: %d pages in %s", m.BuildID, len(m.Pages), m.Duration)
	return m, nil
}

// ErrOutputOverlap is returned by Build when replacing the output directory
// would delete the static dir or the config file.
var ErrOutputOverlap = errors.New("output dir overlaps site sources")

func (a *App) checkOutputDir() error {
	out, err := filepath.Abs(a.Config.OutputDir)
	if err != nil {
		return fmt.Errorf("output dir: %w", err)
	}
	static, err := filepath.Abs(a.Config.StaticDir)
	if err != nil {
		return fmt.Errorf("static dir: %w", err)
	}
	if withinDir(static, out) || withinDir(out, static) {
		return fmt.Errorf("%w: %s and static dir %s", ErrOutputOverlap, out, static)
	}
	if a.Config.ConfigFile != "" {
		cfgDir, err := filepath.Abs(filepath.Dir(a.Config.ConfigFile))
		if err != nil {
			return fmt.Errorf("config dir: %w", err)
		}
		if withinDir(cfgDir, out) {
			return fmt.Errorf("%w: %s contains config file %s", ErrOutputOverlap, out, a.Config.ConfigFile)
		}
	}
	return nil
}

// renderPosts enumerates every slug and renders its page. Enumerated slugs
// must resolve: a NotFound here is a build error.
func (a *App) renderPosts(ctx context.Context, dir string, m *Manifest) ([]content.Post, error) {
	slugs, err := a.LoadAllSlugs(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate posts: %w", err)
	}
	cfg := a.siteConfig()
	seen := make(map[string]bool, len(slugs))
	posts := make([]content.Post, 0, len(slugs))
	for _, slug := range slugs {
		if !validSlugPath(slug) {
			return nil, fmt.Errorf("post slug %q cannot be used as a path", slug)
		}
		if seen[slug] {
			a.Logger.Warnf("duplicate slug %q, keeping the first post", slug)
			continue
		}
		seen[slug] = true

		post, err := a.LoadPost(ctx, slug)
		if err != nil {
			return nil, fmt.Errorf("load post %q: %w", slug, err)
		}
		path := filepath.Join(dir, "post", slug, "index.html")
		if err := RenderFile(ctx, path, a.Views.Post(cfg, views.NavState{}, a.postPage(post))); err != nil {
			return nil, fmt.Errorf("render post %q: %w", slug, err)
		}
		m.Pages = append(m.Pages, "/post/"+slug+"/")
		posts = append(posts, post)
	}
	return posts, nil
}

// copyAssets writes the embedded defaults, then the user's static dir over
// them.
func (a *App) copyAssets(dst string) error {
	assets, err := fs.Sub(EmbeddedAssets, "embedded")
	if err != nil {
		return err
	}
	if err := copyFS(assets, dst); err != nil {
		return fmt.Errorf("copy embedded assets: %w", err)
	}
	if fi, err := os.Stat(a.Config.StaticDir); err != nil || !fi.IsDir() {
		a.Logger.Debugf("static dir %s not found, skipping", a.Config.StaticDir)
		return nil
	}
	if err := copyFS(os.DirFS(a.Config.StaticDir), dst); err != nil {
		return fmt.Errorf("copy static dir: %w", err)
	}
	return nil
}

func copyFS(src fs.FS, dst string) error {
	return fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dst, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return writeFile(target, func(w io.Writer) error {
			f, err := src.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			_, err = io.Copy(w, f)
			return err
		})
	})
}

func writeFile(path string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := fn(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
