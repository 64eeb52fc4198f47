package wanderpress

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/wanderpress/content"
	"github.com/eringen/wanderpress/views"
)

func (a *App) handleHome(c echo.Context) error {
	slugs, err := a.Store.LoadAllSlugs(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(a.siteConfig(), a.navState(c), views.HomePage{Slugs: slugs}))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	if !validSlugPath(slug) {
		return echo.ErrNotFound
	}
	post, err := a.Store.LoadPost(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.siteConfig(), a.navState(c)))
		}
		return err
	}
	return Render(c, a.Views.Post(a.siteConfig(), a.navState(c), a.postPage(post)))
}

func (a *App) handleMenuToggle(c echo.Context) error {
	if err := toggleNav(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, safeReturnPath(c.FormValue("return")))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Store.ListSummaries(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Store.ListSummaries(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, robotsTxt(a.Config.URL))
}

func robotsTxt(base string) string {
	return fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", base)
}

// handlePublic serves the user's static dir first, then the embedded
// defaults.
func (a *App) handlePublic(c echo.Context) error {
	name := path.Clean("/" + c.Param("*"))
	if name == "/" {
		return echo.ErrNotFound
	}
	local := filepath.Join(a.Config.StaticDir, filepath.FromSlash(strings.TrimPrefix(name, "/")))
	if fi, err := os.Stat(local); err == nil && !fi.IsDir() {
		return c.File(local)
	}
	assets, _ := fs.Sub(EmbeddedAssets, "embedded")
	return c.FileFS(strings.TrimPrefix(name, "/"), assets)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.siteConfig(), a.navState(c)))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.siteConfig(), a.navState(c)))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
