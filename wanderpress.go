// Package wanderpress renders a travel blog stored in a Sanity dataset,
// either as a static site on disk or through a preview server.
//
// Page templates are supplied through ViewFuncs; the defaults come from the
// views package.
package wanderpress

import (
	"context"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/wanderpress/content"
	"github.com/eringen/wanderpress/imageurl"
	"github.com/eringen/wanderpress/portabletext"
	"github.com/eringen/wanderpress/views"
)

// ViewFuncs holds the templ components the App calls when rendering pages.
type ViewFuncs struct {
	Home        func(cfg views.SiteConfig, nav views.NavState, page views.HomePage) templ.Component
	Post        func(cfg views.SiteConfig, nav views.NavState, page views.PostPage) templ.Component
	NotFound    func(cfg views.SiteConfig, nav views.NavState) templ.Component
	ServerError func(cfg views.SiteConfig, nav views.NavState) templ.Component
}

// DefaultViews are the built-in templates.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:        views.Home,
		Post:        views.Post,
		NotFound:    views.NotFound,
		ServerError: views.ServerError,
	}
}

// App wires the content store, renderers and templates together. It backs
// both the static builder and the preview server.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Views  ViewFuncs
	Logger *log.Logger

	client   *content.Client
	images   imageurl.Builder
	blocks   *portabletext.Renderer
	limiter  *RequestLimiter
	routesUp bool
}

// New creates an App. It fails when the content client cannot be configured.
func New(cfg SiteConfig, opts ...Option) (*App, error) {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Views:  DefaultViews(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger = log.New("wanderpress")
		a.Logger.SetLevel(log.INFO)
	}
	if a.client == nil {
		c, err := content.New(cfg.Sanity)
		if err != nil {
			return nil, fmt.Errorf("wanderpress: content client: %w", err)
		}
		a.client = c
	}

	a.Store = NewStore(a.client, cfg.FetchTimeout)
	a.images = imageurl.New(a.client.ProjectID(), a.client.Dataset())
	a.blocks = portabletext.New(a.images,
		portabletext.WithImageSize(cfg.InlineImageWidth, cfg.InlineImageHeight))
	return a, nil
}

func (a *App) siteConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}

// Handler returns the preview server's http.Handler, setting up middleware
// and routes on first use.
func (a *App) Handler() http.Handler {
	a.setup()
	return a.Echo
}

func (a *App) setup() {
	if a.routesUp {
		return
	}
	a.Echo = echo.New()
	a.Echo.HideBanner = true
	a.Echo.Logger = a.Logger
	a.limiter = NewRequestLimiter(a.Config.RateLimit, a.Config.RateWindow)
	a.setupMiddleware()
	a.setupRoutes()
	a.routesUp = true
}

// Serve starts the preview server and blocks until it stops.
func (a *App) Serve() error {
	a.setup()
	a.Logger.Infof("preview server on %s (project %s, dataset %s)", a.Config.Addr, a.client.ProjectID(), a.client.Dataset())
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/public/*", a.handlePublic)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	pages := e.Group("", a.limiter.Middleware())
	pages.GET("/", a.handleHome)
	pages.GET("/post/:slug/", a.handlePost)
	pages.POST("/menu/", a.handleMenuToggle)
}

// Shutdown gracefully stops the preview server.
func (a *App) Shutdown(ctx context.Context) error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.Echo == nil {
		return nil
	}
	return a.Echo.Shutdown(ctx)
}

// Close stops background work started by the preview server.
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.Echo != nil {
		return a.Echo.Close()
	}
	return nil
}
