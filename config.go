package wanderpress

import (
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/eringen/wanderpress/content"
)

// SiteConfig holds all configuration for a wanderpress site.
type SiteConfig struct {
	Name        string // Site name (default "Blog")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD

	Sanity           content.Config
	GoogleMapsAPIKey string // Static map previews; empty degrades to a broken image

	Addr      string // Preview server listen address (default ":3000")
	OutputDir string // Static build output (default "dist")
	StaticDir string // User assets copied to /public (default "static")

	ConfigFile string // File the settings came from, if any; watched and kept out of OutputDir

	SessionSecret string // Preview server cookie secret (random per run if empty)
	CookieSecure  bool   // Set true for HTTPS

	FetchTimeout time.Duration // Per page content fetch (default 30s)
	RateLimit    int           // Preview requests per IP per RateWindow (default 120)
	RateWindow   time.Duration // (default 1min)

	InlineImageWidth  int // Display width of inline images (default 400)
	InlineImageHeight int // Display height of inline images (default 300)
	BannerWidth       int // Requested banner width (default 1200)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.OutputDir == "" {
		c.OutputDir = "dist"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 30 * time.Second
	}
	if c.RateLimit == 0 {
		c.RateLimit = 120
	}
	if c.RateWindow == 0 {
		c.RateWindow = time.Minute
	}
	if c.InlineImageWidth == 0 {
		c.InlineImageWidth = 400
	}
	if c.InlineImageHeight == 0 {
		c.InlineImageHeight = 300
	}
	if c.BannerWidth == 0 {
		c.BannerWidth = 1200
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithLogger replaces the default logger.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithContentClient injects an already constructed content client instead
// of building one from SiteConfig.Sanity.
func WithContentClient(c *content.Client) Option {
	return func(a *App) {
		a.client = c
	}
}

// WithViews replaces the page templates.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}
