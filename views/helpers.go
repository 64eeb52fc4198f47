package views

import (
	"net/url"
	"path"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/eringen/wanderpress/content"
	"github.com/eringen/wanderpress/dates"
)

const staticMapEndpoint = "https://maps.googleapis.com/maps/api/staticmap"

var stripPolicy = bluemonday.StrictPolicy()

// PlainText strips any markup from s, for meta tags and feeds.
func PlainText(s string) string {
	return strings.TrimSpace(stripPolicy.Sanitize(s))
}

// BuildURL joins path segments onto a base URL, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostHref is the link target for a post on the listing page.
func PostHref(slug string) string {
	return "/post/" + url.PathEscape(slug)
}

// StaticMapURL builds the map preview image URL for an address. Commas in
// the address become "+" separators. An empty key still yields a URL; the
// image service then answers with an error image.
func StaticMapURL(address, apiKey string) string {
	parts := strings.Split(address, ",")
	for i, p := range parts {
		parts[i] = url.QueryEscape(p)
	}
	addr := strings.Join(parts, "+")
	return staticMapEndpoint + "?center=" + addr +
		"&zoom=15&size=1200x1200&scale=2&maptype=roadmap" +
		"&markers=color:red%7Clabel:A%7C" + addr +
		"&key=" + url.QueryEscape(apiKey)
}

// NewLocationCard builds the location section for p. It reports false
// unless address, website and visit date are all present.
func NewLocationCard(p content.Post, mapsKey string) (LocationCard, bool) {
	if !p.HasLocation() {
		return LocationCard{}, false
	}
	return LocationCard{
		Address:      p.Address,
		AddressParts: strings.Split(p.Address, ","),
		Website:      p.Website,
		Visited:      dates.Format(p.Date),
		MapURL:       StaticMapURL(p.Address, mapsKey),
	}, true
}

// websiteJSONLD is the Schema.org WebSite object for the listing page.
func websiteJSONLD(cfg SiteConfig) map[string]any {
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	return data
}

// blogPostingJSONLD is the Schema.org BlogPosting object for a post.
func blogPostingJSONLD(cfg SiteConfig, page PostPage) map[string]any {
	post := page.Post
	postURL := BuildURL(cfg.URL, "post", post.Slug)
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    post.Title,
		"description": PlainText(post.Description),
		"url":         postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if t, err := dates.Parse(post.CreatedAt); err == nil {
		data["datePublished"] = t.Format("2006-01-02")
	}
	if page.BannerURL != "" {
		data["image"] = page.BannerURL
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	if page.Location != nil {
		data["contentLocation"] = map[string]string{
			"@type":   "Place",
			"address": page.Location.Address,
			"url":     page.Location.Website,
		}
	}
	return data
}
