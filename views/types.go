package views

import (
	"github.com/eringen/wanderpress/content"
	"github.com/eringen/wanderpress/portabletext"
)

// SiteConfig holds site-wide settings every page template reads.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image
}

// NavState is the navbar's menu state. The zero value is a closed menu that
// toggles client-side.
type NavState struct {
	Open bool

	// Interactive renders the toggle as a form posting to /menu/, for the
	// preview server where the state lives in the visitor's session.
	Interactive bool
	CSRFToken   string
	ReturnTo    string
}

// Toggle flips the menu between collapsed and expanded.
func (n *NavState) Toggle() {
	n.Open = !n.Open
}

// HomePage is the data for the listing page.
type HomePage struct {
	Slugs []string
}

// PostPage is a post with everything derived for display.
type PostPage struct {
	Post      content.Post
	BannerURL string
	Created   string
	Blocks    []portabletext.Fragment
	Location  *LocationCard
}

// LocationCard is the "About this location" section of a post.
type LocationCard struct {
	Address      string
	AddressParts []string
	Website      string
	Visited      string
	MapURL       string
}
