package wanderpress

import (
	"github.com/eringen/wanderpress/content"
	"github.com/eringen/wanderpress/dates"
	"github.com/eringen/wanderpress/imageurl"
	"github.com/eringen/wanderpress/views"
)

// postPage derives everything the post template shows from p.
func (a *App) postPage(p content.Post) views.PostPage {
	page := views.PostPage{
		Post:      p,
		BannerURL: a.images.Image(p.Banner, imageurl.Width(a.Config.BannerWidth)),
		Created:   dates.Format(p.CreatedAt),
		Blocks:    a.blocks.RenderAll(p.Content),
	}
	if card, ok := views.NewLocationCard(p, a.Config.GoogleMapsAPIKey); ok {
		page.Location = &card
	}
	return page
}
