package views

// NavLink is one navbar destination.
type NavLink struct {
	Label string
	Href  string
}

// NavLinks are shown in both the desktop and the mobile menu.
var NavLinks = []NavLink{
	{Label: "Locations", Href: "/locations"},
	{Label: "About", Href: "/about"},
	{Label: "Contact", Href: "/contact"},
}

// MenuClass returns the classes of the mobile menu for the given state.
func MenuClass(open bool) string {
	base := " md:hidden absolute bg-white w-full"
	if open {
		return "block animate-slide-down" + base
	}
	return "hidden animate-slide-up" + base
}

func ariaExpanded(open bool) string {
	if open {
		return "true"
	}
	return "false"
}

// pageTitle suffixes the site name unless the page is the site itself.
func pageTitle(cfg SiteConfig, meta PageMeta) string {
	if meta.Title == "" || meta.Title == cfg.Name {
		return cfg.Name
	}
	return meta.Title + " | " + cfg.Name
}

func pageDescription(cfg SiteConfig, meta PageMeta) string {
	if meta.Description != "" {
		return meta.Description
	}
	return cfg.Description
}

func ogType(meta PageMeta) string {
	if meta.OGType == "" {
		return "website"
	}
	return meta.OGType
}

func homeMeta(cfg SiteConfig) PageMeta {
	return PageMeta{
		Title:       cfg.Name,
		Description: cfg.Description,
		URL:         BuildURL(cfg.URL),
		OGType:      "website",
	}
}

func postMeta(cfg SiteConfig, page PostPage) PageMeta {
	return PageMeta{
		Title:       page.Post.Title,
		Description: PlainText(page.Post.Description),
		URL:         BuildURL(cfg.URL, "post", page.Post.Slug),
		OGType:      "article",
		Image:       page.BannerURL,
	}
}
