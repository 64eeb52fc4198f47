package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/eringen/wanderpress/content"
	"github.com/eringen/wanderpress/portabletext"
)

var testCfg = SiteConfig{Name: "Wander", URL: "https://example.com", Description: "Travel notes"}

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func locatedPost() content.Post {
	return content.Post{
		Slug:    "lisbon",
		Title:   "Lisbon",
		Address: "Praça do Comércio, Lisboa",
		Website: "https://visitlisboa.com",
		Date:    "2021-05-01",
	}
}

func TestLocationCardGate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *content.Post)
		want   bool
	}{
		{"all present", func(p *content.Post) {}, true},
		{"missing address", func(p *content.Post) { p.Address = "" }, false},
		{"missing website", func(p *content.Post) { p.Website = "" }, false},
		{"missing date", func(p *content.Post) { p.Date = "" }, false},
		{"all absent", func(p *content.Post) { p.Address, p.Website, p.Date = "", "", "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := locatedPost()
			tt.mutate(&p)
			card, ok := NewLocationCard(p, "KEY")
			if ok != tt.want {
				t.Fatalf("NewLocationCard ok = %v, want %v", ok, tt.want)
			}
			page := PostPage{Post: p}
			if ok {
				page.Location = &card
			}
			html := renderString(t, PostContent(page))
			if got := strings.Contains(html, "data-location-card"); got != tt.want {
				t.Fatalf("location card rendered = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLocationCardContents(t *testing.T) {
	card, ok := NewLocationCard(locatedPost(), "KEY")
	if !ok {
		t.Fatal("expected card")
	}
	if card.Visited != "Saturday, May 1, 2021" {
		t.Errorf("Visited = %q", card.Visited)
	}
	if len(card.AddressParts) != 2 || card.AddressParts[1] != " Lisboa" {
		t.Errorf("AddressParts = %q", card.AddressParts)
	}
	html := renderString(t, LocationSection(card))
	for _, s := range []string{"About this location:", "Visited On:", `href="https://visitlisboa.com"`, "Praça do Comércio"} {
		if !strings.Contains(html, s) {
			t.Errorf("location html missing %q", s)
		}
	}
}

func TestStaticMapURL(t *testing.T) {
	got := StaticMapURL("Main St 1, Springfield", "abc")
	want := "https://maps.googleapis.com/maps/api/staticmap?center=Main+St+1++Springfield" +
		"&zoom=15&size=1200x1200&scale=2&maptype=roadmap&markers=color:red%7Clabel:A%7CMain+St+1++Springfield&key=abc"
	if got != want {
		t.Fatalf("StaticMapURL = %q\nwant %q", got, want)
	}
	if !strings.HasSuffix(StaticMapURL("x", ""), "&key=") {
		t.Fatal("missing key should still produce a URL")
	}
}

func TestNavStateToggleCycle(t *testing.T) {
	var nav NavState
	if nav.Open {
		t.Fatal("navbar should start closed")
	}
	nav.Toggle()
	if !nav.Open {
		t.Fatal("first toggle should open the menu")
	}
	nav.Toggle()
	if nav.Open {
		t.Fatal("second toggle should close the menu")
	}
}

func TestNavbarRendersState(t *testing.T) {
	closed := renderString(t, Navbar(NavState{}))
	if !strings.Contains(closed, `class="hidden animate-slide-up`) || !strings.Contains(closed, `aria-expanded="false"`) {
		t.Fatalf("closed navbar markup unexpected: %s", closed)
	}
	if strings.Contains(closed, "<form") {
		t.Fatal("static navbar should not render a form")
	}
	open := renderString(t, Navbar(NavState{Open: true, Interactive: true, CSRFToken: "tok", ReturnTo: "/post/x/"}))
	for _, s := range []string{`class="block animate-slide-down`, `action="/menu/"`, `value="tok"`, `value="/post/x/"`} {
		if !strings.Contains(open, s) {
			t.Errorf("open navbar missing %q", s)
		}
	}
	for _, l := range NavLinks {
		if strings.Count(open, `href="`+l.Href+`"`) != 2 {
			t.Errorf("link %s should appear in desktop and mobile menus", l.Href)
		}
	}
}

func TestHomeListsSlugsInOrder(t *testing.T) {
	html := renderString(t, HomeContent(testCfg, HomePage{Slugs: []string{"zeta", "alpha"}}))
	z := strings.Index(html, `href="/post/zeta"`)
	a := strings.Index(html, `href="/post/alpha"`)
	if z < 0 || a < 0 || z > a {
		t.Fatalf("links missing or out of order: %s", html)
	}
}

func TestPostContentOrder(t *testing.T) {
	p := locatedPost()
	p.Description = "Trams"
	p.Tags = []string{"portugal"}
	card, _ := NewLocationCard(p, "")
	page := PostPage{
		Post:      p,
		BannerURL: "https://cdn.example/banner.jpg",
		Created:   "Friday, December 25, 2020",
		Blocks:    []portabletext.Fragment{{Kind: portabletext.KindText, Text: "first paragraph"}},
		Location:  &card,
	}
	html := renderString(t, PostContent(page))
	order := []string{"banner image", "<h1", "Trams", "Friday, December 25, 2020", "first paragraph", "portugal", "data-location-card"}
	last := -1
	for _, s := range order {
		i := strings.Index(html, s)
		if i < 0 {
			t.Fatalf("post html missing %q", s)
		}
		if i < last {
			t.Fatalf("%q rendered out of order", s)
		}
		last = i
	}
}

func TestPostOmitsMissingBanner(t *testing.T) {
	html := renderString(t, PostContent(PostPage{Post: content.Post{Slug: "x", Title: "X"}}))
	if strings.Contains(html, "banner image") {
		t.Fatal("banner rendered without a banner URL")
	}
}

func TestPostPageEscapesTitle(t *testing.T) {
	html := renderString(t, Post(testCfg, NavState{}, PostPage{Post: content.Post{Slug: "x", Title: "<b>X</b>"}}))
	if strings.Contains(html, "<b>X</b>") {
		t.Fatal("title not escaped")
	}
	if !strings.Contains(html, `<link rel="canonical" href="https://example.com/post/x/">`) {
		t.Fatalf("canonical link missing: %s", html)
	}
}

func TestPlainText(t *testing.T) {
	if got := PlainText(" <em>hi</em> there "); got != "hi there" {
		t.Fatalf("PlainText = %q", got)
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com", []string{"post", "a"}, "https://example.com/post/a/"},
		{"https://example.com/blog", []string{"post", "a"}, "https://example.com/blog/post/a/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}

func TestLocationSectionSanitizesWebsite(t *testing.T) {
	p := locatedPost()
	p.Website = "javascript:alert(document.cookie)"
	card, ok := NewLocationCard(p, "")
	if !ok {
		t.Fatal("expected card")
	}
	html := renderString(t, LocationSection(card))
	if strings.Contains(html, `href="javascript:`) {
		t.Fatalf("unsafe website link rendered: %s", html)
	}
	if !strings.Contains(html, `href="about:invalid#TemplFailedSanitizationURL"`) {
		t.Fatalf("website link not replaced: %s", html)
	}
}

func TestLayoutHead(t *testing.T) {
	tests := []struct {
		name string
		meta PageMeta
		want []string
	}{
		{"site page", PageMeta{Title: "Wander"}, []string{"<title>Wander</title>", `content="Travel notes"`, `og:type" content="website"`}},
		{"sub page", PageMeta{Title: "Lisbon", Description: "Trams", OGType: "article"}, []string{"<title>Lisbon | Wander</title>", `content="Trams"`, `og:type" content="article"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := renderString(t, Layout(testCfg, tt.meta, NavState{}))
			for _, s := range tt.want {
				if !strings.Contains(html, s) {
					t.Errorf("head missing %q", s)
				}
			}
			if strings.Contains(html, `rel="canonical"`) {
				t.Error("canonical link rendered without a URL")
			}
		})
	}
}

func TestLayoutWrapsChildren(t *testing.T) {
	body := templ.Raw("<main>inner</main>")
	var buf bytes.Buffer
	ctx := templ.WithChildren(context.Background(), body)
	if err := Layout(testCfg, PageMeta{}, NavState{}).Render(ctx, &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	nav := strings.Index(html, "</nav>")
	inner := strings.Index(html, "<main>inner</main>")
	footer := strings.Index(html, "<footer")
	if nav < 0 || inner < nav || footer < inner {
		t.Fatalf("children not placed between navbar and footer: %s", html)
	}
}

func TestHomeEmbedsWebsiteJSONLD(t *testing.T) {
	cfg := testCfg
	cfg.Author = "Ana"
	html := renderString(t, Home(cfg, NavState{}, HomePage{}))
	for _, s := range []string{`<script type="application/ld+json">`, `"@type":"WebSite"`, `"name":"Ana"`} {
		if !strings.Contains(html, s) {
			t.Errorf("home page missing %q", s)
		}
	}
}

func TestPostJSONLDEscapesMarkup(t *testing.T) {
	html := renderString(t, Post(testCfg, NavState{}, PostPage{Post: content.Post{Slug: "x", Title: "</script><b>"}}))
	if strings.Contains(html, "</script><b>") {
		t.Fatal("title broke out of the JSON-LD script")
	}
	if !strings.Contains(html, `"@type":"BlogPosting"`) {
		t.Fatalf("BlogPosting JSON-LD missing: %s", html)
	}
}

func TestErrorPages(t *testing.T) {
	if html := renderString(t, NotFound(testCfg, NavState{})); !strings.Contains(html, "<title>Not found | Wander</title>") || !strings.Contains(html, "Page not found") {
		t.Fatalf("NotFound = %s", html)
	}
	if html := renderString(t, ServerError(testCfg, NavState{})); !strings.Contains(html, "Something went wrong") {
		t.Fatalf("ServerError = %s", html)
	}
}
