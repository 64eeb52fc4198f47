// Package portabletext maps content blocks to view fragments.
package portabletext

import (
	"github.com/a-h/templ"

	"github.com/eringen/wanderpress/content"
	"github.com/eringen/wanderpress/imageurl"
)

// Kind tags a Fragment.
type Kind int

const (
	KindNone Kind = iota
	KindText
	KindImage
)

// Fragment is the renderable form of one block. The zero value renders
// nothing.
type Fragment struct {
	Kind   Kind
	Text   string
	URL    string
	Alt    string
	Width  int
	Height int
}

// Empty reports whether f produces no output.
func (f Fragment) Empty() bool {
	return f.Kind == KindNone
}

// Component returns the templ component for f.
func (f Fragment) Component() templ.Component {
	switch f.Kind {
	case KindText:
		return paragraph(f.Text)
	case KindImage:
		return inlineImage(f)
	}
	return templ.NopComponent
}

func altText(alt string) string {
	if alt == "" {
		return "inline-image"
	}
	return alt
}

// Renderer converts blocks using one image URL builder.
type Renderer struct {
	images imageurl.Builder
	width  int
	height int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithImageSize sets the display size of inline images. The URL is
// requested at the display width.
func WithImageSize(width, height int) Option {
	return func(r *Renderer) {
		r.width = width
		r.height = height
	}
}

// New returns a Renderer showing inline images at 400x300.
func New(images imageurl.Builder, opts ...Option) *Renderer {
	r := &Renderer{images: images, width: 400, height: 300}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render maps one block to a fragment. Unknown block types yield an empty
// fragment.
func (r *Renderer) Render(block content.Block) Fragment {
	switch b := block.(type) {
	case content.Paragraph:
		return Fragment{Kind: KindText, Text: b.Text()}
	case content.ImageBlock:
		var opts []imageurl.Option
		if r.width > 0 {
			opts = append(opts, imageurl.Width(r.width))
		}
		u := r.images.URL(b.Image.Asset, opts...)
		if u == "" {
			return Fragment{}
		}
		return Fragment{Kind: KindImage, URL: u, Alt: b.Image.Alt, Width: r.width, Height: r.height}
	default:
		return Fragment{}
	}
}

// RenderAll renders blocks in order, dropping empty fragments.
func (r *Renderer) RenderAll(blocks []content.Block) []Fragment {
	out := make([]Fragment, 0, len(blocks))
	for _, b := range blocks {
		if f := r.Render(b); !f.Empty() {
			out = append(out, f)
		}
	}
	return out
}
