// Package imageurl turns content store asset references into image CDN URLs.
package imageurl

import (
	"net/url"
	"regexp"
	"strconv"

	"github.com/eringen/wanderpress/content"
)

// DefaultBaseURL is the Sanity image CDN.
const DefaultBaseURL = "https://cdn.sanity.io"

// image-<id>-<width>x<height>-<format>
var refPattern = regexp.MustCompile(`^image-([A-Za-z0-9_]+)-(\d+x\d+)-([a-z0-9]+)$`)

// Builder resolves asset references for one project and dataset.
type Builder struct {
	ProjectID string
	Dataset   string
	BaseURL   string
}

// New returns a Builder pointed at the public image CDN.
func New(projectID, dataset string) Builder {
	return Builder{ProjectID: projectID, Dataset: dataset, BaseURL: DefaultBaseURL}
}

type options struct {
	width  int
	height int
}

// Option adjusts the transform parameters of a URL.
type Option func(*options)

// Width asks the image service to scale to n pixels wide.
func Width(n int) Option {
	return func(o *options) { o.width = n }
}

// Height asks the image service to scale to n pixels high.
func Height(n int) Option {
	return func(o *options) { o.height = n }
}

// URL returns the image URL for ref. Without options it is the full-size
// original. An unparseable ref yields "".
func (b Builder) URL(ref content.AssetRef, opts ...Option) string {
	m := refPattern.FindStringSubmatch(string(ref))
	if m == nil {
		return ""
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	base := b.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u := base + "/images/" + url.PathEscape(b.ProjectID) + "/" + url.PathEscape(b.Dataset) +
		"/" + m[1] + "-" + m[2] + "." + m[3]

	q := url.Values{}
	if o.width > 0 {
		q.Set("w", strconv.Itoa(o.width))
	}
	if o.height > 0 {
		q.Set("h", strconv.Itoa(o.height))
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// Image is a convenience for content.Image values; nil yields "".
func (b Builder) Image(im *content.Image, opts ...Option) string {
	if im == nil {
		return ""
	}
	return b.URL(im.Asset, opts...)
}
