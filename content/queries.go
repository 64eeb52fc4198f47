package content

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// AllSlugsQuery enumerates every post slug. No ordering clause: posts come
// back in store order.
const AllSlugsQuery = `*[_type == "post" && defined(slug.current)]{ "slug": slug.current }`

// PostBySlugQuery fetches one post by its slug.
const PostBySlugQuery = `*[_type == "post" && slug.current == $slug][0]{
  _createdAt,
  title,
  description,
  banner,
  "slug": slug.current,
  tags,
  content,
  date,
  website,
  address
}`

// LoadAllSlugs returns the slug of every post.
func (c *Client) LoadAllSlugs(ctx context.Context) ([]string, error) {
	entries, err := QueryInto[[]SlugEntry](ctx, c, AllSlugsQuery, nil)
	if err != nil {
		return nil, err
	}
	slugs := make([]string, 0, len(entries))
	for i, e := range entries {
		if e.Slug == "" {
			return nil, &FetchError{Op: "decode", Err: &SchemaError{Path: "[" + strconv.Itoa(i) + "].slug", Reason: "missing slug"}}
		}
		slugs = append(slugs, e.Slug)
	}
	return slugs, nil
}

// LoadPost fetches and validates the post with slug. It returns ErrNotFound
// when the store has no such post.
func (c *Client) LoadPost(ctx context.Context, slug string) (Post, error) {
	raw, err := c.Query(ctx, PostBySlugQuery, map[string]any{"slug": slug})
	if err != nil {
		return Post{}, err
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return Post{}, errors.Wrapf(ErrNotFound, "slug %q", slug)
	}
	var p Post
	if err := json.Unmarshal(raw, &p); err != nil {
		return Post{}, &FetchError{Op: "decode", Err: errors.Wrapf(err, "post %q", slug)}
	}
	if err := p.Validate(); err != nil {
		return Post{}, &FetchError{Op: "validate", Err: err}
	}
	return p, nil
}

// SummariesQuery lists the fields the sitemap and feed need for every post.
const SummariesQuery = `*[_type == "post" && defined(slug.current)]{
  "slug": slug.current,
  title,
  description,
  tags,
  _createdAt
}`

// LoadSummaries returns every post without content blocks or location.
func (c *Client) LoadSummaries(ctx context.Context) ([]Post, error) {
	posts, err := QueryInto[[]Post](ctx, c, SummariesQuery, nil)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		if err := p.Validate(); err != nil {
			return nil, &FetchError{Op: "validate", Err: err}
		}
	}
	return posts, nil
}
