package wanderpress

import (
	"context"
	"time"

	"github.com/eringen/wanderpress/content"
)

// Store reads posts from the content store. Every call goes to the store;
// nothing is kept between calls.
type Store struct {
	client  *content.Client
	timeout time.Duration
}

// NewStore wraps client, bounding each fetch by timeout.
func NewStore(client *content.Client, timeout time.Duration) *Store {
	return &Store{client: client, timeout: timeout}
}

func (s *Store) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// LoadAllSlugs returns every post slug in store order.
func (s *Store) LoadAllSlugs(ctx context.Context) ([]string, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.client.LoadAllSlugs(ctx)
}

// LoadPost returns the post with slug, or an error wrapping
// content.ErrNotFound.
func (s *Store) LoadPost(ctx context.Context, slug string) (content.Post, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.client.LoadPost(ctx, slug)
}

// ListSummaries returns every post with title, description, tags and
// creation date only, for the sitemap and feed.
func (s *Store) ListSummaries(ctx context.Context) ([]content.Post, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.client.LoadSummaries(ctx)
}

// LoadAllSlugs enumerates every post slug through the App's store.
func (a *App) LoadAllSlugs(ctx context.Context) ([]string, error) {
	return a.Store.LoadAllSlugs(ctx)
}

// LoadPost fetches one post through the App's store.
func (a *App) LoadPost(ctx context.Context, slug string) (content.Post, error) {
	return a.Store.LoadPost(ctx, slug)
}
