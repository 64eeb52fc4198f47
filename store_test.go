package wanderpress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eringen/wanderpress/content"
)

func TestEveryEnumeratedSlugIsFetchable(t *testing.T) {
	f := newFakeSanity()
	f.add("lisbon", lisbonDoc)
	f.add("porto", portoDoc)
	app := newTestApp(t, f)

	slugs, err := app.LoadAllSlugs(context.Background())
	if err != nil {
		t.Fatalf("LoadAllSlugs: %v", err)
	}
	if len(slugs) != 2 {
		t.Fatalf("got %d slugs, want 2", len(slugs))
	}
	for _, slug := range slugs {
		p, err := app.LoadPost(context.Background(), slug)
		if err != nil {
			t.Fatalf("LoadPost(%q): %v", slug, err)
		}
		if p.Slug != slug {
			t.Errorf("LoadPost(%q).Slug = %q", slug, p.Slug)
		}
	}
}

func TestLoadPostUnknownSlugIsNotFound(t *testing.T) {
	app := newTestApp(t, newFakeSanity())
	_, err := app.LoadPost(context.Background(), "nowhere")
	if !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStoreFailureIsFetchError(t *testing.T) {
	f := newFakeSanity()
	f.failAll = true
	app := newTestApp(t, f)

	_, err := app.LoadAllSlugs(context.Background())
	var fe *content.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want FetchError", err)
	}
	if fe.StatusCode != 503 {
		t.Errorf("StatusCode = %d, want 503", fe.StatusCode)
	}
}

func TestListSummariesKeepsStoreOrder(t *testing.T) {
	f := newFakeSanity()
	f.add("porto", portoDoc)
	f.add("lisbon", lisbonDoc)
	app := newTestApp(t, f)

	posts, err := app.Store.ListSummaries(context.Background())
	if err != nil {
		t.Fatalf("ListSummaries: %v", err)
	}
	if len(posts) != 2 || posts[0].Slug != "porto" || posts[1].Slug != "lisbon" {
		t.Fatalf("unexpected order: %+v", posts)
	}
}

func TestStoreBoundsEachFetch(t *testing.T) {
	s := NewStore(nil, 50*time.Millisecond)
	ctx, cancel := s.bound(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline")
	}
	if time.Until(deadline) > 50*time.Millisecond {
		t.Errorf("deadline too far out: %v", time.Until(deadline))
	}

	unbounded := NewStore(nil, 0)
	ctx2, cancel2 := unbounded.bound(context.Background())
	defer cancel2()
	if _, ok := ctx2.Deadline(); ok {
		t.Error("zero timeout should not set a deadline")
	}
}
