package wanderpress

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/gommon/log"

	"github.com/eringen/wanderpress/content"
)

// fakeSanity answers the three fixed queries from an in-memory dataset.
type fakeSanity struct {
	mu      sync.Mutex
	order   []string
	docs    map[string]string
	ghosts  []string // enumerated but never resolvable
	failAll bool
}

func newFakeSanity() *fakeSanity {
	return &fakeSanity{docs: map[string]string{}}
}

func (f *fakeSanity) add(slug, doc string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.order = append(f.order, slug)
	f.docs[slug] = doc
}

func (f *fakeSanity) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":{"description":"dataset unavailable"}}`)
		return
	}

	var result string
	switch r.URL.Query().Get("query") {
	case content.AllSlugsQuery:
		var rows []string
		for _, s := range append(append([]string{}, f.order...), f.ghosts...) {
			b, _ := json.Marshal(s)
			rows = append(rows, `{"slug":`+string(b)+`}`)
		}
		result = "[" + strings.Join(rows, ",") + "]"
	case content.PostBySlugQuery:
		var slug string
		_ = json.Unmarshal([]byte(r.URL.Query().Get("$slug")), &slug)
		doc, ok := f.docs[slug]
		if !ok {
			doc = "null"
		}
		result = doc
	case content.SummariesQuery:
		var docs []string
		for _, s := range f.order {
			docs = append(docs, f.docs[s])
		}
		result = "[" + strings.Join(docs, ",") + "]"
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"description":"unexpected query"}}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"ms":1,"result":`+result+`}`)
}

const lisbonDoc = `{
  "_createdAt": "2020-12-25T00:00:00Z",
  "title": "Lisbon",
  "description": "Trams <b>and</b> tiles",
  "slug": "lisbon",
  "banner": {"_type": "image", "asset": {"_ref": "image-abc123-2000x1000-jpg"}},
  "tags": ["portugal"],
  "content": [
    {"_type": "block", "_key": "a", "children": [{"_type": "span", "text": "Hello "}, {"_type": "span", "text": "Lisbon"}]},
    {"_type": "image", "_key": "b", "asset": {"_ref": "image-def456-800x600-png"}},
    {"_type": "code", "_key": "c", "code": "x"}
  ],
  "address": "Praça do Comércio, Lisboa",
  "website": "https://visitlisboa.com",
  "date": "2021-05-01"
}`

const portoDoc = `{"_createdAt": "2021-01-02T10:00:00Z", "title": "Porto", "slug": "porto"}`

func quietLogger() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	return l
}

func newTestApp(t *testing.T, f *fakeSanity) *App {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	client, err := content.New(content.Config{ProjectID: "proj", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("content.New: %v", err)
	}
	dir := t.TempDir()
	cfg := SiteConfig{
		Name:             "Test Blog",
		URL:              "https://example.com/",
		GoogleMapsAPIKey: "test-key",
		OutputDir:        filepath.Join(dir, "dist"),
		StaticDir:        filepath.Join(dir, "static"),
		SessionSecret:    "test-session-secret",
	}
	app, err := New(cfg, WithContentClient(client), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app
}
