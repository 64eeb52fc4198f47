package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{ProjectID: "proj", BaseURL: srv.URL})
	require.NoError(t, err)
	return c
}

func writeResult(w http.ResponseWriter, result string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ms":1,"query":"q","result":` + result + `}`))
}

func TestNewRequiresProject(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNewEndpointHosts(t *testing.T) {
	tests := []struct {
		cfg  Config
		want string
	}{
		{Config{ProjectID: "p"}, "https://p.api.sanity.io/v2023-03-01/data/query/production"},
		{Config{ProjectID: "p", UseCDN: true}, "https://p.apicdn.sanity.io/v2023-03-01/data/query/production"},
		{Config{ProjectID: "p", UseCDN: true, Token: "t"}, "https://p.api.sanity.io/v2023-03-01/data/query/production"},
		{Config{ProjectID: "p", Dataset: "staging", APIVersion: "v2021-10-21"}, "https://p.api.sanity.io/v2021-10-21/data/query/staging"},
	}
	for _, tt := range tests {
		c, err := New(tt.cfg)
		require.NoError(t, err)
		assert.Equal(t, tt.want, c.endpoint)
	}
}

func TestQuerySendsEncodedParams(t *testing.T) {
	var gotQuery, gotSlug, gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotSlug = r.URL.Query().Get("$slug")
		gotAuth = r.Header.Get("Authorization")
		writeResult(w, `[]`)
	})

	q := `*[_type == "post" && slug.current == $slug][0]`
	_, err := c.Query(context.Background(), q, map[string]any{"slug": `a"b&c`})
	require.NoError(t, err)
	assert.Equal(t, q, gotQuery)
	assert.Equal(t, `"a\"b&c"`, gotSlug)
	assert.Empty(t, gotAuth)
}

func TestQuerySendsToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeResult(w, `null`)
	}))
	defer srv.Close()
	c, err := New(Config{ProjectID: "p", BaseURL: srv.URL, Token: "secret"})
	require.NoError(t, err)
	_, err = c.Query(context.Background(), "*", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestQueryStatusErrorIsFetchError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"description":"expected ']'","type":"queryParseError"}}`))
	})
	_, err := c.Query(context.Background(), "*[", nil)
	var fe *FetchError
	require.True(t, errors.As(err, &fe), "want FetchError, got %v", err)
	assert.Equal(t, http.StatusBadRequest, fe.StatusCode)
	assert.Contains(t, err.Error(), "expected ']'")
}

func TestQueryMalformedBodyIsFetchError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	})
	_, err := c.Query(context.Background(), "*", nil)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "decode", fe.Op)
}

func TestQueryUnreachableIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c, err := New(Config{ProjectID: "p", BaseURL: url})
	require.NoError(t, err)
	_, err = c.Query(context.Background(), "*", nil)
	var fe *FetchError
	assert.True(t, errors.As(err, &fe))
}

func TestLoadAllSlugsKeepsStoreOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, `[{"slug":"zeta"},{"slug":"alpha"},{"slug":"mid"}]`)
	})
	slugs, err := c.LoadAllSlugs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, slugs)
}

func TestLoadAllSlugsRejectsMissingSlug(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, `[{"slug":"a"},{}]`)
	})
	_, err := c.LoadAllSlugs(context.Background())
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "[1].slug", se.Path)
}

const samplePost = `{
  "_createdAt": "2020-12-25T00:00:00Z",
  "title": "Lisbon",
  "description": "Trams and tiles",
  "slug": "lisbon",
  "banner": {"_type": "image", "asset": {"_ref": "image-abc123-2000x1000-jpg", "_type": "reference"}},
  "tags": ["portugal", "city"],
  "content": [
    {"_type": "block", "_key": "k1", "style": "normal", "children": [{"_type": "span", "text": "Hello "}, {"_type": "span", "text": "world"}]},
    {"_type": "image", "_key": "k2", "asset": {"_ref": "image-def456-800x600-png"}},
    {"_type": "youtube", "_key": "k3", "url": "https://example.com"}
  ],
  "address": "Praça do Comércio, Lisboa",
  "website": "https://visitlisboa.com",
  "date": "2021-05-01"
}`

func TestLoadPostDecodesTypedBlocks(t *testing.T) {
	var gotSlug string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSlug = r.URL.Query().Get("$slug")
		writeResult(w, samplePost)
	})
	p, err := c.LoadPost(context.Background(), "lisbon")
	require.NoError(t, err)
	assert.Equal(t, `"lisbon"`, gotSlug)
	assert.Equal(t, "Lisbon", p.Title)
	require.NotNil(t, p.Banner)
	assert.Equal(t, AssetRef("image-abc123-2000x1000-jpg"), p.Banner.Asset)
	require.Len(t, p.Content, 3)

	para, ok := p.Content[0].(Paragraph)
	require.True(t, ok)
	assert.Equal(t, "Hello world", para.Text())

	img, ok := p.Content[1].(ImageBlock)
	require.True(t, ok)
	assert.Equal(t, AssetRef("image-def456-800x600-png"), img.Image.Asset)

	unk, ok := p.Content[2].(UnknownBlock)
	require.True(t, ok)
	assert.Equal(t, "youtube", unk.BlockType())
	assert.True(t, p.HasLocation())
}

func TestLoadPostNullIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, `null`)
	})
	_, err := c.LoadPost(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadPostToleratesMissingOptionalFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, `{"slug":"bare","title":"Bare"}`)
	})
	p, err := c.LoadPost(context.Background(), "bare")
	require.NoError(t, err)
	assert.Nil(t, p.Banner)
	assert.Empty(t, p.Content)
	assert.False(t, p.HasLocation())
}

func TestLoadPostSchemaMismatchFailsFast(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{"no title", `{"slug":"x"}`, "title"},
		{"content not array", `{"slug":"x","title":"X","content":{"a":1}}`, "content"},
		{"image without ref", `{"slug":"x","title":"X","content":[{"_type":"image","asset":{}}]}`, "content[0].image.asset"},
		{"bad ref", `{"slug":"x","title":"X","banner":{"asset":{"_ref":"file-x"}}}`, "image.asset._ref"},
		{"untyped block", `{"slug":"x","title":"X","content":[{"children":[]}]}`, "content[0]._type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeResult(w, tt.doc)
			})
			_, err := c.LoadPost(context.Background(), "x")
			var fe *FetchError
			require.True(t, errors.As(err, &fe), "want FetchError, got %v", err)
			var se *SchemaError
			require.True(t, errors.As(err, &se), "want SchemaError, got %v", err)
			assert.Equal(t, tt.path, se.Path)
		})
	}
}

func TestBlocksNullDecodesEmpty(t *testing.T) {
	var bs Blocks
	require.NoError(t, json.Unmarshal([]byte(`null`), &bs))
	assert.Nil(t, bs)
}

func TestParagraphTextConcatenatesInOrder(t *testing.T) {
	p := Paragraph{Spans: []Span{{Text: "a"}, {Text: "b"}}}
	if got := p.Text(); got != "ab" {
		t.Fatalf("Text() = %q, want %q", got, "ab")
	}
	if !strings.HasPrefix(Post{Slug: "x"}.Path(), "/post/") {
		t.Fatalf("unexpected post path")
	}
}
