package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// AssetRef is an opaque pointer to an image stored in the content store.
// Only the imageurl package turns it into something fetchable.
type AssetRef string

var assetRefPattern = regexp.MustCompile(`^image-[A-Za-z0-9_]+-\d+x\d+-[a-z0-9]+$`)

// Valid reports whether r has the shape of an image asset reference.
func (r AssetRef) Valid() bool {
	return assetRefPattern.MatchString(string(r))
}

// Image is an image field: {"_type":"image","asset":{"_ref":"image-..."}}.
type Image struct {
	Asset AssetRef
	Alt   string
}

type imageJSON struct {
	Asset *struct {
		Ref string `json:"_ref"`
	} `json:"asset"`
	Alt string `json:"alt"`
}

func (im *Image) UnmarshalJSON(b []byte) error {
	var raw imageJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Asset == nil || raw.Asset.Ref == "" {
		return &SchemaError{Path: "image.asset", Reason: "missing _ref"}
	}
	ref := AssetRef(raw.Asset.Ref)
	if !ref.Valid() {
		return &SchemaError{Path: "image.asset._ref", Reason: fmt.Sprintf("malformed asset reference %q", raw.Asset.Ref)}
	}
	im.Asset = ref
	im.Alt = raw.Alt
	return nil
}

// Block is one unit of rich content. The set of implementations is closed:
// Paragraph, ImageBlock and UnknownBlock.
type Block interface {
	BlockType() string
	isBlock()
}

// Span is a run of text inside a paragraph.
type Span struct {
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

// Paragraph is a "block" typed entry: spans shown in order.
type Paragraph struct {
	Key   string
	Style string
	Spans []Span
}

func (Paragraph) BlockType() string { return "block" }
func (Paragraph) isBlock()          {}

// Text concatenates the span texts.
func (p Paragraph) Text() string {
	var b strings.Builder
	for _, s := range p.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// ImageBlock is an inline image.
type ImageBlock struct {
	Key   string
	Image Image
}

func (ImageBlock) BlockType() string { return "image" }
func (ImageBlock) isBlock()          {}

// UnknownBlock keeps any block type this site does not know how to show.
type UnknownBlock struct {
	Type string
	Raw  json.RawMessage
}

func (u UnknownBlock) BlockType() string { return u.Type }
func (UnknownBlock) isBlock()            {}

// Blocks decodes a portable text array into typed variants.
type Blocks []Block

type blockHeader struct {
	Type     string          `json:"_type"`
	Key      string          `json:"_key"`
	Style    string          `json:"style"`
	Children json.RawMessage `json:"children"`
}

func (bs *Blocks) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*bs = nil
		return nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return &SchemaError{Path: "content", Reason: "expected an array of blocks"}
	}
	out := make(Blocks, 0, len(raws))
	for i, raw := range raws {
		blk, err := decodeBlock(raw)
		if err != nil {
			if se, ok := err.(*SchemaError); ok {
				se.Path = fmt.Sprintf("content[%d].%s", i, se.Path)
				return se
			}
			return &SchemaError{Path: fmt.Sprintf("content[%d]", i), Reason: err.Error()}
		}
		out = append(out, blk)
	}
	*bs = out
	return nil
}

func decodeBlock(raw json.RawMessage) (Block, error) {
	var h blockHeader
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, &SchemaError{Path: "_type", Reason: "block is not an object"}
	}
	switch h.Type {
	case "block":
		p := Paragraph{Key: h.Key, Style: h.Style}
		if len(h.Children) > 0 && !bytes.Equal(h.Children, []byte("null")) {
			if err := json.Unmarshal(h.Children, &p.Spans); err != nil {
				return nil, &SchemaError{Path: "children", Reason: "expected an array of spans"}
			}
		}
		return p, nil
	case "image":
		var im Image
		if err := json.Unmarshal(raw, &im); err != nil {
			return nil, err
		}
		return ImageBlock{Key: h.Key, Image: im}, nil
	case "":
		return nil, &SchemaError{Path: "_type", Reason: "missing block type"}
	default:
		return UnknownBlock{Type: h.Type, Raw: append(json.RawMessage(nil), raw...)}, nil
	}
}

// SlugEntry is one row of the slug enumeration query.
type SlugEntry struct {
	Slug string `json:"slug"`
}

// Post is a blog post as the site renders it.
type Post struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Banner      *Image   `json:"banner"`
	Content     Blocks   `json:"content"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"_createdAt"`

	// Location fields; any of them may be absent.
	Date    string `json:"date"`
	Address string `json:"address"`
	Website string `json:"website"`
}

// Validate checks the fields every rendered post needs.
func (p Post) Validate() error {
	if strings.TrimSpace(p.Slug) == "" {
		return &SchemaError{Path: "slug", Reason: "missing slug"}
	}
	if strings.TrimSpace(p.Title) == "" {
		return &SchemaError{Path: "title", Reason: fmt.Sprintf("post %q has no title", p.Slug)}
	}
	return nil
}

// HasLocation reports whether address, website and visit date are all set.
func (p Post) HasLocation() bool {
	return p.Address != "" && p.Website != "" && p.Date != ""
}

// Path returns the site path of the post page.
func (p Post) Path() string {
	return "/post/" + p.Slug
}
