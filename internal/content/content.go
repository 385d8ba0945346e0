// Package content holds the tag and chapter payloads served by the API.
package content

import (
	"encoding/json"
	"fmt"
	"html/template"
)

// Kind discriminates Content variants.
type Kind string

const (
	KindEmpty   Kind = ""
	KindTag     Kind = "tag"
	KindChapter Kind = "chapter"
)

// Content is one fetched page. Values are never mutated after decoding.
type Content interface {
	Kind() Kind
}

// TrustedHTML is a markup fragment taken verbatim from the API. It is the only
// type the renderers insert unescaped.
type TrustedHTML string

// HTML marks the fragment safe for html/template.
func (h TrustedHTML) HTML() template.HTML {
	return template.HTML(h)
}

// --- Variants ---

// Empty is the state before any page has loaded, and the decoding of any
// payload without a recognized type.
type Empty struct{}

func (Empty) Kind() Kind { return KindEmpty }

// Tag is a leaf unit: a statement, definition, section or similar.
type Tag struct {
	Tag  string      `json:"tag"`
	Name string      `json:"name,omitempty"`
	Ref  string      `json:"ref,omitempty"`
	Type string      `json:"type,omitempty"`
	HTML TrustedHTML `json:"html"`
}

// Proof is one proof body attached to a tag.
type Proof struct {
	HTML TrustedHTML `json:"html"`
}

// Crumb is an ancestor reference shown above a tag.
type Crumb struct {
	Type string `json:"type"`
	Ref  string `json:"ref"`
	Tag  string `json:"tag"`
	Name string `json:"name,omitempty"`
}

// TagPage is the `type: "tag"` payload.
type TagPage struct {
	Tag        Tag     `json:"tag"`
	Proofs     []Proof `json:"proofs"`
	Breadcrumb []Crumb `json:"breadcrumb"`
}

func (TagPage) Kind() Kind { return KindTag }

// Chapter heads a chapter page.
type Chapter struct {
	Tag  string `json:"tag"`
	Ref  string `json:"ref"`
	Name string `json:"name,omitempty"`
}

// Section is one entry of a chapter's table of contents.
type Section struct {
	Tag  string `json:"tag"`
	Ref  string `json:"ref"`
	Name string `json:"name"`
}

// ChapterPage is the `type: "chapter"` payload.
type ChapterPage struct {
	Chapter  Chapter   `json:"chapter"`
	Sections []Section `json:"sections"`
}

func (ChapterPage) Kind() Kind { return KindChapter }

// IsEmpty reports whether c carries no renderable page.
func IsEmpty(c Content) bool {
	return c == nil || c.Kind() == KindEmpty
}

// --- Decoding ---

// Decode reads the type discriminator and decodes the matching variant.
// Unknown or missing types decode to Empty.
func Decode(data []byte) (Content, error) {
	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}

	switch head.Type {
	case KindTag:
		var page TagPage
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("decode tag: %w", err)
		}
		return page, nil
	case KindChapter:
		var page ChapterPage
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("decode chapter: %w", err)
		}
		return page, nil
	}
	return Empty{}, nil
}

// Summary is the short tag record returned by the listing endpoints.
type Summary struct {
	Tag  string      `json:"tag"`
	Name string      `json:"name"`
	Ref  string      `json:"ref"`
	HTML TrustedHTML `json:"html"`
	Type string      `json:"type"`
}
