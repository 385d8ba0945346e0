package render

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/gerby-reader/internal/content"
	"github.com/gravitrone/gerby-reader/internal/typeset"
)

func TestRenderPlaceholder(t *testing.T) {
	r := Must()
	for _, c := range []content.Content{nil, content.Empty{}} {
		out, err := r.Render(c)
		require.NoError(t, err)
		s := string(out)
		assert.Contains(t, s, "Waiting for stuff.")
		assert.NotContains(t, s, "<h1>")
		assert.NotContains(t, s, "proof")
	}
}

func TestRenderChapter(t *testing.T) {
	out, err := Must().Render(content.ChapterPage{
		Chapter:  content.Chapter{Tag: "t1", Ref: "r1"},
		Sections: []content.Section{{Tag: "t2", Ref: "r2", Name: "Intro"}},
	})
	require.NoError(t, err)
	s := string(out)

	assert.Equal(t, 1, strings.Count(s, `<p class="section">`))
	assert.Contains(t, s, `<a href="/tag/t2">Section r2: Intro</a>`)
	assert.Contains(t, s, "(t2)")

	heading := s[strings.Index(s, "<h1>"):strings.Index(s, "</h1>")]
	assert.Contains(t, heading, "t1")
	assert.Contains(t, heading, "r1")
}

func TestRenderTagWithoutBreadcrumb(t *testing.T) {
	out, err := Must().Render(content.TagPage{
		Tag:        content.Tag{Tag: "t1", HTML: "<b>x</b>"},
		Proofs:     []content.Proof{},
		Breadcrumb: []content.Crumb{},
	})
	require.NoError(t, err)
	s := string(out)

	assert.NotContains(t, s, "breadcrumb")
	assert.Contains(t, s, `<div class="tag-html"><b>x</b></div>`)
	assert.Contains(t, s, `<span class="tag-name">t1</span>`)
	assert.NotContains(t, s, `<li class="proof">`)
}

func TestRenderTagWithBreadcrumbAndProofs(t *testing.T) {
	out, err := Must().Render(content.TagPage{
		Tag: content.Tag{Tag: "0003", Name: "Yoneda", HTML: "<p>$h_X$</p>"},
		Proofs: []content.Proof{
			{HTML: "<p>first</p>"},
			{HTML: "<p>second</p>"},
		},
		Breadcrumb: []content.Crumb{
			{Type: "chapter", Ref: "1", Tag: "0001"},
			{Type: "section", Ref: "1.2", Tag: "0002"},
		},
	})
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, `<ul class="breadcrumb">`)
	assert.Contains(t, s, `<a href="/tag/0001">Chapter 1</a>`)
	assert.Contains(t, s, `<a href="/tag/0002">Section 1.2</a>`)
	assert.Contains(t, s, "<small>Yoneda</small>")
	assert.Contains(t, s, "<p>$h_X$</p>")
	assert.Equal(t, 2, strings.Count(s, `<li class="proof">`))
	assert.Less(t, strings.Index(s, "first"), strings.Index(s, "second"))
}

func TestRenderEscapesPlainStrings(t *testing.T) {
	out, err := Must().Render(content.ChapterPage{
		Chapter:  content.Chapter{Tag: "<script>", Ref: "1"},
		Sections: []content.Section{{Tag: "a b", Ref: "1.1", Name: "<i>n</i>"}},
	})
	require.NoError(t, err)
	s := string(out)

	assert.NotContains(t, s, "<script>")
	assert.Contains(t, s, "&lt;i&gt;n&lt;/i&gt;")
	assert.Contains(t, s, `href="/tag/a%20b"`)
}

func TestRenderSanitized(t *testing.T) {
	page := content.TagPage{Tag: content.Tag{Tag: "t1", HTML: `<b>x</b><script>alert(1)</script>`}}

	raw, err := Must().Render(page)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<script>alert(1)</script>")

	clean, err := Must(Sanitized()).Render(page)
	require.NoError(t, err)
	assert.Contains(t, string(clean), "<b>x</b>")
	assert.NotContains(t, string(clean), "<script>")
}

func TestRenderConcurrent(t *testing.T) {
	r := Must()
	page := content.TagPage{Tag: content.Tag{Tag: "t1"}, Breadcrumb: []content.Crumb{{Type: "section", Ref: "1.1", Tag: "s"}}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := r.Render(page)
			assert.NoError(t, err)
			assert.Contains(t, string(out), "Section 1.1")
		}()
	}
	wg.Wait()
}

func TestWriteDocument(t *testing.T) {
	r := Must()
	q := typeset.NewQueue()
	q.RequestRetypeset(typeset.DefaultRoot)

	body, err := r.Render(content.TagPage{Tag: content.Tag{Tag: "t1", HTML: "<b>x</b>"}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.WriteDocument(&buf, Document{
		Title:      "Tag t1",
		Body:       body,
		MathJaxURL: DefaultMathJaxURL,
		Script:     q.Script(),
	}))
	s := buf.String()

	assert.Contains(t, s, "<title>Tag t1</title>")
	assert.Contains(t, s, `<div id="content">`)
	assert.Contains(t, s, "<b>x</b>")
	assert.Contains(t, s, `MathJax.Hub.Queue(["Typeset",MathJax.Hub,"content"]);`)
	assert.Contains(t, s, "MathJax.js?config=TeX-AMS_HTML")
}

func TestWriteDocumentWithoutMathJax(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Must().WriteDocument(&buf, Document{Title: "Gerby", Body: "<p>hi</p>"}))
	s := buf.String()

	assert.NotContains(t, s, "MathJax")
	assert.NotContains(t, s, "<script")
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Gerby", Title(content.Empty{}))
	assert.Equal(t, "Tag 0001", Title(content.TagPage{Tag: content.Tag{Tag: "0001"}}))
	assert.Equal(t, "Tag 0001: Yoneda", Title(content.TagPage{Tag: content.Tag{Tag: "0001", Name: "Yoneda"}}))
	assert.Equal(t, "Chapter 4: Sets", Title(content.ChapterPage{Chapter: content.Chapter{Ref: "4", Name: "Sets"}}))
}

func TestRenderListing(t *testing.T) {
	out, err := Must().RenderListing(Listing{
		Title: "Chapters",
		Items: []content.Summary{
			{Tag: "0001", Ref: "1", Name: "Introduction", Type: "chapter"},
			{Tag: "0002"},
		},
	})
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "<h1>Chapters</h1>")
	assert.Contains(t, s, `<a href="/tag/0001">1 Introduction</a> <span class="type">chapter</span>`)
	assert.Contains(t, s, `<a href="/tag/0002">0002</a>`)

	empty, err := Must().RenderListing(Listing{Title: "Search"})
	require.NoError(t, err)
	assert.Contains(t, string(empty), "Nothing found.")
}
