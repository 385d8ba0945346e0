// Package render turns fetched content into HTML.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	bm "github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gravitrone/gerby-reader/internal/content"
	"github.com/gravitrone/gerby-reader/internal/location"
	"github.com/gravitrone/gerby-reader/internal/typeset"
)

const tmplDir = "templates"

//go:embed templates/*.tmpl
var templateFS embed.FS

// DefaultMathJaxURL is the MathJax 2 loader the documents reference.
const DefaultMathJaxURL = "https://cdnjs.cloudflare.com/ajax/libs/mathjax/2.7.9/MathJax.js?config=TeX-AMS_HTML"

// Renderer dispatches content to the placeholder, tag or chapter template.
// A Renderer holds no state besides its templates and is safe for concurrent use.
type Renderer struct {
	tmpl   *template.Template
	policy *bm.Policy
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSanitizer runs every trusted fragment through p before inserting it.
func WithSanitizer(p *bm.Policy) Option {
	return func(r *Renderer) {
		r.policy = p
	}
}

// Sanitized is WithSanitizer using the bluemonday user generated content policy.
func Sanitized() Option {
	return WithSanitizer(bm.UGCPolicy())
}

// New parses the embedded templates.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	tmpl, err := parseTemplates(templateFS, r.funcs())
	if err != nil {
		return nil, err
	}
	r.tmpl = tmpl
	return r, nil
}

// Must is New that panics on error.
func Must(opts ...Option) *Renderer {
	r, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"trusted":    r.trusted,
		"capitalize": Capitalize,
		"tagPath":    location.TagPath,
	}
}

// Capitalize title-cases s, e.g. "section" to "Section". A fresh Caser is
// built per call; Casers are not safe to share.
func Capitalize(s string) string {
	return cases.Title(language.English).String(s)
}

func (r *Renderer) trusted(h content.TrustedHTML) template.HTML {
	if r.policy != nil {
		return template.HTML(r.policy.Sanitize(string(h)))
	}
	return h.HTML()
}

// parseTemplates loads every *.tmpl file under templates/, named by its base
// name without the extension.
func parseTemplates(fsys fs.FS, funcs template.FuncMap) (*template.Template, error) {
	entries, err := fs.ReadDir(fsys, tmplDir)
	if err != nil {
		return nil, fmt.Errorf("read template dir %q: %w", tmplDir, err)
	}
	tmain := template.New("_").Funcs(funcs)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}
		fpath := path.Join(tmplDir, entry.Name())
		data, err := fs.ReadFile(fsys, fpath)
		if err != nil {
			return nil, fmt.Errorf("read template %q: %w", fpath, err)
		}
		tname := strings.TrimSuffix(entry.Name(), ".tmpl")
		if _, err := tmain.New(tname).Parse(string(data)); err != nil {
			return nil, fmt.Errorf("parse template %q: %w", fpath, err)
		}
	}
	return tmain, nil
}

// Render returns the markup for c. Nil and unrecognized content render the
// placeholder.
func (r *Renderer) Render(c content.Content) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.RenderTo(&buf, c); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// RenderTo writes the markup for c to w.
func (r *Renderer) RenderTo(w io.Writer, c content.Content) error {
	name, data := "placeholder", any(nil)
	switch page := c.(type) {
	case content.TagPage:
		name, data = "tag", page
	case content.ChapterPage:
		name, data = "chapter", page
	}
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("execute %s template: %w", name, err)
	}
	return nil
}

// Document is a full HTML page around a rendered body.
type Document struct {
	Title      string
	Root       string
	Body       template.HTML
	MathJaxURL string
	Script     template.JS
}

// WriteDocument writes d as a complete page.
func (r *Renderer) WriteDocument(w io.Writer, d Document) error {
	if d.Root == "" {
		d.Root = typeset.DefaultRoot
	}
	if err := r.tmpl.ExecuteTemplate(w, "document", d); err != nil {
		return fmt.Errorf("execute document template: %w", err)
	}
	return nil
}

// Title picks a page title for c.
func Title(c content.Content) string {
	switch page := c.(type) {
	case content.TagPage:
		if page.Tag.Name != "" {
			return fmt.Sprintf("Tag %s: %s", page.Tag.Tag, page.Tag.Name)
		}
		return "Tag " + page.Tag.Tag
	case content.ChapterPage:
		if page.Chapter.Name != "" {
			return fmt.Sprintf("Chapter %s: %s", page.Chapter.Ref, page.Chapter.Name)
		}
		return "Chapter " + page.Chapter.Ref
	}
	return "Gerby"
}

// Listing is a titled list of tag summaries, as served by browse and search.
type Listing struct {
	Title string
	Items []content.Summary
}

// RenderListing returns the markup for l.
func (r *Renderer) RenderListing(l Listing) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "listing", l); err != nil {
		return "", fmt.Errorf("execute listing template: %w", err)
	}
	return template.HTML(buf.String()), nil
}
