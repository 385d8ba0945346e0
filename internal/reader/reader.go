// Package reader wires location, fetcher, store, renderer and typesetter into
// the mount-fetch-render cycle of a single page.
package reader

import (
	"context"
	"html/template"

	"go.uber.org/zap"

	"github.com/gravitrone/gerby-reader/internal/content"
	"github.com/gravitrone/gerby-reader/internal/location"
	"github.com/gravitrone/gerby-reader/internal/render"
	"github.com/gravitrone/gerby-reader/internal/store"
	"github.com/gravitrone/gerby-reader/internal/typeset"
)

// Fetcher loads the content at a path. *api.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (content.Content, error)
}

// Reader is one page: it owns its store and re-typesets after every commit of
// non-empty content.
type Reader struct {
	fetcher    Fetcher
	store      *store.Store
	renderer   *render.Renderer
	typesetter typeset.Typesetter
	root       string
	logger     *zap.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithRenderer replaces the default renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(rd *Reader) {
		rd.renderer = r
	}
}

// WithLogger sets the logger used for dropped fetch errors.
func WithLogger(l *zap.Logger) Option {
	return func(rd *Reader) {
		rd.logger = l
	}
}

// WithRoot sets the element id passed to the typesetter.
func WithRoot(root string) Option {
	return func(rd *Reader) {
		rd.root = root
	}
}

// New creates a Reader in the initial, empty state.
func New(f Fetcher, ts typeset.Typesetter, opts ...Option) (*Reader, error) {
	rd := &Reader{
		fetcher:    f,
		store:      store.New(store.Initial()),
		typesetter: ts,
		root:       typeset.DefaultRoot,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(rd)
	}
	if rd.typesetter == nil {
		rd.typesetter = typeset.Nop{}
	}
	if rd.renderer == nil {
		r, err := render.New()
		if err != nil {
			return nil, err
		}
		rd.renderer = r
	}
	rd.store.Subscribe(rd.afterCommit)
	return rd, nil
}

func (rd *Reader) afterCommit(prev, next store.State) {
	if !store.Committed(prev, next) || content.IsEmpty(next.Content) {
		return
	}
	rd.typesetter.RequestRetypeset(rd.root)
}

// Mount resolves rawURL and loads the page it points at.
func (rd *Reader) Mount(ctx context.Context, rawURL string) error {
	return rd.Open(ctx, location.Resolve(rawURL))
}

// Open loads the content at path. On failure the error is logged and
// returned, and the displayed content stays what it was.
func (rd *Reader) Open(ctx context.Context, path string) error {
	rd.store.Dispatch(store.Navigate{Path: path})

	c, err := rd.fetcher.Fetch(ctx, path)
	if err != nil {
		rd.logger.Warn("fetch failed, keeping current content",
			zap.String("path", path),
			zap.Error(err))
		rd.store.Dispatch(store.Failed{Path: path, Err: err})
		return err
	}
	rd.store.Dispatch(store.Loaded{Path: path, Content: c})
	return nil
}

// State returns the current state.
func (rd *Reader) State() store.State {
	return rd.store.State()
}

// Render returns the markup for the current content.
func (rd *Reader) Render() (template.HTML, error) {
	return rd.renderer.Render(rd.store.State().Content)
}

// Renderer exposes the renderer for document output.
func (rd *Reader) Renderer() *render.Renderer {
	return rd.renderer
}

// Subscribe forwards to the underlying store.
func (rd *Reader) Subscribe(l store.Listener) func() {
	return rd.store.Subscribe(l)
}
