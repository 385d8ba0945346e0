// Package server serves rendered reader pages over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/gravitrone/gerby-reader/internal/api"
	"github.com/gravitrone/gerby-reader/internal/reader"
	"github.com/gravitrone/gerby-reader/internal/render"
	"github.com/gravitrone/gerby-reader/internal/typeset"
)

// Server renders one reader page per request.
type Server struct {
	client     *api.Client
	renderer   *render.Renderer
	mathJaxURL string
	logger     *zap.Logger
	router     *chi.Mux
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the access and error logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMathJaxURL sets the MathJax loader referenced by every page. Empty
// disables typesetting in the browser.
func WithMathJaxURL(u string) Option {
	return func(s *Server) {
		s.mathJaxURL = u
	}
}

// New builds the server and its routes.
func New(client *api.Client, renderer *render.Renderer, opts ...Option) *Server {
	s := &Server{
		client:     client,
		renderer:   renderer,
		mathJaxURL: render.DefaultMathJaxURL,
		logger:     zap.NewNop(),
		router:     chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.accessLog)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/browse", s.handleBrowse)
	s.router.Get("/search", s.handleSearch)
	s.router.Get("/*", s.handlePage)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.logger.Info("serving", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

// handlePage mounts a fresh reader on the request URI. A failed fetch leaves
// the reader empty, so the visitor gets the placeholder.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	queue := typeset.NewQueue()
	rd, err := reader.New(s.client, queue,
		reader.WithRenderer(s.renderer),
		reader.WithLogger(s.logger.With(zap.String("request_id", middleware.GetReqID(r.Context())))),
	)
	if err != nil {
		s.httpError(w, http.StatusInternalServerError, err)
		return
	}
	_ = rd.Mount(r.Context(), r.URL.RequestURI())

	body, err := rd.Render()
	if err != nil {
		s.httpError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeDocument(w, render.Title(rd.State().Content), body, queue.Script())
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	chapters, err := s.client.Browse(r.Context())
	if err != nil {
		s.httpError(w, http.StatusBadGateway, fmt.Errorf("browse: %w", err))
		return
	}
	s.writeListing(w, render.Listing{Title: "Chapters", Items: chapters})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	results, err := s.client.Search(r.Context(), query)
	if err != nil {
		s.httpError(w, http.StatusBadGateway, fmt.Errorf("search %q: %w", query, err))
		return
	}
	title := "Search"
	if query != "" {
		title = fmt.Sprintf("Search: %s", query)
	}
	s.writeListing(w, render.Listing{Title: title, Items: results})
}

func (s *Server) writeListing(w http.ResponseWriter, l render.Listing) {
	body, err := s.renderer.RenderListing(l)
	if err != nil {
		s.httpError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeDocument(w, l.Title, body, "")
}

func (s *Server) writeDocument(w http.ResponseWriter, title string, body template.HTML, script template.JS) {
	var buf bytes.Buffer
	err := s.renderer.WriteDocument(&buf, render.Document{
		Title:      title,
		Body:       body,
		MathJaxURL: s.mathJaxURL,
		Script:     script,
	})
	if err != nil {
		s.httpError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) httpError(w http.ResponseWriter, code int, err error) {
	s.logger.Error("request failed", zap.Int("status", code), zap.Error(err))
	http.Error(w, http.StatusText(code), code)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("uri", r.URL.RequestURI()),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)))
	})
}
