// Package web serves the settings panel as an HTML page. Item clicks post
// back to the server, which owns the navigator and redraws the chart.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/tablegraph/internal/datasource"
	"github.com/vanderheijden86/tablegraph/pkg/chart"
	"github.com/vanderheijden86/tablegraph/pkg/debug"
	"github.com/vanderheijden86/tablegraph/pkg/optionspane"
	"github.com/vanderheijden86/tablegraph/pkg/watcher"
)

// Config holds configuration for the web host.
type Config struct {
	Provider datasource.Provider
	Chart    chart.Options
	Addr     string
	Title    string
	// Reload and Watcher enable live reload of the data file. Reload's
	// release func closes the replaced provider's handle.
	Reload  func() (datasource.Provider, func(), error)
	Watcher *watcher.Watcher
}

// Server is the web host. All navigator access is serialised by mu.
type Server struct {
	mu       sync.Mutex
	nav      *optionspane.Navigator
	provider datasource.Provider
	renderer *chart.Renderer
	opts     chart.Options
	cfg      Config

	chart    []byte // last drawn SVG, nil when the chart area is empty
	chartErr error
	version  int
}

// NewServer reads the provider's columns and opens the graph tab.
func NewServer(cfg Config) (*Server, error) {
	raw, err := cfg.Provider.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	columns, err := datasource.ParseColumns(raw)
	if err != nil {
		return nil, err
	}
	nav, _ := optionspane.New(columns)
	if cfg.Title == "" {
		cfg.Title = "tgraph"
	}
	return &Server{
		nav:      nav,
		provider: cfg.Provider,
		renderer: chart.NewRenderer(cfg.Provider, cfg.Chart),
		opts:     cfg.Chart,
		cfg:      cfg,
	}, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Recoverer,
		logRequests,
	)

	r.Get("/", s.handlePage)
	r.Post("/tabs/{tab}/items/{item}", s.handleClick)
	r.Post("/edit", s.handleToggleEdit)
	r.Get("/chart.svg", s.handleChart)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/columns", s.handleColumns)
		r.Get("/columns/{name}", s.handleColumnData)
		r.Get("/metrics", s.handleMetrics)
	})
	return r
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		debug.Log("web: %s %s -> %d in %v", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

// Serve starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.Watcher != nil && s.cfg.Reload != nil {
		eg.Go(func() error {
			s.watchData(egctx)
			return nil
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		debug.Log("web: shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) watchData(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.cfg.Watcher.Changed():
			p, release, err := s.cfg.Reload()
			if err != nil {
				debug.Log("web: reload failed: %v", err)
				continue
			}
			s.SetProvider(ctx, p)
			release()
		}
	}
}

// SetProvider swaps the data source and redraws the chart when the panel is
// in the edit state.
func (s *Server) SetProvider(ctx context.Context, p datasource.Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = p
	s.renderer = chart.NewRenderer(p, s.opts)
	if s.nav.State().Edit {
		s.draw(ctx, s.nav.Selection())
	}
}

// apply runs the render effects of a dispatch. Callers hold mu.
func (s *Server) apply(ctx context.Context, fx []optionspane.Effect) {
	for _, req := range optionspane.Renders(fx) {
		s.draw(ctx, req)
	}
}

// draw replaces the chart area. Non-drawable kinds clear it.
func (s *Server) draw(ctx context.Context, req optionspane.RenderRequest) {
	s.version++
	s.chart, s.chartErr = nil, nil
	if !req.Drawable() {
		return
	}
	var buf bytes.Buffer
	if err := s.renderer.Render(ctx, &buf, chart.Request(req)); err != nil {
		debug.Log("web: render %s failed: %v", req, err)
		s.chartErr = err
		return
	}
	s.chart = buf.Bytes()
}
