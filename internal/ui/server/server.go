package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"golang.org/x/sync/errgroup"

	"github.com/Its-donkey/pricing-protocol/internal/pricing"
	"github.com/Its-donkey/pricing-protocol/internal/ui/model"
	"github.com/Its-donkey/pricing-protocol/internal/ui/state"
	"github.com/Its-donkey/pricing-protocol/logging"
)

// Options configures the UI HTTP server. Only Source is required.
type Options struct {
	Listen       string
	TemplatesDir string
	AssetsDir    string
	SiteName     string
	Logger       *logging.Logger
	Source       pricing.Source
	Landing      model.LandingContent

	// Store and Tokens hold page instances. Nil values build defaults from
	// ViewTTL and Capacity.
	Store         *state.Store
	Tokens        *state.TokenCodec
	ViewTTL       time.Duration
	Capacity      int
	SweepInterval time.Duration
	TokenKey      []byte

	// CSRFKey enables CSRF protection on dialog posts when set (32 bytes).
	CSRFKey       []byte
	SecureCookies bool

	Templates map[string]*template.Template
}

type server struct {
	templates     map[string]*template.Template
	static        fs.FS
	siteName      string
	stylesPath    string
	currentYear   int
	logger        *logging.Logger
	source        pricing.Source
	landing       model.LandingContent
	store         *state.Store
	tokens        *state.TokenCodec
	csrfKey       []byte
	secureCookies bool
	sweepInterval time.Duration
	metrics       *metrics
}

// Run starts the UI HTTP server and the page-instance sweeper, and stops both
// when ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	opts = applyDefaults(opts)
	srv, err := newServer(opts)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              opts.Listen,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		srv.logger.Printf("Serving %s UI on http://%s", srv.siteName, httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return srv.store.Run(gctx, srv.sweepInterval, func(removed int) {
			srv.metrics.expired.Add(float64(removed))
			srv.logger.Debug("views", "swept expired page instances", map[string]any{"removed": removed})
		})
	})
	return g.Wait()
}

func newServer(opts Options) (*server, error) {
	if opts.Source == nil {
		return nil, errors.New("server: session source is required")
	}

	tmpl := opts.Templates
	if tmpl == nil {
		loaded, err := loadTemplates(templateFS(opts.TemplatesDir))
		if err != nil {
			return nil, fmt.Errorf("load templates: %w", err)
		}
		tmpl = loaded
	}

	store := opts.Store
	if store == nil {
		store = state.NewStore(state.StoreOptions{TTL: opts.ViewTTL, Capacity: opts.Capacity})
	}
	tokens := opts.Tokens
	if tokens == nil {
		codec, err := state.NewTokenCodec(opts.TokenKey)
		if err != nil {
			return nil, fmt.Errorf("view tokens: %w", err)
		}
		tokens = codec
	}

	return &server{
		templates:     tmpl,
		static:        staticFS(opts.AssetsDir),
		siteName:      opts.SiteName,
		stylesPath:    "/static/styles.css",
		currentYear:   time.Now().Year(),
		logger:        opts.Logger,
		source:        opts.Source,
		landing:       opts.Landing,
		store:         store,
		tokens:        tokens,
		csrfKey:       opts.CSRFKey,
		secureCookies: opts.SecureCookies,
		sweepInterval: opts.SweepInterval,
		metrics:       newMetrics(store),
	}, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(logging.NewHTTPLogger(s.logger).Middleware)
	r.Use(chimiddleware.Recoverer)
	r.NotFound(s.handleNotFound)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.static))))
	r.Get("/api/sessions", s.handleSessionsAPI)

	r.Group(func(r chi.Router) {
		if len(s.csrfKey) > 0 {
			r.Use(s.protect)
		}
		r.Get("/", s.handleLanding)
		r.Get("/{page}", s.handlePage)
		r.Post("/{page}/dialogs/{dialog}/{action}", s.handleDialog)
	})
	return r
}

// protect applies CSRF checks to pages and dialog posts. Without secure
// cookies requests are treated as plain HTTP so local development works.
func (s *server) protect(next http.Handler) http.Handler {
	protected := csrf.Protect(s.csrfKey,
		csrf.Secure(s.secureCookies),
		csrf.Path("/"),
		csrf.FieldName("csrf_token"),
		csrf.ErrorHandler(http.HandlerFunc(s.handleCSRFFailure)),
	)(next)
	if s.secureCookies {
		return protected
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func (s *server) handleCSRFFailure(w http.ResponseWriter, r *http.Request) {
	entry := s.requestLog(r).WithCategory("csrf")
	if reason := csrf.FailureReason(r); reason != nil {
		entry.WithField("reason", reason.Error())
	}
	entry.Warn("csrf check failed")
	http.Error(w, "forbidden", http.StatusForbidden)
}

func (s *server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "page not found", http.StatusNotFound)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := pricing.Check(r.Context(), s.source); err != nil {
		s.requestLog(r).WithCategory("health").Error("session source unhealthy", err)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
