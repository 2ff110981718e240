package routing

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"github.com/km-arc/go-forms/framework/logging"
)

// Options configures the default middleware stack.
type Options struct {
	Logger     *zap.Logger // request logging; nil disables it
	Production bool        // enables SSL redirect
}

// Router wraps chi.Router with Laravel-style helpers.
type Router struct {
	mux chi.Router
}

// New creates a Router with sane defaults (RequestID, RealIP, logging,
// Recoverer, security headers).
func New(opts ...Options) *Router {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if o.Logger != nil {
		r.Use(logging.Middleware(o.Logger))
	}
	r.Use(middleware.Recoverer)
	r.Use(secureHeaders(o.Production))
	return &Router{mux: r}
}

func secureHeaders(production bool) func(http.Handler) http.Handler {
	return secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'",
		SSLRedirect:           production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !production,
	}).Handler
}

// ── HTTP verbs ───────────────────────────────────────────────────────────────

func (r *Router) Get(pattern string, h http.HandlerFunc)  { r.mux.Get(pattern, h) }
func (r *Router) Post(pattern string, h http.HandlerFunc) { r.mux.Post(pattern, h) }

// Handle mounts a plain http.Handler for all methods.
func (r *Router) Handle(pattern string, h http.Handler) { r.mux.Handle(pattern, h) }

// ── Groups & Prefixes ────────────────────────────────────────────────────────

// Group creates an inline group (Laravel: Route::group([], fn)).
func (r *Router) Group(fn func(r *Router)) {
	r.mux.Group(func(mx chi.Router) {
		fn(&Router{mux: mx})
	})
}

// Prefix creates a sub-router with a URL prefix (Laravel: Route::prefix('/api')).
func (r *Router) Prefix(pattern string, fn func(r *Router)) {
	r.mux.Route(pattern, func(mx chi.Router) {
		fn(&Router{mux: mx})
	})
}

// ── Middleware ───────────────────────────────────────────────────────────────

// Middleware adds one or more middleware to the router.
func (r *Router) Middleware(mw ...func(http.Handler) http.Handler) {
	r.mux.Use(mw...)
}

// Throttle limits requests per client IP (Laravel: ->middleware('throttle:60,1')).
// A limit of 0 disables throttling.
func (r *Router) Throttle(limit int, window time.Duration) {
	if limit <= 0 {
		return
	}
	r.mux.Use(httprate.Limit(limit, window, httprate.WithKeyFuncs(httprate.KeyByIP)))
}

// ── Static files ─────────────────────────────────────────────────────────────

// Static serves a filesystem at the given prefix.
// e.g. router.Static("/static", resources.Static)
func (r *Router) Static(prefix string, fsys fs.FS) {
	files := http.StripPrefix(prefix, http.FileServer(http.FS(fsys)))
	r.mux.Get(prefix+"/*", func(w http.ResponseWriter, req *http.Request) {
		files.ServeHTTP(w, req)
	})
}

// ── Params ───────────────────────────────────────────────────────────────────

// Param extracts a URL param, like $request->route('form')
func Param(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// ── Serve ────────────────────────────────────────────────────────────────────

// ServeHTTP implements http.Handler so Router can be passed to http.Server.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handler returns the underlying http.Handler (for testing etc.).
func (r *Router) Handler() http.Handler {
	return r.mux
}
