// Package providers holds the framework's core service providers.
package providers

import (
	"html/template"
	"io/fs"

	"go.uber.org/zap"

	"github.com/km-arc/go-forms/framework/config"
	"github.com/km-arc/go-forms/framework/container"
	gohttp "github.com/km-arc/go-forms/framework/http"
	"github.com/km-arc/go-forms/framework/logging"
	"github.com/km-arc/go-forms/framework/routing"
)

// Abstracts bound by the framework providers.
const (
	Config = "config"
	Log    = "log"
	Router = "router"
	View   = "view"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// the environment.
//
// Bound abstracts:
//   - "config"  → *config.Config
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->singleton('config', fn() => new Repository($items));
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	envFiles := p.EnvFiles
	app.Singleton(Config, func(c *container.Container) (any, error) {
		return config.Load(envFiles...)
	})
	return nil
}

// Boot resolves the config eagerly so a bad environment fails at startup.
func (p *ConfigServiceProvider) Boot(app *container.Container) error {
	_, err := container.Resolve[*config.Config](app, Config)
	return err
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider builds the zap logger from config.Log.
//
// Bound abstracts:
//   - "log"  → *zap.Logger
//
// A pre-built Logger (e.g. zaptest in tests) is bound as-is.
type LogServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LogServiceProvider) Register(app *container.Container) error {
	if p.Logger != nil {
		app.Instance(Log, p.Logger)
		return nil
	}
	app.Singleton(Log, func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, Config)
		if err != nil {
			return nil, err
		}
		return logging.New(cfg.Log)
	})
	return nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router with the default
// middleware stack.
//
// Bound abstracts:
//   - "router"  → *routing.Router
//
// Laravel equivalent:
//
//	// Illuminate\Routing\RoutingServiceProvider
//	$app->singleton('router', fn($app) => new Router($app['events'], $app));
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	app.Singleton(Router, func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, Config)
		if err != nil {
			return nil, err
		}
		log, err := container.Resolve[*zap.Logger](c, Log)
		if err != nil {
			return nil, err
		}
		return routing.New(routing.Options{
			Logger:     log,
			Production: cfg.IsProduction(),
		}), nil
	})
	return nil
}

// ── ViewServiceProvider ───────────────────────────────────────────────────────

// ViewServiceProvider registers the template engine over FS.
//
// Bound abstracts:
//   - "view"   → *gohttp.ViewEngine
//
// Laravel equivalent:
//
//	// Illuminate\View\ViewServiceProvider
//	$app->singleton('view', fn($app) => new Factory(...));
type ViewServiceProvider struct {
	container.BaseProvider
	FS    fs.FS
	Ext   string // default: ".html"
	Funcs template.FuncMap
}

func (p *ViewServiceProvider) Register(app *container.Container) error {
	ext := p.Ext
	if ext == "" {
		ext = ".html"
	}
	fsys, funcs := p.FS, p.Funcs

	app.Singleton(View, func(c *container.Container) (any, error) {
		return gohttp.NewViewEngine(fsys, ext).Funcs(funcs), nil
	})
	return nil
}
