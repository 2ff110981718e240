// Package providers wires the forms application into the container.
package providers

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-forms/app/followup"
	"github.com/km-arc/go-forms/app/forms"
	"github.com/km-arc/go-forms/app/http/controllers"
	"github.com/km-arc/go-forms/app/metrics"
	"github.com/km-arc/go-forms/framework/config"
	"github.com/km-arc/go-forms/framework/container"
	gohttp "github.com/km-arc/go-forms/framework/http"
	fw "github.com/km-arc/go-forms/framework/providers"
	"github.com/km-arc/go-forms/framework/routing"
	"github.com/km-arc/go-forms/resources"
)

// Abstracts bound by AppServiceProvider.
const (
	Forms      = "forms"
	Followup   = "followup"
	Metrics    = "metrics"
	Controller = "controllers.form"
)

// AppServiceProvider binds the forms registry, the follow-up client,
// metrics and the form controller, then mounts the routes.
//
// Bound abstracts:
//   - "forms"             → *forms.Registry
//   - "followup"          → followup.Fetcher
//   - "metrics"           → *metrics.Metrics
//   - "controllers.form"  → *controllers.FormController
type AppServiceProvider struct {
	container.BaseProvider
}

func (p *AppServiceProvider) Register(app *container.Container) error {
	app.Singleton(Forms, func(c *container.Container) (any, error) {
		return forms.Default()
	})

	// A fetcher bound beforehand (a stub in tests) is kept.
	if !app.Bound(Followup) {
		app.Singleton(Followup, func(c *container.Container) (any, error) {
			cfg, err := container.Resolve[*config.Config](c, fw.Config)
			if err != nil {
				return nil, err
			}
			return followup.NewClient(cfg.Followup.Endpoint, cfg.Followup.Timeout), nil
		})
	}

	app.Singleton(Metrics, func(c *container.Container) (any, error) {
		return metrics.New("goforms"), nil
	})

	app.Singleton(Controller, func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, fw.Config)
		if err != nil {
			return nil, err
		}
		registry, err := container.Resolve[*forms.Registry](c, Forms)
		if err != nil {
			return nil, err
		}
		views, err := container.Resolve[*gohttp.ViewEngine](c, fw.View)
		if err != nil {
			return nil, err
		}
		fetcher, err := container.Resolve[followup.Fetcher](c, Followup)
		if err != nil {
			return nil, err
		}
		m, err := container.Resolve[*metrics.Metrics](c, Metrics)
		if err != nil {
			return nil, err
		}
		log, err := container.Resolve[*zap.Logger](c, fw.Log)
		if err != nil {
			return nil, err
		}
		return &controllers.FormController{
			AppName:  cfg.App.Name,
			Forms:    registry,
			Views:    views,
			Followup: fetcher,
			Metrics:  m,
			Log:      log.Named("forms"),
		}, nil
	})
	return nil
}

// Boot mounts the metrics middleware, static assets and form routes.
// Middleware must precede routes on a chi mux.
func (p *AppServiceProvider) Boot(app *container.Container) error {
	cfg, err := container.Resolve[*config.Config](app, fw.Config)
	if err != nil {
		return err
	}
	router, err := container.Resolve[*routing.Router](app, fw.Router)
	if err != nil {
		return err
	}
	m, err := container.Resolve[*metrics.Metrics](app, Metrics)
	if err != nil {
		return err
	}
	fc, err := container.Resolve[*controllers.FormController](app, Controller)
	if err != nil {
		return err
	}

	router.Middleware(m.Middleware)
	router.Handle("/metrics", m.Handler())
	router.Static("/static", resources.Static())
	fc.Routes(router, cfg.App.RateLimit)
	return nil
}
