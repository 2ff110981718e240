// Package app assembles the go-forms application: framework providers,
// embedded views and the forms service provider.
package app

import (
	"github.com/km-arc/go-forms/app/providers"
	fwapp "github.com/km-arc/go-forms/framework/app"
	"github.com/km-arc/go-forms/framework/container"
	fw "github.com/km-arc/go-forms/framework/providers"
	"github.com/km-arc/go-forms/resources"
)

// New bootstraps the application.
//
//	application, err := app.New()
//	err = application.Run(ctx)
//
// Extra providers are registered before the forms provider, so they can
// pre-bind abstracts it would otherwise build.
func New(envFiles []string, extra ...container.ServiceProvider) (*fwapp.Application, error) {
	application, err := fwapp.New(envFiles...)
	if err != nil {
		return nil, err
	}

	list := []container.ServiceProvider{
		&fw.ViewServiceProvider{FS: resources.Views(), Funcs: resources.Funcs()},
	}
	list = append(list, extra...)
	list = append(list, &providers.AppServiceProvider{})

	for _, p := range list {
		if err := application.Register(p); err != nil {
			return nil, err
		}
	}
	return application, nil
}
