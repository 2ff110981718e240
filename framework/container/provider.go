package container

// ServiceProvider mirrors Laravel's Illuminate\Support\ServiceProvider.
//
// Register binds services and must not resolve other bindings. Boot runs
// after every provider has registered, so it may resolve anything.
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    app.Singleton("forms", func(c *container.Container) (any, error) {
//	        return forms.Default()
//	    })
//	    return nil
//	}
type ServiceProvider interface {
	Register(app *Container) error
	Boot(app *Container) error
}

// BaseProvider is an embeddable no-op Boot.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }

// ProviderRegistry registers and boots providers in order.
type ProviderRegistry struct {
	app        *Container
	providers  []ServiceProvider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register calls provider.Register once. Providers added after Boot are
// booted immediately.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	r.registered[provider] = true

	if err := provider.Register(r.app); err != nil {
		return err
	}
	r.providers = append(r.providers, provider)

	if r.booted {
		return provider.Boot(r.app)
	}
	return nil
}

// Boot calls Boot on every registered provider, stopping at the first error.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	r.booted = true
	for _, provider := range r.providers {
		if err := provider.Boot(r.app); err != nil {
			return err
		}
	}
	return nil
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns the registered providers in registration order.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.providers }
