package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/km-arc/go-forms/framework/app"
	"github.com/km-arc/go-forms/framework/providers"
)

func TestNew_RegistersCoreProviders(t *testing.T) {
	t.Setenv("APP_ENV", "testing")

	a, err := app.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	for _, abstract := range []string{"app", providers.Config, providers.Log, providers.Router} {
		if !a.Bound(abstract) {
			t.Errorf("%s not bound", abstract)
		}
	}
	if !a.IsTesting() || a.IsProduction() || a.IsLocal() {
		t.Errorf("environment: got %q", a.Environment())
	}
	if a.Router() == nil {
		t.Error("Router() returned nil")
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	t.Setenv("APP_PORT", "0")
	t.Setenv("LOG_LEVEL", "error")

	a, err := app.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_BootError(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")

	a, err := app.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Run(context.Background()); err == nil {
		t.Fatal("expected boot error for invalid LOG_FORMAT")
	}
}
