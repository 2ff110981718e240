package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/km-arc/go-forms/app"
	"github.com/km-arc/go-forms/app/providers"
	"github.com/km-arc/go-forms/framework/container"
	fw "github.com/km-arc/go-forms/framework/providers"
)

type stubFetcher struct{ topics []string }

func (s *stubFetcher) Questions(_ context.Context, topic string) ([]string, error) {
	s.topics = append(s.topics, topic)
	return []string{"How do you study?"}, nil
}

type stubProvider struct {
	container.BaseProvider
	fetcher *stubFetcher
}

func (p *stubProvider) Register(c *container.Container) error {
	c.Instance(providers.Followup, p.fetcher)
	return nil
}

func boot(t *testing.T) (http.Handler, *stubFetcher) {
	t.Helper()
	t.Setenv("APP_ENV", "testing")
	t.Setenv("RATE_LIMIT", "0")

	fetcher := &stubFetcher{}
	application, err := app.New(nil,
		&fw.LogServiceProvider{Logger: zap.NewNop()},
		&stubProvider{fetcher: fetcher},
	)
	require.NoError(t, err)
	require.NoError(t, application.Boot())
	assert.True(t, application.IsTesting())
	return application.Router(), fetcher
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestBoot_Bindings(t *testing.T) {
	t.Setenv("APP_ENV", "testing")
	application, err := app.New(nil, &fw.LogServiceProvider{Logger: zap.NewNop()})
	require.NoError(t, err)
	require.NoError(t, application.Boot())

	for _, abstract := range []string{fw.Config, fw.Log, fw.Router, fw.View, providers.Forms, providers.Followup, providers.Metrics, providers.Controller} {
		assert.True(t, application.Bound(abstract), abstract)
	}
	assert.Equal(t, "GoForms", application.Config().App.Name)
}

func TestBoot_BadConfig(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	application, err := app.New(nil)
	require.NoError(t, err)
	assert.Error(t, application.Boot())
}

func TestRoutes(t *testing.T) {
	h, _ := boot(t)

	tests := []struct {
		path string
		want string
	}{
		{"/", "Survey Form"},
		{"/forms/event-registration", "Event Registration form"},
		{"/static/forms.js", "data-discriminator"},
		{"/api/forms/survey", `"name":"survey"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := get(h, tt.path)
			require.Equal(t, http.StatusOK, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.want)
		})
	}

	rr := get(h, "/forms/survey")
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'self'", rr.Header().Get("Content-Security-Policy"))

	metrics := get(h, "/metrics").Body.String()
	assert.Contains(t, metrics, `goforms_http_requests_total{code="200",route="/forms/{form}"}`)
}

func TestSurveyEndToEnd(t *testing.T) {
	h, fetcher := boot(t)

	form := url.Values{
		"fullName":             {"Marie"},
		"email":                {"marie@example.com"},
		"surveyTopic":          {"Education"},
		"highestQualification": {"PhD"},
		"fieldOfStudy":         {"Chemistry"},
		"feedback":             {strings.Repeat("insightful ", 6)},
	}
	req := httptest.NewRequest(http.MethodPost, "/forms/survey", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<li>How do you study?</li>")
	assert.Equal(t, []string{"Education"}, fetcher.topics)
}
