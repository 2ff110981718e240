// Package controllers holds the HTTP handlers for the forms.
package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/km-arc/go-forms/app/followup"
	"github.com/km-arc/go-forms/app/forms"
	"github.com/km-arc/go-forms/app/metrics"
	fwapp "github.com/km-arc/go-forms/framework/app"
	gohttp "github.com/km-arc/go-forms/framework/http"
	"github.com/km-arc/go-forms/framework/routing"
)

const (
	layout = "layouts/app"

	actionField   = "_action"
	actionRefresh = "refresh"

	throttleWindow = time.Minute
)

// FormController renders, refreshes and accepts the forms.
type FormController struct {
	fwapp.Controller

	AppName  string
	Forms    *forms.Registry
	Views    *gohttp.ViewEngine
	Followup followup.Fetcher
	Metrics  *metrics.Metrics
	Log      *zap.Logger

	// NewID mints submission references; uuid.NewString when nil.
	NewID func() string
}

// page is the data every form view receives.
type page struct {
	AppName        string
	Title          string
	Forms          []*forms.Form
	Form           *forms.Form
	Fields         []forms.Field
	Values         forms.Values
	Errors         map[string]string
	Discriminators map[string]bool
	Summary        string
	Reference      string
	Questions      []string
}

// Routes registers the HTML and JSON endpoints on r. Posts are throttled
// to limit requests per minute per IP.
func (fc *FormController) Routes(r *routing.Router, limit int) {
	r.Get("/", fc.Index)
	r.Get("/forms/{form}", fc.Show)
	r.Get("/api/forms/{form}", fc.Definition)

	r.Group(func(r *routing.Router) {
		r.Throttle(limit, throttleWindow)
		r.Post("/forms/{form}", fc.Submit)
		r.Post("/api/forms/{form}/validate", fc.Validate)
	})
}

// Index lists the forms.
func (fc *FormController) Index(w http.ResponseWriter, r *http.Request) {
	fc.render(w, http.StatusOK, "forms/index", page{
		AppName: fc.AppName,
		Title:   "Forms",
		Forms:   fc.Forms.All(),
	})
}

// Show renders a form with its defaults.
func (fc *FormController) Show(w http.ResponseWriter, r *http.Request) {
	form, ok := fc.form(w, r)
	if !ok {
		return
	}
	fc.renderForm(w, http.StatusOK, form, form.Defaults(), nil)
}

// Submit handles a form post. A refresh re-renders with recomputed
// visibility; otherwise the values are validated and, when valid, the
// form's success mode runs.
func (fc *FormController) Submit(w http.ResponseWriter, r *http.Request) {
	form, ok := fc.form(w, r)
	if !ok {
		return
	}
	req := fc.Request(r)
	res := fc.Response(w)

	values, action, err := fc.decode(req, form)
	if err != nil {
		res.Error(http.StatusBadRequest, err.Error())
		return
	}

	if action == actionRefresh {
		fc.Metrics.Submission(form.Name, metrics.OutcomeRefresh)
		if req.WantsJSON() {
			res.Success(map[string]any{"values": values, "visible": form.Visibility(values)})
			return
		}
		fc.renderForm(w, http.StatusOK, form, values, nil)
		return
	}

	errs := form.Errors(values)
	if errs.Has() {
		fc.Metrics.Submission(form.Name, metrics.OutcomeInvalid)
		fc.Log.Debug("form invalid",
			zap.String("form", form.Name),
			zap.Strings("fields", errs.Fields()),
		)
		if req.WantsJSON() {
			res.ValidationError(errs)
			return
		}
		fc.renderForm(w, http.StatusUnprocessableEntity, form, values, errs.Map())
		return
	}

	summary, err := form.MarshalValues(values)
	if err != nil {
		fc.Log.Error("marshal values", zap.String("form", form.Name), zap.Error(err))
		res.ServerError()
		return
	}
	ref := fc.newID()

	switch form.Success {
	case forms.SuccessFollowup:
		fc.askFollowup(w, r, form, values, string(summary), ref)
	default:
		fc.Metrics.Submission(form.Name, metrics.OutcomeAccepted)
		fc.Log.Info("form submitted", zap.String("form", form.Name), zap.String("reference", ref))
		if req.WantsJSON() {
			res.Success(map[string]any{"reference": ref, "values": values})
			return
		}
		fc.render(w, http.StatusOK, "forms/acknowledge", page{
			AppName:   fc.AppName,
			Title:     form.Title,
			Form:      form,
			Summary:   string(summary),
			Reference: ref,
		})
	}
}

// askFollowup fetches the topic's questions and renders the summary. A failed
// fetch is logged and the form is shown again as it was.
func (fc *FormController) askFollowup(w http.ResponseWriter, r *http.Request, form *forms.Form, values forms.Values, summary, ref string) {
	req := fc.Request(r)
	res := fc.Response(w)
	topic := topicOf(form, values)

	questions, err := fc.Followup.Questions(r.Context(), topic)
	if err != nil {
		fc.Metrics.FollowupFailed(form.Name)
		fc.Log.Error("fetch follow-up questions",
			zap.String("form", form.Name),
			zap.String("topic", topic),
			zap.Error(err),
		)
		if req.WantsJSON() {
			status := http.StatusBadGateway
			if errors.Is(err, context.DeadlineExceeded) {
				status = http.StatusGatewayTimeout
			}
			res.Error(status, "Follow-up questions are unavailable.")
			return
		}
		fc.renderForm(w, http.StatusOK, form, values, nil)
		return
	}

	fc.Metrics.Submission(form.Name, metrics.OutcomeAccepted)
	fc.Log.Info("form submitted",
		zap.String("form", form.Name),
		zap.String("reference", ref),
		zap.Int("questions", len(questions)),
	)
	if req.WantsJSON() {
		res.Success(map[string]any{"reference": ref, "values": values, "questions": questions})
		return
	}
	fc.render(w, http.StatusOK, "forms/summary", page{
		AppName:   fc.AppName,
		Title:     form.Title,
		Form:      form,
		Summary:   summary,
		Reference: ref,
		Questions: questions,
	})
}

// Validate is the JSON validation endpoint: values in, errors and
// visibility out.
func (fc *FormController) Validate(w http.ResponseWriter, r *http.Request) {
	form, ok := fc.form(w, r)
	if !ok {
		return
	}
	res := fc.Response(w)

	var raw map[string]any
	if err := fc.Request(r).Bind(&raw); err != nil {
		res.Error(http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	values := form.Normalize(raw)
	errs := form.Validate(values)

	status := http.StatusOK
	if len(errs) > 0 {
		status = http.StatusUnprocessableEntity
	}
	res.JSON(status, map[string]any{
		"errors":  errs,
		"visible": form.Visibility(values),
	})
}

// Definition returns a form's field table and defaults as JSON.
func (fc *FormController) Definition(w http.ResponseWriter, r *http.Request) {
	form, ok := fc.form(w, r)
	if !ok {
		return
	}
	fc.Response(w).Success(map[string]any{
		"form":     form.Definition,
		"defaults": form.Defaults(),
	})
}

func (fc *FormController) form(w http.ResponseWriter, r *http.Request) (*forms.Form, bool) {
	form, ok := fc.Forms.Get(routing.Param(r, "form"))
	if !ok {
		fc.Response(w).NotFound("Form not found.")
	}
	return form, ok
}

// decode reads JSON bodies through Normalize and HTML posts through Decode.
func (fc *FormController) decode(req *gohttp.Request, form *forms.Form) (forms.Values, string, error) {
	if req.IsJSON() {
		var raw map[string]any
		if err := req.Bind(&raw); err != nil {
			return nil, "", errMalformed
		}
		action, _ := raw[actionField].(string)
		return form.Normalize(raw), action, nil
	}

	posted, err := req.Form()
	if err != nil {
		return nil, "", errMalformed
	}
	return form.Decode(posted), posted.Get(actionField), nil
}

var errMalformed = errors.New("malformed request body")

func (fc *FormController) renderForm(w http.ResponseWriter, status int, form *forms.Form, values forms.Values, errs map[string]string) {
	fc.render(w, status, "forms/show", page{
		AppName:        fc.AppName,
		Title:          form.Title,
		Form:           form,
		Fields:         form.VisibleFields(values),
		Values:         values,
		Errors:         errs,
		Discriminators: form.Discriminators(),
	})
}

func (fc *FormController) render(w http.ResponseWriter, status int, view string, data page) {
	if err := fc.Views.ViewWithLayout(w, status, layout, view, data); err != nil {
		fc.Log.Error("render view", zap.String("view", view), zap.Error(err))
	}
}

func (fc *FormController) newID() string {
	if fc.NewID != nil {
		return fc.NewID()
	}
	return uuid.NewString()
}

// topicOf returns the value of the form's first discriminator, which is
// what follow-up questions are keyed on.
func topicOf(form *forms.Form, values forms.Values) string {
	discriminators := form.Discriminators()
	for _, field := range form.Fields {
		if discriminators[field.Name] {
			v, _ := values[field.Name].(string)
			return v
		}
	}
	return ""
}
