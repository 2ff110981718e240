package forms_test

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-forms/app/forms"
)

func load(t *testing.T, name string) *forms.Form {
	t.Helper()
	reg, err := forms.Default()
	require.NoError(t, err)
	f, ok := reg.Get(name)
	require.True(t, ok, "form %s not registered", name)
	return f
}

func validJob() forms.Values {
	return forms.Values{
		"fullName":               "Ada Lovelace",
		"email":                  "ada@example.com",
		"phoneNumber":            "5551234",
		"position":               "Designer",
		"relevantExperience":     "4",
		"portfolioURL":           "https://ada.dev",
		"managementExperience":   "",
		"additionalSkills":       map[string]bool{"JavaScript": false, "CSS": true, "Python": false},
		"preferredInterviewTime": "2024-05-01T10:00",
	}
}

func validRegistration() forms.Values {
	return forms.Values{
		"name":               "Grace",
		"email":              "grace@example.com",
		"age":                "30",
		"attendingWithGuest": true,
		"guestName":          "Alan",
	}
}

func validSurvey() forms.Values {
	return forms.Values{
		"fullName":                    "Linus",
		"email":                       "linus@example.com",
		"surveyTopic":                 "Technology",
		"favoriteProgrammingLanguage": "Python",
		"yearsOfExperience":           "1",
		"feedback":                    strings.Repeat("great survey ", 5),
	}
}

func TestRegistry_Default(t *testing.T) {
	reg, err := forms.Default()
	require.NoError(t, err)
	assert.Equal(t, []string{"event-registration", "job-application", "survey"}, reg.Names())
	assert.Len(t, reg.All(), 3)

	_, ok := reg.Get("tax-return")
	assert.False(t, ok)
}

func TestValidate_ValidValuesHaveNoErrors(t *testing.T) {
	tests := []struct {
		form   string
		values forms.Values
	}{
		{"job-application", validJob()},
		{"event-registration", validRegistration()},
		{"survey", validSurvey()},
	}

	for _, tt := range tests {
		t.Run(tt.form, func(t *testing.T) {
			assert.Empty(t, load(t, tt.form).Validate(tt.values))
		})
	}
}

func TestValidate_EmptyJob(t *testing.T) {
	got := load(t, "job-application").Validate(forms.Values{})

	want := map[string]string{
		"fullName":               "Full Name is required",
		"email":                  "Email is required",
		"phoneNumber":            "Phone Number is required",
		"additionalSkills":       "At least one skill must be selected",
		"preferredInterviewTime": "Preferred Interview Time is required",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_EmptySurvey(t *testing.T) {
	got := load(t, "survey").Validate(nil)

	want := map[string]string{
		"fullName":    "Full Name is required",
		"email":       "Email is required",
		"surveyTopic": "Survey Topic is required",
		"feedback":    "Feedback is required",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_MissingRequiredField(t *testing.T) {
	for _, field := range []string{"fullName", "email", "phoneNumber", "preferredInterviewTime"} {
		t.Run(field, func(t *testing.T) {
			values := validJob()
			delete(values, field)
			assert.Contains(t, load(t, "job-application").Validate(values), field)
		})
	}
}

func TestValidate_Email(t *testing.T) {
	f := load(t, "event-registration")

	values := validRegistration()
	values["email"] = "a@b"
	assert.Equal(t, "Email is invalid", f.Validate(values)["email"])

	values["email"] = "a@b.com"
	assert.NotContains(t, f.Validate(values), "email")
}

func TestValidate_Phone(t *testing.T) {
	f := load(t, "job-application")

	values := validJob()
	values["phoneNumber"] = "12a34"
	assert.Equal(t, "Phone Number must be a valid number", f.Validate(values)["phoneNumber"])

	values["phoneNumber"] = "12345"
	assert.NotContains(t, f.Validate(values), "phoneNumber")
}

func TestValidate_PortfolioURLOnlyForDesigners(t *testing.T) {
	f := load(t, "job-application")

	values := validJob()
	values["portfolioURL"] = ""
	assert.Equal(t, "Portfolio URL is required and must be a valid URL", f.Validate(values)["portfolioURL"])

	values["portfolioURL"] = "ada.dev"
	assert.Contains(t, f.Validate(values), "portfolioURL")

	values["position"] = "Developer"
	for _, link := range []string{"", "ada.dev", "https://ada.dev"} {
		values["portfolioURL"] = link
		assert.NotContains(t, f.Validate(values), "portfolioURL", "developer with portfolioURL=%q", link)
	}
}

func TestValidate_RelevantExperience(t *testing.T) {
	f := load(t, "job-application")
	msg := "Relevant Experience is required and must be a number greater than 0"

	tests := []struct {
		position   string
		experience string
		wantErr    bool
	}{
		{"Developer", "", true},
		{"Developer", "0", true},
		{"Designer", "-2", true},
		{"Designer", "lots", true},
		{"Developer", "2", false},
		{"Manager", "", false},
		{"", "-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.position+"/"+tt.experience, func(t *testing.T) {
			values := validJob()
			values["position"] = tt.position
			values["relevantExperience"] = tt.experience
			values["managementExperience"] = "5 years"
			errs := f.Validate(values)
			if tt.wantErr {
				assert.Equal(t, msg, errs["relevantExperience"])
			} else {
				assert.NotContains(t, errs, "relevantExperience")
			}
		})
	}
}

func TestValidate_ManagerNeedsManagementExperience(t *testing.T) {
	f := load(t, "job-application")

	values := validJob()
	values["position"] = "Manager"
	assert.Equal(t, "Management Experience is required", f.Validate(values)["managementExperience"])

	values["managementExperience"] = "Led a team of 8"
	assert.Empty(t, f.Validate(values))
}

func TestValidate_SurveyYearsOfExperience(t *testing.T) {
	f := load(t, "survey")

	values := validSurvey()
	values["yearsOfExperience"] = "0"
	assert.Equal(t, "Years of Experience is required and must be greater than 0", f.Validate(values)["yearsOfExperience"])

	values["yearsOfExperience"] = "1"
	assert.NotContains(t, f.Validate(values), "yearsOfExperience")
}

func TestValidate_SurveyTopicBlocks(t *testing.T) {
	f := load(t, "survey")

	tests := []struct {
		topic string
		want  []string
	}{
		{"Technology", []string{"favoriteProgrammingLanguage", "yearsOfExperience"}},
		{"Health", []string{"dietPreference", "exerciseFrequency"}},
		{"Education", []string{"fieldOfStudy", "highestQualification"}},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			values := forms.Values{
				"fullName":    "x",
				"email":       "x@y.z",
				"surveyTopic": tt.topic,
				"feedback":    strings.Repeat("a", 50),
			}
			errs := f.Errors(values)
			assert.Equal(t, tt.want, errs.Fields())
		})
	}
}

func TestValidate_Feedback(t *testing.T) {
	f := load(t, "survey")

	values := validSurvey()
	values["feedback"] = strings.Repeat("a", 49)
	assert.Equal(t, "Feedback must be at least 50 characters", f.Validate(values)["feedback"])

	values["feedback"] = strings.Repeat("a", 50)
	assert.NotContains(t, f.Validate(values), "feedback")
}

func TestValidate_Age(t *testing.T) {
	f := load(t, "event-registration")

	tests := []struct {
		age  any
		want string
	}{
		{"", "Age is required"},
		{"0", "Age is required"},
		{nil, "Age is required"},
		{"-3", "Age must be greater than 0"},
		{"abc", "Age must be greater than 0"},
		{"18", ""},
	}

	for _, tt := range tests {
		values := validRegistration()
		values["age"] = tt.age
		assert.Equal(t, tt.want, f.Validate(values)["age"], "age=%v", tt.age)
	}
}

func TestValidate_GuestName(t *testing.T) {
	f := load(t, "event-registration")

	values := validRegistration()
	values["guestName"] = ""
	assert.Equal(t, "Guest Name is required", f.Validate(values)["guestName"])

	values["attendingWithGuest"] = false
	assert.Empty(t, f.Validate(values))
}

func TestValidate_ToggleDiscriminatorIgnoresHiddenValues(t *testing.T) {
	f := load(t, "job-application")

	values := validJob()
	values["position"] = "Designer"
	values["portfolioURL"] = "not a url"
	values["relevantExperience"] = "0"
	errs := f.Validate(values)
	assert.Contains(t, errs, "portfolioURL")
	assert.Contains(t, errs, "relevantExperience")

	values["position"] = "Manager"
	values["managementExperience"] = "10 years"
	assert.Empty(t, f.Validate(values))

	values["position"] = "Developer"
	errs = f.Validate(values)
	assert.NotContains(t, errs, "portfolioURL")
	assert.Contains(t, errs, "relevantExperience")
}

func TestValidate_Pure(t *testing.T) {
	f := load(t, "survey")
	values := validSurvey()
	values["email"] = "nope"

	first := f.Validate(values)
	second := f.Validate(values)
	assert.Equal(t, first, second)
	assert.Equal(t, "nope", values["email"], "input must not be mutated")
}

func TestVisibility(t *testing.T) {
	f := load(t, "job-application")

	vis := f.Visibility(forms.Values{"position": "Designer"})
	assert.True(t, vis["relevantExperience"])
	assert.True(t, vis["portfolioURL"])
	assert.False(t, vis["managementExperience"])
	assert.True(t, vis["fullName"])

	vis = f.Visibility(forms.Values{})
	assert.False(t, vis["relevantExperience"])
	assert.False(t, vis["portfolioURL"])
	assert.False(t, vis["managementExperience"])

	assert.False(t, f.Visible("nonexistent", forms.Values{}))
	assert.Equal(t, map[string]bool{"position": true}, f.Discriminators())
}

func TestVisibility_Checkbox(t *testing.T) {
	f := load(t, "event-registration")

	assert.True(t, f.Visible("guestName", forms.Values{"attendingWithGuest": true}))
	assert.False(t, f.Visible("guestName", forms.Values{"attendingWithGuest": false}))
	assert.False(t, f.Visible("guestName", forms.Values{}))
}

func TestVisibleFields_Order(t *testing.T) {
	f := load(t, "survey")

	var names []string
	for _, field := range f.VisibleFields(forms.Values{"surveyTopic": "Health"}) {
		names = append(names, field.Name)
	}
	assert.Equal(t, []string{"fullName", "email", "surveyTopic", "exerciseFrequency", "dietPreference", "feedback"}, names)
}

func TestDefaults(t *testing.T) {
	f := load(t, "job-application")
	d := f.Defaults()

	assert.Equal(t, "", d["fullName"])
	assert.Equal(t, map[string]bool{"JavaScript": false, "CSS": false, "Python": false}, d["additionalSkills"])
	assert.Equal(t, false, load(t, "event-registration").Defaults()["attendingWithGuest"])
}

func TestDecode(t *testing.T) {
	f := load(t, "job-application")
	values := f.Decode(url.Values{
		"fullName":         {"Ada"},
		"additionalSkills": {"CSS", "Python", "Cobol"},
		"unknown":          {"x"},
	})

	assert.Equal(t, "Ada", values["fullName"])
	assert.Equal(t, "", values["email"])
	assert.Equal(t, map[string]bool{"JavaScript": false, "CSS": true, "Python": true}, values["additionalSkills"])
	assert.NotContains(t, values, "unknown")

	reg := load(t, "event-registration")
	assert.Equal(t, true, reg.Decode(url.Values{"attendingWithGuest": {"on"}})["attendingWithGuest"])
	assert.Equal(t, false, reg.Decode(url.Values{})["attendingWithGuest"])
}

func TestNormalize(t *testing.T) {
	f := load(t, "job-application")

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{
		"fullName": "Ada",
		"relevantExperience": 3,
		"additionalSkills": {"CSS": true, "Rust": true},
		"extra": "dropped"
	}`), &raw))

	values := f.Normalize(raw)
	assert.Equal(t, "Ada", values["fullName"])
	assert.Equal(t, "3", values["relevantExperience"])
	assert.Equal(t, map[string]bool{"JavaScript": false, "CSS": true, "Python": false}, values["additionalSkills"])
	assert.NotContains(t, values, "extra")

	values = f.Normalize(map[string]any{"additionalSkills": []any{"Python"}})
	assert.Equal(t, map[string]bool{"JavaScript": false, "CSS": false, "Python": true}, values["additionalSkills"])

	reg := load(t, "event-registration")
	assert.Equal(t, true, reg.Normalize(map[string]any{"attendingWithGuest": "true"})["attendingWithGuest"])
}

func TestMarshalValues_FieldOrder(t *testing.T) {
	f := load(t, "event-registration")

	out, err := f.MarshalValues(validRegistration())
	require.NoError(t, err)

	want := `{
  "name": "Grace",
  "email": "grace@example.com",
  "age": "30",
  "attendingWithGuest": true,
  "guestName": "Alan"
}`
	assert.Equal(t, want, string(out))

	job := load(t, "job-application")
	out, err = job.MarshalValues(job.Defaults())
	require.NoError(t, err)
	assert.Contains(t, string(out), "\"additionalSkills\": {\n    \"JavaScript\": false,\n    \"CSS\": false,\n    \"Python\": false\n  }")

	var roundTrip map[string]any
	require.NoError(t, json.Unmarshal(out, &roundTrip))
}
