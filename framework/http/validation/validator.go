package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ── Types ────────────────────────────────────────────────────────────────────

// Errors holds validation errors, mirrors Laravel's MessageBag.
// JSON output: {"errors": {"field": ["msg1", "msg2"]}}
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

func (e *Errors) add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

// Has returns true if there are any errors.
func (e *Errors) Has() bool { return len(e.Bag) > 0 }

// First returns the first error for a field.
func (e *Errors) First(field string) string {
	if msgs, ok := e.Bag[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Map flattens the bag to field → first message. An empty map means valid.
func (e *Errors) Map() map[string]string {
	out := make(map[string]string, len(e.Bag))
	for field := range e.Bag {
		out[field] = e.First(field)
	}
	return out
}

// Fields returns the failing field names in sorted order.
func (e *Errors) Fields() []string {
	out := make([]string, 0, len(e.Bag))
	for field := range e.Bag {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}

// ── Validator ────────────────────────────────────────────────────────────────

// Data is the input under validation. Values may be strings, bools or
// map[string]bool groups; anything else is treated as empty.
type Data map[string]any

// Rules is a map of field → pipe-separated rule string.
// e.g. Rules{"email": "required|email", "age": "required|numeric|gt:0"}
type Rules map[string]string

// Messages overrides default messages. Keys are "field.rule" or "field"
// (applies to every rule on that field).
type Messages map[string]string

// Validator validates a flat map of input values.
type Validator struct {
	data     Data
	rules    Rules
	messages Messages
	errors   *Errors
	ran      bool
}

// Make creates a new Validator, mirrors Validator::make($data, $rules).
func Make(data Data, rules Rules) *Validator {
	return MakeWithMessages(data, rules, nil)
}

// MakeWithMessages is Make with custom messages,
// mirrors Validator::make($data, $rules, $messages).
func MakeWithMessages(data Data, rules Rules, messages Messages) *Validator {
	if data == nil {
		data = Data{}
	}
	return &Validator{
		data:     data,
		rules:    rules,
		messages: messages,
		errors:   &Errors{},
	}
}

// Fails runs validation and returns true if any rule fails.
func (v *Validator) Fails() bool {
	v.validate()
	return v.errors.Has()
}

// Passes runs validation and returns true if all rules pass.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the validation error bag, running validation if needed.
func (v *Validator) Errors() *Errors {
	v.validate()
	return v.errors
}

// ── Core validation loop ─────────────────────────────────────────────────────

func (v *Validator) validate() {
	if v.ran {
		return
	}
	v.ran = true

	for field, ruleStr := range v.rules {
		rules := splitRules(ruleStr)
		numeric := hasRule(rules, "numeric")
		value := v.data[field]

		for _, rule := range rules {
			// Parse rule name and optional parameter: min:3 → name=min, param=3
			name, param, _ := strings.Cut(rule, ":")

			if !implicit[name] && !filled(value, false) {
				continue
			}
			if !v.applyRule(field, value, name, param, numeric) {
				break // one message per field, like Laravel's bail
			}
		}
	}
}

// implicit rules run even when the value is empty.
var implicit = map[string]bool{
	"required":       true,
	"required_if":    true,
	"exclude_unless": true,
	"any_checked":    true,
	"sometimes":      true,
	"nullable":       true,
}

var (
	emailPattern  = regexp.MustCompile(`\S+@\S+\.\S+`)
	digitsPattern = regexp.MustCompile(`^\d+$`)
	urlPattern    = regexp.MustCompile(`^https?://[^\s$.?#].[^\s]*$`)
	alphaPattern  = regexp.MustCompile(`^[a-zA-Z]+$`)
)

// applyRule returns true if the rule passes and later rules should run.
func (v *Validator) applyRule(field string, value any, rule, param string, numeric bool) bool {
	s := String(value)

	switch rule {
	case "required":
		if !filled(value, numeric) {
			return v.fail(field, rule, "The %s field is required.", field)
		}

	case "required_if":
		other, allowed := parseList(param)
		if matches(v.data[other], allowed) && !filled(value, numeric) {
			return v.fail(field, rule, "The %s field is required when %s is %s.", field, other, strings.Join(allowed, ", "))
		}

	case "exclude_unless":
		other, allowed := parseList(param)
		if !matches(v.data[other], allowed) {
			return false // field is excluded: skip the rest silently
		}

	case "any_checked":
		if group, ok := value.(map[string]bool); !ok || !anyTrue(group) {
			return v.fail(field, rule, "At least one %s must be selected.", field)
		}

	case "numeric":
		if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return v.fail(field, rule, "The %s must be a number.", field)
		}

	case "integer":
		if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
			return v.fail(field, rule, "The %s must be an integer.", field)
		}

	case "boolean":
		if _, ok := value.(bool); ok {
			break
		}
		switch strings.ToLower(s) {
		case "true", "false", "1", "0", "yes", "no", "on", "off":
		default:
			return v.fail(field, rule, "The %s field must be true or false.", field)
		}

	case "email":
		if !emailPattern.MatchString(s) {
			return v.fail(field, rule, "The %s must be a valid email address.", field)
		}

	case "digits":
		if !digitsPattern.MatchString(s) {
			return v.fail(field, rule, "The %s must contain only digits.", field)
		}

	case "url":
		if !urlPattern.MatchString(s) {
			return v.fail(field, rule, "The %s must be a valid URL.", field)
		}

	case "alpha":
		if !alphaPattern.MatchString(s) {
			return v.fail(field, rule, "The %s may only contain letters.", field)
		}

	case "regex":
		re, err := regexp.Compile(param)
		if err != nil || !re.MatchString(s) {
			return v.fail(field, rule, "The %s format is invalid.", field)
		}

	case "min":
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(s) < n {
			return v.fail(field, rule, "The %s must be at least %d characters.", field, n)
		}

	case "max":
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(s) > n {
			return v.fail(field, rule, "The %s may not be greater than %d characters.", field, n)
		}

	case "in":
		allowed := strings.Split(param, ",")
		if !contains(allowed, s) {
			return v.fail(field, rule, "The selected %s is invalid.", field)
		}

	case "gt", "gte", "lt", "lte":
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		t, _ := strconv.ParseFloat(param, 64)
		if err != nil || !compare(rule, f, t) {
			return v.fail(field, rule, "The %s must be %s %s.", field, comparisons[rule], param)
		}

	case "nullable":
		// Always passes; allows empty values through subsequent rules.

	case "sometimes":
		// Skip remaining rules if field is absent.
		if _, ok := v.data[field]; !ok {
			return false
		}
	}

	return true
}

// fail records a message (custom or default) and stops the field.
func (v *Validator) fail(field, rule, format string, args ...any) bool {
	msg, ok := v.messages[field+"."+rule]
	if !ok {
		msg, ok = v.messages[field]
	}
	if !ok {
		msg = fmt.Sprintf(format, args...)
	}
	v.errors.add(field, msg)
	return false
}

var comparisons = map[string]string{
	"gt":  "greater than",
	"gte": "greater than or equal to",
	"lt":  "less than",
	"lte": "less than or equal to",
}

func compare(rule string, f, t float64) bool {
	switch rule {
	case "gt":
		return f > t
	case "gte":
		return f >= t
	case "lt":
		return f < t
	default:
		return f <= t
	}
}
