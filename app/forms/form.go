package forms

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/km-arc/go-forms/framework/http/validation"
)

// Values is a snapshot of a form's inputs: field name → string, bool, or
// map[string]bool for checkbox groups.
type Values map[string]any

// Form is a loaded Definition with its rule table compiled.
type Form struct {
	Definition

	rules    validation.Rules
	messages validation.Messages
	index    map[string]int
}

func compile(def Definition) *Form {
	f := &Form{
		Definition: def,
		rules:      validation.Rules{},
		messages:   validation.Messages{},
		index:      make(map[string]int, len(def.Fields)),
	}

	for i, field := range def.Fields {
		f.index[field.Name] = i

		rules := field.Rules
		if field.ShowWhen != nil {
			gate := "exclude_unless:" + field.ShowWhen.Field + "," + strings.Join(field.ShowWhen.In, ",")
			rules = gate + "|" + rules
		}
		if rules != "" {
			f.rules[field.Name] = rules
		}

		for rule, msg := range field.Messages {
			if rule == "*" {
				f.messages[field.Name] = msg
				continue
			}
			f.messages[field.Name+"."+rule] = msg
		}
	}
	return f
}

// Field looks up a field by name.
func (f *Form) Field(name string) (Field, bool) {
	i, ok := f.index[name]
	if !ok {
		return Field{}, false
	}
	return f.Fields[i], true
}

// Rules returns the compiled rule table, visibility gates included.
func (f *Form) Rules() validation.Rules {
	out := make(validation.Rules, len(f.rules))
	for k, v := range f.rules {
		out[k] = v
	}
	return out
}

// Errors validates values and returns the full error bag.
func (f *Form) Errors(values Values) *validation.Errors {
	return validation.MakeWithMessages(validation.Data(values), f.rules, f.messages).Errors()
}

// Validate maps field → message. An empty map means the values are valid.
func (f *Form) Validate(values Values) map[string]string {
	return f.Errors(values).Map()
}

// Visible reports whether a field is rendered for the current values.
// Unconditional fields are always visible; unknown fields never are.
func (f *Form) Visible(name string, values Values) bool {
	field, ok := f.Field(name)
	if !ok {
		return false
	}
	if field.ShowWhen == nil {
		return true
	}
	current := validation.String(values[field.ShowWhen.Field])
	for _, want := range field.ShowWhen.In {
		if current == want {
			return true
		}
	}
	return false
}

// Visibility returns field → shown for every field.
func (f *Form) Visibility(values Values) map[string]bool {
	out := make(map[string]bool, len(f.Fields))
	for _, field := range f.Fields {
		out[field.Name] = f.Visible(field.Name, values)
	}
	return out
}

// VisibleFields returns the fields to render, in declaration order.
func (f *Form) VisibleFields(values Values) []Field {
	out := make([]Field, 0, len(f.Fields))
	for _, field := range f.Fields {
		if f.Visible(field.Name, values) {
			out = append(out, field)
		}
	}
	return out
}

// Discriminators returns the names of fields other fields are gated on.
func (f *Form) Discriminators() map[string]bool {
	out := make(map[string]bool)
	for _, field := range f.Fields {
		if field.ShowWhen != nil {
			out[field.ShowWhen.Field] = true
		}
	}
	return out
}

// Defaults returns the values a freshly mounted form starts with.
func (f *Form) Defaults() Values {
	values := make(Values, len(f.Fields))
	for _, field := range f.Fields {
		switch field.Type {
		case KindCheckbox:
			values[field.Name] = false
		case KindCheckboxGroup:
			group := make(map[string]bool, len(field.Options))
			for _, opt := range field.Options {
				group[opt] = false
			}
			values[field.Name] = group
		default:
			values[field.Name] = ""
		}
	}
	return values
}

// Decode reads an HTML form post. Checkbox groups post one value per
// checked option under the field name.
func (f *Form) Decode(form url.Values) Values {
	values := f.Defaults()
	for _, field := range f.Fields {
		switch field.Type {
		case KindCheckbox:
			values[field.Name] = truthy(form.Get(field.Name))
		case KindCheckboxGroup:
			group := values[field.Name].(map[string]bool)
			for _, checked := range form[field.Name] {
				if _, ok := group[checked]; ok {
					group[checked] = true
				}
			}
		default:
			values[field.Name] = form.Get(field.Name)
		}
	}
	return values
}

// Normalize coerces decoded JSON onto the form's fields. Unknown fields are
// dropped and missing ones take their defaults. Groups accept either an
// object of option → bool or a list of checked options.
func (f *Form) Normalize(raw map[string]any) Values {
	values := f.Defaults()
	for _, field := range f.Fields {
		v, ok := raw[field.Name]
		if !ok || v == nil {
			continue
		}
		switch field.Type {
		case KindCheckbox:
			switch b := v.(type) {
			case bool:
				values[field.Name] = b
			default:
				values[field.Name] = truthy(validation.String(v))
			}
		case KindCheckboxGroup:
			group := values[field.Name].(map[string]bool)
			switch g := v.(type) {
			case map[string]any:
				for opt, checked := range g {
					if _, known := group[opt]; known {
						b, _ := checked.(bool)
						group[opt] = b
					}
				}
			case map[string]bool:
				for opt, checked := range g {
					if _, known := group[opt]; known {
						group[opt] = checked
					}
				}
			case []any:
				for _, item := range g {
					if opt, _ := item.(string); opt != "" {
						if _, known := group[opt]; known {
							group[opt] = true
						}
					}
				}
			}
		default:
			values[field.Name] = validation.String(v)
		}
	}
	return values
}

// MarshalValues renders values as two-space indented JSON with keys in
// field declaration order.
func (f *Form) MarshalValues(values Values) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, field := range f.Fields {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		key, _ := json.Marshal(field.Name)
		buf.Write(key)
		buf.WriteString(": ")

		if field.Type == KindCheckboxGroup {
			group, _ := values[field.Name].(map[string]bool)
			if err := writeGroup(&buf, field.Options, group); err != nil {
				return nil, err
			}
			continue
		}

		v, err := json.Marshal(values[field.Name])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteString("\n}")
	return buf.Bytes(), nil
}

func writeGroup(buf *bytes.Buffer, options []string, group map[string]bool) error {
	buf.WriteString("{")
	for i, opt := range options {
		if i > 0 {
			buf.WriteString(",")
		}
		key, err := json.Marshal(opt)
		if err != nil {
			return err
		}
		buf.WriteString("\n    ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.WriteString(strconv.FormatBool(group[opt]))
	}
	buf.WriteString("\n  }")
	return nil
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
