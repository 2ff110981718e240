// Package forms holds the job application, event registration and survey
// forms: their field tables, validation rules and conditional visibility.
package forms

// Kind is the input type of a field.
type Kind string

const (
	KindText          Kind = "text"
	KindEmail         Kind = "email"
	KindNumber        Kind = "number"
	KindSelect        Kind = "select"
	KindCheckbox      Kind = "checkbox"
	KindCheckboxGroup Kind = "checkbox_group"
	KindTextarea      Kind = "textarea"
	KindDateTime      Kind = "datetime"
)

// Success modes: what a valid submission does.
const (
	SuccessAcknowledge = "acknowledge"
	SuccessFollowup    = "followup"
)

// Definition is one form as declared in YAML.
type Definition struct {
	Name    string  `yaml:"name" json:"name" validate:"required,excludesall=/"`
	Title   string  `yaml:"title" json:"title" validate:"required"`
	Success string  `yaml:"success" json:"success" validate:"oneof=acknowledge followup"`
	Fields  []Field `yaml:"fields" json:"fields" validate:"required,min=1,dive"`
}

// Field is a single input.
type Field struct {
	Name        string            `yaml:"name" json:"name" validate:"required"`
	Label       string            `yaml:"label" json:"label" validate:"required"`
	Type        Kind              `yaml:"type" json:"type" validate:"oneof=text email number select checkbox checkbox_group textarea datetime"`
	Placeholder string            `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Options     []string          `yaml:"options,omitempty" json:"options,omitempty" validate:"required_if=Type select,required_if=Type checkbox_group"`
	ShowWhen    *Condition        `yaml:"show_when,omitempty" json:"showWhen,omitempty"`
	Rules       string            `yaml:"rules,omitempty" json:"rules,omitempty"`
	Messages    map[string]string `yaml:"messages,omitempty" json:"messages,omitempty"`
}

// Condition gates a field on a discriminator: the field is shown (and
// validated) only while Field's value is one of In.
type Condition struct {
	Field string   `yaml:"field" json:"field" validate:"required"`
	In    []string `yaml:"in" json:"in" validate:"required,min=1,dive,required,excludesall=0x7C0x2C"`
}

// Conditional reports whether the field has a visibility gate.
func (f Field) Conditional() bool { return f.ShowWhen != nil }
