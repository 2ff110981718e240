package forms

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed definitions/*.yaml
var definitions embed.FS

// Registry holds the loaded forms by name.
type Registry struct {
	forms map[string]*Form
	names []string
}

// Default loads the built-in job application, event registration and
// survey forms.
func Default() (*Registry, error) {
	return Load(definitions, "definitions/*.yaml")
}

// Load parses every YAML file in fsys matching pattern.
func Load(fsys fs.FS, pattern string) (*Registry, error) {
	paths, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("forms: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("forms: no definitions match %q", pattern)
	}

	validate := validator.New()
	reg := &Registry{forms: make(map[string]*Form, len(paths))}

	for _, path := range paths {
		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("forms: %w", err)
		}
		def, err := Parse(raw, validate)
		if err != nil {
			return nil, fmt.Errorf("forms: %s: %w", path, err)
		}
		if _, dup := reg.forms[def.Name]; dup {
			return nil, fmt.Errorf("forms: %s: duplicate form %q", path, def.Name)
		}
		reg.forms[def.Name] = compile(def)
		reg.names = append(reg.names, def.Name)
	}
	sort.Strings(reg.names)
	return reg, nil
}

// Parse decodes and checks a single YAML definition.
func Parse(raw []byte, validate *validator.Validate) (Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return def, err
	}
	if validate == nil {
		validate = validator.New()
	}
	if err := validate.Struct(def); err != nil {
		return def, err
	}
	return def, check(def)
}

// check enforces the cross-field invariants struct tags cannot express.
func check(def Definition) error {
	fields := make(map[string]Field, len(def.Fields))
	for _, field := range def.Fields {
		if _, dup := fields[field.Name]; dup {
			return fmt.Errorf("duplicate field %q", field.Name)
		}
		fields[field.Name] = field
	}

	for _, field := range def.Fields {
		cond := field.ShowWhen
		if cond == nil {
			continue
		}
		gate, ok := fields[cond.Field]
		if !ok {
			return fmt.Errorf("field %q: show_when refers to unknown field %q", field.Name, cond.Field)
		}
		if gate.ShowWhen != nil {
			return fmt.Errorf("field %q: discriminator %q is itself conditional", field.Name, cond.Field)
		}
		switch gate.Type {
		case KindSelect:
			for _, want := range cond.In {
				if !contains(gate.Options, want) {
					return fmt.Errorf("field %q: %q is not an option of %q", field.Name, want, cond.Field)
				}
			}
		case KindCheckbox:
			for _, want := range cond.In {
				if want != "true" && want != "false" {
					return fmt.Errorf("field %q: checkbox %q gates on true/false, got %q", field.Name, cond.Field, want)
				}
			}
		default:
			return fmt.Errorf("field %q: discriminator %q must be a select or checkbox", field.Name, cond.Field)
		}
	}
	return nil
}

// Get returns the named form.
func (r *Registry) Get(name string) (*Form, bool) {
	f, ok := r.forms[name]
	return f, ok
}

// Names returns the form names, sorted.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// All returns every form, sorted by name.
func (r *Registry) All() []*Form {
	out := make([]*Form, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.forms[name])
	}
	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
