// Package validation provides Laravel-style input validation.
//
// # Overview
//
// Rules are pipe-separated strings keyed by field name. Input is a flat
// Data map whose values are strings, bools or map[string]bool groups
// (multi-select checkboxes). Missing fields are treated as empty.
//
// # Basic Usage
//
//	v := validation.MakeWithMessages(validation.Data{
//	    "email": "alice@example.com",
//	    "age":   "0",
//	}, validation.Rules{
//	    "email": "required|email",
//	    "age":   "required|numeric|gt:0",
//	}, validation.Messages{
//	    "age.required": "Age is required",
//	})
//
//	if v.Fails() {
//	    v.Errors().Map() // map[age:Age is required]
//	}
//
// Every field is evaluated on every run. Within a field, evaluation stops at
// the first failing rule, so each field carries at most one message.
//
// # Available Rules
//
// Presence rules (run even when the value is empty):
//   - required: non-blank string, true bool, or a group with a checked item.
//     On fields that also carry numeric, a value of 0 counts as absent.
//   - required_if:other,a,b: required only when other is a or b
//   - exclude_unless:other,a,b: ignore the field unless other is a or b
//   - any_checked: at least one item of a group is checked
//   - nullable, sometimes
//
// Format rules (skipped when the value is empty):
//   - email: \S+@\S+\.\S+
//   - digits: ASCII digits only
//   - url: http:// or https:// followed by a host
//   - alpha, regex:pattern
//
// Numeric rules:
//   - numeric, integer, boolean
//   - gt:n, gte:n, lt:n, lte:n
//
// Length and membership:
//   - min:n, max:n: rune counts
//   - in:a,b,c
//
// # Messages
//
// Messages are looked up as "field.rule", then "field", then fall back to
// the default English message.
package validation
