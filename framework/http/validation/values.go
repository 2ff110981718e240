package validation

import (
	"strconv"
	"strings"
)

// String renders a value the way rules compare it: bools as "true"/"false",
// numbers in their shortest form, groups and unknown types as "".
func String(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

// filled reports whether a value counts as provided. With numeric set, a
// value that parses to zero counts as absent.
func filled(value any, numeric bool) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case map[string]bool:
		return anyTrue(v)
	}

	s := strings.TrimSpace(String(value))
	if s == "" {
		return false
	}
	if numeric {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == 0 {
			return false
		}
	}
	return true
}

func anyTrue(group map[string]bool) bool {
	for _, checked := range group {
		if checked {
			return true
		}
	}
	return false
}

// matches reports whether value equals one of allowed.
func matches(value any, allowed []string) bool {
	return contains(allowed, String(value))
}

// parseList splits "field,a,b" into the field and its values.
func parseList(param string) (string, []string) {
	parts := strings.Split(param, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts[0], parts[1:]
}

func splitRules(ruleStr string) []string {
	var out []string
	for _, rule := range strings.Split(ruleStr, "|") {
		if rule = strings.TrimSpace(rule); rule != "" {
			out = append(out, rule)
		}
	}
	return out
}

func hasRule(rules []string, name string) bool {
	for _, rule := range rules {
		if n, _, _ := strings.Cut(rule, ":"); n == name {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if strings.TrimSpace(item) == s {
			return true
		}
	}
	return false
}
