// Package validation evaluates ordered (field, predicate, message) rules.
//
// Rules run in the order they were added. Once a rule for a field fails, the
// remaining rules for that field are skipped; failures of different fields
// accumulate, so a single pass reports every invalid field once.
package validation

import (
	"sort"
	"strings"
)

// Rule is a single check bound to a field.
type Rule struct {
	Field   string
	Pass    func() bool
	Message string
}

// Rules is an ordered rule list.
type Rules []Rule

// Add appends a rule for field.
func (rs *Rules) Add(field, message string, pass func() bool) {
	*rs = append(*rs, Rule{Field: field, Pass: pass, Message: message})
}

// Validate runs the rules and returns Errors when at least one failed, nil otherwise.
func (rs Rules) Validate() error {
	errs := Errors{}
	for _, r := range rs {
		if _, failed := errs[r.Field]; failed {
			continue
		}
		if !r.Pass() {
			errs[r.Field] = r.Message
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Errors maps a field to the message of its first failed rule.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Single builds Errors for one field.
func Single(field, message string) Errors {
	return Errors{field: message}
}
