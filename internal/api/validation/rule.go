package validation

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Location names where a field is read from.
type Location string

const (
	LocationHeader Location = "header"
	LocationParam  Location = "params"
	LocationBody   Location = "body"
)

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Location Location `json:"location"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
}

// check returns an empty string when v passes.
type check func(field string, v any) string

// Rule is the declared constraint set for one field. Checks run in
// declaration order and stop at the first failure for that field.
type Rule struct {
	location Location
	field    string
	optional bool
	checks   []check
}

// Header declares a rule on a request header.
func Header(name string) *Rule {
	return &Rule{location: LocationHeader, field: http.CanonicalHeaderKey(name)}
}

// Param declares a rule on a path parameter.
func Param(name string) *Rule {
	return &Rule{location: LocationParam, field: name}
}

// Body declares a rule on a top-level JSON body field.
func Body(name string) *Rule {
	return &Rule{location: LocationBody, field: name}
}

// Optional lets the field be absent (or null). Present values are still checked.
func (r *Rule) Optional() *Rule {
	r.optional = true
	return r
}

// IsString requires the value to be a string.
func (r *Rule) IsString() *Rule {
	r.checks = append(r.checks, func(field string, v any) string {
		if _, ok := v.(string); !ok {
			return field + " must be a string"
		}
		return ""
	})
	return r
}

// NotEmpty requires a string value with non-whitespace content.
func (r *Rule) NotEmpty() *Rule {
	r.checks = append(r.checks, func(field string, v any) string {
		s, _ := v.(string)
		if strings.TrimSpace(s) == "" {
			return field + " must not be empty"
		}
		return ""
	})
	return r
}

// IsIn requires the value to be one of values.
func (r *Rule) IsIn(values ...string) *Rule {
	r.checks = append(r.checks, func(field string, v any) string {
		s, _ := v.(string)
		if !slices.Contains(values, s) {
			return fmt.Sprintf("%s must be one of: %s", field, strings.Join(values, ", "))
		}
		return ""
	})
	return r
}

// Custom requires pred to hold for the string value.
func (r *Rule) Custom(pred func(string) bool, message string) *Rule {
	r.checks = append(r.checks, func(_ string, v any) string {
		s, _ := v.(string)
		if !pred(s) {
			return message
		}
		return ""
	})
	return r
}

func (r *Rule) run(req *Request) *FieldError {
	v, present := req.lookup(r.location, r.field)
	if !present {
		if r.optional {
			return nil
		}
		return &FieldError{Location: r.location, Field: r.field, Message: r.field + " is required"}
	}
	for _, c := range r.checks {
		if msg := c(r.field, v); msg != "" {
			return &FieldError{Location: r.location, Field: r.field, Message: msg}
		}
	}
	return nil
}

// Validate runs every rule against req and returns all failures in rule
// order. An empty result means req is valid.
func Validate(rules []*Rule, req *Request) []FieldError {
	results := make([]*FieldError, len(rules))

	var g errgroup.Group
	for i, rule := range rules {
		g.Go(func() error {
			results[i] = rule.run(req)
			return nil
		})
	}
	_ = g.Wait()

	var errs []FieldError
	for _, fe := range results {
		if fe != nil {
			errs = append(errs, *fe)
		}
	}
	return errs
}
