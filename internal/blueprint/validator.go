package blueprint

import (
	"encoding/json"
	"fmt"
)

// Result is the outcome of validating one candidate. Exactly one of
// Blueprint and Violations is set.
type Result struct {
	Blueprint  *Blueprint
	Violations Violations
}

// Valid reports whether the candidate passed every rule.
func (r Result) Valid() bool { return len(r.Violations) == 0 && r.Blueprint != nil }

// Validator runs a rule chain over decoded JSON candidates. It holds no
// mutable state and is safe for concurrent use.
type Validator struct {
	rules []Rule
}

// NewValidator returns a Validator over rules, or over DefaultRules when
// none are given.
func NewValidator(rules ...Rule) *Validator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Validator{rules: rules}
}

// Validate runs every rule, merges their violations, and decodes the
// candidate into a typed Blueprint only when none remain.
func (v *Validator) Validate(candidate any) Result {
	var all Violations
	for _, r := range v.rules {
		all = append(all, r.Check(candidate)...)
	}
	if all = all.normalize(); len(all) > 0 {
		return Result{Violations: all}
	}

	bp, err := decode(candidate)
	if err != nil {
		return Result{Violations: Violations{{Message: err.Error()}}}
	}
	return Result{Blueprint: bp}
}

// ValidateJSON decodes data and validates the result. Used for stored rows,
// which are never wrapped.
func (v *Validator) ValidateJSON(data []byte) Result {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Result{Violations: Violations{{Message: fmt.Sprintf("invalid JSON: %v", err)}}}
	}
	return v.Validate(doc)
}

func decode(candidate any) (*Blueprint, error) {
	data, err := json.Marshal(candidate)
	if err != nil {
		return nil, fmt.Errorf("re-encode candidate: %w", err)
	}
	var bp Blueprint
	if err := json.Unmarshal(data, &bp); err != nil {
		return nil, fmt.Errorf("decode blueprint: %w", err)
	}
	return &bp, nil
}
