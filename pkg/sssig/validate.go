package sssig

import (
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"
)

// ValidateRule checks rule consistency and required fields.
func ValidateRule(r *Rule) error {
	if r == nil {
		return fmt.Errorf("rule is nil")
	}

	if !ValidID(r.ID) {
		return fmt.Errorf("rule ID %q does not match %s[A-Z2-7]{16}", r.ID, IDPrefix)
	}
	if r.Meta.Name == "" {
		return fmt.Errorf("rule %s: name is required", r.ID)
	}
	if r.Target.Pattern == "" {
		return fmt.Errorf("rule %s: target pattern is required", r.ID)
	}

	// Prefix and suffix are fragments and need not compile on their own,
	// e.g. a suffix of "?" after a group. The target and the whole must.
	if err := compile(r.Target.Pattern); err != nil {
		return fmt.Errorf("invalid target pattern for rule %s: %w", r.ID, err)
	}
	if err := compile(r.Target.Combined()); err != nil {
		return fmt.Errorf("invalid combined pattern for rule %s: %w", r.ID, err)
	}

	for i, f := range r.Filters {
		if err := validateFilter(f); err != nil {
			return fmt.Errorf("rule %s filter %d: %w", r.ID, i, err)
		}
	}

	vars := make(map[string]bool, len(r.Dependencies))
	for _, d := range r.Dependencies {
		if !ValidID(d.RuleID) {
			return fmt.Errorf("rule %s: dependency rule ID %q is invalid", r.ID, d.RuleID)
		}
		if d.VarName == "" {
			return fmt.Errorf("rule %s: dependency on %s has no varname", r.ID, d.RuleID)
		}
		if vars[d.VarName] {
			return fmt.Errorf("rule %s: duplicate dependency varname %s", r.ID, d.VarName)
		}
		vars[d.VarName] = true
		if d.WithinLines != nil && *d.WithinLines <= 0 {
			return fmt.Errorf("rule %s: within_lines for %s must be positive", r.ID, d.RuleID)
		}
		if d.WithinColumns != nil && *d.WithinColumns <= 0 {
			return fmt.Errorf("rule %s: within_columns for %s must be positive", r.ID, d.RuleID)
		}
	}

	return nil
}

// ValidateRules validates each rule, then checks for duplicate IDs and
// dependencies on rules missing from the document.
func ValidateRules(rs *Rules) error {
	if rs == nil {
		return fmt.Errorf("rules is nil")
	}

	var errs []error
	known := make(map[string]bool, len(rs.Rules))
	for i := range rs.Rules {
		r := &rs.Rules[i]
		if err := ValidateRule(r); err != nil {
			errs = append(errs, err)
		}
		if known[r.ID] {
			errs = append(errs, fmt.Errorf("duplicate rule ID: %s", r.ID))
		}
		known[r.ID] = true
	}

	for _, r := range rs.Rules {
		for _, d := range r.Dependencies {
			if !known[d.RuleID] {
				errs = append(errs, fmt.Errorf("rule %s depends on unknown rule ID: %s", r.ID, d.RuleID))
			}
		}
	}

	return errors.Join(errs...)
}

func validateFilter(f Filter) error {
	switch f.Kind {
	case FilterRequire, FilterExclude:
	default:
		return fmt.Errorf("unknown filter kind %q", f.Kind)
	}
	if f.Empty() {
		return fmt.Errorf("%s filter has no criteria", f.Kind)
	}
	if f.TargetMinEntropy != nil && *f.TargetMinEntropy <= 0 {
		return fmt.Errorf("target_min_entropy must be positive")
	}

	for _, list := range [][]string{f.PathPatterns, f.ContextPatterns, f.MatchPatterns, f.TargetPatterns} {
		for _, pattern := range list {
			if err := compile(pattern); err != nil {
				return fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
		}
	}
	return nil
}

func compile(pattern string) error {
	_, err := regexp2.Compile(pattern, regexp2.RE2)
	return err
}
