package gitleaks

import (
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"
	"github.com/praetorian-inc/gl2s3ig/pkg/regrp"
)

// ValidateConfig checks every rule and cross-rule references. All problems
// are reported, joined into one error.
func ValidateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}

	var errs []error
	seen := make(map[string]bool, len(c.Rules))
	known := c.RuleIDs()

	for i := range c.Rules {
		r := &c.Rules[i]
		if err := ValidateRule(r, known); err != nil {
			errs = append(errs, err)
		}
		if r.ID != "" {
			if seen[r.ID] {
				errs = append(errs, fmt.Errorf("duplicate rule ID: %s", r.ID))
			}
			seen[r.ID] = true
		}
	}

	for i, a := range c.Allowlists {
		if err := validateAllowlist(a); err != nil {
			errs = append(errs, fmt.Errorf("global allowlist %d: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

// ValidateRule checks a single rule. knownRuleIDs, when non-nil, is used to
// check the IDs of required rules.
func ValidateRule(r *Rule, knownRuleIDs map[string]bool) error {
	if r == nil {
		return fmt.Errorf("rule is nil")
	}
	if r.ID == "" {
		return fmt.Errorf("rule ID is required")
	}
	if r.Regex == "" && r.Path == "" {
		return fmt.Errorf("rule %s: regex or path is required", r.ID)
	}
	if r.SecretGroup < 0 {
		return fmt.Errorf("rule %s: secretGroup must not be negative, got %d", r.ID, r.SecretGroup)
	}
	if r.Entropy != nil && *r.Entropy <= 0 {
		return fmt.Errorf("rule %s: entropy must be positive, got %v", r.ID, *r.Entropy)
	}

	if r.Regex != "" {
		if err := compile(r.Regex); err != nil {
			return fmt.Errorf("invalid regex for rule %s: %w", r.ID, err)
		}
		pattern, err := regrp.Parse(r.Regex)
		if err != nil {
			return fmt.Errorf("invalid regex for rule %s: %w", r.ID, err)
		}
		if groups := regrp.CaptureCount(pattern); r.SecretGroup > groups {
			return fmt.Errorf("rule %s: secretGroup %d exceeds the %d capture groups of its regex",
				r.ID, r.SecretGroup, groups)
		}
	} else if r.SecretGroup != 0 {
		return fmt.Errorf("rule %s: secretGroup set without a regex", r.ID)
	}

	if r.Path != "" {
		if err := compile(r.Path); err != nil {
			return fmt.Errorf("invalid path regex for rule %s: %w", r.ID, err)
		}
	}

	for i, a := range r.Allowlists {
		if err := validateAllowlist(a); err != nil {
			return fmt.Errorf("rule %s allowlist %d: %w", r.ID, i, err)
		}
	}

	for _, req := range r.Required {
		if req.ID == "" {
			return fmt.Errorf("rule %s: required rule ID is empty", r.ID)
		}
		if req.ID == r.ID {
			return fmt.Errorf("rule %s: rule cannot require itself", r.ID)
		}
		if knownRuleIDs != nil && !knownRuleIDs[req.ID] {
			return fmt.Errorf("rule %s requires unknown rule ID: %s", r.ID, req.ID)
		}
		if req.WithinLines != nil && *req.WithinLines <= 0 {
			return fmt.Errorf("rule %s: withinLines for %s must be positive", r.ID, req.ID)
		}
		if req.WithinColumns != nil && *req.WithinColumns <= 0 {
			return fmt.Errorf("rule %s: withinColumns for %s must be positive", r.ID, req.ID)
		}
	}

	return nil
}

func validateAllowlist(a Allowlist) error {
	if a.Empty() {
		return fmt.Errorf("allowlist has no paths, regexes, stopwords or commits")
	}
	for _, re := range a.Regexes {
		if err := compile(re); err != nil {
			return fmt.Errorf("invalid regex %q: %w", re, err)
		}
	}
	for _, re := range a.Paths {
		if err := compile(re); err != nil {
			return fmt.Errorf("invalid path regex %q: %w", re, err)
		}
	}
	return nil
}

// compile checks a pattern with RE2 syntax, which is what Gitleaks uses.
func compile(pattern string) error {
	_, err := regexp2.Compile(pattern, regexp2.RE2)
	return err
}
