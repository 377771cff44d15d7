// Package gitleaks models and loads Gitleaks TOML configuration files.
package gitleaks

import (
	"fmt"
	"strings"
)

// RegexTarget selects what an allowlist regex is matched against.
type RegexTarget string

const (
	RegexTargetLine   RegexTarget = "line"
	RegexTargetMatch  RegexTarget = "match"
	RegexTargetSecret RegexTarget = "secret"
)

// UnmarshalText accepts the target case-insensitively.
func (t *RegexTarget) UnmarshalText(text []byte) error {
	v := RegexTarget(strings.ToLower(strings.TrimSpace(string(text))))
	switch v {
	case "", RegexTargetLine, RegexTargetMatch, RegexTargetSecret:
		*t = v
		return nil
	}
	return fmt.Errorf("unknown regexTarget %q", string(text))
}

// AllowlistCondition combines the criteria of a single allowlist.
type AllowlistCondition string

const (
	ConditionAnd AllowlistCondition = "AND"
	ConditionOr  AllowlistCondition = "OR"
)

// UnmarshalText accepts the condition case-insensitively.
func (c *AllowlistCondition) UnmarshalText(text []byte) error {
	v := AllowlistCondition(strings.ToUpper(strings.TrimSpace(string(text))))
	switch v {
	case "", ConditionAnd, ConditionOr:
		*c = v
		return nil
	}
	return fmt.Errorf("unknown allowlist condition %q", string(text))
}

// Allowlist suppresses findings of a rule.
type Allowlist struct {
	Description string             `toml:"description,omitempty"`
	Condition   AllowlistCondition `toml:"condition,omitempty"`
	RegexTarget RegexTarget        `toml:"regexTarget,omitempty"`
	Paths       []string           `toml:"paths,omitempty"`
	Regexes     []string           `toml:"regexes,omitempty"`
	StopWords   []string           `toml:"stopwords,omitempty"`
	Commits     []string           `toml:"commits,omitempty"`
}

// Empty reports whether the allowlist has no criteria at all.
func (a Allowlist) Empty() bool {
	return len(a.Paths) == 0 && len(a.Regexes) == 0 && len(a.StopWords) == 0 && len(a.Commits) == 0
}

// EffectiveCondition returns the condition, defaulting to OR like Gitleaks.
func (a Allowlist) EffectiveCondition() AllowlistCondition {
	if a.Condition == "" {
		return ConditionOr
	}
	return a.Condition
}

// EffectiveRegexTarget returns the regex target, defaulting to the secret
// like Gitleaks.
func (a Allowlist) EffectiveRegexTarget() RegexTarget {
	if a.RegexTarget == "" {
		return RegexTargetSecret
	}
	return a.RegexTarget
}

// Required is a composite-rule dependency: another rule that must match
// near the primary one.
type Required struct {
	ID            string `toml:"id"`
	WithinLines   *int   `toml:"withinLines,omitempty"`
	WithinColumns *int   `toml:"withinColumns,omitempty"`
}

// Rule is a single Gitleaks detection rule.
type Rule struct {
	ID          string      `toml:"id"`
	Description string      `toml:"description,omitempty"`
	Path        string      `toml:"path,omitempty"`
	Regex       string      `toml:"regex,omitempty"`
	SecretGroup int         `toml:"secretGroup,omitempty"`
	Entropy     *float64    `toml:"entropy,omitempty"`
	Keywords    []string    `toml:"keywords,omitempty"`
	Tags        []string    `toml:"tags,omitempty"`
	SkipReport  *bool       `toml:"skipReport,omitempty"`
	Allowlists  []Allowlist `toml:"allowlists,omitempty"`
	Required    []Required  `toml:"required,omitempty"`

	// Allowlist is the pre-v8.21 single-table form; the loader folds it into
	// Allowlists.
	Allowlist *Allowlist `toml:"allowlist,omitempty"`
}

// Extend points at a base configuration this one builds on.
type Extend struct {
	UseDefault    bool     `toml:"useDefault,omitempty"`
	Path          string   `toml:"path,omitempty"`
	URL           string   `toml:"url,omitempty"`
	DisabledRules []string `toml:"disabledRules,omitempty"`
}

// Set reports whether the config extends another one.
func (e Extend) Set() bool {
	return e.UseDefault || e.Path != "" || e.URL != ""
}

// Config is a parsed Gitleaks configuration.
type Config struct {
	Title      string      `toml:"title,omitempty"`
	Extend     Extend      `toml:"extend,omitempty"`
	Rules      []Rule      `toml:"rules"`
	Allowlists []Allowlist `toml:"allowlists,omitempty"`

	// Allowlist is the pre-v8.25 global allowlist table.
	Allowlist *Allowlist `toml:"allowlist,omitempty"`
}

// RuleIDs returns the set of rule IDs defined in the config.
func (c *Config) RuleIDs() map[string]bool {
	ids := make(map[string]bool, len(c.Rules))
	for _, r := range c.Rules {
		ids[r.ID] = true
	}
	return ids
}

// normalize folds the legacy single allowlist tables into their list forms.
func (c *Config) normalize() {
	if c.Allowlist != nil {
		c.Allowlists = append([]Allowlist{*c.Allowlist}, c.Allowlists...)
		c.Allowlist = nil
	}
	for i := range c.Rules {
		r := &c.Rules[i]
		if r.Allowlist != nil {
			r.Allowlists = append([]Allowlist{*r.Allowlist}, r.Allowlists...)
			r.Allowlist = nil
		}
	}
}
