// Package sssig models SSSIG secret-detection rules and their YAML form.
package sssig

// FilterKind says whether a filter keeps or drops a candidate match.
type FilterKind string

const (
	FilterRequire FilterKind = "require"
	FilterExclude FilterKind = "exclude"
)

// Target is the pattern that locates a secret. The secret itself is matched
// by Pattern; the optional prefix and suffix patterns must match immediately
// before and after it.
type Target struct {
	PrefixPattern *string `yaml:"prefix_pattern,omitempty" json:"prefix_pattern,omitempty"`
	Pattern       string  `yaml:"pattern" json:"pattern"`
	SuffixPattern *string `yaml:"suffix_pattern,omitempty" json:"suffix_pattern,omitempty"`
}

// Combined returns prefix, pattern and suffix joined back together.
func (t Target) Combined() string {
	s := t.Pattern
	if t.PrefixPattern != nil {
		s = *t.PrefixPattern + s
	}
	if t.SuffixPattern != nil {
		s += *t.SuffixPattern
	}
	return s
}

// RuleMeta is descriptive rule metadata.
type RuleMeta struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Report      bool     `yaml:"report" json:"report"`
}

// Filter narrows the matches of a rule. Require filters use the entropy and
// path fields; exclude filters may use any of the pattern lists.
type Filter struct {
	Kind             FilterKind `yaml:"kind" json:"kind"`
	TargetMinEntropy *float64   `yaml:"target_min_entropy,omitempty" json:"target_min_entropy,omitempty"`
	TargetStrings    []string   `yaml:"target_strings,omitempty" json:"target_strings,omitempty"`
	PathPatterns     []string   `yaml:"path_patterns,omitempty" json:"path_patterns,omitempty"`
	ContextPatterns  []string   `yaml:"context_patterns,omitempty" json:"context_patterns,omitempty"`
	MatchPatterns    []string   `yaml:"match_patterns,omitempty" json:"match_patterns,omitempty"`
	TargetPatterns   []string   `yaml:"target_patterns,omitempty" json:"target_patterns,omitempty"`
}

// Empty reports whether the filter has no criteria.
func (f Filter) Empty() bool {
	return f.TargetMinEntropy == nil &&
		len(f.TargetStrings) == 0 &&
		len(f.PathPatterns) == 0 &&
		len(f.ContextPatterns) == 0 &&
		len(f.MatchPatterns) == 0 &&
		len(f.TargetPatterns) == 0
}

// Dependency binds the match of another rule to a variable, optionally
// constrained to be near the primary match.
type Dependency struct {
	RuleID        string `yaml:"rule_id" json:"rule_id"`
	VarName       string `yaml:"varname" json:"varname"`
	WithinLines   *int   `yaml:"within_lines,omitempty" json:"within_lines,omitempty"`
	WithinColumns *int   `yaml:"within_columns,omitempty" json:"within_columns,omitempty"`
}

// Rule is a single SSSIG rule.
type Rule struct {
	ID           string       `yaml:"id" json:"id"`
	Meta         RuleMeta     `yaml:"meta" json:"meta"`
	Target       Target       `yaml:"target" json:"target"`
	Filters      []Filter     `yaml:"filters,omitempty" json:"filters,omitempty"`
	Dependencies []Dependency `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
}

// Rules is the top level of an SSSIG rules document.
type Rules struct {
	Rules []Rule `yaml:"rules" json:"rules"`
}
