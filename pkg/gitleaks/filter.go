package gitleaks

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// FilterConfig specifies include and exclude patterns for rule IDs.
type FilterConfig struct {
	Include []string // only rules whose ID matches one of these are kept
	Exclude []string // rules whose ID matches one of these are dropped
}

// ParsePatterns splits a comma-separated string into trimmed patterns.
func ParsePatterns(patterns string) []string {
	if patterns == "" {
		return []string{}
	}

	parts := strings.Split(patterns, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Filter applies include then exclude patterns to rule IDs. An empty include
// list keeps every rule. Order is preserved.
func Filter(rules []Rule, config FilterConfig) ([]Rule, error) {
	if len(rules) == 0 {
		return rules, nil
	}

	include, err := compileAll(config.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compileAll(config.Exclude)
	if err != nil {
		return nil, err
	}

	filtered := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if len(include) > 0 {
			ok, err := matchesAny(r.ID, include)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		if len(exclude) > 0 {
			ok, err := matchesAny(r.ID, exclude)
			if err != nil {
				return nil, err
			}
			if ok {
				continue
			}
		}
		filtered = append(filtered, r)
	}

	return filtered, nil
}

func compileAll(patterns []string) ([]*regexp2.Regexp, error) {
	regexes := make([]*regexp2.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp2.Compile(pattern, regexp2.RE2)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		regexes = append(regexes, re)
	}
	return regexes, nil
}

func matchesAny(ruleID string, regexes []*regexp2.Regexp) (bool, error) {
	for _, re := range regexes {
		ok, err := re.MatchString(ruleID)
		if err != nil {
			return false, fmt.Errorf("matching rule ID %q against %q: %w", ruleID, re.String(), err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
