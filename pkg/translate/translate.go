// Package translate converts Gitleaks rules into SSSIG rules.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/praetorian-inc/gl2s3ig/pkg/gitleaks"
	"github.com/praetorian-inc/gl2s3ig/pkg/regrp"
	"github.com/praetorian-inc/gl2s3ig/pkg/sssig"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// CatchAllPattern is the target of path-only rules, which match any content.
const CatchAllPattern = ".+"

// ErrNoPattern is returned for a rule with neither a regex nor a path.
var ErrNoPattern = errors.New("rule has neither regex nor path pattern")

// Translator converts rules. The zero value is not usable; use New.
type Translator struct {
	workers     int
	skipInvalid bool
	validate    bool
	logger      logrus.FieldLogger
	cache       *regrp.Cache
}

// Option configures a Translator.
type Option func(*Translator)

// WithWorkers translates up to n rules concurrently. Output order always
// follows input order. Default is 1.
func WithWorkers(n int) Option {
	return func(t *Translator) {
		if n > 0 {
			t.workers = n
		}
	}
}

// WithSkipInvalid logs and drops rules that fail to translate instead of
// failing the whole config.
func WithSkipInvalid() Option {
	return func(t *Translator) {
		t.skipInvalid = true
	}
}

// WithValidation runs sssig.ValidateRule on every translated rule.
func WithValidation() Option {
	return func(t *Translator) {
		t.validate = true
	}
}

// WithLogger sets the logger. Default is the logrus standard logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(t *Translator) {
		t.logger = logger
	}
}

// WithCache memoizes regex splits in c, which may be shared between
// translators.
func WithCache(c *regrp.Cache) Option {
	return func(t *Translator) {
		t.cache = c
	}
}

// New creates a Translator with the given options.
func New(opts ...Option) *Translator {
	t := &Translator{
		workers: 1,
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Rule translates a single Gitleaks rule.
func (t *Translator) Rule(r gitleaks.Rule) (sssig.Rule, error) {
	log := t.logger.WithField("rule", r.ID)

	target, err := t.target(r)
	if err != nil {
		return sssig.Rule{}, err
	}

	name := r.Description
	if name == "" {
		name = r.ID
	}

	out := sssig.Rule{
		ID: sssig.GenerateID(r.ID),
		Meta: sssig.RuleMeta{
			Name:        name,
			Description: r.Description,
			Tags:        r.Tags,
			Report:      r.SkipReport == nil || !*r.SkipReport,
		},
		Target: target,
	}

	if r.Entropy != nil {
		entropy := *r.Entropy
		out.Filters = append(out.Filters, sssig.Filter{
			Kind:             sssig.FilterRequire,
			TargetMinEntropy: &entropy,
		})
	}

	if r.Path != "" {
		out.Filters = append(out.Filters, sssig.Filter{
			Kind:         sssig.FilterRequire,
			PathPatterns: []string{r.Path},
		})
	}

	for _, a := range r.Allowlists {
		if len(a.Commits) > 0 {
			log.Warnf("allowlist %q: commit allowlists have no SSSIG equivalent, ignoring %d commits",
				a.Description, len(a.Commits))
		}
		f := Allowlist(a)
		if f.Empty() {
			continue
		}
		if a.EffectiveCondition() == gitleaks.ConditionAnd {
			log.Debugf("allowlist %q: AND condition is translated as an exclude filter", a.Description)
		}
		out.Filters = append(out.Filters, f)
	}

	out.Dependencies = Dependencies(r.Required)

	if t.validate {
		if err := sssig.ValidateRule(&out); err != nil {
			return sssig.Rule{}, err
		}
	}

	log.WithField("sssig_id", out.ID).Debug("translated rule")
	return out, nil
}

func (t *Translator) target(r gitleaks.Rule) (sssig.Target, error) {
	if r.Regex == "" {
		if r.Path != "" {
			return sssig.Target{Pattern: CatchAllPattern}, nil
		}
		return sssig.Target{}, ErrNoPattern
	}

	split := regrp.Split
	if t.cache != nil {
		split = t.cache.Split
	}

	prefix, target, suffix, err := split(r.Regex, r.SecretGroup)
	if err != nil {
		return sssig.Target{}, fmt.Errorf("splitting regex on group %d: %w", r.SecretGroup, err)
	}

	return sssig.Target{
		PrefixPattern: optional(prefix),
		Pattern:       target,
		SuffixPattern: optional(suffix),
	}, nil
}

// Config translates every rule of cfg. Without WithSkipInvalid the first
// failing rule aborts the translation.
func (t *Translator) Config(ctx context.Context, cfg *gitleaks.Config) (*sssig.Rules, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if cfg.Extend.Set() {
		t.logger.Warn("config extends another config; only the rules defined in this file are translated")
	}
	if len(cfg.Allowlists) > 0 {
		t.logger.Warnf("ignoring %d global allowlists, SSSIG filters are per rule", len(cfg.Allowlists))
	}

	results := make([]*sssig.Rule, len(cfg.Rules))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.workers)

	for i := range cfg.Rules {
		i := i
		r := cfg.Rules[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			out, err := t.Rule(r)
			if err != nil {
				if t.skipInvalid {
					t.logger.WithField("rule", r.ID).WithError(err).Warn("skipping rule")
					return nil
				}
				return fmt.Errorf("rule %s: %w", r.ID, err)
			}

			results[i] = &out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	rules := &sssig.Rules{Rules: make([]sssig.Rule, 0, len(results))}
	present := make(map[string]bool, len(results))
	for _, r := range results {
		if r != nil {
			rules.Rules = append(rules.Rules, *r)
			present[r.ID] = true
		}
	}

	for _, r := range rules.Rules {
		for _, d := range r.Dependencies {
			if !present[d.RuleID] {
				t.logger.WithField("sssig_id", r.ID).Warnf("dependency %s refers to a rule that was not translated", d.RuleID)
			}
		}
	}

	t.logger.Infof("translated %d of %d rules", len(rules.Rules), len(cfg.Rules))
	return rules, nil
}

// SplitRegex splits a Gitleaks regex into SSSIG prefix, target and suffix
// patterns around its secret group. Empty prefix and suffix are nil.
func SplitRegex(regex string, secretGroup int) (prefix *string, target string, suffix *string, err error) {
	return regrp.SplitByGroup(secretGroup, regex)
}

// Allowlist maps a Gitleaks allowlist onto an SSSIG exclude filter. Regexes
// go to the pattern list named by the allowlist's regex target; an unset
// target means the secret, as in Gitleaks.
func Allowlist(a gitleaks.Allowlist) sssig.Filter {
	f := sssig.Filter{
		Kind:          sssig.FilterExclude,
		TargetStrings: a.StopWords,
		PathPatterns:  a.Paths,
	}

	if len(a.Regexes) > 0 {
		switch a.EffectiveRegexTarget() {
		case gitleaks.RegexTargetLine:
			f.ContextPatterns = a.Regexes
		case gitleaks.RegexTargetMatch:
			f.MatchPatterns = a.Regexes
		case gitleaks.RegexTargetSecret:
			f.TargetPatterns = a.Regexes
		}
	}

	return f
}

// Dependencies maps required rules onto SSSIG dependencies. Each gets a
// variable name derived from the required rule ID, unique within the rule.
func Dependencies(required []gitleaks.Required) []sssig.Dependency {
	if len(required) == 0 {
		return nil
	}

	deps := make([]sssig.Dependency, 0, len(required))
	used := make(map[string]int, len(required))
	for _, req := range required {
		name := VarName(req.ID)
		used[name]++
		if n := used[name]; n > 1 {
			name += "_" + strconv.Itoa(n)
		}
		deps = append(deps, sssig.Dependency{
			RuleID:        sssig.GenerateID(req.ID),
			VarName:       name,
			WithinLines:   req.WithinLines,
			WithinColumns: req.WithinColumns,
		})
	}
	return deps
}

// VarName turns a rule ID into a lower snake_case identifier, e.g.
// "aws-access-token" becomes "aws_access_token".
func VarName(id string) string {
	var b strings.Builder
	underscore := false
	for _, c := range strings.ToLower(id) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}

	name := strings.TrimSuffix(b.String(), "_")
	switch {
	case name == "":
		return "match"
	case name[0] >= '0' && name[0] <= '9':
		return "rule_" + name
	}
	return name
}

// Rule translates r with a default Translator.
func Rule(r gitleaks.Rule) (sssig.Rule, error) {
	return New().Rule(r)
}

// Config translates cfg with a default Translator.
func Config(ctx context.Context, cfg *gitleaks.Config) (*sssig.Rules, error) {
	return New().Config(ctx, cfg)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
