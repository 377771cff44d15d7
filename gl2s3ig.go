// Package gl2s3ig converts Gitleaks secret detection rules into SSSIG rules.
//
// Gitleaks describes a secret with one regex and marks the secret itself
// with a capture group. SSSIG wants the text before the secret, the secret
// and the text after it as separate patterns. gl2s3ig locates the secret
// group in the regex source and splits the source around it.
//
// # Basic Usage
//
// Convert a config.toml read from r into a rules.yaml written to w:
//
//	err := gl2s3ig.Convert(ctx, r, w)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Splitting a Regex
//
// Split a pattern around its first capture group:
//
//	prefix, target, suffix, err := gl2s3ig.SplitByGroup(0, `key=([a-z0-9]{32});`)
//	// *prefix == "key=", target == "([a-z0-9]{32})", *suffix == ";"
//
// An empty prefix or suffix is returned as nil.
package gl2s3ig

import (
	"context"
	"fmt"
	"io"

	"github.com/praetorian-inc/gl2s3ig/pkg/gitleaks"
	"github.com/praetorian-inc/gl2s3ig/pkg/regrp"
	"github.com/praetorian-inc/gl2s3ig/pkg/sssig"
	"github.com/praetorian-inc/gl2s3ig/pkg/translate"
	"github.com/sirupsen/logrus"
)

// Re-export commonly used types for convenience.
type (
	// Pattern is the parsed, offset-annotated form of a regex.
	Pattern = regrp.Pattern

	// Span is a half-open byte range of a regex source.
	Span = regrp.Span

	// GitleaksConfig is a parsed Gitleaks config.toml.
	GitleaksConfig = gitleaks.Config

	// Rules is a set of SSSIG rules.
	Rules = sssig.Rules
)

// Re-export split errors.
var (
	ErrMalformedPattern = regrp.ErrMalformedPattern
	ErrGroupNotFound    = regrp.ErrGroupNotFound
	ErrNestedGroup      = regrp.ErrNestedGroup
)

// Parse parses a regex source into a Pattern.
func Parse(source string) (Pattern, error) {
	return regrp.Parse(source)
}

// Split splits source into the text before group, the group and the text
// after it. The three parts concatenate back to source.
func Split(source string, group int) (prefix, target, suffix string, err error) {
	return regrp.Split(source, group)
}

// SplitByGroup is Split with empty prefix and suffix returned as nil.
func SplitByGroup(group int, pattern string) (prefix *string, target string, suffix *string, err error) {
	return regrp.SplitByGroup(group, pattern)
}

// convertConfig holds conversion configuration.
type convertConfig struct {
	workers     int
	strict      bool
	skipInvalid bool
	validate    bool
	logger      logrus.FieldLogger
	filter      gitleaks.FilterConfig
	cache       *regrp.Cache
}

// Option configures a conversion.
type Option func(*convertConfig)

// WithWorkers sets the number of rules translated concurrently.
// Default is 4.
func WithWorkers(workers int) Option {
	return func(c *convertConfig) {
		c.workers = workers
	}
}

// WithStrict rejects unknown keys in the Gitleaks config.
func WithStrict() Option {
	return func(c *convertConfig) {
		c.strict = true
	}
}

// WithSkipInvalid drops rules that cannot be translated instead of failing.
func WithSkipInvalid() Option {
	return func(c *convertConfig) {
		c.skipInvalid = true
	}
}

// WithValidation validates the Gitleaks config before translation and
// every SSSIG rule after it.
func WithValidation() Option {
	return func(c *convertConfig) {
		c.validate = true
	}
}

// WithLogger sets the logger for conversion warnings.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *convertConfig) {
		c.logger = logger
	}
}

// WithRuleFilter converts only the rules selected by include and exclude,
// which are regexes matched against Gitleaks rule IDs.
func WithRuleFilter(include, exclude []string) Option {
	return func(c *convertConfig) {
		c.filter = gitleaks.FilterConfig{Include: include, Exclude: exclude}
	}
}

func newConvertConfig(opts []Option) *convertConfig {
	config := &convertConfig{
		workers: 4,
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// WithSplitCache memoizes regex splits in cache, which may be shared
// between conversions.
func WithSplitCache(cache *regrp.Cache) Option {
	return func(c *convertConfig) {
		c.cache = cache
	}
}

// Convert reads a Gitleaks config.toml from r and writes the equivalent
// SSSIG rules.yaml to w.
func Convert(ctx context.Context, r io.Reader, w io.Writer, opts ...Option) error {
	config := newConvertConfig(opts)

	var loaderOpts []gitleaks.LoaderOption
	if config.strict {
		loaderOpts = append(loaderOpts, gitleaks.WithStrict())
	}
	cfg, err := gitleaks.NewLoader(loaderOpts...).LoadReader(r)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	rules, err := ConvertConfig(ctx, cfg, opts...)
	if err != nil {
		return err
	}

	return sssig.Encode(w, rules)
}

// ConvertConfig translates an already loaded Gitleaks config.
func ConvertConfig(ctx context.Context, cfg *GitleaksConfig, opts ...Option) (*Rules, error) {
	config := newConvertConfig(opts)

	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if config.validate {
		if err := gitleaks.ValidateConfig(cfg); err != nil {
			if !config.skipInvalid {
				return nil, fmt.Errorf("invalid config: %w", err)
			}
			config.logger.WithError(err).Warn("source config has invalid rules")
		}
	}

	selected, err := gitleaks.Filter(cfg.Rules, config.filter)
	if err != nil {
		return nil, fmt.Errorf("filtering rules: %w", err)
	}
	filtered := *cfg
	filtered.Rules = selected

	translateOpts := []translate.Option{
		translate.WithWorkers(config.workers),
		translate.WithLogger(config.logger),
	}
	if config.skipInvalid {
		translateOpts = append(translateOpts, translate.WithSkipInvalid())
	}
	if config.validate {
		translateOpts = append(translateOpts, translate.WithValidation())
	}
	if config.cache != nil {
		translateOpts = append(translateOpts, translate.WithCache(config.cache))
	}

	return translate.New(translateOpts...).Config(ctx, &filtered)
}
