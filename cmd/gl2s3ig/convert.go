package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/praetorian-inc/gl2s3ig"
	"github.com/praetorian-inc/gl2s3ig/pkg/gitleaks"
	"github.com/praetorian-inc/gl2s3ig/pkg/regrp"
	"github.com/praetorian-inc/gl2s3ig/pkg/sssig"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	convertWorkers     int
	convertSkipInvalid bool
	convertValidate    bool
	convertStrict      bool
	convertInclude     string
	convertExclude     string
)

var convertCmd = &cobra.Command{
	Use:   "convert <src.toml> <dst.yaml>",
	Short: "Convert a Gitleaks config to SSSIG rules",
	Long: `Convert a Gitleaks config.toml into an SSSIG rules.yaml.

Use "-" as the source to read from stdin or as the destination to write to
stdout.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().IntVar(&convertWorkers, "workers", 4, "Number of rules translated concurrently")
	convertCmd.Flags().BoolVar(&convertSkipInvalid, "skip-invalid", false, "Skip rules that cannot be translated instead of failing")
	convertCmd.Flags().BoolVar(&convertValidate, "validate", false, "Validate the source config and every translated rule")
	convertCmd.Flags().BoolVar(&convertStrict, "strict", false, "Reject unknown keys in the source config")
	convertCmd.Flags().StringVar(&convertInclude, "include", "", "Comma-separated regexes of rule IDs to convert")
	convertCmd.Flags().StringVar(&convertExclude, "exclude", "", "Comma-separated regexes of rule IDs to skip")
}

func runConvert(cmd *cobra.Command, args []string) error {
	src, dst := args[0], args[1]

	cfg, err := loadConfig(cmd, src)
	if err != nil {
		return err
	}

	cache, err := regrp.NewCache(len(cfg.Rules))
	if err != nil {
		return err
	}

	opts := []gl2s3ig.Option{
		gl2s3ig.WithWorkers(convertWorkers),
		gl2s3ig.WithLogger(log.StandardLogger()),
		gl2s3ig.WithSplitCache(cache),
		gl2s3ig.WithRuleFilter(
			gitleaks.ParsePatterns(convertInclude),
			gitleaks.ParsePatterns(convertExclude),
		),
	}
	if convertSkipInvalid {
		opts = append(opts, gl2s3ig.WithSkipInvalid())
	}
	if convertValidate {
		opts = append(opts, gl2s3ig.WithValidation())
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rules, err := gl2s3ig.ConvertConfig(ctx, cfg, opts...)
	if err != nil {
		return fmt.Errorf("converting %s: %w", src, err)
	}

	if err := writeRules(cmd, dst, rules); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Converted %d rules to %s\n", len(rules.Rules), dst)
	}
	return nil
}

func loadConfig(cmd *cobra.Command, src string) (*gitleaks.Config, error) {
	var loaderOpts []gitleaks.LoaderOption
	if convertStrict {
		loaderOpts = append(loaderOpts, gitleaks.WithStrict())
	}
	loader := gitleaks.NewLoader(loaderOpts...)

	if src == "-" {
		cfg, err := loader.LoadReader(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("loading config from stdin: %w", err)
		}
		return cfg, nil
	}

	cfg, err := loader.LoadFile(src)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log.Debugf("loaded %d rules from %s", len(cfg.Rules), src)
	return cfg, nil
}

func writeRules(cmd *cobra.Command, dst string, rules *sssig.Rules) (err error) {
	var w io.Writer
	if dst == "-" {
		w = cmd.OutOrStdout()
	} else {
		f, createErr := os.Create(dst)
		if createErr != nil {
			return fmt.Errorf("creating %s: %w", dst, createErr)
		}
		defer func() {
			if closeErr := f.Close(); err == nil && closeErr != nil {
				err = fmt.Errorf("closing %s: %w", dst, closeErr)
			}
		}()
		w = f
	}

	if err := sssig.Encode(w, rules); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}
