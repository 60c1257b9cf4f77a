package options

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/wuxler/regprune/pkg/cmdhelper"
	"github.com/wuxler/regprune/pkg/prune"
)

const (
	// FlagCategoryPrune is the category name for pruning flags.
	FlagCategoryPrune = "[Prune]"
)

// NewPrune returns the options with default values.
func NewPrune() *Prune {
	defaults := prune.DefaultOptions()
	return &Prune{
		TagsCount:   int64(defaults.LeaveCount),
		KeepShared:  defaults.KeepShared,
		Concurrency: int64(defaults.Concurrency),
		Output:      prune.FormatText,
	}
}

// Prune defines the retention and reporting options.
type Prune struct {
	TagsCount   int64  `json:"tags_count" yaml:"tags_count"`
	DryRun      bool   `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	KeepShared  bool   `json:"keep_shared" yaml:"keep_shared"`
	Concurrency int64  `json:"concurrency" yaml:"concurrency"`
	Output      string `json:"output" yaml:"output"`
}

// Flags returns the cli flags related to current options.
func (o *Prune) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "tags-count",
			Aliases:     []string{"t"},
			Usage:       "number of tags to leave in each category",
			Sources:     cli.EnvVars("REGPRUNE_TAGS_COUNT"),
			Value:       o.TagsCount,
			Destination: &o.TagsCount,
			Validator: func(n int64) error {
				if n < 0 {
					return fmt.Errorf("tags count must not be negative, got %d", n)
				}
				return nil
			},
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "only report the tags which would be deleted",
			Sources:     cli.EnvVars("REGPRUNE_DRY_RUN"),
			Value:       o.DryRun,
			Destination: &o.DryRun,
		},
		&cli.BoolFlag{
			Name:        "keep-shared",
			Usage:       "keep manifests which are also pointed at by a kept tag",
			Sources:     cli.EnvVars("REGPRUNE_KEEP_SHARED"),
			Value:       o.KeepShared,
			Destination: &o.KeepShared,
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "number of categories pruned at the same time",
			Sources:     cli.EnvVars("REGPRUNE_CONCURRENCY"),
			Value:       o.Concurrency,
			Destination: &o.Concurrency,
			Validator: func(n int64) error {
				if n < 1 {
					return fmt.Errorf("concurrency must be positive, got %d", n)
				}
				return nil
			},
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       fmt.Sprintf("report format, oneof %q", prune.Formats),
			Sources:     cli.EnvVars("REGPRUNE_OUTPUT"),
			Value:       o.Output,
			Destination: &o.Output,
			Validator: func(s string) error {
				if !lo.Contains(prune.Formats, s) {
					return fmt.Errorf("unsupported output format %q, oneof %q", s, prune.Formats)
				}
				return nil
			},
		},
	}
	cmdhelper.SetFlagsCategory(FlagCategoryPrune, flags...)
	return flags
}

// Options returns the pruner options.
func (o *Prune) Options() prune.Options {
	opts := prune.DefaultOptions()
	opts.LeaveCount = int(o.TagsCount)
	opts.DryRun = o.DryRun
	opts.KeepShared = o.KeepShared
	opts.Concurrency = int(o.Concurrency)
	return opts
}
