package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/wuxler/regprune/pkg/cmdhelper"
	"github.com/wuxler/regprune/pkg/commands/internal/options"
	"github.com/wuxler/regprune/pkg/prune"
)

// NewPruneCommand returns a command with default values.
func NewPruneCommand() *PruneCommand {
	return &PruneCommand{
		remote:  newRemote(),
		Prune:   options.NewPrune(),
		confirm: cmdhelper.Confirm,
	}
}

// PruneCommand deletes the old tags of repositories.
type PruneCommand struct {
	remote
	Prune *options.Prune

	Repositories []string
	All          bool
	Force        bool

	confirm func(label string) (bool, error)
}

// ToCLI transforms to a *cli.Command.
func (c *PruneCommand) ToCLI() *cli.Command {
	return &cli.Command{
		Name:  "prune",
		Usage: "Delete old tags of repositories, keeping the newest of each category",
		UsageText: `regprune prune [OPTIONS] [REPOSITORY...]

# List repositories when no repository is given
$ regprune prune --host localhost

# Keep the 5 newest tags of each category of library/app
$ regprune prune --host localhost library/app

# Show what would be deleted from every repository
$ regprune prune --host localhost --all --dry-run -t 3
`,
		ArgsUsage: "[REPOSITORY...]",
		Flags:     c.Flags(),
		Action:    c.Run,
	}
}

// Flags defines the flags related to the current command.
func (c *PruneCommand) Flags() []cli.Flag {
	flags := c.flags()
	flags = append(flags, c.Prune.Flags()...)
	flags = append(flags,
		&cli.StringSliceFlag{
			Name:        "repository",
			Aliases:     []string{"r"},
			Usage:       "repository to prune, in addition to the arguments",
			Sources:     cli.EnvVars("REGPRUNE_REPOSITORY"),
			Value:       c.Repositories,
			Destination: &c.Repositories,
			Category:    options.FlagCategoryPrune,
		},
		&cli.BoolFlag{
			Name:        "all",
			Usage:       "prune every repository of the catalog",
			Value:       c.All,
			Destination: &c.All,
			Category:    options.FlagCategoryPrune,
		},
		&cli.BoolFlag{
			Name:        "force",
			Aliases:     []string{"f"},
			Usage:       "delete without asking for confirmation",
			Sources:     cli.EnvVars("REGPRUNE_FORCE"),
			Value:       c.Force,
			Destination: &c.Force,
			Category:    options.FlagCategoryPrune,
		},
	)
	return flags
}

// Run is the main function for the current command.
func (c *PruneCommand) Run(ctx context.Context, cmd *cli.Command) error {
	if c.All && (len(c.Repositories) > 0 || cmd.Args().Present()) {
		return errors.New("--all can not be used with repositories")
	}
	pruner, err := c.newPruner(ctx, cmd, c.Prune.Options())
	if err != nil {
		return err
	}

	repositories := lo.Uniq(append(slices.Clone(c.Repositories), cmd.Args().Slice()...))
	if c.All {
		if repositories, err = pruner.Catalog(ctx); err != nil {
			return err
		}
	}
	if len(repositories) == 0 {
		return writeCatalog(ctx, cmd.Writer, pruner)
	}

	if !c.Prune.DryRun && !c.Force {
		label := fmt.Sprintf("Delete old tags of %s, leaving %d per category", strings.Join(repositories, ", "), c.Prune.TagsCount)
		confirmed, err := c.confirm(label)
		if err != nil {
			return err
		}
		if !confirmed {
			cmdhelper.Fprintf(cmd.Writer, "Aborted")
			return nil
		}
	}

	reports, pruneErr := pruner.PruneAll(ctx, repositories)
	errs := []error{pruneErr}
	errs = append(errs, prune.WriteReports(cmd.Writer, c.Prune.Output, reports...))
	for _, report := range reports {
		errs = append(errs, report.Err())
	}
	return errors.Join(errs...)
}
