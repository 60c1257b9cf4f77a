package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/wuxler/regprune/pkg/cmdhelper"
	"github.com/wuxler/regprune/pkg/commands/internal/options"
	"github.com/wuxler/regprune/pkg/prune"
)

// NewPlanCommand returns a command with default values.
func NewPlanCommand() *PlanCommand {
	return &PlanCommand{
		remote: newRemote(),
		Prune:  options.NewPrune(),
	}
}

// PlanCommand shows the categories of a repository and the tags a prune
// would delete, without resolving or deleting anything.
type PlanCommand struct {
	remote
	Prune *options.Prune
}

// ToCLI transforms to a *cli.Command.
func (c *PlanCommand) ToCLI() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Show the tags which would be deleted from a repository",
		UsageText: `regprune plan [OPTIONS] REPOSITORY

# Show the plan leaving 3 tags per category
$ regprune plan --host localhost -t 3 library/app
`,
		ArgsUsage: "REPOSITORY",
		Flags:     c.Flags(),
		Before:    cmdhelper.BeforeFunc(cmdhelper.ExactArgs(1)),
		Action:    c.Run,
	}
}

// Flags defines the flags related to the current command.
func (c *PlanCommand) Flags() []cli.Flag {
	flags := c.flags()
	flags = append(flags, c.Prune.Flags()...)
	return flags
}

// Run is the main function for the current command.
func (c *PlanCommand) Run(ctx context.Context, cmd *cli.Command) error {
	pruner, err := c.newPruner(ctx, cmd, c.Prune.Options())
	if err != nil {
		return err
	}
	report, err := pruner.Plan(ctx, cmd.Args().First())
	if err != nil {
		return err
	}
	if c.Prune.Output != prune.FormatText {
		return prune.WriteReports(cmd.Writer, c.Prune.Output, report)
	}
	if len(report.Categories) == 0 {
		cmdhelper.Fprintf(cmd.Writer, "No tags categories for %s", report.Repository)
		return nil
	}
	for _, category := range report.Categories {
		cmdhelper.Fprintf(cmd.Writer, "Category `%s`:", category.Name)
		cmdhelper.Fprintf(cmd.Writer, "\tkeep:   %v", category.Kept)
		cmdhelper.Fprintf(cmd.Writer, "\tdelete: %v", category.Planned)
	}
	return nil
}
