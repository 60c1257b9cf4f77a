package commands

import (
	"context"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/wuxler/regprune/pkg/cmdhelper"
	"github.com/wuxler/regprune/pkg/prune"
)

// NewCatalogCommand returns a command with default values.
func NewCatalogCommand() *CatalogCommand {
	return &CatalogCommand{remote: newRemote()}
}

// CatalogCommand lists the repositories of the registry.
type CatalogCommand struct {
	remote
}

// ToCLI transforms to a *cli.Command.
func (c *CatalogCommand) ToCLI() *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"list"},
		Usage:   "List repositories in the registry",
		UsageText: `regprune catalog [OPTIONS]

# List repositories of a local registry
$ regprune catalog --host localhost --port 5000
`,
		Flags:  c.Flags(),
		Before: cmdhelper.BeforeFunc(cmdhelper.NoArgs()),
		Action: c.Run,
	}
}

// Flags defines the flags related to the current command.
func (c *CatalogCommand) Flags() []cli.Flag {
	return c.flags()
}

// Run is the main function for the current command.
func (c *CatalogCommand) Run(ctx context.Context, cmd *cli.Command) error {
	pruner, err := c.newPruner(ctx, cmd, prune.DefaultOptions())
	if err != nil {
		return err
	}
	return writeCatalog(ctx, cmd.Writer, pruner)
}

func writeCatalog(ctx context.Context, w io.Writer, pruner *prune.Pruner) error {
	repositories, err := pruner.Catalog(ctx)
	if err != nil {
		return err
	}
	if len(repositories) == 0 {
		cmdhelper.Fprintf(w, "No repositories available")
		return nil
	}
	for _, repository := range repositories {
		cmdhelper.Fprintf(w, "\t%s", repository)
	}
	return nil
}
