// Package main is the entry of the application.
package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wuxler/regprune/pkg/cmdhelper"
	"github.com/wuxler/regprune/pkg/commands"
)

func main() {
	app := cli.Command{
		Name:                  "regprune",
		Usage:                 "regprune deletes old tags from a docker registry, keeping the newest of each category",
		Suggest:               true,
		EnableShellCompletion: true,
		HideVersion:           true,
		HideHelpCommand:       true,
		Commands: []*cli.Command{
			commands.NewVersionCommand().ToCLI(),
			commands.NewPruneCommand().ToCLI(),
			commands.NewCatalogCommand().ToCLI(),
			commands.NewPlanCommand().ToCLI(),
		},
		ExitErrHandler: func(ctx context.Context, c *cli.Command, err error) {
			cli.HandleExitCoder(err)
			cmdhelper.Fprintf(c.ErrWriter, "Error: %+v\n", err)
			os.Exit(1)
		},
	}
	//nolint:errcheck // already checked in root command ExitErrHandler
	_ = app.Run(context.Background(), os.Args)
}
