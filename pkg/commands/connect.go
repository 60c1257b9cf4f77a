package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/wuxler/regprune/pkg/commands/internal/options"
	"github.com/wuxler/regprune/pkg/prune"
)

// remote holds the options every registry command shares.
type remote struct {
	Common   *options.Common
	Registry *options.Registry
}

func newRemote() remote {
	return remote{
		Common:   options.NewCommon(),
		Registry: options.NewRegistry(),
	}
}

func (r remote) flags() []cli.Flag {
	flags := []cli.Flag{}
	flags = append(flags, r.Common.Flags()...)
	flags = append(flags, r.Registry.Flags()...)
	return flags
}

// newPruner sets up logging and connects to the registry.
func (r remote) newPruner(ctx context.Context, cmd *cli.Command, opts prune.Options) (*prune.Pruner, error) {
	if err := r.Common.SetupLogger(cmd.ErrWriter); err != nil {
		return nil, err
	}
	registry, err := r.Registry.Connect(ctx, r.Common.WrapTransport)
	if err != nil {
		return nil, err
	}
	return prune.New(prune.Remote(registry), opts)
}
