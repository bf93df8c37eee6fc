package system

import (
	"context"

	"github.com/julianstephens/dailyhabits/internal/cli"
)

type InitCmd struct{}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if err := ctx.Service.EnsureReady(context.Background()); err != nil {
		return err
	}
	current, _, err := ctx.Store.SchemaVersion(context.Background())
	if err != nil {
		return err
	}
	ctx.Printf("Initialized storage at %s (schema version %d)\n", ctx.Store.GetConfigPath(), current)
	return nil
}
