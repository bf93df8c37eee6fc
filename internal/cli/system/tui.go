package system

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dailyhabits/internal/cli"
	"github.com/julianstephens/dailyhabits/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Service.EnsureReady(context.Background()); err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(ctx.Service), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
