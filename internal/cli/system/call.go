package system

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/julianstephens/dailyhabits/internal/cli"
)

// CallCmd invokes a named operation the same way the HTTP endpoint does.
type CallCmd struct {
	Operation string `arg:"" optional:"" help:"Operation name, e.g. add_habit."`
	Args      string `arg:"" optional:"" help:"Operation arguments as a JSON object." default:"{}"`
	List      bool   `help:"List available operations." short:"l"`
}

func (c *CallCmd) Run(ctx *cli.Context) error {
	if c.List || c.Operation == "" {
		w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
		for _, op := range ctx.Dispatcher.Operations() {
			fmt.Fprintf(w, "%s\t%s\n", op.Name, op.Description)
		}
		return w.Flush()
	}

	result, err := ctx.Dispatcher.Call(context.Background(), c.Operation, json.RawMessage(c.Args))
	if err != nil {
		return err
	}
	if msg, ok := result.(string); ok {
		ctx.Println(msg)
		return nil
	}
	return ctx.PrintJSON(result)
}
