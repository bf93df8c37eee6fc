package habits

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/julianstephens/dailyhabits/internal/cli"
	"github.com/julianstephens/dailyhabits/internal/constants"
)

type HabitCmd struct {
	Add         HabitAddCmd         `cmd:"" help:"Add a new habit."`
	List        HabitListCmd        `cmd:"" help:"List habits."`
	Complete    HabitCompleteCmd    `cmd:"" help:"Mark a habit as completed for today."`
	Delete      HabitDeleteCmd      `cmd:"" help:"Delete a habit and its completion history."`
	Completions HabitCompletionsCmd `cmd:"" help:"List completions, most recent first."`
	Streak      HabitStreakCmd      `cmd:"" help:"Show the current daily streak of a habit."`
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Description string `help:"Optional description." short:"d"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	msg, err := ctx.Service.AddHabit(context.Background(), c.Name, c.Description)
	if err != nil {
		return err
	}
	ctx.Println(msg)
	return nil
}

type HabitListCmd struct {
	JSON bool `help:"Print as JSON."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	board, err := ctx.Service.Board(context.Background())
	if err != nil {
		return err
	}
	if c.JSON {
		return ctx.PrintJSON(board)
	}

	if len(board) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTODAY\tSTREAK\tCREATED\tDESCRIPTION")
	for _, s := range board {
		done := " "
		if s.DoneToday {
			done = "✓"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
			s.Habit.ID, s.Habit.Name, done, s.Streak,
			s.Habit.CreatedAt.Format(constants.DateFormat), s.Habit.Description)
	}
	return w.Flush()
}

type HabitCompleteCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *HabitCompleteCmd) Run(ctx *cli.Context) error {
	id, err := cli.ParseHabitID(c.ID)
	if err != nil {
		return err
	}
	msg, err := ctx.Service.CompleteHabit(context.Background(), id)
	if err != nil {
		return err
	}
	ctx.Println(msg)
	return nil
}

type HabitDeleteCmd struct {
	ID  string `arg:"" help:"Habit ID."`
	Yes bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	id, err := cli.ParseHabitID(c.ID)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete habit %d and all of its completions?", id))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Cancelled.")
			return nil
		}
	}

	msg, err := ctx.Service.DeleteHabit(context.Background(), id)
	if err != nil {
		return err
	}
	ctx.Println(msg)
	return nil
}

type HabitCompletionsCmd struct {
	JSON bool `help:"Print as JSON."`
}

func (c *HabitCompletionsCmd) Run(ctx *cli.Context) error {
	records, err := ctx.Service.ListCompletions(context.Background())
	if err != nil {
		return err
	}
	if c.JSON {
		return ctx.PrintJSON(records)
	}

	if len(records) == 0 {
		ctx.Println("No completions recorded.")
		return nil
	}

	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tHABIT\tCOMPLETED")
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\n", r.ID, r.HabitName, r.CompletionDate.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

type HabitStreakCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *HabitStreakCmd) Run(ctx *cli.Context) error {
	id, err := cli.ParseHabitID(c.ID)
	if err != nil {
		return err
	}
	n, err := ctx.Service.CurrentStreak(context.Background(), id)
	if err != nil {
		return err
	}
	unit := "days"
	if n == 1 {
		unit = "day"
	}
	ctx.Printf("Habit %d current streak: %d %s\n", id, n, unit)
	return nil
}
