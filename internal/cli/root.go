package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailyhabits/internal/dispatch"
	"github.com/julianstephens/dailyhabits/internal/habits"
	"github.com/julianstephens/dailyhabits/internal/keyring"
	"github.com/julianstephens/dailyhabits/internal/storage"
)

// Context is passed to every command's Run method.
type Context struct {
	Service    *habits.Service
	Store      storage.Provider
	Dispatcher *dispatch.Dispatcher
	Keyring    keyring.Entry

	Out io.Writer
	// Confirm asks a yes/no question. Defaults to an interactive huh prompt.
	Confirm func(title string) (bool, error)
}

// NewContext wires the service and dispatcher around store.
func NewContext(store storage.Provider, opts ...habits.Option) *Context {
	svc := habits.New(store, opts...)
	return &Context{
		Service:    svc,
		Store:      store,
		Dispatcher: dispatch.New(svc),
		Keyring:    keyring.Default,
		Out:        os.Stdout,
		Confirm:    ConfirmPrompt,
	}
}

// ConfirmPrompt shows an interactive yes/no prompt on the terminal.
func ConfirmPrompt(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		WithTheme(huh.ThemeDracula()).
		Run()
	return ok, err
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// PrintJSON writes v as indented JSON.
func (c *Context) PrintJSON(v interface{}) error {
	enc := json.NewEncoder(c.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ParseHabitID parses a habit id argument.
func ParseHabitID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid habit id %q", s)
	}
	return id, nil
}
