// Package dispatch exposes the habit service as a set of named operations
// taking JSON arguments.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/dailyhabits/internal/errors"
	"github.com/julianstephens/dailyhabits/internal/habits"
	"github.com/julianstephens/dailyhabits/internal/logger"
)

var (
	ErrUnknownOperation = errors.NotFoundf("unknown operation")
	ErrInvalidArguments = errors.Invalidf("invalid arguments")
)

// Operation describes a callable operation.
type Operation struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type handler func(ctx context.Context, svc *habits.Service, args json.RawMessage) (any, error)

type entry struct {
	op   Operation
	call handler
}

// Observer is notified after every call, e.g. to record metrics.
type Observer func(name string, elapsed time.Duration, err error)

type Dispatcher struct {
	svc      *habits.Service
	ops      map[string]entry
	observer Observer
}

func New(svc *habits.Service) *Dispatcher {
	d := &Dispatcher{svc: svc, ops: make(map[string]entry)}

	d.register("add_habit", "Add a new habit to track.", addHabit)
	d.register("list_habits", "List all habits.", listHabits)
	d.register("complete_habit", "Mark a habit as completed for today.", completeHabit)
	d.register("delete_habit", "Delete a habit and its completion history.", deleteHabit)
	d.register("list_completions", "List all habit completions, most recent first.", listCompletions)
	d.register("get_current_streak", "Get the current daily streak for a habit.", currentStreak)
	return d
}

func (d *Dispatcher) register(name, description string, h handler) {
	d.ops[name] = entry{op: Operation{Name: name, Description: description}, call: h}
}

// SetObserver installs fn to be called after every operation.
func (d *Dispatcher) SetObserver(fn Observer) {
	d.observer = fn
}

// Operations returns the registered operations sorted by name.
func (d *Dispatcher) Operations() []Operation {
	ops := make([]Operation, 0, len(d.ops))
	for _, e := range d.ops {
		ops = append(ops, e.op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
	return ops
}

// Call runs the named operation. Empty args are treated as {}.
func (d *Dispatcher) Call(ctx context.Context, name string, args json.RawMessage) (any, error) {
	e, ok := d.ops[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}

	start := time.Now()
	result, err := e.call(ctx, d.svc, args)
	elapsed := time.Since(start)

	if err != nil {
		logger.Warn("Operation failed", "operation", name, "duration", elapsed, "error", err)
	} else {
		logger.Debug("Operation completed", "operation", name, "duration", elapsed)
	}
	if d.observer != nil {
		d.observer(name, elapsed, err)
	}
	return result, err
}

// decode strictly unmarshals args into v: unknown fields and trailing data are rejected.
func decode(args json.RawMessage, v any) error {
	if len(bytes.TrimSpace(args)) == 0 {
		args = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: unexpected data after arguments", ErrInvalidArguments)
	}
	return nil
}

type addHabitArgs struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// habitIDArgs uses a pointer so a missing habit_id is distinguishable from 0.
type habitIDArgs struct {
	HabitID *int64 `json:"habit_id"`
}

func (a habitIDArgs) id() (int64, error) {
	if a.HabitID == nil {
		return 0, fmt.Errorf("%w: habit_id is required", ErrInvalidArguments)
	}
	return *a.HabitID, nil
}

func addHabit(ctx context.Context, svc *habits.Service, raw json.RawMessage) (any, error) {
	var args addHabitArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	if strings.TrimSpace(args.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidArguments)
	}
	return svc.AddHabit(ctx, args.Name, args.Description)
}

func listHabits(ctx context.Context, svc *habits.Service, raw json.RawMessage) (any, error) {
	if err := decode(raw, &struct{}{}); err != nil {
		return nil, err
	}
	return svc.ListHabits(ctx)
}

func completeHabit(ctx context.Context, svc *habits.Service, raw json.RawMessage) (any, error) {
	var args habitIDArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	id, err := args.id()
	if err != nil {
		return nil, err
	}
	return svc.CompleteHabit(ctx, id)
}

func deleteHabit(ctx context.Context, svc *habits.Service, raw json.RawMessage) (any, error) {
	var args habitIDArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	id, err := args.id()
	if err != nil {
		return nil, err
	}
	return svc.DeleteHabit(ctx, id)
}

func listCompletions(ctx context.Context, svc *habits.Service, raw json.RawMessage) (any, error) {
	if err := decode(raw, &struct{}{}); err != nil {
		return nil, err
	}
	return svc.ListCompletions(ctx)
}

func currentStreak(ctx context.Context, svc *habits.Service, raw json.RawMessage) (any, error) {
	var args habitIDArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	id, err := args.id()
	if err != nil {
		return nil, err
	}
	return svc.CurrentStreak(ctx, id)
}
