// Package tui is an interactive board of habits with today's status and streaks.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dailyhabits/internal/constants"
	"github.com/julianstephens/dailyhabits/internal/habits"
)

type state int

const (
	stateBrowse state = iota
	stateAdding
	stateConfirmDelete
)

type item struct {
	status habits.Status
}

func (i item) Title() string {
	if i.status.DoneToday {
		return doneStyle.Render("✓") + " " + i.status.Habit.Name
	}
	return pendingStyle.Render("○") + " " + i.status.Habit.Name
}

func (i item) Description() string {
	desc := fmt.Sprintf("#%d · streak %d", i.status.Habit.ID, i.status.Streak)
	if i.status.Habit.Description != "" {
		desc += " · " + i.status.Habit.Description
	}
	return desc
}

func (i item) FilterValue() string { return i.status.Habit.Name }

type boardMsg struct {
	board []habits.Status
	err   error
}

type statusMsg struct {
	text string
	err  error
}

type Model struct {
	svc   *habits.Service
	list  list.Model
	input textinput.Model
	keys  keyMap

	state         state
	pendingDelete int64
	status        string
	err           error
}

func NewModel(svc *habits.Service) Model {
	keys := defaultKeyMap()

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Daily Habits"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	l.AdditionalShortHelpKeys = keys.shortHelp
	l.AdditionalFullHelpKeys = keys.shortHelp

	ti := textinput.New()
	ti.Placeholder = "Habit name"
	ti.CharLimit = 100

	return Model{
		svc:   svc,
		list:  l,
		input: ti,
		keys:  keys,
	}
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout)
		defer cancel()
		board, err := svc.Board(ctx)
		return boardMsg{board: board, err: err}
	}
}

// run performs a mutation off the UI goroutine and reports its message.
func run(fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout)
		defer cancel()
		text, err := fn(ctx)
		return statusMsg{text: text, err: err}
	}
}

func (m Model) selected() (habits.Status, bool) {
	it, ok := m.list.SelectedItem().(item)
	if !ok {
		return habits.Status{}, false
	}
	return it.status, true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-2)
		return m, nil

	case boardMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		items := make([]list.Item, len(msg.board))
		for i, s := range msg.board {
			items[i] = item{status: s}
		}
		return m, m.list.SetItems(items)

	case statusMsg:
		m.status, m.err = msg.text, msg.err
		return m, m.load()

	case tea.KeyMsg:
		switch m.state {
		case stateAdding:
			return m.updateAdding(msg)
		case stateConfirmDelete:
			return m.updateConfirm(msg)
		}
		if m.list.FilterState() != list.Filtering {
			return m.updateBrowse(msg)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	svc := m.svc
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		m.status, m.err = "", nil
		return m, m.load()
	case key.Matches(msg, m.keys.Add):
		m.state = stateAdding
		m.input.Reset()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Complete):
		s, ok := m.selected()
		if !ok {
			return m, nil
		}
		id := s.Habit.ID
		return m, run(func(ctx context.Context) (string, error) {
			return svc.CompleteHabit(ctx, id)
		})
	case key.Matches(msg, m.keys.Delete):
		s, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.pendingDelete = s.Habit.ID
		m.state = stateConfirmDelete
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	svc := m.svc
	switch {
	case key.Matches(msg, m.keys.Back):
		m.state = stateBrowse
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		name := m.input.Value()
		m.state = stateBrowse
		m.input.Blur()
		m.input.Reset()
		return m, run(func(ctx context.Context) (string, error) {
			return svc.AddHabit(ctx, name, "")
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	svc := m.svc
	switch {
	case key.Matches(msg, m.keys.Confirm):
		id := m.pendingDelete
		m.state = stateBrowse
		return m, run(func(ctx context.Context) (string, error) {
			return svc.DeleteHabit(ctx, id)
		})
	case key.Matches(msg, m.keys.Cancel):
		m.state = stateBrowse
		m.status = "Delete cancelled."
	}
	return m, nil
}

func (m Model) View() string {
	footer := ""
	switch {
	case m.state == stateAdding:
		footer = "New habit: " + m.input.View()
	case m.state == stateConfirmDelete:
		footer = dangerStyle.Render(fmt.Sprintf("Delete habit %d and all of its completions? (y/n)", m.pendingDelete))
	case m.err != nil:
		footer = dangerStyle.Render("Error: " + m.err.Error())
	case m.status != "":
		footer = statusStyle.Render(m.status)
	}
	return docStyle.Render(m.list.View() + "\n" + footer)
}
