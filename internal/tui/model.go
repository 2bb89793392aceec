// Package tui is the interactive task list. It drives any uistore.TaskList,
// so the same screen works against the API, the mock API or local storage.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/idilsaglam/taskhub/internal/model"
	"github.com/idilsaglam/taskhub/internal/uistore"
)

// listItem adapts model.Task to bubbles/list.Item
type listItem struct{ task model.Task }

func (i listItem) Title() string       { return i.task.Title }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.task.Title }

// single-line rows
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	box, text := mutedStyle.Render(boxUnchecked), it.task.Title
	if it.task.Done {
		box, text = successStyle.Render(boxChecked), doneStyle.Render(it.task.Title)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}

// actionDoneMsg reports a finished store call.
type actionDoneMsg struct {
	op  string
	err error
}

type Model struct {
	ctx   context.Context
	store uistore.TaskList
	name  string

	list    list.Model
	pending int    // store calls in flight
	status  string // last error message

	adding bool
	ti     textinput.Model // shared by add and edit
	addErr string

	editing bool
	editID  int64

	width, height int
}

var (
	addBind     = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	toggleBind  = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteBind  = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	refreshBind = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	editBind    = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
)

// New builds the screen. name is shown in the header, e.g. "Tasks (local)".
func New(ctx context.Context, store uistore.TaskList, name string) Model {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	binds := []key.Binding{addBind, toggleBind, deleteBind, refreshBind}
	if _, ok := store.(uistore.Renamer); ok {
		binds = append(binds, editBind)
	}
	extra := func() []key.Binding { return binds }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New task title..."
	ti.CharLimit = 200

	w, h := termSize()
	m := Model{ctx: ctx, store: store, name: name, list: l, ti: ti, width: w, height: h}
	m.sync()
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, store uistore.TaskList, name string) error {
	p := tea.NewProgram(New(ctx, store, name), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.do("refresh", m.store.Refresh)
}

// do runs call off the UI goroutine and reports back with actionDoneMsg.
func (m *Model) do(op string, call func(context.Context) error) tea.Cmd {
	m.pending++
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{op: op, err: call(ctx)}
	}
}

// sync copies store state into the list and header.
func (m *Model) sync() tea.Cmd {
	st := m.store.State()
	items := make([]list.Item, 0, len(st.Tasks))
	for _, t := range st.Tasks {
		items = append(items, listItem{task: t})
	}
	open := st.OpenCount()
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render(m.name),
		successStyle.Render("✔"), len(st.Tasks)-open,
		pendingStyle.Render("•"), open,
		accentStyle.Render("Total"), len(st.Tasks),
	)
	return m.list.SetItems(items)
}

func (m Model) selected() (model.Task, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it.task, ok
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case actionDoneMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.status = ""
		if msg.err != nil {
			m.status = m.store.State().Error
			if m.status == "" {
				m.status = msg.err.Error()
			}
		}
		cmd := m.sync()
		return m, cmd
	}

	if m.adding || m.editing {
		return m.updateInput(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch km.String() {
		case "q", "esc", "ctrl+c":
			if km.String() == "esc" && m.list.FilterState() == list.FilterApplied {
				break
			}
			return m, tea.Quit
		case " ":
			if t, ok := m.selected(); ok {
				cmd := m.do("toggle", func(ctx context.Context) error { return m.store.Toggle(ctx, t.ID) })
				return m, cmd
			}
			return m, nil
		case "d":
			if t, ok := m.selected(); ok {
				cmd := m.do("remove", func(ctx context.Context) error { return m.store.Remove(ctx, t.ID) })
				return m, cmd
			}
			return m, nil
		case "r":
			cmd := m.do("refresh", m.store.Refresh)
			return m, cmd
		case "a":
			m.adding = true
			m.addErr = ""
			m.ti.SetValue("")
			m.ti.Placeholder = "New task title..."
			cmd := m.ti.Focus()
			return m, cmd
		case "e":
			t, ok := m.selected()
			if _, can := m.store.(uistore.Renamer); !ok || !can {
				return m, nil
			}
			m.editing = true
			m.editID = t.ID
			m.addErr = ""
			m.ti.SetValue(t.Title)
			m.ti.CursorEnd()
			m.ti.Placeholder = "Edit task title..."
			cmd := m.ti.Focus()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateInput handles the inline add and edit boxes.
func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			title := strings.TrimSpace(m.ti.Value())
			if title == "" {
				m.addErr = "Title cannot be empty"
				return m, nil
			}
			editing, id := m.editing, m.editID
			m.closeInput()
			if editing {
				r := m.store.(uistore.Renamer)
				cmd := m.do("rename", func(ctx context.Context) error { return r.Rename(ctx, id, title) })
				return m, cmd
			}
			cmd := m.do("add", func(ctx context.Context) error { return m.store.Add(ctx, title) })
			return m, cmd
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.adding = false
	m.editing = false
	m.ti.SetValue("")
	m.ti.Blur()
}

func (m Model) View() string {
	listHeight := m.height - 5
	if m.adding || m.editing {
		listHeight -= 4
	}
	m.list.SetSize(m.width-4, listHeight)

	content := m.list.View() + "\n" + m.statusLine()
	if m.adding || m.editing {
		title := "Add new task"
		if m.editing {
			title = "Edit task"
		}
		if m.addErr != "" {
			title += "  " + errorStyle.Render(m.addErr)
		}
		content += "\n" + frameStyle.Render(title+"\n"+m.ti.View())
	}
	return frameStyle.Render(content)
}

func (m Model) statusLine() string {
	switch {
	case m.pending > 0 || m.store.State().Loading:
		return accentStyle.Render("loading…")
	case m.status != "":
		return errorStyle.Render("✖ " + m.status)
	}
	return ""
}

func termSize() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}
