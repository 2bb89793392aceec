package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/idilsaglam/taskhub/internal/client/mockapi"
	"github.com/idilsaglam/taskhub/internal/kv"
	"github.com/idilsaglam/taskhub/internal/uistore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

// step feeds msg to m and runs the returned command once, feeding its
// result back when it is an actionDoneMsg. Text input commands (cursor
// blink) are not run.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil || m.adding || m.editing {
		return m
	}
	if done, ok := cmd().(actionDoneMsg); ok {
		next, _ = m.Update(done)
		m = next.(Model)
	}
	return m
}

func newLocal(t *testing.T) (Model, *uistore.LocalTasks) {
	t.Helper()
	ctx := context.Background()
	store, err := uistore.NewLocalTasks(ctx, kv.NewMemory())
	require.NoError(t, err)
	m := New(ctx, store, "Tasks")
	m = step(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	return m, store
}

func TestInitialItems(t *testing.T) {
	m, _ := newLocal(t)
	assert.Len(t, m.list.Items(), 3)
	assert.Contains(t, m.list.Title, "Tasks")
	assert.Contains(t, m.View(), "Pinia installieren")
}

func TestToggleSelected(t *testing.T) {
	m, store := newLocal(t)
	first := store.State().Tasks[0]

	m = step(t, m, space)
	assert.Equal(t, !first.Done, store.State().Tasks[0].Done)
	it := m.list.Items()[0].(listItem)
	assert.Equal(t, !first.Done, it.task.Done)
	assert.Equal(t, 0, m.pending)
}

func TestDeleteSelected(t *testing.T) {
	m, store := newLocal(t)
	m = step(t, m, runes("d"))
	assert.Len(t, store.State().Tasks, 2)
	assert.Len(t, m.list.Items(), 2)
}

func TestInlineAdd(t *testing.T) {
	m, store := newLocal(t)
	m = step(t, m, runes("a"))
	require.True(t, m.adding)
	assert.Contains(t, m.View(), "Add new task")

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.adding)
	assert.Equal(t, "Title cannot be empty", m.addErr)

	m = step(t, m, runes("Buy milk"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.adding)
	assert.Equal(t, "Buy milk", store.State().Tasks[0].Title)
	assert.Len(t, m.list.Items(), 4)
}

func TestAddCancel(t *testing.T) {
	m, store := newLocal(t)
	m = step(t, m, runes("a"))
	m = step(t, m, runes("x"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.adding)
	assert.Len(t, store.State().Tasks, 3)
}

func TestInlineEdit(t *testing.T) {
	m, store := newLocal(t)
	first := store.State().Tasks[0]

	m = step(t, m, runes("e"))
	require.True(t, m.editing)
	assert.Equal(t, first.Title, m.ti.Value())
	assert.Contains(t, m.View(), "Edit task")

	m.ti.SetValue("   ")
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.editing)
	assert.Equal(t, "Title cannot be empty", m.addErr)

	m.ti.SetValue(" Pinia aktualisieren ")
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.editing)
	got := store.State().Tasks[0]
	assert.Equal(t, "Pinia aktualisieren", got.Title)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, first.Done, got.Done)
	assert.Equal(t, "Pinia aktualisieren", m.list.Items()[0].(listItem).task.Title)
}

func TestEditCancel(t *testing.T) {
	m, store := newLocal(t)
	m = step(t, m, runes("e"))
	m = step(t, m, runes("x"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.editing)
	assert.Equal(t, uistore.DefaultLocalTasks(), store.State().Tasks)
}

func TestEditOnMockReportsMissingUpdate(t *testing.T) {
	ctx := context.Background()
	store := uistore.NewTasks(mockapi.New(mockapi.WithDelay(0)))
	require.NoError(t, store.Refresh(ctx))
	m := New(ctx, store, "Tasks (mock)")

	m = step(t, m, runes("e"))
	require.True(t, m.editing)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.editing)
	assert.Equal(t, "this backend cannot change tasks", m.status)
	assert.Equal(t, "Mock API: Start", store.State().Tasks[0].Title)
}

func TestQuit(t *testing.T) {
	m, _ := newLocal(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRefreshAgainstMock(t *testing.T) {
	ctx := context.Background()
	store := uistore.NewTasks(mockapi.New(mockapi.WithDelay(0)))
	m := New(ctx, store, "Tasks (mock)")
	assert.Empty(t, m.list.Items())

	done := m.Init()()
	next, _ := m.Update(done)
	m = next.(Model)
	assert.Len(t, m.list.Items(), 2)
	assert.Empty(t, m.status)
}

func TestErrorShownInStatusLine(t *testing.T) {
	ctx := context.Background()
	store := uistore.NewTasks(mockapi.New(mockapi.WithDelay(0), mockapi.WithTasks()))
	m := New(ctx, store, "Tasks")
	m.list.InsertItem(0, listItem{})
	m = step(t, m, space)
	assert.Equal(t, "task not found", m.status)
	assert.Contains(t, m.View(), "task not found")
}
