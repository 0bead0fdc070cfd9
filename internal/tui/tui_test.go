package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okaret/todoview/internal/model"
	"github.com/okaret/todoview/internal/sync"
)

type fakeRemote struct {
	todos    []model.Todo
	todosErr error
	users    []model.User
	usersErr error

	created   model.Todo
	createErr error
	toggleErr error
	deleteErr error

	calls []string
}

func (f *fakeRemote) ListTodos(_ context.Context, limit int) ([]model.Todo, error) {
	f.calls = append(f.calls, fmt.Sprintf("GET todos %d", limit))
	return f.todos, f.todosErr
}

func (f *fakeRemote) ListUsers(_ context.Context, limit int) ([]model.User, error) {
	f.calls = append(f.calls, fmt.Sprintf("GET users %d", limit))
	return f.users, f.usersErr
}

func (f *fakeRemote) CreateTodo(_ context.Context, userID model.ID, title string) (model.Todo, error) {
	f.calls = append(f.calls, fmt.Sprintf("POST %s %q false", userID, title))
	return f.created, f.createErr
}

func (f *fakeRemote) SetCompleted(_ context.Context, id model.ID, completed bool) error {
	f.calls = append(f.calls, fmt.Sprintf("PATCH %s %v", id, completed))
	return f.toggleErr
}

func (f *fakeRemote) DeleteTodo(_ context.Context, id model.ID) error {
	f.calls = append(f.calls, fmt.Sprintf("DELETE %s", id))
	return f.deleteErr
}

func countMutations(calls []string) int {
	n := 0
	for _, c := range calls {
		if c[:3] != "GET" {
			n++
		}
	}
	return n
}

// loaded drives the two startup fetches to completion through Update.
func loaded(t *testing.T, f *fakeRemote) Model {
	t.Helper()
	m := New(sync.New(), f)

	next, _ := m.Update(fetchTodosCmd(f)())
	m = next.(Model)
	next, _ = m.Update(fetchUsersCmd(f)())
	return next.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func twoTodosOneUser() *fakeRemote {
	return &fakeRemote{
		todos: []model.Todo{
			{ID: model.NewID("1"), UserID: model.NewID("10"), Title: "first"},
			{ID: model.NewID("2"), UserID: model.NewID("99"), Title: "second", Completed: true},
		},
		users: []model.User{{ID: model.NewID("10"), Name: "Leanne"}},
	}
}

func TestInitializeRendersEveryTodoAndUser(t *testing.T) {
	m := loaded(t, twoTodosOneUser())

	require.Len(t, m.list.Items(), 2)
	assert.False(t, m.loading())

	r0 := m.list.Items()[0].(listRow)
	r1 := m.list.Items()[1].(listRow)
	assert.Equal(t, "Leanne", r0.user)
	assert.Equal(t, "", r1.user, "unknown userId resolves to empty name")

	assert.Len(t, m.state.Users(), 1)
	assert.Contains(t, m.userPicker(), "Leanne")
}

func TestInitializeFetchFailureIsDegradedNotFatal(t *testing.T) {
	f := twoTodosOneUser()
	f.todosErr = errors.New("network unreachable")
	m := loaded(t, f)

	assert.Empty(t, m.list.Items(), "failed fetch leaves an empty collection")
	assert.NotEmpty(t, m.notice, "failure surfaces to the user")
	assert.Len(t, m.state.Users(), 1, "the other fetch still lands")
}

func TestSubmitSendsExactlyOneCreateAndPrepends(t *testing.T) {
	f := twoTodosOneUser()
	f.created = model.Todo{ID: model.NewID("42"), UserID: model.NewID("10"), Title: "Buy milk"}
	m := loaded(t, f)

	next, _ := m.Update(keyMsg("a"))
	m = next.(Model)
	require.True(t, m.adding)

	m.ti.SetValue("Buy milk")
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)
	require.NotNil(t, cmd)

	assert.Len(t, m.list.Items(), 2, "no optimistic insert before confirmation")

	next, _ = m.Update(cmd())
	m = next.(Model)

	require.Equal(t, 1, countMutations(f.calls))
	assert.Contains(t, f.calls, `POST 10 "Buy milk" false`)

	require.Len(t, m.list.Items(), 3)
	assert.Equal(t, "42", m.list.Items()[0].(listRow).todo.ID.String(), "new item is prepended")
	assert.Equal(t, "42", m.state.Todos()[0].ID.String())
}

func TestSubmitFailureAddsNothing(t *testing.T) {
	f := twoTodosOneUser()
	f.createErr = errors.New("boom")
	m := loaded(t, f)

	next, _ := m.Update(keyMsg("a"))
	m = next.(Model)
	m.ti.SetValue("Buy milk")
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)

	next, _ = m.Update(cmd())
	m = next.(Model)

	assert.Len(t, m.list.Items(), 2)
	assert.Len(t, m.state.Todos(), 2)
	assert.NotEmpty(t, m.notice)
}

func TestSubmitRejectsEmptyTitle(t *testing.T) {
	m := loaded(t, twoTodosOneUser())

	next, _ := m.Update(keyMsg("a"))
	m = next.(Model)
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.True(t, m.adding)
	assert.NotEmpty(t, m.addErr)
}

func TestToggleIsOptimisticAndNotRolledBack(t *testing.T) {
	f := twoTodosOneUser()
	f.toggleErr = errors.New("503")
	m := loaded(t, f)

	next, cmd := m.Update(keyMsg(" "))
	m = next.(Model)
	require.NotNil(t, cmd)

	// Flipped before any response arrived.
	assert.True(t, m.list.Items()[0].(listRow).todo.Completed)
	got, _ := m.state.Get(model.NewID("1"))
	assert.True(t, got.Completed)

	next, _ = m.Update(cmd())
	m = next.(Model)

	require.Equal(t, 1, countMutations(f.calls))
	assert.Contains(t, f.calls, "PATCH 1 true")

	// Failure reported, view not rolled back.
	assert.NotEmpty(t, m.notice)
	assert.True(t, m.list.Items()[0].(listRow).todo.Completed)
}

func TestDeleteRemovesOnlyOnConfirmedSuccess(t *testing.T) {
	f := twoTodosOneUser()
	m := loaded(t, f)

	next, cmd := m.Update(keyMsg("d"))
	m = next.(Model)
	require.NotNil(t, cmd)

	assert.Len(t, m.list.Items(), 2, "still present while the delete is in flight")

	next, _ = m.Update(cmd())
	m = next.(Model)

	assert.Contains(t, f.calls, "DELETE 1")
	assert.Len(t, m.list.Items(), 1)
	_, ok := m.state.Get(model.NewID("1"))
	assert.False(t, ok)
}

func TestDeleteFailureLeavesItemInPlace(t *testing.T) {
	f := twoTodosOneUser()
	f.deleteErr = errors.New("500")
	m := loaded(t, f)

	next, cmd := m.Update(keyMsg("d"))
	m = next.(Model)
	next, _ = m.Update(cmd())
	m = next.(Model)

	assert.Len(t, m.list.Items(), 2)
	_, ok := m.state.Get(model.NewID("1"))
	assert.True(t, ok)
	assert.NotEmpty(t, m.notice)
}

func TestNoticeBlocksInputUntilDismissed(t *testing.T) {
	f := twoTodosOneUser()
	m := loaded(t, f)
	m.notice = "something broke"

	next, cmd := m.Update(keyMsg("d"))
	m = next.(Model)
	assert.Nil(t, cmd, "input behind the notice is swallowed")
	assert.Len(t, m.list.Items(), 2)

	next, _ = m.Update(keyMsg("enter"))
	m = next.(Model)
	assert.Empty(t, m.notice)
}

func TestFilterTypingSendsNoMutations(t *testing.T) {
	f := twoTodosOneUser()
	m := loaded(t, f)

	next, _ := m.Update(keyMsg("/"))
	m = next.(Model)
	require.Equal(t, list.Filtering, m.list.FilterState())

	// Typing a query full of bound keys must reach the filter input only.
	for _, k := range []string{"d", " ", "a", "r", "q"} {
		next, _ = m.Update(keyMsg(k))
		m = next.(Model)
	}

	assert.Equal(t, 0, countMutations(f.calls), "no PATCH/DELETE/POST from typing a filter query")
	assert.Len(t, m.list.Items(), 2)
	assert.False(t, m.adding)
	assert.False(t, m.list.Items()[0].(listRow).todo.Completed, "no optimistic toggle either")
}

func TestEscWhileFilteringCancelsFilterNotApp(t *testing.T) {
	f := twoTodosOneUser()
	m := loaded(t, f)

	next, _ := m.Update(keyMsg("/"))
	m = next.(Model)
	require.Equal(t, list.Filtering, m.list.FilterState())

	next, _ = m.Update(keyMsg("esc"))
	m = next.(Model)

	assert.Equal(t, list.Unfiltered, m.list.FilterState())
	// The model still responds afterwards; delete now targets the selection.
	next, cmd := m.Update(keyMsg("d"))
	_ = next
	assert.NotNil(t, cmd)
}

func TestActionsTargetVisibleSelectionWhileFiltered(t *testing.T) {
	f := twoTodosOneUser()
	m := loaded(t, f)

	// Filter down to the second item, then apply the filter with enter.
	next, _ := m.Update(keyMsg("/"))
	m = next.(Model)
	for _, k := range []string{"s", "e", "c"} {
		next, _ = m.Update(keyMsg(k))
		m = next.(Model)
	}
	next, _ = m.Update(keyMsg("enter"))
	m = next.(Model)
	require.Equal(t, list.FilterApplied, m.list.FilterState())

	next, cmd := m.Update(keyMsg("d"))
	m = next.(Model)
	require.NotNil(t, cmd)
	_ = cmd()

	assert.Contains(t, f.calls, "DELETE 2", "delete targets the visible selection, not the unfiltered index")
	assert.NotContains(t, f.calls, "DELETE 1")
}

func TestRefreshReplacesCollections(t *testing.T) {
	f := twoTodosOneUser()
	m := loaded(t, f)

	f.todos = []model.Todo{{ID: model.NewID("3"), UserID: model.NewID("10"), Title: "only"}}
	next, _ := m.Update(keyMsg("r"))
	m = next.(Model)
	assert.True(t, m.loading())

	next, _ = m.Update(fetchTodosCmd(f)())
	m = next.(Model)

	require.Len(t, m.list.Items(), 1, "refresh replaces, never appends duplicates")
	assert.Equal(t, "3", m.list.Items()[0].(listRow).todo.ID.String())
}

func TestUserPickerCycles(t *testing.T) {
	f := twoTodosOneUser()
	f.users = append(f.users, model.User{ID: model.NewID("11"), Name: "Ervin"})
	f.created = model.Todo{ID: model.NewID("5"), UserID: model.NewID("11"), Title: "x"}
	m := loaded(t, f)

	next, _ := m.Update(keyMsg("a"))
	m = next.(Model)
	next, _ = m.Update(keyMsg("tab"))
	m = next.(Model)

	m.ti.SetValue("x")
	_, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)

	_ = cmd()
	assert.Contains(t, f.calls, `POST 11 "x" false`)
}
