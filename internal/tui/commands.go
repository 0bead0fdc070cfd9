package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okaret/todoview/internal/config"
	"github.com/okaret/todoview/internal/model"
)

// Remote is the slice of the API client the view needs. Satisfied by
// *api.Client.
type Remote interface {
	ListTodos(ctx context.Context, limit int) ([]model.Todo, error)
	ListUsers(ctx context.Context, limit int) ([]model.User, error)
	CreateTodo(ctx context.Context, userID model.ID, title string) (model.Todo, error)
	SetCompleted(ctx context.Context, id model.ID, completed bool) error
	DeleteTodo(ctx context.Context, id model.ID) error
}

// Network-completion messages. Each carries the error (if any) so the single
// Update loop decides what happens to local state; commands never touch the
// collections themselves.
type (
	todosLoadedMsg struct {
		todos []model.Todo
		err   error
	}
	usersLoadedMsg struct {
		users []model.User
		err   error
	}
	todoCreatedMsg struct {
		todo model.Todo
		err  error
	}
	toggleDoneMsg struct {
		id  model.ID
		err error
	}
	deleteDoneMsg struct {
		id  model.ID
		err error
	}
)

// Requests are fire-and-forget: once issued they run to completion or
// failure, with no cancellation beyond the client's own timeout.

func fetchTodosCmd(r Remote) tea.Cmd {
	return func() tea.Msg {
		todos, err := r.ListTodos(context.Background(), config.TodoLimit)
		return todosLoadedMsg{todos: todos, err: err}
	}
}

func fetchUsersCmd(r Remote) tea.Cmd {
	return func() tea.Msg {
		users, err := r.ListUsers(context.Background(), config.UserLimit)
		return usersLoadedMsg{users: users, err: err}
	}
}

func createTodoCmd(r Remote, userID model.ID, title string) tea.Cmd {
	return func() tea.Msg {
		todo, err := r.CreateTodo(context.Background(), userID, title)
		return todoCreatedMsg{todo: todo, err: err}
	}
}

func toggleTodoCmd(r Remote, id model.ID, completed bool) tea.Cmd {
	return func() tea.Msg {
		return toggleDoneMsg{id: id, err: r.SetCompleted(context.Background(), id, completed)}
	}
}

func deleteTodoCmd(r Remote, id model.ID) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{id: id, err: r.DeleteTodo(context.Background(), id)}
	}
}
