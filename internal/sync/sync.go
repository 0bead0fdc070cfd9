// Package sync owns the client-side copy of the remote todo and user
// collections.
//
// A Synchronizer is not safe for concurrent use. Every mutation must come
// from the single event-processing loop (the Bubble Tea Update function or a
// one-shot CLI command); network callbacks deliver results onto that loop
// instead of touching the collections directly.
package sync

import "github.com/okaret/todoview/internal/model"

// Synchronizer holds the in-memory todo and user collections. The view
// derives everything from here and keeps no state of its own.
type Synchronizer struct {
	todos []model.Todo
	users []model.User
}

func New() *Synchronizer {
	return &Synchronizer{}
}

// ReplaceTodos swaps in a freshly fetched todo collection.
func (s *Synchronizer) ReplaceTodos(todos []model.Todo) {
	s.todos = append(s.todos[:0:0], todos...)
}

// ReplaceUsers swaps in a freshly fetched user collection.
func (s *Synchronizer) ReplaceUsers(users []model.User) {
	s.users = append(s.users[:0:0], users...)
}

// Prepend inserts a server-confirmed todo at the front, most-recent-first.
func (s *Synchronizer) Prepend(todo model.Todo) {
	s.todos = append([]model.Todo{todo}, s.todos...)
}

// SetCompleted flips the completion flag of the todo with the given id.
// Reports whether the id was found.
func (s *Synchronizer) SetCompleted(id model.ID, completed bool) bool {
	for i := range s.todos {
		if s.todos[i].ID.Equal(id) {
			s.todos[i].Completed = completed
			return true
		}
	}
	return false
}

// Remove drops the todo with the given id. Reports whether the id was found.
func (s *Synchronizer) Remove(id model.ID) bool {
	for i := range s.todos {
		if s.todos[i].ID.Equal(id) {
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			return true
		}
	}
	return false
}

// Get looks up a todo by id.
func (s *Synchronizer) Get(id model.ID) (model.Todo, bool) {
	for _, t := range s.todos {
		if t.ID.Equal(id) {
			return t, true
		}
	}
	return model.Todo{}, false
}

// Todos returns the current collection. Callers must not mutate it.
func (s *Synchronizer) Todos() []model.Todo { return s.todos }

// Users returns the current user collection. Callers must not mutate it.
func (s *Synchronizer) Users() []model.User { return s.users }

// UserName resolves a user id to its display name, or "" when no user
// matches.
func (s *Synchronizer) UserName(id model.ID) string {
	for _, u := range s.users {
		if u.ID.Equal(id) {
			return u.Name
		}
	}
	return ""
}

// Stats counts completed and pending todos for the header line.
func (s *Synchronizer) Stats() (done, pending int) {
	for _, t := range s.todos {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
