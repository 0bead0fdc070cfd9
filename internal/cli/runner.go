// Package cli routes subcommands. `ls` opens the interactive view; the rest
// perform a single remote operation and print one styled result line.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okaret/todoview/internal/api"
	"github.com/okaret/todoview/internal/config"
	"github.com/okaret/todoview/internal/model"
	"github.com/okaret/todoview/internal/sync"
	"github.com/okaret/todoview/internal/tui"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

func ok(msg string) {
	fmt.Println(successStyle.Render("✔ " + msg))
}
func fail(msg string) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("✖ "+msg))
}

// Options carry the wired-up client into every subcommand.
type Options struct {
	Client *api.Client
}

// ---------------------------------------------------
// CLI router
// ---------------------------------------------------

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return doList(opt)

	case "add":
		if len(a) < 2 {
			fail("usage: todoview add <userId> <title...>")
			return 2
		}
		return doAdd(opt, model.NewID(a[0]), strings.Join(a[1:], " "))

	case "done":
		if len(a) != 1 {
			fail("usage: todoview done <id>")
			return 2
		}
		return doSetCompleted(opt, model.NewID(a[0]), true)

	case "undone":
		if len(a) != 1 {
			fail("usage: todoview undone <id>")
			return 2
		}
		return doSetCompleted(opt, model.NewID(a[0]), false)

	case "rm":
		if len(a) != 1 {
			fail("usage: todoview rm <id>")
			return 2
		}
		return doRemove(opt, model.NewID(a[0]))

	case "users":
		return doUsers(opt)
	}

	fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`todoview - a todo list synced with a remote service

Usage:
  todoview <subcommand> [args]

Subcommands:
  ls                       Browse and edit todos (interactive TUI)
  add <userId> <title...>  Create a new todo for the given user
  done <id>                Mark a todo completed
  undone <id>              Mark a todo not completed
  rm <id>                  Delete a todo
  users                    List known users
  help                     Show this help

Environment:
  TODOVIEW_BASE_URL     Remote service base URL
  TODOVIEW_TIMEOUT      Per-request timeout (e.g. 5s)
  TODOVIEW_LOG_FILE     Write structured logs to this file
  TODOVIEW_LOG_LEVEL    Log level (debug|info|warn|error)
  TODOVIEW_LOG_FORMAT   Log format (text|json)

Examples:
  todoview add 3 "Buy milk"
  todoview ls
  todoview done 42
  todoview rm 42
`)
}

// ---------------------------------------------------
// Subcommands (remote CRUD)
// ---------------------------------------------------

func doList(opt Options) int {
	// The TUI owns fetching; it starts both collection loads itself.
	if err := tui.Run(sync.New(), opt.Client); err != nil {
		fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func doAdd(opt Options, userID model.ID, title string) int {
	title = strings.TrimSpace(title)
	if title == "" {
		fail("add: empty title")
		return 2
	}
	created, err := opt.Client.CreateTodo(context.Background(), userID, title)
	if err != nil {
		fail("add: " + err.Error())
		return 1
	}
	ok(fmt.Sprintf("added (id %s)", created.ID))
	return 0
}

func doSetCompleted(opt Options, id model.ID, completed bool) int {
	if err := opt.Client.SetCompleted(context.Background(), id, completed); err != nil {
		fail("done: " + err.Error())
		fmt.Fprintln(os.Stderr, mutedStyle.Render("Hint: run `todoview ls` to see valid ids"))
		return 1
	}
	if completed {
		ok("completed")
	} else {
		ok("reopened")
	}
	return 0
}

func doRemove(opt Options, id model.ID) int {
	if err := opt.Client.DeleteTodo(context.Background(), id); err != nil {
		fail("rm: " + err.Error())
		fmt.Fprintln(os.Stderr, mutedStyle.Render("Hint: run `todoview ls` to see valid ids"))
		return 1
	}
	ok("removed")
	return 0
}

func doUsers(opt Options) int {
	users, err := opt.Client.ListUsers(context.Background(), config.UserLimit)
	if err != nil {
		fail("users: " + err.Error())
		return 1
	}
	for _, u := range users {
		fmt.Printf("%s  %s\n", mutedStyle.Render(u.ID.String()), u.Name)
	}
	return 0
}
