// Package tui renders the todo list and keeps it synchronized with the
// remote service.
//
// Update is the only place the collections mutate: user-interaction events
// and network-completion messages all arrive on the one Bubble Tea loop,
// while the issued requests run concurrently. Operations on different items
// are independent; same-item races (toggle while a delete is in flight) are
// accepted behavior, matching the service's last-write-wins nature.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/okaret/todoview/internal/model"
	"github.com/okaret/todoview/internal/sync"
)

// listRow adapts a Todo to bubbles/list.Item. The resolved user name rides
// along so the delegate never reaches back into state.
type listRow struct {
	todo model.Todo
	user string
}

func (r listRow) rowText() string {
	box := boxUnchecked
	if r.todo.Completed {
		box = boxChecked
	}
	return fmt.Sprintf("%s %s", box, r.todo.Title)
}

// Implement list.Item interface
func (r listRow) Title() string       { return r.rowText() }
func (r listRow) Description() string { return r.user }
func (r listRow) FilterValue() string { return r.todo.Title }

// Custom delegate to control how items render (single line)
type rowDelegate struct{}

func (d rowDelegate) Height() int                               { return 1 }
func (d rowDelegate) Spacing() int                              { return 0 }
func (d rowDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, _ := item.(listRow)

	boxStyled := mutedStyle.Render(boxUnchecked)
	textStyled := r.todo.Title
	if r.todo.Completed {
		boxStyled = successStyle.Render(boxChecked)
		textStyled = doneStyle.Render(r.todo.Title)
	}

	line := fmt.Sprintf("%s %s", boxStyled, textStyled)
	if r.user != "" {
		line += mutedStyle.Render("  · " + r.user)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

// Model is the Bubble Tea model for the synchronized list.
type Model struct {
	state  *sync.Synchronizer
	remote Remote

	list list.Model
	sp   spinner.Model

	loadingTodos bool
	loadingUsers bool

	// Inline add
	adding  bool            // true when inline add is active
	ti      textinput.Model // text input for the new title
	userIdx int             // picker position into state.Users()
	addErr  string          // last add validation error (shown briefly)

	// Blocking error notice; all other input is swallowed until dismissed.
	notice string

	width  int
	height int
}

// New builds the model around a synchronizer and a remote client.
func New(state *sync.Synchronizer, remote Remote) Model {
	l := list.New(nil, rowDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	refreshBind := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	toggleBind := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	extra := func() []key.Binding { return []key.Binding{toggleBind, addBind, delBind, refreshBind} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New item title..."
	ti.CharLimit = 200

	m := Model{
		state:        state,
		remote:       remote,
		list:         l,
		sp:           sp,
		ti:           ti,
		loadingTodos: true,
		loadingUsers: true,
		width:        80,
		height:       24,
	}
	m.refreshHeader()
	return m
}

// Run starts the program in the alternate screen.
func Run(state *sync.Synchronizer, remote Remote) error {
	p := tea.NewProgram(New(state, remote), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init kicks off the two startup fetches concurrently.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.sp.Tick, fetchTodosCmd(m.remote), fetchUsersCmd(m.remote))
}

func (m Model) loading() bool { return m.loadingTodos || m.loadingUsers }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.sp, cmd = m.sp.Update(msg)
		return m, cmd

	case todosLoadedMsg:
		m.loadingTodos = false
		if msg.err != nil {
			// Degraded but non-fatal: carry on with an empty collection.
			m.state.ReplaceTodos(nil)
			m.notice = msg.err.Error()
		} else {
			m.state.ReplaceTodos(msg.todos)
		}
		m.rebuildRows()
		return m, nil

	case usersLoadedMsg:
		m.loadingUsers = false
		if msg.err != nil {
			m.state.ReplaceUsers(nil)
			m.notice = msg.err.Error()
		} else {
			m.state.ReplaceUsers(msg.users)
		}
		m.userIdx = 0
		m.rebuildRows()
		return m, nil

	case todoCreatedMsg:
		if msg.err != nil {
			// Never inserted locally before confirmation, so nothing to undo.
			m.notice = msg.err.Error()
			return m, nil
		}
		m.state.Prepend(msg.todo)
		m.list.InsertItem(0, listRow{todo: msg.todo, user: m.state.UserName(msg.todo.UserID)})
		m.refreshHeader()
		return m, nil

	case toggleDoneMsg:
		if msg.err != nil {
			// Optimistic flip stays as-is: reported, not rolled back.
			m.notice = msg.err.Error()
		}
		return m, nil

	case deleteDoneMsg:
		if msg.err != nil {
			// Item stays in memory and view.
			m.notice = msg.err.Error()
			return m, nil
		}
		m.state.Remove(msg.id)
		for i, it := range m.list.Items() {
			if r, ok := it.(listRow); ok && r.todo.ID.Equal(msg.id) {
				m.list.RemoveItem(i)
				break
			}
		}
		m.refreshHeader()
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A shown error notice blocks everything else until dismissed.
	if m.notice != "" {
		switch msg.String() {
		case "enter", "esc":
			m.notice = ""
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	if m.adding {
		return m.updateAdding(msg)
	}

	// While the filter input is active every key belongs to the list;
	// otherwise typing a query would trigger the bindings below.
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit

	case " ":
		if r, ok := m.list.SelectedItem().(listRow); ok && !r.todo.ID.IsZero() {
			// Optimistic: the checkbox flips before the server confirms.
			r.todo.Completed = !r.todo.Completed
			m.setRow(r)
			m.state.SetCompleted(r.todo.ID, r.todo.Completed)
			m.refreshHeader()
			return m, toggleTodoCmd(m.remote, r.todo.ID, r.todo.Completed)
		}
		return m, nil

	case "d":
		if r, ok := m.list.SelectedItem().(listRow); ok && !r.todo.ID.IsZero() {
			// Removed only once the server confirms.
			return m, deleteTodoCmd(m.remote, r.todo.ID)
		}
		return m, nil

	case "a":
		m.adding = true
		m.addErr = ""
		m.ti.SetValue("")
		m.ti.Focus()
		return m, nil

	case "r":
		m.loadingTodos, m.loadingUsers = true, true
		return m, tea.Batch(m.sp.Tick, fetchTodosCmd(m.remote), fetchUsersCmd(m.remote))
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		title := strings.TrimSpace(m.ti.Value())
		if title == "" {
			m.addErr = "Title cannot be empty"
			return m, nil
		}
		var userID model.ID
		if users := m.state.Users(); len(users) > 0 {
			userID = users[m.userIdx%len(users)].ID
		}
		m.adding = false
		m.ti.SetValue("")
		m.ti.Blur()
		return m, createTodoCmd(m.remote, userID, title)

	case "esc":
		m.adding = false
		m.ti.SetValue("")
		m.ti.Blur()
		return m, nil

	case "tab", "down":
		if n := len(m.state.Users()); n > 0 {
			m.userIdx = (m.userIdx + 1) % n
		}
		return m, nil

	case "shift+tab", "up":
		if n := len(m.state.Users()); n > 0 {
			m.userIdx = (m.userIdx + n - 1) % n
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

// setRow writes an updated row back by id. Index() points into the visible
// (possibly filtered) slice, so the lookup goes over the full item set.
func (m *Model) setRow(row listRow) {
	for i, it := range m.list.Items() {
		if r, ok := it.(listRow); ok && r.todo.ID.Equal(row.todo.ID) {
			m.list.SetItem(i, row)
			return
		}
	}
}

// rebuildRows projects the collections into list items, re-resolving user
// names, and refreshes the header counts.
func (m *Model) rebuildRows() {
	todos := m.state.Todos()
	rows := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		rows = append(rows, listRow{todo: t, user: m.state.UserName(t.UserID)})
	}
	m.list.SetItems(rows)
	m.refreshHeader()
}

func (m *Model) refreshHeader() {
	dn, pn := m.state.Stats()
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), dn,
		pendingStyle.Render("•"), pn,
		accentStyle.Render("Total"), len(m.state.Todos()),
	)
}

func (m Model) View() string {
	listHeight := m.height - 6
	if m.adding || m.notice != "" {
		listHeight = m.height - 8
	}
	m.list.SetSize(m.width-2, listHeight)

	content := m.list.View()

	if m.loading() {
		content += "\n" + m.sp.View() + mutedStyle.Render("syncing with server...")
	} else {
		dn, _ := m.state.Stats()
		content += "\n" + mutedStyle.Render(progressBar(dn, len(m.state.Todos()), 28))
	}

	switch {
	case m.notice != "":
		bar := barStyle().BorderForeground(lipgloss.Color("9"))
		line := errorStyle.Render("✖ "+m.notice) + "\n" + helpStyle.Render("press enter to dismiss")
		content += "\n" + bar.Render(line)
	case m.adding:
		title := "Add new item"
		if m.addErr != "" {
			title += " — " + errorStyle.Render(m.addErr)
		}
		picker := m.userPicker()
		content += "\n" + barStyle().Render(title+"\n"+m.ti.View()+"\n"+picker)
	}

	return barStyle().Render(content)
}

// userPicker renders one selectable option per user for the add form.
func (m Model) userPicker() string {
	users := m.state.Users()
	if len(users) == 0 {
		return mutedStyle.Render("no users loaded")
	}
	opts := make([]string, 0, len(users))
	for i, u := range users {
		if i == m.userIdx%len(users) {
			opts = append(opts, selectedStyle.Render(u.Name))
		} else {
			opts = append(opts, mutedStyle.Render(u.Name))
		}
	}
	return "for: " + strings.Join(opts, "  ") + helpStyle.Render("  (tab to switch)")
}
