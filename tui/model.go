// Package tui is a terminal front-end over the task list view-model.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/example/task-tracker/client"
	"github.com/example/task-tracker/client/viewmodel"
)

// refreshDoneMsg is sent when a list load finishes.
type refreshDoneMsg struct{ err error }

// actionDoneMsg is sent when a mutating action settles or fails.
type actionDoneMsg struct{ err error }

// statusCycle is the order the "s" key walks a task through.
var statusCycle = []string{"Not Started", "In Progress", "Completed"}

// Model is the root bubbletea model. All task state lives in the
// view-model; the model itself only tracks cursor and input state.
type Model struct {
	vm        *viewmodel.ViewModel
	keys      *KeyMap
	input     textinput.Model
	inputMode bool
	cursor    int
	width     int
	height    int
	quitting  bool
}

// New creates the root model over an initialized view-model.
func New(vm *viewmodel.ViewModel) Model {
	ti := textinput.New()
	ti.Placeholder = "task title..."
	ti.Prompt = "> "
	ti.CharLimit = 255

	return Model{
		vm:    vm,
		keys:  DefaultKeyMap(),
		input: ti,
	}
}

// Init loads the first window of tasks.
func (m Model) Init() tea.Cmd {
	return m.refreshCmd()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	case refreshDoneMsg, actionDoneMsg:
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if m.inputMode {
			return m.handleInputKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleInputKeys processes key input while the new-task field is open.
func (m Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		title := m.input.Value()
		m.inputMode = false
		m.input.Reset()
		return m, m.createCmd(title)

	case "esc":
		m.inputMode = false
		m.input.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in list mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.vm.Tasks()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.inputMode = true
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.Complete):
		if t, ok := m.selected(tasks); ok {
			return m, m.completeCmd(t.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(tasks); ok {
			return m, m.deleteCmd(t.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleStatus):
		if t, ok := m.selected(tasks); ok {
			return m, m.cycleStatusCmd(t)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) selected(tasks []client.Task) (client.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return client.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.vm.Tasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) refreshCmd() tea.Cmd {
	vm := m.vm
	return func() tea.Msg {
		return refreshDoneMsg{err: vm.Load(context.Background())}
	}
}

func (m Model) createCmd(title string) tea.Cmd {
	vm := m.vm
	return func() tea.Msg {
		return actionDoneMsg{err: vm.Create(context.Background(), client.CreateTaskInput{Title: title})}
	}
}

func (m Model) completeCmd(id uint) tea.Cmd {
	vm := m.vm
	return func() tea.Msg {
		return actionDoneMsg{err: vm.Complete(context.Background(), id)}
	}
}

func (m Model) deleteCmd(id uint) tea.Cmd {
	vm := m.vm
	return func() tea.Msg {
		return actionDoneMsg{err: vm.Delete(context.Background(), id)}
	}
}

func (m Model) cycleStatusCmd(t client.Task) tea.Cmd {
	next := statusCycle[0]
	for i, s := range statusCycle {
		if s == t.Status {
			next = statusCycle[(i+1)%len(statusCycle)]
			break
		}
	}
	vm := m.vm
	id := t.ID
	return func() tea.Msg {
		return actionDoneMsg{err: vm.UpdateStatus(context.Background(), id, next)}
	}
}

// View renders the task list, the input field when open, and the most
// recent notification.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render("Tasks"))
	if m.vm.ListPhase() == viewmodel.ListLoading {
		b.WriteString(helpStyle.Render("  loading..."))
	}
	b.WriteString("\n\n")

	tasks := m.vm.Tasks()
	if len(tasks) == 0 {
		b.WriteString(helpStyle.Render("  No open tasks. Press n to create one.\n"))
	}

	for i, t := range tasks {
		line := fmt.Sprintf("%s %s %s",
			priorityStyle(t.Priority).Render("["+t.Priority+"]"),
			t.Title,
			statusStyle(t.Status).Render(t.Status),
		)
		if i == m.cursor && !m.inputMode {
			b.WriteString(selectedItemStyle.Render(line))
		} else {
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.inputMode {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1).Render(m.input.View()))
		b.WriteString("\n")
	}

	if notes := m.vm.Notifications(); len(notes) > 0 {
		last := notes[len(notes)-1]
		b.WriteString("\n")
		if last.Kind == "error" {
			b.WriteString(errorStyle.Render("  " + last.Message))
		} else {
			b.WriteString(infoStyle.Render("  " + last.Message))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("  n new · c complete · s status · d delete · r refresh · q quit"))
	return b.String()
}
