package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kailas-cloud/geosuggest/pkg/geosuggest"
)

// Controller is the part of geosuggest.Controller the model drives.
type Controller interface {
	SubmitQuery(ctx context.Context) geosuggest.Request
	Phase() geosuggest.Phase
	Pending() int
	Variant() geosuggest.Variant
}

type refreshMsg struct{}

// Model is the bubbletea model of the terminal client.
type Model struct {
	ctx    context.Context
	ctrl   Controller
	screen *Screen
	styles Styles

	input   textinput.Model
	view    Snapshot
	cursor  int
	width   int
	lastRev uint64
}

// NewModel creates a model rendering screen. ctrl must write to screen.
func NewModel(ctx context.Context, ctrl Controller, screen *Screen) *Model {
	ti := textinput.New()
	ti.Placeholder = "Search a place"
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Focus()

	m := &Model{
		ctx:    ctx,
		ctrl:   ctrl,
		screen: screen,
		styles: NewStyles(),
		input:  ti,
	}
	m.sync()
	return m
}

func (m *Model) waitForChange() tea.Cmd {
	ch := m.screen.Changed()
	return func() tea.Msg {
		select {
		case <-ch:
			return refreshMsg{}
		case <-m.ctx.Done():
			return tea.Quit()
		}
	}
}

// Init starts the cursor blink and the screen watcher.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForChange())
}

// Update handles key presses and screen refreshes.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.sync()
		return m, m.waitForChange()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			m.moveCursor(-1)
			return m, nil
		case tea.KeyDown:
			m.moveCursor(1)
			return m, nil
		case tea.KeyEnter:
			m.choose()
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.screen.TypeQuery(m.input.Value())
		// Every key release queries, like keyup on the page.
		m.ctrl.SubmitQuery(m.ctx)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// sync copies the screen into the model and rewrites the text field when
// the controller changed it.
func (m *Model) sync() {
	m.view = m.screen.Snapshot()
	if m.view.QueryRev != m.lastRev {
		m.lastRev = m.view.QueryRev
		m.input.SetValue(m.view.Query)
		m.input.CursorEnd()
	}
	if m.cursor >= len(m.view.Entries) {
		m.cursor = max(len(m.view.Entries)-1, 0)
	}
}

func (m *Model) moveCursor(delta int) {
	n := len(m.view.Entries)
	if n == 0 {
		return
	}
	m.cursor = (m.cursor + delta + n) % n
}

func (m *Model) choose() {
	if m.cursor >= len(m.view.Entries) {
		return
	}
	m.view.Entries[m.cursor].Select()
	m.cursor = 0
	m.sync()
}

// View renders the query field, the dropdown and the map panel.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("geosuggest"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.view.BoxPresent {
		b.WriteString(m.renderBox())
		b.WriteString("\n")
	}
	b.WriteString(m.renderMap())
	b.WriteString("\n")
	b.WriteString(m.styles.Status.Render(m.status()))
	return b.String()
}

func (m *Model) renderBox() string {
	if len(m.view.Entries) == 0 {
		return m.styles.Box.Render(m.styles.Dim.Render("no suggestions"))
	}
	lines := make([]string, 0, len(m.view.Entries))
	for i, e := range m.view.Entries {
		if i == m.cursor {
			lines = append(lines, m.styles.Selected.Render(e.Name))
			continue
		}
		lines = append(lines, m.styles.Entry.Render(e.Name))
	}
	return m.styles.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderMap() string {
	if !m.view.MapVisible {
		return m.styles.Dim.Render("map hidden until a place is chosen")
	}
	return m.styles.Map.Render(fmt.Sprintf("marker %.5f, %.5f\nzoom %d",
		m.view.Marker.Lat, m.view.Marker.Lon, m.view.Zoom))
}

func (m *Model) status() string {
	help := "type to search"
	if m.ctrl.Variant() == geosuggest.VariantExtended {
		help += " · ↑/↓ choose · enter select"
	}
	help += " · esc quit"
	return fmt.Sprintf("%s · pending %d · %s", m.ctrl.Phase(), m.ctrl.Pending(), help)
}
