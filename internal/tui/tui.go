// Package tui implements the interactive browser over the live index: a
// filter input driving the query engine, a result list and a statistics
// footer.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/calegray/lattice/internal/index"
	"github.com/calegray/lattice/internal/query"
	"github.com/calegray/lattice/internal/state"
	"github.com/calegray/lattice/internal/stats"
)

var (
	inputStyle  = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#3a3a3a", Dark: "#b2b2b2"}).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

type keyMap struct {
	Filter key.Binding
	Apply  key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Apply:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type noteItem struct {
	result query.Result
}

func (i noteItem) Title() string { return i.result.Note.Title }

func (i noteItem) Description() string {
	n := i.result.Note
	if len(n.Tags) == 0 {
		return fmt.Sprintf("%d words", n.Words)
	}
	return fmt.Sprintf("%d words · #%s", n.Words, n.Tags[0])
}

func (i noteItem) FilterValue() string { return i.result.Note.Title }

type model struct {
	state     *state.State
	input     textinput.Model
	list      list.Model
	report    *stats.Report
	filtering bool
	width     int
	height    int
}

func newModel(s *state.State) model {
	input := textinput.New()
	input.Placeholder = "#tag !#tag >note <note title | text"
	input.Prompt = "filter: "

	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "lattice"
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)

	m := model{state: s, input: input, list: l}
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m *model) refresh() {
	store, graph := m.state.Engine.Acquire()
	filter := query.Parse(m.input.Value(), m.state.Workspace.MatchAll)
	results := query.Evaluate(filter, store, graph, m.state.Engine.RawContent)

	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = noteItem{result: r}
	}
	m.list.SetItems(items)

	selected := make([]*index.Note, 0, len(results))
	for _, r := range results {
		selected = append(selected, r.Note)
	}
	m.report = stats.Collect(store, graph, selected)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			switch {
			case key.Matches(msg, keys.Apply):
				m.filtering = false
				m.input.Blur()
				m.refresh()
				return m, nil
			case key.Matches(msg, keys.Cancel):
				m.filtering = false
				m.input.Blur()
				m.input.SetValue("")
				m.refresh()
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Filter):
			m.filtering = true
			m.input.Focus()
			return m, textinput.Blink
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	header := titleStyle.Render("lattice — " + m.state.WorkspaceName)
	if m.filtering || m.input.Value() != "" {
		header = inputStyle.Render(m.input.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		m.list.View(),
		footerStyle.Render(m.footer()),
	)
}

func (m model) footer() string {
	if m.report == nil {
		return ""
	}
	l := m.report.Local
	g := m.report.Global
	return fmt.Sprintf(
		"%d/%d notes · %d words · %d tags · links %d in / %d out / %d internal · %d broken",
		l.Notes, g.Notes, l.Words, l.UniqueTags,
		l.Incoming, l.Outgoing, l.Internal, g.Broken,
	)
}

// Run starts the browser over the given state and blocks until it exits.
func Run(s *state.State) error {
	p := tea.NewProgram(newModel(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
