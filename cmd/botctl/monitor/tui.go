package monitor

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mdouchement/botbase"
)

const maxRows = 500

type model struct {
	table  table.Model
	events []botbase.Event
}

func newTUI() *model {
	columns := []table.Column{
		{Title: "Time", Width: 14},
		{Title: "Way", Width: 6},
		{Title: "Data", Width: 60},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		Foreground(lipgloss.Color("#00afff")).
		BorderForeground(lipgloss.Color("#00afff")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#ffffff")).
		Bold(false)
	t.SetStyles(s)

	return &model{
		table: t,
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(msg.Height)
		m.table.SetColumns([]table.Column{
			{Title: "Time", Width: 14},
			{Title: "Way", Width: 6},
			{Title: "Data", Width: max(msg.Width-26, 10)},
		})
	case botbase.Event:
		m.update(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	return m.table.View()
}

func (m *model) update(e botbase.Event) {
	m.events = append(m.events, e)
	if len(m.events) > maxRows {
		m.events = m.events[len(m.events)-maxRows:]
	}

	rows := make([]table.Row, 0, len(m.events))
	for _, e := range m.events {
		rows = append(rows, table.Row{
			e.At.Format("15:04:05.000"),
			e.Kind,
			e.Data,
		})
	}

	m.table.SetRows(rows)
	m.table.GotoBottom()
}
