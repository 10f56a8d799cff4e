package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"dartgrab/internal/report"
)

// Column widths for the filings browser
const (
	colWidthSubmitted = 10
	colWidthReport    = 34
	colWidthAccession = 16
	colWidthZip       = 44
)

// filingsModel is the read-only table browser shown after a collection run
type filingsModel struct {
	table table.Model
	title string
	width int
}

func newFilingsModel(title string, rows []report.SummaryRow) filingsModel {
	columns := []table.Column{
		{Title: "Submitted", Width: colWidthSubmitted},
		{Title: "Report", Width: colWidthReport},
		{Title: "Accession", Width: colWidthAccession},
		{Title: "Archive", Width: colWidthZip},
	}

	tableRows := make([]table.Row, len(rows))
	for i, r := range rows {
		tableRows[i] = table.Row{r.Submitted, r.ReportName, r.AccessionNo, r.ZipFile}
	}

	height := TableHeight
	if len(tableRows) < height {
		height = len(tableRows)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).Foreground(ColorAccent)
	s.Selected = SelectedStyle
	t.SetStyles(s)

	return filingsModel{
		table: t,
		title: title,
		width: DefaultWidth,
	}
}

func (m filingsModel) Init() tea.Cmd {
	return nil
}

func (m filingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = clamp(msg.Width, MinViewportWidth, MaxViewportWidth)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "enter", "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m filingsModel) View() string {
	content := TitleStyle.Render(m.title) + "\n"
	content += m.table.View() + "\n\n"
	content += HintStyle.Render("up/down: scroll | q: back")
	return BorderStyle.Width(m.width).Render(content)
}

// BrowseFilings shows the collected filings in an interactive table
func BrowseFilings(title string, rows []report.SummaryRow) error {
	if len(rows) == 0 {
		return nil
	}

	p := tea.NewProgram(newFilingsModel(title, rows), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("filings browser error: %w", err)
	}
	return nil
}
