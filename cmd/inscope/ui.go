package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"inscope/internal/core/app"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	unresolvedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	reports    []app.ImportReport
	unresolved int
	fileCount  int
	lastUpdate time.Time
	refresh    func() ([]app.ImportReport, int)
}

type updateMsg struct {
	reports   []app.ImportReport
	fileCount int
}

func refreshEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return refreshTick{} })
}

type refreshTick struct{}

func (m model) Init() tea.Cmd {
	return refreshEvery(time.Second)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case refreshTick:
		reports, files := m.refresh()
		return m, tea.Batch(
			func() tea.Msg { return updateMsg{reports: reports, fileCount: files} },
			refreshEvery(2*time.Second),
		)
	case updateMsg:
		m.reports = msg.reports
		m.fileCount = msg.fileCount
		m.lastUpdate = time.Now()
		m.unresolved = 0

		items := []list.Item{}
		for _, rep := range m.reports {
			loc := fmt.Sprintf("%s:%d", rep.File, rep.Line)
			if !rep.Resolved {
				m.unresolved++
				items = append(items, item{
					title: "Unresolved Import",
					desc:  fmt.Sprintf("%s  %s", loc, rep.Text),
				})
				continue
			}
			items = append(items, item{
				title: fmt.Sprintf("%s (%d clauses)", rep.Target, len(rep.Clauses)),
				desc:  fmt.Sprintf("%s  %s", loc, strings.Join(rep.Clauses, " ")),
			})
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files | %d imports",
		m.lastUpdate.Format("15:04:05"), m.fileCount, len(m.reports)))

	var summary string
	if m.unresolved == 0 {
		summary = successStyle.Render("all imports resolve")
	} else {
		summary = unresolvedStyle.Render(fmt.Sprintf("%d unresolved", m.unresolved))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Import Scope Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel(refresh func() ([]app.ImportReport, int)) model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Import Directives"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
		refresh:    refresh,
	}
}

func runUI(ctx context.Context, service *app.Service) error {
	refresh := func() ([]app.ImportReport, int) {
		reports, err := service.Reports(ctx)
		if err != nil {
			return nil, service.Index.FileCount()
		}
		return reports, service.Index.FileCount()
	}

	p := tea.NewProgram(initialModel(refresh), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
