package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"coldreach/internal/model"
)

type resultsView int

const (
	viewList resultsView = iota
	viewEmail
)

var (
	listTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(1, 0, 1, 2)

	listItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	listSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	listSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(0, 0, 0, 4)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)

	emailTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Padding(1, 0, 1, 2)

	emailBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 2)
)

type resultsModel struct {
	results  []model.PipelineResult
	cursor   int
	view     resultsView
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

func (m resultsModel) Init() tea.Cmd {
	return nil
}

func (m resultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 6
		m.ready = true
		if m.view == viewEmail {
			m.viewport.SetContent(m.renderEmail())
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "up", "k":
			if m.view == viewList && m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.view == viewList && m.cursor < len(m.results)-1 {
				m.cursor++
			}

		case "enter":
			if m.view == viewList && len(m.results) > 0 {
				m.view = viewEmail
				m.viewport.SetContent(m.renderEmail())
				m.viewport.GotoTop()
			}

		case "esc":
			if m.view == viewEmail {
				m.view = viewList
			}
		}
	}

	if m.view == viewEmail {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m resultsModel) renderEmail() string {
	res := m.results[m.cursor]
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Role: %s\n", res.Job.RoleOr("unknown")))
	if res.Job.Experience != nil {
		b.WriteString(fmt.Sprintf("Experience: %s\n", *res.Job.Experience))
	}
	if len(res.Job.Skills) > 0 {
		b.WriteString(fmt.Sprintf("Skills: %s\n", strings.Join(res.Job.Skills, ", ")))
	}
	b.WriteString("\n")
	b.WriteString(res.Email)
	return emailBodyStyle.Render(b.String())
}

func (m resultsModel) View() string {
	if m.view == viewEmail {
		s := emailTitleStyle.Render(fmt.Sprintf(
			"Email %d of %d — %s", m.cursor+1, len(m.results), m.results[m.cursor].Job.RoleOr("unknown"),
		))
		s += "\n" + m.viewport.View()
		s += "\n" + hintStyle.Render("↑/↓ scroll  esc back  q quit")
		return s
	}

	s := listTitleStyle.Render("Generated emails")
	s += "\n"
	for i, res := range m.results {
		label := res.Job.RoleOr("unknown role")
		if i == m.cursor {
			s += listSelectedStyle.Render("> "+label) + "\n"
		} else {
			s += listItemStyle.Render(label) + "\n"
		}
		if exp := res.Job.Experience; exp != nil && *exp != "" {
			s += listSubtitleStyle.Render(*exp) + "\n"
		}
	}
	s += hintStyle.Render("↑/↓/j/k navigate  enter open  q quit")
	return s
}

// RunResults shows the generated emails in an interactive browser.
func RunResults(results []model.PipelineResult) error {
	if len(results) == 0 {
		fmt.Println("No jobs were extracted from that page.")
		return nil
	}

	m := resultsModel{results: results}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
