// Package tui provides the interactive terminal views: a spinner while a
// pipeline run is in flight, and a browser for the generated emails.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"coldreach/internal/model"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var (
	loaderTextStyle = lipgloss.NewStyle().
			Padding(1, 2)

	loaderErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(1, 2)
)

type runDoneMsg struct {
	results []model.PipelineResult
	err     error
}

type spinnerTickMsg struct{}

// RunFunc executes one pipeline run under the given context.
type RunFunc func(ctx context.Context) ([]model.PipelineResult, error)

type loaderModel struct {
	url     string
	runFn   RunFunc
	frame   int
	results []model.PipelineResult
	err     error
	done    bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doRun(), m.tick())
}

func (m loaderModel) doRun() tea.Cmd {
	runFn := m.runFn
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		results, err := runFn(ctx)
		return runDoneMsg{results: results, err: err}
	}
}

func (m loaderModel) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runDoneMsg:
		m.results = msg.results
		m.err = msg.err
		m.done = true
		return m, tea.Quit

	case spinnerTickMsg:
		if m.done {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, m.tick()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = fmt.Errorf("cancelled")
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	if m.err != nil {
		return loaderErrStyle.Render(m.err.Error())
	}
	return loaderTextStyle.Render(fmt.Sprintf(
		"%s Generating emails for %s ...", spinnerFrames[m.frame], m.url,
	))
}

// RunLoader shows a spinner while runFn executes and returns its outcome.
func RunLoader(url string, runFn RunFunc) ([]model.PipelineResult, error) {
	m := loaderModel{url: url, runFn: runFn}

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return nil, err
	}

	final := result.(loaderModel)
	return final.results, final.err
}
