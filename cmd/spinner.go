package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/wallet-resources/internal/application"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// stepDoneMsg reports the outcome of steps[index].
type stepDoneMsg struct {
	index int
	err   error
}

type stepResult struct {
	name string
	err  error
}

type fetchProgressModel struct {
	ctx      context.Context
	spinner  spinner.Model
	label    string
	steps    []application.RefreshStep
	results  []stepResult
	okStyle  lipgloss.Style
	errStyle lipgloss.Style
}

func newFetchProgressModel(ctx context.Context, label string, steps []application.RefreshStep) fetchProgressModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return fetchProgressModel{
		ctx:      ctx,
		spinner:  s,
		label:    label,
		steps:    steps,
		okStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		errStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}

func (m fetchProgressModel) Init() tea.Cmd {
	if len(m.steps) == 0 {
		return tea.Quit
	}
	return tea.Batch(m.spinner.Tick, m.poll(0))
}

func (m fetchProgressModel) poll(index int) tea.Cmd {
	ctx, step := m.ctx, m.steps[index]
	return func() tea.Msg {
		return stepDoneMsg{index: index, err: step.Poll(ctx)}
	}
}

func (m fetchProgressModel) finished() bool {
	return len(m.results) == len(m.steps)
}

func (m fetchProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.finished() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case stepDoneMsg:
		if msg.index != len(m.results) || m.finished() {
			return m, nil
		}
		m.results = append(m.results, stepResult{name: m.steps[msg.index].Name, err: msg.err})
		if m.finished() {
			return m, tea.Quit
		}
		return m, m.poll(len(m.results))
	default:
		return m, nil
	}
}

func (m fetchProgressModel) View() string {
	lines := make([]string, 0, len(m.steps))
	for _, result := range m.results {
		if result.err != nil {
			lines = append(lines, m.errStyle.Render("✗ "+result.name+": "+result.err.Error()))
			continue
		}
		lines = append(lines, m.okStyle.Render("✓ "+result.name))
	}
	if !m.finished() {
		current := len(m.results)
		lines = append(lines, fmt.Sprintf("%s %s %s (%d/%d)",
			m.spinner.View(), m.label, m.steps[current].Name, current+1, len(m.steps)))
	}
	return strings.Join(lines, "\n")
}

func (m fetchProgressModel) err() error {
	var errs []error
	for _, result := range m.results {
		if result.err != nil {
			errs = append(errs, result.err)
		}
	}
	return errors.Join(errs...)
}

// runFetchSpinner polls steps in order, showing which market is loading
// and how each finished. Failures are joined.
func runFetchSpinner(ctx context.Context, output io.Writer, label string, steps []application.RefreshStep) error {
	p := tea.NewProgram(
		newFetchProgressModel(ctx, label, steps),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(fetchProgressModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err()
}
