package status

import (
	"errors"
	"fmt"
	"io"

	"github.com/bnema/wallet-resources/internal/application"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

// section is one block of the resource view, rendered in order.
type section int

const (
	sectionPowerUp section = iota
	sectionREX
	sectionStaking
	sectionAccount
	sectionTokens
)

// sectionMsg carries a rendered block and, for markets, its readiness.
type sectionMsg struct {
	section section
	body    string
	market  bool
	ready   bool
	stale   bool
}

type model struct {
	status application.Status
	opts   RenderOptions
	styles styles

	queue   []section
	bodies  []string
	markets int
	ready   int
	stale   int
	output  string
}

func newModel(status application.Status, opts RenderOptions) model {
	queue := []section{sectionPowerUp, sectionREX, sectionStaking}
	if status.Account != nil {
		queue = append(queue, sectionAccount)
	}
	queue = append(queue, sectionTokens)

	return model{
		status: status,
		opts:   opts,
		styles: newStyles(),
		queue:  queue,
	}
}

func (m model) Init() tea.Cmd {
	return m.next()
}

func (m model) next() tea.Cmd {
	if len(m.queue) == 0 {
		return tea.Quit
	}

	sec, status, opts, s := m.queue[0], m.status, m.opts, m.styles
	return func() tea.Msg {
		return renderSection(sec, status, opts, s)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	done, ok := msg.(sectionMsg)
	if !ok || len(m.queue) == 0 || m.queue[0] != done.section {
		return m, nil
	}

	m.queue = m.queue[1:]
	m.bodies = append(m.bodies, m.styles.section.Render(done.body))
	if done.market {
		m.markets++
		if done.ready {
			m.ready++
		}
		if done.stale {
			m.stale++
		}
	}

	if len(m.queue) > 0 {
		return m, m.next()
	}

	m.output = m.assemble()
	return m, tea.Quit
}

func (m model) assemble() string {
	summary := m.styles.header.Render(fmt.Sprintf("markets: %d/%d ready", m.ready, m.markets))
	if m.stale > 0 {
		summary += " " + m.styles.warning.Render(fmt.Sprintf("%d stale", m.stale))
	}

	lines := []string{
		m.styles.title.Render("Resource Markets"),
		m.styles.header.Render(fmt.Sprintf("chain: %s", shortChainID(m.status.ChainID))),
		summary,
	}
	return lipgloss.JoinVertical(lipgloss.Left, append(lines, m.bodies...)...)
}

func (m model) View() string {
	return m.output
}

// Render lays out markets, the optional account and tracked tokens.
func Render(status application.Status, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(status, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
