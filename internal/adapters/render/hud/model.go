// Package hud renders snapshot views for the terminal.
package hud

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/edc/internal/application"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	view   application.CurrentView
	opts   RenderOptions
	styles styles
	output string
}

func newModel(view application.CurrentView, opts RenderOptions) model {
	return model{
		view:   view,
		opts:   opts,
		styles: newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.view, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render produces the HUD for one view without a terminal.
func Render(view application.CurrentView, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(view, opts),
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

// Source is the read side of the snapshot store.
type Source interface {
	Snapshot() application.Snapshot
	Subscribe() (<-chan uint64, func())
}

type versionMsg uint64

type updatesClosedMsg struct{}

// LiveModel redraws whenever the store publishes a new version.
type LiveModel struct {
	source  Source
	updates <-chan uint64
	opts    RenderOptions
	now     func() time.Time
	styles  styles
	spinner spinner.Model
	view    application.CurrentView
	width   int
}

func NewLiveModel(source Source, updates <-chan uint64, opts RenderOptions) LiveModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return LiveModel{
		source:  source,
		updates: updates,
		opts:    opts,
		now:     time.Now,
		styles:  newStyles(),
		spinner: s,
		view:    source.Snapshot().Current(),
	}
}

func (m LiveModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForVersion())
}

func (m LiveModel) waitForVersion() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		v, ok := <-updates
		if !ok {
			return updatesClosedMsg{}
		}
		return versionMsg(v)
	}
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "h":
			m.opts.HighValueOnly = !m.opts.HighValueOnly
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case versionMsg:
		m.view = m.source.Snapshot().Current()
		return m, m.waitForVersion()
	case updatesClosedMsg:
		return m, tea.Quit
	case spinner.TickMsg:
		if m.ready() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m LiveModel) ready() bool {
	return m.view.Context.HasSystem()
}

func (m LiveModel) View() string {
	if !m.ready() {
		status := fmt.Sprintf("%s Waiting for journal events... (v%d)", m.spinner.View(), m.view.Version)
		if m.view.Stale {
			status += "\n" + m.styles.warning.Render(staleAdvisory(m.view.Gaps, m.now()))
		}
		return status + "\n"
	}

	opts := m.opts
	opts.Now = m.now()
	out := renderView(m.view, opts, m.styles)
	if m.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(m.width).Render(out)
	}
	return out + "\n" + m.styles.empty.Render("q quit  h toggle high-value only") + "\n"
}

// RunLive drives the live HUD on output until ctx ends or the user quits.
func RunLive(ctx context.Context, source Source, input io.Reader, output io.Writer, opts RenderOptions) error {
	updates, cancel := source.Subscribe()
	defer cancel()

	p := tea.NewProgram(
		NewLiveModel(source, updates, opts),
		tea.WithInput(input),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
