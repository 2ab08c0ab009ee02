package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/tinderbot-cli/internal/application"
)

type runProgressMsg application.Progress

type runFinishedMsg struct {
	report application.Report
	err    error
}

// runFunc runs the bot, forwarding each progress update to onProgress.
type runFunc func(ctx context.Context, onProgress func(application.Progress)) (application.Report, error)

type runProgressModel struct {
	spinner  spinner.Model
	counter  lipgloss.Style
	target   int
	progress application.Progress
	started  bool
	finished bool
}

func newRunProgressModel(target int) runProgressModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("205"))),
	)

	return runProgressModel{
		spinner: s,
		counter: lipgloss.NewStyle().Bold(true),
		target:  target,
	}
}

func (m runProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m runProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case runProgressMsg:
		m.progress = application.Progress(msg)
		m.started = true
		return m, nil
	case runFinishedMsg:
		m.finished = true
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m runProgressModel) View() string {
	if m.finished {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label())
}

func (m runProgressModel) label() string {
	p := m.progress
	if !m.started {
		return fmt.Sprintf("Collecting at least %d candidates...", m.target)
	}

	switch p.Phase {
	case application.PhaseLiking:
		label := fmt.Sprintf("Liking candidates %s", m.counter.Render(fmt.Sprintf("%d/%d", p.Done, p.Total)))
		if p.Failed > 0 {
			label += fmt.Sprintf(" (%d failed)", p.Failed)
		}
		return label
	default:
		return fmt.Sprintf("Collecting candidates %s, attempt %d",
			m.counter.Render(fmt.Sprintf("%d/%d", p.Pool, p.Target)), p.Attempt)
	}
}

// runWithProgress animates the bot's progress on output while run executes in
// the background. It returns only after run has returned, so the report is
// complete even when ctx is canceled.
func runWithProgress(ctx context.Context, output io.Writer, target int, run runFunc) (application.Report, error) {
	p := tea.NewProgram(
		newRunProgressModel(target),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	done := make(chan runFinishedMsg, 1)
	go func() {
		report, err := run(ctx, func(progress application.Progress) {
			p.Send(runProgressMsg(progress))
		})
		finished := runFinishedMsg{report: report, err: err}
		done <- finished
		p.Send(finished)
	}()

	_, uiErr := p.Run()
	finished := <-done

	if finished.err != nil {
		return finished.report, finished.err
	}
	return finished.report, uiErr
}

// holdLogs buffers log output until the returned release func is called, then
// writes everything held to w. Log lines would otherwise tear the spinner line.
func (a *app) holdLogs(w io.Writer) func() error {
	var held bytes.Buffer
	a.logger.SetOutput(&held)

	return func() error {
		a.logger.SetOutput(w)
		_, err := w.Write(held.Bytes())
		return err
	}
}
