package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/okrogh/thglab/internal/sweep"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(18)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// RunMsg carries one completed sweep point into the UI loop.
type RunMsg sweep.Run

// DoneMsg signals that the sweep channel has been closed.
type DoneMsg struct{}

// Model watches a running sweep and shows the latest trajectory.
type Model struct {
	ch     <-chan sweep.Run
	total  int
	length float64

	runs   []sweep.Run
	latest *sweep.Run
	done   bool
}

func NewModel(ch <-chan sweep.Run, total int, length float64) Model {
	return Model{
		ch:     ch,
		total:  total,
		length: length,
		runs:   make([]sweep.Run, 0, total),
	}
}

func waitForRun(ch <-chan sweep.Run) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return DoneMsg{}
		}
		return RunMsg(r)
	}
}

func (m Model) Init() tea.Cmd {
	return waitForRun(m.ch)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case RunMsg:
		r := sweep.Run(msg)
		m.runs = append(m.runs, r)
		m.latest = &m.runs[len(m.runs)-1]
		return m, waitForRun(m.ch)
	case DoneMsg:
		m.done = true
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("THG MISMATCH SWEEP") + "\n")

	status := "RUNNING"
	if m.done {
		status = "DONE (q to quit)"
	}
	s.WriteString(fmt.Sprintf("%s  %d/%d\n", status, len(m.runs), m.total))
	s.WriteString(progressBar(len(m.runs), m.total, 40) + "\n")

	if m.latest != nil {
		r := m.latest
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("delta_beta") + valueStyle.Render(fmt.Sprintf("%.3e", r.DeltaBeta)) + "\n")
		s.WriteString(labelStyle.Render("delta_beta*L") + valueStyle.Render(fmt.Sprintf("%.1f", r.DeltaBeta*m.length)) + "\n")

		if r.Err != nil {
			s.WriteString(failStyle.Render("run failed: "+r.Err.Error()) + "\n")
		} else if r.Result != nil {
			s.WriteString(labelStyle.Render("peak conversion") + valueStyle.Render(fmt.Sprintf("%.3e", r.Result.Metrics["peak_conversion"])) + "\n")
			s.WriteString(labelStyle.Render("invariant drift") + valueStyle.Render(fmt.Sprintf("%.3e", r.Result.InvariantDrift)) + "\n")
			s.WriteString(labelStyle.Render("steps") + valueStyle.Render(fmt.Sprintf("%d", r.Result.StepsTaken)) + "\n")

			if trace := harmonicTrace(r); len(trace) > 1 {
				chart := asciigraph.Plot(trace,
					asciigraph.Height(6),
					asciigraph.Width(60),
					asciigraph.Caption("harmonic intensity along z"))
				s.WriteString(graphStyle.Render(chart) + "\n")
			}
		}
	}

	s.WriteString(helpStyle.Render("Q:Quit"))
	return s.String()
}

func progressBar(done, total, width int) string {
	if total < 1 {
		total = 1
	}
	filled := done * width / total
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

// harmonicTrace normalizes |E3|^2 by the launch intensity of the fundamental.
func harmonicTrace(r *sweep.Run) []float64 {
	if r.Result == nil || len(r.Result.States) == 0 {
		return nil
	}
	i0 := r.Result.States[0].Intensity(0)
	if i0 <= 0 {
		return nil
	}
	trace := make([]float64, len(r.Result.States))
	for i, s := range r.Result.States {
		trace[i] = s.Intensity(1) / i0
	}
	return trace
}
