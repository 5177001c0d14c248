package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nulifyer/modget/internal/host"
)

// installProgram is a minimal Bubble Tea frontend for a resolve+install
// run: a spinner plus a scrolling line log, in the spirit of guget's
// tui.go loading-state message loop (packageReadyMsg/logLineMsg feeding
// a spinner-driven status line) but scaled down to a non-interactive
// progress display rather than a full package browser.
type installProgram struct {
	program *tea.Program
}

func newInstallProgram() *installProgram {
	m := newProgressModel()
	return &installProgram{program: tea.NewProgram(m)}
}

func (p *installProgram) run() {
	// the program exits quietly on quitMsg or when stdin isn't a TTY;
	// a non-interactive run (e.g. piped output, CI) still completes the
	// install, it just never renders anything.
	p.program.Run()
}

func (p *installProgram) quit() {
	p.program.Send(quitMsg{})
}

func (p *installProgram) moduleResolving(name string) {
	p.program.Send(logLineMsg{fmt.Sprintf("resolving %s", name)})
}

func (p *installProgram) moduleResolved(name, version string) {
	p.program.Send(logLineMsg{fmt.Sprintf("resolved %s %s", name, version)})
}

func (p *installProgram) moduleDownloading(name, version string) {
	p.program.Send(logLineMsg{fmt.Sprintf("downloading %s %s", name, version)})
}

func (p *installProgram) moduleExtracted(name, version string) {
	p.program.Send(logLineMsg{fmt.Sprintf("installed %s %s", name, version)})
}

func (p *installProgram) failed(name string, err error) {
	p.program.Send(logLineMsg{fmt.Sprintf("failed %s: %v", name, err)})
}

var (
	progressStyleSpinner = lipgloss.NewStyle().Foreground(lipgloss.Color("#58a6ff"))
	progressStyleLine    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e"))
)

const progressMaxLines = 8

type logLineMsg struct{ line string }
type quitMsg struct{}

type progressModel struct {
	sp    spinner.Model
	lines []string
}

func newProgressModel() progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = progressStyleSpinner
	return progressModel{sp: sp}
}

func (m progressModel) Init() tea.Cmd {
	return m.sp.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.sp, cmd = m.sp.Update(msg)
		return m, cmd
	case logLineMsg:
		m.lines = append(m.lines, msg.line)
		if len(m.lines) > progressMaxLines {
			m.lines = m.lines[len(m.lines)-progressMaxLines:]
		}
		return m, nil
	case quitMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	var out string
	for _, l := range m.lines {
		out += progressStyleLine.Render(l) + "\n"
	}
	if len(m.lines) > 0 {
		out += m.sp.View() + " working...\n"
	} else {
		out += m.sp.View() + " starting...\n"
	}
	return out
}

// progressSink adapts installProgram to host.ProgressSink so the
// resolver/installer drivers can report into it without importing
// Bubble Tea themselves.
type progressSink struct {
	prog *installProgram
}

func newProgressSink(prog *installProgram) host.ProgressSink {
	return progressSink{prog: prog}
}

func (s progressSink) ModuleResolving(name string)            { s.prog.moduleResolving(name) }
func (s progressSink) ModuleResolved(name, version string)    { s.prog.moduleResolved(name, version) }
func (s progressSink) ModuleDownloading(name, version string) { s.prog.moduleDownloading(name, version) }
func (s progressSink) ModuleExtracted(name, version string)   { s.prog.moduleExtracted(name, version) }
func (s progressSink) Failed(name string, err error)          { s.prog.failed(name, err) }
