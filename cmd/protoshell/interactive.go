package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/protoobj/internal/shell"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0E68C"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

// maxTranscript bounds the number of commands kept on screen.
const maxTranscript = 200

type transcriptEntry struct {
	command string
	output  string
	err     error
}

type interactiveModel struct {
	sh         *shell.Shell
	header     string
	input      textinput.Model
	transcript []transcriptEntry
	history    []string
	histIdx    int
	height     int
	quitting   bool
}

func newInteractiveModel(sh *shell.Shell, header string) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "new proto"
	ti.Prompt = "proto> "
	ti.Width = 60
	ti.Focus()

	return &interactiveModel{
		sh:     sh,
		header: header,
		input:  ti,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "up":
			if m.histIdx > 0 {
				m.histIdx--
				m.input.SetValue(m.history[m.histIdx])
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if m.histIdx < len(m.history)-1 {
				m.histIdx++
				m.input.SetValue(m.history[m.histIdx])
				m.input.CursorEnd()
			} else {
				m.histIdx = len(m.history)
				m.input.SetValue("")
			}
			return m, nil

		case "ctrl+l":
			m.transcript = nil
			return m, nil

		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			m.history = append(m.history, line)
			m.histIdx = len(m.history)
			if line == "quit" || line == "exit" {
				m.quitting = true
				return m, tea.Quit
			}
			m.execute(line)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) execute(line string) {
	out, err := m.sh.Exec(line)
	m.transcript = append(m.transcript, transcriptEntry{command: line, output: out, err: err})
	if len(m.transcript) > maxTranscript {
		m.transcript = m.transcript[len(m.transcript)-maxTranscript:]
	}
}

func (m *interactiveModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Proto Shell"))
	b.WriteString(" ")
	b.WriteString(m.header)
	b.WriteString("\n\n")

	lines := m.transcriptLines()
	if m.height > 0 {
		// title, blank, bindings panel, input and help take about eight rows
		if avail := m.height - 8; avail > 0 && len(lines) > avail {
			lines = lines[len(lines)-avail:]
		}
	}
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	if len(lines) > 0 {
		b.WriteString("\n")
	}

	names := m.sh.Names()
	bindings := "no objects"
	if len(names) > 0 {
		bindings = "objects: " + strings.Join(names, " ")
	}
	b.WriteString(panelStyle.Render(bindings))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter run • ↑/↓ history • ctrl+l clear • help commands • esc quit"))

	return b.String()
}

func (m *interactiveModel) transcriptLines() []string {
	var lines []string
	for _, e := range m.transcript {
		lines = append(lines, commandStyle.Render("> "+e.command))
		if e.output != "" {
			for _, l := range strings.Split(e.output, "\n") {
				if strings.HasPrefix(l, "released ") {
					lines = append(lines, noteStyle.Render(l))
				} else {
					lines = append(lines, resultStyle.Render(l))
				}
			}
		}
		if e.err != nil {
			lines = append(lines, errorStyle.Render(fmt.Sprintf("error: %v", e.err)))
		}
	}
	return lines
}

func runInteractive(sh *shell.Shell, opts options) error {
	header := fmt.Sprintf("arena=%s threshold=%d atomic=%t", opts.arenaKind, opts.threshold, opts.atomic)
	p := tea.NewProgram(newInteractiveModel(sh, header), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
