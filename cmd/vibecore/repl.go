package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput   textinput.Model
	wb          *Workbench
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showVars    bool
	quitting    bool
	initialized bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
	Tab   key.Binding
	CtrlV key.Binding
	CtrlH key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous command"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next command"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "execute"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "autocomplete"),
	),
	CtrlV: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("ctrl+v", "toggle vars"),
	),
	CtrlH: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
}

var methodNames = []string{
	"all?", "any?", "clear", "compact", "concat", "delete", "delete_at", "each",
	"each_with_index", "empty?", "fetch", "find", "first", "flatten", "include?",
	"inject", "insert", "inspect", "join", "key?", "keys", "last", "map", "map!",
	"max", "merge", "min", "pack", "permutation", "pop", "product", "push",
	"reduce", "reject", "reject!", "replace", "select", "shift", "size", "slice",
	"sort", "to_a", "uniq", "unshift", "values", "zip",
}

func newREPLModel(wb *Workbench) replModel {
	ti := textinput.New()
	ti.Placeholder = "type an expression..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "vibecore> "

	return replModel{
		textInput:  ti,
		wb:         wb,
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.CtrlV):
			m.showVars = !m.showVars
			return m, nil

		case key.Matches(msg, keys.CtrlH):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Tab):
			m = m.handleAutocomplete()
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, ":") {
				var cmd tea.Cmd
				m, cmd = m.handleCommand(input)
				m.textInput.SetValue("")
				m.historyIdx = -1
				return m, cmd
			}

			output, isErr := m.evaluate(input)
			m.history = append(m.history, historyEntry{
				input:  input,
				output: output,
				isErr:  isErr,
			})
			m.cmdHistory = append(m.cmdHistory, input)
			m.textInput.SetValue("")
			m.historyIdx = -1
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	switch strings.Fields(input)[0] {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		output, isErr := workbenchCommand(m.wb, input)
		m.history = append(m.history, historyEntry{
			input:  input,
			output: output,
			isErr:  isErr,
		})
	}
	return m, nil
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	words := strings.Fields(input)
	if len(words) == 0 {
		return m
	}
	lastWord := words[len(words)-1]

	var completions []string
	prefix := strings.TrimSuffix(input, lastWord)
	if dot := strings.LastIndex(lastWord, "."); dot >= 0 {
		prefix += lastWord[:dot+1]
		partial := lastWord[dot+1:]
		for _, name := range methodNames {
			if strings.HasPrefix(name, partial) {
				completions = append(completions, name)
			}
		}
	} else {
		for _, kw := range []string{"nil", "true", "false", "break", "next", "Array", "Hash"} {
			if strings.HasPrefix(kw, lastWord) {
				completions = append(completions, kw)
			}
		}
		for _, name := range m.wb.Vars() {
			if strings.HasPrefix(name, lastWord) {
				completions = append(completions, name)
			}
		}
	}

	if len(completions) == 1 {
		m.textInput.SetValue(prefix + completions[0])
		m.textInput.CursorEnd()
	} else if len(completions) > 1 {
		m.history = append(m.history, historyEntry{
			output: "Completions: " + strings.Join(completions, ", "),
		})
	}
	return m
}

func (m replModel) evaluate(input string) (string, bool) {
	result, err := m.wb.Eval(input)
	if err != nil {
		return err.Error(), true
	}
	return describe(result), false
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	header := headerStyle.Render("vibecore workbench")
	b.WriteString(header + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", min(m.width-2, 60))) + "\n\n")

	reservedLines := 8
	if m.showHelp {
		reservedLines += 12
	}
	if m.showVars {
		reservedLines += len(m.wb.Vars()) + 3
	}
	availableHeight := m.height - reservedLines

	historyStart := 0
	if len(m.history) > availableHeight {
		historyStart = max(len(m.history)-availableHeight, 0)
	}

	for i := historyStart; i < len(m.history); i++ {
		entry := m.history[i]
		if entry.input != "" {
			b.WriteString(mutedStyle.Render("  › ") + entry.input + "\n")
		}
		if entry.isErr {
			b.WriteString("  " + errorStyle.Render("✗ "+entry.output) + "\n")
		} else {
			b.WriteString("  " + resultStyle.Render("→ "+entry.output) + "\n")
		}
		b.WriteString("\n")
	}

	if m.showVars {
		b.WriteString(renderVarsPanel(m.wb))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")

	footer := helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+v") + helpDescStyle.Render(" vars  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func renderVarsPanel(wb *Workbench) string {
	names := wb.Vars()
	if len(names) == 0 {
		return borderStyle.Render(mutedStyle.Render("No variables defined"))
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Variables"))
	varNameStyle := lipgloss.NewStyle().Foreground(highlightColor)
	for _, name := range names {
		val, _ := wb.Lookup(name)
		lines = append(lines, fmt.Sprintf("  %s = %s", varNameStyle.Render(name), describe(val)))
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

var helpEntries = []struct {
	key  string
	desc string
}{
	{"↑/↓", "Navigate command history"},
	{"Tab", "Autocomplete"},
	{"Enter", "Evaluate expression"},
	{":help", "Toggle this help"},
	{":vars", "Toggle variables panel"},
	{":kind x", "Show the storage kind of x"},
	{":stats", "Show storage transitions"},
	{":clear", "Clear history"},
	{":reset", "Reset variables"},
	{":quit", "Exit REPL"},
}

func renderHelpPanel() string {
	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help"))
	for _, h := range helpEntries {
		line := fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-8s", h.key)),
			helpDescStyle.Render(h.desc))
		lines = append(lines, line)
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

// workbenchCommand runs the ':' commands shared by the terminal UI and the
// line-mode REPL.
func workbenchCommand(wb *Workbench, input string) (string, bool) {
	parts := strings.Fields(input)
	switch parts[0] {
	case ":reset", ":r":
		wb.Reset()
		return "Variables reset", false
	case ":stats", ":s":
		return wb.Stats(), false
	case ":kind", ":k":
		if len(parts) != 2 {
			return "usage: :kind <variable>", true
		}
		v, ok := wb.Lookup(parts[1])
		if !ok {
			return fmt.Sprintf("undefined variable '%s'", parts[1]), true
		}
		switch {
		case v.Array() != nil:
			return v.Array().Kind().String(), false
		case v.Map() != nil:
			return v.Map().Kind().String(), false
		default:
			return fmt.Sprintf("%s is a %s, not a container", parts[1], v.Kind()), true
		}
	case ":vars", ":v":
		var lines []string
		for _, name := range wb.Vars() {
			val, _ := wb.Lookup(name)
			lines = append(lines, fmt.Sprintf("%s = %s", name, describe(val)))
		}
		if len(lines) == 0 {
			return "No variables defined", false
		}
		return strings.Join(lines, "\n"), false
	case ":help", ":h":
		var lines []string
		for _, h := range helpEntries {
			lines = append(lines, fmt.Sprintf("%-8s  %s", h.key, h.desc))
		}
		return strings.Join(lines, "\n"), false
	default:
		return fmt.Sprintf("Unknown command: %s", parts[0]), true
	}
}

func runREPL(wb *Workbench) error {
	p := tea.NewProgram(newREPLModel(wb), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// runLineREPL evaluates one line at a time without a terminal UI, for piped
// input.
func runLineREPL(in io.Reader, out io.Writer, wb *Workbench) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, ":") {
			if input == ":quit" || input == ":q" {
				return nil
			}
			output, isErr := workbenchCommand(wb, input)
			if isErr {
				output = "error: " + output
			}
			fmt.Fprintln(out, output)
			continue
		}
		result, err := wb.Eval(input)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "=> %s\n", describe(result))
	}
	return scanner.Err()
}
