package main

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mgomes/mtscript/mt"
)

var (
	accentColor    = lipgloss.Color("#0EA5E9")
	successColor   = lipgloss.Color("#22C55E")
	errorColor     = lipgloss.Color("#F43F5E")
	mutedColor     = lipgloss.Color("#64748B")
	highlightColor = lipgloss.Color("#EAB308")
)

// styles used by the REPL view.
var styles = struct {
	prompt, result, err, muted, header, title, key, desc, name, panel lipgloss.Style
}{
	prompt: lipgloss.NewStyle().Foreground(accentColor).Bold(true),
	result: lipgloss.NewStyle().Foreground(successColor),
	err:    lipgloss.NewStyle().Foreground(errorColor),
	muted:  lipgloss.NewStyle().Foreground(mutedColor),
	header: lipgloss.NewStyle().Foreground(accentColor).Bold(true).Padding(0, 1),
	title:  lipgloss.NewStyle().Foreground(accentColor).Bold(true),
	key:    lipgloss.NewStyle().Foreground(highlightColor),
	desc:   lipgloss.NewStyle().Foreground(mutedColor),
	name:   lipgloss.NewStyle().Foreground(highlightColor),
	panel: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(0, 1),
}

// lastResult is the variable the REPL binds to the most recent result.
const lastResult = "_"

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput  textinput.Model
	engine     *mt.Engine
	env        *mt.Env
	output     *bytes.Buffer
	history    []historyEntry
	cmdHistory []string
	historyIdx int
	width      int
	height     int
	showHelp   bool
	showVars   bool
	quitting   bool
	ready      bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Quit  key.Binding
	Clear key.Binding
	Tab   key.Binding
	Vars  key.Binding
	Help  key.Binding
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
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "ctrl+d"),
		key.WithHelp("ctrl+c", "quit"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "autocomplete"),
	),
	Vars: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("ctrl+v", "toggle vars"),
	),
	Help: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
}

func newREPLCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.newREPLModel()
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// newREPLModel builds a model whose engine prints into a buffer that is
// drained into the history after each evaluation.
func (a *app) newREPLModel() (replModel, error) {
	ti := textinput.New()
	ti.Placeholder = "type a pipeline..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = styles.prompt
	ti.Prompt = "mt> "

	output := &bytes.Buffer{}
	engine, err := a.newEngine(output)
	if err != nil {
		return replModel{}, err
	}

	return replModel{
		textInput:  ti,
		engine:     engine,
		env:        mt.NewEnv(),
		output:     output,
		historyIdx: -1,
	}, nil
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Clear):
			m.history = nil
			return m, nil

		case key.Matches(msg, keys.Vars):
			m.showVars = !m.showVars
			return m, nil

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			return m.recall(-1), nil

		case key.Matches(msg, keys.Down):
			return m.recall(1), nil

		case key.Matches(msg, keys.Tab):
			m = m.handleAutocomplete()
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}
			m.textInput.SetValue("")
			m.historyIdx = -1

			if strings.HasPrefix(input, ":") {
				return m.handleCommand(input)
			}

			m = m.evaluate(input)
			m.cmdHistory = append(m.cmdHistory, input)
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// recall moves through previously submitted lines. Stepping past the newest
// line clears the input.
func (m replModel) recall(step int) replModel {
	if len(m.cmdHistory) == 0 {
		return m
	}
	switch {
	case m.historyIdx == -1 && step < 0:
		m.historyIdx = len(m.cmdHistory) - 1
	case m.historyIdx == -1:
		return m
	default:
		m.historyIdx = min(max(m.historyIdx+step, 0), len(m.cmdHistory))
	}
	if m.historyIdx == len(m.cmdHistory) {
		m.historyIdx = -1
		m.textInput.SetValue("")
	} else {
		m.textInput.SetValue(m.cmdHistory[m.historyIdx])
	}
	m.textInput.CursorEnd()
	return m
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	name := strings.Fields(input)[0]

	switch name {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = nil
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":reset", ":r":
		m.env = mt.NewEnv()
		m.history = append(m.history, historyEntry{input: input, output: "Environment reset"})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", name),
			isErr:  true,
		})
	}
	return m, nil
}

// completions returns function names, shorthands and $variables that start
// with word.
func (m replModel) completions(word string) []string {
	var out []string
	if strings.HasPrefix(word, "$") || strings.HasPrefix(word, "=$") {
		sigil := word[:strings.IndexByte(word, '$')+1]
		for _, name := range m.env.Names() {
			if strings.HasPrefix(sigil+name, word) {
				out = append(out, sigil+name)
			}
		}
		return out
	}
	for _, desc := range m.engine.Registry().Descriptors() {
		if strings.HasPrefix(desc.Name, word) {
			out = append(out, desc.Name)
		}
	}
	for _, literal := range []string{"true", "false", "null", "var"} {
		if strings.HasPrefix(literal, word) {
			out = append(out, literal)
		}
	}
	sort.Strings(out)
	return out
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	words := strings.Fields(input)
	if len(words) == 0 || strings.HasSuffix(input, " ") {
		return m
	}
	lastWord := words[len(words)-1]

	completions := m.completions(lastWord)
	switch {
	case len(completions) == 1:
		prefix := strings.TrimSuffix(input, lastWord)
		m.textInput.SetValue(prefix + completions[0])
		m.textInput.CursorEnd()
	case len(completions) > 1:
		m.history = append(m.history, historyEntry{
			output: "Completions: " + strings.Join(completions, ", "),
		})
	}
	return m
}

// evaluate runs input against the session scope. Printed lines appear in the
// history ahead of the result.
func (m replModel) evaluate(input string) replModel {
	result, err := m.engine.Eval(context.Background(), input, m.env)

	printed := strings.TrimRight(m.output.String(), "\n")
	m.output.Reset()
	if printed != "" {
		m.history = append(m.history, historyEntry{input: input, output: printed})
		input = ""
	}

	if err != nil {
		m.history = append(m.history, historyEntry{input: input, output: err.Error(), isErr: true})
		return m
	}
	m.env.Define(lastResult, result)
	m.history = append(m.history, historyEntry{input: input, output: result.String()})
	return m
}

func (m replModel) View() string {
	switch {
	case !m.ready:
		return "Loading..."
	case m.quitting:
		return styles.muted.Render("Goodbye!\n")
	}

	var b strings.Builder
	b.WriteString(styles.header.Render("mt REPL") + " " + styles.muted.Render("v"+Version) + "\n")
	b.WriteString(styles.muted.Render(strings.Repeat("─", max(min(m.width-2, 60), 0))) + "\n\n")
	b.WriteString(m.renderHistory())

	if m.showVars {
		b.WriteString(renderVarsPanel(m.env) + "\n")
	}
	if m.showHelp {
		b.WriteString(renderHelpPanel() + "\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")
	for i, binding := range []key.Binding{keys.Help, keys.Vars, keys.Clear, keys.Quit} {
		if i > 0 {
			b.WriteString("  ")
		}
		help := binding.Help()
		b.WriteString(styles.key.Render(help.Key) + " " + styles.desc.Render(help.Desc))
	}
	return b.String()
}

// renderHistory renders as many of the newest entries as fit the window.
func (m replModel) renderHistory() string {
	reserved := 8
	if m.showHelp {
		reserved += 10
	}
	if m.showVars {
		reserved += len(m.env.Names()) + 3
	}
	entries := m.history
	if fit := max(m.height-reserved, 1); len(entries) > fit {
		entries = entries[len(entries)-fit:]
	}

	var b strings.Builder
	for _, entry := range entries {
		if entry.input != "" {
			b.WriteString(styles.muted.Render("  › ") + entry.input + "\n")
		}
		if entry.isErr {
			b.WriteString("  " + styles.err.Render("✗ "+entry.output) + "\n\n")
		} else {
			b.WriteString("  " + styles.result.Render("→ "+entry.output) + "\n\n")
		}
	}
	return b.String()
}

func renderVarsPanel(env *mt.Env) string {
	names := env.Names()
	if len(names) == 0 {
		return styles.panel.Render(styles.muted.Render("No variables defined"))
	}

	lines := []string{styles.title.Render("Variables")}
	for _, name := range names {
		value := styles.muted.Render("unassigned")
		if v, err := env.Get(name); err == nil {
			value = v.String()
		}
		lines = append(lines, fmt.Sprintf("  %s = %s", styles.name.Render("$"+name), value))
	}
	return styles.panel.Render(strings.Join(lines, "\n"))
}

var replHelp = [][2]string{
	{"↑/↓", "Navigate command history"},
	{"Tab", "Complete functions and $variables"},
	{"Enter", "Run pipeline"},
	{":help", "Toggle this help"},
	{":vars", "Toggle variables panel"},
	{":clear", "Clear history"},
	{":reset", "Reset variables"},
	{":quit", "Exit REPL"},
}

func renderHelpPanel() string {
	lines := []string{styles.title.Render("Help")}
	for _, h := range replHelp {
		lines = append(lines, "  "+styles.key.Render(fmt.Sprintf("%-8s", h[0]))+"  "+styles.desc.Render(h[1]))
	}
	return styles.panel.Render(strings.Join(lines, "\n"))
}
