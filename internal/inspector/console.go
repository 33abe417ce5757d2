// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inspector

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tfctl/lorectl/internal/snapshot"
	"github.com/tfctl/lorectl/internal/textdiff"
)

// Console is the interactive front end of an Inspector.
type Console struct {
	Inspector *Inspector
	Diff      textdiff.Options
	// HistoryFile persists entered commands. Empty disables history.
	HistoryFile string
}

// DefaultHistoryFile returns ~/.lorectl_ei_history.
func DefaultHistoryFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".lorectl_ei_history"
	}
	return filepath.Join(homeDir, ".lorectl_ei_history")
}

// Run starts the console and blocks until the user leaves it.
func (c *Console) Run(ctx context.Context) error {
	p := tea.NewProgram(c.model(ctx), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Execute runs one console command and returns its output. quit is set for
// exit and quit.
func (c *Console) Execute(ctx context.Context, line string) (out string, quit bool) {
	line = strings.TrimSpace(line)
	verb, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch {
	case line == "":
		return "", false
	case line == "exit" || line == "quit":
		return "", true
	case line == "help":
		return consoleHelp, false
	case strings.HasPrefix(line, "/"):
		v, err := Evaluate(line[1:], c.Inspector.Current())
		if err != nil {
			return "Error " + err.Error(), false
		}
		return v, false
	case verb == "show":
		if arg == "" {
			return render(c.Inspector.Current()), false
		}
		return render(c.Inspector.Show(ParseQuery(arg))), false
	case verb == "refresh":
		ins, err := c.Inspector.Refresh(ctx)
		if err != nil {
			return "Warning: " + err.Error() + "\n" + render(ins), false
		}
		return render(ins), false
	case verb == "diff":
		var b bytes.Buffer
		if err := c.Inspector.Compare(&b, c.Diff); err != nil {
			return "Error: " + err.Error(), false
		}
		return strings.TrimSuffix(b.String(), "\n"), false
	case verb == "drill":
		side, path, ok := strings.Cut(arg, " ")
		if !ok || (side != "a" && side != "b") {
			return "Usage: drill a|b PATH", false
		}
		ins := c.Inspector.Current()
		v := ins.A
		if side == "b" {
			v = ins.B
		}
		r := Drill(v, strings.TrimSpace(path))
		if !r.Exists() {
			return "No results found.", false
		}
		return r.String(), false
	case verb == "list":
		return c.list(), false
	default:
		return fmt.Sprintf("Unknown command %q. Type 'help' for syntax.", verb), false
	}
}

func (c *Console) list() string {
	a, b := c.Inspector.Snapshots()
	seen := map[string]bool{}
	var lines []string
	for _, s := range [][]string{signatures(a.Entries), signatures(b.Entries)} {
		for _, sig := range s {
			if !seen[sig] {
				seen[sig] = true
				lines = append(lines, sig)
			}
		}
	}
	if len(lines) == 0 {
		return "No entries."
	}
	return strings.Join(lines, "\n")
}

func signatures(entries []snapshot.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Signature().String())
	}
	return out
}

func render(ins Inspection) string {
	var b bytes.Buffer
	_ = Format(&b, ins)
	return strings.TrimSuffix(b.String(), "\n")
}

type consoleModel struct {
	ctx            context.Context
	console        *Console
	input          textinput.Model
	history        []string // Full history for navigation (includes file history)
	sessionHistory []string // Only commands from this session (matches with outputs)
	histIndex      int
	output         []string
}

func (c *Console) model(ctx context.Context) consoleModel {
	ti := textinput.New()
	ti.Placeholder = ""
	ti.Focus()
	ti.CharLimit = 2048
	ti.Width = 999
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorBlink)

	a, b := c.Inspector.Snapshots()
	return consoleModel{
		ctx:       ctx,
		console:   c,
		input:     ti,
		history:   loadHistory(c.HistoryFile),
		histIndex: -1,
		output: []string{
			fmt.Sprintf("Inspecting %s (%d entries) against %s (%d entries).", a.Name, a.Len(), b.Name, b.Len()),
			"Type 'help' for syntax, 'exit' or Ctrl+C to quit.",
		},
	}
}

func (m consoleModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			entry := m.input.Value()
			if strings.TrimSpace(entry) != "" {
				out, quit := m.console.Execute(m.ctx, entry)
				if quit {
					return m, tea.Quit
				}
				m.history = append(m.history, entry)
				m.sessionHistory = append(m.sessionHistory, entry)
				m.histIndex = -1
				m.output = append(m.output, out)
				saveHistory(m.console.HistoryFile, m.history)
			}
			m.input.SetValue("")
			return m, nil

		case "up":
			if len(m.history) == 0 {
				return m, nil
			}
			if m.histIndex == -1 {
				m.histIndex = len(m.history) - 1
			} else if m.histIndex > 0 {
				m.histIndex--
			}
			m.input.SetValue(m.history[m.histIndex])
			m.input.CursorEnd()
			return m, nil

		case "down":
			if len(m.history) == 0 {
				return m, nil
			}
			if m.histIndex >= 0 && m.histIndex < len(m.history)-1 {
				m.histIndex++
				m.input.SetValue(m.history[m.histIndex])
				m.input.CursorEnd()
			} else {
				m.histIndex = -1
				m.input.SetValue("")
			}
			return m, nil

		case "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

var promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#623CE4"))

func (m consoleModel) View() string {
	var lines []string

	// The first two outputs are the banner.
	lines = append(lines, m.output[:2]...)

	for i, entry := range m.sessionHistory {
		lines = append(lines, promptStyle.Render("> ")+entry)
		if i+2 < len(m.output) && m.output[i+2] != "" {
			lines = append(lines, m.output[i+2])
		}
	}

	lines = append(lines, promptStyle.Render("> ")+m.input.View())
	return strings.Join(lines, "\n")
}

const consoleHelp = `Commands:
  show [SIGNATURE]     inspect key|category|character; '*' or a missing
                       trailing field matches anything. Without an argument
                       the current inspection is shown again.
  list                 list every signature in either snapshot
  refresh              re-read both snapshots from the repository
  diff                 full-content diff of the current entry
  drill a|b PATH       extract a dotted path from one side, e.g.
                       drill b content.tags[1]
  /EXPR                evaluate an HCL expression over a, b and status
                       /a.value == b.value
                       /upper(b.label)
                       /try(b.content.weight - a.content.weight, "n/a")
  help                 this text
  exit                 leave (also Ctrl+C or Esc)

Navigation:
  ↑/↓ arrows           command history`

func loadHistory(filename string) []string {
	var history []string
	if filename == "" {
		return history
	}

	file, err := os.Open(filename)
	if err != nil {
		return history
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			history = append(history, line)
		}
	}
	return history
}

func saveHistory(filename string, history []string) {
	if filename == "" {
		return
	}

	const maxHistory = 1000
	start := 0
	if len(history) > maxHistory {
		start = len(history) - maxHistory
	}

	file, err := os.Create(filename)
	if err != nil {
		return
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for i := start; i < len(history); i++ {
		fmt.Fprintln(writer, history[i])
	}
	writer.Flush()
}
