// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

// Choice is one snapshot offered by the picker.
type Choice struct {
	Name    string
	Entries int
	ModTime time.Time
}

// SelectSnapshots lets the user pick two snapshots to compare. It returns
// nil when the picker is abandoned. The first selection is the A side.
func SelectSnapshots(items []Choice) []Choice {
	p := tea.NewProgram(model{items: items})
	m, err := p.Run()
	if err != nil {
		return nil
	}
	return m.(model).selected
}

type model struct {
	items    []Choice
	cursor   int
	selected []Choice
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc", "ctrl+c":
			m.selected = nil
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case " ":
			if len(m.items) == 0 {
				return m, nil
			}
			if i := indexOf(m.selected, m.items[m.cursor]); i >= 0 {
				m.selected = append(m.selected[:i:i], m.selected[i+1:]...)
			} else if len(m.selected) < 2 {
				m.selected = append(m.selected, m.items[m.cursor])
			}
		case "enter":
			if len(m.selected) == 2 {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m model) View() string {
	s := "Select two snapshots (A then B):\n\n"
	for i, c := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		mark := " "
		switch indexOf(m.selected, c) {
		case 0:
			mark = "A"
		case 1:
			mark = "B"
		}

		when := "-"
		if !c.ModTime.IsZero() {
			when = humanize.Time(c.ModTime)
		}
		s += fmt.Sprintf("%s [%s] %-32s %5d  %s\n", cursor, mark, c.Name, c.Entries, when)
	}
	return s + "\nSPACE: toggle, ENTER: go, Q/ESCAPE: quit\n"
}

func indexOf(choices []Choice, c Choice) int {
	for i, v := range choices {
		if v.Name == c.Name {
			return i
		}
	}
	return -1
}
