package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type interactiveModel struct {
	err      error
	scratch  *scratch
	result   *encodeResult
	entries  []entry
	visible  []int
	filter   textinput.Model
	value    textinput.Model
	selected int
	caseIdx  int
	state    modelState
}

type modelState int

const (
	stateSelectType modelState = iota
	stateSelectCase
	stateInputValue
	stateShowResult
)

func newInteractiveModel(entries []entry, s *scratch) *interactiveModel {
	filter := textinput.New()
	filter.Placeholder = "filter types"
	filter.Prompt = "/ "
	filter.Width = 40
	filter.Focus()

	m := &interactiveModel{
		entries: entries,
		scratch: s,
		filter:  filter,
		state:   stateSelectType,
	}
	m.applyFilter()
	return m
}

func runInteractive(entries []entry) error {
	if len(entries) == 0 {
		return fmt.Errorf("no variant-like types found")
	}
	s, err := newScratch()
	if err != nil {
		return err
	}
	defer s.close()

	p := tea.NewProgram(newInteractiveModel(entries, s))
	_, err = p.Run()
	return err
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) applyFilter() {
	q := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, e := range m.entries {
		if q == "" || strings.Contains(strings.ToLower(e.name), q) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *interactiveModel) current() (entry, bool) {
	if len(m.visible) == 0 {
		return entry{}, false
	}
	return m.entries[m.visible[m.selected]], true
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "up":
			switch m.state {
			case stateSelectType:
				if m.selected > 0 {
					m.selected--
				}
			case stateSelectCase:
				if m.caseIdx > 0 {
					m.caseIdx--
				}
			}
			return m, nil

		case "down":
			switch m.state {
			case stateSelectType:
				if m.selected < len(m.visible)-1 {
					m.selected++
				}
			case stateSelectCase:
				if e, ok := m.current(); ok && m.caseIdx < e.codec.Set().Len()-1 {
					m.caseIdx++
				}
			}
			return m, nil

		case "enter":
			return m.enter()

		case "esc":
			switch m.state {
			case stateSelectType:
				return m, tea.Quit
			case stateSelectCase:
				m.state = stateSelectType
				m.filter.Focus()
			case stateInputValue:
				m.state = stateSelectCase
				m.value.Blur()
			case stateShowResult:
				m.state = stateSelectCase
				m.result = nil
				m.err = nil
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case stateSelectType:
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
	case stateInputValue:
		m.value, cmd = m.value.Update(msg)
	}
	return m, cmd
}

func (m *interactiveModel) enter() (tea.Model, tea.Cmd) {
	switch m.state {
	case stateSelectType:
		if _, ok := m.current(); ok {
			m.state = stateSelectCase
			m.caseIdx = 0
			m.filter.Blur()
		}

	case stateSelectCase:
		e, _ := m.current()
		c := e.codec.Cases()[m.caseIdx]
		if c.WitType() == "" {
			m.encode(c.Name, "")
			return m, nil
		}
		ti := textinput.New()
		ti.Placeholder = c.WitType()
		ti.Prompt = c.Name + ": "
		ti.Width = 40
		ti.Focus()
		m.value = ti
		m.state = stateInputValue
		return m, textinput.Blink

	case stateInputValue:
		e, _ := m.current()
		m.encode(e.codec.Cases()[m.caseIdx].Name, m.value.Value())

	case stateShowResult:
		m.state = stateSelectCase
		m.result = nil
		m.err = nil
	}
	return m, nil
}

func (m *interactiveModel) encode(caseName, text string) {
	e, _ := m.current()
	m.result, m.err = m.scratch.encode(e, caseName+"="+text)
	m.state = stateShowResult
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Variant Layout"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectType:
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		for i, idx := range m.visible {
			e := m.entries[idx]
			line := e.name + " " + typeStyle.Render(e.kind)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + e.name + " " + e.kind))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		if len(m.visible) == 0 {
			b.WriteString(helpStyle.Render("  no matching types"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("type to filter • ↑/↓ select • enter open • esc quit"))

	case stateSelectCase:
		e, _ := m.current()
		b.WriteString(entryHeader(e, true))
		b.WriteString("\n\n")
		for i, c := range e.codec.Cases() {
			label := c.Name
			if wt := c.WitType(); wt != "" {
				label += "(" + wt + ")"
			}
			if i == m.caseIdx {
				b.WriteString(selectedStyle.Render("> " + label))
			} else {
				b.WriteString("  " + caseStyle.Render(label))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter encode • esc back"))

	case stateInputValue:
		e, _ := m.current()
		b.WriteString(fmt.Sprintf("Encoding %s\n\n", caseStyle.Render(e.name)))
		b.WriteString(m.value.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter encode • esc back"))

	case stateShowResult:
		e, _ := m.current()
		b.WriteString(renderEntry(e, true, 72))
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(renderResult(m.result, true))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • esc back • ctrl+c quit"))
	}

	return b.String()
}
