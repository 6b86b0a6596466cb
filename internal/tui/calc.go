// Package tui is the terminal scrap calculator behind "a1site calc".
package tui

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/poku-e/a1scrap/internal/calculator"
)

var (
	green = lipgloss.Color("#0bb169")
	muted = lipgloss.Color("#6b7a72")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(green).MarginBottom(1)
	nameStyle   = lipgloss.NewStyle().Width(26)
	priceStyle  = lipgloss.NewStyle().Width(14).Foreground(muted)
	totalStyle  = lipgloss.NewStyle().Width(14).Align(lipgloss.Right).Bold(true).Foreground(green)
	cursorStyle = lipgloss.NewStyle().Foreground(green).Bold(true)
	footerStyle = lipgloss.NewStyle().MarginTop(1).BorderStyle(lipgloss.NormalBorder()).BorderTop(true).BorderForeground(muted)
	helpStyle   = lipgloss.NewStyle().Foreground(muted)
)

const defaultVisible = 12

// Model is a bubbletea model with one quantity input per catalog item.
// Totals are recomputed on every keystroke.
type Model struct {
	calc    *calculator.Calculator
	items   []calculator.Item
	inputs  []textinput.Model
	focus   int
	offset  int
	visible int
	quote   calculator.Quote
}

func New(calc *calculator.Calculator) Model {
	items := calculator.Catalog()
	inputs := make([]textinput.Model, len(items))
	for i := range items {
		ti := textinput.New()
		ti.Placeholder = "0"
		ti.Prompt = ""
		ti.CharLimit = 10
		ti.Width = 10
		inputs[i] = ti
	}
	inputs[0].Focus()

	return Model{
		calc:    calc,
		items:   items,
		inputs:  inputs,
		visible: defaultVisible,
		quote:   calc.Reset(),
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

// Quote is the quote for the current inputs.
func (m Model) Quote() calculator.Quote { return m.quote }

// Focused is the id of the item whose input has focus.
func (m Model) Focused() string { return m.items[m.focus].ID }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// title, footer and help take about 8 lines
		m.visible = max(3, msg.Height-8)
		m.scroll()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+r":
			for i := range m.inputs {
				m.inputs[i].SetValue("")
			}
			m.quote = m.calc.Reset()
			return m, nil
		case "enter":
			m.recompute()
			return m, m.move(1)
		case "tab", "down":
			return m, m.move(1)
		case "shift+tab", "up":
			return m, m.move(-1)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.recompute()
	return m, cmd
}

func (m *Model) move(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.scroll()
	return m.inputs[m.focus].Focus()
}

func (m *Model) scroll() {
	if m.focus < m.offset {
		m.offset = m.focus
	}
	if m.focus >= m.offset+m.visible {
		m.offset = m.focus - m.visible + 1
	}
}

func (m *Model) recompute() {
	v := make(url.Values, len(m.items))
	for i, it := range m.items {
		v.Set(it.QtyField(), m.inputs[i].Value())
	}
	m.quote = m.calc.Quote(calculator.ParseQuantities(v))
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("A1 Scrap price calculator"))
	b.WriteString("\n")

	end := min(len(m.items), m.offset+m.visible)
	for i := m.offset; i < end; i++ {
		it := m.items[i]
		cursor := "  "
		if i == m.focus {
			cursor = cursorStyle.Render("> ")
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			cursor,
			nameStyle.Render(it.Name),
			priceStyle.Render(calculator.UnitPrice(it)),
			m.inputs[i].View(),
			totalStyle.Render(calculator.FormatINR(m.quote.Lines[i].Total)),
		))
		b.WriteString("\n")
	}
	if len(m.items) > m.visible {
		b.WriteString(helpStyle.Render(fmt.Sprintf("  %d-%d of %d", m.offset+1, end, len(m.items))))
		b.WriteString("\n")
	}

	footer := fmt.Sprintf("Items total: %s\nGST (%g%%): %s\nEstimated total: %s",
		calculator.FormatINR(m.quote.ItemsTotal),
		m.quote.TaxRate,
		calculator.FormatINR(m.quote.Tax),
		calculator.FormatINR(m.quote.GrandTotal))
	b.WriteString(footerStyle.Render(footer))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab/↓ next • shift+tab/↑ prev • enter calculate • ctrl+r reset • esc quit"))
	b.WriteString("\n")
	return b.String()
}
