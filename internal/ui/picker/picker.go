// Package picker is a filterable option list used to choose a catalog
// service.
package picker

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/atlas/internal/catalog"
	"github.com/zjrosen/atlas/internal/ui/overlay"
	"github.com/zjrosen/atlas/internal/ui/styles"
)

const defaultBoxWidth = 40

// SelectMsg reports the chosen option.
type SelectMsg struct {
	Option catalog.Option
}

// CancelMsg is sent when the picker is dismissed without a choice.
type CancelMsg struct{}

// Model is the picker state. Typing narrows the list by label; an empty
// result shows noResults.
type Model struct {
	title          string
	noResults      string
	options        []catalog.Option
	filtered       []catalog.Option
	filter         string
	cursor         int
	boxWidth       int
	viewportWidth  int
	viewportHeight int
	zonePrefix     string
}

// New creates a picker over options.
func New(title, noResults string, options []catalog.Option) Model {
	m := Model{
		title:      title,
		noResults:  noResults,
		options:    options,
		boxWidth:   defaultBoxWidth,
		zonePrefix: zone.NewPrefix(),
	}
	m.applyFilter()
	return m
}

// SetSize records the viewport for overlay centering.
func (m Model) SetSize(width, height int) Model {
	m.viewportWidth = width
	m.viewportHeight = height
	return m
}

// SetSelected moves the cursor to value when it is visible.
func (m Model) SetSelected(value string) Model {
	for i, opt := range m.filtered {
		if opt.Value == value {
			m.cursor = i
		}
	}
	return m
}

// Selected returns the option under the cursor.
func (m Model) Selected() (catalog.Option, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return catalog.Option{}, false
	}
	return m.filtered[m.cursor], true
}

// Filter returns the typed filter text.
func (m Model) Filter() string {
	return m.filter
}

// Visible returns the options matching the filter.
func (m Model) Visible() []catalog.Option {
	return m.filtered
}

func (m *Model) applyFilter() {
	needle := strings.ToLower(m.filter)
	m.filtered = make([]catalog.Option, 0, len(m.options))
	for _, opt := range m.options {
		if needle == "" || strings.Contains(strings.ToLower(opt.Label), needle) {
			m.filtered = append(m.filtered, opt)
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(len(m.filtered)-1, 0)
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyDown, tea.KeyCtrlN:
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
		case tea.KeyUp, tea.KeyCtrlP:
			if m.cursor > 0 {
				m.cursor--
			}
		case tea.KeyEnter:
			if opt, ok := m.Selected(); ok {
				return m, selectCmd(opt)
			}
		case tea.KeyEsc:
			return m, func() tea.Msg { return CancelMsg{} }
		case tea.KeyBackspace:
			if r := []rune(m.filter); len(r) > 0 {
				m.filter = string(r[:len(r)-1])
				m.applyFilter()
			}
		case tea.KeyRunes, tea.KeySpace:
			m.filter += string(msg.Runes)
			if msg.Type == tea.KeySpace {
				m.filter += " "
			}
			m.cursor = 0
			m.applyFilter()
		}

	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
			return m, nil
		}
		for i, opt := range m.filtered {
			if z := zone.Get(m.optionZone(i)); z != nil && z.InBounds(msg) {
				m.cursor = i
				return m, selectCmd(opt)
			}
		}
	}
	return m, nil
}

func selectCmd(opt catalog.Option) tea.Cmd {
	return func() tea.Msg { return SelectMsg{Option: opt} }
}

func (m Model) optionZone(i int) string {
	return fmt.Sprintf("%soption:%d", m.zonePrefix, i)
}

// View renders the picker box.
func (m Model) View() string {
	width := m.boxWidth
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).PaddingLeft(1)
	divider := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor).Render(strings.Repeat("─", width))

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(" " + styles.HintStyle.Render("filter: ") + m.filter + "▏")
	b.WriteString("\n")
	b.WriteString(divider)

	if len(m.filtered) == 0 {
		b.WriteString("\n ")
		b.WriteString(styles.HintStyle.Italic(true).Render(m.noResults))
	}
	for i, opt := range m.filtered {
		label := opt.Label + " " + styles.TypeBadge(string(opt.ServiceDefinition.Type))
		var line string
		if i == m.cursor {
			line = styles.SelectionIndicatorStyle.Render(">") + lipgloss.NewStyle().Bold(true).Render(label)
		} else {
			line = " " + label
		}
		b.WriteString("\n")
		b.WriteString(zone.Mark(m.optionZone(i), line))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width).
		Render(b.String())
}

// Overlay centers the picker over background.
func (m Model) Overlay(background string) string {
	box := m.View()
	if background == "" {
		return lipgloss.Place(m.viewportWidth, m.viewportHeight, lipgloss.Center, lipgloss.Center, box)
	}
	return overlay.Place(overlay.Config{
		Width:    m.viewportWidth,
		Height:   m.viewportHeight,
		Position: overlay.Center,
	}, box, background)
}
