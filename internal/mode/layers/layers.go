// Package layers implements the map composition mode: the list of layers
// added from the catalog.
package layers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/atlas/internal/i18n"
	"github.com/zjrosen/atlas/internal/keys"
	"github.com/zjrosen/atlas/internal/log"
	"github.com/zjrosen/atlas/internal/mode"
	"github.com/zjrosen/atlas/internal/mode/shared"
	"github.com/zjrosen/atlas/internal/ui/styles"
	"github.com/zjrosen/atlas/internal/ui/toaster"
)

// BackMsg asks the app to return to the catalog.
type BackMsg struct{}

// Model is the layer list.
type Model struct {
	services mode.Services
	locale   string
	layers   []Layer
	cursor   int

	zonePrefix string
	width      int
	height     int
}

func New(services mode.Services) Model {
	locale := "en-US"
	if services.Config != nil && services.Config.Catalog.Locale != "" {
		locale = services.Config.Catalog.Locale
	}
	if services.Clock == nil {
		services.Clock = shared.RealClock{}
	}
	return Model{
		services:   services,
		locale:     locale,
		zonePrefix: zone.NewPrefix(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Add appends l and moves the cursor onto it.
func (m Model) Add(l Layer) Model {
	layers := make([]Layer, len(m.layers), len(m.layers)+1)
	copy(layers, m.layers)
	m.layers = append(layers, l)
	m.cursor = len(m.layers) - 1
	log.Info(log.CatMode, "Layer added", "title", l.Title, "name", l.Name, "service", l.Service)
	return m
}

// Layers returns the composition, oldest first.
func (m Model) Layers() []Layer {
	return m.layers
}

// Selected returns the layer under the cursor.
func (m Model) Selected() (Layer, bool) {
	if m.cursor < 0 || m.cursor >= len(m.layers) {
		return Layer{}, false
	}
	return m.layers[m.cursor], true
}

func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		for i := range m.layers {
			if z := zone.Get(m.rowZone(i)); z != nil && z.InBounds(msg) {
				m.cursor = i
				return m, nil
			}
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Layers.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Layers.Down):
		if m.cursor < len(m.layers)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Layers.Remove):
		return m.remove()
	case key.Matches(msg, keys.Layers.Yank):
		return m.yank()
	case key.Matches(msg, keys.Layers.Back):
		return m, func() tea.Msg { return BackMsg{} }
	}
	return m, nil
}

func (m Model) remove() (Model, tea.Cmd) {
	l, ok := m.Selected()
	if !ok {
		return m, nil
	}
	layers := make([]Layer, 0, len(m.layers)-1)
	layers = append(layers, m.layers[:m.cursor]...)
	m.layers = append(layers, m.layers[m.cursor+1:]...)
	if m.cursor >= len(m.layers) {
		m.cursor = max(len(m.layers)-1, 0)
	}
	log.Info(log.CatMode, "Layer removed", "title", l.Title)
	return m, mode.Toast(i18n.T(m.locale, "layers.removed", i18n.Params{"title": l.Title}), toaster.StyleInfo)
}

func (m Model) yank() (Model, tea.Cmd) {
	l, ok := m.Selected()
	if !ok || m.services.Clipboard == nil {
		return m, nil
	}
	if err := m.services.Clipboard.Copy(l.URL); err != nil {
		log.ErrorErr(log.CatUI, "Clipboard copy failed", err)
		return m, mode.Toast(i18n.T(m.locale, "layers.copyFailed", nil), toaster.StyleError)
	}
	return m, mode.Toast(i18n.T(m.locale, "layers.copied", i18n.Params{"title": l.Title}), toaster.StyleSuccess)
}

func (m Model) rowZone(i int) string {
	return fmt.Sprintf("%slayer:%d", m.zonePrefix, i)
}

var (
	cursorStyle = lipgloss.NewStyle().Foreground(styles.SelectionIndicatorColor).Bold(true)
	nameStyle   = lipgloss.NewStyle().Foreground(styles.TextDescriptionColor)
)

func (m Model) View() string {
	w, h := m.width, m.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	inner := max(w-4, 10)

	var content string
	if len(m.layers) == 0 {
		content = styles.HintStyle.Render(i18n.T(m.locale, "layers.empty", nil))
	} else {
		rows := make([]string, 0, len(m.layers))
		for i, l := range m.layers {
			rows = append(rows, zone.Mark(m.rowZone(i), m.renderRow(l, i == m.cursor, inner)))
		}
		content = strings.Join(rows, "\n")
	}

	return styles.Panel{
		Title:   i18n.T(m.locale, "layers.title", nil),
		Footer:  i18n.T(m.locale, "layers.count", i18n.Params{"count": len(m.layers)}),
		Width:   w,
		Height:  h,
		Focused: true,
	}.Render(content)
}

func (m Model) renderRow(l Layer, selected bool, width int) string {
	indicator := "  "
	title := styles.RecordTitleStyle
	if selected {
		indicator = cursorStyle.Render("▸ ")
		title = title.Underline(true)
	}
	age := styles.HintStyle.Render(i18n.T(m.locale, "layers.added", i18n.Params{"age": shared.Age(l.AddedAt, m.services.Clock)}))
	badge := styles.TypeBadge(string(l.Type))

	fixed := lipgloss.Width(indicator) + lipgloss.Width(badge) + lipgloss.Width(age) + 3
	label := runewidth.Truncate(l.Title, max(width-fixed, 4), "…")
	line := indicator + title.Render(label) + " " + badge + "  " + age

	detail := "    " + nameStyle.Render(runewidth.Truncate(l.Name+" · "+l.URL, max(width-4, 4), "…"))
	return line + "\n" + detail
}
