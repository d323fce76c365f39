// Package logview is the in-app log overlay. It keeps the most recent log
// lines delivered by a log listener and shows them filtered by level.
package logview

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/atlas/internal/log"
	"github.com/zjrosen/atlas/internal/ui/overlay"
	"github.com/zjrosen/atlas/internal/ui/styles"
)

const (
	// DefaultCapacity is the number of lines retained.
	DefaultCapacity = 500

	viewportMaxHeight = 25
	viewportMinHeight = 5
	boxMaxWidth       = 160
	boxMinWidth       = 40
)

// CloseMsg is sent when the overlay is dismissed.
type CloseMsg struct{}

// Model is the log overlay state.
type Model struct {
	visible  bool
	minLevel log.Level
	capacity int
	entries  []string
	width    int
	height   int
	viewport viewport.Model
}

// New creates a hidden overlay retaining up to capacity lines.
func New(capacity int) Model {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return Model{minLevel: log.LevelDebug, capacity: capacity}
}

// Append adds a log line, dropping the oldest beyond capacity.
func (m Model) Append(entry string) Model {
	entry = strings.TrimSuffix(entry, "\n")
	if entry == "" {
		return m
	}
	entries := make([]string, 0, min(len(m.entries)+1, m.capacity))
	if len(m.entries)+1 > m.capacity {
		entries = append(entries, m.entries[len(m.entries)+1-m.capacity:]...)
	} else {
		entries = append(entries, m.entries...)
	}
	m.entries = append(entries, entry)
	if m.visible {
		m.refresh()
	}
	return m
}

// Entries returns the retained lines passing the level filter.
func (m Model) Entries() []string {
	var out []string
	for _, e := range m.entries {
		if entryLevel(e) >= m.minLevel {
			out = append(out, e)
		}
	}
	return out
}

// MinLevel returns the active filter.
func (m Model) MinLevel() log.Level {
	return m.minLevel
}

func (m Model) Visible() bool {
	return m.visible
}

// Toggle flips visibility.
func (m Model) Toggle() Model {
	m.visible = !m.visible
	if m.visible {
		m.refresh()
	}
	return m
}

// SetSize records the screen size.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.refresh()
	return m
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "c":
			m.entries = nil
		case "d":
			m.minLevel = log.LevelDebug
		case "i":
			m.minLevel = log.LevelInfo
		case "w":
			m.minLevel = log.LevelWarn
		case "e":
			m.minLevel = log.LevelError
		case "j", "down":
			m.viewport.ScrollDown(1)
			return m, nil
		case "k", "up":
			m.viewport.ScrollUp(1)
			return m, nil
		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil
		case "ctrl+x", "esc":
			m.visible = false
			return m, func() tea.Msg { return CloseMsg{} }
		default:
			return m, nil
		}
		m.refresh()
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	}
	return m, nil
}

func (m *Model) refresh() {
	if m.width == 0 || m.height == 0 {
		return
	}
	height := max(min(viewportMaxHeight, m.height-6), viewportMinHeight)
	width := m.boxWidth() - 2
	m.viewport = viewport.New(width, height)
	m.viewport.SetContent(m.content(width))
	m.viewport.GotoBottom()
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m Model) content(width int) string {
	entries := m.Entries()
	if len(entries) == 0 {
		return styles.HintStyle.Italic(true).Render("No logs to display")
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		if ansi.StringWidth(e) > width {
			e = ansi.Truncate(e, width-3, "...")
		}
		lines[i] = levelStyle(entryLevel(e)).Render(e)
	}
	return strings.Join(lines, "\n")
}

// entryLevel reads the level tag written by the log package. Untagged lines
// are treated as errors so they are never filtered out.
func entryLevel(entry string) log.Level {
	switch {
	case strings.Contains(entry, "[DEBUG]"):
		return log.LevelDebug
	case strings.Contains(entry, "[INFO]"):
		return log.LevelInfo
	case strings.Contains(entry, "[WARN]"):
		return log.LevelWarn
	default:
		return log.LevelError
	}
}

func levelStyle(l log.Level) lipgloss.Style {
	switch l {
	case log.LevelDebug:
		return lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	case log.LevelInfo:
		return lipgloss.NewStyle().Foreground(styles.StatusInfoColor)
	case log.LevelWarn:
		return lipgloss.NewStyle().Foreground(styles.StatusWarningColor)
	default:
		return lipgloss.NewStyle().Foreground(styles.StatusErrorColor)
	}
}

// View renders the overlay box, or nothing when hidden.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	width := m.boxWidth()
	divider := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor).Render(strings.Repeat("─", width))
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).PaddingLeft(1).Render("Logs")

	body := strings.Join([]string{title, divider, m.viewport.View(), divider, m.hints()}, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width).
		Render(body)
}

func (m Model) hints() string {
	active := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)
	parts := []string{styles.HintStyle.Render("[c] Clear")}
	for _, f := range []struct {
		label string
		level log.Level
	}{
		{"[d] Debug", log.LevelDebug},
		{"[i] Info", log.LevelInfo},
		{"[w] Warn", log.LevelWarn},
		{"[e] Error", log.LevelError},
	} {
		if f.level == m.minLevel {
			parts = append(parts, active.Render(f.label))
		} else {
			parts = append(parts, styles.HintStyle.Render(f.label))
		}
	}
	return strings.Join(parts, "  ")
}

// Overlay draws the box centered on bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}
