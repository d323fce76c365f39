// Package toaster shows transient notifications over the current view.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/atlas/internal/ui/overlay"
	"github.com/zjrosen/atlas/internal/ui/styles"
)

// DefaultDuration is how long a toast stays visible.
const DefaultDuration = 3 * time.Second

// Style selects icon and border color.
type Style int

const (
	StyleSuccess Style = iota
	StyleError
	StyleInfo
	StyleWarn
)

// Model is the toast state. Each Show bumps a generation so that dismiss
// timers scheduled for an older toast do not hide a newer one.
type Model struct {
	message    string
	style      Style
	visible    bool
	generation int
}

func New() Model {
	return Model{}
}

// Show displays message and returns the command that dismisses it after d.
func (m Model) Show(message string, style Style, d time.Duration) (Model, tea.Cmd) {
	m.message = message
	m.style = style
	m.visible = true
	m.generation++
	return m, scheduleDismiss(m.generation, d)
}

// Update handles DismissMsg.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.generation == m.generation {
		return m.Hide()
	}
	return m
}

func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

func (m Model) Visible() bool {
	return m.visible
}

func (m Model) Message() string {
	return m.message
}

func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}

	box := lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	var icon string
	switch m.style {
	case StyleError:
		box = box.BorderForeground(styles.StatusErrorColor)
		icon = "✗ "
	case StyleInfo:
		box = box.BorderForeground(styles.StatusInfoColor)
		icon = "i "
	case StyleWarn:
		box = box.BorderForeground(styles.StatusWarningColor)
		icon = "! "
	default:
		box = box.BorderForeground(styles.StatusSuccessColor)
		icon = "✓ "
	}
	return box.Render(icon + m.message)
}

// Overlay draws the toast in the top right corner of bg.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.visible || m.message == "" {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.TopRight,
		PadX:     1,
		PadY:     1,
	}, m.View(), bg)
}

// DismissMsg hides the toast it was scheduled for.
type DismissMsg struct {
	generation int
}

func scheduleDismiss(generation int, d time.Duration) tea.Cmd {
	if d <= 0 {
		d = DefaultDuration
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return DismissMsg{generation: generation}
	})
}
