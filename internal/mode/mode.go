// Package mode defines the mode controller interface and shared services.
package mode

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/atlas/internal/config"
	"github.com/zjrosen/atlas/internal/history"
	"github.com/zjrosen/atlas/internal/mode/shared"
	"github.com/zjrosen/atlas/internal/search"
	"github.com/zjrosen/atlas/internal/ui/toaster"
)

// AppMode identifies the current application mode.
type AppMode int

const (
	ModeCatalog AppMode = iota
	ModeLayers
)

func (m AppMode) String() string {
	switch m {
	case ModeLayers:
		return "layers"
	default:
		return "catalog"
	}
}

// Controller defines the interface all modes must implement.
type Controller interface {
	// Init returns initial commands for the mode.
	Init() tea.Cmd

	// Update handles messages and returns updated model and commands.
	Update(msg tea.Msg) (Controller, tea.Cmd)

	// View renders the mode's UI.
	View() string

	// SetSize handles terminal resize events.
	SetSize(width, height int) Controller
}

// Services contains shared dependencies injected into mode controllers.
type Services struct {
	Executor search.Executor
	// Cache is the response cache wrapped by Executor, nil when caching is off.
	Cache      *search.CachedExecutor
	History    history.Repository
	Config     *config.Config
	ConfigPath string
	Clock      shared.Clock
	Clipboard  shared.Clipboard
}

// ShowToastMsg asks the app to display a notification.
type ShowToastMsg struct {
	Message string
	Style   toaster.Style
}

// Toast returns a command emitting ShowToastMsg.
func Toast(message string, style toaster.Style) tea.Cmd {
	return func() tea.Msg {
		return ShowToastMsg{Message: message, Style: style}
	}
}
