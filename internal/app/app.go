// Package app contains the root application model. It owns the catalog
// state, runs searches and persists services on behalf of the views.
package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/atlas/internal/catalog"
	"github.com/zjrosen/atlas/internal/config"
	"github.com/zjrosen/atlas/internal/i18n"
	"github.com/zjrosen/atlas/internal/keys"
	"github.com/zjrosen/atlas/internal/log"
	"github.com/zjrosen/atlas/internal/mode"
	"github.com/zjrosen/atlas/internal/mode/catalogview"
	"github.com/zjrosen/atlas/internal/mode/layers"
	"github.com/zjrosen/atlas/internal/mode/shared"
	"github.com/zjrosen/atlas/internal/pubsub"
	"github.com/zjrosen/atlas/internal/ui/logview"
	"github.com/zjrosen/atlas/internal/ui/overlay"
	"github.com/zjrosen/atlas/internal/ui/styles"
	"github.com/zjrosen/atlas/internal/ui/toaster"
	"github.com/zjrosen/atlas/internal/watcher"
)

// Model is the root application state.
type Model struct {
	currentMode mode.AppMode
	catalog     catalogview.Model
	layers      layers.Model
	store       store

	services mode.Services

	width  int
	height int

	toaster  toaster.Model
	help     help.Model
	showHelp bool

	debugMode   bool
	logView     logview.Model
	logListener *log.LogListener

	ctx    context.Context
	cancel context.CancelFunc

	watcherHandle   *watcher.Watcher
	watcherListener *pubsub.ContinuousListener[watcher.Event]
}

// NewWithConfig creates the application model. services.ConfigPath is
// watched for changes when cfg.AutoReload is set. debugMode enables the log
// overlay (Ctrl+X toggle).
func NewWithConfig(cfg config.Config, services mode.Services, debugMode bool) Model {
	if services.Clock == nil {
		services.Clock = shared.RealClock{}
	}
	if services.Clipboard == nil {
		services.Clipboard = shared.SystemClipboard{}
	}
	if services.Config == nil {
		services.Config = &cfg
	}

	ctx, cancel := context.WithCancel(context.Background())

	var (
		watcherHandle   *watcher.Watcher
		watcherListener *pubsub.ContinuousListener[watcher.Event]
	)
	if cfg.AutoReload && services.ConfigPath != "" {
		w, err := watcher.New(watcher.DefaultConfig(services.ConfigPath))
		if err == nil {
			if err := w.Start(); err == nil {
				watcherHandle = w
				watcherListener = pubsub.NewContinuousListener(ctx, w.Broker())
			} else {
				_ = w.Stop()
				log.Warn(log.CatWatcher, "Config watcher did not start", "error", err)
			}
		} else {
			log.Warn(log.CatWatcher, "Config watcher unavailable", "error", err)
		}
	}

	var logListener *log.LogListener
	if debugMode {
		logListener = log.NewListener(ctx)
	}

	policy, err := catalog.ParseResetPolicy(cfg.Catalog.LoadingReset)
	if err != nil {
		log.Warn(log.CatConfig, "Unknown loading reset policy, using token", "value", cfg.Catalog.LoadingReset)
		policy = catalog.ResetOnToken
	}

	st := newStore(cfg, policy)
	return Model{
		currentMode:     mode.ModeCatalog,
		catalog:         catalogview.New(st.props, policy),
		layers:          layers.New(services),
		store:           st,
		services:        services,
		toaster:         toaster.New(),
		help:            help.New(),
		debugMode:       debugMode,
		logView:         logview.New(logview.DefaultCapacity),
		logListener:     logListener,
		ctx:             ctx,
		cancel:          cancel,
		watcherHandle:   watcherHandle,
		watcherListener: watcherListener,
	}
}

// Init implements tea.Model. It mounts the catalog view and starts the
// watcher and log listeners.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.catalog.Init(), m.layers.Init()}
	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		bodyHeight := max(msg.Height-1, 1)
		m.catalog = m.catalog.SetSize(msg.Width, bodyHeight)
		m.layers = m.layers.SetSize(msg.Width, bodyHeight)
		m.logView = m.logView.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseMsg:
		if m.logView.Visible() {
			var cmd tea.Cmd
			m.logView, cmd = m.logView.Update(msg)
			return m, cmd
		}

	case pubsub.Event[string]:
		m.logView = m.logView.Append(msg.Payload)
		if m.logListener == nil {
			return m, nil
		}
		return m, m.logListener.Listen()

	case tea.KeyMsg:
		if key.Matches(msg, keys.App.Quit) {
			return m, tea.Quit
		}
		if m.logView.Visible() {
			var cmd tea.Cmd
			m.logView, cmd = m.logView.Update(msg)
			return m, cmd
		}
		if m.debugMode && key.Matches(msg, keys.App.Logs) {
			m.logView = m.logView.Toggle()
			return m, nil
		}
		if key.Matches(msg, keys.App.Help) {
			m.showHelp = !m.showHelp
			return m, nil
		}
		if key.Matches(msg, keys.App.SwitchMode) {
			if m.currentMode == mode.ModeCatalog {
				return m.switchMode(mode.ModeLayers)
			}
			return m.switchMode(mode.ModeCatalog)
		}
		if m.currentMode == mode.ModeCatalog && !m.catalog.CapturesInput() && key.Matches(msg, keys.App.Layers) {
			return m.switchMode(mode.ModeLayers)
		}

	case layers.BackMsg:
		return m.switchMode(mode.ModeCatalog)

	case pubsub.Event[watcher.Event]:
		return m.handleConfigChanged(msg.Payload)

	case mode.ShowToastMsg:
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show(msg.Message, msg.Style, toaster.DefaultDuration)
		return m, cmd

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case logview.CloseMsg:
		return m, nil

	case catalogview.SearchMsg:
		m.store = m.store.searchStarted(msg.Request)
		log.Info(log.CatSearch, "Search requested",
			"trigger", msg.Trigger,
			"service", msg.Request.Service,
			"start", msg.Request.StartPosition,
			"token", msg.Request.Token)
		return m, m.searchCmd(msg.Request)

	case searchResultMsg:
		next, ok := m.store.searchAnswered(msg)
		if !ok {
			log.Debug(log.CatSearch, "Dropped superseded answer", "token", msg.Request.Token, "latest", m.store.latest)
			return m, nil
		}
		m.store = next
		return m.syncCatalog()

	case catalogview.ChangeSelectedServiceMsg:
		m.store = m.store.selectService(msg.Name)
		m, cmd := m.syncCatalog()
		return m, tea.Batch(cmd, m.saveSelectionCmd(msg.Name))

	case catalogview.ChangeTextMsg:
		m.store = m.store.setText(msg.Text, msg.Seq)
		return m.syncCatalog()

	case catalogview.ChangeCatalogModeMsg:
		m.store = m.store.setMode(msg.Mode, msg.IsNew)
		return m.syncCatalog()

	case catalogview.ChangeURLMsg:
		m.store = m.store.setURL(msg.URL, msg.Seq)
		return m.syncCatalog()

	case catalogview.ChangeTypeMsg:
		m.store = m.store.editDraft(func(d *catalog.ServiceDefinition) { d.Type = msg.Type })
		return m.syncCatalog()

	case catalogview.ChangeTitleMsg:
		m.store = m.store.setTitle(msg.Title, msg.Seq)
		return m.syncCatalog()

	case catalogview.ChangeAutoloadMsg:
		m.store = m.store.editDraft(func(d *catalog.ServiceDefinition) { d.Autoload = msg.Autoload })
		return m.syncCatalog()

	case catalogview.ChangeAuthenticationMsg:
		m.store = m.store.editDraft(func(d *catalog.ServiceDefinition) {
			if d.Authentication == nil {
				d.Authentication = &catalog.Authentication{}
			}
			d.Authentication.Enabled = msg.Enabled
		})
		return m.syncCatalog()

	case catalogview.AddServiceMsg:
		return m.handleAddService()

	case catalogview.DeleteServiceMsg:
		return m.handleDeleteService()

	case servicesSavedMsg:
		return m.handleServicesSaved(msg)

	case catalogview.ResetMsg:
		m.store = m.store.reset(msg.TextSeq)
		return m.syncCatalog()

	case catalogview.LayerAddMsg:
		return m.handleLayerAdd(msg)

	case catalogview.ZoomToExtentMsg:
		return m.handleZoom(msg)

	case catalogview.ErrorMsg:
		return m, mode.Toast(msg.Message, toaster.StyleError)
	}

	// Input goes to the active mode; everything else belongs to the catalog
	// view, whose spinner and mount messages must keep flowing in any mode.
	if m.currentMode == mode.ModeLayers {
		switch msg.(type) {
		case tea.KeyMsg, tea.MouseMsg:
			var cmd tea.Cmd
			m.layers, cmd = m.layers.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.catalog, cmd = m.catalog.Update(msg)
	return m, cmd
}

// syncCatalog hands the store's props to the catalog view.
func (m Model) syncCatalog() (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.catalog, cmd = m.catalog.SetProps(m.store.props)
	return m, cmd
}

// switchMode activates target. The catalog is told whether it is on screen
// so it can refresh when it comes back.
func (m Model) switchMode(target mode.AppMode) (tea.Model, tea.Cmd) {
	if target == m.currentMode {
		return m, nil
	}
	log.Info(log.CatMode, "Switching mode", "from", m.currentMode, "to", target)
	m.currentMode = target
	m.store = m.store.setActive(target == mode.ModeCatalog)
	return m.syncCatalog()
}

func (m Model) handleConfigChanged(event watcher.Event) (tea.Model, tea.Cmd) {
	var listen tea.Cmd
	if m.watcherListener != nil {
		listen = m.watcherListener.Listen()
	}
	cfg, err := config.Load(event.Path)
	if err != nil {
		log.ErrorErr(log.CatConfig, "Failed to reload config", err, "path", event.Path)
		return m, tea.Batch(listen, mode.Toast(m.t("catalog.reloadFailed", i18n.Params{"error": err.Error()}), toaster.StyleWarn))
	}
	next, changed := m.store.reloadServices(cfg.Catalog.Registry())
	if !changed {
		log.Debug(log.CatWatcher, "Config changed, services unchanged", "path", event.Path)
		return m, listen
	}
	m.store = next
	if m.services.Cache != nil {
		m.services.Cache.Invalidate(context.Background())
	}
	log.Info(log.CatWatcher, "Services reloaded", "count", len(next.props.Services), "revision", next.props.ServicesRevision)

	m, cmd := m.syncCatalog()
	return m, tea.Batch(listen, cmd, mode.Toast(m.t("catalog.reloaded", nil), toaster.StyleInfo))
}

func (m Model) handleAddService() (tea.Model, tea.Cmd) {
	next, name, registry, err := m.store.prepareSave()
	if err != nil {
		log.Warn(log.CatConfig, "Service rejected", "error", err)
		return m, mode.Toast(m.t("catalog.saveFailed", i18n.Params{"error": err.Error()}), toaster.StyleError)
	}
	m.store = next
	m, cmd := m.syncCatalog()
	return m, tea.Batch(cmd, m.saveServicesCmd(registry, name, false))
}

func (m Model) handleDeleteService() (tea.Model, tea.Cmd) {
	next, name, registry, ok := m.store.prepareDelete()
	if !ok {
		return m, nil
	}
	m.store = next
	m, cmd := m.syncCatalog()
	return m, tea.Batch(cmd, m.saveServicesCmd(registry, name, true))
}

func (m Model) handleServicesSaved(msg servicesSavedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		log.ErrorErr(log.CatConfig, "Failed to persist services", msg.Err)
		m.store = m.store.saveFailed()
		m, cmd := m.syncCatalog()
		return m, tea.Batch(cmd, mode.Toast(m.t("catalog.saveFailed", i18n.Params{"error": msg.Err.Error()}), toaster.StyleError))
	}

	title := m.store.props.NewService.Title
	selected, toastID := msg.Name, "catalog.saved"
	if msg.Deleted {
		selected, toastID = "", "catalog.deleted"
	}
	m.store = m.store.saved(msg.Registry, selected)
	if m.services.Cache != nil {
		m.services.Cache.Invalidate(context.Background())
	}
	m, cmd := m.syncCatalog()
	return m, tea.Batch(cmd,
		m.saveSelectionCmd(selected),
		mode.Toast(m.t(toastID, i18n.Params{"title": title}), toaster.StyleSuccess))
}

func (m Model) handleLayerAdd(msg catalogview.LayerAddMsg) (tea.Model, tea.Cmd) {
	layer, ok := layers.FromRecord(msg.Record, msg.Service, m.services.Clock.Now())
	if !ok {
		log.Warn(log.CatCatalog, "Record has no layer", "identifier", msg.Record.Identifier)
		m.store = m.store.setLayerError("noLayer")
		return m.syncCatalog()
	}
	m.layers = m.layers.Add(layer)
	m.store = m.store.setLayerError("")
	m, cmd := m.syncCatalog()
	return m, tea.Batch(cmd, mode.Toast(m.t("catalog.layerAdded", i18n.Params{"title": layer.Title}), toaster.StyleSuccess))
}

func (m Model) handleZoom(msg catalogview.ZoomToExtentMsg) (tea.Model, tea.Cmd) {
	b := msg.Record.BBox
	if b == nil {
		return m, mode.Toast(m.t("catalog.noExtent", nil), toaster.StyleWarn)
	}
	extent := fmt.Sprintf("%.4f, %.4f, %.4f, %.4f", b.MinX, b.MinY, b.MaxX, b.MaxY)
	if b.CRS != "" {
		extent += " (" + b.CRS + ")"
	}
	return m, mode.Toast(m.t("catalog.zoomed", i18n.Params{"bbox": extent}), toaster.StyleInfo)
}

func (m Model) t(id string, params i18n.Params) string {
	return i18n.T(m.store.props.Locale, id, params)
}

// keyMap returns the bindings of whatever has focus.
func (m Model) keyMap() help.KeyMap {
	switch {
	case m.currentMode == mode.ModeLayers:
		return keys.Layers
	case m.store.props.Mode == catalog.ModeEdit:
		return keys.Edit
	default:
		return keys.Catalog
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var view string
	switch m.currentMode {
	case mode.ModeLayers:
		view = m.layers.View()
	default:
		view = m.catalog.View()
	}
	view = lipgloss.JoinVertical(lipgloss.Left, view, m.help.ShortHelpView(m.keyMap().ShortHelp()))

	if m.showHelp {
		full := styles.Panel{Title: "Help", Width: min(max(m.width-4, 40), 100), Height: 9}.
			Render(m.help.FullHelpView(m.keyMap().FullHelp()))
		view = overlay.Place(overlay.Config{Width: m.width, Height: m.height, Position: overlay.Center}, full, view)
	}

	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}

	if m.debugMode && m.logView.Visible() {
		view = m.logView.Overlay(view)
	}

	return zone.Scan(view)
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	if m.cancel != nil {
		m.cancel()
	}
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}
	return nil
}
