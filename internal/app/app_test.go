package app

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/atlas/internal/catalog"
	"github.com/zjrosen/atlas/internal/config"
	"github.com/zjrosen/atlas/internal/mocks"
	"github.com/zjrosen/atlas/internal/mode"
	"github.com/zjrosen/atlas/internal/mode/catalogview"
	"github.com/zjrosen/atlas/internal/mode/shared"
	"github.com/zjrosen/atlas/internal/search"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

var testNow = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func testConfig() config.Config {
	cfg := config.Defaults()
	cfg.AutoReload = false
	cfg.Catalog.SelectedService = "geonode"
	cfg.Catalog.Services = []config.ServiceConfig{
		{Name: "geonode", Title: "GeoNode", Type: "csw", URL: "http://geonode.example/csw", Autoload: true},
		{Name: "demo", Title: "Demo WMS", Type: "wms", URL: "http://demo.example/wms"},
	}
	return cfg
}

type fixture struct {
	exec *mocks.MockExecutor
	repo *mocks.MockHistoryRepository
	clip *shared.MockClipboard
}

func newTestModel(t *testing.T, cfg config.Config, configPath string) (Model, fixture) {
	t.Helper()
	f := fixture{exec: &mocks.MockExecutor{}, repo: &mocks.MockHistoryRepository{}, clip: &shared.MockClipboard{}}
	f.repo.On("Record", mock.Anything).Return(nil).Maybe()

	m := NewWithConfig(cfg, mode.Services{
		Executor:   f.exec,
		History:    f.repo,
		ConfigPath: configPath,
		Clock:      shared.FixedClock{At: testNow},
		Clipboard:  f.clip,
	}, false)
	t.Cleanup(func() { _ = m.Close() })

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model), f
}

// collect runs cmd and flattens batches. Timers (toast dismissal, cursor
// blink) are abandoned after a short wait and spinner ticks are dropped.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(50 * time.Millisecond):
		return nil
	}

	switch msg := msg.(type) {
	case nil, spinner.TickMsg:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(t, c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// pump feeds msgs through Update, then every message their commands
// produce, until nothing is left.
func pump(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	queue := msgs
	for i := 0; len(queue) > 0; i++ {
		require.Less(t, i, 200, "message loop did not settle")
		msg := queue[0]
		queue = queue[1:]
		next, cmd := m.Update(msg)
		m = next.(Model)
		queue = append(queue, collect(t, cmd)...)
	}
	return m
}

func start(t *testing.T, m Model) Model {
	t.Helper()
	return pump(t, m, collect(t, m.Init())...)
}

func lakeResult() *catalog.Result {
	return &catalog.Result{
		NumberOfRecordsMatched:  10,
		NumberOfRecordsReturned: 4,
		NextRecord:              5,
		Records: []catalog.Record{
			{Identifier: "1", Title: "Lake Garda", LayerName: "geonode:garda", LayerType: catalog.TypeWMS, URL: "http://geonode.example/wms"},
			{Identifier: "2", Title: "Lake Como"},
			{Identifier: "3", Title: "Lake Maggiore"},
			{Identifier: "4", Title: "Lake Iseo"},
		},
	}
}

func requestFor(service string) any {
	return mock.MatchedBy(func(req catalog.SearchRequest) bool { return req.Service == service })
}

func TestApp_DefaultMode(t *testing.T) {
	m, _ := newTestModel(t, testConfig(), "")
	require.Equal(t, mode.ModeCatalog, m.currentMode)
	require.True(t, m.store.props.Active)
}

func TestApp_MountRunsAutoloadSearch(t *testing.T) {
	m, f := newTestModel(t, testConfig(), "")
	f.exec.On("Search", mock.Anything, requestFor("geonode")).Return(lakeResult(), nil).Once()

	m = start(t, m)

	f.exec.AssertExpectations(t)
	f.repo.AssertCalled(t, "Record", mock.Anything)
	require.Equal(t, lakeResult(), m.store.props.Result)
	require.Equal(t, uint64(1), m.store.props.ResultToken)
	require.Equal(t, catalog.SearchOptions{StartPosition: 1, MaxRecords: 4}, m.store.props.SearchOptions)
	require.False(t, m.catalog.Loading())
	require.Contains(t, ansi.Strip(m.View()), "Lake Garda")
}

func TestApp_SearchErrorSetsLoadingError(t *testing.T) {
	m, f := newTestModel(t, testConfig(), "")
	failure := &search.Error{Code: search.CodeTimeout, Op: "GetRecords", Err: errors.New("deadline")}
	f.exec.On("Search", mock.Anything, mock.Anything).Return(nil, failure)

	m = start(t, m)

	require.Nil(t, m.store.props.Result)
	require.ErrorIs(t, m.store.props.LoadingError, failure)
	require.False(t, m.catalog.Loading())
	require.Contains(t, ansi.Strip(m.View()), "did not answer in time")
}

func TestApp_NoExecutorAnswersWithError(t *testing.T) {
	cfg := testConfig()
	m := NewWithConfig(cfg, mode.Services{Clock: shared.FixedClock{At: testNow}}, false)
	t.Cleanup(func() { _ = m.Close() })

	m = start(t, m)

	require.Equal(t, search.CodeUnsupportedType, search.Code(m.store.props.LoadingError))
}

func TestApp_SwitchModeTogglesActiveAndReactivates(t *testing.T) {
	m, f := newTestModel(t, testConfig(), "")
	f.exec.On("Search", mock.Anything, mock.Anything).Return(lakeResult(), nil)
	m = start(t, m)

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyCtrlAt})
	require.Equal(t, mode.ModeLayers, m.currentMode)
	require.False(t, m.store.props.Active)
	require.Contains(t, ansi.Strip(m.View()), "Map layers")

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyCtrlAt})
	require.Equal(t, mode.ModeCatalog, m.currentMode)
	require.True(t, m.store.props.Active)
	f.exec.AssertNumberOfCalls(t, "Search", 2)
	require.Equal(t, uint64(2), m.store.props.ResultToken, "reactivation refreshed the result")
}

func TestApp_LayersKeyIgnoredWhileTyping(t *testing.T) {
	cfg := testConfig()
	cfg.Catalog.SelectedService = "demo"
	m, _ := newTestModel(t, cfg, "")
	m = start(t, m)

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("L")})

	require.Equal(t, mode.ModeCatalog, m.currentMode)
	require.Equal(t, "L", m.store.props.SearchText)
}

func TestApp_LayerAdd(t *testing.T) {
	m, _ := newTestModel(t, testConfig(), "")

	records := lakeResult().Records
	m = pump(t, m, catalogview.LayerAddMsg{Record: records[1], Service: "geonode"})
	require.Equal(t, "noLayer", m.store.props.LayerError)
	require.Empty(t, m.layers.Layers())

	m = pump(t, m, catalogview.LayerAddMsg{Record: records[0], Service: "geonode"})
	require.Empty(t, m.store.props.LayerError)
	require.Len(t, m.layers.Layers(), 1)
	require.Equal(t, testNow, m.layers.Layers()[0].AddedAt)
	require.Equal(t, "Layer Lake Garda added to the map", m.toaster.Message())
}

func TestApp_ZoomToExtent(t *testing.T) {
	m, _ := newTestModel(t, testConfig(), "")

	m = pump(t, m, catalogview.ZoomToExtentMsg{Record: catalog.Record{BBox: &catalog.BBox{MinX: 9.5, MinY: 45.5, MaxX: 10.9, MaxY: 46, CRS: "EPSG:4326"}}})
	require.Equal(t, "Zoom to 9.5000, 45.5000, 10.9000, 46.0000 (EPSG:4326)", m.toaster.Message())

	m = pump(t, m, catalogview.ZoomToExtentMsg{Record: catalog.Record{}})
	require.Equal(t, "This record has no extent", m.toaster.Message())
}

func TestApp_ErrorMsgShowsToast(t *testing.T) {
	m, _ := newTestModel(t, testConfig(), "")
	m = pump(t, m, catalogview.ErrorMsg{Message: "Some records could not be read"})
	require.True(t, m.toaster.Visible())
	require.Equal(t, "Some records could not be read", m.toaster.Message())
}

func TestApp_TypingSurvivesReorderedTextEdits(t *testing.T) {
	cfg := testConfig()
	cfg.Catalog.SelectedService = "demo"
	m, f := newTestModel(t, cfg, "")
	f.exec.On("Search", mock.Anything, mock.MatchedBy(func(req catalog.SearchRequest) bool {
		return req.Service == "demo" && req.Text == "lake"
	})).Return(&catalog.Result{}, nil).Once()
	m = start(t, m)

	var edits []tea.Msg
	for _, r := range "lake" {
		next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
		for _, msg := range collect(t, cmd) {
			if _, ok := msg.(catalogview.ChangeTextMsg); ok {
				edits = append(edits, msg)
			}
		}
	}
	require.Len(t, edits, 4)

	// Commands run concurrently, so the edits may land in any order.
	slices.Reverse(edits)
	m = pump(t, m, edits...)
	require.Equal(t, "lake", m.store.props.SearchText)

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	f.exec.AssertExpectations(t)
	require.Contains(t, ansi.Strip(m.View()), "No records matched")
}

func TestApp_Reset(t *testing.T) {
	m, f := newTestModel(t, testConfig(), "")
	f.exec.On("Search", mock.Anything, mock.Anything).Return(lakeResult(), nil)
	m = start(t, m)
	m = pump(t, m, catalogview.ChangeTextMsg{Text: "lake"})

	m = pump(t, m, catalogview.ResetMsg{})

	require.Empty(t, m.store.props.SearchText)
	require.Nil(t, m.store.props.Result)
	require.Nil(t, m.store.props.LoadingError)
	require.Equal(t, "geonode", m.store.props.SelectedService)
}

func writeConfig(t *testing.T, cfg config.Config) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.SaveServices(path, cfg.Catalog.Services))
	require.NoError(t, config.SaveSelectedService(path, cfg.Catalog.SelectedService))
	return path
}

func TestApp_AddService(t *testing.T) {
	cfg := testConfig()
	cfg.Catalog.SelectedService = "demo"
	path := writeConfig(t, cfg)
	m, _ := newTestModel(t, cfg, path)
	m = start(t, m)

	m = pump(t, m,
		catalogview.ChangeCatalogModeMsg{Mode: catalog.ModeEdit, IsNew: true},
		catalogview.ChangeTitleMsg{Title: "Lakes"},
		catalogview.ChangeURLMsg{URL: "http://lakes.example/wms"},
		catalogview.AddServiceMsg{},
	)

	props := m.store.props
	require.Equal(t, catalog.ModeView, props.Mode)
	require.False(t, props.Saving)
	require.Equal(t, "Lakes", props.SelectedService)
	require.Equal(t, catalog.ServiceDefinition{Title: "Lakes", Type: catalog.TypeWMS, URL: "http://lakes.example/wms"}, props.Services["Lakes"])
	require.Equal(t, "Service Lakes saved", m.toaster.Message())

	saved, err := config.Load(path)
	require.NoError(t, err)
	require.Contains(t, saved.Catalog.Registry(), "Lakes")
	require.Equal(t, "Lakes", saved.Catalog.SelectedService)
}

func TestApp_AddServiceRejectsInvalidDraft(t *testing.T) {
	m, _ := newTestModel(t, testConfig(), "")

	m = pump(t, m,
		catalogview.ChangeCatalogModeMsg{Mode: catalog.ModeEdit, IsNew: true},
		catalogview.ChangeTitleMsg{Title: "Broken"},
		catalogview.ChangeURLMsg{URL: "not a url"},
		catalogview.AddServiceMsg{},
	)

	require.Equal(t, catalog.ModeEdit, m.store.props.Mode)
	require.False(t, m.store.props.Saving)
	require.NotContains(t, m.store.props.Services, "Broken")
	require.Contains(t, m.toaster.Message(), "Could not save the service")
}

func TestApp_EditKeepsKey(t *testing.T) {
	m, _ := newTestModel(t, testConfig(), "")

	m = pump(t, m,
		catalogview.ChangeSelectedServiceMsg{Name: "demo"},
		catalogview.ChangeCatalogModeMsg{Mode: catalog.ModeEdit},
		catalogview.ChangeTitleMsg{Title: "Demo WMS (renamed)"},
		catalogview.ChangeAuthenticationMsg{Enabled: true},
		catalogview.AddServiceMsg{},
	)

	def := m.store.props.Services["demo"]
	require.Equal(t, "Demo WMS (renamed)", def.Title)
	require.True(t, def.Authentication.Enabled)
	require.Equal(t, "demo", m.store.props.SelectedService)
	require.Len(t, m.store.props.Services, 2)
}

func TestApp_DeleteService(t *testing.T) {
	m, _ := newTestModel(t, testConfig(), "")

	m = pump(t, m,
		catalogview.ChangeSelectedServiceMsg{Name: "demo"},
		catalogview.ChangeCatalogModeMsg{Mode: catalog.ModeEdit},
		catalogview.DeleteServiceMsg{},
	)

	require.NotContains(t, m.store.props.Services, "demo")
	require.Empty(t, m.store.props.SelectedService)
	require.Equal(t, catalog.ModeView, m.store.props.Mode)
	require.Equal(t, "Service Demo WMS removed", m.toaster.Message())
}

func TestApp_ConfigChangeReloadsServices(t *testing.T) {
	cfg := testConfig()
	path := writeConfig(t, cfg)
	m, f := newTestModel(t, cfg, path)
	f.exec.On("Search", mock.Anything, mock.Anything).Return(lakeResult(), nil)
	m = start(t, m)
	revision := m.store.props.ServicesRevision

	m = pump(t, m, watcherEvent(path))
	require.Equal(t, revision, m.store.props.ServicesRevision, "identical services keep the revision")

	cfg.Catalog.Services[0].URL = "http://geonode.example/catalogue/csw"
	require.NoError(t, config.SaveServices(path, cfg.Catalog.Services))
	m = pump(t, m, watcherEvent(path))

	require.Equal(t, revision+1, m.store.props.ServicesRevision)
	require.Equal(t, "http://geonode.example/catalogue/csw", m.store.props.Services["geonode"].URL)
	require.Equal(t, "Services reloaded from config", m.toaster.Message())
	f.exec.AssertNumberOfCalls(t, "Search", 2)
}
