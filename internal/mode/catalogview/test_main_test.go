package catalogview

import (
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/atlas/internal/catalog"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

// collect runs cmd and flattens batches. Commands that block (cursor blink
// timers) are abandoned after a short wait; spinner ticks are dropped.
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

func searchMsgs(msgs []tea.Msg) []SearchMsg {
	var out []SearchMsg
	for _, msg := range msgs {
		if s, ok := msg.(SearchMsg); ok {
			out = append(out, s)
		}
	}
	return out
}

func only[T any](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	var found []T
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			found = append(found, v)
		}
	}
	require.Len(t, found, 1, "messages: %#v", msgs)
	return found[0]
}

func testServices() catalog.Registry {
	return catalog.Registry{
		"geonode": {Title: "GeoNode", Type: catalog.TypeCSW, URL: "http://geonode.example/csw", Autoload: true},
		"demo":    {Title: "Demo WMS", Type: catalog.TypeWMS, URL: "http://demo.example/wms"},
		catalog.BackgroundsService: {
			Title: "Backgrounds", Type: catalog.TypeWMTS, URL: "http://bg.example/wmts", Autoload: true,
		},
	}
}

func baseProps() Props {
	return Props{
		Mode:                catalog.ModeView,
		Active:              true,
		Services:            testServices(),
		ServicesRevision:    1,
		SelectedService:     "geonode",
		PageSize:            4,
		IncludeSearchButton: true,
	}
}

func newModel(p Props) Model {
	return New(p, catalog.ResetOnToken).SetSize(100, 30)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m Model, s string) (Model, []tea.Cmd) {
	var cmds []tea.Cmd
	for _, r := range s {
		var cmd tea.Cmd
		m, cmd = m.Update(keyMsg(string(r)))
		cmds = append(cmds, cmd)
	}
	return m, cmds
}

func lakeResult(matched int, records ...catalog.Record) *catalog.Result {
	return &catalog.Result{
		NumberOfRecordsMatched:  matched,
		NumberOfRecordsReturned: len(records),
		Records:                 records,
	}
}

func records(n int) []catalog.Record {
	out := make([]catalog.Record, n)
	for i := range out {
		out[i] = catalog.Record{
			Identifier: string(rune('a' + i)),
			Title:      "Lake " + string(rune('A'+i)),
			Abstract:   "Water body",
			LayerName:  "lakes",
			LayerType:  "wms",
			URL:        "http://geonode.example/wms",
			BBox:       &catalog.BBox{MinX: 1, MinY: 2, MaxX: 3, MaxY: 4, CRS: "EPSG:4326"},
		}
	}
	return out
}
