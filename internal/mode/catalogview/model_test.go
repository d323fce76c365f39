package catalogview

import (
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/atlas/internal/catalog"
	"github.com/zjrosen/atlas/internal/ui/picker"
)

func TestInit_ReturnsMount(t *testing.T) {
	m := newModel(baseProps())
	require.IsType(t, MountMsg{}, m.Init()())
}

func TestMount_AutoloadSearches(t *testing.T) {
	m := newModel(baseProps())

	m, cmd := m.Update(MountMsg{})
	s := only[SearchMsg](t, collect(t, cmd))

	require.Equal(t, catalog.TriggerMount, s.Trigger)
	require.Equal(t, catalog.SearchRequest{
		Token:         1,
		Service:       "geonode",
		Type:          catalog.TypeCSW,
		URL:           "http://geonode.example/csw",
		StartPosition: 1,
		PageSize:      4,
	}, s.Request)
	require.True(t, m.Loading())
}

func TestMount_NoSearch(t *testing.T) {
	tests := []struct {
		name     string
		selected string
		source   string
	}{
		{name: "autoload off", selected: "demo"},
		{name: "no selection", selected: ""},
		{name: "unknown service", selected: "missing"},
		{name: "backgrounds outside selector", selected: catalog.BackgroundsService},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseProps()
			p.SelectedService = tt.selected
			p.Source = tt.source

			m, cmd := newModel(p).Update(MountMsg{})
			require.Empty(t, searchMsgs(collect(t, cmd)))
			require.False(t, m.Loading())
		})
	}
}

func TestMount_BackgroundsInSelector(t *testing.T) {
	p := baseProps()
	p.SelectedService = catalog.BackgroundsService
	p.Source = catalog.SourceBackgroundSelector

	_, cmd := newModel(p).Update(MountMsg{})
	s := only[SearchMsg](t, collect(t, cmd))
	require.Equal(t, catalog.TypeWMTS, s.Request.Type)
}

func TestTyping_EmitsChangeTextAndEnterSearches(t *testing.T) {
	m := newModel(baseProps())

	m, cmds := typeText(m, "lake")
	change := only[ChangeTextMsg](t, collect(t, cmds[len(cmds)-1]))
	require.Equal(t, ChangeTextMsg{Text: "lake", Seq: 4}, change)

	m, cmd := m.Update(keyMsg("enter"))
	s := only[SearchMsg](t, collect(t, cmd))
	require.Equal(t, catalog.TriggerUser, s.Trigger)
	require.Equal(t, 1, s.Request.StartPosition)
	require.Equal(t, "lake", s.Request.Text)
	require.True(t, m.Loading())
}

func TestEnter_InvalidSelectionIsSkipped(t *testing.T) {
	p := baseProps()
	p.SelectedService = "missing"

	m, cmd := newModel(p).Update(keyMsg("enter"))
	require.Empty(t, searchMsgs(collect(t, cmd)))
	require.False(t, m.Loading())
}

func TestSetProps_AppliedTextEditDoesNotRewindInput(t *testing.T) {
	m := newModel(baseProps())
	m, _ = typeText(m, "lake")

	// The owner applies the first keystroke after all four were typed.
	p := baseProps()
	p.SearchText = "l"
	p.Edits.Text = 1
	m, _ = m.SetProps(p)
	require.Equal(t, "lake", m.input.Value())

	m, cmd := m.Update(keyMsg("enter"))
	s := only[SearchMsg](t, collect(t, cmd))
	require.Equal(t, "lake", s.Request.Text)
}

func TestSetProps_OwnerTextReplacesInput(t *testing.T) {
	m := newModel(baseProps())
	m, _ = typeText(m, "abc")

	p := baseProps()
	p.SearchText = "abc"
	p.Edits.Text = 3
	m, _ = m.SetProps(p)

	p.LayerError = "noLayer"
	m, _ = m.SetProps(p)
	require.Equal(t, "abc", m.input.Value(), "unrelated props keep the input")

	p.SearchText = ""
	m, _ = m.SetProps(p)
	require.Empty(t, m.input.Value())

	m, cmds := typeText(m, "d")
	change := only[ChangeTextMsg](t, collect(t, cmds[0]))
	require.Equal(t, ChangeTextMsg{Text: "d", Seq: 4}, change, "sequence continues after an owner change")
}

func TestNew_TextSequenceStartsFromProps(t *testing.T) {
	p := baseProps()
	p.Edits.Text = 7
	_, cmds := typeText(newModel(p), "x")
	require.Equal(t, uint64(8), only[ChangeTextMsg](t, collect(t, cmds[0])).Seq)
}

func TestPaging(t *testing.T) {
	p := baseProps()
	p.Result = lakeResult(42, records(4)...)
	p.SearchOptions = catalog.SearchOptions{StartPosition: 1, MaxRecords: 4}
	m := newModel(p)

	m, _ = m.Update(keyMsg("tab"))
	require.Equal(t, focusResults, m.focus)

	_, cmd := m.Update(keyMsg("l"))
	s := only[SearchMsg](t, collect(t, cmd))
	require.Equal(t, catalog.TriggerPage, s.Trigger)
	require.Equal(t, 5, s.Request.StartPosition)

	_, cmd = m.Update(keyMsg("h"))
	require.Nil(t, cmd, "no page before the first")

	_, cmd = m.GoToPage(11)
	require.Equal(t, 41, only[SearchMsg](t, collect(t, cmd)).Request.StartPosition)

	_, cmd = m.GoToPage(12)
	require.Nil(t, cmd)
}

func TestSetProps_Reactivity(t *testing.T) {
	tests := []struct {
		name    string
		prev    func(*Props)
		next    func(*Props)
		trigger catalog.Trigger
		start   int
		service string
	}{
		{
			name:    "mode restored",
			prev:    func(p *Props) { p.Mode = catalog.ModeEdit },
			next:    func(p *Props) {},
			trigger: catalog.TriggerModeRestored,
			start:   1,
			service: "geonode",
		},
		{
			name:    "registry replaced",
			next:    func(p *Props) { p.ServicesRevision = 2 },
			trigger: catalog.TriggerModeRestored,
			start:   1,
			service: "geonode",
		},
		{
			name:    "selection changed to unlisted backgrounds",
			prev:    func(p *Props) { p.SelectedService = "demo" },
			next:    func(p *Props) { p.SelectedService = catalog.BackgroundsService },
			trigger: catalog.TriggerModeRestored,
			start:   1,
			service: catalog.BackgroundsService,
		},
		{
			name: "reactivated keeps start",
			prev: func(p *Props) { p.Active = false },
			next: func(p *Props) {
				p.SearchOptions = catalog.SearchOptions{StartPosition: 5}
				p.SelectedService = "geonode"
			},
			trigger: catalog.TriggerReactivated,
			start:   5,
			service: "geonode",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := baseProps()
			if tt.prev != nil {
				tt.prev(&prev)
			}
			next := prev
			next.Mode = catalog.ModeView
			next.Active = true
			tt.next(&next)

			m := newModel(prev)
			m, cmd := m.SetProps(next)
			s := only[SearchMsg](t, collect(t, cmd))
			require.Equal(t, tt.trigger, s.Trigger)
			require.Equal(t, tt.start, s.Request.StartPosition)
			require.Equal(t, tt.service, s.Request.Service)
			require.True(t, m.Loading())
		})
	}
}

func TestSetProps_NoTrigger(t *testing.T) {
	tests := []struct {
		name string
		prev func(*Props)
		next func(*Props)
	}{
		{name: "unchanged", prev: func(*Props) {}, next: func(*Props) {}},
		{name: "selection without autoload", prev: func(*Props) {}, next: func(p *Props) { p.SelectedService = "demo" }},
		{name: "inactive", prev: func(p *Props) { p.Active = false }, next: func(p *Props) { p.Active = false; p.ServicesRevision = 9 }},
		{name: "deactivated", prev: func(*Props) {}, next: func(p *Props) { p.Active = false; p.ServicesRevision = 9 }},
		{name: "entering edit", prev: func(*Props) {}, next: func(p *Props) { p.Mode = catalog.ModeEdit }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := baseProps()
			tt.prev(&prev)
			next := prev
			tt.next(&next)

			_, cmd := newModel(prev).SetProps(next)
			require.Empty(t, searchMsgs(collect(t, cmd)))
		})
	}
}

func TestLoading_TokenPolicy(t *testing.T) {
	p := baseProps()
	m, _ := newModel(p).Update(MountMsg{})
	m, cmd := m.Update(keyMsg("enter"))
	require.Equal(t, uint64(2), only[SearchMsg](t, collect(t, cmd)).Request.Token)

	p.SearchText = "unrelated"
	m, _ = m.SetProps(p)
	require.True(t, m.Loading(), "unrelated change keeps loading")

	p.Result = lakeResult(0)
	p.ResultToken = 1
	m, _ = m.SetProps(p)
	require.True(t, m.Loading(), "stale answer keeps loading")

	p.ResultToken = 2
	m, _ = m.SetProps(p)
	require.False(t, m.Loading())
}

func TestLoading_AnyChangePolicy(t *testing.T) {
	p := baseProps()
	m, _ := New(p, catalog.ResetOnAnyChange).Update(MountMsg{})
	require.True(t, m.Loading())

	p.SearchText = "x"
	m, _ = m.SetProps(p)
	require.False(t, m.Loading())
}

func TestReset_IsIdempotentAndKeepsSelection(t *testing.T) {
	p := baseProps()
	p.IncludeResetButton = true
	m := newModel(p)
	m, _ = typeText(m, "abc")

	for range 2 {
		var cmd tea.Cmd
		m, cmd = m.Update(keyMsg("ctrl+r"))
		msgs := collect(t, cmd)
		require.Equal(t, []tea.Msg{ResetMsg{TextSeq: 3}}, msgs)
		require.Empty(t, m.input.Value())
		require.Equal(t, "geonode", m.Props().SelectedService)
	}
}

func TestReset_HiddenWithoutButton(t *testing.T) {
	_, cmd := newModel(baseProps()).Update(keyMsg("ctrl+r"))
	require.Nil(t, cmd)
}

func TestEditGating(t *testing.T) {
	p := baseProps()
	p.SelectedService = catalog.BackgroundsService
	m := newModel(p)

	_, cmd := m.Update(keyMsg("ctrl+e"))
	require.Nil(t, cmd, "backgrounds cannot be edited")

	_, cmd = m.Update(keyMsg("ctrl+n"))
	require.Equal(t, ChangeCatalogModeMsg{Mode: catalog.ModeEdit, IsNew: true}, only[ChangeCatalogModeMsg](t, collect(t, cmd)))

	p.SelectedService = "geonode"
	_, cmd = newModel(p).Update(keyMsg("ctrl+e"))
	require.Equal(t, ChangeCatalogModeMsg{Mode: catalog.ModeEdit}, only[ChangeCatalogModeMsg](t, collect(t, cmd)))
}

func editProps() Props {
	p := baseProps()
	p.Mode = catalog.ModeEdit
	p.NewService = catalog.ServiceDefinition{Title: "GeoNode", Type: catalog.TypeCSW, URL: "http://geonode.example/csw"}
	return p
}

func TestEditMode_Buttons(t *testing.T) {
	m := newModel(editProps())

	_, cmd := m.Update(keyMsg("ctrl+s"))
	require.Equal(t, []tea.Msg{AddServiceMsg{}}, collect(t, cmd))

	_, cmd = m.Update(keyMsg("ctrl+d"))
	require.Equal(t, []tea.Msg{DeleteServiceMsg{}}, collect(t, cmd))

	_, cmd = m.Update(keyMsg("esc"))
	require.Equal(t, []tea.Msg{ChangeCatalogModeMsg{Mode: catalog.ModeView}}, collect(t, cmd))
}

func TestEditMode_SavingDisablesSaveAndCancel(t *testing.T) {
	p := editProps()
	p.Saving = true
	m := newModel(p)

	for _, k := range []string{"ctrl+s", "esc"} {
		_, cmd := m.Update(keyMsg(k))
		require.Nil(t, cmd, k)
	}
	_, cmd := m.Update(keyMsg("ctrl+d"))
	require.NotNil(t, cmd, "delete stays enabled")
}

func TestEditMode_AppliedURLEditDoesNotRewindInput(t *testing.T) {
	p := editProps()
	m := newModel(p)
	m, _ = typeText(m, "/x")

	p.NewService.URL = "http://geonode.example/csw/"
	p.Edits.URL = 1
	m, _ = m.SetProps(p)
	require.Equal(t, "http://geonode.example/csw/x", m.form.url.Value())

	p.NewService.URL = "http://other.example/csw"
	m, _ = m.SetProps(p)
	require.Equal(t, "http://other.example/csw", m.form.url.Value(), "owner changes still apply")
}

func TestEditMode_SavingAnimatesSpinner(t *testing.T) {
	p := editProps()
	m := newModel(p)

	_, cmd := m.Update(m.spinner.Tick())
	require.Nil(t, cmd, "idle spinner does not tick")

	p.Saving = true
	m, cmd = m.SetProps(p)
	require.NotNil(t, cmd)
	tick, ok := cmd().(spinner.TickMsg)
	require.True(t, ok)

	_, cmd = m.Update(tick)
	require.NotNil(t, cmd, "ticks continue while saving")

	p.Saving = false
	m, _ = m.SetProps(p)
	_, cmd = m.Update(m.spinner.Tick())
	require.Nil(t, cmd)
}

func TestEditMode_NewDraftHasNoDelete(t *testing.T) {
	p := editProps()
	p.NewService = catalog.ServiceDefinition{IsNew: true, Type: catalog.TypeWMS}

	_, cmd := newModel(p).Update(keyMsg("ctrl+d"))
	require.Nil(t, cmd)
}

func TestEditMode_FormEmitsChanges(t *testing.T) {
	m := newModel(editProps())

	m, cmd := m.Update(keyMsg("/"))
	require.Equal(t, ChangeURLMsg{URL: "http://geonode.example/csw/", Seq: 1}, only[ChangeURLMsg](t, collect(t, cmd)))

	m, _ = m.Update(keyMsg("tab"))
	m, cmd = m.Update(keyMsg("l"))
	require.Equal(t, ChangeTypeMsg{Type: catalog.TypeWMS}, only[ChangeTypeMsg](t, collect(t, cmd)))

	m, _ = m.Update(keyMsg("tab"))
	m, cmd = m.Update(keyMsg("!"))
	require.Equal(t, ChangeTitleMsg{Title: "GeoNode!", Seq: 1}, only[ChangeTitleMsg](t, collect(t, cmd)))

	m, _ = m.Update(keyMsg("tab"))
	m, cmd = m.Update(keyMsg(" "))
	require.Equal(t, ChangeAutoloadMsg{Autoload: true}, only[ChangeAutoloadMsg](t, collect(t, cmd)))

	m, _ = m.Update(keyMsg("tab"))
	_, cmd = m.Update(keyMsg(" "))
	require.Equal(t, ChangeAuthenticationMsg{Enabled: true}, only[ChangeAuthenticationMsg](t, collect(t, cmd)))
}

func TestResults_LayerAddAndZoom(t *testing.T) {
	p := baseProps()
	p.Result = lakeResult(2, records(2)...)
	p.SearchOptions = catalog.SearchOptions{StartPosition: 1}
	m := newModel(p)
	m, _ = m.Update(keyMsg("tab"))

	_, cmd := m.Update(keyMsg("a"))
	msgs := collect(t, cmd)
	add := only[LayerAddMsg](t, msgs)
	require.Equal(t, "Lake A", add.Record.Title)
	require.Equal(t, "geonode", add.Service)
	require.Empty(t, searchMsgs(msgs))

	m, _ = m.Update(keyMsg("j"))
	_, cmd = m.Update(keyMsg("z"))
	require.Equal(t, "Lake B", only[ZoomToExtentMsg](t, collect(t, cmd)).Record.Title)
}

func TestResults_LayerAddInBackgroundSelectorRestartsListing(t *testing.T) {
	p := baseProps()
	p.Source = catalog.SourceBackgroundSelector
	p.SearchText = "lake"
	p.Result = lakeResult(2, records(2)...)
	p.SearchOptions = catalog.SearchOptions{StartPosition: 1}
	m := newModel(p)
	m, _ = m.Update(keyMsg("tab"))

	_, cmd := m.Update(keyMsg("a"))
	msgs := collect(t, cmd)
	only[LayerAddMsg](t, msgs)
	s := only[SearchMsg](t, msgs)
	require.Equal(t, catalog.TriggerRecordAdded, s.Trigger)
	require.Equal(t, 1, s.Request.StartPosition)
	require.Empty(t, s.Request.Text)
}

func TestSetProps_PartialResultReportsError(t *testing.T) {
	m := newModel(baseProps())
	p := baseProps()
	p.Result = &catalog.Result{NumberOfRecordsMatched: 4, NumberOfRecordsReturned: 4, Records: records(2)}

	_, cmd := m.SetProps(p)
	e := only[ErrorMsg](t, collect(t, cmd))
	require.Equal(t, "Some records could not be read", e.Message)
}

func TestPicker_SelectsService(t *testing.T) {
	m := newModel(baseProps())

	m, _ = m.Update(keyMsg("ctrl+o"))
	require.True(t, m.CapturesInput())
	require.True(t, m.showPicker)

	opts := m.picker.Visible()
	for _, o := range opts {
		require.NotEqual(t, catalog.BackgroundsService, o.Value)
	}
	require.Len(t, opts, 2)

	m, cmd := m.Update(picker.SelectMsg{Option: catalog.Option{Value: "demo"}})
	require.False(t, m.showPicker)
	require.Equal(t, []tea.Msg{ChangeSelectedServiceMsg{Name: "demo"}}, collect(t, cmd))

	_, cmd = m.Update(picker.SelectMsg{Option: catalog.Option{Value: "geonode"}})
	require.Nil(t, cmd, "reselecting the current service is a no-op")
}

func TestServiceField_ClearsSelection(t *testing.T) {
	m := newModel(baseProps())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, focusService, m.focus)

	_, cmd := m.Update(keyMsg("backspace"))
	require.Equal(t, []tea.Msg{ChangeSelectedServiceMsg{Name: ""}}, collect(t, cmd))
}

func TestWrapOptions_TextHiddenUntilOpened(t *testing.T) {
	p := baseProps()
	p.WrapOptions = true
	m := newModel(p)
	require.False(t, m.CapturesInput())

	m, cmd := m.Update(keyMsg("x"))
	require.Nil(t, cmd)

	m, _ = m.Update(keyMsg("enter"))
	require.True(t, m.CapturesInput())
}
