// Package catalogview implements the catalog mode controller: the service
// picker, text search, paged results and the inline service editor. All
// catalog state belongs to the owner; the view receives it as Props and
// reports every requested change as a message.
package catalogview

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/atlas/internal/catalog"
	"github.com/zjrosen/atlas/internal/i18n"
	"github.com/zjrosen/atlas/internal/keys"
	"github.com/zjrosen/atlas/internal/log"
	"github.com/zjrosen/atlas/internal/ui/markdown"
	"github.com/zjrosen/atlas/internal/ui/picker"
	"github.com/zjrosen/atlas/internal/ui/styles"
)

// focusArea is the focused region in browse mode.
type focusArea int

const (
	focusService focusArea = iota
	focusText
	focusResults
	focusAreaCount
)

// Model is the catalog view state. Only presentation state and the loading
// flag live here.
type Model struct {
	props   Props
	loading catalog.Loading
	msgs    *i18n.Messages

	focus       focusArea
	input       textinput.Model
	textSeq     uint64
	picker      picker.Model
	showPicker  bool
	optionsOpen bool

	cursor     int
	showDetail bool
	detail     viewport.Model
	renderer   *markdown.Renderer

	pager   paginator.Model
	spinner spinner.Model
	form    editForm

	zonePrefix string
	width      int
	height     int
}

// New creates the view with its first props. Nothing is dispatched until
// the MountMsg returned by Init is handled.
func New(props Props, policy catalog.ResetPolicy) Model {
	props = props.withDefaults()
	msgs := i18n.Default()

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 256
	input.Placeholder = msgs.T(props.Locale, "catalog.textSearchPlaceholder", nil)
	input.SetValue(props.SearchText)

	pager := paginator.New()
	pager.Type = paginator.Arabic

	m := Model{
		props:      props,
		textSeq:    props.Edits.Text,
		loading:    catalog.NewLoading(policy),
		msgs:       msgs,
		input:      input,
		pager:      pager,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.SpinnerColor))),
		form:       newEditForm(),
		zonePrefix: zone.NewPrefix(),
	}
	m.form = m.form.setPlaceholders(
		msgs.T(props.Locale, "catalog.urlPlaceholder", nil),
		msgs.T(props.Locale, "catalog.serviceTitlePlaceholder", nil),
	).sync(props.NewService)
	m.form.urlSeq, m.form.titleSeq = props.Edits.URL, props.Edits.Title
	m.syncPager()
	return m.setFocus(focusText)
}

// Init returns the mount trigger.
func (m Model) Init() tea.Cmd {
	return emit(MountMsg{})
}

// Props returns the current props.
func (m Model) Props() Props {
	return m.props
}

// Loading reports whether a dispatched search is unresolved.
func (m Model) Loading() bool {
	return m.loading.Active()
}

// spinning reports whether the spinner tick loop should run.
func (m Model) spinning() bool {
	return m.loading.Active() || m.props.Saving
}

// CapturesInput reports whether printable keys are consumed by a text field
// or the picker filter.
func (m Model) CapturesInput() bool {
	if m.showPicker {
		return true
	}
	if m.props.Mode == catalog.ModeEdit {
		return m.form.focus == fieldURL || m.form.focus == fieldTitle
	}
	return m.focus == focusText && m.textVisible()
}

// SetSize records the area available to the view.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.picker = m.picker.SetSize(width, height)
	m.input.Width = max(width-8, 10)
	return m.refreshDetail()
}

// SetProps applies the owner's next state and runs the reactivity rules.
func (m Model) SetProps(next Props) (Model, tea.Cmd) {
	next = next.withDefaults()
	prev := m.props
	wasSpinning := m.spinning()
	m.props = next

	var answered uint64
	if next.ResultToken != prev.ResultToken {
		answered = next.ResultToken
	}
	wasLoading := m.loading.Active()
	m.loading = m.loading.Observe(answered)
	if wasLoading && !m.loading.Active() {
		log.Debug(log.CatCatalog, "Loading cleared", "answered", answered, "latest", m.loading.Latest())
	}

	// An applied edit of ours can trail later keystrokes; only a value the
	// owner set itself replaces the input.
	if next.SearchText != prev.SearchText && next.Edits.Text == prev.Edits.Text {
		m.input.SetValue(next.SearchText)
	}
	enteringEdit := next.Mode == catalog.ModeEdit && prev.Mode != catalog.ModeEdit
	if enteringEdit {
		m.form = m.form.sync(next.NewService).focusField(fieldURL)
		m.showPicker = false
	} else if next.NewService != prev.NewService {
		m.form = m.form.follow(prev, next)
	}

	var cmds []tea.Cmd
	if next.Saving && !wasSpinning {
		cmds = append(cmds, m.spinner.Tick)
	}
	if next.Result != prev.Result {
		m.cursor = 0
		m.showDetail = false
		if r := next.Result; r != nil && r.NumberOfRecordsReturned > len(r.Records) {
			cmds = append(cmds, emit(ErrorMsg{Message: m.t("catalog.notification.errorSearchingRecords")}))
		}
	}
	m.syncPager()
	m = m.refreshDetail()

	for _, intent := range catalog.Evaluate(catalog.Transition{Prev: prev.snapshot(), Next: next.snapshot()}) {
		var cmd tea.Cmd
		m, cmd = m.dispatch(intent)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// dispatch builds the request for intent and emits it. An intent whose
// selection does not resolve is dropped.
func (m Model) dispatch(intent catalog.SearchIntent) (Model, tea.Cmd) {
	req, err := catalog.BuildSearch(intent.Services, intent.Selected, intent.Start, m.props.PageSize, intent.Text)
	if err != nil {
		log.Warn(log.CatCatalog, "Search skipped", "trigger", intent.Trigger, "error", err)
		return m, nil
	}
	wasSpinning := m.spinning()
	var token uint64
	m.loading, token = m.loading.Dispatch()
	req.Token = token

	log.Debug(log.CatCatalog, "Dispatching search",
		"trigger", intent.Trigger,
		"service", req.Service,
		"start", req.StartPosition,
		"text", req.Text,
		"token", token)

	cmd := emit(SearchMsg{Request: req, Trigger: intent.Trigger})
	if !wasSpinning {
		return m, tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

// listedIntent searches the listed registry, as every user action does.
func (m Model) listedIntent(trigger catalog.Trigger, start int, text string) catalog.SearchIntent {
	return catalog.SearchIntent{
		Trigger:  trigger,
		Services: m.props.policy().Visible(m.props.Services),
		Selected: m.props.SelectedService,
		Start:    start,
		Text:     text,
	}
}

func (m Model) mount() (Model, tea.Cmd) {
	intent, ok := catalog.OnMount(m.props.snapshot())
	if !ok {
		return m, nil
	}
	return m.dispatch(intent)
}

// Search runs a user search from the first record.
func (m Model) Search() (Model, tea.Cmd) {
	return m.dispatch(m.listedIntent(catalog.TriggerUser, 1, m.input.Value()))
}

// GoToPage searches page n (1-based) of the current result.
func (m Model) GoToPage(n int) (Model, tea.Cmd) {
	info := catalog.Project(m.props.Result, m.props.SearchOptions, m.props.PageSize)
	if info == nil || n < 1 || n > info.PageCount || n == info.ActivePage() {
		return m, nil
	}
	return m.dispatch(m.listedIntent(catalog.TriggerPage, catalog.PageStart(n, m.props.PageSize), m.input.Value()))
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MountMsg:
		return m.mount()

	case spinner.TickMsg:
		if !m.spinning() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case picker.SelectMsg:
		m.showPicker = false
		if msg.Option.Value == m.props.SelectedService {
			return m, nil
		}
		return m, emit(ChangeSelectedServiceMsg{Name: msg.Option.Value})

	case picker.CancelMsg:
		m.showPicker = false
		return m, nil

	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case tea.MouseMsg:
		if m.showPicker {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.showPicker {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
		if m.props.Mode == catalog.ModeEdit {
			return m.handleEditKey(msg)
		}
		return m.handleViewKey(msg)
	}

	if m.focus == focusText {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleViewKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Catalog.PickService):
		return m.openPicker(), nil
	case key.Matches(msg, keys.Catalog.Edit):
		return m.trigger(catalog.ActionEdit)
	case key.Matches(msg, keys.Catalog.AddNew):
		return m.trigger(catalog.ActionAddNew)
	case key.Matches(msg, keys.Catalog.Reset):
		return m.trigger(catalog.ActionReset)
	case key.Matches(msg, keys.Catalog.NextFocus):
		return m.setFocus(m.nextFocus(1)), nil
	case key.Matches(msg, keys.Catalog.PrevFocus):
		return m.setFocus(m.nextFocus(-1)), nil
	}

	switch m.focus {
	case focusService:
		switch msg.String() {
		case "enter", " ":
			return m.openPicker(), nil
		case "backspace", "delete":
			if m.props.SelectedService != "" {
				return m, emit(ChangeSelectedServiceMsg{Name: ""})
			}
		}
		return m, nil

	case focusText:
		if !m.textVisible() {
			if msg.String() == "enter" || msg.String() == " " {
				m.optionsOpen = true
				return m.setFocus(focusText), nil
			}
			return m, nil
		}
		if key.Matches(msg, keys.Catalog.Submit) {
			return m.Search()
		}
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if v := m.input.Value(); v != before {
			m.textSeq++
			return m, tea.Batch(cmd, emit(ChangeTextMsg{Text: v, Seq: m.textSeq}))
		}
		return m, cmd

	case focusResults:
		return m.handleResultsKey(msg)
	}
	return m, nil
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	records := m.records()
	switch {
	case key.Matches(msg, keys.Catalog.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m.refreshDetail(), nil
	case key.Matches(msg, keys.Catalog.Down):
		if m.cursor < len(records)-1 {
			m.cursor++
		}
		return m.refreshDetail(), nil
	case key.Matches(msg, keys.Catalog.PrevPage):
		if info := m.pageInfo(); info != nil {
			return m.GoToPage(info.ActivePage() - 1)
		}
	case key.Matches(msg, keys.Catalog.NextPage):
		if info := m.pageInfo(); info != nil {
			return m.GoToPage(info.ActivePage() + 1)
		}
	case key.Matches(msg, keys.Catalog.AddLayer):
		return m.addLayer()
	case key.Matches(msg, keys.Catalog.ZoomExtent):
		if rec, ok := m.selectedRecord(); ok && rec.BBox != nil {
			return m, emit(ZoomToExtentMsg{Record: rec})
		}
	case key.Matches(msg, keys.Catalog.Details):
		if _, ok := m.selectedRecord(); ok {
			m.showDetail = !m.showDetail
			return m.refreshDetail(), nil
		}
	}
	return m, nil
}

// addLayer passes the selected record to the owner. In the background
// selector the grid restarts the listing after an add.
func (m Model) addLayer() (Model, tea.Cmd) {
	rec, ok := m.selectedRecord()
	if !ok {
		return m, nil
	}
	cmd := emit(LayerAddMsg{Record: rec, Service: m.props.SelectedService})
	if !m.props.policy().Listed() {
		return m, cmd
	}
	var search tea.Cmd
	m, search = m.dispatch(m.listedIntent(catalog.TriggerRecordAdded, 1, ""))
	return m, tea.Batch(cmd, search)
}

func (m Model) handleEditKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Edit.Save):
		return m.trigger(catalog.ActionSave)
	case key.Matches(msg, keys.Edit.Delete):
		return m.trigger(catalog.ActionDelete)
	case key.Matches(msg, keys.Edit.Cancel):
		return m.trigger(catalog.ActionCancel)
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg, m.props.NewService, m.props.Formats)
	return m, cmd
}

// trigger performs action a if the surface offers it enabled.
func (m Model) trigger(a catalog.Action) (Model, tea.Cmd) {
	if !catalog.Enabled(m.props.surface(), a) {
		return m, nil
	}
	switch a {
	case catalog.ActionSearch:
		return m.Search()
	case catalog.ActionReset:
		m.input.Reset()
		return m, emit(ResetMsg{TextSeq: m.textSeq})
	case catalog.ActionEdit:
		return m, emit(ChangeCatalogModeMsg{Mode: catalog.ModeEdit, IsNew: false})
	case catalog.ActionAddNew:
		return m, emit(ChangeCatalogModeMsg{Mode: catalog.ModeEdit, IsNew: true})
	case catalog.ActionSave:
		return m, emit(AddServiceMsg{})
	case catalog.ActionDelete:
		return m, emit(DeleteServiceMsg{})
	case catalog.ActionCancel:
		return m, emit(ChangeCatalogModeMsg{Mode: catalog.ModeView})
	}
	return m, nil
}

func (m Model) openPicker() Model {
	opts := catalog.SelectableList(m.props.policy().Visible(m.props.Services))
	m.picker = picker.New(m.t("catalog.service"), m.t("catalog.noResultsText"), opts).
		SetSize(m.width, m.height).
		SetSelected(m.props.SelectedService)
	m.showPicker = true
	return m
}

func (m Model) setFocus(f focusArea) Model {
	m.focus = f
	if f == focusText && m.textVisible() {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	return m
}

func (m Model) nextFocus(step int) focusArea {
	n := int(focusAreaCount)
	return focusArea((int(m.focus) + step + n) % n)
}

// textVisible is false while the text search is collapsed behind the
// options toggle.
func (m Model) textVisible() bool {
	return !m.props.WrapOptions || m.optionsOpen
}

func (m Model) records() []catalog.Record {
	if m.props.Result == nil {
		return nil
	}
	return m.props.Result.Records
}

func (m Model) selectedRecord() (catalog.Record, bool) {
	records := m.records()
	if m.cursor < 0 || m.cursor >= len(records) {
		return catalog.Record{}, false
	}
	return records[m.cursor], true
}

func (m Model) pageInfo() *catalog.PageInfo {
	return catalog.Project(m.props.Result, m.props.SearchOptions, m.props.PageSize)
}

func (m *Model) syncPager() {
	info := m.pageInfo()
	if info == nil {
		return
	}
	m.pager.PerPage = m.props.PageSize
	m.pager.TotalPages = max(info.PageCount, 1)
	m.pager.Page = min(info.Page, m.pager.TotalPages-1)
}

// refreshDetail re-renders the detail pane for the selected record.
func (m Model) refreshDetail() Model {
	rec, ok := m.selectedRecord()
	if !m.showDetail || !ok || m.width == 0 {
		return m
	}
	width, height := m.detailSize()
	if m.renderer == nil || m.renderer.Width() != width {
		r, err := markdown.New(width)
		if err != nil {
			log.ErrorErr(log.CatUI, "Creating markdown renderer failed", err)
			return m
		}
		m.renderer = r
	}
	content, err := m.renderer.RenderRecord(rec)
	if err != nil {
		log.ErrorErr(log.CatUI, "Rendering record failed", err, "id", rec.Identifier)
		content = markdown.RecordMarkdown(rec)
	}
	m.detail = viewport.New(width, height)
	m.detail.SetContent(content)
	return m
}

func (m Model) t(id string) string {
	return m.msgs.T(m.props.Locale, id, nil)
}
