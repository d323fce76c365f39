package catalogview

import (
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/atlas/internal/catalog"
)

func inZone(id string, msg tea.MouseMsg) bool {
	z := zone.Get(id)
	return z != nil && z.InBounds(msg)
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	for _, s := range m.props.surface() {
		if inZone(m.buttonZone(s.Action), msg) {
			return m.trigger(s.Action)
		}
	}

	if m.props.Mode == catalog.ModeEdit {
		return m.handleFormClick(msg)
	}

	switch {
	case inZone(m.zoneID(zoneService), msg):
		return m.setFocus(focusService).openPicker(), nil
	case inZone(m.zoneID(zoneOptions), msg):
		m.optionsOpen = true
		return m.setFocus(focusText), nil
	case inZone(m.zoneID(zoneText), msg):
		return m.setFocus(focusText), nil
	case inZone(m.zoneID(zonePagePrev), msg):
		if info := m.pageInfo(); info != nil {
			return m.GoToPage(info.ActivePage() - 1)
		}
		return m, nil
	case inZone(m.zoneID(zonePageNext), msg):
		if info := m.pageInfo(); info != nil {
			return m.GoToPage(info.ActivePage() + 1)
		}
		return m, nil
	}

	for i := range m.records() {
		if !inZone(m.recordZone(i), msg) {
			continue
		}
		// A second click on the selected row opens its details.
		if m.focus == focusResults && m.cursor == i {
			m.showDetail = !m.showDetail
		}
		m.cursor = i
		return m.setFocus(focusResults).refreshDetail(), nil
	}
	return m, nil
}

func (m Model) handleFormClick(msg tea.MouseMsg) (Model, tea.Cmd) {
	draft := m.props.NewService
	for f := range fieldCount {
		if !inZone(m.fieldZone(f), msg) {
			continue
		}
		m.form = m.form.focusField(f)
		switch f {
		case fieldType:
			return m, emit(ChangeTypeMsg{Type: cycleFormat(m.props.Formats, draft.Type, 1)})
		case fieldAutoload:
			return m, emit(ChangeAutoloadMsg{Autoload: !draft.Autoload})
		case fieldAuthentication:
			return m, emit(ChangeAuthenticationMsg{Enabled: !authEnabled(draft)})
		}
		return m, nil
	}
	return m, nil
}
