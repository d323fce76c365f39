package catalogview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/atlas/internal/catalog"
	"github.com/zjrosen/atlas/internal/i18n"
	"github.com/zjrosen/atlas/internal/search"
	"github.com/zjrosen/atlas/internal/ui/styles"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// headerReserve is the browse header plus the pager line.
	headerReserve = 6
	// splitWidth is the width from which details open beside the results.
	splitWidth = 100
)

var (
	labelStyle        = lipgloss.NewStyle().Foreground(styles.FormLabelColor)
	focusedLabelStyle = lipgloss.NewStyle().Foreground(styles.FormFocusedLabelColor).Bold(true)
	gutterStyle       = lipgloss.NewStyle().Foreground(styles.BorderHighlightFocusColor)
)

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m Model) detailSize() (int, int) {
	w, h := m.size()
	height := max(h-2-headerReserve, 3)
	if w >= splitWidth {
		return max(w/2-2, 10), height
	}
	return max(w-4, 10), height
}

// View renders the catalog panel, with the service picker on top when open.
func (m Model) View() string {
	var out string
	if m.props.Mode == catalog.ModeEdit {
		out = m.renderEdit()
	} else {
		out = m.renderBrowse()
	}
	if m.showPicker {
		out = m.picker.Overlay(out)
	}
	return out
}

func gutter(focused bool) string {
	if focused {
		return gutterStyle.Render("┃") + " "
	}
	return "  "
}

func (m Model) renderBrowse() string {
	w, h := m.size()
	inner := max(w-2, 20)

	parts := []string{m.renderServiceRow(), m.renderTextRow()}
	if row := m.renderButtonRow(); row != "" {
		parts = append(parts, row)
	}
	if m.props.LayerError != "" {
		parts = append(parts, "  "+styles.ErrorTextStyle.Render(wordwrap.String(m.msgs.ErrorMessage(m.props.Locale, m.props.LayerError), inner-2)))
	}
	header := strings.Join(parts, "\n")

	pager := m.renderPagerLine()
	bodyHeight := max(h-2-lipgloss.Height(header)-1-lipgloss.Height(pager), 1)
	content := header + "\n\n" + m.renderBody(inner, bodyHeight)
	if pager != "" {
		content += "\n" + pager
	}

	return styles.Panel{
		Title:   m.t("catalog.title"),
		Footer:  m.pageInfoText(),
		Width:   w,
		Height:  h,
		Focused: true,
	}.Render(content)
}

func (m Model) renderServiceRow() string {
	focused := m.focus == focusService
	label := labelStyle
	if focused {
		label = focusedLabelStyle
	}

	var value string
	if def, ok := m.props.Services.Lookup(m.props.SelectedService); ok {
		value = def.Title + " " + styles.TypeBadge(string(def.Type))
	} else {
		value = styles.HintStyle.Render(m.t("catalog.servicePlaceholder"))
	}
	row := zone.Mark(m.zoneID(zoneService), gutter(focused)+label.Render(m.t("catalog.service")+": ")+value+" ▾")

	for _, s := range m.props.surface() {
		switch s.Action {
		case catalog.ActionEdit:
			row += " " + zone.Mark(m.buttonZone(s.Action), styles.Button("✎ "+m.t("catalog.edit"), styles.ButtonSecondary, false, s.Disabled))
		case catalog.ActionAddNew:
			row += " " + zone.Mark(m.buttonZone(s.Action), styles.Button("+ "+m.t("catalog.addNew"), styles.ButtonSecondary, false, s.Disabled))
		}
	}
	return row
}

func (m Model) renderTextRow() string {
	focused := m.focus == focusText
	var row string
	if m.textVisible() {
		row = zone.Mark(m.zoneID(zoneText), gutter(focused)+m.input.View())
	} else {
		row = zone.Mark(m.zoneID(zoneOptions), gutter(focused)+labelStyle.Render("▸ "+m.t("catalog.options")))
	}
	if m.loading.Active() {
		row += " " + m.spinner.View()
	}
	return row
}

func (m Model) renderButtonRow() string {
	var buttons []string
	for _, s := range m.props.surface() {
		switch s.Action {
		case catalog.ActionSearch:
			buttons = append(buttons, zone.Mark(m.buttonZone(s.Action), styles.Button(m.t("catalog.search"), styles.ButtonPrimary, false, s.Disabled)))
		case catalog.ActionReset:
			buttons = append(buttons, zone.Mark(m.buttonZone(s.Action), styles.Button(m.t("catalog.reset"), styles.ButtonSecondary, false, s.Disabled)))
		}
	}
	if len(buttons) == 0 {
		return ""
	}
	return "  " + strings.Join(buttons, " ")
}

// renderBody shows, in order of precedence, the result, the loading error,
// or nothing before the first search.
func (m Model) renderBody(width, height int) string {
	r := m.props.Result
	switch {
	case r != nil && r.NumberOfRecordsMatched == 0:
		return "  " + styles.HintStyle.Italic(true).Render(m.t("catalog.noRecordsMatched"))
	case r != nil:
		return m.renderResults(width, height)
	case m.props.LoadingError != nil:
		msg := m.msgs.ErrorMessage(m.props.Locale, search.Code(m.props.LoadingError))
		return "  " + styles.ErrorTextStyle.Render(wordwrap.String(msg, width-4))
	}
	return ""
}

func (m Model) renderResults(width, height int) string {
	if !m.showDetail {
		return m.renderRecords(width, height)
	}
	if w, _ := m.size(); w >= splitWidth {
		listWidth := width - width/2
		list := lipgloss.NewStyle().Width(listWidth).Render(m.renderRecords(listWidth, height))
		return lipgloss.JoinHorizontal(lipgloss.Top, list, m.detail.View())
	}
	return m.detail.View()
}

// renderRecords lists two lines per record, scrolled to keep the cursor visible.
func (m Model) renderRecords(width, height int) string {
	records := m.records()
	perScreen := max(height/2, 1)
	first := max(m.cursor-perScreen+1, 0)
	last := min(first+perScreen, len(records))
	textWidth := max(width-4, 8)

	lines := make([]string, 0, 2*(last-first))
	for i := first; i < last; i++ {
		rec := records[i]
		selected := i == m.cursor
		indicator := "  "
		if selected {
			indicator = styles.SelectionIndicatorStyle.Render("▸ ")
		}

		title := rec.Title
		if title == "" {
			title = rec.Identifier
		}
		badge := ""
		if rec.LayerType != "" {
			badge = " " + styles.TypeBadge(string(rec.LayerType))
		}
		titleStyle := styles.RecordTitleStyle
		if selected && m.focus == focusResults {
			titleStyle = titleStyle.Underline(true)
		}
		titleLine := indicator + titleStyle.Render(runewidth.Truncate(title, textWidth-runewidth.StringWidth(badge), "…")) + badge

		abstract := strings.Join(strings.Fields(rec.Abstract), " ")
		abstractLine := "  " + styles.RecordAbstractStyle.Render(truncate.StringWithTail(abstract, uint(textWidth), "…"))

		lines = append(lines, zone.Mark(m.recordZone(i), titleLine+"\n"+abstractLine))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderPagerLine() string {
	info := m.pageInfo()
	if info == nil || info.Empty {
		return ""
	}
	prev := styles.HintStyle.Render(" ‹ ")
	next := styles.HintStyle.Render(" › ")
	if info.ActivePage() > 1 {
		prev = zone.Mark(m.zoneID(zonePagePrev), labelStyle.Render(" ‹ "))
	}
	if info.ActivePage() < info.PageCount {
		next = zone.Mark(m.zoneID(zonePageNext), labelStyle.Render(" › "))
	}
	line := " " + prev + m.pager.View() + next
	if m.loading.Active() {
		line += " " + m.spinner.View()
	}
	return line
}

// pageInfoText is the "X-Y of Z" range of the current page.
func (m Model) pageInfoText() string {
	info := m.pageInfo()
	if info == nil || info.Empty {
		return ""
	}
	return m.msgs.T(m.props.Locale, "catalog.pageInfo", i18n.Params{
		"start": info.Start,
		"end":   info.End,
		"total": info.Total,
	})
}

func (m Model) renderEdit() string {
	w, h := m.size()
	draft := m.props.NewService

	field := func(f formField, label, value string) string {
		focused := m.form.focus == f
		style := labelStyle
		if focused {
			style = focusedLabelStyle
		}
		return zone.Mark(m.fieldZone(f), gutter(focused)+style.Render(label)+"\n"+gutter(focused)+value)
	}
	checkbox := func(f formField, checked bool, label string) string {
		box := "[ ]"
		if checked {
			box = "[x]"
		}
		style := labelStyle
		if m.form.focus == f {
			style = focusedLabelStyle
		}
		return zone.Mark(m.fieldZone(f), gutter(m.form.focus == f)+style.Render(box+" "+label))
	}

	typeLabel := string(draft.Type)
	if i := formatIndex(m.props.Formats, draft.Type); i >= 0 {
		typeLabel = m.props.Formats[i].Label
	}

	var buttons []string
	for _, s := range m.props.surface() {
		var b string
		switch s.Action {
		case catalog.ActionSave:
			b = styles.Button(m.msgs.T(m.props.Locale, "save", nil), styles.ButtonPrimary, false, s.Disabled)
		case catalog.ActionDelete:
			b = styles.Button(m.t("catalog.delete"), styles.ButtonDanger, false, s.Disabled)
		case catalog.ActionCancel:
			b = styles.Button(m.msgs.T(m.props.Locale, "cancel", nil), styles.ButtonSecondary, false, s.Disabled)
		}
		buttons = append(buttons, zone.Mark(m.buttonZone(s.Action), b))
	}
	buttonRow := "  " + strings.Join(buttons, " ")
	if m.props.Saving {
		buttonRow += " " + m.spinner.View()
	}

	content := strings.Join([]string{
		field(fieldURL, m.t("catalog.url"), m.form.url.View()),
		field(fieldType, m.t("catalog.type"), "‹ "+typeLabel+" ›"),
		field(fieldTitle, m.t("catalog.serviceTitle"), m.form.title.View()),
		"",
		checkbox(fieldAutoload, draft.Autoload, m.t("catalog.autoload")),
		checkbox(fieldAuthentication, authEnabled(draft), m.t("catalog.authentication")),
		"",
		buttonRow,
	}, "\n")

	title := draft.Title
	if draft.IsNew || title == "" {
		title = m.t("catalog.addNew")
	}
	return styles.Panel{
		Title:   title,
		Width:   w,
		Height:  h,
		Focused: true,
	}.Render(content)
}
