package catalogview

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/atlas/internal/catalog"
	"github.com/zjrosen/atlas/internal/keys"
)

// formField identifies a field of the service edit form.
type formField int

const (
	fieldURL formField = iota
	fieldType
	fieldTitle
	fieldAutoload
	fieldAuthentication
	fieldCount
)

// editForm edits the draft service. Field values are mirrored from Props;
// edits leave as Change*Msg.
type editForm struct {
	url   textinput.Model
	title textinput.Model
	focus formField
	// Seq of the last emitted edit per field.
	urlSeq   uint64
	titleSeq uint64
}

func newEditForm() editForm {
	url := textinput.New()
	url.Prompt = ""
	url.CharLimit = 512
	title := textinput.New()
	title.Prompt = ""
	title.CharLimit = 128
	f := editForm{url: url, title: title}
	return f.focusField(fieldURL)
}

func (f editForm) setPlaceholders(urlHint, titleHint string) editForm {
	f.url.Placeholder = urlHint
	f.title.Placeholder = titleHint
	return f
}

// sync loads a new draft into the inputs.
func (f editForm) sync(draft catalog.ServiceDefinition) editForm {
	f.url.SetValue(draft.URL)
	f.title.SetValue(draft.Title)
	return f
}

// follow copies draft fields the owner changed itself. Applied edits of the
// form are skipped since the input is already ahead of them.
func (f editForm) follow(prev, next Props) editForm {
	if next.NewService.URL != prev.NewService.URL && next.Edits.URL == prev.Edits.URL {
		f.url.SetValue(next.NewService.URL)
	}
	if next.NewService.Title != prev.NewService.Title && next.Edits.Title == prev.Edits.Title {
		f.title.SetValue(next.NewService.Title)
	}
	return f
}

func (f editForm) focusField(field formField) editForm {
	f.focus = field
	f.url.Blur()
	f.title.Blur()
	switch field {
	case fieldURL:
		f.url.Focus()
	case fieldTitle:
		f.title.Focus()
	}
	return f
}

// update handles a key for the focused field.
func (f editForm) update(msg tea.KeyMsg, draft catalog.ServiceDefinition, formats []Format) (editForm, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Edit.NextField):
		return f.focusField((f.focus + 1) % fieldCount), nil
	case key.Matches(msg, keys.Edit.PrevField):
		return f.focusField((f.focus + fieldCount - 1) % fieldCount), nil
	}

	switch f.focus {
	case fieldURL:
		var cmd tea.Cmd
		before := f.url.Value()
		f.url, cmd = f.url.Update(msg)
		if v := f.url.Value(); v != before {
			f.urlSeq++
			return f, tea.Batch(cmd, emit(ChangeURLMsg{URL: v, Seq: f.urlSeq}))
		}
		return f, cmd
	case fieldTitle:
		var cmd tea.Cmd
		before := f.title.Value()
		f.title, cmd = f.title.Update(msg)
		if v := f.title.Value(); v != before {
			f.titleSeq++
			return f, tea.Batch(cmd, emit(ChangeTitleMsg{Title: v, Seq: f.titleSeq}))
		}
		return f, cmd
	case fieldType:
		step := 0
		switch msg.String() {
		case "left", "h":
			step = -1
		case "right", "l", " ":
			step = 1
		}
		if step == 0 || len(formats) == 0 {
			return f, nil
		}
		return f, emit(ChangeTypeMsg{Type: cycleFormat(formats, draft.Type, step)})
	case fieldAutoload:
		if key.Matches(msg, keys.Edit.Toggle) {
			return f, emit(ChangeAutoloadMsg{Autoload: !draft.Autoload})
		}
	case fieldAuthentication:
		if key.Matches(msg, keys.Edit.Toggle) {
			return f, emit(ChangeAuthenticationMsg{Enabled: !authEnabled(draft)})
		}
	}
	return f, nil
}

// cycleFormat steps through formats from t. An unknown t selects the first.
func cycleFormat(formats []Format, t catalog.ServiceType, step int) catalog.ServiceType {
	i := formatIndex(formats, t)
	if i < 0 {
		return formats[0].Name
	}
	return formats[(i+step+len(formats))%len(formats)].Name
}

// formatIndex returns the index of t in formats, -1 when absent.
func formatIndex(formats []Format, t catalog.ServiceType) int {
	for i, f := range formats {
		if f.Name == t {
			return i
		}
	}
	return -1
}

func authEnabled(def catalog.ServiceDefinition) bool {
	return def.Authentication != nil && def.Authentication.Enabled
}
