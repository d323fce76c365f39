package app

import (
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/zjrosen/atlas/internal/catalog"
	"github.com/zjrosen/atlas/internal/config"
	"github.com/zjrosen/atlas/internal/mode/catalogview"
)

// store owns the catalog state. Each method applies one change and returns
// the next store; the app hands props to the view after every change.
type store struct {
	props catalogview.Props
	// editing is the registry key of the service in the edit form, empty for
	// a new draft.
	editing string
	// latest is the newest search token seen. Under ResetOnToken older
	// answers are dropped.
	latest uint64
	policy catalog.ResetPolicy
}

func newStore(cfg config.Config, policy catalog.ResetPolicy) store {
	c := cfg.Catalog
	formats := make([]catalogview.Format, 0, len(c.Formats))
	for _, f := range c.Formats {
		formats = append(formats, catalogview.Format{Name: catalog.ServiceType(f.Name), Label: f.Label})
	}
	return store{policy: policy, props: catalogview.Props{
		Mode:                catalog.ModeView,
		Active:              true,
		Services:            c.Registry(),
		ServicesRevision:    1,
		SelectedService:     c.SelectedService,
		PageSize:            c.PageSize,
		Source:              c.Source,
		Locale:              c.Locale,
		Formats:             formats,
		IncludeSearchButton: c.IncludeSearchButton,
		IncludeResetButton:  c.IncludeResetButton,
		WrapOptions:         c.WrapOptions,
	}}
}

func (s store) setActive(active bool) store {
	s.props.Active = active
	return s
}

func (s store) selectService(name string) store {
	s.props.SelectedService = name
	s.props.LayerError = ""
	return s
}

// stale reports whether an edit with seq is older than the applied one.
// A zero seq is unordered and always applies.
func stale(seq, applied uint64) bool {
	return seq != 0 && seq <= applied
}

func (s store) setText(text string, seq uint64) store {
	if stale(seq, s.props.Edits.Text) {
		return s
	}
	s.props.SearchText = text
	s.props.Edits.Text = max(s.props.Edits.Text, seq)
	return s
}

func (s store) setURL(url string, seq uint64) store {
	if stale(seq, s.props.Edits.URL) {
		return s
	}
	s.props.Edits.URL = max(s.props.Edits.URL, seq)
	return s.editDraft(func(d *catalog.ServiceDefinition) { d.URL = url })
}

func (s store) setTitle(title string, seq uint64) store {
	if stale(seq, s.props.Edits.Title) {
		return s
	}
	s.props.Edits.Title = max(s.props.Edits.Title, seq)
	return s.editDraft(func(d *catalog.ServiceDefinition) { d.Title = title })
}

// searchStarted notes a dispatched request.
func (s store) searchStarted(req catalog.SearchRequest) store {
	s.latest = max(s.latest, req.Token)
	return s
}

// searchAnswered applies the outcome of a search. It reports false when the
// answer belongs to a superseded request and is dropped. ResetOnAnyChange
// keeps every answer, so the last one delivered wins.
func (s store) searchAnswered(msg searchResultMsg) (store, bool) {
	if s.policy != catalog.ResetOnAnyChange && msg.Request.Token < s.latest {
		return s, false
	}
	s.props.ResultToken = msg.Request.Token
	if msg.Err != nil {
		s.props.Result = nil
		s.props.LoadingError = msg.Err
		return s, true
	}
	s.props.Result = msg.Result
	s.props.LoadingError = nil
	s.props.SearchOptions = msg.Request.Options()
	return s, true
}

func (s store) reset(textSeq uint64) store {
	s.props.SearchText = ""
	s.props.Edits.Text = max(s.props.Edits.Text, textSeq)
	s.props.Result = nil
	s.props.LoadingError = nil
	s.props.LayerError = ""
	s.props.SearchOptions = catalog.SearchOptions{}
	return s
}

func (s store) setLayerError(code string) store {
	s.props.LayerError = code
	return s
}

// setMode switches between browse and edit. Entering edit loads the draft:
// an empty one when isNew, else a copy of the selected service.
func (s store) setMode(mode catalog.Mode, isNew bool) store {
	if mode != catalog.ModeEdit {
		s.props.Mode = catalog.ModeView
		s.props.Saving = false
		s.props.NewService = catalog.ServiceDefinition{}
		s.editing = ""
		return s
	}
	s.props.Mode = catalog.ModeEdit
	if isNew {
		s.props.NewService = catalog.ServiceDefinition{Type: catalog.TypeWMS, IsNew: true}
		s.editing = ""
		return s
	}
	def, ok := s.props.Services.Lookup(s.props.SelectedService)
	if !ok {
		s.props.NewService = catalog.ServiceDefinition{Type: catalog.TypeWMS, IsNew: true}
		s.editing = ""
		return s
	}
	if def.Authentication != nil {
		auth := *def.Authentication
		def.Authentication = &auth
	}
	s.props.NewService = def
	s.editing = s.props.SelectedService
	return s
}

func (s store) editDraft(edit func(*catalog.ServiceDefinition)) store {
	draft := s.props.NewService
	if draft.Authentication != nil {
		auth := *draft.Authentication
		draft.Authentication = &auth
	}
	edit(&draft)
	s.props.NewService = draft
	return s
}

// draftKey is the registry key the draft is saved under. Existing services
// keep their key, new ones are keyed by their title.
func (s store) draftKey() string {
	if s.editing != "" {
		return s.editing
	}
	return strings.TrimSpace(s.props.NewService.Title)
}

// prepareSave validates the draft and returns the registry to persist.
func (s store) prepareSave() (store, string, catalog.Registry, error) {
	name := s.draftKey()
	draft := s.props.NewService
	draft.IsNew = false
	draft.Title = strings.TrimSpace(draft.Title)
	draft.URL = strings.TrimSpace(draft.URL)
	if err := config.ValidateService(name, draft); err != nil {
		return s, "", nil, err
	}
	if _, exists := s.props.Services[name]; exists && s.editing == "" {
		return s, "", nil, fmt.Errorf("service %q already exists", name)
	}
	next := maps.Clone(s.props.Services)
	if next == nil {
		next = catalog.Registry{}
	}
	next[name] = draft
	s.props.Saving = true
	return s, name, next, nil
}

// prepareDelete returns the registry without the edited service.
func (s store) prepareDelete() (store, string, catalog.Registry, bool) {
	if s.editing == "" {
		return s, "", nil, false
	}
	next := maps.Clone(s.props.Services)
	delete(next, s.editing)
	s.props.Saving = true
	return s, s.editing, next, true
}

// saved installs a persisted registry and returns to browsing. selected is
// the service to select afterwards, empty to clear the selection.
func (s store) saved(registry catalog.Registry, selected string) store {
	s = s.setServices(registry)
	s = s.setMode(catalog.ModeView, false)
	s.props.SelectedService = selected
	return s
}

func (s store) saveFailed() store {
	s.props.Saving = false
	return s
}

// reloadServices installs a registry read back from disk. It reports false
// when nothing changed.
func (s store) reloadServices(registry catalog.Registry) (store, bool) {
	if reflect.DeepEqual(registry, s.props.Services) {
		return s, false
	}
	return s.setServices(registry), true
}

func (s store) setServices(registry catalog.Registry) store {
	s.props.Services = registry
	s.props.ServicesRevision++
	return s
}
