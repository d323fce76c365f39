package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/atlas/internal/catalog"
	"github.com/zjrosen/atlas/internal/config"
	"github.com/zjrosen/atlas/internal/history"
	"github.com/zjrosen/atlas/internal/log"
	"github.com/zjrosen/atlas/internal/search"
)

// errNoExecutor answers searches when no executor is configured.
var errNoExecutor = &search.Error{Code: search.CodeUnsupportedType, Op: "search", Err: errors.New("no search executor configured")}

// searchResultMsg carries the answer to one SearchMsg.
type searchResultMsg struct {
	Request catalog.SearchRequest
	Result  *catalog.Result
	Err     error
}

// servicesSavedMsg reports the outcome of persisting the registry.
type servicesSavedMsg struct {
	Registry catalog.Registry
	// Name is the saved or deleted service.
	Name    string
	Deleted bool
	Err     error
}

// searchCmd runs req and records it in the history.
func (m Model) searchCmd(req catalog.SearchRequest) tea.Cmd {
	executor := m.services.Executor
	repo := m.services.History
	clock := m.services.Clock
	return func() tea.Msg {
		if executor == nil {
			return searchResultMsg{Request: req, Err: errNoExecutor}
		}
		result, err := executor.Search(context.Background(), req)
		if err != nil {
			log.ErrorErr(log.CatSearch, "Search failed", err, "service", req.Service, "token", req.Token)
		}
		if repo != nil {
			if herr := repo.Record(history.NewEntry(req, result, search.Code(err), clock.Now())); herr != nil {
				log.Warn(log.CatDB, "Failed to record search history", "error", herr)
			}
		}
		return searchResultMsg{Request: req, Result: result, Err: err}
	}
}

// saveServicesCmd persists registry. Without a config path the change stays
// in memory.
func (m Model) saveServicesCmd(registry catalog.Registry, name string, deleted bool) tea.Cmd {
	path := m.services.ConfigPath
	return func() tea.Msg {
		var err error
		if path != "" {
			err = config.SaveServices(path, config.ServicesFromRegistry(registry))
		}
		return servicesSavedMsg{Registry: registry, Name: name, Deleted: deleted, Err: err}
	}
}

// saveSelectionCmd remembers the selected service across runs.
func (m Model) saveSelectionCmd(name string) tea.Cmd {
	path := m.services.ConfigPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		if err := config.SaveSelectedService(path, name); err != nil {
			log.Warn(log.CatConfig, "Failed to persist selected service", "error", err)
		}
		return nil
	}
}
