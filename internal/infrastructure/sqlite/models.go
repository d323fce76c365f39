package sqlite

import (
	"time"

	"github.com/zjrosen/atlas/internal/catalog"
	"github.com/zjrosen/atlas/internal/history"
)

// searchModel is one row of the searches table. Times are Unix seconds.
type searchModel struct {
	ID            int64
	GUID          string
	Service       string
	Type          string
	URL           string
	Text          string
	StartPosition int
	PageSize      int
	Matched       int
	Error         *string // nullable
	CreatedAt     int64
}

func toSearchModel(e *history.Entry) *searchModel {
	m := &searchModel{
		ID:            e.ID,
		GUID:          e.GUID,
		Service:       e.Service,
		Type:          string(e.Type),
		URL:           e.URL,
		Text:          e.Text,
		StartPosition: e.StartPosition,
		PageSize:      e.PageSize,
		Matched:       e.Matched,
		CreatedAt:     e.CreatedAt.Unix(),
	}
	if e.Error != "" {
		code := e.Error
		m.Error = &code
	}
	return m
}

func (m *searchModel) toEntry() *history.Entry {
	e := &history.Entry{
		ID:            m.ID,
		GUID:          m.GUID,
		Service:       m.Service,
		Type:          catalog.ServiceType(m.Type),
		URL:           m.URL,
		Text:          m.Text,
		StartPosition: m.StartPosition,
		PageSize:      m.PageSize,
		Matched:       m.Matched,
		CreatedAt:     time.Unix(m.CreatedAt, 0),
	}
	if m.Error != nil {
		e.Error = *m.Error
	}
	return e
}
