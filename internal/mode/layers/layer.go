package layers

import (
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/atlas/internal/catalog"
)

// Layer is a catalog record added to the map composition.
type Layer struct {
	ID      string
	Title   string
	Name    string
	Type    catalog.ServiceType
	URL     string
	Service string
	BBox    *catalog.BBox
	AddedAt time.Time
}

// FromRecord builds the layer for rec. It reports false when the record
// carries no layer name or endpoint to request it from.
func FromRecord(rec catalog.Record, service string, now time.Time) (Layer, bool) {
	if rec.LayerName == "" || rec.URL == "" {
		return Layer{}, false
	}
	title := rec.Title
	if title == "" {
		title = rec.LayerName
	}
	return Layer{
		ID:      uuid.NewString(),
		Title:   title,
		Name:    rec.LayerName,
		Type:    rec.LayerType,
		URL:     rec.URL,
		Service: service,
		BBox:    rec.BBox,
		AddedAt: now,
	}, true
}
