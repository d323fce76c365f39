package catalogview

import (
	"fmt"

	"github.com/zjrosen/atlas/internal/catalog"
)

// Zone ID format for the catalog view, all under the model's prefix:
// - Action buttons: btn:{action}
// - Record rows: record:{index}
// - Edit form fields: field:{index}
// - Service field, options toggle, text input and pager arrows: fixed names

const (
	zoneService  = "service"
	zoneOptions  = "options"
	zoneText     = "text"
	zonePagePrev = "page:prev"
	zonePageNext = "page:next"
)

func (m Model) zoneID(name string) string {
	return m.zonePrefix + name
}

func (m Model) buttonZone(a catalog.Action) string {
	return m.zoneID("btn:" + string(a))
}

func (m Model) recordZone(i int) string {
	return m.zoneID(fmt.Sprintf("record:%d", i))
}

func (m Model) fieldZone(f formField) string {
	return m.zoneID(fmt.Sprintf("field:%d", f))
}
