package catalogview

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/atlas/internal/catalog"
)

// Outbound messages. The view never changes the state it is given; every
// requested change leaves as one of these and comes back through Props.

// SearchMsg asks the owner to run a search. It is not awaited; the answer
// arrives as a Props update carrying ResultToken == Request.Token.
type SearchMsg struct {
	Request catalog.SearchRequest
	Trigger catalog.Trigger
}

// ChangeSelectedServiceMsg selects a service by name. Empty clears the selection.
type ChangeSelectedServiceMsg struct {
	Name string
}

// ChangeCatalogModeMsg requests a browse/edit switch. IsNew asks for an empty
// draft instead of a copy of the selected service.
type ChangeCatalogModeMsg struct {
	Mode  catalog.Mode
	IsNew bool
}

// ChangeTextMsg reports an edit of the search text.
type ChangeTextMsg struct {
	Text string
	// Seq increases with every edit of the field. See Props.Edits.
	Seq uint64
}

// ChangeURLMsg edits the draft service url.
type ChangeURLMsg struct {
	URL string
	// Seq increases with every edit of the field. See Props.Edits.
	Seq uint64
}

// ChangeTypeMsg edits the draft service type.
type ChangeTypeMsg struct {
	Type catalog.ServiceType
}

// ChangeTitleMsg edits the draft service title.
type ChangeTitleMsg struct {
	Title string
	// Seq increases with every edit of the field. See Props.Edits.
	Seq uint64
}

// ChangeAutoloadMsg edits the draft autoload flag.
type ChangeAutoloadMsg struct {
	Autoload bool
}

// ChangeAuthenticationMsg toggles basic authentication on the draft.
type ChangeAuthenticationMsg struct {
	Enabled bool
}

// AddServiceMsg saves the draft.
type AddServiceMsg struct{}

// DeleteServiceMsg removes the service being edited.
type DeleteServiceMsg struct{}

// ResetMsg clears the search text and the current result.
type ResetMsg struct {
	// TextSeq is the text edit sequence at the reset. Text edits up to it
	// that arrive later are stale.
	TextSeq uint64
}

// ErrorMsg reports a non-fatal problem to the owner for notification.
type ErrorMsg struct {
	Message string
}

// LayerAddMsg asks the owner to add a record to the map.
type LayerAddMsg struct {
	Record  catalog.Record
	Service string
}

// ZoomToExtentMsg asks the owner to zoom the map to a record extent.
type ZoomToExtentMsg struct {
	Record catalog.Record
}

// MountMsg triggers the on-mount search. Init returns it.
type MountMsg struct{}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
