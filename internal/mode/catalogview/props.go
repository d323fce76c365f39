package catalogview

import (
	"github.com/zjrosen/atlas/internal/catalog"
)

// Format is one entry of the service type selector.
type Format struct {
	Name  catalog.ServiceType
	Label string
}

// DefaultFormats lists every supported service type.
func DefaultFormats() []Format {
	return []Format{
		{Name: catalog.TypeCSW, Label: "CSW"},
		{Name: catalog.TypeWMS, Label: "WMS"},
		{Name: catalog.TypeWMTS, Label: "WMTS"},
	}
}

// Props is the state owned by the app and handed to the view each cycle.
type Props struct {
	Mode   catalog.Mode
	Active bool

	Services catalog.Registry
	// ServicesRevision must change whenever Services is replaced.
	ServicesRevision uint64
	SelectedService  string

	SearchText string
	// Edits holds, per text field, the Seq of the last view edit the owner
	// applied.
	Edits         Edits
	SearchOptions catalog.SearchOptions
	Result        *catalog.Result
	// ResultToken is the token of the request Result or LoadingError answers.
	ResultToken  uint64
	LoadingError error
	// LayerError is an error code from the last layer add, empty when none.
	LayerError string

	Saving bool
	// NewService is the draft edited in edit mode.
	NewService catalog.ServiceDefinition

	PageSize            int
	Source              string
	Locale              string
	Formats             []Format
	IncludeSearchButton bool
	IncludeResetButton  bool
	WrapOptions         bool
}

// Edits are the sequence numbers of view edits to the text fields. Edit
// messages can reach the owner out of order; a Seq not above the stored one
// is stale.
type Edits struct {
	Text  uint64
	URL   uint64
	Title uint64
}

func (p Props) withDefaults() Props {
	if p.Mode == "" {
		p.Mode = catalog.ModeView
	}
	if p.PageSize <= 0 {
		p.PageSize = catalog.DefaultPageSize
	}
	if p.Locale == "" {
		p.Locale = "en-US"
	}
	if len(p.Formats) == 0 {
		p.Formats = DefaultFormats()
	}
	if p.Services == nil {
		p.Services = catalog.Registry{}
	}
	return p
}

func (p Props) snapshot() catalog.Snapshot {
	return catalog.Snapshot{
		Mode:             p.Mode,
		Active:           p.Active,
		Services:         p.Services,
		ServicesRevision: p.ServicesRevision,
		SelectedService:  p.SelectedService,
		SearchText:       p.SearchText,
		SearchOptions:    p.SearchOptions,
		Source:           p.Source,
	}
}

func (p Props) policy() catalog.BackgroundPolicy {
	return catalog.BackgroundPolicy{Source: p.Source}
}

// surface returns the action surface for p.
func (p Props) surface() []catalog.ActionState {
	return catalog.Surface(catalog.SurfaceInput{
		Mode:                p.Mode,
		Services:            p.Services,
		SelectedService:     p.SelectedService,
		Source:              p.Source,
		Saving:              p.Saving,
		DraftIsNew:          p.NewService.IsNew,
		IncludeSearchButton: p.IncludeSearchButton,
		IncludeResetButton:  p.IncludeResetButton,
	})
}
