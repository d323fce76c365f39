package catalog

// Mode is the browse/edit presentation mode of the catalog view.
type Mode string

const (
	// ModeView is browsing: service picker, text search and results.
	ModeView Mode = "view"
	// ModeEdit is editing a service definition.
	ModeEdit Mode = "edit"
)

// Action identifies one entry of the action surface.
type Action string

const (
	ActionSearch Action = "search"
	ActionReset  Action = "reset"
	ActionEdit   Action = "edit"
	ActionAddNew Action = "add"
	ActionSave   Action = "save"
	ActionDelete Action = "delete"
	ActionCancel Action = "cancel"
)

// ActionState is the rendering state of an action.
type ActionState struct {
	Action   Action
	Disabled bool
}

// SurfaceInput is what the action surface depends on.
type SurfaceInput struct {
	Mode                Mode
	Services            Registry
	SelectedService     string
	Source              string
	Saving              bool
	DraftIsNew          bool
	IncludeSearchButton bool
	IncludeResetButton  bool
}

// Surface lists the actions offered in the current mode, in display order.
// Hidden actions are omitted; disabled ones are present with Disabled set.
func Surface(in SurfaceInput) []ActionState {
	switch in.Mode {
	case ModeEdit:
		actions := []ActionState{{Action: ActionSave, Disabled: in.Saving}}
		if !in.DraftIsNew {
			actions = append(actions, ActionState{Action: ActionDelete})
		}
		return append(actions, ActionState{Action: ActionCancel, Disabled: in.Saving})
	default:
		var actions []ActionState
		valid := IsValid(in.Services, in.SelectedService)
		if valid && (BackgroundPolicy{Source: in.Source}).Editable(in.SelectedService) {
			actions = append(actions, ActionState{Action: ActionEdit})
		}
		actions = append(actions, ActionState{Action: ActionAddNew})
		if in.IncludeSearchButton {
			actions = append(actions, ActionState{Action: ActionSearch, Disabled: !valid})
		}
		if in.IncludeResetButton {
			actions = append(actions, ActionState{Action: ActionReset})
		}
		return actions
	}
}

// Offered returns the state of a in the surface and whether it is present.
func Offered(surface []ActionState, a Action) (ActionState, bool) {
	for _, s := range surface {
		if s.Action == a {
			return s, true
		}
	}
	return ActionState{}, false
}

// Enabled reports whether a is present and not disabled.
func Enabled(surface []ActionState, a Action) bool {
	s, ok := Offered(surface, a)
	return ok && !s.Disabled
}
