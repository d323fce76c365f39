package catalog

// Snapshot is the externally owned state the reactivity predicates inspect.
type Snapshot struct {
	Mode     Mode
	Active   bool
	Services Registry
	// ServicesRevision changes whenever the owner replaces the registry.
	ServicesRevision uint64
	SelectedService  string
	SearchText       string
	SearchOptions    SearchOptions
	Source           string
}

// autoloadTarget reports whether the selected service resolves with autoload.
func (s Snapshot) autoloadTarget() bool {
	def, ok := s.Services.Lookup(s.SelectedService)
	return ok && def.Autoload
}

// Transition pairs the previous and next snapshot of one update.
type Transition struct {
	Prev Snapshot
	Next Snapshot
}

// Trigger names the rule that produced a search intent.
type Trigger string

const (
	TriggerMount        Trigger = "mount"
	TriggerModeRestored Trigger = "mode-restored"
	TriggerReactivated  Trigger = "reactivated"
	TriggerUser         Trigger = "user"
	TriggerPage         Trigger = "page"
	TriggerRecordAdded  Trigger = "record-added"
)

// SearchIntent asks the view controller to build and dispatch a search.
type SearchIntent struct {
	Trigger  Trigger
	Services Registry
	Selected string
	Start    int
	Text     string
}

// ModeRestored reports a return from editing to browsing.
func ModeRestored(t Transition) bool {
	return t.Next.Mode == ModeView && t.Prev.Mode == ModeEdit
}

// RegistryChanged reports that the owner replaced the registry.
func RegistryChanged(t Transition) bool {
	return t.Next.ServicesRevision != t.Prev.ServicesRevision
}

// SelectionChanged reports that a different service name is selected.
func SelectionChanged(t Transition) bool {
	return t.Next.SelectedService != t.Prev.SelectedService
}

// Reactivated reports that the view became active again.
func Reactivated(t Transition) bool {
	return t.Next.Active && !t.Prev.Active
}

// Evaluate returns the searches a transition must dispatch. The refresh and
// reactivation rules are checked independently, so one transition can yield
// two intents.
func Evaluate(t Transition) []SearchIntent {
	var intents []SearchIntent
	n := t.Next

	refresh := ModeRestored(t) || RegistryChanged(t) || SelectionChanged(t)
	if refresh && n.Active && t.Prev.Active && n.autoloadTarget() {
		intents = append(intents, SearchIntent{
			Trigger:  TriggerModeRestored,
			Services: n.Services,
			Selected: n.SelectedService,
			Start:    1,
			Text:     n.SearchText,
		})
	}

	if Reactivated(t) && n.autoloadTarget() {
		start := n.SearchOptions.StartPosition
		if start < 1 {
			start = 1
		}
		intents = append(intents, SearchIntent{
			Trigger:  TriggerReactivated,
			Services: n.Services,
			Selected: n.SelectedService,
			Start:    start,
			Text:     n.SearchText,
		})
	}
	return intents
}

// OnMount returns the search to dispatch when the view is first shown, if
// any. It searches the listed registry only.
func OnMount(s Snapshot) (SearchIntent, bool) {
	if s.SelectedService == "" || !s.autoloadTarget() {
		return SearchIntent{}, false
	}
	return SearchIntent{
		Trigger:  TriggerMount,
		Services: BackgroundPolicy{Source: s.Source}.Visible(s.Services),
		Selected: s.SelectedService,
		Start:    1,
		Text:     s.SearchText,
	}, true
}
