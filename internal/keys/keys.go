// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// AppKeys are active in every mode.
type AppKeys struct {
	SwitchMode key.Binding
	Layers     key.Binding
	Logs       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// CatalogKeys drive the browsing surface of the catalog view.
type CatalogKeys struct {
	NextFocus   key.Binding
	PrevFocus   key.Binding
	Up          key.Binding
	Down        key.Binding
	PrevPage    key.Binding
	NextPage    key.Binding
	Submit      key.Binding
	PickService key.Binding
	AddLayer    key.Binding
	ZoomExtent  key.Binding
	Details     key.Binding
	Edit        key.Binding
	AddNew      key.Binding
	Reset       key.Binding
}

// EditKeys drive the service edit form.
type EditKeys struct {
	NextField key.Binding
	PrevField key.Binding
	Toggle    key.Binding
	Save      key.Binding
	Delete    key.Binding
	Cancel    key.Binding
}

// LayerKeys drive the composition layer list.
type LayerKeys struct {
	Up     key.Binding
	Down   key.Binding
	Remove key.Binding
	Yank   key.Binding
	Back   key.Binding
}

// App holds the global bindings.
var App = AppKeys{
	SwitchMode: key.NewBinding(
		key.WithKeys("ctrl+@"),
		key.WithHelp("ctrl+space", "switch mode"),
	),
	Layers: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "layers"),
	),
	Logs: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "logs"),
	),
	Help: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("f1", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// Catalog holds the browsing bindings.
var Catalog = CatalogKeys{
	NextFocus: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	PrevFocus: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous field"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "previous record"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "next record"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("h", "left", "pgup"),
		key.WithHelp("h/←", "previous page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("l", "right", "pgdown"),
		key.WithHelp("l/→", "next page"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "search"),
	),
	PickService: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "choose service"),
	),
	AddLayer: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add to map"),
	),
	ZoomExtent: key.NewBinding(
		key.WithKeys("z"),
		key.WithHelp("z", "zoom to extent"),
	),
	Details: key.NewBinding(
		key.WithKeys("enter", "d"),
		key.WithHelp("d", "details"),
	),
	Edit: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("ctrl+e", "edit service"),
	),
	AddNew: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "new service"),
	),
	Reset: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "reset"),
	),
}

// Edit holds the edit form bindings.
var Edit = EditKeys{
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous field"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
	Delete: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "delete"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// Layers holds the layer list bindings.
var Layers = LayerKeys{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "move down"),
	),
	Remove: key.NewBinding(
		key.WithKeys("x", "delete"),
		key.WithHelp("x", "remove layer"),
	),
	Yank: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy url"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back to catalog"),
	),
}

// ShortHelp implements help.KeyMap.
func (k CatalogKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.PickService, k.NextFocus, App.Logs, App.Help}
}

// FullHelp implements help.KeyMap.
func (k CatalogKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextFocus, k.PrevFocus, k.Up, k.Down, k.PrevPage, k.NextPage},
		{k.Submit, k.PickService, k.Details, k.AddLayer, k.ZoomExtent},
		{k.Edit, k.AddNew, k.Reset},
		{App.SwitchMode, App.Layers, App.Logs, App.Help, App.Quit},
	}
}

func (k EditKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Delete, k.Cancel, k.Toggle}
}

func (k EditKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField, k.Toggle},
		{k.Save, k.Delete, k.Cancel},
	}
}

func (k LayerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Remove, k.Yank, k.Back, App.SwitchMode}
}

func (k LayerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Remove, k.Yank, k.Back},
		{App.SwitchMode, App.Logs, App.Help, App.Quit},
	}
}
