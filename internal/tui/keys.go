package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

type KeyMap struct {
	Prompt   key.Binding
	Settings key.Binding
	Skip     key.Binding
	Filter   key.Binding
	Backup   key.Binding
	Open     key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding

	// Prompt and settings views. Plain letters go to the form, so these use ctrl.
	SaveStop key.Binding
	SkipThis key.Binding
	Reset    key.Binding
	Cancel   key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prompt, k.Skip, k.Filter, k.Settings, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prompt, k.Skip, k.Settings},
		{k.Filter, k.Backup, k.Open, k.Refresh},
		{k.Help, k.Quit},
	}
}

// viewKeys is the help shown while a form or the filter has the keyboard.
type viewKeys []key.Binding

func (v viewKeys) ShortHelp() []key.Binding  { return v }
func (v viewKeys) FullHelp() [][]key.Binding { return [][]key.Binding{v} }

func (m Model) helpKeys() help.KeyMap {
	switch {
	case m.state == ViewPrompt:
		return viewKeys{m.keys.SaveStop, m.keys.SkipThis, m.keys.Cancel}
	case m.state == ViewSettings:
		return viewKeys{m.keys.Reset, m.keys.Cancel}
	case m.filtering:
		return viewKeys{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply filter")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filter")),
		}
	}
	return m.keys
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prompt: key.NewBinding(
			key.WithKeys("p", "enter"),
			key.WithHelp("p", "log work"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "settings"),
		),
		Skip: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "skip next"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Backup: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "backup now"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open backups"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		SaveStop: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save & stop asking"),
		),
		SkipThis: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "skip next prompt"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reset to defaults"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
