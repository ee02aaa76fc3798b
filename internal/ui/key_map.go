package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
//
// Text fields receive printable keys, so form views only bind control keys.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	next      key.Binding
	generate  key.Binding
	accept    key.Binding
	suggest   key.Binding
	results   key.Binding
	feedback  key.Binding
	toggle    key.Binding
	toggleAll key.Binding
	save      key.Binding
	preview   key.Binding
	mode      key.Binding
	submit    key.Binding
	back      key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		next:      key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		generate:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "generate")),
		accept:    key.NewBinding(key.WithKeys("tab", "enter"), key.WithHelp("tab/enter", "add genre")),
		suggest:   key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "apply suggestion")),
		results:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "results")),
		feedback:  key.NewBinding(key.WithKeys("ctrl+f", "f"), key.WithHelp("ctrl+f", "feedback")),
		toggle:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		toggleAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		save:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		preview:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		mode:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "new/existing")),
		submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		quit:      key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.next, k.generate},
		{k.toggle, k.toggleAll, k.save, k.preview},
		{k.mode, k.submit, k.back, k.quit},
	}
}

// viewHelp returns the bindings shown under each view.
func (k keyMap) viewHelp(view ViewState) []key.Binding {
	switch view {
	case FilterView:
		return []key.Binding{k.next, k.generate, k.suggest, k.results, k.feedback}
	case ResultsView:
		return []key.Binding{k.toggle, k.toggleAll, k.save, k.preview, k.back, k.quit}
	case SaveView:
		return []key.Binding{k.mode, k.submit, k.back}
	case FeedbackView:
		return []key.Binding{k.next, k.submit, k.back}
	default:
		return k.ShortHelp()
	}
}
