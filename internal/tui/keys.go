package tui

import "github.com/charmbracelet/bubbles/key"

// Raw key strings used by the search input.
const (
	keyEnter = "enter"
	keyEsc   = "esc"
)

// KeyMap holds the browser's key bindings. It implements help.KeyMap.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Open       key.Binding
	Close      key.Binding
	Search     key.Binding
	ClearOrEsc key.Binding
	ToggleSort key.Binding
	NextColumn key.Binding
	PrevColumn key.Binding
	PrevPage   key.Binding
	NextPage   key.Binding
	PageSize   key.Binding
	Reload     key.Binding
	Copy       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:        key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g/home", "first row")),
		Bottom:     key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G/end", "last row")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Close:      key.NewBinding(key.WithKeys("esc", "enter", "q"), key.WithHelp("esc/q", "close details")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		ClearOrEsc: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		ToggleSort: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "flip order")),
		NextColumn: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next sort column")),
		PrevColumn: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev sort column")),
		PrevPage:   key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←/h", "prev page")),
		NextPage:   key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("→/l", "next page")),
		PageSize:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "rows per page")),
		Reload:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy name")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Search, k.ToggleSort, k.NextPage, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Open, k.Close, k.Copy, k.Reload},
		{k.Search, k.ClearOrEsc, k.ToggleSort, k.NextColumn, k.PrevColumn},
		{k.PrevPage, k.NextPage, k.PageSize, k.Help, k.Quit},
	}
}
