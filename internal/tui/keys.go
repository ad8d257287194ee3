package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextSheet key.Binding
	PrevSheet key.Binding
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Search    key.Binding
	Column    key.Binding
	Clear     key.Binding
	Edit      key.Binding
	Refresh   key.Binding
	Upload    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextSheet: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "sheet sau")),
		PrevSheet: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab/←", "sheet trước")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "lên")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "xuống")),
		PageUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "trang trước")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "trang sau")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "tìm kiếm")),
		Column:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "đổi cột tìm")),
		Clear:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "xóa tìm kiếm")),
		Edit:      key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "sửa thời hạn")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "tải lại")),
		Upload:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "tải file Excel")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "trợ giúp")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "thoát")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextSheet, k.Search, k.Column, k.Edit, k.Upload, k.Refresh, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextSheet, k.PrevSheet, k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Search, k.Column, k.Clear},
		{k.Edit, k.Upload, k.Refresh, k.Help, k.Quit},
	}
}
