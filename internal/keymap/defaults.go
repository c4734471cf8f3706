package keymap

import (
	"colfm/internal/commands"

	"github.com/charmbracelet/bubbles/key"
	"github.com/samber/lo"
)

var defaultBindings = []struct {
	keys []string
	line string
}{
	{[]string{"j"}, "cursor_move_down"},
	{[]string{"down"}, "cursor_move_down"},
	{[]string{"k"}, "cursor_move_up"},
	{[]string{"up"}, "cursor_move_up"},
	{[]string{"h"}, "cd .."},
	{[]string{"left"}, "cd .."},
	{[]string{"backspace"}, "cd .."},
	{[]string{"l"}, "open_file"},
	{[]string{"right"}, "open_file"},
	{[]string{"enter"}, "open_file"},
	{[]string{"g", "g"}, "cursor_move_home"},
	{[]string{"home"}, "cursor_move_home"},
	{[]string{"G"}, "cursor_move_end"},
	{[]string{"end"}, "cursor_move_end"},
	{[]string{"pgup"}, "cursor_move_page_up"},
	{[]string{"ctrl+u"}, "cursor_move_page_up"},
	{[]string{"pgdown"}, "cursor_move_page_down"},
	{[]string{"ctrl+d"}, "cursor_move_page_down"},
	{[]string{"g", "h"}, "cd ~"},
	{[]string{"g", "r"}, "cd /"},

	{[]string{"ctrl+t"}, "new_tab"},
	{[]string{"W"}, "close_tab"},
	{[]string{"tab"}, "tab_switch 1"},
	{[]string{"shift+tab"}, "tab_switch -1"},
	{[]string{"q"}, "quit"},
	{[]string{"Q"}, "force_quit"},
	{[]string{"ctrl+c"}, "quit"},

	{[]string{"space"}, "select_files --toggle"},
	{[]string{"v"}, "select_files --toggle --all"},
	{[]string{"y", "y"}, "copy_files"},
	{[]string{"d", "d"}, "cut_files"},
	{[]string{"p", "p"}, "paste_files"},
	{[]string{"p", "o"}, "paste_files --overwrite"},
	{[]string{"p", "s"}, "paste_files --skip_exist"},
	{[]string{"delete"}, "delete_files"},

	{[]string{"a"}, "rename_append"},
	{[]string{"A"}, "rename_prepend"},
	{[]string{"c", "w"}, "console rename "},
	{[]string{"b", "b"}, "bulk_rename"},
	{[]string{"m", "k"}, "console mkdir "},
	{[]string{"="}, "set_mode"},
	{[]string{"r"}, "open_file_with"},
	{[]string{"S"}, "shell"},
	{[]string{"!"}, "console shell "},
	{[]string{":"}, "console"},

	{[]string{"/"}, "console search "},
	{[]string{"n"}, "search_next"},
	{[]string{"N"}, "search_prev"},

	{[]string{"s", "l"}, "sort lexical"},
	{[]string{"s", "n"}, "sort natural"},
	{[]string{"s", "s"}, "sort size"},
	{[]string{"s", "m"}, "sort mtime"},
	{[]string{"s", "r"}, "sort reverse"},
	{[]string{"z", "h"}, "toggle_hidden"},
	{[]string{"R"}, "reload_dir_list"},
}

// Default returns the built-in bindings.
func Default() *Keymap {
	m := New()
	for _, b := range defaultBindings {
		cmd, err := commands.Parse(b.line)
		if err != nil {
			panic("keymap: bad default binding " + b.line + ": " + err.Error())
		}
		if err := m.Bind(b.keys, cmd); err != nil {
			panic("keymap: " + err.Error())
		}
	}
	return m
}

// shortHelp names the commands shown in the one-line help.
var shortHelp = []string{"open_file", "cd ..", "select_files --toggle", "paste_files", "console", "quit"}

// ShortHelp implements help.KeyMap.
func (m *Keymap) ShortHelp() []key.Binding {
	var out []key.Binding
	seen := map[string]bool{}
	for _, b := range m.KeyBindings() {
		cmd := b.Help().Desc
		if seen[cmd] || !lo.Contains(shortHelp, cmd) {
			continue
		}
		seen[cmd] = true
		out = append(out, b)
	}
	return out
}

// FullHelp implements help.KeyMap.
func (m *Keymap) FullHelp() [][]key.Binding {
	return lo.Chunk(m.KeyBindings(), 12)
}
