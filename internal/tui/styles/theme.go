// Package styles holds the lipgloss styles of the interface.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the core UI styles
var Theme = struct {
	Title     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Dir       lipgloss.Style
	File      lipgloss.Style
	Symlink   lipgloss.Style
	Other     lipgloss.Style
	Cursor    lipgloss.Style
	Selected  lipgloss.Style
	Size      lipgloss.Style
	Column    lipgloss.Style
	Empty     lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Prompt    lipgloss.Style
	Help      lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7B61FF")),
	Tab: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#959595")).
		Padding(0, 1),
	ActiveTab: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#4F4FB7")).
		Padding(0, 1),
	Dir: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#81A1C1")).
		Bold(true),
	File: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#CCCCCC")),
	Symlink: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#D08770")).
		Italic(true),
	Other: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#B48EAD")),
	Cursor: lipgloss.NewStyle().
		Reverse(true),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#73F59F")).
		Bold(true),
	Size: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666666")),
	Column: lipgloss.NewStyle().
		PaddingRight(1),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666666")).
		Italic(true),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#959595")),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF5F5F")),
	Prompt: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7B61FF")),
	Help: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5A9")),
}
