package components

import (
	"fmt"
	"strings"

	"colfm/internal/dirlist"
	"colfm/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// FileList renders one column of the three-column view.
type FileList struct {
	width   int
	height  int
	details bool
}

// NewFileList creates a column renderer. details adds file sizes.
func NewFileList(details bool) *FileList {
	return &FileList{details: details}
}

func (fl *FileList) SetSize(width, height int) {
	fl.width = width
	fl.height = height
}

func (fl *FileList) Width() int { return fl.width }

func styleFor(e dirlist.Entry) lipgloss.Style {
	switch e.Kind {
	case dirlist.KindDir:
		return styles.Theme.Dir
	case dirlist.KindSymlink:
		if e.LinksToDir {
			return styles.Theme.Dir.Italic(true)
		}
		return styles.Theme.Symlink
	case dirlist.KindOther:
		return styles.Theme.Other
	}
	return styles.Theme.File
}

// fit truncates s to width cells and pads it on the right.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, "~"), width)
}

func (fl *FileList) line(e dirlist.Entry, cursor bool) string {
	size := ""
	if fl.details && !e.IsDir() {
		size = humanize.Bytes(uint64(e.Size))
	}
	nameWidth := fl.width
	if size != "" {
		nameWidth -= runewidth.StringWidth(size) + 1
		if nameWidth < 1 {
			size, nameWidth = "", fl.width
		}
	}
	text := fit(e.Name, nameWidth)
	if size != "" {
		text += " " + size
	}

	style := styleFor(e)
	if e.Selected {
		style = styles.Theme.Selected
	}
	if cursor {
		style = style.Reverse(true)
	}
	return style.Render(text)
}

// View draws col. The column's Offset decides the first visible entry.
func (fl *FileList) View(col *dirlist.Column) string {
	if fl.width <= 0 || fl.height <= 0 {
		return ""
	}
	lines := make([]string, 0, fl.height)
	switch {
	case col == nil:
	case col.Len() == 0:
		lines = append(lines, styles.Theme.Empty.Render(fit("empty", fl.width)))
	default:
		for i, e := range col.Visible(fl.height) {
			lines = append(lines, fl.line(e, col.Offset+i == col.Cursor))
		}
	}
	return fl.pad(lines)
}

// pad fills the column to its full height.
func (fl *FileList) pad(lines []string) string {
	blank := strings.Repeat(" ", fl.width)
	for len(lines) < fl.height {
		lines = append(lines, blank)
	}
	return strings.Join(lines, "\n")
}

// Info draws the details of a file in place of a preview column.
func (fl *FileList) Info(e dirlist.Entry) string {
	if fl.width <= 0 || fl.height <= 0 {
		return ""
	}
	rows := []string{
		e.Name,
		"",
		fmt.Sprintf("size      %s", humanize.Bytes(uint64(e.Size))),
		fmt.Sprintf("mode      %s", e.Mode),
		fmt.Sprintf("modified  %s", humanize.Time(e.ModTime)),
	}
	lines := make([]string, 0, fl.height)
	for i, r := range rows {
		if i >= fl.height {
			break
		}
		lines = append(lines, styles.Theme.Status.Render(fit(r, fl.width)))
	}
	return fl.pad(lines)
}

// EntryInfo is the one-line summary shown in the status bar.
func EntryInfo(e dirlist.Entry) string {
	if e.IsDir() {
		return fmt.Sprintf("%s  %s", e.Mode, e.ModTime.Format("2006-01-02 15:04"))
	}
	return fmt.Sprintf("%s  %s  %s", e.Mode, humanize.Bytes(uint64(e.Size)), e.ModTime.Format("2006-01-02 15:04"))
}
