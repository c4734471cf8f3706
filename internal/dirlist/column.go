package dirlist

import (
	"time"

	"colfm/internal/errors"
	"colfm/internal/log"

	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// Column is the sorted listing of one directory plus the view state that
// belongs to it.
type Column struct {
	Path    string
	Entries []Entry
	Cursor  int
	Offset  int

	// Modified is the directory mtime observed at the last listing.
	Modified    time.Time
	NeedsUpdate bool
}

// ReadEntries lists path, dropping hidden names unless opt.ShowHidden, and
// sorts the result.
func ReadEntries(fs afero.Fs, path string, opt SortOption) ([]Entry, error) {
	infos, err := afero.ReadDir(fs, path)
	if err != nil {
		return nil, errors.NewFileError("cannot read directory", path, errors.IO, err)
	}
	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		e := NewEntry(fs, path, info)
		if !opt.ShowHidden && e.IsHidden() {
			continue
		}
		entries = append(entries, e)
	}
	opt.Sort(entries)
	return entries, nil
}

// NewColumn lists path into a fresh column with the cursor on the first entry.
func NewColumn(fs afero.Fs, path string, opt SortOption) (*Column, error) {
	entries, err := ReadEntries(fs, path, opt)
	if err != nil {
		return nil, err
	}
	info, err := fs.Stat(path)
	if err != nil {
		return nil, errors.NewFileError("cannot stat directory", path, errors.IO, err)
	}
	return &Column{
		Path:     path,
		Entries:  entries,
		Modified: info.ModTime(),
	}, nil
}

// IsStale reports whether the column must be re-listed: NeedsUpdate is set,
// or the directory mtime no longer matches. A directory that cannot be
// stat'ed is stale.
func (c *Column) IsStale(fs afero.Fs) bool {
	if c.NeedsUpdate {
		return true
	}
	info, err := fs.Stat(c.Path)
	if err != nil {
		return true
	}
	return !info.ModTime().Equal(c.Modified)
}

// Reload re-lists the directory. The cursor stays on the same name when it
// still exists and is clamped otherwise; selection flags survive by name. On
// failure the previous entries are kept and the error returned.
func (c *Column) Reload(fs afero.Fs, opt SortOption) error {
	c.NeedsUpdate = false

	entries, err := ReadEntries(fs, c.Path, opt)
	if err != nil {
		log.LogWithError(err).Warn("keeping previous listing")
		return err
	}

	var current string
	if e, ok := c.CurrentEntry(); ok {
		current = e.Name
	}
	selected := lo.SliceToMap(c.Selected(), func(e Entry) (string, bool) {
		return e.Name, true
	})
	for i := range entries {
		entries[i].Selected = selected[entries[i].Name]
	}
	c.Entries = entries

	if idx := c.IndexOf(current); idx >= 0 {
		c.Cursor = idx
	} else {
		c.ClampCursor()
	}

	if info, err := fs.Stat(c.Path); err == nil {
		c.Modified = info.ModTime()
	}
	return nil
}

// Resort reorders the entries in memory, keeping the cursor on the same name.
func (c *Column) Resort(opt SortOption) {
	var current string
	if e, ok := c.CurrentEntry(); ok {
		current = e.Name
	}
	opt.Sort(c.Entries)
	if idx := c.IndexOf(current); idx >= 0 {
		c.Cursor = idx
	}
	c.ClampCursor()
}

// Len is the number of entries.
func (c *Column) Len() int {
	return len(c.Entries)
}

// ClampCursor forces the cursor into [0, len-1], or 0 when empty.
func (c *Column) ClampCursor() {
	if len(c.Entries) == 0 {
		c.Cursor = 0
		c.Offset = 0
		return
	}
	if c.Cursor < 0 {
		c.Cursor = 0
	}
	if c.Cursor >= len(c.Entries) {
		c.Cursor = len(c.Entries) - 1
	}
}

// SetCursor moves the cursor to i, clamped. It reports whether it moved.
func (c *Column) SetCursor(i int) bool {
	old := c.Cursor
	c.Cursor = i
	c.ClampCursor()
	return c.Cursor != old
}

// CurrentEntry returns the entry under the cursor.
func (c *Column) CurrentEntry() (Entry, bool) {
	if c.Cursor < 0 || c.Cursor >= len(c.Entries) {
		return Entry{}, false
	}
	return c.Entries[c.Cursor], true
}

// IndexOf returns the position of name, or -1.
func (c *Column) IndexOf(name string) int {
	if name == "" {
		return -1
	}
	_, idx, ok := lo.FindIndexOf(c.Entries, func(e Entry) bool {
		return e.Name == name
	})
	if !ok {
		return -1
	}
	return idx
}

// Selected returns the selected entries in listing order.
func (c *Column) Selected() []Entry {
	return lo.Filter(c.Entries, func(e Entry, _ int) bool {
		return e.Selected
	})
}

// SelectedOrCurrent returns the selection, or the cursor entry when nothing
// is selected.
func (c *Column) SelectedOrCurrent() []Entry {
	if sel := c.Selected(); len(sel) > 0 {
		return sel
	}
	if e, ok := c.CurrentEntry(); ok {
		return []Entry{e}
	}
	return nil
}

// SelectedPaths is SelectedOrCurrent reduced to paths.
func (c *Column) SelectedPaths() []string {
	return lo.Map(c.SelectedOrCurrent(), func(e Entry, _ int) string {
		return e.Path
	})
}

// SetSelected sets or flips the selection flag of the entry at i.
func (c *Column) SetSelected(i int, toggle bool) {
	if i < 0 || i >= len(c.Entries) {
		return
	}
	if toggle {
		c.Entries[i].Selected = !c.Entries[i].Selected
	} else {
		c.Entries[i].Selected = true
	}
}

// SetAllSelected sets or flips every selection flag.
func (c *Column) SetAllSelected(toggle bool) {
	for i := range c.Entries {
		c.SetSelected(i, toggle)
	}
}

// EnsureCursorVisible adjusts Offset so the cursor lies inside a window of
// rows lines, keeping margin lines of context above and below when possible.
func (c *Column) EnsureCursorVisible(rows, margin int) {
	c.ClampCursor()
	n := len(c.Entries)
	if n == 0 || rows <= 0 {
		c.Offset = 0
		return
	}
	if margin*2 >= rows {
		margin = (rows - 1) / 2
	}
	maxOffset := n - rows
	if maxOffset < 0 {
		maxOffset = 0
	}
	if c.Cursor-margin < c.Offset {
		c.Offset = c.Cursor - margin
	}
	if c.Cursor+margin > c.Offset+rows-1 {
		c.Offset = c.Cursor + margin - rows + 1
	}
	if c.Offset > maxOffset {
		c.Offset = maxOffset
	}
	if c.Offset < 0 {
		c.Offset = 0
	}
}

// Visible returns the slice of entries shown in a window of rows lines.
func (c *Column) Visible(rows int) []Entry {
	if rows <= 0 || c.Offset >= len(c.Entries) {
		return nil
	}
	end := c.Offset + rows
	if end > len(c.Entries) {
		end = len(c.Entries)
	}
	return c.Entries[c.Offset:end]
}
