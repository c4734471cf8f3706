// Package state holds everything the interactive loop mutates: tabs with
// their cached columns, the clipboard, search state and the worker queue.
package state

import (
	"path/filepath"

	"colfm/internal/dirlist"
	"colfm/internal/errors"
	"colfm/internal/log"

	"github.com/spf13/afero"
)

// Tab is one browsing location. Columns are cached by directory path; the
// parent, current and preview columns are looked up from the cache, and
// nothing else is kept once the preview is loaded.
type Tab struct {
	Path    string
	Columns map[string]*dirlist.Column
	Option  dirlist.SortOption
}

// NewTab opens a tab at path. Failing to list path is an error; the parent
// and preview columns are best effort.
func NewTab(fs afero.Fs, path string, opt dirlist.SortOption) (*Tab, error) {
	t := &Tab{
		Columns: make(map[string]*dirlist.Column),
		Option:  opt,
	}
	if err := t.Cd(fs, path); err != nil {
		return nil, err
	}
	return t, nil
}

// Column returns the cached column for path, listing it on first use.
func (t *Tab) Column(fs afero.Fs, path string) (*dirlist.Column, error) {
	if col, ok := t.Columns[path]; ok {
		return col, nil
	}
	col, err := dirlist.NewColumn(fs, path, t.Option)
	if err != nil {
		return nil, err
	}
	t.Columns[path] = col
	return col, nil
}

// Current returns the column of the tab's directory.
func (t *Tab) Current() *dirlist.Column {
	return t.Columns[t.Path]
}

// ParentPath returns the parent directory, or "" at the root.
func (t *Tab) ParentPath() string {
	parent := filepath.Dir(t.Path)
	if parent == t.Path {
		return ""
	}
	return parent
}

// Parent returns the cached parent column, or nil at the root.
func (t *Tab) Parent() *dirlist.Column {
	if p := t.ParentPath(); p != "" {
		return t.Columns[p]
	}
	return nil
}

// PreviewPath returns the directory under the cursor, or "".
func (t *Tab) PreviewPath() string {
	cur := t.Current()
	if cur == nil {
		return ""
	}
	e, ok := cur.CurrentEntry()
	if !ok || !e.IsDir() {
		return ""
	}
	return e.Path
}

// Preview returns the cached column of the directory under the cursor.
func (t *Tab) Preview() *dirlist.Column {
	if p := t.PreviewPath(); p != "" {
		return t.Columns[p]
	}
	return nil
}

// CurrentEntry returns the entry under the cursor of the current column.
func (t *Tab) CurrentEntry() (dirlist.Entry, bool) {
	cur := t.Current()
	if cur == nil {
		return dirlist.Entry{}, false
	}
	return cur.CurrentEntry()
}

// Cd makes path the tab's directory. The previous location is kept when path
// cannot be listed.
func (t *Tab) Cd(fs afero.Fs, path string) error {
	path = filepath.Clean(path)
	info, err := fs.Stat(path)
	if err != nil {
		return errors.NewFileError("cannot access", path, errors.IO, err)
	}
	if !info.IsDir() {
		return errors.NewFileError("not a directory", path, errors.IOInvalidData, nil)
	}

	col, err := t.Column(fs, path)
	if err != nil {
		return err
	}
	if col.IsStale(fs) {
		_ = col.Reload(fs, t.Option)
	}
	t.Path = path

	if parentPath := t.ParentPath(); parentPath != "" {
		if parent, err := t.Column(fs, parentPath); err == nil {
			if parent.IsStale(fs) {
				_ = parent.Reload(fs, t.Option)
			}
			if idx := parent.IndexOf(filepath.Base(path)); idx >= 0 {
				parent.SetCursor(idx)
			}
		} else {
			log.LogWithError(err).Debug("parent column unavailable")
		}
	}

	t.LoadPreview(fs)
	log.LogWithFields(log.F("path", path)).Debug("cd")
	return nil
}

// LoadPreview lists the directory under the cursor if it is not cached yet
// and drops the columns that are no longer on screen.
func (t *Tab) LoadPreview(fs afero.Fs) {
	if p := t.PreviewPath(); p != "" {
		if _, err := t.Column(fs, p); err != nil {
			log.LogWithError(err).Debug("preview unavailable")
		}
	}
	t.prune()
}

func (t *Tab) prune() {
	keep := map[string]bool{t.Path: true}
	if p := t.ParentPath(); p != "" {
		keep[p] = true
	}
	if p := t.PreviewPath(); p != "" {
		keep[p] = true
	}
	for path := range t.Columns {
		if !keep[path] {
			delete(t.Columns, path)
		}
	}
}

// Refresh re-lists whichever of the current, parent and preview columns are
// stale, then loads a missing preview.
func (t *Tab) Refresh(fs afero.Fs) {
	for _, col := range []*dirlist.Column{t.Current(), t.Parent(), t.Preview()} {
		if col != nil && col.IsStale(fs) {
			if err := col.Reload(fs, t.Option); err != nil {
				log.LogWithError(err).Debug("refresh failed")
			}
		}
	}
	t.LoadPreview(fs)
}

// MarkStale flags the cached column for path, if any.
func (t *Tab) MarkStale(path string) {
	if col, ok := t.Columns[filepath.Clean(path)]; ok {
		col.NeedsUpdate = true
	}
}

// MarkAllStale flags every cached column.
func (t *Tab) MarkAllStale() {
	for _, col := range t.Columns {
		col.NeedsUpdate = true
	}
}

// Resort applies the tab's sort option to every cached column in memory.
func (t *Tab) Resort() {
	for _, col := range t.Columns {
		col.Resort(t.Option)
	}
}
