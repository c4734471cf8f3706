// Package dirlist reads directories into sorted, cursor-carrying columns.
package dirlist

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Kind is the file type of an entry.
type Kind int

const (
	KindFile Kind = iota
	KindDir
	KindSymlink
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// Entry is a snapshot of one directory item. Only Selected and Marked change
// after the listing is read.
type Entry struct {
	Name    string
	Path    string
	Kind    Kind
	Size    int64
	Mode    os.FileMode
	ModTime time.Time
	// LinksToDir is set for symlinks whose target is a directory.
	LinksToDir bool

	Selected bool
	Marked   bool
}

// IsDir reports whether the entry can be entered.
func (e Entry) IsDir() bool {
	return e.Kind == KindDir || e.LinksToDir
}

// IsHidden reports whether the name starts with a dot.
func (e Entry) IsHidden() bool {
	return strings.HasPrefix(e.Name, ".")
}

// Ext returns the extension of the name including the dot, or "" for
// directories and names without one. A leading dot alone is not an extension.
func (e Entry) Ext() string {
	if e.IsDir() {
		return ""
	}
	ext := filepath.Ext(e.Name)
	if ext == e.Name {
		return ""
	}
	return ext
}

func kindOf(mode os.FileMode) Kind {
	switch {
	case mode.IsDir():
		return KindDir
	case mode&os.ModeSymlink != 0:
		return KindSymlink
	case mode.IsRegular():
		return KindFile
	default:
		return KindOther
	}
}

// NewEntry builds an Entry from info found in dir.
func NewEntry(fs afero.Fs, dir string, info os.FileInfo) Entry {
	path := filepath.Join(dir, info.Name())
	e := Entry{
		Name:    info.Name(),
		Path:    path,
		Kind:    kindOf(info.Mode()),
		Size:    info.Size(),
		Mode:    info.Mode().Perm(),
		ModTime: info.ModTime(),
	}
	if e.Kind == KindSymlink {
		if target, err := fs.Stat(path); err == nil && target.IsDir() {
			e.LinksToDir = true
		}
	}
	return e
}
