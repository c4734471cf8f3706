package state

// ClipKind says what paste does with the clipboard.
type ClipKind int

const (
	ClipNone ClipKind = iota
	ClipCopy
	ClipCut
)

func (k ClipKind) String() string {
	switch k {
	case ClipCopy:
		return "copy"
	case ClipCut:
		return "cut"
	default:
		return "none"
	}
}

// Clipboard holds the paths chosen by copy_files or cut_files.
type Clipboard struct {
	Kind  ClipKind
	Paths []string
}

// Set replaces the clipboard contents.
func (c *Clipboard) Set(kind ClipKind, paths []string) {
	c.Kind = kind
	c.Paths = append([]string(nil), paths...)
}

// Clear empties the clipboard.
func (c *Clipboard) Clear() {
	c.Kind = ClipNone
	c.Paths = nil
}

// Empty reports whether there is nothing to paste.
func (c *Clipboard) Empty() bool {
	return c.Kind == ClipNone || len(c.Paths) == 0
}
