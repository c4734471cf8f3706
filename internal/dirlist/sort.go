package dirlist

import (
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// SortMethod selects the primary comparator.
type SortMethod int

const (
	SortLexical SortMethod = iota
	SortNatural
	SortSize
	SortMtime
)

var sortMethodNames = map[SortMethod]string{
	SortLexical: "lexical",
	SortNatural: "natural",
	SortSize:    "size",
	SortMtime:   "mtime",
}

func (m SortMethod) String() string {
	if name, ok := sortMethodNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseSortMethod maps a name such as "natural" to its SortMethod.
func ParseSortMethod(name string) (SortMethod, bool) {
	for m, n := range sortMethodNames {
		if n == name {
			return m, true
		}
	}
	return SortLexical, false
}

// SortOption holds every knob that changes which entries a listing contains
// and in what order.
type SortOption struct {
	Method        SortMethod
	Reverse       bool
	DirsFirst     bool
	CaseSensitive bool
	ShowHidden    bool
}

// DefaultSortOption is natural order with directories first.
func DefaultSortOption() SortOption {
	return SortOption{Method: SortNatural, DirsFirst: true}
}

func (o SortOption) name(e Entry) string {
	if o.CaseSensitive {
		return e.Name
	}
	return strings.ToLower(e.Name)
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Compare orders a before b (negative), after (positive) or equal (zero).
// Ties on the primary key fall back to the name, then to the raw name, so the
// order is total for entries of one directory. Reverse leaves directories
// grouped first.
func (o SortOption) Compare(a, b Entry) int {
	if o.DirsFirst {
		ad, bd := a.IsDir(), b.IsDir()
		if ad != bd {
			if ad {
				return -1
			}
			return 1
		}
	}

	c := 0
	switch o.Method {
	case SortSize:
		switch {
		case a.Size < b.Size:
			c = -1
		case a.Size > b.Size:
			c = 1
		}
	case SortMtime:
		switch {
		case a.ModTime.Before(b.ModTime):
			c = -1
		case a.ModTime.After(b.ModTime):
			c = 1
		}
	case SortNatural:
		an, bn := o.name(a), o.name(b)
		switch {
		case natural.Less(an, bn):
			c = -1
		case natural.Less(bn, an):
			c = 1
		}
	}
	if c == 0 {
		c = cmpString(o.name(a), o.name(b))
	}
	if c == 0 {
		c = cmpString(a.Name, b.Name)
	}
	if o.Reverse {
		c = -c
	}
	return c
}

// Sort orders entries in place.
func (o SortOption) Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return o.Compare(entries[i], entries[j]) < 0
	})
}
