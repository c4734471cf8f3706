package state

import (
	"strings"

	"colfm/internal/dirlist"
	"colfm/internal/errors"

	"github.com/gobwas/glob"
)

// Matcher reports whether a name matches a search pattern.
type Matcher func(name string) bool

// NewMatcher compiles pattern. Patterns with glob metacharacters are matched
// as case-insensitive globs against the whole name; anything else is a
// case-insensitive substring.
func NewMatcher(pattern string) (Matcher, error) {
	lower := strings.ToLower(pattern)
	if !strings.ContainsAny(pattern, "*?[{") {
		return func(name string) bool {
			return strings.Contains(strings.ToLower(name), lower)
		}, nil
	}
	g, err := glob.Compile(lower)
	if err != nil {
		return nil, errors.NewCommandError("search", errors.IOInvalidData, "invalid pattern "+pattern, err)
	}
	return func(name string) bool {
		return g.Match(strings.ToLower(name))
	}, nil
}

// FindMatch returns the index of the first entry matching m, starting at
// start and stepping by dir (+1 or -1), wrapping around once.
func FindMatch(entries []dirlist.Entry, m Matcher, start, dir int) (int, bool) {
	n := len(entries)
	if n == 0 {
		return 0, false
	}
	if dir >= 0 {
		dir = 1
	} else {
		dir = -1
	}
	i := ((start % n) + n) % n
	for k := 0; k < n; k++ {
		if m(entries[i].Name) {
			return i, true
		}
		i = ((i+dir)%n + n) % n
	}
	return 0, false
}
