package commands

import (
	"colfm/internal/state"
)

func init() {
	register("search", "jump to the next name matching a glob or substring", func(arg string) (Command, error) {
		if arg == "" {
			return nil, invalid("search", "missing additional parameter")
		}
		return Search{Pattern: arg}, nil
	})
	noArg("search_next", "jump to the next match of the last search", SearchNext{})
	noArg("search_prev", "jump to the previous match of the last search", SearchPrev{})
}

// searchFrom moves the cursor to the first match of pattern found walking
// from start in direction dir.
func searchFrom(ctx *state.Context, b Backend, name, pattern string, offset, dir int) error {
	tab, err := currentTab(ctx, name)
	if err != nil {
		return err
	}
	m, err := state.NewMatcher(pattern)
	if err != nil {
		return err
	}
	col := tab.Current()
	idx, ok := state.FindMatch(col.Entries, m, col.Cursor+offset, dir)
	if !ok {
		b.Notify("pattern not found: " + pattern)
		return nil
	}
	if col.SetCursor(idx) {
		tab.LoadPreview(ctx.Fs)
	}
	return nil
}

// Search jumps to the first match at or after the cursor and remembers the
// pattern for search_next and search_prev.
type Search struct{ Pattern string }

func (c Search) String() string { return "search " + c.Pattern }

func (c Search) Execute(ctx *state.Context, b Backend) error {
	ctx.Search = c.Pattern
	return searchFrom(ctx, b, "search", c.Pattern, 0, 1)
}

type SearchNext struct{}

func (SearchNext) String() string { return "search_next" }

func (SearchNext) Execute(ctx *state.Context, b Backend) error {
	if ctx.Search == "" {
		return invalid("search_next", "no previous search")
	}
	return searchFrom(ctx, b, "search_next", ctx.Search, 1, 1)
}

type SearchPrev struct{}

func (SearchPrev) String() string { return "search_prev" }

func (SearchPrev) Execute(ctx *state.Context, b Backend) error {
	if ctx.Search == "" {
		return invalid("search_prev", "no previous search")
	}
	return searchFrom(ctx, b, "search_prev", ctx.Search, -1, -1)
}
