package commands

import (
	"colfm/internal/dirlist"
	"colfm/internal/state"
)

func init() {
	register("sort", "sort by lexical, natural, size or mtime; reverse flips the order", func(arg string) (Command, error) {
		if arg == "reverse" {
			return SortReverse{}, nil
		}
		m, ok := dirlist.ParseSortMethod(arg)
		if !ok {
			return nil, invalid("sort", "unknown sort method "+arg)
		}
		return Sort{Method: m}, nil
	})
	noArg("toggle_hidden", "show or hide dot files", ToggleHidden{})
}

type Sort struct{ Method dirlist.SortMethod }

func (c Sort) String() string { return "sort " + c.Method.String() }

func (c Sort) Execute(ctx *state.Context, _ Backend) error {
	tab, err := currentTab(ctx, "sort")
	if err != nil {
		return err
	}
	tab.Option.Method = c.Method
	tab.Resort()
	return nil
}

type SortReverse struct{}

func (SortReverse) String() string { return "sort reverse" }

func (SortReverse) Execute(ctx *state.Context, _ Backend) error {
	tab, err := currentTab(ctx, "sort")
	if err != nil {
		return err
	}
	tab.Option.Reverse = !tab.Option.Reverse
	tab.Resort()
	return nil
}

// ToggleHidden flips dot file visibility for the current tab and re-lists its
// columns.
type ToggleHidden struct{}

func (ToggleHidden) String() string { return "toggle_hidden" }

func (ToggleHidden) Execute(ctx *state.Context, _ Backend) error {
	tab, err := currentTab(ctx, "toggle_hidden")
	if err != nil {
		return err
	}
	tab.Option.ShowHidden = !tab.Option.ShowHidden
	tab.MarkAllStale()
	tab.Refresh(ctx.Fs)
	return nil
}
