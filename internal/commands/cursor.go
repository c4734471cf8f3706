package commands

import (
	"fmt"
	"strconv"

	"colfm/internal/errors"
	"colfm/internal/state"
)

func init() {
	register("cursor_move_up", "move the cursor up N entries (default 1)", func(arg string) (Command, error) {
		n, err := parseCount("cursor_move_up", arg)
		if err != nil {
			return nil, err
		}
		return CursorMoveUp{N: n}, nil
	})
	register("cursor_move_down", "move the cursor down N entries (default 1)", func(arg string) (Command, error) {
		n, err := parseCount("cursor_move_down", arg)
		if err != nil {
			return nil, err
		}
		return CursorMoveDown{N: n}, nil
	})
	noArg("cursor_move_home", "move the cursor to the first entry", CursorMoveHome{})
	noArg("cursor_move_end", "move the cursor to the last entry", CursorMoveEnd{})
	noArg("cursor_move_page_up", "move the cursor up one page", CursorMovePageUp{})
	noArg("cursor_move_page_down", "move the cursor down one page", CursorMovePageDown{})
}

func parseCount(name, arg string) (int, error) {
	if arg == "" {
		return 1, nil
	}
	n, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, errors.NewCommandError(name, errors.ParseError, "", err)
	}
	return int(n), nil
}

// moveCursor sets the cursor of the current column and loads the preview of
// the new entry.
func moveCursor(ctx *state.Context, name string, to func(cursor, n int) int) error {
	tab, err := currentTab(ctx, name)
	if err != nil {
		return err
	}
	col := tab.Current()
	if col.SetCursor(to(col.Cursor, col.Len())) {
		tab.LoadPreview(ctx.Fs)
	}
	return nil
}

type CursorMoveUp struct{ N int }

func (c CursorMoveUp) String() string { return fmt.Sprintf("cursor_move_up %d", c.N) }

func (c CursorMoveUp) Execute(ctx *state.Context, _ Backend) error {
	return moveCursor(ctx, "cursor_move_up", func(cur, _ int) int { return cur - c.N })
}

type CursorMoveDown struct{ N int }

func (c CursorMoveDown) String() string { return fmt.Sprintf("cursor_move_down %d", c.N) }

func (c CursorMoveDown) Execute(ctx *state.Context, _ Backend) error {
	return moveCursor(ctx, "cursor_move_down", func(cur, _ int) int { return cur + c.N })
}

type CursorMoveHome struct{}

func (CursorMoveHome) String() string { return "cursor_move_home" }

func (CursorMoveHome) Execute(ctx *state.Context, _ Backend) error {
	return moveCursor(ctx, "cursor_move_home", func(int, int) int { return 0 })
}

type CursorMoveEnd struct{}

func (CursorMoveEnd) String() string { return "cursor_move_end" }

func (CursorMoveEnd) Execute(ctx *state.Context, _ Backend) error {
	return moveCursor(ctx, "cursor_move_end", func(_, n int) int { return n - 1 })
}

// pageSize is the visible row count, at least 1 and at most n.
func pageSize(rows, n int) int {
	if rows <= 0 || rows > n {
		rows = n
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

type CursorMovePageUp struct{}

func (CursorMovePageUp) String() string { return "cursor_move_page_up" }

func (CursorMovePageUp) Execute(ctx *state.Context, b Backend) error {
	rows := b.VisibleRows()
	return moveCursor(ctx, "cursor_move_page_up", func(cur, n int) int { return cur - pageSize(rows, n) })
}

type CursorMovePageDown struct{}

func (CursorMovePageDown) String() string { return "cursor_move_page_down" }

func (CursorMovePageDown) Execute(ctx *state.Context, b Backend) error {
	rows := b.VisibleRows()
	return moveCursor(ctx, "cursor_move_page_down", func(cur, n int) int { return cur + pageSize(rows, n) })
}
