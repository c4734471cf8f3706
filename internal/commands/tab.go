package commands

import (
	"fmt"
	"strconv"

	"colfm/internal/errors"
	"colfm/internal/log"
	"colfm/internal/state"
)

func init() {
	noArg("new_tab", "open a tab in the home directory", NewTab{})
	noArg("close_tab", "close the current tab, quitting on the last one", CloseTab{})
	register("tab_switch", "move N tabs to the right (negative for left), wrapping", func(arg string) (Command, error) {
		if arg == "" {
			return nil, invalid("tab_switch", "missing additional parameter")
		}
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, errors.NewCommandError("tab_switch", errors.ParseError, "", err)
		}
		return TabSwitch{Offset: n}, nil
	})
	noArg("quit", "exit unless background jobs are pending", Quit{})
	noArg("force_quit", "exit immediately", ForceQuit{})
}

type NewTab struct{}

func (NewTab) String() string { return "new_tab" }

// Execute opens a tab at the home directory, or at / when home is unknown
// or unreadable.
func (NewTab) Execute(ctx *state.Context, _ Backend) error {
	opt := ctx.Config.SortOption()
	var tab *state.Tab
	if home, err := userHomeDir(); err == nil {
		tab, err = state.NewTab(ctx.Fs, home, opt)
		if err != nil {
			log.LogWithError(err).Debug("new tab at home failed")
		}
	}
	if tab == nil {
		var err error
		if tab, err = state.NewTab(ctx.Fs, "/", opt); err != nil {
			return fail("new_tab", err)
		}
	}
	ctx.PushTab(tab)
	return switchTab(ctx, ctx.CurrTab)
}

// switchTab makes tab i current and refreshes whatever went stale while it
// was in the background.
func switchTab(ctx *state.Context, i int) error {
	ctx.CurrTab = i
	tab := ctx.CurrentTab()
	tab.Refresh(ctx.Fs)
	return nil
}

type CloseTab struct{}

func (CloseTab) String() string { return "close_tab" }

func (CloseTab) Execute(ctx *state.Context, b Backend) error {
	if len(ctx.Tabs) <= 1 {
		return Quit{}.Execute(ctx, b)
	}
	ctx.RemoveTab(ctx.CurrTab)
	return switchTab(ctx, ctx.CurrTab)
}

// TabSwitch moves Offset tabs from the current one, wrapping at both ends.
type TabSwitch struct{ Offset int }

func (c TabSwitch) String() string { return fmt.Sprintf("tab_switch %d", c.Offset) }

func (c TabSwitch) Execute(ctx *state.Context, _ Backend) error {
	n := len(ctx.Tabs)
	if n == 0 {
		return invalid("tab_switch", "no tab open")
	}
	return switchTab(ctx, ((ctx.CurrTab+c.Offset)%n+n)%n)
}

type Quit struct{}

func (Quit) String() string { return "quit" }

func (Quit) Execute(ctx *state.Context, _ Backend) error {
	if ctx.HasPendingWork() {
		return errors.NewCommandError("quit", errors.Busy, "operations running in background, use force_quit to quit", nil)
	}
	ctx.Exit = true
	return nil
}

type ForceQuit struct{}

func (ForceQuit) String() string { return "force_quit" }

func (ForceQuit) Execute(ctx *state.Context, _ Backend) error {
	ctx.Exit = true
	return nil
}
