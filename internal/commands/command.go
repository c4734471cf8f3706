// Package commands turns command lines into executable commands.
//
// Every builtin is a small value type implementing Command. Its String method
// returns the canonical command line, so Parse(c.String()) yields an
// equivalent command and keymaps can be written back out verbatim.
package commands

import (
	"fmt"
	"sort"
	"strings"

	"colfm/internal/errors"
	"colfm/internal/state"

	"github.com/mitchellh/go-homedir"
)

// Command is one executable instruction.
type Command interface {
	fmt.Stringer
	Execute(ctx *state.Context, b Backend) error
}

// ExecDone runs on the interactive goroutine once an external program exits.
type ExecDone func(ctx *state.Context, err error) error

// Backend is the part of the user interface commands may drive.
type Backend interface {
	// Notify shows a one-line status message.
	Notify(msg string)
	// Redraw requests a full repaint.
	Redraw()
	// OpenCommandLine opens the prompt prefilled with text, cursor at the
	// given rune offset.
	OpenCommandLine(text string, cursor int)
	// Exec suspends the interface, runs argv in dir and calls done when the
	// program exits.
	Exec(argv []string, dir string, done ExecDone)
	// VisibleRows is the number of entries a column can show.
	VisibleRows() int
}

// userHomeDir is swapped out by tests.
var userHomeDir = homedir.Dir

type builtin struct {
	usage string
	parse func(arg string) (Command, error)
}

var builtins = map[string]builtin{}

func register(name, usage string, parse func(arg string) (Command, error)) {
	builtins[name] = builtin{usage: usage, parse: parse}
}

// noArg registers a command that ignores its argument.
func noArg(name, usage string, c Command) {
	register(name, usage, func(string) (Command, error) { return c, nil })
}

// Builtin describes a registered command.
type Builtin struct {
	Name  string
	Usage string
}

// Builtins lists every command name with a short description, sorted by name.
func Builtins() []Builtin {
	out := make([]Builtin, 0, len(builtins))
	for name, b := range builtins {
		out = append(out, Builtin{Name: name, Usage: b.usage})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Parse turns a command line into a Command. The name is everything up to the
// first space; the argument is the rest with leading spaces removed.
func Parse(line string) (Command, error) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimLeft(arg, " ")
	b, ok := builtins[name]
	if !ok {
		return nil, errors.NewCommandError("", errors.UnknownCommand, "Unknown command: "+name, nil)
	}
	return b.parse(arg)
}

// fail attaches the command name to err, keeping its kind.
func fail(name string, err error) error {
	if err == nil {
		return nil
	}
	var cmdErr *errors.CommandError
	if errors.As(err, &cmdErr) {
		return err
	}
	return errors.NewCommandError(name, errors.KindOf(err), "", err)
}

func invalid(name, msg string) error {
	return errors.NewCommandError(name, errors.IOInvalidData, msg, nil)
}

func currentTab(ctx *state.Context, name string) (*state.Tab, error) {
	if len(ctx.Tabs) == 0 {
		return nil, invalid(name, "no tab open")
	}
	tab := ctx.CurrentTab()
	if tab.Current() == nil {
		return nil, invalid(name, "no directory listed")
	}
	return tab, nil
}
