package commands

import (
	"os"

	"colfm/internal/errors"
	"colfm/internal/state"

	"github.com/flynn/go-shlex"
)

func init() {
	register("shell", "run a program in the current directory; %s expands to the selection", func(arg string) (Command, error) {
		return Shell{Line: arg}, nil
	})
	register("console", "open the command line, optionally prefilled", func(arg string) (Command, error) {
		return Console{Text: arg}, nil
	})
}

// Shell runs Line through the backend. A "%s" word is replaced by the
// selected paths; an empty line starts $SHELL.
type Shell struct{ Line string }

func (c Shell) String() string {
	if c.Line == "" {
		return "shell"
	}
	return "shell " + c.Line
}

// expandSelection replaces every "%s" word with paths.
func expandSelection(words, paths []string) []string {
	out := make([]string, 0, len(words)+len(paths))
	for _, w := range words {
		if w == "%s" {
			out = append(out, paths...)
			continue
		}
		out = append(out, w)
	}
	return out
}

func (c Shell) Execute(ctx *state.Context, b Backend) error {
	tab, err := currentTab(ctx, "shell")
	if err != nil {
		return err
	}
	var argv []string
	if c.Line == "" {
		sh := os.Getenv("SHELL")
		if sh == "" {
			sh = "/bin/sh"
		}
		argv = []string{sh}
	} else {
		words, err := shlex.Split(c.Line)
		if err != nil {
			return errors.NewCommandError("shell", errors.IOInvalidData, "cannot split command line", err)
		}
		argv = expandSelection(words, tab.Current().SelectedPaths())
	}
	if len(argv) == 0 {
		return invalid("shell", "empty command")
	}
	b.Exec(argv, tab.Path, markStaleWhenDone(tab.Path))
	return nil
}

type Console struct{ Text string }

func (c Console) String() string {
	if c.Text == "" {
		return "console"
	}
	return "console " + c.Text
}

func (c Console) Execute(_ *state.Context, b Backend) error {
	b.OpenCommandLine(c.Text, len([]rune(c.Text)))
	return nil
}
