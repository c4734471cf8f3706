package commands

import (
	"fmt"
	"strings"

	"colfm/internal/state"
	"colfm/internal/worker"
)

func init() {
	register("select_files", "select the entry under the cursor [--toggle] [--all]", func(arg string) (Command, error) {
		var c SelectFiles
		for _, tok := range strings.Fields(arg) {
			switch tok {
			case "--toggle":
				c.Toggle = true
			case "--all":
				c.All = true
			default:
				return nil, invalid("select_files", "unknown option "+tok)
			}
		}
		return c, nil
	})
	noArg("copy_files", "copy the selection to the clipboard", CopyFiles{})
	noArg("cut_files", "cut the selection to the clipboard", CutFiles{})
	register("paste_files", "paste the clipboard here [--overwrite] [--skip_exist]", func(arg string) (Command, error) {
		var c PasteFiles
		for _, tok := range strings.Fields(arg) {
			switch tok {
			case "--overwrite":
				c.Options.Overwrite = true
			case "--skip_exist":
				c.Options.SkipExist = true
			default:
				return nil, invalid("paste_files", "unknown option "+tok)
			}
		}
		return c, nil
	})
	noArg("delete_files", "delete the selection in the background", DeleteFiles{})
}

// SelectFiles flips the flag of the cursor entry and moves the cursor down
// one. With All it works on every entry instead: Toggle flips each flag,
// otherwise every entry is selected.
type SelectFiles struct {
	Toggle bool
	All    bool
}

func (c SelectFiles) String() string {
	s := "select_files"
	if c.Toggle {
		s += " --toggle"
	}
	if c.All {
		s += " --all"
	}
	return s
}

func (c SelectFiles) Execute(ctx *state.Context, b Backend) error {
	tab, err := currentTab(ctx, "select_files")
	if err != nil {
		return err
	}
	col := tab.Current()
	if c.All {
		col.SetAllSelected(c.Toggle)
		return nil
	}
	col.SetSelected(col.Cursor, true)
	return CursorMoveDown{N: 1}.Execute(ctx, b)
}

func yank(ctx *state.Context, b Backend, name string, kind state.ClipKind) error {
	tab, err := currentTab(ctx, name)
	if err != nil {
		return err
	}
	paths := tab.Current().SelectedPaths()
	if len(paths) == 0 {
		return invalid(name, "no files selected")
	}
	ctx.Clipboard.Set(kind, paths)
	b.Notify(fmt.Sprintf("%d files in clipboard (%s)", len(paths), kind))
	return nil
}

type CopyFiles struct{}

func (CopyFiles) String() string { return "copy_files" }

func (CopyFiles) Execute(ctx *state.Context, b Backend) error {
	return yank(ctx, b, "copy_files", state.ClipCopy)
}

type CutFiles struct{}

func (CutFiles) String() string { return "cut_files" }

func (CutFiles) Execute(ctx *state.Context, b Backend) error {
	return yank(ctx, b, "cut_files", state.ClipCut)
}

// PasteFiles queues a copy or move of the clipboard into the current
// directory. A cut clipboard is emptied once the job is queued.
type PasteFiles struct {
	Options worker.Options
}

func (c PasteFiles) String() string {
	s := "paste_files"
	if c.Options.Overwrite {
		s += " --overwrite"
	}
	if c.Options.SkipExist {
		s += " --skip_exist"
	}
	return s
}

func (c PasteFiles) Execute(ctx *state.Context, b Backend) error {
	tab, err := currentTab(ctx, "paste_files")
	if err != nil {
		return err
	}
	if ctx.Clipboard.Empty() {
		return invalid("paste_files", "clipboard is empty")
	}
	kind := worker.KindCopy
	if ctx.Clipboard.Kind == state.ClipCut {
		kind = worker.KindMove
	}
	job := worker.NewJob(kind, ctx.Clipboard.Paths, tab.Path, c.Options)
	if kind == worker.KindMove {
		ctx.Clipboard.Clear()
	}
	ctx.AddJob(job)
	b.Notify("queued " + job.String())
	return nil
}

type DeleteFiles struct{}

func (DeleteFiles) String() string { return "delete_files" }

func (DeleteFiles) Execute(ctx *state.Context, b Backend) error {
	tab, err := currentTab(ctx, "delete_files")
	if err != nil {
		return err
	}
	paths := tab.Current().SelectedPaths()
	if len(paths) == 0 {
		return invalid("delete_files", "no files selected")
	}
	job := worker.NewJob(worker.KindDelete, paths, "", worker.Options{})
	ctx.AddJob(job)
	b.Notify("queued " + job.String())
	return nil
}
