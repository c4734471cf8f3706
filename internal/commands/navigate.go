package commands

import (
	"path/filepath"
	"runtime"
	"strings"

	"colfm/internal/errors"
	"colfm/internal/log"
	"colfm/internal/state"

	"github.com/flynn/go-shlex"
	"github.com/gabriel-vasile/mimetype"
)

func init() {
	register("cd", "change directory; no argument goes home, .. goes up", func(arg string) (Command, error) {
		switch arg {
		case "":
			home, err := userHomeDir()
			if err != nil || home == "" {
				return nil, errors.NewCommandError("cd", errors.EnvVarNotPresent, "Cannot find home directory", err)
			}
			return ChangeDirectory{Path: home}, nil
		case "..":
			return ParentDirectory{}, nil
		default:
			return ChangeDirectory{Path: arg}, nil
		}
	})
	noArg("open_file", "enter the directory or open the file under the cursor", OpenFile{})
	register("open_file_with", "open the selection with a program", func(arg string) (Command, error) {
		return OpenFileWith{Program: arg}, nil
	})
	noArg("reload_dir_list", "re-read the current directory", ReloadDirList{})
}

// resolvePath expands a leading ~ and makes path absolute relative to dir.
func resolvePath(dir, path string) (string, error) {
	expanded := path
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := userHomeDir()
		if err != nil {
			return "", err
		}
		expanded = filepath.Join(home, path[1:])
	}
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(dir, expanded)
	}
	return filepath.Clean(expanded), nil
}

type ChangeDirectory struct{ Path string }

func (c ChangeDirectory) String() string { return "cd " + c.Path }

func (c ChangeDirectory) Execute(ctx *state.Context, _ Backend) error {
	if len(ctx.Tabs) == 0 {
		return invalid("cd", "no tab open")
	}
	tab := ctx.CurrentTab()
	path, err := resolvePath(tab.Path, c.Path)
	if err != nil {
		return errors.NewCommandError("cd", errors.IOInvalidData, "cannot expand "+c.Path, err)
	}
	return fail("cd", tab.Cd(ctx.Fs, path))
}

type ParentDirectory struct{}

func (ParentDirectory) String() string { return "cd .." }

func (ParentDirectory) Execute(ctx *state.Context, _ Backend) error {
	if len(ctx.Tabs) == 0 {
		return invalid("cd", "no tab open")
	}
	tab := ctx.CurrentTab()
	parent := tab.ParentPath()
	if parent == "" {
		return nil
	}
	child := filepath.Base(tab.Path)
	if err := tab.Cd(ctx.Fs, parent); err != nil {
		return fail("cd", err)
	}
	if col := tab.Current(); col != nil {
		if idx := col.IndexOf(child); idx >= 0 {
			col.SetCursor(idx)
			tab.LoadPreview(ctx.Fs)
		}
	}
	return nil
}

type ReloadDirList struct{}

func (ReloadDirList) String() string { return "reload_dir_list" }

func (ReloadDirList) Execute(ctx *state.Context, _ Backend) error {
	tab, err := currentTab(ctx, "reload_dir_list")
	if err != nil {
		return err
	}
	ctx.MarkStale(tab.Path)
	if p := tab.ParentPath(); p != "" {
		ctx.MarkStale(p)
	}
	if err := tab.Current().Reload(ctx.Fs, tab.Option); err != nil {
		return fail("reload_dir_list", err)
	}
	tab.Refresh(ctx.Fs)
	return nil
}

// defaultOpener is used when no configured opener matches.
func defaultOpener() []string {
	if runtime.GOOS == "darwin" {
		return []string{"open"}
	}
	return []string{"xdg-open"}
}

type OpenFile struct{}

func (OpenFile) String() string { return "open_file" }

// Execute enters a directory, or opens the file with the program configured
// for its mime type.
func (OpenFile) Execute(ctx *state.Context, b Backend) error {
	tab, err := currentTab(ctx, "open_file")
	if err != nil {
		return err
	}
	entry, ok := tab.CurrentEntry()
	if !ok {
		return nil
	}
	if entry.IsDir() {
		return fail("open_file", tab.Cd(ctx.Fs, entry.Path))
	}

	mime := "application/octet-stream"
	if f, err := ctx.Fs.Open(entry.Path); err == nil {
		if m, err := mimetype.DetectReader(f); err == nil {
			mime = m.String()
		}
		f.Close()
	}
	argv, ok := ctx.Config.OpenerFor(mime)
	if !ok {
		argv = defaultOpener()
	}
	log.LogWithFields(log.F("path", entry.Path), log.F("mime", mime), log.F("program", argv[0])).Debug("open_file")

	paths := tab.Current().SelectedPaths()
	b.Exec(append(argv, paths...), tab.Path, markStaleWhenDone(tab.Path))
	return nil
}

// OpenFileWith runs Program on the selection. With no program it prompts
// for one.
type OpenFileWith struct{ Program string }

func (c OpenFileWith) String() string {
	if c.Program == "" {
		return "open_file_with"
	}
	return "open_file_with " + c.Program
}

func (c OpenFileWith) Execute(ctx *state.Context, b Backend) error {
	tab, err := currentTab(ctx, "open_file_with")
	if err != nil {
		return err
	}
	if c.Program == "" {
		text := "open_file_with "
		b.OpenCommandLine(text, len(text))
		return nil
	}
	argv, err := shlex.Split(c.Program)
	if err != nil {
		return errors.NewCommandError("open_file_with", errors.IOInvalidData, "cannot split "+c.Program, err)
	}
	if len(argv) == 0 {
		return invalid("open_file_with", "missing program")
	}
	paths := tab.Current().SelectedPaths()
	if len(paths) == 0 {
		return invalid("open_file_with", "no files selected")
	}
	b.Exec(append(argv, paths...), tab.Path, markStaleWhenDone(tab.Path))
	return nil
}

// markStaleWhenDone flags dir in every tab after an external program ran
// there.
func markStaleWhenDone(dir string) ExecDone {
	return func(ctx *state.Context, err error) error {
		ctx.MarkStale(dir)
		return err
	}
}
