package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"colfm/internal/dirlist"
	"colfm/internal/errors"
	"colfm/internal/log"
	"colfm/internal/state"

	"github.com/samber/lo"
	"github.com/spf13/afero"
)

func init() {
	register("mkdir", "create a directory (with parents)", func(arg string) (Command, error) {
		if arg == "" {
			return nil, invalid("mkdir", "missing additional parameter")
		}
		return Mkdir{Path: arg}, nil
	})
	register("rename", "rename the entry under the cursor", func(arg string) (Command, error) {
		if arg == "" {
			return nil, invalid("rename", "missing additional parameter")
		}
		return Rename{Name: arg}, nil
	})
	noArg("rename_append", "prompt for a new name, cursor before the extension", RenameAppend{})
	noArg("rename_prepend", "prompt for a new name, cursor at the start", RenamePrepend{})
	noArg("bulk_rename", "rename the selection in $EDITOR", BulkRename{})
	register("set_mode", "change permission bits (octal) of the selection", func(arg string) (Command, error) {
		if arg == "" {
			return SetMode{}, nil
		}
		mode, err := strconv.ParseUint(arg, 8, 32)
		if err != nil {
			return nil, errors.NewCommandError("set_mode", errors.ParseError, "", err)
		}
		if mode > 0o777 {
			return nil, errors.NewCommandError("set_mode", errors.ParseError, "mode out of range "+arg, nil)
		}
		return SetMode{Mode: os.FileMode(mode), Set: true}, nil
	})
}

type Mkdir struct{ Path string }

func (c Mkdir) String() string { return "mkdir " + c.Path }

func (c Mkdir) Execute(ctx *state.Context, b Backend) error {
	tab, err := currentTab(ctx, "mkdir")
	if err != nil {
		return err
	}
	path, err := resolvePath(tab.Path, c.Path)
	if err != nil {
		return errors.NewCommandError("mkdir", errors.IOInvalidData, "cannot expand "+c.Path, err)
	}
	if err := ctx.Fs.MkdirAll(path, 0o755); err != nil {
		return errors.NewCommandError("mkdir", errors.IO, "", err)
	}
	ctx.MarkStale(filepath.Dir(path), tab.Path)
	tab.Refresh(ctx.Fs)
	return nil
}

// Rename renames the cursor entry within its directory. An existing target
// is never replaced.
type Rename struct{ Name string }

func (c Rename) String() string { return "rename " + c.Name }

func (c Rename) Execute(ctx *state.Context, _ Backend) error {
	tab, err := currentTab(ctx, "rename")
	if err != nil {
		return err
	}
	entry, ok := tab.CurrentEntry()
	if !ok {
		return invalid("rename", "no file under the cursor")
	}
	target, err := resolvePath(filepath.Dir(entry.Path), c.Name)
	if err != nil {
		return errors.NewCommandError("rename", errors.IOInvalidData, "cannot expand "+c.Name, err)
	}
	if err := renameNoReplace(ctx.Fs, entry.Path, target); err != nil {
		return fail("rename", err)
	}

	ctx.MarkStale(filepath.Dir(entry.Path), filepath.Dir(target))
	tab.Refresh(ctx.Fs)
	if filepath.Dir(target) == tab.Path {
		col := tab.Current()
		if idx := col.IndexOf(filepath.Base(target)); idx >= 0 {
			col.SetCursor(idx)
			tab.LoadPreview(ctx.Fs)
		}
	}
	return nil
}

func renameNoReplace(fs afero.Fs, from, to string) error {
	if from == to {
		return nil
	}
	if _, err := fs.Stat(to); err == nil {
		return errors.NewFileError("file already exists", to, errors.IOInvalidData, nil)
	}
	if err := fs.Rename(from, to); err != nil {
		return errors.NewFileError("cannot rename", from, errors.IO, err)
	}
	return nil
}

// renamePrompt opens the command line with "rename <name>".
func renamePrompt(ctx *state.Context, b Backend, name string, cursorAt func(entry string) int) error {
	tab, err := currentTab(ctx, name)
	if err != nil {
		return err
	}
	entry, ok := tab.CurrentEntry()
	if !ok {
		return nil
	}
	prefix := "rename "
	b.OpenCommandLine(prefix+entry.Name, utf8.RuneCountInString(prefix)+cursorAt(entry.Name))
	return nil
}

type RenameAppend struct{}

func (RenameAppend) String() string { return "rename_append" }

// Execute places the cursor before the extension, or at the end when there
// is none.
func (RenameAppend) Execute(ctx *state.Context, b Backend) error {
	return renamePrompt(ctx, b, "rename_append", func(name string) int {
		ext := filepath.Ext(name)
		if ext == name {
			ext = ""
		}
		return utf8.RuneCountInString(strings.TrimSuffix(name, ext))
	})
}

type RenamePrepend struct{}

func (RenamePrepend) String() string { return "rename_prepend" }

func (RenamePrepend) Execute(ctx *state.Context, b Backend) error {
	return renamePrompt(ctx, b, "rename_prepend", func(string) int { return 0 })
}

// BulkRename writes the selected names to a file, opens it in $EDITOR and
// applies line i as the new name of entry i once the editor exits.
type BulkRename struct{}

func (BulkRename) String() string { return "bulk_rename" }

func editor() string {
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	return "vi"
}

func (BulkRename) Execute(ctx *state.Context, b Backend) error {
	tab, err := currentTab(ctx, "bulk_rename")
	if err != nil {
		return err
	}
	entries := tab.Current().SelectedOrCurrent()
	if len(entries) == 0 {
		return invalid("bulk_rename", "no files selected")
	}
	names := lo.Map(entries, func(e dirlist.Entry, _ int) string { return e.Name })

	f, err := afero.TempFile(ctx.Fs, "", "colfm-bulk-*.txt")
	if err != nil {
		return errors.NewCommandError("bulk_rename", errors.IO, "", err)
	}
	tmp := f.Name()
	_, err = f.WriteString(strings.Join(names, "\n") + "\n")
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = ctx.Fs.Remove(tmp)
		return errors.NewCommandError("bulk_rename", errors.IO, "", err)
	}

	dir := tab.Path
	b.Exec([]string{editor(), tmp}, dir, func(ctx *state.Context, err error) error {
		defer ctx.Fs.Remove(tmp)
		if err != nil {
			return errors.NewCommandError("bulk_rename", errors.IO, "editor failed", err)
		}
		data, err := afero.ReadFile(ctx.Fs, tmp)
		if err != nil {
			return errors.NewCommandError("bulk_rename", errors.IO, "", err)
		}
		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		if len(lines) != len(names) {
			return invalid("bulk_rename", fmt.Sprintf("expected %d names, got %d", len(names), len(lines)))
		}
		defer ctx.MarkStale(dir)
		renamed := 0
		for i, newName := range lines {
			newName = strings.TrimSpace(newName)
			if newName == "" || newName == names[i] {
				continue
			}
			from := filepath.Join(dir, names[i])
			to := filepath.Join(dir, newName)
			if err := renameNoReplace(ctx.Fs, from, to); err != nil {
				return fail("bulk_rename", err)
			}
			renamed++
		}
		log.LogWithFields(log.F("dir", dir), log.F("renamed", renamed)).Info("bulk rename")
		return nil
	})
	return nil
}

// SetMode changes permission bits of the selection. Without a mode it
// prompts with the current bits of the cursor entry.
type SetMode struct {
	Mode os.FileMode
	Set  bool
}

func (c SetMode) String() string {
	if !c.Set {
		return "set_mode"
	}
	return fmt.Sprintf("set_mode %o", uint32(c.Mode))
}

func (c SetMode) Execute(ctx *state.Context, b Backend) error {
	tab, err := currentTab(ctx, "set_mode")
	if err != nil {
		return err
	}
	if !c.Set {
		entry, ok := tab.CurrentEntry()
		if !ok {
			return nil
		}
		text := fmt.Sprintf("set_mode %o", uint32(entry.Mode.Perm()))
		b.OpenCommandLine(text, utf8.RuneCountInString(text))
		return nil
	}
	paths := tab.Current().SelectedPaths()
	for _, p := range paths {
		if err := ctx.Fs.Chmod(p, c.Mode); err != nil {
			ctx.MarkStale(tab.Path)
			return errors.NewCommandError("set_mode", errors.IO, "", err)
		}
	}
	ctx.MarkStale(tab.Path)
	tab.Refresh(ctx.Fs)
	return nil
}
