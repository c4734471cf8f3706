package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"colfm/internal/config"
	"colfm/internal/dirlist"
	"colfm/internal/errors"
	"colfm/internal/state"
	"colfm/internal/worker"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	argv []string
	dir  string
}

// fakeBackend records what commands ask of the interface. Exec runs done
// immediately, after onExec has had a chance to play the external program.
type fakeBackend struct {
	ctx     *state.Context
	notes   []string
	line    string
	cursor  int
	opened  bool
	execs   []execCall
	execErr error
	onExec  func(argv []string)
	rows    int
	redraws int
}

func (f *fakeBackend) Notify(msg string) { f.notes = append(f.notes, msg) }
func (f *fakeBackend) Redraw()           { f.redraws++ }
func (f *fakeBackend) VisibleRows() int  { return f.rows }

func (f *fakeBackend) OpenCommandLine(text string, cursor int) {
	f.opened = true
	f.line = text
	f.cursor = cursor
}

func (f *fakeBackend) Exec(argv []string, dir string, done ExecDone) {
	f.execs = append(f.execs, execCall{argv: argv, dir: dir})
	if f.onExec != nil {
		f.onExec(argv)
	}
	f.execErr = done(f.ctx, nil)
}

const home = "/home/user"

// newTestContext builds a context with one tab at /home/user holding files.
// Names ending in "/" are directories.
func newTestContext(t *testing.T, files ...string) (*state.Context, *fakeBackend) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(home, 0o755))
	require.NoError(t, fs.MkdirAll(os.TempDir(), 0o755))
	for _, f := range files {
		p := filepath.Join(home, f)
		if strings.HasSuffix(f, "/") {
			require.NoError(t, fs.MkdirAll(p, 0o755))
			continue
		}
		require.NoError(t, fs.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, afero.WriteFile(fs, p, []byte(f), 0o644))
	}

	cfg := config.New()
	cfg.Display.SortMethod = "lexical"
	cfg.Display.DirsFirst = false
	ctx := state.NewContext(cfg, fs)
	tab, err := state.NewTab(fs, home, cfg.SortOption())
	require.NoError(t, err)
	ctx.PushTab(tab)
	return ctx, &fakeBackend{ctx: ctx, rows: 3}
}

func run(t *testing.T, ctx *state.Context, b Backend, line string) error {
	t.Helper()
	cmd, err := Parse(line)
	require.NoError(t, err, line)
	return cmd.Execute(ctx, b)
}

func cursor(ctx *state.Context) int {
	return ctx.CurrentTab().Current().Cursor
}

func names(col *dirlist.Column) []string {
	return lo.Map(col.Entries, func(e dirlist.Entry, _ int) string { return e.Name })
}

func selectedNames(ctx *state.Context) []string {
	return lo.Map(ctx.CurrentTab().Current().Selected(), func(e dirlist.Entry, _ int) string { return e.Name })
}

// drainJobs feeds worker events back into ctx until the queue is idle.
func drainJobs(t *testing.T, ctx *state.Context) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for ctx.HasPendingWork() {
		select {
		case ev := <-ctx.Events:
			ctx.HandleEvent(ev)
		case <-timeout:
			t.Fatal("jobs did not finish")
		}
	}
}

func tenFiles() []string {
	files := make([]string, 10)
	for i := range files {
		files[i] = fmt.Sprintf("f%d", i)
	}
	return files
}

func TestCursorMoves(t *testing.T) {
	ctx, b := newTestContext(t, tenFiles()...)

	require.NoError(t, run(t, ctx, b, "cursor_move_down 3"))
	assert.Equal(t, 3, cursor(ctx))

	ctx.CurrentTab().Current().SetCursor(0)
	require.NoError(t, run(t, ctx, b, "cursor_move_down"))
	assert.Equal(t, 1, cursor(ctx))

	require.NoError(t, run(t, ctx, b, "cursor_move_down 100"))
	assert.Equal(t, 9, cursor(ctx))
	require.NoError(t, run(t, ctx, b, "cursor_move_down"))
	assert.Equal(t, 9, cursor(ctx))

	require.NoError(t, run(t, ctx, b, "cursor_move_up 2"))
	assert.Equal(t, 7, cursor(ctx))
	require.NoError(t, run(t, ctx, b, "cursor_move_page_up"))
	assert.Equal(t, 4, cursor(ctx))
	require.NoError(t, run(t, ctx, b, "cursor_move_page_down"))
	assert.Equal(t, 7, cursor(ctx))
	require.NoError(t, run(t, ctx, b, "cursor_move_home"))
	assert.Equal(t, 0, cursor(ctx))
	require.NoError(t, run(t, ctx, b, "cursor_move_up"))
	assert.Equal(t, 0, cursor(ctx))
	require.NoError(t, run(t, ctx, b, "cursor_move_end"))
	assert.Equal(t, 9, cursor(ctx))
}

func TestCursorMovesOnEmptyColumn(t *testing.T) {
	ctx, b := newTestContext(t)
	for _, line := range []string{"cursor_move_down 3", "cursor_move_up", "cursor_move_end", "cursor_move_page_down", "select_files", "select_files --all"} {
		require.NoError(t, run(t, ctx, b, line), line)
		assert.Equal(t, 0, cursor(ctx), line)
	}
}

func TestCursorMoveLoadsPreview(t *testing.T) {
	ctx, b := newTestContext(t, "a", "b/inner")
	tab := ctx.CurrentTab()
	assert.Nil(t, tab.Preview())
	require.NoError(t, run(t, ctx, b, "cursor_move_down"))
	require.NotNil(t, tab.Preview())
	assert.Equal(t, []string{"inner"}, names(tab.Preview()))
}

func TestSelectToggleWalksColumn(t *testing.T) {
	files := tenFiles()
	ctx, b := newTestContext(t, files...)
	for range files {
		require.NoError(t, run(t, ctx, b, "select_files --toggle"))
	}
	assert.Equal(t, files, selectedNames(ctx))
	assert.Equal(t, len(files)-1, cursor(ctx))
}

func TestSelectVariants(t *testing.T) {
	ctx, b := newTestContext(t, "a", "b", "c")

	require.NoError(t, run(t, ctx, b, "select_files"))
	require.NoError(t, run(t, ctx, b, "cursor_move_up"))
	require.NoError(t, run(t, ctx, b, "select_files"))
	assert.Empty(t, selectedNames(ctx), "a second select clears the entry")
	assert.Equal(t, 1, cursor(ctx))

	require.NoError(t, run(t, ctx, b, "select_files"))
	assert.Equal(t, []string{"b"}, selectedNames(ctx))
	assert.Equal(t, 2, cursor(ctx))

	require.NoError(t, run(t, ctx, b, "select_files --toggle --all"))
	assert.Equal(t, []string{"a", "c"}, selectedNames(ctx))
	assert.Equal(t, 2, cursor(ctx), "--all leaves the cursor")

	require.NoError(t, run(t, ctx, b, "select_files --all"))
	assert.Equal(t, []string{"a", "b", "c"}, selectedNames(ctx))
}

func TestCloseLastTabIsQuit(t *testing.T) {
	ctx, b := newTestContext(t, "a")
	require.NoError(t, run(t, ctx, b, "close_tab"))
	assert.True(t, ctx.Exit)
	assert.Len(t, ctx.Tabs, 1)
	assert.Equal(t, 0, ctx.CurrTab)

	quitCtx, qb := newTestContext(t, "a")
	require.NoError(t, run(t, quitCtx, qb, "quit"))
	assert.Equal(t, quitCtx.Exit, ctx.Exit)
	assert.Equal(t, len(quitCtx.Tabs), len(ctx.Tabs))
}

func TestQuitRefusedWhileBusy(t *testing.T) {
	for _, line := range []string{"quit", "close_tab"} {
		ctx, b := newTestContext(t, "a")
		ctx.Queue.Push(worker.NewJob(worker.KindDelete, []string{home + "/a"}, "", worker.Options{}))
		err := run(t, ctx, b, line)
		require.Error(t, err, line)
		assert.True(t, errors.IsBusy(err), line)
		assert.False(t, ctx.Exit, line)

		require.NoError(t, run(t, ctx, b, "force_quit"))
		assert.True(t, ctx.Exit)
	}
}

func TestTabs(t *testing.T) {
	ctx, b := newTestContext(t, "a", "b/")

	require.NoError(t, run(t, ctx, b, "cd b"))
	require.NoError(t, run(t, ctx, b, "new_tab"))
	require.Len(t, ctx.Tabs, 2)
	assert.Equal(t, 1, ctx.CurrTab)
	assert.Equal(t, home, ctx.CurrentTab().Path)

	require.NoError(t, run(t, ctx, b, "new_tab"))
	require.Len(t, ctx.Tabs, 3)

	require.NoError(t, run(t, ctx, b, "tab_switch 1"))
	assert.Equal(t, 0, ctx.CurrTab)
	require.NoError(t, run(t, ctx, b, "tab_switch -1"))
	assert.Equal(t, 2, ctx.CurrTab)
	require.NoError(t, run(t, ctx, b, "tab_switch -7"))
	assert.Equal(t, 1, ctx.CurrTab)
	require.NoError(t, run(t, ctx, b, "tab_switch 0"))
	assert.Equal(t, 1, ctx.CurrTab)

	require.NoError(t, run(t, ctx, b, "close_tab"))
	assert.Len(t, ctx.Tabs, 2)
	assert.Equal(t, 0, ctx.CurrTab)
	assert.Equal(t, home+"/b", ctx.CurrentTab().Path)

	require.NoError(t, run(t, ctx, b, "close_tab"))
	assert.Len(t, ctx.Tabs, 1)
	assert.Equal(t, 0, ctx.CurrTab)
	assert.False(t, ctx.Exit)
}

func TestNewTabFallsBackToRoot(t *testing.T) {
	ctx, b := newTestContext(t, "a")
	withHome(t, "", fmt.Errorf("no home"))
	require.NoError(t, run(t, ctx, b, "new_tab"))
	assert.Equal(t, "/", ctx.CurrentTab().Path)
}

func TestChangeDirectory(t *testing.T) {
	ctx, b := newTestContext(t, "docs/x", "file.txt")
	tab := ctx.CurrentTab()

	require.NoError(t, run(t, ctx, b, "cd docs"))
	assert.Equal(t, home+"/docs", tab.Path)

	require.NoError(t, run(t, ctx, b, "cd .."))
	assert.Equal(t, home, tab.Path)
	e, ok := tab.CurrentEntry()
	require.True(t, ok)
	assert.Equal(t, "docs", e.Name)

	require.NoError(t, run(t, ctx, b, "cd ~/docs"))
	assert.Equal(t, home+"/docs", tab.Path)

	require.NoError(t, run(t, ctx, b, "cd"))
	assert.Equal(t, home, tab.Path)

	err := run(t, ctx, b, "cd missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cd: ")
	assert.Equal(t, home, tab.Path)

	err = run(t, ctx, b, "cd file.txt")
	assert.True(t, errors.IsInvalidData(err))
}

func TestCopyPaste(t *testing.T) {
	ctx, b := newTestContext(t, "a", "b", "dst/")
	require.NoError(t, run(t, ctx, b, "select_files --all --toggle"))
	require.NoError(t, run(t, ctx, b, "select_files --toggle"))
	assert.Equal(t, []string{"b", "dst"}, selectedNames(ctx))

	require.NoError(t, run(t, ctx, b, "select_files --toggle --all"))
	require.NoError(t, run(t, ctx, b, "select_files"))
	assert.Equal(t, []string{"a", "b"}, selectedNames(ctx))
	require.NoError(t, run(t, ctx, b, "copy_files"))
	assert.Equal(t, state.ClipCopy, ctx.Clipboard.Kind)
	assert.Equal(t, []string{home + "/a", home + "/b"}, ctx.Clipboard.Paths)

	require.NoError(t, run(t, ctx, b, "cd dst"))
	require.NoError(t, run(t, ctx, b, "paste_files"))
	assert.True(t, ctx.Busy)
	drainJobs(t, ctx)

	ctx.Refresh()
	assert.Equal(t, []string{"a", "b"}, names(ctx.CurrentTab().Current()))
	assert.False(t, ctx.Clipboard.Empty(), "copy clipboard survives paste")
	assert.Contains(t, ctx.LastMessage(), "copied 2 items")

	// second paste collides and fails fast
	require.NoError(t, run(t, ctx, b, "paste_files"))
	drainJobs(t, ctx)
	assert.Contains(t, ctx.LastMessage(), "failed")

	require.NoError(t, run(t, ctx, b, "paste_files --overwrite --skip_exist"))
	drainJobs(t, ctx)
	assert.Contains(t, ctx.LastMessage(), "copied 2 items")
}

func TestCutPaste(t *testing.T) {
	ctx, b := newTestContext(t, "a", "dst/")
	require.NoError(t, run(t, ctx, b, "cut_files"))
	assert.Equal(t, state.ClipCut, ctx.Clipboard.Kind)

	require.NoError(t, run(t, ctx, b, "cd dst"))
	require.NoError(t, run(t, ctx, b, "paste_files"))
	assert.True(t, ctx.Clipboard.Empty())
	drainJobs(t, ctx)

	ctx.Refresh()
	assert.Equal(t, []string{"a"}, names(ctx.CurrentTab().Current()))
	require.NoError(t, run(t, ctx, b, "cd .."))
	assert.Equal(t, []string{"dst"}, names(ctx.CurrentTab().Current()))

	err := run(t, ctx, b, "paste_files")
	assert.True(t, errors.IsInvalidData(err))
}

func TestJobsRunInOrder(t *testing.T) {
	ctx, b := newTestContext(t, "a", "b", "c")
	require.NoError(t, run(t, ctx, b, "delete_files"))
	require.NoError(t, run(t, ctx, b, "cursor_move_down"))
	require.NoError(t, run(t, ctx, b, "delete_files"))
	assert.Equal(t, 1, ctx.Queue.Len(), "second job waits")

	drainJobs(t, ctx)
	require.Len(t, ctx.Messages, 2)
	assert.Equal(t, "deleted 1 item", ctx.Messages[0])
	assert.Equal(t, "deleted 1 item", ctx.Messages[1])

	ctx.Refresh()
	assert.Equal(t, []string{"c"}, names(ctx.CurrentTab().Current()))
	assert.Equal(t, 0, cursor(ctx))
}

func TestMkdirAndRename(t *testing.T) {
	ctx, b := newTestContext(t, "a.txt", "b.txt")

	require.NoError(t, run(t, ctx, b, "mkdir new/deep"))
	exists, err := afero.DirExists(ctx.Fs, home+"/new/deep")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Contains(t, names(ctx.CurrentTab().Current()), "new")

	ctx.CurrentTab().Current().SetCursor(0)
	require.NoError(t, run(t, ctx, b, "rename z.txt"))
	assert.Equal(t, []string{"b.txt", "new", "z.txt"}, names(ctx.CurrentTab().Current()))
	e, _ := ctx.CurrentTab().CurrentEntry()
	assert.Equal(t, "z.txt", e.Name)

	err = run(t, ctx, b, "rename b.txt")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidData(err))
	data, err := afero.ReadFile(ctx.Fs, home+"/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "b.txt", string(data))
}

func TestRenamePrompts(t *testing.T) {
	ctx, b := newTestContext(t, "report.tar.gz")

	require.NoError(t, run(t, ctx, b, "rename_append"))
	assert.Equal(t, "rename report.tar.gz", b.line)
	assert.Equal(t, len("rename report.tar"), b.cursor)

	require.NoError(t, run(t, ctx, b, "rename_prepend"))
	assert.Equal(t, "rename report.tar.gz", b.line)
	assert.Equal(t, len("rename "), b.cursor)

	require.NoError(t, run(t, ctx, b, "console search "))
	assert.Equal(t, "search ", b.line)
	assert.Equal(t, len("search "), b.cursor)
}

func TestBulkRename(t *testing.T) {
	ctx, b := newTestContext(t, "a", "b", "c")
	require.NoError(t, run(t, ctx, b, "select_files --all"))

	var tmp string
	b.onExec = func(argv []string) {
		tmp = argv[len(argv)-1]
		data, err := afero.ReadFile(ctx.Fs, tmp)
		require.NoError(t, err)
		assert.Equal(t, "a\nb\nc\n", string(data))
		require.NoError(t, afero.WriteFile(ctx.Fs, tmp, []byte("x\nb\ny\n"), 0o644))
	}
	require.NoError(t, run(t, ctx, b, "bulk_rename"))
	require.NoError(t, b.execErr)
	assert.Equal(t, home, b.execs[0].dir)

	ctx.Refresh()
	assert.Equal(t, []string{"b", "x", "y"}, names(ctx.CurrentTab().Current()))
	_, err := ctx.Fs.Stat(tmp)
	assert.True(t, os.IsNotExist(err))

	b.onExec = func(argv []string) {
		require.NoError(t, afero.WriteFile(ctx.Fs, argv[len(argv)-1], []byte("only\n"), 0o644))
	}
	require.NoError(t, run(t, ctx, b, "select_files --all"))
	require.NoError(t, run(t, ctx, b, "bulk_rename"))
	assert.True(t, errors.IsInvalidData(b.execErr))
}

func TestSetMode(t *testing.T) {
	ctx, b := newTestContext(t, "script.sh")

	require.NoError(t, run(t, ctx, b, "set_mode"))
	assert.Equal(t, "set_mode 644", b.line)

	require.NoError(t, run(t, ctx, b, "set_mode 755"))
	info, err := ctx.Fs.Stat(home + "/script.sh")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestShellAndOpen(t *testing.T) {
	ctx, b := newTestContext(t, "a b.txt", "dir/")

	require.NoError(t, run(t, ctx, b, `shell tar czf "out file.tgz" %s`))
	require.Len(t, b.execs, 1)
	assert.Equal(t, []string{"tar", "czf", "out file.tgz", home + "/a b.txt"}, b.execs[0].argv)
	assert.Equal(t, home, b.execs[0].dir)

	require.NoError(t, run(t, ctx, b, "open_file_with less -R"))
	assert.Equal(t, []string{"less", "-R", home + "/a b.txt"}, b.execs[1].argv)

	require.NoError(t, run(t, ctx, b, "open_file_with"))
	assert.Equal(t, "open_file_with ", b.line)

	t.Setenv("EDITOR", "nano")
	require.NoError(t, run(t, ctx, b, "open_file"))
	assert.Equal(t, []string{"nano", home + "/a b.txt"}, b.execs[2].argv)

	require.NoError(t, run(t, ctx, b, "cursor_move_down"))
	require.NoError(t, run(t, ctx, b, "open_file"))
	assert.Equal(t, home+"/dir", ctx.CurrentTab().Path)
	assert.Len(t, b.execs, 3)
}

func TestSearch(t *testing.T) {
	ctx, b := newTestContext(t, "alpha.go", "beta.txt", "gamma.go", "main.go")

	err := run(t, ctx, b, "search_next")
	assert.True(t, errors.IsInvalidData(err))

	require.NoError(t, run(t, ctx, b, "search *.go"))
	assert.Equal(t, 0, cursor(ctx))
	require.NoError(t, run(t, ctx, b, "search_next"))
	assert.Equal(t, 2, cursor(ctx))
	require.NoError(t, run(t, ctx, b, "search_next"))
	assert.Equal(t, 3, cursor(ctx))
	require.NoError(t, run(t, ctx, b, "search_next"))
	assert.Equal(t, 0, cursor(ctx))
	require.NoError(t, run(t, ctx, b, "search_prev"))
	assert.Equal(t, 3, cursor(ctx))

	require.NoError(t, run(t, ctx, b, "search BETA"))
	assert.Equal(t, 1, cursor(ctx))

	require.NoError(t, run(t, ctx, b, "search nothing"))
	assert.Equal(t, 1, cursor(ctx))
	assert.Contains(t, b.notes[len(b.notes)-1], "not found")
}

func TestSortAndHidden(t *testing.T) {
	ctx, b := newTestContext(t, "b", "a", ".hidden", "c")
	require.NoError(t, afero.WriteFile(ctx.Fs, home+"/a", []byte("longest content"), 0o644))
	require.NoError(t, run(t, ctx, b, "reload_dir_list"))
	tab := ctx.CurrentTab()
	assert.Equal(t, []string{"a", "b", "c"}, names(tab.Current()))

	require.NoError(t, run(t, ctx, b, "sort size"))
	assert.Equal(t, []string{"b", "c", "a"}, names(tab.Current()))
	require.NoError(t, run(t, ctx, b, "sort reverse"))
	assert.Equal(t, []string{"a", "c", "b"}, names(tab.Current()))
	assert.Equal(t, dirlist.SortSize, tab.Option.Method)
	assert.True(t, tab.Option.Reverse)

	require.NoError(t, run(t, ctx, b, "sort lexical"))
	require.NoError(t, run(t, ctx, b, "sort reverse"))
	require.NoError(t, run(t, ctx, b, "toggle_hidden"))
	assert.Equal(t, []string{".hidden", "a", "b", "c"}, names(tab.Current()))
	require.NoError(t, run(t, ctx, b, "toggle_hidden"))
	assert.Equal(t, []string{"a", "b", "c"}, names(tab.Current()))
}

func TestReloadAfterExternalChange(t *testing.T) {
	ctx, b := newTestContext(t, "a", "b", "c")
	require.NoError(t, run(t, ctx, b, "cursor_move_end"))

	for _, n := range []string{"a", "b", "c"} {
		require.NoError(t, ctx.Fs.Remove(home+"/"+n))
	}
	require.NoError(t, run(t, ctx, b, "reload_dir_list"))
	assert.Empty(t, ctx.CurrentTab().Current().Entries)
	assert.Equal(t, 0, cursor(ctx))

	require.NoError(t, afero.WriteFile(ctx.Fs, home+"/d", nil, 0o644))
	require.NoError(t, run(t, ctx, b, "reload_dir_list"))
	assert.Equal(t, []string{"d"}, names(ctx.CurrentTab().Current()))
}

func TestEmptySelectionErrors(t *testing.T) {
	ctx, b := newTestContext(t)
	for _, line := range []string{"copy_files", "cut_files", "delete_files", "bulk_rename"} {
		err := run(t, ctx, b, line)
		require.Error(t, err, line)
		assert.True(t, errors.IsInvalidData(err), line)
	}
	assert.Error(t, run(t, ctx, b, "rename x"))
}
