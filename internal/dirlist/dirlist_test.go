package dirlist

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestFs lays out files (name -> content) and dirs under /root.
func newTestFs(t *testing.T, files map[string]string, dirs ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/root", 0755))
	for _, d := range dirs {
		require.NoError(t, fs.MkdirAll(filepath.Join("/root", d), 0755))
	}
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/root", name), []byte(content), 0644))
	}
	return fs
}

func names(entries []Entry) []string {
	return lo.Map(entries, func(e Entry, _ int) string { return e.Name })
}

func TestReadEntriesSortMethods(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		"file10.txt": "a",
		"file2.txt":  "abcdef",
		"File1.txt":  "abc",
		".hidden":    "",
	}, "docs")

	tests := []struct {
		name string
		opt  SortOption
		want []string
	}{
		{"natural dirs first", SortOption{Method: SortNatural, DirsFirst: true}, []string{"docs", "File1.txt", "file2.txt", "file10.txt"}},
		{"lexical", SortOption{Method: SortLexical}, []string{"docs", "File1.txt", "file10.txt", "file2.txt"}},
		{"lexical case sensitive", SortOption{Method: SortLexical, CaseSensitive: true}, []string{"File1.txt", "docs", "file10.txt", "file2.txt"}},
		{"size", SortOption{Method: SortSize, DirsFirst: true}, []string{"docs", "file10.txt", "File1.txt", "file2.txt"}},
		{"reverse keeps dirs first", SortOption{Method: SortNatural, DirsFirst: true, Reverse: true}, []string{"docs", "file10.txt", "file2.txt", "File1.txt"}},
		{"show hidden", SortOption{Method: SortLexical, DirsFirst: true, ShowHidden: true}, []string{"docs", ".hidden", "File1.txt", "file10.txt", "file2.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := ReadEntries(fs, "/root", tt.opt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(entries))
		})
	}
}

func TestCompareIsTotal(t *testing.T) {
	now := time.Now()
	a := Entry{Name: "b", Size: 10, ModTime: now}
	b := Entry{Name: "a", Size: 10, ModTime: now}
	for _, m := range []SortMethod{SortLexical, SortNatural, SortSize, SortMtime} {
		opt := SortOption{Method: m}
		assert.Positive(t, opt.Compare(a, b), m.String())
		assert.Negative(t, opt.Compare(b, a), m.String())
		assert.Zero(t, opt.Compare(a, a), m.String())
	}
}

func TestParseSortMethod(t *testing.T) {
	for _, name := range []string{"lexical", "natural", "size", "mtime"} {
		m, ok := ParseSortMethod(name)
		require.True(t, ok)
		assert.Equal(t, name, m.String())
	}
	_, ok := ParseSortMethod("random")
	assert.False(t, ok)
}

func TestColumnStaleness(t *testing.T) {
	fs := newTestFs(t, map[string]string{"a": "", "b": ""})
	col, err := NewColumn(fs, "/root", DefaultSortOption())
	require.NoError(t, err)
	assert.False(t, col.IsStale(fs))

	col.NeedsUpdate = true
	assert.True(t, col.IsStale(fs))
	require.NoError(t, col.Reload(fs, DefaultSortOption()))
	assert.False(t, col.NeedsUpdate)
	assert.False(t, col.IsStale(fs))

	later := col.Modified.Add(time.Minute)
	require.NoError(t, fs.Chtimes("/root", later, later))
	assert.True(t, col.IsStale(fs))
}

func TestColumnReloadKeepsCursorName(t *testing.T) {
	fs := newTestFs(t, map[string]string{"a": "", "b": "", "c": ""})
	col, err := NewColumn(fs, "/root", DefaultSortOption())
	require.NoError(t, err)
	col.SetCursor(2)
	col.SetSelected(1, false)

	require.NoError(t, afero.WriteFile(fs, "/root/0", nil, 0644))
	require.NoError(t, col.Reload(fs, DefaultSortOption()))

	assert.Equal(t, []string{"0", "a", "b", "c"}, names(col.Entries))
	assert.Equal(t, 3, col.Cursor)
	assert.Equal(t, []string{"b"}, names(col.Selected()))
}

func TestColumnReloadClampsToZero(t *testing.T) {
	fs := newTestFs(t, map[string]string{"a": "", "b": "", "c": ""})
	col, err := NewColumn(fs, "/root", DefaultSortOption())
	require.NoError(t, err)
	col.SetCursor(2)

	for _, n := range []string{"a", "b", "c"} {
		require.NoError(t, fs.Remove("/root/"+n))
	}
	require.NoError(t, col.Reload(fs, DefaultSortOption()))
	assert.Empty(t, col.Entries)
	assert.Equal(t, 0, col.Cursor)
	_, ok := col.CurrentEntry()
	assert.False(t, ok)
}

func TestColumnReloadFailureKeepsEntries(t *testing.T) {
	fs := newTestFs(t, map[string]string{"a": ""})
	col, err := NewColumn(fs, "/root", DefaultSortOption())
	require.NoError(t, err)

	require.NoError(t, fs.RemoveAll("/root"))
	assert.True(t, col.IsStale(fs))
	assert.Error(t, col.Reload(fs, DefaultSortOption()))
	assert.Equal(t, []string{"a"}, names(col.Entries))
}

func TestNewColumnMissingDir(t *testing.T) {
	_, err := NewColumn(afero.NewMemMapFs(), "/nope", DefaultSortOption())
	assert.Error(t, err)
}

func TestColumnSelection(t *testing.T) {
	fs := newTestFs(t, map[string]string{"a": "", "b": "", "c": ""})
	col, err := NewColumn(fs, "/root", DefaultSortOption())
	require.NoError(t, err)

	assert.Equal(t, []string{"/root/a"}, col.SelectedPaths())

	col.SetAllSelected(false)
	assert.Len(t, col.Selected(), 3)
	col.SetSelected(0, true)
	assert.Equal(t, []string{"b", "c"}, names(col.Selected()))
	col.SetAllSelected(true)
	assert.Equal(t, []string{"a"}, names(col.Selected()))
	col.SetSelected(0, true)
	assert.Empty(t, col.Selected())
}

func TestColumnResort(t *testing.T) {
	fs := newTestFs(t, map[string]string{"a": "xxx", "b": "x", "c": "xx"})
	col, err := NewColumn(fs, "/root", SortOption{Method: SortLexical})
	require.NoError(t, err)
	col.SetCursor(0)

	col.Resort(SortOption{Method: SortSize})
	assert.Equal(t, []string{"b", "c", "a"}, names(col.Entries))
	assert.Equal(t, 2, col.Cursor)
}

func TestEnsureCursorVisible(t *testing.T) {
	col := &Column{Entries: make([]Entry, 20)}
	for i := range col.Entries {
		col.Entries[i].Name = string(rune('a' + i))
	}

	col.SetCursor(9)
	col.EnsureCursorVisible(5, 0)
	assert.Equal(t, 5, col.Offset)
	assert.Len(t, col.Visible(5), 5)

	col.SetCursor(0)
	col.EnsureCursorVisible(5, 0)
	assert.Equal(t, 0, col.Offset)

	col.SetCursor(19)
	col.EnsureCursorVisible(5, 2)
	assert.Equal(t, 15, col.Offset)

	col.SetCursor(14)
	col.EnsureCursorVisible(5, 2)
	assert.Equal(t, 12, col.Offset)

	empty := &Column{Cursor: 3, Offset: 2}
	empty.EnsureCursorVisible(5, 1)
	assert.Equal(t, 0, empty.Cursor)
	assert.Equal(t, 0, empty.Offset)
}

func TestEntryHelpers(t *testing.T) {
	assert.Equal(t, ".txt", Entry{Name: "a.txt"}.Ext())
	assert.Equal(t, "", Entry{Name: ".bashrc"}.Ext())
	assert.Equal(t, "", Entry{Name: "dir.d", Kind: KindDir}.Ext())
	assert.True(t, Entry{Name: "x", Kind: KindSymlink, LinksToDir: true}.IsDir())
	assert.True(t, Entry{Name: ".x"}.IsHidden())
}
