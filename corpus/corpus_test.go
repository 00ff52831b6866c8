package corpus

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestListDocs(t *testing.T) {
	t.Run("excludes source files", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			"report.txt": "r",
			"Source.txt": "s",
			"notes.txt":  "n",
		})

		docs, err := ListDocs(dir)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"report.txt", "notes.txt"}, Names(docs))
	})

	t.Run("walks subfolders", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			"kenya/plan.pdf.ocr.txt":   "p",
			"kenya/Source Link.txt":    "s",
			"kenya/Source Links.txt":   "s",
			"uganda/policy.txt":        "p",
			"uganda/source.txt":        "lowercase is not excluded",
			"uganda/policy.pdf":        "not text",
			"uganda/deep/strategy.txt": "s",
		})

		docs, err := ListDocs(dir)
		require.NoError(t, err)
		assert.ElementsMatch(t,
			[]string{"plan.pdf.ocr.txt", "policy.txt", "source.txt", "strategy.txt"},
			Names(docs))
		for _, d := range docs {
			assert.Equal(t, d.Name, filepath.Base(d.Path))
		}
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := ListDocs(filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestListReadable(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.txt":      "a",
		"b.pdf":      "b",
		"c.docx":     "c",
		"d.png":      "d",
		"Source.txt": "s",
	})

	docs, err := ListReadable(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "b.pdf", "c.docx"}, Names(docs))
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"plan.txt", "plan"},
		{"plan.pdf.ocr.txt", "plan"},
		{"plan.pdf.ocr", "plan"},
		{"plan", "plan"},
		{"a.txt.backup.txt", "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanName(tt.name))
		})
	}
}

func TestNewDocTable(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"national.pdf.ocr.txt": "x"})

	rows, err := NewDocTable(dir)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "national.pdf.ocr.txt", rows[0].Name)
	assert.Equal(t, "national", rows[0].CleanName)
	assert.Equal(t, filepath.Join(dir, "national.pdf.ocr.txt"), rows[0].Path)
}

func TestReadLenient(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte{'o', 'k', 0xc3, 0x28, '!', 0xff}, 0o644))

	text, err := ReadLenient(path)
	require.NoError(t, err)
	assert.Equal(t, "ok(!", text)

	_, err = ReadLenient(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestReaders(t *testing.T) {
	txt := &TextReader{}
	assert.True(t, txt.CanRead("a/b.txt"))
	assert.True(t, txt.CanRead("a/b.TXT"))
	assert.False(t, txt.CanRead("a/b.pdf"))

	dc := &DocconvReader{}
	assert.True(t, dc.CanRead("a/b.pdf"))
	assert.True(t, dc.CanRead("a/b.docx"))
	assert.True(t, dc.CanRead("a/b.odt"))
	assert.False(t, dc.CanRead("a/b.txt"))

	_, err := dc.ReadText(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = ReadText("image.png")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
