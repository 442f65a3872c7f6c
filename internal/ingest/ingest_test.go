package ingest

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maloquacious/babynames/internal/store"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line   string
		want   store.NameRecord
		wantOK bool
	}{
		{"Mary,1880,F,7065", store.NameRecord{Name: "Mary", Year: 1880, Gender: "F", Count: 7065}, true},
		{" John , 1880 , M , 9655 \r", store.NameRecord{Name: "John", Year: 1880, Gender: "M", Count: 9655}, true},
		{"Bad,1880", store.NameRecord{}, false},
		{"Bad,1880,F", store.NameRecord{}, false},
		{"Too,1880,F,1,extra", store.NameRecord{}, false},
		{"Anna,eighteen,F,10", store.NameRecord{}, false},
		{"Anna,1880,F,ten", store.NameRecord{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRead(t *testing.T) {
	data := "name,year,gender,count\nMary,1880,F,7065\nJohn,1880,M,9655\nBad,1880\n\nAnna,x,F,2\n"

	var got []store.NameRecord
	malformed, err := Read(strings.NewReader(data), func(rec store.NameRecord) error {
		got = append(got, rec)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 2, malformed)
	assert.Equal(t, []store.NameRecord{
		{Name: "Mary", Year: 1880, Gender: "F", Count: 7065},
		{Name: "John", Year: 1880, Gender: "M", Count: 9655},
	}, got)
}

func TestReadHeaderOnly(t *testing.T) {
	calls := 0
	malformed, err := Read(strings.NewReader("name,year,gender,count\n"), func(store.NameRecord) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, malformed)
	assert.Zero(t, calls)
}

func TestReadStopsOnCallbackError(t *testing.T) {
	boom := errors.New("boom")
	data := "h\nA,1,F,1\nB,1,F,1\n"

	calls := 0
	_, err := Read(strings.NewReader(data), func(store.NameRecord) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"yob1881.txt", "yob1880.TXT", "extra.csv", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("h\n"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.txt"), 0755))

	files, err := FindFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "extra.csv"),
		filepath.Join(dir, "yob1880.TXT"),
		filepath.Join(dir, "yob1881.txt"),
	}, files)
}

func TestFindFilesErrors(t *testing.T) {
	_, err := FindFiles(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, store.ErrNoDataDir)

	empty := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(empty, "notes.md"), []byte("x"), 0644))
	_, err = FindFiles(empty)
	assert.ErrorIs(t, err, store.ErrNoDataFiles)
}

func TestReadOverlongRowIsMalformed(t *testing.T) {
	long := strings.Repeat("x", MaxLineLength+10) + ",1880,F,5"
	data := "name,year,gender,count\nMary,1880,F,7065\n" + long + "\nJohn,1880,M,9655"

	var got []string
	malformed, err := Read(strings.NewReader(data), func(rec store.NameRecord) error {
		got = append(got, rec.Name)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, malformed)
	assert.Equal(t, []string{"Mary", "John"}, got)
}

func TestReadLongRowWithinLimit(t *testing.T) {
	name := strings.Repeat("n", 5000)
	var got []store.NameRecord
	malformed, err := Read(strings.NewReader("h\n"+name+",1900,F,3\n"), func(rec store.NameRecord) error {
		got = append(got, rec)
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, malformed)
	require.Len(t, got, 1)
	assert.Equal(t, name, got[0].Name)
}

func TestReadReaderError(t *testing.T) {
	boom := errors.New("disk gone")
	r := io.MultiReader(strings.NewReader("h\nA,1,F,1\n"), iotest.ErrReader(boom))

	calls := 0
	_, err := Read(r, func(store.NameRecord) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestFindFilesFollowsSymlinks(t *testing.T) {
	shared := t.TempDir()
	target := filepath.Join(shared, "yob1880.txt")
	require.NoError(t, os.WriteFile(target, []byte("h\n"), 0644))

	dir := t.TempDir()
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "yob1880.txt")))
	require.NoError(t, os.Symlink(filepath.Join(shared, "gone.txt"), filepath.Join(dir, "dangling.txt")))
	require.NoError(t, os.Symlink(shared, filepath.Join(dir, "linkdir.txt")))

	files, err := FindFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "yob1880.txt")}, files)
}
