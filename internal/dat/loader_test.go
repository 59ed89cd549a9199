package dat

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/terrain.segment/internal/surface"
	"github.com/banshee-data/terrain.segment/internal/testutil"
)

func TestLoad_SingleRecord(t *testing.T) {
	pts, err := Load(strings.NewReader("  -5967.00  -33278.00    19.00\r\n"))
	require.NoError(t, err)
	require.Len(t, pts, 1)
	assert.Equal(t, -5967.0, pts[0].X)
	assert.Equal(t, -33278.0, pts[0].Y)
	assert.Equal(t, 19.0, pts[0].Z)
	assert.False(t, pts[0].Label.Visited)
}

func TestLoad_MixedLineEndings(t *testing.T) {
	in := "1 2 3\n4\t5\t6\r\n\r\n   \n7 8 9 extra\n"
	pts, err := Load(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []surface.Point{
		{X: 1, Y: 2, Z: 3},
		{X: 4, Y: 5, Z: 6},
		{X: 7, Y: 8, Z: 9},
	}, pts)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantErr  error
		wantLine int
	}{
		{name: "short record", in: "      10.0       11.0         \r\n", wantErr: ErrShortRecord, wantLine: 1},
		{name: "not a number", in: "      10.0       11.0      aaa\r\n", wantErr: ErrBadNumber, wantLine: 1},
		{name: "later line", in: "1 2 3\n\n4 5\n", wantErr: ErrShortRecord, wantLine: 3},
		{name: "nan z", in: "0 0 NaN\r\n", wantErr: ErrBadNumber, wantLine: 1},
		{name: "inf z", in: "0 0 0\r\n1 0 Inf\r\n", wantErr: ErrBadNumber, wantLine: 2},
		{name: "negative inf x", in: "-Inf 0 0\r\n", wantErr: ErrBadNumber, wantLine: 1},
		{name: "nan y", in: "0 nan 0\r\n", wantErr: ErrBadNumber, wantLine: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.wantLine, pe.Line)
		})
	}
}

func TestParseError_Message(t *testing.T) {
	e := &ParseError{Path: "a.dat", Line: 4, Err: ErrShortRecord}
	assert.Equal(t, "a.dat:4: record has fewer than three values", e.Error())
	e.Path = ""
	assert.Equal(t, "line 4: record has fewer than three values", e.Error())
}

func writeCompressed(t *testing.T, path string, data []byte) {
	t.Helper()
	var buf bytes.Buffer
	switch filepath.Ext(path) {
	case ".gz":
		w := gzip.NewWriter(&buf)
		_, err := w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case ".zst":
		w, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case ".lz4":
		w := lz4.NewWriter(&buf)
		_, err := w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	default:
		buf.Write(data)
	}
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestLoadFile_Compression(t *testing.T) {
	want := testutil.Plateau(0, 0, 4, 3, 1.5)
	body := []byte(testutil.Dat(want))

	for _, name := range []string{"plain.dat", "scan.dat.gz", "scan.dat.zst", "scan.dat.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			writeCompressed(t, path, body)

			got, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.dat"))
	assert.Error(t, err)
}

func TestLoadFile_CorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.dat.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip"), 0644))
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFile_ParseErrorCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.dat")
	require.NoError(t, os.WriteFile(path, []byte("1 2 3\r\n1 x 3\r\n"), 0644))

	_, err := LoadFile(path)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, path, pe.Path)
	assert.Equal(t, 2, pe.Line)
}

func TestIsRecordFile(t *testing.T) {
	for name, want := range map[string]bool{
		"a.dat":     true,
		"A.DAT":     true,
		"a.dat.gz":  true,
		"a.dat.zst": true,
		"a.dat.lz4": true,
		"a.txt":     false,
		"a.gz":      false,
		"dat":       false,
	} {
		assert.Equal(t, want, IsRecordFile(name), name)
	}
}

func TestExpandAndLoadPaths(t *testing.T) {
	dir := t.TempDir()
	writeCompressed(t, filepath.Join(dir, "b.dat"), []byte("1 0 0\n"))
	writeCompressed(t, filepath.Join(dir, "a.dat.gz"), []byte("0 0 0\n"))
	writeCompressed(t, filepath.Join(dir, "notes.txt"), []byte("ignore me"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	single := filepath.Join(t.TempDir(), "single.xyz")
	writeCompressed(t, single, []byte("9 9 9\n"))

	files, err := Expand([]string{dir, single})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.dat.gz"),
		filepath.Join(dir, "b.dat"),
		single,
	}, files)

	pts, err := LoadPaths([]string{dir, single})
	require.NoError(t, err)
	require.Len(t, pts, 3)
	assert.Equal(t, 0.0, pts[0].X)
	assert.Equal(t, 1.0, pts[1].X)
	assert.Equal(t, 9.0, pts[2].X)
}

func TestExpand_Missing(t *testing.T) {
	_, err := Expand([]string{filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}
