// Package dat reads grid-aligned point records in the "x y z" text format.
//
// Each record is one line of decimal tokens separated by spaces or tabs and
// terminated by LF or CR-LF. The first three tokens are x, y and z; any
// further tokens are ignored. Files may be compressed with gzip (.gz), zstd
// (.zst) or lz4 (.lz4).
package dat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/banshee-data/terrain.segment/internal/monitoring"
	"github.com/banshee-data/terrain.segment/internal/surface"
)

// Extension is the record file extension recognised when walking directories.
const Extension = ".dat"

// recordSize is the nominal length of one fixed-width record, used to
// pre-size the point slice.
const recordSize = 32

// Record errors.
var (
	ErrShortRecord = errors.New("record has fewer than three values")
	ErrBadNumber   = errors.New("cannot parse value as a number")
)

// ParseError reports the position of a malformed record.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseRecord parses one record line into a point.
func ParseRecord(line string) (surface.Point, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return surface.Point{}, ErrShortRecord
	}
	var v [3]float64
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return surface.Point{}, fmt.Errorf("%w: %q", ErrBadNumber, fields[i])
		}
		v[i] = f
	}
	return surface.Point{X: v[0], Y: v[1], Z: v[2]}, nil
}

// Load reads every record from r. Blank lines are skipped; the first
// malformed record aborts the load with a *ParseError.
func Load(r io.Reader) ([]surface.Point, error) {
	return load(r, "", 0)
}

func load(r io.Reader, path string, sizeHint int64) ([]surface.Point, error) {
	points := make([]surface.Point, 0, sizeHint/recordSize)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		p, err := ParseRecord(text)
		if err != nil {
			return nil, &ParseError{Path: path, Line: line, Err: err}
		}
		points = append(points, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return points, nil
}

// LoadFile reads a single record file, decompressing by extension.
func LoadFile(path string) ([]surface.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open point file: %w", err)
	}
	defer f.Close()

	var sizeHint int64
	if info, err := f.Stat(); err == nil {
		sizeHint = info.Size()
	}

	r, closeFn, err := decompressor(path, f)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	monitoring.Logf("loading %s", path)
	return load(r, path, sizeHint)
}

// decompressor wraps f according to the compression suffix of path.
func decompressor(path string, f io.Reader) (io.Reader, func(), error) {
	noop := func() {}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, noop, fmt.Errorf("open gzip stream: %w", err)
		}
		return zr, func() { _ = zr.Close() }, nil
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, noop, fmt.Errorf("open zstd stream: %w", err)
		}
		return zr, zr.Close, nil
	case ".lz4":
		return lz4.NewReader(f), noop, nil
	default:
		return f, noop, nil
	}
}

// CompressionSuffixes lists the suffixes LoadFile understands after
// Extension, longest match first; the empty suffix is a plain file.
var CompressionSuffixes = []string{".gz", ".zst", ".lz4", ""}

// IsRecordFile reports whether name looks like a record file, compressed or
// not.
func IsRecordFile(name string) bool {
	base := strings.ToLower(name)
	for _, suffix := range CompressionSuffixes {
		if strings.HasSuffix(base, Extension+suffix) {
			return true
		}
	}
	return false
}

// Expand resolves paths into record files. Directories contribute the
// record files they directly contain, in name order; plain file paths are
// returned as given regardless of extension.
func Expand(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat input: %w", err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("read input directory: %w", err)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() || !IsRecordFile(e.Name()) {
				continue
			}
			found = append(found, filepath.Join(p, e.Name()))
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

// LoadPaths loads and concatenates every record file named by paths,
// expanding directories with Expand.
func LoadPaths(paths []string) ([]surface.Point, error) {
	files, err := Expand(paths)
	if err != nil {
		return nil, err
	}
	var points []surface.Point
	for _, f := range files {
		pts, err := LoadFile(f)
		if err != nil {
			return nil, err
		}
		points = append(points, pts...)
	}
	monitoring.Logf("loaded %d points from %d files", len(points), len(files))
	return points, nil
}
