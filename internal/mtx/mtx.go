// Package mtx reads sparse matrices stored in the Matrix Market coordinate
// format: a banner line declaring the type flags, optional '%' comment
// lines, a size line "rows cols nonzeros", and one "row col value" triplet
// per line, 1-indexed.
//
// Only real-valued coordinate matrices are supported, with general or
// symmetric symmetry. Symmetric files store the lower triangle only; the
// consumer is responsible for mirroring off-diagonal entries.
package mtx

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrBadBanner is returned when the first line is not a MatrixMarket
	// banner with five fields.
	ErrBadBanner = errors.New("mtx: malformed MatrixMarket banner")

	// ErrUnsupportedType is returned for banners that are not
	// "matrix coordinate real general|symmetric".
	ErrUnsupportedType = errors.New("mtx: only real coordinate matrices are supported")

	// ErrBadSize is returned when the size line is malformed.
	ErrBadSize = errors.New("mtx: malformed size line")

	// ErrBadEntry is returned when a triplet line is malformed or indexes
	// outside the declared dimensions.
	ErrBadEntry = errors.New("mtx: malformed matrix entry")

	// ErrTruncated is returned when the file ends before the declared
	// number of entries has been read.
	ErrTruncated = errors.New("mtx: fewer entries than declared")
)

// File holds the raw contents of a coordinate file. Indices are 1-based
// exactly as stored; symmetric files carry only their stored triangle.
type File struct {
	Rows, Cols int
	Symmetric  bool

	// Parallel triplet arrays of identical length.
	I []int
	J []int
	V []float64
}

// Open reads the coordinate file at path.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mtx: open %s: %w", path, err)
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Read parses a coordinate file from r.
func Read(r io.Reader) (*File, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	symmetric, err := readBanner(sc)
	if err != nil {
		return nil, err
	}

	rows, cols, nz, err := readSize(sc)
	if err != nil {
		return nil, err
	}

	m := &File{
		Rows:      rows,
		Cols:      cols,
		Symmetric: symmetric,
		I:         make([]int, 0, nz),
		J:         make([]int, 0, nz),
		V:         make([]float64, 0, nz),
	}

	for len(m.I) < nz && sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: %q", ErrBadEntry, line)
		}
		i, err1 := strconv.Atoi(fields[0])
		j, err2 := strconv.Atoi(fields[1])
		v, err3 := strconv.ParseFloat(fields[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadEntry, line)
		}
		if i < 1 || i > rows || j < 1 || j > cols {
			return nil, fmt.Errorf("%w: index (%d,%d) outside %dx%d", ErrBadEntry, i, j, rows, cols)
		}
		m.I = append(m.I, i)
		m.J = append(m.J, j)
		m.V = append(m.V, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("mtx: read: %w", err)
	}
	if len(m.I) < nz {
		return nil, fmt.Errorf("%w: got %d of %d", ErrTruncated, len(m.I), nz)
	}

	return m, nil
}

// readBanner consumes the banner line and reports whether the matrix is
// declared symmetric.
func readBanner(sc *bufio.Scanner) (bool, error) {
	if !sc.Scan() {
		return false, ErrBadBanner
	}
	fields := strings.Fields(sc.Text())
	if len(fields) != 5 || !strings.EqualFold(fields[0], "%%MatrixMarket") {
		return false, ErrBadBanner
	}

	object := strings.ToLower(fields[1])
	format := strings.ToLower(fields[2])
	field := strings.ToLower(fields[3])
	symmetry := strings.ToLower(fields[4])

	if object != "matrix" || format != "coordinate" || field != "real" {
		return false, fmt.Errorf("%w: got %s %s %s", ErrUnsupportedType, object, format, field)
	}
	switch symmetry {
	case "general":
		return false, nil
	case "symmetric":
		return true, nil
	default:
		return false, fmt.Errorf("%w: symmetry %q", ErrUnsupportedType, symmetry)
	}
}

// readSize consumes comment lines and the size line.
func readSize(sc *bufio.Scanner) (rows, cols, nz int, err error) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrBadSize, line)
		}
		var errs [3]error
		rows, errs[0] = strconv.Atoi(fields[0])
		cols, errs[1] = strconv.Atoi(fields[1])
		nz, errs[2] = strconv.Atoi(fields[2])
		for _, e := range errs {
			if e != nil {
				return 0, 0, 0, fmt.Errorf("%w: %q", ErrBadSize, line)
			}
		}
		if rows < 1 || cols < 1 || nz < 0 {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrBadSize, line)
		}
		return rows, cols, nz, nil
	}
	if err := sc.Err(); err != nil {
		return 0, 0, 0, fmt.Errorf("mtx: read: %w", err)
	}
	return 0, 0, 0, ErrBadSize
}
