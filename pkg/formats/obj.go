// Package formats provides readers and writers for mesh file formats.
// OBJ (Wavefront) text parser restricted to vertex positions and faces.
package formats

import (
	"errors"
	"strconv"
	"strings"
)

// Parser limits. Both are part of the format contract.
const (
	MaxRowLen    = 512 // Row buffer size; a row holds at most MaxRowLen-1 bytes
	MaxFaceVerts = 32  // Vertex references kept per face; extra references are ignored
)

// RowScanner splits a raw OBJ buffer into logical rows.
//
// Backslashes and carriage returns are dropped, leading blanks are skipped
// and a newline met before any content is skipped instead of ending the row.
// A row that reaches MaxRowLen-1 bytes is cut there; the rest of the physical
// line is returned by the following Scan calls.
type RowScanner struct {
	buf       []byte
	pos       int
	row       [MaxRowLen]byte
	n         int
	truncated bool
}

// NewRowScanner returns a scanner reading rows from buf.
func NewRowScanner(buf []byte) *RowScanner {
	return &RowScanner{buf: buf}
}

// Scan advances to the next row. It returns false once the buffer is exhausted.
// The row produced by the final Scan may be empty.
func (s *RowScanner) Scan() bool {
	if s.pos >= len(s.buf) {
		s.n = 0
		s.truncated = false
		return false
	}
	s.n, s.pos, s.truncated = readRow(s.buf, s.pos, s.row[:])
	return true
}

// Row returns the current row. The slice is overwritten by the next Scan.
func (s *RowScanner) Row() []byte {
	return s.row[:s.n]
}

// Truncated reports whether the current row was cut at the length cap.
func (s *RowScanner) Truncated() bool {
	return s.truncated
}

// readRow copies the row starting at buf[pos] into dst and returns the row
// length, the advanced cursor and whether the length cap was hit.
func readRow(buf []byte, pos int, dst []byte) (n, next int, truncated bool) {
	start := true
	for pos < len(buf) {
		c := buf[pos]
		pos++
		switch c {
		case '\\', '\r':
			continue
		case '\n':
			if start {
				continue
			}
			return n, pos, false
		case ' ', '\t':
			if start {
				continue
			}
		}
		start = false
		dst[n] = c
		n++
		if n >= len(dst)-1 {
			return n, pos, true
		}
	}
	return n, pos, false
}

// ParseFace decodes the vertex references of a face row (without the leading
// 'f') into zero-based indices stored in dst. Only the position part of each
// "v/vt/vn" reference is used. Negative references count back from
// vertCount. At most len(dst) indices are written; the count is returned.
//
// Indices are not range checked here. A reference of 0 or one without
// leading digits resolves to -1. A reference with an empty position part
// ("/7", "//3") is skipped.
func ParseFace(row []byte, vertCount int, dst []int) int {
	n := 0
	i := 0
	for i < len(row) && n < len(dst) {
		for i < len(row) && isBlank(row[i]) {
			i++
		}
		start := i
		end := -1
		for i < len(row) && !isBlank(row[i]) {
			if row[i] == '/' && end < 0 {
				end = i
			}
			i++
		}
		if start == i || end == start {
			continue
		}
		if end < 0 {
			end = i
		}
		dst[n] = resolveIndex(atoi(row[start:end]), vertCount)
		n++
	}
	return n
}

// resolveIndex maps a one-based or end-relative OBJ reference to a zero-based index.
func resolveIndex(v, vertCount int) int {
	if v < 0 {
		return vertCount + v
	}
	return v - 1
}

// atoi parses an optional sign followed by leading decimal digits and ignores
// the rest. Tokens without digits and values that overflow yield 0.
func atoi(tok []byte) int {
	end := 0
	if end < len(tok) && (tok[end] == '+' || tok[end] == '-') {
		end++
	}
	digits := end
	for end < len(tok) && isDigit(tok[end]) {
		end++
	}
	if end == digits {
		return 0
	}
	v, err := strconv.ParseInt(string(tok[:end]), 10, 32)
	if err != nil {
		return 0
	}
	return int(v)
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

// GeometrySink receives geometry decoded by ParseOBJ.
type GeometrySink interface {
	AddVertex(x, y, z float32)
	AddFace(face []int) int
	VertexCount() int
}

// Stats summarizes a ParseOBJ pass.
type Stats struct {
	Rows      int // Non-empty rows
	Comments  int // Rows starting with '#'
	Vertices  int // 'v' rows
	Faces     int // 'f' rows
	Triangles int // Triangles accepted by the sink
	Ignored   int // Rows with any other tag
	Truncated int // Rows cut at MaxRowLen-1 bytes
}

// ParseOBJ tokenizes data and feeds vertex and face rows to sink.
// Malformed rows never fail the parse.
func ParseOBJ(data []byte, sink GeometrySink) Stats {
	var stats Stats
	var face [MaxFaceVerts]int

	s := NewRowScanner(data)
	for s.Scan() {
		row := s.Row()
		if s.Truncated() {
			stats.Truncated++
		}
		if len(row) == 0 {
			continue
		}
		stats.Rows++

		switch {
		case row[0] == '#':
			stats.Comments++
		case row[0] == 'v' && !isVertexAttribute(row):
			x, y, z := parseVertex(row[1:])
			sink.AddVertex(x, y, z)
			stats.Vertices++
		case row[0] == 'f':
			nv := ParseFace(row[1:], sink.VertexCount(), face[:])
			stats.Triangles += sink.AddFace(face[:nv])
			stats.Faces++
		default:
			stats.Ignored++
		}
	}
	return stats
}

// isVertexAttribute reports whether a 'v' row is a normal or texture coordinate.
func isVertexAttribute(row []byte) bool {
	return len(row) > 1 && (row[1] == 'n' || row[1] == 't')
}

// parseVertex reads up to three coordinates from the row. Each coordinate is
// the longest numeric prefix after optional blanks; scanning stops at the
// first position that does not start a number, so "1.5abc 2 3" yields only
// 1.5 and "1,2,3" only 1. Missing coordinates are zero.
func parseVertex(rest []byte) (x, y, z float32) {
	var v [3]float32
	pos := 0
	for i := range v {
		for pos < len(rest) && isBlank(rest[pos]) {
			pos++
		}
		n := floatPrefix(rest[pos:])
		if n == 0 {
			break
		}
		f, err := strconv.ParseFloat(string(rest[pos:pos+n]), 32)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			break
		}
		v[i] = float32(f)
		pos += n
	}
	return v[0], v[1], v[2]
}

// floatPrefix returns the length of the longest prefix of b that forms a
// decimal floating point number, or an inf/nan literal. It returns 0 when b
// does not start with a number.
func floatPrefix(b []byte) int {
	i := 0
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		i++
	}
	for _, lit := range []string{"infinity", "inf", "nan"} {
		if len(b)-i >= len(lit) && strings.EqualFold(string(b[i:i+len(lit)]), lit) {
			return i + len(lit)
		}
	}

	digits := 0
	for i < len(b) && isDigit(b[i]) {
		i++
		digits++
	}
	if i < len(b) && b[i] == '.' {
		i++
		for i < len(b) && isDigit(b[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}

	// The exponent only counts when at least one digit follows it.
	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		j := i + 1
		if j < len(b) && (b[j] == '+' || b[j] == '-') {
			j++
		}
		if j < len(b) && isDigit(b[j]) {
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
