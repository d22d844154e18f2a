// Package formats provides readers and writers for mesh file formats.
// Binary mesh cache: three little-endian sidecar files next to the source.
package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
)

// Sidecar file suffixes appended to the cache base path.
const (
	VerticesExt = ".vertices"
	IndicesExt  = ".indices"
	NormalsExt  = ".normals"
)

// Cache format errors.
var (
	ErrTruncatedCache = errors.New("truncated cache data")
	ErrCacheIntegrity = errors.New("cache integrity violation")
)

// IntegrityError reports a cache file whose contents differ from the arrays
// that were just written to it. It indicates a codec fault, not bad input.
type IntegrityError struct {
	Path   string
	Offset int // First differing byte, or -1 when only the sizes differ
	Want   int // Expected file size
	Got    int // Actual file size
}

func (e *IntegrityError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("%v: %s: size %d, expected %d", ErrCacheIntegrity, e.Path, e.Got, e.Want)
	}
	return fmt.Sprintf("%v: %s: mismatch at byte %d", ErrCacheIntegrity, e.Path, e.Offset)
}

// Is makes errors.Is(err, ErrCacheIntegrity) hold for every IntegrityError.
func (e *IntegrityError) Is(target error) bool {
	return target == ErrCacheIntegrity
}

// CacheData holds the three flat arrays persisted by the cache.
type CacheData struct {
	Vertices []float32 // x,y,z per vertex
	Indices  []int32   // a,b,c per triangle
	Normals  []float32 // x,y,z per triangle
}

// CachePaths returns the sidecar file paths for base.
func CachePaths(base string) (vertices, indices, normals string) {
	return base + VerticesExt, base + IndicesExt, base + NormalsExt
}

// The vertices and indices files store a record count (3 scalars per
// record). The normals file stores its scalar count.
type cacheFile struct {
	ext    string
	stride int
	encode func(w io.Writer, c *CacheData) error
}

var cacheFiles = []cacheFile{
	{VerticesExt, 3, func(w io.Writer, c *CacheData) error {
		return writeArray(w, int32(len(c.Vertices)/3), c.Vertices)
	}},
	{IndicesExt, 3, func(w io.Writer, c *CacheData) error {
		return writeArray(w, int32(len(c.Indices)/3), c.Indices)
	}},
	{NormalsExt, 1, func(w io.Writer, c *CacheData) error {
		return writeArray(w, int32(len(c.Normals)), c.Normals)
	}},
}

func writeArray[T float32 | int32](w io.Writer, count int32, data []T) error {
	if err := binary.Write(w, binary.LittleEndian, count); err != nil {
		return fmt.Errorf("writing count: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := binary.Write(w, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("writing payload: %w", err)
	}
	return nil
}

// SaveCache writes the vertices, indices and normals files for base, in
// that order. The first failure aborts the save; files already written are
// left in place.
func SaveCache(base string, c *CacheData) error {
	for _, f := range cacheFiles {
		path := base + f.ext
		if err := writeCacheFile(path, c, f.encode); err != nil {
			return err
		}
	}
	return nil
}

func writeCacheFile(path string, c *CacheData, encode func(io.Writer, *CacheData) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()

	w := bufio.NewWriter(file)
	if err := encode(w, c); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// VerifyCache re-reads the cache files for base and compares them byte for
// byte with the encoding of c. A mismatch is reported as *IntegrityError;
// read failures are returned as ordinary errors.
func VerifyCache(base string, c *CacheData) error {
	for _, f := range cacheFiles {
		path := base + f.ext

		var want bytes.Buffer
		if err := f.encode(&want, c); err != nil {
			return fmt.Errorf("encoding %s: %w", path, err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading cache file: %w", err)
		}

		if err := compareBytes(path, want.Bytes(), got); err != nil {
			return err
		}
	}
	return nil
}

func compareBytes(path string, want, got []byte) error {
	if len(want) != len(got) {
		return &IntegrityError{Path: path, Offset: -1, Want: len(want), Got: len(got)}
	}
	for i := range want {
		if want[i] != got[i] {
			return &IntegrityError{Path: path, Offset: i, Want: len(want), Got: len(got)}
		}
	}
	return nil
}

// LoadCache reads the three cache files for base. The counts of the files
// are not checked against each other.
func LoadCache(base string) (*CacheData, error) {
	vertPath, indexPath, normalPath := CachePaths(base)

	c := &CacheData{}
	var err error
	if c.Vertices, err = readCacheFile[float32](vertPath, 3); err != nil {
		return nil, err
	}
	if c.Indices, err = readCacheFile[int32](indexPath, 3); err != nil {
		return nil, err
	}
	if c.Normals, err = readCacheFile[float32](normalPath, 1); err != nil {
		return nil, err
	}
	return c, nil
}

func readCacheFile[T float32 | int32](path string, stride int) (data []T, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening cache file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, file.Close())
		if err != nil {
			data = nil
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	data, err = readArray[T](bufio.NewReader(file), stride, info.Size())
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// readArray decodes a count-prefixed array of stride-sized records. size is
// the total input length and bounds the allocation.
func readArray[T float32 | int32](r io.Reader, stride int, size int64) ([]T, error) {
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading count", ErrTruncatedCache)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrTruncatedCache, count)
	}

	n := int64(count) * int64(stride)
	if 4+n*4 > size {
		return nil, fmt.Errorf("%w: count %d exceeds file size %d", ErrTruncatedCache, count, size)
	}

	data := make([]T, n)
	if n == 0 {
		return data, nil
	}
	if err := binary.Read(r, binary.LittleEndian, data); err != nil {
		return nil, fmt.Errorf("%w: reading payload", ErrTruncatedCache)
	}
	return data, nil
}
