package mesh

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshload/pkg/encoding"
	"github.com/Faultbox/meshload/pkg/formats"
)

// Loader reads meshes from OBJ sources or from their binary cache.
type Loader struct {
	// Scale multiplies every parsed vertex position. Zero means 1.
	Scale float32

	// WriteCache saves the parsed mesh to the sidecar cache files.
	WriteCache bool

	// VerifyCache re-reads the cache after writing it and compares it with
	// the in-memory arrays. A mismatch makes Load return *formats.IntegrityError.
	VerifyCache bool

	// Logger receives load diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// Load parses the OBJ file at path using a Loader with cache verification
// enabled, writing the cache when writeCache is set.
func Load(path string, writeCache bool) (*Mesh, error) {
	l := &Loader{WriteCache: writeCache, VerifyCache: true}
	return l.Load(path)
}

// LoadBinary reads a mesh from the cache files written for path.
func LoadBinary(path string) (*Mesh, error) {
	l := &Loader{}
	return l.LoadBinary(path)
}

func (l *Loader) log() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

// Load parses the OBJ file at path and computes face normals. Only vertex
// positions and faces are used; malformed geometry is skipped without error.
// On failure no mesh is returned.
func (l *Loader) Load(path string) (*Mesh, error) {
	log := l.log()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mesh source: %w", err)
	}
	data, err = encoding.DecodeSource(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	b := NewBuilder(l.Scale)
	stats := formats.ParseOBJ(data, b)
	m := b.Build(path)

	log.Debug("parsed mesh source",
		zap.String("path", path),
		zap.Int("rows", stats.Rows),
		zap.Int("vertices", m.VertCount()),
		zap.Int("faces", stats.Faces),
		zap.Int("triangles", m.TriCount()),
		zap.Int("dropped", b.Dropped()),
		zap.Int("degenerate", DegenerateCount(m.normals)),
		zap.Int("ignored", stats.Ignored),
		zap.Int("truncated", stats.Truncated),
	)

	if l.WriteCache {
		if err := l.saveCache(path, m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (l *Loader) saveCache(path string, m *Mesh) error {
	c := &formats.CacheData{
		Vertices: m.verts,
		Indices:  m.tris,
		Normals:  m.normals,
	}

	if err := formats.SaveCache(path, c); err != nil {
		return fmt.Errorf("saving mesh cache: %w", err)
	}
	if l.VerifyCache {
		if err := formats.VerifyCache(path, c); err != nil {
			return fmt.Errorf("verifying mesh cache: %w", err)
		}
	}

	l.log().Debug("wrote mesh cache",
		zap.String("path", path),
		zap.Bool("verified", l.VerifyCache),
	)
	return nil
}

// LoadBinary reads a mesh from the cache files written for path. Normals
// are taken from the cache as stored.
func (l *Loader) LoadBinary(path string) (*Mesh, error) {
	c, err := formats.LoadCache(path)
	if err != nil {
		return nil, fmt.Errorf("loading mesh cache: %w", err)
	}

	m := &Mesh{
		verts:    c.Vertices,
		tris:     c.Indices,
		normals:  c.Normals,
		filename: path,
	}

	l.log().Debug("loaded mesh cache",
		zap.String("path", path),
		zap.Int("vertices", m.VertCount()),
		zap.Int("triangles", m.TriCount()),
	)
	return m, nil
}
