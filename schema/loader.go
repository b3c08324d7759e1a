package schema

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"
)

// Loader parses and validates graph schemas from YAML, caching the result by
// content hash so repeated loads of the same source skip re-validation and
// return the cached *Schema. Every load still parses its input, since the
// hash is taken over the parsed schema. A Loader is safe for concurrent use.
type Loader struct {
	validate *validator.Validate

	mu    sync.RWMutex
	cache map[string]*Schema

	sf singleflight.Group
}

// NewLoader creates a schema loader with an empty cache.
func NewLoader() *Loader {
	return &Loader{
		validate: validator.New(),
		cache:    make(map[string]*Schema),
	}
}

// LoadFile reads and parses a schema from a YAML file on disk.
func (l *Loader) LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: failed to read file: %w", err)
	}
	return l.load(data)
}

// LoadReader reads and parses a schema from an io.Reader.
func (l *Loader) LoadReader(r io.Reader) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("schema: failed to read data: %w", err)
	}
	return l.load(data)
}

func (l *Loader) load(data []byte) (*Schema, error) {
	var raw rawSchema
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("schema: YAML decode failed: %w", err)
	}

	s, err := raw.toSchema()
	if err != nil {
		return nil, err
	}

	hash, err := contentHash(s)
	if err != nil {
		return nil, err
	}

	v, err, _ := l.sf.Do(hash, func() (any, error) {
		if cached, ok := l.getCached(hash); ok {
			return cached, nil
		}

		if err := l.validate.Struct(s); err != nil {
			return nil, fmt.Errorf("schema: struct validation failed: %w", err)
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}

		l.putCached(hash, s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Schema), nil
}

func (l *Loader) getCached(hash string) (*Schema, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.cache[hash]
	return s, ok
}

func (l *Loader) putCached(hash string, s *Schema) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache[hash] = s
}

// contentHash produces a stable hash of a schema by re-encoding it with
// fixed formatting, so equivalent YAML sources (differing only in
// whitespace or key order) share a cache entry.
func contentHash(s *Schema) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return "", fmt.Errorf("schema: failed to hash schema: %w", err)
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}

// rawSchema mirrors the YAML shape of a schema file before from/to scalar
// validation. The spec requires rejecting list-shaped endpoint references
// (schema.md §9), so FromLabel/ToLabel are decoded as plain strings — a YAML
// sequence there fails to decode with a clear type-mismatch error rather
// than being silently coerced.
type rawSchema struct {
	Version  string                 `yaml:"version"`
	Vertices map[string]*VertexDef  `yaml:"vertices"`
	Edges    map[string]*rawEdgeDef `yaml:"edges"`
}

type rawEdgeDef struct {
	Properties []PropDef `yaml:"properties"`
	From       string    `yaml:"from"`
	To         string    `yaml:"to"`
}

func (r *rawSchema) toSchema() (*Schema, error) {
	s := &Schema{
		Version:  r.Version,
		Vertices: r.Vertices,
		Edges:    make(map[string]*EdgeDef, len(r.Edges)),
	}
	if s.Vertices == nil {
		s.Vertices = make(map[string]*VertexDef)
	}
	for label, re := range r.Edges {
		if re.From == "" || re.To == "" {
			return nil, fmt.Errorf("schema: edge %s must declare scalar from/to", label)
		}
		s.Edges[label] = &EdgeDef{
			Properties: re.Properties,
			FromLabel:  re.From,
			ToLabel:    re.To,
		}
	}
	return s, nil
}
