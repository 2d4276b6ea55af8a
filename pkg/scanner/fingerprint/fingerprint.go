// Package fingerprint turns a character profile into a small feature
// vector and maintains an HNSW index over those vectors, so a host can ask
// "which already-analyzed characters feel similar to this one" across
// documents. The vector is a deterministic function of the profile; no
// embeddings, no model calls.
package fingerprint

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"
	"sync"

	"github.com/fogfish/hnsw"
	"github.com/fogfish/hnsw/vector"
	"github.com/hack-pad/hackpadfs"
	kvector "github.com/kshard/vector"

	"github.com/fnone/blogtalk/pkg/scanner/candidate"
	"github.com/fnone/blogtalk/pkg/scanner/enrich"
	"github.com/fnone/blogtalk/pkg/scanner/pipeline"
)

// Dim is the fixed fingerprint dimensionality
const Dim = 16

// Vector derives the feature vector for a profile. Counts are log-damped
// so one very chatty protagonist does not dominate the cosine distance;
// the categorical fields are one-hot encoded.
func Vector(p pipeline.Profile) []float32 {
	v := make([]float32, Dim)

	v[0] = damp(p.Score)
	v[1] = damp(float64(p.Mentions))
	v[2] = damp(float64(p.DialogueCount))
	v[3] = damp(float64(p.ActionCount))

	switch p.Tier {
	case candidate.TierProtagonist:
		v[4] = 1
	case candidate.TierSupporting:
		v[5] = 1
	default:
		v[6] = 1
	}

	switch p.Style.Tone {
	case enrich.ToneFormal:
		v[7] = 1
	case enrich.ToneCasual:
		v[8] = 1
	default:
		v[9] = 1
	}

	switch p.Style.Complexity {
	case enrich.ComplexityHigh:
		v[10] = 1
	case enrich.ComplexityLow:
		v[11] = 1
	default:
		v[12] = 1
	}

	switch p.Style.Perspective {
	case enrich.PerspectiveFirst:
		v[13] = 1
	case enrich.PerspectiveSecond:
		v[14] = 1
	default:
		v[15] = 1
	}

	return v
}

func damp(x float64) float32 {
	if x < 0 {
		x = 0
	}
	return float32(math.Log1p(x))
}

// Index manages the HNSW index and its persistence. Keys are opaque
// uint32 handles owned by the caller (typically row ids from the store).
type Index struct {
	index *hnsw.HNSW[vector.VF32]
	fs    hackpadfs.FS
	path  string
	mu    sync.RWMutex
}

// NewIndex opens the index at path, loading a previously saved one when
// present, otherwise starting empty with cosine distance.
func NewIndex(fs hackpadfs.FS, path string) (*Index, error) {
	idx := &Index{fs: fs, path: path}

	if err := idx.Load(); err != nil {
		idx.index = hnsw.New[vector.VF32](vector.SurfaceVF32(kvector.Cosine()))
	}

	return idx, nil
}

// Add inserts a profile under the given key
func (x *Index) Add(key uint32, p pipeline.Profile) error {
	return x.AddVector(key, Vector(p))
}

// AddVector inserts a raw fingerprint vector
func (x *Index) AddVector(key uint32, vec []float32) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.index == nil {
		return fmt.Errorf("fingerprint: index not initialized")
	}
	if len(vec) != Dim {
		return fmt.Errorf("fingerprint: dimension mismatch: expected %d, got %d", Dim, len(vec))
	}

	x.index.Insert(vector.VF32{Key: key, Vec: vec})
	return nil
}

// Similar returns the keys of the k nearest fingerprints
func (x *Index) Similar(p pipeline.Profile, k int) ([]uint32, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.index == nil {
		return nil, fmt.Errorf("fingerprint: index not initialized")
	}

	ef := k * 2
	if ef < 100 {
		ef = 100
	}

	results := x.index.Search(vector.VF32{Vec: Vector(p)}, k, ef)

	keys := make([]uint32, len(results))
	for i, r := range results {
		keys[i] = r.Key
	}
	return keys, nil
}

// Size returns the number of indexed fingerprints
func (x *Index) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.index == nil {
		return 0
	}
	return x.index.Size()
}

// Save persists the index nodes to the FS as gob
func (x *Index) Save() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.index == nil {
		return nil
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(x.index.Nodes()); err != nil {
		return fmt.Errorf("fingerprint: encode index: %w", err)
	}

	if err := hackpadfs.WriteFullFile(x.fs, x.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("fingerprint: write index file: %w", err)
	}

	return nil
}

// Load reads the index back from the FS
func (x *Index) Load() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	content, err := hackpadfs.ReadFile(x.fs, x.path)
	if err != nil {
		return err
	}

	var nodes hnsw.Nodes[vector.VF32]
	if err := gob.NewDecoder(bytes.NewReader(content)).Decode(&nodes); err != nil {
		return fmt.Errorf("fingerprint: decode index: %w", err)
	}

	x.index = hnsw.FromNodes[vector.VF32](vector.SurfaceVF32(kvector.Cosine()), nodes)
	return nil
}
