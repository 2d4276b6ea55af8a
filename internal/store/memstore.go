package store

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/fnone/blogtalk/pkg/scanner/fingerprint"
	"github.com/fnone/blogtalk/pkg/scanner/pipeline"
)

// MemStore is the in-memory Storer, used in tests and by hosts that do not
// need the profiles to outlive the process.
type MemStore struct {
	mu      sync.RWMutex
	records map[string][]ProfileRecord // documentID -> records
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{
		records: make(map[string][]ProfileRecord),
	}
}

// Close is a no-op for MemStore
func (s *MemStore) Close() error {
	return nil
}

// SaveProfiles replaces the stored set for the document
func (s *MemStore) SaveProfiles(documentID string, profiles []pipeline.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()
	records := make([]ProfileRecord, len(profiles))
	for i, p := range profiles {
		records[i] = ProfileRecord{
			ID:         ksuid.New().String(),
			DocumentID: documentID,
			Name:       p.Name,
			Profile:    p,
			CreatedAt:  now,
		}
	}
	s.records[documentID] = records
	return nil
}

// LoadProfiles returns the stored profiles, empty when the document has none
func (s *MemStore) LoadProfiles(documentID string) ([]pipeline.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.records[documentID]
	profiles := make([]pipeline.Profile, len(records))
	for i, r := range records {
		profiles[i] = r.Profile
	}
	return profiles, nil
}

// DeleteProfiles drops the document's profile set
func (s *MemStore) DeleteProfiles(documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, documentID)
	return nil
}

// ListDocumentIDs returns the ids of all documents with stored profiles
func (s *MemStore) ListDocumentIDs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// CountProfiles returns the total number of stored profiles
func (s *MemStore) CountProfiles() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, records := range s.records {
		count += len(records)
	}
	return count, nil
}

// SimilarProfiles brute-forces cosine distance over all stored
// fingerprints. Fine for the in-memory scale this store targets.
func (s *MemStore) SimilarProfiles(p pipeline.Profile, k int) ([]ProfileRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := fingerprint.Vector(p)

	var refs []ProfileRef
	for docID, records := range s.records {
		for _, r := range records {
			refs = append(refs, ProfileRef{
				DocumentID: docID,
				Name:       r.Name,
				Distance:   cosineDistance(query, fingerprint.Vector(r.Profile)),
			})
		}
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Distance < refs[j].Distance })
	if k > 0 && len(refs) > k {
		refs = refs[:k]
	}
	return refs, nil
}

func cosineDistance(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}
