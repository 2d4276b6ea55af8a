// SQLite-backed Storer using ncruces/go-sqlite3 through database/sql, with
// a sqlite-vec virtual table holding the profile fingerprints for KNN.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/asg017/sqlite-vec-go-bindings/ncruces"
	_ "github.com/ncruces/go-sqlite3/driver"
	"github.com/segmentio/ksuid"

	"github.com/fnone/blogtalk/pkg/scanner/fingerprint"
	"github.com/fnone/blogtalk/pkg/scanner/pipeline"
)

// SQLiteStore is the persistent Storer
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

var schema = fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS profiles (
    id TEXT NOT NULL UNIQUE,
    document_id TEXT NOT NULL,
    name TEXT NOT NULL,
    tier TEXT NOT NULL,
    score REAL NOT NULL,
    mentions INTEGER NOT NULL DEFAULT 0,
    dialogue_count INTEGER NOT NULL DEFAULT 0,
    action_count INTEGER NOT NULL DEFAULT 0,
    data TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    UNIQUE(document_id, name)
);

CREATE INDEX IF NOT EXISTS idx_profiles_document ON profiles(document_id);
CREATE INDEX IF NOT EXISTS idx_profiles_tier ON profiles(tier);

-- Fingerprints live in a vec0 table whose rowids mirror profiles.rowid
CREATE VIRTUAL TABLE IF NOT EXISTS profile_fingerprints USING vec0(
    embedding float[%d]
);
`, fingerprint.Dim)

// NewSQLiteStore creates an in-memory store, mostly for tests
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreWithDSN(":memory:")
}

// NewSQLiteStoreWithDSN opens a store at the given data source name.
// Use ":memory:" for ephemeral or a file path for persistent storage.
func NewSQLiteStoreWithDSN(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveProfiles replaces the document's profile set in one transaction,
// keeping the fingerprint table in lockstep.
func (s *SQLiteStore) SaveProfiles(documentID string, profiles []pipeline.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteDocument(tx, documentID); err != nil {
		return err
	}

	now := time.Now().UnixMilli()
	for _, p := range profiles {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to encode profile %q: %w", p.Name, err)
		}

		res, err := tx.Exec(`
			INSERT INTO profiles (id, document_id, name, tier, score, mentions, dialogue_count, action_count, data, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, ksuid.New().String(), documentID, p.Name, string(p.Tier), p.Score,
			p.Mentions, p.DialogueCount, p.ActionCount, string(data), now)
		if err != nil {
			return err
		}

		rowID, err := res.LastInsertId()
		if err != nil {
			return err
		}

		vec, err := json.Marshal(fingerprint.Vector(p))
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT INTO profile_fingerprints (rowid, embedding) VALUES (?, ?)
		`, rowID, string(vec)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func deleteDocument(tx *sql.Tx, documentID string) error {
	if _, err := tx.Exec(`
		DELETE FROM profile_fingerprints WHERE rowid IN
			(SELECT rowid FROM profiles WHERE document_id = ?)
	`, documentID); err != nil {
		return err
	}
	_, err := tx.Exec(`DELETE FROM profiles WHERE document_id = ?`, documentID)
	return err
}

// LoadProfiles returns the stored profiles in descending score order,
// empty when the document has none.
func (s *SQLiteStore) LoadProfiles(documentID string) ([]pipeline.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT data FROM profiles WHERE document_id = ? ORDER BY score DESC, name ASC
	`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []pipeline.Profile{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var p pipeline.Profile
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("failed to decode profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// DeleteProfiles drops the document's profile set and its fingerprints
func (s *SQLiteStore) DeleteProfiles(documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteDocument(tx, documentID); err != nil {
		return err
	}
	return tx.Commit()
}

// ListDocumentIDs returns the ids of all documents with stored profiles
func (s *SQLiteStore) ListDocumentIDs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT DISTINCT document_id FROM profiles ORDER BY document_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountProfiles returns the total number of stored profiles
func (s *SQLiteStore) CountProfiles() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM profiles`).Scan(&count)
	return count, err
}

// SimilarProfiles runs a KNN query against the fingerprint table
func (s *SQLiteStore) SimilarProfiles(p pipeline.Profile, k int) ([]ProfileRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 {
		return nil, nil
	}

	query, err := json.Marshal(fingerprint.Vector(p))
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT pr.document_id, pr.name, f.distance
		FROM profile_fingerprints f
		JOIN profiles pr ON pr.rowid = f.rowid
		WHERE f.embedding MATCH ?
		ORDER BY f.distance
		LIMIT ?
	`, string(query), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []ProfileRef
	for rows.Next() {
		var ref ProfileRef
		if err := rows.Scan(&ref.DocumentID, &ref.Name, &ref.Distance); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
