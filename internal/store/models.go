// Package store persists analyzed character profiles per document. It is
// the host-side story store; the analysis pipeline itself never imports it.
package store

import "github.com/fnone/blogtalk/pkg/scanner/pipeline"

// ProfileRecord is one stored profile row
type ProfileRecord struct {
	ID         string           `json:"id"`
	DocumentID string           `json:"documentId"`
	Name       string           `json:"name"`
	Profile    pipeline.Profile `json:"profile"`
	CreatedAt  int64            `json:"createdAt"`
}

// ProfileRef points at a stored profile, used for similarity results
type ProfileRef struct {
	DocumentID string  `json:"documentId"`
	Name       string  `json:"name"`
	Distance   float64 `json:"distance"`
}

// Storer defines the story-store contract. SaveProfiles replaces the whole
// profile set of a document; a reanalysis is a save, not a merge.
type Storer interface {
	SaveProfiles(documentID string, profiles []pipeline.Profile) error
	LoadProfiles(documentID string) ([]pipeline.Profile, error)
	DeleteProfiles(documentID string) error
	ListDocumentIDs() ([]string, error)
	CountProfiles() (int, error)

	// SimilarProfiles finds the k stored characters whose fingerprint is
	// closest to the given profile.
	SimilarProfiles(p pipeline.Profile, k int) ([]ProfileRef, error)

	Close() error
}
