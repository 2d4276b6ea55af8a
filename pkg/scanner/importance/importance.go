// Package importance scores aggregated candidates and assigns their tier.
package importance

import (
	"strings"

	"github.com/fnone/blogtalk/pkg/scanner/candidate"
)

// Config holds the scoring parameters
type Config struct {
	MentionWeight  float64 `json:"mentionWeight"`
	DialogueWeight float64 `json:"dialogueWeight"`
	ActionWeight   float64 `json:"actionWeight"`

	// Tier cut-offs, evaluated high to low
	ProtagonistMin float64 `json:"protagonistMin"`
	SupportingMin  float64 `json:"supportingMin"`

	// Early-mention bonus: names first seen within EarlyWindow bytes of the
	// text get EarlyBonus added to their score
	EarlyWindow int     `json:"earlyWindow"`
	EarlyBonus  float64 `json:"earlyBonus"`
}

// DefaultConfig returns the standard weights
func DefaultConfig() Config {
	return Config{
		MentionWeight:  1.0,
		DialogueWeight: 2.0,
		ActionWeight:   1.5,
		ProtagonistMin: 10.0,
		SupportingMin:  3.0,
		EarlyWindow:    200,
		EarlyBonus:     5.0,
	}
}

// Classifier assigns scores and tiers
type Classifier struct {
	cfg Config
}

// New creates a classifier with the given config
func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify fills in Score and Tier on every candidate. The base score is
// mentions + 2×dialogue + 1.5×action; a character introduced in the opening
// of the text gets the early bonus.
//
// The bonus promotes minor to supporting but deliberately never re-runs the
// threshold cascade, so it cannot lift anyone to protagonist. That quirk is
// load-bearing for the fiction heuristics and covered by tests; do not
// "fix" it without checking them.
func (c *Classifier) Classify(candidates map[string]*candidate.Candidate, fullText string) {
	lower := strings.ToLower(fullText)

	for _, cand := range candidates {
		score := c.cfg.MentionWeight*float64(cand.Mentions) +
			c.cfg.DialogueWeight*float64(cand.DialogueCount) +
			c.cfg.ActionWeight*float64(cand.ActionCount)

		tier := c.tierFor(score)

		if c.mentionedEarly(lower, cand.Name) {
			score += c.cfg.EarlyBonus
			if tier == candidate.TierMinor {
				tier = candidate.TierSupporting
			}
		}

		cand.Score = score
		cand.Tier = tier
	}
}

func (c *Classifier) tierFor(score float64) candidate.Tier {
	switch {
	case score >= c.cfg.ProtagonistMin:
		return candidate.TierProtagonist
	case score >= c.cfg.SupportingMin:
		return candidate.TierSupporting
	default:
		return candidate.TierMinor
	}
}

// mentionedEarly reports whether the name first occurs within the early
// window. The window is measured in bytes of the lowercased text, matching
// the case-insensitive first-occurrence check.
func (c *Classifier) mentionedEarly(lowerText, name string) bool {
	idx := strings.Index(lowerText, strings.ToLower(name))
	if idx < 0 {
		return false
	}
	window := c.cfg.EarlyWindow
	if window <= 0 {
		window = 200
	}
	return idx < window
}
