// Package candidate normalizes raw mentions into aggregated character
// candidates. It owns name cleaning, the validity filter, and the
// per-document aggregation map.
package candidate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fnone/blogtalk/pkg/scanner/extract"
)

// Tier is the coarse importance class of a character
type Tier string

const (
	TierProtagonist Tier = "protagonist"
	TierSupporting  Tier = "supporting"
	TierMinor       Tier = "minor"
)

// Label returns the German display label used in generated descriptions
func (t Tier) Label() string {
	switch t {
	case TierProtagonist:
		return "Hauptcharakter"
	case TierSupporting:
		return "wichtiger Nebencharakter"
	default:
		return "Nebencharakter"
	}
}

// Candidate is one character aggregated from raw mentions, keyed by its
// cleaned name. Counters are built up during aggregation and read-only
// afterwards; Score and Tier are filled in by the importance classifier.
type Candidate struct {
	Name          string   `json:"name"`
	Mentions      int      `json:"mentions"`
	DialogueCount int      `json:"dialogueCount"`
	ActionCount   int      `json:"actionCount"`
	Contexts      []string `json:"contexts,omitempty"`
	Score         float64  `json:"score"`
	Tier          Tier     `json:"tier"`
}

// titlePrefixes are stripped from the front of extracted names
var titlePrefixes = []string{"Herr ", "Frau ", "Dr. ", "Prof. ", "Herrn "}

// stopwords are German function words that the capitalized-word scan picks
// up at sentence starts, plus generic platform vocabulary. Keys lowercase.
var stopwords = map[string]bool{
	"der": true, "die": true, "das": true,
	"ein": true, "eine": true, "einen": true, "einer": true, "eines": true,
	"und": true, "oder": true, "aber": true, "wenn": true, "dann": true,
	"also": true, "jedoch": true,
	"sie": true, "er": true, "es": true, "wir": true, "ihr": true,
	"ich": true, "du": true,
	"plugin": true, "blog": true, "post": true, "seite": true, "website": true,
	"wordpress": true, "blogtalk": true,
}

// reservedTerms are software/UI nouns that never name a character
var reservedTerms = map[string]bool{
	"plugin": true, "widget": true, "admin": true, "user": true,
	"post": true, "page": true, "blogtalk": true,
}

// Clean normalizes a raw extracted name: strips title prefixes, trims edge
// punctuation, collapses internal whitespace.
func Clean(raw string) string {
	name := strings.TrimSpace(raw)

	for _, prefix := range titlePrefixes {
		if strings.HasPrefix(name, prefix) {
			name = strings.TrimSpace(strings.TrimPrefix(name, prefix))
			break
		}
	}

	name = strings.TrimFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	return strings.Join(strings.Fields(name), " ")
}

// Valid reports whether a cleaned name can identify a character:
// 2-50 runes, uppercase initial, no digits, not a stopword or reserved term.
func Valid(name string) bool {
	n := utf8.RuneCountInString(name)
	if n < 2 || n > 50 {
		return false
	}

	first, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsUpper(first) {
		return false
	}

	for _, r := range name {
		if unicode.IsDigit(r) {
			return false
		}
	}

	key := strings.ToLower(name)
	if stopwords[key] || reservedTerms[key] {
		return false
	}

	return true
}

// Aggregate groups raw mentions by cleaned name. Dialogue and action hits
// bump their weighted counters and contribute context snippets; the plain
// capitalized-word scan is the occurrence counter. Invalid names are
// silently discarded.
func Aggregate(mentions []extract.Mention) map[string]*Candidate {
	out := make(map[string]*Candidate)

	for _, m := range mentions {
		name := Clean(m.Name)
		if !Valid(name) {
			continue
		}

		c, ok := out[name]
		if !ok {
			c = &Candidate{Name: name}
			out[name] = c
		}

		switch m.Category {
		case extract.CategoryDialogue:
			c.DialogueCount++
		case extract.CategoryAction:
			c.ActionCount++
		case extract.CategoryMention:
			c.Mentions++
		}

		if m.Context != "" {
			c.Contexts = append(c.Contexts, m.Context)
		}
	}

	return out
}
