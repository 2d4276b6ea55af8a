// Package narrative decides whether a text is fiction worth analyzing.
// A single Aho-Corasick automaton scans for story markers (positive weight)
// and technical blog markers (negative weight); the signed sum is compared
// against a sensitivity threshold.
package narrative

import (
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// Sensitivity controls how strict the fiction/non-fiction boundary is
type Sensitivity int

const (
	SensitivityLow Sensitivity = iota
	SensitivityMedium
	SensitivityHigh
)

// String returns a readable name
func (s Sensitivity) String() string {
	switch s {
	case SensitivityLow:
		return "low"
	case SensitivityHigh:
		return "high"
	default:
		return "medium"
	}
}

// ParseSensitivity maps a config string onto a Sensitivity.
// Unknown values fall back to medium.
func ParseSensitivity(s string) Sensitivity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return SensitivityLow
	case "high":
		return SensitivityHigh
	default:
		return SensitivityMedium
	}
}

// Threshold returns the minimum marker score for a narrative verdict.
// Unknown sensitivities use the medium threshold.
func (s Sensitivity) Threshold() int {
	switch s {
	case SensitivityHigh:
		return 1
	case SensitivityLow:
		return 5
	default:
		return 3
	}
}

// markerEntry is a static marker→weight mapping
type markerEntry struct {
	pattern string
	weight  int
}

// Speech verbs, temporal transitions and perspective phrases count +1 per
// occurrence; blog/tutorial vocabulary counts -2.
var markerEntries = []markerEntry{
	// Speech verbs
	{"sagte", 1},
	{"meinte", 1},
	{"flüsterte", 1},
	{"rief", 1},
	{"fragte", 1},
	{"antwortete", 1},

	// Temporal / narrative transitions
	{"es war einmal", 1},
	{"eines tages", 1},
	{"plötzlich", 1},
	{"dann geschah", 1},
	{"am nächsten tag", 1},
	{"später", 1},
	{"währenddessen", 1},
	{"schließlich", 1},

	// Perspective phrases
	{"ich dachte", 1},
	{"er sah", 1},
	{"sie fühlte", 1},
	{"wir gingen", 1},

	// Technical / factual markers
	{"wordpress", -2},
	{"plugin", -2},
	{"tutorial", -2},
	{"anleitung", -2},
	{"howto", -2},
	{"beispiel:", -2},
	{"schritt", -2},
	{"lösung", -2},
	{"problem", -2},
	{"fehler", -2},
	{"version", -2},
	{"update", -2},
	{"code", -2},
	{"function", -2},
	{"class", -2},
}

// Classifier scans text with the compiled marker automaton
type Classifier struct {
	ac      ahocorasick.AhoCorasick
	weights []int
}

// New compiles the marker tables into a Classifier
func New() *Classifier {
	patterns := make([]string, len(markerEntries))
	weights := make([]int, len(markerEntries))
	for i, e := range markerEntries {
		patterns[i] = e.pattern
		weights[i] = e.weight
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})

	return &Classifier{
		ac:      builder.Build(patterns),
		weights: weights,
	}
}

// Score sums marker weights over the text (single AC pass).
// Lowercasing up front folds the umlaut markers that the automaton's ASCII
// case-insensitivity cannot.
func (c *Classifier) Score(text string) int {
	normalized := strings.ToLower(text)

	score := 0
	for _, m := range c.ac.FindAll(normalized) {
		score += c.weights[m.Pattern()]
	}
	return score
}

// IsNarrative reports whether the text reads like fiction at the given
// sensitivity. Empty text is never narrative.
func (c *Classifier) IsNarrative(text string, s Sensitivity) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return c.Score(text) >= s.Threshold()
}
