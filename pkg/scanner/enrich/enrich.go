// Package enrich derives the per-character profile data: personality
// traits, a generated description, story context and a writing-style
// fingerprint. All of it is heuristic German text analysis; nothing here
// touches the network or disk.
package enrich

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fnone/blogtalk/pkg/scanner/candidate"
)

const (
	maxTraits             = 5
	maxTraitsInSentence   = 3
	maxSampleDialogs      = 3
	minTraitLen           = 3  // exclusive
	maxTraitLen           = 20 // exclusive
	excerptWords          = 50
	firstPersonThreshold  = 3
	secondPersonThreshold = 3
)

// Enrichment is everything the enricher derives for one candidate
type Enrichment struct {
	Traits        []string
	Description   string
	Context       StoryContext
	Style         WritingStyle
	SampleDialogs []string
}

// Enricher holds the compiled pattern tables
type Enricher struct {
	genre    *keywordTable
	period   *keywordTable
	settings *regexp.Regexp
}

// New compiles the enricher's static tables
func New() *Enricher {
	return &Enricher{
		genre:    newKeywordTable(genreEntries, genreFallback),
		period:   newKeywordTable(periodEntries, periodFallback),
		settings: regexp.MustCompile(`\b(?:in\s+(?:der|dem|einer|einem)|am|bei)\s+(\p{Lu}\p{L}+(?:\s+\p{Lu}\p{L}+)?)`),
	}
}

// Enrich derives the full enrichment for one classified candidate.
// fullText is the markup-stripped document text, title the document title.
func (e *Enricher) Enrich(cand *candidate.Candidate, fullText, title string) Enrichment {
	traits := e.Traits(cand.Name, fullText)

	dialogs := cand.Contexts
	if len(dialogs) > maxSampleDialogs {
		dialogs = dialogs[:maxSampleDialogs]
	}

	return Enrichment{
		Traits:        traits,
		Description:   Describe(cand, traits),
		Context:       e.Context(fullText, title),
		Style:         AnalyzeStyle(fullText),
		SampleDialogs: dialogs,
	}
}

// traitPatterns builds the three proximity patterns around an exact name.
// Compiled per candidate; QuoteMeta keeps hostile names from becoming syntax.
func traitPatterns(name string) []*regexp.Regexp {
	quoted := regexp.QuoteMeta(name)
	return []*regexp.Regexp{
		// Anna war mutig / Anna wirkte nervös
		regexp.MustCompile(`(?i)` + quoted + `\s+(?:war|ist|wirkte|schien)\s+(\p{Ll}+)`),
		// die mutige Anna
		regexp.MustCompile(`(?i)(?:der|die|das)\s+(\p{Ll}+)\s+` + quoted),
		// Anna, eine mutige Kriegerin
		regexp.MustCompile(`(?i)` + quoted + `,\s*(?:ein|eine|der|die)\s+(\p{L}+(?:\s+\p{L}+)?)`),
	}
}

// Traits collects up to five short descriptors mentioned near the name,
// lowercased, deduplicated, in first-seen order.
func (e *Enricher) Traits(name, fullText string) []string {
	var traits []string
	seen := make(map[string]bool)

	for _, re := range traitPatterns(name) {
		for _, m := range re.FindAllStringSubmatch(fullText, -1) {
			trait := strings.ToLower(strings.TrimSpace(m[1]))
			n := utf8.RuneCountInString(trait)
			if n <= minTraitLen || n >= maxTraitLen {
				continue
			}
			if seen[trait] {
				continue
			}
			seen[trait] = true
			traits = append(traits, trait)
			if len(traits) == maxTraits {
				return traits
			}
		}
	}

	return traits
}

// Describe renders the generated character sentence. The exact wording and
// punctuation are relied upon by snapshot tests and downstream prompts.
func Describe(cand *candidate.Candidate, traits []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s ist ein %s in dieser Geschichte", cand.Name, cand.Tier.Label())

	if len(traits) > 0 {
		shown := traits
		if len(shown) > maxTraitsInSentence {
			shown = shown[:maxTraitsInSentence]
		}
		b.WriteString(" und wird als ")
		b.WriteString(strings.Join(shown, ", "))
		b.WriteString(" beschrieben")
	}

	fmt.Fprintf(&b, ". %s wird %d Mal in der Geschichte erwähnt.", cand.Name, cand.Mentions)
	return b.String()
}
