// Package pipeline wires the analysis stages into the single entry point
// hosts call: narrative gate, mention extraction, aggregation, importance
// classification, enrichment. The pipeline is stateless; every call
// recomputes from scratch, so it is safe to run concurrently for different
// documents.
package pipeline

import (
	"errors"
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/fnone/blogtalk/pkg/scanner/candidate"
	"github.com/fnone/blogtalk/pkg/scanner/enrich"
	"github.com/fnone/blogtalk/pkg/scanner/extract"
	"github.com/fnone/blogtalk/pkg/scanner/importance"
	"github.com/fnone/blogtalk/pkg/scanner/narrative"
)

// ErrAnalysisTooExpensive is returned when the input exceeds the configured
// size bound. The analyzer refuses rather than risk a very slow run.
var ErrAnalysisTooExpensive = errors.New("pipeline: input too large to analyze")

// DefaultMaxInputBytes bounds per-document work
const DefaultMaxInputBytes = 1 << 20

// Document is the immutable analysis input
type Document struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Profile is the final enriched character record, ready for the story
// store and the dialogue generator.
type Profile struct {
	Name          string              `json:"name"`
	Tier          candidate.Tier      `json:"tier"`
	Score         float64             `json:"score"`
	Mentions      int                 `json:"mentions"`
	DialogueCount int                 `json:"dialogueCount"`
	ActionCount   int                 `json:"actionCount"`
	Traits        []string            `json:"personalityTraits,omitempty"`
	Description   string              `json:"description"`
	Context       enrich.StoryContext `json:"storyContext"`
	Style         enrich.WritingStyle `json:"writingStyle"`
	SampleDialogs []string            `json:"sampleDialogs,omitempty"`
}

// Analyzer composes the five stages. Construct one with New and share it;
// all stages are read-only after construction.
type Analyzer struct {
	narrative   *narrative.Classifier
	scanner     *extract.Scanner
	importance  *importance.Classifier
	enricher    *enrich.Enricher
	sensitivity narrative.Sensitivity
	maxInput    int
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithSensitivity sets the narrative gate strictness (default medium)
func WithSensitivity(s narrative.Sensitivity) Option {
	return func(a *Analyzer) { a.sensitivity = s }
}

// WithImportanceConfig overrides the scoring weights
func WithImportanceConfig(cfg importance.Config) Option {
	return func(a *Analyzer) { a.importance = importance.New(cfg) }
}

// WithMaxInputBytes overrides the catastrophic-input bound
func WithMaxInputBytes(n int) Option {
	return func(a *Analyzer) { a.maxInput = n }
}

// New builds an Analyzer with default configuration
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		narrative:   narrative.New(),
		scanner:     extract.New(),
		importance:  importance.New(importance.DefaultConfig()),
		enricher:    enrich.New(),
		sensitivity: narrative.SensitivityMedium,
		maxInput:    DefaultMaxInputBytes,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

// StripMarkup removes HTML tags and decodes entities. Anything the regex
// leaves behind simply fails to match downstream patterns.
func StripMarkup(s string) string {
	return html.UnescapeString(tagRe.ReplaceAllString(s, " "))
}

// ClassifyNarrative answers the fiction/non-fiction question without
// running the full pipeline.
func (a *Analyzer) ClassifyNarrative(text string, s narrative.Sensitivity) bool {
	return a.narrative.IsNarrative(StripMarkup(text), s)
}

// Analyze runs the full pipeline over one document. Non-narrative or empty
// input yields an empty slice and no error. Profiles come back ordered by
// descending score, ties broken by name, so repeated calls are
// byte-identical.
func (a *Analyzer) Analyze(doc Document) ([]Profile, error) {
	if len(doc.Title)+len(doc.Body) > a.maxInput {
		return nil, ErrAnalysisTooExpensive
	}

	text := strings.TrimSpace(StripMarkup(doc.Title) + "\n\n" + StripMarkup(doc.Body))
	if text == "" {
		return []Profile{}, nil
	}

	if !a.narrative.IsNarrative(text, a.sensitivity) {
		return []Profile{}, nil
	}

	candidates := candidate.Aggregate(a.scanner.Scan(text))
	a.importance.Classify(candidates, text)

	profiles := make([]Profile, 0, len(candidates))
	for _, cand := range candidates {
		en := a.enricher.Enrich(cand, text, doc.Title)
		profiles = append(profiles, Profile{
			Name:          cand.Name,
			Tier:          cand.Tier,
			Score:         cand.Score,
			Mentions:      cand.Mentions,
			DialogueCount: cand.DialogueCount,
			ActionCount:   cand.ActionCount,
			Traits:        en.Traits,
			Description:   en.Description,
			Context:       en.Context,
			Style:         en.Style,
			SampleDialogs: en.SampleDialogs,
		})
	}

	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].Score != profiles[j].Score {
			return profiles[i].Score > profiles[j].Score
		}
		return profiles[i].Name < profiles[j].Name
	})

	return profiles, nil
}

// Reanalyze recomputes from scratch. The pipeline keeps no per-document
// state, so this is Analyze by another name; it exists so hosts that cache
// results have an explicit invalidation point to call.
func (a *Analyzer) Reanalyze(doc Document) ([]Profile, error) {
	return a.Analyze(doc)
}
