package enrich

import (
	"strings"
	"unicode/utf8"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// StoryContext situates a character inside the document
type StoryContext struct {
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt"`
	Settings   []string `json:"settings,omitempty"`
	Genre      string   `json:"genre"`
	TimePeriod string   `json:"timePeriod"`
}

const (
	minSettingLen = 3  // exclusive
	maxSettingLen = 50 // exclusive
)

// keywordCategory is one row of a classification table
type keywordCategory struct {
	name     string
	keywords []string
}

// genreEntries is scored in table order; ties break to the earlier row.
var genreEntries = []keywordCategory{
	{"fantasy", []string{"magie", "zauber", "drache", "elfen", "zwerg", "schwert", "ritter", "königreich", "verzaubert", "fabelwesen"}},
	{"krimi", []string{"mord", "kommissar", "ermittlung", "verbrechen", "täter", "polizei", "leiche", "verdächtig", "indiz"}},
	{"romance", []string{"liebe", "herz", "kuss", "romantisch", "gefühle", "beziehung", "sehnsucht", "verliebt"}},
	{"science-fiction", []string{"raumschiff", "roboter", "planet", "technologie", "laser", "androide", "galaxie", "außerirdisch"}},
	{"horror", []string{"grauen", "dunkelheit", "schrei", "blut", "geist", "dämon", "albtraum", "unheimlich"}},
	{"abenteuer", []string{"schatz", "expedition", "gefahr", "dschungel", "abenteuer", "karte", "entdeckung"}},
}

const genreFallback = "allgemein"

var periodEntries = []keywordCategory{
	{"mittelalter", []string{"ritter", "burg", "schwert", "könig", "mittelalter", "pferd", "schmied", "taverne"}},
	{"modern", []string{"handy", "auto", "computer", "internet", "büro", "smartphone", "fernseher"}},
	{"zukunft", []string{"raumschiff", "roboter", "cyborg", "hologramm", "kolonie", "künstliche intelligenz"}},
	{"vergangenheit", []string{"damals", "früher", "vor langer zeit", "einst", "jahrhundert", "dazumal"}},
}

const periodFallback = "unbestimmt"

// keywordTable scans a text once and picks the category with the most
// keyword hits. Modeled as a static lookup table, not a conditional chain.
type keywordTable struct {
	ac       ahocorasick.AhoCorasick
	category []int // pattern index -> row index
	names    []string
	fallback string
}

func newKeywordTable(rows []keywordCategory, fallback string) *keywordTable {
	var patterns []string
	var category []int
	names := make([]string, len(rows))

	for i, row := range rows {
		names[i] = row.name
		for _, kw := range row.keywords {
			patterns = append(patterns, kw)
			category = append(category, i)
		}
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})

	return &keywordTable{
		ac:       builder.Build(patterns),
		category: category,
		names:    names,
		fallback: fallback,
	}
}

// classify returns the best-scoring category name, or the fallback when no
// keyword occurs at all.
func (t *keywordTable) classify(text string) string {
	normalized := strings.ToLower(text)

	counts := make([]int, len(t.names))
	for _, m := range t.ac.FindAll(normalized) {
		counts[t.category[m.Pattern()]]++
	}

	best := -1
	bestCount := 0
	for i, c := range counts {
		if c > bestCount {
			best = i
			bestCount = c
		}
	}

	if best < 0 {
		return t.fallback
	}
	return t.names[best]
}

// Context derives title, excerpt, settings, genre and time period for the
// document. Context is per-document, not per-character; callers may reuse
// it across candidates of the same text.
func (e *Enricher) Context(fullText, title string) StoryContext {
	return StoryContext{
		Title:      title,
		Excerpt:    excerpt(fullText, excerptWords),
		Settings:   e.extractSettings(fullText),
		Genre:      e.genre.classify(fullText),
		TimePeriod: e.period.classify(fullText),
	}
}

// excerpt returns the first n words of the text
func excerpt(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "..."
}

// extractSettings pulls capitalized location phrases following German
// locative prepositions, deduplicated in first-seen order.
func (e *Enricher) extractSettings(fullText string) []string {
	var settings []string
	seen := make(map[string]bool)

	for _, m := range e.settings.FindAllStringSubmatch(fullText, -1) {
		place := strings.TrimSpace(m[1])
		n := utf8.RuneCountInString(place)
		if n <= minSettingLen || n >= maxSettingLen {
			continue
		}
		if seen[place] {
			continue
		}
		seen[place] = true
		settings = append(settings, place)
	}

	return settings
}
