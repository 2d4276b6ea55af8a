// Package extract provides regex-based detection of character mentions in
// German narrative text. It runs three independent strategies: dialogue
// attribution, action-verb proximity, and a capitalized-word scan.
package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Category distinguishes how a mention was detected
type Category int

const (
	CategoryDialogue Category = iota
	CategoryAction
	CategoryMention
)

// String returns a readable name
func (c Category) String() string {
	switch c {
	case CategoryDialogue:
		return "DIALOGUE"
	case CategoryAction:
		return "ACTION"
	default:
		return "MENTION"
	}
}

// Mention is one detected occurrence of a candidate name
type Mention struct {
	Name      string   // Raw name text as matched
	Category  Category // How it was detected
	Context   string   // Full match text (empty for plain mentions)
	Utterance string   // Quoted speech, dialogue category only
}

// speechVerbs are the attribution verbs recognized in dialogue patterns
const speechVerbs = `sagte|meinte|flüsterte|rief|fragte|antwortete`

// capName matches a capitalized German word (extended Latin aware)
const capName = `\p{Lu}\p{Ll}+`

// quoteOpen covers straight, curly and guillemet quotation marks
const quoteClass = `["„“”»«]`

// dialoguePattern binds a regex to its capture-slot layout. Slot indices are
// kept per pattern so speaker and quote never get swapped when the
// alternatives change.
type dialoguePattern struct {
	re      *regexp.Regexp
	speaker int
	quote   int
}

// actionPattern binds a regex to the capture slot holding the name.
// nameSlot 0 means the whole match is the name (title patterns).
type actionPattern struct {
	re       *regexp.Regexp
	nameSlot int
}

// Scanner holds the compiled extraction patterns
type Scanner struct {
	dialogue []dialoguePattern
	action   []actionPattern
}

// New creates a scanner with all extraction patterns compiled
func New() *Scanner {
	return &Scanner{
		dialogue: []dialoguePattern{
			// „Quote", sagte Anna
			{
				re:      regexp.MustCompile(quoteClass + `([^"„“”»«]+)` + quoteClass + `,?\s*(?:` + speechVerbs + `)\s+(` + capName + `)`),
				speaker: 2,
				quote:   1,
			},
			// Anna sagte: „Quote"
			{
				re:      regexp.MustCompile(`(` + capName + `)\s+(?:` + speechVerbs + `):?\s*` + quoteClass + `([^"„“”»«]+)` + quoteClass),
				speaker: 1,
				quote:   2,
			},
			// Anna: „Quote" (script style, line start)
			{
				re:      regexp.MustCompile(`(?m)^(` + capName + `):\s*` + quoteClass + `([^"„“”»«]+)` + quoteClass),
				speaker: 1,
				quote:   2,
			},
		},
		action: []actionPattern{
			// Anna ging / Anna Maria schaute
			{
				re:       regexp.MustCompile(`(` + capName + `(?:\s+` + capName + `)?)\s+(?:ging|lief|schaute|sah|dachte|fühlte|war|hatte)\b`),
				nameSlot: 1,
			},
			// Herr Müller, Frau Schmidt, Dr. Weber
			{
				re:       regexp.MustCompile(`(?:Herr|Frau|Dr\.|Prof\.)\s+` + capName),
				nameSlot: 0,
			},
			// Anna wurde / Anna bekam (state verbs)
			{
				re:       regexp.MustCompile(`(` + capName + `)\s+(?:war|ist|wurde|hatte|bekam|machte)\b`),
				nameSlot: 1,
			},
		},
	}
}

// Dialogue finds quoted-speech attributions. Each match yields one mention
// with the quoted utterance attached.
func (s *Scanner) Dialogue(text string) []Mention {
	var mentions []Mention
	for _, p := range s.dialogue {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			mentions = append(mentions, Mention{
				Name:      m[p.speaker],
				Category:  CategoryDialogue,
				Context:   m[0],
				Utterance: strings.TrimSpace(m[p.quote]),
			})
		}
	}
	return mentions
}

// Action finds capitalized names adjacent to motion, perception, cognition
// and state verbs, plus title-prefixed names.
func (s *Scanner) Action(text string) []Mention {
	var mentions []Mention
	for _, p := range s.action {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			mentions = append(mentions, Mention{
				Name:     m[p.nameSlot],
				Category: CategoryAction,
				Context:  m[0],
			})
		}
	}
	return mentions
}

// Mentions scans for every standalone capitalized word of at least three
// letters. Tokenization is done in code rather than regex so that words
// starting with Ä/Ö/Ü are not lost to ASCII word boundaries.
func (s *Scanner) Mentions(text string) []Mention {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	mentions := make([]Mention, 0, len(words)/8)
	for _, w := range words {
		if utf8.RuneCountInString(w) < 3 {
			continue
		}
		first, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsUpper(first) {
			continue
		}
		mentions = append(mentions, Mention{
			Name:     w,
			Category: CategoryMention,
		})
	}
	return mentions
}

// Scan runs all three strategies over the text. Order of the result follows
// strategy order then scan order; downstream aggregation does not depend on it.
func (s *Scanner) Scan(text string) []Mention {
	var all []Mention
	all = append(all, s.Dialogue(text)...)
	all = append(all, s.Action(text)...)
	all = append(all, s.Mentions(text)...)
	return all
}
