package enrich

import (
	"strings"
	"unicode/utf8"
)

// Tone of the narration
type Tone string

const (
	ToneFormal  Tone = "formal"
	ToneCasual  Tone = "casual"
	ToneNeutral Tone = "neutral"
)

// Complexity buckets average sentence length
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Perspective of the narration
type Perspective string

const (
	PerspectiveFirst  Perspective = "first-person"
	PerspectiveSecond Perspective = "second-person"
	PerspectiveThird  Perspective = "third-person"
)

// WritingStyle is the per-document style fingerprint
type WritingStyle struct {
	Tone        Tone        `json:"tone"`
	Complexity  Complexity  `json:"complexity"`
	Perspective Perspective `json:"perspective"`
}

var formalMarkers = []string{"jedoch", "sowie", "diesbezüglich", "folglich"}
var casualMarkers = []string{"echt", "mega", "krass", "ey"}

const (
	longSentenceChars  = 100
	shortSentenceChars = 50
)

// AnalyzeStyle derives tone, complexity and perspective from the full text
func AnalyzeStyle(fullText string) WritingStyle {
	lower := strings.ToLower(fullText)

	return WritingStyle{
		Tone:        analyzeTone(lower),
		Complexity:  analyzeComplexity(fullText),
		Perspective: analyzePerspective(lower),
	}
}

func analyzeTone(lower string) Tone {
	formal := 0
	for _, m := range formalMarkers {
		formal += strings.Count(lower, m)
	}
	casual := 0
	for _, m := range casualMarkers {
		casual += strings.Count(lower, m)
	}

	switch {
	case formal > casual:
		return ToneFormal
	case casual > formal:
		return ToneCasual
	default:
		return ToneNeutral
	}
}

func analyzeComplexity(text string) Complexity {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	total, count := 0, 0
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		total += utf8.RuneCountInString(s)
		count++
	}
	if count == 0 {
		return ComplexityLow
	}

	avg := float64(total) / float64(count)
	switch {
	case avg > longSentenceChars:
		return ComplexityHigh
	case avg < shortSentenceChars:
		return ComplexityLow
	default:
		return ComplexityMedium
	}
}

// analyzePerspective checks first person before second person; the order is
// part of the contract, a text heavy in both reads as first-person.
func analyzePerspective(lower string) Perspective {
	switch {
	case strings.Count(lower, " ich ") > firstPersonThreshold:
		return PerspectiveFirst
	case strings.Count(lower, " du ") > secondPersonThreshold:
		return PerspectiveSecond
	default:
		return PerspectiveThird
	}
}
