package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fnone/blogtalk/pkg/scanner/candidate"
	"github.com/fnone/blogtalk/pkg/scanner/narrative"
)

const storyText = `Es war einmal ein Dorf am Fluss. Anna sagte: "Ich gehe jetzt zum Markt."
Anna ging zur Tür und schaute zurück. Bruno flüsterte: „Pass auf dich auf." Später
sah Anna den alten Brunnen. Plötzlich rief Bruno nach ihr. Anna war mutig und
Anna lachte. Anna rief: "Bis bald." Anna hatte keine Angst.`

func TestAnalyzeEmptyDocument(t *testing.T) {
	a := New()

	profiles, err := a.Analyze(Document{ID: "d1"})
	require.NoError(t, err)
	assert.Empty(t, profiles, "empty input must yield an empty result, not an error")
}

func TestAnalyzeNonNarrativeYieldsEmpty(t *testing.T) {
	a := New()

	doc := Document{
		ID:    "d2",
		Title: "WordPress Plugin Tutorial",
		Body:  "Schritt 1: Installation. Schritt 2: Update. Bei Problemen siehe Lösung im Code.",
	}
	profiles, err := a.Analyze(doc)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestAnalyzeFindsCharacters(t *testing.T) {
	a := New()

	profiles, err := a.Analyze(Document{ID: "d3", Title: "Am Fluss", Body: storyText})
	require.NoError(t, err)
	require.NotEmpty(t, profiles)

	byName := make(map[string]Profile)
	for _, p := range profiles {
		byName[p.Name] = p
	}

	anna, ok := byName["Anna"]
	require.True(t, ok, "Anna must be found")
	assert.GreaterOrEqual(t, anna.DialogueCount, 2)
	assert.GreaterOrEqual(t, anna.ActionCount, 1)
	assert.GreaterOrEqual(t, anna.Mentions, 2)
	assert.Equal(t, candidate.TierProtagonist, anna.Tier)
	assert.Contains(t, anna.Description, "Anna ist ein Hauptcharakter in dieser Geschichte")

	bruno, ok := byName["Bruno"]
	require.True(t, ok, "Bruno must be found")
	assert.GreaterOrEqual(t, bruno.DialogueCount, 1)

	// Descending score order, protagonist first
	assert.Equal(t, "Anna", profiles[0].Name)
}

func TestAnalyzeProfilesPassValidityFilter(t *testing.T) {
	a := New()

	profiles, err := a.Analyze(Document{ID: "d4", Title: "Am Fluss", Body: storyText})
	require.NoError(t, err)

	for _, p := range profiles {
		assert.True(t, candidate.Valid(p.Name), "profile name %q must pass the validity filter", p.Name)
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	a := New()
	doc := Document{ID: "d5", Title: "Am Fluss", Body: storyText}

	first, err := a.Analyze(doc)
	require.NoError(t, err)
	second, err := a.Reanalyze(doc)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same document, same profiles")
}

func TestAnalyzeStripsMarkup(t *testing.T) {
	a := New(WithSensitivity(narrative.SensitivityHigh))

	doc := Document{
		ID:    "d6",
		Title: "Test",
		Body:  `<p>Anna sagte: &quot;Ich gehe jetzt.&quot;</p><p>Anna ging zur T&uuml;r.</p>`,
	}
	profiles, err := a.Analyze(doc)
	require.NoError(t, err)

	var names []string
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	assert.Contains(t, names, "Anna")
}

func TestAnalyzeRespectsInputCap(t *testing.T) {
	a := New(WithMaxInputBytes(100))

	_, err := a.Analyze(Document{ID: "d7", Body: strings.Repeat("x", 200)})
	assert.ErrorIs(t, err, ErrAnalysisTooExpensive)
}

func TestWithSensitivityGatesAnalysis(t *testing.T) {
	// One speech verb only: passes high, fails medium
	body := `Anna sagte etwas und ging davon. Anna blieb stehen. Anna wartete.`

	strict := New()
	profiles, err := strict.Analyze(Document{ID: "d8", Body: body})
	require.NoError(t, err)
	assert.Empty(t, profiles)

	loose := New(WithSensitivity(narrative.SensitivityHigh))
	profiles, err = loose.Analyze(Document{ID: "d8", Body: body})
	require.NoError(t, err)
	assert.NotEmpty(t, profiles)
}

func TestStripMarkup(t *testing.T) {
	assert.Equal(t, "Hallo  Welt", StripMarkup("Hallo <b>Welt"))
	assert.Equal(t, `"Tür"`, StripMarkup("&quot;T&uuml;r&quot;"))
}

func TestClassifyNarrative(t *testing.T) {
	a := New()

	assert.False(t, a.ClassifyNarrative("WordPress Plugin Tutorial Schritt 1", narrative.SensitivityMedium))
	assert.True(t, a.ClassifyNarrative(storyText, narrative.SensitivityMedium))
}
