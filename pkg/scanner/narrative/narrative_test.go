package narrative

import "testing"

func TestTechnicalTextIsNotNarrative(t *testing.T) {
	c := New()

	text := "WordPress Plugin Tutorial Schritt 1: Installation und Update"
	if c.IsNarrative(text, SensitivityMedium) {
		t.Error("technical tutorial text should not be narrative at medium sensitivity")
	}
	if score := c.Score(text); score >= 0 {
		t.Errorf("expected negative score for technical text, got %d", score)
	}
}

func TestStoryTextIsNarrative(t *testing.T) {
	c := New()

	text := `Es war einmal ein König. "Komm her", sagte er. Plötzlich rief jemand aus dem Wald. Später antwortete niemand mehr.`
	if !c.IsNarrative(text, SensitivityMedium) {
		t.Errorf("story text should be narrative at medium sensitivity, score %d", c.Score(text))
	}
}

func TestSensitivityThresholds(t *testing.T) {
	c := New()

	// Exactly one marker, score 1
	text := "Sie sagte nichts."
	if got := c.Score(text); got != 1 {
		t.Fatalf("expected score 1, got %d", got)
	}

	if !c.IsNarrative(text, SensitivityHigh) {
		t.Error("score 1 should pass high sensitivity (threshold 1)")
	}
	if c.IsNarrative(text, SensitivityMedium) {
		t.Error("score 1 should fail medium sensitivity (threshold 3)")
	}
	if c.IsNarrative(text, SensitivityLow) {
		t.Error("score 1 should fail low sensitivity (threshold 5)")
	}
}

func TestMarkerCountingIsCaseInsensitive(t *testing.T) {
	c := New()

	if c.Score("SAGTE sagte Sagte") != 3 {
		t.Error("expected all case variants to count")
	}
	if c.Score("PLÖTZLICH plötzlich") != 2 {
		t.Error("expected umlaut markers to fold case too")
	}
}

func TestTechnicalMarkersWeighDouble(t *testing.T) {
	c := New()

	// 2 narrative markers, 1 technical marker: 2 - 2 = 0
	if got := c.Score("Er sagte etwas und fragte nach dem Plugin."); got != 0 {
		t.Errorf("expected score 0, got %d", got)
	}
}

func TestEmptyTextIsNeverNarrative(t *testing.T) {
	c := New()

	for _, s := range []Sensitivity{SensitivityLow, SensitivityMedium, SensitivityHigh} {
		if c.IsNarrative("", s) {
			t.Errorf("empty text should not be narrative at %s", s)
		}
		if c.IsNarrative("   \n\t", s) {
			t.Errorf("blank text should not be narrative at %s", s)
		}
	}
}

func TestParseSensitivity(t *testing.T) {
	tests := []struct {
		in   string
		want Sensitivity
	}{
		{"low", SensitivityLow},
		{"High", SensitivityHigh},
		{" MEDIUM ", SensitivityMedium},
		{"", SensitivityMedium},
		{"garbage", SensitivityMedium},
	}

	for _, tc := range tests {
		if got := ParseSensitivity(tc.in); got != tc.want {
			t.Errorf("ParseSensitivity(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
