package extract

import "testing"

func findMention(mentions []Mention, name string, cat Category) *Mention {
	for i := range mentions {
		if mentions[i].Name == name && mentions[i].Category == cat {
			return &mentions[i]
		}
	}
	return nil
}

func TestDialogueNameThenQuote(t *testing.T) {
	s := New()

	mentions := s.Dialogue(`Anna sagte: "Ich gehe jetzt."`)
	if len(mentions) != 1 {
		t.Fatalf("expected 1 dialogue mention, got %d", len(mentions))
	}
	m := mentions[0]
	if m.Name != "Anna" {
		t.Errorf("expected speaker Anna, got %q", m.Name)
	}
	if m.Utterance != "Ich gehe jetzt." {
		t.Errorf("expected utterance captured, got %q", m.Utterance)
	}
	if m.Context == "" {
		t.Error("expected full match as context")
	}
}

func TestDialogueQuoteThenName(t *testing.T) {
	s := New()

	mentions := s.Dialogue(`„Das ist unmöglich“, flüsterte Bruno und sah weg.`)
	m := findMention(mentions, "Bruno", CategoryDialogue)
	if m == nil {
		t.Fatal("expected Bruno as speaker")
	}
	if m.Utterance != "Das ist unmöglich" {
		t.Errorf("expected curly-quote utterance, got %q", m.Utterance)
	}
}

func TestDialogueScriptStyle(t *testing.T) {
	s := New()

	mentions := s.Dialogue("Clara: »Wir müssen los.«\n")
	m := findMention(mentions, "Clara", CategoryDialogue)
	if m == nil {
		t.Fatal("expected Clara as script-style speaker")
	}
	if m.Utterance != "Wir müssen los." {
		t.Errorf("expected guillemet utterance, got %q", m.Utterance)
	}
}

func TestActionVerbs(t *testing.T) {
	s := New()

	mentions := s.Action("Anna ging zur Tür. Bruno schaute hinterher.")
	if findMention(mentions, "Anna", CategoryAction) == nil {
		t.Error("expected action mention for Anna")
	}
	if findMention(mentions, "Bruno", CategoryAction) == nil {
		t.Error("expected action mention for Bruno")
	}
}

func TestActionTwoWordName(t *testing.T) {
	s := New()

	mentions := s.Action("Anna Maria lief durch den Garten.")
	if findMention(mentions, "Anna Maria", CategoryAction) == nil {
		t.Error("expected two-word name Anna Maria")
	}
}

func TestActionTitlePattern(t *testing.T) {
	s := New()

	mentions := s.Action("Dann begrüßte uns Herr Müller freundlich.")
	if findMention(mentions, "Herr Müller", CategoryAction) == nil {
		t.Error("expected title-prefixed match Herr Müller")
	}
}

func TestMentionScan(t *testing.T) {
	s := New()

	mentions := s.Mentions("Anna traf Bruno am See. Anna lachte.")
	anna := 0
	for _, m := range mentions {
		if m.Name == "Anna" {
			anna++
			if m.Context != "" {
				t.Error("plain mentions carry no context")
			}
		}
	}
	if anna != 2 {
		t.Errorf("expected Anna twice in mention scan, got %d", anna)
	}
	if findMention(mentions, "Bruno", CategoryMention) == nil {
		t.Error("expected Bruno in mention scan")
	}
	// "am" is lowercase, "See" only 3 letters but capitalized: included
	if findMention(mentions, "See", CategoryMention) == nil {
		t.Error("expected See in mention scan")
	}
}

func TestMentionScanSkipsShortAndLowercase(t *testing.T) {
	s := New()

	mentions := s.Mentions("Er an Ab und zu")
	if len(mentions) != 0 {
		t.Errorf("expected no mentions, got %v", mentions)
	}
}

func TestMentionScanHandlesUmlautInitials(t *testing.T) {
	s := New()

	mentions := s.Mentions("Über allem stand Änne.")
	if findMention(mentions, "Änne", CategoryMention) == nil {
		t.Error("expected Änne despite non-ASCII initial")
	}
	if findMention(mentions, "Über", CategoryMention) == nil {
		t.Error("expected Über despite non-ASCII initial")
	}
}

func TestScanRunsAllStrategies(t *testing.T) {
	s := New()

	all := s.Scan(`Anna sagte: "Hallo." Anna ging weg.`)

	var dialogue, action, mention int
	for _, m := range all {
		switch m.Category {
		case CategoryDialogue:
			dialogue++
		case CategoryAction:
			action++
		case CategoryMention:
			mention++
		}
	}
	if dialogue != 1 {
		t.Errorf("expected 1 dialogue mention, got %d", dialogue)
	}
	if action != 1 {
		t.Errorf("expected 1 action mention, got %d", action)
	}
	if mention == 0 {
		t.Error("expected plain mentions")
	}
}

func TestMalformedTextDoesNotPanic(t *testing.T) {
	s := New()

	for _, text := range []string{"", `"""`, "::::", "\x00\x01", `„unclosed`} {
		_ = s.Scan(text)
	}
}
