package consistency

import (
	"reflect"
	"strings"
	"testing"

	"serial_dashboard/internal/keyword"
	"serial_dashboard/internal/model"
)

func TestAnalyzeBlankCharacterScoresTwentyWithThreeHighWarnings(t *testing.T) {
	r := Analyze(model.Character{ID: "c1", Name: "무명"}, keyword.Default())

	if r.OverallScore != 20 {
		t.Fatalf("blank character must score 20 overall, got %d", r.OverallScore)
	}
	if len(r.Warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %d (%+v)", len(r.Warnings), r.Warnings)
	}
	types := map[model.WarningType]bool{}
	for _, w := range r.Warnings {
		if w.Severity != model.SeverityHigh {
			t.Fatalf("blank fields score 20, all warnings must be high, got %s for %s", w.Severity, w.Type)
		}
		if w.CharacterID != "c1" || w.CharacterName != "무명" {
			t.Fatalf("warning must reference the character: %+v", w)
		}
		types[w.Type] = true
	}
	for _, want := range []model.WarningType{model.WarningSpeechPattern, model.WarningAppearance, model.WarningPersonality} {
		if !types[want] {
			t.Fatalf("missing warning type %s", want)
		}
	}
}

func TestAnalyzeRichSpeechEmitsNoSpeechWarning(t *testing.T) {
	body := "말투는 느리고 차분하며 어른에게는 꼭 존댓말을 쓰고 가까운 친구에게는 반말을 쓴다 고향의 사투리가 군데군데 배어 나온다"
	c := model.Character{
		ID:    "c2",
		Name:  "서연",
		Notes: strings.Repeat(body+" ", 4),
	}

	r := Analyze(c, keyword.Default())
	if r.Scores.Speech.Score < 94 {
		t.Fatalf("expected excellent-band speech score, got %d", r.Scores.Speech.Score)
	}
	for _, w := range r.Warnings {
		if w.Type == model.WarningSpeechPattern {
			t.Fatalf("speech warning must not fire at score %d", r.Scores.Speech.Score)
		}
	}
}

func TestAnalyzeIsPure(t *testing.T) {
	c := model.Character{ID: "c3", Name: "하린", Personality: "겁이 많지만 신념은 꺾지 않는다"}
	a := Analyze(c, keyword.Default())
	b := Analyze(c, keyword.Default())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical input must yield identical output:\n%+v\n%+v", a, b)
	}
}

func TestAnalyzeAllAveragesAndFlattens(t *testing.T) {
	dict := keyword.Default()
	chars := []model.Character{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B"},
	}

	results, average, ok := AnalyzeAll(chars, dict)
	if !ok {
		t.Fatalf("two characters should produce an average")
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if average != 20 {
		t.Fatalf("two blank characters average 20, got %d", average)
	}
	if got := len(Warnings(results)); got != 6 {
		t.Fatalf("expected 6 flattened warnings, got %d", got)
	}

	if _, _, ok := AnalyzeAll(nil, dict); ok {
		t.Fatalf("no characters must report ok=false")
	}
}
