package keyword

import "testing"

func testDictionary() Dictionary {
	return NewDictionary([]Category{
		{
			ID:       "speechPattern",
			Keywords: []string{"말투", "어미", "존댓말", "반말", "사투리", "입버릇"},
			Guidance: "try naming catchphrases, sentence endings, or speech tics",
		},
		{
			ID:       "empty",
			Keywords: nil,
			Guidance: "nothing to match",
		},
	})
}

func TestAnalyzeCountsSubstringMatches(t *testing.T) {
	d := testDictionary()
	text := "평소에는 존댓말을 쓰지만 화가 나면 고향 사투리가 튀어나온다"

	cov := d.Analyze([]string{text}, []string{"speechPattern"})
	if len(cov) != 1 {
		t.Fatalf("expected 1 coverage entry, got %d", len(cov))
	}
	if got := len(cov[0].MatchedKeywords); got != 2 {
		t.Fatalf("expected 2 matches, got %d (%v)", got, cov[0].MatchedKeywords)
	}
	want := 2.0 / 6.0
	if cov[0].CoverageRate != want {
		t.Fatalf("expected coverage %.4f, got %.4f", want, cov[0].CoverageRate)
	}
	if cov[0].Guidance == "" {
		t.Fatalf("guidance should be returned regardless of match outcome")
	}
}

func TestAnalyzeGuardsZeroKeywordCategory(t *testing.T) {
	cov := testDictionary().Analyze([]string{"anything"}, []string{"empty"})
	if cov[0].CoverageRate != 0 {
		t.Fatalf("empty category must yield rate 0, got %v", cov[0].CoverageRate)
	}
}

func TestAnalyzeUnknownCategoryYieldsEmptyCoverage(t *testing.T) {
	cov := testDictionary().Analyze([]string{"text"}, []string{"nope"})
	if len(cov) != 1 || len(cov[0].MatchedKeywords) != 0 || cov[0].CoverageRate != 0 {
		t.Fatalf("unknown category should produce an empty entry, got %+v", cov)
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	d := testDictionary()
	texts := []string{"그 아이의 입버릇은", "반말이다"}
	a := d.Analyze(texts, []string{"speechPattern"})
	b := d.Analyze(texts, []string{"speechPattern"})
	if len(a[0].MatchedKeywords) != len(b[0].MatchedKeywords) || a[0].CoverageRate != b[0].CoverageRate {
		t.Fatalf("identical inputs must yield identical coverage: %+v vs %+v", a, b)
	}
}

func TestDefaultDictionaryShipsSpeechCategory(t *testing.T) {
	d := Default()
	if got := d.KeywordCount("speechPattern"); got != 6 {
		t.Fatalf("embedded speechPattern list should have 6 keywords, got %d", got)
	}
	for _, cat := range d.Categories() {
		if d.Guidance(cat) == "" {
			t.Fatalf("category %s has no guidance", cat)
		}
	}
}
