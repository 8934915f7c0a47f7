package foreshadow

import (
	"testing"

	"serial_dashboard/internal/model"
)

func intp(v int) *int { return &v }

func TestUnresolvedCountIsOrderIndependent(t *testing.T) {
	fs := []model.Foreshadow{
		{ID: "f1", Title: "a", IntroducedEpisode: intp(1)},
		{ID: "f2", Title: "b", IntroducedEpisode: intp(2), ResolvedEpisode: intp(5)},
		{ID: "f3", Title: "c", IntroducedEpisode: intp(3)},
		{ID: "f4", Title: "d"},
		{ID: "f5", Title: "e", IntroducedEpisode: intp(1), ResolvedEpisode: intp(9)},
	}
	if got := UnresolvedCount(fs); got != 3 {
		t.Fatalf("expected 3 unresolved, got %d", got)
	}

	reversed := make([]model.Foreshadow, 0, len(fs))
	for i := len(fs) - 1; i >= 0; i-- {
		reversed = append(reversed, fs[i])
	}
	if got := UnresolvedCount(reversed); got != 3 {
		t.Fatalf("reordering changed the count: %d", got)
	}
}

func TestEpisodeMapSplitsIntroducedAndResolved(t *testing.T) {
	fs := []model.Foreshadow{
		{ID: "f1", Title: "locket", IntroducedEpisode: intp(3), ResolvedEpisode: intp(7)},
		{ID: "f2", Title: "letter", IntroducedEpisode: intp(3)},
		{ID: "f3", Title: "scar", IntroducedEpisode: intp(1), ResolvedEpisode: intp(3)},
	}

	m := EpisodeMap(fs, 3)
	if len(m.Introduced) != 2 || len(m.Resolved) != 1 {
		t.Fatalf("episode 3: expected 2 introduced / 1 resolved, got %d/%d", len(m.Introduced), len(m.Resolved))
	}

	// Same-episode introduce+resolve lands in both lists of one query.
	both := []model.Foreshadow{{ID: "f4", Title: "ring", IntroducedEpisode: intp(5), ResolvedEpisode: intp(5)}}
	m = EpisodeMap(both, 5)
	if len(m.Introduced) != 1 || len(m.Resolved) != 1 {
		t.Fatalf("same-episode thread should appear in both lists, got %d/%d", len(m.Introduced), len(m.Resolved))
	}
}

func TestValidateFlagsInvertedTimelineWithoutFixing(t *testing.T) {
	fs := []model.Foreshadow{
		{ID: "f1", Title: "dagger", IntroducedEpisode: intp(8), ResolvedEpisode: intp(2)},
		{ID: "f2", Title: "fine", IntroducedEpisode: intp(2), ResolvedEpisode: intp(8)},
		{ID: "f3", Title: "open", IntroducedEpisode: intp(4)},
	}

	warnings := Validate(fs)
	if len(warnings) != 1 {
		t.Fatalf("expected exactly 1 timeline warning, got %d", len(warnings))
	}
	w := warnings[0]
	if w.Type != model.WarningTimeline || w.Severity != model.SeverityLow {
		t.Fatalf("inverted timeline must be a low-severity timeline warning, got %+v", w)
	}
	// The record itself stays untouched: flag, don't swap.
	if *fs[0].IntroducedEpisode != 8 || *fs[0].ResolvedEpisode != 2 {
		t.Fatalf("validate must not mutate the record: %+v", fs[0])
	}
}

func TestSortEpisodesIsStableOnTies(t *testing.T) {
	eps := []model.Episode{
		{ID: "b", Number: 2, SortOrder: 0},
		{ID: "a", Number: 1},
		{ID: "c", Number: 2, SortOrder: 1},
	}
	sorted := SortEpisodes(eps)
	if sorted[0].ID != "a" || sorted[1].ID != "b" || sorted[2].ID != "c" {
		t.Fatalf("expected a,b,c order, got %s,%s,%s", sorted[0].ID, sorted[1].ID, sorted[2].ID)
	}
	// Input slice is untouched.
	if eps[0].ID != "b" {
		t.Fatalf("sort must copy, not mutate input")
	}
}
