// Package foreshadow tracks planted narrative elements across the episode
// timeline: what is still open, and where each thread starts and pays off.
package foreshadow

import (
	"fmt"
	"sort"

	"serial_dashboard/internal/model"
)

// UnresolvedCount counts threads with no resolving episode. Order of the
// input list does not matter.
func UnresolvedCount(foreshadows []model.Foreshadow) int {
	n := 0
	for _, f := range foreshadows {
		if !f.Resolved() {
			n++
		}
	}
	return n
}

// Mapping holds the threads introduced and resolved in one episode.
type Mapping struct {
	Introduced []model.Foreshadow `json:"introduced"`
	Resolved   []model.Foreshadow `json:"resolved"`
}

// EpisodeMap filters the threads touching a given episode number. A thread
// introduced and resolved in the same episode appears in both lists.
func EpisodeMap(foreshadows []model.Foreshadow, episodeNumber int) Mapping {
	var m Mapping
	for _, f := range foreshadows {
		if f.IntroducedEpisode != nil && *f.IntroducedEpisode == episodeNumber {
			m.Introduced = append(m.Introduced, f)
		}
		if f.ResolvedEpisode != nil && *f.ResolvedEpisode == episodeNumber {
			m.Resolved = append(m.Resolved, f)
		}
	}
	return m
}

// Validate surfaces records whose resolution precedes their introduction.
// Deliberately a flag, not a fix: the record is left untouched so the author
// sees the inconsistency instead of a silent swap.
func Validate(foreshadows []model.Foreshadow) []model.Warning {
	var out []model.Warning
	for _, f := range foreshadows {
		if f.IntroducedEpisode == nil || f.ResolvedEpisode == nil {
			continue
		}
		if *f.ResolvedEpisode >= *f.IntroducedEpisode {
			continue
		}
		out = append(out, model.Warning{
			ID:       f.ID + "-timeline",
			Type:     model.WarningTimeline,
			Severity: model.SeverityLow,
			Episode:  *f.ResolvedEpisode,
			Description: fmt.Sprintf(
				"%q resolves in episode %d before its introduction in episode %d",
				f.Title, *f.ResolvedEpisode, *f.IntroducedEpisode,
			),
		})
	}
	return out
}

// SortEpisodes orders episodes for timeline display: ascending by sequence
// number, ties keeping input order.
func SortEpisodes(episodes []model.Episode) []model.Episode {
	out := make([]model.Episode, len(episodes))
	copy(out, episodes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Number < out[j].Number
	})
	return out
}
