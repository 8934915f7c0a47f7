// Package dashboard merges the per-component signals into the summary
// metrics and ranked next actions the author sees first.
package dashboard

import (
	"fmt"
	"sort"

	"serial_dashboard/internal/completion"
	"serial_dashboard/internal/foreshadow"
	"serial_dashboard/internal/model"
)

// Inputs are the current source records plus the derived signals already
// computed by the analyzers. Everything is optional; missing inputs are
// treated as empty.
type Inputs struct {
	Episodes    []model.Episode
	Characters  []model.Character
	Foreshadows []model.Foreshadow
	Warnings    []model.Warning

	// ConsistencyScore is the authoritative character-average when the
	// consistency analyzer ran; nil falls back to the warning-count heuristic.
	ConsistencyScore *int
}

// NextAction is one ranked recommendation.
type NextAction struct {
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

// Reserves is the completed-vs-published buffer projection.
type Reserves struct {
	Completed int `json:"completed"`
	Published int `json:"published"`
	Count     int `json:"count"`
}

// TimelineEpisode is one row of the timeline rendering: the episode plus the
// foreshadow titles it introduces and resolves.
type TimelineEpisode struct {
	Number     int          `json:"number"`
	Title      string       `json:"title"`
	Act        model.Act    `json:"act"`
	Status     model.Status `json:"status"`
	WordCount  int          `json:"wordCount"`
	Introduced []string     `json:"introduced"`
	Resolved   []string     `json:"resolved"`
}

// Summary is recomputed per request and has no lifecycle of its own.
type Summary struct {
	TotalEpisodes         int                `json:"totalEpisodes"`
	TotalWordCount        int                `json:"totalWordCount"`
	AverageWordCount      int                `json:"averageWordCount"`
	TotalCharacters       int                `json:"totalCharacters"`
	ReserveCount          int                `json:"reserveCount"`
	ConsistencyScore      int                `json:"consistencyScore"`
	UnresolvedForeshadows int                `json:"unresolvedForeshadows"`
	WarningCount          int                `json:"warningCount"`
	Warnings              []model.Warning    `json:"warnings"`
	NextActions           []NextAction       `json:"nextActions"`
	Reserves              Reserves           `json:"reserves"`
	TimelineEpisodes      []TimelineEpisode  `json:"timelineEpisodes"`
	EpisodeCompletions    []completion.View  `json:"episodeCompletions"`
	Foreshadows           []model.Foreshadow `json:"foreshadows"`
}

// Summarize never fails; degenerate inputs degrade to zeros and the fallback
// next action.
func Summarize(in Inputs) Summary {
	totalWords := 0
	completed := 0
	published := 0
	for _, ep := range in.Episodes {
		totalWords += ep.WordCount
		switch ep.Status {
		case model.StatusCompleted:
			completed++
		case model.StatusPublished:
			published++
		}
	}

	averageWords := 0
	if len(in.Episodes) > 0 {
		averageWords = totalWords / len(in.Episodes)
	}

	// Raw signed value so callers can detect published-exceeds-completed
	// anomalies; display clamping is the caller's job.
	reserveCount := completed - published

	unresolved := foreshadow.UnresolvedCount(in.Foreshadows)
	score := fallbackScore(len(in.Warnings))
	if in.ConsistencyScore != nil {
		score = clamp(*in.ConsistencyScore)
	}

	return Summary{
		TotalEpisodes:         len(in.Episodes),
		TotalWordCount:        totalWords,
		AverageWordCount:      averageWords,
		TotalCharacters:       len(in.Characters),
		ReserveCount:          reserveCount,
		ConsistencyScore:      score,
		UnresolvedForeshadows: unresolved,
		WarningCount:          len(in.Warnings),
		Warnings:              in.Warnings,
		NextActions:           nextActions(reserveCount, len(in.Warnings), unresolved),
		Reserves: Reserves{
			Completed: completed,
			Published: published,
			Count:     reserveCount,
		},
		TimelineEpisodes:   timelineEpisodes(in.Episodes, in.Foreshadows),
		EpisodeCompletions: completion.Views(in.Episodes),
		Foreshadows:        in.Foreshadows,
	}
}

// nextActions applies the four emission rules, then a stable priority sort,
// so ties keep emission order and the list is never empty.
func nextActions(reserveCount, warningCount, unresolved int) []NextAction {
	var actions []NextAction

	if reserveCount <= 3 {
		priority := model.SeverityMedium
		if reserveCount <= 1 {
			priority = model.SeverityHigh
		}
		actions = append(actions, NextAction{
			Type:        "low_reserve",
			Priority:    priority,
			Description: fmt.Sprintf("reserve buffer is %d episode(s); write ahead before the schedule catches up", reserveCount),
		})
	}

	if warningCount > 0 {
		actions = append(actions, NextAction{
			Type:        "resolve_warnings",
			Priority:    model.SeverityHigh,
			Description: fmt.Sprintf("%d consistency warning(s) need attention", warningCount),
		})
	}

	if unresolved > 0 {
		priority := model.SeverityLow
		if unresolved >= 5 {
			priority = model.SeverityMedium
		}
		actions = append(actions, NextAction{
			Type:        "pending_foreshadow",
			Priority:    priority,
			Description: fmt.Sprintf("%d foreshadow thread(s) still open", unresolved),
		})
	}

	if len(actions) == 0 {
		actions = append(actions, NextAction{
			Type:        "write_next_episode",
			Priority:    model.SeverityLow,
			Description: "project is healthy; keep writing the next episode",
		})
	}

	sort.SliceStable(actions, func(i, j int) bool {
		return priorityRank(actions[i].Priority) < priorityRank(actions[j].Priority)
	})
	return actions
}

func priorityRank(p string) int {
	switch p {
	case model.SeverityHigh:
		return 0
	case model.SeverityMedium:
		return 1
	default:
		return 2
	}
}

func timelineEpisodes(episodes []model.Episode, foreshadows []model.Foreshadow) []TimelineEpisode {
	ordered := foreshadow.SortEpisodes(episodes)
	out := make([]TimelineEpisode, 0, len(ordered))
	for _, ep := range ordered {
		m := foreshadow.EpisodeMap(foreshadows, ep.Number)
		out = append(out, TimelineEpisode{
			Number:     ep.Number,
			Title:      ep.Title,
			Act:        ep.Act,
			Status:     ep.Status,
			WordCount:  ep.WordCount,
			Introduced: titles(m.Introduced),
			Resolved:   titles(m.Resolved),
		})
	}
	return out
}

func titles(fs []model.Foreshadow) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Title)
	}
	return out
}

// fallbackScore estimates project consistency from warning volume alone.
func fallbackScore(warningCount int) int {
	return clamp(100 - 5*warningCount)
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
