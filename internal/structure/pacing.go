// Package structure checks act pacing: where each labeled act of a serial
// lands relative to the stretch of the run it is expected to occupy.
package structure

import (
	"fmt"

	"serial_dashboard/internal/foreshadow"
	"serial_dashboard/internal/model"
)

// ActWindow is the expected position of one act, as ratios of the episode run.
type ActWindow struct {
	Act        model.Act
	StartRatio float64
	EndRatio   float64
}

// SerialWindows is the default pacing template for web serials: a short
// introduction, a long middle, and a late climax.
var SerialWindows = []ActWindow{
	{Act: model.ActIntroduction, StartRatio: 0.00, EndRatio: 0.15},
	{Act: model.ActRising, StartRatio: 0.15, EndRatio: 0.40},
	{Act: model.ActDevelopment, StartRatio: 0.40, EndRatio: 0.70},
	{Act: model.ActClimax, StartRatio: 0.70, EndRatio: 0.90},
	{Act: model.ActConclusion, StartRatio: 0.90, EndRatio: 1.00},
}

// EpisodesInWindow converts a ratio window into 1-based episode positions,
// clamped to the run.
func EpisodesInWindow(totalEpisodes int, startRatio, endRatio float64) (start, end int) {
	if totalEpisodes <= 0 {
		return 0, 0
	}
	start = int(float64(totalEpisodes)*startRatio) + 1
	end = int(float64(totalEpisodes)*endRatio) + 1
	if start < 1 {
		start = 1
	}
	if end > totalEpisodes {
		end = totalEpisodes
	}
	if start > end {
		start = end
	}
	return start, end
}

// ActShare is one act's slice of the run: how many episodes and words carry
// the label, and where the pacing template expects them.
type ActShare struct {
	Act           model.Act `json:"act"`
	Episodes      int       `json:"episodes"`
	WordCount     int       `json:"wordCount"`
	ExpectedStart int       `json:"expectedStart"`
	ExpectedEnd   int       `json:"expectedEnd"`
}

// Report summarizes act pacing for a project.
type Report struct {
	TotalEpisodes int        `json:"totalEpisodes"`
	Shares        []ActShare `json:"shares"`
	Notes         []string   `json:"notes"`
}

// Pacing compares each episode's declared act to the template window and
// notes the ones that land outside it. Episodes are positioned by their
// number order, not their stored order.
func Pacing(episodes []model.Episode) Report {
	ordered := foreshadow.SortEpisodes(episodes)
	total := len(ordered)

	report := Report{TotalEpisodes: total}
	windows := make(map[model.Act]ActWindow, len(SerialWindows))
	for _, w := range SerialWindows {
		windows[w.Act] = w
	}

	counts := make(map[model.Act]*ActShare, len(SerialWindows))
	for _, w := range SerialWindows {
		start, end := EpisodesInWindow(total, w.StartRatio, w.EndRatio)
		counts[w.Act] = &ActShare{Act: w.Act, ExpectedStart: start, ExpectedEnd: end}
	}

	for pos, ep := range ordered {
		share, ok := counts[ep.Act]
		if !ok {
			continue
		}
		share.Episodes++
		share.WordCount += ep.WordCount

		position := pos + 1
		w := windows[ep.Act]
		start, end := EpisodesInWindow(total, w.StartRatio, w.EndRatio)
		if position < start || position > end {
			report.Notes = append(report.Notes, fmt.Sprintf(
				"episode %d is labeled %s but sits at position %d of %d, expected between %d and %d",
				ep.Number, ep.Act, position, total, start, end))
		}
	}

	for _, w := range SerialWindows {
		report.Shares = append(report.Shares, *counts[w.Act])
	}
	return report
}
