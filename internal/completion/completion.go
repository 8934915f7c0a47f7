// Package completion measures an episode against the minimum length its
// serialization platform expects.
package completion

import (
	"math"

	"serial_dashboard/internal/model"
)

// Classification of a completion rate for display.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusDanger  = "danger"
)

// platformMinimums is the static lookup of required episode lengths per
// serialization platform, in characters.
var platformMinimums = map[string]int{
	"munpia":       5000,
	"kakaopage":    5500,
	"naver_series": 5300,
	"joara":        4500,
	"ridibooks":    4800,
}

// Platforms lists the supported serialization targets.
func Platforms() []string {
	return []string{"munpia", "kakaopage", "naver_series", "joara", "ridibooks"}
}

// MinimumFor returns a platform's required length, 0 if unknown.
func MinimumFor(platform string) int {
	return platformMinimums[platform]
}

// Rate returns the completion percentage to one decimal place. It may
// exceed 100. No platform or an empty episode is 0, never NaN.
func Rate(wordCount int, platform string) float64 {
	if platform == "" || wordCount == 0 {
		return 0
	}
	minimum := platformMinimums[platform]
	if minimum == 0 {
		return 0
	}
	return math.Round(float64(wordCount)/float64(minimum)*1000) / 10
}

// Status classifies a rate. The boundary is inclusive: exactly 100 is
// success and exactly 80 is warning.
func Status(rate float64) string {
	switch {
	case rate >= 100:
		return StatusSuccess
	case rate >= 80:
		return StatusWarning
	default:
		return StatusDanger
	}
}

// View is the per-episode projection served to presentation code.
type View struct {
	EpisodeID        string  `json:"episodeId"`
	EpisodeNumber    int     `json:"episodeNumber"`
	Platform         string  `json:"platform"`
	CompletionRate   float64 `json:"completionRate"`
	CompletionStatus string  `json:"completionStatus"`
}

// Views builds completion projections for every episode with a platform
// selected. Episodes without a platform are a distinct presentation state
// and are omitted here rather than shown as danger.
func Views(episodes []model.Episode) []View {
	out := make([]View, 0, len(episodes))
	for _, ep := range episodes {
		if ep.Platform == "" {
			continue
		}
		rate := Rate(ep.WordCount, ep.Platform)
		out = append(out, View{
			EpisodeID:        ep.ID,
			EpisodeNumber:    ep.Number,
			Platform:         ep.Platform,
			CompletionRate:   rate,
			CompletionStatus: Status(rate),
		})
	}
	return out
}
