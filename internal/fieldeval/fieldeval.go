// Package fieldeval scores a single free-text narrative attribute against
// length and keyword-coverage heuristics. One parameterized evaluator serves
// every field so the banding math cannot drift between them.
package fieldeval

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"serial_dashboard/internal/keyword"
)

// Thresholds are the length bands for one field, in code points, plus the
// keyword category consulted for coverage (empty skips the keyword pass).
type Thresholds struct {
	Minimum         int
	Adequate        int
	Excellent       int
	KeywordCategory string
}

// Result is the score in [0,100] and a human-readable explanation.
type Result struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

const emptyScore = 20

// Evaluate concatenates the non-empty sources, measures them against the
// thresholds, and folds in keyword coverage. Total over its domain: nil and
// empty sources are fine, and the score is always clamped to [0,100].
func Evaluate(label string, sources []string, th Thresholds, dict keyword.Dictionary) Result {
	combined := combine(sources)
	if combined == "" {
		return Result{
			Score:  emptyScore,
			Reason: fmt.Sprintf("%s has no text yet | add sensory or event detail to aid reader recall", label),
		}
	}

	length := utf8.RuneCountInString(combined)
	base := lengthBase(length, th)

	coverageMsg := ""
	guidance := ""
	if th.KeywordCategory != "" {
		cov := dict.Analyze([]string{combined}, []string{th.KeywordCategory})[0]
		matched := len(cov.MatchedKeywords)
		total := dict.KeywordCount(th.KeywordCategory)
		switch {
		case matched == 0:
			base -= 8
			coverageMsg = fmt.Sprintf("missing core vocabulary for %s", label)
		case matched == total:
			base += math.Min(12, float64(matched)*3)
			coverageMsg = fmt.Sprintf("all %d %s keywords present", total, th.KeywordCategory)
		default:
			base += math.Min(12, float64(matched)*3)
			coverageMsg = fmt.Sprintf("matched %d of %d %s keywords", matched, total, th.KeywordCategory)
		}
		guidance = cov.Guidance
	}

	score := clamp(int(math.Round(base)))

	parts := []string{fmt.Sprintf("%s length: %d chars", label, length)}
	if coverageMsg != "" {
		parts = append(parts, coverageMsg)
	}
	parts = append(parts, bandRemark(score))
	if guidance != "" {
		parts = append(parts, guidance)
	}

	return Result{Score: score, Reason: strings.Join(parts, " | ")}
}

// combine joins non-empty sources with single spaces and collapses internal
// whitespace, so length is measured on visible text only.
func combine(sources []string) string {
	fields := make([]string, 0, len(sources))
	for _, s := range sources {
		fields = append(fields, strings.Fields(s)...)
	}
	return strings.Join(fields, " ")
}

// lengthBase is the four-band piecewise score over the thresholds. Bands
// meet at 53/58 and are continuous at adequate and excellent.
func lengthBase(length int, th Thresholds) float64 {
	l := float64(length)
	minimum := float64(max(th.Minimum, 1))
	adequate := float64(th.Adequate)
	excellent := float64(th.Excellent)

	switch {
	case l < float64(th.Minimum):
		return 35 + l/minimum*18
	case l < adequate:
		return 58 + ratio(l-float64(th.Minimum), adequate-float64(th.Minimum))*20
	case l < excellent:
		return 78 + ratio(l-adequate, excellent-adequate)*16
	default:
		return 94 + math.Min(6, (l-excellent)/40)
	}
}

// ratio guards the degenerate case of a zero-width band.
func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

func bandRemark(score int) string {
	switch {
	case score >= 85:
		return "stable length by reference norms"
	case score >= 65:
		return "adequate skeleton, add concrete detail"
	default:
		return "add sensory or event detail to aid reader recall"
	}
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
