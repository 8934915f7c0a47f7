// Package consistency turns a character's free-text attributes into one
// weighted score plus warning records for under-described fields.
package consistency

import (
	"fmt"
	"math"

	"serial_dashboard/internal/fieldeval"
	"serial_dashboard/internal/keyword"
	"serial_dashboard/internal/model"
)

// FieldScores are the three per-field evaluations behind the overall score.
type FieldScores struct {
	Speech      fieldeval.Result `json:"speech"`
	Appearance  fieldeval.Result `json:"appearance"`
	Personality fieldeval.Result `json:"personality"`
}

// Result is the per-character output consumed by presentation code.
type Result struct {
	CharacterID   string          `json:"characterId"`
	CharacterName string          `json:"characterName"`
	OverallScore  int             `json:"overallScore"`
	Scores        FieldScores     `json:"scores"`
	Warnings      []model.Warning `json:"warnings"`
}

// fieldProfile fixes one field's sources, thresholds, weight, and warning
// rule. The three profiles below are the whole scoring table.
type fieldProfile struct {
	label       string
	warningType model.WarningType
	thresholds  fieldeval.Thresholds
	weight      float64
	warnBelow   int
	highBelow   int
	sources     func(c model.Character) []string
}

var profiles = []fieldProfile{
	{
		label:       "speech",
		warningType: model.WarningSpeechPattern,
		thresholds:  fieldeval.Thresholds{Minimum: 80, Adequate: 160, Excellent: 260, KeywordCategory: "speechPattern"},
		weight:      0.40,
		warnBelow:   55,
		highBelow:   40,
		sources: func(c model.Character) []string {
			return []string{c.Notes, c.Personality, c.Description}
		},
	},
	{
		label:       "appearance",
		warningType: model.WarningAppearance,
		thresholds:  fieldeval.Thresholds{Minimum: 70, Adequate: 140, Excellent: 220, KeywordCategory: "appearance"},
		weight:      0.25,
		warnBelow:   60,
		highBelow:   45,
		sources: func(c model.Character) []string {
			return []string{c.Appearance, c.Description}
		},
	},
	{
		label:       "personality",
		warningType: model.WarningPersonality,
		thresholds:  fieldeval.Thresholds{Minimum: 90, Adequate: 180, Excellent: 280, KeywordCategory: "personality"},
		weight:      0.35,
		warnBelow:   60,
		highBelow:   45,
		sources: func(c model.Character) []string {
			return []string{c.Personality, c.Background, c.Conflicts}
		},
	},
}

// Analyze scores one character. Pure over the character's current attributes:
// identical input always yields identical output.
func Analyze(c model.Character, dict keyword.Dictionary) Result {
	results := make([]fieldeval.Result, len(profiles))
	warnings := make([]model.Warning, 0, len(profiles))
	weighted := 0.0

	for i, p := range profiles {
		r := fieldeval.Evaluate(p.label, p.sources(c), p.thresholds, dict)
		results[i] = r
		weighted += p.weight * float64(r.Score)

		if r.Score >= p.warnBelow {
			continue
		}
		severity := model.SeverityMedium
		if r.Score < p.highBelow {
			severity = model.SeverityHigh
		}
		warnings = append(warnings, model.Warning{
			ID:            fmt.Sprintf("%s-%s", c.ID, p.label),
			CharacterID:   c.ID,
			CharacterName: c.Name,
			Type:          p.warningType,
			Severity:      severity,
			Description:   fmt.Sprintf("%s description for %s scored %d; %s", p.label, c.Name, r.Score, r.Reason),
		})
	}

	return Result{
		CharacterID:   c.ID,
		CharacterName: c.Name,
		OverallScore:  clamp(int(math.Round(weighted))),
		Scores: FieldScores{
			Speech:      results[0],
			Appearance:  results[1],
			Personality: results[2],
		},
		Warnings: warnings,
	}
}

// AnalyzeAll scores every character and averages the overall scores.
// ok is false when there are no characters to average.
func AnalyzeAll(characters []model.Character, dict keyword.Dictionary) (results []Result, average int, ok bool) {
	results = make([]Result, 0, len(characters))
	sum := 0
	for _, c := range characters {
		r := Analyze(c, dict)
		results = append(results, r)
		sum += r.OverallScore
	}
	if len(results) == 0 {
		return results, 0, false
	}
	return results, clamp(int(math.Round(float64(sum) / float64(len(results))))), true
}

// Warnings flattens the warning records from a batch of results.
func Warnings(results []Result) []model.Warning {
	var out []model.Warning
	for _, r := range results {
		out = append(out, r.Warnings...)
	}
	return out
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
