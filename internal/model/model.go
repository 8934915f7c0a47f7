// Package model defines the records the analytics engine computes over.
package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Act is the five-stage dramatic position of an episode.
type Act string

const (
	ActIntroduction Act = "introduction"
	ActRising       Act = "rising"
	ActDevelopment  Act = "development"
	ActClimax       Act = "climax"
	ActConclusion   Act = "conclusion"
)

// Status tracks an episode through the authoring lifecycle.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusPublished  Status = "published"
)

// WarningType classifies a derived consistency or timeline problem.
type WarningType string

const (
	WarningSpeechPattern WarningType = "speech_pattern"
	WarningAppearance    WarningType = "appearance"
	WarningPersonality   WarningType = "personality"
	WarningLocation      WarningType = "location"
	WarningTimeline      WarningType = "timeline"
	WarningOther         WarningType = "other"
)

// Severity levels shared by warnings and foreshadow importance.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

type Character struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	Name        string    `json:"name"`
	Notes       string    `json:"notes"`
	Personality string    `json:"personality"`
	Description string    `json:"description"`
	Appearance  string    `json:"appearance"`
	Background  string    `json:"background"`
	Conflicts   string    `json:"conflicts"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Episode struct {
	ID              string `json:"id"`
	ProjectID       string `json:"projectId"`
	Number          int    `json:"number"`
	Title           string `json:"title"`
	Content         string `json:"content,omitempty"`
	WordCount       int    `json:"wordCount"`
	TargetWordCount int    `json:"targetWordCount"`
	Act             Act    `json:"act"`
	Status          Status `json:"status"`
	Platform        string `json:"platform,omitempty"`
	SortOrder       int    `json:"sortOrder"`
}

type Foreshadow struct {
	ID                string `json:"id"`
	ProjectID         string `json:"projectId"`
	Title             string `json:"title"`
	IntroducedEpisode *int   `json:"introducedEpisode,omitempty"`
	ResolvedEpisode   *int   `json:"resolvedEpisode,omitempty"`
	Importance        string `json:"importance"`
}

// Resolved reports whether the planted element has been paid off.
func (f Foreshadow) Resolved() bool {
	return f.ResolvedEpisode != nil
}

// Warning is recomputed on every analysis pass and never persisted.
type Warning struct {
	ID            string      `json:"id"`
	CharacterID   string      `json:"characterId,omitempty"`
	CharacterName string      `json:"characterName,omitempty"`
	Type          WarningType `json:"type"`
	Severity      string      `json:"severity"`
	Episode       int         `json:"episode,omitempty"`
	Description   string      `json:"description"`
	CreatedAt     time.Time   `json:"createdAt,omitempty"`
}

// ActivityDay is one day of recorded writing work.
type ActivityDay struct {
	Date            string `json:"date"`
	Words           int    `json:"words"`
	DurationMinutes int    `json:"durationMinutes"`
}

// ProgressPoint is a cumulative word-count sample for timeline charts.
type ProgressPoint struct {
	Date            string `json:"date"`
	CumulativeWords int    `json:"cumulativeWords"`
}

// CountContent measures episode content the way serialization platforms do:
// characters, not whitespace. Counted by code point since manuscripts are
// frequently Korean.
func CountContent(content string) int {
	total := 0
	for _, field := range strings.Fields(content) {
		total += utf8.RuneCountInString(field)
	}
	return total
}
