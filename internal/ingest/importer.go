package ingest

import (
	"context"
	"fmt"
	"time"

	"serial_dashboard/internal/model"
)

// EpisodeWriter is the slice of the store the importer needs.
type EpisodeWriter interface {
	PutEpisode(ctx context.Context, ep model.Episode) (model.Episode, error)
	ListEpisodes(ctx context.Context, projectID string) ([]model.Episode, error)
	RecordActivity(ctx context.Context, projectID, date string, words, durationMinutes int) error
}

// ImportEpisode parses a manuscript file into the given episode number,
// creating the episode when it does not exist yet. The word-count delta is
// logged as today's writing activity so progress charts move on import.
func ImportEpisode(ctx context.Context, w EpisodeWriter, projectID string, number int, path string) (model.Episode, error) {
	parsed, err := ParseFile(path)
	if err != nil {
		return model.Episode{}, err
	}

	episodes, err := w.ListEpisodes(ctx, projectID)
	if err != nil {
		return model.Episode{}, fmt.Errorf("list episodes: %w", err)
	}

	ep := model.Episode{
		ProjectID: projectID,
		Number:    number,
		Title:     parsed.Title,
	}
	for _, existing := range episodes {
		if existing.Number == number {
			ep = existing
			break
		}
	}
	before := ep.WordCount
	ep.Content = parsed.Text

	saved, err := w.PutEpisode(ctx, ep)
	if err != nil {
		return model.Episode{}, err
	}

	if delta := saved.WordCount - before; delta > 0 {
		date := time.Now().UTC().Format("2006-01-02")
		if err := w.RecordActivity(ctx, projectID, date, delta, 0); err != nil {
			return model.Episode{}, fmt.Errorf("record activity: %w", err)
		}
	}
	return saved, nil
}
