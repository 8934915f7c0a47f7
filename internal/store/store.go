// Package store is the sqlite-backed storage collaborator the engine reads
// from: projects, episodes, characters, foreshadows, and writing activity.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"serial_dashboard/internal/model"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS projects (
    id         TEXT PRIMARY KEY,
    title      TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS episodes (
    id                TEXT PRIMARY KEY,
    project_id        TEXT NOT NULL REFERENCES projects(id),
    number            INTEGER NOT NULL,
    title             TEXT NOT NULL DEFAULT '',
    content           TEXT NOT NULL DEFAULT '',
    word_count        INTEGER NOT NULL DEFAULT 0,
    target_word_count INTEGER NOT NULL DEFAULT 0,
    act               TEXT NOT NULL DEFAULT 'introduction',
    status            TEXT NOT NULL DEFAULT 'draft',
    platform          TEXT NOT NULL DEFAULT '',
    sort_order        INTEGER NOT NULL DEFAULT 0,
    updated_at        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_episodes_project ON episodes(project_id, number);

CREATE TABLE IF NOT EXISTS characters (
    id          TEXT PRIMARY KEY,
    project_id  TEXT NOT NULL REFERENCES projects(id),
    name        TEXT NOT NULL,
    notes       TEXT NOT NULL DEFAULT '',
    personality TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    appearance  TEXT NOT NULL DEFAULT '',
    background  TEXT NOT NULL DEFAULT '',
    conflicts   TEXT NOT NULL DEFAULT '',
    updated_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_characters_project ON characters(project_id);

CREATE TABLE IF NOT EXISTS foreshadows (
    id                 TEXT PRIMARY KEY,
    project_id         TEXT NOT NULL REFERENCES projects(id),
    title              TEXT NOT NULL,
    introduced_episode INTEGER,
    resolved_episode   INTEGER,
    importance         TEXT NOT NULL DEFAULT 'medium'
);
CREATE INDEX IF NOT EXISTS idx_foreshadows_project ON foreshadows(project_id);

CREATE TABLE IF NOT EXISTS writing_activity (
    project_id       TEXT NOT NULL REFERENCES projects(id),
    date             TEXT NOT NULL,
    words            INTEGER NOT NULL DEFAULT 0,
    duration_minutes INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (project_id, date)
);
`

// Store wraps the sqlite connection and mints record ids.
type Store struct {
	db      *sql.DB
	entropy *rand.Rand
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// CreateProject inserts a project and returns its id.
func (s *Store) CreateProject(ctx context.Context, title string) (string, error) {
	id := s.newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects(id, title, created_at) VALUES(?,?,?)`,
		id, title, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("insert project: %w", err)
	}
	return id, nil
}

// ProjectExists reports whether a project id is known.
func (s *Store) ProjectExists(ctx context.Context, projectID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE id = ?`, projectID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count projects: %w", err)
	}
	return n > 0, nil
}

// PutEpisode inserts or updates an episode. WordCount is always recomputed
// from Content so edits cannot leave a stale count behind.
func (s *Store) PutEpisode(ctx context.Context, ep model.Episode) (model.Episode, error) {
	ep.WordCount = model.CountContent(ep.Content)
	if ep.ID == "" {
		ep.ID = s.newID()
	}
	if ep.Act == "" {
		ep.Act = model.ActIntroduction
	}
	if ep.Status == "" {
		ep.Status = model.StatusDraft
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO episodes(id, project_id, number, title, content, word_count,
		                     target_word_count, act, status, platform, sort_order, updated_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
		    number=excluded.number, title=excluded.title, content=excluded.content,
		    word_count=excluded.word_count, target_word_count=excluded.target_word_count,
		    act=excluded.act, status=excluded.status, platform=excluded.platform,
		    sort_order=excluded.sort_order, updated_at=excluded.updated_at`,
		ep.ID, ep.ProjectID, ep.Number, ep.Title, ep.Content, ep.WordCount,
		ep.TargetWordCount, string(ep.Act), string(ep.Status), ep.Platform,
		ep.SortOrder, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return model.Episode{}, fmt.Errorf("put episode: %w", err)
	}
	return ep, nil
}

// UpdateEpisodeContent replaces an episode's content by project and number,
// recomputing the word count.
func (s *Store) UpdateEpisodeContent(ctx context.Context, projectID string, number int, content string) (model.Episode, error) {
	ep, err := s.episodeByNumber(ctx, projectID, number)
	if err != nil {
		return model.Episode{}, err
	}
	ep.Content = content
	return s.PutEpisode(ctx, ep)
}

func (s *Store) episodeByNumber(ctx context.Context, projectID string, number int) (model.Episode, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, number, title, content, word_count,
		       target_word_count, act, status, platform, sort_order
		FROM episodes WHERE project_id = ? AND number = ?
		ORDER BY sort_order LIMIT 1`, projectID, number)
	ep, err := scanEpisode(row)
	if err == sql.ErrNoRows {
		return model.Episode{}, fmt.Errorf("episode %d not found in project %s", number, projectID)
	}
	if err != nil {
		return model.Episode{}, fmt.Errorf("get episode: %w", err)
	}
	return ep, nil
}

// ListEpisodes returns a project's episodes ordered for timeline display.
func (s *Store) ListEpisodes(ctx context.Context, projectID string) ([]model.Episode, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, number, title, content, word_count,
		       target_word_count, act, status, platform, sort_order
		FROM episodes WHERE project_id = ?
		ORDER BY number, sort_order`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer rows.Close()

	var out []model.Episode
	for rows.Next() {
		ep, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		out = append(out, ep)
	}
	return out, rows.Err()
}

// PutCharacter inserts or updates a character record.
func (s *Store) PutCharacter(ctx context.Context, c model.Character) (model.Character, error) {
	if c.ID == "" {
		c.ID = s.newID()
	}
	c.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO characters(id, project_id, name, notes, personality, description,
		                       appearance, background, conflicts, updated_at)
		VALUES(?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
		    name=excluded.name, notes=excluded.notes, personality=excluded.personality,
		    description=excluded.description, appearance=excluded.appearance,
		    background=excluded.background, conflicts=excluded.conflicts,
		    updated_at=excluded.updated_at`,
		c.ID, c.ProjectID, c.Name, c.Notes, c.Personality, c.Description,
		c.Appearance, c.Background, c.Conflicts, c.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return model.Character{}, fmt.Errorf("put character: %w", err)
	}
	return c, nil
}

// ListCharacters returns a project's characters in name order.
func (s *Store) ListCharacters(ctx context.Context, projectID string) ([]model.Character, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, name, notes, personality, description,
		       appearance, background, conflicts, updated_at
		FROM characters WHERE project_id = ? ORDER BY name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	var out []model.Character
	for rows.Next() {
		var c model.Character
		var updated string
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Name, &c.Notes, &c.Personality,
			&c.Description, &c.Appearance, &c.Background, &c.Conflicts, &updated); err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		c.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, c)
	}
	return out, rows.Err()
}

// PutForeshadow inserts or updates a foreshadow record.
func (s *Store) PutForeshadow(ctx context.Context, f model.Foreshadow) (model.Foreshadow, error) {
	if f.ID == "" {
		f.ID = s.newID()
	}
	if f.Importance == "" {
		f.Importance = model.SeverityMedium
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO foreshadows(id, project_id, title, introduced_episode, resolved_episode, importance)
		VALUES(?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
		    title=excluded.title, introduced_episode=excluded.introduced_episode,
		    resolved_episode=excluded.resolved_episode, importance=excluded.importance`,
		f.ID, f.ProjectID, f.Title, intPtr(f.IntroducedEpisode), intPtr(f.ResolvedEpisode), f.Importance)
	if err != nil {
		return model.Foreshadow{}, fmt.Errorf("put foreshadow: %w", err)
	}
	return f, nil
}

// ListForeshadows returns a project's foreshadow records in insertion order.
func (s *Store) ListForeshadows(ctx context.Context, projectID string) ([]model.Foreshadow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, title, introduced_episode, resolved_episode, importance
		FROM foreshadows WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list foreshadows: %w", err)
	}
	defer rows.Close()

	var out []model.Foreshadow
	for rows.Next() {
		var f model.Foreshadow
		var introduced, resolved sql.NullInt64
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.Title, &introduced, &resolved, &f.Importance); err != nil {
			return nil, fmt.Errorf("scan foreshadow: %w", err)
		}
		if introduced.Valid {
			v := int(introduced.Int64)
			f.IntroducedEpisode = &v
		}
		if resolved.Valid {
			v := int(resolved.Int64)
			f.ResolvedEpisode = &v
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// RecordActivity upserts one day of writing work, accumulating within the day.
func (s *Store) RecordActivity(ctx context.Context, projectID, date string, words, durationMinutes int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO writing_activity(project_id, date, words, duration_minutes)
		VALUES(?,?,?,?)
		ON CONFLICT(project_id, date) DO UPDATE SET
		    words = words + excluded.words,
		    duration_minutes = duration_minutes + excluded.duration_minutes`,
		projectID, date, words, durationMinutes)
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

// WritingActivity returns the most recent days of recorded work, oldest
// first. days <= 0 means everything.
func (s *Store) WritingActivity(ctx context.Context, projectID string, days int) ([]model.ActivityDay, error) {
	query := `SELECT date, words, duration_minutes FROM writing_activity
	          WHERE project_id = ? ORDER BY date DESC`
	args := []any{projectID}
	if days > 0 {
		query += ` LIMIT ?`
		args = append(args, days)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	var recent []model.ActivityDay
	for rows.Next() {
		var d model.ActivityDay
		if err := rows.Scan(&d.Date, &d.Words, &d.DurationMinutes); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		recent = append(recent, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	return recent, nil
}

// ProgressTimeline derives cumulative word counts from the activity log.
func (s *Store) ProgressTimeline(ctx context.Context, projectID string, days int) ([]model.ProgressPoint, error) {
	activity, err := s.WritingActivity(ctx, projectID, days)
	if err != nil {
		return nil, err
	}

	out := make([]model.ProgressPoint, 0, len(activity))
	total := 0
	for _, d := range activity {
		total += d.Words
		out = append(out, model.ProgressPoint{Date: d.Date, CumulativeWords: total})
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEpisode(row rowScanner) (model.Episode, error) {
	var ep model.Episode
	var act, status string
	err := row.Scan(&ep.ID, &ep.ProjectID, &ep.Number, &ep.Title, &ep.Content,
		&ep.WordCount, &ep.TargetWordCount, &act, &status, &ep.Platform, &ep.SortOrder)
	if err != nil {
		return ep, err
	}
	ep.Act = model.Act(act)
	ep.Status = model.Status(status)
	return ep, nil
}

func intPtr(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
