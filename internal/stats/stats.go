// Package stats orchestrates the reads behind the dashboard and exposes one
// cache-coherent view per project. All analysis stays pure; this package
// owns the only concurrency in the engine.
package stats

import (
	"context"
	"sync"

	"serial_dashboard/internal/consistency"
	"serial_dashboard/internal/dashboard"
	"serial_dashboard/internal/foreshadow"
	"serial_dashboard/internal/keyword"
	"serial_dashboard/internal/model"
)

// Source is the external storage collaborator the facade reads from.
type Source interface {
	ListEpisodes(ctx context.Context, projectID string) ([]model.Episode, error)
	ListCharacters(ctx context.Context, projectID string) ([]model.Character, error)
	ListForeshadows(ctx context.Context, projectID string) ([]model.Foreshadow, error)
	WritingActivity(ctx context.Context, projectID string, days int) ([]model.ActivityDay, error)
	ProgressTimeline(ctx context.Context, projectID string, days int) ([]model.ProgressPoint, error)
}

// Each statistic carries its own loading/error state so one failed read
// never blanks the others. ErrText mirrors Err for JSON consumers.
type EpisodesResult struct {
	Episodes []model.Episode `json:"episodes"`
	Loading  bool            `json:"loading"`
	Err      error           `json:"-"`
	ErrText  string          `json:"error,omitempty"`
}

type TimelineResult struct {
	Points  []model.ProgressPoint `json:"points"`
	Loading bool                  `json:"loading"`
	Err     error                 `json:"-"`
	ErrText string                `json:"error,omitempty"`
}

type ActivityResult struct {
	Days    []model.ActivityDay `json:"days"`
	Loading bool                `json:"loading"`
	Err     error               `json:"-"`
	ErrText string              `json:"error,omitempty"`
}

type SummaryResult struct {
	Summary    dashboard.Summary    `json:"summary"`
	Characters []consistency.Result `json:"characters"`
	Loading    bool                 `json:"loading"`
	Err        error                `json:"-"`
	ErrText    string               `json:"error,omitempty"`
}

// Snapshot is the combined view for one project at one refresh.
type Snapshot struct {
	ProjectID string         `json:"projectId"`
	Seq       uint64         `json:"seq"`
	Episodes  EpisodesResult `json:"episodes"`
	Timeline  TimelineResult `json:"timeline"`
	Activity  ActivityResult `json:"activity"`
	Summary   SummaryResult  `json:"summary"`
}

// Loading is true while any constituent read is still in flight.
func (s Snapshot) Loading() bool {
	return s.Episodes.Loading || s.Timeline.Loading || s.Activity.Loading || s.Summary.Loading
}

// Err is the first error in fixed precedence: summary, episodes, timeline,
// activity.
func (s Snapshot) Err() error {
	for _, err := range []error{s.Summary.Err, s.Episodes.Err, s.Timeline.Err, s.Activity.Err} {
		if err != nil {
			return err
		}
	}
	return nil
}

// Collector issues sequence-numbered refreshes per project and keeps the
// newest completed snapshot. Completion order does not matter: a result
// whose sequence number is below the latest applied one is discarded, so
// out-of-order finishes cannot flicker stale data in.
type Collector struct {
	source Source
	dict   keyword.Dictionary
	days   int

	mu        sync.Mutex
	issued    map[string]uint64
	applied   map[string]uint64
	snapshots map[string]Snapshot
	watchers  map[string]map[chan Snapshot]struct{}
}

// NewCollector wires the facade to its storage source. days bounds the
// activity and progress-timeline windows.
func NewCollector(source Source, dict keyword.Dictionary, days int) *Collector {
	if days <= 0 {
		days = 30
	}
	return &Collector{
		source:    source,
		dict:      dict,
		days:      days,
		issued:    make(map[string]uint64),
		applied:   make(map[string]uint64),
		snapshots: make(map[string]Snapshot),
		watchers:  make(map[string]map[chan Snapshot]struct{}),
	}
}

// Get returns the newest applied snapshot, if any refresh has completed.
func (c *Collector) Get(projectID string) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.snapshots[projectID]
	return snap, ok
}

// Refresh runs the four underlying reads concurrently and applies the
// result if no newer refresh has been issued meanwhile. It returns the
// snapshot that is current after this call, which may belong to a newer
// request when this one lost the race.
func (c *Collector) Refresh(ctx context.Context, projectID string) Snapshot {
	c.mu.Lock()
	c.issued[projectID]++
	seq := c.issued[projectID]

	// Publish the in-flight state so watchers can show per-stat spinners,
	// keeping whatever data the previous snapshot had.
	loading := c.snapshots[projectID]
	loading.ProjectID = projectID
	loading.Seq = seq
	loading.Episodes.Loading = true
	loading.Timeline.Loading = true
	loading.Activity.Loading = true
	loading.Summary.Loading = true
	c.notifyLocked(projectID, loading)
	c.mu.Unlock()

	snap := c.collect(ctx, projectID, seq)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.applied[projectID] {
		// A newer request was initiated and already applied; this result
		// is stale regardless of when it completed.
		return c.snapshots[projectID]
	}
	c.applied[projectID] = seq
	c.snapshots[projectID] = snap
	c.notifyLocked(projectID, snap)
	return snap
}

// collect performs the four reads. Each read fails independently; the
// summary is still computed from whatever inputs arrived.
func (c *Collector) collect(ctx context.Context, projectID string, seq uint64) Snapshot {
	snap := Snapshot{ProjectID: projectID, Seq: seq}

	var (
		wg          sync.WaitGroup
		episodes    []model.Episode
		episodesErr error
		points      []model.ProgressPoint
		pointsErr   error
		activity    []model.ActivityDay
		activityErr error
		characters  []model.Character
		foreshadows []model.Foreshadow
		summaryErr  error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		episodes, episodesErr = c.source.ListEpisodes(ctx, projectID)
	}()
	go func() {
		defer wg.Done()
		points, pointsErr = c.source.ProgressTimeline(ctx, projectID, c.days)
	}()
	go func() {
		defer wg.Done()
		activity, activityErr = c.source.WritingActivity(ctx, projectID, c.days)
	}()
	go func() {
		defer wg.Done()
		var err error
		if characters, err = c.source.ListCharacters(ctx, projectID); err != nil {
			summaryErr = err
			return
		}
		if foreshadows, err = c.source.ListForeshadows(ctx, projectID); err != nil {
			summaryErr = err
		}
	}()
	wg.Wait()

	snap.Episodes = EpisodesResult{Episodes: episodes, Err: episodesErr, ErrText: errText(episodesErr)}
	snap.Timeline = TimelineResult{Points: points, Err: pointsErr, ErrText: errText(pointsErr)}
	snap.Activity = ActivityResult{Days: activity, Err: activityErr, ErrText: errText(activityErr)}

	results, average, haveScore := consistency.AnalyzeAll(characters, c.dict)
	warnings := append(consistency.Warnings(results), foreshadow.Validate(foreshadows)...)

	in := dashboard.Inputs{
		Episodes:    episodes,
		Characters:  characters,
		Foreshadows: foreshadows,
		Warnings:    warnings,
	}
	if haveScore {
		in.ConsistencyScore = &average
	}
	snap.Summary = SummaryResult{
		Summary:    dashboard.Summarize(in),
		Characters: results,
		Err:        summaryErr,
		ErrText:    errText(summaryErr),
	}
	return snap
}

// Notify handles an external stats-changed signal. Signals for projects the
// collector has never served are ignored; matching ones trigger an
// asynchronous refresh. Reports whether the signal was accepted.
func (c *Collector) Notify(projectID string) bool {
	c.mu.Lock()
	_, known := c.snapshots[projectID]
	if !known {
		_, known = c.watchers[projectID]
	}
	c.mu.Unlock()

	if !known {
		return false
	}
	go c.Refresh(context.Background(), projectID)
	return true
}

// Watch subscribes to snapshot updates for one project. The returned cancel
// must be called to release the subscription.
func (c *Collector) Watch(projectID string) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	c.mu.Lock()
	if c.watchers[projectID] == nil {
		c.watchers[projectID] = make(map[chan Snapshot]struct{})
	}
	c.watchers[projectID][ch] = struct{}{}
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if set := c.watchers[projectID]; set != nil {
			delete(set, ch)
			if len(set) == 0 {
				delete(c.watchers, projectID)
			}
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

// notifyLocked fans a snapshot out to watchers without blocking; a slow
// consumer just misses intermediate states.
func (c *Collector) notifyLocked(projectID string, snap Snapshot) {
	for ch := range c.watchers[projectID] {
		select {
		case ch <- snap:
		default:
		}
	}
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
