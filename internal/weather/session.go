package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// UnitPreferenceKey is the preference key under which the display unit is
// persisted.
const UnitPreferenceKey = "temperatureUnit"

// sinkTimeout bounds a single best-effort sink post.
const sinkTimeout = 10 * time.Second

// Settings is the user-adjustable configuration of a session.
type Settings struct {
	Threshold float64 `json:"threshold"` // Celsius
	Unit      Unit    `json:"unit"`
	Simulated bool    `json:"simulated"`
}

// Views holds the derived views of a session. Latest and Alert belong to the
// most recent ingestion batch; Summaries and Trends cover the whole retained
// collection.
type Views struct {
	Latest    []WeatherSample   `json:"latest"`
	Summaries []DailySummary    `json:"summaries"`
	Trends    []HistoricalTrend `json:"trends"`
	Alert     Alert             `json:"alert"`
	Forecasts []ForecastSample  `json:"forecasts"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// IngestResult reports the effect of a single ingestion event.
type IngestResult struct {
	BatchID    uuid.UUID       `json:"batchId"`
	Accepted   int             `json:"accepted"`
	Skipped    int             `json:"skipped"`
	Duplicates int             `json:"duplicates"`
	Retained   int             `json:"retained"`
	Latest     []WeatherSample `json:"latest"`
	Alert      Alert           `json:"alert"`
}

// SessionOption configures optional collaborators of a Session.
type SessionOption func(*Session)

// WithSink posts every non-empty ingestion batch to sink.
func WithSink(sink Sink) SessionOption {
	return func(s *Session) { s.sink = sink }
}

// WithPreferences persists the display unit in prefs.
func WithPreferences(prefs PreferenceStore) SessionOption {
	return func(s *Session) { s.prefs = prefs }
}

// WithGenerator overrides the demo sample generator.
func WithGenerator(g *Generator) SessionOption {
	return func(s *Session) { s.gen = g }
}

// WithClock overrides the clock used for capture timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// Session owns the retained collection, the configuration and the derived
// views. All state is guarded by mu; every mutating event recomputes the
// views explicitly before releasing it.
type Session struct {
	store  Store
	source Source
	sink   Sink
	prefs  PreferenceStore
	gen    *Generator
	now    func() time.Time

	mu        sync.Mutex
	threshold float64
	unit      Unit
	simulated bool
	views     Views

	refreshing atomic.Bool
	inflight   sync.WaitGroup
}

// NewSession creates a Session. source may be nil when samples only arrive
// through Ingest and Simulate.
func NewSession(store Store, source Source, threshold float64, unit Unit, opts ...SessionOption) *Session {
	s := &Session{
		store:     store,
		source:    source,
		now:       time.Now,
		threshold: threshold,
		unit:      unit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = NewGenerator(nil, s.now)
	}
	if s.unit == "" {
		s.unit = Celsius
	}

	retained := store.Samples()
	s.views = Views{
		Latest:    []WeatherSample{},
		Summaries: Summarize(retained),
		Trends:    Trends(retained),
		Forecasts: []ForecastSample{},
		UpdatedAt: s.now(),
	}
	return s
}

// LoadPreferences restores the persisted display unit, if any.
func (s *Session) LoadPreferences(ctx context.Context) error {
	if s.prefs == nil {
		return nil
	}
	v, ok, err := s.prefs.Get(ctx, UnitPreferenceKey)
	if err != nil {
		return fmt.Errorf("load unit preference: %w", err)
	}
	if !ok {
		return nil
	}
	u, err := ParseUnit(v)
	if err != nil {
		log.Printf("session: ignoring stored unit preference %q: %v", v, err)
		return nil
	}

	s.mu.Lock()
	s.unit = u
	s.mu.Unlock()
	return nil
}

// Ingest runs one ingestion event over raw and recomputes every view.
func (s *Session) Ingest(raw []RawSample) IngestResult {
	res, newData, skipped := s.ingest(raw)
	if skipped > 0 {
		log.Printf("session: batch %s skipped %d malformed records", res.BatchID, skipped)
	}

	s.publish(res.BatchID, newData)
	return res
}

func (s *Session) ingest(raw []RawSample) (IngestResult, []WeatherSample, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	outcome := Ingest(s.store.Samples(), raw, now)
	res := s.applyLocked(outcome.NewData, outcome.Retained, now)
	res.Skipped = outcome.Skipped
	res.Duplicates = outcome.Duplicates
	return res, outcome.NewData, outcome.Skipped
}

// Simulate feeds days worth of generated samples through the pipeline. It
// may run once per session; zero days is a no-op that leaves the session
// untouched.
func (s *Session) Simulate(days int) (IngestResult, error) {
	if days < 0 {
		return IngestResult{}, ErrInvalidDays
	}
	if days == 0 {
		return IngestResult{}, nil
	}

	res, err := s.simulate(days)
	if err != nil {
		return IngestResult{}, err
	}
	log.Printf("session: simulated %d samples over %d days", res.Accepted, days)
	return res, nil
}

func (s *Session) simulate(days int) (IngestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.simulated {
		return IngestResult{}, ErrAlreadySimulated
	}
	s.simulated = true

	now := s.now()
	retained := s.store.Samples()
	fresh, dups := Dedup(retained, s.gen.Generate(days))
	res := s.applyLocked(fresh, Merge(retained, fresh), now)
	res.Duplicates = dups
	return res, nil
}

// applyLocked stores retained and recomputes the views from newData and
// retained. s.mu must be held.
func (s *Session) applyLocked(newData, retained []WeatherSample, now time.Time) IngestResult {
	s.store.Replace(retained)

	latest := LatestPerCity(newData)
	alert := CheckAlerts(newData, s.threshold)

	s.views.Latest = latest
	s.views.Summaries = Summarize(retained)
	s.views.Trends = Trends(retained)
	s.views.Alert = alert
	s.views.UpdatedAt = now

	return IngestResult{
		BatchID:  uuid.New(),
		Accepted: len(newData),
		Retained: len(retained),
		Latest:   slices.Clone(latest),
		Alert:    alert,
	}
}

// Refresh fetches current observations from the source and ingests them.
// On a source failure the latest-updates view is cleared and the retained
// collection is left untouched.
func (s *Session) Refresh(ctx context.Context) (IngestResult, error) {
	if s.source == nil {
		return IngestResult{}, fmt.Errorf("%w: no source configured", ErrSourceUnavailable)
	}
	if !s.refreshing.CompareAndSwap(false, true) {
		return IngestResult{}, ErrRefreshInProgress
	}
	defer s.refreshing.Store(false)

	raw, err := s.source.FetchCurrent(ctx)
	if err != nil {
		s.mu.Lock()
		s.views.Latest = []WeatherSample{}
		s.mu.Unlock()

		log.Printf("ERROR: session: fetching current weather from %s: %v", s.source.Name(), err)
		return IngestResult{}, sourceError(err)
	}

	return s.Ingest(raw), nil
}

// RefreshForecasts replaces the forecast view with a fresh read from the
// source. On failure the forecast view is cleared.
func (s *Session) RefreshForecasts(ctx context.Context) error {
	if s.source == nil {
		return fmt.Errorf("%w: no source configured", ErrSourceUnavailable)
	}

	raw, err := s.source.FetchForecast(ctx)
	if err != nil {
		s.mu.Lock()
		s.views.Forecasts = []ForecastSample{}
		s.mu.Unlock()

		log.Printf("ERROR: session: fetching forecasts from %s: %v", s.source.Name(), err)
		return sourceError(err)
	}

	now := s.now()
	forecasts := NormalizeForecasts(raw, now)

	s.mu.Lock()
	s.views.Forecasts = forecasts
	s.views.UpdatedAt = now
	s.mu.Unlock()
	return nil
}

// RefreshAll refreshes observations and forecasts concurrently. The two
// reads update disjoint views; the first error is returned after both
// finish.
func (s *Session) RefreshAll(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		_, err := s.Refresh(ctx)
		return err
	})
	g.Go(func() error {
		return s.RefreshForecasts(ctx)
	})
	return g.Wait()
}

// SetThreshold changes the alert threshold. The current alert is kept as is;
// the new value applies from the next ingestion event.
func (s *Session) SetThreshold(threshold float64) error {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return fmt.Errorf("threshold must be a finite number")
	}
	s.mu.Lock()
	s.threshold = threshold
	s.mu.Unlock()
	return nil
}

// SetUnit changes and persists the display unit.
func (s *Session) SetUnit(ctx context.Context, u Unit) error {
	u, err := ParseUnit(string(u))
	if err != nil {
		return err
	}
	if s.prefs != nil {
		if err := s.prefs.Set(ctx, UnitPreferenceKey, string(u)); err != nil {
			return fmt.Errorf("persist unit preference: %w", err)
		}
	}
	s.mu.Lock()
	s.unit = u
	s.mu.Unlock()
	return nil
}

// Settings returns the current configuration.
func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Settings{Threshold: s.threshold, Unit: s.unit, Simulated: s.simulated}
}

// Views returns a consistent copy of the derived views.
func (s *Session) Views() Views {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.views
	v.Latest = slices.Clone(v.Latest)
	v.Summaries = slices.Clone(v.Summaries)
	v.Trends = slices.Clone(v.Trends)
	v.Forecasts = slices.Clone(v.Forecasts)
	return v
}

// Samples returns a copy of the retained collection.
func (s *Session) Samples() []WeatherSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Samples()
}

// Close waits for in-flight sink posts to finish.
func (s *Session) Close() {
	s.inflight.Wait()
}

func (s *Session) publish(batchID uuid.UUID, samples []WeatherSample) {
	if s.sink == nil || len(samples) == 0 {
		return
	}
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
		defer cancel()

		if err := s.sink.Send(ctx, samples); err != nil {
			log.Printf("ERROR: session: sink post for batch %s failed: %v", batchID, err)
		}
	}()
}

// NormalizeForecasts maps raw forecast entries to ForecastSamples. Entries
// with an unparseable or implausible temperature are dropped; a missing
// condition becomes NoData.
func NormalizeForecasts(raw []RawForecast, now time.Time) []ForecastSample {
	out := make([]ForecastSample, 0, len(raw))
	for _, r := range raw {
		temp, err := parseBounded("temp", string(r.Temp), minTempC, maxTempC)
		if err != nil {
			log.Printf("DEBUG: skipping forecast for %q: %v", r.City, err)
			continue
		}
		cond := Condition(r.Condition)
		if cond == "" {
			cond = NoData
		}
		out = append(out, ForecastSample{
			City:        NormalizeCity(r.City),
			Temp:        temp,
			Condition:   cond,
			RetrievedAt: now,
		})
	}
	return out
}

func sourceError(err error) error {
	if errors.Is(err, ErrSourceUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
}
