package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-monitor/internal/weather"
)

// jobTimeout bounds a single scheduled fetch.
const jobTimeout = 30 * time.Second

// Refresher is the part of weather.Session the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context) (weather.IngestResult, error)
	RefreshForecasts(ctx context.Context) error
}

// Scheduler periodically refreshes current weather and forecasts.
type Scheduler struct {
	scheduler        *gocron.Scheduler
	session          Refresher
	interval         time.Duration
	forecastInterval time.Duration
}

// New creates a new Scheduler. A forecastInterval of zero fetches forecasts
// once when the scheduler starts.
func New(session Refresher, interval, forecastInterval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler:        s,
		session:          session,
		interval:         interval,
		forecastInterval: forecastInterval,
	}
}

// Start schedules the jobs and starts the underlying scheduler. Both jobs
// run immediately and then on their interval; a run still in progress when
// the next one is due is not overlapped.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	_, err := s.scheduler.Every(interval).SingletonMode().Do(s.runWeather)
	if err != nil {
		return err
	}

	if s.forecastInterval > 0 {
		_, err = s.scheduler.Every(s.forecastInterval).SingletonMode().Do(s.runForecast)
	} else {
		_, err = s.scheduler.Every(interval).LimitRunsTo(1).Do(s.runForecast)
	}
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) runWeather() {
	log.Println("scheduler: running weather fetch job")

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	res, err := s.session.Refresh(ctx)
	switch {
	case errors.Is(err, weather.ErrRefreshInProgress):
		log.Println("scheduler: weather fetch skipped; previous refresh still running")
		return
	case err != nil:
		log.Printf("scheduler: weather fetch failed: %v", err)
		return
	}
	log.Printf("scheduler: completed weather fetch job (batch %s, %d new, %d retained)",
		res.BatchID, res.Accepted, res.Retained)
}

func (s *Scheduler) runForecast() {
	log.Println("scheduler: running forecast fetch job")

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.session.RefreshForecasts(ctx); err != nil {
		log.Printf("scheduler: forecast fetch failed: %v", err)
		return
	}
	log.Println("scheduler: completed forecast fetch job")
}
