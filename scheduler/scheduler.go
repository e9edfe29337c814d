package scheduler

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/climind/climind/catalog"
	"github.com/climind/climind/metadata"
)

// Scheduler periodically downloads the datasets of an archive that match a
// set of criteria, refreshing a data directory.
type Scheduler struct {
	scheduler *gocron.Scheduler
	archive   *catalog.Archive
	dataDir   string
	interval  time.Duration
	criteria  metadata.Record

	mu      sync.Mutex
	runs    int
	lastErr error
}

// New creates a new Scheduler. Empty criteria select every dataset.
func New(archive *catalog.Archive, dataDir string, interval time.Duration,
	criteria metadata.Record) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		archive:   archive,
		dataDir:   dataDir,
		interval:  interval,
		criteria:  criteria,
	}
}

// Start schedules the refresh job, which runs once immediately and then every
// interval. A run still in progress when the next one is due delays it.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("Invalid refresh interval: %s", s.interval)
	}
	_, err := s.scheduler.Every(s.interval).Do(func() {
		s.Refresh()
	})
	if err != nil {
		return err
	}
	slog.Info(fmt.Sprintf("Refreshing %s every %s", s.dataDir, s.interval))
	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future runs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// Refresh downloads every selected collection into the data directory. A
// collection that fails to download doesn't keep the others from being
// refreshed; the last failure is returned.
func (s *Scheduler) Refresh() error {
	selected := s.archive.Select(s.criteria)
	slog.Info(fmt.Sprintf("Refreshing %d collections in %s", selected.Len(), s.dataDir))

	var lastErr error
	for _, c := range selected.Collections() {
		if err := c.Download(s.dataDir); err != nil {
			slog.Error(fmt.Sprintf("Couldn't refresh %s: %s", c, err.Error()))
			lastErr = err
		}
	}

	s.mu.Lock()
	s.runs++
	s.lastErr = lastErr
	s.mu.Unlock()
	return lastErr
}

// returns the number of completed refreshes and the error from the latest one
func (s *Scheduler) Status() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs, s.lastErr
}
