package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ludo-technologies/treesim/domain"
)

// DefaultDebounce coalesces the burst of events editors emit for one save
const DefaultDebounce = 150 * time.Millisecond

// WatchServiceImpl re-runs a comparison whenever one of its input files
// changes
type WatchServiceImpl struct {
	compare  domain.CompareService
	logger   *slog.Logger
	debounce time.Duration
}

// NewWatchService creates a watch service on top of a compare service
func NewWatchService(compare domain.CompareService, logger *slog.Logger) *WatchServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &WatchServiceImpl{
		compare:  compare,
		logger:   logger,
		debounce: DefaultDebounce,
	}
}

// SetDebounce changes the quiet period between a change and the re-run
func (s *WatchServiceImpl) SetDebounce(d time.Duration) {
	s.debounce = d
}

// Watch runs the comparison once, then again after every change to either
// input file, passing each outcome to onResult. Comparison failures are
// reported through onResult and do not stop the watch. Watch returns when
// ctx is done.
func (s *WatchServiceImpl) Watch(ctx context.Context, req *domain.CompareRequest, onResult func(*domain.CompareResponse, error)) error {
	if err := req.Validate(); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("file watcher: %w", err)
	}
	defer w.Close()

	// Watch the directories so that files replaced by a rename are still seen
	targets := make(map[string]bool)
	for _, path := range []string{req.FirstPath, req.SecondPath} {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("file watcher: %w", err)
		}
		targets[abs] = true
		if err := w.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("file watcher add %s: %w", filepath.Dir(abs), err)
		}
	}

	run := func() {
		resp, err := s.compare.Compare(ctx, req)
		onResult(resp, err)
	}
	run()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !targets[abs] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			s.logger.Debug("input changed", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(s.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			run()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("file watcher error", "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}
