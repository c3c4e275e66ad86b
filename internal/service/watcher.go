package service

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	watcherDebounce    = 500 * time.Millisecond
	watcherSyncTimeout = 30 * time.Second
)

// WatcherService watches the memory directory for edits made outside the
// API. The memory files stay human-editable; when one changes, the current
// fact document is re-mirrored into the recall layer after a debounce.
type WatcherService struct {
	dir     string
	resync  func(ctx context.Context) error
	logger  *zap.Logger
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

func NewWatcherService(memoryDir string, resync func(ctx context.Context) error, logger *zap.Logger) (*WatcherService, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &WatcherService{
		dir:     memoryDir,
		resync:  resync,
		logger:  logger,
		watcher: watcher,
		stopCh:  make(chan struct{}),
	}, nil
}

// Start begins watching the memory directory.
func (s *WatcherService) Start() error {
	if err := s.watcher.Add(s.dir); err != nil {
		return err
	}

	s.wg.Add(1)
	go s.run()

	s.logger.Info("memory watcher started", zap.String("dir", s.dir))
	return nil
}

// Stop halts the watcher. A pending debounced resync is cancelled; one
// already running is waited for, so no resync runs after Stop returns.
func (s *WatcherService) Stop() {
	s.mu.Lock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	close(s.stopCh)
	_ = s.watcher.Close()
	s.wg.Wait()
}

func (s *WatcherService) run() {
	defer s.wg.Done()

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			// Only the markdown memory files matter; checkpoint and
			// temp files churn constantly.
			if !strings.HasSuffix(strings.ToLower(event.Name), ".md") {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) {
				s.logger.Debug("memory file changed",
					zap.String("file", filepath.Base(event.Name)),
					zap.String("op", event.Op.String()))
				s.scheduleResync()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("memory watcher error", zap.Error(err))

		case <-s.stopCh:
			return
		}
	}
}

// scheduleResync debounces bursts of file events into one resync.
func (s *WatcherService) scheduleResync() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}

	s.timer = time.AfterFunc(watcherDebounce, func() {
		// A timer that fired during Stop must not resync; the stopped
		// check and the Add are under the same lock Stop takes.
		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}
		s.wg.Add(1)
		s.mu.Unlock()
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), watcherSyncTimeout)
		defer cancel()

		if err := s.resync(ctx); err != nil {
			s.logger.Warn("resync after external edit failed", zap.Error(err))
		}
	})
}
