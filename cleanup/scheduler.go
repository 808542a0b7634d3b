package cleanup

import (
	"os"
	"sync"
	"time"

	"github.com/reviewbridge/reviewbridge/editor"
	"github.com/reviewbridge/reviewbridge/logger"
)

// DefaultDelay is how long a request document stays on disk after delivery.
const DefaultDelay = 2 * time.Minute

// Scheduler runs one deferred removal per request document, keyed by path: a
// fast second invocation replaces the stale pending task instead of racing
// it. A task already firing cannot be recalled.
type Scheduler struct {
	host  editor.Host
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler closing documents through the given host.
// A zero or negative delay selects DefaultDelay.
func NewScheduler(host editor.Host, delay time.Duration) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Scheduler{
		host:    host,
		delay:   delay,
		pending: make(map[string]*time.Timer),
	}
}

// Schedule arms the deferred removal of the document at path, cancelling any
// removal already pending for the same path.
func (s *Scheduler) Schedule(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.pending[path]; ok {
		delete(s.pending, path)
		if old.Stop() {
			s.wg.Done()
		}
	}

	s.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(s.delay, func() {
		defer s.wg.Done()
		s.mu.Lock()
		if s.pending[path] == timer {
			delete(s.pending, path)
		}
		s.mu.Unlock()
		s.remove(path)
	})
	s.pending[path] = timer
	logger.Debugf("Scheduled removal of %s in %s", path, s.delay)
}

// Cancel drops the pending removal for path, if one exists and has not
// started firing.
func (s *Scheduler) Cancel(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.pending[path]
	if !ok {
		return
	}
	delete(s.pending, path)
	if timer.Stop() {
		s.wg.Done()
	}
}

// Wait blocks until every scheduled removal has run or been cancelled. The
// bridge pipeline parks on it so the process outlives its own timer.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// remove closes the editor tab and deletes the document. Best-effort on both
// counts: the tab may never have opened and the file may already be gone.
func (s *Scheduler) remove(path string) {
	if err := s.host.CloseDocument(path); err != nil {
		logger.Debugf("Could not close %s: %v", path, err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Debugf("Could not delete %s: %v", path, err)
		return
	}
	logger.Debugf("Removed request document %s", path)
}
