package cache

import (
	"sync"
	"time"

	"budget/internal/log"
)

// Cache is a keyed store of read results.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)

	// Clear drops every entry. Called after writes that affect all keys.
	Clear()

	Size() int
}

// Cleaner is implemented by caches that can drop expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Janitor periodically sweeps expired entries from registered caches.
type Janitor struct {
	mu      sync.Mutex
	caches  []Cleaner
	logger  *log.Logger
	stop    chan struct{}
	done    chan struct{}
	started bool
	stopped bool
}

func NewJanitor(logger *log.Logger) *Janitor {
	if logger == nil {
		logger = log.Discard()
	}
	return &Janitor{
		logger: logger.WithComponent(log.ComponentCache),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Register adds c to the set swept on each tick.
func (j *Janitor) Register(c Cleaner) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.caches = append(j.caches, c)
}

// Start begins sweeping every interval. A janitor runs at most once;
// further calls are no-ops.
func (j *Janitor) Start(interval time.Duration) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.started || j.stopped || interval <= 0 {
		return
	}
	j.started = true
	go j.run(interval)
}

// Sweep runs one cleanup pass and returns the number of entries removed.
func (j *Janitor) Sweep() int {
	j.mu.Lock()
	caches := append([]Cleaner(nil), j.caches...)
	j.mu.Unlock()

	total := 0
	for _, c := range caches {
		total += c.CleanExpired()
	}
	return total
}

func (j *Janitor) run(interval time.Duration) {
	defer close(j.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := j.Sweep(); n > 0 {
				j.logger.Debug("Expired cache entries removed", log.FieldCount, n)
			}
		case <-j.stop:
			return
		}
	}
}

// Stop halts the sweeper and waits for it to exit. Safe to call when the
// janitor was never started.
func (j *Janitor) Stop() {
	j.mu.Lock()
	running := j.started && !j.stopped
	j.stopped = true
	j.mu.Unlock()

	if !running {
		return
	}
	close(j.stop)
	<-j.done
}
