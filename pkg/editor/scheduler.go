package editor

import (
	"sync"
	"time"
)

// FrameInterval is the default capture delay: one frame at 60 fps.
const FrameInterval = 16 * time.Millisecond

// Scheduler defers history captures. Schedule must not run fn synchronously;
// the store calls it while holding its lock.
type Scheduler interface {
	Schedule(fn func())
	Stop()
}

// FrameScheduler runs scheduled functions together once per interval.
type FrameScheduler struct {
	interval time.Duration

	mu    sync.Mutex
	timer *time.Timer
	queue []func()
}

// NewFrameScheduler returns a scheduler that batches work into frames of the
// given length. A non-positive interval uses FrameInterval.
func NewFrameScheduler(interval time.Duration) *FrameScheduler {
	if interval <= 0 {
		interval = FrameInterval
	}
	return &FrameScheduler{interval: interval}
}

// Schedule queues fn for the next frame.
func (f *FrameScheduler) Schedule(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fn)
	if f.timer == nil {
		f.timer = time.AfterFunc(f.interval, f.fire)
	}
}

func (f *FrameScheduler) fire() {
	f.mu.Lock()
	queue := f.queue
	f.queue = nil
	f.timer = nil
	f.mu.Unlock()

	for _, fn := range queue {
		fn()
	}
}

// Stop cancels the pending frame and drops queued work.
func (f *FrameScheduler) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.queue = nil
}

// ManualScheduler queues work until Run is called.
type ManualScheduler struct {
	mu    sync.Mutex
	queue []func()
}

// NewManualScheduler returns an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule queues fn.
func (m *ManualScheduler) Schedule(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, fn)
}

// Run executes everything queued so far and returns how many functions ran.
func (m *ManualScheduler) Run() int {
	m.mu.Lock()
	queue := m.queue
	m.queue = nil
	m.mu.Unlock()

	for _, fn := range queue {
		fn()
	}
	return len(queue)
}

// Pending returns the number of queued functions.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Stop drops queued work.
func (m *ManualScheduler) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = nil
}

var (
	_ Scheduler = (*FrameScheduler)(nil)
	_ Scheduler = (*ManualScheduler)(nil)
)
