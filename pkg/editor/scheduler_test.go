package editor

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestManualScheduler(t *testing.T) {
	m := NewManualScheduler()
	var n int
	m.Schedule(func() { n++ })
	m.Schedule(func() { n++ })
	if m.Pending() != 2 {
		t.Errorf("Pending = %d, want 2", m.Pending())
	}
	if ran := m.Run(); ran != 2 || n != 2 {
		t.Errorf("Run = %d (n=%d), want 2", ran, n)
	}
	m.Schedule(func() { n++ })
	m.Stop()
	if m.Run() != 0 || n != 2 {
		t.Error("Stop should drop queued work")
	}
}

func TestFrameSchedulerBatches(t *testing.T) {
	f := NewFrameScheduler(10 * time.Millisecond)
	defer f.Stop()

	var n atomic.Int32
	done := make(chan struct{})
	f.Schedule(func() { n.Add(1) })
	f.Schedule(func() { n.Add(1); close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("frame never fired")
	}
	if got := n.Load(); got != 2 {
		t.Errorf("ran %d functions, want 2", got)
	}
}

func TestFrameSchedulerStop(t *testing.T) {
	f := NewFrameScheduler(20 * time.Millisecond)
	var n atomic.Int32
	f.Schedule(func() { n.Add(1) })
	f.Stop()
	time.Sleep(60 * time.Millisecond)
	if n.Load() != 0 {
		t.Error("stopped scheduler ran queued work")
	}
}

func TestNewFrameSchedulerDefault(t *testing.T) {
	if f := NewFrameScheduler(0); f.interval != FrameInterval {
		t.Errorf("interval = %v, want %v", f.interval, FrameInterval)
	}
}
