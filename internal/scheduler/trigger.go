// Package scheduler manages the scheduled-email lifecycle: a process-local
// one-shot timer registry and the administrative operations around it.
package scheduler

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Trigger is a registry of one-shot timers keyed by task id. Scheduling an id
// that already has a live timer replaces it. Suitable for single-instance
// deployments only; multi-instance needs a persisted due-time index instead.
type Trigger struct {
	fire func(taskID string)
	log  *zap.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewTrigger creates a trigger that invokes fire in its own goroutine when a
// timer elapses.
func NewTrigger(fire func(taskID string), log *zap.Logger) *Trigger {
	return &Trigger{
		fire:   fire,
		log:    log,
		timers: make(map[string]*time.Timer),
	}
}

// Schedule arms a timer for taskID at the given wall-clock time, replacing
// any existing registration for the same id.
func (t *Trigger) Schedule(taskID string, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if old, ok := t.timers[taskID]; ok {
		old.Stop()
	}

	t.timers[taskID] = time.AfterFunc(time.Until(at), func() {
		t.mu.Lock()
		delete(t.timers, taskID)
		t.mu.Unlock()
		t.fire(taskID)
	})

	t.log.Info("email task trigger registered",
		zap.String("task_id", taskID),
		zap.Time("fire_at", at),
	)
}

// Cancel stops the timer for taskID. Returns false when no live registration
// exists; callers tolerate that.
func (t *Trigger) Cancel(taskID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	timer, ok := t.timers[taskID]
	if !ok {
		return false
	}
	timer.Stop()
	delete(t.timers, taskID)

	t.log.Info("email task trigger cancelled", zap.String("task_id", taskID))
	return true
}

// Stop disarms all timers. In-flight callbacks are not waited for.
func (t *Trigger) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
}

// Pending returns the number of armed timers.
func (t *Trigger) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.timers)
}
