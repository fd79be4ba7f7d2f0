package scheduler

import (
	"sync"
	"time"

	domain "github.com/example/homeboard/internal/domain/alarm"
	"github.com/example/homeboard/internal/recurrence"
)

// TriggerFunc is invoked when an armed task reaches its fire instant.
// It receives the alarm snapshot captured at arm time, not a live record,
// so a concurrent edit cannot change a firing mid-flight.
type TriggerFunc func(snapshot *domain.Alarm, firedAt time.Time)

// Coordinator owns the table of scheduled tasks, at most one per alarm id.
// Arming always cancels any prior task for the same id first, so no alarm
// can double-fire from overlapping timers.
type Coordinator struct {
	// mu protects the task table. Cancel and arm for the same id are
	// ordered by running under the same critical section.
	mu sync.Mutex
	// tasks maps alarm id to its single pending task.
	tasks map[string]*task
	// trigger runs the side effects when a task fires.
	trigger TriggerFunc
	// now supplies the current instant; replaceable in tests.
	now func() time.Time
}

// task is one armed timer together with the state captured when it was armed.
// A fired or cancelled task handle is never reused.
type task struct {
	// timer counts down to the fire instant.
	timer *time.Timer
	// fireAt is the instant the task is due.
	fireAt time.Time
	// snapshot is the alarm definition captured at arm time.
	snapshot *domain.Alarm
}

// NewCoordinator creates a coordinator that dispatches fires to trigger.
func NewCoordinator(trigger TriggerFunc) *Coordinator {
	return &Coordinator{
		tasks:   make(map[string]*task),
		trigger: trigger,
		now:     time.Now,
	}
}

// SyncAll reconciles the task table against a fresh alarm snapshot: every
// present id is cancelled and, when enabled with a future occurrence,
// re-armed; ids absent from the snapshot are cancelled unconditionally.
func (c *Coordinator) SyncAll(snapshot []*domain.Alarm, now time.Time) {
	present := make(map[string]struct{}, len(snapshot))
	for _, a := range snapshot {
		present[a.ID] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Deleted alarms must never stay armed.
	for id := range c.tasks {
		if _, ok := present[id]; !ok {
			c.cancelLocked(id)
		}
	}

	for _, a := range snapshot {
		c.cancelLocked(a.ID)

		if !a.Enabled {
			continue
		}

		c.armLocked(a, now)
	}
}

// Arm runs the single-alarm path of SyncAll for the given alarm: cancel any
// pending task, then arm the next occurrence if one exists. It returns the
// armed fire instant, or false when the alarm stays unscheduled.
func (c *Coordinator) Arm(a *domain.Alarm, now time.Time) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked(a.ID)

	if !a.Enabled {
		return time.Time{}, false
	}

	return c.armLocked(a, now)
}

// Cancel removes the pending task for the id; idempotent when unscheduled.
// A task cancelled before its fire instant produces zero side effects.
func (c *Coordinator) Cancel(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked(id)
}

// Shutdown cancels every outstanding task. Used at component teardown.
func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id := range c.tasks {
		c.cancelLocked(id)
	}
}

// FireAt returns the pending fire instant for the id, if armed.
func (c *Coordinator) FireAt(id string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.tasks[id]
	if !ok {
		return time.Time{}, false
	}

	return t.fireAt, true
}

// armLocked computes the next occurrence and registers a timer for it.
// Callers hold c.mu.
func (c *Coordinator) armLocked(a *domain.Alarm, now time.Time) (time.Time, bool) {
	fireAt, ok := recurrence.NextOccurrence(a, now)
	if !ok {
		return time.Time{}, false
	}

	t := &task{
		fireAt:   fireAt,
		snapshot: a.Clone(),
	}
	t.timer = time.AfterFunc(fireAt.Sub(now), func() {
		c.fire(t.snapshot.ID, t)
	})

	c.tasks[a.ID] = t

	return fireAt, true
}

// cancelLocked stops and forgets the task for the id. Callers hold c.mu.
func (c *Coordinator) cancelLocked(id string) {
	t, ok := c.tasks[id]
	if !ok {
		return
	}

	t.timer.Stop()
	delete(c.tasks, id)
}

// fire is the timer callback. The handle comparison resolves the race
// between an expiring timer and a concurrent cancel or re-arm: only the
// task still registered for the id may run side effects, exactly once.
func (c *Coordinator) fire(id string, t *task) {
	c.mu.Lock()

	if c.tasks[id] != t {
		c.mu.Unlock()

		return
	}

	delete(c.tasks, id)
	c.mu.Unlock()

	if c.trigger != nil {
		c.trigger(t.snapshot, c.now())
	}
}
