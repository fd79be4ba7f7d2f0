package scheduler

import (
	"sort"
	"sync"
	"time"
)

// VisualAlertWindow is how long the transient "triggered" flag stays set
// after an alarm with visual alerts fires.
const VisualAlertWindow = 5000 * time.Millisecond

// AlertFlags tracks which alarms are currently in their visual-alert
// window. Flags clear themselves when the window elapses; re-firing an
// alarm restarts its window.
type AlertFlags struct {
	// mu protects the active set.
	mu sync.Mutex
	// window is the flag lifetime.
	window time.Duration
	// active maps alarm id to the timer that will clear its flag.
	active map[string]*time.Timer
}

// NewAlertFlags creates a flag set with the given window.
// A non-positive window falls back to VisualAlertWindow.
func NewAlertFlags(window time.Duration) *AlertFlags {
	if window <= 0 {
		window = VisualAlertWindow
	}

	return &AlertFlags{
		window: window,
		active: make(map[string]*time.Timer),
	}
}

// Set marks the alarm as triggered and schedules the automatic clear.
func (f *AlertFlags) Set(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if prev, ok := f.active[id]; ok {
		prev.Stop()
	}

	var clear *time.Timer

	clear = time.AfterFunc(f.window, func() {
		f.mu.Lock()
		defer f.mu.Unlock()

		// A newer Set may have replaced the timer; only the current
		// one may clear the flag.
		if f.active[id] == clear {
			delete(f.active, id)
		}
	})

	f.active[id] = clear
}

// IsActive reports whether the alarm's visual-alert window is still open.
func (f *AlertFlags) IsActive(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.active[id]

	return ok
}

// Active returns the ids of all alarms currently flagged, sorted for
// stable output.
func (f *AlertFlags) Active() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]string, 0, len(f.active))
	for id := range f.active {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// Shutdown stops all pending clears and empties the set.
func (f *AlertFlags) Shutdown() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, t := range f.active {
		t.Stop()
		delete(f.active, id)
	}
}
