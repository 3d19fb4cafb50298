// Package reveal implements a one-shot visibility observer: a callback fires
// the first time a registered target becomes sufficiently visible, after
// which the target is unregistered.
package reveal

import "sync"

// DefaultThreshold is the visible fraction at which a target is revealed.
const DefaultThreshold = 0.1

// ActiveClass is the marker applied to revealed elements.
const ActiveClass = "active"

// Observer tracks targets until they first intersect the viewport.
type Observer struct {
	threshold float64

	mu        sync.Mutex
	callbacks map[string]func(target string)
	closed    bool
}

// NewObserver returns an Observer that fires at or above threshold.
// A threshold outside (0, 1] falls back to DefaultThreshold.
func NewObserver(threshold float64) *Observer {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Observer{
		threshold: threshold,
		callbacks: make(map[string]func(string)),
	}
}

// Threshold returns the visible fraction that triggers a reveal.
func (o *Observer) Threshold() float64 {
	return o.threshold
}

// Observe registers fn to run once when target first becomes visible.
// Registering an already observed target replaces its callback. Observe on
// a disconnected Observer is a no-op.
func (o *Observer) Observe(target string, fn func(target string)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.callbacks[target] = fn
}

// Intersect reports that target is now ratio visible. It returns true when
// this call revealed the target.
func (o *Observer) Intersect(target string, ratio float64) bool {
	if ratio < o.threshold {
		return false
	}
	o.mu.Lock()
	fn, ok := o.callbacks[target]
	if ok {
		delete(o.callbacks, target)
	}
	o.mu.Unlock()
	if !ok {
		return false
	}
	fn(target)
	return true
}

// Pending returns how many targets have not been revealed yet.
func (o *Observer) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.callbacks)
}

// Disconnect drops every pending target. Later Intersect calls do nothing.
func (o *Observer) Disconnect() {
	o.mu.Lock()
	o.callbacks = map[string]func(string){}
	o.closed = true
	o.mu.Unlock()
}

// Marks records which targets carry ActiveClass. Marks are only ever added.
type Marks struct {
	mu     sync.Mutex
	active map[string]bool
}

// Reveal adds ActiveClass to target. It matches the Observe callback shape.
func (m *Marks) Reveal(target string) {
	m.mu.Lock()
	if m.active == nil {
		m.active = make(map[string]bool)
	}
	m.active[target] = true
	m.mu.Unlock()
}

// Active reports whether target has been revealed.
func (m *Marks) Active(target string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[target]
}
