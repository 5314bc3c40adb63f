// Package health tracks the state of the collaborators a run depends on.
package health

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Status represents the health of one collaborator.
type Status struct {
	Name        string
	Healthy     bool
	LastCheck   time.Time
	LastSuccess time.Time
	LastError   error
	Message     string
}

// Tracker records collaborator health. It is safe for concurrent use.
type Tracker struct {
	mu         sync.RWMutex
	components map[string]*Status
	now        func() time.Time
}

// NewTracker creates an empty health tracker.
func NewTracker() *Tracker {
	return &Tracker{
		components: make(map[string]*Status),
		now:        time.Now,
	}
}

func (t *Tracker) entry(component string) *Status {
	s, ok := t.components[component]
	if !ok {
		s = &Status{Name: component}
		t.components[component] = s
	}
	return s
}

// SetHealthy marks a component as healthy.
func (t *Tracker) SetHealthy(component, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	s := t.entry(component)
	s.Healthy = true
	s.LastCheck = now
	s.LastSuccess = now
	s.LastError = nil
	s.Message = message
}

// SetUnhealthy marks a component as unhealthy.
func (t *Tracker) SetUnhealthy(component string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.entry(component)
	s.Healthy = false
	s.LastCheck = t.now()
	s.LastError = err
	s.Message = err.Error()
}

// Check runs probe and records its outcome under component.
func (t *Tracker) Check(ctx context.Context, component string, probe func(context.Context) error) error {
	if err := probe(ctx); err != nil {
		t.SetUnhealthy(component, err)
		return err
	}
	t.SetHealthy(component, "ok")
	return nil
}

// Status returns a copy of a component's status, or nil if it was never checked.
func (t *Tracker) Status(component string) *Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.components[component]
	if !ok {
		return nil
	}
	cp := *s
	return &cp
}

// All returns copies of every status, sorted by component name.
func (t *Tracker) All() []Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Status, 0, len(t.components))
	for _, s := range t.components {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Healthy reports whether every checked component is healthy.
func (t *Tracker) Healthy() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, s := range t.components {
		if !s.Healthy {
			return false
		}
	}
	return true
}
