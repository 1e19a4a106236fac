// Package annotations provides a low-overhead event system for tracing
// rewriting runs: MCD formation, combination search and rewriting output.
package annotations

import (
	"sync"
	"time"
)

// Event name constants following hierarchical naming pattern
const (
	// Run lifecycle
	RewriteInvoked  = "rewrite/invoked"
	RewriteComplete = "rewrite/completed"

	// MCD formation
	MCDFormed         = "mcd/formed"
	MCDRejected       = "mcd/rejected"
	MCDDeduplicated   = "mcd/deduplicated"
	MCDRanked         = "mcd/ranked"
	FormationBegin    = "formation/begin"
	FormationComplete = "formation/completed"

	// Combination search
	CombineBegin     = "combine/begin"
	CombineComplete  = "combine/completed"
	RewritingEmitted = "rewriting/emitted"
	BudgetReached    = "search/budget-reached"

	// Redundancy removal
	RedundancyRemoved = "rewriting/redundancy-removed"

	// Errors
	ErrorConfiguration = "error/configuration"
)

// Event represents a single annotation event during a rewriting run.
type Event struct {
	Name    string                 // Event name using hierarchical constants above
	Start   time.Time              // Start timestamp
	End     time.Time              // End timestamp
	Latency time.Duration          // Duration (End - Start)
	Data    map[string]interface{} // Additional event-specific data
	Caller  string                 // Optional: file:line where event occurred
}

// Handler processes annotation events as they occur.
type Handler func(event Event)

// Collector accumulates events during a run. Formation and the exhaustive
// search report from worker goroutines, so every method is safe for
// concurrent use.
type Collector struct {
	enabled bool
	handler Handler
	events  []Event
	mu      sync.Mutex
}

// NewCollector creates a new annotation collector.
func NewCollector(handler Handler) *Collector {
	return &Collector{
		enabled: handler != nil,
		handler: handler,
		events:  make([]Event, 0, 64),
	}
}

// Handler returns the underlying event handler.
func (c *Collector) Handler() Handler {
	return c.handler
}

// Add records a new event.
func (c *Collector) Add(event Event) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()

	// Call handler outside the lock to avoid deadlocks
	c.handler(event)
}

// AddTiming records an event with timing information.
func (c *Collector) AddTiming(name string, start time.Time, data map[string]interface{}) {
	if !c.enabled {
		return
	}

	end := time.Now()
	c.Add(Event{
		Name:    name,
		Start:   start,
		End:     end,
		Latency: end.Sub(start),
		Data:    data,
	})
}

// Events returns a copy of all collected events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	eventsCopy := make([]Event, len(c.events))
	copy(eventsCopy, c.events)
	return eventsCopy
}

// Count returns how many events with the given name were collected.
func (c *Collector) Count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.Name == name {
			n++
		}
	}
	return n
}

// Reset clears the collector for reuse.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
}
