package minicon

import (
	"time"

	"github.com/google/uuid"

	"github.com/wbrown/janus-minicon/datalog/annotations"
	"github.com/wbrown/janus-minicon/datalog/query"
)

// Context provides annotation points for a rewriting run. Every run carries
// a fresh id so events from concurrent runs can be told apart.
type Context interface {
	RunID() uuid.UUID

	// Run lifecycle
	RewriteBegin(q *query.Query, viewCount int, strategy Strategy)
	RewriteComplete(mcdCount, rewritingCount int, err error)

	// MCD formation
	FormationPhase(seedCount int, fn func() ([]*MCD, int, error)) ([]*MCD, error)
	MCDFormed(m *MCD)
	MCDRejected(subgoal query.Predicate, view string, reason RejectReason)
	MCDsDeduplicated(before, after int)
	MCDRanked(m *MCD)

	// Combination
	CombinePhase(strategy Strategy, mcdCount int, fn func() ([]*Rewriting, uint64, error)) ([]*Rewriting, error)
	RewritingEmitted(index int, rw *Rewriting)
	BudgetReached(budget int)
	RedundancyRemoved(rw *Rewriting, before, after int)

	ConfigurationError(err error)

	// Get underlying collector
	Collector() *annotations.Collector
}

// BaseContext provides a no-op implementation with zero overhead.
type BaseContext struct {
	runID uuid.UUID
}

// NewContext creates an appropriate context based on whether annotations are needed.
func NewContext(handler annotations.Handler) Context {
	if handler == nil {
		return &BaseContext{runID: uuid.New()}
	}
	return &AnnotatedContext{
		BaseContext: BaseContext{runID: uuid.New()},
		collector:   annotations.NewCollector(handler),
	}
}

func (c *BaseContext) RunID() uuid.UUID { return c.runID }

func (c *BaseContext) RewriteBegin(q *query.Query, viewCount int, strategy Strategy) {}

func (c *BaseContext) RewriteComplete(mcdCount, rewritingCount int, err error) {}

func (c *BaseContext) FormationPhase(seedCount int, fn func() ([]*MCD, int, error)) ([]*MCD, error) {
	mcds, _, err := fn()
	return mcds, err
}

func (c *BaseContext) MCDFormed(m *MCD) {}

func (c *BaseContext) MCDRejected(subgoal query.Predicate, view string, reason RejectReason) {}

func (c *BaseContext) MCDsDeduplicated(before, after int) {}

func (c *BaseContext) MCDRanked(m *MCD) {}

func (c *BaseContext) CombinePhase(strategy Strategy, mcdCount int, fn func() ([]*Rewriting, uint64, error)) ([]*Rewriting, error) {
	rws, _, err := fn()
	return rws, err
}

func (c *BaseContext) RewritingEmitted(index int, rw *Rewriting) {}

func (c *BaseContext) BudgetReached(budget int) {}

func (c *BaseContext) RedundancyRemoved(rw *Rewriting, before, after int) {}

func (c *BaseContext) ConfigurationError(err error) {}

func (c *BaseContext) Collector() *annotations.Collector {
	return nil
}

// AnnotatedContext provides full annotation tracking
type AnnotatedContext struct {
	BaseContext
	collector    *annotations.Collector
	rewriteStart time.Time
}

func (c *AnnotatedContext) RewriteBegin(q *query.Query, viewCount int, strategy Strategy) {
	c.rewriteStart = time.Now()
	c.collector.Add(annotations.Event{
		Name:  annotations.RewriteInvoked,
		Start: c.rewriteStart,
		Data: map[string]interface{}{
			"query":       q.String(),
			"views.count": viewCount,
			"strategy":    string(strategy),
			"run.id":      c.runID.String(),
		},
	})
}

func (c *AnnotatedContext) RewriteComplete(mcdCount, rewritingCount int, err error) {
	data := map[string]interface{}{
		"mcds.count":       mcdCount,
		"rewritings.count": rewritingCount,
		"success":          err == nil,
	}
	if err != nil {
		data["error"] = err.Error()
	}
	c.collector.AddTiming(annotations.RewriteComplete, c.rewriteStart, data)
}

func (c *AnnotatedContext) FormationPhase(seedCount int, fn func() ([]*MCD, int, error)) ([]*MCD, error) {
	start := time.Now()
	c.collector.Add(annotations.Event{
		Name:  annotations.FormationBegin,
		Start: start,
		Data: map[string]interface{}{
			"seeds.count": seedCount,
		},
	})

	mcds, rejected, err := fn()

	data := map[string]interface{}{
		"mcds.count":     len(mcds),
		"rejected.count": rejected,
		"success":        err == nil,
	}
	if err != nil {
		data["error"] = err.Error()
	}
	c.collector.AddTiming(annotations.FormationComplete, start, data)
	return mcds, err
}

func (c *AnnotatedContext) MCDFormed(m *MCD) {
	subgoals := m.Subgoals()
	names := make([]string, len(subgoals))
	for i, s := range subgoals {
		names[i] = s.String()
	}
	c.collector.Add(annotations.Event{
		Name:  annotations.MCDFormed,
		Start: time.Now(),
		Data: map[string]interface{}{
			"view":     m.View().Name,
			"subgoals": names,
			"mappings": m.Mappings().String(),
		},
	})
}

func (c *AnnotatedContext) MCDRejected(subgoal query.Predicate, view string, reason RejectReason) {
	c.collector.Add(annotations.Event{
		Name:  annotations.MCDRejected,
		Start: time.Now(),
		Data: map[string]interface{}{
			"subgoal": subgoal.String(),
			"view":    view,
			"reason":  string(reason),
		},
	})
}

func (c *AnnotatedContext) MCDsDeduplicated(before, after int) {
	if before == after {
		return
	}
	c.collector.Add(annotations.Event{
		Name:  annotations.MCDDeduplicated,
		Start: time.Now(),
		Data: map[string]interface{}{
			"before": before,
			"after":  after,
		},
	})
}

func (c *AnnotatedContext) MCDRanked(m *MCD) {
	c.collector.Add(annotations.Event{
		Name:  annotations.MCDRanked,
		Start: time.Now(),
		Data: map[string]interface{}{
			"mcd":  m.String(),
			"rank": m.Rank,
		},
	})
}

func (c *AnnotatedContext) CombinePhase(strategy Strategy, mcdCount int, fn func() ([]*Rewriting, uint64, error)) ([]*Rewriting, error) {
	start := time.Now()
	c.collector.Add(annotations.Event{
		Name:  annotations.CombineBegin,
		Start: start,
		Data: map[string]interface{}{
			"strategy":   string(strategy),
			"mcds.count": mcdCount,
		},
	})

	rws, candidates, err := fn()

	data := map[string]interface{}{
		"strategy":         string(strategy),
		"rewritings.count": len(rws),
		"candidates.count": int(candidates),
		"success":          err == nil,
	}
	if err != nil {
		data["error"] = err.Error()
	}
	c.collector.AddTiming(annotations.CombineComplete, start, data)
	return rws, err
}

func (c *AnnotatedContext) RewritingEmitted(index int, rw *Rewriting) {
	c.collector.Add(annotations.Event{
		Name:  annotations.RewritingEmitted,
		Start: time.Now(),
		Data: map[string]interface{}{
			"index":     index,
			"rewriting": rw.String(),
		},
	})
}

func (c *AnnotatedContext) BudgetReached(budget int) {
	c.collector.Add(annotations.Event{
		Name:  annotations.BudgetReached,
		Start: time.Now(),
		Data: map[string]interface{}{
			"budget": budget,
		},
	})
}

func (c *AnnotatedContext) RedundancyRemoved(rw *Rewriting, before, after int) {
	if before == after {
		return
	}
	c.collector.Add(annotations.Event{
		Name:  annotations.RedundancyRemoved,
		Start: time.Now(),
		Data: map[string]interface{}{
			"rewriting": rw.String(),
			"before":    before,
			"after":     after,
		},
	})
}

func (c *AnnotatedContext) ConfigurationError(err error) {
	c.collector.Add(annotations.Event{
		Name:  annotations.ErrorConfiguration,
		Start: time.Now(),
		Data: map[string]interface{}{
			"error": err.Error(),
		},
	})
}

func (c *AnnotatedContext) Collector() *annotations.Collector {
	return c.collector
}
