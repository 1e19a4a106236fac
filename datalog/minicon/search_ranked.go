package minicon

// Unbounded disables the rewriting budget of the ranked search
const Unbounded = -1

// rankedSearch is the state of one best-first backtracking run
type rankedSearch struct {
	ctx      Context
	index    *RankedIndex
	budget   int
	out      []*Rewriting
	explored uint64
}

// SearchRanked enumerates rewritings depth-first: the first uncovered
// subgoal is tried with each of its candidates in rank order, and the
// subgoals the chosen MCD covers are removed before recursing. The search
// stops as soon as budget rewritings have been emitted. The second result
// is the number of complete branches tested.
func SearchRanked(ctx Context, index *RankedIndex, budget int) ([]*Rewriting, uint64) {
	s := &rankedSearch{ctx: ctx, index: index, budget: budget}

	remaining := make([]int, len(index.query.Body))
	for i := range remaining {
		remaining[i] = i
	}

	if s.search(nil, remaining) {
		ctx.BudgetReached(budget)
	}
	return s.out, s.explored
}

func (s *rankedSearch) exhausted() bool {
	return s.budget != Unbounded && len(s.out) >= s.budget
}

// search returns true when the budget stopped the run
func (s *rankedSearch) search(prefix []*MCD, remaining []int) bool {
	if s.exhausted() {
		return true
	}

	if len(remaining) == 0 {
		s.explored++
		if IsValidRewriting(s.index.query, prefix) {
			rw := NewRewriting(s.index.query, prefix)
			s.out = append(s.out, rw)
			s.ctx.RewritingEmitted(len(s.out), rw)
		}
		return s.exhausted()
	}

	for _, m := range s.index.Candidates(remaining[0]) {
		next := make([]*MCD, len(prefix), len(prefix)+1)
		copy(next, prefix)
		next = append(next, m)

		var rest []int
		for _, i := range remaining {
			if !m.Covers(i) {
				rest = append(rest, i)
			}
		}

		if s.search(next, rest) {
			return true
		}
	}
	return false
}
