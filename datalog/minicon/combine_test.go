package minicon

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidRewriting(t *testing.T) {
	q := mustParse(t, "Q(x,y) :- e1(x,y), e2(y,z)")
	views := mustViews(t,
		"V1(a,b) :- e1(a,b)",
		"V2(c,d) :- e2(c,d)",
		"V3(a,b) :- e1(a,c), e2(c,b)",
	)
	mcds := formAll(t, q, views)
	require.Len(t, mcds, 2, "V3 hides y")
	m1, m2 := mcds[0], mcds[1]

	assert.True(t, IsValidRewriting(q, []*MCD{m1, m2}))
	assert.False(t, IsValidRewriting(q, []*MCD{m1}), "does not cover e2")
	assert.False(t, IsValidRewriting(q, []*MCD{m1, m1}), "overlapping")
	assert.False(t, IsValidRewriting(q, nil))
}

func TestIsValidRewritingConstantConsistency(t *testing.T) {
	q := mustParse(t, "Q(x) :- e1(x,y), e2(x,y)")

	conflicting := formAll(t, q, mustViews(t,
		`V1(a) :- e1(a,"1")`,
		`V2(a) :- e2(a,"2")`,
	))
	require.Len(t, conflicting, 2)
	assert.False(t, IsValidRewriting(q, conflicting), "y cannot be both 1 and 2")

	consistent := formAll(t, q, mustViews(t,
		`V1(a) :- e1(a,"1")`,
		`V2(a) :- e2(a,"1")`,
	))
	require.Len(t, consistent, 2)
	assert.True(t, IsValidRewriting(q, consistent))
}

func TestSearchExhaustiveEvaluatesEverySubset(t *testing.T) {
	q := mustParse(t, "Q(x) :- e1(x), e2(x)")
	views := mustViews(t,
		"V1(a) :- e1(a)",
		"V2(a) :- e1(a)",
		"V3(a) :- e1(a)",
		"V4(a) :- e2(a)",
	)
	mcds := formAll(t, q, views)
	require.Len(t, mcds, 4)

	for _, workers := range []int{1, 3, 16} {
		rws, evaluated, err := SearchExhaustive(NewContext(nil), NewWorkerPool(workers), q, mcds)
		require.NoError(t, err)
		assert.Equal(t, uint64(16), evaluated)
		assert.Equal(t, []string{
			"Q(x) :- V1(x), V4(x)",
			"Q(x) :- V2(x), V4(x)",
			"Q(x) :- V3(x), V4(x)",
		}, rewritingStrings(rws), "subset order is kept with %d workers", workers)
	}
}

func TestSearchExhaustiveNoMCDs(t *testing.T) {
	q := mustParse(t, "Q(x) :- e1(x)")
	rws, evaluated, err := SearchExhaustive(NewContext(nil), NewWorkerPool(2), q, nil)
	require.NoError(t, err)
	assert.Empty(t, rws)
	assert.Equal(t, uint64(1), evaluated, "the empty subset is still evaluated")
}

func TestSearchExhaustiveTooLarge(t *testing.T) {
	q := mustParse(t, "Q(x) :- e1(x)")
	mcds := make([]*MCD, MaxExhaustiveMCDs+1)

	_, _, err := SearchExhaustive(NewContext(nil), NewWorkerPool(1), q, mcds)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSearchSpaceTooLarge))
	assert.Contains(t, errors.GetAllHints(err), "use the ranked strategy with a budget")
	assert.False(t, IsConfigurationError(err))
}

func TestSplitRanges(t *testing.T) {
	assert.Equal(t, []subsetRange{{0, 6}, {6, 12}, {12, 16}}, splitRanges(16, 3))
	assert.Equal(t, []subsetRange{{0, 1}}, splitRanges(1, 8))
	assert.Equal(t, []subsetRange{{0, 4}}, splitRanges(4, 0))
}

func TestSubsetSelectsByBit(t *testing.T) {
	q := mustParse(t, "Q(x) :- e1(x), e2(x)")
	mcds := formAll(t, q, mustViews(t, "V1(a) :- e1(a)", "V2(a) :- e2(a)"))
	require.Len(t, mcds, 2)

	assert.Empty(t, subset(mcds, 0))
	assert.Equal(t, []*MCD{mcds[1]}, subset(mcds, 2))
	assert.Equal(t, []*MCD{mcds[0], mcds[1]}, subset(mcds, 3))
}
