package preference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	table := NewTable("1")
	table.Put("V2", 0.9)
	table.Put("V1", 0.2)
	table.Put("V1", 0.3)

	r, ok := table.Rank("V1")
	require.True(t, ok)
	assert.Equal(t, 0.3, r)

	_, ok = table.Rank("V3")
	assert.False(t, ok)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"V1", "V2"}, table.Views())
	assert.Equal(t, []string{"V3"}, table.Missing([]string{"V1", "V3", "V2"}))
	assert.Equal(t, "1{V1=0.3 V2=0.9}", table.String())
}

func TestFromMapCopies(t *testing.T) {
	ranks := map[string]float64{"V1": 1}
	table := FromMap("a", ranks)
	ranks["V1"] = 2

	r, _ := table.Rank("V1")
	assert.Equal(t, 1.0, r)

	m := table.Map()
	m["V1"] = 3
	r, _ = table.Rank("V1")
	assert.Equal(t, 1.0, r)
}
