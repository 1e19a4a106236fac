package minicon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableFormatter(t *testing.T) {
	formatter := NewTableFormatter()

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "_No MCDs_", formatter.FormatMCDs(nil))
		assert.Equal(t, "_No rewritings_", formatter.FormatRewritings(nil))
	})

	q := mustParse(t, "Q(x,y) :- e1(x,y), e2(y,z)")
	mcds := formAll(t, q, mustViews(t, "V1(a,b) :- e1(a,b)", "V2(c,d) :- e2(c,d)"))
	require.Len(t, mcds, 2)

	t.Run("MCDs", func(t *testing.T) {
		result := formatter.FormatMCDs(mcds)
		for _, want := range []string{"view", "subgoals", "V1", "e1(x,y)", "x->a y->b", "0.00", "2 rows"} {
			assert.Contains(t, result, want)
		}
	})

	t.Run("Rewritings", func(t *testing.T) {
		rws := []*Rewriting{NewRewriting(q, mcds)}
		result := formatter.FormatRewritings(rws)
		assert.Contains(t, result, "Q(x,y) :- V1(x,y), V2(y,_)")
		assert.Contains(t, result, "V1 V2")
		assert.Contains(t, result, "1 rows")
	})

	t.Run("Truncate", func(t *testing.T) {
		tf := &TableFormatter{MaxWidth: 10, TruncateString: "..."}
		assert.Equal(t, "short", tf.truncate("short"))
		got := tf.truncate(strings.Repeat("x", 20))
		assert.Equal(t, "xxxxxxx...", got)
		assert.Len(t, got, 10)
	})
}
