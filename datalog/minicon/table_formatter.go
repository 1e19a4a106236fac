package minicon

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// TableFormatter renders MCDs and rewritings as markdown tables
type TableFormatter struct {
	// MaxWidth is the maximum width for a column
	MaxWidth int
	// TruncateString is the string to append when truncating
	TruncateString string
}

// NewTableFormatter creates a new table formatter with default settings
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		MaxWidth:       60,
		TruncateString: "...",
	}
}

// FormatMCDs renders one row per MCD: view, covered subgoals, variable and
// constant mappings, and rank.
func (tf *TableFormatter) FormatMCDs(mcds []*MCD) string {
	if len(mcds) == 0 {
		return "_No MCDs_"
	}

	rows := make([][]string, len(mcds))
	for i, m := range mcds {
		subgoals := m.Subgoals()
		names := make([]string, len(subgoals))
		for j, s := range subgoals {
			names[j] = s.String()
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			m.View().Name,
			tf.truncate(strings.Join(names, " ")),
			tf.truncate(m.Mappings().VarMap.String()),
			tf.truncate(m.Mappings().ConstMap.String()),
			strconv.FormatFloat(m.Rank, 'f', 2, 64),
		}
	}
	return tf.formatTable([]string{"#", "view", "subgoals", "variables", "constants", "rank"}, rows)
}

// FormatRewritings renders one row per rewriting with the views it uses
func (tf *TableFormatter) FormatRewritings(rws []*Rewriting) string {
	if len(rws) == 0 {
		return "_No rewritings_"
	}

	rows := make([][]string, len(rws))
	for i, rw := range rws {
		views := make([]string, len(rw.MCDs()))
		for j, m := range rw.MCDs() {
			views[j] = m.View().Name
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			rw.String(),
			strings.Join(views, " "),
		}
	}
	return tf.formatTable([]string{"#", "rewriting", "views"}, rows)
}

// formatTable formats headers and rows as a markdown table
func (tf *TableFormatter) formatTable(headers []string, rows [][]string) string {
	tableString := &strings.Builder{}

	alignment := make([]tw.Align, len(headers))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}

	table := tablewriter.NewTable(tableString,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)

	table.Header(headers)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()

	tableString.WriteString(fmt.Sprintf("\n_%d rows_\n", len(rows)))
	return tableString.String()
}

func (tf *TableFormatter) truncate(s string) string {
	if tf.MaxWidth <= 0 || len(s) <= tf.MaxWidth {
		return s
	}
	return s[:tf.MaxWidth-len(tf.TruncateString)] + tf.TruncateString
}
