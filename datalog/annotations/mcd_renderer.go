package annotations

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// MCDRenderer pretty-prints MCDs and rewritings for the event stream
type MCDRenderer struct {
	useColor bool
}

// NewMCDRenderer creates a new renderer
func NewMCDRenderer(useColor bool) *MCDRenderer {
	return &MCDRenderer{useColor: useColor}
}

// RenderMCD renders an MCD as View[subgoal subgoal]
func (r *MCDRenderer) RenderMCD(view string, subgoals []string) string {
	list := strings.Join(subgoals, " ")
	if r.useColor {
		return fmt.Sprintf("%s%s%s%s%s",
			color.BlueString("MCD("),
			color.CyanString(view),
			color.BlueString(", ["),
			color.CyanString(list),
			color.BlueString("])"))
	}
	return fmt.Sprintf("MCD(%s, [%s])", view, list)
}

// RenderRewriting renders a rewritten query, prefixed with its position
// in the output stream.
func (r *MCDRenderer) RenderRewriting(index int, rewriting string) string {
	if r.useColor {
		return fmt.Sprintf("%s %s",
			color.BlueString(fmt.Sprintf("#%d", index)),
			color.GreenString(rewriting))
	}
	return fmt.Sprintf("#%d %s", index, rewriting)
}

// RenderRank renders a preference rank
func (r *MCDRenderer) RenderRank(rank float64) string {
	s := fmt.Sprintf("rank %.2f", rank)
	if r.useColor {
		return color.MagentaString(s)
	}
	return s
}

// RenderReason renders an MCD rejection reason
func (r *MCDRenderer) RenderReason(reason string) string {
	if r.useColor {
		return color.RedString(reason)
	}
	return reason
}
