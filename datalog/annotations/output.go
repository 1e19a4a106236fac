package annotations

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

// OutputFormatter formats events for human-readable display.
type OutputFormatter struct {
	useColor bool
	writer   io.Writer
	renderer *MCDRenderer
}

// NewOutputFormatter creates a formatter with color support detection.
func NewOutputFormatter(w io.Writer) *OutputFormatter {
	if w == nil {
		w = os.Stdout
	}

	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isTerminal(f.Fd()) && !color.NoColor
	}

	return &OutputFormatter{
		useColor: useColor,
		writer:   w,
		renderer: NewMCDRenderer(useColor),
	}
}

// Handle implements the Handler interface - prints events as they occur
func (f *OutputFormatter) Handle(event Event) {
	output := f.Format(event)
	if output != "" {
		fmt.Fprintln(f.writer, output)
	}
}

// Format converts an event to a human-readable string.
func (f *OutputFormatter) Format(event Event) string {
	latency := f.formatLatency(event.Latency)

	switch event.Name {
	case RewriteInvoked:
		return fmt.Sprintf("%s Rewrite %s over %s (%s, run %v)",
			latency,
			truncateQuery(stringField(event, "query")),
			f.colorizeCount("views", intField(event, "views.count")),
			stringField(event, "strategy"),
			event.Data["run.id"])

	case RewriteComplete:
		if success, _ := event.Data["success"].(bool); !success {
			return fmt.Sprintf("%s %s Rewrite failed: %v",
				latency,
				f.colorize("✗", color.FgRed),
				event.Data["error"])
		}
		return fmt.Sprintf("%s %s Rewrite done with %s from %s.",
			latency,
			f.colorize("===", color.FgGreen),
			f.colorizeCount("rewritings", intField(event, "rewritings.count")),
			f.colorizeCount("MCDs", intField(event, "mcds.count")))

	case FormationBegin:
		return fmt.Sprintf("%s %s Forming MCDs from %s",
			latency,
			f.colorize("===", color.FgYellow),
			f.colorizeCount("seeds", intField(event, "seeds.count")))

	case FormationComplete:
		return fmt.Sprintf("%s Formed %s, rejected %d seeds",
			latency,
			f.colorizeCount("MCDs", intField(event, "mcds.count")),
			intField(event, "rejected.count"))

	case MCDFormed:
		subgoals, _ := event.Data["subgoals"].([]string)
		return fmt.Sprintf("%s %s", latency,
			f.renderer.RenderMCD(stringField(event, "view"), subgoals))

	case MCDRejected:
		return fmt.Sprintf("%s %s %s on %s: %s",
			latency,
			f.colorize("✗", color.FgRed),
			stringField(event, "subgoal"),
			stringField(event, "view"),
			f.renderer.RenderReason(stringField(event, "reason")))

	case MCDDeduplicated:
		return fmt.Sprintf("%s Deduplicated %d MCDs to %d",
			latency,
			intField(event, "before"),
			intField(event, "after"))

	case MCDRanked:
		rank, _ := event.Data["rank"].(float64)
		return fmt.Sprintf("%s %s %s",
			latency,
			stringField(event, "mcd"),
			f.renderer.RenderRank(rank))

	case CombineBegin:
		return fmt.Sprintf("%s %s Combining %s (%s)",
			latency,
			f.colorize("===", color.FgYellow),
			f.colorizeCount("MCDs", intField(event, "mcds.count")),
			stringField(event, "strategy"))

	case CombineComplete:
		return fmt.Sprintf("%s Combination produced %s after %d candidates",
			latency,
			f.colorizeCount("rewritings", intField(event, "rewritings.count")),
			intField(event, "candidates.count"))

	case RewritingEmitted:
		return fmt.Sprintf("%s %s", latency,
			f.renderer.RenderRewriting(intField(event, "index"), stringField(event, "rewriting")))

	case BudgetReached:
		return fmt.Sprintf("%s %s Budget of %d rewritings reached",
			latency,
			f.colorize("■", color.FgYellow),
			intField(event, "budget"))

	case RedundancyRemoved:
		return fmt.Sprintf("%s Folded %d literals into %d",
			latency,
			intField(event, "before"),
			intField(event, "after"))

	case ErrorConfiguration:
		return fmt.Sprintf("%s %s %v",
			latency,
			f.colorize("✗", color.FgRed),
			event.Data["error"])

	default:
		return fmt.Sprintf("%s %s %v", latency, event.Name, event.Data)
	}
}

func stringField(event Event, key string) string {
	s, _ := event.Data[key].(string)
	return s
}

func intField(event Event, key string) int {
	n, _ := event.Data[key].(int)
	return n
}

// formatLatency formats a duration as [XXXms] or [XXXµs] with color coding.
func (f *OutputFormatter) formatLatency(d time.Duration) string {
	if d < time.Millisecond {
		s := fmt.Sprintf("[%dµs]", d.Microseconds())
		if !f.useColor {
			return s
		}
		return color.GreenString(s)
	}

	ms := float64(d.Microseconds()) / 1000.0
	s := fmt.Sprintf("[%.1fms]", ms)

	if !f.useColor {
		return s
	}

	switch {
	case ms < 50:
		return color.GreenString(s)
	case ms < 200:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}

// colorizeCount formats a count with a label, using color based on the label type.
func (f *OutputFormatter) colorizeCount(label string, count int) string {
	text := fmt.Sprintf("%d %s", count, label)

	if !f.useColor {
		return text
	}

	switch strings.ToLower(label) {
	case "mcds":
		return color.CyanString(text)
	case "rewritings":
		return color.MagentaString(text)
	case "views", "seeds":
		return color.BlueString(text)
	default:
		return text
	}
}

// colorize applies color if enabled.
func (f *OutputFormatter) colorize(text string, attrs ...color.Attribute) string {
	if !f.useColor {
		return text
	}
	return color.New(attrs...).Sprint(text)
}

// truncateQuery shortens long queries for display.
func truncateQuery(query string) string {
	query = strings.Join(strings.Fields(query), " ")

	const maxLen = 80
	if len(query) <= maxLen {
		return query
	}

	return query[:maxLen-3] + "..."
}

// ConsoleHandler creates a handler that prints formatted events to stderr,
// colored when stderr is a terminal.
func ConsoleHandler() Handler {
	return WriterHandler(os.Stderr)
}

// WriterHandler creates a handler that prints formatted events to w.
func WriterHandler(w io.Writer) Handler {
	formatter := NewOutputFormatter(w)
	return formatter.Handle
}

// isTerminal checks if the file descriptor is stdout or stderr.
func isTerminal(fd uintptr) bool {
	return fd == uintptr(1) || fd == uintptr(2)
}
