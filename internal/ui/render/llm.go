package render

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/discipleshipbydesign/blueprint/internal/llm"
	"github.com/discipleshipbydesign/blueprint/internal/store"
	"github.com/discipleshipbydesign/blueprint/internal/ui/theme"
)

const timeLayout = "2006-01-02 15:04:05"

// Runs writes one line per generation run, newest first as given.
func Runs(w io.Writer, runs []store.GenerationRun) {
	if len(runs) == 0 {
		fmt.Fprintln(w, theme.Hint.Render("No generation runs recorded yet."))
		return
	}
	header := fmt.Sprintf("%-36s  %-19s  %-24s  %5s  %8s  %9s  %s",
		"Request", "Started", "Model", "Calls", "Tokens", "Cost", "Result")
	fmt.Fprintln(w, theme.Label.Render(header))
	rule(w, len(header))
	for _, g := range runs {
		req := g.RequestID
		if req == "" {
			req = "(untracked)"
		}
		fmt.Fprintf(w, "%-36s  %-19s  %-24s  %5d  %8d  %9s  %s\n",
			req,
			g.Started.Local().Format(timeLayout),
			truncate(g.Model, 24),
			len(g.Calls),
			g.InputTokens+g.OutputTokens,
			Cost(g.CostUSD),
			runResult(g),
		)
	}
}

func runResult(g store.GenerationRun) string {
	switch {
	case !g.LastCallOK():
		return theme.Failed.Render("call failed")
	case g.Repaired():
		return lipgloss.NewStyle().Foreground(theme.Accent).Render("repaired")
	default:
		return theme.OK.Render("first try")
	}
}

// Events writes one line per model call.
func Events(w io.Writer, events []store.LLMEventRecord) {
	if len(events) == 0 {
		fmt.Fprintln(w, theme.Hint.Render("No model calls found."))
		return
	}
	header := fmt.Sprintf("%-5s  %-19s  %-16s  %-24s  %-36s  %6s  %6s  %7s  %s",
		"ID", "Timestamp", "Purpose", "Model", "Request", "In", "Out", "Ms", "OK")
	fmt.Fprintln(w, theme.Label.Render(header))
	rule(w, len(header))
	for _, e := range events {
		mark := theme.OK.Render("✓")
		if !e.Success {
			mark = theme.Failed.Render("✗")
		}
		fmt.Fprintf(w, "%-5d  %-19s  %-16s  %-24s  %-36s  %6d  %6d  %7d  %s\n",
			e.ID,
			e.Timestamp.Local().Format(timeLayout),
			e.Purpose,
			truncate(e.Model, 24),
			e.RequestID,
			e.InputTokens,
			e.OutputTokens,
			e.LatencyMs,
			mark,
		)
	}
}

// Event writes the full record of one model call, prompt and output included.
func Event(w io.Writer, e *store.LLMEventRecord) {
	fmt.Fprintln(w, field("ID", fmt.Sprint(e.ID)))
	fmt.Fprintln(w, field("Time", e.Timestamp.Local().Format(timeLayout)))
	fmt.Fprintln(w, field("Provider", e.Provider))
	fmt.Fprintln(w, field("Model", e.Model))
	fmt.Fprintln(w, field("Purpose", e.Purpose))
	if e.RequestID != "" {
		fmt.Fprintln(w, field("Request", e.RequestID))
	}
	fmt.Fprintln(w, field("Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)))
	fmt.Fprintln(w, field("Latency", fmt.Sprintf("%dms", e.LatencyMs)))
	fmt.Fprintln(w, field("Cost", Cost(e.CostUSD)))
	if e.Success {
		fmt.Fprintln(w, field("Result", theme.OK.Render("ok")))
	} else {
		fmt.Fprintln(w, field("Result", theme.Failed.Render(e.ErrorMessage)))
	}

	body(w, "Prompt", e.RequestBody)
	body(w, "Model output", e.ResponseBody)
}

func body(w io.Writer, title, text string) {
	section(w, title)
	if text == "" {
		fmt.Fprintln(w, theme.Hint.Render("(not captured)"))
		return
	}
	fmt.Fprintln(w, text)
}

// ModelCost is a per-model usage row with its cost resolved. Priced is false
// when neither a recorded cost nor a pricing entry exists.
type ModelCost struct {
	store.ModelUsage
	Priced bool
}

// Usage writes call and token totals per purpose, the repair rate, and cost
// per model.
func Usage(w io.Writer, purposes []store.PurposeUsage, models []ModelCost) {
	if len(purposes) == 0 {
		fmt.Fprintln(w, theme.Hint.Render("No model usage recorded yet."))
		return
	}

	section(w, "Calls by purpose")
	header := fmt.Sprintf("%-18s  %6s  %10s  %10s  %8s", "Purpose", "Calls", "Input", "Output", "Avg Ms")
	fmt.Fprintln(w, theme.Label.Render(header))
	rule(w, len(header))
	var firstCalls, repairCalls, totalIn, totalOut int
	for _, p := range purposes {
		fmt.Fprintf(w, "%-18s  %6d  %10d  %10d  %8d\n",
			p.Purpose, p.Calls, p.InputTokens, p.OutputTokens, p.AvgLatencyMs)
		switch p.Purpose {
		case llm.PurposeBlueprint:
			firstCalls += p.Calls
		case llm.PurposeRepair:
			repairCalls += p.Calls
		}
		totalIn += p.InputTokens
		totalOut += p.OutputTokens
	}
	rule(w, len(header))
	fmt.Fprintf(w, "%-18s  %6s  %10d  %10d\n", "TOTAL", "", totalIn, totalOut)
	if firstCalls > 0 {
		fmt.Fprintf(w, "\n%s %d of %d runs needed a repair (%.0f%%)\n",
			theme.Label.Render("Repair rate:"), repairCalls, firstCalls,
			100*float64(repairCalls)/float64(firstCalls))
	}

	if len(models) == 0 {
		return
	}
	section(w, "Estimated cost (USD)")
	header = fmt.Sprintf("%-32s  %6s  %10s  %10s  %9s", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Fprintln(w, theme.Label.Render(header))
	rule(w, len(header))
	var total float64
	var unpriced []string
	for _, m := range models {
		cost := "?"
		if m.Priced {
			cost = Cost(m.CostUSD)
			total += m.CostUSD
		} else {
			unpriced = append(unpriced, m.Model)
		}
		fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %9s\n",
			truncate(m.Model, 32), m.Calls, m.InputTokens, m.OutputTokens, cost)
	}
	rule(w, len(header))
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %9s\n", label, "", "", "", Cost(total))
	if len(unpriced) > 0 {
		fmt.Fprintln(w, theme.Hint.Render("Pricing unavailable for: "+strings.Join(unpriced, ", ")))
	}
}

// Cost formats a dollar amount, keeping sub-cent precision for single calls.
func Cost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func rule(w io.Writer, width int) {
	fmt.Fprintln(w, lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", width)))
}
