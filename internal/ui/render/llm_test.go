package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/discipleshipbydesign/blueprint/internal/store"
)

func event(id int64, req, purpose string, ok bool) store.LLMEventRecord {
	return store.LLMEventRecord{
		ID:        id,
		Timestamp: time.Date(2026, 3, 1, 9, 0, int(id), 0, time.UTC),
		LLMRequestEventData: store.LLMRequestEventData{
			RequestID:    req,
			Provider:     "openai",
			Model:        "gpt-4.1-mini",
			Purpose:      purpose,
			InputTokens:  1000,
			OutputTokens: 200,
			CostUSD:      0.002,
			Success:      ok,
			ErrorMessage: map[bool]string{true: "", false: "empty completion"}[ok],
		},
	}
}

func TestRuns(t *testing.T) {
	var buf bytes.Buffer
	Runs(&buf, nil)
	if !strings.Contains(buf.String(), "No generation runs") {
		t.Errorf("empty runs output = %q", buf.String())
	}

	buf.Reset()
	Runs(&buf, store.GroupRuns([]store.LLMEventRecord{
		event(4, "req-failed", "blueprint", false),
		event(3, "req-repaired", "blueprint-repair", true),
		event(2, "req-repaired", "blueprint", true),
		event(1, "req-clean", "blueprint", true),
	}))
	out := buf.String()
	for _, want := range []string{"req-repaired", "req-clean", "req-failed", "repaired", "first try", "call failed", "2400"} {
		if !strings.Contains(out, want) {
			t.Errorf("runs output missing %q:\n%s", want, out)
		}
	}
}

func TestEventDetail(t *testing.T) {
	e := event(7, "req-1", "blueprint-repair", false)
	e.RequestBody = "Fix the JSON to match the REQUIRED schema EXACTLY."

	var buf bytes.Buffer
	Event(&buf, &e)
	out := buf.String()
	for _, want := range []string{"req-1", "blueprint-repair", "1000 in / 200 out", "empty completion", "Fix the JSON", "(not captured)"} {
		if !strings.Contains(out, want) {
			t.Errorf("event output missing %q:\n%s", want, out)
		}
	}
}

func TestUsage(t *testing.T) {
	var buf bytes.Buffer
	Usage(&buf, []store.PurposeUsage{
		{Purpose: "blueprint", Calls: 4, InputTokens: 4000, OutputTokens: 800},
		{Purpose: "blueprint-repair", Calls: 1, InputTokens: 1500, OutputTokens: 200},
	}, []ModelCost{
		{ModelUsage: store.ModelUsage{Model: "gpt-4.1-mini", Calls: 4, CostUSD: 1.25}, Priced: true},
		{ModelUsage: store.ModelUsage{Model: "local-llama", Calls: 1}},
	})
	out := buf.String()
	for _, want := range []string{"1 of 4 runs needed a repair (25%)", "$1.25", "TOTAL (partial)", "local-llama"} {
		if !strings.Contains(out, want) {
			t.Errorf("usage output missing %q:\n%s", want, out)
		}
	}
}

func TestCost(t *testing.T) {
	if got := Cost(0.0042); got != "$0.0042" {
		t.Errorf("Cost(0.0042) = %q", got)
	}
	if got := Cost(3.5); got != "$3.50" {
		t.Errorf("Cost(3.5) = %q", got)
	}
}
