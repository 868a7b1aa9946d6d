package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/discipleshipbydesign/blueprint/internal/blueprint"
)

// Repair builds the corrective prompt sent after a failed first attempt.
// It restates the full shape rather than a diff, then appends the
// violations and the offending output. An empty violation list means the
// output could not be parsed at all.
func Repair(violations blueprint.Violations, raw string) string {
	var b strings.Builder

	b.WriteString(`Fix the JSON to match the REQUIRED schema EXACTLY. Return ONLY the corrected JSON object.

IMPORTANT:
- Use volunteer-friendly language (simple, practical, no academic jargon).
- The Discipleship by Design method is mandatory:
  - Each session includes objectives: head, heart, hands.
  - Each session includes engagement: inform, inspire, involve.
  - Each flow item MUST include movement.
  - Flow minutes MUST sum to session durationMinutes.
`)

	b.WriteString("\nREQUIRED SHAPE (keys must match exactly)\n")
	b.WriteString(CanonicalShape())
	b.WriteString("\n")

	b.WriteString("\nHARD RULES\n")
	for _, r := range hardRules() {
		fmt.Fprintf(&b, "- %s\n", r)
	}

	b.WriteString("\nValidation errors you must fix:\n")
	b.WriteString(violationsJSON(violations))
	b.WriteString("\n")

	b.WriteString("\nBad output you produced:\n")
	b.WriteString(raw)

	return strings.TrimSpace(b.String())
}

func violationsJSON(vs blueprint.Violations) string {
	if len(vs) == 0 {
		return `{ "(root)": ["output was empty or not parseable as JSON"] }`
	}
	// Map keys are sorted by encoding/json, so the text is stable.
	data, err := json.MarshalIndent(vs.Map(), "", "  ")
	if err != nil {
		return vs.String()
	}
	return string(data)
}
