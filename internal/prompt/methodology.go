// Package prompt builds the generation and repair instructions sent to the
// model. Every function here is pure: the same input always produces the
// same text, so outputs can be locked down by tests.
package prompt

import (
	"fmt"
	"strings"

	"github.com/discipleshipbydesign/blueprint/internal/blueprint"
)

// Movement pairs a pedagogical stage with the Bloom levels it covers.
type Movement struct {
	Name    blueprint.Movement
	Levels  []blueprint.BloomLevel
	Summary string
}

// Method is the teaching method every generated plan must follow.
type Method struct {
	Convictions []string
	Movements   []Movement
	// Dimensions maps head/heart/hands to the question each answers.
	Dimensions [3][2]string
}

// DefaultMethod is the Discipleship by Design method.
var DefaultMethod = Method{
	Convictions: []string{
		"Discipleship is formation, not information.",
		"Teaching must move from understanding to transformation.",
		"Learning must engage head, heart, and hands.",
	},
	Movements: []Movement{
		{
			Name:    blueprint.MovementInform,
			Levels:  []blueprint.BloomLevel{blueprint.BloomRemember, blueprint.BloomUnderstand},
			Summary: "Clarify truth through recall and understanding.",
		},
		{
			Name:    blueprint.MovementInspire,
			Levels:  []blueprint.BloomLevel{blueprint.BloomApply, blueprint.BloomAnalyze},
			Summary: "Connect truth to life through application and discussion.",
		},
		{
			Name:    blueprint.MovementInvolve,
			Levels:  []blueprint.BloomLevel{blueprint.BloomEvaluate, blueprint.BloomCreate},
			Summary: "Confirm transformation and invite creative response.",
		},
	},
	Dimensions: [3][2]string{
		{"head", "What must they understand?"},
		{"heart", "What must they value?"},
		{"hands", "What must they practice?"},
	},
}

func (m Method) write(b *strings.Builder) {
	b.WriteString("DISCIPLESHIP BY DESIGN METHOD (MANDATORY)\n")
	b.WriteString("Core convictions:\n")
	for _, c := range m.Convictions {
		fmt.Fprintf(b, "- %s\n", c)
	}
	b.WriteString("Three movements (every flow segment is tagged with exactly one):\n")
	for _, mv := range m.Movements {
		levels := make([]string, len(mv.Levels))
		for i, l := range mv.Levels {
			levels[i] = string(l)
		}
		fmt.Fprintf(b, "- %s (Bloom: %s): %s\n", mv.Name, strings.Join(levels, " + "), mv.Summary)
	}
	b.WriteString("Objective dimensions:\n")
	for _, d := range m.Dimensions {
		fmt.Fprintf(b, "- %s: %s\n", d[0], d[1])
	}
}
