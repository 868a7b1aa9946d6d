// Package pipeline turns an intake into a stored blueprint: normalize,
// compose, invoke, parse, validate, at most one repair, persist.
package pipeline

import (
	"fmt"

	"github.com/discipleshipbydesign/blueprint/internal/blueprint"
)

// Stage tags a failure with the step that produced it. The values are part
// of the HTTP contract.
type Stage string

const (
	StageAuth                 Stage = "auth"
	StageIntakeValidate       Stage = "intake-validate"
	StageConfig               Stage = "config"
	StageOpenAI               Stage = "openai"
	StageJSONParse            Stage = "json-parse"
	StageSchemaValidate       Stage = "schema-validate"
	StageRepairEmpty          Stage = "openai-repair-empty"
	StageJSONParseRepair      Stage = "json-parse-repair"
	StageSchemaValidateRepair Stage = "schema-validate-repair"
	StageInsert               Stage = "insert"
	StageUnhandled            Stage = "unhandled"
)

// MaxInvocations is the attempt budget: the first call plus one repair.
const MaxInvocations = 2

// State is a node of the run state machine.
type State string

const (
	StateStart       State = "start"
	StateNormalizing State = "normalizing"
	StateComposing   State = "composing"
	StateInvoking    State = "invoking"
	StateParsing     State = "parsing"
	StateValidating  State = "validating"
	StateRepairing   State = "repairing"
	StatePersisting  State = "persisting"
	StateFailed      State = "failed"
	StateDone        State = "done"
)

// Attempt records one model invocation.
type Attempt struct {
	Purpose       string               `json:"purpose"`
	Prompt        string               `json:"-"`
	Raw           string               `json:"raw"`
	Wrapper       blueprint.Wrapper    `json:"wrapper,omitempty"`
	CandidateKeys []string             `json:"candidateKeys,omitempty"`
	Violations    blueprint.Violations `json:"violations,omitempty"`
	Error         string               `json:"error,omitempty"`
}

// Failure is the only error Run returns. Raw is truncated to
// blueprint.MaxRawLength.
type Failure struct {
	Stage         Stage
	Message       string
	Violations    blueprint.Violations
	Raw           string
	CandidateKeys []string
	Attempts      []Attempt
	RequestID     string
	Err           error
}

func (f *Failure) Error() string {
	msg := fmt.Sprintf("%s: %s", f.Stage, f.Message)
	if f.Err != nil && f.Err.Error() != f.Message {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *Failure) Unwrap() error { return f.Err }

// Upstream reports whether the failure came from the model rather than the
// caller or this service.
func (f *Failure) Upstream() bool {
	switch f.Stage {
	case StageOpenAI, StageJSONParse, StageSchemaValidate,
		StageRepairEmpty, StageJSONParseRepair, StageSchemaValidateRepair:
		return true
	}
	return false
}
