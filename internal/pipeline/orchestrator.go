package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/discipleshipbydesign/blueprint/internal/blueprint"
	"github.com/discipleshipbydesign/blueprint/internal/ctxutil"
	"github.com/discipleshipbydesign/blueprint/internal/intake"
	"github.com/discipleshipbydesign/blueprint/internal/llm"
	"github.com/discipleshipbydesign/blueprint/internal/logger"
	"github.com/discipleshipbydesign/blueprint/internal/observability"
	"github.com/discipleshipbydesign/blueprint/internal/prompt"
)

// Invoker sends a prompt to the model and returns its raw text.
type Invoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Persister stores a validated blueprint and returns its id.
type Persister interface {
	Insert(ctx context.Context, ownerID string, in intake.Normalized, bp *blueprint.Blueprint) (string, error)
}

// Result is a successful run.
type Result struct {
	ID         string
	Blueprint  *blueprint.Blueprint
	Intake     intake.Normalized
	Attempts   []Attempt
	RequestID  string
	Repaired   bool
	WrapperHit blueprint.Wrapper
}

// Orchestrator runs the generation state machine. It holds no per-run
// state and is safe for concurrent use.
type Orchestrator struct {
	invoker   Invoker
	persister Persister
	validator *blueprint.Validator
	log       *logger.Logger
	tracer    trace.Tracer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

func WithLogger(l *logger.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

func WithValidator(v *blueprint.Validator) Option {
	return func(o *Orchestrator) { o.validator = v }
}

func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = t }
}

// New returns an Orchestrator over inv and p.
func New(inv Invoker, p Persister, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		invoker:   inv,
		persister: p,
		validator: blueprint.NewValidator(),
		log:       logger.Nop(),
		tracer:    observability.Tracer("blueprint/pipeline"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunJSON parses body as an intake and runs it. Decode failures are
// reported as intake-validate.
func (o *Orchestrator) RunJSON(ctx context.Context, ownerID string, body []byte) (*Result, error) {
	in, err := intake.Parse(body)
	if err != nil {
		f := intakeFailure(err)
		f.RequestID = ctxutil.RequestID(ctx)
		o.logFailure(f)
		return nil, f
	}
	return o.Run(ctx, ownerID, in)
}

// Run executes one generation for ownerID. Every error is a *Failure.
func (o *Orchestrator) Run(ctx context.Context, ownerID string, in intake.Intake) (res *Result, err error) {
	r := &run{
		o:         o,
		ownerID:   ownerID,
		in:        in,
		requestID: ctxutil.RequestID(ctx),
	}

	ctx, span := o.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(attribute.String("request_id", r.requestID)))
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			r.fail(StageUnhandled, fmt.Sprint(rec), nil)
			res, err = nil, r.failure
		}
		if err != nil {
			var f *Failure
			if errors.As(err, &f) {
				span.SetAttributes(attribute.String("stage", string(f.Stage)))
				o.logFailure(f)
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	state := StateStart
	for state != StateDone && state != StateFailed {
		state = r.step(ctx, state)
	}

	if state == StateFailed {
		return nil, r.failure
	}
	span.SetAttributes(attribute.Int("attempts", len(r.attempts)))
	o.log.Info("blueprint generated",
		"request_id", r.requestID,
		"id", r.id,
		"role", string(r.n.Role),
		"attempts", len(r.attempts),
		"repaired", len(r.attempts) > 1,
		"wrapper", string(r.wrapper),
	)
	return &Result{
		ID:         r.id,
		Blueprint:  r.bp,
		Intake:     r.n,
		Attempts:   r.attempts,
		RequestID:  r.requestID,
		Repaired:   len(r.attempts) > 1,
		WrapperHit: r.wrapper,
	}, nil
}

func (o *Orchestrator) logFailure(f *Failure) {
	o.log.Error("blueprint generation failed",
		"request_id", f.RequestID,
		"stage", string(f.Stage),
		"message", f.Message,
		"error", f.Err,
		"violations", f.Violations.String(),
		"candidate_keys", f.CandidateKeys,
		"attempts", len(f.Attempts),
		"raw", f.Raw,
	)
}

// run is the mutable state of one Run call.
type run struct {
	o         *Orchestrator
	ownerID   string
	in        intake.Intake
	requestID string

	n         intake.Normalized
	prompt    string
	attempts  []Attempt
	raw       string
	candidate any
	wrapper   blueprint.Wrapper
	bp        *blueprint.Blueprint
	id        string

	// trigger is the stage that sent the run into repairing.
	trigger Stage
	failure *Failure
}

func (r *run) step(ctx context.Context, state State) State {
	ctx, span := r.o.tracer.Start(ctx, "pipeline."+string(state))
	defer span.End()

	var next State
	switch state {
	case StateStart:
		next = StateNormalizing
	case StateNormalizing:
		next = r.normalize()
	case StateComposing:
		r.prompt = prompt.Compose(r.n)
		next = StateInvoking
	case StateInvoking:
		next = r.invoke(ctx)
	case StateParsing:
		next = r.parse()
	case StateValidating:
		next = r.validate()
	case StateRepairing:
		next = r.repair()
	case StatePersisting:
		next = r.persist(ctx)
	default:
		r.fail(StageUnhandled, fmt.Sprintf("unknown state %q", state), nil)
		next = StateFailed
	}

	span.SetAttributes(attribute.String("next", string(next)))
	if next == StateFailed && r.failure != nil {
		span.SetAttributes(attribute.String("stage", string(r.failure.Stage)))
		span.SetStatus(codes.Error, r.failure.Message)
	}
	return next
}

func (r *run) isRepair() bool {
	return len(r.attempts) > 1
}

func (r *run) current() *Attempt {
	return &r.attempts[len(r.attempts)-1]
}

func (r *run) normalize() State {
	n, err := intake.Normalize(r.in)
	if err != nil {
		f := intakeFailure(err)
		f.RequestID = r.requestID
		r.failure = f
		return StateFailed
	}
	r.n = n
	return StateComposing
}

func (r *run) invoke(ctx context.Context) State {
	if len(r.attempts) >= MaxInvocations {
		r.fail(StageUnhandled, "attempt budget exhausted", nil)
		return StateFailed
	}

	purpose := llm.PurposeBlueprint
	if len(r.attempts) > 0 {
		purpose = llm.PurposeRepair
	}
	r.attempts = append(r.attempts, Attempt{Purpose: purpose, Prompt: r.prompt})

	raw, err := r.o.invoker.Invoke(llm.WithPurpose(ctx, purpose), r.prompt)
	r.raw = raw
	r.current().Raw = blueprint.Truncate(raw)
	if err != nil {
		r.current().Error = err.Error()
	}

	var cfgErr *llm.ErrConfig
	switch {
	case err == nil:
		return StateParsing
	case errors.As(err, &cfgErr):
		r.fail(StageConfig, cfgErr.Error(), err)
		return StateFailed
	case r.isRepair():
		f := r.fail(StageRepairEmpty, "Model repair returned empty output.", err)
		r.withFirstAttempt(f)
		return StateFailed
	case errors.Is(err, llm.ErrUpstreamEmpty):
		r.current().Violations = blueprint.Violations{{Message: "output was empty"}}
		r.trigger = StageOpenAI
		return StateRepairing
	default:
		r.fail(StageOpenAI, "Model request failed.", err)
		return StateFailed
	}
}

func (r *run) parse() State {
	v, err := blueprint.ParseRaw(r.raw)
	if err != nil {
		if r.isRepair() {
			f := r.fail(StageJSONParseRepair, "Model repair returned invalid JSON.", err)
			f.Violations = r.attempts[0].Violations
			f.Raw = blueprint.Truncate(r.raw)
			return StateFailed
		}
		r.current().Violations = blueprint.Violations{{Message: err.Error()}}
		r.trigger = StageJSONParse
		return StateRepairing
	}
	r.candidate, r.wrapper = blueprint.Unwrap(v)
	r.current().Wrapper = r.wrapper
	r.current().CandidateKeys = blueprint.TopLevelKeys(r.candidate)
	return StateValidating
}

func (r *run) validate() State {
	res := r.o.validator.Validate(r.candidate)
	if res.Valid() {
		r.bp = res.Blueprint
		return StatePersisting
	}
	r.current().Violations = res.Violations

	if r.isRepair() {
		f := r.fail(StageSchemaValidateRepair, "Blueprint schema validation failed (after repair).", nil)
		f.Violations = res.Violations
		f.Raw = blueprint.Truncate(r.raw)
		f.CandidateKeys = r.current().CandidateKeys
		return StateFailed
	}
	r.trigger = StageSchemaValidate
	return StateRepairing
}

func (r *run) repair() State {
	first := r.attempts[0]
	r.o.log.Warn("blueprint first attempt rejected, repairing",
		"request_id", r.requestID,
		"trigger", string(r.trigger),
		"violations", first.Violations.String(),
		"candidate_keys", first.CandidateKeys,
		"raw", first.Raw,
	)
	r.prompt = prompt.Repair(first.Violations, r.raw)
	r.candidate = nil
	return StateInvoking
}

func (r *run) persist(ctx context.Context) State {
	id, err := r.o.persister.Insert(ctx, r.ownerID, r.n, r.bp)
	if err != nil {
		r.fail(StageInsert, err.Error(), err)
		return StateFailed
	}
	r.id = id
	return StateDone
}

// withFirstAttempt copies the diagnostics of the first attempt onto f.
func (r *run) withFirstAttempt(f *Failure) {
	first := r.attempts[0]
	f.Violations = first.Violations
	f.Raw = first.Raw
	f.CandidateKeys = first.CandidateKeys
}

func intakeFailure(err error) *Failure {
	f := &Failure{Stage: StageIntakeValidate, Message: "Invalid intake.", Err: err}
	var inv *intake.InvalidError
	if errors.As(err, &inv) {
		for _, v := range inv.Violations {
			f.Violations = append(f.Violations, blueprint.Violation{Path: v.Path, Message: v.Message})
		}
	}
	return f
}

func (r *run) fail(stage Stage, msg string, err error) *Failure {
	r.failure = &Failure{
		Stage:     stage,
		Message:   msg,
		Attempts:  r.attempts,
		RequestID: r.requestID,
		Err:       err,
	}
	return r.failure
}
