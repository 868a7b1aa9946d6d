package llm

import (
	"context"
	"strings"
	"time"

	"github.com/discipleshipbydesign/blueprint/internal/logger"
	"github.com/discipleshipbydesign/blueprint/internal/store"
)

// SystemInstruction is sent with every blueprint request.
const SystemInstruction = "Return ONLY valid JSON. No markdown. No commentary. No backticks. A single JSON object only."

// Invoker sends one prompt to one configured model and returns its raw text.
// It never retries; the pipeline owns the repair budget.
type Invoker struct {
	provider    Provider
	temperature float64
	maxTokens   int
	timeout     time.Duration

	// configErr is reported by Invoke instead of calling the provider.
	configErr error
}

// NewInvoker builds an Invoker from cfg. It never fails: a missing
// credential or unusable provider is recorded and returned from Invoke as
// *ErrConfig, so the server can start and report the problem per request.
func NewInvoker(ctx context.Context, cfg Config, events store.EventRepo, log *logger.Logger) *Invoker {
	inv := &Invoker{
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
	}
	if err := cfg.Validate(); err != nil {
		inv.configErr = err
		return inv
	}
	p, err := NewProvider(ctx, cfg, events, log)
	if err != nil {
		inv.configErr = &ErrConfig{Provider: cfg.Provider, Reason: "provider init failed", Err: err}
		return inv
	}
	inv.provider = p
	return inv
}

// NewInvokerWithProvider wraps an existing Provider using the temperature,
// token and timeout settings of cfg.
func NewInvokerWithProvider(p Provider, cfg Config) *Invoker {
	return &Invoker{
		provider:    p,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
	}
}

// Ready reports the configuration error Invoke would return, if any.
func (i *Invoker) Ready() error {
	return i.configErr
}

// ModelID returns the model used, or "" when unconfigured.
func (i *Invoker) ModelID() string {
	if i.provider == nil {
		return ""
	}
	return i.provider.ModelID()
}

// Invoke sends prompt as the single user message and returns the first
// text part untouched. Blank output is ErrUpstreamEmpty.
func (i *Invoker) Invoke(ctx context.Context, prompt string) (string, error) {
	if i.configErr != nil {
		return "", i.configErr
	}

	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	resp, err := i.provider.Generate(ctx, Request{
		System:      SystemInstruction,
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		JSON:        true,
		MaxTokens:   i.maxTokens,
		Temperature: i.temperature,
	})
	if err != nil {
		return "", err
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return "", ErrUpstreamEmpty
	}
	return resp.Text, nil
}
