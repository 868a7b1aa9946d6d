package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/discipleshipbydesign/blueprint/internal/ctxutil"
	"github.com/discipleshipbydesign/blueprint/internal/logger"
	"github.com/discipleshipbydesign/blueprint/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as an event
// and a log line.
type LoggingProvider struct {
	inner     Provider
	name      string
	eventRepo store.EventRepo
	log       *logger.Logger
}

// WithLogging wraps a Provider with event logging. repo may be nil, in which
// case only the log line is written.
func WithLogging(p Provider, name string, repo store.EventRepo, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingProvider{inner: p, name: name, eventRepo: repo, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		RequestID:   ctxutil.RequestID(ctx),
		Provider:    l.name,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = resp.Text
	}
	if cost := LookupCost(data.Model); cost != nil {
		data.CostUSD = cost.Cost(data.InputTokens, data.OutputTokens)
	}

	kv := []any{
		"request_id", data.RequestID,
		"provider", data.Provider,
		"model", data.Model,
		"purpose", data.Purpose,
		"input_tokens", data.InputTokens,
		"output_tokens", data.OutputTokens,
		"cost_usd", data.CostUSD,
		"latency_ms", data.LatencyMs,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.log.Warn("llm request failed", append(kv, "error", err)...)
	} else {
		l.log.Info("llm request", kv...)
	}

	// Record the event but don't fail the request if recording fails.
	if l.eventRepo != nil {
		if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
			l.log.Warn("failed to record LLM request event", "error", logErr, "request_id", data.RequestID)
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.JSON {
		b.WriteString("[response format: json_object]\n")
	}

	return b.String()
}
