package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/discipleshipbydesign/blueprint/internal/ctxutil"
	"github.com/discipleshipbydesign/blueprint/internal/logger"
	"github.com/discipleshipbydesign/blueprint/internal/store"
)

type recordingRepo struct {
	store.EventRepo

	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

type fixedModelProvider struct {
	*MockProvider
	model string
}

func (p fixedModelProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	resp, err := p.MockProvider.Generate(ctx, req)
	if resp != nil {
		resp.Model = p.model
	}
	return resp, err
}

func (p fixedModelProvider) ModelID() string { return p.model }

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	inner := fixedModelProvider{
		MockProvider: NewMockProvider(MockResponse{Text: `{"a":1}`, Usage: Usage{InputTokens: 1000, OutputTokens: 500}}),
		model:        "gpt-4.1-mini",
	}
	p := WithLogging(inner, ProviderOpenAI, repo, logger.Nop())

	ctx := WithPurpose(context.Background(), PurposeBlueprint)
	ctx = ctxutil.WithTraceData(ctx, &ctxutil.TraceData{RequestID: "req-1"})
	if _, err := p.Generate(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "hello"}}, JSON: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	e := repo.events[0]
	if e.Provider != ProviderOpenAI || e.Model != "gpt-4.1-mini" || e.Purpose != PurposeBlueprint {
		t.Errorf("unexpected identity fields %+v", e)
	}
	if e.RequestID != "req-1" {
		t.Errorf("request id = %q", e.RequestID)
	}
	if !e.Success || e.ErrorMessage != "" {
		t.Errorf("expected success, got %+v", e)
	}
	if e.InputTokens != 1000 || e.OutputTokens != 500 {
		t.Errorf("tokens = %d/%d", e.InputTokens, e.OutputTokens)
	}
	// 1000*0.4/1M + 500*1.6/1M
	if want := 0.0012; e.CostUSD < want-1e-12 || e.CostUSD > want+1e-12 {
		t.Errorf("cost = %v, want %v", e.CostUSD, want)
	}
	if !strings.Contains(e.RequestBody, "[system]\nsys") || !strings.Contains(e.RequestBody, "[user]\nhello") {
		t.Errorf("request body = %q", e.RequestBody)
	}
	if e.ResponseBody != `{"a":1}` {
		t.Errorf("response body = %q", e.ResponseBody)
	}
}

func TestLoggingProvider_RecordsFailure(t *testing.T) {
	repo := &recordingRepo{}
	p := WithLogging(NewMockProvider(MockResponse{Err: &ErrRateLimit{}}), ProviderOpenAI, repo, logger.Nop())

	_, err := p.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %v", err)
	}
	if len(repo.events) != 1 || repo.events[0].Success || repo.events[0].ErrorMessage == "" {
		t.Fatalf("expected failed event, got %+v", repo.events)
	}
	if repo.events[0].Purpose != "unknown" {
		t.Errorf("purpose = %q", repo.events[0].Purpose)
	}
}

func TestLoggingProvider_RepoErrorDoesNotFailCall(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockResponse{Text: "{}"}), ProviderMock, repo, nil)

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "{}" {
		t.Fatalf("text = %q", resp.Text)
	}
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	p := WithLogging(NewMockProvider(MockResponse{Text: "{}"}), ProviderMock, nil, logger.Nop())
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("model = %q", p.ModelID())
	}
}

func TestLoggingProvider_WithStore(t *testing.T) {
	s, err := store.Open("file:llm_logging_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	p := WithLogging(NewMockProvider(MockResponse{Text: "{}"}), ProviderMock, s.EventRepo(), logger.Nop())
	ctx := WithPurpose(context.Background(), PurposeRepair)
	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 || events[0].Purpose != PurposeRepair {
		t.Fatalf("unexpected events %+v", events)
	}
}
