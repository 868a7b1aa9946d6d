package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/discipleshipbydesign/blueprint/internal/logger"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	return cfg
}

func TestInvoker_MissingKeyIsConfigError(t *testing.T) {
	cfg := DefaultConfig() // openai, no key
	inv := NewInvoker(context.Background(), cfg, nil, logger.Nop())

	var cfgErr *ErrConfig
	if !errors.As(inv.Ready(), &cfgErr) {
		t.Fatalf("Ready() = %v, want *ErrConfig", inv.Ready())
	}
	_, err := inv.Invoke(context.Background(), "prompt")
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Invoke error = %v, want *ErrConfig", err)
	}
	if cfgErr.Provider != ProviderOpenAI {
		t.Errorf("provider = %q", cfgErr.Provider)
	}
	if inv.ModelID() != "" {
		t.Errorf("unconfigured invoker reported model %q", inv.ModelID())
	}
}

func TestInvoker_SendsFixedRequest(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: `{"ok":true}`})
	inv := NewInvokerWithProvider(mock, testConfig())

	text, err := inv.Invoke(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != `{"ok":true}` {
		t.Fatalf("text = %q", text)
	}

	req := mock.Calls[0]
	if req.System != SystemInstruction {
		t.Errorf("system = %q", req.System)
	}
	if !req.JSON {
		t.Error("expected JSON mode")
	}
	if req.Temperature != 0.3 {
		t.Errorf("temperature = %v", req.Temperature)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != RoleUser || req.Messages[0].Content != "the prompt" {
		t.Errorf("messages = %+v", req.Messages)
	}
}

func TestInvoker_ReturnsTextUntouched(t *testing.T) {
	raw := "```json\n{\"a\":1}\n```"
	inv := NewInvokerWithProvider(NewMockProvider(MockResponse{Text: raw}), testConfig())
	text, err := inv.Invoke(context.Background(), "p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != raw {
		t.Fatalf("text was modified: %q", text)
	}
}

func TestInvoker_BlankIsUpstreamEmpty(t *testing.T) {
	for _, blank := range []string{"", "   ", "\n\t"} {
		inv := NewInvokerWithProvider(NewMockProvider(MockResponse{Text: blank}), testConfig())
		_, err := inv.Invoke(context.Background(), "p")
		if !errors.Is(err, ErrUpstreamEmpty) {
			t.Fatalf("Invoke(%q) error = %v, want ErrUpstreamEmpty", blank, err)
		}
	}
}

func TestInvoker_NoRetry(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Text: `{"never":"reached"}`},
	)
	inv := NewInvokerWithProvider(mock, testConfig())

	_, err := inv.Invoke(context.Background(), "p")
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected exactly one call, got %d", mock.CallCount())
	}
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, &ErrProviderUnavailable{Err: ctx.Err()}
}

func (slowProvider) ModelID() string { return "slow" }

func TestInvoker_Timeout(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 10 * time.Millisecond
	inv := NewInvokerWithProvider(slowProvider{}, cfg)

	_, err := inv.Invoke(context.Background(), "p")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNewInvoker_Mock(t *testing.T) {
	inv := NewInvoker(context.Background(), testConfig(), nil, logger.Nop())
	if err := inv.Ready(); err != nil {
		t.Fatalf("Ready() = %v", err)
	}
	if inv.ModelID() != "mock" {
		t.Fatalf("model = %q", inv.ModelID())
	}
}
