package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo over the llm_events table.
type eventRepo struct {
	s *Store
}

var llmEventColumns = []string{
	"id", "created_at", "request_id", "provider", "model", "purpose",
	"input_tokens", "output_tokens", "cost_usd", "latency_ms", "success",
	"error_message", "request_body", "response_body",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	query, args := r.s.builder().Insert(tableLLMEvents).
		Columns(llmEventColumns[1:]...).
		Values(
			time.Now().UTC(),
			data.RequestID,
			data.Provider,
			data.Model,
			data.Purpose,
			data.InputTokens,
			data.OutputTokens,
			data.CostUSD,
			data.LatencyMs,
			data.Success,
			data.ErrorMessage,
			data.RequestBody,
			data.ResponseBody,
		).
		Query()

	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error) {
	t := entsql.Table(tableLLMEvents)
	sel := r.s.builder().Select(columns(t, llmEventColumns)...).From(t)

	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT(t.C("id"), opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT(t.C("id"), opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(t.C("created_at"), opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(t.C("created_at"), opts.To.UTC()))
	}
	if opts.Purpose != "" {
		preds = append(preds, entsql.EQ(t.C("purpose"), opts.Purpose))
	}
	if opts.RequestID != "" {
		preds = append(preds, entsql.EQ(t.C("request_id"), opts.RequestID))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Desc(t.C("id")))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMEventRecord
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int64) (*LLMEventRecord, error) {
	t := entsql.Table(tableLLMEvents)
	query, args := r.s.builder().
		Select(columns(t, llmEventColumns)...).
		From(t).
		Where(entsql.EQ(t.C("id"), id)).
		Query()

	e, err := scanLLMEvent(r.s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	t := entsql.Table(tableLLMEvents)
	query, args := r.s.builder().
		Select(
			t.C("purpose"),
			entsql.As(entsql.Count("*"), "calls"),
			entsql.As(entsql.Sum(t.C("input_tokens")), "input_tokens"),
			entsql.As(entsql.Sum(t.C("output_tokens")), "output_tokens"),
			entsql.As(entsql.Avg(t.C("latency_ms")), "avg_latency_ms"),
		).
		From(t).
		GroupBy(t.C("purpose")).
		OrderBy(t.C("purpose")).
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	defer rows.Close()

	var out []PurposeUsage
	for rows.Next() {
		var (
			u       PurposeUsage
			in, res int64
			avg     float64
		)
		if err := rows.Scan(&u.Purpose, &u.Calls, &in, &res, &avg); err != nil {
			return nil, fmt.Errorf("scan usage row: %w", err)
		}
		u.InputTokens, u.OutputTokens, u.AvgLatencyMs = int(in), int(res), int64(avg)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	t := entsql.Table(tableLLMEvents)
	query, args := r.s.builder().
		Select(
			t.C("model"),
			entsql.As(entsql.Count("*"), "calls"),
			entsql.As(entsql.Sum(t.C("input_tokens")), "input_tokens"),
			entsql.As(entsql.Sum(t.C("output_tokens")), "output_tokens"),
			entsql.As(entsql.Sum(t.C("cost_usd")), "cost_usd"),
		).
		From(t).
		GroupBy(t.C("model")).
		OrderBy(t.C("model")).
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	defer rows.Close()

	var out []ModelUsage
	for rows.Next() {
		var (
			u       ModelUsage
			in, res int64
		)
		if err := rows.Scan(&u.Model, &u.Calls, &in, &res, &u.CostUSD); err != nil {
			return nil, fmt.Errorf("scan usage row: %w", err)
		}
		u.InputTokens, u.OutputTokens = int(in), int(res)
		out = append(out, u)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLLMEvent(row scanner) (*LLMEventRecord, error) {
	var e LLMEventRecord
	err := row.Scan(
		&e.ID, &e.Timestamp, &e.RequestID, &e.Provider, &e.Model, &e.Purpose,
		&e.InputTokens, &e.OutputTokens, &e.CostUSD, &e.LatencyMs, &e.Success,
		&e.ErrorMessage, &e.RequestBody, &e.ResponseBody,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan LLM event: %w", err)
	}
	return &e, nil
}

func columns(t *entsql.SelectTable, names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = t.C(n)
	}
	return out
}

// GenerationRun is the set of model calls made for one request id: the
// first attempt and, when it was rejected, the repair.
type GenerationRun struct {
	RequestID    string
	Started      time.Time
	Model        string
	Calls        []LLMEventRecord // oldest first
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	LatencyMs    int64
}

// Repaired reports whether the run made a repair call. A run makes at most
// two calls and only the second can be a repair.
func (g GenerationRun) Repaired() bool { return len(g.Calls) > 1 }

// LastCallOK reports whether the final call returned output. A run can still
// fail validation after a successful call.
func (g GenerationRun) LastCallOK() bool {
	return len(g.Calls) > 0 && g.Calls[len(g.Calls)-1].Success
}

// GroupRuns groups newest-first events by request id, keeping the order in
// which runs first appear. Events without a request id form their own run.
func GroupRuns(events []LLMEventRecord) []GenerationRun {
	var runs []GenerationRun
	index := make(map[string]int)
	for _, e := range events {
		i, ok := index[e.RequestID]
		if !ok || e.RequestID == "" {
			runs = append(runs, GenerationRun{RequestID: e.RequestID})
			i = len(runs) - 1
			index[e.RequestID] = i
		}
		g := &runs[i]
		g.Calls = append([]LLMEventRecord{e}, g.Calls...)
		g.Started = e.Timestamp
		g.Model = e.Model
		g.InputTokens += e.InputTokens
		g.OutputTokens += e.OutputTokens
		g.CostUSD += e.CostUSD
		g.LatencyMs += e.LatencyMs
	}
	return runs
}
