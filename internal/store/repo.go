package store

import (
	"context"
	"errors"
	"time"

	"github.com/discipleshipbydesign/blueprint/internal/blueprint"
	"github.com/discipleshipbydesign/blueprint/internal/intake"
)

// ErrNotFound is returned by Get when the id is unknown or the stored
// document no longer satisfies the current validator.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // id > After
	Before  int64     // id < Before
	From    time.Time // created_at >= From
	To      time.Time // created_at <= To
	Purpose string    // exact match when set
	// RequestID limits results to the calls of one generation run.
	RequestID string
}

// Record is one stored generation.
type Record struct {
	ID            string
	OwnerID       string
	SchemaVersion string
	Title         string
	Role          intake.Role
	GroupName     string
	Intake        intake.Normalized
	Blueprint     *blueprint.Blueprint
	CreatedAt     time.Time
}

// ListItem is the denormalized row used by list views.
type ListItem struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Role      intake.Role `json:"role"`
	GroupName string      `json:"groupName"`
	CreatedAt time.Time   `json:"createdAt"`
}

// BlueprintRepo persists validated blueprints. Rows are append-only.
type BlueprintRepo interface {
	// Insert stores bp for ownerID and returns the new record id.
	Insert(ctx context.Context, ownerID string, in intake.Normalized, bp *blueprint.Blueprint) (string, error)

	// Get returns the record with the given id, re-validated against the
	// current schema. Returns ErrNotFound for unknown or invalid rows.
	Get(ctx context.Context, id string) (*Record, error)

	// ListByOwner returns up to limit rows for ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]ListItem, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	RequestID    string
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates calls and tokens per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates calls, tokens and recorded cost per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}

// PurposeUsage is one row of LLMUsageByPurpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage is one row of LLMUsageByModel.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	CostUSD      float64
}
