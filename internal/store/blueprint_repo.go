package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/discipleshipbydesign/blueprint/internal/blueprint"
	"github.com/discipleshipbydesign/blueprint/internal/intake"
)

const (
	// DefaultListLimit applies when ListByOwner is called with limit <= 0.
	DefaultListLimit = 50
	// MaxListLimit caps a single ListByOwner page.
	MaxListLimit = 200
)

// blueprintRepo implements BlueprintRepo with ent's SQL builder.
type blueprintRepo struct {
	s *Store
}

func (r *blueprintRepo) Insert(ctx context.Context, ownerID string, in intake.Normalized, bp *blueprint.Blueprint) (string, error) {
	if bp == nil {
		return "", errors.New("insert blueprint: nil document")
	}
	intakeJSON, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("marshal intake: %w", err)
	}
	docJSON, err := json.Marshal(bp)
	if err != nil {
		return "", fmt.Errorf("marshal blueprint: %w", err)
	}

	id := uuid.NewString()
	query, args := r.s.builder().Insert(tableBlueprints).
		Columns("id", "owner_id", "schema_version", "title", "role", "group_name", "intake", "blueprint", "created_at").
		Values(id, ownerID, blueprint.SchemaVersion, bp.Header.Title, string(bp.Header.Role), bp.Header.PreparedFor.GroupName,
			string(intakeJSON), string(docJSON), time.Now().UTC()).
		Query()

	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert blueprint: %w", err)
	}
	return id, nil
}

func (r *blueprintRepo) Get(ctx context.Context, id string) (*Record, error) {
	if rec, ok := r.s.cache.Get(id); ok {
		return rec.clone()
	}

	t := entsql.Table(tableBlueprints)
	query, args := r.s.builder().
		Select(t.C("id"), t.C("owner_id"), t.C("schema_version"), t.C("title"), t.C("role"),
			t.C("group_name"), t.C("intake"), t.C("blueprint"), t.C("created_at")).
		From(t).
		Where(entsql.EQ(t.C("id"), id)).
		Query()

	var (
		rec       Record
		role      string
		intakeRaw []byte
		docRaw    []byte
	)
	err := r.s.db.QueryRowContext(ctx, query, args...).Scan(
		&rec.ID, &rec.OwnerID, &rec.SchemaVersion, &rec.Title, &role,
		&rec.GroupName, &intakeRaw, &docRaw, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blueprint: %w", err)
	}
	rec.Role = intake.Role(role)

	if !blueprint.Compatible(rec.SchemaVersion) {
		r.s.log.Warn("stored blueprint schema drift",
			"id", id, "schema_version", rec.SchemaVersion, "current", blueprint.SchemaVersion)
		return nil, ErrNotFound
	}

	res := r.s.validator.ValidateJSON(docRaw)
	if !res.Valid() {
		r.s.log.Warn("stored blueprint failed validation",
			"id", id, "schema_version", rec.SchemaVersion, "violations", res.Violations.String())
		return nil, ErrNotFound
	}
	rec.Blueprint = res.Blueprint

	if err := json.Unmarshal(intakeRaw, &rec.Intake); err != nil {
		r.s.log.Warn("stored intake undecodable", "id", id, "error", err)
		return nil, ErrNotFound
	}

	r.s.cache.Add(id, &rec)
	return rec.clone()
}

// clone copies a cached record so callers never share the cached document.
func (rec *Record) clone() (*Record, error) {
	out := *rec
	out.Intake.Constraints = slices.Clone(rec.Intake.Constraints)
	if rec.Blueprint != nil {
		data, err := json.Marshal(rec.Blueprint)
		if err != nil {
			return nil, fmt.Errorf("copy blueprint: %w", err)
		}
		out.Blueprint = new(blueprint.Blueprint)
		if err := json.Unmarshal(data, out.Blueprint); err != nil {
			return nil, fmt.Errorf("copy blueprint: %w", err)
		}
	}
	return &out, nil
}

func (r *blueprintRepo) ListByOwner(ctx context.Context, ownerID string, limit int) ([]ListItem, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	t := entsql.Table(tableBlueprints)
	query, args := r.s.builder().
		Select(t.C("id"), t.C("title"), t.C("role"), t.C("group_name"), t.C("created_at")).
		From(t).
		Where(entsql.EQ(t.C("owner_id"), ownerID)).
		OrderBy(entsql.Desc(t.C("created_at")), entsql.Desc(t.C("id"))).
		Limit(limit).
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list blueprints: %w", err)
	}
	defer rows.Close()

	items := []ListItem{}
	for rows.Next() {
		var (
			item ListItem
			role string
		)
		if err := rows.Scan(&item.ID, &item.Title, &role, &item.GroupName, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan blueprint row: %w", err)
		}
		item.Role = intake.Role(role)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list blueprints: %w", err)
	}
	return items, nil
}
