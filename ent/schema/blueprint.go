package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Blueprint is one validated, generated blueprint document.
type Blueprint struct {
	ent.Schema
}

func (Blueprint) Mixin() []ent.Mixin {
	return []ent.Mixin{CreatedMixin{}}
}

func (Blueprint) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			MaxLen(36).
			Immutable().
			Comment("UUID assigned on insert"),
		field.String("owner_id").
			Immutable().
			Comment("Resolved caller identity"),
		field.String("schema_version").
			MaxLen(32).
			Immutable().
			Comment("Document schema version the row was validated against"),
		field.String("title").
			Immutable(),
		field.String("role").
			MaxLen(32).
			Immutable().
			Comment("Teacher, Pastor/Leader or Youth Leader"),
		field.String("group_name").
			Immutable().
			Comment("header.preparedFor.groupName"),
		field.JSON("intake", map[string]any{}).
			Immutable().
			Comment("Normalized intake the prompt was composed from"),
		field.JSON("blueprint", map[string]any{}).
			Immutable().
			Comment("The validated document"),
	}
}

func (Blueprint) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("owner_id", "created_at"),
	}
}
