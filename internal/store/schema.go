package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableBlueprints = "blueprints"
	tableLLMEvents  = "llm_events"
)

var (
	// BlueprintsColumns holds the columns for the "blueprints" table.
	BlueprintsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "owner_id", Type: field.TypeString},
		{Name: "schema_version", Type: field.TypeString, Size: 32},
		{Name: "title", Type: field.TypeString},
		{Name: "role", Type: field.TypeString, Size: 32},
		{Name: "group_name", Type: field.TypeString},
		{Name: "intake", Type: field.TypeJSON},
		{Name: "blueprint", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeTime},
	}
	// BlueprintsTable holds the schema information for the "blueprints" table.
	BlueprintsTable = &schema.Table{
		Name:       tableBlueprints,
		Columns:    BlueprintsColumns,
		PrimaryKey: []*schema.Column{BlueprintsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "blueprint_owner_id_created_at",
				Unique:  false,
				Columns: []*schema.Column{BlueprintsColumns[1], BlueprintsColumns[8]},
			},
		},
	}

	// LlmEventsColumns holds the columns for the "llm_events" table.
	LlmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "request_id", Type: field.TypeString, Default: ""},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "cost_usd", Type: field.TypeFloat64, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LlmEventsTable holds the schema information for the "llm_events" table.
	LlmEventsTable = &schema.Table{
		Name:       tableLLMEvents,
		Columns:    LlmEventsColumns,
		PrimaryKey: []*schema.Column{LlmEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmevent_purpose",
				Unique:  false,
				Columns: []*schema.Column{LlmEventsColumns[5]},
			},
			{
				Name:    "llmevent_model",
				Unique:  false,
				Columns: []*schema.Column{LlmEventsColumns[4]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		BlueprintsTable,
		LlmEventsTable,
	}
)
