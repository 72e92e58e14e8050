package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions handed to ent's migrator. Timestamps are unix milliseconds.
var (
	kvColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeBytes},
		{Name: "updated_at", Type: field.TypeInt64, Default: 0},
	}
	kvTable = &schema.Table{
		Name:       "kv",
		Columns:    kvColumns,
		PrimaryKey: []*schema.Column{kvColumns[0]},
	}

	historyColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "category", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt},
		{Name: "total", Type: field.TypeInt},
		{Name: "accuracy", Type: field.TypeInt},
		{Name: "xp_awarded", Type: field.TypeInt},
		{Name: "duration_secs", Type: field.TypeInt, Default: 0},
		{Name: "finished_at", Type: field.TypeInt64},
	}
	historyTable = &schema.Table{
		Name:       "session_history",
		Columns:    historyColumns,
		PrimaryKey: []*schema.Column{historyColumns[0]},
		Indexes: []*schema.Index{
			{Name: "session_history_sequence", Unique: true, Columns: []*schema.Column{historyColumns[1]}},
			{Name: "session_history_category", Columns: []*schema.Column{historyColumns[2]}},
		},
	}

	wordColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString},
		{Name: "prompt", Type: field.TypeString},
		{Name: "answer", Type: field.TypeString},
		{Name: "aux", Type: field.TypeString, Default: ""},
		{Name: "source", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeInt64},
	}
	wordTable = &schema.Table{
		Name:       "imported_words",
		Columns:    wordColumns,
		PrimaryKey: []*schema.Column{wordColumns[0]},
	}

	llmEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Default: ""},
		{Name: "response_body", Type: field.TypeString, Default: ""},
	}
	llmEventTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    llmEventColumns,
		PrimaryKey: []*schema.Column{llmEventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llm_request_events_sequence", Unique: true, Columns: []*schema.Column{llmEventColumns[1]}},
			{Name: "llm_request_events_purpose", Columns: []*schema.Column{llmEventColumns[5]}},
		},
	}

	tables = []*schema.Table{kvTable, historyTable, wordTable, llmEventTable}
)
