package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	slotsTable       = "session_slots"
	submissionsTable = "submission_events"
)

var (
	slotColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "session_id", Type: field.TypeString, Size: 64},
		{Name: "slot", Type: field.TypeString, Size: 64},
		{Name: "value", Type: field.TypeString, Size: 2147483647},
		{Name: "updated_at", Type: field.TypeTime},
	}
	slotsSchema = &schema.Table{
		Name:       slotsTable,
		Columns:    slotColumns,
		PrimaryKey: []*schema.Column{slotColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "sessionslot_session_id_slot",
				Unique:  true,
				Columns: []*schema.Column{slotColumns[1], slotColumns[2]},
			},
		},
	}

	submissionColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString, Size: 64},
		{Name: "request_id", Type: field.TypeString, Size: 64},
		{Name: "endpoint", Type: field.TypeString},
		{Name: "comparison", Type: field.TypeBool},
		{Name: "outcome", Type: field.TypeString, Size: 32},
		{Name: "status_code", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647},
		{Name: "error_message", Type: field.TypeString, Size: 2147483647},
	}
	submissionsSchema = &schema.Table{
		Name:       submissionsTable,
		Columns:    submissionColumns,
		PrimaryKey: []*schema.Column{submissionColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "submissionevent_session_id",
				Columns: []*schema.Column{submissionColumns[2]},
			},
		},
	}

	tables = []*schema.Table{slotsSchema, submissionsSchema}
)
