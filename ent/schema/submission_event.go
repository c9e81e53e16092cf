package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SubmissionEvent records every webhook call for debugging and statistics.
type SubmissionEvent struct {
	ent.Schema
}

func (SubmissionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SubmissionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			MaxLen(64).
			Comment("Questionnaire session that submitted"),
		field.String("request_id").
			MaxLen(64).
			Comment("Id sent as X-Request-Id"),
		field.String("endpoint").
			Comment("Webhook URL"),
		field.Bool("comparison").
			Comment("Whether this valued a comparison property"),
		field.String("outcome").
			MaxLen(32).
			Comment("parsed, acknowledged, unrecognized, status_error, transport_error or failed"),
		field.Int("status_code").
			Default(0).
			Comment("HTTP status, 0 when no response arrived"),
		field.Int64("latency_ms").
			Default(0).
			Comment("Wall-clock time for the request"),
		field.Bool("success").
			Comment("Whether a report or acknowledgement was received"),
		field.Text("request_body").
			Default("").
			Comment("JSON body sent"),
		field.Text("response_body").
			Default("").
			Comment("Body received, if any"),
		field.Text("error_message").
			Default("").
			Comment("Error message if failed"),
	}
}

func (SubmissionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
	}
}
