package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionSlot is the durable key/value slot a questionnaire session writes
// its answers and last report to.
type SessionSlot struct {
	ent.Schema
}

func (SessionSlot) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			MaxLen(64).
			Comment("Questionnaire session the slot belongs to"),
		field.String("slot").
			MaxLen(64).
			Comment("Slot key: answers or result"),
		field.Text("value").
			Comment("JSON document stored in the slot"),
		field.Time("updated_at").
			Comment("Last write"),
	}
}

func (SessionSlot) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id", "slot").Unique(),
	}
}
