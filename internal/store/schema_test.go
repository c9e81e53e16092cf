package store

import (
	"testing"

	"entgo.io/ent"
	entschema "entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
	"github.com/google/go-cmp/cmp"

	"github.com/abhisek/immowert/ent/schema"
)

type column struct {
	Name string
	Type field.Type
	Size int64
}

func entColumns(fields ...[]ent.Field) []column {
	out := []column{{Name: "id", Type: field.TypeInt}}
	for _, fs := range fields {
		for _, f := range fs {
			d := f.Descriptor()
			out = append(out, column{Name: d.Name, Type: d.Info.Type, Size: int64(d.Size)})
		}
	}
	return out
}

func tableColumns(t *entschema.Table) []column {
	out := make([]column, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = column{Name: c.Name, Type: c.Type, Size: int64(c.Size)}
	}
	return out
}

func TestTablesMatchEntSchema(t *testing.T) {
	tests := []struct {
		name   string
		table  *entschema.Table
		fields []column
	}{
		{"slots", slotsSchema, entColumns(schema.SessionSlot{}.Fields())},
		{"submissions", submissionsSchema, entColumns(
			schema.EventMixin{}.Fields(),
			schema.SubmissionEvent{}.Fields(),
		)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.fields, tableColumns(tt.table)); diff != "" {
				t.Errorf("columns differ from ent schema (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSlotIndexIsUnique(t *testing.T) {
	if len(slotsSchema.Indexes) != 1 {
		t.Fatalf("got %d indexes, want 1", len(slotsSchema.Indexes))
	}
	idx := slotsSchema.Indexes[0]
	if !idx.Unique {
		t.Error("slot index is not unique")
	}

	names := make([]string, len(idx.Columns))
	for i, c := range idx.Columns {
		names[i] = c.Name
	}
	if diff := cmp.Diff([]string{"session_id", "slot"}, names); diff != "" {
		t.Errorf("index columns (-want +got):\n%s", diff)
	}
	if n := len(schema.SessionSlot{}.Indexes()); n != 1 {
		t.Errorf("ent schema declares %d indexes, want 1", n)
	}
}
