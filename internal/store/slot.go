package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// SlotRepo stores keyed JSON blobs for one questionnaire session. Each
// (session, key) pair holds a single value; saving again replaces it.
type SlotRepo struct {
	drv       *entsql.Driver
	sessionID string
}

// SessionID returns the session this repo is scoped to.
func (r *SlotRepo) SessionID() string {
	return r.sessionID
}

func (r *SlotRepo) Save(ctx context.Context, key string, value []byte) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(slotsTable).
		Columns("session_id", "slot", "value", "updated_at").
		Values(r.sessionID, key, string(value), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("session_id", "slot"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save slot %q: %w", key, err)
	}
	return nil
}

func (r *SlotRepo) Load(ctx context.Context, key string) ([]byte, bool, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("value").
		From(entsql.Table(slotsTable)).
		Where(r.slot(key)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, false, fmt.Errorf("load slot %q: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, false, rows.Err()
	}
	var value string
	if err := rows.Scan(&value); err != nil {
		return nil, false, fmt.Errorf("scan slot %q: %w", key, err)
	}
	return []byte(value), true, nil
}

func (r *SlotRepo) Delete(ctx context.Context, key string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(slotsTable).
		Where(r.slot(key)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete slot %q: %w", key, err)
	}
	return nil
}

// UpdatedAt returns when key was last saved, or the zero time if never.
func (r *SlotRepo) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("updated_at").
		From(entsql.Table(slotsTable)).
		Where(r.slot(key)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return time.Time{}, fmt.Errorf("query slot %q: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return time.Time{}, rows.Err()
	}
	var t time.Time
	if err := rows.Scan(&t); err != nil {
		return time.Time{}, fmt.Errorf("scan slot %q: %w", key, err)
	}
	return t, nil
}

func (r *SlotRepo) slot(key string) *entsql.Predicate {
	return entsql.And(
		entsql.EQ("session_id", r.sessionID),
		entsql.EQ("slot", key),
	)
}
