package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"minuteshub/internal/fault"
)

// PreferenceRepository stores opaque key->JSON preference rows.
type PreferenceRepository struct {
	db *pgxpool.Pool
}

func NewPreferenceRepository(db *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Set upserts the value for key. value must be JSON-marshalable.
func (r *PreferenceRepository) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fault.Wrap(fault.KindStorage, "encode preference", err)
	}

	query := `
        INSERT INTO preferences (key, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()
    `
	if _, err := r.db.Exec(ctx, query, key, data); err != nil {
		return fault.Wrap(fault.KindStorage, "upsert preference", err)
	}
	return nil
}

// Get unmarshals the value for key into dest. Absent keys are a not-found
// fault; callers that treat absence as a default should check fault.IsNotFound.
func (r *PreferenceRepository) Get(ctx context.Context, key string, dest any) error {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT value FROM preferences WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return fault.NotFound(fmt.Sprintf("preference %q not set", key))
	}
	if err != nil {
		return fault.Wrap(fault.KindStorage, "query preference", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fault.Wrap(fault.KindStorage, "decode preference", err)
	}
	return nil
}

// All returns every preference row as raw JSON keyed by name.
func (r *PreferenceRepository) All(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := r.db.Query(ctx, `SELECT key, value FROM preferences ORDER BY key`)
	if err != nil {
		return nil, fault.Wrap(fault.KindStorage, "list preferences", err)
	}
	defer rows.Close()

	prefs := map[string]json.RawMessage{}
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fault.Wrap(fault.KindStorage, "scan preference", err)
		}
		prefs[key] = json.RawMessage(value)
	}
	if rows.Err() != nil {
		return nil, fault.Wrap(fault.KindStorage, "list preferences", rows.Err())
	}
	return prefs, nil
}

// Delete removes the key and reports whether it existed.
func (r *PreferenceRepository) Delete(ctx context.Context, key string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM preferences WHERE key = $1`, key)
	if err != nil {
		return false, fault.Wrap(fault.KindStorage, "delete preference", err)
	}
	return tag.RowsAffected() > 0, nil
}
