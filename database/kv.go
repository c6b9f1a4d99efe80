package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

// UserKV is a key-value table partitioned by user. It backs the counseling
// records, one row per university.
type UserKV struct {
	db     *sql.DB
	userID int
}

func NewUserKV(db *sql.DB, userID int) *UserKV {
	return &UserKV{db, userID}
}

func (kv *UserKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := kv.db.QueryRowContext(ctx, `
		SELECT value FROM kv
		WHERE user_id = ?
			AND key = ?`,
		kv.userID,
		key,
	).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, errors.Wrapf(err, "kv.get %q", key)
	}
	return value, true, nil
}

func (kv *UserKV) Set(ctx context.Context, key, value string) error {
	_, err := kv.db.ExecContext(ctx, `
		INSERT INTO kv (user_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		kv.userID,
		key,
		value,
		time.Now(),
	)
	return errors.Wrapf(err, "kv.set %q", key)
}
