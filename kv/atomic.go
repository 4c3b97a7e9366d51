package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Atomic builds a multi-key conditional commit. Checks pin the versions the
// caller observed; if any key has moved by commit time, nothing is written.
type Atomic struct {
	kv      *DB
	checks  []versionCheck
	sets    []mutation
	deletes []string
}

type versionCheck struct {
	key     string
	version int64
}

type mutation struct {
	key   string
	value []byte
}

func (kv *DB) Atomic() *Atomic {
	return &Atomic{kv: kv}
}

// Check requires key to still be at version when the commit runs.
// Version 0 requires the key to be absent.
func (a *Atomic) Check(key string, version int64) *Atomic {
	a.checks = append(a.checks, versionCheck{key, version})
	return a
}

func (a *Atomic) Set(key string, value []byte) *Atomic {
	a.sets = append(a.sets, mutation{key, value})
	return a
}

func (a *Atomic) Delete(key string) *Atomic {
	a.deletes = append(a.deletes, key)
	return a
}

// Commit applies every mutation in a single transaction. It returns false,
// with nothing written, when any check no longer holds; the caller is
// expected to re-read and retry.
func (a *Atomic) Commit(ctx context.Context) (bool, error) {
	tx, err := a.kv.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("kv.atomic.begin: %w", err)
	}
	defer tx.Rollback()

	for _, c := range a.checks {
		var current int64
		err = tx.
			QueryRowContext(ctx, `SELECT version FROM kv_entry WHERE key = ?`, c.key).
			Scan(&current)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("kv.atomic.check: %w", err)
		}
		if current != c.version {
			return false, nil
		}
	}

	var stamp int64
	if len(a.sets) > 0 {
		err = tx.
			QueryRowContext(ctx, `UPDATE kv_stamp SET counter = counter + 1 RETURNING counter`).
			Scan(&stamp)
		if err != nil {
			return false, fmt.Errorf("kv.atomic.stamp: %w", err)
		}
	}

	for _, m := range a.sets {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO kv_entry (key, value, version) VALUES (?, ?, ?)
			ON CONFLICT (key) DO UPDATE SET
				value = excluded.value,
				version = excluded.version`,
			m.key, m.value, stamp,
		)
		if err != nil {
			return false, fmt.Errorf("kv.atomic.set: %w", err)
		}
	}

	for _, key := range a.deletes {
		_, err = tx.ExecContext(ctx, `DELETE FROM kv_entry WHERE key = ?`, key)
		if err != nil {
			return false, fmt.Errorf("kv.atomic.delete: %w", err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return false, fmt.Errorf("kv.atomic.commit: %w", err)
	}
	return true, nil
}
