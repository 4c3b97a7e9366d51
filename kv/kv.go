// Package kv is a small versioned key-value store on top of SQLite.
// It offers point reads, ordered prefix listing, and multi-key atomic
// commits conditioned on the versions the caller last observed, which is
// all the survey repository needs for optimistic concurrency.
package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is a versioned record. Versions come from a global commit counter:
// they only ever grow, so a version observed before a concurrent write can
// never match after it, deletes and re-creates included. Version 0 means
// the key is absent.
type Entry struct {
	Key     string
	Value   []byte
	Version int64
}

func (e Entry) Exists() bool {
	return e.Version != 0
}

// Key joins path segments into a storage key.
func Key(parts ...string) string {
	return strings.Join(parts, "/")
}

type DB struct {
	db *sql.DB
}

func Open(path string) (*DB, error) {
	// immediate transactions take the write lock up front, so concurrent
	// atomic commits queue on busy_timeout instead of failing mid-way
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_txlock=immediate", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		db.Close()
		return nil, err
	}

	// db tuning options
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	err = migrateDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

func (kv *DB) Close() error {
	return kv.db.Close()
}

// Get returns the entry at key. An absent key is not an error; it reports
// as an Entry with Version 0, ready to be used in an Atomic Check.
func (kv *DB) Get(ctx context.Context, key string) (Entry, error) {
	entry := Entry{Key: key}
	err := kv.db.
		QueryRowContext(ctx, `SELECT value, version FROM kv_entry WHERE key = ?`, key).
		Scan(&entry.Value, &entry.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return entry, nil
	}
	if err != nil {
		return Entry{}, fmt.Errorf("kv.get: %w", err)
	}
	return entry, nil
}

// List returns every entry whose key starts with prefix followed by a
// separator, in ascending key order.
func (kv *DB) List(ctx context.Context, prefix string) ([]Entry, error) {
	// '0' is the byte after '/', so [prefix+"/", prefix+"0") spans exactly
	// the keys below prefix
	rows, err := kv.db.QueryContext(ctx, `
		SELECT key, value, version FROM kv_entry
		WHERE key >= ? AND key < ?
		ORDER BY key`,
		prefix+"/", prefix+"0",
	)
	if err != nil {
		return nil, fmt.Errorf("kv.list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		err = rows.Scan(&entry.Key, &entry.Value, &entry.Version)
		if err != nil {
			return nil, fmt.Errorf("kv.list.scan: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
