package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("not found")

// ============================================================
// KV blobs
// ============================================================

// KV stores opaque JSON blobs addressed by (namespace, key). Each user
// gets its own namespace.
type KV struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewKV(db *sqlx.DB) *KV {
	return &KV{db: db, now: time.Now}
}

type kvRow struct {
	Key       string `db:"key"`
	UpdatedAt string `db:"updated_at"`
}

func (k *KV) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	var value string
	query := k.db.Rebind(`SELECT value FROM kv_blobs WHERE namespace = ? AND key = ?`)
	if err := k.db.GetContext(ctx, &value, query, namespace, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", namespace, key, err)
	}
	return []byte(value), nil
}

func (k *KV) Put(ctx context.Context, namespace, key string, value []byte) error {
	query := k.db.Rebind(`
        INSERT INTO kv_blobs (namespace, key, value, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (namespace, key)
        DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
    `)
	stamp := k.now().UTC().Format(time.RFC3339Nano)
	if _, err := k.db.ExecContext(ctx, query, namespace, key, string(value), stamp); err != nil {
		return fmt.Errorf("put %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Delete removes a blob; a missing blob is not an error.
func (k *KV) Delete(ctx context.Context, namespace, key string) error {
	query := k.db.Rebind(`DELETE FROM kv_blobs WHERE namespace = ? AND key = ?`)
	if _, err := k.db.ExecContext(ctx, query, namespace, key); err != nil {
		return fmt.Errorf("delete %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Keys lists the keys of namespace with their last write time.
func (k *KV) Keys(ctx context.Context, namespace string) (map[string]time.Time, error) {
	var rows []kvRow
	query := k.db.Rebind(`SELECT key, updated_at FROM kv_blobs WHERE namespace = ? ORDER BY key`)
	if err := k.db.SelectContext(ctx, &rows, query, namespace); err != nil {
		return nil, fmt.Errorf("list %s: %w", namespace, err)
	}
	out := make(map[string]time.Time, len(rows))
	for _, r := range rows {
		ts, _ := time.Parse(time.RFC3339Nano, r.UpdatedAt)
		out[r.Key] = ts
	}
	return out, nil
}

// Blob binds one namespace and key.
func (k *KV) Blob(namespace, key string) *Blob {
	return &Blob{kv: k, namespace: namespace, key: key, timeout: 5 * time.Second}
}

// ============================================================
// Blob persister
// ============================================================

// Blob adapts a single KV entry to the synchronous Load/Save contract of
// the design store and settings containers.
type Blob struct {
	kv        *KV
	namespace string
	key       string
	timeout   time.Duration
}

// Load returns (nil, nil) when nothing has been written yet.
func (b *Blob) Load() ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	data, err := b.kv.Get(ctx, b.namespace, b.key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return data, err
}

func (b *Blob) Save(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	return b.kv.Put(ctx, b.namespace, b.key, data)
}

func (b *Blob) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	return b.kv.Delete(ctx, b.namespace, b.key)
}
