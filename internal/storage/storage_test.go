package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *KV {
	t.Helper()
	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewKV(db)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "x")
	assert.Error(t, err)
}

func TestKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := openTestDB(t)

	_, err := kv.Get(ctx, "u1", "design-storage")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Put(ctx, "u1", "design-storage", []byte(`{"a":1}`)))
	require.NoError(t, kv.Put(ctx, "u1", "design-storage", []byte(`{"a":2}`)))
	require.NoError(t, kv.Put(ctx, "u2", "design-storage", []byte(`{"b":1}`)))

	got, err := kv.Get(ctx, "u1", "design-storage")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(got))

	keys, err := kv.Keys(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, keys, 1)
	assert.Contains(t, keys, "design-storage")

	require.NoError(t, kv.Delete(ctx, "u1", "design-storage"))
	_, err = kv.Get(ctx, "u1", "design-storage")
	assert.ErrorIs(t, err, ErrNotFound)

	other, err := kv.Get(ctx, "u2", "design-storage")
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":1}`, string(other))
}

func TestBlobPersister(t *testing.T) {
	kv := openTestDB(t)
	b := kv.Blob("u1", "settings-storage")

	data, err := b.Load()
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, b.Save([]byte(`{"theme":"dark"}`)))
	data, err = b.Load()
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark"}`, string(data))

	require.NoError(t, b.Clear())
	data, err = b.Load()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	db, err := Open(DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(DriverSQLite, path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM furniture`))
	assert.Equal(t, 0, n)
}

func TestFileStorage(t *testing.T) {
	fs := NewFileStorage(t.TempDir())

	names, err := fs.ListExports("u1")
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, fs.SaveFile(fs.ExportJSONPath("u1", "d2"), []byte("{}")))
	require.NoError(t, fs.SaveFile(fs.ExportSVGPath("u1", "d1"), []byte("<svg/>")))

	names, err = fs.ListExports("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"d1.svg", "d2.json"}, names)

	data, err := fs.ReadFile(fs.ExportSVGPath("u1", "d1"))
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))

	_, err = fs.ReadFile(fs.ExportSVGPath("u1", "missing"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStorageStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	fs := NewFileStorage(root)
	p := fs.ExportJSONPath("../../etc", "../passwd")
	rel, err := filepath.Rel(root, p)
	require.NoError(t, err)
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		assert.NotEqual(t, "..", part)
	}
}
