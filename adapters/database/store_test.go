package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealership/adapters/database"
)

func openMemoryStore(t *testing.T) *database.Store {
	t.Helper()
	store, err := database.Open(context.Background(), database.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	_, err = store.Modify(context.Background(), `CREATE TABLE items (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL, price REAL)`)
	require.NoError(t, err)
	return store
}

func TestOpen_SelectsSQLiteWithoutURL(t *testing.T) {
	store := openMemoryStore(t)
	assert.Equal(t, "sqlite", store.Backend().Name())
}

func TestStore_ModifyReturnsInsertID(t *testing.T) {
	ctx := context.Background()
	store := openMemoryStore(t)

	first, err := store.Modify(ctx, `INSERT INTO items (name, price) VALUES (?, ?)`, "wheel", 120.5)
	require.NoError(t, err)
	second, err := store.Modify(ctx, `insert into items (name, price) values (?, ?)`, "tyre", 80)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestStore_ModifyReturnsAffectedRows(t *testing.T) {
	ctx := context.Background()
	store := openMemoryStore(t)
	for _, name := range []string{"a", "b", "c"} {
		_, err := store.Modify(ctx, `INSERT INTO items (name, price) VALUES (?, ?)`, name, 1)
		require.NoError(t, err)
	}

	affected, err := store.Modify(ctx, `UPDATE items SET price = ? WHERE name <> ?`, 2, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	affected, err = store.Modify(ctx, `DELETE FROM items WHERE name = ?`, "missing")
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestStore_QueryReturnsNamedRows(t *testing.T) {
	ctx := context.Background()
	store := openMemoryStore(t)
	_, err := store.Modify(ctx, `INSERT INTO items (name, price) VALUES (?, ?)`, "wheel", 120.5)
	require.NoError(t, err)
	_, err = store.Modify(ctx, `INSERT INTO items (name) VALUES (?)`, "bolt")
	require.NoError(t, err)

	rows, err := store.Query(ctx, `SELECT id, name, price FROM items ORDER BY id`)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(1), rows[0].Int64("id"))
	assert.Equal(t, "wheel", rows[0].String("name"))
	assert.Equal(t, 120.5, rows[0].Float64("price"))
	assert.True(t, rows[1].Has("price"))
	assert.Equal(t, float64(0), rows[1].Float64("price"))
	assert.False(t, rows[1].Has("missing"))
}

func TestStore_QueryPropagatesErrors(t *testing.T) {
	store := openMemoryStore(t)
	_, err := store.Query(context.Background(), `SELECT nope FROM items`)
	assert.Error(t, err)
}

func TestStore_Select(t *testing.T) {
	ctx := context.Background()
	store := openMemoryStore(t)
	_, err := store.Modify(ctx, `INSERT INTO items (name, price) VALUES (?, ?)`, "wheel", 10)
	require.NoError(t, err)

	var items []struct {
		ID    int64   `db:"id"`
		Name  string  `db:"name"`
		Price float64 `db:"price"`
	}
	require.NoError(t, store.Select(ctx, &items, `SELECT id, name, price FROM items WHERE price >= ?`, 5))
	require.Len(t, items, 1)
	assert.Equal(t, "wheel", items[0].Name)
}

func TestStore_GormSharesConnection(t *testing.T) {
	ctx := context.Background()
	store := openMemoryStore(t)
	_, err := store.Modify(ctx, `INSERT INTO items (name, price) VALUES (?, ?)`, "wheel", 10)
	require.NoError(t, err)

	var count int64
	require.NoError(t, store.Gorm(ctx).Table("items").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSQLiteBackend_IsDuplicateColumn(t *testing.T) {
	ctx := context.Background()
	store := openMemoryStore(t)
	_, err := store.Modify(ctx, `ALTER TABLE items ADD COLUMN name TEXT`)
	require.Error(t, err)
	assert.True(t, store.Backend().IsDuplicateColumn(err))
	assert.False(t, store.Backend().IsDuplicateColumn(nil))
}
