package inventory_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"dealership/adapters/database"
	"dealership/adapters/upload"
	"dealership/inventory"
)

type fixture struct {
	store     *database.Store
	inventory *inventory.Inventory
	uploadDir string
}

func newMemoryStore(t *testing.T) *database.Store {
	t.Helper()
	store, err := database.Open(context.Background(), database.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// newFixture 建立已完成建表與種子資料的記憶體資料庫
func newFixture(t *testing.T, opts ...inventory.Option) *fixture {
	t.Helper()
	ctx := context.Background()
	store := newMemoryStore(t)
	hasher := inventory.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, inventory.Bootstrap(ctx, store, hasher, ""))

	dir := filepath.Join(t.TempDir(), "uploads")
	resolver := upload.NewResolver(upload.NewLocalSink(dir, "/static/uploads"))
	opts = append([]inventory.Option{inventory.WithPasswordHasher(hasher)}, opts...)
	return &fixture{
		store:     store,
		inventory: inventory.New(store, resolver, opts...),
		uploadDir: dir,
	}
}

func (f *fixture) count(t *testing.T, query string, args ...any) int64 {
	t.Helper()
	rows, err := f.store.Query(context.Background(), query, args...)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	return rows[0].Int64("total")
}

type testFile struct {
	name string
	data []byte
}

func newFileHeaders(t *testing.T, files ...testFile) []*multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range files {
		part, err := writer.CreateFormFile("images", f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["images"]
}

func newFileHeader(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	return newFileHeaders(t, testFile{name: name, data: data})[0]
}
