package inventory_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealership/inventory"
	"dealership/models"
)

func TestCreateSeller(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id, err := f.inventory.CreateSeller(ctx, inventory.SellerInput{
		Name:         " Dana Lee ",
		ContactEmail: "dana@example.com",
		About:        `<img src=x onerror=alert(1)>Imports specialist`,
	}, nil)
	require.NoError(t, err)

	seller, err := f.inventory.GetSeller(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Dana Lee", seller.Name)
	assert.Equal(t, inventory.DefaultSellerPhoto, seller.Photo)
	assert.NotContains(t, seller.About, "onerror")
	assert.Contains(t, seller.About, "Imports specialist")

	_, err = f.inventory.CreateSeller(ctx, inventory.SellerInput{Name: ""}, nil)
	assert.ErrorIs(t, err, inventory.ErrNameRequired)
}

func TestListSellersAndOptions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.inventory.CreateSeller(ctx, inventory.SellerInput{Name: "Aaron Motors"}, nil)
	require.NoError(t, err)

	sellers, err := f.inventory.ListSellers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Aaron Motors", "Carol White", "Bob Smith", "Alice Johnson"},
		lo.Map(sellers, func(s models.Seller, _ int) string { return s.Name }))

	options, err := f.inventory.SellerOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Aaron Motors", "Alice Johnson", "Bob Smith", "Carol White"},
		lo.Map(options, func(o inventory.SellerOption, _ int) string { return o.Name }))
	assert.NotZero(t, options[0].ID)
}

func TestUpdateSeller(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.inventory.UpdateSeller(ctx, 1, inventory.SellerInput{Name: "Alice Johnson-Okafor", Phone: "0800"}, nil))
	seller, err := f.inventory.GetSeller(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson-Okafor", seller.Name)
	assert.Equal(t, inventory.DefaultSellerPhoto, seller.Photo)

	require.NoError(t, f.inventory.UpdateSeller(ctx, 1, inventory.SellerInput{Name: "Alice Johnson-Okafor"},
		newFileHeader(t, "alice.jpg", []byte("alice"))))
	detail, err := f.inventory.GetCar(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson-Okafor", detail.Car.SellerName)
	assert.Equal(t, "/static/uploads/alice.jpg", detail.Car.SellerPhoto)

	assert.ErrorIs(t, f.inventory.UpdateSeller(ctx, 404, inventory.SellerInput{Name: "Nobody"}, nil), inventory.ErrSellerNotFound)
	assert.ErrorIs(t, f.inventory.UpdateSeller(ctx, 1, inventory.SellerInput{Name: " "}, nil), inventory.ErrNameRequired)
}

func TestDeleteSeller(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id, err := f.inventory.CreateSeller(ctx, inventory.SellerInput{Name: "Eve Autos"}, newFileHeader(t, "eve.png", []byte("eve")))
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(f.uploadDir, "eve.png"))
	carID, err := f.inventory.CreateCar(ctx, inventory.CarInput{Title: "Eve's Wagon", SellerID: "5"}, nil, nil)
	require.NoError(t, err)
	_, err = f.store.Modify(ctx, `UPDATE cars SET seller_id = ? WHERE id = ?`, id, carID)
	require.NoError(t, err)

	require.NoError(t, f.inventory.DeleteSeller(ctx, id))

	_, err = f.inventory.GetSeller(ctx, id)
	assert.ErrorIs(t, err, inventory.ErrSellerNotFound)
	assert.NoFileExists(t, filepath.Join(f.uploadDir, "eve.png"))
	detail, err := f.inventory.GetCar(ctx, carID)
	require.NoError(t, err)
	assert.Nil(t, detail.Car.SellerID)
	assert.Nil(t, detail.Seller)

	assert.ErrorIs(t, f.inventory.DeleteSeller(ctx, id), inventory.ErrSellerNotFound)
}

func TestDeleteSeller_PlaceholderPhoto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	// 種子賣家使用預設照片，刪除時不應該出錯
	require.NoError(t, f.inventory.DeleteSeller(ctx, 3))
	assert.Equal(t, int64(2), f.count(t, "SELECT COUNT(*) AS total FROM sellers"))
	assert.Equal(t, int64(0), f.count(t, "SELECT COUNT(*) AS total FROM cars WHERE seller_id = ?", 3))
}
