package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"gorm.io/gorm"

	"dealership/models"
)

// SellerInput 是新增或編輯賣家的表單欄位
type SellerInput struct {
	Name         string
	ContactEmail string
	Phone        string
	Address      string
	About        string
}

// SellerOption 是新增/編輯車輛時的賣家選項
type SellerOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (inv *Inventory) sellerFromInput(input SellerInput) (*models.Seller, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	return &models.Seller{
		Name:         name,
		ContactEmail: strings.TrimSpace(input.ContactEmail),
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		About:        inv.sanitize(input.About),
	}, nil
}

// CreateSeller 新增賣家，沒有照片時使用預設照片
func (inv *Inventory) CreateSeller(ctx context.Context, input SellerInput, photo *multipart.FileHeader) (int64, error) {
	const op = "Inventory.CreateSeller"
	seller, err := inv.sellerFromInput(input)
	if err != nil {
		return 0, err
	}
	seller.Photo, err = inv.resolver.Resolve(ctx, photo, DefaultSellerPhoto)
	if err != nil {
		return 0, fmt.Errorf("[%s] Fail to store photo, err=%w", op, err)
	}
	if err := inv.store.Gorm(ctx).Create(seller).Error; err != nil {
		return 0, fmt.Errorf("[%s] Fail to create seller, err=%w", op, err)
	}
	return seller.ID, nil
}

// ListSellers 回傳所有賣家，新的在前
func (inv *Inventory) ListSellers(ctx context.Context) ([]models.Seller, error) {
	const op = "Inventory.ListSellers"
	sellers := []models.Seller{}
	if err := inv.store.Gorm(ctx).Order("id DESC").Find(&sellers).Error; err != nil {
		return nil, fmt.Errorf("[%s] Fail to list sellers, err=%w", op, err)
	}
	return sellers, nil
}

// SellerOptions 回傳依名稱排序的賣家選項
func (inv *Inventory) SellerOptions(ctx context.Context) ([]SellerOption, error) {
	const op = "Inventory.SellerOptions"
	options := []SellerOption{}
	err := inv.store.Gorm(ctx).
		Model(&models.Seller{}).
		Select("id", "name").
		Order("name ASC").
		Order("id ASC").
		Scan(&options).Error
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to list seller options, err=%w", op, err)
	}
	return options, nil
}

func (inv *Inventory) GetSeller(ctx context.Context, id int64) (*models.Seller, error) {
	const op = "Inventory.GetSeller"
	var seller models.Seller
	err := inv.store.Gorm(ctx).First(&seller, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSellerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to get seller, err=%w", op, err)
	}
	return &seller, nil
}

// UpdateSeller 更新賣家資料，沒有上傳新照片時保留原本的照片
// 引用此賣家的車輛會同步更新 seller_name 與 seller_photo
func (inv *Inventory) UpdateSeller(ctx context.Context, id int64, input SellerInput, photo *multipart.FileHeader) error {
	const op = "Inventory.UpdateSeller"
	current, err := inv.GetSeller(ctx, id)
	if err != nil {
		return err
	}
	seller, err := inv.sellerFromInput(input)
	if err != nil {
		return err
	}
	seller.Photo, err = inv.resolver.Resolve(ctx, photo, current.Photo)
	if err != nil {
		return fmt.Errorf("[%s] Fail to store photo, err=%w", op, err)
	}

	db := inv.store.Gorm(ctx)
	err = db.Model(&models.Seller{}).Where("id = ?", id).Updates(map[string]any{
		"name":          seller.Name,
		"contact_email": seller.ContactEmail,
		"phone":         seller.Phone,
		"address":       seller.Address,
		"about":         seller.About,
		"photo":         seller.Photo,
	}).Error
	if err != nil {
		return fmt.Errorf("[%s] Fail to update seller, err=%w", op, err)
	}
	err = db.Model(&models.Car{}).Where("seller_id = ?", id).Updates(map[string]any{
		"seller_name":  seller.Name,
		"seller_photo": seller.Photo,
	}).Error
	if err != nil {
		return fmt.Errorf("[%s] Fail to sync cars, err=%w", op, err)
	}
	return nil
}

// DeleteSeller 解除車輛與賣家的關聯後刪除賣家，並移除上傳的照片
func (inv *Inventory) DeleteSeller(ctx context.Context, id int64) error {
	const op = "Inventory.DeleteSeller"
	seller, err := inv.GetSeller(ctx, id)
	if err != nil {
		return err
	}
	db := inv.store.Gorm(ctx)
	if err := db.Model(&models.Car{}).Where("seller_id = ?", id).Update("seller_id", nil).Error; err != nil {
		return fmt.Errorf("[%s] Fail to detach cars, err=%w", op, err)
	}
	result := db.Delete(&models.Seller{}, id)
	if result.Error != nil {
		return fmt.Errorf("[%s] Fail to delete seller, err=%w", op, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSellerNotFound
	}
	if err := inv.resolver.Remove(ctx, seller.Photo); err != nil {
		slog.Warn("Fail to remove seller photo", slog.String("op", op), slog.String("photo", seller.Photo), slog.Any("error", err))
	}
	return nil
}
