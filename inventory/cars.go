package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"dealership/models"
)

// CarInput 是新增或編輯車輛的表單欄位，數值欄位保留原始字串
type CarInput struct {
	Title             string
	Description       string
	Price             string
	Category          string
	Mileage           string
	BodyCondition     string
	FuelEfficiency    string
	EnginePerformance string
	SellerID          string
}

// CarDetail 是車輛詳細頁需要的資料，賣家不存在時 Seller 為 nil
type CarDetail struct {
	Car    models.Car        `json:"car"`
	Seller *models.Seller    `json:"seller"`
	Images []models.CarImage `json:"images"`
}

// parsePrice 將價格轉為非負數，無法解析時為 0
func parsePrice(raw string) float64 {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0
	}
	return price
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// carFromInput 驗證表單並帶入賣家的名稱與照片
func (inv *Inventory) carFromInput(ctx context.Context, input CarInput) (*models.Car, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	car := &models.Car{
		Title:             title,
		Description:       inv.sanitize(input.Description),
		Price:             parsePrice(input.Price),
		Category:          strings.TrimSpace(input.Category),
		Mileage:           strings.TrimSpace(input.Mileage),
		BodyCondition:     strings.TrimSpace(input.BodyCondition),
		FuelEfficiency:    strings.TrimSpace(input.FuelEfficiency),
		EnginePerformance: strings.TrimSpace(input.EnginePerformance),
	}
	sellerID, ok := parseID(input.SellerID)
	if !ok {
		return car, nil
	}
	var seller models.Seller
	err := inv.store.Gorm(ctx).First(&seller, sellerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return car, nil
	}
	if err != nil {
		return nil, err
	}
	car.SellerID = lo.ToPtr(seller.ID)
	car.SellerName = seller.Name
	car.SellerPhoto = seller.Photo
	return car, nil
}

// GetCar 回傳車輛、賣家與附加圖片
func (inv *Inventory) GetCar(ctx context.Context, id int64) (*CarDetail, error) {
	const op = "Inventory.GetCar"
	var car models.Car
	err := inv.store.Gorm(ctx).
		Preload("Seller").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&car, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to get car, err=%w", op, err)
	}
	detail := &CarDetail{Car: car, Seller: car.Seller, Images: car.Images}
	if detail.Images == nil {
		detail.Images = []models.CarImage{}
	}
	return detail, nil
}

// CreateCar 新增車輛，沒有主圖時使用預設圖片，附加圖片寫入 car_images
func (inv *Inventory) CreateCar(ctx context.Context, input CarInput, mainImage *multipart.FileHeader, extraImages []*multipart.FileHeader) (int64, error) {
	const op = "Inventory.CreateCar"
	car, err := inv.carFromInput(ctx, input)
	if err != nil {
		if errors.Is(err, ErrTitleRequired) {
			return 0, err
		}
		return 0, fmt.Errorf("[%s] Fail to resolve seller, err=%w", op, err)
	}
	car.MainImage, err = inv.resolver.Resolve(ctx, mainImage, DefaultCarImage)
	if err != nil {
		return 0, fmt.Errorf("[%s] Fail to store main image, err=%w", op, err)
	}
	refs, err := inv.resolver.ResolveMany(ctx, extraImages)
	if err != nil {
		return 0, fmt.Errorf("[%s] Fail to store images, err=%w", op, err)
	}
	car.Images = lo.Map(refs, func(ref string, _ int) models.CarImage {
		return models.CarImage{ImagePath: ref}
	})
	if err := inv.store.Gorm(ctx).Create(car).Error; err != nil {
		return 0, fmt.Errorf("[%s] Fail to create car, err=%w", op, err)
	}
	return car.ID, nil
}

// UpdateCar 更新車輛，沒有上傳新主圖時保留原本的主圖，新的附加圖片會追加
func (inv *Inventory) UpdateCar(ctx context.Context, id int64, input CarInput, mainImage *multipart.FileHeader, extraImages []*multipart.FileHeader) error {
	const op = "Inventory.UpdateCar"
	db := inv.store.Gorm(ctx)
	var count int64
	if err := db.Model(&models.Car{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("[%s] Fail to check car, err=%w", op, err)
	}
	if count == 0 {
		return ErrCarNotFound
	}
	car, err := inv.carFromInput(ctx, input)
	if err != nil {
		if errors.Is(err, ErrTitleRequired) {
			return err
		}
		return fmt.Errorf("[%s] Fail to resolve seller, err=%w", op, err)
	}

	var sellerID any
	if car.SellerID != nil {
		sellerID = *car.SellerID
	}
	updates := map[string]any{
		"title":              car.Title,
		"description":        car.Description,
		"price":              car.Price,
		"category":           car.Category,
		"mileage":            car.Mileage,
		"body_condition":     car.BodyCondition,
		"fuel_efficiency":    car.FuelEfficiency,
		"engine_performance": car.EnginePerformance,
		"seller_id":          sellerID,
		"seller_name":        car.SellerName,
		"seller_photo":       car.SellerPhoto,
	}
	mainRef, err := inv.resolver.Resolve(ctx, mainImage, "")
	if err != nil {
		return fmt.Errorf("[%s] Fail to store main image, err=%w", op, err)
	}
	if mainRef != "" {
		updates["main_image"] = mainRef
	}
	result := db.Model(&models.Car{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("[%s] Fail to update car, err=%w", op, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCarNotFound
	}

	refs, err := inv.resolver.ResolveMany(ctx, extraImages)
	if err != nil {
		return fmt.Errorf("[%s] Fail to store images, err=%w", op, err)
	}
	if len(refs) == 0 {
		return nil
	}
	images := lo.Map(refs, func(ref string, _ int) models.CarImage {
		return models.CarImage{CarID: id, ImagePath: ref}
	})
	if err := db.Create(&images).Error; err != nil {
		return fmt.Errorf("[%s] Fail to add images, err=%w", op, err)
	}
	return nil
}

// DeleteCar 先刪除車輛的附加圖片，再刪除車輛
func (inv *Inventory) DeleteCar(ctx context.Context, id int64) error {
	const op = "Inventory.DeleteCar"
	db := inv.store.Gorm(ctx)
	if err := db.Where("car_id = ?", id).Delete(&models.CarImage{}).Error; err != nil {
		return fmt.Errorf("[%s] Fail to delete car images, err=%w", op, err)
	}
	result := db.Delete(&models.Car{}, id)
	if result.Error != nil {
		return fmt.Errorf("[%s] Fail to delete car, err=%w", op, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCarNotFound
	}
	return nil
}

// DeleteCarImage 刪除屬於指定車輛的單一附加圖片
func (inv *Inventory) DeleteCarImage(ctx context.Context, carID, imageID int64) error {
	const op = "Inventory.DeleteCarImage"
	result := inv.store.Gorm(ctx).Where("id = ? AND car_id = ?", imageID, carID).Delete(&models.CarImage{})
	if result.Error != nil {
		return fmt.Errorf("[%s] Fail to delete car image, err=%w", op, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrImageNotFound
	}
	return nil
}

// AdminCars 回傳所有車輛，新的在前
func (inv *Inventory) AdminCars(ctx context.Context) ([]models.Car, error) {
	const op = "Inventory.AdminCars"
	cars := []models.Car{}
	if err := inv.store.Select(ctx, &cars, "SELECT "+carColumns+" FROM cars ORDER BY id DESC"); err != nil {
		return nil, fmt.Errorf("[%s] Fail to list cars, err=%w", op, err)
	}
	return cars, nil
}
