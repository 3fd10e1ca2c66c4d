package models

import "time"

// Car 代表展示中的車輛
// 包含車輛資訊、價格、主圖與賣家關聯；seller_name 與 seller_photo 為舊版欄位，保留以維持相容
type Car struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	Title             string    `gorm:"type:text;not null" db:"title" json:"title"`
	Description       string    `gorm:"type:text" db:"description" json:"description"`
	Price             float64   `gorm:"type:real" db:"price" json:"price"`
	Category          string    `gorm:"type:text" db:"category" json:"category"`
	Mileage           string    `gorm:"type:text" db:"mileage" json:"mileage"`
	BodyCondition     string    `gorm:"type:text" db:"body_condition" json:"body_condition"`
	FuelEfficiency    string    `gorm:"type:text" db:"fuel_efficiency" json:"fuel_efficiency"`
	EnginePerformance string    `gorm:"type:text" db:"engine_performance" json:"engine_performance"`
	MainImage         string    `gorm:"type:text" db:"main_image" json:"main_image"`
	SellerName        string    `gorm:"type:text" db:"seller_name" json:"seller_name"`
	SellerPhoto       string    `gorm:"type:text" db:"seller_photo" json:"seller_photo"`
	SellerID          *int64    `gorm:"type:integer" db:"seller_id" json:"seller_id"`
	DateAdded         time.Time `gorm:"default:CURRENT_TIMESTAMP;<-:false" db:"date_added" json:"date_added"`

	// 外鍵關聯
	Seller *Seller    `gorm:"foreignKey:SellerID" db:"-" json:"-"`
	Images []CarImage `gorm:"foreignKey:CarID" db:"-" json:"-"`
}

func (Car) TableName() string {
	return "cars"
}
