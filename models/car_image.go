package models

// CarImage 代表車輛的附加圖片
type CarImage struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	CarID     int64  `gorm:"type:integer;index" db:"car_id" json:"car_id"`
	ImagePath string `gorm:"type:text" db:"image_path" json:"image_path"`
}

func (CarImage) TableName() string {
	return "car_images"
}
