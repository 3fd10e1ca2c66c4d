package models

// Seller 代表刊登車輛的賣家，一個賣家可以被多台車輛引用
type Seller struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	Name         string `gorm:"type:text;not null" db:"name" json:"name"`
	ContactEmail string `gorm:"type:text" db:"contact_email" json:"contact_email"`
	Phone        string `gorm:"type:text" db:"phone" json:"phone"`
	Address      string `gorm:"type:text" db:"address" json:"address"`
	About        string `gorm:"type:text" db:"about" json:"about"`
	Photo        string `gorm:"type:text" db:"photo" json:"photo"`
}

func (Seller) TableName() string {
	return "sellers"
}
