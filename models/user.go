package models

// User 代表後台管理者帳號，password 只儲存雜湊值
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"type:text;not null;unique;<-:create" json:"username"`
	Password string `gorm:"type:text;not null;<-:create" json:"-"`
}

func (User) TableName() string {
	return "users"
}
