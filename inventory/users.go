package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"dealership/models"
)

// Register 建立後台帳號，帳號重複時回傳 ErrUsernameTaken
func (inv *Inventory) Register(ctx context.Context, username, password string) (int64, error) {
	const op = "Inventory.Register"
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, ErrCredentialsMissing
	}
	hash, err := inv.options.Hasher.Hash(password)
	if err != nil {
		return 0, fmt.Errorf("[%s] Fail to hash password, err=%w", op, err)
	}
	user := &models.User{Username: username, Password: hash}
	err = inv.store.Gorm(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return 0, ErrUsernameTaken
	}
	if err != nil {
		return 0, fmt.Errorf("[%s] Fail to create user, err=%w", op, err)
	}
	return user.ID, nil
}

// Authenticate 驗證帳號密碼，帳號不存在與密碼錯誤都回傳 ErrInvalidCredentials
func (inv *Inventory) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	const op = "Inventory.Authenticate"
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrCredentialsMissing
	}
	var user models.User
	err := inv.store.Gorm(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to find user, err=%w", op, err)
	}
	if err := inv.options.Hasher.Compare(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
