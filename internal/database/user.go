package database

import (
	"errors"

	"gorm.io/gorm"

	"github.com/thereayou/inkpost/internal/models"
)

func (d *Database) CreateUser(user *models.User) error {
	return d.db.Create(user).Error
}

func (d *Database) GetUser(id string) (*models.User, error) {
	user := models.User{}
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(email string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByUsername(username string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByIDAndToken находит пользователя только если предъявленный токен
// совпадает с токеном, сохраненным в его записи
func (d *Database) FindUserByIDAndToken(id, token string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Where("id = ? AND session_token = ?", id, token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SetSessionToken сохраняет новый токен сессии, отзывая предыдущий
func (d *Database) SetSessionToken(id, token string) error {
	return d.db.Model(&models.User{}).Where("id = ?", id).Update("session_token", token).Error
}

// ClearSessionToken сбрасывает токен сессии (logout)
func (d *Database) ClearSessionToken(id string) error {
	return d.db.Model(&models.User{}).Where("id = ?", id).Update("session_token", "").Error
}

// UpdateUser сохраняет запись целиком; конфликт уникального индекса
// транслируется в ErrUsernameTaken
func (d *Database) UpdateUser(user *models.User) error {
	if err := d.db.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

// ClearAvatar очищает аватар; повторный вызов безопасен
func (d *Database) ClearAvatar(id string) (*models.User, error) {
	err := d.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"avatar":              nil,
		"avatar_content_type": "",
	}).Error
	if err != nil {
		return nil, err
	}
	return d.GetUser(id)
}
