package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`

	// Аватар хранится прямо в записи пользователя
	Avatar            []byte
	AvatarContentType string

	// Единственный действующий токен сессии; пустая строка = сессии нет
	SessionToken string

	CreatedAt time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Is проверяет, что профиль принадлежит пользователю
func (u *User) Is(userID uuid.UUID) bool {
	return u.ID == userID
}

// HasAvatar проверяет наличие аватара
func (u *User) HasAvatar() bool {
	return len(u.Avatar) > 0
}
