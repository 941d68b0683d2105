package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	// Автоинкрементный ID задает стабильный порядок комментариев,
	// даже когда несколько записей получают одинаковый created_at
	ID        uint      `gorm:"primaryKey"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	Text      string    `gorm:"not null"`
	CreatedAt time.Time

	// Связи
	User User `gorm:"foreignKey:UserID"`
}
