package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title   string    `gorm:"not null"`
	Content string    `gorm:"not null"`

	CoverImage       []byte
	CoverContentType string

	// Автор неизменяем после создания
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time

	// Связи
	Author   User      `gorm:"foreignKey:AuthorID"`
	Comments []Comment `gorm:"foreignKey:PostID"`
	Likes    []User    `gorm:"many2many:post_likes"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// AuthoredBy проверяет, что пост принадлежит пользователю
func (p *Post) AuthoredBy(userID uuid.UUID) bool {
	return p.AuthorID == userID
}

// LikedBy проверяет, лайкнул ли пользователь пост
func (p *Post) LikedBy(userID uuid.UUID) bool {
	for _, u := range p.Likes {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// HasCoverImage проверяет наличие обложки
func (p *Post) HasCoverImage() bool {
	return len(p.CoverImage) > 0
}
