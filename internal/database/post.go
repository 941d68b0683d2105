package database

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thereayou/inkpost/internal/models"
)

func (d *Database) CreatePost(post *models.Post) error {
	return d.db.Create(post).Error
}

// GetPost загружает пост вместе с автором, комментариями и лайками
func (d *Database) GetPost(id string) (*models.Post, error) {
	var post models.Post
	err := d.db.
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC, comments.id ASC")
		}).
		Preload("Comments.User").
		Preload("Likes").
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetAllPosts возвращает посты, новые первыми
func (d *Database) GetAllPosts() ([]models.Post, error) {
	var posts []models.Post
	err := d.db.
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC, comments.id ASC")
		}).
		Preload("Comments.User").
		Preload("Likes").
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost пишет только скалярные поля поста. Save целиком не годится:
// он пересохранил бы загруженные связи и вернул бы лайк,
// снятый параллельным запросом между чтением и записью
func (d *Database) UpdatePost(post *models.Post) error {
	return d.db.Model(&models.Post{}).Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"title":              post.Title,
			"content":            post.Content,
			"cover_image":        post.CoverImage,
			"cover_content_type": post.CoverContentType,
		}).Error
}

// DeletePost удаляет пост вместе с комментариями и лайками
func (d *Database) DeletePost(id string) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Comment{}, "post_id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Model(&post).Association("Likes").Clear(); err != nil {
			return err
		}

		return tx.Delete(&post).Error
	})
}

// ToggleLike атомарно переключает лайк: удаляет строку из post_likes,
// а если удалять было нечего — вставляет ее
func (d *Database) ToggleLike(postID string, userID uuid.UUID) (*models.Post, error) {
	err := d.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, "id = ?", postID).Error; err != nil {
			return err
		}

		res := tx.Exec("DELETE FROM post_likes WHERE post_id = ? AND user_id = ?", postID, userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		return tx.Exec(
			"INSERT INTO post_likes (post_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
			postID, userID,
		).Error
	})
	if err != nil {
		return nil, err
	}

	return d.GetPost(postID)
}

// AddComment добавляет комментарий в конец; текст обрезается,
// пустой текст не принимается
func (d *Database) AddComment(postID string, userID uuid.UUID, text string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyCommentText
	}

	err := d.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, "id = ?", postID).Error; err != nil {
			return err
		}

		comment := models.Comment{
			PostID:    post.ID,
			UserID:    userID,
			Text:      text,
			CreatedAt: time.Now(),
		}

		return tx.Create(&comment).Error
	})
	if err != nil {
		return nil, err
	}

	return d.GetPost(postID)
}
