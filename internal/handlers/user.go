package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thereayou/inkpost/internal/database"
	"github.com/thereayou/inkpost/internal/imagecache"
	"github.com/thereayou/inkpost/internal/middleware"
	"github.com/thereayou/inkpost/internal/models"
)

const imageCacheControl = "public, max-age=86400"

type UserHandler struct {
	db     *database.Database
	images *imagecache.Cache
}

func NewUserHandler(db *database.Database, images *imagecache.Cache) *UserHandler {
	return &UserHandler{db: db, images: images}
}

// GetMe возвращает информацию о текущем пользователе
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	user, err := h.db.GetUser(userID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, formatUserResponse(user))
}

// UpdateMe обновляет профиль: новый username и/или файл аватара.
// Не переданные поля остаются как были
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	user, err := h.db.GetUser(userID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	// Обновляем только переданные поля.
	// Те же границы длины, что и при регистрации
	if username := c.PostForm("username"); username != "" {
		if n := utf8.RuneCountInString(username); n < 3 || n > 50 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username must be between 3 and 50 characters"})
			return
		}
		user.Username = username
	}

	avatarChanged := false
	if file, header, err := c.Request.FormFile("avatar"); err == nil {
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read avatar file"})
			return
		}

		user.Avatar = data
		user.AvatarContentType = header.Header.Get("Content-Type")
		avatarChanged = true
	}

	if err := h.db.UpdateUser(user); err != nil {
		if errors.Is(err, database.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	if avatarChanged {
		h.images.Invalidate(c.Request.Context(), imagecache.AvatarKey(user.ID.String()))
	}

	c.JSON(http.StatusOK, formatUserResponse(user))
}

// DeleteAvatar очищает аватар; повторный вызов безопасен
func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	user, err := h.db.ClearAvatar(userID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete avatar"})
		return
	}

	h.images.Invalidate(c.Request.Context(), imagecache.AvatarKey(userID.String()))

	c.JSON(http.StatusOK, formatUserResponse(user))
}

// GetAvatar отдает байты аватара с сохраненным content-type
func (h *UserHandler) GetAvatar(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if data, contentType, ok := h.images.Get(ctx, imagecache.AvatarKey(id)); ok {
		c.Header("Cache-Control", imageCacheControl)
		c.Data(http.StatusOK, contentType, data)
		return
	}

	user, err := h.db.GetUser(id)
	if err != nil || !user.HasAvatar() {
		c.JSON(http.StatusNotFound, gin.H{"error": "avatar not found"})
		return
	}

	h.images.Set(ctx, imagecache.AvatarKey(id), user.Avatar, user.AvatarContentType)

	c.Header("Cache-Control", imageCacheControl)
	c.Data(http.StatusOK, user.AvatarContentType, user.Avatar)
}

// formatUserResponse форматирует пользователя без хэша пароля
func formatUserResponse(user *models.User) gin.H {
	avatarURL := ""
	if user.HasAvatar() {
		avatarURL = "/api/auth/avatar/" + user.ID.String()
	}

	return gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"avatar_url": avatarURL,
		"created_at": user.CreatedAt.Format(time.RFC3339),
	}
}
