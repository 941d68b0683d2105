package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thereayou/inkpost/internal/database"
	"github.com/thereayou/inkpost/internal/feed"
	"github.com/thereayou/inkpost/internal/handlers/dto"
	"github.com/thereayou/inkpost/internal/imagecache"
	"github.com/thereayou/inkpost/internal/middleware"
	"github.com/thereayou/inkpost/internal/models"
)

type PostHandler struct {
	db     *database.Database
	hub    *feed.Hub
	images *imagecache.Cache
}

func NewPostHandler(db *database.Database, hub *feed.Hub, images *imagecache.Cache) *PostHandler {
	return &PostHandler{db: db, hub: hub, images: images}
}

// CreatePost создает пост; автор — текущий пользователь, навсегда
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	title := strings.TrimSpace(c.PostForm("title"))
	content := strings.TrimSpace(c.PostForm("content"))

	if title == "" || content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and content are required"})
		return
	}

	post := &models.Post{
		Title:     title,
		Content:   content,
		AuthorID:  userID,
		CreatedAt: time.Now(),
	}

	if file, header, err := c.Request.FormFile("cover"); err == nil {
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read cover file"})
			return
		}

		post.CoverImage = data
		post.CoverContentType = header.Header.Get("Content-Type")
	}

	if err := h.db.CreatePost(post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create post"})
		return
	}

	// Загружаем пост с автором для ответа
	fullPost, err := h.db.GetPost(post.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load post"})
		return
	}

	h.hub.Publish(feed.Event{Type: feed.TypePostCreated, PostID: &post.ID, UserID: userID})

	c.JSON(http.StatusCreated, formatPostResponse(fullPost))
}

// GetPosts возвращает все посты, новые первыми
func (h *PostHandler) GetPosts(c *gin.Context) {
	posts, err := h.db.GetAllPosts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get posts"})
		return
	}

	response := make([]gin.H, len(posts))
	for i := range posts {
		response[i] = formatPostResponse(&posts[i])
	}

	c.JSON(http.StatusOK, gin.H{"posts": response})
}

// GetPost возвращает один пост
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.db.GetPost(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	c.JSON(http.StatusOK, formatPostResponse(post))
}

// UpdatePost обновляет только переданные поля; доступно только автору
func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)
	postID := c.Param("id")

	post, err := h.db.GetPost(postID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	if !post.AuthoredBy(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you are not the author of this post"})
		return
	}

	if title := strings.TrimSpace(c.PostForm("title")); title != "" {
		post.Title = title
	}
	if content := strings.TrimSpace(c.PostForm("content")); content != "" {
		post.Content = content
	}

	coverChanged := false
	if file, header, err := c.Request.FormFile("cover"); err == nil {
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read cover file"})
			return
		}

		post.CoverImage = data
		post.CoverContentType = header.Header.Get("Content-Type")
		coverChanged = true
	}

	if err := h.db.UpdatePost(post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update post"})
		return
	}

	if coverChanged {
		h.images.Invalidate(c.Request.Context(), imagecache.CoverKey(postID))
	}

	// Перечитываем пост: лайки и комментарии могли измениться с момента чтения
	updated, err := h.db.GetPost(postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load post"})
		return
	}

	h.hub.Publish(feed.Event{Type: feed.TypePostUpdated, PostID: &updated.ID, UserID: userID})

	c.JSON(http.StatusOK, formatPostResponse(updated))
}

// DeletePost удаляет пост; доступно только автору
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)
	postID := c.Param("id")

	post, err := h.db.GetPost(postID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	if !post.AuthoredBy(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you are not the author of this post"})
		return
	}

	if err := h.db.DeletePost(postID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete post"})
		return
	}

	h.images.Invalidate(c.Request.Context(), imagecache.CoverKey(postID))

	h.hub.Publish(feed.Event{Type: feed.TypePostDeleted, PostID: &post.ID, UserID: userID})

	c.JSON(http.StatusOK, gin.H{"message": "post deleted successfully"})
}

// ToggleLike переключает лайк: повторный вызов снимает его
func (h *PostHandler) ToggleLike(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)
	postID := c.Param("id")

	post, err := h.db.ToggleLike(postID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle like"})
		return
	}

	data, _ := json.Marshal(gin.H{"liked": post.LikedBy(userID)})
	h.hub.Publish(feed.Event{Type: feed.TypePostLiked, PostID: &post.ID, UserID: userID, Data: data})

	c.JSON(http.StatusOK, formatPostResponse(post))
}

// AddComment добавляет комментарий в конец списка
func (h *PostHandler) AddComment(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)
	postID := c.Param("id")

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment text is required"})
		return
	}

	post, err := h.db.AddComment(postID, userID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrEmptyCommentText):
			c.JSON(http.StatusBadRequest, gin.H{"error": "comment text is required"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add comment"})
		}
		return
	}

	h.hub.Publish(feed.Event{Type: feed.TypeCommentAdded, PostID: &post.ID, UserID: userID})

	c.JSON(http.StatusOK, formatPostResponse(post))
}

// GetPostImage отдает байты обложки с сохраненным content-type
func (h *PostHandler) GetPostImage(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if data, contentType, ok := h.images.Get(ctx, imagecache.CoverKey(id)); ok {
		c.Header("Cache-Control", imageCacheControl)
		c.Data(http.StatusOK, contentType, data)
		return
	}

	post, err := h.db.GetPost(id)
	if err != nil || !post.HasCoverImage() {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}

	h.images.Set(ctx, imagecache.CoverKey(id), post.CoverImage, post.CoverContentType)

	c.Header("Cache-Control", imageCacheControl)
	c.Data(http.StatusOK, post.CoverContentType, post.CoverImage)
}

// formatPostResponse форматирует пост с автором, комментариями и лайками
func formatPostResponse(post *models.Post) gin.H {
	coverURL := ""
	if post.HasCoverImage() {
		coverURL = "/api/posts/" + post.ID.String() + "/image"
	}

	comments := make([]gin.H, len(post.Comments))
	for i, comment := range post.Comments {
		comments[i] = gin.H{
			"id":         comment.ID,
			"text":       comment.Text,
			"user":       formatUserResponse(&comment.User),
			"created_at": comment.CreatedAt.Format(time.RFC3339),
		}
	}

	likes := make([]uuid.UUID, len(post.Likes))
	for i, user := range post.Likes {
		likes[i] = user.ID
	}

	return gin.H{
		"id":         post.ID,
		"title":      post.Title,
		"content":    post.Content,
		"cover_url":  coverURL,
		"author":     formatUserResponse(&post.Author),
		"likes":      likes,
		"like_count": len(likes),
		"comments":   comments,
		"created_at": post.CreatedAt.Format(time.RFC3339),
	}
}
