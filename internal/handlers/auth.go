package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/thereayou/inkpost/internal/database"
	"github.com/thereayou/inkpost/internal/handlers/dto"
	"github.com/thereayou/inkpost/internal/middleware"
	"github.com/thereayou/inkpost/internal/models"
	"github.com/thereayou/inkpost/pkg/auth"
)

type AuthHandler struct {
	db         *database.Database
	jwtManager *auth.JWTManager
}

func NewAuthHandler(db *database.Database, jwtMgr *auth.JWTManager) *AuthHandler {
	return &AuthHandler{db: db, jwtManager: jwtMgr}
}

// Register создает пользователя и сразу открывает сессию
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot hash password"})
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := h.db.CreateUser(user); err != nil {
		// Уникальность username/email обеспечивает индекс в базе
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	token, err := h.openSession(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  formatUserResponse(user),
	})
}

// Login проверяет учетные данные и выдает новый токен.
// Ошибка одна и та же для неизвестного email и неверного пароля
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.db.FindUserByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.openSession(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  formatUserResponse(user),
	})
}

// Logout сбрасывает сохраненный токен: старый токен перестает
// проходить проверку сразу, до истечения подписи
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	if err := h.db.ClearSessionToken(userID.String()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to logout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// GetProfile возвращает публичный профиль по username
func (h *AuthHandler) GetProfile(c *gin.Context) {
	username := c.Param("username")

	user, err := h.db.FindUserByUsername(username)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, formatUserResponse(user))
}

// openSession выдает токен и сохраняет его в записи пользователя,
// отзывая предыдущую сессию
func (h *AuthHandler) openSession(user *models.User) (string, error) {
	token, err := h.jwtManager.Generate(user.ID.String())
	if err != nil {
		return "", err
	}

	if err := h.db.SetSessionToken(user.ID.String(), token); err != nil {
		return "", err
	}

	user.SessionToken = token
	return token, nil
}
