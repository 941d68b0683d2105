package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thereayou/inkpost/internal/database"
	"github.com/thereayou/inkpost/pkg/auth"
)

const (
	UserIDKey = "userID"
	TokenKey  = "token"
)

// AuthMiddleware проверяет JWT и сверяет его с токеном,
// сохраненным в записи пользователя: активна только последняя сессия,
// logout действует немедленно
func AuthMiddleware(jwtManager *auth.JWTManager, db *database.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			c.Abort()
			return
		}

		resolvePrincipal(c, jwtManager, db, token)
	}
}

// WSAuthMiddleware для WebSocket: токен разрешен также в query-параметре
func WSAuthMiddleware(jwtManager *auth.JWTManager, db *database.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
					token = parts[1]
				}
			}
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		resolvePrincipal(c, jwtManager, db, token)
	}
}

func resolvePrincipal(c *gin.Context, jwtManager *auth.JWTManager, db *database.Database, token string) {
	claims, err := jwtManager.Verify(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		c.Abort()
		return
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
		c.Abort()
		return
	}

	// Подпись валидна, но токен должен быть еще и текущим токеном пользователя
	if _, err := db.FindUserByIDAndToken(userID.String(), token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token not found or expired"})
		c.Abort()
		return
	}

	c.Set(UserIDKey, userID)
	c.Set(TokenKey, token)
	c.Next()
}
