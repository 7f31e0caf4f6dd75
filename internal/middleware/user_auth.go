package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

// UserAuth validates user JWT tokens and injects the userId and role into the
// context.
func UserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, secret) {
			return
		}
		c.Next()
	}
}

// authenticate parses the bearer token and stores userId and role on the
// context. On failure it aborts the request and returns false.
func authenticate(c *gin.Context, secret string) bool {
	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if raw == "" {
		log.Println("[AUTH] [ERROR] missing token")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
		return false
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		log.Println("[AUTH] [ERROR] invalid token format")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
		return false
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		log.Println("[AUTH] [ERROR] token validation failed:", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		log.Println("[AUTH] [ERROR] token claims invalid")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return false
	}

	userIDValue, ok := claims["userId"].(string)
	if !ok || strings.TrimSpace(userIDValue) == "" {
		log.Println("[AUTH] [ERROR] userId claim missing")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return false
	}

	userID, err := primitive.ObjectIDFromHex(userIDValue)
	if err != nil {
		log.Println("[AUTH] [ERROR] invalid userId claim")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return false
	}

	roleValue, _ := claims["role"].(string)
	role := models.Role(roleValue)
	if !role.Valid() {
		log.Println("[AUTH] [ERROR] invalid role claim:", roleValue)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return false
	}

	c.Set("userId", userID)
	c.Set("role", role)
	return true
}
