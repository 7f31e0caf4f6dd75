package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

// AdminAuth layers the admin capability check on top of token validation.
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, secret) {
			return
		}

		role, ok := RoleFromContext(c)
		if !ok || !role.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden"})
			return
		}
		c.Next()
	}
}

// RoleFromContext returns the requester role injected by UserAuth.
func RoleFromContext(c *gin.Context) (models.Role, bool) {
	value, exists := c.Get("role")
	if !exists {
		return "", false
	}
	role, ok := value.(models.Role)
	return role, ok
}

// UserIDFromContext returns the requester id injected by UserAuth.
func UserIDFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get("userId")
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}
