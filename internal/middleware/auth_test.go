package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, userID primitive.ObjectID, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"userId": userID.Hex(),
		"role":   role,
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("token signing failed: %v", err)
	}
	return token
}

func runMiddleware(t *testing.T, handler gin.HandlerFunc, authHeader string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/orders", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}

	handler(c)
	return w, c
}

func TestUserAuthInjectsIdentity(t *testing.T) {
	userID := primitive.NewObjectID()
	w, c := runMiddleware(t, UserAuth(testSecret), "Bearer "+signedToken(t, userID, "user"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got status %d", w.Code)
	}
	gotID, ok := UserIDFromContext(c)
	if !ok || gotID != userID {
		t.Fatalf("expected userId %s in context, got %v (ok=%v)", userID.Hex(), gotID, ok)
	}
	role, ok := RoleFromContext(c)
	if !ok || role.IsAdmin() {
		t.Fatalf("expected non-admin role in context, got %v (ok=%v)", role, ok)
	}
}

func TestUserAuthRejectsMissingToken(t *testing.T) {
	w, _ := runMiddleware(t, UserAuth(testSecret), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestUserAuthRejectsUnknownRoleClaim(t *testing.T) {
	w, _ := runMiddleware(t, UserAuth(testSecret), "Bearer "+signedToken(t, primitive.NewObjectID(), "superuser"))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown role, got %d", w.Code)
	}
}

func TestAdminAuthRejectsUserRole(t *testing.T) {
	w, _ := runMiddleware(t, AdminAuth(testSecret), "Bearer "+signedToken(t, primitive.NewObjectID(), "user"))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", w.Code)
	}
}

func TestAdminAuthAcceptsAdminRole(t *testing.T) {
	w, _ := runMiddleware(t, AdminAuth(testSecret), "Bearer "+signedToken(t, primitive.NewObjectID(), "admin"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected pass-through for admin, got %d", w.Code)
	}
}
