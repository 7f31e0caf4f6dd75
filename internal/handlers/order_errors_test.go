package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

func recordOrderError(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	writeOrderError(c, "TEST", err)

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid json: %v", err)
	}
	return w.Code, body
}

func TestWriteOrderErrorValidation(t *testing.T) {
	status, body := recordOrderError(t, validationError{Details: []string{"paymentMethod is required", "productDetails must contain at least 1 entries"}})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if body["name"] != "ValidationError" {
		t.Errorf("expected name ValidationError, got %v", body["name"])
	}
	details, ok := body["message"].([]interface{})
	if !ok || len(details) != 2 {
		t.Errorf("expected message to list both violations, got %v", body["message"])
	}
}

func TestWriteOrderErrorNotFound(t *testing.T) {
	id := primitive.NewObjectID()
	status, body := recordOrderError(t, notFoundError{Resource: "order", ID: id})
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if body["name"] != "NotFoundError" {
		t.Errorf("expected name NotFoundError, got %v", body["name"])
	}
	want := fmt.Sprintf("order %s not found", id.Hex())
	if body["message"] != want {
		t.Errorf("expected message %q, got %v", want, body["message"])
	}
}

func TestWriteOrderErrorInsufficientStock(t *testing.T) {
	status, body := recordOrderError(t, insufficientStockError{
		ProductDetailID: primitive.NewObjectID(),
		Available:       1,
		Requested:       3,
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if body["name"] != "InsufficientStockError" {
		t.Errorf("expected name InsufficientStockError, got %v", body["name"])
	}
	if body["available"] != float64(1) || body["requested"] != float64(3) {
		t.Errorf("expected available=1 requested=3, got %v/%v", body["available"], body["requested"])
	}
}

func TestWriteOrderErrorAuthorization(t *testing.T) {
	status, body := recordOrderError(t, authorizationError{Reason: "order does not belong to requester"})
	if status != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", status)
	}
	if body["name"] != "AuthorizationError" {
		t.Errorf("expected name AuthorizationError, got %v", body["name"])
	}
}

func TestWriteOrderErrorInvalidTransition(t *testing.T) {
	status, body := recordOrderError(t, invalidTransitionError{From: models.OrderStatusDone, To: models.OrderStatusPending})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if body["name"] != "InvalidTransitionError" {
		t.Errorf("expected name InvalidTransitionError, got %v", body["name"])
	}
	if body["message"] != "invalid status transition from done to pending" {
		t.Errorf("unexpected message: %v", body["message"])
	}
}

func TestWriteOrderErrorFallback(t *testing.T) {
	status, body := recordOrderError(t, errors.New("driver blew up"))
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body["name"] != "UnexpectedError" {
		t.Errorf("expected name UnexpectedError, got %v", body["name"])
	}
}
