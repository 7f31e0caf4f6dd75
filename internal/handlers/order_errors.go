package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

// The order flows convert every internal failure into one of the typed errors
// below before it reaches the response writer; raw driver errors never leak.

type validationError struct {
	Details []string
}

func (e validationError) Error() string {
	return "validation failed"
}

type notFoundError struct {
	Resource string
	ID       primitive.ObjectID
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID.Hex())
}

type insufficientStockError struct {
	ProductDetailID primitive.ObjectID
	Available       int
	Requested       int
}

func (e insufficientStockError) Error() string {
	return fmt.Sprintf("product detail %s has insufficient stock", e.ProductDetailID.Hex())
}

type authorizationError struct {
	Reason string
}

func (e authorizationError) Error() string {
	return e.Reason
}

type invalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e invalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// writeOrderError maps a typed order error onto the response envelope.
// Anything unrecognized is reported as an unexpected failure.
func writeOrderError(c *gin.Context, route string, err error) {
	var vErr validationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": vErr.Details,
			"name":    "ValidationError",
		})
		return
	}

	var nfErr notFoundError
	if errors.As(err, &nfErr) {
		c.JSON(http.StatusNotFound, gin.H{
			"message": nfErr.Error(),
			"name":    "NotFoundError",
		})
		return
	}

	var stockErr insufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   stockErr.Error(),
			"name":      "InsufficientStockError",
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
		return
	}

	var authErr authorizationError
	if errors.As(err, &authErr) {
		c.JSON(http.StatusForbidden, gin.H{
			"message": authErr.Reason,
			"name":    "AuthorizationError",
		})
		return
	}

	var transErr invalidTransitionError
	if errors.As(err, &transErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": transErr.Error(),
			"name":    "InvalidTransitionError",
		})
		return
	}

	log.Printf("[%s] unexpected error: %v", route, err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"message": err.Error(),
		"name":    "UnexpectedError",
	})
}
