package handlers

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

const orderCodeLength = 8

const orderCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// generateOrderCode returns a fixed-length alphanumeric tracking code for
// cash-on-delivery orders. Collisions are accepted as negligible; no
// uniqueness check is performed.
func generateOrderCode(length int) string {
	max := big.NewInt(int64(len(orderCodeCharset)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the process is in real trouble
			panic(err)
		}
		code[i] = orderCodeCharset[n.Int64()]
	}
	return string(code)
}

// collectValidationDetails flattens binding errors into one message per
// violation so a bad payload reports everything wrong with it at once.
func collectValidationDetails(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{"invalid request body"}
	}

	details := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		field := lowerCamel(fieldError.Field())
		switch fieldError.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", field))
		case "gt":
			details = append(details, fmt.Sprintf("%s must be greater than %s", field, fieldError.Param()))
		case "gte":
			details = append(details, fmt.Sprintf("%s must be %s or more", field, fieldError.Param()))
		case "min":
			details = append(details, fmt.Sprintf("%s must contain at least %s entries", field, fieldError.Param()))
		case "oneof":
			details = append(details, fmt.Sprintf("%s must be one of [%s]", field, fieldError.Param()))
		default:
			details = append(details, fmt.Sprintf("%s is invalid", field))
		}
	}
	return details
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// buildLineItems converts request line items to model line items, collecting
// every violation rather than stopping at the first.
func buildLineItems(items []createOrderLineItemRequest) ([]models.OrderLineItem, []string) {
	built := make([]models.OrderLineItem, 0, len(items))
	var details []string

	for i, item := range items {
		detailID, err := primitive.ObjectIDFromHex(item.ProductDetailID)
		if err != nil {
			details = append(details, fmt.Sprintf("productDetails[%d].productDetailId is not a valid id", i))
		}
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			details = append(details, fmt.Sprintf("productDetails[%d].productId is not a valid id", i))
		}
		if item.QuantityOrders <= 0 {
			details = append(details, fmt.Sprintf("productDetails[%d].quantityOrders must be greater than 0", i))
		}
		if item.PromotionalPrice < 0 {
			details = append(details, fmt.Sprintf("productDetails[%d].promotionalPrice must not be negative", i))
		}

		built = append(built, models.OrderLineItem{
			ProductDetailID:  detailID,
			ProductID:        productID,
			QuantityOrders:   item.QuantityOrders,
			PromotionalPrice: item.PromotionalPrice,
		})
	}

	if len(details) > 0 {
		return nil, details
	}
	return built, nil
}

// computeTotalPrice sums promotionalPrice x quantityOrders across line items.
// The result is fixed at creation and never recomputed.
func computeTotalPrice(items []models.OrderLineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.PromotionalPrice * float64(item.QuantityOrders)
	}
	return total
}

// ratedProductSet turns the requester's reviews into a productId lookup set.
func ratedProductSet(reviews []models.Review) map[primitive.ObjectID]bool {
	rated := make(map[primitive.ObjectID]bool, len(reviews))
	for _, review := range reviews {
		rated[review.ProductID] = true
	}
	return rated
}

// orderIsRated reports whether at least one of the order's line items points
// at a product the requester has reviewed. The flag is per order, not per
// line item.
func orderIsRated(order models.Order, rated map[primitive.ObjectID]bool) bool {
	for _, item := range order.LineItems {
		if rated[item.ProductID] {
			return true
		}
	}
	return false
}
