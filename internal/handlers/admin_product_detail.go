package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
)

type createProductDetailRequest struct {
	ProductID        string  `json:"productId" binding:"required"`
	Size             string  `json:"size"`
	Price            float64 `json:"price" binding:"required,gt=0"`
	PromotionalPrice float64 `json:"promotionalPrice" binding:"gte=0"`
	Quantity         int     `json:"quantity" binding:"gte=0"`
}

type setStockRequest struct {
	Quantity int `json:"quantity" binding:"gte=0"`
}

type updatePricingRequest struct {
	Price            *float64 `json:"price"`
	PromotionalPrice *float64 `json:"promotionalPrice"`
}

// CreateProductDetail seeds one inventory record (SKU).
func CreateProductDetail(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/product-details"
		defer handlePanic(c, route)

		var req createProductDetailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeOrderError(c, route, validationError{Details: collectValidationDetails(err)})
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			writeOrderError(c, route, validationError{Details: []string{"productId is not a valid id"}})
			return
		}

		promotional := req.PromotionalPrice
		if promotional == 0 {
			promotional = req.Price
		}
		if err := validatePricing(req.Price, promotional); err != nil {
			writeOrderError(c, route, validationError{Details: []string{err.Error()}})
			return
		}

		detail := models.ProductDetail{
			ProductID:        productID,
			Size:             req.Size,
			Price:            req.Price,
			PromotionalPrice: promotional,
			Quantity:         req.Quantity,
			Reserved:         0,
			CreatedAt:        time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("product_details").InsertOne(ctx, detail)
		if err != nil {
			writeOrderError(c, route, err)
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			detail.ID = id
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "product detail created",
			"data":    detail,
		})
	}
}

// SetProductDetailStock sets a SKU's available quantity; reservations held by
// open orders are untouched.
func SetProductDetailStock(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/product-details/:id/stock"
		defer handlePanic(c, route)

		detailID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			writeOrderError(c, route, validationError{Details: []string{"id is not a valid id"}})
			return
		}

		var req setStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeOrderError(c, route, validationError{Details: collectValidationDetails(err)})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("product_details").UpdateOne(
			ctx,
			bson.M{"_id": detailID},
			bson.M{"$set": bson.M{"quantity": req.Quantity}},
		)
		if err != nil {
			writeOrderError(c, route, err)
			return
		}
		if res.MatchedCount == 0 {
			writeOrderError(c, route, notFoundError{Resource: "product detail", ID: detailID})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "stock updated"})
	}
}

// UpdateProductDetailPricing applies a partial price update to a SKU. Omitted
// fields keep their stored values.
func UpdateProductDetailPricing(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/product-details/:id/pricing"
		defer handlePanic(c, route)

		detailID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			writeOrderError(c, route, validationError{Details: []string{"id is not a valid id"}})
			return
		}

		var req updatePricingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeOrderError(c, route, validationError{Details: collectValidationDetails(err)})
			return
		}
		if req.Price == nil && req.PromotionalPrice == nil {
			writeOrderError(c, route, validationError{Details: []string{"at least one of price, promotionalPrice is required"}})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var detail models.ProductDetail
		if err := db.Collection("product_details").FindOne(ctx, bson.M{"_id": detailID}).Decode(&detail); err != nil {
			if err == mongo.ErrNoDocuments {
				writeOrderError(c, route, notFoundError{Resource: "product detail", ID: detailID})
				return
			}
			writeOrderError(c, route, err)
			return
		}

		resolved, err := resolvePricingUpdate(detail.Price, detail.PromotionalPrice, pricingUpdateInput{
			Price:            req.Price,
			PromotionalPrice: req.PromotionalPrice,
		})
		if err != nil {
			writeOrderError(c, route, validationError{Details: []string{err.Error()}})
			return
		}

		if _, err := db.Collection("product_details").UpdateOne(
			ctx,
			bson.M{"_id": detailID},
			bson.M{"$set": bson.M{"price": resolved.Price, "promotionalPrice": resolved.PromotionalPrice}},
		); err != nil {
			writeOrderError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "pricing updated",
			"data": gin.H{
				"price":            resolved.Price,
				"promotionalPrice": resolved.PromotionalPrice,
			},
		})
	}
}
