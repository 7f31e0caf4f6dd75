package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/middleware"
	"backend/internal/models"
)

type addCartItemRequest struct {
	ProductDetailID string `json:"productDetailId" binding:"required"`
	Quantity        int    `json:"quantity" binding:"required,gt=0"`
}

// AddCartItem upserts one cart line for the requester; ordering the matching
// product detail later removes it.
func AddCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart"
		defer handlePanic(c, route)

		userID, ok := middleware.UserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeOrderError(c, route, validationError{Details: collectValidationDetails(err)})
			return
		}

		detailID, err := primitive.ObjectIDFromHex(req.ProductDetailID)
		if err != nil {
			writeOrderError(c, route, validationError{Details: []string{"productDetailId is not a valid id"}})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("product_details").CountDocuments(ctx, bson.M{"_id": detailID})
		if err != nil {
			writeOrderError(c, route, err)
			return
		}
		if count == 0 {
			writeOrderError(c, route, notFoundError{Resource: "product detail", ID: detailID})
			return
		}

		_, err = db.Collection("carts").UpdateOne(
			ctx,
			bson.M{"user": userID, "productDetail": detailID},
			bson.M{
				"$set":         bson.M{"quantity": req.Quantity},
				"$setOnInsert": bson.M{"createdAt": time.Now()},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			writeOrderError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "cart updated"})
	}
}

// GetCart lists the requester's cart lines.
func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		userID, ok := middleware.UserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("carts").Find(ctx, bson.M{"user": userID})
		if err != nil {
			writeOrderError(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		var entries []models.Cart
		if err := cursor.All(ctx, &entries); err != nil {
			writeOrderError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "cart fetched",
			"data":    entries,
		})
	}
}
