package handlers

import (
	"context"
	"log"
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

type updateOrderStatusRequest struct {
	OrderStatus string `json:"orderStatus" binding:"required"`
}

// adminNameFallback is rendered when a history entry's actor no longer
// resolves to a user.
const adminNameFallback = "Unknown"

/* =========================
   UPDATE ORDER STATUS
========================= */

// UpdateOrderStatus moves an order through the lifecycle graph. The done
// transition consumes each line item's reservation and marks cod orders paid;
// the cancel transition releases reservations back to available stock. Every
// successful transition appends one status-history entry.
func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /orders/:orderId/status"
		defer handlePanic(c, route)

		userID, ok := middleware.UserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}
		role, _ := middleware.RoleFromContext(c)

		orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
		if err != nil {
			writeOrderError(c, route, validationError{Details: []string{"orderId is not a valid id"}})
			return
		}

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeOrderError(c, route, validationError{Details: collectValidationDetails(err)})
			return
		}

		target := models.OrderStatus(req.OrderStatus)
		if !target.Valid() {
			writeOrderError(c, route, validationError{Details: []string{"orderStatus must be a known order status"}})
			return
		}

		updated, err := applyTransition(c.Request.Context(), db, orderID, userID, role, target)
		if err != nil {
			writeOrderError(c, route, err)
			return
		}

		log.Println("[ORDER] [INFO] order", orderID.Hex(), "moved to", target)
		c.JSON(http.StatusOK, gin.H{
			"message": "order status updated",
			"data":    updated,
		})
	}
}

// applyTransition validates and applies one lifecycle transition inside a
// transaction, so the inventory side effects and the history append are
// all-or-nothing.
func applyTransition(ctx context.Context, db *mongo.Database, orderID, actorID primitive.ObjectID, role models.Role, target models.OrderStatus) (models.Order, error) {
	opCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	session, err := db.Client().StartSession()
	if err != nil {
		return models.Order{}, err
	}
	defer session.EndSession(opCtx)

	var updated models.Order

	_, err = session.WithTransaction(opCtx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		var order models.Order
		err := db.Collection("orders").FindOne(sessCtx, bson.M{"_id": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			return nil, notFoundError{Resource: "order", ID: orderID}
		}
		if err != nil {
			return nil, err
		}

		// once an order has left pending, ordinary users are locked out of
		// further transitions on it
		if !role.IsAdmin() && order.OrderStatus != models.OrderStatusPending {
			return nil, authorizationError{Reason: "you cannot change the status of this order"}
		}

		if !order.OrderStatus.CanTransitionTo(target) {
			return nil, invalidTransitionError{From: order.OrderStatus, To: target}
		}

		set := bson.M{"orderStatus": target}

		switch target {
		case models.OrderStatusDone:
			for _, item := range order.LineItems {
				if err := commitReservation(sessCtx, db, item); err != nil {
					return nil, err
				}
			}
			if order.PaymentMethod == models.PaymentMethodCOD {
				set["paymentStatus"] = models.PaymentStatusPaid
			}
		case models.OrderStatusCancel:
			for _, item := range order.LineItems {
				releaseReservation(sessCtx, db, item)
			}
		}

		entry := models.StatusEntry{
			AdminID:   actorID,
			Status:    target,
			Timestamp: time.Now(),
		}

		err = db.Collection("orders").FindOneAndUpdate(
			sessCtx,
			bson.M{"_id": orderID},
			bson.M{
				"$set":  set,
				"$push": bson.M{"statusHistory": entry},
			},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return models.Order{}, err
	}

	return updated, nil
}

// commitReservation consumes the reservation held for a delivered line item.
// A missing or under-reserved SKU fails the whole transition.
func commitReservation(ctx context.Context, db *mongo.Database, item models.OrderLineItem) error {
	res, err := db.Collection("product_details").UpdateOne(
		ctx,
		bson.M{
			"_id":      item.ProductDetailID,
			"reserved": bson.M{"$gte": item.QuantityOrders},
		},
		bson.M{"$inc": bson.M{"reserved": -item.QuantityOrders}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notFoundError{Resource: "product detail", ID: item.ProductDetailID}
	}
	return nil
}

// releaseReservation returns a canceled line item's reserved quantity to
// available stock. A SKU that has since disappeared does not block the
// cancellation; it is only logged.
func releaseReservation(ctx context.Context, db *mongo.Database, item models.OrderLineItem) {
	res, err := db.Collection("product_details").UpdateOne(
		ctx,
		bson.M{
			"_id":      item.ProductDetailID,
			"reserved": bson.M{"$gte": item.QuantityOrders},
		},
		bson.M{"$inc": bson.M{
			"quantity": item.QuantityOrders,
			"reserved": -item.QuantityOrders,
		}},
	)
	if err != nil {
		log.Println("[ORDER] [ERROR] reservation release failed:", err)
		return
	}
	if res.MatchedCount == 0 {
		log.Println("[ORDER] [ERROR] reservation release skipped, product detail missing:", item.ProductDetailID.Hex())
	}
}

/* =========================
   STATUS HISTORY
========================= */

type statusHistoryEntry struct {
	AdminID   primitive.ObjectID `json:"adminId"`
	AdminName string             `json:"adminName"`
	Status    models.OrderStatus `json:"status"`
	Timestamp time.Time          `json:"timestamp"`
}

// GetOrderStatusHistory returns the ordered transition log with each actor
// resolved to a display name.
func GetOrderStatusHistory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:orderId/status-history"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
		if err != nil {
			writeOrderError(c, route, validationError{Details: []string{"orderId is not a valid id"}})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			writeOrderError(c, route, notFoundError{Resource: "order", ID: orderID})
			return
		}
		if err != nil {
			writeOrderError(c, route, err)
			return
		}

		names, err := resolveActorNames(ctx, db, order.StatusHistory)
		if err != nil {
			writeOrderError(c, route, err)
			return
		}

		history := make([]statusHistoryEntry, 0, len(order.StatusHistory))
		for _, entry := range order.StatusHistory {
			name, ok := names[entry.AdminID]
			if !ok || name == "" {
				name = adminNameFallback
			}
			history = append(history, statusHistoryEntry{
				AdminID:   entry.AdminID,
				AdminName: name,
				Status:    entry.Status,
				Timestamp: entry.Timestamp,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "status history fetched",
			"data": gin.H{
				"orderId":       order.ID.Hex(),
				"statusHistory": history,
			},
		})
	}
}

// resolveActorNames maps the history actors to their full names in one query.
func resolveActorNames(ctx context.Context, db *mongo.Database, entries []models.StatusEntry) (map[primitive.ObjectID]string, error) {
	names := map[primitive.ObjectID]string{}
	if len(entries) == 0 {
		return names, nil
	}

	ids := make([]primitive.ObjectID, 0, len(entries))
	seen := map[primitive.ObjectID]bool{}
	for _, entry := range entries {
		if !seen[entry.AdminID] {
			seen[entry.AdminID] = true
			ids = append(ids, entry.AdminID)
		}
	}

	cursor, err := db.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	for _, user := range users {
		names[user.ID] = user.FullName
	}
	return names, nil
}
