package handlers

import (
	"context"
	"fmt"
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
	"backend/internal/payment"
)

/* =========================
   REQUEST / RESPONSE DTOs
========================= */

type createOrderLineItemRequest struct {
	ProductDetailID  string  `json:"productDetailId" binding:"required"`
	ProductID        string  `json:"productId" binding:"required"`
	QuantityOrders   int     `json:"quantityOrders" binding:"required"`
	PromotionalPrice float64 `json:"promotionalPrice"`
}

type createOrderRequest struct {
	PaymentMethod string                       `json:"paymentMethod" binding:"required,oneof=cod vnpay"`
	CodeOrders    string                       `json:"codeOrders"`
	LineItems     []createOrderLineItemRequest `json:"productDetails" binding:"required,min=1,dive"`
}

// orderWithRating is an order annotated with the requester's review flag.
type orderWithRating struct {
	models.Order
	IsRated bool `json:"isRated"`
}

/* =========================
   CREATE ORDER
========================= */

func CreateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /create-order"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		userID, ok := middleware.UserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeOrderError(c, route, validationError{Details: collectValidationDetails(err)})
			return
		}

		code := req.CodeOrders
		if models.PaymentMethod(req.PaymentMethod) == models.PaymentMethodCOD {
			code = generateOrderCode(orderCodeLength)
		} else if code == "" {
			writeOrderError(c, route, validationError{Details: []string{"codeOrders is required for vnpay orders"}})
			return
		}

		order, err := placeOrder(c.Request.Context(), db, userID, req, code)
		if err != nil {
			writeOrderError(c, route, err)
			return
		}

		cleanupCartEntries(db, userID, order.LineItems)

		log.Println("[ORDER] [INFO] order created:", order.ID.Hex(), "code:", order.CodeOrders)
		c.JSON(http.StatusCreated, gin.H{
			"message": "order created",
			"data":    order,
		})
	}
}

// CreateOrderVnpay initiates a gateway payment, then finalizes the order with
// the gateway-issued transaction reference as its tracking code.
func CreateOrderVnpay(db *mongo.Database, gateway *payment.VNPayClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /create-order-vnpay"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		userID, ok := middleware.UserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeOrderError(c, route, validationError{Details: collectValidationDetails(err)})
			return
		}
		if models.PaymentMethod(req.PaymentMethod) != models.PaymentMethodVNPay {
			writeOrderError(c, route, validationError{Details: []string{"paymentMethod must be vnpay"}})
			return
		}

		items, details := buildLineItems(req.LineItems)
		if len(details) > 0 {
			writeOrderError(c, route, validationError{Details: details})
			return
		}

		// step one: initiate payment, yielding the reference the order is
		// finalized with
		init := gateway.Initiate(
			computeTotalPrice(items),
			fmt.Sprintf("order for user %s", userID.Hex()),
			c.ClientIP(),
			time.Now(),
		)

		// step two: finalize the order against that reference
		order, err := placeOrder(c.Request.Context(), db, userID, req, init.TxnRef)
		if err != nil {
			writeOrderError(c, route, err)
			return
		}

		cleanupCartEntries(db, userID, order.LineItems)

		log.Println("[ORDER] [INFO] vnpay order created:", order.ID.Hex(), "ref:", init.TxnRef)
		c.JSON(http.StatusCreated, gin.H{
			"message": "order created",
			"data": gin.H{
				"paymentUrl": init.PayURL,
				"order":      order,
			},
		})
	}
}

// placeOrder runs the whole reservation-and-insert sequence in one
// transaction: a failure on any line item leaves no inventory mutated and no
// order persisted.
func placeOrder(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, req createOrderRequest, code string) (models.Order, error) {
	items, details := buildLineItems(req.LineItems)
	if len(details) > 0 {
		return models.Order{}, validationError{Details: details}
	}

	method := models.PaymentMethod(req.PaymentMethod)
	paymentStatus := models.PaymentStatusUnpaid
	if method == models.PaymentMethodVNPay {
		paymentStatus = models.PaymentStatusPaid
	}

	order := models.Order{
		UserID:        userID,
		LineItems:     items,
		TotalPrice:    computeTotalPrice(items),
		PaymentMethod: method,
		PaymentStatus: paymentStatus,
		OrderStatus:   models.OrderStatusPending,
		CodeOrders:    code,
		StatusHistory: []models.StatusEntry{},
		CreatedAt:     time.Now(),
	}

	opCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	session, err := db.Client().StartSession()
	if err != nil {
		return models.Order{}, err
	}
	defer session.EndSession(opCtx)

	_, err = session.WithTransaction(opCtx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		for _, item := range items {
			if err := reserveStock(sessCtx, db, item); err != nil {
				return nil, err
			}
		}

		res, err := db.Collection("orders").InsertOne(sessCtx, order)
		if err != nil {
			return nil, err
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			order.ID = id
		}
		return nil, nil
	})
	if err != nil {
		return models.Order{}, err
	}

	return order, nil
}

// reserveStock moves the ordered quantity from available to reserved in a
// single conditional update; concurrent orders can never drive the available
// quantity negative.
func reserveStock(ctx context.Context, db *mongo.Database, item models.OrderLineItem) error {
	filter := bson.M{
		"_id":      item.ProductDetailID,
		"quantity": bson.M{"$gte": item.QuantityOrders},
	}
	update := bson.M{"$inc": bson.M{
		"quantity": -item.QuantityOrders,
		"reserved": item.QuantityOrders,
	}}

	res, err := db.Collection("product_details").UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// distinguish a missing SKU from one that is merely short on stock
	var detail models.ProductDetail
	err = db.Collection("product_details").FindOne(ctx, bson.M{"_id": item.ProductDetailID}).Decode(&detail)
	if err == mongo.ErrNoDocuments {
		return notFoundError{Resource: "product detail", ID: item.ProductDetailID}
	}
	if err != nil {
		return err
	}
	return insufficientStockError{
		ProductDetailID: item.ProductDetailID,
		Available:       detail.Quantity,
		Requested:       item.QuantityOrders,
	}
}

// cleanupCartEntries removes the requester's cart lines for the ordered
// product details. This runs after the order is committed; a failure here is
// logged but never fails the order.
func cleanupCartEntries(db *mongo.Database, userID primitive.ObjectID, items []models.OrderLineItem) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductDetailID)
	}

	_, err := db.Collection("carts").DeleteMany(ctx, bson.M{
		"user":          userID,
		"productDetail": bson.M{"$in": ids},
	})
	if err != nil {
		log.Println("[ORDER] [ERROR] cart cleanup failed:", err)
	}
}

/* =========================
   GET ORDERS
========================= */

func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		userID, ok := middleware.UserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}
		role, _ := middleware.RoleFromContext(c)

		filter := bson.M{}
		if !role.IsAdmin() {
			filter["user_id"] = userID
		}
		if status := c.Query("status"); status != "" {
			if !models.OrderStatus(status).Valid() {
				writeOrderError(c, route, validationError{Details: []string{"status must be a known order status"}})
				return
			}
			filter["orderStatus"] = status
		}

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			writeOrderError(c, route, validationError{Details: []string{"page and limit must be positive numbers"}})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOpts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip((page - 1) * limit).
			SetLimit(limit)

		cursor, err := db.Collection("orders").Find(ctx, filter, findOpts)
		if err != nil {
			writeOrderError(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			writeOrderError(c, route, err)
			return
		}

		annotated, err := annotateWithRatings(ctx, db, userID, orders)
		if err != nil {
			writeOrderError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "orders fetched",
			"data":    annotated,
		})
	}
}

/* =========================
   GET ORDER DETAIL
========================= */

func GetOrderDetail(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:orderId"
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

		if !role.IsAdmin() && order.UserID != userID {
			writeOrderError(c, route, authorizationError{Reason: "you do not have access to this order"})
			return
		}

		annotated, err := annotateWithRatings(ctx, db, userID, []models.Order{order})
		if err != nil {
			writeOrderError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "order detail fetched",
			"data":    annotated[0],
		})
	}
}

// annotateWithRatings marks each order with whether the requester has
// reviewed any product referenced by its line items, using one reviews query
// for the whole batch.
func annotateWithRatings(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, orders []models.Order) ([]orderWithRating, error) {
	annotated := make([]orderWithRating, 0, len(orders))
	if len(orders) == 0 {
		return annotated, nil
	}

	productIDs := make([]primitive.ObjectID, 0)
	seen := map[primitive.ObjectID]bool{}
	for _, order := range orders {
		for _, item := range order.LineItems {
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				productIDs = append(productIDs, item.ProductID)
			}
		}
	}

	cursor, err := db.Collection("reviews").Find(ctx, bson.M{
		"idAccount": userID,
		"productId": bson.M{"$in": productIDs},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}

	rated := ratedProductSet(reviews)
	for _, order := range orders {
		annotated = append(annotated, orderWithRating{
			Order:   order,
			IsRated: orderIsRated(order, rated),
		})
	}
	return annotated, nil
}
